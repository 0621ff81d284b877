// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package convstore persists conversations in BadgerDB. Every read and
// mutation is owner-scoped: a conversation that exists but belongs to a
// different user behaves exactly like one that does not exist, so the store
// never acts as an existence oracle across users.
package convstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
)

// Store errors.
var (
	ErrNotFound   = errors.New("conversation not found")
	ErrEmptyTitle = errors.New("title must not be empty")
)

// Key layout. The owner index makes listing a prefix scan instead of a full
// table walk.
const (
	convKeyPrefix  = "conv:"
	ownerKeyPrefix = "conv_owner:"
)

// Store is the BadgerDB-backed conversation store.
type Store struct {
	db *badger.DB
}

// Open creates or opens the store at dir. An empty dir opens an in-memory
// database, used by tests and ephemeral deployments.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open conversation store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func convKey(id string) []byte { return []byte(convKeyPrefix + id) }

func ownerKey(owner, id string) []byte {
	return []byte(ownerKeyPrefix + owner + ":" + id)
}

// Create stores a new conversation for owner and returns it. The title
// defaults to a trimmed derivative of the first user turn.
func (s *Store) Create(ctx context.Context, owner, title string) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ConversationID: uuid.NewString(),
		OwnerUserID:    owner,
		Title:          strings.TrimSpace(title),
		CreatedAt:      now,
		UpdatedAt:      now,
		Turns:          []models.Turn{},
	}
	if conv.Title == "" {
		conv.Title = "New conversation"
	}
	if err := s.put(conv); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().Str("conversation_id", conv.ConversationID).Msg("Conversation created")
	return conv, nil
}

func (s *Store) put(conv *models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(convKey(conv.ConversationID), data); err != nil {
			return fmt.Errorf("set conversation: %w", err)
		}
		if err := txn.Set(ownerKey(conv.OwnerUserID, conv.ConversationID), []byte(conv.ConversationID)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return nil
	})
}

// Get returns one conversation, owner-scoped. Another user's conversation
// id returns ErrNotFound.
func (s *Store) Get(ctx context.Context, owner, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(convKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get conversation: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conv)
		})
	})
	if err != nil {
		return nil, err
	}
	if conv.OwnerUserID != owner {
		return nil, ErrNotFound
	}
	return &conv, nil
}

// List returns the owner's conversation summaries, most recently updated
// first.
func (s *Store) List(ctx context.Context, owner string) ([]models.ConversationSummary, error) {
	var ids []string
	prefix := []byte(ownerKeyPrefix + owner + ":")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]models.ConversationSummary, 0, len(ids))
	for _, id := range ids {
		conv, err := s.Get(ctx, owner, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, conv.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// AppendTurns appends turns to a conversation and bumps its updated
// timestamp. When the conversation has the placeholder title and the first
// turn is from the user, the title is derived from that turn.
func (s *Store) AppendTurns(ctx context.Context, owner, id string, turns ...models.Turn) (*models.Conversation, error) {
	conv, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if len(conv.Turns) == 0 && conv.Title == "New conversation" {
		for _, t := range turns {
			if t.Role == models.TurnRoleUser && strings.TrimSpace(t.Text) != "" {
				conv.Title = deriveTitle(t.Text)
				break
			}
		}
	}
	conv.Turns = append(conv.Turns, turns...)
	conv.UpdatedAt = time.Now().UTC()
	if err := s.put(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Rename sets a conversation title. Empty titles are rejected.
func (s *Store) Rename(ctx context.Context, owner, id, title string) (*models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	conv, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	if err := s.put(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Delete removes a conversation, owner-scoped.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	conv, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(convKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete conversation: %w", err)
		}
		if err := txn.Delete(ownerKey(conv.OwnerUserID, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete owner index: %w", err)
		}
		return nil
	})
}

// deriveTitle trims the first user turn to a short listing title.
func deriveTitle(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	const maxTitle = 60
	if len(text) > maxTitle {
		cut := strings.LastIndex(text[:maxTitle], " ")
		if cut < 20 {
			cut = maxTitle
		}
		text = text[:cut] + "..."
	}
	return text
}
