// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package convstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rinkside/rinkside/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	conv, err := s.Create(ctx, "coach_martin", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if conv.ConversationID == "" || conv.Title != "New conversation" {
		t.Errorf("unexpected new conversation: %+v", conv)
	}

	got, err := s.Get(ctx, "coach_martin", conv.ConversationID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OwnerUserID != "coach_martin" || len(got.Turns) != 0 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestOwnerIsolation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	conv, err := s.Create(ctx, "coach_martin", "game plan")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Another user sees not-found, never forbidden, for every operation.
	if _, err := s.Get(ctx, "scout_tremblay", conv.ConversationID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get by non-owner: %v, want ErrNotFound", err)
	}
	if _, err := s.Rename(ctx, "scout_tremblay", conv.ConversationID, "stolen"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename by non-owner: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "scout_tremblay", conv.ConversationID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by non-owner: %v, want ErrNotFound", err)
	}
	if _, err := s.AppendTurns(ctx, "scout_tremblay", conv.ConversationID, models.Turn{Role: models.TurnRoleUser, Text: "hi"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendTurns by non-owner: %v, want ErrNotFound", err)
	}

	// The owner still has it untouched.
	got, err := s.Get(ctx, "coach_martin", conv.ConversationID)
	if err != nil || got.Title != "game plan" {
		t.Errorf("owner lost access: %v %+v", err, got)
	}

	summaries, err := s.List(ctx, "scout_tremblay")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("non-owner listing leaked %d conversations", len(summaries))
	}
}

func TestAppendTurnsDerivesTitle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	conv, _ := s.Create(ctx, "analyst_dubois", "")
	got, err := s.AppendTurns(ctx, "analyst_dubois", conv.ConversationID,
		models.Turn{Role: models.TurnRoleUser, Text: "How is Suzuki trending over the last ten games?", Timestamp: time.Now()},
		models.Turn{Role: models.TurnRoleAssistant, Text: "Trending up.", Timestamp: time.Now()},
	)
	if err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}
	if got.Title == "New conversation" || !strings.Contains(got.Title, "Suzuki") {
		t.Errorf("title not derived from first user turn: %q", got.Title)
	}
	if len(got.Turns) != 2 {
		t.Errorf("expected 2 turns, got %d", len(got.Turns))
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Error("updated timestamp not bumped")
	}
}

func TestRenameValidation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	conv, _ := s.Create(ctx, "coach_martin", "before")
	if _, err := s.Rename(ctx, "coach_martin", conv.ConversationID, "  "); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("empty title should be rejected, got %v", err)
	}
	if _, err := s.Rename(ctx, "coach_martin", "no-such-id", "after"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id should be not found, got %v", err)
	}
	got, err := s.Rename(ctx, "coach_martin", conv.ConversationID, "after")
	if err != nil || got.Title != "after" {
		t.Errorf("rename failed: %v %+v", err, got)
	}
}

func TestListOrdering(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, "coach_martin", "first")
	b, _ := s.Create(ctx, "coach_martin", "second")

	// Touch the older one so it sorts first.
	time.Sleep(5 * time.Millisecond)
	if _, err := s.AppendTurns(ctx, "coach_martin", a.ConversationID, models.Turn{Role: models.TurnRoleUser, Text: "bump"}); err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	summaries, err := s.List(ctx, "coach_martin")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ConversationID != a.ConversationID || summaries[1].ConversationID != b.ConversationID {
		t.Errorf("not ordered by recency: %v", summaries)
	}
	if summaries[0].TurnCount != 1 {
		t.Errorf("turn count = %d, want 1", summaries[0].TurnCount)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	conv, _ := s.Create(ctx, "coach_martin", "gone soon")
	if err := s.Delete(ctx, "coach_martin", conv.ConversationID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "coach_martin", conv.ConversationID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted conversation still readable: %v", err)
	}
	if err := s.Delete(ctx, "coach_martin", conv.ConversationID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be not found, got %v", err)
	}
}
