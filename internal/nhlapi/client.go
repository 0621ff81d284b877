// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package nhlapi is the read-through proxy over the upstream NHL web API.
//
// Each wrapper validates input, consults the TTL cache, performs a bounded
// outbound GET (following redirects) behind a circuit breaker and rate
// limiter, validates the response shape, normalizes heterogeneous fields,
// and stores the normalized envelope back in the cache.
package nhlapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rinkside/rinkside/internal/cache"
	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/metrics"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Client is the upstream NHL API client.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	cache   *cache.Cache
	ttl     config.CacheConfig
}

// New builds a client from configuration. The http.Client follows
// redirects by default, which the upstream relies on for some gamecenter
// endpoints.
func New(cfg config.NHLConfig, ttl config.CacheConfig, c *cache.Cache) *Client {
	client := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		cache:   c,
		ttl:     ttl,
	}

	if cfg.BreakerEnabled {
		client.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "nhl-upstream",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state change")
			},
		})
	}
	return client
}

// fetch performs one upstream GET and returns the raw body. All error paths
// collapse into the taxonomy of errors.go.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}

	do := func() ([]byte, error) { return c.doGet(ctx, path) }
	if c.breaker == nil {
		return do()
	}

	body, err := c.breaker.Execute(do)
	if err != nil && errors.Is(err, gobreaker.ErrOpenState) {
		return nil, fmt.Errorf("%w: circuit open", ErrBadGateway)
	}
	return body, err
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			logging.Ctx(ctx).Warn().Str("path", path).Dur("elapsed", time.Since(start)).Msg("NHL upstream timeout")
			metrics.RecordUpstream(path, "timeout", time.Since(start))
			return nil, fmt.Errorf("%w: %s", ErrGatewayTimeout, path)
		}
		metrics.RecordUpstream(path, "bad_gateway", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("NHL upstream non-2xx")
		metrics.RecordUpstream(path, "bad_gateway", time.Since(start))
		return nil, &UpstreamStatusError{Endpoint: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		metrics.RecordUpstream(path, "invalid", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}
	metrics.RecordUpstream(path, "ok", time.Since(start))
	return body, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// fetchJSON fetches and decodes into a generic map, enforcing that the body
// is a JSON object.
func (c *Client) fetchJSON(ctx context.Context, path string) (map[string]interface{}, error) {
	body, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out, nil
}

// cached runs compute through the cache under key with the given TTL.
func (c *Client) cached(key string, ttl time.Duration, valid cache.Predicate,
	compute func() (interface{}, error)) (interface{}, error) {
	if c.cache != nil {
		if value, ok := c.cache.GetValidated(key, valid); ok {
			return value, nil
		}
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetWithTTL(key, value, ttl)
	}
	return value, nil
}

func validateDate(date string) error {
	if !dateRe.MatchString(date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrBadRequest, date)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrBadRequest, date)
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrBadRequest, id)
	}
	return nil
}
