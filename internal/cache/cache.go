// Package cache provides a best-effort read-through cache gate with explicit
// pattern invalidation.
//
// The gate never surfaces cache-store problems to callers: a reachable store
// speeds reads up, an unreachable one degrades every call to a direct fetch.
// After a few consecutive store failures the gate flags itself unavailable
// and stops talking to the store until a cooldown elapses, which suppresses
// reconnect storms; its own error logging is throttled for the same reason.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ridgeline-transport/admin-api/internal/metrics"
)

const (
	// maxConsecutiveFailures flips the gate to unavailable.
	maxConsecutiveFailures = 3
	// retryCooldown is how long the gate stays dark before probing again.
	retryCooldown = 30 * time.Second
	// logThrottle caps store-error logging to one line per interval.
	logThrottle = 30 * time.Second
)

// Gate fronts data-fetch functions with a best-effort cache.
// A nil-store Gate is valid and permanently bypasses caching.
type Gate struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	failures    int
	unavailable bool
	retryAt     time.Time
	lastLogAt   time.Time
}

// New creates a Gate over a backing store. Pass a nil store to run without
// caching; every lookup then goes straight to the fetcher.
func New(store Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Available reports whether the gate is currently willing to talk to the
// store. During the cooldown after repeated failures this is false; once the
// cooldown elapses the next call probes the store again.
func (g *Gate) Available() bool {
	if g.store == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.unavailable {
		return true
	}
	// Half-open: allow one probe after the cooldown.
	return !g.now().Before(g.retryAt)
}

// markFailure counts a store error and trips the availability flag after
// maxConsecutiveFailures in a row.
func (g *Gate) markFailure(op string, err error) {
	g.mu.Lock()
	g.failures++
	tripped := false
	if g.failures >= maxConsecutiveFailures && !g.unavailable {
		g.unavailable = true
		tripped = true
	}
	if g.unavailable {
		g.retryAt = g.now().Add(retryCooldown)
	}
	shouldLog := g.now().Sub(g.lastLogAt) >= logThrottle
	if shouldLog {
		g.lastLogAt = g.now()
	}
	g.mu.Unlock()

	metrics.RecordCacheOp(op, "error")
	if tripped {
		g.logger.Warn("cache store unavailable, bypassing cache", "op", op, "error", err)
	} else if shouldLog {
		g.logger.Warn("cache store error", "op", op, "error", err)
	}
}

// markSuccess resets the failure streak and restores availability.
func (g *Gate) markSuccess() {
	g.mu.Lock()
	if g.unavailable {
		g.logger.Info("cache store recovered")
	}
	g.failures = 0
	g.unavailable = false
	g.mu.Unlock()
}

// GetCached returns the cached value under key, or calls fetch and caches
// the result for ttl. The only error it can return is the fetcher's own;
// every store problem is absorbed (a failed read is a miss, a failed write
// is dropped).
//
// A cached entry that no longer unmarshals is treated as a miss and the bad
// key is deleted.
func GetCached[T any](ctx context.Context, g *Gate, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if !g.Available() {
		metrics.RecordCacheOp("get", "bypass")
		return fetch(ctx)
	}

	raw, err := g.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			g.markSuccess()
			metrics.RecordCacheOp("get", "hit")
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the fetcher.
		if delErr := g.store.Delete(ctx, key); delErr != nil {
			g.markFailure("delete", delErr)
		}
		g.markSuccess()
		metrics.RecordCacheOp("get", "miss")
	case errors.Is(err, ErrMiss):
		// A miss still proves the store is reachable.
		g.markSuccess()
		metrics.RecordCacheOp("get", "miss")
	default:
		g.markFailure("get", err)
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if g.Available() {
		if data, jsonErr := json.Marshal(value); jsonErr == nil {
			if setErr := g.store.Set(ctx, key, string(data), ttl); setErr != nil {
				g.markFailure("set", setErr)
			} else {
				g.markSuccess()
				metrics.RecordCacheOp("set", "ok")
			}
		}
	}

	return value, nil
}

// Invalidate deletes every key matching a glob-style pattern.
// Best-effort: a no-op when the store is unavailable, and never returns an
// error to the caller.
func (g *Gate) Invalidate(ctx context.Context, pattern string) {
	if !g.Available() {
		metrics.RecordCacheOp("invalidate", "bypass")
		return
	}
	keys, err := g.store.Keys(ctx, pattern)
	if err != nil {
		g.markFailure("invalidate", err)
		return
	}
	if len(keys) > 0 {
		if err := g.store.Delete(ctx, keys...); err != nil {
			g.markFailure("invalidate", err)
			return
		}
	}
	g.markSuccess()
	metrics.RecordCacheOp("invalidate", "ok")
}

// DeleteKey removes a single key. Best-effort, like Invalidate.
func (g *Gate) DeleteKey(ctx context.Context, key string) {
	if !g.Available() {
		metrics.RecordCacheOp("delete", "bypass")
		return
	}
	if err := g.store.Delete(ctx, key); err != nil {
		g.markFailure("delete", err)
		return
	}
	g.markSuccess()
	metrics.RecordCacheOp("delete", "ok")
}

// Key joins segments into a namespaced cache key.
// Listing keys must encode every filter dimension plus page and limit so
// that distinct result sets never collide.
func Key(segments ...string) string {
	return strings.Join(segments, ":")
}

// ListPattern returns the glob covering every listing variant of a resource.
func ListPattern(resource string) string {
	return resource + ":*"
}
