package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/internal/quota"
	"github.com/mesh-intelligence/warden/pkg/types"
)

// FetchFunc performs the real bulk read when the cache cannot serve.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Result is a cache read outcome. Stale marks payloads served past their
// TTL because a fresh fetch was not admitted; diagnostic callers annotate
// this rather than failing.
type Result struct {
	Payload   []byte
	Stale     bool
	FetchedAt time.Time
}

// Cache is the admission-checked read-through cache. A read resolves in
// this order: fresh cached entry, admitted real fetch, stale cached entry,
// typed failure. A transient quota shortage therefore never crashes a
// caller that can tolerate slightly-stale board state.
type Cache struct {
	store  Store
	gate   *quota.Gate
	logger *zap.Logger
	now    func() time.Time
}

// New creates a cache over the given store and admission gate.
func New(store Store, gate *quota.Gate, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, gate: gate, logger: logger, now: time.Now}
}

// Keys for the board reads the core caches.
func ItemsKey(boardID string) string   { return "items:" + boardID }
func OptionsKey(boardID string) string { return "options:" + boardID }

// GetOrFetch returns the payload for key.
//
// A fresh entry is returned without invoking fetch or consuming quota.
// Otherwise the bulk-read class is asked for admission at minRemaining; if
// admitted, fetch runs and its result replaces the entry. If admission is
// denied — or the fetch itself fails — a stale entry, when present, is
// served with Stale set; with nothing cached the denial or failure
// propagates typed.
func (c *Cache) GetOrFetch(ctx context.Context, operationName, key string, ttl time.Duration, minRemaining int, fetch FetchFunc) (Result, error) {
	entry, found, err := c.store.Get(key)
	if err != nil {
		return Result{}, fmt.Errorf("cache get %s: %w", key, err)
	}
	if found && entry.FreshAt(c.now()) {
		c.logger.Debug("cache hit", zap.String("key", key))
		return Result{Payload: entry.Payload, FetchedAt: entry.FetchedAt}, nil
	}

	payload, fetchErr := c.fetchAdmitted(ctx, operationName, minRemaining, fetch)
	if fetchErr != nil {
		if found {
			c.logger.Warn("serving stale cache entry",
				zap.String("key", key),
				zap.Time("fetched_at", entry.FetchedAt),
				zap.Error(fetchErr),
			)
			return Result{Payload: entry.Payload, Stale: true, FetchedAt: entry.FetchedAt}, nil
		}
		return Result{}, fetchErr
	}

	fetchedAt := c.now()
	if err := c.store.Put(Entry{Key: key, Payload: payload, FetchedAt: fetchedAt, TTL: ttl}); err != nil {
		// The fetched payload is still good; a broken store only costs the
		// next caller a re-fetch.
		c.logger.Warn("cache put failed", zap.String("key", key), zap.Error(err))
	}
	return Result{Payload: payload, FetchedAt: fetchedAt}, nil
}

// Refresh performs an admitted fetch and replaces the entry, never serving
// stale data. Decision-making reads use this so a transition path is never
// computed from an old snapshot.
func (c *Cache) Refresh(ctx context.Context, operationName, key string, ttl time.Duration, minRemaining int, fetch FetchFunc) ([]byte, error) {
	payload, err := c.fetchAdmitted(ctx, operationName, minRemaining, fetch)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(Entry{Key: key, Payload: payload, FetchedAt: c.now(), TTL: ttl}); err != nil {
		c.logger.Warn("cache put failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

// fetchAdmitted runs fetch behind the bulk-read admission gate.
func (c *Cache) fetchAdmitted(ctx context.Context, operationName string, minRemaining int, fetch FetchFunc) ([]byte, error) {
	decision, err := c.gate.Admit(ctx, operationName, types.ClassBulkRead, minRemaining)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s has %d remaining, need %d",
			types.ErrQuotaExhausted, decision.Snapshot.Class, decision.Snapshot.Remaining, minRemaining)
	}
	payload, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", operationName, err)
	}
	return payload, nil
}
