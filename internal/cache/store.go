// Package cache implements the process-local response cache: a keyed,
// TTL-bound store of prior read results in front of the board's bulk-read
// quota, with a stale-fallback read path for callers that tolerate
// slightly-old board state.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached read result. The payload is valid only while
// now − FetchedAt < TTL; outside that window the entry reads as absent for
// fresh lookups but may still serve as a stale fallback.
type Entry struct {
	Key       string
	Payload   []byte
	FetchedAt time.Time
	TTL       time.Duration
}

// FreshAt reports whether the entry is still inside its TTL window.
func (e Entry) FreshAt(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.TTL
}

// Store persists cache entries. Entries are process-local: no
// implementation provides cross-process invalidation, which bounds
// staleness to one process's TTL window.
type Store interface {
	// Get returns the entry for key, fresh or stale, and whether it exists.
	Get(key string) (Entry, bool, error)

	// Put inserts or replaces the entry for its key.
	Put(entry Entry) error

	// Close releases store resources. Idempotent.
	Close() error
}

// MemoryStore keeps entries in an in-process map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for key and whether it exists.
func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

// Put inserts or replaces the entry for its key.
func (s *MemoryStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
