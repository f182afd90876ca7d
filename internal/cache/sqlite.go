package cache

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// cacheFileName is the database file created inside the cache directory.
const cacheFileName = "warden-cache.db"

// SQLiteStore persists cache entries to a local database file, so the cache
// survives across the short-lived processes a scheduler spawns. It is still
// process-local state: nothing invalidates it across machines.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLiteStore creates the cache directory if needed and opens (or
// initializes) the database inside it.
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, cacheFileName))
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for key and whether it exists.
func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT payload, fetched_at, ttl_ns FROM cache_entries WHERE key = ?`, key)

	var payload []byte
	var fetchedAt, ttl int64
	if err := row.Scan(&payload, &fetchedAt, &ttl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	return Entry{
		Key:       key,
		Payload:   payload,
		FetchedAt: time.Unix(0, fetchedAt).UTC(),
		TTL:       time.Duration(ttl),
	}, true, nil
}

// Put inserts or replaces the entry for its key.
func (s *SQLiteStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO cache_entries (key, payload, fetched_at, ttl_ns)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = excluded.fetched_at,
		   ttl_ns = excluded.ttl_ns`,
		entry.Key, entry.Payload, entry.FetchedAt.UnixNano(), int64(entry.TTL))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Close releases the database handle. Idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
