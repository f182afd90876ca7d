package types

import "errors"

// Config holds the resolved settings the warden core is built from.
type Config struct {
	// Endpoint is the base URL of the board platform's API.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// Token is the bearer token for the board platform.
	Token string `json:"token" yaml:"token"`
	// BoardID selects the shared board all commands operate on.
	BoardID string `json:"board_id" yaml:"board_id"`

	// CacheBackend selects the response cache store.
	CacheBackend string `json:"cache_backend" yaml:"cache_backend"`
	// CacheDir is where the sqlite cache backend keeps its database file.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
	// TTLSeconds bounds how long a cached read result stays fresh.
	TTLSeconds int `json:"ttl_seconds" yaml:"ttl_seconds"`

	// MinRemaining holds the per-class admission floor. Mutate-class
	// minimums are typically stricter: mutate quota recovers more slowly
	// relative to burst usage than read quota does.
	MinRemaining map[QuotaClass]int `json:"min_remaining" yaml:"min_remaining"`
}

// Supported cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrEndpointEmpty       = errors.New("endpoint must not be empty")
	ErrBoardIDEmpty        = errors.New("board id must not be empty")
	ErrCacheBackendUnknown = errors.New("unknown cache backend")
	ErrTTLInvalid          = errors.New("ttl must be positive")
	ErrMinRemainingInvalid = errors.New("min remaining must not be negative")
)

// knownCacheBackends lists the backends that Validate accepts.
var knownCacheBackends = map[string]bool{
	CacheBackendMemory: true,
	CacheBackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEndpointEmpty
	}
	if c.BoardID == "" {
		return ErrBoardIDEmpty
	}
	if !knownCacheBackends[c.CacheBackend] {
		return ErrCacheBackendUnknown
	}
	if c.TTLSeconds <= 0 {
		return ErrTTLInvalid
	}
	for _, min := range c.MinRemaining {
		if min < 0 {
			return ErrMinRemainingInvalid
		}
	}
	return nil
}

// Min returns the configured admission floor for a class, defaulting to
// zero when the class has no explicit entry.
func (c Config) Min(class QuotaClass) int {
	return c.MinRemaining[class]
}
