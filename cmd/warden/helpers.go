// Shared helpers for warden CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/internal/board"
	"github.com/mesh-intelligence/warden/internal/cache"
	"github.com/mesh-intelligence/warden/internal/lifecycle"
	"github.com/mesh-intelligence/warden/internal/logging"
	"github.com/mesh-intelligence/warden/internal/paths"
	"github.com/mesh-intelligence/warden/internal/quota"
	"github.com/mesh-intelligence/warden/pkg/types"
)

// core bundles the wired components a command operates with.
type core struct {
	cfg       types.Config
	logger    *zap.Logger
	client    board.Client
	oracle    quota.Oracle
	gate      *quota.Gate
	emergency *quota.Emergency
	cache     *cache.Cache
	engine    *lifecycle.Engine

	store cache.Store
}

// buildCore wires the board client, admission gate, response cache, and
// lifecycle engine from flags and config. The caller must defer Close.
func buildCore() (*core, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(flagVerbose)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var client board.Client
	switch flagBoard {
	case "memory":
		client = board.NewMemory()
	case "http":
		client = board.NewHTTPClient(cfg.Endpoint, cfg.Token, cfg.BoardID)
	default:
		return nil, fmt.Errorf("unknown board backend %q", flagBoard)
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case types.CacheBackendSQLite:
		cacheDir, err := paths.ResolveCacheDir(flagCacheDir, cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		store, err = cache.OpenSQLiteStore(cacheDir)
		if err != nil {
			return nil, err
		}
	default:
		store = cache.NewMemoryStore()
	}

	oracle := quota.NewOracle(client)
	emergency := quota.NewEmergency(logger)
	gate := quota.NewGate(oracle, emergency, cfg.MinRemaining, logger)
	c := cache.New(store, gate, logger)

	return &core{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		oracle:    oracle,
		gate:      gate,
		emergency: emergency,
		cache:     c,
		engine:    lifecycle.New(client, c, gate, cfg, logger),
		store:     store,
	}, nil
}

// Close releases the cache store and flushes the log stream.
func (c *core) Close() {
	if err := c.store.Close(); err != nil {
		c.logger.Warn("close cache store", zap.Error(err))
	}
	_ = c.logger.Sync()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fail prints the error to stderr and exits with the given code.
func fail(code int, context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)
	os.Exit(code)
}

// staleNote renders the annotation diagnostic output attaches to data
// served past its TTL.
func staleNote(stale bool) string {
	if stale {
		return " (stale cache data)"
	}
	return ""
}
