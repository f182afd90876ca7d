// Config loading for the warden CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/warden/internal/paths"
	"github.com/mesh-intelligence/warden/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyEndpoint     = "endpoint"
	cfgKeyToken        = "token"
	cfgKeyBoardID      = "board_id"
	cfgKeyCacheBackend = "cache_backend"
	cfgKeyCacheDir     = "cache_dir"
	cfgKeyTTLSeconds   = "ttl_seconds"
	cfgKeyMinRead      = "min_remaining.bulk-read"
	cfgKeyMinMutate    = "min_remaining.bulk-mutate"
	cfgKeyMinSearch    = "min_remaining.search"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Warden CLI configuration

# Board platform API
endpoint: https://boards.example.com/api
# token:
# board_id:

# Response cache
cache_backend: memory   # memory or sqlite
# cache_dir:
ttl_seconds: 300

# Per-class admission floors. Mutate stays strict: mutate quota recovers
# slowly relative to burst usage.
min_remaining:
  bulk-read: 50
  bulk-mutate: 100
  search: 5
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyCacheBackend, types.CacheBackendMemory)
	v.SetDefault(cfgKeyTTLSeconds, 300)
	v.SetDefault(cfgKeyMinRead, 50)
	v.SetDefault(cfgKeyMinMutate, 100)
	v.SetDefault(cfgKeyMinSearch, 5)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// resolveConfig builds the validated core Config from config.yaml, flags,
// and the environment. The token may come from WARDEN_TOKEN so schedulers
// can inject it without writing it to disk.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return types.Config{}, err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Endpoint:     v.GetString(cfgKeyEndpoint),
		Token:        v.GetString(cfgKeyToken),
		BoardID:      v.GetString(cfgKeyBoardID),
		CacheBackend: v.GetString(cfgKeyCacheBackend),
		CacheDir:     v.GetString(cfgKeyCacheDir),
		TTLSeconds:   v.GetInt(cfgKeyTTLSeconds),
		MinRemaining: map[types.QuotaClass]int{
			types.ClassBulkRead:   v.GetInt(cfgKeyMinRead),
			types.ClassBulkMutate: v.GetInt(cfgKeyMinMutate),
			types.ClassSearch:     v.GetInt(cfgKeyMinSearch),
		},
	}
	if env := os.Getenv("WARDEN_TOKEN"); env != "" {
		cfg.Token = env
	}
	if flagBoardID != "" {
		cfg.BoardID = flagBoardID
	}
	if flagBoard == "memory" {
		// The dry-run board needs no real endpoint or board id.
		if cfg.Endpoint == "" {
			cfg.Endpoint = "memory"
		}
		if cfg.BoardID == "" {
			cfg.BoardID = "memory"
		}
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
