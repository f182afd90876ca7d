// Package paths resolves configuration and cache directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultCacheDirName is the CWD-relative cache directory.
const DefaultCacheDirName = ".warden-cache"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "WARDEN_CONFIG_DIR"
	EnvCacheDir  = "WARDEN_CACHE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/warden (fallback ~/.config/warden)
// macOS:   ~/Library/Application Support/warden
// Windows: %APPDATA%/warden
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "warden"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "warden"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "warden"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > WARDEN_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveCacheDir returns the cache directory following the precedence
// chain: flag > config.yaml value > WARDEN_CACHE_DIR env > default
// $(CWD)/.warden-cache.
//
// The CWD-relative default keeps each checkout's cache separate; scheduled
// callers run one process per working tree and must not share entries.
func ResolveCacheDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvCacheDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultCacheDirName), nil
}
