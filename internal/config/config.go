// ABOUTME: Trail configuration management with backend selection
// ABOUTME: Handles settings, environment overrides, and the storage backend factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/charm"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/storage"
)

// Backend names.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Environment overrides.
const (
	EnvBackend = "TRAIL_BACKEND"
	EnvDataDir = "TRAIL_DATA_DIR"
)

// File names inside the data directory.
const (
	badgerDirname  = "paths.badger"
	sqliteFilename = "trail.db"
)

// Config stores trail configuration.
type Config struct {
	// Backend selects the storage backend: "badger" (default), "sqlite" or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data.
	// Badger keeps paths.badger here and SQLite keeps trail.db here.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/trail.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `json:"log_level,omitempty"`

	// CharmHost is the Charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	// AutoSync syncs the charm backend after every write. Defaults to true.
	AutoSync *bool `json:"auto_sync,omitempty"`
}

// GetBackend returns the configured backend, honoring TRAIL_BACKEND.
func (c *Config) GetBackend() string {
	if env := os.Getenv(EnvBackend); env != "" {
		return strings.ToLower(env)
	}
	if c.Backend == "" {
		return BackendBadger
	}
	return c.Backend
}

// GetDataDir returns the data directory with ~ expanded, honoring TRAIL_DATA_DIR.
func (c *Config) GetDataDir() string {
	if env := os.Getenv(EnvDataDir); env != "" {
		return ExpandPath(env)
	}
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetAutoSync reports whether charm writes sync immediately.
func (c *Config) GetAutoSync() bool {
	if c.AutoSync == nil {
		return true
	}
	return *c.AutoSync
}

// GetCharmHost returns the Charm server, falling back to CHARM_HOST and then the default.
func (c *Config) GetCharmHost() string {
	if c.CharmHost != "" {
		return c.CharmHost
	}
	return charm.DefaultConfig().CharmHost
}

// NewLogger builds the process logger at the configured level.
func (c *Config) NewLogger() *log.Logger {
	return logging.New(os.Stderr, c.GetLogLevel())
}

// defaultDataDir returns the default XDG data directory for trail.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trail")
}

// defaultFirstRunConfig keeps SQLite for users who already have a trail.db;
// everyone else starts on Badger.
func defaultFirstRunConfig() *Config {
	dbPath := filepath.Join(defaultDataDir(), sqliteFilename)
	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		return &Config{Backend: BackendSQLite}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	return &Config{Backend: BackendBadger}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates the Store for the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Store, error) {
	return c.OpenBackend(c.GetBackend(), logger)
}

// OpenBackend creates the Store for a named backend using this config's settings.
func (c *Config) OpenBackend(backend string, logger *log.Logger) (storage.Store, error) {
	return c.OpenBackendAt(backend, c.GetDataDir(), logger)
}

// OpenBackendAt opens backend rooted at dataDir instead of the configured directory.
func (c *Config) OpenBackendAt(backend, dataDir string, logger *log.Logger) (storage.Store, error) {
	switch backend {
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, badgerDirname), logger)
	case BackendSQLite:
		return storage.NewSQLiteDB(filepath.Join(dataDir, sqliteFilename), logger)
	case BackendCharm:
		return charm.Open(&charm.Config{
			CharmHost: c.GetCharmHost(),
			AutoSync:  c.GetAutoSync(),
		}, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trail", "config.json")
}

// Load reads config from disk, writing a default config on first run.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(GetConfigPath(), data)
}

// atomicWrite replaces path by renaming a fully written temp file over it.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user config directory
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
