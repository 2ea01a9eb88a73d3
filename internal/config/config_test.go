// ABOUTME: Tests for trail config functionality
// ABOUTME: Verifies config load, save, path resolution, defaults, and backend factory

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath returned non-absolute path: %s", path)
	}
}

func TestGetConfigPathWithXDGConfigHome(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	path := GetConfigPath()
	if !strings.HasPrefix(path, tmpDir) {
		t.Errorf("GetConfigPath should use XDG_CONFIG_HOME, got %s", path)
	}
	if !strings.HasSuffix(path, filepath.Join("trail", "config.json")) {
		t.Errorf("GetConfigPath should end with trail/config.json, got %s", path)
	}
}

func TestGetConfigPathWithoutXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	// Should fall back to ~/.config
	if !strings.Contains(path, ".config") {
		t.Errorf("GetConfigPath should use .config fallback, got %s", path)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed on non-existent config: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.Backend != BackendBadger {
		t.Errorf("expected default backend 'badger' for new user, got %q", cfg.Backend)
	}

	// Verify config file was auto-created
	configPath := GetConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("expected config file to be auto-created on first run")
	}
}

func TestLoadExistingSQLiteUser(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	// Create a fake trail.db to simulate an existing SQLite user
	dataDir := filepath.Join(tmpDir, "trail")
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	dbPath := filepath.Join(dataDir, "trail.db")
	if err := os.WriteFile(dbPath, []byte("fake-sqlite-db"), 0600); err != nil {
		t.Fatalf("failed to create fake db: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("expected backend 'sqlite' for existing SQLite user, got %q", cfg.Backend)
	}
}

func TestLoadAutoCreatedConfigIsValidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	_, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	configPath := GetConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read auto-created config: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("auto-created config is not valid JSON: %v", err)
	}
	if raw["backend"] != "badger" {
		t.Errorf("expected auto-created config backend 'badger', got %v", raw["backend"])
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "trail")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte("invalid json {{{"), 0600); err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	_, err := Load()
	if err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded == nil {
		t.Error("loaded config is nil")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	configDir := filepath.Join(tmpDir, "trail")
	info, err := os.Stat(configDir)
	if err != nil {
		t.Errorf("Config directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Config path is not a directory")
	}
}

func TestDefaultBackend(t *testing.T) {
	t.Setenv(EnvBackend, "")
	cfg := &Config{}
	backend := cfg.GetBackend()
	if backend != "badger" {
		t.Errorf("expected default backend 'badger', got %q", backend)
	}
}

func TestExplicitBackend(t *testing.T) {
	t.Setenv(EnvBackend, "")
	cfg := &Config{Backend: "sqlite"}
	backend := cfg.GetBackend()
	if backend != "sqlite" {
		t.Errorf("expected backend 'sqlite', got %q", backend)
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	cfg := &Config{}
	dataDir := cfg.GetDataDir()
	if dataDir == "" {
		t.Error("GetDataDir returned empty string")
	}
	if !filepath.IsAbs(dataDir) {
		t.Errorf("GetDataDir returned non-absolute path: %s", dataDir)
	}
	// Should end with "trail" directory
	if filepath.Base(dataDir) != "trail" {
		t.Errorf("GetDataDir should end with 'trail', got %s", dataDir)
	}
}

func TestExplicitDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	cfg := &Config{DataDir: "/custom/data/path"}
	dataDir := cfg.GetDataDir()
	if dataDir != "/custom/data/path" {
		t.Errorf("expected '/custom/data/path', got %q", dataDir)
	}
}

func TestDataDirTildeExpansion(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot get home dir: %v", err)
	}

	cfg := &Config{DataDir: "~/my-trail-data"}
	dataDir := cfg.GetDataDir()
	expected := filepath.Join(home, "my-trail-data")
	if dataDir != expected {
		t.Errorf("expected %q, got %q", expected, dataDir)
	}
}

func TestDataDirTildeOnlyExpansion(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot get home dir: %v", err)
	}

	cfg := &Config{DataDir: "~"}
	dataDir := cfg.GetDataDir()
	if dataDir != home {
		t.Errorf("expected %q, got %q", home, dataDir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot get home dir: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		result := ExpandPath(tt.input)
		if result != tt.expected {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestSaveAndLoadWithBackendFields(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{
		Backend: "charm",
		DataDir: "/custom/data",
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Backend != "charm" {
		t.Errorf("expected backend 'charm', got %q", loaded.Backend)
	}
	if loaded.DataDir != "/custom/data" {
		t.Errorf("expected data_dir '/custom/data', got %q", loaded.DataDir)
	}
}

func TestSaveAndLoadPreservesJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{
		Backend: "sqlite",
		DataDir: "~/my-data",
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw JSON: %v", err)
	}

	if raw["backend"] != "sqlite" {
		t.Errorf("expected JSON key 'backend' with value 'sqlite', got %v", raw["backend"])
	}
	if raw["data_dir"] != "~/my-data" {
		t.Errorf("expected JSON key 'data_dir' with value '~/my-data', got %v", raw["data_dir"])
	}
}

func TestOpenStorageSqliteBackend(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		Backend: "sqlite",
		DataDir: tmpDir,
	}

	store, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage failed for sqlite: %v", err)
	}
	defer store.Close()
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		DataDir: tmpDir,
	}

	store, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage failed for default backend: %v", err)
	}
	defer store.Close()
}

func TestOpenStorageBadgerBackend(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{
		Backend: "badger",
		DataDir: tmpDir,
	}

	store, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage failed for badger backend: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "paths.badger")); err != nil {
		t.Errorf("expected badger directory in data dir: %v", err)
	}
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	cfg := &Config{
		Backend: "redis",
		DataDir: "/tmp/trail-test",
	}

	_, err := cfg.OpenStorage(nil)
	if err == nil {
		t.Fatal("expected error for unknown backend, got nil")
	}
	if !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected 'unknown backend' error, got: %v", err)
	}
}

func TestOpenStorageSqliteCreatesDBInDataDir(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		Backend: "sqlite",
		DataDir: tmpDir,
	}

	store, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer store.Close()

	dbPath := filepath.Join(tmpDir, "trail.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("expected database file at %s", dbPath)
	}
}

func TestSaveToUnwritableDirectory(t *testing.T) {
	// A regular file where the config directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create blocker: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", blocker)

	cfg := &Config{}
	err := cfg.Save()

	if err == nil {
		t.Error("Expected error when saving to unwritable directory")
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvBackend, "SQLite")
	t.Setenv(EnvDataDir, tmpDir)

	cfg := &Config{Backend: "badger", DataDir: "/somewhere/else"}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("expected env backend 'sqlite', got %q", got)
	}
	if got := cfg.GetDataDir(); got != tmpDir {
		t.Errorf("expected env data dir %q, got %q", tmpDir, got)
	}
}

func TestGetAutoSyncDefault(t *testing.T) {
	cfg := &Config{}
	if !cfg.GetAutoSync() {
		t.Error("expected auto sync to default to true")
	}

	off := false
	cfg.AutoSync = &off
	if cfg.GetAutoSync() {
		t.Error("expected explicit auto_sync false to be honored")
	}
}

func TestGetLogLevelDefault(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "info" {
		t.Errorf("expected default log level 'info', got %q", got)
	}
	if got := (&Config{LogLevel: "debug"}).GetLogLevel(); got != "debug" {
		t.Errorf("expected log level 'debug', got %q", got)
	}
}

func TestGetCharmHost(t *testing.T) {
	t.Setenv("CHARM_HOST", "")
	if got := (&Config{}).GetCharmHost(); got != "charm.2389.dev" {
		t.Errorf("expected default charm host, got %q", got)
	}
	if got := (&Config{CharmHost: "charm.example.com"}).GetCharmHost(); got != "charm.example.com" {
		t.Errorf("expected configured charm host, got %q", got)
	}
}

func TestOpenBackendIgnoresConfiguredBackend(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: tmpDir}

	store, err := cfg.OpenBackend(BackendSQLite, nil)
	if err != nil {
		t.Fatalf("OpenBackend failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "trail.db")); err != nil {
		t.Errorf("expected sqlite file: %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "trail"))
	if err != nil {
		t.Fatalf("read config dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		t.Errorf("expected only config.json, got %v", entries)
	}
}

func TestOpenBackendAtUsesGivenDirectory(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	configured := t.TempDir()
	target := t.TempDir()
	cfg := &Config{DataDir: configured}

	store, err := cfg.OpenBackendAt(BackendBadger, target, nil)
	if err != nil {
		t.Fatalf("OpenBackendAt failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(target, "paths.badger")); err != nil {
		t.Errorf("expected badger dir in target: %v", err)
	}
	if _, err := os.Stat(filepath.Join(configured, "paths.badger")); !os.IsNotExist(err) {
		t.Errorf("configured dir should be untouched, stat err: %v", err)
	}
}
