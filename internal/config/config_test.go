package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================
// LoadOrCreate
// ============================================================

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(dir, AppName, DefaultDBName) {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file should be created: %v", err)
	}
	if !strings.Contains(string(data), "db_path") {
		t.Fatalf("written config missing db_path:\n%s", data)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "db_path = \"/tmp/custom.db\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ExportDir == "" || cfg.LogFile == "" {
		t.Fatal("missing values should fall back to defaults")
	}
}

func TestLoadOrCreateInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("db_path = [unterminated"), 0o644)
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected parse error")
	}
}

// ============================================================
// XDG paths
// ============================================================

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", AppName, "config.toml") {
		t.Fatalf("config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", AppName, "habitgrid.db") {
		t.Fatalf("db path %q", got)
	}
}
