package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(filepath.Dir(path), "studygrid.db") {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.SlotHeight != 1 || cfg.LogLevel != "info" || !cfg.MouseEnabled() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("log_level: verbose\nslot_height: 9\nmouse: false\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.SlotHeight != 3 {
		t.Fatalf("slot height = %d, want clamp to 3", cfg.SlotHeight)
	}
	if cfg.MouseEnabled() {
		t.Fatal("mouse should be disabled")
	}
	if cfg.DBPath == "" || cfg.LogFile == "" {
		t.Fatal("paths should be filled from defaults")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("slot_height: [1"), 0o600)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default(path)
	cfg.SlotHeight = 2
	cfg.LogLevel = "debug"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.SlotHeight != 2 || got.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", got)
	}
}

func TestEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := Save("", &Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skip("no user config dir")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Fatalf("path = %q", path)
	}
}
