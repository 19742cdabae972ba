package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected RequestTimeout %v, got %v", 30*time.Second, cfg.RequestTimeout)
	}

	if cfg.PageSize != 20 {
		t.Errorf("expected PageSize 20, got %d", cfg.PageSize)
	}

	if cfg.WatchInterval != 5*time.Minute {
		t.Errorf("expected WatchInterval %v, got %v", 5*time.Minute, cfg.WatchInterval)
	}

	if cfg.Notifications.Enabled {
		t.Error("expected notifications disabled by default")
	}

	if !cfg.Notifications.OnInvalid {
		t.Error("expected OnInvalid to be true by default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	// Load from non-existent file should return defaults
	tmpDir := t.TempDir()
	t.Setenv("LINKTINE_CONFIG_DIR", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected default RequestTimeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LINKTINE_CONFIG_DIR", tmpDir)

	cfg := Default()
	cfg.PageSize = 50
	cfg.WatchInterval = time.Minute
	cfg.Notifications.Enabled = true

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.PageSize != 50 {
		t.Errorf("expected PageSize 50, got %d", loaded.PageSize)
	}
	if loaded.WatchInterval != time.Minute {
		t.Errorf("expected WatchInterval %v, got %v", time.Minute, loaded.WatchInterval)
	}
	if !loaded.Notifications.Enabled {
		t.Error("expected notifications enabled after reload")
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := "page_size: 5\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	if cfg.PageSize != 5 {
		t.Errorf("expected PageSize 5, got %d", cfg.PageSize)
	}

	// Missing values fall back to defaults
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected default RequestTimeout, got %v", cfg.RequestTimeout)
	}
	if cfg.WatchInterval != 5*time.Minute {
		t.Errorf("expected default WatchInterval, got %v", cfg.WatchInterval)
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(path, []byte("{not yaml"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on invalid YAML")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LINKTINE_CONFIG_DIR", tmpDir)

	cfg := Default()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(cfg.FilePath())
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}
