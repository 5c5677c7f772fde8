package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("configDir() = %q, want suffix .config/%s", dir, appName)
	}

	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)
	dir, err = configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, want)
	}
}

func TestLoadConfig(t *testing.T) {
	home := isolateHome(t)

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != "" {
		t.Errorf("loadConfig() used %q, want defaults", used)
	}
	if cfg.Direction != "right" {
		t.Errorf("default direction = %q, want right", cfg.Direction)
	}

	userCfg := filepath.Join(home, "config", appName, configFileName)
	if err := os.MkdirAll(filepath.Dir(userCfg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userCfg, []byte("direction = \"down\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != userCfg {
		t.Errorf("loadConfig() used %q, want %q", used, userCfg)
	}
	if cfg.Direction != "down" {
		t.Errorf("direction = %q, want down", cfg.Direction)
	}

	bad := filepath.Join(home, "bad.toml")
	if err := os.WriteFile(bad, []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(bad); err == nil {
		t.Error("loadConfig() with unknown key: expected error")
	}
}
