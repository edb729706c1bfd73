package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stempel")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.LoginURL != "http://localhost:8080/login" {
		t.Fatalf("login url should derive from server url, got %q", cfg.LoginURL)
	}
	if cfg.TokenTTL != 10*time.Minute {
		t.Fatalf("expected 10m token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("expected 30s cache ttl, got %v", cfg.CacheTTL)
	}
	if cfg.DataDir != dir {
		t.Fatalf("data dir should default to the config dir, got %q", cfg.DataDir)
	}
	if cfg.Debug {
		t.Fatal("debug should be off by default")
	}
	if _, err := os.Stat(cfg.File); err != nil {
		t.Fatalf("config file should be created: %v", err)
	}
	if cfg.TokenPath() != filepath.Join(dir, "token.json") {
		t.Fatalf("unexpected token path %q", cfg.TokenPath())
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	yml := strings.Join([]string{
		"server_url: https://time.example.com/api/",
		"token_ttl: 5m",
		"cache_ttl: 0s",
		"debug: true",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "stempel.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "https://time.example.com/api" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.ServerURL)
	}
	if cfg.LoginURL != "https://time.example.com/api/login" {
		t.Fatalf("unexpected login url %q", cfg.LoginURL)
	}
	if cfg.TokenTTL != 5*time.Minute || cfg.CacheTTL != 0 || !cfg.Debug {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STEMPEL_SERVER_URL", "http://env:9000")
	t.Setenv("STEMPEL_LOGIN_URL", "http://auth:9001/token")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://env:9000" || cfg.LoginURL != "http://auth:9001/token" {
		t.Fatalf("env should override defaults: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	wd := t.TempDir()
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte("STEMPEL_CACHE_TTL=5s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(wd)
	t.Cleanup(func() { os.Unsetenv("STEMPEL_CACHE_TTL") })

	cfg, err := Load(filepath.Join(wd, "cfg"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Fatalf(".env should set the cache ttl, got %v", cfg.CacheTTL)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stempel.yml"), []byte("token_ttl: -1m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for negative token ttl")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stempel.yml"), []byte("server_url: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(dir) != "stempel" {
		t.Fatalf("unexpected default dir %q", dir)
	}
}
