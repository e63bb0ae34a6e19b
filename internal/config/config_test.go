package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `deps_file: deps.yaml
dest_dir: build/docs
galaxy_server: https://galaxy.example.com/
workers: 4
stage_timeout: 90s
`

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "docsmith.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.StageTimeout.Std() != 90*time.Second {
		t.Fatalf("expected 90s stage timeout, got %s", cfg.StageTimeout.Std())
	}
	if cfg.GalaxyServer != "https://galaxy.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.GalaxyServer)
	}
	if !filepath.IsAbs(cfg.DestDir) {
		t.Fatalf("expected dest dir made absolute, got %s", cfg.DestDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config should fall back to defaults: %v", err)
	}
	if cfg.GalaxyServer != DefaultGalaxyServer {
		t.Fatalf("expected default server, got %s", cfg.GalaxyServer)
	}
	if cfg.Workers < 1 {
		t.Fatalf("expected at least one worker, got %d", cfg.Workers)
	}
}

func TestLoadConfigBadTimeout(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "docsmith.yaml")
	if err := os.WriteFile(path, []byte("stage_timeout: soon\n"), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unparsable timeout to fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := Build{DepsFile: "/tmp/deps.yaml", DestDir: "/tmp/docs", GalaxyServer: "https://galaxy.example.com", Workers: 1}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cfg.DepsFile = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing deps_file to fail")
	}
}
