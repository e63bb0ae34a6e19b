// internal/config/config.go
//
// Build configuration for docsmith. Values come from an optional YAML
// file plus command-line overrides; a missing file simply means defaults.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultGalaxyServer is the artifact server queried when the config does
// not name one.
const DefaultGalaxyServer = "https://galaxy.ansible.com"

// Build models the docsmith configuration file.
type Build struct {
	// DepsFile is the dependency descriptor naming the core version and
	// the collections to document.
	DepsFile string `yaml:"deps_file"`
	// DestDir is the root of the rendered documentation tree.
	DestDir string `yaml:"dest_dir"`
	// TempRoot hosts the per-run workspace. Empty means os.TempDir.
	TempRoot string `yaml:"temp_root"`
	// GalaxyServer is the base URL artifacts are downloaded from.
	GalaxyServer string `yaml:"galaxy_server"`
	// Workers sizes the normalization worker pool. Zero means one worker
	// per CPU.
	Workers int `yaml:"workers"`
	// StageTimeout bounds each pipeline stage. Zero disables the
	// deadline.
	StageTimeout Duration `yaml:"stage_timeout"`
}

// Duration decodes YAML scalars like "90s" or "5m" via time.ParseDuration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("stage_timeout must be a duration string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("stage_timeout: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads a Build config from path. A missing file returns defaults.
func Load(path string) (Build, error) {
	cfg := defaultBuild()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Build{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Build{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	// Command-line overrides land after Load; full validation happens
	// once the final values are assembled.
	cfg.applyDefaults()
	cfg.normalize()
	return cfg, nil
}

func defaultBuild() Build {
	cfg := Build{}
	cfg.applyDefaults()
	return cfg
}

func (b *Build) applyDefaults() {
	if b.GalaxyServer == "" {
		b.GalaxyServer = DefaultGalaxyServer
	}
	if b.Workers <= 0 {
		b.Workers = runtime.NumCPU()
	}
	if b.TempRoot == "" {
		b.TempRoot = os.TempDir()
	}
}

func (b *Build) normalize() {
	b.DepsFile = cleanPath(b.DepsFile)
	b.DestDir = cleanPath(b.DestDir)
	b.TempRoot = cleanPath(b.TempRoot)
	b.GalaxyServer = strings.TrimRight(strings.TrimSpace(b.GalaxyServer), "/")
}

// Validate ensures the configuration can drive a run.
func (b Build) Validate() error {
	if b.DepsFile == "" {
		return fmt.Errorf("deps_file is required")
	}
	if b.DestDir == "" {
		return fmt.Errorf("dest_dir is required")
	}
	if b.GalaxyServer == "" {
		return fmt.Errorf("galaxy_server is required")
	}
	if b.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	if b.StageTimeout < 0 {
		return fmt.Errorf("stage_timeout must not be negative")
	}
	return nil
}

func cleanPath(candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return filepath.Clean(trimmed)
	}
	return abs
}
