// Package depsfile parses the dependency descriptor that names the core
// platform version and the exact collection versions to document.
package depsfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Deps is the parsed dependency descriptor.
type Deps struct {
	// CoreVersion pins the mandatory base platform artifact.
	CoreVersion string `yaml:"core"`
	// Collections maps collection name to its pinned version.
	Collections map[string]string `yaml:"collections"`
}

// Parse decodes and validates a dependency descriptor payload.
func Parse(data []byte) (Deps, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Deps{}, fmt.Errorf("depsfile: descriptor payload is empty")
	}
	var deps Deps
	if err := yaml.Unmarshal(data, &deps); err != nil {
		return Deps{}, fmt.Errorf("depsfile: decode descriptor: %w", err)
	}
	deps = deps.normalized()
	if err := deps.Validate(); err != nil {
		return Deps{}, err
	}
	return deps, nil
}

// Load reads a dependency descriptor from disk.
func Load(path string) (Deps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deps{}, fmt.Errorf("depsfile: read %s: %w", path, err)
	}
	deps, err := Parse(data)
	if err != nil {
		return Deps{}, fmt.Errorf("depsfile: %s: %w", path, err)
	}
	return deps, nil
}

func (d Deps) normalized() Deps {
	clone := Deps{CoreVersion: strings.TrimSpace(d.CoreVersion)}
	if len(d.Collections) > 0 {
		clone.Collections = make(map[string]string, len(d.Collections))
		for name, version := range d.Collections {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				continue
			}
			clone.Collections[trimmed] = strings.TrimSpace(version)
		}
	}
	return clone
}

// Validate ensures the descriptor can drive an acquisition stage.
func (d Deps) Validate() error {
	if d.CoreVersion == "" {
		return fmt.Errorf("depsfile: core version is required")
	}
	for name, version := range d.Collections {
		if version == "" {
			return fmt.Errorf("depsfile: version is required for collection %s", name)
		}
		if strings.Count(name, ".") != 1 {
			return fmt.Errorf("depsfile: collection %s must be namespace.name", name)
		}
	}
	return nil
}
