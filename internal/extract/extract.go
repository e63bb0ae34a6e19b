// Package extract walks the installed collection tree and loads each
// plugin's embedded documentation into an unvalidated raw record.
//
// Layout expected under the installed root:
//
//	collections/<namespace>.<collection>/plugins/<kind>/<short>.yaml
//
// Each YAML file carries up to three top-level sections: documentation,
// examples, and return.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docsmith/docsmith/internal/docs"
)

// RawRecords loads every plugin doc file beneath installedRoot. Missing
// plugin directories simply contribute no records; an unreadable or
// undecodable file fails extraction, since nothing has been validated
// yet and the stage cannot attribute the damage to a single item.
func RawRecords(installedRoot string) (docs.RawRecords, error) {
	root := filepath.Join(installedRoot, "collections")
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return docs.RawRecords{}, nil
		}
		return nil, fmt.Errorf("extract: read %s: %w", root, err)
	}

	records := docs.RawRecords{}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.Contains(entry.Name(), ".") {
			continue
		}
		collection := entry.Name()
		if err := loadCollection(records, root, collection); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func loadCollection(records docs.RawRecords, root, collection string) error {
	pluginsDir := filepath.Join(root, collection, "plugins")
	kinds, err := os.ReadDir(pluginsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("extract: read %s: %w", pluginsDir, err)
	}
	for _, kindEntry := range kinds {
		if !kindEntry.IsDir() {
			continue
		}
		kind := kindEntry.Name()
		kindDir := filepath.Join(pluginsDir, kind)
		files, err := os.ReadDir(kindDir)
		if err != nil {
			return fmt.Errorf("extract: read %s: %w", kindDir, err)
		}
		for _, file := range files {
			if file.IsDir() || !isYAMLFile(file.Name()) {
				continue
			}
			path := filepath.Join(kindDir, file.Name())
			short := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))

			// A leading underscore marks the plugin deprecated; the
			// published name drops it.
			deprecated := strings.HasPrefix(short, "_")
			short = strings.TrimPrefix(short, "_")

			record, err := loadRecord(path)
			if err != nil {
				return err
			}
			record.Deprecated = deprecated
			id := docs.Identity{Kind: kind, Name: collection + "." + short}
			records.Add(id, record)
		}
	}
	return nil
}

func loadRecord(path string) (docs.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docs.RawRecord{}, fmt.Errorf("extract: read %s: %w", path, err)
	}
	var record docs.RawRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return docs.RawRecord{}, fmt.Errorf("extract: decode %s: %w", path, err)
	}
	return record, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
