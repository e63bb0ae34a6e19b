package depsfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDeps = `core: 2.11.0
collections:
  ns.coll: "1.0.0"
  other.things: "2.3.1"
`

func TestParse(t *testing.T) {
	deps, err := Parse([]byte(sampleDeps))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if deps.CoreVersion != "2.11.0" {
		t.Fatalf("unexpected core version: %s", deps.CoreVersion)
	}
	if len(deps.Collections) != 2 || deps.Collections["ns.coll"] != "1.0.0" {
		t.Fatalf("unexpected collections: %v", deps.Collections)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatalf("expected empty payload to fail")
	}
	if _, err := Parse([]byte("collections:\n  ns.coll: \"1.0.0\"\n")); err == nil {
		t.Fatalf("expected missing core version to fail")
	}
	if _, err := Parse([]byte("core: 2.11.0\ncollections:\n  ns.coll: \"\"\n")); err == nil {
		t.Fatalf("expected missing collection version to fail")
	}
	if _, err := Parse([]byte("core: 2.11.0\ncollections:\n  badname: \"1.0\"\n")); err == nil {
		t.Fatalf("expected malformed collection name to fail")
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deps.yaml")
	if err := os.WriteFile(path, []byte(sampleDeps), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	deps, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if deps.CoreVersion != "2.11.0" {
		t.Fatalf("unexpected core version: %s", deps.CoreVersion)
	}
	if _, err := Load(filepath.Join(root, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}
