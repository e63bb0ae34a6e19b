package schema

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/docsmith/docsmith/internal/docs"
)

func decodeSection(t *testing.T, payload string) any {
	t.Helper()
	var value any
	if err := yaml.Unmarshal([]byte(payload), &value); err != nil {
		t.Fatalf("decode section: %v", err)
	}
	return value
}

func testIdentity() docs.Identity {
	return docs.Identity{Kind: "module", Name: "ns.coll.foo"}
}

func TestValidateDoc(t *testing.T) {
	raw := docs.RawRecord{Doc: decodeSection(t, `
short_description: Manage foo resources.
description: Creates foo resources.
author: Jo Doe
options:
  state:
    description: Desired state.
    required: true
    type: bool
    default: "yes"
`)}
	doc, err := ValidateDoc(testIdentity(), raw)
	if err != nil {
		t.Fatalf("validate doc: %v", err)
	}
	if doc["short_description"] != "Manage foo resources" {
		t.Fatalf("expected trailing period trimmed, got %v", doc["short_description"])
	}
	description, ok := doc["description"].([]string)
	if !ok || len(description) != 1 {
		t.Fatalf("expected description coerced to list, got %v", doc["description"])
	}
	if doc["module"] != "ns.coll.foo" || doc["collection"] != "ns.coll" || doc["plugin_type"] != "module" {
		t.Fatalf("missing injected fields: %v", doc)
	}
	keys, ok := doc["option_keys"].([]string)
	if !ok || len(keys) != 1 || keys[0] != "state" {
		t.Fatalf("unexpected option keys: %v", doc["option_keys"])
	}
	options := doc["options"].(map[string]any)
	state := options["state"].(map[string]any)
	if state["default"] != true {
		t.Fatalf("expected bool default canonicalized, got %v", state["default"])
	}
}

func TestValidateDocFailures(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"missing section", "", "documentation section missing"},
		{"missing short description", "description: x\n", "short_description is required"},
		{"bad description type", "short_description: ok\ndescription: 5\n", "description"},
		{"null options", "short_description: ok\noptions:\n", "options must be a mapping"},
		{"option without description", "short_description: ok\noptions:\n  state:\n    type: str\n", "missing required description"},
		{"non-bool required", "short_description: ok\noptions:\n  state:\n    description: d\n    required: sometimes\n", "must be a boolean"},
		{"scalar suboptions", "short_description: ok\noptions:\n  login:\n    description: d\n    suboptions: nope\n", "suboptions for option login"},
		{"suboption without description", "short_description: ok\noptions:\n  login:\n    description: d\n    suboptions:\n      host:\n        type: str\n", "missing required description for option login/host"},
	}
	for _, tc := range cases {
		raw := docs.RawRecord{}
		if tc.payload != "" {
			raw.Doc = decodeSection(t, tc.payload)
		}
		_, err := ValidateDoc(testIdentity(), raw)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected %q in error, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestValidateDocSuboptions(t *testing.T) {
	raw := docs.RawRecord{Doc: decodeSection(t, `
short_description: Manage foo resources.
options:
  login:
    description: Connection settings.
    suboptions:
      host:
        description: Server hostname.
        type: str
      verify:
        description: Verify certificates.
        type: bool
        default: "no"
`)}
	doc, err := ValidateDoc(testIdentity(), raw)
	if err != nil {
		t.Fatalf("validate doc: %v", err)
	}
	options := doc["options"].(map[string]any)
	login := options["login"].(map[string]any)
	if key := login["full_key"].([]string); len(key) != 1 || key[0] != "login" {
		t.Fatalf("unexpected full key for login: %v", key)
	}
	sub := login["suboptions"].(map[string]any)
	host := sub["host"].(map[string]any)
	key := host["full_key"].([]string)
	if len(key) != 2 || key[0] != "login" || key[1] != "host" {
		t.Fatalf("unexpected full key for host: %v", key)
	}
	if description, ok := host["description"].([]string); !ok || len(description) != 1 {
		t.Fatalf("expected suboption description coerced to list, got %v", host["description"])
	}
	verify := sub["verify"].(map[string]any)
	if verify["default"] != false {
		t.Fatalf("expected suboption bool default canonicalized, got %v", verify["default"])
	}
}

func TestValidateDocDeprecated(t *testing.T) {
	raw := docs.RawRecord{
		Doc:        decodeSection(t, "short_description: Old thing\n"),
		Deprecated: true,
	}
	doc, err := ValidateDoc(testIdentity(), raw)
	if err != nil {
		t.Fatalf("validate doc: %v", err)
	}
	if doc["deprecated"] != true {
		t.Fatalf("expected deprecated flag carried into doc")
	}
	author := doc["author"].([]string)
	if len(author) != 1 || author[0] != "UNKNOWN" {
		t.Fatalf("expected author defaulted, got %v", author)
	}
}

func TestValidateExamples(t *testing.T) {
	if examples, err := ValidateExamples(testIdentity(), nil); err != nil || examples != "" {
		t.Fatalf("nil examples should default: %q %v", examples, err)
	}
	if examples, err := ValidateExamples(testIdentity(), "- name: x"); err != nil || examples != "- name: x" {
		t.Fatalf("string examples should pass through: %q %v", examples, err)
	}
	if _, err := ValidateExamples(testIdentity(), decodeSection(t, "- name: x\n")); err == nil {
		t.Fatalf("expected non-string examples to fail")
	}
}

func TestValidateReturn(t *testing.T) {
	section := decodeSection(t, `
databases:
  description: Databases owned.
  type: list
  returned: success
  contains:
    database_name:
      description: Name of the database.
      contains:
        access_priv:
          description: Privilege string.
`)
	values, err := ValidateReturn(testIdentity(), section)
	if err != nil {
		t.Fatalf("validate return: %v", err)
	}
	if len(values) != 1 || values[0].Name != "databases" {
		t.Fatalf("unexpected values: %+v", values)
	}
	nested := values[0].Contains[0]
	if nested.Name != "database_name" {
		t.Fatalf("unexpected nested entry: %+v", nested)
	}
	leaf := nested.Contains[0]
	want := []string{"databases", "database_name", "access_priv"}
	if len(leaf.FullKey) != len(want) {
		t.Fatalf("unexpected full key: %v", leaf.FullKey)
	}
	for i := range want {
		if leaf.FullKey[i] != want[i] {
			t.Fatalf("unexpected full key: %v", leaf.FullKey)
		}
	}
}

func TestValidateReturnFailures(t *testing.T) {
	if _, err := ValidateReturn(testIdentity(), "not a mapping"); err == nil {
		t.Fatalf("expected scalar return docs to fail")
	}
	if _, err := ValidateReturn(testIdentity(), decodeSection(t, "key:\n  description: 7\n")); err == nil {
		t.Fatalf("expected bad description type to fail")
	}
	if values, err := ValidateReturn(testIdentity(), nil); err != nil || values != nil {
		t.Fatalf("nil return docs should default: %v %v", values, err)
	}
}

func TestRegistry(t *testing.T) {
	r := Default()
	if _, err := r.Resolve("module"); err != nil {
		t.Fatalf("expected module kind registered: %v", err)
	}
	if _, err := r.Resolve("quantum"); err == nil {
		t.Fatalf("expected unknown kind to fail resolution")
	}
	if err := r.Register("module", Standard()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := r.Register("", Standard()); err == nil {
		t.Fatalf("expected empty kind to fail")
	}
	if err := NewRegistry().Register("custom", Validators{}); err == nil {
		t.Fatalf("expected incomplete validators to fail")
	}
	kinds := r.Kinds()
	if len(kinds) != len(standardKinds) {
		t.Fatalf("expected %d kinds, got %d", len(standardKinds), len(kinds))
	}
}
