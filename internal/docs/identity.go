// Package docs defines the value types exchanged between the build
// stages: item identities, raw and normalized plugin records, and the
// error map that carries non-fatal diagnostics to the rendered output.
package docs

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used when a plugin name carries fewer than two
// dot-separated components and therefore has no collection of its own.
const DefaultNamespace = "ansible.builtins"

// Identity uniquely names one plugin within a run.
type Identity struct {
	Kind string
	Name string
}

// String renders the identity for diagnostics and log lines.
func (id Identity) String() string {
	return fmt.Sprintf("%s (%s)", id.Name, id.Kind)
}

// Validate ensures both halves of the identity are present.
func (id Identity) Validate() error {
	if strings.TrimSpace(id.Kind) == "" {
		return fmt.Errorf("docs: identity kind is required")
	}
	if strings.TrimSpace(id.Name) == "" {
		return fmt.Errorf("docs: identity name is required for kind %s", id.Kind)
	}
	return nil
}

// Namespace returns the collection portion of the plugin name: the first
// two dot-separated components. Names with fewer than two components fall
// back to DefaultNamespace.
func (id Identity) Namespace() string {
	parts := strings.SplitN(id.Name, ".", 3)
	if len(parts) < 2 {
		return DefaultNamespace
	}
	return parts[0] + "." + parts[1]
}

// ShortName returns the plugin name with its namespace stripped.
func (id Identity) ShortName() string {
	parts := strings.SplitN(id.Name, ".", 3)
	if len(parts) < 3 {
		return id.Name
	}
	return parts[2]
}

// Less orders identities by kind, then name. All stages enumerate their
// inputs in this order so that positional result pairing stays stable.
func (id Identity) Less(other Identity) bool {
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Name < other.Name
}
