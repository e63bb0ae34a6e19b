// Package schema validates the three documentation sections of a plugin
// record against its kind's schema. Dispatch is an explicit enumerated
// mapping from plugin kind to section validators, built at startup;
// there is no dynamic lookup.
package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/docsmith/docsmith/internal/docs"
)

// Validators bundles the per-section validation functions for one plugin
// kind. Sections are validated in a fixed order: Doc first, then
// Examples, then Return.
type Validators struct {
	// Doc validates the primary documentation section. Failure makes
	// the whole item unrecoverable.
	Doc func(id docs.Identity, raw docs.RawRecord) (map[string]any, error)
	// Examples validates the usage examples section. Failure falls back
	// to the section default ("").
	Examples func(id docs.Identity, raw any) (string, error)
	// Return validates the return-value documentation. Failure falls
	// back to the section default (nil).
	Return func(id docs.Identity, raw any) ([]docs.ReturnValue, error)
}

// Validate ensures all three section validators are present.
func (v Validators) Validate() error {
	if v.Doc == nil {
		return fmt.Errorf("schema: doc validator is required")
	}
	if v.Examples == nil {
		return fmt.Errorf("schema: examples validator is required")
	}
	if v.Return == nil {
		return fmt.Errorf("schema: return validator is required")
	}
	return nil
}

// Registry maintains the kind -> Validators mapping.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]Validators
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: map[string]Validators{}}
}

// Register installs validators for a kind. Returns an error if the kind
// is already registered.
func (r *Registry) Register(kind string, v Validators) error {
	if kind == "" {
		return fmt.Errorf("schema: kind is required")
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("schema: %s: %w", kind, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[kind]; exists {
		return fmt.Errorf("schema: %s already registered", kind)
	}
	r.sets[kind] = v
	return nil
}

// Resolve returns the validators for a kind. Unknown kinds are an error;
// the normalization stage treats that error as an unrecoverable item.
func (r *Registry) Resolve(kind string) (Validators, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.sets[kind]
	if !ok {
		return Validators{}, fmt.Errorf("schema: unknown plugin kind %s", kind)
	}
	return v, nil
}

// Kinds returns the sorted list of registered plugin kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.sets))
	for kind := range r.sets {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// standardKinds enumerates every plugin kind the standard validators
// apply to.
var standardKinds = []string{
	"become",
	"cache",
	"callback",
	"cliconf",
	"connection",
	"filter",
	"httpapi",
	"inventory",
	"lookup",
	"module",
	"netconf",
	"shell",
	"strategy",
	"test",
	"vars",
}

// Default builds the registry used by a normal run: the standard section
// validators registered for every known plugin kind.
func Default() *Registry {
	r := NewRegistry()
	for _, kind := range standardKinds {
		if err := r.Register(kind, Standard()); err != nil {
			panic(err)
		}
	}
	return r
}

// Standard returns the stock section validators.
func Standard() Validators {
	return Validators{
		Doc:      ValidateDoc,
		Examples: ValidateExamples,
		Return:   ValidateReturn,
	}
}
