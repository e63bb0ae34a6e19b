package docs

// RawRecord holds the three documentation sections of one plugin as they
// were decoded from the installed collection, before any validation.
type RawRecord struct {
	Doc      any `json:"doc" yaml:"documentation"`
	Examples any `json:"examples" yaml:"examples"`
	Return   any `json:"return" yaml:"return"`

	// Deprecated is derived from the on-disk plugin name (leading
	// underscore) rather than from the documentation itself.
	Deprecated bool `json:"deprecated,omitempty" yaml:"-"`
}

// ReturnValue is one validated entry of a plugin's return documentation.
type ReturnValue struct {
	Name        string
	Description []string
	Type        string
	Returned    string
	Sample      any
	// FullKey lists the hierarchical path to this entry, outermost first.
	FullKey  []string
	Contains []ReturnValue
}

// Record is the normalized, fully validated form of a RawRecord. The zero
// value is the empty placeholder used when the primary documentation
// section could not be validated.
type Record struct {
	Doc      map[string]any
	Examples string
	Return   []ReturnValue
}

// IsEmpty reports whether this record is the empty placeholder. A
// successfully normalized record always carries a non-nil Doc map.
func (r Record) IsEmpty() bool {
	return r.Doc == nil
}
