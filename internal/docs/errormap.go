package docs

import (
	"sort"
	"sync"
)

// ErrorMap accumulates non-fatal diagnostics keyed by item identity:
// kind, then name, then an ordered list of human-readable messages.
// Entries are append-only; an absent entry means the item produced no
// diagnostics. The map is safe for concurrent appends.
type ErrorMap struct {
	mu      sync.Mutex
	entries map[string]map[string][]string
}

// NewErrorMap returns an empty error map.
func NewErrorMap() *ErrorMap {
	return &ErrorMap{entries: map[string]map[string][]string{}}
}

// Append records one diagnostic for the given identity.
func (m *ErrorMap) Append(id Identity, message string) {
	if m == nil || message == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byName, ok := m.entries[id.Kind]
	if !ok {
		byName = map[string][]string{}
		m.entries[id.Kind] = byName
	}
	byName[id.Name] = append(byName[id.Name], message)
}

// For returns the diagnostics recorded for an identity, in append order.
// The returned slice is a copy; callers may not mutate map state.
func (m *ErrorMap) For(id Identity) []string {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := m.entries[id.Kind][id.Name]
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}

// Len counts the total number of recorded diagnostics.
func (m *ErrorMap) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, byName := range m.entries {
		for _, messages := range byName {
			total += len(messages)
		}
	}
	return total
}

// Walk visits every identity with recorded diagnostics, ordered by kind
// then name. The messages slice passed to fn must not be retained.
func (m *ErrorMap) Walk(fn func(id Identity, messages []string)) {
	if m == nil || fn == nil {
		return
	}
	m.mu.Lock()
	ids := make([]Identity, 0, len(m.entries))
	for kind, byName := range m.entries {
		for name := range byName {
			ids = append(ids, Identity{Kind: kind, Name: name})
		}
	}
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for _, id := range ids {
		fn(id, m.For(id))
	}
}

// Items counts the number of identities with at least one diagnostic.
func (m *ErrorMap) Items() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, byName := range m.entries {
		total += len(byName)
	}
	return total
}
