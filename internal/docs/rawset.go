package docs

import "sort"

// RawRecords partitions unvalidated records by kind, then plugin name.
type RawRecords map[string]map[string]RawRecord

// Add stores one record, creating the kind bucket when needed.
func (r RawRecords) Add(id Identity, record RawRecord) {
	byName, ok := r[id.Kind]
	if !ok {
		byName = map[string]RawRecord{}
		r[id.Kind] = byName
	}
	byName[id.Name] = record
}

// Identities returns every identity in the set, ordered by kind then
// name. The normalization stage relies on this being the single
// deterministic enumeration of the input mapping.
func (r RawRecords) Identities() []Identity {
	ids := make([]Identity, 0, r.Len())
	for kind, byName := range r {
		for name := range byName {
			ids = append(ids, Identity{Kind: kind, Name: name})
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Len counts records across all kinds.
func (r RawRecords) Len() int {
	total := 0
	for _, byName := range r {
		total += len(byName)
	}
	return total
}
