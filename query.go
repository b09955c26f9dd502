package rig

import "sort"

// PartQuery filters a Container's contents by metadata (spec.md §3: parts
// carry an "opaque metadata bag"). An empty PartQuery matches everything.
type PartQuery struct {
	// Metadata: every key-value pair here must match the part's metadata
	// for it to be included.
	Metadata map[string]string
}

// Query returns, in sorted order, the identifiers of every assembled part
// whose metadata matches q.
func Query(c Container, q PartQuery) []PartID {
	var matched []PartID
	for _, id := range c.IDs() {
		meta, _ := c.Metadata(id)
		if matchesMetadata(meta, q.Metadata) {
			matched = append(matched, id)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })
	return matched
}

// QueryNames is Query, filtered down to parts that also carry a symbolic
// name, returning those names instead of identifiers.
func QueryNames(c Container, q PartQuery) []string {
	var names []string
	for _, id := range Query(c, q) {
		if name, ok := c.NameOf(id); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func matchesMetadata(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
