package rig

import "fmt"

// Container is the final, read-only index of everything the Assembler
// built: by identifier, by symbolic name, and by URI scheme for factories
// (spec.md §4.5). Lookup returns an opaque `any`; callers discriminate the
// type themselves, or use the generic Lookup helpers below.
type Container interface {
	ByID(id PartID) (any, bool)
	ByName(name string) (any, bool)
	ByScheme(scheme string) (any, bool)

	// IDs, Names and Schemes enumerate everything the container indexes,
	// for hosts that want to iterate the finished object graph.
	IDs() []PartID
	Names() []string
	Schemes() []string

	// Metadata returns the opaque metadata bag declared on the part behind
	// id, if any was assembled under that id.
	Metadata(id PartID) (map[string]string, bool)

	// NameOf returns the symbolic name a part was assembled under, if any.
	NameOf(id PartID) (string, bool)
}

// memContainer is the default, in-memory Container. It is mutated only by
// the Assembler during one assembly pass and is safe for concurrent readers
// once that pass has returned (spec.md §5).
type memContainer struct {
	byID     map[PartID]any
	byName   map[string]any
	byScheme map[string]any
	metadata map[PartID]map[string]string
	nameOf   map[PartID]string
}

func newMemContainer() *memContainer {
	return &memContainer{
		byID:     make(map[PartID]any),
		byName:   make(map[string]any),
		byScheme: make(map[string]any),
		metadata: make(map[PartID]map[string]string),
		nameOf:   make(map[PartID]string),
	}
}

func (c *memContainer) put(id PartID, name, scheme string, instance any, metadata map[string]string) {
	c.byID[id] = instance
	if name != "" {
		c.byName[name] = instance
		c.nameOf[id] = name
	}
	if scheme != "" {
		c.byScheme[scheme] = instance
	}
	if len(metadata) > 0 {
		c.metadata[id] = metadata
	}
}

func (c *memContainer) NameOf(id PartID) (string, bool) {
	name, ok := c.nameOf[id]
	return name, ok
}

func (c *memContainer) Metadata(id PartID) (map[string]string, bool) {
	m, ok := c.metadata[id]
	return m, ok
}

func (c *memContainer) ByID(id PartID) (any, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *memContainer) ByName(name string) (any, bool) {
	v, ok := c.byName[name]
	return v, ok
}

func (c *memContainer) ByScheme(scheme string) (any, bool) {
	v, ok := c.byScheme[scheme]
	return v, ok
}

func (c *memContainer) IDs() []PartID {
	out := make([]PartID, 0, len(c.byID))
	for id := range c.byID {
		out = append(out, id)
	}
	return out
}

func (c *memContainer) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	return out
}

func (c *memContainer) Schemes() []string {
	out := make([]string, 0, len(c.byScheme))
	for scheme := range c.byScheme {
		out = append(out, scheme)
	}
	return out
}

// Lookup fetches the instance stored under id and asserts it to T.
func Lookup[T any](c Container, id PartID) (T, bool) {
	var zero T
	v, ok := c.ByID(id)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// MustLookup is Lookup but panics when the id is absent or the type
// assertion fails — for host wiring code where that absence is a bug, not a
// recoverable condition.
func MustLookup[T any](c Container, id PartID) T {
	t, ok := Lookup[T](c, id)
	if !ok {
		panic(fmt.Sprintf("rig: no part %q of the requested type in the container", id))
	}
	return t
}

// LookupByName fetches the instance registered under a symbolic name and
// asserts it to T.
func LookupByName[T any](c Container, name string) (T, bool) {
	var zero T
	v, ok := c.ByName(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// LookupByScheme fetches the factory instance registered under a URI scheme
// and asserts it to T.
func LookupByScheme[T any](c Container, scheme string) (T, bool) {
	var zero T
	v, ok := c.ByScheme(scheme)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
