package rig

// PartKey provides type-safe lookup for one identifier, so a host can
// declare its wiring points once as typed package-level values instead of
// repeating PartID strings and type assertions at every call site.
//
//	var DatabaseKey = rig.KeyByID[*sql.DB]("11111111-1111-1111-1111-111111111111")
//	db, ok := DatabaseKey.Resolve(container)
type PartKey[T any] struct {
	id PartID
}

// KeyByID builds a PartKey bound to a canonical identifier.
func KeyByID[T any](id PartID) PartKey[T] {
	return PartKey[T]{id: id}
}

// ID returns the identifier this key resolves.
func (k PartKey[T]) ID() PartID { return k.id }

// Resolve looks the key up in c.
func (k PartKey[T]) Resolve(c Container) (T, bool) {
	return Lookup[T](c, k.id)
}

// MustResolve is Resolve but panics when the key's part is absent or of the
// wrong type.
func (k PartKey[T]) MustResolve(c Container) T {
	return MustLookup[T](c, k.id)
}

// NameKey is PartKey's symbolic-name counterpart.
type NameKey[T any] struct {
	name string
}

// KeyByName builds a NameKey bound to a symbolic name.
func KeyByName[T any](name string) NameKey[T] {
	return NameKey[T]{name: name}
}

// Name returns the symbolic name this key resolves.
func (k NameKey[T]) Name() string { return k.name }

// Resolve looks the key up in c.
func (k NameKey[T]) Resolve(c Container) (T, bool) {
	return LookupByName[T](c, k.name)
}
