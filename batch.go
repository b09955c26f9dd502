package rig

// External builds an ExternalObject bound by identifier.
func External(id PartID, value any) *ExternalObject {
	return &ExternalObject{ID: id, Value: value}
}

// ExternalNamed builds an ExternalObject bound by symbolic name.
func ExternalNamed(name string, value any) *ExternalObject {
	return &ExternalObject{Name: name, Value: value}
}

// ExternalFactory builds an ExternalObject that is itself a factory,
// registered under scheme once bound (spec.md §6: "An object may itself be
// a factory — it is then registered under its scheme").
func ExternalFactory(id PartID, scheme string, value Factory) *ExternalObject {
	return &ExternalObject{ID: id, Scheme: scheme, Value: value}
}

// Externals batches several external-object bindings into the slice
// Facade.Assemble expects, for a one-shot handoff instead of many
// individual calls.
//
//	container, agg := facade.Assemble(sources, rig.Externals(
//	    rig.External("11111111-1111-1111-1111-111111111111", db),
//	    rig.ExternalNamed("clock", realClock),
//	))
func Externals(objects ...*ExternalObject) []*ExternalObject {
	return objects
}
