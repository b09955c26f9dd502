package rig

// =============================================================================
// IDENTIFIERS
// =============================================================================

// PartID canonically identifies one part across the union of loaded
// blueprints. Any non-empty string is accepted; the xmlblueprint reader
// additionally requires identifiers declared in a document to be 128-bit
// UUIDs in lowercase hexadecimal-with-hyphens form. Identifiers synthesised by the
// resolver for parts that omit one are marked Synthesized on the owning part
// and are never persisted on round-trip (spec.md §4.2 step 1, P10).
type PartID string

// =============================================================================
// TYPE REFERENCES
// =============================================================================

// TypeReference names a host type, possibly parameterised (spec.md §4.1).
// Parameters are themselves type references, recursively, to describe
// generic shells such as List<Map<String, Widget>>.
type TypeReference struct {
	Name   string
	Params map[string]TypeReference
}

// RuntimeType is either a direct TypeReference or a type-alias name that the
// Resolver must expand to a TypeReference during alias expansion (spec.md
// §4.2 step 3). Exactly one of Ref/Alias is set before resolution; after
// resolution Ref is always set.
type RuntimeType struct {
	Ref   *TypeReference
	Alias string
}

// IsAlias reports whether this runtime type still needs alias expansion.
func (t RuntimeType) IsAlias() bool {
	return t.Ref == nil && t.Alias != ""
}

// =============================================================================
// REFERENCES (spec.md §3: "A reference is one of...")
// =============================================================================

// Reference is the tagged union of the four dependency-reference forms plus
// the inline constant form. Implementations are sealed to this package's
// five concrete types so a type switch over Reference is always exhaustive.
type Reference interface {
	isReference()
}

// ByID references a part by its canonical identifier.
type ByID struct {
	ID PartID
}

func (ByID) isReference() {}

// ByName references a part by its symbolic name. The resolver rewrites every
// ByName into a ByID during step 4 of §4.2; a ByName surviving past
// resolution is a bug in the caller, not a valid reference to assemble.
type ByName struct {
	Name string
}

func (ByName) isReference() {}

// ByURI references a factory's product for a URI. Factory is populated by
// the resolver during scheme lookup (spec.md §4.2 step 6) and names the
// PartID of the factory part that will service this URI.
type ByURI struct {
	URI     string
	Factory PartID
}

func (ByURI) isReference() {}

// Inline embeds a part declaration directly in place of a reference. The
// embedded part is itself a node in the dependency graph (spec.md §4.3: "an
// inline part emits both an edge and a nested node").
type Inline struct {
	Part *ConcretePart
}

func (Inline) isReference() {}

// Constant is a literal string, coerced to the slot's declared type via
// Value Coercion (spec.md §4.6).
type Constant struct {
	Value string
}

func (Constant) isReference() {}

// =============================================================================
// PROPERTY VALUES (spec.md §3: "two kinds of property value")
// =============================================================================

// PropertyValue is the tagged union of the two forms a property setting may
// take: a literal constant or a factory-produced value. Unlike Reference,
// property values never name another part by id/name — only features wire
// parts together (spec.md §4.4 step 4).
type PropertyValue interface {
	isPropertyValue()
}

// PropertyConstant is a literal string coerced to the property's declared type.
type PropertyConstant struct {
	Value string
}

func (PropertyConstant) isPropertyValue() {}

// PropertyURI is a URI resolved through a factory at assembly time, coerced
// to the property's declared type if the factory returns a string.
type PropertyURI struct {
	URI     string
	Factory PartID
}

func (PropertyURI) isPropertyValue() {}

// =============================================================================
// PARTS (spec.md §3: "A part is one of...")
// =============================================================================

// Part is the tagged union of the four part kinds a blueprint may declare.
// All four carry an identifier, an optional symbolic name, and a metadata
// bag; Part exposes only what is common across all of them, and callers
// type-switch for kind-specific fields.
type Part interface {
	PartIdentifier() PartID
	PartName() (string, bool)
	PartMetadata() map[string]string
	isPart()
}

// ConcretePart is a fully declared instance: a runtime type, an optional
// named-constructor selector, feature references, property values, and an
// optional factory scheme.
type ConcretePart struct {
	ID          PartID
	Name        string // empty if unnamed
	Type        RuntimeType
	Constructor string // empty selects the descriptor's default constructor
	Features    map[string]Reference
	Properties  map[string]PropertyValue
	Scheme      string // non-empty marks this part as a factory
	Metadata    map[string]string

	// Synthesized is true when ID was assigned by the resolver because the
	// document omitted one (spec.md §4.2 step 1). Synthesized identifiers
	// are excluded from BlueprintWriter round-trips (P10).
	Synthesized bool
}

func (p *ConcretePart) PartIdentifier() PartID { return p.ID }
func (p *ConcretePart) PartName() (string, bool) {
	return p.Name, p.Name != ""
}
func (p *ConcretePart) PartMetadata() map[string]string { return p.Metadata }
func (*ConcretePart) isPart()                           {}

// ExternalPart is satisfied at assembly time by a caller-supplied object
// rather than constructed by the engine. Per invariant M5 exactly one of ID
// or Name is set as declared; the resolver's external-binding step (§4.2
// step 7) matches it against a supplied ExternalObject.
type ExternalPart struct {
	ID       PartID
	Name     string
	Scheme   string
	Metadata map[string]string
}

func (p *ExternalPart) PartIdentifier() PartID { return p.ID }
func (p *ExternalPart) PartName() (string, bool) {
	return p.Name, p.Name != ""
}
func (p *ExternalPart) PartMetadata() map[string]string { return p.Metadata }
func (*ExternalPart) isPart()                           {}

// UndefinedPart is an explicit placeholder. Any part reachable backwards
// from it along dependency edges is transitively disabled (spec.md §4.2
// step 8) — silently, never as an error.
type UndefinedPart struct {
	ID       PartID
	Name     string
	Metadata map[string]string
}

func (p *UndefinedPart) PartIdentifier() PartID { return p.ID }
func (p *UndefinedPart) PartName() (string, bool) {
	return p.Name, p.Name != ""
}
func (p *UndefinedPart) PartMetadata() map[string]string { return p.Metadata }
func (*UndefinedPart) isPart()                           {}

// CollectionKind distinguishes the two recognised abstract collection shapes.
type CollectionKind int

const (
	// CollectionList is an ordered sequence, populated in declaration order.
	CollectionList CollectionKind = iota
	// CollectionDict is a string-keyed map.
	CollectionDict
)

// String implements fmt.Stringer.
func (k CollectionKind) String() string {
	if k == CollectionDict {
		return "dict"
	}
	return "list"
}

// CollectionEntry pairs an optional key (meaningful only for CollectionDict)
// with the element reference, preserving document declaration order for
// both shapes (spec.md P8).
type CollectionEntry struct {
	Key   string // empty and unused for CollectionList
	Value Reference
}

// PartCollection is an ordered sequence or string-keyed map whose elements
// are themselves references (spec.md §3: "Part collection").
type PartCollection struct {
	ID       PartID
	Name     string
	Kind     CollectionKind
	Type     RuntimeType // the concrete container type, or a recognised abstract shape
	Entries  []CollectionEntry
	Metadata map[string]string

	Synthesized bool
}

func (p *PartCollection) PartIdentifier() PartID { return p.ID }
func (p *PartCollection) PartName() (string, bool) {
	return p.Name, p.Name != ""
}
func (p *PartCollection) PartMetadata() map[string]string { return p.Metadata }
func (*PartCollection) isPart()                           {}

// =============================================================================
// BLUEPRINT
// =============================================================================

// Blueprint is one loaded document: a namespace label, a set of type
// aliases, and the top-level parts it declares (spec.md §3).
type Blueprint struct {
	Namespace string
	Aliases   map[string]TypeReference
	Parts     []Part
}

// ExternalObject is the caller-supplied handoff for one ExternalPart
// declaration (spec.md §6: "External object handoff"). Exactly one of
// ID/Name should match the corresponding ExternalPart's declared identity;
// Scheme is set when the object is itself a factory.
type ExternalObject struct {
	ID     PartID
	Name   string
	Scheme string
	Value  any
}
