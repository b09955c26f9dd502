package rig

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Role classifies a component as ordinary or as a URI-scheme factory
// (spec.md §3: "role ∈ {ordinary, factory(scheme)}").
type Role int

const (
	// RoleOrdinary is a plain constructed instance.
	RoleOrdinary Role = iota
	// RoleFactory produces objects on demand for a declared URI scheme.
	RoleFactory
)

// FeatureDescriptor is one formal constructor argument: a name, a declared
// type, and whether the part must supply it.
type FeatureDescriptor struct {
	Name     string       `validate:"required"`
	Type     reflect.Type `validate:"required"`
	Required bool
}

// PropertyDescriptor is one post-construction scalar setting.
type PropertyDescriptor struct {
	Type     reflect.Type `validate:"required"`
	Required bool
	// Set applies the coerced value to an already-constructed instance.
	Set func(instance any, value any) error `validate:"required"`
}

// ConstructorDescriptor is one named (or default, Name == "") way to build
// the component, with an ordered list of formal features (spec.md §3:
// "a default constructor plus a mapping name → named constructor").
type ConstructorDescriptor struct {
	Name     string
	Features []FeatureDescriptor
	// Invoke calls the host constructor with resolved feature values in
	// formal order and returns the new instance.
	Invoke func(args []any) (any, error) `validate:"required"`
}

// ComponentDescriptor is the engine's structural summary of one host
// component type (spec.md §4.1). Hosts build these explicitly — the core
// engine never touches Go reflection to produce one; see the
// rig/reflectdescriptor package for an optional reflective adapter.
type ComponentDescriptor struct {
	Name                string
	Role                Role
	Scheme              string // required, non-empty, when Role == RoleFactory (D3)
	DefaultConstructor  *ConstructorDescriptor
	NamedConstructors    map[string]*ConstructorDescriptor
	Properties          map[string]*PropertyDescriptor
	ParticipatesInNotify bool // invoke PropertiesAware.OnPropertiesSet after property application
}

// PropertiesAware is the capability-discovery replacement (Design Note §9)
// for the reference implementation's virtual "properties set" dispatch. An
// instance only receives the call when its descriptor's
// ParticipatesInNotify flag is set.
type PropertiesAware interface {
	OnPropertiesSet() error
}

// resolveConstructor selects the constructor named by selector, or the
// default constructor when selector is empty (spec.md §4.4 step 1, and the
// Open Question in §9: a blueprint that omits the selector always gets the
// default constructor, never one inferred from feature names).
func (d *ComponentDescriptor) resolveConstructor(selector string) (*ConstructorDescriptor, bool) {
	if selector == "" {
		if d.DefaultConstructor == nil {
			return nil, false
		}
		return d.DefaultConstructor, true
	}
	c, ok := d.NamedConstructors[selector]
	return c, ok
}

var descriptorValidator = validator.New()

// validate checks invariants D1-D3 from spec.md §4.1, returning one
// Diagnostic per defect: no constructor at all, a malformed constructor, a
// feature with no name, a feature name declared twice in one constructor, a
// property with no setter, and a factory with no scheme. A second default
// constructor or a duplicate named constructor cannot be expressed by this
// struct, so neither is checked.
func (d *ComponentDescriptor) validate() []*Diagnostic {
	var diags []*Diagnostic

	// D1: at least one constructor.
	if d.DefaultConstructor == nil && len(d.NamedConstructors) == 0 {
		diags = append(diags, errInvalidDescriptor(
			fmt.Sprintf("component %q declares no constructor marked for composition", d.Name), nil))
	}

	check := func(c *ConstructorDescriptor, label string) {
		if c == nil {
			return
		}
		if err := descriptorValidator.Struct(c); err != nil {
			diags = append(diags, errInvalidDescriptor(
				fmt.Sprintf("component %q constructor %s is malformed", d.Name, label), err))
			return
		}
		// D2: feature names unique within one constructor.
		seen := make(map[string]bool, len(c.Features))
		for _, f := range c.Features {
			if f.Name == "" {
				diags = append(diags, errInvalidDescriptor(
					fmt.Sprintf("component %q constructor %s has a formal parameter with no feature annotation", d.Name, label), nil))
				continue
			}
			if seen[f.Name] {
				diags = append(diags, errInvalidDescriptor(
					fmt.Sprintf("component %q constructor %s declares feature %q twice", d.Name, label, f.Name), nil))
			}
			seen[f.Name] = true
		}
	}
	check(d.DefaultConstructor, "<default>")
	for name, c := range d.NamedConstructors {
		// Map-key uniqueness already rules out a duplicate selector; only
		// within-constructor feature names need checking here.
		check(c, name)
	}

	for name, p := range d.Properties {
		if p == nil || p.Set == nil {
			diags = append(diags, errInvalidDescriptor(
				fmt.Sprintf("component %q property %q has no writable setter", d.Name, name), nil))
		}
	}

	// D3: a factory exposes a non-empty scheme.
	if d.Role == RoleFactory && d.Scheme == "" {
		diags = append(diags, errInvalidDescriptor(
			fmt.Sprintf("component %q is tagged as a factory but has no scheme", d.Name), nil))
	}

	return diags
}

// =============================================================================
// TYPE REGISTRY (spec.md §4.1, §6)
// =============================================================================

// TypeHandle is an opaque handle a TypeRegistry resolves a TypeReference to.
// The zero value is never valid; compare handles with ==.
type TypeHandle struct {
	key string
}

// TypeRegistry resolves textual type names to host type handles and
// supplies the structural descriptor for a handle (spec.md §4.1, §6).
type TypeRegistry interface {
	// Register associates a type reference with a descriptor. Returns the
	// descriptor's validation diagnostics, if any; a type that fails
	// validation is not registered.
	Register(ref TypeReference, descriptor *ComponentDescriptor) []*Diagnostic

	// Resolve looks up the handle for a type reference.
	Resolve(ref TypeReference) (TypeHandle, bool)

	// Describe returns the descriptor for a previously resolved handle.
	Describe(handle TypeHandle) (*ComponentDescriptor, error)
}

// registryEntry pairs a handle with its descriptor for storage.
type registryEntry struct {
	handle     TypeHandle
	descriptor *ComponentDescriptor
}

// descriptorRegistry is the default, reflection-free TypeRegistry: hosts
// register descriptors they built by hand (or via rig/reflectdescriptor).
type descriptorRegistry struct {
	byKey map[string]*registryEntry
}

// NewTypeRegistry returns an empty, explicit-registration TypeRegistry.
func NewTypeRegistry() TypeRegistry {
	return &descriptorRegistry{byKey: make(map[string]*registryEntry)}
}

func typeReferenceKey(ref TypeReference) string {
	if len(ref.Params) == 0 {
		return ref.Name
	}
	params := make([]string, 0, len(ref.Params))
	for k := range ref.Params {
		params = append(params, k)
	}
	sort.Strings(params)
	key := ref.Name + "<"
	for i, k := range params {
		if i > 0 {
			key += ","
		}
		key += k + "=" + typeReferenceKey(ref.Params[k])
	}
	return key + ">"
}

func (r *descriptorRegistry) Register(ref TypeReference, descriptor *ComponentDescriptor) []*Diagnostic {
	if diags := descriptor.validate(); len(diags) > 0 {
		return diags
	}
	key := typeReferenceKey(ref)
	r.byKey[key] = &registryEntry{handle: TypeHandle{key: key}, descriptor: descriptor}
	return nil
}

func (r *descriptorRegistry) Resolve(ref TypeReference) (TypeHandle, bool) {
	key := typeReferenceKey(ref)
	entry, ok := r.byKey[key]
	if !ok {
		return TypeHandle{}, false
	}
	return entry.handle, true
}

func (r *descriptorRegistry) Describe(handle TypeHandle) (*ComponentDescriptor, error) {
	for _, entry := range r.byKey {
		if entry.handle == handle {
			return entry.descriptor, nil
		}
	}
	return nil, fmt.Errorf("rig: no descriptor registered for handle %q", handle.key)
}

// RegisterAll registers a batch of (TypeReference, *ComponentDescriptor)
// pairs, continuing past a failing entry rather than aborting — mirroring
// the "Discover" contract of spec.md §4.1 and §6 ("a failure for one type
// does not poison others").
func RegisterAll(registry TypeRegistry, descriptors map[TypeReference]*ComponentDescriptor) *Aggregate {
	agg := NewAggregate()
	for ref, d := range descriptors {
		for _, diag := range registry.Register(ref, d) {
			agg.Add(diag)
		}
	}
	return agg
}
