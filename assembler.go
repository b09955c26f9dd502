package rig

import (
	"reflect"
	"sort"
)

// Assembler walks a ResolvedModel's topological order and builds the
// Container (spec.md §4.4). It is single-threaded and single-pass: nothing
// in this type suspends, retries, or revisits a part once assembled (spec.md
// §5).
type Assembler struct {
	registry TypeRegistry
	coercer  Coercer
	logger   Logger
	observer AssemblyObserver
}

// NewAssembler returns an Assembler consulting registry for component
// descriptors and coercer for Value Coercion (spec.md §4.6). Any observers
// passed are combined into one chain invoked around every node's
// construction attempt.
func NewAssembler(registry TypeRegistry, coercer Coercer, logger Logger, observers ...AssemblyObserver) *Assembler {
	if coercer == nil {
		coercer = NewCoercer()
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Assembler{registry: registry, coercer: coercer, logger: logger, observer: NewObserverChain(observers...)}
}

// Assemble constructs every assemblable part of model in dependency order
// and returns the resulting Container alongside an Aggregate of every
// per-part defect encountered — the final outcome is always
// (container, aggregate-or-empty); a failed part never aborts the others
// (spec.md §7, P7).
func (a *Assembler) Assemble(model *ResolvedModel) (Container, *Aggregate) {
	agg := NewAggregate()
	container := newMemContainer()

	order, cycle := model.Graph.TopologicalOrder(model.Excluded())
	if cycle != nil {
		agg.Add(cycle)
		logDiagnostic(a.logger, cycle)
		return container, agg
	}

	for _, id := range order {
		part := model.Parts[id]
		a.observer.BeforeAssemble(id)
		before := len(agg.ForPart(id))
		switch p := part.(type) {
		case *ExternalPart:
			a.placeExternal(container, model, p)
		case *PartCollection:
			a.assembleCollection(container, p, agg)
		case *ConcretePart:
			a.assembleConcrete(container, p, agg)
		}
		var afterErr error
		if diags := agg.ForPart(id); len(diags) > before {
			afterErr = diags[len(diags)-1]
		}
		a.observer.AfterAssemble(id, afterErr)
	}

	for _, d := range agg.Diagnostics() {
		logDiagnostic(a.logger, d)
	}
	return container, agg
}

func (a *Assembler) placeExternal(container *memContainer, model *ResolvedModel, p *ExternalPart) {
	obj, ok := model.Externals[p.ID]
	if !ok {
		return // already recorded as a Failed diagnostic by the Resolver
	}
	scheme := p.Scheme
	if scheme == "" {
		scheme = obj.Scheme
	}
	container.put(p.ID, p.Name, scheme, obj.Value, p.Metadata)
}

func (a *Assembler) assembleCollection(container *memContainer, p *PartCollection, agg *Aggregate) {
	var list []any
	var dict map[string]any
	if p.Kind == CollectionDict {
		dict = make(map[string]any)
	}

	failed := false
	for _, entry := range p.Entries {
		value, ok, diag := a.resolveReference(container, p.ID, entry.Key, entry.Value, nil, true)
		if !ok {
			agg.Add(diag)
			failed = true
			continue
		}
		if p.Kind == CollectionDict {
			dict[entry.Key] = value
		} else {
			list = append(list, value)
		}
	}
	if failed {
		return
	}

	var instance any
	if p.Kind == CollectionDict {
		instance = dict
	} else {
		instance = list
	}
	container.put(p.ID, p.Name, "", instance, p.Metadata)
}

func (a *Assembler) assembleConcrete(container *memContainer, p *ConcretePart, agg *Aggregate) {
	var diags []*Diagnostic

	handle, ok := a.registry.Resolve(*p.Type.Ref)
	if !ok {
		diags = append(diags, errInvalidDescriptor("no registered type for "+p.Type.Ref.Name, nil).WithPart(p.ID))
		agg.Add(diags[0])
		return
	}
	descriptor, err := a.registry.Describe(handle)
	if err != nil {
		diags = append(diags, errInvalidDescriptor("describing registered type", err).WithPart(p.ID))
		agg.Add(diags[0])
		return
	}

	ctor, ok := descriptor.resolveConstructor(p.Constructor)
	if !ok {
		agg.Add(errConstruction(p.ID, nil).WithContext("reason", "no matching constructor"))
		return
	}

	// Resolve every feature and property slot before deciding whether to
	// abort: a part with several independent defects (missing feature,
	// non-coercible property, ...) must surface all of them in one pass
	// rather than stopping at the first (spec.md P7), so construction and
	// Set are deferred until every slot has been checked.
	args := make([]any, len(ctor.Features))
	for i, feature := range ctor.Features {
		ref, present := p.Features[feature.Name]
		if !present {
			if feature.Required {
				diags = append(diags, errMissingValue(p.ID, feature.Name))
			}
			args[i] = reflect.Zero(feature.Type).Interface()
			continue
		}
		value, ok, diag := a.resolveReference(container, p.ID, feature.Name, ref, feature.Type, feature.Required)
		if !ok {
			diags = append(diags, diag)
			continue
		}
		args[i] = value
	}

	names := make([]string, 0, len(descriptor.Properties))
	for name := range descriptor.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	propValues := make(map[string]any, len(names))
	for _, name := range names {
		propDescriptor := descriptor.Properties[name]
		pv, present := p.Properties[name]
		if !present {
			if propDescriptor.Required {
				diags = append(diags, errMissingValue(p.ID, name))
			}
			continue
		}
		value, ok, diag := a.resolvePropertyValue(container, p.ID, name, pv, propDescriptor.Type, propDescriptor.Required)
		if !ok {
			diags = append(diags, diag)
			continue
		}
		propValues[name] = value
	}

	if len(diags) > 0 {
		for _, d := range diags {
			agg.Add(d)
		}
		return
	}

	instance, err := ctor.Invoke(args)
	if err != nil {
		agg.Add(errConstruction(p.ID, err))
		return
	}

	var propertyFailed bool
	for _, name := range names {
		value, present := propValues[name]
		if !present {
			continue
		}
		if err := descriptor.Properties[name].Set(instance, value); err != nil {
			agg.Add(errProperty(p.ID, name, err))
			propertyFailed = true
		}
	}
	if propertyFailed {
		return
	}

	if descriptor.ParticipatesInNotify {
		if aware, ok := instance.(PropertiesAware); ok {
			if err := aware.OnPropertiesSet(); err != nil {
				agg.Add(errNotification(p.ID, err))
				return
			}
		}
	}

	container.put(p.ID, p.Name, p.Scheme, instance, p.Metadata)
}

// resolveReference resolves one feature or collection-element reference to
// a concrete value, coercing it to target when target is non-nil (spec.md
// §4.4 step 2, §4.6). slot names the feature, property, or collection entry
// the reference came from, purely for diagnostic attribution. required
// governs what happens when the reference legitimately resolves to no
// value at all (spec.md §4.6: a by-uri factory returning none) — permitted
// for an optional slot, a missing-value error for a required one.
func (a *Assembler) resolveReference(container *memContainer, owner PartID, slot string, ref Reference, target reflect.Type, required bool) (any, bool, *Diagnostic) {
	switch v := ref.(type) {
	case Constant:
		if target == nil {
			return v.Value, true, nil
		}
		coerced, err := a.coercer.Coerce(v.Value, target)
		if err != nil {
			return nil, false, errTypeMismatch(owner, slot, err)
		}
		return coerced, true, nil

	case ByID:
		value, ok := container.ByID(v.ID)
		if !ok {
			return nil, false, errReference(owner, "dependency "+string(v.ID)+" was not constructed")
		}
		if target != nil && value != nil && !reflect.TypeOf(value).AssignableTo(target) {
			return nil, false, errTypeMismatch(owner, slot, nil)
		}
		return value, true, nil

	case Inline:
		value, ok := container.ByID(v.Part.ID)
		if !ok {
			return nil, false, errReference(owner, "inline part was not constructed")
		}
		return value, true, nil

	case ByURI:
		return a.produceFromFactory(container, owner, v.Factory, slot, v.URI, target, required)

	default:
		return nil, false, errReference(owner, "unresolved reference")
	}
}

// resolvePropertyValue mirrors resolveReference for the PropertyValue union,
// whose only part-referencing form is a factory-produced URI.
func (a *Assembler) resolvePropertyValue(container *memContainer, owner PartID, slot string, pv PropertyValue, target reflect.Type, required bool) (any, bool, *Diagnostic) {
	switch v := pv.(type) {
	case PropertyConstant:
		coerced, err := a.coercer.Coerce(v.Value, target)
		if err != nil {
			return nil, false, errTypeMismatch(owner, slot, err)
		}
		return coerced, true, nil
	case PropertyURI:
		return a.produceFromFactory(container, owner, v.Factory, slot, v.URI, target, required)
	default:
		return nil, false, errReference(owner, "unresolved property value")
	}
}

// produceFromFactory calls the factory bound to factoryID and resolves its
// result against target. A nil result is only ever a defect when slot is
// required (spec.md §4.6: "A null/none feature value is permitted only for
// optional features; for required features it is recorded as a
// missing-value error") — an optional slot simply resolves to no value.
func (a *Assembler) produceFromFactory(container *memContainer, owner PartID, factoryID PartID, slot, uri string, target reflect.Type, required bool) (any, bool, *Diagnostic) {
	factoryInstance, ok := container.ByID(factoryID)
	if !ok {
		return nil, false, errReference(owner, "factory for "+uri+" was not constructed")
	}
	factory, ok := factoryInstance.(Factory)
	if !ok {
		return nil, false, errReference(owner, "part bound to scheme does not implement Factory")
	}
	produced, err := factory.Produce(uri)
	if err != nil {
		return nil, false, errConstruction(owner, err).WithContext("uri", uri)
	}
	if produced == nil {
		if required {
			return nil, false, errMissingValue(owner, slot)
		}
		return nil, true, nil
	}
	if target == nil {
		return produced, true, nil
	}
	if s, isString := produced.(string); isString && reflect.TypeOf(s).Kind() != target.Kind() {
		coerced, err := a.coercer.Coerce(s, target)
		if err != nil {
			return nil, false, errTypeMismatch(owner, slot, err).WithContext("uri", uri)
		}
		return coerced, true, nil
	}
	if !reflect.TypeOf(produced).AssignableTo(target) {
		return nil, false, errTypeMismatch(owner, slot, nil).WithContext("uri", uri)
	}
	return produced, true, nil
}
