package rig

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveAndAssemble(t *testing.T, bp *Blueprint, externals []*ExternalObject) (Container, *Aggregate) {
	t.Helper()
	model, resolveDiags := NewResolver(nil).Resolve([]*Blueprint{bp}, externals)
	assembler := NewAssembler(newTestRegistry(), NewCoercer(), nil)
	container, assembleDiags := assembler.Assemble(model)
	agg := NewAggregate()
	agg.Merge(resolveDiags)
	agg.Merge(assembleDiags)
	return container, agg
}

// Scenario 1: two parts, one reference.
func TestAssembleTwoPartsOneReference(t *testing.T) {
	b := &ConcretePart{ID: "b", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "leaf"}}}
	a := &ConcretePart{ID: "a", Type: RuntimeType{Ref: ptrTypeRef(linkerTypeRef())},
		Features: map[string]Reference{"other": ByID{ID: "b"}}}
	bp := &Blueprint{Parts: []Part{a, b}}

	container, agg := resolveAndAssemble(t, bp, nil)
	require.True(t, agg.Empty())

	widgetB := MustLookup[*Widget](container, "b")
	assert.Equal(t, "leaf", widgetB.Dep)

	linkerA := MustLookup[*Linker](container, "a")
	assert.Same(t, widgetB, linkerA.Other)
}

// Scenario 2: factory + consumer; the factory's string product is delivered
// to the consumer's string feature.
func TestAssembleFactoryProductReachesConsumer(t *testing.T) {
	factoryPart := &ConcretePart{ID: "f", Scheme: "test", Type: RuntimeType{Ref: ptrTypeRef(memFactoryTypeRef())}}
	consumer := &ConcretePart{ID: "c", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByURI{URI: "test://decimal"}}}
	bp := &Blueprint{Parts: []Part{factoryPart, consumer}}

	container, agg := resolveAndAssemble(t, bp, nil)
	require.True(t, agg.Empty())

	widget := MustLookup[*Widget](container, "c")
	assert.Equal(t, "produced:test://decimal", widget.Dep)
}

// Scenario 3: undefined disables; independent part unaffected.
func TestAssembleUndefinedDisablesDependents(t *testing.T) {
	undefined := &UndefinedPart{ID: "u"}
	a := &ConcretePart{ID: "a", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByID{ID: "u"}}}
	independent := &ConcretePart{ID: "indep", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "ok"}}}
	bp := &Blueprint{Parts: []Part{undefined, a, independent}}

	container, agg := resolveAndAssemble(t, bp, nil)
	assert.True(t, agg.Empty())

	_, hasA := container.ByID("a")
	assert.False(t, hasA)
	_, hasU := container.ByID("u")
	assert.False(t, hasU)
	_, hasIndep := container.ByID("indep")
	assert.True(t, hasIndep)
}

// Scenario 4: cycle leaves the container empty and reports one cycle error.
func TestAssembleCycleLeavesContainerEmpty(t *testing.T) {
	a := &ConcretePart{ID: "a", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByID{ID: "b"}}}
	b := &ConcretePart{ID: "b", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByID{ID: "a"}}}
	bp := &Blueprint{Parts: []Part{a, b}}

	container, agg := resolveAndAssemble(t, bp, nil)
	require.False(t, agg.Empty())

	var sawCycle bool
	for _, d := range agg.Diagnostics() {
		if d.Code == CodeCycleError {
			sawCycle = true
		}
	}
	assert.True(t, sawCycle)
	assert.Empty(t, container.IDs())
}

// Scenario 5: collection feature order, with a factory-produced middle element.
func TestAssembleCollectionPreservesDeclarationOrder(t *testing.T) {
	factoryPart := &ConcretePart{ID: "f", Scheme: "test", Type: RuntimeType{Ref: ptrTypeRef(memFactoryTypeRef())}}
	x := &ConcretePart{ID: "x", Name: "X", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "x-value"}}}
	y := &ConcretePart{ID: "y", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "y-value"}}}
	list := &PartCollection{
		ID:   "list",
		Kind: CollectionList,
		Entries: []CollectionEntry{
			{Value: ByName{Name: "X"}},
			{Value: ByURI{URI: "test://string"}},
			{Value: ByID{ID: "y"}},
		},
	}
	bp := &Blueprint{Parts: []Part{factoryPart, x, y, list}}

	container, agg := resolveAndAssemble(t, bp, nil)
	require.True(t, agg.Empty())

	raw, ok := container.ByID("list")
	require.True(t, ok)
	elements := raw.([]any)
	require.Len(t, elements, 3)
	require.IsType(t, &Widget{}, elements[0])
	assert.Equal(t, "x-value", elements[0].(*Widget).Dep)
	assert.Equal(t, "produced:test://string", elements[1])
	require.IsType(t, &Widget{}, elements[2])
	assert.Equal(t, "y-value", elements[2].(*Widget).Dep)
}

// Scenario 6: multiple distinct defects in one part are all reported — a
// missing required feature, a non-coercible optional feature, a missing
// required property, and a non-coercible optional property — and other
// parts are unaffected.
func TestAssembleRecordsAllDefectsInOnePart(t *testing.T) {
	broken := &ConcretePart{
		ID:   "broken",
		Type: RuntimeType{Ref: ptrTypeRef(pickyTypeRef())},
		Features: map[string]Reference{
			// "count" (required) omitted entirely.
			"flag": Constant{Value: "not-a-bool"},
		},
		Properties: map[string]PropertyValue{
			// "threshold" (required) omitted entirely.
			"level": PropertyConstant{Value: "not-an-int"},
		},
	}
	independent := &ConcretePart{ID: "indep", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "ok"}}}

	bp := &Blueprint{Parts: []Part{broken, independent}}
	container, agg := resolveAndAssemble(t, bp, nil)

	require.False(t, agg.Empty())
	brokenDiags := agg.ForPart("broken")
	assert.Len(t, brokenDiags, 4)

	_, hasBroken := container.ByID("broken")
	assert.False(t, hasBroken)
	_, hasIndep := container.ByID("indep")
	assert.True(t, hasIndep)
}

// P11: notification fires exactly once, after property application.
func TestAssembleNotifiesAfterPropertiesSet(t *testing.T) {
	a := &ConcretePart{
		ID:   "a",
		Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{
			"dep": Constant{Value: "dep-value"},
		},
		Properties: map[string]PropertyValue{
			"label": PropertyConstant{Value: "label-value"},
		},
	}
	bp := &Blueprint{Parts: []Part{a}}

	container, agg := resolveAndAssemble(t, bp, nil)
	require.True(t, agg.Empty())

	widget := MustLookup[*Widget](container, "a")
	assert.Equal(t, "label-value", widget.Label)
	assert.True(t, widget.notified)
}

func TestAssemblePlacesExternalObject(t *testing.T) {
	ext := &ExternalPart{ID: "ext"}
	bp := &Blueprint{Parts: []Part{ext}}

	container, agg := resolveAndAssemble(t, bp, []*ExternalObject{External("ext", 99)})
	require.True(t, agg.Empty())

	v := MustLookup[int](container, "ext")
	assert.Equal(t, 99, v)
}

func TestAssembleObserverSeesBeforeAndAfter(t *testing.T) {
	var before, after []PartID
	observer := ObserverFunc{
		Before: func(id PartID) { before = append(before, id) },
		After:  func(id PartID, err error) { after = append(after, id) },
	}

	b := &ConcretePart{ID: "b", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "leaf"}}}
	a := &ConcretePart{ID: "a", Type: RuntimeType{Ref: ptrTypeRef(linkerTypeRef())},
		Features: map[string]Reference{"other": ByID{ID: "b"}}}
	bp := &Blueprint{Parts: []Part{a, b}}

	model, _ := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	assembler := NewAssembler(newTestRegistry(), NewCoercer(), nil, observer)
	_, agg := assembler.Assemble(model)
	require.True(t, agg.Empty())

	assert.Equal(t, []PartID{"b", "a"}, before)
	assert.Equal(t, []PartID{"b", "a"}, after)
}

func TestResolveReferenceTypeMismatchIsReported(t *testing.T) {
	a := &Assembler{registry: newTestRegistry(), coercer: NewCoercer(), logger: NewNopLogger(), observer: NewObserverChain()}
	container := newMemContainer()
	container.put("other", "", "", 12345, nil) // an int, not assignable to string
	_, ok, diag := a.resolveReference(container, "owner", "dep", ByID{ID: "other"}, reflect.TypeOf(""), true)
	assert.False(t, ok)
	require.NotNil(t, diag)
	assert.Equal(t, CodeTypeMismatch, diag.Code)
	assert.Equal(t, "dep", diag.Context["slot"])
}

// nullFactory always produces no value, the way a by-uri factory is
// permitted to (spec.md §4.6).
type nullFactory struct{}

func (nullFactory) Produce(uri string) (any, error) { return nil, nil }

func nullFactoryDescriptor() *ComponentDescriptor {
	return &ComponentDescriptor{
		Name:               "widget.NullFactory",
		Role:               RoleFactory,
		Scheme:             "null",
		DefaultConstructor: &ConstructorDescriptor{Invoke: func(args []any) (any, error) { return nullFactory{}, nil }},
		Properties:         map[string]*PropertyDescriptor{},
	}
}

func nullFactoryTypeRef() TypeReference { return TypeReference{Name: "widget.NullFactory"} }

// Scenario (spec.md §4.6): a by-uri reference whose factory returns none is
// permitted for an optional feature but recorded as a missing-value defect
// for a required one.
func TestAssembleFactoryNullIsMissingValueOnlyWhenRequired(t *testing.T) {
	registry := newTestRegistry()
	registry.Register(nullFactoryTypeRef(), nullFactoryDescriptor())

	factoryPart := &ConcretePart{ID: "nf", Scheme: "null", Type: RuntimeType{Ref: ptrTypeRef(nullFactoryTypeRef())}}
	required := &ConcretePart{ID: "required", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByURI{URI: "null://anything"}}}
	optional := &ConcretePart{ID: "optional", Type: RuntimeType{Ref: ptrTypeRef(pickyTypeRef())},
		Features:   map[string]Reference{"count": Constant{Value: "3"}, "flag": ByURI{URI: "null://anything"}},
		Properties: map[string]PropertyValue{"threshold": PropertyConstant{Value: "1"}}}

	bp := &Blueprint{Parts: []Part{factoryPart, required, optional}}
	model, resolveAgg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.True(t, resolveAgg.Empty())

	assembler := NewAssembler(registry, NewCoercer(), nil)
	gotContainer, agg := assembler.Assemble(model)

	requiredDiags := agg.ForPart("required")
	require.Len(t, requiredDiags, 1)
	assert.Equal(t, CodeMissingValue, requiredDiags[0].Code)
	_, hasRequired := gotContainer.ByID("required")
	assert.False(t, hasRequired)

	assert.Empty(t, agg.ForPart("optional"))
	picky := MustLookup[*Picky](gotContainer, "optional")
	assert.Equal(t, 3, picky.Count)
	assert.False(t, picky.Flag)
}
