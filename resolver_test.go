package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSynthesizesMissingIdentifiers(t *testing.T) {
	bp := &Blueprint{Parts: []Part{
		&ConcretePart{Name: "nameless", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}},
	}}

	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.True(t, agg.Empty())
	require.Len(t, model.Parts, 1)

	for id, p := range model.Parts {
		assert.NotEmpty(t, id)
		cp := p.(*ConcretePart)
		assert.True(t, cp.Synthesized)
	}
}

func TestResolveDetectsDuplicateIdentifier(t *testing.T) {
	a := &ConcretePart{ID: "dup", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}}
	b := &ConcretePart{ID: "dup", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}}
	bp := &Blueprint{Parts: []Part{a, b}}

	_, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.False(t, agg.Empty())
	found := false
	for _, d := range agg.Diagnostics() {
		if d.Code == CodeReferenceError {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolveDetectsDuplicateName(t *testing.T) {
	a := &ConcretePart{ID: "a", Name: "same", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}}
	b := &ConcretePart{ID: "b", Name: "same", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}}
	bp := &Blueprint{Parts: []Part{a, b}}

	_, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.False(t, agg.Empty())
}

func TestResolveExpandsTypeAlias(t *testing.T) {
	bp := &Blueprint{
		Aliases: map[string]TypeReference{"Gadget": widgetTypeRef()},
		Parts: []Part{
			&ConcretePart{ID: "a", Type: RuntimeType{Alias: "Gadget"}},
		},
	}
	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.True(t, agg.Empty())
	cp := model.Parts["a"].(*ConcretePart)
	require.NotNil(t, cp.Type.Ref)
	assert.Equal(t, "widget.Widget", cp.Type.Ref.Name)
}

func TestResolveUnresolvedAliasFails(t *testing.T) {
	bp := &Blueprint{
		Parts: []Part{
			&ConcretePart{ID: "a", Type: RuntimeType{Alias: "Missing"}},
		},
	}
	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.False(t, agg.Empty())
	assert.True(t, model.Failed["a"])
}

func TestResolveRewritesByNameToByID(t *testing.T) {
	consumer := &ConcretePart{ID: "consumer", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByName{Name: "dependency"}}}
	dependency := &ConcretePart{ID: "dependency", Name: "dependency", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())}}
	bp := &Blueprint{Parts: []Part{consumer, dependency}}

	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.True(t, agg.Empty())
	ref := model.Parts["consumer"].(*ConcretePart).Features["dep"]
	assert.Equal(t, ByID{ID: "dependency"}, ref)
	assert.True(t, model.Graph.HasNode("consumer"))
	assert.Contains(t, model.Graph.Dependencies("consumer"), PartID("dependency"))
}

func TestResolveDuplicateSchemeFails(t *testing.T) {
	f1 := &ConcretePart{ID: "f1", Scheme: "test", Type: RuntimeType{Ref: ptrTypeRef(memFactoryTypeRef())}}
	f2 := &ConcretePart{ID: "f2", Scheme: "test", Type: RuntimeType{Ref: ptrTypeRef(memFactoryTypeRef())}}
	bp := &Blueprint{Parts: []Part{f1, f2}}

	_, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.False(t, agg.Empty())
}

func TestResolveBindsExternalByID(t *testing.T) {
	ext := &ExternalPart{ID: "ext"}
	bp := &Blueprint{Parts: []Part{ext}}

	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, []*ExternalObject{
		External("ext", "supplied-value"),
	})
	require.True(t, agg.Empty())
	obj, ok := model.Externals["ext"]
	require.True(t, ok)
	assert.Equal(t, "supplied-value", obj.Value)
}

func TestResolveUnmatchedExternalFails(t *testing.T) {
	ext := &ExternalPart{ID: "ext"}
	bp := &Blueprint{Parts: []Part{ext}}

	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.False(t, agg.Empty())
	assert.True(t, model.Failed["ext"])
}

func TestResolveUndefinedDisablesDependentsTransitively(t *testing.T) {
	undefined := &UndefinedPart{ID: "u"}
	middle := &ConcretePart{ID: "mid", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByID{ID: "u"}}}
	top := &ConcretePart{ID: "top", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": ByID{ID: "mid"}}}
	independent := &ConcretePart{ID: "indep", Type: RuntimeType{Ref: ptrTypeRef(widgetTypeRef())},
		Features: map[string]Reference{"dep": Constant{Value: "ok"}}}

	bp := &Blueprint{Parts: []Part{undefined, middle, top, independent}}
	model, agg := NewResolver(nil).Resolve([]*Blueprint{bp}, nil)
	require.True(t, agg.Empty())

	assert.True(t, model.Incomplete["u"])
	assert.True(t, model.Incomplete["mid"])
	assert.True(t, model.Incomplete["top"])
	assert.False(t, model.Incomplete["indep"])
}

func ptrTypeRef(ref TypeReference) *TypeReference { return &ref }
