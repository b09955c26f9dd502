package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphTopologicalOrderRespectsEdges(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b") // a depends on b
	g.AddEdge("b", "c")
	g.AddEdge("a", "c")

	order, cycle := g.TopologicalOrder(nil)
	require.Nil(t, cycle)
	require.Len(t, order, 3)

	pos := make(map[PartID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["c"], pos["b"])
	assert.Less(t, pos["b"], pos["a"])
}

func TestGraphTopologicalOrderIsDeterministic(t *testing.T) {
	g := NewGraph()
	g.AddNode("z")
	g.AddNode("y")
	g.AddNode("x")

	order, cycle := g.TopologicalOrder(nil)
	require.Nil(t, cycle)
	assert.Equal(t, []PartID{"x", "y", "z"}, order)
}

func TestGraphTopologicalOrderExcludesNodes(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddNode("c")

	order, cycle := g.TopologicalOrder(map[PartID]bool{"c": true})
	require.Nil(t, cycle)
	assert.ElementsMatch(t, []PartID{"a", "b"}, order)
}

func TestGraphTopologicalOrderDetectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	order, cycle := g.TopologicalOrder(nil)
	assert.Nil(t, order)
	require.NotNil(t, cycle)
	assert.Equal(t, CodeCycleError, cycle.Code)
	assert.Contains(t, cycle.Context["participants"], PartID("a"))
	assert.Contains(t, cycle.Context["participants"], PartID("b"))
}

func TestGraphMarkIncompletePropagatesTransitively(t *testing.T) {
	g := NewGraph()
	g.AddEdge("consumer", "middle") // consumer depends on middle
	g.AddEdge("middle", "undefined")

	incomplete := g.MarkIncomplete([]PartID{"undefined"})
	assert.True(t, incomplete["undefined"])
	assert.True(t, incomplete["middle"])
	assert.True(t, incomplete["consumer"])
}

func TestGraphMarkIncompleteLeavesUnrelatedPartsAlone(t *testing.T) {
	g := NewGraph()
	g.AddEdge("consumer", "middle")
	g.AddEdge("middle", "undefined")
	g.AddNode("unrelated")

	incomplete := g.MarkIncomplete([]PartID{"undefined"})
	assert.False(t, incomplete["unrelated"])
}
