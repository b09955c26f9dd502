package rig

import "sort"

// Graph holds nodes (parts) and directed "depends on" edges between them
// (spec.md §4.3). Edges are emitted for a feature reference whose target is
// a part, a property whose value is a ByURI, a collection element whose
// target is a part, and an inline part (which emits both an edge and a
// nested node — the nested node is added by the Resolver before the graph
// is built).
type Graph struct {
	nodes map[PartID]struct{}
	edges map[PartID]map[PartID]struct{} // A -> set of B, meaning "A depends on B"
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[PartID]struct{}),
		edges: make(map[PartID]map[PartID]struct{}),
	}
}

// AddNode registers a part identifier as a graph node. Safe to call more
// than once for the same id.
func (g *Graph) AddNode(id PartID) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = struct{}{}
		g.edges[id] = make(map[PartID]struct{})
	}
}

// AddEdge records that `from` depends on `to`; both are registered as nodes
// if not already present.
func (g *Graph) AddEdge(from, to PartID) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from][to] = struct{}{}
}

// HasNode reports whether id is a node in the graph.
func (g *Graph) HasNode(id PartID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Dependencies returns the identifiers `id` directly depends on.
func (g *Graph) Dependencies(id PartID) []PartID {
	deps := make([]PartID, 0, len(g.edges[id]))
	for d := range g.edges[id] {
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
	return deps
}

// MarkIncomplete computes the transitive-disablement set (spec.md §4.2 step
// 8): starting from every undefined part, every part reachable *backwards*
// along dependency edges — i.e. every part that (transitively) depends on an
// undefined part — is incomplete. The undefined parts themselves are
// included in the result since they are never placed in the container
// either.
func (g *Graph) MarkIncomplete(undefined []PartID) map[PartID]bool {
	dependents := make(map[PartID][]PartID) // B -> []A where A depends on B
	for from, tos := range g.edges {
		for to := range tos {
			dependents[to] = append(dependents[to], from)
		}
	}

	incomplete := make(map[PartID]bool, len(undefined))
	queue := make([]PartID, 0, len(undefined))
	for _, u := range undefined {
		if !incomplete[u] {
			incomplete[u] = true
			queue = append(queue, u)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dependent := range dependents[id] {
			if !incomplete[dependent] {
				incomplete[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}

	return incomplete
}

// TopologicalOrder returns every node not in `exclude`, in dependency order:
// for every edge A -> B (A depends on B) present between two included
// nodes, B precedes A. Ties among simultaneously-available nodes are broken
// by identifier so the order is deterministic (spec.md §4.3). Returns a
// *Diagnostic naming every node left over with unresolved dependencies when
// the remaining graph is not a DAG (spec.md P6).
func (g *Graph) TopologicalOrder(exclude map[PartID]bool) ([]PartID, *Diagnostic) {
	included := make([]PartID, 0, len(g.nodes))
	for id := range g.nodes {
		if !exclude[id] {
			included = append(included, id)
		}
	}
	sort.Slice(included, func(i, j int) bool { return included[i] < included[j] })

	// indegree[A] = number of B such that A -> B (A depends on B) and B is included.
	indegree := make(map[PartID]int, len(included))
	dependents := make(map[PartID][]PartID) // B -> []A, restricted to included nodes
	for _, id := range included {
		indegree[id] = 0
	}
	for _, from := range included {
		for to := range g.edges[from] {
			if exclude[to] {
				continue
			}
			indegree[from]++
			dependents[to] = append(dependents[to], from)
		}
	}
	for _, deps := range dependents {
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
	}

	// available = min-heap by identifier of nodes with indegree 0, via a
	// sorted slice — part counts per blueprint are small enough that this
	// is simpler and just as fast as a real heap.
	var available []PartID
	for _, id := range included {
		if indegree[id] == 0 {
			available = append(available, id)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })

	order := make([]PartID, 0, len(included))
	for len(available) > 0 {
		id := available[0]
		available = available[1:]
		order = append(order, id)

		var newlyAvailable []PartID
		for _, dependent := range dependents[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				newlyAvailable = append(newlyAvailable, dependent)
			}
		}
		if len(newlyAvailable) > 0 {
			available = append(available, newlyAvailable...)
			sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })
		}
	}

	if len(order) < len(included) {
		var participants []PartID
		for _, id := range included {
			if indegree[id] > 0 {
				participants = append(participants, id)
			}
		}
		sort.Slice(participants, func(i, j int) bool { return participants[i] < participants[j] })
		return nil, errCycle(participants)
	}

	return order, nil
}
