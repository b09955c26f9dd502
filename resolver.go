package rig

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/rs/xid"
)

// ResolvedModel is the Resolver's output: the flattened, id-addressed union
// of every loaded blueprint, ready for the Dependency Graph and Assembler
// (spec.md §4.2).
type ResolvedModel struct {
	// Parts indexes every part — concrete, external, undefined, and
	// collection, including inline parts flattened out of feature
	// references — by its resolved identifier.
	Parts map[PartID]Part

	// Graph is the dependency graph built from the rewritten references.
	Graph *Graph

	// Incomplete holds every part transitively disabled by an undefined
	// placeholder (spec.md §4.2 step 8), including the undefined parts
	// themselves. Membership here is never an error (P5).
	Incomplete map[PartID]bool

	// Failed holds every part dropped because of a resolve-time defect
	// (unresolved alias, unresolved name, missing scheme, unmatched
	// external) — each already has a corresponding Diagnostic in the
	// Aggregate the Resolver returned. A later part repeating an identifier
	// is reported too, but is left out of Parts rather than added here.
	Failed map[PartID]bool

	// Schemes maps a URI scheme to the identifier of the one factory part
	// that serves it (spec.md M4).
	Schemes map[string]PartID

	// Externals maps an external part's resolved identifier to the
	// caller-supplied object bound to it (spec.md §4.2 step 7).
	Externals map[PartID]*ExternalObject
}

// Excluded is the union of Incomplete and Failed: every identifier the
// Assembler must skip when it asks the Graph for a topological order.
func (m *ResolvedModel) Excluded() map[PartID]bool {
	excluded := make(map[PartID]bool, len(m.Incomplete)+len(m.Failed))
	for id := range m.Incomplete {
		excluded[id] = true
	}
	for id := range m.Failed {
		excluded[id] = true
	}
	return excluded
}

// Part looks up a part by resolved identifier.
func (m *ResolvedModel) Part(id PartID) (Part, bool) {
	p, ok := m.Parts[id]
	return p, ok
}

// Resolver implements spec.md §4.2: it turns the union of loaded blueprints
// plus the caller's external objects into a ResolvedModel, collecting every
// defect into an Aggregate rather than aborting at the first one.
type Resolver struct {
	logger Logger
}

// NewResolver returns a Resolver that logs through the given Logger (a
// NewNopLogger() is fine when the caller doesn't want resolve-time logging).
func NewResolver(logger Logger) *Resolver {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Resolver{logger: logger}
}

// partEntry pairs a flattened part with the type-alias table of the
// blueprint that (directly or, for an inline part, transitively) declared it.
type partEntry struct {
	part    Part
	aliases map[string]TypeReference
}

// Resolve runs every step of spec.md §4.2 in turn, each accumulating
// defects into the returned Aggregate instead of aborting the pass.
func (r *Resolver) Resolve(blueprints []*Blueprint, externals []*ExternalObject) (*ResolvedModel, *Aggregate) {
	agg := NewAggregate()

	// --- flatten: collect every top-level and inline part -----------------
	var entries []*partEntry
	var visit func(p Part, aliases map[string]TypeReference)
	visit = func(p Part, aliases map[string]TypeReference) {
		entries = append(entries, &partEntry{part: p, aliases: aliases})
		switch v := p.(type) {
		case *ConcretePart:
			for _, ref := range v.Features {
				if inline, ok := ref.(Inline); ok && inline.Part != nil {
					visit(inline.Part, aliases)
				}
			}
		case *PartCollection:
			for _, entry := range v.Entries {
				if inline, ok := entry.Value.(Inline); ok && inline.Part != nil {
					visit(inline.Part, aliases)
				}
			}
		}
	}
	for _, bp := range blueprints {
		for _, p := range bp.Parts {
			visit(p, bp.Aliases)
		}
	}

	// --- step 1: identifier synthesis --------------------------------------
	for _, e := range entries {
		ensurePartID(e.part)
	}

	// --- step 2: uniqueness (identifiers, then names) ----------------------
	parts := make(map[PartID]Part, len(entries))
	aliasOf := make(map[PartID]map[string]TypeReference, len(entries))
	names := make(map[string]PartID)
	failed := make(map[PartID]bool)

	for _, e := range entries {
		id := e.part.PartIdentifier()
		if _, dup := parts[id]; dup {
			agg.Add(errReference(id, fmt.Sprintf("duplicate identifier %q", id)))
			continue
		}
		parts[id] = e.part
		aliasOf[id] = e.aliases
	}
	var sortedIDs []PartID
	for id := range parts {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })

	for _, id := range sortedIDs {
		name, ok := parts[id].PartName()
		if !ok {
			continue
		}
		if existing, dup := names[name]; dup {
			agg.Add(errReference(id, fmt.Sprintf("duplicate name %q (already used by %s)", name, existing)))
			continue
		}
		names[name] = id
	}

	// --- step 3: type alias expansion --------------------------------------
	for _, id := range sortedIDs {
		rt, has := runtimeTypeOf(parts[id])
		if !has || !rt.IsAlias() {
			continue
		}
		target, ok := aliasOf[id][rt.Alias]
		if !ok {
			agg.Add(errReference(id, fmt.Sprintf("unresolved type alias %q", rt.Alias)))
			failed[id] = true
			continue
		}
		setRuntimeType(parts[id], RuntimeType{Ref: &target})
	}

	// --- step 5 (ahead of step 4/6, which both consume it): scheme table ---
	schemes := make(map[string]PartID)
	for _, id := range sortedIDs {
		scheme := schemeOf(parts[id])
		if scheme == "" {
			continue
		}
		if existing, dup := schemes[scheme]; dup {
			agg.Add(errReference(id, fmt.Sprintf("duplicate factory scheme %q (already declared by %s)", scheme, existing)))
			continue
		}
		schemes[scheme] = id
	}

	// --- step 4 + step 6: name-to-id rewrite and URI annotation, building
	// the dependency graph's edges along the way -----------------------------
	graph := NewGraph()
	for _, id := range sortedIDs {
		graph.AddNode(id)
	}

	rewrite := func(owner PartID, ref Reference) Reference {
		switch v := ref.(type) {
		case ByName:
			target, ok := names[v.Name]
			if !ok {
				agg.Add(errReference(owner, fmt.Sprintf("unresolved name %q", v.Name)))
				failed[owner] = true
				return v
			}
			return ByID{ID: target}
		case ByURI:
			scheme := schemeFromURI(v.URI)
			factory, ok := schemes[scheme]
			if !ok {
				agg.Add(errReference(owner, fmt.Sprintf("no factory declared for scheme %q", scheme)))
				failed[owner] = true
				return v
			}
			v.Factory = factory
			return v
		default:
			return ref
		}
	}
	rewriteProperty := func(owner PartID, pv PropertyValue) PropertyValue {
		v, ok := pv.(PropertyURI)
		if !ok {
			return pv
		}
		scheme := schemeFromURI(v.URI)
		factory, ok := schemes[scheme]
		if !ok {
			agg.Add(errReference(owner, fmt.Sprintf("no factory declared for scheme %q", scheme)))
			failed[owner] = true
			return v
		}
		v.Factory = factory
		return v
	}
	addRefEdge := func(from PartID, ref Reference) {
		switch v := ref.(type) {
		case ByID:
			graph.AddEdge(from, v.ID)
		case ByURI:
			if v.Factory != "" {
				graph.AddEdge(from, v.Factory)
			}
		case Inline:
			if v.Part != nil {
				graph.AddEdge(from, v.Part.ID)
			}
		}
	}

	for _, id := range sortedIDs {
		if failed[id] {
			continue
		}
		switch v := parts[id].(type) {
		case *ConcretePart:
			for name, ref := range v.Features {
				ref = rewrite(id, ref)
				v.Features[name] = ref
				addRefEdge(id, ref)
			}
			for name, pv := range v.Properties {
				pv = rewriteProperty(id, pv)
				v.Properties[name] = pv
				if u, ok := pv.(PropertyURI); ok && u.Factory != "" {
					graph.AddEdge(id, u.Factory)
				}
			}
		case *PartCollection:
			for i, entry := range v.Entries {
				ref := rewrite(id, entry.Value)
				v.Entries[i].Value = ref
				addRefEdge(id, ref)
			}
		}
	}

	// --- step 7: external binding -------------------------------------------
	byID := make(map[PartID]*ExternalObject)
	byName := make(map[string]*ExternalObject)
	for _, eo := range externals {
		if eo.ID != "" {
			byID[eo.ID] = eo
		}
		if eo.Name != "" {
			byName[eo.Name] = eo
		}
	}
	bound := make(map[PartID]*ExternalObject)
	for _, id := range sortedIDs {
		ep, ok := parts[id].(*ExternalPart)
		if !ok {
			continue
		}
		obj := byID[ep.ID]
		if obj == nil && ep.Name != "" {
			obj = byName[ep.Name]
		}
		if obj == nil {
			agg.Add(errReference(id, "no external object supplied for this external part"))
			failed[id] = true
			continue
		}
		bound[id] = obj
	}

	// --- step 8: transitive disablement --------------------------------------
	var undefinedIDs []PartID
	for _, id := range sortedIDs {
		if _, ok := parts[id].(*UndefinedPart); ok {
			undefinedIDs = append(undefinedIDs, id)
		}
	}
	incomplete := graph.MarkIncomplete(undefinedIDs)

	for _, d := range agg.Diagnostics() {
		logDiagnostic(r.logger, d)
	}

	return &ResolvedModel{
		Parts:      parts,
		Graph:      graph,
		Incomplete: incomplete,
		Failed:     failed,
		Schemes:    schemes,
		Externals:  bound,
	}, agg
}

// ensurePartID assigns a fresh identifier to a part that declared none,
// marking it Synthesized where the model tracks that (spec.md §4.2 step 1).
// Synthesized identifiers are minted with xid rather than uuid: they are
// never meant to look like a document-declared canonical id, and are
// excluded from BlueprintWriter round-trips (P10).
func ensurePartID(p Part) {
	if p.PartIdentifier() != "" {
		return
	}
	fresh := PartID(xid.New().String())
	switch v := p.(type) {
	case *ConcretePart:
		v.ID = fresh
		v.Synthesized = true
	case *ExternalPart:
		v.ID = fresh
	case *UndefinedPart:
		v.ID = fresh
	case *PartCollection:
		v.ID = fresh
		v.Synthesized = true
	}
}

func runtimeTypeOf(p Part) (RuntimeType, bool) {
	switch v := p.(type) {
	case *ConcretePart:
		return v.Type, true
	case *PartCollection:
		return v.Type, true
	default:
		return RuntimeType{}, false
	}
}

func setRuntimeType(p Part, rt RuntimeType) {
	switch v := p.(type) {
	case *ConcretePart:
		v.Type = rt
	case *PartCollection:
		v.Type = rt
	}
}

func schemeOf(p Part) string {
	switch v := p.(type) {
	case *ConcretePart:
		return v.Scheme
	case *ExternalPart:
		return v.Scheme
	default:
		return ""
	}
}

// schemeFromURI extracts the scheme component of a URI string. A malformed
// URI simply yields no scheme, which the caller reports as "no factory
// declared for scheme \"\"" — still a single, attributable diagnostic.
func schemeFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Scheme
}
