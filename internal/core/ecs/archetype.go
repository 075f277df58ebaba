package ecs

import "slices"

// ArchetypeID identifies one node of the archetype graph within one Engine.
type ArchetypeID uint32

// archetypeEdge memoizes the neighboring archetypes reached by adding or
// removing a single component type. Either side may be nil until the first
// transition through that component id builds it.
type archetypeEdge struct {
	add    *Archetype
	remove *Archetype
}

// Archetype groups all entities that share one exact set of component types
// and owns the component storage for those entities. Identity is the type
// set: the graph never holds two archetypes with the same mask. An entity
// with zero components references the EMPTY archetype but has no storage row.
type Archetype struct {
	id    ArchetypeID
	mask  typeMask
	types []ComponentID // sorted ascending
	rows  map[EntityID]map[ComponentID]any
	edges map[ComponentID]*archetypeEdge
}

func (a *Archetype) ID() ArchetypeID      { return a.id }
func (a *Archetype) Types() []ComponentID { return a.types }
func (a *Archetype) Len() int             { return len(a.rows) }

func (a *Archetype) get(ent EntityID, c ComponentID) (any, bool) {
	row, ok := a.rows[ent]
	if !ok {
		return nil, false
	}
	v, ok := row[c]
	return v, ok
}

func (a *Archetype) set(ent EntityID, c ComponentID, v any) {
	row, ok := a.rows[ent]
	if !ok {
		row = make(map[ComponentID]any, len(a.types))
		a.rows[ent] = row
	}
	row[c] = v
}

// take removes and returns the entity's storage row, or nil if the entity
// holds no components here. The row is re-inserted into the destination
// archetype on transition; the instances move, they are not copied.
func (a *Archetype) take(ent EntityID) map[ComponentID]any {
	row, ok := a.rows[ent]
	if !ok {
		return nil
	}
	delete(a.rows, ent)
	return row
}

func (a *Archetype) insert(ent EntityID, row map[ComponentID]any) {
	if len(row) == 0 {
		return
	}
	a.rows[ent] = row
}

func (a *Archetype) edge(c ComponentID) *archetypeEdge {
	e, ok := a.edges[c]
	if !ok {
		e = &archetypeEdge{}
		a.edges[c] = e
	}
	return e
}

// archetypeGraph owns every archetype of one Engine, deduplicated by type
// set. The EMPTY archetype (id 0, empty mask) is the implicit root.
type archetypeGraph struct {
	empty   *Archetype
	byMask  map[typeMask]*Archetype
	all     []*Archetype // indexed by ArchetypeID
	created func(*Archetype)
}

func newArchetypeGraph(created func(*Archetype)) *archetypeGraph {
	g := &archetypeGraph{
		byMask:  make(map[typeMask]*Archetype, 16),
		created: created,
	}
	g.empty = g.intern(typeMask{}, nil)
	return g
}

// intern returns the unique archetype for the given mask, creating it if the
// graph has no node with that exact type set yet. Edge presence alone is not
// identity: two different edges may reach the same mask, so lookup always
// goes through the mask key.
func (g *archetypeGraph) intern(mask typeMask, types []ComponentID) *Archetype {
	if a, ok := g.byMask[mask]; ok {
		return a
	}
	a := &Archetype{
		id:    ArchetypeID(len(g.all)),
		mask:  mask,
		types: slices.Clone(types),
		rows:  make(map[EntityID]map[ComponentID]any, 16),
		edges: make(map[ComponentID]*archetypeEdge, 4),
	}
	g.byMask[mask] = a
	g.all = append(g.all, a)
	if g.created != nil {
		g.created(a)
	}
	return a
}

// next returns the archetype reached from a by adding component c, building
// and caching the mutual edge on first use. Adding a component the archetype
// already has is idempotent and returns a unchanged.
func (g *archetypeGraph) next(a *Archetype, c ComponentID) *Archetype {
	if a.mask.has(c) {
		return a
	}
	e := a.edge(c)
	if e.add == nil {
		types := slices.Clone(a.types)
		types = append(types, c)
		slices.Sort(types)
		b := g.intern(a.mask.with(c), types)
		e.add = b
		b.edge(c).remove = a
	}
	return e.add
}

// prev is the remove-direction counterpart of next. Removing a component the
// archetype does not have returns a unchanged.
func (g *archetypeGraph) prev(a *Archetype, c ComponentID) *Archetype {
	if !a.mask.has(c) {
		return a
	}
	e := a.edge(c)
	if e.remove == nil {
		types := slices.Clone(a.types)
		i := slices.Index(types, c)
		types = slices.Delete(types, i, i+1)
		b := g.intern(a.mask.without(c), types)
		e.remove = b
		b.edge(c).add = a
	}
	return e.remove
}

func (g *archetypeGraph) count() int { return len(g.all) }
