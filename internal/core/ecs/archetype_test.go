package ecs

import "testing"

func TestArchetypeIdentityDedup(t *testing.T) {
	g := newArchetypeGraph(nil)

	// Reach {1,2} along both orderings; the graph must intern one node.
	ab := g.next(g.next(g.empty, 1), 2)
	ba := g.next(g.next(g.empty, 2), 1)

	if ab != ba {
		t.Error("two paths to the same type set produced distinct archetypes")
	}
	// EMPTY, {1}, {2}, {1,2}
	if g.count() != 4 {
		t.Errorf("graph holds %d archetypes, want 4", g.count())
	}
}

func TestEdgeSymmetry(t *testing.T) {
	g := newArchetypeGraph(nil)
	a := g.next(g.empty, 3)

	if a.edges[3].remove != g.empty {
		t.Error("add edge target does not point back along remove")
	}
	if g.empty.edges[3].add != a {
		t.Error("source archetype's add edge not cached")
	}

	b := g.next(a, 5)
	if b.edges[5].remove != a || a.edges[5].add != b {
		t.Error("edge through component 5 is not mutual")
	}
	// Walking back re-uses the cached edge rather than interning anew.
	if g.prev(b, 5) != a {
		t.Error("remove transition did not follow the cached edge")
	}
}

func TestIdempotentTransitions(t *testing.T) {
	g := newArchetypeGraph(nil)
	a := g.next(g.empty, 1)

	if g.next(a, 1) != a {
		t.Error("adding a held component must return the same archetype")
	}
	if g.prev(a, 2) != a {
		t.Error("removing an absent component must return the same archetype")
	}
	if g.prev(g.empty, 1) != g.empty {
		t.Error("EMPTY has nothing to remove")
	}
}

func TestArchetypeTypesSorted(t *testing.T) {
	g := newArchetypeGraph(nil)
	a := g.next(g.next(g.next(g.empty, 7), 2), 4)

	want := []ComponentID{2, 4, 7}
	if len(a.types) != len(want) {
		t.Fatalf("type list %v, want %v", a.types, want)
	}
	for i := range want {
		if a.types[i] != want[i] {
			t.Fatalf("type list %v, want %v", a.types, want)
		}
	}
}

func TestZeroComponentEntityHasNoRow(t *testing.T) {
	e := New(nil)
	ent := e.CreateEntity()

	if e.graph.empty.Len() != 0 {
		t.Error("EMPTY archetype must not hold storage rows")
	}
	e.AddComponent(ent, struct{ n int }{1})
	cid := ComponentID(0)
	e.RemoveComponent(ent, cid)

	// Back at EMPTY: archetype reference, no storage slot.
	if e.entityIndex[ent.id] != e.graph.empty {
		t.Error("stripped entity not parked on EMPTY")
	}
	if e.graph.empty.Len() != 0 {
		t.Error("empty row leaked into EMPTY archetype storage")
	}
}

func TestCreatedHookSeesEveryArchetype(t *testing.T) {
	var seen []ArchetypeID
	g := newArchetypeGraph(func(a *Archetype) { seen = append(seen, a.id) })

	g.next(g.next(g.empty, 1), 2)
	// EMPTY, {1}, {1,2} — the hook covers the root too.
	if len(seen) != 3 {
		t.Errorf("created hook fired %d times, want 3", len(seen))
	}
}
