package ecs

// Query is a cached view of the entities whose archetype holds every type in
// the required set. The cached list is maintained by the Engine at two points
// only: once when the query is first registered (a full scan of the live
// entity list) and once per tick during the drain phase. Between those points
// the list is tick-stable: component mutations made by systems during tick N
// become visible here at the end of tick N, never mid-iteration.
type Query struct {
	mask     typeMask
	required []ComponentID
	entities []Entity
	index    map[EntityID]int // entity -> position in entities
}

// NewQuery builds a query requiring all of the given component types. A
// query with no required types matches every entity.
func NewQuery(required ...ComponentID) *Query {
	return &Query{
		mask:     maskOf(required...),
		required: required,
		index:    make(map[EntityID]int, 64),
	}
}

// Required returns the component-type ids the query filters on.
func (q *Query) Required() []ComponentID { return q.required }

// Entities returns the cached matching entities in membership order. The
// returned slice is owned by the query and valid until the next Engine.Update
// returns; callers must not mutate it.
func (q *Query) Entities() []Entity { return q.entities }

func (q *Query) Len() int { return len(q.entities) }

// Contains reports whether the entity is in the cached list right now.
func (q *Query) Contains(ent Entity) bool {
	_, ok := q.index[ent.id]
	return ok
}

func (q *Query) matches(mask typeMask) bool {
	return mask.containsAll(q.mask)
}

// revalidate reconciles one entity against the cached list. Called by the
// Engine during registration scans and the drain phase.
func (q *Query) revalidate(ent Entity, matches bool) {
	pos, present := q.index[ent.id]
	switch {
	case matches && !present:
		q.index[ent.id] = len(q.entities)
		q.entities = append(q.entities, ent)
	case !matches && present:
		q.entities = append(q.entities[:pos], q.entities[pos+1:]...)
		for i := pos; i < len(q.entities); i++ {
			q.index[q.entities[i].id] = i
		}
		delete(q.index, ent.id)
	}
}
