package ecs

// EntityID is an opaque entity identity. Ids are assigned monotonically by
// the owning Engine and are never reused while the process lives.
type EntityID uint64

// Entity is an id plus a non-owning back-reference to the Engine that tracks
// it. Entities carry no component data themselves; the back-reference only
// routes mutation calls. The zero Entity belongs to no Engine.
type Entity struct {
	id  EntityID
	eng *Engine
}

func (e Entity) ID() EntityID { return e.id }

// Add attaches a component to the entity via the owning Engine.
func (e Entity) Add(c any) {
	if e.eng != nil {
		e.eng.AddComponent(e, c)
	}
}

// Remove detaches the component with the given type id, if held.
func (e Entity) Remove(id ComponentID) {
	if e.eng != nil {
		e.eng.RemoveComponent(e, id)
	}
}

// Has reports whether the entity currently holds the component type.
func (e Entity) Has(id ComponentID) bool {
	return e.eng != nil && e.eng.HasComponent(e, id)
}
