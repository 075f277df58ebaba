package ecs

// Lifecycle events emitted by the Engine onto its event bus. Diagnostics and
// logging attach here; the core itself never formats output. Events emitted
// during tick N are dispatched at the start of tick N+1.

type EntityCreated struct {
	Entity Entity
}

type EntityRemoved struct {
	Entity Entity
}

type ComponentAdded struct {
	Entity    Entity
	Component ComponentID
	From      ArchetypeID
	To        ArchetypeID
}

type ComponentRemoved struct {
	Entity    Entity
	Component ComponentID
	From      ArchetypeID
	To        ArchetypeID
}

type ArchetypeCreated struct {
	Archetype ArchetypeID
	Types     []ComponentID
}
