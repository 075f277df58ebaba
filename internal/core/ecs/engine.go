package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/loomwork/loom/internal/core/event"
)

// tickState tracks where the engine is inside one update cycle.
type tickState uint8

const (
	stateIdle     tickState = iota // accepting Update calls
	stateRunning                   // systems executing
	stateDraining                  // query revalidation
)

// Engine owns all ECS state: the entity index, the archetype graph, the
// component-type registry, the registered systems and their queries, and the
// pending revalidation set. It is the sole mutator of entity and component
// state. Single-threaded: one driving loop calls Update serially, and all
// mutation happens on that goroutine, either inside a tick or at setup time
// before the first tick.
type Engine struct {
	log   *zap.Logger
	types *Registry
	graph *archetypeGraph
	bus   *event.Bus

	entities    []Entity
	entityIndex map[EntityID]*Archetype

	// componentIndex is a coarse lookup from component id to the archetypes
	// whose type set contains it. Archetype ids are never evicted, even when
	// an archetype empties: archetypes are immortal once interned, so a
	// present id is always a valid archetype. Correct for membership checks
	// because an entity's archetype id uniquely encodes its component set.
	componentIndex map[ComponentID]map[ArchetypeID]struct{}

	systems  []System
	sorted   bool
	queries  []*Query
	querySet map[*Query]struct{}

	// modified is the deduplicated set of entities awaiting query
	// revalidation at the end of the current tick.
	modified map[EntityID]Entity

	nextID EntityID
	state  tickState
}

// New constructs an empty engine. A nil logger disables diagnostics.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		log:            log,
		types:          NewRegistry(),
		bus:            event.NewBus(),
		entityIndex:    make(map[EntityID]*Archetype, 256),
		componentIndex: make(map[ComponentID]map[ArchetypeID]struct{}, 32),
		querySet:       make(map[*Query]struct{}, 8),
		modified:       make(map[EntityID]Entity, 64),
	}
	e.graph = newArchetypeGraph(e.onArchetypeCreated)
	return e
}

// Types returns the engine's component-type registry.
func (e *Engine) Types() *Registry { return e.types }

// Bus returns the engine's lifecycle event bus. Events emitted during tick N
// are dispatched at the start of tick N+1.
func (e *Engine) Bus() *event.Bus { return e.bus }

func (e *Engine) EntityCount() int    { return len(e.entities) }
func (e *Engine) ArchetypeCount() int { return e.graph.count() }
func (e *Engine) QueryCount() int     { return len(e.queries) }

// onArchetypeCreated indexes a freshly interned archetype under every
// component id in its type set so HasComponent stays a pure index lookup.
func (e *Engine) onArchetypeCreated(a *Archetype) {
	for _, c := range a.types {
		set := e.componentIndex[c]
		if set == nil {
			set = make(map[ArchetypeID]struct{}, 8)
			e.componentIndex[c] = set
		}
		set[a.id] = struct{}{}
	}
	event.Emit(e.bus, ArchetypeCreated{Archetype: a.id, Types: a.types})
	e.log.Debug("archetype created",
		zap.Uint32("archetype", uint32(a.id)),
		zap.Int("types", len(a.types)))
}

// CreateEntity allocates a fresh entity with no components. The entity
// references the EMPTY archetype until its first component arrives.
func (e *Engine) CreateEntity() Entity {
	ent := Entity{id: e.nextID, eng: e}
	e.nextID++
	if err := e.AddEntity(ent); err != nil {
		e.log.Warn("create entity", zap.Error(err))
	}
	return ent
}

// AddEntity registers a pre-built entity. Returns ErrDuplicateEntity (and
// changes nothing) if the id is already tracked.
func (e *Engine) AddEntity(ent Entity) error {
	if _, ok := e.entityIndex[ent.id]; ok {
		return fmt.Errorf("add entity %d: %w", uint64(ent.id), ErrDuplicateEntity)
	}
	ent.eng = e
	e.entityIndex[ent.id] = e.graph.empty
	e.entities = append(e.entities, ent)
	if ent.id >= e.nextID {
		e.nextID = ent.id + 1
	}
	event.Emit(e.bus, EntityCreated{Entity: ent})
	e.log.Debug("entity added", zap.Uint64("entity", uint64(ent.id)))
	return nil
}

// RemoveEntity strips every component the entity holds, unregisters it, and
// marks it for query revalidation. Removing an untracked entity is a logged
// no-op.
func (e *Engine) RemoveEntity(ent Entity) {
	if _, ok := e.entityIndex[ent.id]; !ok {
		e.log.Warn("remove entity: not registered", zap.Uint64("entity", uint64(ent.id)))
		return
	}
	// Drive the entity back to EMPTY one component at a time so every
	// removal runs through the normal edge protocol.
	for {
		arch := e.entityIndex[ent.id]
		if len(arch.types) == 0 {
			break
		}
		e.RemoveComponent(ent, arch.types[len(arch.types)-1])
	}
	delete(e.entityIndex, ent.id)
	if i := slices.IndexFunc(e.entities, func(x Entity) bool { return x.id == ent.id }); i >= 0 {
		e.entities = append(e.entities[:i], e.entities[i+1:]...)
	}
	e.markModified(ent)
	event.Emit(e.bus, EntityRemoved{Entity: ent})
	e.log.Debug("entity removed", zap.Uint64("entity", uint64(ent.id)))
}

// Contains reports whether the entity is currently registered.
func (e *Engine) Contains(ent Entity) bool {
	_, ok := e.entityIndex[ent.id]
	return ok
}

// Entities returns a snapshot of the live entity list in registration order.
func (e *Engine) Entities() []Entity {
	return slices.Clone(e.entities)
}

// AddComponent attaches a component instance to the entity, moving it along
// the add edge to the archetype holding its new type set. Adding a component
// type the entity already holds replaces the stored instance in place without
// an archetype transition. A nil component or untracked entity is a logged
// no-op.
func (e *Engine) AddComponent(ent Entity, c any) {
	if c == nil {
		e.log.Warn("add component: nil component", zap.Uint64("entity", uint64(ent.id)))
		return
	}
	arch, ok := e.entityIndex[ent.id]
	if !ok {
		e.log.Warn("add component: entity not registered", zap.Uint64("entity", uint64(ent.id)))
		return
	}
	cid := e.types.IDOf(reflect.TypeOf(c))
	if arch.mask.has(cid) {
		arch.set(ent.id, cid, c)
		e.log.Debug("component replaced",
			zap.Uint64("entity", uint64(ent.id)),
			zap.Uint32("component", uint32(cid)))
		return
	}
	dst := e.graph.next(arch, cid)
	row := arch.take(ent.id)
	if row == nil {
		row = make(map[ComponentID]any, len(dst.types))
	}
	row[cid] = c
	dst.insert(ent.id, row)
	e.entityIndex[ent.id] = dst
	e.markModified(ent)
	event.Emit(e.bus, ComponentAdded{Entity: ent, Component: cid, From: arch.id, To: dst.id})
	e.log.Debug("component added",
		zap.Uint64("entity", uint64(ent.id)),
		zap.Uint32("component", uint32(cid)),
		zap.Uint32("archetype", uint32(dst.id)))
}

// RemoveComponent detaches the component with the given type id, moving the
// entity along the remove edge. Removing a type the entity does not hold, or
// from an untracked entity, is a logged no-op.
func (e *Engine) RemoveComponent(ent Entity, cid ComponentID) {
	arch, ok := e.entityIndex[ent.id]
	if !ok {
		e.log.Warn("remove component: entity not registered", zap.Uint64("entity", uint64(ent.id)))
		return
	}
	if !arch.mask.has(cid) {
		e.log.Warn("remove component: not held",
			zap.Uint64("entity", uint64(ent.id)),
			zap.Uint32("component", uint32(cid)))
		return
	}
	dst := e.graph.prev(arch, cid)
	if row := arch.take(ent.id); row != nil {
		delete(row, cid)
		dst.insert(ent.id, row)
	}
	e.entityIndex[ent.id] = dst
	e.markModified(ent)
	event.Emit(e.bus, ComponentRemoved{Entity: ent, Component: cid, From: arch.id, To: dst.id})
	e.log.Debug("component removed",
		zap.Uint64("entity", uint64(ent.id)),
		zap.Uint32("component", uint32(cid)),
		zap.Uint32("archetype", uint32(dst.id)))
}

// HasComponent reports whether the entity currently holds the component
// type. This is a pure index lookup: the entity's archetype id intersected
// with the coarse component index, no storage access.
func (e *Engine) HasComponent(ent Entity, cid ComponentID) bool {
	arch, ok := e.entityIndex[ent.id]
	if !ok {
		return false
	}
	set, ok := e.componentIndex[cid]
	if !ok {
		return false
	}
	_, ok = set[arch.id]
	return ok
}

// GetComponent returns the entity's stored instance of component type T.
// Absent component, untracked entity, unregistered type, and stored-type
// mismatch all return the zero value and false; none of them fail hard.
func GetComponent[T any](e *Engine, ent Entity) (T, bool) {
	var zero T
	arch, ok := e.entityIndex[ent.id]
	if !ok {
		return zero, false
	}
	cid, ok := e.types.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return zero, false
	}
	v, ok := arch.get(ent.id, cid)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// RegisterSystem adds a system and registers its queries, populating each
// new query's cached list with one scan of the live entity list. Fluent so
// setup code can chain registrations.
func (e *Engine) RegisterSystem(s System) *Engine {
	e.systems = append(e.systems, s)
	e.sorted = false
	for _, q := range s.Queries() {
		if q == nil {
			continue
		}
		if _, ok := e.querySet[q]; ok {
			continue
		}
		e.querySet[q] = struct{}{}
		e.queries = append(e.queries, q)
		for _, ent := range e.entities {
			q.revalidate(ent, q.matches(e.entityIndex[ent.id].mask))
		}
	}
	e.log.Info("system registered",
		zap.Int("priority", s.Priority()),
		zap.Int("queries", len(s.Queries())))
	return e
}

// Update runs one tick: dispatch last tick's events, run every system in
// priority order, then revalidate query membership for every entity mutated
// during the tick. Reentrant calls fail with ErrConcurrentUpdate and do no
// work.
func (e *Engine) Update(dt time.Duration) error {
	if e.state != stateIdle {
		return fmt.Errorf("engine update: %w", ErrConcurrentUpdate)
	}
	e.state = stateRunning
	e.bus.SwapBuffers()
	e.bus.DispatchAll()
	e.ensureSorted()
	for _, s := range e.systems {
		s.Update(dt)
	}
	e.state = stateDraining
	e.drain()
	e.state = stateIdle
	return nil
}

// drain walks the deduplicated modified set once and reconciles every query
// against each entity's current archetype. The set is cleared unconditionally
// so no entry can survive into the next tick.
func (e *Engine) drain() {
	defer clear(e.modified)
	for id, ent := range e.modified {
		arch, live := e.entityIndex[id]
		for _, q := range e.queries {
			q.revalidate(ent, live && q.matches(arch.mask))
		}
	}
}

func (e *Engine) markModified(ent Entity) {
	e.modified[ent.id] = ent
}

func (e *Engine) ensureSorted() {
	if !e.sorted {
		sort.SliceStable(e.systems, func(i, j int) bool {
			return e.systems[i].Priority() < e.systems[j].Priority()
		})
		e.sorted = true
	}
}
