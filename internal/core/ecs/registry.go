package ecs

import (
	"fmt"
	"reflect"
)

// ComponentID is the stable integer identity of a component type within one
// Engine. Ids are assigned from 0 in first-use order and never reassigned.
type ComponentID uint32

// Registry maps runtime component types to their ComponentID. The mapping is
// a bijection for the lifetime of the Registry: the first reference to a type
// allocates the next id, every later reference returns the cached one, and
// there is no removal. Each Engine owns its Registry; there is no process-wide
// registry.
type Registry struct {
	ids   map[reflect.Type]ComponentID
	types []reflect.Type // id -> descriptor
}

func NewRegistry() *Registry {
	return &Registry{
		ids:   make(map[reflect.Type]ComponentID, 32),
		types: make([]reflect.Type, 0, 32),
	}
}

// IDOf returns the id for t, allocating one on first use.
func (r *Registry) IDOf(t reflect.Type) ComponentID {
	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.types) >= maxComponentTypes {
		panic(fmt.Sprintf("ecs: component type limit (%d) exceeded registering %s", maxComponentTypes, t))
	}
	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

// lookup returns the id for t without allocating. Read paths use this so a
// get/has on a never-registered type stays an absent result instead of
// minting an id.
func (r *Registry) lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// TypeOf returns the runtime type descriptor for a previously assigned id.
func (r *Registry) TypeOf(id ComponentID) (reflect.Type, bool) {
	if int(id) >= len(r.types) {
		return nil, false
	}
	return r.types[id], true
}

func (r *Registry) Len() int {
	return len(r.types)
}

// TypeID resolves the id for component type T, registering it on first use.
func TypeID[T any](r *Registry) ComponentID {
	return r.IDOf(reflect.TypeOf((*T)(nil)).Elem())
}
