package ecs

import "errors"

var (
	// ErrDuplicateEntity is reported when an entity id is added twice.
	ErrDuplicateEntity = errors.New("entity already registered")

	// ErrUnregisteredEntity is reported when an operation targets an entity
	// the engine is not tracking.
	ErrUnregisteredEntity = errors.New("entity not registered")

	// ErrConcurrentUpdate is reported when Engine.Update is called while a
	// tick is already in progress. It indicates a logic bug in a system: a
	// nested tick would corrupt iteration over systems and over the pending
	// revalidation set.
	ErrConcurrentUpdate = errors.New("update already in progress")
)
