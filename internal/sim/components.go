package sim

import "time"

// Demo components for the simulation driver. Components are plain value
// types; the engine identifies them by runtime type.

type Position struct {
	X, Y float64
}

type Velocity struct {
	VX, VY float64
}

type Health struct {
	Current, Max int
}

// Lifetime expires an entity after a fixed duration.
type Lifetime struct {
	Remaining time.Duration
}
