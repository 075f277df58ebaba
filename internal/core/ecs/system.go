package ecs

import "time"

// System is one unit of per-tick behavior. The Engine runs systems in
// ascending Priority order, ties in registration order. A system declares the
// queries it iterates so the Engine can register and maintain them; Update
// must not call Engine.Update reentrantly.
type System interface {
	Priority() int
	Queries() []*Query
	Update(dt time.Duration)
}
