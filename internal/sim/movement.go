package sim

import (
	"time"

	"github.com/loomwork/loom/internal/core/ecs"
)

// MovementSystem integrates velocity into position for every entity holding
// both. Writes go through the engine's in-place replace path, so no
// archetype transitions happen here.
type MovementSystem struct {
	eng   *ecs.Engine
	query *ecs.Query
}

func NewMovementSystem(eng *ecs.Engine) *MovementSystem {
	return &MovementSystem{
		eng: eng,
		query: ecs.NewQuery(
			ecs.TypeID[Position](eng.Types()),
			ecs.TypeID[Velocity](eng.Types()),
		),
	}
}

func (s *MovementSystem) Priority() int         { return 10 }
func (s *MovementSystem) Queries() []*ecs.Query { return []*ecs.Query{s.query} }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, ent := range s.query.Entities() {
		pos, ok := ecs.GetComponent[Position](s.eng, ent)
		if !ok {
			continue
		}
		vel, ok := ecs.GetComponent[Velocity](s.eng, ent)
		if !ok {
			continue
		}
		pos.X += vel.VX * secs
		pos.Y += vel.VY * secs
		s.eng.AddComponent(ent, pos)
	}
}
