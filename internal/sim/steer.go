package sim

import (
	"time"

	"github.com/loomwork/loom/internal/core/ecs"
	"github.com/loomwork/loom/internal/scripting"
)

// SteerSystem lets a Lua formula adjust each mover's velocity before
// MovementSystem integrates it. With no script runtime (or no steer
// function loaded) velocities pass through untouched.
type SteerSystem struct {
	eng     *ecs.Engine
	scripts *scripting.Runtime
	query   *ecs.Query
}

func NewSteerSystem(eng *ecs.Engine, scripts *scripting.Runtime) *SteerSystem {
	return &SteerSystem{
		eng:     eng,
		scripts: scripts,
		query: ecs.NewQuery(
			ecs.TypeID[Position](eng.Types()),
			ecs.TypeID[Velocity](eng.Types()),
		),
	}
}

func (s *SteerSystem) Priority() int         { return 5 }
func (s *SteerSystem) Queries() []*ecs.Query { return []*ecs.Query{s.query} }

func (s *SteerSystem) Update(dt time.Duration) {
	if s.scripts == nil {
		return
	}
	dtMs := int(dt.Milliseconds())
	for _, ent := range s.query.Entities() {
		pos, ok := ecs.GetComponent[Position](s.eng, ent)
		if !ok {
			continue
		}
		vel, ok := ecs.GetComponent[Velocity](s.eng, ent)
		if !ok {
			continue
		}
		res, ok := s.scripts.Steer(scripting.SteerContext{
			X: pos.X, Y: pos.Y,
			VX: vel.VX, VY: vel.VY,
			DtMillis: dtMs,
		})
		if !ok {
			return // no steer function loaded, skip the rest of the pass
		}
		s.eng.AddComponent(ent, Velocity{VX: res.VX, VY: res.VY})
	}
}
