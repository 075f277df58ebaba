package sim

import (
	"time"

	"github.com/loomwork/loom/internal/core/ecs"
	"github.com/loomwork/loom/internal/scripting"
)

// MetabolismSystem drains health each tick. The drain amount comes from the
// Lua health_drain formula when a script runtime is attached, otherwise a
// flat one point per tick.
type MetabolismSystem struct {
	eng     *ecs.Engine
	scripts *scripting.Runtime
	query   *ecs.Query
}

func NewMetabolismSystem(eng *ecs.Engine, scripts *scripting.Runtime) *MetabolismSystem {
	return &MetabolismSystem{
		eng:     eng,
		scripts: scripts,
		query:   ecs.NewQuery(ecs.TypeID[Health](eng.Types())),
	}
}

func (s *MetabolismSystem) Priority() int         { return 20 }
func (s *MetabolismSystem) Queries() []*ecs.Query { return []*ecs.Query{s.query} }

func (s *MetabolismSystem) Update(dt time.Duration) {
	dtMs := int(dt.Milliseconds())
	for _, ent := range s.query.Entities() {
		h, ok := ecs.GetComponent[Health](s.eng, ent)
		if !ok {
			continue // removed earlier this tick; query sees it until drain
		}
		drain := 1
		if s.scripts != nil {
			drain = s.scripts.HealthDrain(scripting.MetabolismContext{
				Health:    h.Current,
				MaxHealth: h.Max,
				DtMillis:  dtMs,
			})
		}
		h.Current -= drain
		s.eng.AddComponent(ent, h)
	}
}
