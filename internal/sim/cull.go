package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/loomwork/loom/internal/core/ecs"
)

// CullSystem runs late in the tick and removes entities that have run out:
// health at or below zero, or an expired lifetime. Removals take effect in
// query caches at the end of the tick, so other systems keep a stable view
// while this one works.
type CullSystem struct {
	eng      *ecs.Engine
	log      *zap.Logger
	health   *ecs.Query
	lifetime *ecs.Query
}

func NewCullSystem(eng *ecs.Engine, log *zap.Logger) *CullSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CullSystem{
		eng:      eng,
		log:      log,
		health:   ecs.NewQuery(ecs.TypeID[Health](eng.Types())),
		lifetime: ecs.NewQuery(ecs.TypeID[Lifetime](eng.Types())),
	}
}

func (s *CullSystem) Priority() int         { return 90 }
func (s *CullSystem) Queries() []*ecs.Query { return []*ecs.Query{s.health, s.lifetime} }

func (s *CullSystem) Update(dt time.Duration) {
	for _, ent := range s.health.Entities() {
		h, ok := ecs.GetComponent[Health](s.eng, ent)
		if !ok {
			continue
		}
		if h.Current <= 0 {
			s.log.Debug("culling exhausted entity", zap.Uint64("entity", uint64(ent.ID())))
			s.eng.RemoveEntity(ent)
		}
	}
	for _, ent := range s.lifetime.Entities() {
		lt, ok := ecs.GetComponent[Lifetime](s.eng, ent)
		if !ok {
			continue // may already be gone via the health pass
		}
		lt.Remaining -= dt
		if lt.Remaining <= 0 {
			s.log.Debug("culling expired entity", zap.Uint64("entity", uint64(ent.ID())))
			s.eng.RemoveEntity(ent)
			continue
		}
		s.eng.AddComponent(ent, lt)
	}
}
