// Package observe attaches logging to an engine's lifecycle event bus. The
// engine core only reports ids; everything about verbosity and formatting
// lives here.
package observe

import (
	"time"

	"go.uber.org/zap"

	"github.com/loomwork/loom/internal/core/ecs"
	"github.com/loomwork/loom/internal/core/event"
)

// Attach subscribes lifecycle loggers to the engine's bus. Events appear one
// tick after the mutation that caused them, matching the bus's
// double-buffered delivery.
func Attach(eng *ecs.Engine, log *zap.Logger) {
	bus := eng.Bus()

	event.Subscribe(bus, func(ev ecs.EntityCreated) {
		log.Debug("entity created", zap.Uint64("entity", uint64(ev.Entity.ID())))
	})
	event.Subscribe(bus, func(ev ecs.EntityRemoved) {
		log.Debug("entity removed", zap.Uint64("entity", uint64(ev.Entity.ID())))
	})
	event.Subscribe(bus, func(ev ecs.ComponentAdded) {
		log.Debug("component added",
			zap.Uint64("entity", uint64(ev.Entity.ID())),
			zap.Uint32("component", uint32(ev.Component)),
			zap.Uint32("from", uint32(ev.From)),
			zap.Uint32("to", uint32(ev.To)))
	})
	event.Subscribe(bus, func(ev ecs.ComponentRemoved) {
		log.Debug("component removed",
			zap.Uint64("entity", uint64(ev.Entity.ID())),
			zap.Uint32("component", uint32(ev.Component)),
			zap.Uint32("from", uint32(ev.From)),
			zap.Uint32("to", uint32(ev.To)))
	})
	event.Subscribe(bus, func(ev ecs.ArchetypeCreated) {
		log.Info("archetype created",
			zap.Uint32("archetype", uint32(ev.Archetype)),
			zap.Int("types", len(ev.Types)))
	})
}

// StatsSystem logs engine counters every N ticks. Runs last so the numbers
// reflect the tick that just happened.
type StatsSystem struct {
	eng   *ecs.Engine
	log   *zap.Logger
	every int
	ticks int
}

func NewStatsSystem(eng *ecs.Engine, log *zap.Logger, every int) *StatsSystem {
	return &StatsSystem{eng: eng, log: log, every: every}
}

func (s *StatsSystem) Priority() int         { return 100 }
func (s *StatsSystem) Queries() []*ecs.Query { return nil }

func (s *StatsSystem) Update(_ time.Duration) {
	s.ticks++
	if s.every <= 0 || s.ticks%s.every != 0 {
		return
	}
	s.log.Info("engine stats",
		zap.Int("tick", s.ticks),
		zap.Int("entities", s.eng.EntityCount()),
		zap.Int("archetypes", s.eng.ArchetypeCount()),
		zap.Int("queries", s.eng.QueryCount()))
}
