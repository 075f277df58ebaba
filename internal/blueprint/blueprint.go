// Package blueprint loads entity definitions from YAML and instantiates
// them through the engine's public surface. A blueprint names an optional
// bundle of components; a spawn table says how many entities to build from
// each blueprint at boot.
package blueprint

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/loomwork/loom/internal/core/ecs"
	"github.com/loomwork/loom/internal/sim"
)

// Blueprint is one named component bundle. Absent sections mean the
// component is not attached.
type Blueprint struct {
	Name     string        `yaml:"name"`
	Position *PositionSpec `yaml:"position"`
	Velocity *VelocitySpec `yaml:"velocity"`
	Health   *HealthSpec   `yaml:"health"`
	Lifetime *LifetimeSpec `yaml:"lifetime"`
}

type PositionSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type VelocitySpec struct {
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
}

type HealthSpec struct {
	Max int `yaml:"max"`
}

type LifetimeSpec struct {
	Seconds float64 `yaml:"seconds"`
}

// SpawnEntry asks for Count entities built from one blueprint.
type SpawnEntry struct {
	Blueprint string `yaml:"blueprint"`
	Count     int    `yaml:"count"`
}

type blueprintFile struct {
	Blueprints []Blueprint `yaml:"blueprints"`
}

type spawnFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// Table holds all loaded blueprints indexed by name.
type Table struct {
	byName map[string]Blueprint
}

// LoadTable reads a blueprint file. Duplicate names are an error.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprints %s: %w", path, err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("parse blueprints %s: %w", path, err)
	}
	return t, nil
}

// ParseTable builds a Table from raw YAML.
func ParseTable(data []byte) (*Table, error) {
	var file blueprintFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	t := &Table{byName: make(map[string]Blueprint, len(file.Blueprints))}
	for _, bp := range file.Blueprints {
		if bp.Name == "" {
			return nil, fmt.Errorf("blueprint with empty name")
		}
		if _, ok := t.byName[bp.Name]; ok {
			return nil, fmt.Errorf("duplicate blueprint %q", bp.Name)
		}
		t.byName[bp.Name] = bp
	}
	return t, nil
}

func (t *Table) Len() int {
	return len(t.byName)
}

// Get returns the blueprint with the given name.
func (t *Table) Get(name string) (Blueprint, bool) {
	bp, ok := t.byName[name]
	return bp, ok
}

// Spawn creates one entity from the named blueprint and attaches its
// components through the engine.
func (t *Table) Spawn(eng *ecs.Engine, name string) (ecs.Entity, error) {
	bp, ok := t.byName[name]
	if !ok {
		return ecs.Entity{}, fmt.Errorf("unknown blueprint %q", name)
	}
	ent := eng.CreateEntity()
	if bp.Position != nil {
		eng.AddComponent(ent, sim.Position{X: bp.Position.X, Y: bp.Position.Y})
	}
	if bp.Velocity != nil {
		eng.AddComponent(ent, sim.Velocity{VX: bp.Velocity.VX, VY: bp.Velocity.VY})
	}
	if bp.Health != nil {
		eng.AddComponent(ent, sim.Health{Current: bp.Health.Max, Max: bp.Health.Max})
	}
	if bp.Lifetime != nil {
		eng.AddComponent(ent, sim.Lifetime{
			Remaining: time.Duration(bp.Lifetime.Seconds * float64(time.Second)),
		})
	}
	return ent, nil
}

// LoadSpawns reads a spawn table file.
func LoadSpawns(path string) ([]SpawnEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawns %s: %w", path, err)
	}
	var file spawnFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse spawns %s: %w", path, err)
	}
	return file.Spawns, nil
}

// SpawnAll instantiates every entry of the spawn table.
func SpawnAll(eng *ecs.Engine, t *Table, entries []SpawnEntry, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for _, entry := range entries {
		for i := 0; i < entry.Count; i++ {
			if _, err := t.Spawn(eng, entry.Blueprint); err != nil {
				return fmt.Errorf("spawn %q: %w", entry.Blueprint, err)
			}
		}
		log.Info("spawned blueprint",
			zap.String("blueprint", entry.Blueprint),
			zap.Int("count", entry.Count))
	}
	return nil
}
