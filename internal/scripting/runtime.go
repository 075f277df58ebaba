package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Runtime wraps a single gopher-lua VM hosting behavior formulas for
// simulation systems. Systems pack a context struct, call a named Lua
// function, and apply the result; the VM never touches engine state
// directly. Single-goroutine access only (the tick loop).
type Runtime struct {
	vm  *lua.LState
	log *zap.Logger
}

// New creates a runtime and loads every .lua file in dir. A missing
// directory is not an error; the formulas fall back to built-in defaults.
func New(dir string, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	r := &Runtime{vm: vm, log: log}
	if err := r.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return r, nil
}

func (r *Runtime) Close() {
	r.vm.Close()
}

// DoString executes a script fragment directly. Used by tests and embedders.
func (r *Runtime) DoString(src string) error {
	return r.vm.DoString(src)
}

func (r *Runtime) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		r.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// MetabolismContext holds pre-packed data for one health-drain calculation.
type MetabolismContext struct {
	Health    int
	MaxHealth int
	DtMillis  int
}

// HealthDrain calls the Lua health_drain function and returns the number of
// health points to subtract this tick. Falls back to a flat drain when the
// script is absent or misbehaves.
func (r *Runtime) HealthDrain(ctx MetabolismContext) int {
	const fallback = 1

	fn := r.vm.GetGlobal("health_drain")
	if fn == lua.LNil {
		return fallback
	}

	t := r.vm.NewTable()
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("dt_ms", lua.LNumber(ctx.DtMillis))

	if err := r.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		r.log.Error("lua health_drain error", zap.Error(err))
		return fallback
	}

	result := r.vm.Get(-1)
	r.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// SteerContext holds pre-packed kinematics for one steering calculation.
type SteerContext struct {
	X, Y     float64
	VX, VY   float64
	DtMillis int
}

// SteerResult is returned by the Lua steer function.
type SteerResult struct {
	VX, VY float64
}

// Steer calls the Lua steer function to produce the entity's next velocity.
// Returns ok=false when no steer function is loaded so callers can keep the
// current velocity.
func (r *Runtime) Steer(ctx SteerContext) (SteerResult, bool) {
	fn := r.vm.GetGlobal("steer")
	if fn == lua.LNil {
		return SteerResult{}, false
	}

	t := r.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("dt_ms", lua.LNumber(ctx.DtMillis))

	if err := r.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		r.log.Error("lua steer error", zap.Error(err))
		return SteerResult{}, false
	}

	result := r.vm.Get(-1)
	r.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		r.log.Error("lua steer returned non-table")
		return SteerResult{}, false
	}
	return SteerResult{
		VX: float64(lua.LVAsNumber(rt.RawGetString("vx"))),
		VY: float64(lua.LVAsNumber(rt.RawGetString("vy"))),
	}, true
}
