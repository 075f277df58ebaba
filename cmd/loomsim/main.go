package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/loomwork/loom/internal/blueprint"
	"github.com/loomwork/loom/internal/config"
	"github.com/loomwork/loom/internal/core/ecs"
	"github.com/loomwork/loom/internal/observe"
	"github.com/loomwork/loom/internal/scripting"
	"github.com/loomwork/loom/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/loomsim.toml"
	if p := os.Getenv("LOOM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Build the engine and attach diagnostics
	eng := ecs.New(log.Named("ecs"))
	observe.Attach(eng, log.Named("lifecycle"))

	// 4. Load behavior scripts
	scripts, err := scripting.New(cfg.Scripts.Dir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()

	// 5. Load blueprints and populate the world
	table, err := blueprint.LoadTable(cfg.World.BlueprintFile)
	if err != nil {
		return fmt.Errorf("blueprints: %w", err)
	}
	spawns, err := blueprint.LoadSpawns(cfg.World.SpawnFile)
	if err != nil {
		return fmt.Errorf("spawns: %w", err)
	}
	if err := blueprint.SpawnAll(eng, table, spawns, log); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	// 6. Register systems
	eng.RegisterSystem(sim.NewSteerSystem(eng, scripts)).
		RegisterSystem(sim.NewMovementSystem(eng)).
		RegisterSystem(sim.NewMetabolismSystem(eng, scripts)).
		RegisterSystem(sim.NewCullSystem(eng, log.Named("cull"))).
		RegisterSystem(observe.NewStatsSystem(eng, log, cfg.Logging.StatsEvery))

	log.Info("simulation ready",
		zap.Int("entities", eng.EntityCount()),
		zap.Duration("tick_rate", cfg.Engine.TickRate))

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ticker.C:
			if err := eng.Update(cfg.Engine.TickRate); err != nil {
				return fmt.Errorf("tick %d: %w", ticks, err)
			}
			ticks++
			if cfg.Engine.MaxTicks > 0 && ticks >= cfg.Engine.MaxTicks {
				log.Info("tick budget reached", zap.Int("ticks", ticks))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
