package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	World   WorldConfig   `toml:"world"`
	Scripts ScriptsConfig `toml:"scripts"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until signalled
}

type WorldConfig struct {
	BlueprintFile string `toml:"blueprint_file"`
	SpawnFile     string `toml:"spawn_file"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`            // "json" or "console"
	StatsEvery int    `toml:"stats_every_ticks"` // 0 disables periodic stats
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate: 50 * time.Millisecond,
		},
		World: WorldConfig{
			BlueprintFile: "data/blueprints.yaml",
			SpawnFile:     "data/spawns.yaml",
		},
		Scripts: ScriptsConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			StatsEvery: 100,
		},
	}
}
