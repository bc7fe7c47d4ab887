package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// hostEnv holds the SNAKE_* environment settings. Flags override them.
type hostEnv struct {
	Difficulty  string  `env:"SNAKE_DIFFICULTY" envDefault:"survivor"`
	Games       int     `env:"SNAKE_GAMES" envDefault:"10"`
	Seed        uint64  `env:"SNAKE_SEED"`
	ConfigPath  string  `env:"SNAKE_CONFIG"`
	RecordsPath string  `env:"SNAKE_RECORDS_CSV"`
	Realtime    bool    `env:"SNAKE_REALTIME"`
	MaxTicks    int     `env:"SNAKE_MAX_TICKS" envDefault:"20000"`
	Epsilon     float64 `env:"SNAKE_EPSILON" envDefault:"0.05"`
	LogLevel    string  `env:"SNAKE_LOG_LEVEL" envDefault:"info"`
}

func parseEnv() (hostEnv, error) {
	var cfg hostEnv
	if err := env.Parse(&cfg); err != nil {
		return hostEnv{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
