package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	defaults, err := parseEnv()
	if err != nil {
		slog.Error("failed to read environment", "error", err)
		os.Exit(1)
	}

	opts := defaults
	flag.StringVar(&opts.Difficulty, "difficulty", defaults.Difficulty, "Difficulty to play: easy, medium, hard or survivor")
	flag.IntVar(&opts.Games, "games", defaults.Games, "Number of sessions to play")
	flag.Uint64Var(&opts.Seed, "seed", defaults.Seed, "Random seed (0 = time based)")
	flag.StringVar(&opts.ConfigPath, "config", defaults.ConfigPath, "YAML file overlaying the difficulty catalog")
	flag.StringVar(&opts.RecordsPath, "records", defaults.RecordsPath, "Write survival records as CSV to this file")
	flag.BoolVar(&opts.Realtime, "realtime", defaults.Realtime, "Play at wall-clock speed instead of a virtual clock")
	flag.IntVar(&opts.MaxTicks, "max-ticks", defaults.MaxTicks, "Abandon a session after this many ticks")
	flag.Float64Var(&opts.Epsilon, "epsilon", defaults.Epsilon, "Chance the autopilot picks a random safe move")
	flag.StringVar(&opts.LogLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
