package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/exp/rand"

	"snake-survivor/ai"
	"snake-survivor/game"
	"snake-survivor/game/config"
	"snake-survivor/game/manager"
	"snake-survivor/game/types"
)

// host plays sessions with the autopilot and reports the results.
type host struct {
	opts       hostEnv
	logger     *slog.Logger
	difficulty config.Difficulty
	catalog    *config.Catalog
	records    *manager.RecordBook
	rng        *rand.Rand
	pilot      *ai.Autopilot
}

func newHost(opts hostEnv, logger *slog.Logger) (*host, error) {
	difficulty, err := config.ParseDifficulty(opts.Difficulty)
	if err != nil {
		return nil, err
	}
	catalog, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	return &host{
		opts:       opts,
		logger:     logger,
		difficulty: difficulty,
		catalog:    catalog,
		records:    manager.NewRecordBook(types.MaxRecords),
		rng:        rng,
		pilot:      ai.NewAutopilot(rng, opts.Epsilon),
	}, nil
}

func run(ctx context.Context, opts hostEnv, logger *slog.Logger) error {
	h, err := newHost(opts, logger)
	if err != nil {
		return err
	}

	logger.Info("starting",
		"difficulty", h.difficulty,
		"games", opts.Games,
		"seed", opts.Seed,
		"realtime", opts.Realtime,
	)

	for i := 0; i < opts.Games; i++ {
		var snap game.Snapshot
		if opts.Realtime {
			snap, err = h.playRealtime(ctx)
		} else {
			snap, err = h.playHeadless(ctx)
		}
		if err != nil {
			return err
		}
		logger.Info("game finished",
			"game", i+1,
			"session", snap.SessionID,
			"status", snap.Status.String(),
			"cause", snap.EndCause.String(),
			"score", snap.Score,
			"length", len(snap.Snake),
			"survival_time", snap.SurvivalTime,
			"stage", snap.Stage,
		)
	}

	summary := h.records.Summary()
	logger.Info("records",
		"count", summary.Count,
		"best_time", summary.BestTime,
		"mean_time", summary.MeanTime,
		"median_time", summary.MedianTime,
		"mean_score", summary.MeanScore,
		"max_stage", summary.MaxStage,
	)

	if opts.RecordsPath != "" {
		if err := h.writeRecords(opts.RecordsPath); err != nil {
			return err
		}
	}
	return nil
}

func (h *host) newSession(clock game.Clock) *game.Session {
	return game.NewSession(game.Options{
		Catalog: h.catalog,
		Records: h.records,
		Rand:    h.rng,
		Clock:   clock,
		Logger:  h.logger,
	})
}

// playHeadless runs one session on a virtual clock as fast as possible.
// The clock advances by the session's tick interval each step and a second
// is reported every time a full second of virtual time has passed.
func (h *host) playHeadless(ctx context.Context) (game.Snapshot, error) {
	clock := game.NewManualClock(time.Now())
	session := h.newSession(clock)
	if err := session.Start(h.difficulty); err != nil {
		return game.Snapshot{}, err
	}

	var elapsed time.Duration
	for ticks := 0; ticks < h.opts.MaxTicks; {
		if err := ctx.Err(); err != nil {
			return session.Snapshot(), err
		}

		snap := session.Snapshot()
		switch {
		case snap.Status.Terminal():
			return snap, nil
		case snap.Status == types.StatusCountdown:
			clock.Advance(time.Second)
			session.AdvanceSecond()
			continue
		}

		session.QueueDirection(h.pilot.Decide(snap))
		interval := session.TickInterval()
		clock.Advance(interval)
		session.AdvanceTick()
		ticks++

		elapsed += interval
		for elapsed >= time.Second {
			elapsed -= time.Second
			session.AdvanceSecond()
		}
	}

	h.logger.Warn("session abandoned", "max_ticks", h.opts.MaxTicks)
	return session.Snapshot(), nil
}

// playRealtime runs one session against the wall clock.
func (h *host) playRealtime(ctx context.Context) (game.Snapshot, error) {
	session := h.newSession(game.SystemClock{})
	if err := session.Start(h.difficulty); err != nil {
		return game.Snapshot{}, err
	}

	seconds := time.NewTicker(time.Second)
	defer seconds.Stop()
	tick := time.NewTimer(session.TickInterval())
	defer tick.Stop()

	for ticks := 0; ticks < h.opts.MaxTicks; {
		select {
		case <-ctx.Done():
			return session.Snapshot(), ctx.Err()
		case <-seconds.C:
			session.AdvanceSecond()
		case <-tick.C:
			snap := session.Snapshot()
			if snap.Status == types.StatusRunning {
				session.QueueDirection(h.pilot.Decide(snap))
				session.AdvanceTick()
				ticks++
			}
			tick.Reset(session.TickInterval())
		}

		if status := session.Status(); status.Terminal() {
			return session.Snapshot(), nil
		}
	}

	h.logger.Warn("session abandoned", "max_ticks", h.opts.MaxTicks)
	return session.Snapshot(), nil
}

func (h *host) writeRecords(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	if err := h.records.WriteCSV(f); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	h.logger.Info("records written", "path", path, "count", h.records.Len())
	return nil
}
