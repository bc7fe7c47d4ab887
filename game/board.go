package game

import (
	"time"

	"snake-survivor/game/config"
	"snake-survivor/game/entity"
	"snake-survivor/game/manager"
	"snake-survivor/game/types"
)

// Board is the mutable state of one session. Only the engine and the
// session write to it.
type Board struct {
	Config    config.DifficultyConfig
	Snake     *entity.Snake
	Food      *manager.FoodManager
	Collision *manager.CollisionManager
	Stages    *manager.StageManager // nil outside survivor mode
	Borders   types.Borders         // per-session copy, survivor closes edges here

	Score           int
	Streak          int
	TicksSinceApple int
	Combo           int
	LastAppleAt     time.Time
	Bouncing        bool
	PendingGrowth   int // segments to add by keeping the tail on coming moves
}

// newBoard lays out a fresh board: the snake is centred and points +x.
func newBoard(cfg config.DifficultyConfig, rng types.Rand) *Board {
	center := types.Point{X: cfg.Grid / 2, Y: cfg.Grid / 2}
	b := &Board{
		Config:    cfg,
		Snake:     entity.NewSnake(center, cfg.StartLen, types.Right),
		Food:      manager.NewFoodManager(cfg.Grid, rng),
		Collision: manager.NewCollisionManager(cfg.Grid),
		Borders:   cfg.Borders,
	}
	if cfg.IsSurvivor() {
		b.Stages = manager.NewStageManager(cfg.Survivor.BorderBlockScore, rng)
	}
	return b
}

func (b *Board) Stage() int {
	if b.Stages == nil {
		return 1
	}
	return b.Stages.GetStage()
}

func (b *Board) Ability() types.Ability {
	if b.Stages == nil {
		return types.AbilityNone
	}
	return b.Stages.GetAbility()
}

func (b *Board) abilityActive(a types.Ability) bool {
	return b.Stages != nil && b.Stages.IsActive(a)
}

// refill tops the apples up to the target for the current score.
func (b *Board) refill(now time.Time) int {
	target := b.Food.TargetApples(b.Score, b.Config.ApplePoints, b.Config.MinApples())
	return b.Food.Refill(target, b.Snake, now)
}
