package game

import (
	"time"

	"snake-survivor/game/manager"
	"snake-survivor/game/types"
)

// Scoring constants shared by every difficulty.
const (
	SpeedBonus     = 3  // flat bonus on every apple
	StreakBonusCap = 10 // streak adds 2 per apple up to this
	ComboWindow    = 3 * time.Second
	ComboLength    = 3
	ComboBonus     = 500
)

// Outcome is what a single step did to the board. The session turns it into
// status changes, sound cues and log lines.
type Outcome struct {
	Status  types.Status // StatusRunning unless the step ended the session
	Cause   types.EndCause
	Bounce  *manager.BorderHit
	Eaten   []types.Item
	Stage   *manager.StageChange
	Closed  []types.Edge
	Sounds  []string
	Combo   bool
	Missing int // apples the spawner could not place
}

func (o *Outcome) sound(name string) {
	o.Sounds = append(o.Sounds, name)
}

func (o *Outcome) end(status types.Status, cause types.EndCause) Outcome {
	o.Status = status
	o.Cause = cause
	return *o
}

// Engine advances a board by one tick.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	return &Engine{clock: clock}
}

// Step runs one tick. Every branch that ends the session returns before
// anything is spawned.
func (e *Engine) Step(b *Board) Outcome {
	out := Outcome{Status: types.StatusRunning}
	now := e.clock.Now()
	snake := b.Snake
	survivor := b.Config.IsSurvivor()

	dir := snake.CommitDirection()
	head, hit := b.Collision.ResolveBorders(snake.GetHead().Add(dir), b.Borders)
	if hit != nil {
		out.sound(types.SoundBump)
		if !survivor || b.Bouncing {
			return out.end(types.StatusGameOver, types.WallCollision)
		}
		// First hit in survivor mode: hold position and slow down so the
		// player can turn away.
		b.Bouncing = true
		out.Bounce = hit
		return out
	}

	if b.Collision.IsSelfCollision(head, snake) {
		out.sound(types.SoundBump)
		return out.end(types.StatusGameOver, types.SelfCollision)
	}

	var popped *types.Point
	snake.Move(head)
	if item, ok := b.Food.Take(head); ok {
		e.consume(b, item, now, &out)
	} else {
		if b.PendingGrowth > 0 {
			b.PendingGrowth--
		} else {
			tail := snake.Body[len(snake.Body)-1]
			snake.RemoveTail()
			popped = &tail
		}
		b.TicksSinceApple++
	}

	e.progress(b, &out)

	if b.abilityActive(types.AbilityMagnet) {
		landed := b.Food.Pull(snake)
		for _, item := range landed {
			// Without a freed tail cell the growth waits for the next move.
			if popped != nil {
				snake.AppendTail(*popped)
				popped = nil
			} else {
				b.PendingGrowth++
			}
			e.consume(b, item, now, &out)
		}
		if len(landed) > 0 {
			e.progress(b, &out)
		}
	}

	if !survivor {
		if b.Config.StarvationTicks > 0 && b.TicksSinceApple >= b.Config.StarvationTicks {
			return out.end(types.StatusGameOver, types.Starvation)
		}
		if b.Score >= b.Config.WinScore() {
			b.Score += b.Config.CompletionBonus
			out.sound(types.SoundLevelUp)
			return out.end(types.StatusWon, types.BoardFilled)
		}
	}

	out.Missing = b.refill(now)
	return out
}

// consume scores an apple or seed the head has just reached. Growth is
// handled by the caller.
func (e *Engine) consume(b *Board, item types.Item, now time.Time, out *Outcome) {
	switch item.Kind {
	case types.Apple:
		points := b.Config.ApplePoints + min(StreakBonusCap, b.Streak*2) + SpeedBonus
		if b.abilityActive(types.AbilityDoublePoints) {
			points *= 2
		}
		b.Score += points

		if !b.LastAppleAt.IsZero() && now.Sub(b.LastAppleAt) <= ComboWindow {
			b.Combo++
			if b.Combo >= ComboLength {
				b.Score += ComboBonus
				b.Combo = 0
				out.Combo = true
			}
		} else {
			b.Combo = 1
		}
		b.LastAppleAt = now

		if b.abilityActive(types.AbilityExplosion) {
			b.Food.Scatter(b.Snake.GetHead(), b.Snake, now)
		}
	case types.Seed:
		b.Score += b.Config.SeedPoints()
	}

	b.Streak++
	b.TicksSinceApple = 0
	out.Eaten = append(out.Eaten, item)
	out.sound(types.SoundEat)
}

// progress applies the survivor stage and border schedule for the score.
func (e *Engine) progress(b *Board, out *Outcome) {
	if b.Stages == nil {
		return
	}
	if change := b.Stages.Update(b.Score); change != nil {
		if out.Stage == nil {
			out.Stage = change
		} else {
			out.Stage.To = change.To
			out.Stage.Ability = change.Ability
		}
		out.sound(types.SoundLevelUp)
	}
	out.Closed = append(out.Closed, b.Stages.UpdateBorders(b.Score, &b.Borders)...)
}
