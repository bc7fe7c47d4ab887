package game

import (
	"testing"
	"time"

	"snake-survivor/game/config"
	"snake-survivor/game/entity"
	"snake-survivor/game/types"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// cornerRand always picks cell (0,0) and the first ability.
type cornerRand struct{}

func (cornerRand) Intn(int) int { return 0 }

// testBoard builds an empty board for d: no apples, snake centred.
func testBoard(t *testing.T, d config.Difficulty) *Board {
	t.Helper()
	cfg, err := config.Default().Lookup(d)
	if err != nil {
		t.Fatalf("lookup %s: %v", d, err)
	}
	return newBoard(cfg, cornerRand{})
}

func hasSound(out Outcome, name string) bool {
	for _, s := range out.Sounds {
		if s == name {
			return true
		}
	}
	return false
}

func TestStepMovesWithoutGrowing(t *testing.T) {
	b := testBoard(t, config.Easy)
	e := NewEngine(NewManualClock(epoch))

	out := e.Step(b)

	if out.Status != types.StatusRunning {
		t.Fatalf("Expected running, got %s", out.Status)
	}
	if got := b.Snake.GetHead(); got != (types.Point{X: 11, Y: 10}) {
		t.Errorf("Expected head at (11,10), got %v", got)
	}
	if b.Snake.Len() != 3 {
		t.Errorf("Expected length 3, got %d", b.Snake.Len())
	}
	if b.TicksSinceApple != 1 {
		t.Errorf("Expected 1 tick since apple, got %d", b.TicksSinceApple)
	}
	// Refill spawns the first apple at the corner.
	if apples := b.Food.GetApples(); len(apples) != 1 || apples[0].Pos != (types.Point{}) {
		t.Errorf("Expected one apple at (0,0), got %v", apples)
	}
}

func TestStepEatingScoresAndGrows(t *testing.T) {
	b := testBoard(t, config.Easy)
	clock := NewManualClock(epoch)
	e := NewEngine(clock)

	b.Food.AddApple(types.Point{X: 11, Y: 10}, epoch)
	out := e.Step(b)

	if b.Snake.Len() != 4 {
		t.Errorf("Expected length 4, got %d", b.Snake.Len())
	}
	if b.Score != 13 {
		t.Errorf("Expected score 10+0+3=13, got %d", b.Score)
	}
	if b.Streak != 1 {
		t.Errorf("Expected streak 1, got %d", b.Streak)
	}
	if len(out.Eaten) != 1 || !hasSound(out, types.SoundEat) {
		t.Errorf("Expected one eaten apple with eat sound, got %+v", out)
	}

	// Second apple after the combo window: streak bonus only.
	clock.Advance(5 * time.Second)
	b.Food.Reset()
	b.Food.AddApple(types.Point{X: 12, Y: 10}, clock.Now())
	e.Step(b)

	if b.Score != 13+15 {
		t.Errorf("Expected score 28 after streak 1 apple, got %d", b.Score)
	}
}

func TestStepComboBonus(t *testing.T) {
	b := testBoard(t, config.Easy)
	e := NewEngine(NewManualClock(epoch))

	var combo bool
	for x := 11; x <= 13; x++ {
		b.Food.Reset()
		b.Food.AddApple(types.Point{X: x, Y: 10}, epoch)
		combo = e.Step(b).Combo
	}

	if !combo {
		t.Error("Expected combo on the third apple")
	}
	if want := 13 + 15 + 17 + ComboBonus; b.Score != want {
		t.Errorf("Expected score %d, got %d", want, b.Score)
	}
	if b.Combo != 0 {
		t.Errorf("Expected combo counter reset, got %d", b.Combo)
	}
}

func TestStepSelfCollision(t *testing.T) {
	b := testBoard(t, config.Easy)
	e := NewEngine(NewManualClock(epoch))

	b.Snake = &entity.Snake{
		Body: []types.Point{
			{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 7, Y: 5},
		},
		Direction: types.Up,
		NextDir:   types.Right,
	}

	out := e.Step(b)

	if out.Status != types.StatusGameOver || out.Cause != types.SelfCollision {
		t.Fatalf("Expected self collision game over, got %s/%s", out.Status, out.Cause)
	}
	if !hasSound(out, types.SoundBump) {
		t.Error("Expected bump sound")
	}
	if b.Snake.GetHead() != (types.Point{X: 5, Y: 5}) {
		t.Error("snake moved on a fatal step")
	}
}

func TestStepBorders(t *testing.T) {
	tests := []struct {
		name       string
		difficulty config.Difficulty
		head       types.Point
		dir        types.Point
		wantStatus types.Status
		wantHead   types.Point
	}{
		{"easy wraps right", config.Easy, types.Point{X: 19, Y: 10}, types.Right, types.StatusRunning, types.Point{X: 0, Y: 10}},
		{"easy wraps top", config.Easy, types.Point{X: 4, Y: 0}, types.Up, types.StatusRunning, types.Point{X: 4, Y: 19}},
		{"medium wraps left", config.Medium, types.Point{X: 0, Y: 9}, types.Left, types.StatusRunning, types.Point{X: 23, Y: 9}},
		{"medium top blocked", config.Medium, types.Point{X: 4, Y: 0}, types.Up, types.StatusGameOver, types.Point{X: 4, Y: 0}},
		{"hard right blocked", config.Hard, types.Point{X: 27, Y: 14}, types.Right, types.StatusGameOver, types.Point{X: 27, Y: 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBoard(t, tt.difficulty)
			b.Snake = entity.NewSnake(tt.head, 3, tt.dir)
			e := NewEngine(NewManualClock(epoch))

			out := e.Step(b)

			if out.Status != tt.wantStatus {
				t.Fatalf("Expected %s, got %s", tt.wantStatus, out.Status)
			}
			if tt.wantStatus == types.StatusGameOver && out.Cause != types.WallCollision {
				t.Errorf("Expected wall collision, got %s", out.Cause)
			}
			if got := b.Snake.GetHead(); got != tt.wantHead {
				t.Errorf("Expected head %v, got %v", tt.wantHead, got)
			}
		})
	}
}

func TestStepStarvation(t *testing.T) {
	b := testBoard(t, config.Hard)
	e := NewEngine(NewManualClock(epoch))
	b.TicksSinceApple = b.Config.StarvationTicks - 1

	out := e.Step(b)

	if out.Status != types.StatusGameOver || out.Cause != types.Starvation {
		t.Fatalf("Expected starvation, got %s/%s", out.Status, out.Cause)
	}
	if len(b.Food.GetApples()) != 0 {
		t.Error("food spawned after the session ended")
	}
}

func TestStepWinAddsCompletionBonus(t *testing.T) {
	b := testBoard(t, config.Easy)
	e := NewEngine(NewManualClock(epoch))
	b.Score = b.Config.WinScore() - 13
	b.Food.AddApple(types.Point{X: 11, Y: 10}, epoch)

	out := e.Step(b)

	if out.Status != types.StatusWon || out.Cause != types.BoardFilled {
		t.Fatalf("Expected win, got %s/%s", out.Status, out.Cause)
	}
	if want := b.Config.WinScore() + b.Config.CompletionBonus; b.Score != want {
		t.Errorf("Expected score %d, got %d", want, b.Score)
	}
	if !hasSound(out, types.SoundLevelUp) {
		t.Error("Expected levelup sound")
	}
}

func TestStepSurvivorBounce(t *testing.T) {
	b := testBoard(t, config.Survivor)
	e := NewEngine(NewManualClock(epoch))
	b.Borders.Block(types.EdgeTop)
	b.Snake = entity.NewSnake(types.Point{X: 5, Y: 0}, 3, types.Up)

	out := e.Step(b)

	if out.Status != types.StatusRunning {
		t.Fatalf("Expected first hit to bounce, got %s", out.Status)
	}
	if out.Bounce == nil || out.Bounce.Edge != types.EdgeTop {
		t.Fatalf("Expected bounce off top, got %+v", out.Bounce)
	}
	if !b.Bouncing {
		t.Error("Expected board to be bouncing")
	}
	if b.Snake.GetHead() != (types.Point{X: 5, Y: 0}) || b.Snake.Len() != 3 {
		t.Error("snake moved during bounce")
	}

	out = e.Step(b)
	if out.Status != types.StatusGameOver || out.Cause != types.WallCollision {
		t.Errorf("Expected second hit to end the game, got %s/%s", out.Status, out.Cause)
	}
}

func TestStepSurvivorStageUp(t *testing.T) {
	b := testBoard(t, config.Survivor)
	e := NewEngine(NewManualClock(epoch))
	b.Score = 190
	b.Food.AddApple(types.Point{X: 13, Y: 12}, epoch)

	out := e.Step(b)

	if b.Score != 203 {
		t.Fatalf("Expected score 203, got %d", b.Score)
	}
	if out.Stage == nil || out.Stage.To != 2 || out.Stage.Ability != types.AbilityDoublePoints {
		t.Fatalf("Expected stage 2 with double points, got %+v", out.Stage)
	}
	if b.Ability() != types.AbilityDoublePoints {
		t.Errorf("Expected double points active, got %s", b.Ability())
	}
	if !b.Borders.Top || b.Borders.Count() != 1 {
		t.Errorf("Expected only top blocked, got %+v", b.Borders)
	}
	if len(out.Closed) != 1 || out.Closed[0] != types.EdgeTop {
		t.Errorf("Expected top reported closed, got %v", out.Closed)
	}
	if !hasSound(out, types.SoundEat) || !hasSound(out, types.SoundLevelUp) {
		t.Errorf("Expected eat and levelup, got %v", out.Sounds)
	}
}

func TestStepAbilities(t *testing.T) {
	t.Run("double points", func(t *testing.T) {
		b := testBoard(t, config.Survivor)
		e := NewEngine(NewManualClock(epoch))
		b.Score = 200
		b.Stages.Update(b.Score)
		b.Food.AddApple(types.Point{X: 13, Y: 12}, epoch)

		e.Step(b)

		if b.Score != 200+26 {
			t.Errorf("Expected doubled apple worth 26, got %d", b.Score-200)
		}
	})

	t.Run("explosion", func(t *testing.T) {
		b := testBoard(t, config.Survivor)
		e := NewEngine(NewManualClock(epoch))
		if b.Stage() != 1 || b.Ability() != types.AbilityExplosion {
			t.Fatalf("Expected explosion at stage 1, got stage %d %s", b.Stage(), b.Ability())
		}
		b.Food.AddApple(types.Point{X: 13, Y: 12}, epoch)

		e.Step(b)

		// The cell behind the head is body, the other five get seeds.
		if got := len(b.Food.GetSeeds()); got != 5 {
			t.Errorf("Expected 5 seeds, got %d", got)
		}
	})

	t.Run("magnet pulls onto head", func(t *testing.T) {
		b := testBoard(t, config.Survivor)
		e := NewEngine(NewManualClock(epoch))
		b.Score = 500
		b.Stages.Update(b.Score)
		b.Food.AddApple(types.Point{X: 14, Y: 12}, epoch)

		out := e.Step(b)

		if len(out.Eaten) != 1 {
			t.Fatalf("Expected pulled apple eaten, got %v", out.Eaten)
		}
		if b.Snake.Len() != 4 {
			t.Errorf("Expected length 4, got %d", b.Snake.Len())
		}
		if tail := b.Snake.Body[3]; tail != (types.Point{X: 10, Y: 12}) {
			t.Errorf("Expected popped tail restored at (10,12), got %v", tail)
		}
		if b.Score != 513 {
			t.Errorf("Expected score 513, got %d", b.Score)
		}
		if b.TicksSinceApple != 0 {
			t.Errorf("Expected starvation counter reset, got %d", b.TicksSinceApple)
		}
	})
}

func TestStepSeedScoring(t *testing.T) {
	b := testBoard(t, config.Easy)
	e := NewEngine(NewManualClock(epoch))
	b.Food.AddSeed(types.Point{X: 11, Y: 10}, epoch)

	out := e.Step(b)

	if b.Score != b.Config.SeedPoints() {
		t.Errorf("Expected seed worth %d, got %d", b.Config.SeedPoints(), b.Score)
	}
	if b.Snake.Len() != 4 || len(out.Eaten) != 1 || out.Eaten[0].Kind != types.Seed {
		t.Errorf("Expected seed eaten and growth, got len=%d eaten=%v", b.Snake.Len(), out.Eaten)
	}
}

func TestStepMagnetSecondItemGrowsOnNextMove(t *testing.T) {
	b := testBoard(t, config.Survivor)
	e := NewEngine(NewManualClock(epoch))
	b.Score = 500
	b.Stages.Update(b.Score)
	b.Food.AddApple(types.Point{X: 13, Y: 12}, epoch)
	b.Food.AddSeed(types.Point{X: 14, Y: 12}, epoch)

	out := e.Step(b)

	if len(out.Eaten) != 2 {
		t.Fatalf("Expected apple and pulled seed eaten, got %v", out.Eaten)
	}
	if want := 500 + 13 + b.Config.SeedPoints(); b.Score != want {
		t.Errorf("Expected score %d, got %d", want, b.Score)
	}
	if b.Snake.Len() != 4 || b.PendingGrowth != 1 {
		t.Errorf("Expected length 4 with one pending segment, got %d/%d", b.Snake.Len(), b.PendingGrowth)
	}
	assertNoDuplicates(t, b.Snake.Body)

	e.Step(b)

	if b.Snake.Len() != 5 || b.PendingGrowth != 0 {
		t.Errorf("Expected length 5 after the next move, got %d/%d", b.Snake.Len(), b.PendingGrowth)
	}
	if tail := b.Snake.Body[4]; tail != (types.Point{X: 10, Y: 12}) {
		t.Errorf("Expected tail kept at (10,12), got %v", tail)
	}
	assertNoDuplicates(t, b.Snake.Body)
}

func assertNoDuplicates(t *testing.T, body []types.Point) {
	t.Helper()
	seen := make(map[types.Point]bool, len(body))
	for _, p := range body {
		if seen[p] {
			t.Fatalf("segment %v appears twice in %v", p, body)
		}
		seen[p] = true
	}
}
