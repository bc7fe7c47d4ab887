package manager

import (
	"testing"

	"snake-survivor/game/types"
)

func TestStageThresholds(t *testing.T) {
	tests := []struct {
		stage int
		want  int
	}{
		{1, 0},
		{2, 200},
		{3, 500},
		{4, 900},
		{5, 1400},
		{6, 2000},
	}
	for _, tt := range tests {
		if got := StageThreshold(tt.stage); got != tt.want {
			t.Errorf("StageThreshold(%d) = %d, want %d", tt.stage, got, tt.want)
		}
	}
}

func TestStageForScore(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 1},
		{199, 1},
		{200, 2},
		{499, 2},
		{500, 3},
		{899, 3},
		{900, 4},
		{1400, 5},
	}
	for _, tt := range tests {
		if got := StageForScore(tt.score); got != tt.want {
			t.Errorf("StageForScore(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestUpdateReplacesAbility(t *testing.T) {
	sm := NewStageManager(200, &scriptedRand{})

	if sm.GetStage() != 1 || sm.GetAbility() != types.AbilityExplosion {
		t.Fatalf("Expected explosion at stage 1, got stage %d %v", sm.GetStage(), sm.GetAbility())
	}
	if change := sm.Update(150); change != nil {
		t.Fatalf("unexpected stage change %+v", change)
	}

	change := sm.Update(210)
	if change == nil || change.From != 1 || change.To != 2 {
		t.Fatalf("Expected 1 -> 2, got %+v", change)
	}
	if sm.GetAbility() != types.AbilityDoublePoints {
		t.Errorf("Expected double_points at stage 2, got %v", sm.GetAbility())
	}

	sm.Update(520)
	if sm.GetStage() != 3 || sm.GetAbility() != types.AbilityMagnet {
		t.Errorf("Expected stage 3 with magnet, got stage %d %v", sm.GetStage(), sm.GetAbility())
	}
	if sm.IsActive(types.AbilityDoublePoints) {
		t.Error("abilities from earlier stages must not stay active")
	}
}

func TestUpdateRollsAbilityFromStageFour(t *testing.T) {
	rng := &scriptedRand{values: []int{1}}
	sm := NewStageManager(200, rng)
	sm.Update(600)

	change := sm.Update(950)
	if change == nil || change.To != 4 {
		t.Fatalf("Expected stage 4, got %+v", change)
	}
	if change.Ability != types.AbilityDoublePoints {
		t.Errorf("Expected rolled ability double_points, got %v", change.Ability)
	}
	if rng.calls != 1 {
		t.Errorf("Expected one roll, got %d", rng.calls)
	}
}

func TestUpdateSkipsStagesInOneJump(t *testing.T) {
	sm := NewStageManager(200, &scriptedRand{})

	change := sm.Update(600)
	if change == nil || change.From != 1 || change.To != 3 {
		t.Fatalf("Expected 1 -> 3, got %+v", change)
	}
	if sm.GetAbility() != types.AbilityMagnet {
		t.Errorf("Expected magnet, got %v", sm.GetAbility())
	}
}

func TestUpdateBordersOrder(t *testing.T) {
	sm := NewStageManager(200, &scriptedRand{})
	var b types.Borders

	steps := []struct {
		score  int
		closed []types.Edge
		count  int
	}{
		{100, nil, 0},
		{200, []types.Edge{types.EdgeTop}, 1},
		{350, nil, 1},
		{400, []types.Edge{types.EdgeRight}, 2},
		{1000, []types.Edge{types.EdgeBottom, types.EdgeLeft}, 4},
		{5000, nil, 4},
	}

	for _, st := range steps {
		closed := sm.UpdateBorders(st.score, &b)
		if len(closed) != len(st.closed) {
			t.Fatalf("score %d: expected %v closed, got %v", st.score, st.closed, closed)
		}
		for i := range closed {
			if closed[i] != st.closed[i] {
				t.Errorf("score %d: expected %v, got %v", st.score, st.closed[i], closed[i])
			}
		}
		if b.Count() != st.count {
			t.Errorf("score %d: expected %d blocked borders, got %d", st.score, st.count, b.Count())
		}
	}
}

// scriptedRand replays values in order and then returns zero.
type scriptedRand struct {
	values []int
	calls  int
}

func (r *scriptedRand) Intn(n int) int {
	r.calls++
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}
