package manager

import (
	"snake-survivor/game/types"
)

// Stage schedule: reaching stage n+1 takes 200 + (n-1)*100 points more than
// reaching stage n, so the thresholds run 200, 500, 900, 1400, ...
const (
	firstStageStep = 200
	stageStepGrow  = 100
	maxBorders     = 4
)

// stageAbilities maps the first stages to a fixed ability. Later stages roll one.
var stageAbilities = map[int]types.Ability{
	1: types.AbilityExplosion,
	2: types.AbilityDoublePoints,
	3: types.AbilityMagnet,
}

// StageThreshold returns the score at which stage begins.
func StageThreshold(stage int) int {
	if stage <= 1 {
		return 0
	}
	n := stage - 1
	return firstStageStep*n + stageStepGrow*n*(n-1)/2
}

// StageForScore returns the stage a score belongs to.
func StageForScore(score int) int {
	stage := 1
	for score >= StageThreshold(stage+1) {
		stage++
	}
	return stage
}

// StageChange is reported when the score moves the player into a new stage.
type StageChange struct {
	From    int
	To      int
	Ability types.Ability
}

// StageManager drives survivor progression: stages, the active ability and
// the border closing schedule.
type StageManager struct {
	blockScore int
	rng        types.Rand
	stage      int
	ability    types.Ability
}

func NewStageManager(blockScore int, rng types.Rand) *StageManager {
	sm := &StageManager{
		blockScore: blockScore,
		rng:        rng,
		stage:      1,
	}
	sm.ability = sm.abilityFor(1)
	return sm
}

func (sm *StageManager) GetStage() int {
	return sm.stage
}

func (sm *StageManager) GetAbility() types.Ability {
	return sm.ability
}

// IsActive reports whether a is the current ability.
func (sm *StageManager) IsActive(a types.Ability) bool {
	return a != types.AbilityNone && sm.ability == a
}

// Update recomputes the stage for score. On a stage change the active ability
// is replaced by the one the new stage grants; abilities never stack.
func (sm *StageManager) Update(score int) *StageChange {
	next := StageForScore(score)
	if next <= sm.stage {
		return nil
	}

	change := &StageChange{From: sm.stage, To: next}
	sm.stage = next
	sm.ability = sm.abilityFor(next)
	change.Ability = sm.ability
	return change
}

func (sm *StageManager) abilityFor(stage int) types.Ability {
	if a, ok := stageAbilities[stage]; ok {
		return a
	}
	return types.Abilities[sm.rng.Intn(len(types.Abilities))]
}

// BordersForScore is how many borders should be closed at score.
func (sm *StageManager) BordersForScore(score int) int {
	if sm.blockScore <= 0 {
		return 0
	}
	n := score / sm.blockScore
	if n > maxBorders {
		n = maxBorders
	}
	return n
}

// UpdateBorders closes borders in BlockOrder until the count for score is
// reached and returns the edges closed by this call.
func (sm *StageManager) UpdateBorders(score int, borders *types.Borders) []types.Edge {
	var closed []types.Edge
	want := sm.BordersForScore(score)
	for i := 0; i < want; i++ {
		edge := types.BlockOrder[i]
		if !borders.Blocked(edge) {
			borders.Block(edge)
			closed = append(closed, edge)
		}
	}
	return closed
}
