package game

import (
	"time"

	"snake-survivor/game/config"
	"snake-survivor/game/manager"
	"snake-survivor/game/types"
)

// Snapshot is a read-only copy of everything a host needs to draw a frame.
// Nothing in it aliases session state.
type Snapshot struct {
	Status     types.Status
	Difficulty config.Difficulty
	SessionID  string
	GridSize   int

	Snake     []types.Point
	Direction types.Point
	Apples    []types.Item
	Seeds     []types.Item

	Score            int
	Streak           int
	TimeLeft         int
	Countdown        int
	SurvivalTime     int
	BestSurvivalTime int
	BestScore        int

	Stage   int
	Ability types.Ability
	Borders types.Borders
	Records []manager.SurvivalRecord

	LastSound    types.SoundEvent
	TickInterval time.Duration
	Bouncing     bool
	Progress     float64
	EndCause     types.EndCause
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Status:           s.status,
		Difficulty:       s.difficulty,
		SessionID:        s.id,
		TimeLeft:         s.timeLeft,
		Countdown:        s.countdown,
		SurvivalTime:     s.survivalTime,
		BestSurvivalTime: s.bestSurvivalTime,
		BestScore:        s.bestScore,
		Stage:            1,
		Records:          s.records.Records(),
		LastSound:        s.lastSound,
		EndCause:         s.endCause,
	}

	b := s.board
	if b == nil {
		return snap
	}
	snap.GridSize = b.Config.Grid
	snap.Snake = append([]types.Point(nil), b.Snake.Body...)
	snap.Direction = b.Snake.Direction
	snap.Apples = append([]types.Item(nil), b.Food.GetApples()...)
	snap.Seeds = append([]types.Item(nil), b.Food.GetSeeds()...)
	snap.Score = b.Score
	snap.Streak = b.Streak
	snap.Stage = b.Stage()
	snap.Ability = b.Ability()
	snap.Borders = b.Borders
	snap.TickInterval = s.tickInterval()
	snap.Bouncing = b.Bouncing
	snap.Progress = min(1, float64(b.Snake.Len())/float64(types.FillTarget(b.Config.Grid)))
	if b.Score > snap.BestScore {
		snap.BestScore = b.Score
	}
	return snap
}
