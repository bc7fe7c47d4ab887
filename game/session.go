package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"snake-survivor/game/config"
	"snake-survivor/game/manager"
	"snake-survivor/game/types"
)

// Options configures a Session. Zero values get working defaults.
type Options struct {
	Catalog   *config.Catalog
	Records   *manager.RecordBook // shared across sessions, in memory only
	Rand      types.Rand
	Clock     Clock
	Scheduler Scheduler // defaults to Clock when it also schedules
	Logger    *slog.Logger
}

// Session is the top-level state machine. The host calls AdvanceTick at
// TickInterval and AdvanceSecond once per second; the session never starts
// timers of its own except through the Scheduler.
type Session struct {
	mu sync.Mutex

	catalog   *config.Catalog
	records   *manager.RecordBook
	rng       types.Rand
	clock     Clock
	scheduler Scheduler
	logger    *slog.Logger
	engine    *Engine

	id         string
	difficulty config.Difficulty
	status     types.Status
	board      *Board
	endCause   types.EndCause

	countdown        int
	timeLeft         int
	survivalTime     int
	bestSurvivalTime int
	bestScore        int

	lastSound types.SoundEvent
	soundSeq  uint64

	bounceEpoch uint64
	bounceTimer Timer
}

func NewSession(opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = config.Default()
	}
	if opts.Records == nil {
		opts.Records = manager.NewRecordBook(types.MaxRecords)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Scheduler == nil {
		if sched, ok := opts.Clock.(Scheduler); ok {
			opts.Scheduler = sched
		} else {
			opts.Scheduler = SystemClock{}
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		catalog:   opts.Catalog,
		records:   opts.Records,
		rng:       opts.Rand,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
		engine:    NewEngine(opts.Clock),
		status:    types.StatusMenu,
	}
	if best, ok := s.records.Best(); ok {
		s.bestSurvivalTime = best.Time
	}
	return s
}

// Start loads the difficulty and resets the board. An unknown difficulty
// leaves the session untouched.
func (s *Session) Start(difficulty config.Difficulty) error {
	cfg, err := s.catalog.Lookup(difficulty)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelBounce()
	s.id = uuid.New().String()
	s.difficulty = difficulty
	s.board = newBoard(cfg, s.rng)
	s.endCause = types.NoEnd
	s.timeLeft = cfg.TimerSec
	s.survivalTime = 0
	if missing := s.board.refill(s.clock.Now()); missing > 0 {
		s.logger.Debug("apple spawn abandoned", "session", s.id, "missing", missing)
	}

	if cfg.IsSurvivor() {
		s.countdown = 0
		s.status = types.StatusRunning
	} else {
		s.countdown = types.CountdownStart
		s.status = types.StatusCountdown
	}

	s.logger.Info("session started",
		"session", s.id,
		"difficulty", difficulty,
		"grid", cfg.Grid,
		"status", s.status.String(),
	)
	return nil
}

// AdvanceSecond drives the countdown, the timer and survival time.
func (s *Session) AdvanceSecond() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case types.StatusCountdown:
		s.countdown--
		if s.countdown <= 0 {
			s.countdown = 0
			s.status = types.StatusRunning
		}
	case types.StatusRunning:
		cfg := s.board.Config
		if cfg.IsSurvivor() {
			s.survivalTime++
			if s.survivalTime > s.bestSurvivalTime {
				s.bestSurvivalTime = s.survivalTime
			}
			return
		}
		if cfg.TimerSec > 0 {
			s.timeLeft--
			if s.timeLeft <= 0 {
				s.timeLeft = 0
				s.finish(types.StatusGameOver, types.TimeUp)
			}
		}
	}
}

// AdvanceTick runs one simulation step while the session is running.
func (s *Session) AdvanceTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != types.StatusRunning {
		return
	}
	out := s.engine.Step(s.board)
	s.apply(out)
}

func (s *Session) apply(out Outcome) {
	for _, name := range out.Sounds {
		s.emit(name)
	}

	if out.Bounce != nil {
		s.armBounce()
		s.logger.Debug("border bounce", "session", s.id, "edge", out.Bounce.Edge.String())
	}
	if out.Stage != nil {
		s.logger.Info("stage reached",
			"session", s.id,
			"stage", out.Stage.To,
			"ability", out.Stage.Ability.String(),
			"score", s.board.Score,
		)
	}
	for _, edge := range out.Closed {
		s.logger.Info("border blocked", "session", s.id, "edge", edge.String())
	}
	if out.Combo {
		s.logger.Debug("combo bonus", "session", s.id, "bonus", ComboBonus)
	}
	if out.Missing > 0 {
		s.logger.Debug("apple spawn abandoned", "session", s.id, "missing", out.Missing)
	}

	if out.Status.Terminal() {
		s.finish(out.Status, out.Cause)
	}
}

// finish enters a terminal status. A survivor game over commits its record
// before anything else can observe the final state.
func (s *Session) finish(status types.Status, cause types.EndCause) {
	s.status = status
	s.endCause = cause
	s.cancelBounce()

	b := s.board
	if status == types.StatusGameOver && b.Config.IsSurvivor() && s.survivalTime > 0 {
		s.records.Add(s.survivalTime, b.Stage(), b.Score, s.clock.Now())
	}
	if b.Score > s.bestScore {
		s.bestScore = b.Score
	}

	s.logger.Info("session ended",
		"session", s.id,
		"status", status.String(),
		"cause", cause.String(),
		"score", b.Score,
		"length", b.Snake.Len(),
		"survival_time", s.survivalTime,
		"stage", b.Stage(),
	)
}

// Pause stops a running session.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == types.StatusRunning {
		s.status = types.StatusPaused
	}
}

// Resume continues a paused session. A bounce left over from before the
// pause is cleared so the engine cannot stay slowed down.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != types.StatusPaused {
		return
	}
	s.cancelBounce()
	s.board.Bouncing = false
	s.status = types.StatusRunning
}

// QueueDirection sets the direction for the next step. It is ignored unless
// the session is running and refuses the reverse of the current direction.
func (s *Session) QueueDirection(dir types.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != types.StatusRunning {
		return false
	}
	return s.board.Snake.QueueDirection(dir)
}

// TickInterval is how long the host should wait before the next
// AdvanceTick. Bounces multiply it by the configured slowdown.
func (s *Session) TickInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickInterval()
}

func (s *Session) tickInterval() time.Duration {
	if s.board == nil {
		return 0
	}
	cfg := s.board.Config
	d := cfg.TickInterval(s.board.Score)
	if s.board.Bouncing && cfg.Survivor != nil {
		d *= time.Duration(cfg.Survivor.BounceSlowdown)
	}
	return d
}

func (s *Session) Status() types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Records returns the survival records kept so far.
func (s *Session) Records() []manager.SurvivalRecord {
	return s.records.Records()
}

func (s *Session) emit(name string) {
	s.soundSeq++
	s.lastSound = types.SoundEvent{
		Name:      name,
		Timestamp: s.clock.Now().UnixMilli(),
		Seq:       s.soundSeq,
	}
}

// armBounce schedules the end of a bounce. Each arm gets a new epoch so a
// callback from an older bounce, a resume or a previous session is ignored.
func (s *Session) armBounce() {
	s.cancelBounce()
	epoch := s.bounceEpoch
	s.bounceTimer = s.scheduler.AfterFunc(s.board.Config.BounceDuration(), func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.bounceEpoch != epoch || s.board == nil {
			return
		}
		s.board.Bouncing = false
		s.bounceTimer = nil
	})
}

func (s *Session) cancelBounce() {
	s.bounceEpoch++
	if s.bounceTimer != nil {
		s.bounceTimer.Stop()
		s.bounceTimer = nil
	}
}
