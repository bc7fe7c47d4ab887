package types

import (
	"math"
	"time"
)

// Point is a cell on the square game grid.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction vectors. Y grows downwards.
var (
	Up    = Point{X: 0, Y: -1}
	Right = Point{X: 1, Y: 0}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
)

// IsUnit reports whether d is one of the four axis unit vectors.
func IsUnit(d Point) bool {
	return abs(d.X)+abs(d.Y) == 1
}

// IsReverse reports whether a and b point in exactly opposite directions.
func IsReverse(a, b Point) bool {
	return a.X+b.X == 0 && a.Y+b.Y == 0
}

// InBounds reports whether p lies on a size×size grid.
func InBounds(p Point, size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

// Manhattan returns the grid distance between two points (no wrapping).
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Sign returns -1, 0 or 1.
func Sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Grid constants
const (
	FillRatio      = 0.3 // share of the grid used for the win target and the apple cap
	SpawnAttempts  = 100 // random picks per missing apple before giving up for the cycle
	CountdownStart = 3
	MaxRecords     = 10
)

// FillTarget returns floor(size² · FillRatio).
func FillTarget(size int) int {
	return int(math.Floor(float64(size*size) * FillRatio))
}

// Borders tells which grid edges are blocked. An open edge wraps.
type Borders struct {
	Top    bool `yaml:"top"`
	Bottom bool `yaml:"bottom"`
	Left   bool `yaml:"left"`
	Right  bool `yaml:"right"`
}

// Edge names a single border.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// BlockOrder is the order in which survivor mode closes the borders.
var BlockOrder = [4]Edge{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Blocked reports whether edge e is closed.
func (b Borders) Blocked(e Edge) bool {
	switch e {
	case EdgeTop:
		return b.Top
	case EdgeRight:
		return b.Right
	case EdgeBottom:
		return b.Bottom
	case EdgeLeft:
		return b.Left
	}
	return false
}

// Block closes edge e. Blocking is one-way.
func (b *Borders) Block(e Edge) {
	switch e {
	case EdgeTop:
		b.Top = true
	case EdgeRight:
		b.Right = true
	case EdgeBottom:
		b.Bottom = true
	case EdgeLeft:
		b.Left = true
	}
}

// Count returns how many edges are closed.
func (b Borders) Count() int {
	n := 0
	for _, e := range BlockOrder {
		if b.Blocked(e) {
			n++
		}
	}
	return n
}

// ItemKind distinguishes full apples from the seeds an explosion scatters.
type ItemKind int

const (
	Apple ItemKind = iota
	Seed
)

func (k ItemKind) String() string {
	if k == Seed {
		return "seed"
	}
	return "apple"
}

// Item is an apple or a seed lying on the board.
type Item struct {
	Pos       Point
	Kind      ItemKind
	SpawnedAt time.Time
}

// Ability is the single survivor power-up that can be active at a time.
type Ability int

const (
	AbilityNone Ability = iota
	AbilityExplosion
	AbilityDoublePoints
	AbilityMagnet
)

// Abilities lists the abilities a stage can grant.
var Abilities = [3]Ability{AbilityExplosion, AbilityDoublePoints, AbilityMagnet}

func (a Ability) String() string {
	switch a {
	case AbilityExplosion:
		return "explosion"
	case AbilityDoublePoints:
		return "double_points"
	case AbilityMagnet:
		return "magnet"
	default:
		return "none"
	}
}

// Status is the session state machine.
type Status int

const (
	StatusMenu Status = iota
	StatusCountdown
	StatusRunning
	StatusPaused
	StatusWon
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusMenu:
		return "menu"
	case StatusCountdown:
		return "countdown"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusWon:
		return "won"
	case StatusGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusGameOver
}

// EndCause records why a session ended.
type EndCause int

const (
	NoEnd EndCause = iota
	WallCollision
	SelfCollision
	Starvation
	TimeUp
	BoardFilled
)

func (c EndCause) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case Starvation:
		return "starvation"
	case TimeUp:
		return "time_up"
	case BoardFilled:
		return "board_filled"
	default:
		return "none"
	}
}

// Sound cue names.
const (
	SoundEat     = "eat"
	SoundBump    = "bump"
	SoundLevelUp = "levelup"
)

// SoundEvent asks the host to play a cue. Seq grows with every event so hosts
// can tell two cues with the same timestamp apart.
type SoundEvent struct {
	Name      string
	Timestamp int64 // unix milliseconds
	Seq       uint64
}

// Rand is the randomness the simulation needs. *rand.Rand from
// golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
}
