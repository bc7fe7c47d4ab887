// Package ai drives a session without a human player.
package ai

import (
	"math"

	"snake-survivor/game"
	"snake-survivor/game/types"
)

// Action is a move relative to the current heading.
type Action int

const (
	TurnLeft Action = iota
	Forward
	TurnRight
)

// Actions lists every relative move.
var Actions = [3]Action{TurnLeft, Forward, TurnRight}

// State is what the autopilot sees around the head.
type State struct {
	FoodDir      [2]int  // sign of the wrapped offset to the nearest item
	FoodDistance int     // wrapped Manhattan distance to the nearest item
	Dangers      [3]bool // indexed by Action
}

// Autopilot picks the next direction from a snapshot. It heads for the
// nearest apple or seed and never turns into a cell that ends the game,
// unless every move does.
type Autopilot struct {
	rng     types.Rand
	Epsilon float64 // chance of a random safe move, for variety in headless runs
}

func NewAutopilot(rng types.Rand, epsilon float64) *Autopilot {
	return &Autopilot{rng: rng, Epsilon: epsilon}
}

// Decide returns the direction to queue for the next tick.
func (a *Autopilot) Decide(snap game.Snapshot) types.Point {
	state := Observe(snap)
	heading := snap.Direction
	if heading == (types.Point{}) {
		heading = types.Right
	}

	var safe []Action
	for _, act := range Actions {
		if !state.Dangers[act] {
			safe = append(safe, act)
		}
	}
	if len(safe) == 0 {
		return heading
	}

	if a.Epsilon > 0 && float64(a.rng.Intn(1000)) < a.Epsilon*1000 {
		return actionDir(heading, safe[a.rng.Intn(len(safe))])
	}

	best := safe[0]
	bestDist := math.MaxInt
	for _, act := range safe {
		next, _ := stepFrom(snap, actionDir(heading, act))
		if d := nearestItem(snap, next); d < bestDist {
			best, bestDist = act, d
		}
	}
	return actionDir(heading, best)
}

// Observe builds the state the autopilot reasons about.
func Observe(snap game.Snapshot) State {
	var s State
	if len(snap.Snake) == 0 {
		return s
	}
	head := snap.Snake[0]
	heading := snap.Direction
	if heading == (types.Point{}) {
		heading = types.Right
	}

	if target, ok := nearestTarget(snap, head); ok {
		dx, dy := wrappedDelta(snap, head.X, target.X, false), wrappedDelta(snap, head.Y, target.Y, true)
		s.FoodDir = [2]int{types.Sign(dx), types.Sign(dy)}
		s.FoodDistance = abs(dx) + abs(dy)
	}

	for _, act := range Actions {
		next, blocked := stepFrom(snap, actionDir(heading, act))
		s.Dangers[act] = blocked || hitsBody(snap, next)
	}
	return s
}

// actionDir turns a relative action into an absolute direction.
func actionDir(heading types.Point, act Action) types.Point {
	switch act {
	case TurnLeft:
		return types.Point{X: heading.Y, Y: -heading.X}
	case TurnRight:
		return types.Point{X: -heading.Y, Y: heading.X}
	default:
		return heading
	}
}

// stepFrom is where the head lands moving in dir, and whether a blocked
// border is in the way.
func stepFrom(snap game.Snapshot, dir types.Point) (types.Point, bool) {
	size := snap.GridSize
	next := snap.Snake[0].Add(dir)
	switch {
	case next.X < 0:
		if snap.Borders.Left {
			return next, true
		}
		next.X = size - 1
	case next.X >= size:
		if snap.Borders.Right {
			return next, true
		}
		next.X = 0
	}
	switch {
	case next.Y < 0:
		if snap.Borders.Top {
			return next, true
		}
		next.Y = size - 1
	case next.Y >= size:
		if snap.Borders.Bottom {
			return next, true
		}
		next.Y = 0
	}
	return next, false
}

func hitsBody(snap game.Snapshot, p types.Point) bool {
	for _, part := range snap.Snake {
		if part == p {
			return true
		}
	}
	return false
}

func nearestTarget(snap game.Snapshot, from types.Point) (types.Point, bool) {
	var best types.Point
	bestDist := math.MaxInt
	for _, list := range [][]types.Item{snap.Apples, snap.Seeds} {
		for _, item := range list {
			if d := wrappedDistance(snap, from, item.Pos); d < bestDist {
				best, bestDist = item.Pos, d
			}
		}
	}
	return best, bestDist != math.MaxInt
}

func nearestItem(snap game.Snapshot, from types.Point) int {
	target, ok := nearestTarget(snap, from)
	if !ok {
		return 0
	}
	return wrappedDistance(snap, from, target)
}

// wrappedDistance is the Manhattan distance, taking the short way round
// when both edges of an axis are open.
func wrappedDistance(snap game.Snapshot, a, b types.Point) int {
	return abs(wrappedDelta(snap, a.X, b.X, false)) + abs(wrappedDelta(snap, a.Y, b.Y, true))
}

func wrappedDelta(snap game.Snapshot, from, to int, vertical bool) int {
	d := to - from
	size := snap.GridSize
	if size == 0 || abs(d) <= size/2 {
		return d
	}
	blocked := snap.Borders.Left || snap.Borders.Right
	if vertical {
		blocked = snap.Borders.Top || snap.Borders.Bottom
	}
	if blocked {
		return d
	}
	if d > 0 {
		return d - size
	}
	return d + size
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
