package manager

import (
	"time"

	"snake-survivor/game/entity"
	"snake-survivor/game/types"
)

// MagnetRadius is the Manhattan reach of the magnet ability.
const MagnetRadius = 3

// explosionOffsets are the cells an explosion seeds around the head:
// left, right, up, down and two diagonals.
var explosionOffsets = [6]types.Point{
	{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1},
	{X: -1, Y: -1}, {X: 1, Y: 1},
}

// FoodManager owns the apples and seeds on the board.
type FoodManager struct {
	size   int
	rng    types.Rand
	apples []types.Item
	seeds  []types.Item
}

func NewFoodManager(size int, rng types.Rand) *FoodManager {
	return &FoodManager{
		size:   size,
		rng:    rng,
		apples: make([]types.Item, 0),
		seeds:  make([]types.Item, 0),
	}
}

func (fm *FoodManager) GetApples() []types.Item {
	return fm.apples
}

func (fm *FoodManager) GetSeeds() []types.Item {
	return fm.seeds
}

// TargetApples is how many apples should be on the board for a score:
// one until the first apple is eaten, two after it, then 1 + eaten/3 from the
// third apple on. Never below minApples, never above the fill target.
func (fm *FoodManager) TargetApples(score, applePoints, minApples int) int {
	eaten := 0
	if applePoints > 0 {
		eaten = score / applePoints
	}

	var n int
	switch {
	case eaten == 0:
		n = 1
	case eaten < 3:
		n = 2
	default:
		n = 1 + eaten/3
	}
	if n < minApples {
		n = minApples
	}
	if limit := types.FillTarget(fm.size); n > limit {
		n = limit
	}
	return n
}

// Refill spawns apples until target is reached. Each missing apple gets
// SpawnAttempts random picks; when they run out the cycle is abandoned.
// It returns how many apples are still missing.
func (fm *FoodManager) Refill(target int, snake *entity.Snake, now time.Time) int {
	for len(fm.apples) < target {
		pos, ok := fm.randomFreeCell(snake)
		if !ok {
			return target - len(fm.apples)
		}
		fm.apples = append(fm.apples, types.Item{Pos: pos, Kind: types.Apple, SpawnedAt: now})
	}
	return 0
}

func (fm *FoodManager) randomFreeCell(snake *entity.Snake) (types.Point, bool) {
	for attempts := 0; attempts < types.SpawnAttempts; attempts++ {
		p := types.Point{
			X: fm.rng.Intn(fm.size),
			Y: fm.rng.Intn(fm.size),
		}
		if !fm.IsOccupied(p, snake) {
			return p, true
		}
	}
	return types.Point{}, false
}

// IsOccupied reports whether p holds a snake segment, an apple or a seed.
func (fm *FoodManager) IsOccupied(p types.Point, snake *entity.Snake) bool {
	if snake != nil && snake.Occupies(p) {
		return true
	}
	return indexOf(fm.apples, p) >= 0 || indexOf(fm.seeds, p) >= 0
}

// Take removes whatever lies at p, apples first.
func (fm *FoodManager) Take(p types.Point) (types.Item, bool) {
	if i := indexOf(fm.apples, p); i >= 0 {
		item := fm.apples[i]
		fm.apples = remove(fm.apples, i)
		return item, true
	}
	if i := indexOf(fm.seeds, p); i >= 0 {
		item := fm.seeds[i]
		fm.seeds = remove(fm.seeds, i)
		return item, true
	}
	return types.Item{}, false
}

// AddApple places an apple at p without any checks.
func (fm *FoodManager) AddApple(p types.Point, now time.Time) {
	fm.apples = append(fm.apples, types.Item{Pos: p, Kind: types.Apple, SpawnedAt: now})
}

// AddSeed places a seed at p without any checks.
func (fm *FoodManager) AddSeed(p types.Point, now time.Time) {
	fm.seeds = append(fm.seeds, types.Item{Pos: p, Kind: types.Seed, SpawnedAt: now})
}

// Scatter seeds the explosion cells around center that are on the grid and
// free. It returns the number of seeds placed.
func (fm *FoodManager) Scatter(center types.Point, snake *entity.Snake, now time.Time) int {
	placed := 0
	for _, off := range explosionOffsets {
		p := center.Add(off)
		if !types.InBounds(p, fm.size) || fm.IsOccupied(p, snake) {
			continue
		}
		fm.AddSeed(p, now)
		placed++
	}
	return placed
}

// Pull moves every item within MagnetRadius of the head one cell towards it
// along the dominant axis (X on ties). Items that would land on a body
// segment or another item stay put. Items that land on the head are removed
// and returned so the caller can score them.
func (fm *FoodManager) Pull(snake *entity.Snake) []types.Item {
	head := snake.GetHead()
	pulled := false

	step := func(items []types.Item) {
		for i := range items {
			pos := items[i].Pos
			d := types.Manhattan(pos, head)
			if d == 0 || d > MagnetRadius {
				continue
			}

			next := pos
			dx, dy := head.X-pos.X, head.Y-pos.Y
			if abs(dx) >= abs(dy) {
				next.X += types.Sign(dx)
			} else {
				next.Y += types.Sign(dy)
			}
			next = types.Point{X: clamp(next.X, 0, fm.size-1), Y: clamp(next.Y, 0, fm.size-1)}

			if next == head {
				items[i].Pos = head
				pulled = true
			} else if !fm.IsOccupied(next, snake) {
				items[i].Pos = next
			}
		}
	}
	step(fm.apples)
	step(fm.seeds)

	if !pulled {
		return nil
	}
	var landed []types.Item
	for _, list := range []*[]types.Item{&fm.apples, &fm.seeds} {
		kept := (*list)[:0]
		for _, item := range *list {
			if item.Pos == head {
				landed = append(landed, item)
				continue
			}
			kept = append(kept, item)
		}
		*list = kept
	}
	return landed
}

// Reset clears the board of food.
func (fm *FoodManager) Reset() {
	fm.apples = fm.apples[:0]
	fm.seeds = fm.seeds[:0]
}

func indexOf(items []types.Item, p types.Point) int {
	for i, item := range items {
		if item.Pos == p {
			return i
		}
	}
	return -1
}

// remove deletes index i keeping the order stable.
func remove(items []types.Item, i int) []types.Item {
	return append(items[:i], items[i+1:]...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
