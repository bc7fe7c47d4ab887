package manager

import (
	"snake-survivor/game/entity"
	"snake-survivor/game/types"
)

// BorderHit describes a step that crossed a blocked edge.
type BorderHit struct {
	Edge    types.Edge
	Clamped types.Point // the head pushed back onto the grid
}

type CollisionManager struct {
	size int
}

func NewCollisionManager(size int) *CollisionManager {
	return &CollisionManager{size: size}
}

// ResolveBorders applies the border rules to a new head, one axis at a time.
// Open edges wrap the coordinate to the opposite side. The first blocked edge
// crossed is reported and resolution stops there.
func (cm *CollisionManager) ResolveBorders(head types.Point, borders types.Borders) (types.Point, *BorderHit) {
	if head.X < 0 {
		if borders.Left {
			return head, cm.hit(types.EdgeLeft, head)
		}
		head.X = cm.size - 1
	} else if head.X >= cm.size {
		if borders.Right {
			return head, cm.hit(types.EdgeRight, head)
		}
		head.X = 0
	}

	if head.Y < 0 {
		if borders.Top {
			return head, cm.hit(types.EdgeTop, head)
		}
		head.Y = cm.size - 1
	} else if head.Y >= cm.size {
		if borders.Bottom {
			return head, cm.hit(types.EdgeBottom, head)
		}
		head.Y = 0
	}

	return head, nil
}

func (cm *CollisionManager) hit(edge types.Edge, head types.Point) *BorderHit {
	return &BorderHit{Edge: edge, Clamped: cm.Clamp(head)}
}

// Clamp pulls p back inside the grid.
func (cm *CollisionManager) Clamp(p types.Point) types.Point {
	return types.Point{X: clamp(p.X, 0, cm.size-1), Y: clamp(p.Y, 0, cm.size-1)}
}

// IsSelfCollision checks pos against every current segment, tail included.
func (cm *CollisionManager) IsSelfCollision(pos types.Point, snake *entity.Snake) bool {
	return snake.Occupies(pos)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
