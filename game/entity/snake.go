package entity

import (
	"snake-survivor/game/types"
)

// Snake is the player's body. Body[0] is the head.
type Snake struct {
	Body      []types.Point
	Direction types.Point // direction used by the last step
	NextDir   types.Point // direction the next step will commit
}

// NewSnake lays out length segments starting at head and extending against dir.
func NewSnake(head types.Point, length int, dir types.Point) *Snake {
	body := make([]types.Point, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, types.Point{X: head.X - i*dir.X, Y: head.Y - i*dir.Y})
	}
	return &Snake{
		Body:      body,
		Direction: dir,
		NextDir:   dir,
	}
}

// Move puts a new head in front of the body.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, types.Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
}

// RemoveTail drops the last segment.
func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// AppendTail grows the snake at its tail end.
func (s *Snake) AppendTail(p types.Point) {
	s.Body = append(s.Body, p)
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether any segment covers p.
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// QueueDirection sets the direction for the next step.
// Non-unit vectors and 180-degree turns are refused.
func (s *Snake) QueueDirection(dir types.Point) bool {
	if !types.IsUnit(dir) || types.IsReverse(dir, s.Direction) {
		return false
	}
	s.NextDir = dir
	return true
}

// CommitDirection makes the queued direction current.
func (s *Snake) CommitDirection() types.Point {
	s.Direction = s.NextDir
	return s.Direction
}
