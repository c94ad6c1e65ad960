package components

import "fmt"

// Position is a discrete grid cell.
type Position struct {
	X, Y int
}

// Add returns p offset by a movement.
func (p Position) Add(m Movement) Position {
	return Position{X: p.X + m.DX, Y: p.Y + m.DY}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Movement is a unit step on the grid.
type Movement struct {
	DX, DY int
}

func (m Movement) String() string {
	return fmt.Sprintf("(%d, %d)", m.DX, m.DY)
}
