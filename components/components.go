// Package components defines the plain data types shared by the simulation.
package components

import "fmt"

// Direction is one of the four cardinal sensor directions.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// NumDirections is the number of sensors on the agent.
const NumDirections = 4

// Directions lists every direction in tie-break priority order.
// When readings are equal the earlier direction wins.
var Directions = [NumDirections]Direction{North, South, East, West}

var directionNames = [NumDirections]string{"north", "south", "east", "west"}

// Screen coordinates: y grows southward.
var directionVectors = [NumDirections]Movement{
	North: {DX: 0, DY: -1},
	South: {DX: 0, DY: 1},
	East:  {DX: 1, DY: 0},
	West:  {DX: -1, DY: 0},
}

func (d Direction) String() string {
	if int(d) < NumDirections {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Vector returns the unit movement for d.
func (d Direction) Vector() Movement {
	return directionVectors[d]
}

// MarshalText encodes the direction as its label.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= NumDirections {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText parses a direction label.
func (d *Direction) UnmarshalText(text []byte) error {
	dir, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}

// ParseDirection returns the direction with the given label.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Readings holds one light intensity per sensor direction.
type Readings struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Get returns the reading for d.
func (r Readings) Get(d Direction) float64 {
	switch d {
	case North:
		return r.North
	case South:
		return r.South
	case East:
		return r.East
	default:
		return r.West
	}
}

// Set stores v as the reading for d.
func (r *Readings) Set(d Direction, v float64) {
	switch d {
	case North:
		r.North = v
	case South:
		r.South = v
	case East:
		r.East = v
	default:
		r.West = v
	}
}

// Best returns the direction with the highest reading.
// Ties go to the direction listed first in Directions.
func (r Readings) Best() Direction {
	best := Directions[0]
	bestVal := r.Get(best)
	for _, d := range Directions[1:] {
		if v := r.Get(d); v > bestVal {
			best, bestVal = d, v
		}
	}
	return best
}
