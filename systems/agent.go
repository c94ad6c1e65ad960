// Package systems implements the light field and the light-seeking agent.
package systems

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lightseeker/components"
)

// Phase names for one Sense-Think-Act cycle.
const (
	PhaseSense = "sense"
	PhaseThink = "think"
	PhaseAct   = "act"
)

var (
	// ErrOutOfBounds is returned when an agent is placed off the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrSensorDistance is returned for a non-positive sensor distance.
	ErrSensorDistance = errors.New("sensor distance must be positive")
)

// PhaseTimer receives phase boundaries during RunCycle.
type PhaseTimer interface {
	StartPhase(phase string)
}

// CycleRecord is the observable result of one Sense-Think-Act cycle.
type CycleRecord struct {
	Position   components.Position  // after Act
	LightLevel float64              // at the position held when the cycle began
	Direction  components.Direction // chosen by Think
	Moved      bool                 // false when the step would have left the grid
	Readings   components.Readings
}

// LogValue implements slog.LogValuer for structured logging.
func (c CycleRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("x", c.Position.X),
		slog.Int("y", c.Position.Y),
		slog.Float64("light", c.LightLevel),
		slog.String("direction", c.Direction.String()),
		slog.Bool("moved", c.Moved),
		slog.Float64("north", c.Readings.North),
		slog.Float64("south", c.Readings.South),
		slog.Float64("east", c.Readings.East),
		slog.Float64("west", c.Readings.West),
	)
}

// Agent is a reactive light seeker on an Environment grid.
type Agent struct {
	pos            components.Position
	env            *Environment
	sensorDistance int
	history        []components.Position

	// Timer is optional; when set RunCycle reports phase boundaries to it.
	Timer PhaseTimer
}

// NewAgent places an agent at start. The environment is shared, not owned.
func NewAgent(start components.Position, env *Environment, sensorDistance int) (*Agent, error) {
	if sensorDistance <= 0 {
		return nil, fmt.Errorf("%d: %w", sensorDistance, ErrSensorDistance)
	}
	if !env.InBounds(start.X, start.Y) {
		return nil, fmt.Errorf("agent start %s in %dx%d world: %w", start, env.Width, env.Height, ErrOutOfBounds)
	}
	return &Agent{
		pos:            start,
		env:            env,
		sensorDistance: sensorDistance,
		history:        []components.Position{start},
	}, nil
}

// Position returns the current position.
func (a *Agent) Position() components.Position {
	return a.pos
}

// Environment returns the environment the agent moves in.
func (a *Agent) Environment() *Environment {
	return a.env
}

// SensorDistance returns the sensor probe distance.
func (a *Agent) SensorDistance() int {
	return a.sensorDistance
}

// History returns a copy of every position held, starting with the initial one.
func (a *Agent) History() []components.Position {
	out := make([]components.Position, len(a.history))
	copy(out, a.history)
	return out
}

// HistoryLen returns the number of history entries.
func (a *Agent) HistoryLen() int {
	return len(a.history)
}

// DistanceToLight returns the Euclidean distance to the light source.
func (a *Agent) DistanceToLight() float64 {
	return a.env.DistanceToLight(a.pos)
}

// Act applies m if the destination is on the grid.
// Position and history change together or not at all.
func (a *Agent) Act(m components.Movement) bool {
	next := a.pos.Add(m)
	if !a.env.InBounds(next.X, next.Y) {
		return false
	}
	a.pos = next
	a.history = append(a.history, next)
	return true
}

// RunCycle performs Sense, Think and Act in that order.
func (a *Agent) RunCycle() CycleRecord {
	a.startPhase(PhaseSense)
	readings := a.Sense()
	light := a.env.IntensityAt(a.pos)

	a.startPhase(PhaseThink)
	movement, direction := a.Think(readings)

	a.startPhase(PhaseAct)
	moved := a.Act(movement)

	return CycleRecord{
		Position:   a.pos,
		LightLevel: light,
		Direction:  direction,
		Moved:      moved,
		Readings:   readings,
	}
}

func (a *Agent) startPhase(phase string) {
	if a.Timer != nil {
		a.Timer.StartPhase(phase)
	}
}
