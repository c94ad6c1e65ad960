package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/lightseeker/components"
)

// RunSummary describes one finished simulation run.
type RunSummary struct {
	RunID  string `csv:"run_id" db:"run_id"`
	Seed   int64  `csv:"seed" db:"seed"`
	Width  int    `csv:"width" db:"width"`
	Height int    `csv:"height" db:"height"`

	LightX int `csv:"light_x" db:"light_x"`
	LightY int `csv:"light_y" db:"light_y"`
	StartX int `csv:"start_x" db:"start_x"`
	StartY int `csv:"start_y" db:"start_y"`
	FinalX int `csv:"final_x" db:"final_x"`
	FinalY int `csv:"final_y" db:"final_y"`

	InitialDistance  float64 `csv:"initial_distance" db:"initial_distance"`
	FinalDistance    float64 `csv:"final_distance" db:"final_distance"`
	DistanceTraveled float64 `csv:"distance_traveled" db:"distance_traveled"` // initial - final

	StepsTaken int  `csv:"steps_taken" db:"steps_taken"` // successful moves (history length - 1)
	Cycles     int  `csv:"cycles" db:"cycles"`           // cycles executed, blocked ones included
	Reached    bool `csv:"reached" db:"reached"`         // stopped early at the light
	Success    bool `csv:"success" db:"success"`         // final distance under the success threshold
}

// Light returns the light source position.
func (s RunSummary) Light() components.Position {
	return components.Position{X: s.LightX, Y: s.LightY}
}

// Start returns the agent's starting position.
func (s RunSummary) Start() components.Position {
	return components.Position{X: s.StartX, Y: s.StartY}
}

// Final returns the agent's final position.
func (s RunSummary) Final() components.Position {
	return components.Position{X: s.FinalX, Y: s.FinalY}
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int64("seed", s.Seed),
		slog.String("light", s.Light().String()),
		slog.String("start", s.Start().String()),
		slog.String("final", s.Final().String()),
		slog.Float64("initial_distance", s.InitialDistance),
		slog.Float64("final_distance", s.FinalDistance),
		slog.Float64("distance_traveled", s.DistanceTraveled),
		slog.Int("steps_taken", s.StepsTaken),
		slog.Int("cycles", s.Cycles),
		slog.Bool("reached", s.Reached),
		slog.Bool("success", s.Success),
	)
}
