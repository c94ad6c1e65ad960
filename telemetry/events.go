// Package telemetry records cycles and runs: CSV output, the sqlite run store,
// batch statistics and phase timing.
package telemetry

import "github.com/pthm-cable/lightseeker/systems"

// CycleRow is the flat form of one cycle, used for trajectory.csv and the cycles table.
type CycleRow struct {
	RunID     string  `csv:"run_id" db:"run_id"`
	Step      int     `csv:"step" db:"step"`
	X         int     `csv:"x" db:"x"`
	Y         int     `csv:"y" db:"y"`
	Light     float64 `csv:"light" db:"light"`
	Direction string  `csv:"direction" db:"direction"`
	Moved     bool    `csv:"moved" db:"moved"`
	North     float64 `csv:"north" db:"north"`
	South     float64 `csv:"south" db:"south"`
	East      float64 `csv:"east" db:"east"`
	West      float64 `csv:"west" db:"west"`
	Distance  float64 `csv:"distance" db:"distance"`
}

// NewCycleRow flattens a cycle record. distance is measured after the move.
func NewCycleRow(runID string, step int, rec systems.CycleRecord, distance float64) CycleRow {
	return CycleRow{
		RunID:     runID,
		Step:      step,
		X:         rec.Position.X,
		Y:         rec.Position.Y,
		Light:     rec.LightLevel,
		Direction: rec.Direction.String(),
		Moved:     rec.Moved,
		North:     rec.Readings.North,
		South:     rec.Readings.South,
		East:      rec.Readings.East,
		West:      rec.Readings.West,
		Distance:  distance,
	}
}
