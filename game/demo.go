package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/lightseeker/components"
	"github.com/pthm-cable/lightseeker/config"
)

// DemoTrace captures each phase of a single Sense-Think-Act cycle.
type DemoTrace struct {
	Light     components.Position
	Before    components.Position
	After     components.Position
	Readings  components.Readings
	Direction components.Direction
	Movement  components.Movement
	Moved     bool
}

// RunDemo places an agent at the grid centre and runs exactly one cycle,
// phase by phase. light fixes the source position when non-nil.
func RunDemo(cfg *config.Config, rng *rand.Rand, light *components.Position) (DemoTrace, error) {
	centre := components.Position{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY}
	sim, err := NewSimulation(cfg, rng, Options{Start: &centre, Light: light, RunID: "demo"})
	if err != nil {
		return DemoTrace{}, fmt.Errorf("demo setup: %w", err)
	}
	agent := sim.Agent()

	trace := DemoTrace{
		Light:  sim.Environment().Light,
		Before: agent.Position(),
	}
	trace.Readings = agent.Sense()
	trace.Movement, trace.Direction = agent.Think(trace.Readings)
	trace.Moved = agent.Act(trace.Movement)
	trace.After = agent.Position()

	return trace, nil
}

// LogDemo narrates a demo trace.
func LogDemo(t DemoTrace) {
	Logf("%s", heavyRule)
	Logf("DETAILED SENSE-THINK-ACT DEMONSTRATION")
	Logf("%s", heavyRule)
	Logf("")
	Logf("Agent position: %s", t.Before)
	Logf("Light position: %s", t.Light)
	Logf("")

	Logf("PHASE 1: SENSE")
	Logf("%s", lightRule[:40])
	for _, d := range components.Directions {
		Logf("  %-5s sensor: %.4f", d, t.Readings.Get(d))
	}
	Logf("")

	Logf("PHASE 2: THINK")
	Logf("%s", lightRule[:40])
	Logf("  Brightest direction: %s", t.Direction)
	Logf("  Decided movement: %s", t.Movement)
	Logf("")

	Logf("PHASE 3: ACT")
	Logf("%s", lightRule[:40])
	Logf("  Previous position: %s", t.Before)
	Logf("  New position: %s", t.After)
	Logf("  Movement successful: %v", t.Moved)
	Logf("")

	Logf("%s", heavyRule)
	Logf("One complete Sense-Think-Act cycle completed!")
	Logf("%s", heavyRule)
}
