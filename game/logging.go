package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm-cable/lightseeker/telemetry"
)

// logWriter is the destination for narration output.
var logWriter io.Writer

// SetLogWriter sets the narration output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted narration line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// Narrator prints a human-readable account of a run: a header, a step line
// every ReportEvery steps and on the last step, and a closing summary.
type Narrator struct {
	ReportEvery int
}

// NewNarrator creates a narrator using the run's report interval.
func NewNarrator(reportEvery int) *Narrator {
	if reportEvery < 1 {
		reportEvery = 1
	}
	return &Narrator{ReportEvery: reportEvery}
}

func (n *Narrator) OnStart(s *Simulation) {
	Logf("%s", heavyRule)
	Logf("LIGHT SEEKER: Sense-Think-Act simulation")
	Logf("%s", heavyRule)
	Logf("")
	Logf("Light source placed at %s", s.Environment().Light)
	Logf("Agent starting at %s", s.Agent().Position())
	Logf("Initial distance to light: %.2f", s.InitialDistance())
	Logf("")
	Logf("Running Sense-Think-Act cycles...")
	Logf("%s", lightRule)
}

func (n *Narrator) OnCycle(_ *Simulation, ev CycleEvent) {
	if ev.Step%n.ReportEvery == 0 || ev.Last {
		Logf("Step %3d: Position %s, Light: %.4f, Moving: %s",
			ev.Step, ev.Record.Position, ev.Record.LightLevel, ev.Record.Direction)
	}
	if ev.Reached {
		Logf("Step %3d: Reached the light source!", ev.Step)
	}
}

func (n *Narrator) OnFinish(_ *Simulation, sum telemetry.RunSummary) {
	Logf("%s", lightRule)
	Logf("")
	Logf("SIMULATION COMPLETE")
	Logf("Final position: %s", sum.Final())
	Logf("Final distance to light: %.2f", sum.FinalDistance)
	Logf("Distance traveled: %.2f", sum.DistanceTraveled)
	Logf("Total steps taken: %d", sum.StepsTaken)
	Logf("")
	if sum.Success {
		Logf("SUCCESS! Agent reached the light source!")
	} else {
		Logf("Agent is still approaching the light source.")
	}
}

// LogHistory prints every position the agent held, in order.
func LogHistory(s *Simulation) {
	Logf("")
	Logf("Movement History:")
	for i, p := range s.Agent().History() {
		Logf("  Step %d: %s", i, p)
	}
}
