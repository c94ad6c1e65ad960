package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/lightseeker/components"
	"github.com/pthm-cable/lightseeker/config"
	"github.com/pthm-cable/lightseeker/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func pos(x, y int) *components.Position {
	return &components.Position{X: x, Y: y}
}

func newTestSim(t *testing.T, cfg *config.Config, light, start *components.Position) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, rand.New(rand.NewSource(1)), Options{Seed: 1, Light: light, Start: start})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

// eventLog records everything observers are told.
type eventLog struct {
	started  int
	events   []CycleEvent
	finished []telemetry.RunSummary
}

func (l *eventLog) OnStart(*Simulation)                             { l.started++ }
func (l *eventLog) OnCycle(_ *Simulation, ev CycleEvent)             { l.events = append(l.events, ev) }
func (l *eventLog) OnFinish(_ *Simulation, s telemetry.RunSummary) { l.finished = append(l.finished, s) }

func TestRunReachesLight(t *testing.T) {
	cfg := testConfig(t)
	sim := newTestSim(t, cfg, pos(60, 60), pos(10, 10))

	sum := sim.Run()

	if !sum.Reached || !sum.Success {
		t.Errorf("reached=%v success=%v, want both true", sum.Reached, sum.Success)
	}
	if sum.Cycles != 98 || sum.StepsTaken != 98 {
		t.Errorf("cycles=%d steps=%d, want 98/98", sum.Cycles, sum.StepsTaken)
	}
	if sum.Final() != (components.Position{X: 59, Y: 59}) {
		t.Errorf("final = %s, want (59, 59)", sum.Final())
	}
	if sum.FinalDistance >= cfg.Simulation.ReachedDistance {
		t.Errorf("final distance %v not below reached threshold", sum.FinalDistance)
	}
	wantInitial := math.Hypot(50, 50)
	if math.Abs(sum.InitialDistance-wantInitial) > 1e-9 {
		t.Errorf("initial distance = %v, want %v", sum.InitialDistance, wantInitial)
	}
	if math.Abs(sum.DistanceTraveled-(sum.InitialDistance-sum.FinalDistance)) > 1e-12 {
		t.Errorf("distance traveled = %v, want initial - final", sum.DistanceTraveled)
	}
}

func TestRunStopsAtBudget(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.NumSteps = 10
	sim := newTestSim(t, cfg, pos(60, 60), pos(10, 10))

	log := &eventLog{}
	sim.AddObserver(log)
	sum := sim.Run()

	if sum.Cycles != 10 || sum.StepsTaken != 10 {
		t.Errorf("cycles=%d steps=%d, want 10/10", sum.Cycles, sum.StepsTaken)
	}
	if sum.Reached || sum.Success {
		t.Errorf("reached=%v success=%v, want false", sum.Reached, sum.Success)
	}
	if len(log.events) != 10 {
		t.Fatalf("observer saw %d cycles, want 10", len(log.events))
	}
	for i, ev := range log.events {
		if ev.Step != i {
			t.Errorf("event %d has step %d", i, ev.Step)
		}
		if ev.Last != (i == 9) {
			t.Errorf("event %d Last = %v", i, ev.Last)
		}
	}
	if log.started != 1 || len(log.finished) != 1 || log.finished[0] != sum {
		t.Errorf("start/finish notifications wrong: started=%d finished=%v", log.started, log.finished)
	}
}

func TestRunDistanceShrinksEveryCycle(t *testing.T) {
	cfg := testConfig(t)
	sim := newTestSim(t, cfg, pos(25, 70), pos(88, 12))

	log := &eventLog{}
	sim.AddObserver(log)
	sum := sim.Run()

	prev := sum.InitialDistance
	for _, ev := range log.events {
		if !ev.Record.Moved {
			t.Fatalf("step %d blocked while approaching the light", ev.Step)
		}
		if ev.Distance >= prev {
			t.Fatalf("step %d: distance %v did not drop below %v", ev.Step, ev.Distance, prev)
		}
		prev = ev.Distance
	}
}

func TestTerminationChecksPostMovePosition(t *testing.T) {
	cfg := testConfig(t)
	// (58, 60) is exactly 2 from the light: not reached until after the first move.
	sim := newTestSim(t, cfg, pos(60, 60), pos(58, 60))

	log := &eventLog{}
	sim.AddObserver(log)
	sum := sim.Run()

	if sum.Cycles != 1 || !sum.Reached {
		t.Fatalf("cycles=%d reached=%v, want 1 cycle and reached", sum.Cycles, sum.Reached)
	}
	ev := log.events[0]
	if ev.Record.Position != (components.Position{X: 59, Y: 60}) || !ev.Reached || ev.Distance != 1 {
		t.Errorf("event = %+v, want reached at (59, 60) distance 1", ev)
	}
}

func TestBlockedCyclesConsumeSteps(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.NumSteps = 7
	cfg.Simulation.ReachedDistance = 0 // never stop early
	// On the light at the top edge: readings tie, north wins, north is off the grid.
	sim := newTestSim(t, cfg, pos(30, 0), pos(30, 0))

	log := &eventLog{}
	sim.AddObserver(log)
	sum := sim.Run()

	if sum.Cycles != 7 {
		t.Errorf("cycles = %d, want 7", sum.Cycles)
	}
	if sum.StepsTaken != 0 || sim.Agent().HistoryLen() != 1 {
		t.Errorf("steps taken = %d, want 0", sum.StepsTaken)
	}
	for _, ev := range log.events {
		if ev.Record.Moved || ev.Record.Position != (components.Position{X: 30, Y: 0}) {
			t.Fatalf("step %d: expected blocked cycle, got %+v", ev.Step, ev.Record)
		}
	}
	if !sum.Success {
		t.Error("agent sitting on the light should classify as success")
	}
}

func TestAgentOnLightStopsAfterOneCycle(t *testing.T) {
	cfg := testConfig(t)
	sim := newTestSim(t, cfg, pos(50, 50), pos(50, 50))

	sum := sim.Run()

	// North tie-break moves one step off the light; still within reach.
	if sum.Cycles != 1 || !sum.Reached {
		t.Errorf("cycles=%d reached=%v, want 1 and reached", sum.Cycles, sum.Reached)
	}
	if sum.Final() != (components.Position{X: 50, Y: 49}) {
		t.Errorf("final = %s, want (50, 49)", sum.Final())
	}
}

func TestRandomPlacement(t *testing.T) {
	cfg := testConfig(t)
	for seed := int64(1); seed <= 100; seed++ {
		sim, err := NewSimulation(cfg, rand.New(rand.NewSource(seed)), Options{Seed: seed})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		start := sim.Agent().Position()
		if start.X < 10 || start.X > 90 || start.Y < 10 || start.Y > 90 {
			t.Fatalf("seed %d: start %s outside [10, 90]", seed, start)
		}
		light := sim.Environment().Light
		if light.X < 20 || light.X > 80 || light.Y < 20 || light.Y > 80 {
			t.Fatalf("seed %d: light %s outside [20, 80]", seed, light)
		}
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)

	run := func() telemetry.RunSummary {
		sim, err := NewSimulation(cfg, rand.New(rand.NewSource(99)), Options{Seed: 99, RunID: "fixed"})
		if err != nil {
			t.Fatal(err)
		}
		return sim.Run()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed produced different runs:\n%+v\n%+v", a, b)
	}
}

func TestRunIDGenerated(t *testing.T) {
	cfg := testConfig(t)
	a := newTestSim(t, cfg, nil, nil)
	b := newTestSim(t, cfg, nil, nil)
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Errorf("run ids %q and %q should be distinct and non-empty", a.RunID(), b.RunID())
	}
}

func TestNewSimulationRejectsBadPlacement(t *testing.T) {
	cfg := testConfig(t)
	if _, err := NewSimulation(cfg, rand.New(rand.NewSource(1)), Options{Start: pos(100, 3)}); err == nil {
		t.Error("expected error for off-grid start")
	}
	if _, err := NewSimulation(cfg, rand.New(rand.NewSource(1)), Options{Light: pos(-1, 3)}); err == nil {
		t.Error("expected error for off-grid light")
	}
}

func TestPerfTiming(t *testing.T) {
	cfg := testConfig(t)
	sim, err := NewSimulation(cfg, rand.New(rand.NewSource(3)), Options{Perf: true, Light: pos(60, 60), Start: pos(10, 10)})
	if err != nil {
		t.Fatal(err)
	}
	sim.Run()

	stats := sim.Perf().Stats()
	for _, phase := range []string{telemetry.PhaseSense, telemetry.PhaseThink, telemetry.PhaseAct} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not timed", phase)
		}
	}
}
