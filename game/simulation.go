package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/pthm-cable/lightseeker/components"
	"github.com/pthm-cable/lightseeker/config"
	"github.com/pthm-cable/lightseeker/systems"
	"github.com/pthm-cable/lightseeker/telemetry"
)

// Options configures a single simulation run.
type Options struct {
	Seed  int64                // recorded in the summary; the rng passed to NewSimulation drives placement
	RunID string               // empty = generate one
	Start *components.Position // nil = random start
	Light *components.Position // nil = random light
	Perf  bool                 // time sense/think/act phases
}

// CycleEvent is what observers see after each cycle.
type CycleEvent struct {
	Step     int // zero-based
	Record   systems.CycleRecord
	Distance float64 // to the light, after the move
	Reached  bool    // distance fell below the reached threshold; the run stops here
	Last     bool    // final cycle of the step budget
}

// Observer receives run progress. Observers never influence the agent.
type Observer interface {
	OnStart(s *Simulation)
	OnCycle(s *Simulation, ev CycleEvent)
	OnFinish(s *Simulation, summary telemetry.RunSummary)
}

// Simulation drives one agent in one environment until it reaches the light
// or exhausts the step budget.
type Simulation struct {
	cfg   *config.Config
	env   *systems.Environment
	agent *systems.Agent

	seed  int64
	runID string
	start components.Position

	initialDistance float64
	cycles          int
	reached         bool

	perf      *telemetry.PerfCollector
	observers []Observer
}

// NewSimulation builds the environment and places the agent.
// Light and start positions are drawn from rng unless fixed in opts.
func NewSimulation(cfg *config.Config, rng *rand.Rand, opts Options) (*Simulation, error) {
	var (
		env *systems.Environment
		err error
	)
	if opts.Light != nil {
		env, err = systems.NewEnvironmentWithLight(cfg.World.Width, cfg.World.Height, *opts.Light)
	} else {
		env, err = systems.NewEnvironmentWithMargin(cfg.World.Width, cfg.World.Height, cfg.World.LightMargin, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("creating environment: %w", err)
	}

	start := randomStart(cfg, rng)
	if opts.Start != nil {
		start = *opts.Start
	}

	agent, err := systems.NewAgent(start, env, cfg.Agent.SensorDistance)
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	s := &Simulation{
		cfg:             cfg,
		env:             env,
		agent:           agent,
		seed:            opts.Seed,
		runID:           runID,
		start:           start,
		initialDistance: agent.DistanceToLight(),
	}

	if opts.Perf {
		s.perf = telemetry.NewPerfCollector(cfg.Simulation.NumSteps)
		agent.Timer = s.perf
	}

	return s, nil
}

// randomStart draws the agent start uniformly from [margin, dim-margin] on each axis.
func randomStart(cfg *config.Config, rng *rand.Rand) components.Position {
	m := cfg.Agent.StartMargin
	return components.Position{
		X: m + rng.Intn(cfg.World.Width-2*m+1),
		Y: m + rng.Intn(cfg.World.Height-2*m+1),
	}
}

// AddObserver registers an observer. Must be called before Run.
func (s *Simulation) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Step runs one Sense-Think-Act cycle and applies the termination check
// to the position the agent holds after acting.
func (s *Simulation) Step() CycleEvent {
	if s.perf != nil {
		s.perf.StartCycle()
	}
	rec := s.agent.RunCycle()
	if s.perf != nil {
		s.perf.EndCycle()
	}

	step := s.cycles
	s.cycles++

	dist := s.agent.DistanceToLight()
	ev := CycleEvent{
		Step:     step,
		Record:   rec,
		Distance: dist,
		Reached:  dist < s.cfg.Simulation.ReachedDistance,
		Last:     step == s.cfg.Simulation.NumSteps-1,
	}
	if ev.Reached {
		s.reached = true
	}
	return ev
}

// Run executes up to NumSteps cycles, stopping early once the light is reached.
// Blocked cycles still consume a step.
func (s *Simulation) Run() telemetry.RunSummary {
	for _, o := range s.observers {
		o.OnStart(s)
	}

	for s.cycles < s.cfg.Simulation.NumSteps {
		ev := s.Step()
		for _, o := range s.observers {
			o.OnCycle(s, ev)
		}
		if ev.Reached {
			break
		}
	}

	summary := s.Summary()
	for _, o := range s.observers {
		o.OnFinish(s, summary)
	}
	return summary
}

// Summary reports the run so far.
func (s *Simulation) Summary() telemetry.RunSummary {
	final := s.agent.Position()
	finalDist := s.agent.DistanceToLight()
	return telemetry.RunSummary{
		RunID:            s.runID,
		Seed:             s.seed,
		Width:            s.env.Width,
		Height:           s.env.Height,
		LightX:           s.env.Light.X,
		LightY:           s.env.Light.Y,
		StartX:           s.start.X,
		StartY:           s.start.Y,
		FinalX:           final.X,
		FinalY:           final.Y,
		InitialDistance:  s.initialDistance,
		FinalDistance:    finalDist,
		DistanceTraveled: s.initialDistance - finalDist,
		StepsTaken:       s.agent.HistoryLen() - 1,
		Cycles:           s.cycles,
		Reached:          s.reached,
		Success:          finalDist < s.cfg.Simulation.SuccessDistance,
	}
}

// Config returns the configuration the run was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Environment returns the simulated environment.
func (s *Simulation) Environment() *systems.Environment {
	return s.env
}

// Agent returns the simulated agent.
func (s *Simulation) Agent() *systems.Agent {
	return s.agent
}

// RunID returns the run identifier.
func (s *Simulation) RunID() string {
	return s.runID
}

// Seed returns the seed recorded for this run.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// InitialDistance returns the distance to the light before the first cycle.
func (s *Simulation) InitialDistance() float64 {
	return s.initialDistance
}

// Perf returns the phase timer, or nil when timing is disabled.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}
