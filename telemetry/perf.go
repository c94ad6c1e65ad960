package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/lightseeker/systems"
)

// Phase names for one Sense-Think-Act cycle.
const (
	PhaseSense = systems.PhaseSense
	PhaseThink = systems.PhaseThink
	PhaseAct   = systems.PhaseAct
)

var cyclePhases = []string{PhaseSense, PhaseThink, PhaseAct}

// PerfSample holds timing data for a single cycle.
type PerfSample struct {
	CycleDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks cycle timings over a rolling window.
// It satisfies systems.PhaseTimer.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	cycleStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of cycles to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartCycle begins timing a new cycle.
func (p *PerfCollector) StartCycle() {
	p.cycleStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndCycle finishes timing the current cycle and records the sample.
func (p *PerfCollector) EndCycle() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		CycleDuration: now.Sub(p.cycleStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgCycleDuration time.Duration
	MinCycleDuration time.Duration
	MaxCycleDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	CyclesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minCycle, maxCycle time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.CycleDuration

		if i == 0 || s.CycleDuration < minCycle {
			minCycle = s.CycleDuration
		}
		if s.CycleDuration > maxCycle {
			maxCycle = s.CycleDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgCycleDuration: avg,
		MinCycleDuration: minCycle,
		MaxCycleDuration: maxCycle,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		CyclesPerSecond:  perSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_cycle_ns", s.AvgCycleDuration.Nanoseconds(),
		"min_cycle_ns", s.MinCycleDuration.Nanoseconds(),
		"max_cycle_ns", s.MaxCycleDuration.Nanoseconds(),
		"cycles_per_sec", int(s.CyclesPerSecond),
	}
	for _, phase := range cyclePhases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	AvgCycleNS   int64   `csv:"avg_cycle_ns"`
	MinCycleNS   int64   `csv:"min_cycle_ns"`
	MaxCycleNS   int64   `csv:"max_cycle_ns"`
	CyclesPerSec float64 `csv:"cycles_per_sec"`
	SensePct     float64 `csv:"sense_pct"`
	ThinkPct     float64 `csv:"think_pct"`
	ActPct       float64 `csv:"act_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:        runID,
		AvgCycleNS:   s.AvgCycleDuration.Nanoseconds(),
		MinCycleNS:   s.MinCycleDuration.Nanoseconds(),
		MaxCycleNS:   s.MaxCycleDuration.Nanoseconds(),
		CyclesPerSec: s.CyclesPerSecond,
		SensePct:     s.PhasePct[PhaseSense],
		ThinkPct:     s.PhasePct[PhaseThink],
		ActPct:       s.PhasePct[PhaseAct],
	}
}
