package game

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/pthm-cable/lightseeker/telemetry"
)

// CycleLogger emits one structured log record per cycle and one per run.
type CycleLogger struct {
	Cycles bool // log every cycle, not just the run summary
}

func (l CycleLogger) OnStart(s *Simulation) {
	slog.Info("run started",
		"run_id", s.RunID(),
		"seed", s.Seed(),
		"light", s.Environment().Light.String(),
		"start", s.Agent().Position().String(),
	)
}

func (l CycleLogger) OnCycle(s *Simulation, ev CycleEvent) {
	if !l.Cycles {
		return
	}
	slog.Debug("cycle",
		"run_id", s.RunID(),
		"step", ev.Step,
		"distance", ev.Distance,
		"record", ev.Record,
	)
}

func (l CycleLogger) OnFinish(s *Simulation, summary telemetry.RunSummary) {
	slog.Info("run finished", "summary", summary)
	if perf := s.Perf(); perf != nil {
		perf.Stats().LogStats()
	}
}

// Recorder buffers a run's cycles and persists them with the summary when
// the run finishes. Either sink may be nil.
type Recorder struct {
	Output *telemetry.OutputManager
	Store  *telemetry.Store

	rows []telemetry.CycleRow

	mu   sync.Mutex
	errs []error
}

// NewRecorder creates a recorder writing to the given sinks.
func NewRecorder(out *telemetry.OutputManager, store *telemetry.Store) *Recorder {
	return &Recorder{Output: out, Store: store}
}

func (r *Recorder) OnStart(_ *Simulation) {
	r.rows = r.rows[:0]
}

func (r *Recorder) OnCycle(s *Simulation, ev CycleEvent) {
	r.rows = append(r.rows, telemetry.NewCycleRow(s.RunID(), ev.Step, ev.Record, ev.Distance))
}

func (r *Recorder) OnFinish(s *Simulation, summary telemetry.RunSummary) {
	if err := r.Output.WriteCycles(r.rows); err != nil {
		r.fail(err)
	}
	if err := r.Output.WriteRun(summary); err != nil {
		r.fail(err)
	}
	if perf := s.Perf(); perf != nil {
		if err := r.Output.WritePerf(perf.Stats(), summary.RunID); err != nil {
			r.fail(err)
		}
	}
	if err := r.Store.SaveRun(summary, r.rows); err != nil {
		r.fail(err)
	}
}

func (r *Recorder) fail(err error) {
	slog.Error("recording run failed", "error", err)
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// Err returns every write error seen so far, joined.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}
