package game

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pthm-cable/lightseeker/config"
	"github.com/pthm-cable/lightseeker/telemetry"
)

// BatchOptions configures a batch of independent runs.
type BatchOptions struct {
	Runs     int
	Workers  int   // 0 = GOMAXPROCS
	BaseSeed int64 // run i uses BaseSeed+i
	Perf     bool

	// Observers builds the observers for run i. Called from worker goroutines;
	// each run must get its own stateful observers.
	Observers func(run int) []Observer
}

// batchJob is one run handed to a worker.
type batchJob struct {
	index int
	seed  int64
}

// batchResult is a finished run, or the error that prevented it.
type batchResult struct {
	index   int
	summary telemetry.RunSummary
	err     error
}

// RunBatch runs independent simulations on a fixed worker pool.
// Runs share only the read-only config, so apart from run ids the results are
// the same for any worker count. Summaries are returned in run order.
func RunBatch(cfg *config.Config, opts BatchOptions) ([]telemetry.RunSummary, error) {
	if opts.Runs <= 0 {
		return nil, nil
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > opts.Runs {
		numWorkers = opts.Runs
	}

	jobs := make(chan batchJob, numWorkers)
	results := make(chan batchResult, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- runOne(cfg, opts, job)
			}
		}()
	}

	go func() {
		for i := 0; i < opts.Runs; i++ {
			jobs <- batchJob{index: i, seed: opts.BaseSeed + int64(i)}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summaries := make([]telemetry.RunSummary, opts.Runs)
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		summaries[res.index] = res.summary
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return summaries, nil
}

func runOne(cfg *config.Config, opts BatchOptions, job batchJob) batchResult {
	rng := rand.New(rand.NewSource(job.seed))
	sim, err := NewSimulation(cfg, rng, Options{Seed: job.seed, Perf: opts.Perf})
	if err != nil {
		return batchResult{index: job.index, err: fmt.Errorf("run %d: %w", job.index, err)}
	}
	if opts.Observers != nil {
		for _, o := range opts.Observers(job.index) {
			sim.AddObserver(o)
		}
	}
	return batchResult{index: job.index, summary: sim.Run()}
}
