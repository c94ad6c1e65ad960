package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/lightseeker/config"
	"github.com/pthm-cable/lightseeker/game"
	"github.com/pthm-cable/lightseeker/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	demo := flag.Bool("demo", false, "Run a single traced Sense-Think-Act cycle from the grid centre")
	history := flag.Bool("history", false, "Print the agent's movement history after the run")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Step budget (0 = use config)")
	runs := flag.Int("runs", 0, "Run N independent simulations in parallel (0 = use config)")
	workers := flag.Int("workers", 0, "Batch worker count (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file to record runs in")
	logCycles := flag.Bool("log-cycles", false, "Emit a debug log record per cycle")
	perf := flag.Bool("perf", false, "Time sense/think/act phases")
	verbose := flag.Bool("v", false, "Debug-level logging")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *steps > 0 {
		cfg.Simulation.NumSteps = *steps
	}
	if *runs > 0 {
		cfg.Batch.Runs = *runs
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *logCycles {
		cfg.Telemetry.LogCycles = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Structured logs go to stderr; stdout carries the narration.
	level := slog.LevelInfo
	if *verbose || cfg.Telemetry.LogCycles {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *demo {
		trace, err := game.RunDemo(cfg, rand.New(rand.NewSource(rngSeed)), nil)
		if err != nil {
			slog.Error("demo failed", "error", err)
			os.Exit(1)
		}
		game.LogDemo(trace)
		return
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	var store *telemetry.Store
	if *dbPath != "" {
		store, err = telemetry.OpenStore(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("database opened", "path", *dbPath)
	}

	if cfg.Batch.Runs > 0 {
		if !runBatch(cfg, rngSeed, *perf, out, store) {
			os.Exit(1)
		}
		return
	}

	sim, err := game.NewSimulation(cfg, rand.New(rand.NewSource(rngSeed)), game.Options{Seed: rngSeed, Perf: *perf})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	recorder := game.NewRecorder(out, store)
	sim.AddObserver(game.NewNarrator(cfg.Simulation.ReportEvery))
	sim.AddObserver(game.CycleLogger{Cycles: cfg.Telemetry.LogCycles})
	sim.AddObserver(recorder)

	sim.Run()

	if *history {
		game.LogHistory(sim)
	}
	if err := recorder.Err(); err != nil {
		os.Exit(1)
	}
}

// runBatch runs cfg.Batch.Runs simulations and logs their aggregate statistics.
func runBatch(cfg *config.Config, baseSeed int64, perf bool, out *telemetry.OutputManager, store *telemetry.Store) bool {
	slog.Info("starting batch",
		"runs", cfg.Batch.Runs,
		"workers", cfg.Batch.Workers,
		"base_seed", baseSeed,
		"steps", cfg.Simulation.NumSteps,
	)

	recorders := make([]*game.Recorder, cfg.Batch.Runs)
	summaries, err := game.RunBatch(cfg, game.BatchOptions{
		Runs:     cfg.Batch.Runs,
		Workers:  cfg.Batch.Workers,
		BaseSeed: baseSeed,
		Perf:     perf,
		Observers: func(run int) []game.Observer {
			recorders[run] = game.NewRecorder(out, store)
			return []game.Observer{
				game.CycleLogger{Cycles: cfg.Telemetry.LogCycles},
				recorders[run],
			}
		},
	})
	if err != nil {
		slog.Error("batch failed", "error", err)
		return false
	}

	telemetry.ComputeBatchStats(summaries).LogStats()

	ok := true
	for _, r := range recorders {
		if r != nil && r.Err() != nil {
			ok = false
		}
	}
	return ok
}
