package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BatchStats holds aggregated statistics over many independent runs.
type BatchStats struct {
	Runs        int     `csv:"runs"`
	ReachedRate float64 `csv:"reached_rate"`
	SuccessRate float64 `csv:"success_rate"`

	StepsMean float64 `csv:"steps_mean"`
	StepsStd  float64 `csv:"steps_std"`
	StepsP50  float64 `csv:"steps_p50"`
	StepsP90  float64 `csv:"steps_p90"`

	FinalDistMean float64 `csv:"final_dist_mean"`
	FinalDistStd  float64 `csv:"final_dist_std"`
	FinalDistP50  float64 `csv:"final_dist_p50"`
	FinalDistP90  float64 `csv:"final_dist_p90"`

	TraveledMean float64 `csv:"traveled_mean"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution returns mean, population std, p50 and p90 of values.
func Distribution(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std = math.Sqrt(variance)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeBatchStats aggregates run summaries.
func ComputeBatchStats(runs []RunSummary) BatchStats {
	n := len(runs)
	if n == 0 {
		return BatchStats{}
	}

	steps := make([]float64, n)
	finals := make([]float64, n)
	traveled := make([]float64, n)
	var reached, success int
	for i, r := range runs {
		steps[i] = float64(r.StepsTaken)
		finals[i] = r.FinalDistance
		traveled[i] = r.DistanceTraveled
		if r.Reached {
			reached++
		}
		if r.Success {
			success++
		}
	}

	bs := BatchStats{
		Runs:         n,
		ReachedRate:  float64(reached) / float64(n),
		SuccessRate:  float64(success) / float64(n),
		TraveledMean: stat.Mean(traveled, nil),
	}
	bs.StepsMean, bs.StepsStd, bs.StepsP50, bs.StepsP90 = Distribution(steps)
	bs.FinalDistMean, bs.FinalDistStd, bs.FinalDistP50, bs.FinalDistP90 = Distribution(finals)
	return bs
}

// LogValue implements slog.LogValuer for structured logging.
func (s BatchStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("runs", s.Runs),
		slog.Float64("reached_rate", s.ReachedRate),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Float64("steps_mean", s.StepsMean),
		slog.Float64("steps_std", s.StepsStd),
		slog.Float64("steps_p50", s.StepsP50),
		slog.Float64("steps_p90", s.StepsP90),
		slog.Float64("final_dist_mean", s.FinalDistMean),
		slog.Float64("final_dist_std", s.FinalDistStd),
		slog.Float64("final_dist_p50", s.FinalDistP50),
		slog.Float64("final_dist_p90", s.FinalDistP90),
		slog.Float64("traveled_mean", s.TraveledMean),
	)
}

// LogStats logs the batch stats using slog.
func (s BatchStats) LogStats() {
	slog.Info("batch", "stats", s)
}
