package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even picks lower", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p15", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.15, 2.0},
		{"p85", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.85, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if got != tt.want {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	mean, std, p50, p90 := Distribution([]float64{4, 1, 3, 2, 5})

	if math.Abs(mean-3) > 1e-12 {
		t.Errorf("mean = %v, want 3", mean)
	}
	if math.Abs(std-math.Sqrt2) > 1e-12 {
		t.Errorf("std = %v, want sqrt(2)", std)
	}
	if p50 != 3 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if p90 != 5 {
		t.Errorf("p90 = %v, want 5", p90)
	}
}

func TestDistributionDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Distribution(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestDistributionEmpty(t *testing.T) {
	mean, std, p50, p90 := Distribution(nil)
	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("Distribution(nil) = %v, %v, %v, %v", mean, std, p50, p90)
	}
}

func TestComputeBatchStats(t *testing.T) {
	runs := []RunSummary{
		{StepsTaken: 10, FinalDistance: 1, DistanceTraveled: 30, Reached: true, Success: true},
		{StepsTaken: 20, FinalDistance: 4, DistanceTraveled: 20, Reached: false, Success: true},
		{StepsTaken: 30, FinalDistance: 9, DistanceTraveled: 10, Reached: false, Success: false},
		{StepsTaken: 40, FinalDistance: 1.5, DistanceTraveled: 40, Reached: true, Success: true},
	}

	bs := ComputeBatchStats(runs)

	if bs.Runs != 4 {
		t.Errorf("Runs = %d, want 4", bs.Runs)
	}
	if bs.ReachedRate != 0.5 {
		t.Errorf("ReachedRate = %v, want 0.5", bs.ReachedRate)
	}
	if bs.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", bs.SuccessRate)
	}
	if bs.StepsMean != 25 {
		t.Errorf("StepsMean = %v, want 25", bs.StepsMean)
	}
	if math.Abs(bs.StepsStd-math.Sqrt(125)) > 1e-9 {
		t.Errorf("StepsStd = %v, want sqrt(125)", bs.StepsStd)
	}
	if bs.StepsP50 != 20 || bs.StepsP90 != 40 {
		t.Errorf("steps p50/p90 = %v/%v, want 20/40", bs.StepsP50, bs.StepsP90)
	}
	if bs.FinalDistP50 != 1.5 {
		t.Errorf("FinalDistP50 = %v, want 1.5", bs.FinalDistP50)
	}
	if bs.TraveledMean != 25 {
		t.Errorf("TraveledMean = %v, want 25", bs.TraveledMean)
	}
}

func TestComputeBatchStatsEmpty(t *testing.T) {
	if bs := ComputeBatchStats(nil); bs != (BatchStats{}) {
		t.Errorf("ComputeBatchStats(nil) = %+v, want zero", bs)
	}
}
