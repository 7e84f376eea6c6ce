package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/flappy/game"
)

func TestQuantiles(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single element", []float64{5}, 5, 5, 5},
		{"ten values", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, 1, 5, 9},
		{"repeated", []float64{2, 2, 2, 2}, 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p10, p50, p90 := Quantiles(tt.values)
			if p10 != tt.p10 || p50 != tt.p50 || p90 != tt.p90 {
				t.Errorf("Quantiles(%v) = %v, %v, %v, want %v, %v, %v", tt.values, p10, p50, p90, tt.p10, tt.p50, tt.p90)
			}
		})
	}
}

func TestQuantilesDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantiles(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input modified: %v", values)
	}
}

func TestComputeGenerationStats(t *testing.T) {
	res := game.Result{
		Generation: 4,
		Ticks:      120,
		Score:      1,
		Members: []game.MemberResult{
			{ID: 1, Ticks: 23, Cause: game.CauseGround, Fitness: 2.3},
			{ID: 2, Ticks: 120, Cause: game.CausePipe, Fitness: 16},
			{ID: 3, Ticks: 33, Cause: game.CauseCeiling, Fitness: 3.3},
			{ID: 4, Ticks: 80, Cause: game.CausePipe, Fitness: 6.4},
		},
	}

	s := ComputeGenerationStats(res, 3, 1500*time.Microsecond)

	if s.Generation != 4 || s.Members != 4 || s.Species != 3 || s.Score != 1 || s.Ticks != 120 {
		t.Errorf("header fields wrong: %+v", s)
	}
	if s.BestFitness != 16 || s.BestGenome != 2 {
		t.Errorf("best = %v (genome %d), want 16 (genome 2)", s.BestFitness, s.BestGenome)
	}
	if math.Abs(s.MeanFitness-7.0) > 1e-9 {
		t.Errorf("mean = %v, want 7", s.MeanFitness)
	}
	// Sample std dev of {2.3, 16, 3.3, 6.4}.
	if math.Abs(s.StdFitness-6.2487) > 1e-3 {
		t.Errorf("std = %v, want ~6.2487", s.StdFitness)
	}
	if math.Abs(s.MeanTicks-64) > 1e-9 {
		t.Errorf("mean ticks = %v, want 64", s.MeanTicks)
	}
	if s.PipeDeaths != 2 || s.GroundDeaths != 1 || s.CeilingDeaths != 1 || s.Capped != 0 {
		t.Errorf("causes = %d/%d/%d/%d", s.PipeDeaths, s.GroundDeaths, s.CeilingDeaths, s.Capped)
	}
	if s.WallTimeMs != 1.5 {
		t.Errorf("wall time = %v, want 1.5", s.WallTimeMs)
	}
}

func TestComputeGenerationStatsSingleMember(t *testing.T) {
	res := game.Result{Members: []game.MemberResult{{ID: 9, Fitness: 4}}}
	s := ComputeGenerationStats(res, 1, 0)
	if s.StdFitness != 0 {
		t.Errorf("std = %v, want 0", s.StdFitness)
	}
	if s.MeanFitness != 4 || s.P50Fitness != 4 {
		t.Errorf("mean %v p50 %v, want 4", s.MeanFitness, s.P50Fitness)
	}
}

func TestComputeGenerationStatsEmpty(t *testing.T) {
	s := ComputeGenerationStats(game.Result{Generation: 2}, 0, 0)
	if s.Members != 0 || s.BestFitness != 0 || s.MeanFitness != 0 {
		t.Errorf("unexpected stats for empty result: %+v", s)
	}
}
