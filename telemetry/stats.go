package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flappy/game"
)

// GenerationStats holds aggregated statistics for one evaluated generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Members    int `csv:"members"`
	Species    int `csv:"species"`

	// Fitness distribution
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P10Fitness  float64 `csv:"p10_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
	P90Fitness  float64 `csv:"p90_fitness"`
	BestGenome  int     `csv:"best_genome"`

	// Run outcome
	Score     int     `csv:"score"`
	Ticks     int     `csv:"ticks"`
	MeanTicks float64 `csv:"mean_ticks"`

	// Removal causes
	PipeDeaths    int `csv:"pipe_deaths"`
	GroundDeaths  int `csv:"ground_deaths"`
	CeilingDeaths int `csv:"ceiling_deaths"`
	Capped        int `csv:"capped"`

	WallTimeMs float64 `csv:"wall_time_ms"`
}

// ComputeGenerationStats summarizes an evaluation result.
func ComputeGenerationStats(res game.Result, species int, elapsed time.Duration) GenerationStats {
	s := GenerationStats{
		Generation: res.Generation,
		Members:    len(res.Members),
		Species:    species,
		Score:      res.Score,
		Ticks:      res.Ticks,
		WallTimeMs: float64(elapsed.Microseconds()) / 1000,
	}
	if len(res.Members) == 0 {
		return s
	}

	fitness := make([]float64, len(res.Members))
	ticks := make([]float64, len(res.Members))
	for i, m := range res.Members {
		fitness[i] = m.Fitness
		ticks[i] = float64(m.Ticks)
		switch m.Cause {
		case game.CausePipe:
			s.PipeDeaths++
		case game.CauseGround:
			s.GroundDeaths++
		case game.CauseCeiling:
			s.CeilingDeaths++
		case game.CauseCapped:
			s.Capped++
		}
	}

	best, _ := res.Best()
	s.BestFitness = best.Fitness
	s.BestGenome = best.ID
	s.MeanFitness = stat.Mean(fitness, nil)
	s.MeanTicks = stat.Mean(ticks, nil)
	// Sample std dev is undefined for a single member.
	if len(fitness) > 1 {
		s.StdFitness = stat.StdDev(fitness, nil)
	}
	s.P10Fitness, s.P50Fitness, s.P90Fitness = Quantiles(fitness)
	return s
}

// Quantiles returns the 10th, 50th and 90th percentiles of values.
// values is not modified. Returns zeros for an empty slice.
func Quantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("members", s.Members),
		slog.Int("species", s.Species),
		slog.Float64("best", s.BestFitness),
		slog.Float64("mean", s.MeanFitness),
		slog.Float64("std", s.StdFitness),
		slog.Float64("p50", s.P50Fitness),
		slog.Int("best_genome", s.BestGenome),
		slog.Int("score", s.Score),
		slog.Int("ticks", s.Ticks),
		slog.Int("pipe_deaths", s.PipeDeaths),
		slog.Int("ground_deaths", s.GroundDeaths),
		slog.Int("ceiling_deaths", s.CeilingDeaths),
		slog.Int("capped", s.Capped),
		slog.Float64("wall_ms", s.WallTimeMs),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
