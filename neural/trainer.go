package neural

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/storage"
	"github.com/pthm-cable/flappy/telemetry"
)

// minFitness is the floor applied before reproduction; goNEAT's fitness
// sharing expects positive values while collisions can push a genome below zero.
const minFitness = 1e-3

// TrainerOptions configures a training run.
type TrainerOptions struct {
	RunID          string
	Generations    int
	TargetScore    int // stop once a generation passes this many pipes (0 = never)
	ConnectionProb float64
	Seed           int64
	LogEvery       int

	HallSize int // generation bests kept in the hall of fame

	Store  storage.Store             // optional, must be initialized
	Output *telemetry.OutputManager // optional
}

// Summary describes a finished run.
type Summary struct {
	Generations int
	BestScore   int
	Stopped     bool

	ChampionID         int
	ChampionGeneration int
	ChampionFitness    float64
	Champion           string // plain goNEAT encoding

	HallOfFame *telemetry.HallOfFame // best genome of each generation, fittest first
}

// Trainer drives a goNEAT population through the evaluator, one generation at a time.
type Trainer struct {
	neat *neat.Options
	eval *game.Evaluator
	opts TrainerOptions
	perf *telemetry.PerfCollector
}

// NewTrainer creates a trainer. The evaluator must use NewControllerFactory.
func NewTrainer(neatOpts *neat.Options, eval *game.Evaluator, opts TrainerOptions) *Trainer {
	if opts.LogEvery < 1 {
		opts.LogEvery = 1
	}
	if opts.HallSize < 1 {
		opts.HallSize = 10
	}
	return &Trainer{
		neat: neatOpts,
		eval: eval,
		opts: opts,
		perf: telemetry.NewPerfCollector(10),
	}
}

// Run evolves the population for the configured number of generations.
// A renderer stop ends the run early without an error.
func (t *Trainer) Run(ctx context.Context) (Summary, error) {
	sum := Summary{HallOfFame: telemetry.NewHallOfFame(t.opts.HallSize)}

	rng := rand.New(rand.NewSource(t.opts.Seed))
	start := CreateStartGenome(1, t.opts.ConnectionProb, rng)
	pop, err := genetics.NewPopulation(start, t.neat)
	if err != nil {
		return sum, fmt.Errorf("creating population: %w", err)
	}

	neatCtx := neat.NewContext(ctx, t.neat)
	executor := &genetics.SequentialPopulationEpochExecutor{}

	for gen := 0; gen < t.opts.Generations; gen++ {
		t.perf.StartGeneration()
		t.perf.StartPhase(telemetry.PhaseEvaluate)

		genomes := make([]game.Genome, len(pop.Organisms))
		for i, org := range pop.Organisms {
			genomes[i] = game.Genome{ID: org.Genotype.Id, Record: &OrganismRecord{Organism: org}}
		}

		began := time.Now()
		res, err := t.eval.Evaluate(ctx, genomes, gen)
		if err != nil {
			if errors.Is(err, game.ErrStopped) {
				sum.Stopped = true
				return sum, t.finish(sum)
			}
			return sum, fmt.Errorf("evaluating generation %d: %w", gen, err)
		}
		elapsed := time.Since(began)

		t.perf.StartPhase(telemetry.PhaseTelemetry)
		sum.Generations = gen + 1
		sum.BestScore = max(sum.BestScore, res.Score)
		if err := t.record(ctx, res, len(pop.Species), elapsed); err != nil {
			return sum, err
		}
		if err := t.considerChampion(ctx, res, pop.Organisms, &sum); err != nil {
			return sum, err
		}

		last := gen == t.opts.Generations-1
		if t.opts.TargetScore > 0 && res.Score >= t.opts.TargetScore {
			slog.Info("target score reached", "generation", gen, "score", res.Score)
			last = true
		}

		if !last {
			t.perf.StartPhase(telemetry.PhaseEpoch)
			for _, org := range pop.Organisms {
				if org.Fitness < minFitness {
					org.Fitness = minFitness
				}
			}
			if err := executor.NextEpoch(neatCtx, gen+1, pop); err != nil {
				return sum, fmt.Errorf("epoch %d: %w", gen, err)
			}
		}

		t.perf.EndGeneration(res.Ticks)
		perf := t.perf.Stats()
		if err := t.opts.Output.WritePerf(perf, gen); err != nil {
			return sum, err
		}
		if gen%t.opts.LogEvery == 0 {
			perf.LogStats()
		}

		if last {
			break
		}
	}

	return sum, t.finish(sum)
}

func (t *Trainer) record(ctx context.Context, res game.Result, species int, elapsed time.Duration) error {
	stats := telemetry.ComputeGenerationStats(res, species, elapsed)
	if res.Generation%t.opts.LogEvery == 0 {
		stats.LogStats()
	}
	if err := t.opts.Output.WriteGeneration(stats); err != nil {
		return err
	}
	if t.opts.Store == nil {
		return nil
	}
	err := t.opts.Store.SaveGeneration(ctx, storage.GenerationRecord{
		RunID:       t.opts.RunID,
		Generation:  res.Generation,
		BestFitness: stats.BestFitness,
		MeanFitness: stats.MeanFitness,
		StdDev:      stats.StdFitness,
		Score:       res.Score,
		Ticks:       res.Ticks,
		Species:     species,
	})
	if err != nil {
		return fmt.Errorf("saving generation %d: %w", res.Generation, err)
	}
	return nil
}

// considerChampion offers the generation's best genome to the hall of fame and keeps
// the best genome seen so far. Members align with orgs by index.
func (t *Trainer) considerChampion(ctx context.Context, res game.Result, orgs []*genetics.Organism, sum *Summary) error {
	bestIdx := -1
	for i, m := range res.Members {
		if bestIdx < 0 || m.Fitness > res.Members[bestIdx].Fitness {
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestIdx >= len(orgs) {
		return nil
	}
	best := res.Members[bestIdx]
	improved := sum.Champion == "" || best.Fitness > sum.ChampionFitness
	if !improved && !sum.HallOfFame.Qualifies(best.Fitness) {
		return nil
	}

	// Encode now: the organism is replaced by the next epoch.
	encoded, err := EncodeGenome(orgs[bestIdx].Genotype)
	if err != nil {
		return err
	}
	sum.HallOfFame.Consider(telemetry.HallEntry{
		GenomeID:   best.ID,
		Generation: res.Generation,
		Fitness:    best.Fitness,
		Score:      res.Score,
		Ticks:      best.Ticks,
		Cause:      best.Cause.String(),
		Genome:     encoded,
	})
	if !improved {
		return nil
	}
	sum.Champion = encoded
	sum.ChampionID = best.ID
	sum.ChampionFitness = best.Fitness
	sum.ChampionGeneration = res.Generation

	if t.opts.Store == nil {
		return nil
	}
	err = t.opts.Store.SaveChampion(ctx, storage.ChampionRecord{
		RunID:      t.opts.RunID,
		Generation: res.Generation,
		GenomeID:   best.ID,
		Fitness:    best.Fitness,
		Genome:     encoded,
	})
	if err != nil {
		return fmt.Errorf("saving champion: %w", err)
	}
	return nil
}

func (t *Trainer) finish(sum Summary) error {
	slog.Info("training finished",
		"generations", sum.Generations,
		"best_score", sum.BestScore,
		"champion", sum.ChampionID,
		"champion_fitness", sum.ChampionFitness,
		"stopped", sum.Stopped,
	)
	if sum.Champion == "" {
		return nil
	}
	if err := t.opts.Output.WriteHallOfFame(sum.HallOfFame); err != nil {
		return err
	}
	return t.opts.Output.WriteChampion(sum.Champion)
}
