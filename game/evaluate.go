package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// ErrStopped is returned when a renderer asks the evaluation to stop.
var ErrStopped = errors.New("game: stopped by renderer")

// GenomeRecord is the fitness slot of one population member.
type GenomeRecord interface {
	Fitness() float64
	SetFitness(f float64)
}

// Genome is one population member handed to Evaluate.
type Genome struct {
	ID     int
	Record GenomeRecord
}

// ControllerFactory builds the controller that flies a genome's bird.
type ControllerFactory func(g Genome) (components.Controller, error)

// Options configures an Evaluator.
type Options struct {
	Factory   ControllerFactory
	Seed      int64         // pipe gaps use Seed + generation
	TickRate  time.Duration // 0 = unpaced
	MaxTicks  int           // 0 = run until every bird is gone
	Renderers []Renderer
}

// MemberResult is the outcome of one genome in a generation.
type MemberResult struct {
	ID      int
	Ticks   int // ticks survived
	Cause   Cause
	Fitness float64
}

// Result summarizes one evaluated generation.
type Result struct {
	Generation int
	Ticks      int
	Score      int
	Stopped    bool
	Members    []MemberResult
}

// Best returns the member with the highest fitness.
func (r Result) Best() (MemberResult, bool) {
	if len(r.Members) == 0 {
		return MemberResult{}, false
	}
	best := r.Members[0]
	for _, m := range r.Members[1:] {
		if m.Fitness > best.Fitness {
			best = m
		}
	}
	return best, true
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	causes := make(map[Cause]int)
	for _, m := range r.Members {
		causes[m.Cause]++
	}
	best, _ := r.Best()
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Int("ticks", r.Ticks),
		slog.Int("score", r.Score),
		slog.Int("members", len(r.Members)),
		slog.Float64("best_fitness", best.Fitness),
		slog.Int("pipe", causes[CausePipe]),
		slog.Int("ground", causes[CauseGround]),
		slog.Int("ceiling", causes[CauseCeiling]),
		slog.Int("capped", causes[CauseCapped]),
	)
}

// recordSink routes fitness deltas to genome records by handle.
type recordSink []GenomeRecord

func (s recordSink) AddFitness(handle int, delta float64) {
	r := s[handle]
	r.SetFitness(r.Fitness() + delta)
}

// Evaluator runs generations through the simulation.
type Evaluator struct {
	cfg   *config.Config
	atlas *assets.Atlas
	opts  Options
}

// NewEvaluator creates an evaluator. opts.Factory is required.
func NewEvaluator(cfg *config.Config, atlas *assets.Atlas, opts Options) *Evaluator {
	return &Evaluator{cfg: cfg, atlas: atlas, opts: opts}
}

// Evaluate flies one bird per genome until none remain and leaves the score in
// each genome's record. Fitness starts at zero. The partial result is returned
// together with ctx.Err() or ErrStopped when the run ends early.
func (e *Evaluator) Evaluate(ctx context.Context, genomes []Genome, generation int) (Result, error) {
	res := Result{Generation: generation}
	if len(genomes) == 0 {
		return res, nil
	}
	if e.opts.Factory == nil {
		return res, errors.New("game: evaluator has no controller factory")
	}

	records := make(recordSink, len(genomes))
	res.Members = make([]MemberResult, len(genomes))
	for i, g := range genomes {
		g.Record.SetFitness(0)
		records[i] = g.Record
		res.Members[i].ID = g.ID
	}

	rng := rand.New(rand.NewSource(e.opts.Seed + int64(generation)))
	w := NewWorld(e.cfg, e.atlas, rng, records, generation)
	for i, g := range genomes {
		ctrl, err := e.opts.Factory(g)
		if err != nil {
			return res, fmt.Errorf("building controller for genome %d: %w", g.ID, err)
		}
		w.AddBird(i, ctrl)
	}

	var tick <-chan time.Time
	if e.opts.TickRate > 0 {
		ticker := time.NewTicker(e.opts.TickRate)
		defer ticker.Stop()
		tick = ticker.C
	}
	render := MultiRenderer(e.opts.Renderers)

	err := e.run(ctx, w, tick, render, &res)

	res.Ticks = w.Tick()
	res.Score = w.Score()
	for i := range res.Members {
		res.Members[i].Fitness = records[i].Fitness()
	}
	return res, err
}

func (e *Evaluator) run(ctx context.Context, w *World, tick <-chan time.Time, render MultiRenderer, res *Result) error {
	record := func(removed []Removal) {
		for _, r := range removed {
			res.Members[r.Handle].Ticks = w.Tick()
			res.Members[r.Handle].Cause = r.Cause
		}
	}

	for !w.Done() {
		if e.opts.MaxTicks > 0 && w.Tick() >= e.opts.MaxTicks {
			record(w.Finish())
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		ev := w.Step()
		record(ev.Removed)

		if len(render) > 0 {
			snap := w.Snapshot()
			snap.Events = ev
			if !render.Render(&snap) {
				res.Stopped = true
				return ErrStopped
			}
		}
	}
	return nil
}
