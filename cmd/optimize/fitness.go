package main

import (
	"context"
	"log"
	"math"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
)

// FitnessEvaluator scores parameter vectors by flying one bird per seed headless.
type FitnessEvaluator struct {
	params   *ParamVector
	cfg      *config.Config
	atlas    *assets.Atlas
	seeds    []int64
	maxTicks int

	lastScore float64
}

// NewFitnessEvaluator creates an evaluator. maxTicks must be positive so a perfect flyer ends.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, atlas *assets.Atlas, seeds []int64, maxTicks int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		cfg:      cfg,
		atlas:    atlas,
		seeds:    seeds,
		maxTicks: maxTicks,
	}
}

// Evaluate returns the negated mean game fitness across seeds (CMA-ES minimizes).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	ctrl := fe.params.Controller(raw, fe.cfg)
	factory := func(game.Genome) (components.Controller, error) { return ctrl, nil }

	var total float64
	var score int
	for i, seed := range fe.seeds {
		eval := game.NewEvaluator(fe.cfg, fe.atlas, game.Options{
			Factory:  factory,
			Seed:     seed,
			MaxTicks: fe.maxTicks,
		})
		card := &game.ScoreCard{}
		res, err := eval.Evaluate(context.Background(), []game.Genome{{ID: i, Record: card}}, 0)
		if err != nil {
			log.Printf("evaluation failed for seed %d: %v", seed, err)
			return math.Inf(1)
		}
		total += card.Value
		score += res.Score
	}

	n := float64(len(fe.seeds))
	fe.lastScore = float64(score) / n
	return -total / n
}

// LastScore returns the mean pipes passed in the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	return fe.lastScore
}
