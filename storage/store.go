// Package storage keeps the history of training runs: one row per generation
// and the champion genome of each run.
package storage

import "context"

// GenerationRecord is the persisted summary of one evaluated generation.
type GenerationRecord struct {
	RunID       string
	Generation  int
	BestFitness float64
	MeanFitness float64
	StdDev      float64
	Score       int
	Ticks       int
	Species     int
}

// ChampionRecord is the best genome seen in a run, in goNEAT's plain text encoding.
type ChampionRecord struct {
	RunID      string
	Generation int
	GenomeID   int
	Fitness    float64
	Genome     string
}

// Store persists run history.
type Store interface {
	Init(ctx context.Context) error
	SaveGeneration(ctx context.Context, rec GenerationRecord) error
	Generations(ctx context.Context, runID string) ([]GenerationRecord, error)
	SaveChampion(ctx context.Context, rec ChampionRecord) error
	Champion(ctx context.Context, runID string) (ChampionRecord, bool, error)
}
