package neural

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/game"
)

// OrganismRecord exposes a goNEAT organism's fitness to the evaluator.
type OrganismRecord struct {
	Organism *genetics.Organism
}

// Fitness implements game.GenomeRecord.
func (r *OrganismRecord) Fitness() float64 { return r.Organism.Fitness }

// SetFitness implements game.GenomeRecord.
func (r *OrganismRecord) SetFitness(f float64) { r.Organism.Fitness = f }

// NewControllerFactory builds BrainControllers for genomes backed by OrganismRecords.
func NewControllerFactory() game.ControllerFactory {
	return func(g game.Genome) (components.Controller, error) {
		rec, ok := g.Record.(*OrganismRecord)
		if !ok || rec.Organism == nil || rec.Organism.Genotype == nil {
			return nil, fmt.Errorf("record %T carries no genome", g.Record)
		}
		ctrl, err := NewBrainController(rec.Organism.Genotype)
		if err != nil {
			return nil, err
		}
		return ctrl, nil
	}
}

// EncodeGenome renders a genome in goNEAT's plain text format.
func EncodeGenome(g *genetics.Genome) (string, error) {
	var buf bytes.Buffer
	w, err := genetics.NewGenomeWriter(&buf, genetics.PlainGenomeEncoding)
	if err != nil {
		return "", err
	}
	if err := w.WriteGenome(g); err != nil {
		return "", fmt.Errorf("encoding genome %d: %w", g.Id, err)
	}
	return buf.String(), nil
}

// DecodeGenome parses a genome written by EncodeGenome.
func DecodeGenome(text string) (*genetics.Genome, error) {
	r, err := genetics.NewGenomeReader(strings.NewReader(text), genetics.PlainGenomeEncoding)
	if err != nil {
		return nil, err
	}
	g, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("decoding genome: %w", err)
	}
	if g == nil || len(g.Nodes) == 0 || len(g.Genes) == 0 {
		return nil, errors.New("decoding genome: no nodes or genes")
	}
	return g, nil
}
