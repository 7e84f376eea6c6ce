package neural

import (
	"fmt"

	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
)

// DefaultNEATOptions returns NEAT options tuned for flappy runs of popSize genomes.
func DefaultNEATOptions(popSize, generations int) *neat.Options {
	return &neat.Options{
		// Trait mutation
		TraitParamMutProb:  0.5,
		TraitMutationPower: 1.0,

		// Weight mutation
		WeightMutPower: 2.5,

		// Structural mutation rates
		MutateAddNodeProb:      0.03,
		MutateAddLinkProb:      0.05,
		MutateToggleEnableProb: 0.01,
		NewLinkTries:           20,

		// Weight mutation probability
		MutateLinkWeightsProb: 0.8,
		MutateOnlyProb:        0.25,
		MutateRandomTraitProb: 0.1,

		// Mating probabilities
		MateMultipointProb:    0.6,
		MateMultipointAvgProb: 0.4,
		MateSinglepointProb:   0.0,
		MateOnlyProb:          0.2,
		RecurOnlyProb:         0.0,
		InterspeciesMateRate:  0.001,

		// Speciation
		CompatThreshold: 3.0,
		DisjointCoeff:   1.0,
		ExcessCoeff:     1.0,
		MutdiffCoeff:    0.4,
		GenCompatMethod: neat.GenomeCompatibilityMethodFast,

		// Species management
		DropOffAge:      15,
		SurvivalThresh:  0.2,
		AgeSignificance: 1.0,

		// Hidden nodes added by mutation
		NodeActivators:     []neatmath.NodeActivationType{neatmath.SigmoidSteepenedActivation},
		NodeActivatorsProb: []float64{1.0},

		EpochExecutorType: neat.EpochExecutorTypeSequential,
		PopSize:           popSize,
		NumGenerations:    generations,
	}
}

// LoadNEATOptions reads goNEAT options from a file (plain .neat or YAML).
// Population size and generation count still come from the game config.
func LoadNEATOptions(path string, popSize, generations int) (*neat.Options, error) {
	opts, err := neat.ReadNeatOptionsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading NEAT options: %w", err)
	}
	opts.PopSize = popSize
	opts.NumGenerations = generations
	return opts, nil
}
