package neural

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"github.com/yaricom/goNEAT/v4/neat/network"

	"github.com/pthm-cable/flappy/components"
)

// Network shape: three observations plus a bias sensor, one flap output.
const (
	ObservationInputs = len(components.Observation{})
	BrainInputs       = ObservationInputs + 1
	BrainOutputs      = 1
)

// BrainController wraps a goNEAT network for runtime evaluation.
type BrainController struct {
	Genome  *genetics.Genome
	network *network.Network
	sensors []float64
}

// NewBrainController creates a controller from a genome.
func NewBrainController(genome *genetics.Genome) (*BrainController, error) {
	phenotype, err := genome.Genesis(genome.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to build network from genome: %w", err)
	}

	return &BrainController{
		Genome:  genome,
		network: phenotype,
		sensors: make([]float64, BrainInputs),
	}, nil
}

// Think loads inputs, propagates them to the outputs and resets the network.
// Inputs must hold BrainInputs values with the bias last.
func (b *BrainController) Think(inputs []float64) ([]float64, error) {
	if len(inputs) != BrainInputs {
		return nil, fmt.Errorf("expected %d inputs, got %d", BrainInputs, len(inputs))
	}

	if err := b.network.LoadSensors(inputs); err != nil {
		return nil, fmt.Errorf("failed to load sensors: %w", err)
	}

	// Activate with depth-based steps for proper signal propagation
	depth, err := b.network.MaxActivationDepth()
	if err != nil || depth < 1 {
		depth = 5 // Fallback for simple networks
	}

	for i := 0; i < depth; i++ {
		if _, err := b.network.Activate(); err != nil {
			return nil, fmt.Errorf("activation failed: %w", err)
		}
	}

	outputs := b.network.ReadOutputs()

	// Each decision is made from the current observation only
	if _, err := b.network.Flush(); err != nil {
		return nil, fmt.Errorf("flush failed: %w", err)
	}

	return outputs, nil
}

// Decide implements components.Controller. A network that fails to activate
// returns no output, which never jumps.
func (b *BrainController) Decide(obs components.Observation) []float64 {
	copy(b.sensors, obs[:])
	b.sensors[ObservationInputs] = 1.0 // bias

	out, err := b.Think(b.sensors)
	if err != nil {
		slog.Debug("brain activation failed", "genome", b.Genome.Id, "error", err)
		return nil
	}
	return out
}

// NodeCount returns the number of nodes in the network.
func (b *BrainController) NodeCount() int {
	return b.network.NodeCount()
}

// LinkCount returns the number of links (connections) in the network.
func (b *BrainController) LinkCount() int {
	return b.network.LinkCount()
}

// CreateStartGenome creates the genome every population starts from: the
// observation sensors and a bias wired straight to the output. Each link is
// present with probability connectionProb; at least one always is.
func CreateStartGenome(id int, connectionProb float64, rng *rand.Rand) *genetics.Genome {
	// Mutation operators pick traits at random, so the genome needs one.
	trait := neat.NewTrait()
	trait.Id = 1
	for i := range trait.Params {
		trait.Params[i] = rng.Float64() * 0.1
	}

	nodes := make([]*network.NNode, 0, BrainInputs+BrainOutputs)

	// Sensors (IDs 1 to ObservationInputs), then the bias
	for i := 1; i <= ObservationInputs; i++ {
		node := network.NewNNode(i, network.InputNeuron)
		node.ActivationType = neatmath.LinearActivation
		node.Trait = trait
		nodes = append(nodes, node)
	}
	bias := network.NewNNode(BrainInputs, network.BiasNeuron)
	bias.ActivationType = neatmath.LinearActivation
	bias.Trait = trait
	nodes = append(nodes, bias)

	// Output nodes (IDs BrainInputs+1 onwards)
	for i := 1; i <= BrainOutputs; i++ {
		node := network.NewNNode(BrainInputs+i, network.OutputNeuron)
		node.ActivationType = neatmath.SigmoidSteepenedActivation
		node.Trait = trait
		nodes = append(nodes, node)
	}

	genes := make([]*genetics.Gene, 0, BrainInputs*BrainOutputs)
	innovNum := int64(1)

	for i := 0; i < BrainInputs; i++ {
		for j := 0; j < BrainOutputs; j++ {
			// Always increment innovation for consistent tracking
			currentInnov := innovNum
			innovNum++

			if rng.Float64() < connectionProb {
				weight := rng.Float64()*4 - 2 // [-2, 2]
				gene := genetics.NewGeneWithTrait(
					trait,
					weight,
					nodes[i],
					nodes[BrainInputs+j],
					false,
					currentInnov,
					0,
				)
				genes = append(genes, gene)
			}
		}
	}

	if len(genes) == 0 {
		// Connect the first sensor to the first output as minimum
		gene := genetics.NewGeneWithTrait(
			trait,
			rng.Float64()*2-1,
			nodes[0],
			nodes[BrainInputs],
			false,
			1,
			0,
		)
		genes = append(genes, gene)
	}

	return genetics.NewGenome(id, []*neat.Trait{trait}, nodes, genes)
}
