package systems

import (
	"math/rand"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// NewPipe creates a pipe at x with a freshly drawn gap.
func NewPipe(x float64, rng *rand.Rand, p *config.PipeConfig, spriteHeight float64) components.Pipe {
	pipe := components.Pipe{X: x}
	RandomizeGap(&pipe, rng, p, spriteHeight)
	return pipe
}

// RandomizeGap draws the gap top uniformly from [MinHeight, MaxHeight) and
// derives the draw positions of both halves. spriteHeight is the height of the
// top pipe sprite, which hangs down to the gap.
func RandomizeGap(pipe *components.Pipe, rng *rand.Rand, p *config.PipeConfig, spriteHeight float64) {
	pipe.Height = float64(p.MinHeight + rng.Intn(p.MaxHeight-p.MinHeight))
	pipe.Top = pipe.Height - spriteHeight
	pipe.Bottom = pipe.Height + p.Gap
}

// TickPipe scrolls a pipe left by velocity.
func TickPipe(pipe *components.Pipe, velocity float64) {
	pipe.X -= velocity
}

// PipeOffscreen reports whether a pipe of the given width has fully left the screen.
func PipeOffscreen(pipe *components.Pipe, width float64) bool {
	return pipe.X+width < 0
}
