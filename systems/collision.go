package systems

import (
	"math"

	"github.com/pthm-cable/flappy/components"
)

// Collide reports whether the bird's current sprite touches either half of the pipe.
// Offsets are measured from the bird's top-left corner, with the bird's y rounded
// half-to-even before the subtraction.
func Collide(bird *components.Bird, birdMask *Mask, pipe *components.Pipe, top, bottom *Mask) bool {
	by := math.RoundToEven(bird.Y)
	dx := int(math.Round(pipe.X - bird.X))

	topDY := int(math.Round(pipe.Top - by))
	if birdMask.Overlap(top, dx, topDY) {
		return true
	}

	bottomDY := int(math.Round(pipe.Bottom - by))
	return birdMask.Overlap(bottom, dx, bottomDY)
}
