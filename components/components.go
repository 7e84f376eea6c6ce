// Package components defines the ECS components and plain state records for the game.
package components

// Bird is the per-member motion and animation state.
// Positions are in screen pixels with y growing downward.
type Bird struct {
	X, Y       float64
	Vel        float64 // velocity armed by the last jump
	Tilt       float64 // degrees, positive = nose up
	TickCount  int     // ticks since the last jump
	Origin     float64 // y at the last jump
	FrameCount int     // flap animation counter
	Frame      int     // sprite frame index (0..2)
}

// NewBird returns a level bird at rest.
func NewBird(x, y float64) Bird {
	return Bird{X: x, Y: y, Origin: y}
}

// Pipe is one top/bottom pipe pair.
type Pipe struct {
	X      float64
	Height float64 // gap top
	Top    float64 // draw y of the flipped top sprite
	Bottom float64 // draw y of the bottom sprite, Height + gap
	Passed bool
}

// Ground is the scrolling base: two copies of one strip laid end to end.
type Ground struct {
	Y      float64
	X1, X2 float64
	Width  float64
}

// NewGround returns a ground with both segments tiled from x=0.
func NewGround(y, width float64) Ground {
	return Ground{Y: y, X1: 0, X2: width, Width: width}
}
