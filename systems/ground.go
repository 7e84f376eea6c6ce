package systems

import "github.com/pthm-cable/flappy/components"

// TickGround scrolls both ground segments. A segment that has fully left the
// screen is moved to the right end of the other, like a conveyor belt.
func TickGround(g *components.Ground, velocity float64) {
	g.X1 -= velocity
	g.X2 -= velocity

	if g.X1+g.Width < 0 {
		g.X1 = g.X2 + g.Width
	}
	if g.X2+g.Width < 0 {
		g.X2 = g.X1 + g.Width
	}
}
