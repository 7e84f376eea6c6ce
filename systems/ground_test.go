package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flappy/components"
)

// TestGroundStaysContiguous verifies the two segments never leave a seam.
func TestGroundStaysContiguous(t *testing.T) {
	tests := []struct {
		name     string
		width    float64
		velocity float64
	}{
		{"default strip", 672, 5},
		{"odd width", 333, 7},
		{"fractional speed", 500, 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := components.NewGround(730, tc.width)
			for i := 0; i < 5000; i++ {
				TickGround(&g, tc.velocity)

				if diff := math.Abs(g.X1 - g.X2); math.Abs(diff-tc.width) > 1e-9 {
					t.Fatalf("tick %d: |x1-x2| = %v, want %v", i, diff, tc.width)
				}
				// The strip must cover the left edge of the screen.
				left := math.Min(g.X1, g.X2)
				if left > 0 || left+2*tc.width < tc.width {
					t.Fatalf("tick %d: segments at %v/%v leave a gap", i, g.X1, g.X2)
				}
			}
		})
	}
}

func TestGroundRecyclesSegment(t *testing.T) {
	g := components.NewGround(730, 100)
	for i := 0; i < 21; i++ {
		TickGround(&g, 5)
	}
	// x1 went to -105 and was moved after x2 (-5)
	if g.X1 != 95 || g.X2 != -5 {
		t.Errorf("x1, x2 = %v, %v, want 95, -5", g.X1, g.X2)
	}
}
