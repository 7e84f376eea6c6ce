package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

func TestRandomizeGapRange(t *testing.T) {
	p := &config.Default().Pipe
	rng := rand.New(rand.NewSource(7))
	const spriteHeight = 640

	for i := 0; i < 2000; i++ {
		pipe := NewPipe(600, rng, p, spriteHeight)
		if pipe.Height < float64(p.MinHeight) || pipe.Height >= float64(p.MaxHeight) {
			t.Fatalf("height %v outside [%d, %d)", pipe.Height, p.MinHeight, p.MaxHeight)
		}
		if pipe.Bottom != pipe.Height+200 {
			t.Fatalf("bottom = %v, want height+200 = %v", pipe.Bottom, pipe.Height+200)
		}
		if pipe.Top != pipe.Height-spriteHeight {
			t.Fatalf("top = %v, want %v", pipe.Top, pipe.Height-spriteHeight)
		}
	}
}

func TestRandomizeGapDeterministic(t *testing.T) {
	p := &config.Default().Pipe
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))

	for i := 0; i < 50; i++ {
		pa := NewPipe(600, a, p, 640)
		pb := NewPipe(600, b, p, 640)
		if pa != pb {
			t.Fatalf("pipe %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}

func TestTickPipeAndOffscreen(t *testing.T) {
	pipe := components.Pipe{X: 10}
	TickPipe(&pipe, 5)
	if pipe.X != 5 {
		t.Errorf("x = %v, want 5", pipe.X)
	}
	if pipe.Passed || pipe.Height != 0 {
		t.Error("TickPipe changed more than x")
	}

	tests := []struct {
		x    float64
		want bool
	}{
		{0, false},
		{-103, false},
		{-104, false},
		{-105, true},
	}
	for _, tc := range tests {
		p := components.Pipe{X: tc.x}
		if got := PipeOffscreen(&p, 104); got != tc.want {
			t.Errorf("PipeOffscreen(x=%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}
