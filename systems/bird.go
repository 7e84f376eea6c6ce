package systems

import (
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// Jump arms an upward move from the bird's current height.
func Jump(b *components.Bird, p *config.BirdConfig) {
	b.Vel = p.JumpVelocity
	b.TickCount = 0
	b.Origin = b.Y
}

// TickBird advances the bird by one tick and returns the applied displacement.
// Displacement follows d = v*t + a*t^2 with t counted from the last jump,
// capped at the terminal displacement on the way down.
func TickBird(b *components.Bird, p *config.BirdConfig) float64 {
	b.TickCount++
	t := float64(b.TickCount)

	d := b.Vel*t + p.Gravity*t*t
	if d >= p.TerminalDisplacement {
		d = p.TerminalDisplacement
	}
	if d < 0 {
		d -= p.LiftBoost
	}
	b.Y += d

	// Two regimes: snap nose-up while rising or near the jump origin, otherwise dive stepwise.
	if d < 0 || b.Y < b.Origin+p.TiltMargin {
		if b.Tilt < p.MaxRotation {
			b.Tilt = p.MaxRotation
		}
	} else if b.Tilt > p.MinTilt {
		b.Tilt -= p.RotationVelocity
		if b.Tilt < p.MinTilt {
			b.Tilt = p.MinTilt
		}
	}

	return d
}

// AnimateBird advances the flap cycle by one step and returns the sprite frame.
// Frames run 0,1,2,1 for AnimationTime ticks each, then back to 0.
// A diving bird glides on frame 1 and resumes flapping from the middle of the cycle.
func AnimateBird(b *components.Bird, p *config.BirdConfig) int {
	at := p.AnimationTime
	b.FrameCount++

	switch c := b.FrameCount; {
	case c < at:
		b.Frame = 0
	case c < at*2:
		b.Frame = 1
	case c < at*3:
		b.Frame = 2
	case c < at*4:
		b.Frame = 1
	case c == at*4+1:
		b.Frame = 0
		b.FrameCount = 0
	}

	if b.Tilt <= p.DiveTilt {
		b.Frame = 1
		b.FrameCount = at * 2
	}

	return b.Frame
}
