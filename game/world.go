package game

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/systems"
)

// Cause records why a bird left the world.
type Cause uint8

const (
	CauseNone    Cause = iota
	CausePipe          // hit a pipe, penalized
	CauseGround        // fell onto the ground
	CauseCeiling       // flew off the top
	CauseCapped        // still alive when the tick cap ended the run
)

func (c Cause) String() string {
	switch c {
	case CausePipe:
		return "pipe"
	case CauseGround:
		return "ground"
	case CauseCeiling:
		return "ceiling"
	case CauseCapped:
		return "capped"
	default:
		return "none"
	}
}

// Removal is one bird leaving the world during a tick.
type Removal struct {
	Handle int
	Cause  Cause
}

// StepEvents summarizes what happened during one tick.
type StepEvents struct {
	Jumps   int
	Passed  bool
	Removed []Removal
}

// Crashes returns the number of pipe collisions in the tick.
func (e StepEvents) Crashes() int {
	n := 0
	for _, r := range e.Removed {
		if r.Cause == CausePipe {
			n++
		}
	}
	return n
}

// FitnessSink receives fitness deltas for genome handles.
type FitnessSink interface {
	AddFitness(handle int, delta float64)
}

// World holds the state of one generation: birds in an ECS world, an ordered
// pipe list and the ground strip.
type World struct {
	cfg   *config.Config
	atlas *assets.Atlas
	rng   *rand.Rand
	sink  FitnessSink

	world      *ecs.World
	birdMapper *ecs.Map2[components.Bird, components.Pilot]
	birdFilter *ecs.Filter2[components.Bird, components.Pilot]

	pipes  []components.Pipe
	ground components.Ground

	generation int
	tick       int
	score      int
	alive      int
	target     int // active pipe index from the last tick

	// Scratch buffers reused across ticks
	live []ecs.Entity
	dead []bool
}

// NewWorld creates an empty world with the ground and the first pipe in place.
func NewWorld(cfg *config.Config, atlas *assets.Atlas, rng *rand.Rand, sink FitnessSink, generation int) *World {
	world := ecs.NewWorld()

	w := &World{
		cfg:        cfg,
		atlas:      atlas,
		rng:        rng,
		sink:       sink,
		world:      world,
		birdMapper: ecs.NewMap2[components.Bird, components.Pilot](world),
		birdFilter: ecs.NewFilter2[components.Bird, components.Pilot](world),
		ground:     components.NewGround(cfg.Ground.Y, atlas.BaseWidth()),
		generation: generation,
	}
	w.pipes = append(w.pipes, w.newPipe())
	return w
}

func (w *World) newPipe() components.Pipe {
	return systems.NewPipe(w.cfg.Pipe.SpawnX, w.rng, &w.cfg.Pipe, w.atlas.PipeHeight())
}

// AddBird spawns a bird at the configured start position flown by ctrl.
// handle identifies the bird's genome in fitness updates.
func (w *World) AddBird(handle int, ctrl components.Controller) ecs.Entity {
	bird := components.NewBird(w.cfg.Bird.StartX, w.cfg.Bird.StartY)
	pilot := components.Pilot{Handle: handle, Controller: ctrl}
	w.alive++
	return w.birdMapper.NewEntity(&bird, &pilot)
}

// Alive returns the number of live birds.
func (w *World) Alive() int { return w.alive }

// Done reports whether every bird has been removed.
func (w *World) Done() bool { return w.alive == 0 }

// Tick returns the number of completed ticks.
func (w *World) Tick() int { return w.tick }

// Score returns the number of pipes passed.
func (w *World) Score() int { return w.score }

// Pipes returns the current pipe list. Callers must not modify it.
func (w *World) Pipes() []components.Pipe { return w.pipes }

// Step advances the world by one tick.
func (w *World) Step() StepEvents {
	var ev StepEvents
	if w.alive == 0 {
		return ev
	}
	fit := &w.cfg.Fitness
	birdH := float64(w.atlas.Bird[0].Height())
	pipeW := w.atlas.PipeWidth()

	// Observe the next pipe once the lead bird has cleared the first one.
	w.target = 0
	if len(w.pipes) > 1 && w.leadX() > w.pipes[0].X+pipeW {
		w.target = 1
	}
	target := &w.pipes[w.target]

	// Move, reward survival, then ask each pilot whether to flap.
	query := w.birdFilter.Query()
	for query.Next() {
		bird, pilot := query.Get()

		systems.TickBird(bird, &w.cfg.Bird)
		systems.AnimateBird(bird, &w.cfg.Bird)
		w.sink.AddFitness(pilot.Handle, fit.SurvivalBonus)

		obs := components.Observation{
			bird.Y,
			math.Abs(bird.Y - target.Height),
			math.Abs(bird.Y - target.Bottom),
		}
		if wantsJump(pilot.Controller.Decide(obs), fit.JumpThreshold) {
			systems.Jump(bird, &w.cfg.Bird)
			ev.Jumps++
		}
	}

	// Pipe tests run over a snapshot of live birds. Crashed birds are only
	// marked here and removed once every pipe has been checked.
	w.snapshotLive()
	top, bottom := w.atlas.PipeTop.Mask, w.atlas.PipeBottom.Mask
	passed := false
	offscreen := 0
	for i := range w.pipes {
		pipe := &w.pipes[i]
		for j, e := range w.live {
			if w.dead[j] {
				continue
			}
			bird, pilot := w.birdMapper.Get(e)

			mask := w.atlas.BirdFrame(bird.Frame).Mask
			if systems.Collide(bird, mask, pipe, top, bottom) {
				w.sink.AddFitness(pilot.Handle, -fit.CollisionPenalty)
				w.dead[j] = true
				ev.Removed = append(ev.Removed, Removal{Handle: pilot.Handle, Cause: CausePipe})
			}
			// A crashing bird still counts for passing; removal keeps it out of the bonus.
			if !pipe.Passed && pipe.X < bird.X {
				pipe.Passed = true
				passed = true
			}
		}
		if systems.PipeOffscreen(pipe, pipeW) {
			offscreen++
		}
		systems.TickPipe(pipe, w.cfg.Pipe.Velocity)
	}
	w.removeMarked()

	// Off-screen pipes are always a prefix of the list.
	if offscreen > 0 {
		w.pipes = append(w.pipes[:0], w.pipes[offscreen:]...)
		w.target = max(w.target-offscreen, 0)
	}

	if passed {
		w.score++
		w.rewardSurvivors(fit.PassBonus)
		w.pipes = append(w.pipes, w.newPipe())
		ev.Passed = true
	}

	// Leaving the screen is not penalized.
	w.snapshotLive()
	for j, e := range w.live {
		bird, pilot := w.birdMapper.Get(e)
		cause := CauseNone
		switch {
		case bird.Y+birdH >= w.cfg.Ground.Y:
			cause = CauseGround
		case bird.Y < 0:
			cause = CauseCeiling
		}
		if cause != CauseNone {
			w.dead[j] = true
			ev.Removed = append(ev.Removed, Removal{Handle: pilot.Handle, Cause: cause})
		}
	}
	w.removeMarked()

	systems.TickGround(&w.ground, w.cfg.Ground.Velocity)
	w.tick++
	return ev
}

// wantsJump applies the decision threshold. Missing or non-finite output never jumps.
func wantsJump(out []float64, threshold float64) bool {
	if len(out) == 0 {
		return false
	}
	v := out[0]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > threshold
}

// leadX returns the x of the first bird in iteration order.
func (w *World) leadX() float64 {
	query := w.birdFilter.Query()
	if !query.Next() {
		return 0
	}
	bird, _ := query.Get()
	x := bird.X
	query.Close()
	return x
}

func (w *World) snapshotLive() {
	w.live = w.live[:0]
	query := w.birdFilter.Query()
	for query.Next() {
		w.live = append(w.live, query.Entity())
	}
	w.dead = w.dead[:0]
	for range w.live {
		w.dead = append(w.dead, false)
	}
}

// removeMarked removes birds marked dead in the last snapshot. The world must not be iterated.
func (w *World) removeMarked() {
	for j, e := range w.live {
		if w.dead[j] {
			w.world.RemoveEntity(e)
			w.alive--
		}
	}
	w.live = w.live[:0]
	w.dead = w.dead[:0]
}

func (w *World) rewardSurvivors(delta float64) {
	query := w.birdFilter.Query()
	for query.Next() {
		_, pilot := query.Get()
		w.sink.AddFitness(pilot.Handle, delta)
	}
}

// Finish removes all remaining birds, reporting them as capped.
func (w *World) Finish() []Removal {
	w.snapshotLive()
	var out []Removal
	for j, e := range w.live {
		_, pilot := w.birdMapper.Get(e)
		out = append(out, Removal{Handle: pilot.Handle, Cause: CauseCapped})
		w.dead[j] = true
	}
	w.removeMarked()
	return out
}
