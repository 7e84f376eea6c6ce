package game

// BirdView is the render view of one bird.
type BirdView struct {
	Handle int
	X, Y   float64
	Tilt   float64
	Frame  int
}

// PipeView is the render view of one pipe.
type PipeView struct {
	X      float64
	Height float64 // gap top
	Top    float64 // draw y of the top sprite
	Bottom float64 // draw y of the bottom sprite, also the gap bottom
}

// GroundView is the render view of the ground strip.
type GroundView struct {
	Y, X1, X2 float64
}

// Snapshot is a read-only copy of the world taken after a tick.
type Snapshot struct {
	Generation int
	Tick       int
	Score      int
	Alive      int
	Target     int // index into Pipes of the pipe birds observe
	Birds      []BirdView
	Pipes      []PipeView
	Ground     GroundView
	Events     StepEvents
}

// Snapshot copies the current state for renderers.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Generation: w.generation,
		Tick:       w.tick,
		Score:      w.score,
		Alive:      w.alive,
		Target:     w.target,
		Birds:      make([]BirdView, 0, w.alive),
		Pipes:      make([]PipeView, 0, len(w.pipes)),
		Ground:     GroundView{Y: w.ground.Y, X1: w.ground.X1, X2: w.ground.X2},
	}

	query := w.birdFilter.Query()
	for query.Next() {
		bird, pilot := query.Get()
		s.Birds = append(s.Birds, BirdView{
			Handle: pilot.Handle,
			X:      bird.X,
			Y:      bird.Y,
			Tilt:   bird.Tilt,
			Frame:  bird.Frame,
		})
	}
	for _, p := range w.pipes {
		s.Pipes = append(s.Pipes, PipeView{X: p.X, Height: p.Height, Top: p.Top, Bottom: p.Bottom})
	}
	if s.Target >= len(s.Pipes) {
		s.Target = 0
	}
	return s
}

// TargetPipe returns the observed pipe, if any.
func (s *Snapshot) TargetPipe() (PipeView, bool) {
	if len(s.Pipes) == 0 {
		return PipeView{}, false
	}
	return s.Pipes[s.Target], true
}
