package game

import (
	"sync/atomic"

	"github.com/pthm-cable/flappy/components"
)

// InputController flies a bird from user input. Press may be called from any
// goroutine; the next Decide consumes it.
type InputController struct {
	pressed atomic.Bool
}

// Press queues a flap.
func (c *InputController) Press() {
	c.pressed.Store(true)
}

// Decide implements components.Controller.
func (c *InputController) Decide(components.Observation) []float64 {
	if c.pressed.Swap(false) {
		return []float64{1}
	}
	return []float64{0}
}

// ScoreCard is a plain fitness record for runs without an evolutionary driver.
type ScoreCard struct {
	Value float64
}

// Fitness implements GenomeRecord.
func (s *ScoreCard) Fitness() float64 { return s.Value }

// SetFitness implements GenomeRecord.
func (s *ScoreCard) SetFitness(f float64) { s.Value = f }
