// Package audio plays short synthesized cues for game events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pthm-cable/flappy/game"
)

const sampleRate = beep.SampleRate(44100)

// Cue identifies one sound effect.
type Cue int

const (
	CueFlap  Cue = iota // at least one bird jumped
	CueScore            // a pipe was passed
	CueCrash            // a bird hit a pipe
	CueFall             // a bird left through the ground or the ceiling
)

func (c Cue) String() string {
	switch c {
	case CueFlap:
		return "flap"
	case CueScore:
		return "score"
	case CueCrash:
		return "crash"
	case CueFall:
		return "fall"
	default:
		return "unknown"
	}
}

// SelectCues maps one tick's events to cues. Each cue plays at most once per tick
// so a whole population flapping together does not stack.
func SelectCues(ev game.StepEvents) []Cue {
	var cues []Cue
	if ev.Jumps > 0 {
		cues = append(cues, CueFlap)
	}
	if ev.Passed {
		cues = append(cues, CueScore)
	}
	fall := false
	for _, r := range ev.Removed {
		if r.Cause == game.CauseGround || r.Cause == game.CauseCeiling {
			fall = true
		}
	}
	if ev.Crashes() > 0 {
		cues = append(cues, CueCrash)
	}
	if fall {
		cues = append(cues, CueFall)
	}
	return cues
}

// tone describes a cue as a pitch sweep.
type tone struct {
	from, to float64 // Hz
	length   time.Duration
	volume   float64
}

var tones = map[Cue]tone{
	CueFlap:  {from: 520, to: 780, length: 60 * time.Millisecond, volume: 0.12},
	CueScore: {from: 880, to: 1320, length: 120 * time.Millisecond, volume: 0.15},
	CueCrash: {from: 220, to: 90, length: 200 * time.Millisecond, volume: 0.2},
	CueFall:  {from: 400, to: 120, length: 250 * time.Millisecond, volume: 0.15},
}

// Cues plays event sounds and implements game.Renderer.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewCues creates a silent cue player; call Initialize to open the speaker.
func NewCues() *Cues {
	return &Cues{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences any playing cues.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Render plays the cues for the snapshot's events. It never stops the run.
func (c *Cues) Render(s *game.Snapshot) bool {
	cues := SelectCues(s.Events)
	if len(cues) == 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return true
	}
	speaker.Lock()
	for _, cue := range cues {
		c.mixer.Add(newSweep(sampleRate, tones[cue]))
	}
	speaker.Unlock()
	return true
}

// sweep is a sine whose pitch glides linearly over a fixed length, with a short attack and a linear release.
type sweep struct {
	sr    beep.SampleRate
	tone  tone
	total int
	pos   int
	phase float64
}

func newSweep(sr beep.SampleRate, t tone) *sweep {
	return &sweep{sr: sr, tone: t, total: sr.N(t.length)}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		progress := float64(g.pos) / float64(g.total)
		freq := g.tone.from + (g.tone.to-g.tone.from)*progress

		attack := math.Min(float64(g.pos)/float64(g.sr)/0.005, 1.0)
		envelope := attack * (1 - progress)

		sample := g.tone.volume * envelope * math.Sin(g.phase)
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error {
	return nil
}
