// Package term draws game snapshots as terminal cells with tcell.
package term

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
)

const (
	pipeRune   = '█'
	groundRune = '▒'
	birdRune   = '@'
	diveRune   = 'v'
)

var (
	pipeStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	groundStyle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	birdStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// Renderer scales the playfield onto the terminal and implements game.Renderer.
// The last row holds the status line.
type Renderer struct {
	screen  tcell.Screen
	worldW  float64
	worldH  float64
	pipeW   float64
	birdW   float64
	birdH   float64
	diveAt  float64
	input   *game.InputController
	stopped atomic.Bool
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	return screen, nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, cfg *config.Config, atlas *assets.Atlas) *Renderer {
	bw, bh := atlas.BirdSize()
	return &Renderer{
		screen: screen,
		worldW: float64(cfg.Screen.Width),
		worldH: float64(cfg.Screen.Height),
		pipeW:  atlas.PipeWidth(),
		birdW:  float64(bw),
		birdH:  float64(bh),
		diveAt: cfg.Bird.DiveTilt,
	}
}

// BindInput routes space and up-arrow presses to a human controller.
func (r *Renderer) BindInput(input *game.InputController) {
	r.input = input
}

// Start runs the event pump until the screen is finalized.
func (r *Renderer) Start() {
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			r.handle(ev)
		}
	}()
}

// Stopped reports whether the user asked to quit.
func (r *Renderer) Stopped() bool {
	return r.stopped.Load()
}

// Close restores the terminal.
func (r *Renderer) Close() {
	r.screen.Fini()
}

func (r *Renderer) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			r.stopped.Store(true)
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			r.stopped.Store(true)
		case ev.Key() == tcell.KeyUp, ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			if r.input != nil {
				r.input.Press()
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
}

// Render draws one snapshot. It returns false once the user quits.
func (r *Renderer) Render(s *game.Snapshot) bool {
	if r.stopped.Load() {
		return false
	}
	r.Draw(s)
	return true
}

// Draw paints the snapshot and shows the screen.
func (r *Renderer) Draw(s *game.Snapshot) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	field := rows - 1
	if cols <= 0 || field <= 0 {
		return
	}
	sx := float64(cols) / r.worldW
	sy := float64(field) / r.worldH

	groundRow := min(int(s.Ground.Y*sy), field)
	for y := groundRow; y < field; y++ {
		for x := 0; x < cols; x++ {
			r.screen.SetContent(x, y, groundRune, nil, groundStyle)
		}
	}

	for _, p := range s.Pipes {
		x0 := max(int(p.X*sx), 0)
		x1 := min(int((p.X+r.pipeW)*sx), cols)
		gapTop := int(p.Height * sy)
		gapBottom := int(p.Bottom * sy)
		for x := x0; x < x1; x++ {
			for y := 0; y < gapTop && y < groundRow; y++ {
				r.screen.SetContent(x, y, pipeRune, nil, pipeStyle)
			}
			for y := gapBottom; y < groundRow; y++ {
				r.screen.SetContent(x, y, pipeRune, nil, pipeStyle)
			}
		}
	}

	for _, b := range s.Birds {
		x := int((b.X + r.birdW/2) * sx)
		y := int((b.Y + r.birdH/2) * sy)
		if x < 0 || x >= cols || y < 0 || y >= field {
			continue
		}
		ch := birdRune
		if b.Tilt <= r.diveAt {
			ch = diveRune
		}
		r.screen.SetContent(x, y, ch, nil, birdStyle)
	}

	status := fmt.Sprintf(" Gen %d  Score %d  Alive %d  Tick %d  [space] flap  [q] quit ", s.Generation, s.Score, s.Alive, s.Tick)
	x := 0
	for _, ch := range status {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, field, ch, nil, statusStyle)
		x++
	}

	r.screen.Show()
}
