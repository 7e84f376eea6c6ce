package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed bounds for the frame skip slider.
const (
	MinSpeed = 1
	MaxSpeed = 20
)

// ControlState is the user-adjustable display state shared by keyboard and mouse input.
type ControlState struct {
	Speed     int // simulation ticks per drawn frame
	Paused    bool
	ShowLines bool // observation lines from each bird to the target pipe
}

// DefaultControlState returns real-time speed, running, lines hidden.
func DefaultControlState() ControlState {
	return ControlState{Speed: MinSpeed}
}

// SetSpeed clamps and stores the frame skip.
func (s *ControlState) SetSpeed(speed int) {
	s.Speed = min(max(speed, MinSpeed), MaxSpeed)
}

// TogglePause flips the pause flag.
func (s *ControlState) TogglePause() { s.Paused = !s.Paused }

// ToggleLines flips the observation line overlay.
func (s *ControlState) ToggleLines() { s.ShowLines = !s.ShowLines }

// ShouldDraw reports whether the snapshot at tick should be drawn at the current speed.
// Every Speed-th tick is drawn, and the first tick of a generation always is.
func (s *ControlState) ShouldDraw(tick int) bool {
	if s.Paused || s.Speed <= MinSpeed {
		return true
	}
	return tick <= 1 || tick%s.Speed == 0
}

// Controls renders the bottom control strip with raygui widgets.
type Controls struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// ControlsHeight is the height of the strip in pixels.
const ControlsHeight = 40

// NewControls creates a control strip anchored at (x, y).
func NewControls(x, y, width int32) *Controls {
	return &Controls{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the strip and applies any widget interaction to state.
func (c *Controls) Draw(state *ControlState) {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(c.x, c.y, c.width, ControlsHeight)

	x := float32(c.x) + pad
	y := float32(c.y) + 10
	const h = 20

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 70, Height: h}, pauseText) {
		state.TogglePause()
	}
	x += 70 + pad

	linesText := "Lines"
	if state.ShowLines {
		linesText = "No lines"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: h}, linesText) {
		state.ToggleLines()
	}
	x += 80 + pad + 30

	sliderWidth := float32(c.x+c.width) - x - pad - 40
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: h},
		fmt.Sprintf("%dx", MinSpeed),
		fmt.Sprintf("%dx", MaxSpeed),
		float32(state.Speed),
		MinSpeed,
		MaxSpeed,
	)
	state.SetSpeed(int(speed + 0.5))
}

// HandleKeys applies the keyboard shortcuts: P pauses, L toggles lines, arrows change speed.
func HandleKeys(state *ControlState) {
	if rl.IsKeyPressed(rl.KeyP) {
		state.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		state.ToggleLines()
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyUp) {
		state.SetSpeed(state.Speed + 1)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyDown) {
		state.SetSpeed(state.Speed - 1)
	}
}
