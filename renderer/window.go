package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/ui"
)

// Window draws snapshots into a raylib window and implements game.Renderer.
// Rendering is paced by the window's target FPS, so at speed 1 the game runs at screen.target_fps ticks per second.
type Window struct {
	cfg      *config.Config
	atlas    *assets.Atlas
	textures SpriteTextures
	hud      *ui.HUD
	controls *ui.Controls
	theme    ui.Theme
	state    ui.ControlState
	input    *game.InputController
	width    int32
	height   int32
}

// NewWindow opens the window and uploads the atlas.
func NewWindow(cfg *config.Config, atlas *assets.Atlas) *Window {
	w := &Window{
		cfg:    cfg,
		atlas:  atlas,
		hud:    ui.NewHUD(),
		theme:  ui.DefaultTheme(),
		state:  ui.DefaultControlState(),
		width:  int32(cfg.Screen.Width),
		height: int32(cfg.Screen.Height),
	}
	w.controls = ui.NewControls(0, w.height-ui.ControlsHeight, w.width)

	rl.InitWindow(w.width, w.height, cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	w.textures.Init(atlas)

	slog.Debug("window opened", "width", w.width, "height", w.height, "fps", cfg.Screen.TargetFPS)
	return w
}

// BindInput routes space and left clicks to a human controller.
func (w *Window) BindInput(input *game.InputController) {
	w.input = input
}

// Close releases the textures and closes the window.
func (w *Window) Close() {
	w.textures.Unload()
	rl.CloseWindow()
}

// Render draws one snapshot. It returns false once the window is closed.
func (w *Window) Render(s *game.Snapshot) bool {
	if rl.WindowShouldClose() {
		return false
	}
	w.poll()
	if !w.state.ShouldDraw(s.Tick) {
		return true
	}
	w.draw(s)

	for w.state.Paused {
		if rl.WindowShouldClose() {
			return false
		}
		w.poll()
		w.draw(s)
	}
	return true
}

// poll handles keyboard shortcuts and flap input.
func (w *Window) poll() {
	ui.HandleKeys(&w.state)
	if w.input == nil {
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) || w.clickedPlayfield() {
		w.input.Press()
	}
}

// clickedPlayfield ignores clicks on the control strip.
func (w *Window) clickedPlayfield() bool {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}
	return rl.GetMouseY() < w.height-ui.ControlsHeight
}

func (w *Window) draw(s *game.Snapshot) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.SkyBlue)

	rl.DrawTexture(w.textures.Background, 0, 0, rl.White)

	for _, p := range s.Pipes {
		rl.DrawTexture(w.textures.PipeTop, int32(p.X), int32(p.Top), rl.White)
		rl.DrawTexture(w.textures.PipeBottom, int32(p.X), int32(p.Bottom), rl.White)
	}

	rl.DrawTexture(w.textures.Base, int32(s.Ground.X1), int32(s.Ground.Y), rl.White)
	rl.DrawTexture(w.textures.Base, int32(s.Ground.X2), int32(s.Ground.Y), rl.White)

	if w.state.ShowLines {
		w.drawLines(s)
	}
	for i := range s.Birds {
		w.drawBird(&s.Birds[i])
	}

	w.hud.Draw(ui.HUDData{
		Score:       s.Score,
		Generation:  s.Generation,
		Alive:       s.Alive,
		Tick:        s.Tick,
		Speed:       w.state.Speed,
		FPS:         rl.GetFPS(),
		Paused:      w.state.Paused,
		ScreenWidth: w.width,
		Play:        w.input != nil,
	})
	w.controls.Draw(&w.state)

	rl.EndDrawing()
}

// drawBird rotates the sprite about its centre; positive tilt is nose up.
func (w *Window) drawBird(b *game.BirdView) {
	tex := w.textures.BirdFrame(b.Frame)
	width := float32(tex.Width)
	height := float32(tex.Height)

	src := rl.Rectangle{X: 0, Y: 0, Width: width, Height: height}
	dst := rl.Rectangle{
		X:      float32(b.X) + width/2,
		Y:      float32(b.Y) + height/2,
		Width:  width,
		Height: height,
	}
	origin := rl.Vector2{X: width / 2, Y: height / 2}
	rl.DrawTexturePro(tex, src, dst, origin, float32(-b.Tilt), rl.White)
}

// drawLines connects every bird's centre to the gap edges of the pipe it observes.
func (w *Window) drawLines(s *game.Snapshot) {
	pipe, ok := s.TargetPipe()
	if !ok {
		return
	}
	bw, bh := w.atlas.BirdSize()
	pipeCX := float32(pipe.X + w.atlas.PipeWidth()/2)
	top := rl.Vector2{X: pipeCX, Y: float32(pipe.Height)}
	bottom := rl.Vector2{X: pipeCX, Y: float32(pipe.Bottom)}

	for _, b := range s.Birds {
		centre := rl.Vector2{X: float32(b.X) + float32(bw)/2, Y: float32(b.Y) + float32(bh)/2}
		rl.DrawLineEx(centre, top, 3, w.theme.LineColor)
		rl.DrawLineEx(centre, bottom, 3, w.theme.LineColor)
	}
}
