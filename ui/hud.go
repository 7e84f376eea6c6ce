package ui

import (
	"fmt"
)

// HUDData holds everything the heads-up display shows for one frame.
type HUDData struct {
	Score       int
	Generation  int
	Alive       int
	Tick        int
	Speed       int
	FPS         int32
	Paused      bool
	ScreenWidth int32
	Play        bool // human play mode hides the generation counters
}

// HUD renders the score and the generation counters.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme

	r.DrawRightAligned(fmt.Sprintf("Score: %d", data.Score), data.ScreenWidth-t.Padding, t.Padding, t.ScoreFontSize, t.ScoreColor)

	y := t.Padding
	if !data.Play {
		y = r.DrawLabelValue(t.Padding, y, "Gen", fmt.Sprintf("%d", data.Generation))
		y = r.DrawLabelValue(t.Padding, y, "Alive", fmt.Sprintf("%d", data.Alive))
	}
	y = r.DrawLabelValue(t.Padding, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(t.Padding, y, "Speed", fmt.Sprintf("%dx  %d fps", data.Speed, data.FPS))

	if data.Paused {
		r.DrawOutlined("PAUSED", t.Padding, y, t.FontSize, t.PausedColor)
	}
}
