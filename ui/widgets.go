package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawLabelValue draws a label and value on the same line and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.DrawOutlined(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	r.DrawOutlined(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawOutlined draws text with a one pixel outline so it reads over the sky and the pipes.
func (r *Renderer) DrawOutlined(text string, x, y, size int32, color rl.Color) {
	for _, o := range [4][2]int32{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		rl.DrawText(text, x+o[0], y+o[1], size, r.Theme.OutlineColor)
	}
	rl.DrawText(text, x, y, size, color)
}

// DrawRightAligned draws outlined text whose right edge sits at x.
func (r *Renderer) DrawRightAligned(text string, x, y, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	r.DrawOutlined(text, x-w, y, size, color)
}
