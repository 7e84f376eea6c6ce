// Package ui draws the heads-up display and the raygui control strip for the window renderer.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the colors and metrics shared by every widget.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	ScoreColor    rl.Color
	OutlineColor  rl.Color
	PausedColor   rl.Color
	LineColor     rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FontSize      int32
	ScoreFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 200},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.White,
		ScoreColor:    rl.White,
		OutlineColor:  rl.Black,
		PausedColor:   rl.Yellow,
		LineColor:     rl.Red,
		Padding:       10,
		LineHeight:    26,
		LabelWidth:    80,
		FontSize:      20,
		ScoreFontSize: 40,
	}
}
