// Package renderer draws game snapshots into a raylib window.
package renderer

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/flappy/assets"
)

// SpriteTextures holds the GPU copies of an atlas.
type SpriteTextures struct {
	Bird       [3]rl.Texture2D
	PipeTop    rl.Texture2D
	PipeBottom rl.Texture2D
	Base       rl.Texture2D
	Background rl.Texture2D

	initialized bool
}

// Init uploads the atlas images (must be called after the raylib window is created).
func (t *SpriteTextures) Init(atlas *assets.Atlas) {
	if t.initialized {
		return
	}
	for i := range t.Bird {
		t.Bird[i] = upload(atlas.Bird[i].Image)
	}
	t.PipeTop = upload(atlas.PipeTop.Image)
	t.PipeBottom = upload(atlas.PipeBottom.Image)
	t.Base = upload(atlas.Base.Image)
	t.Background = upload(atlas.Background.Image)
	t.initialized = true
}

// Unload frees the textures.
func (t *SpriteTextures) Unload() {
	if !t.initialized {
		return
	}
	for i := range t.Bird {
		rl.UnloadTexture(t.Bird[i])
	}
	rl.UnloadTexture(t.PipeTop)
	rl.UnloadTexture(t.PipeBottom)
	rl.UnloadTexture(t.Base)
	rl.UnloadTexture(t.Background)
	t.initialized = false
}

// BirdFrame returns the texture for an animation frame, clamping bad indices to the first frame.
func (t *SpriteTextures) BirdFrame(frame int) rl.Texture2D {
	if frame < 0 || frame >= len(t.Bird) {
		frame = 0
	}
	return t.Bird[frame]
}

func upload(img image.Image) rl.Texture2D {
	rimg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rimg)
	rl.SetTextureFilter(tex, rl.FilterPoint)
	rl.UnloadImage(rimg)
	return tex
}
