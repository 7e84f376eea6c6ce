// Package assets provides the sprite atlas used by the simulation and the renderers.
// Every sprite carries the collision mask built from its alpha channel, so masks
// exist before the first tick and are never rebuilt.
package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"

	"github.com/pthm-cable/flappy/systems"
)

// Scale is the integer upscale applied to source art.
const Scale = 2

// Sprite is an image together with its collision mask.
type Sprite struct {
	Image image.Image
	Mask  *systems.Mask
}

// NewSprite builds the mask for img.
func NewSprite(img image.Image) Sprite {
	return Sprite{Image: img, Mask: systems.MaskFromImage(img)}
}

// Width returns the sprite width in pixels.
func (s Sprite) Width() int { return s.Image.Bounds().Dx() }

// Height returns the sprite height in pixels.
func (s Sprite) Height() int { return s.Image.Bounds().Dy() }

// Atlas holds every sprite the game draws or collides with.
type Atlas struct {
	Bird       [3]Sprite // flap frames: wings up, level, down
	PipeTop    Sprite    // flipped, hangs down to the gap
	PipeBottom Sprite
	Base       Sprite
	Background Sprite
}

// BirdFrame returns the sprite for a flap frame index.
func (a *Atlas) BirdFrame(frame int) Sprite {
	if frame < 0 || frame >= len(a.Bird) {
		frame = 0
	}
	return a.Bird[frame]
}

// BirdSize returns the bird frame dimensions.
func (a *Atlas) BirdSize() (w, h int) {
	return a.Bird[0].Width(), a.Bird[0].Height()
}

// PipeWidth returns the pipe sprite width.
func (a *Atlas) PipeWidth() float64 { return float64(a.PipeBottom.Width()) }

// PipeHeight returns the pipe sprite height.
func (a *Atlas) PipeHeight() float64 { return float64(a.PipeBottom.Height()) }

// BaseWidth returns the ground segment width.
func (a *Atlas) BaseWidth() float64 { return float64(a.Base.Width()) }

// Source file names expected by LoadDir.
var (
	birdFiles      = [3]string{"bird1.png", "bird2.png", "bird3.png"}
	pipeFile       = "pipe.png"
	baseFile       = "base.png"
	backgroundFile = "bg.png"
)

// Load returns the built-in atlas when dir is empty, otherwise the sprites in dir.
func Load(dir string) (*Atlas, error) {
	if dir == "" {
		return Default(), nil
	}
	return LoadDir(dir)
}

// LoadDir reads the classic sprite set from dir and scales it up.
// The pipe file is the bottom half; the top half is its vertical mirror.
func LoadDir(dir string) (*Atlas, error) {
	read := func(name string) (image.Image, error) {
		img, err := decodePNG(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		return upscale(img), nil
	}

	var birds [3]image.Image
	for i, name := range birdFiles {
		img, err := read(name)
		if err != nil {
			return nil, err
		}
		birds[i] = img
	}
	pipe, err := read(pipeFile)
	if err != nil {
		return nil, err
	}
	base, err := read(baseFile)
	if err != nil {
		return nil, err
	}
	bg, err := read(backgroundFile)
	if err != nil {
		return nil, err
	}

	atlas, err := assemble(birds, pipe, base, bg)
	if err != nil {
		return nil, fmt.Errorf("assets in %s: %w", dir, err)
	}
	return atlas, nil
}

func assemble(birds [3]image.Image, pipe, base, bg image.Image) (*Atlas, error) {
	b0 := birds[0].Bounds()
	for i, img := range birds[1:] {
		if img.Bounds().Dx() != b0.Dx() || img.Bounds().Dy() != b0.Dy() {
			return nil, fmt.Errorf("bird frame %d is %v, frame 0 is %v", i+1, img.Bounds().Size(), b0.Size())
		}
	}

	a := &Atlas{
		PipeTop:    NewSprite(transform.FlipV(pipe)),
		PipeBottom: NewSprite(pipe),
		Base:       NewSprite(base),
		Background: Sprite{Image: bg}, // never collides
	}
	for i, img := range birds {
		a.Bird[i] = NewSprite(img)
	}
	return a, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sprite: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// upscale applies the integer Scale with nearest-neighbour sampling so pixel
// edges, and with them the collision masks, stay crisp.
func upscale(img image.Image) image.Image {
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*Scale, b.Dy()*Scale, transform.NearestNeighbor)
}
