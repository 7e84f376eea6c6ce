package assets

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// Source art sizes before upscaling.
const (
	birdW, birdH = 34, 24
	pipeW, pipeH = 52, 320
	baseW, baseH = 336, 112
	bgW, bgH     = 288, 512
	pipeLip      = 24
)

var (
	skyTop    = color.NRGBA{78, 192, 202, 255}
	skyBottom = color.NRGBA{222, 248, 214, 255}
	pipeGreen = color.NRGBA{115, 191, 46, 255}
	pipeDark  = color.NRGBA{84, 128, 34, 255}
	dirt      = color.NRGBA{222, 216, 149, 255}
	grass     = color.NRGBA{94, 226, 112, 255}
	grassDark = color.NRGBA{84, 168, 70, 255}
	feather   = color.NRGBA{250, 200, 40, 255}
	wing      = color.NRGBA{252, 238, 200, 255}
	beak      = color.NRGBA{240, 100, 40, 255}
	eye       = color.NRGBA{255, 255, 255, 255}
	pupil     = color.NRGBA{0, 0, 0, 255}
)

var (
	defaultOnce  sync.Once
	defaultAtlas *Atlas
)

// Default returns the built-in atlas. Sprites are drawn at classic sizes and go
// through the same upscale as files from LoadDir. The atlas is built once and shared.
func Default() *Atlas {
	defaultOnce.Do(func() {
		var birds [3]image.Image
		for i := range birds {
			birds[i] = upscale(drawBird(i))
		}
		a, err := assemble(birds, upscale(drawPipe()), upscale(drawBase()), upscale(drawBackground()))
		if err != nil {
			panic("assets: built-in sprites are inconsistent: " + err.Error())
		}
		defaultAtlas = a
	})
	return defaultAtlas
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// fillEllipse paints the ellipse inscribed in r.
func fillEllipse(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	cx := float64(r.Min.X+r.Max.X-1) / 2
	cy := float64(r.Min.Y+r.Max.Y-1) / 2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			nx := (float64(x) - cx) / rx
			ny := (float64(y) - cy) / ry
			if nx*nx+ny*ny <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// drawBird paints one flap frame. Frame 0 has the wing up, 1 level, 2 down.
func drawBird(frame int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, birdW, birdH))
	fillEllipse(img, image.Rect(1, 2, 30, 23), feather)
	fillEllipse(img, image.Rect(18, 3, 28, 12), eye)
	fill(img, image.Rect(23, 6, 25, 9), pupil)
	fill(img, image.Rect(26, 13, 34, 17), beak)

	wingY := [3]int{5, 9, 13}[frame]
	fillEllipse(img, image.Rect(0, wingY, 14, wingY+7), wing)
	return img
}

// drawPipe paints the bottom pipe: a lip at the gap end, then the shaft.
func drawPipe() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pipeW, pipeH))
	fill(img, image.Rect(2, pipeLip, pipeW-2, pipeH), pipeGreen)
	fill(img, image.Rect(2, pipeLip, 6, pipeH), pipeDark)
	fill(img, image.Rect(0, 0, pipeW, pipeLip), pipeGreen)
	fill(img, image.Rect(0, pipeLip-2, pipeW, pipeLip), pipeDark)
	return img
}

func drawBase() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, baseW, baseH))
	fill(img, img.Bounds(), dirt)
	fill(img, image.Rect(0, 0, baseW, 12), grass)
	for x := 0; x < baseW; x += 12 {
		fill(img, image.Rect(x, 4, x+6, 10), grassDark)
	}
	return img
}

func drawBackground() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bgW, bgH))
	for y := 0; y < bgH; y++ {
		t := float64(y) / float64(bgH-1)
		c := color.NRGBA{
			R: lerp8(skyTop.R, skyBottom.R, t),
			G: lerp8(skyTop.G, skyBottom.G, t),
			B: lerp8(skyTop.B, skyBottom.B, t),
			A: 255,
		}
		fill(img, image.Rect(0, y, bgW, y+1), c)
	}
	return img
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
