package systems

import (
	"image"
	"math/bits"
)

// alphaThreshold matches the classic sprite-mask rule: a pixel is solid when alpha > 127.
const alphaThreshold = 127

// Mask is a per-pixel occupancy grid stored as rows of 64-bit words.
// Masks are built once per sprite frame and are read-only afterwards.
type Mask struct {
	W, H  int
	words int // words per row
	bits  []uint64
}

// NewMask returns an empty mask of the given size.
func NewMask(w, h int) *Mask {
	words := (w + 63) / 64
	return &Mask{W: w, H: h, words: words, bits: make([]uint64, words*h)}
}

// MaskFromImage builds a mask from an image's alpha channel.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a>>8 > alphaThreshold {
				m.Set(x, y)
			}
		}
	}
	return m
}

// Set marks a pixel as solid. Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.bits[y*m.words+x/64] |= 1 << uint(x%64)
}

// Get reports whether a pixel is solid.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.words+x/64]&(1<<uint(x%64)) != 0
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Overlap reports whether any solid pixel of m coincides with a solid pixel of
// other placed at offset (dx, dy) relative to m's top-left corner.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	x0 := max(0, dx)
	y0 := max(0, dy)
	x1 := min(m.W, dx+other.W)
	y1 := min(m.H, dy+other.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	for y := y0; y < y1; y++ {
		oy := y - dy
		for x := x0; x < x1; {
			// Compare up to 64 columns at a time.
			n := min(64, x1-x)
			if m.span(x, y, n)&other.span(x-dx, oy, n) != 0 {
				return true
			}
			x += n
		}
	}
	return false
}

// span returns n (<= 64) bits of row y starting at column x, low bit first.
func (m *Mask) span(x, y, n int) uint64 {
	row := m.bits[y*m.words : (y+1)*m.words]
	i, off := x/64, uint(x%64)

	v := row[i] >> off
	if off != 0 && i+1 < len(row) {
		v |= row[i+1] << (64 - off)
	}
	if n < 64 {
		v &= (1 << uint(n)) - 1
	}
	return v
}
