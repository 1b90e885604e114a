package render

import (
	"encoding/binary"
	"image"
	"image/color"

	"golang.org/x/crypto/blake2b"
)

// Mix selects how a colour combines with the pixel already present.
type Mix int

const (
	MixOverwrite Mix = iota
	MixInvisible
	MixXor
)

type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.W, fb.H)
}

// RGBA returns an image view sharing the framebuffer's pixels.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	return &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: fb.Bounds()}
}

func (fb *FrameBuffer) Clone() *FrameBuffer {
	c := &FrameBuffer{W: fb.W, H: fb.H, Pixels: make([]uint8, len(fb.Pixels))}
	copy(c.Pixels, fb.Pixels)
	return c
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

func (fb *FrameBuffer) Pixel(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

// SetPixel combines c into the pixel at x, y according to m. Positions
// outside the framebuffer are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, c color.RGBA, m Mix) {
	if m == MixInvisible || x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return
	}
	i := (y*fb.W + x) * 4
	if m == MixXor {
		fb.Pixels[i+0] ^= c.R
		fb.Pixels[i+1] ^= c.G
		fb.Pixels[i+2] ^= c.B
		return
	}
	fb.Pixels[i+0] = c.R
	fb.Pixels[i+1] = c.G
	fb.Pixels[i+2] = c.B
	fb.Pixels[i+3] = c.A
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	fb.FillRectMix(x, y, w, h, c, MixOverwrite)
}

func (fb *FrameBuffer) FillRectMix(x, y, w, h int, c color.RGBA, m Mix) {
	if w <= 0 || h <= 0 || m == MixInvisible {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > fb.W {
		w = fb.W - x
	}
	if y+h > fb.H {
		h = fb.H - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			if m == MixXor {
				fb.Pixels[idx+0] ^= c.R
				fb.Pixels[idx+1] ^= c.G
				fb.Pixels[idx+2] ^= c.B
				continue
			}
			fb.Pixels[idx+0] = c.R
			fb.Pixels[idx+1] = c.G
			fb.Pixels[idx+2] = c.B
			fb.Pixels[idx+3] = c.A
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

// CopyFrom copies the rectangle r of src onto the same position of fb,
// clipped to both framebuffers.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer, r image.Rectangle) {
	r = r.Intersect(fb.Bounds()).Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := (y*fb.W + r.Min.X) * 4
		s := (y*src.W + r.Min.X) * 4
		copy(fb.Pixels[d:d+n], src.Pixels[s:s+n])
	}
}

// Shift moves the contents by dx, dy pixels; positive values move content
// right and down. Uncovered pixels are filled with fill.
func (fb *FrameBuffer) Shift(dx, dy int, fill color.RGBA) {
	if abs(dx) >= fb.W || abs(dy) >= fb.H {
		fb.Clear(fill)
		return
	}
	old := fb.Clone()
	fb.Clear(fill)
	for y := 0; y < fb.H; y++ {
		sy := y - dy
		if sy < 0 || sy >= fb.H {
			continue
		}
		x0, x1 := 0, fb.W
		if dx > 0 {
			x0 = dx
		} else {
			x1 = fb.W + dx
		}
		d := (y*fb.W + x0) * 4
		s := (sy*fb.W + x0 - dx) * 4
		copy(fb.Pixels[d:d+(x1-x0)*4], old.Pixels[s:s+(x1-x0)*4])
	}
}

// Fingerprint hashes the dimensions and pixels of the framebuffer.
func (fb *FrameBuffer) Fingerprint() [32]byte {
	h, _ := blake2b.New256(nil)
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(fb.W))
	binary.LittleEndian.PutUint32(dims[4:], uint32(fb.H))
	h.Write(dims[:])
	h.Write(fb.Pixels)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
