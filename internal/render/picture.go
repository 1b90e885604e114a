package render

import (
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DecodePicture reads a PNG, JPEG, GIF or BMP image into a framebuffer.
func DecodePicture(r io.Reader) (*FrameBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode picture: %w", err)
	}
	b := img.Bounds()
	fb := NewFrameBuffer(b.Dx(), b.Dy())
	stddraw.Draw(fb.RGBA(), fb.Bounds(), img, b.Min, stddraw.Src)
	return fb, nil
}

func LoadPicture(path string) (*FrameBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePicture(f)
}

// DrawPicture scales pic into the rectangle r of fb.
func DrawPicture(fb *FrameBuffer, pic *FrameBuffer, r image.Rectangle) {
	if r.Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(fb.RGBA(), r, pic.RGBA(), pic.Bounds(), draw.Over, nil)
}
