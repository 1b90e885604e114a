package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Face is a monospaced font in four styles with character cell metrics.
type Face struct {
	Size       float64
	CellW      int
	CellH      int
	Ascent     int
	regular    font.Face
	bold       font.Face
	italic     font.Face
	boldItalic font.Face
}

// FixedFace returns the 7x13 bitmap face in every style. Its metrics never
// depend on font files, which makes it the face used by headless runs.
func FixedFace() *Face {
	f := basicfont.Face7x13
	return &Face{
		Size:       13,
		CellW:      f.Advance,
		CellH:      f.Height,
		Ascent:     f.Ascent,
		regular:    f,
		bold:       f,
		italic:     f,
		boldItalic: f,
	}
}

type fontBank struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
}

var bank *fontBank

func loadBank() (*fontBank, error) {
	if bank != nil {
		return bank, nil
	}
	b := &fontBank{}
	var err error
	if b.regular, err = opentype.Parse(gomono.TTF); err != nil {
		return nil, err
	}
	if b.bold, err = opentype.Parse(gomonobold.TTF); err != nil {
		return nil, err
	}
	if b.italic, err = opentype.Parse(gomonoitalic.TTF); err != nil {
		return nil, err
	}
	if b.boldItalic, err = opentype.Parse(gomonobolditalic.TTF); err != nil {
		return nil, err
	}
	bank = b
	return b, nil
}

// NewFace builds the Go Mono face at size points (72 DPI). It falls back to
// FixedFace when the font data cannot be parsed.
func NewFace(size float64) *Face {
	b, err := loadBank()
	if err != nil || size <= 0 {
		return FixedFace()
	}
	opts := &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}
	mk := func(f *opentype.Font) font.Face {
		face, err := opentype.NewFace(f, opts)
		if err != nil {
			return basicfont.Face7x13
		}
		return face
	}
	face := &Face{
		Size:       size,
		regular:    mk(b.regular),
		bold:       mk(b.bold),
		italic:     mk(b.italic),
		boldItalic: mk(b.boldItalic),
	}
	m := face.regular.Metrics()
	adv, _ := face.regular.GlyphAdvance('M')
	face.CellW = (int(adv) + 32) >> 6
	face.Ascent = m.Ascent.Ceil()
	face.CellH = m.Ascent.Ceil() + m.Descent.Ceil()
	if face.CellW <= 0 || face.CellH <= 0 {
		return FixedFace()
	}
	return face
}

func (f *Face) style(bold, italic bool) font.Face {
	switch {
	case bold && italic:
		return f.boldItalic
	case bold:
		return f.bold
	case italic:
		return f.italic
	default:
		return f.regular
	}
}

type TextStyle struct {
	FG        color.RGBA
	BG        color.RGBA
	FGMix     Mix
	BGMix     Mix
	Bold      bool
	Italic    bool
	Underline bool
	Strikeout bool
	// Cells is the number of character cells the text occupies; zero means
	// one cell per rune.
	Cells int
	// Shift moves the glyphs vertically (superscript negative, subscript
	// positive) without moving the background.
	Shift int
}

// DrawText renders s with its cell box's top left corner at x, y.
func DrawText(fb *FrameBuffer, face *Face, x, y int, s string, st TextStyle) image.Rectangle {
	cells := st.Cells
	if cells <= 0 {
		cells = len([]rune(s))
	}
	box := image.Rect(x, y, x+cells*face.CellW, y+face.CellH)
	fb.FillRectMix(box.Min.X, box.Min.Y, box.Dx(), box.Dy(), st.BG, st.BGMix)
	if st.FGMix == MixInvisible {
		return box
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face.style(st.Bold, st.Italic),
		Dot:  fixed.P(0, face.Ascent+st.Shift),
	}
	d.DrawString(s)
	for my := 0; my < mask.Rect.Dy(); my++ {
		for mx := 0; mx < mask.Rect.Dx(); mx++ {
			if mask.AlphaAt(mx, my).A >= 0x80 {
				fb.SetPixel(box.Min.X+mx, box.Min.Y+my, st.FG, st.FGMix)
			}
		}
	}
	if st.Underline {
		uy := y + face.Ascent + 1
		if uy >= box.Max.Y {
			uy = box.Max.Y - 1
		}
		fb.FillRectMix(box.Min.X, uy, box.Dx(), 1, st.FG, st.FGMix)
	}
	if st.Strikeout {
		fb.FillRectMix(box.Min.X, y+face.Ascent/2+1, box.Dx(), 1, st.FG, st.FGMix)
	}
	return box
}
