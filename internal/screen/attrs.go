package screen

import (
	"image/color"

	"cellwin/internal/render"
)

func (b *Buffer) SetFG(c color.RGBA) { b.fg = c }
func (b *Buffer) SetBG(c color.RGBA) { b.bg = c }
func (b *Buffer) FG() color.RGBA     { return b.fg }
func (b *Buffer) BG() color.RGBA     { return b.bg }

// SetAttr turns a text attribute on or off. Reverse and standout swap the
// effective colours of subsequent output and clears.
func (b *Buffer) SetAttr(a Attr, on bool) {
	if on {
		b.attr |= a
		return
	}
	b.attr &^= a
}

func (b *Buffer) Attr() Attr { return b.attr }

func (b *Buffer) SetFGMix(m render.Mix) { b.fmix = m }
func (b *Buffer) SetBGMix(m render.Mix) { b.bmix = m }

// SetAuto enables or disables automatic wrap and scroll. Enabling requires
// the cursor to sit on a character cell inside the buffer.
func (b *Buffer) SetAuto(on bool) error {
	if on && (!b.onGrid() || !b.InBounds()) {
		if !b.onGrid() {
			return ErrOffGrid
		}
		return ErrAutoBounds
	}
	b.auto = on
	return nil
}

func (b *Buffer) Auto() bool { return b.auto }

func (b *Buffer) SetCursorVisible(on bool) { b.curvis = on }
func (b *Buffer) CursorVisible() bool     { return b.curvis }

// SetFace changes the font. The character grid is rebuilt from the pixel
// extents and the character cursor follows the pixel cursor.
func (b *Buffer) SetFace(f *render.Face) {
	if f == nil || f == b.face {
		return
	}
	b.face = f
	b.layout()
	b.defaultTabs()
	b.syncChar()
	if b.auto && !b.InBounds() {
		b.Home()
	}
}

func (b *Buffer) SetLineWidth(w int) { b.lineWidth = max(w, 1) }

// SetViewOffset translates subsequent graphics coordinates by x, y pixels.
func (b *Buffer) SetViewOffset(x, y int) { b.offX, b.offY = x, y }

// SetViewScale scales subsequent graphics coordinates.
func (b *Buffer) SetViewScale(s float64) {
	if s <= 0 {
		s = 1
	}
	b.scale = s
}

// TextWidth returns the pixel width of s in the current face.
func (b *Buffer) TextWidth(s string) int {
	n := 0
	for _, r := range s {
		n += max(runeCells(r), 0)
	}
	return n * b.face.CellW
}
