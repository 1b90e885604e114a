// Package screen implements the off-screen character/pixel surface a window
// draws into. Character coordinates and pixel coordinates are 1-based.
package screen

import (
	"errors"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"cellwin/internal/render"
)

var (
	ErrAutoPixel  = errors.New("screen: pixel positioning with auto enabled")
	ErrAutoBounds = errors.New("screen: cursor outside buffer with auto enabled")
	ErrOffGrid    = errors.New("screen: cursor not on a character cell")
	ErrBadTab     = errors.New("screen: tab position outside buffer")
)

type Attr uint16

const (
	Bold Attr = 1 << iota
	Italic
	Underline
	Strikeout
	Reverse
	Blink
	Standout
	Subscript
	Superscript
)

type Cell struct {
	R    rune
	FG   color.RGBA
	BG   color.RGBA
	Attr Attr
	// Cont marks the right half of a double width rune.
	Cont bool
}

// Defaults is the attribute template a new buffer starts from.
type Defaults struct {
	FG            color.RGBA
	BG            color.RGBA
	Attr          Attr
	FGMix         render.Mix
	BGMix         render.Mix
	Auto          bool
	CursorVisible bool
	LineWidth     int
	Face          *render.Face
}

type Buffer struct {
	w, h       int
	cols, rows int
	face       *render.Face
	cells      []Cell
	fb         *render.FrameBuffer

	curx, cury   int
	curxg, curyg int

	fg, bg     color.RGBA
	attr       Attr
	fmix, bmix render.Mix
	auto       bool
	curvis     bool
	lineWidth  int
	tabs       []int

	offX, offY int
	scale      float64

	dirty image.Rectangle
}

// New allocates a buffer of w by h pixels, clears it to the background
// colour and copies the defaults into it.
func New(w, h int, d Defaults) *Buffer {
	if d.Face == nil {
		d.Face = render.FixedFace()
	}
	b := &Buffer{
		w:         max(w, 1),
		h:         max(h, 1),
		face:      d.Face,
		fg:        d.FG,
		bg:        d.BG,
		attr:      d.Attr,
		fmix:      d.FGMix,
		bmix:      d.BGMix,
		auto:      d.Auto,
		curvis:    d.CursorVisible,
		lineWidth: max(d.LineWidth, 1),
		scale:     1,
	}
	b.fb = render.NewFrameBuffer(b.w, b.h)
	b.layout()
	b.defaultTabs()
	b.Clear()
	return b
}

// layout derives the character grid from the pixel extents and font.
func (b *Buffer) layout() {
	b.cols = max(b.w/b.face.CellW, 1)
	b.rows = max(b.h/b.face.CellH, 1)
	b.cells = make([]Cell, b.cols*b.rows)
	for i := range b.cells {
		b.cells[i] = b.blank()
	}
}

func (b *Buffer) defaultTabs() {
	b.tabs = b.tabs[:0]
	for x := 9; x <= b.cols; x += 8 {
		b.tabs = append(b.tabs, x)
	}
}

func (b *Buffer) blank() Cell {
	fg, bg := b.colors()
	return Cell{R: ' ', FG: fg, BG: bg}
}

// colors returns the effective foreground and background, swapped when
// reverse or standout is active.
func (b *Buffer) colors() (color.RGBA, color.RGBA) {
	if b.attr&(Reverse|Standout) != 0 {
		return b.bg, b.fg
	}
	return b.fg, b.bg
}

func (b *Buffer) markDirty(r image.Rectangle) {
	r = r.Intersect(b.fb.Bounds())
	if r.Empty() {
		return
	}
	b.dirty = b.dirty.Union(r)
}

// TakeDirty returns the pixel rectangle touched since the last call (0-based)
// and resets it.
func (b *Buffer) TakeDirty() image.Rectangle {
	r := b.dirty
	b.dirty = image.Rectangle{}
	return r
}

func (b *Buffer) FrameBuffer() *render.FrameBuffer { return b.fb }
func (b *Buffer) Face() *render.Face               { return b.face }

// Size returns the character extents.
func (b *Buffer) Size() (int, int) { return b.cols, b.rows }

// SizeG returns the pixel extents.
func (b *Buffer) SizeG() (int, int) { return b.w, b.h }

func (b *Buffer) CursorPos() (int, int)  { return b.curx, b.cury }
func (b *Buffer) CursorPosG() (int, int) { return b.curxg, b.curyg }

// InBounds reports whether the character cursor lies inside the buffer.
func (b *Buffer) InBounds() bool {
	return b.curx >= 1 && b.curx <= b.cols && b.cury >= 1 && b.cury <= b.rows
}

// CaretRect is the 0-based pixel box of the cursor cell.
func (b *Buffer) CaretRect() image.Rectangle {
	return image.Rect(b.curxg-1, b.curyg-1, b.curxg-1+b.face.CellW, b.curyg-1+b.face.CellH)
}

func (b *Buffer) Cell(x, y int) Cell {
	if x < 1 || y < 1 || x > b.cols || y > b.rows {
		return Cell{}
	}
	return b.cells[(y-1)*b.cols+x-1]
}

// Row returns the text of row y with trailing blanks removed.
func (b *Buffer) Row(y int) string {
	if y < 1 || y > b.rows {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[(y-1)*b.cols : y*b.cols] {
		if c.Cont {
			continue
		}
		sb.WriteRune(c.R)
	}
	return strings.TrimRight(sb.String(), " ")
}

// syncPixel moves the pixel cursor to the character cursor.
func (b *Buffer) syncPixel() {
	b.curxg = (b.curx-1)*b.face.CellW + 1
	b.curyg = (b.cury-1)*b.face.CellH + 1
}

// syncChar moves the character cursor to the cell holding the pixel cursor.
func (b *Buffer) syncChar() {
	b.curx = floorDiv(b.curxg-1, b.face.CellW) + 1
	b.cury = floorDiv(b.curyg-1, b.face.CellH) + 1
}

func (b *Buffer) onGrid() bool {
	return (b.curxg-1)%b.face.CellW == 0 && (b.curyg-1)%b.face.CellH == 0
}

// Clear blanks the buffer to the background colour and homes the cursor.
func (b *Buffer) Clear() {
	b.clearContents()
	b.curx, b.cury = 1, 1
	b.syncPixel()
}

func (b *Buffer) clearContents() {
	_, bg := b.colors()
	b.fb.Clear(bg)
	blank := b.blank()
	for i := range b.cells {
		b.cells[i] = blank
	}
	b.markDirty(b.fb.Bounds())
}

// Scroll moves the contents left by dx and up by dy characters, clearing the
// uncovered area. A shift that would empty the visible area in either axis is
// a Clear, cursor included.
func (b *Buffer) Scroll(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	if abs(dx) >= b.cols || abs(dy) >= b.rows {
		b.Clear()
		return
	}
	old := append([]Cell(nil), b.cells...)
	blank := b.blank()
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			sx, sy := x+dx, y+dy
			if sx < 0 || sy < 0 || sx >= b.cols || sy >= b.rows {
				b.cells[y*b.cols+x] = blank
				continue
			}
			b.cells[y*b.cols+x] = old[sy*b.cols+sx]
		}
	}
	_, bg := b.colors()
	b.fb.Shift(-dx*b.face.CellW, -dy*b.face.CellH, bg)
	b.markDirty(b.fb.Bounds())
}

// ScrollG moves the pixel contents by dx, dy pixels in the same sense as
// Scroll. Cells are shifted by whole characters.
func (b *Buffer) ScrollG(dx, dy int) {
	if abs(dx) >= b.w || abs(dy) >= b.h {
		b.Clear()
		return
	}
	_, bg := b.colors()
	pix := b.fb.Clone()
	b.Scroll(dx/b.face.CellW, dy/b.face.CellH)
	pix.Shift(-dx, -dy, bg)
	b.fb.CopyFrom(pix, pix.Bounds())
	b.markDirty(b.fb.Bounds())
}

// Cursor moves the character cursor. With auto enabled the position must lie
// inside the buffer.
func (b *Buffer) Cursor(x, y int) error {
	if b.auto && (x < 1 || y < 1 || x > b.cols || y > b.rows) {
		return ErrAutoBounds
	}
	b.curx, b.cury = x, y
	b.syncPixel()
	return nil
}

// CursorG moves the pixel cursor; it is refused while auto is enabled.
func (b *Buffer) CursorG(x, y int) error {
	if b.auto {
		return ErrAutoPixel
	}
	b.curxg, b.curyg = x, y
	b.syncChar()
	return nil
}

func (b *Buffer) Home() {
	b.curx, b.cury = 1, 1
	b.syncPixel()
}

// Up moves one line up; at the top with auto enabled the contents scroll
// down instead.
func (b *Buffer) Up() {
	switch {
	case b.cury > 1 || !b.auto:
		b.cury--
	default:
		b.Scroll(0, -1)
	}
	b.syncPixel()
}

// Down moves one line down; at the bottom with auto enabled the contents
// scroll up instead.
func (b *Buffer) Down() {
	switch {
	case b.cury < b.rows || !b.auto:
		b.cury++
	default:
		b.Scroll(0, 1)
	}
	b.syncPixel()
}

// Left moves one column left. With auto enabled the cursor stops at the
// left edge.
func (b *Buffer) Left() {
	if b.curx > 1 || !b.auto {
		b.curx--
	}
	b.syncPixel()
}

// Right moves one column right. With auto enabled, moving off the right edge
// wraps to the start of the next line, scrolling at the bottom.
func (b *Buffer) Right() {
	switch {
	case b.curx < b.cols || !b.auto:
		b.curx++
		b.syncPixel()
	default:
		b.curx = 1
		b.Down()
	}
}

// Tab advances to the next tab stop. Without a further stop the cursor does
// not move.
func (b *Buffer) Tab() {
	for _, t := range b.tabs {
		if t > b.curx {
			b.curx = t
			b.syncPixel()
			return
		}
	}
}

func (b *Buffer) SetTab(x int) error {
	if x < 1 || x > b.cols {
		return ErrBadTab
	}
	i := sort.SearchInts(b.tabs, x)
	if i < len(b.tabs) && b.tabs[i] == x {
		return nil
	}
	b.tabs = append(b.tabs, 0)
	copy(b.tabs[i+1:], b.tabs[i:])
	b.tabs[i] = x
	return nil
}

func (b *Buffer) ResetTab(x int) error {
	if x < 1 || x > b.cols {
		return ErrBadTab
	}
	i := sort.SearchInts(b.tabs, x)
	if i < len(b.tabs) && b.tabs[i] == x {
		b.tabs = append(b.tabs[:i], b.tabs[i+1:]...)
	}
	return nil
}

func (b *Buffer) ClearTabs() { b.tabs = b.tabs[:0] }

func (b *Buffer) Tabs() []int { return append([]int(nil), b.tabs...) }

// Write outputs one rune at the cursor. Carriage return, line feed,
// backspace, tab and form feed act on the cursor; other control characters
// are ignored.
func (b *Buffer) Write(r rune) {
	switch r {
	case '\r':
		b.curx = 1
		b.syncPixel()
		return
	case '\n':
		b.curx = 1
		b.Down()
		return
	case '\b':
		b.Left()
		return
	case '\t':
		b.Tab()
		return
	case '\f':
		b.Clear()
		return
	}
	if r < 0x20 || r == 0x7f {
		return
	}
	width := runewidth.RuneWidth(r)
	if width == 0 {
		return
	}
	if width == 2 && b.auto && b.curx == b.cols && b.cols > 1 {
		b.curx = 1
		b.Down()
	}
	b.put(r, width)
	for i := 0; i < width; i++ {
		b.advance()
	}
}

func (b *Buffer) WriteString(s string) {
	for _, r := range s {
		b.Write(r)
	}
}

// advance steps the cursor after output; it is Right except that without
// auto the pixel cursor moves by a cell from wherever it stands.
func (b *Buffer) advance() {
	if b.auto {
		b.Right()
		return
	}
	b.curxg += b.face.CellW
	b.syncChar()
}

func (b *Buffer) put(r rune, width int) {
	fg, bg := b.colors()
	if b.curx >= 1 && b.curx <= b.cols && b.cury >= 1 && b.cury <= b.rows {
		i := (b.cury-1)*b.cols + b.curx - 1
		b.cells[i] = Cell{R: r, FG: fg, BG: bg, Attr: b.attr}
		if width == 2 && b.curx < b.cols {
			b.cells[i+1] = Cell{FG: fg, BG: bg, Attr: b.attr, Cont: true}
		}
	}
	shift := 0
	switch {
	case b.attr&Superscript != 0:
		shift = -b.face.Ascent / 3
	case b.attr&Subscript != 0:
		shift = b.face.Ascent / 3
	}
	box := render.DrawText(b.fb, b.face, b.curxg-1, b.curyg-1, string(r), render.TextStyle{
		FG:        fg,
		BG:        bg,
		FGMix:     b.fmix,
		BGMix:     b.bmix,
		Bold:      b.attr&Bold != 0,
		Italic:    b.attr&Italic != 0,
		Underline: b.attr&Underline != 0,
		Strikeout: b.attr&Strikeout != 0,
		Cells:     width,
		Shift:     shift,
	})
	b.markDirty(box)
}

// Del erases the character left of the cursor.
func (b *Buffer) Del() {
	x, y := b.curx, b.cury
	b.Left()
	if b.curx == x && b.cury == y {
		return
	}
	b.put(' ', 1)
}

// Resize changes the pixel extents, keeping the overlapping contents. The
// uncovered area is cleared to the background colour.
func (b *Buffer) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == b.w && h == b.h {
		return
	}
	oldCells, oldCols, oldRows := b.cells, b.cols, b.rows
	oldFB := b.fb
	b.w, b.h = w, h
	b.fb = render.NewFrameBuffer(w, h)
	_, bg := b.colors()
	b.fb.Clear(bg)
	b.fb.CopyFrom(oldFB, oldFB.Bounds())
	b.layout()
	for y := 0; y < min(oldRows, b.rows); y++ {
		for x := 0; x < min(oldCols, b.cols); x++ {
			b.cells[y*b.cols+x] = oldCells[y*oldCols+x]
		}
	}
	var tabs []int
	for _, t := range b.tabs {
		if t <= b.cols {
			tabs = append(tabs, t)
		}
	}
	b.tabs = tabs
	if b.auto && !b.InBounds() {
		b.curx = min(max(b.curx, 1), b.cols)
		b.cury = min(max(b.cury, 1), b.rows)
		b.syncPixel()
	}
	b.markDirty(b.fb.Bounds())
}

// CopyFrom replaces the contents of b with those of src, clipped to b.
// Attributes and cursor are kept.
func (b *Buffer) CopyFrom(src *Buffer) {
	_, bg := b.colors()
	b.fb.Clear(bg)
	b.fb.CopyFrom(src.fb, src.fb.Bounds())
	blank := b.blank()
	for y := 1; y <= b.rows; y++ {
		for x := 1; x <= b.cols; x++ {
			c := blank
			if x <= src.cols && y <= src.rows && b.face.CellW == src.face.CellW && b.face.CellH == src.face.CellH {
				c = src.Cell(x, y)
			}
			b.cells[(y-1)*b.cols+x-1] = c
		}
	}
	b.markDirty(b.fb.Bounds())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Snapshot is a copy of the character contents used by diagnostic dumps.
type Snapshot struct {
	Cols, Rows int
	CurX, CurY int
	Cells      []Cell
}

func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		Cols:  b.cols,
		Rows:  b.rows,
		CurX:  b.curx,
		CurY:  b.cury,
		Cells: append([]Cell(nil), b.cells...),
	}
}

// Clone returns a deep copy of b, attributes and cursor included.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.cells = append([]Cell(nil), b.cells...)
	c.tabs = append([]int(nil), b.tabs...)
	c.fb = b.fb.Clone()
	return &c
}
