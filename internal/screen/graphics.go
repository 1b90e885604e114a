package screen

import (
	"image"

	"github.com/mattn/go-runewidth"

	"cellwin/internal/render"
)

func runeCells(r rune) int { return runewidth.RuneWidth(r) }

// pt maps a 1-based logical pixel coordinate to a 0-based frame buffer one.
func (b *Buffer) pt(x, y int) (int, int) {
	return int(float64(x-1+b.offX) * b.scale), int(float64(y-1+b.offY) * b.scale)
}

func (b *Buffer) pen() render.Pen {
	fg, _ := b.colors()
	return render.Pen{Color: fg, Mix: b.fmix, Width: b.lineWidth}
}

// dirtyBox marks the box spanned by two corners, grown by the pen width.
func (b *Buffer) dirtyBox(x1, y1, x2, y2 int) {
	r := image.Rect(x1, y1, x2+1, y2+1).Canon()
	lw := b.lineWidth
	b.markDirty(r.Inset(-lw))
}

func (b *Buffer) SetPixel(x, y int) {
	px, py := b.pt(x, y)
	fg, _ := b.colors()
	b.fb.SetPixel(px, py, fg, b.fmix)
	b.markDirty(image.Rect(px, py, px+1, py+1))
}

func (b *Buffer) Line(x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	render.Line(b.fb, ax, ay, bx, by, b.pen())
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) Rect(x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	render.Rect(b.fb, ax, ay, bx, by, b.pen())
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) FillRect(x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	fg, _ := b.colors()
	render.FillRect(b.fb, ax, ay, bx, by, fg, b.fmix)
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) RoundRect(x1, y1, x2, y2, rx, ry int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	render.RoundRect(b.fb, ax, ay, bx, by, rx, ry, b.pen())
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) FillRoundRect(x1, y1, x2, y2, rx, ry int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	fg, _ := b.colors()
	render.FillRoundRect(b.fb, ax, ay, bx, by, rx, ry, fg, b.fmix)
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) Ellipse(x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	render.Ellipse(b.fb, ax, ay, bx, by, b.pen())
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) FillEllipse(x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	fg, _ := b.colors()
	render.FillEllipse(b.fb, ax, ay, bx, by, fg, b.fmix)
	b.dirtyBox(ax, ay, bx, by)
}

// Arc draws the part of the ellipse bounded by x1, y1, x2, y2 between two
// angles in degrees, clockwise from the top.
func (b *Buffer) Arc(x1, y1, x2, y2 int, start, end float64) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	render.Arc(b.fb, ax, ay, bx, by, start, end, b.pen())
	b.dirtyBox(ax, ay, bx, by)
}

// FillArc fills the pie slice between two angles.
func (b *Buffer) FillArc(x1, y1, x2, y2 int, start, end float64) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	fg, _ := b.colors()
	render.FillArc(b.fb, ax, ay, bx, by, start, end, fg, b.fmix)
	b.dirtyBox(ax, ay, bx, by)
}

func (b *Buffer) FillTriangle(x1, y1, x2, y2, x3, y3 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	cx, cy := b.pt(x3, y3)
	fg, _ := b.colors()
	pts := []image.Point{{ax, ay}, {bx, by}, {cx, cy}}
	render.FillPolygon(b.fb, pts, fg, b.fmix)
	r := image.Rectangle{Min: pts[0], Max: pts[0].Add(image.Pt(1, 1))}
	for _, p := range pts[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	b.markDirty(r)
}

// Picture scales pic into the box x1, y1, x2, y2.
func (b *Buffer) Picture(pic *render.FrameBuffer, x1, y1, x2, y2 int) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	r := image.Rect(ax, ay, bx+1, by+1).Canon()
	render.DrawPicture(b.fb, pic, r)
	b.markDirty(r)
}
