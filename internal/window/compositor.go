package window

import (
	"image"

	"cellwin/internal/screen"
)

// Restore repaints the window from the display buffer: the whole client
// area, or r (0-based pixels) when whole is false. Client area outside the
// buffer is filled with the background colour. Unbuffered or hidden windows
// are left alone; their clients redraw on request.
func (c *Context) Restore(whole bool, r image.Rectangle) error {
	if c.closed {
		return ErrClosed
	}
	if !c.buffered || !c.Visible {
		return nil
	}
	d := c.Display()
	if d == nil {
		return ErrNoBuffer
	}
	client := image.Rect(0, 0, c.w, c.h)
	if whole {
		r = client
	} else {
		r = r.Intersect(client)
	}
	if r.Empty() {
		return nil
	}
	if err := c.surf.SetCaret(d.CaretRect(), false); err != nil {
		return err
	}
	fb := d.FrameBuffer()
	if in := r.Intersect(fb.Bounds()); !in.Empty() {
		if err := c.surf.Present(fb, in); err != nil {
			return err
		}
	}
	bg := d.BG()
	if d.Attr()&(screen.Reverse|screen.Standout) != 0 {
		bg = d.FG()
	}
	for _, s := range outside(r, fb.Bounds()) {
		if err := c.surf.Fill(s, bg); err != nil {
			return err
		}
	}
	return c.showCaret()
}

func (c *Context) showCaret() error {
	d := c.Display()
	on := c.Focused && d.CursorVisible() && d.InBounds()
	return c.surf.SetCaret(d.CaretRect(), on)
}

// outside returns the parts of r not covered by b: a strip right of b and a
// strip below it.
func outside(r, b image.Rectangle) []image.Rectangle {
	var out []image.Rectangle
	if right := image.Rect(b.Max.X, r.Min.Y, r.Max.X, r.Max.Y).Intersect(r); !right.Empty() {
		out = append(out, right)
	}
	if below := image.Rect(r.Min.X, b.Max.Y, min(r.Max.X, b.Max.X), r.Max.Y).Intersect(r); !below.Empty() {
		out = append(out, below)
	}
	return out
}
