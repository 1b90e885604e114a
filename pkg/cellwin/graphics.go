package cellwin

import (
	"fmt"

	"cellwin/internal/diag"
	"cellwin/internal/render"
	"cellwin/internal/screen"
	"cellwin/internal/window"
)

// Graphics take 1-based pixel coordinates in the update buffer, transformed
// by the view offset and scale, and draw in the foreground colour.

func (t *Terminal) Line(win, x1, y1, x2, y2 int) error {
	return t.draw("Line", win, func(b *screen.Buffer) error { b.Line(x1, y1, x2, y2); return nil })
}

// LineWidth sets the pen width used by outlines and lines.
func (t *Terminal) LineWidth(win, w int) error {
	return t.draw("LineWidth", win, func(b *screen.Buffer) error { b.SetLineWidth(w); return nil })
}

func (t *Terminal) Rect(win, x1, y1, x2, y2 int) error {
	return t.draw("Rect", win, func(b *screen.Buffer) error { b.Rect(x1, y1, x2, y2); return nil })
}

func (t *Terminal) FRect(win, x1, y1, x2, y2 int) error {
	return t.draw("FRect", win, func(b *screen.Buffer) error { b.FillRect(x1, y1, x2, y2); return nil })
}

// RRect draws a rectangle with corners rounded by radii rx, ry.
func (t *Terminal) RRect(win, x1, y1, x2, y2, rx, ry int) error {
	return t.draw("RRect", win, func(b *screen.Buffer) error { b.RoundRect(x1, y1, x2, y2, rx, ry); return nil })
}

func (t *Terminal) FRRect(win, x1, y1, x2, y2, rx, ry int) error {
	return t.draw("FRRect", win, func(b *screen.Buffer) error { b.FillRoundRect(x1, y1, x2, y2, rx, ry); return nil })
}

func (t *Terminal) Ellipse(win, x1, y1, x2, y2 int) error {
	return t.draw("Ellipse", win, func(b *screen.Buffer) error { b.Ellipse(x1, y1, x2, y2); return nil })
}

func (t *Terminal) FEllipse(win, x1, y1, x2, y2 int) error {
	return t.draw("FEllipse", win, func(b *screen.Buffer) error { b.FillEllipse(x1, y1, x2, y2); return nil })
}

// Arc draws part of the ellipse inside x1, y1, x2, y2 from angle start to
// end, in degrees clockwise from the top.
func (t *Terminal) Arc(win, x1, y1, x2, y2 int, start, end float64) error {
	return t.draw("Arc", win, func(b *screen.Buffer) error { b.Arc(x1, y1, x2, y2, start, end); return nil })
}

func (t *Terminal) FArc(win, x1, y1, x2, y2 int, start, end float64) error {
	return t.draw("FArc", win, func(b *screen.Buffer) error { b.FillArc(x1, y1, x2, y2, start, end); return nil })
}

func (t *Terminal) FTriangle(win, x1, y1, x2, y2, x3, y3 int) error {
	return t.draw("FTriangle", win, func(b *screen.Buffer) error {
		b.FillTriangle(x1, y1, x2, y2, x3, y3)
		return nil
	})
}

func (t *Terminal) Pixel(win, x, y int) error {
	return t.draw("Pixel", win, func(b *screen.Buffer) error { b.SetPixel(x, y); return nil })
}

// LoadPicture reads a PNG, JPEG, GIF or BMP file and registers it with win
// under id.
func (t *Terminal) LoadPicture(win, id int, path string) error {
	const op = "LoadPicture"
	pic, err := render.LoadPicture(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	c, werr := t.window(op, win)
	if werr != nil {
		return werr
	}
	if err != nil {
		return t.fail(op, diag.InvalidReference, err)
	}
	return t.fail(op, diag.StateConflict, c.Pictures.Register(id, 0, pic))
}

// Picture draws picture id scaled into the box x1, y1, x2, y2.
func (t *Terminal) Picture(win, id, x1, y1, x2, y2 int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	const op = "Picture"
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	pic, err := c.Pictures.Find(id)
	if err != nil {
		return t.fail(op, diag.InvalidReference, fmt.Errorf("picture %d: %w", id, err))
	}
	c.Update().Picture(pic, x1, y1, x2, y2)
	return t.fail(op, diag.NativeFailure, c.Flush())
}

func (t *Terminal) DelPicture(win, id int) error {
	return t.context("DelPicture", win, diag.InvalidReference, func(c *window.Context) error {
		_, err := c.Pictures.Remove(id)
		return err
	})
}

// PictureSize returns the pixel size of picture id.
func (t *Terminal) PictureSize(win, id int) (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	const op = "PictureSize"
	c, err := t.window(op, win)
	if err != nil {
		return 0, 0, err
	}
	pic, err := c.Pictures.Find(id)
	if err != nil {
		return 0, 0, t.fail(op, diag.InvalidReference, fmt.Errorf("picture %d: %w", id, err))
	}
	return pic.W, pic.H, nil
}
