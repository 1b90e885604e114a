package cellwin

import (
	"fmt"
	"image/color"

	"cellwin/internal/diag"
	"cellwin/internal/render"
	"cellwin/internal/screen"
	"cellwin/internal/ui"
	"cellwin/internal/window"
)

// Attribute bits accepted by SetAttr.
type Attr = screen.Attr

const (
	Bold        = screen.Bold
	Italic      = screen.Italic
	Underline   = screen.Underline
	Strikeout   = screen.Strikeout
	Reverse     = screen.Reverse
	Blink       = screen.Blink
	Standout    = screen.Standout
	Subscript   = screen.Subscript
	Superscript = screen.Superscript
)

type Mix = render.Mix

const (
	MixOverwrite = render.MixOverwrite
	MixInvisible = render.MixInvisible
	MixXor       = render.MixXor
)

// draw runs fn against win's update buffer and presents what it changed.
func (t *Terminal) draw(op string, win int, fn func(b *screen.Buffer) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	if err := fn(c.Update()); err != nil {
		return t.fail(op, diag.StateConflict, err)
	}
	return t.fail(op, diag.NativeFailure, c.Flush())
}

// query reads from win's update buffer.
func (t *Terminal) query(op string, win int, fn func(b *screen.Buffer) int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return 0, err
	}
	return fn(c.Update()), nil
}

func (t *Terminal) Write(win int, r rune) error {
	return t.draw("Write", win, func(b *screen.Buffer) error { b.Write(r); return nil })
}

func (t *Terminal) WriteString(win int, s string) error {
	return t.draw("WriteString", win, func(b *screen.Buffer) error { b.WriteString(s); return nil })
}

func (t *Terminal) Printf(win int, format string, args ...any) error {
	return t.WriteString(win, fmt.Sprintf(format, args...))
}

// Cursor moves the cursor to column x, row y (1-based). With auto off the
// position may lie outside the buffer.
func (t *Terminal) Cursor(win, x, y int) error {
	return t.draw("Cursor", win, func(b *screen.Buffer) error { return b.Cursor(x, y) })
}

// CursorG moves the cursor to pixel x, y (1-based). It fails while auto is
// on.
func (t *Terminal) CursorG(win, x, y int) error {
	return t.draw("CursorG", win, func(b *screen.Buffer) error { return b.CursorG(x, y) })
}

func (t *Terminal) Home(win int) error {
	return t.draw("Home", win, func(b *screen.Buffer) error { b.Home(); return nil })
}

func (t *Terminal) Up(win int) error {
	return t.draw("Up", win, func(b *screen.Buffer) error { b.Up(); return nil })
}

func (t *Terminal) Down(win int) error {
	return t.draw("Down", win, func(b *screen.Buffer) error { b.Down(); return nil })
}

func (t *Terminal) Left(win int) error {
	return t.draw("Left", win, func(b *screen.Buffer) error { b.Left(); return nil })
}

func (t *Terminal) Right(win int) error {
	return t.draw("Right", win, func(b *screen.Buffer) error { b.Right(); return nil })
}

// Del moves left and erases the character there.
func (t *Terminal) Del(win int) error {
	return t.draw("Del", win, func(b *screen.Buffer) error { b.Del(); return nil })
}

func (t *Terminal) Clear(win int) error {
	return t.context("Clear", win, diag.NativeFailure, (*window.Context).Clear)
}

// Scroll moves the contents of the update buffer by dx, dy characters;
// positive values scroll up and to the left.
func (t *Terminal) Scroll(win, dx, dy int) error {
	return t.context("Scroll", win, diag.NativeFailure, func(c *window.Context) error {
		return c.Scroll(dx, dy)
	})
}

func (t *Terminal) ScrollG(win, dx, dy int) error {
	return t.draw("ScrollG", win, func(b *screen.Buffer) error { b.ScrollG(dx, dy); return nil })
}

// Auto turns automatic wrapping and scrolling on or off.
func (t *Terminal) Auto(win int, on bool) error {
	return t.draw("Auto", win, func(b *screen.Buffer) error { return b.SetAuto(on) })
}

func (t *Terminal) CursorVisible(win int, on bool) error {
	return t.draw("CursorVisible", win, func(b *screen.Buffer) error {
		b.SetCursorVisible(on)
		return nil
	})
}

func (t *Terminal) SetTab(win, x int) error {
	return t.draw("SetTab", win, func(b *screen.Buffer) error { return b.SetTab(x) })
}

func (t *Terminal) ResetTab(win, x int) error {
	return t.draw("ResetTab", win, func(b *screen.Buffer) error { return b.ResetTab(x) })
}

func (t *Terminal) ClearTabs(win int) error {
	return t.draw("ClearTabs", win, func(b *screen.Buffer) error { b.ClearTabs(); return nil })
}

// SetAttr turns attribute a on or off for text written afterwards.
func (t *Terminal) SetAttr(win int, a Attr, on bool) error {
	return t.draw("SetAttr", win, func(b *screen.Buffer) error { b.SetAttr(a, on); return nil })
}

func (t *Terminal) Bold(win int, on bool) error        { return t.SetAttr(win, Bold, on) }
func (t *Terminal) Italic(win int, on bool) error      { return t.SetAttr(win, Italic, on) }
func (t *Terminal) Underline(win int, on bool) error   { return t.SetAttr(win, Underline, on) }
func (t *Terminal) Strikeout(win int, on bool) error   { return t.SetAttr(win, Strikeout, on) }
func (t *Terminal) Reverse(win int, on bool) error     { return t.SetAttr(win, Reverse, on) }
func (t *Terminal) Blink(win int, on bool) error       { return t.SetAttr(win, Blink, on) }
func (t *Terminal) Standout(win int, on bool) error    { return t.SetAttr(win, Standout, on) }
func (t *Terminal) Subscript(win int, on bool) error   { return t.SetAttr(win, Subscript, on) }
func (t *Terminal) Superscript(win int, on bool) error { return t.SetAttr(win, Superscript, on) }

func named(name string) (color.RGBA, error) {
	c, ok := ui.Named(name)
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, name)
	}
	return c, nil
}

// FColor sets the foreground to a named colour: black, white, red, green,
// blue, cyan, yellow, magenta or backcolor.
func (t *Terminal) FColor(win int, name string) error {
	return t.draw("FColor", win, func(b *screen.Buffer) error {
		c, err := named(name)
		if err != nil {
			return err
		}
		b.SetFG(c)
		return nil
	})
}

func (t *Terminal) BColor(win int, name string) error {
	return t.draw("BColor", win, func(b *screen.Buffer) error {
		c, err := named(name)
		if err != nil {
			return err
		}
		b.SetBG(c)
		return nil
	})
}

// FColorRGB sets the foreground from red, green and blue ratios in [0, 1].
func (t *Terminal) FColorRGB(win int, r, g, bl float64) error {
	return t.draw("FColorRGB", win, func(b *screen.Buffer) error {
		b.SetFG(ui.Ratio(r, g, bl))
		return nil
	})
}

func (t *Terminal) BColorRGB(win int, r, g, bl float64) error {
	return t.draw("BColorRGB", win, func(b *screen.Buffer) error {
		b.SetBG(ui.Ratio(r, g, bl))
		return nil
	})
}

func (t *Terminal) FMix(win int, m Mix) error {
	return t.draw("FMix", win, func(b *screen.Buffer) error { b.SetFGMix(m); return nil })
}

func (t *Terminal) BMix(win int, m Mix) error {
	return t.draw("BMix", win, func(b *screen.Buffer) error { b.SetBGMix(m); return nil })
}

// Font selects the monospaced face at size points; zero selects the fixed
// 7x13 face. The character grid is laid out again.
func (t *Terminal) Font(win int, size float64) error {
	return t.draw("Font", win, func(b *screen.Buffer) error {
		if size <= 0 {
			b.SetFace(render.FixedFace())
		} else {
			b.SetFace(render.NewFace(size))
		}
		return nil
	})
}

func (t *Terminal) ViewOffset(win, x, y int) error {
	return t.draw("ViewOffset", win, func(b *screen.Buffer) error { b.SetViewOffset(x, y); return nil })
}

func (t *Terminal) ViewScale(win int, s float64) error {
	return t.draw("ViewScale", win, func(b *screen.Buffer) error { b.SetViewScale(s); return nil })
}

func (t *Terminal) MaxX(win int) (int, error) {
	return t.query("MaxX", win, func(b *screen.Buffer) int { x, _ := b.Size(); return x })
}

func (t *Terminal) MaxY(win int) (int, error) {
	return t.query("MaxY", win, func(b *screen.Buffer) int { _, y := b.Size(); return y })
}

func (t *Terminal) MaxXG(win int) (int, error) {
	return t.query("MaxXG", win, func(b *screen.Buffer) int { x, _ := b.SizeG(); return x })
}

func (t *Terminal) MaxYG(win int) (int, error) {
	return t.query("MaxYG", win, func(b *screen.Buffer) int { _, y := b.SizeG(); return y })
}

func (t *Terminal) CurX(win int) (int, error) {
	return t.query("CurX", win, func(b *screen.Buffer) int { x, _ := b.CursorPos(); return x })
}

func (t *Terminal) CurY(win int) (int, error) {
	return t.query("CurY", win, func(b *screen.Buffer) int { _, y := b.CursorPos(); return y })
}

func (t *Terminal) CurXG(win int) (int, error) {
	return t.query("CurXG", win, func(b *screen.Buffer) int { x, _ := b.CursorPosG(); return x })
}

func (t *Terminal) CurYG(win int) (int, error) {
	return t.query("CurYG", win, func(b *screen.Buffer) int { _, y := b.CursorPosG(); return y })
}

func (t *Terminal) CharW(win int) (int, error) {
	return t.query("CharW", win, func(b *screen.Buffer) int { return b.Face().CellW })
}

func (t *Terminal) CharH(win int) (int, error) {
	return t.query("CharH", win, func(b *screen.Buffer) int { return b.Face().CellH })
}

// TextWidth is the width of s in pixels in the current face.
func (t *Terminal) TextWidth(win int, s string) (int, error) {
	return t.query("TextWidth", win, func(b *screen.Buffer) int { return b.TextWidth(s) })
}

// Row returns the text of row y of the update buffer, trailing blanks
// removed.
func (t *Terminal) Row(win, y int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window("Row", win)
	if err != nil {
		return "", err
	}
	return c.Update().Row(y), nil
}
