package cellwin

import (
	"fmt"
	"image"
	"image/color"

	"cellwin/internal/diag"
	"cellwin/internal/platform"
	"cellwin/internal/render"
	"cellwin/internal/window"
)

// WindowOptions describes a window to open. Zero fields take the
// configured defaults.
type WindowOptions struct {
	// ID is the window id; zero picks the lowest free id.
	ID int
	// Parent is the id of the window this one is opened inside of, or zero.
	Parent int
	// Input is the input stream the window's events are delivered to. Zero
	// means the parent's stream, or the window's own id without a parent.
	Input   int
	Title   string
	Columns int
	Rows    int
	Hidden  bool
}

// surface presents a window's buffers through the native context.
type surface struct {
	t  *Terminal
	nw platform.Window
}

func (s *surface) Present(src *render.FrameBuffer, r image.Rectangle) error {
	return s.t.call("Present", func() error { return s.nw.Present(src, r) })
}

func (s *surface) Fill(r image.Rectangle, c color.RGBA) error {
	return s.t.call("Fill", func() error { return s.nw.Fill(r, c) })
}

func (s *surface) SetCaret(r image.Rectangle, visible bool) error {
	return s.t.call("SetCaret", func() error { return s.nw.SetCaret(r, visible) })
}

// OpenWindow opens a window and returns its id. The native window is created
// without holding the Terminal lock.
func (t *Terminal) OpenWindow(o WindowOptions) (int, error) {
	const op = "OpenWindow"
	t.mu.Lock()
	if t.closed {
		defer t.mu.Unlock()
		return 0, t.fail(op, diag.StateConflict, ErrClosed)
	}
	id := o.ID
	if id == 0 {
		for id = 1; t.windows[id] != nil || t.opening[id]; id++ {
		}
	}
	if t.windows[id] != nil || t.opening[id] {
		defer t.mu.Unlock()
		return 0, t.fail(op, diag.StateConflict, fmt.Errorf("%w: %d", ErrWindowExists, id))
	}
	input := o.Input
	var parent platform.Handle
	if o.Parent != 0 {
		pc, ok := t.windows[o.Parent]
		if !ok {
			defer t.mu.Unlock()
			return 0, t.fail(op, diag.InvalidReference, fmt.Errorf("%w: parent %d", ErrNoWindow, o.Parent))
		}
		parent = pc.Native.Handle()
		if input == 0 {
			input = pc.Input
		}
	}
	if input == 0 {
		input = id
	}
	cols, rows := o.Columns, o.Rows
	if cols <= 0 {
		cols = t.cfg.Columns
	}
	if rows <= 0 {
		rows = t.cfg.Rows
	}
	title := o.Title
	if title == "" {
		title = t.cfg.Title
	}
	w, h := cols*t.face.CellW, rows*t.face.CellH
	bw, bh := t.cfg.Columns*t.face.CellW, t.cfg.Rows*t.face.CellH
	wc := platform.WindowConfig{
		Title:       title,
		WidthPx:     w,
		HeightPx:    h,
		MinWidthPx:  t.face.CellW,
		MinHeightPx: t.face.CellH,
		Parent:      parent,
		Visible:     !o.Hidden,
	}
	t.opening[id] = true
	t.mu.Unlock()

	var nw platform.Window
	err := t.call(op, func() (err error) {
		nw, err = t.plat.CreateWindow(id, wc)
		return err
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.opening, id)
	if err != nil {
		return 0, t.fail(op, diag.NativeFailure, err)
	}
	if t.closed {
		_ = t.call(op, func() error { nw.Close(); return nil })
		return 0, t.fail(op, diag.StateConflict, ErrClosed)
	}
	c := window.New(window.Setup{
		ID:         id,
		Parent:     o.Parent,
		Input:      input,
		MaxScreens: t.cfg.MaxScreens,
		BufferW:    max(bw, w),
		BufferH:    max(bh, h),
		WidthPx:    w,
		HeightPx:   h,
		Defaults:   t.defaults,
		Buffered:   t.cfg.Buffered,
		Visible:    !o.Hidden,
	}, &surface{t: t, nw: nw})
	c.Native = nw
	t.windows[id] = c
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		return id, t.fail(op, diag.NativeFailure, err)
	}
	if !c.Buffered() {
		return id, t.fail(op, diag.NativeFailure, c.Flush())
	}
	return id, nil
}

// CloseWindow closes a window and every window opened inside it.
func (t *Terminal) CloseWindow(win int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.window("CloseWindow", win); err != nil {
		return err
	}
	return t.fail("CloseWindow", diag.NativeFailure, t.closeWindow(win))
}

// closeWindow releases win and its children. Native failures are returned
// after everything has been released.
func (t *Terminal) closeWindow(win int) error {
	c, ok := t.windows[win]
	if !ok {
		return nil
	}
	var first error
	for _, id := range t.windowIDs() {
		if cc := t.windows[id]; cc != nil && cc.Parent == win {
			if err := t.closeWindow(id); err != nil && first == nil {
				first = err
			}
		}
	}
	if stop, ok := t.frames[win]; ok {
		stop()
		delete(t.frames, win)
	}
	c.Close()
	delete(t.windows, win)
	if err := t.call("CloseWindow", func() error { c.Native.Close(); return nil }); err != nil && first == nil {
		first = err
	}
	return first
}

// nativeOp runs fn against win's native window on the native context.
func (t *Terminal) nativeOp(op string, win int, fn func(c *window.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	return t.fail(op, diag.NativeFailure, t.call(op, func() error { return fn(c) }))
}

func (t *Terminal) SetTitle(win int, title string) error {
	return t.nativeOp("SetTitle", win, func(c *window.Context) error {
		c.Native.SetTitle(title)
		return nil
	})
}

// SetSize resizes the window's client area to cols by rows characters of
// the update buffer's font.
func (t *Terminal) SetSize(win, cols, rows int) error {
	return t.nativeOp("SetSize", win, func(c *window.Context) error {
		cw, ch := c.CellSize()
		return c.Native.SetSizePx(cols*cw, rows*ch)
	})
}

// SetSizeG resizes the window's client area in pixels.
func (t *Terminal) SetSizeG(win, w, h int) error {
	return t.nativeOp("SetSizeG", win, func(c *window.Context) error {
		return c.Native.SetSizePx(w, h)
	})
}

func (t *Terminal) Front(win int) error {
	return t.nativeOp("Front", win, func(c *window.Context) error { return c.Native.Raise(true) })
}

func (t *Terminal) Back(win int) error {
	return t.nativeOp("Back", win, func(c *window.Context) error { return c.Native.Raise(false) })
}

// SetVisible shows or hides a window. A window shown again is repainted from
// its display buffer.
func (t *Terminal) SetVisible(win int, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	const op = "SetVisible"
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	if err := t.call(op, func() error { return c.Native.SetVisible(on) }); err != nil {
		return t.fail(op, diag.NativeFailure, err)
	}
	was := c.Visible
	c.Visible = on
	if on && !was {
		return t.fail(op, diag.NativeFailure, c.Restore(true, image.Rectangle{}))
	}
	return nil
}

// Buffered switches a window between buffered and direct drawing.
func (t *Terminal) Buffered(win int, on bool) error {
	return t.context("Buffered", win, diag.StateConflict, func(c *window.Context) error {
		return c.SetBuffered(on)
	})
}

// SelectScreen chooses the screens drawn to and shown, 1 to MaxScreens.
func (t *Terminal) SelectScreen(win, update, display int) error {
	return t.context("SelectScreen", win, diag.StateConflict, func(c *window.Context) error {
		return c.SelectScreen(update, display)
	})
}

// Restore repaints the whole window from its display buffer.
func (t *Terminal) Restore(win int) error {
	return t.context("Restore", win, diag.NativeFailure, func(c *window.Context) error {
		return c.Restore(true, image.Rectangle{})
	})
}

func (t *Terminal) context(op string, win int, code diag.Code, fn func(c *window.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	return t.fail(op, code, fn(c))
}
