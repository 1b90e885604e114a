// Package window holds the per window state: screen buffers, buffering mode,
// registries and input state, plus the compositor that copies the display
// buffer to the native surface.
package window

import (
	"errors"
	"image"
	"image/color"
	"time"

	"cellwin/internal/event"
	"cellwin/internal/linedit"
	"cellwin/internal/platform"
	"cellwin/internal/registry"
	"cellwin/internal/render"
	"cellwin/internal/screen"
)

var (
	ErrBadScreen  = errors.New("window: screen number out of range")
	ErrNoBuffer   = errors.New("window: screen buffer not allocated")
	ErrUnbuffered = errors.New("window: operation needs buffered mode")
	ErrClosed     = errors.New("window: closed")
)

// Surface is the native side of a window as the compositor sees it.
type Surface interface {
	Present(src *render.FrameBuffer, r image.Rectangle) error
	Fill(r image.Rectangle, c color.RGBA) error
	SetCaret(r image.Rectangle, visible bool) error
}

// Widget is a registered widget. Composite widgets carry a second native
// control, the buddy.
type Widget struct {
	Kind        event.WidgetKind
	Handle      platform.Handle
	Control     platform.Control
	BuddyHandle platform.Handle
	Buddy       platform.Control
}

func (w *Widget) HasBuddy() bool { return w.BuddyHandle != 0 }

type MenuEntry struct {
	OnOff    bool
	OneOf    bool
	Enabled  bool
	Selected bool
	// Group lists the ids of the one-of group the entry belongs to.
	Group []int
}

type Timer struct {
	Period time.Duration
	Repeat bool
	// Gen tells expiries of this arming apart from those of an earlier
	// timer with the same id.
	Gen  int64
	Stop func() bool
}

type Setup struct {
	ID     int
	Parent int
	Input  int
	// MaxScreens bounds the screen numbers SelectScreen accepts.
	MaxScreens int
	// BufferW and BufferH are the pixel extents of buffered screens.
	BufferW, BufferH int
	// WidthPx and HeightPx are the window's client area.
	WidthPx, HeightPx int
	Defaults          screen.Defaults
	Buffered          bool
	Visible           bool
}

type Context struct {
	ID     int
	Parent int
	Input  int
	Native platform.Window

	surf     Surface
	screens  []*screen.Buffer
	upd      int
	disp     int
	buffered bool
	retained *screen.Buffer
	bufW     int
	bufH     int
	w, h     int
	defaults screen.Defaults

	Visible bool
	Focused bool
	closed  bool

	Widgets  *registry.Registry[*Widget]
	Menus    *registry.Registry[*MenuEntry]
	Timers   *registry.Registry[*Timer]
	Pictures *registry.Registry[*render.FrameBuffer]
	Line     *linedit.Line
	Shadow   *event.Shadow
}

// New builds a context whose first screen is both update and display
// buffer. Nothing is presented until the first Restore or Flush.
func New(s Setup, surf Surface) *Context {
	c := &Context{
		ID:       s.ID,
		Parent:   s.Parent,
		Input:    s.Input,
		surf:     surf,
		screens:  make([]*screen.Buffer, max(s.MaxScreens, 1)),
		upd:      1,
		disp:     1,
		buffered: s.Buffered,
		bufW:     s.BufferW,
		bufH:     s.BufferH,
		w:        s.WidthPx,
		h:        s.HeightPx,
		defaults: s.Defaults,
		Visible:  s.Visible,
		Widgets:  registry.New[*Widget](),
		Menus:    registry.New[*MenuEntry](),
		Timers:   registry.New[*Timer](),
		Pictures: registry.New[*render.FrameBuffer](),
		Line:     linedit.New(),
		Shadow:   event.NewShadow(s.ID),
	}
	if c.bufW <= 0 || c.bufH <= 0 {
		c.bufW, c.bufH = c.w, c.h
	}
	if c.buffered {
		c.screens[0] = screen.New(c.bufW, c.bufH, c.defaults)
	} else {
		c.retained = screen.New(c.w, c.h, c.defaults)
	}
	return c
}

func (c *Context) Buffered() bool { return c.buffered }

// SizePx returns the client area in pixels.
func (c *Context) SizePx() (int, int) { return c.w, c.h }

// Update returns the buffer drawing operations go to.
func (c *Context) Update() *screen.Buffer {
	if !c.buffered {
		return c.retained
	}
	return c.screens[c.upd-1]
}

// Display returns the buffer shown in the window.
func (c *Context) Display() *screen.Buffer {
	if !c.buffered {
		return c.retained
	}
	return c.screens[c.disp-1]
}

func (c *Context) Screens() (update, display int) { return c.upd, c.disp }

// Buffers returns every allocated buffer keyed by screen number, for dumps.
func (c *Context) Buffers() map[int]*screen.Buffer {
	if c.closed {
		return nil
	}
	if !c.buffered {
		return map[int]*screen.Buffer{1: c.retained}
	}
	out := map[int]*screen.Buffer{}
	for i, b := range c.screens {
		if b != nil {
			out[i+1] = b
		}
	}
	return out
}

// SelectScreen chooses the update and display screens, allocating them from
// the defaults on first use. Changing the display screen repaints the window.
func (c *Context) SelectScreen(update, display int) error {
	if c.closed {
		return ErrClosed
	}
	if !c.buffered {
		return ErrUnbuffered
	}
	n := len(c.screens)
	if update < 1 || update > n || display < 1 || display > n {
		return ErrBadScreen
	}
	for _, i := range []int{update, display} {
		if c.screens[i-1] == nil {
			c.screens[i-1] = screen.New(c.bufW, c.bufH, c.defaults)
		}
	}
	changed := display != c.disp
	c.upd, c.disp = update, display
	if changed {
		return c.Restore(true, image.Rectangle{})
	}
	return nil
}

// Flush presents what changed in the update buffer when it is on display.
// Changes to a hidden buffer are dropped; they show when it is selected.
func (c *Context) Flush() error {
	if c.closed {
		return ErrClosed
	}
	u := c.Update()
	r := u.TakeDirty()
	if u != c.Display() || !c.Visible {
		return nil
	}
	if !r.Empty() {
		if err := c.surf.Present(u.FrameBuffer(), r); err != nil {
			return err
		}
	}
	return c.showCaret()
}

func (c *Context) Clear() error {
	c.Update().Clear()
	return c.Flush()
}

func (c *Context) Scroll(dx, dy int) error {
	c.Update().Scroll(dx, dy)
	return c.Flush()
}

// SetBuffered switches buffering. Leaving buffered mode keeps a single
// buffer sized to the window seeded from the display screen; entering it
// seeds screen 1 from that buffer.
func (c *Context) SetBuffered(on bool) error {
	if c.closed {
		return ErrClosed
	}
	if on == c.buffered {
		return nil
	}
	if !on {
		r := c.Display().Clone()
		r.Resize(c.w, c.h)
		c.retained = r
		for i := range c.screens {
			c.screens[i] = nil
		}
		c.buffered = false
		c.upd, c.disp = 1, 1
		r.TakeDirty()
		if !c.Visible {
			return nil
		}
		if err := c.surf.Present(r.FrameBuffer(), r.FrameBuffer().Bounds()); err != nil {
			return err
		}
		return c.showCaret()
	}
	b := c.retained.Clone()
	b.Resize(c.bufW, c.bufH)
	c.screens[0] = b
	c.retained = nil
	c.buffered = true
	c.upd, c.disp = 1, 1
	return c.Restore(true, image.Rectangle{})
}

// Resize records a new client area. An unbuffered window's buffer follows
// the window; buffered screens keep their size and are recomposited.
func (c *Context) Resize(w, h int) error {
	if c.closed {
		return ErrClosed
	}
	c.w, c.h = w, h
	if c.buffered {
		return c.Restore(true, image.Rectangle{})
	}
	c.retained.Resize(w, h)
	r := c.retained.TakeDirty()
	if !c.Visible || r.Empty() {
		return nil
	}
	return c.surf.Present(c.retained.FrameBuffer(), r)
}

// SetFocus records focus and moves the caret accordingly.
func (c *Context) SetFocus(on bool) error {
	c.Focused = on
	if c.closed || !c.Visible {
		return nil
	}
	return c.showCaret()
}

// Close releases buffers and registries. The native window is closed by the
// caller.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, id := range c.Timers.IDs() {
		if t, err := c.Timers.Find(id); err == nil && t.Stop != nil {
			t.Stop()
		}
	}
	c.Widgets.Clear()
	c.Menus.Clear()
	c.Timers.Clear()
	c.Pictures.Clear()
	for i := range c.screens {
		c.screens[i] = nil
	}
	c.retained = nil
}

func (c *Context) Closed() bool { return c.closed }

// CellSize is the character cell of the update buffer's font.
func (c *Context) CellSize() (int, int) {
	if c.closed {
		return 1, 1
	}
	f := c.Update().Face()
	return f.CellW, f.CellH
}
