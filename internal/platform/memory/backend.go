// Package memory is a headless platform. Windows draw into in-memory frame
// buffers and keep a log of the drawing operations, and notifications are
// injected by the caller. It backs tests and runs without a display.
package memory

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"cellwin/internal/intertask"
	"cellwin/internal/platform"
	"cellwin/internal/render"
	"cellwin/internal/ui"
)

var (
	ErrNoControl    = errors.New("memory: no such control")
	ErrControlLimit = errors.New("memory: control limit reached")
)

type Backend struct {
	mu      sync.Mutex
	mice    int
	joys    int
	next    platform.Handle
	windows map[int]*Window
	post    platform.Poster
	ready   chan struct{}
	once    sync.Once
	painter *ui.Painter
}

func New() *Backend {
	return &Backend{
		mice:    1,
		windows: map[int]*Window{},
		ready:   make(chan struct{}),
		painter: ui.NewPainter(),
	}
}

func (b *Backend) Name() string { return "memory" }

// SetDevices sets the number of mice and joysticks the platform reports.
func (b *Backend) SetDevices(mice, joysticks int) {
	b.mu.Lock()
	b.mice, b.joys = mice, joysticks
	b.mu.Unlock()
}

func (b *Backend) Mice() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mice
}

func (b *Backend) Joysticks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.joys
}

func (b *Backend) handle() platform.Handle {
	b.next++
	return b.next
}

func (b *Backend) CreateWindow(id int, cfg platform.WindowConfig) (platform.Window, error) {
	if cfg.WidthPx <= 0 || cfg.HeightPx <= 0 {
		return nil, fmt.Errorf("memory: bad window size %dx%d", cfg.WidthPx, cfg.HeightPx)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	w := &Window{
		b:        b,
		id:       id,
		handle:   b.handle(),
		title:    cfg.Title,
		visible:  cfg.Visible,
		fb:       render.NewFrameBuffer(cfg.WidthPx, cfg.HeightPx),
		controls: map[platform.Handle]*platform.Control{},
		menus:    map[int]MenuState{},
	}
	b.windows[id] = w
	return w, nil
}

// Run serves requests until done is closed. Notifications sent with Post
// before Run starts wait for it.
func (b *Backend) Run(post platform.Poster, calls <-chan func(), done <-chan struct{}) error {
	b.mu.Lock()
	b.post = post
	b.mu.Unlock()
	b.once.Do(func() { close(b.ready) })
	intertask.Serve(calls, done)
	return nil
}

// Post delivers n as if the native toolkit had produced it.
func (b *Backend) Post(n platform.Notification) {
	<-b.ready
	b.mu.Lock()
	post := b.post
	b.mu.Unlock()
	post(n)
}

func (b *Backend) emit(n platform.Notification) {
	b.mu.Lock()
	post := b.post
	b.mu.Unlock()
	if post != nil {
		post(n)
	}
}

// Window returns the native window created for the window id, or nil.
func (b *Backend) Window(id int) *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[id]
}

// Click presses and releases the primary button at pt in window id. A click
// on an enabled control posts the control's command instead of the mouse
// notifications.
func (b *Backend) Click(id int, pt image.Point) {
	w := b.Window(id)
	if w == nil {
		return
	}
	if h, cmd, v, ok := w.hit(pt); ok {
		b.Post(platform.Notification{Window: id, Kind: platform.KindCommand, A: int64(h), B: platform.PackCommand(cmd, v)})
		return
	}
	b.Post(platform.Notification{Window: id, Kind: platform.KindMouseMove, A: 1, B: platform.PackPoint(pt.X, pt.Y)})
	b.Post(platform.Notification{Window: id, Kind: platform.KindMouseButton, A: 1<<8 | 1, B: 1})
	b.Post(platform.Notification{Window: id, Kind: platform.KindMouseButton, A: 1<<8 | 1, B: 0})
}

// Type posts each rune of s as a character notification.
func (b *Backend) Type(id int, s string) {
	for _, r := range s {
		b.Post(platform.Notification{Window: id, Kind: platform.KindChar, A: int64(r)})
	}
}

// Op is one recorded drawing operation.
type Op struct {
	Name  string
	Rect  image.Rectangle
	Color color.RGBA
}

type MenuState struct {
	Enabled  bool
	Selected bool
}

type Window struct {
	b  *Backend
	mu sync.Mutex

	id       int
	handle   platform.Handle
	title    string
	visible  bool
	front    bool
	closed   bool
	fb       *render.FrameBuffer
	caret    image.Rectangle
	caretOn  bool
	ops      []Op
	controls map[platform.Handle]*platform.Control
	order    []platform.Handle
	limit    int
	menu     []platform.MenuItem
	menus    map[int]MenuState
}

func (w *Window) Handle() platform.Handle { return w.handle }

func (w *Window) SizePx() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fb.W, w.fb.H
}

// SetSizePx resizes the client area, keeping the overlapping pixels, and
// reports the new size.
func (w *Window) SetSizePx(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("memory: bad window size %dx%d", width, height)
	}
	w.mu.Lock()
	fb := render.NewFrameBuffer(width, height)
	fb.CopyFrom(w.fb, fb.Bounds())
	w.fb = fb
	w.mu.Unlock()
	w.b.emit(platform.Notification{Window: w.id, Kind: platform.KindResize, A: int64(width), B: int64(height)})
	return nil
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) SetVisible(on bool) error {
	w.mu.Lock()
	w.visible = on
	w.mu.Unlock()
	return nil
}

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) Raise(front bool) error {
	w.mu.Lock()
	w.front = front
	w.mu.Unlock()
	return nil
}

func (w *Window) Present(src *render.FrameBuffer, r image.Rectangle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("memory: window closed")
	}
	w.fb.CopyFrom(src, r)
	w.ops = append(w.ops, Op{Name: "present", Rect: r})
	w.paintControls(r)
	return nil
}

func (w *Window) Fill(r image.Rectangle, c color.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("memory: window closed")
	}
	w.fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
	w.ops = append(w.ops, Op{Name: "fill", Rect: r, Color: c})
	w.paintControls(r)
	return nil
}

func (w *Window) SetCaret(r image.Rectangle, visible bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.caret, w.caretOn = r, visible
	name := "hidecaret"
	if visible {
		name = "showcaret"
	}
	w.ops = append(w.ops, Op{Name: name, Rect: r})
	return nil
}

// Caret returns the caret rectangle and whether it is shown.
func (w *Window) Caret() (image.Rectangle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.caret, w.caretOn
}

// paintControls draws the controls overlapping r on top of the client area.
func (w *Window) paintControls(r image.Rectangle) {
	for _, h := range w.order {
		c := w.controls[h]
		if c.Rect.Overlaps(r) {
			w.b.painter.Paint(w.fb, *c)
		}
	}
}

// LimitControls makes CreateControl fail while the window holds n or more
// controls. Zero removes the limit.
func (w *Window) LimitControls(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limit = n
}

func (w *Window) CreateControl(c platform.Control) (platform.Handle, error) {
	w.mu.Lock()
	full := w.limit > 0 && len(w.controls) >= w.limit
	w.mu.Unlock()
	if full {
		return 0, ErrControlLimit
	}
	w.b.mu.Lock()
	h := w.b.handle()
	w.b.mu.Unlock()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.controls[h] = &c
	w.order = append(w.order, h)
	w.b.painter.Paint(w.fb, c)
	w.ops = append(w.ops, Op{Name: "control", Rect: c.Rect})
	return h, nil
}

func (w *Window) UpdateControl(h platform.Handle, c platform.Control) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.controls[h]; !ok {
		return fmt.Errorf("%w: %d", ErrNoControl, h)
	}
	w.controls[h] = &c
	w.b.painter.Paint(w.fb, c)
	return nil
}

func (w *Window) DestroyControl(h platform.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.controls[h]; !ok {
		return fmt.Errorf("%w: %d", ErrNoControl, h)
	}
	delete(w.controls, h)
	for i, o := range w.order {
		if o == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Control returns a copy of the control with handle h.
func (w *Window) Control(h platform.Handle) (platform.Control, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.controls[h]
	if !ok {
		return platform.Control{}, false
	}
	return *c, true
}

// Controls lists the live control handles in creation order.
func (w *Window) Controls() []platform.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]platform.Handle(nil), w.order...)
}

// hit finds the topmost control under pt and the command a click produces.
// Check boxes toggle themselves the way native ones do.
func (w *Window) hit(pt image.Point) (platform.Handle, platform.Command, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := len(w.order) - 1; i >= 0; i-- {
		h := w.order[i]
		c := w.controls[h]
		cmd, v, ok := ui.HitCommand(*c, pt)
		if !ok {
			continue
		}
		if c.Kind == platform.ControlCheckBox {
			c.Selected = v != 0
			w.b.painter.Paint(w.fb, *c)
		}
		return h, cmd, v, true
	}
	return 0, 0, 0, false
}

func (w *Window) SetMenu(items []platform.MenuItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.menu = items
	w.menus = map[int]MenuState{}
	var walk func([]platform.MenuItem)
	walk = func(items []platform.MenuItem) {
		for _, it := range items {
			if !it.Bar && len(it.Children) == 0 {
				w.menus[it.ID] = MenuState{Enabled: true}
			}
			walk(it.Children)
		}
	}
	walk(items)
	return nil
}

func (w *Window) UpdateMenu(id int, enabled, selected bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.menus[id]; !ok {
		return fmt.Errorf("memory: no menu item %d", id)
	}
	w.menus[id] = MenuState{Enabled: enabled, Selected: selected}
	return nil
}

// Menu returns the state of menu item id.
func (w *Window) Menu(id int) (MenuState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.menus[id]
	return s, ok
}

func (w *Window) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Snapshot returns a copy of the client area.
func (w *Window) Snapshot() *render.FrameBuffer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fb.Clone()
}

// Ops returns the drawing operations recorded so far and clears the log.
func (w *Window) Ops() []Op {
	w.mu.Lock()
	defer w.mu.Unlock()
	ops := w.ops
	w.ops = nil
	return ops
}
