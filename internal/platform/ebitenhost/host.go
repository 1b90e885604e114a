// Package ebitenhost runs cellwin windows inside one Ebitengine window. The
// first window opened without a parent fills the host window; every other
// window is a pane drawn over it with its own title bar.
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"cellwin/internal/platform"
	"cellwin/internal/render"
	"cellwin/internal/ui"
)

const (
	titleHeight = 17
	menuHeight  = 19
	// cascade is the offset between successive panes.
	cascade   = 24
	blinkRate = 30
)

// Host implements platform.Platform with Ebitengine. Everything except
// Run executes on the game loop.
type Host struct {
	title   string
	post    platform.Poster
	calls   <-chan func()
	done    <-chan struct{}
	next    platform.Handle
	panes   []*pane // bottom to top
	root    *pane
	focus   *pane
	painter *ui.Painter

	outW, outH int
	tick       int
	focused    bool
	minimized  bool
	maximized  bool
	closing    bool

	mouse mouseState
	menus []dropdown
	pads  []*padState
}

func New(title string) *Host {
	return &Host{title: title, painter: ui.NewPainter(), focused: true}
}

func (h *Host) Name() string { return "ebiten" }

func (h *Host) Mice() int { return 1 }

func (h *Host) Joysticks() int { return len(ebiten.AppendGamepadIDs(nil)) }

// Run drives the game loop on the calling goroutine until done is closed.
func (h *Host) Run(post platform.Poster, calls <-chan func(), done <-chan struct{}) error {
	h.post, h.calls, h.done = post, calls, done
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (h *Host) emit(n platform.Notification) {
	if h.post != nil {
		h.post(n)
	}
}

func (h *Host) handle() platform.Handle {
	h.next++
	return h.next
}

func (h *Host) CreateWindow(id int, cfg platform.WindowConfig) (platform.Window, error) {
	if cfg.WidthPx <= 0 || cfg.HeightPx <= 0 {
		return nil, fmt.Errorf("ebitenhost: bad window size %dx%d", cfg.WidthPx, cfg.HeightPx)
	}
	p := &pane{
		h:        h,
		id:       id,
		handle:   h.handle(),
		title:    cfg.Title,
		visible:  cfg.Visible,
		fb:       render.NewFrameBuffer(cfg.WidthPx, cfg.HeightPx),
		controls: map[platform.Handle]*platform.Control{},
		menus:    map[int]menuState{},
		dirty:    true,
	}
	if h.root == nil && cfg.Parent == 0 {
		h.root = p
		p.isRoot = true
		ebiten.SetWindowTitle(cfg.Title)
		ebiten.SetWindowSize(p.frameSize().X, p.frameSize().Y)
		if cfg.MinWidthPx > 0 && cfg.MinHeightPx > 0 {
			ebiten.SetWindowSizeLimits(cfg.MinWidthPx, cfg.MinHeightPx, -1, -1)
		}
	} else {
		origin := image.Point{}
		if par := h.byHandle(cfg.Parent); par != nil {
			origin = par.pos.Add(par.clientOffset())
		}
		n := len(h.panes)
		p.pos = origin.Add(image.Pt(cascade*n, cascade*n))
	}
	h.panes = append(h.panes, p)
	if h.focus == nil {
		h.focus = p
	}
	return p, nil
}

func (h *Host) byHandle(hd platform.Handle) *pane {
	for _, p := range h.panes {
		if p.handle == hd {
			return p
		}
	}
	return nil
}

func (h *Host) unlink(p *pane) {
	for i, o := range h.panes {
		if o == p {
			h.panes = append(h.panes[:i], h.panes[i+1:]...)
			return
		}
	}
}

func (h *Host) remove(p *pane) {
	h.unlink(p)
	if h.root == p {
		h.root = nil
	}
	if h.focus == p {
		h.focus = nil
		if n := len(h.panes); n > 0 {
			h.focus = h.panes[n-1]
		}
	}
	if h.mouse.capture == p {
		h.mouse.capture = nil
	}
	h.menus = nil
}

// raise moves p to the top, or just above the root pane for the back.
func (h *Host) raise(p *pane, front bool) {
	if p.isRoot {
		return
	}
	h.unlink(p)
	if front {
		h.panes = append(h.panes, p)
	} else {
		at := 0
		if len(h.panes) > 0 && h.panes[0].isRoot {
			at = 1
		}
		h.panes = append(h.panes[:at], append([]*pane{p}, h.panes[at:]...)...)
	}
}

// setFocus moves keyboard focus to p and reports the change to both panes.
func (h *Host) setFocus(p *pane) {
	if h.focus == p {
		return
	}
	if h.focus != nil {
		h.emit(platform.Notification{Window: h.focus.id, Kind: platform.KindBlur})
	}
	h.focus = p
	if p != nil {
		h.emit(platform.Notification{Window: p.id, Kind: platform.KindFocus})
	}
}

func (h *Host) Update() error {
	select {
	case <-h.done:
		return ebiten.Termination
	default:
	}
	h.tick++
	h.serve()
	h.windowState()
	h.keyboard()
	h.pointer()
	h.gamepads()
	return nil
}

// serve runs the requests queued since the last frame.
func (h *Host) serve() {
	for {
		select {
		case fn := <-h.calls:
			fn()
		default:
			return
		}
	}
}

func (h *Host) windowState() {
	if ebiten.IsWindowBeingClosed() && !h.closing {
		h.closing = true
		id := 0
		if h.root != nil {
			id = h.root.id
		}
		h.emit(platform.Notification{Window: id, Kind: platform.KindClose})
	}
	if f := ebiten.IsFocused(); f != h.focused {
		h.focused = f
		if h.focus != nil {
			k := platform.KindBlur
			if f {
				k = platform.KindFocus
			}
			h.emit(platform.Notification{Window: h.focus.id, Kind: k})
		}
	}
	if h.root == nil {
		return
	}
	mn, mx := ebiten.IsWindowMinimized(), ebiten.IsWindowMaximized()
	switch {
	case mn && !h.minimized:
		h.emit(platform.Notification{Window: h.root.id, Kind: platform.KindMinimize})
	case mx && !h.maximized:
		h.emit(platform.Notification{Window: h.root.id, Kind: platform.KindMaximize})
	case !mn && !mx && (h.minimized || h.maximized):
		h.emit(platform.Notification{Window: h.root.id, Kind: platform.KindRestore})
	}
	h.minimized, h.maximized = mn, mx
}

// Layout keeps the root pane the size of the host window.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.outW, h.outH = outsideWidth, outsideHeight
	if h.root != nil && !h.minimized {
		off := h.root.clientOffset()
		w, hh := outsideWidth-off.X, outsideHeight-off.Y
		if w > 0 && hh > 0 && (w != h.root.fb.W || hh != h.root.fb.H) {
			h.root.resize(w, hh)
		}
	}
	return outsideWidth, outsideHeight
}

func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.painter.Theme.Face)
	for _, p := range h.panes {
		if !p.visible {
			continue
		}
		p.upload()
		frame := p.frameRect()
		if p.chrome != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(frame.Min.X), float64(frame.Min.Y))
			screen.DrawImage(p.chrome, op)
		}
		op := &ebiten.DrawImageOptions{}
		c := p.clientRect()
		op.GeoM.Translate(float64(c.Min.X), float64(c.Min.Y))
		screen.DrawImage(p.img, op)
		if !p.isRoot {
			vector.StrokeRect(screen, float32(frame.Min.X), float32(frame.Min.Y), float32(frame.Dx()), float32(frame.Dy()), 1, h.painter.Theme.Border, false)
		}
		if p == h.focus && h.focused && p.caretOn && (h.tick/blinkRate)%2 == 0 {
			r := p.caret.Add(c.Min).Intersect(c)
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), caretColor, false)
		}
	}
	h.drawMenus(screen)
}

var caretColor = color.RGBA{0x1A, 0x1F, 0x2B, 0x90}

// paneAt returns the topmost visible pane whose frame holds pt.
func (h *Host) paneAt(pt image.Point) *pane {
	for i := len(h.panes) - 1; i >= 0; i-- {
		p := h.panes[i]
		if p.visible && pt.In(p.frameRect()) {
			return p
		}
	}
	return nil
}
