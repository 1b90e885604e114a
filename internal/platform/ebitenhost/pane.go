package ebitenhost

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"cellwin/internal/platform"
	"cellwin/internal/render"
	"cellwin/internal/ui"
)

var (
	ErrClosed    = errors.New("ebitenhost: window closed")
	ErrNoControl = errors.New("ebitenhost: no such control")
)

type menuState struct {
	enabled  bool
	selected bool
}

// pane is one cellwin window: a client frame buffer plus, for panes other
// than the root, a title bar, and a menu strip when a menu is set.
type pane struct {
	h      *Host
	id     int
	handle platform.Handle
	isRoot bool
	title  string
	pos    image.Point
	closed bool

	visible bool
	fb      *render.FrameBuffer
	img     *ebiten.Image
	sum     [32]byte
	dirty   bool

	chrome      *ebiten.Image
	chromeDirty bool

	caret   image.Rectangle
	caretOn bool

	controls map[platform.Handle]*platform.Control
	order    []platform.Handle
	menu     []platform.MenuItem
	menus    map[int]menuState
}

func (p *pane) chromeHeight() int {
	n := 0
	if !p.isRoot {
		n += titleHeight
	}
	if len(p.menu) > 0 {
		n += menuHeight
	}
	return n
}

func (p *pane) clientOffset() image.Point { return image.Pt(0, p.chromeHeight()) }

func (p *pane) frameSize() image.Point {
	return image.Pt(p.fb.W, p.fb.H+p.chromeHeight())
}

// frameRect is the pane's area in host window pixels.
func (p *pane) frameRect() image.Rectangle {
	return image.Rectangle{Min: p.pos, Max: p.pos.Add(p.frameSize())}
}

func (p *pane) clientRect() image.Rectangle {
	o := p.pos.Add(p.clientOffset())
	return image.Rectangle{Min: o, Max: o.Add(image.Pt(p.fb.W, p.fb.H))}
}

func (p *pane) titleRect() image.Rectangle {
	if p.isRoot {
		return image.Rectangle{}
	}
	return image.Rect(p.pos.X, p.pos.Y, p.pos.X+p.fb.W, p.pos.Y+titleHeight)
}

func (p *pane) menuRect() image.Rectangle {
	if len(p.menu) == 0 {
		return image.Rectangle{}
	}
	y := p.pos.Y
	if !p.isRoot {
		y += titleHeight
	}
	return image.Rect(p.pos.X, y, p.pos.X+p.fb.W, y+menuHeight)
}

// upload copies changed pixels to the GPU images.
func (p *pane) upload() {
	if p.img == nil || p.img.Bounds().Dx() != p.fb.W || p.img.Bounds().Dy() != p.fb.H {
		p.img = ebiten.NewImage(p.fb.W, p.fb.H)
		p.sum = [32]byte{}
		p.dirty = true
	}
	if p.dirty {
		p.dirty = false
		if sum := p.fb.Fingerprint(); sum != p.sum {
			p.sum = sum
			p.img.WritePixels(p.fb.Pixels)
		}
	}
	if p.chromeDirty || (p.chrome == nil && p.chromeHeight() > 0) {
		p.chromeDirty = false
		p.drawChrome()
	}
}

func (p *pane) drawChrome() {
	h := p.chromeHeight()
	if h == 0 {
		p.chrome = nil
		return
	}
	fb := render.NewFrameBuffer(p.fb.W, h)
	fb.Clear(p.h.painter.Theme.Face)
	y := 0
	if !p.isRoot {
		bar := platform.Control{
			Kind:     platform.ControlButton,
			Rect:     image.Rect(0, 0, p.fb.W, titleHeight),
			Text:     p.title,
			Enabled:  true,
			Selected: p == p.h.focus,
		}
		p.h.painter.Paint(fb, bar)
		y = titleHeight
	}
	if len(p.menu) > 0 {
		for _, e := range menuBar(p.menu, image.Pt(0, y)) {
			p.h.painter.Paint(fb, p.entryControl(e))
		}
	}
	p.chrome = ebiten.NewImage(fb.W, fb.H)
	p.chrome.WritePixels(fb.Pixels)
}

func (p *pane) paintControls(r image.Rectangle) {
	for _, hd := range p.order {
		c := p.controls[hd]
		if c.Rect.Overlaps(r) {
			p.h.painter.Paint(p.fb, *c)
		}
	}
}

// resize follows a size change of the host window or a request, keeping
// the overlapping pixels, and reports it.
func (p *pane) resize(w, h int) {
	fb := render.NewFrameBuffer(w, h)
	fb.Clear(p.h.painter.Theme.Field)
	fb.CopyFrom(p.fb, fb.Bounds())
	p.fb = fb
	p.dirty = true
	p.chromeDirty = true
	p.paintControls(fb.Bounds())
	p.h.emit(platform.Notification{Window: p.id, Kind: platform.KindResize, A: int64(w), B: int64(h)})
}

func (p *pane) Handle() platform.Handle { return p.handle }

func (p *pane) SizePx() (int, int) { return p.fb.W, p.fb.H }

func (p *pane) SetSizePx(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("ebitenhost: bad window size %dx%d", w, h)
	}
	if p.closed {
		return ErrClosed
	}
	p.resize(w, h)
	if p.isRoot {
		fs := p.frameSize()
		ebiten.SetWindowSize(fs.X, fs.Y)
	}
	return nil
}

func (p *pane) SetTitle(title string) {
	p.title = title
	p.chromeDirty = true
	if p.isRoot {
		ebiten.SetWindowTitle(title)
	}
}

func (p *pane) SetVisible(on bool) error {
	if p.closed {
		return ErrClosed
	}
	p.visible = on
	if !on && p.h.focus == p {
		p.h.setFocus(p.h.root)
	}
	return nil
}

func (p *pane) Raise(front bool) error {
	if p.closed {
		return ErrClosed
	}
	p.h.raise(p, front)
	return nil
}

func (p *pane) Present(src *render.FrameBuffer, r image.Rectangle) error {
	if p.closed {
		return ErrClosed
	}
	p.fb.CopyFrom(src, r)
	p.paintControls(r)
	p.dirty = true
	return nil
}

func (p *pane) Fill(r image.Rectangle, c color.RGBA) error {
	if p.closed {
		return ErrClosed
	}
	p.fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
	p.paintControls(r)
	p.dirty = true
	return nil
}

func (p *pane) SetCaret(r image.Rectangle, visible bool) error {
	p.caret, p.caretOn = r, visible
	return nil
}

func (p *pane) CreateControl(c platform.Control) (platform.Handle, error) {
	if p.closed {
		return 0, ErrClosed
	}
	hd := p.h.handle()
	p.controls[hd] = &c
	p.order = append(p.order, hd)
	p.h.painter.Paint(p.fb, c)
	p.dirty = true
	return hd, nil
}

func (p *pane) UpdateControl(hd platform.Handle, c platform.Control) error {
	if _, ok := p.controls[hd]; !ok {
		return fmt.Errorf("%w: %d", ErrNoControl, hd)
	}
	p.controls[hd] = &c
	p.h.painter.Paint(p.fb, c)
	p.dirty = true
	return nil
}

// DestroyControl forgets a control. Its pixels stay until the window is
// repainted.
func (p *pane) DestroyControl(hd platform.Handle) error {
	if _, ok := p.controls[hd]; !ok {
		return fmt.Errorf("%w: %d", ErrNoControl, hd)
	}
	delete(p.controls, hd)
	for i, o := range p.order {
		if o == hd {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// hit finds the topmost control under pt (client pixels) and the command a
// click there produces. Check boxes toggle themselves.
func (p *pane) hit(pt image.Point) (platform.Handle, platform.Command, int, bool) {
	for i := len(p.order) - 1; i >= 0; i-- {
		hd := p.order[i]
		c := p.controls[hd]
		cmd, v, ok := ui.HitCommand(*c, pt)
		if !ok {
			continue
		}
		if c.Kind == platform.ControlCheckBox {
			c.Selected = v != 0
			p.h.painter.Paint(p.fb, *c)
			p.dirty = true
		}
		return hd, cmd, v, true
	}
	return 0, 0, 0, false
}

func (p *pane) SetMenu(items []platform.MenuItem) error {
	if p.closed {
		return ErrClosed
	}
	had := len(p.menu) > 0
	p.menu = items
	p.menus = map[int]menuState{}
	var walk func([]platform.MenuItem)
	walk = func(items []platform.MenuItem) {
		for _, it := range items {
			if !it.Bar && len(it.Children) == 0 {
				p.menus[it.ID] = menuState{enabled: true}
			}
			walk(it.Children)
		}
	}
	walk(items)
	p.chromeDirty = true
	p.h.menus = nil
	if had != (len(items) > 0) && p.isRoot {
		fs := p.frameSize()
		ebiten.SetWindowSize(fs.X, fs.Y)
	}
	return nil
}

func (p *pane) UpdateMenu(id int, enabled, selected bool) error {
	if _, ok := p.menus[id]; !ok {
		return fmt.Errorf("ebitenhost: no menu item %d", id)
	}
	p.menus[id] = menuState{enabled: enabled, selected: selected}
	p.chromeDirty = true
	p.h.refreshMenus()
	return nil
}

func (p *pane) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.h.remove(p)
	if p.img != nil {
		p.img.Deallocate()
	}
	if p.chrome != nil {
		p.chrome.Deallocate()
	}
}
