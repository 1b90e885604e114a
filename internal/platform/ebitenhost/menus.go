package ebitenhost

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"cellwin/internal/platform"
	"cellwin/internal/render"
)

const barHeight = 5

type menuEntry struct {
	item platform.MenuItem
	rect image.Rectangle
}

// dropdown is an open submenu, drawn over every pane.
type dropdown struct {
	owner   *pane
	entries []menuEntry
	rect    image.Rectangle
	img     *ebiten.Image
}

func labelWidth(s string) int {
	return (len([]rune(s)) + 2) * render.FixedFace().CellW
}

// menuBar lays the top level items out left to right from origin.
func menuBar(items []platform.MenuItem, origin image.Point) []menuEntry {
	out := make([]menuEntry, 0, len(items))
	x := origin.X
	for _, it := range items {
		w := labelWidth(it.Label)
		if it.Bar {
			w = barHeight
		}
		out = append(out, menuEntry{item: it, rect: image.Rect(x, origin.Y, x+w, origin.Y+menuHeight)})
		x += w
	}
	return out
}

// menuColumn stacks items downwards from origin, as wide as the widest.
func menuColumn(items []platform.MenuItem, origin image.Point) ([]menuEntry, image.Rectangle) {
	w := 0
	for _, it := range items {
		w = max(w, labelWidth(it.Label)+2*render.FixedFace().CellW)
	}
	out := make([]menuEntry, 0, len(items))
	y := origin.Y
	for _, it := range items {
		h := menuHeight
		if it.Bar {
			h = barHeight
		}
		out = append(out, menuEntry{item: it, rect: image.Rect(origin.X, y, origin.X+w, y+h)})
		y += h
	}
	return out, image.Rect(origin.X, origin.Y, origin.X+w, y)
}

func entryAt(entries []menuEntry, pt image.Point) (menuEntry, bool) {
	for _, e := range entries {
		if pt.In(e.rect) {
			return e, true
		}
	}
	return menuEntry{}, false
}

// entryControl is how an entry is painted: a check box for on/off items, a
// radio button for one-of items and a flat button otherwise.
func (p *pane) entryControl(e menuEntry) platform.Control {
	c := platform.Control{Kind: platform.ControlButton, Rect: e.rect, Text: e.item.Label, Enabled: true}
	if e.item.Bar {
		c.Kind = platform.ControlBackground
		return c
	}
	if st, ok := p.menus[e.item.ID]; ok {
		c.Enabled, c.Selected = st.enabled, st.selected
	}
	switch {
	case e.item.OnOff:
		c.Kind = platform.ControlCheckBox
	case e.item.OneOf:
		c.Kind = platform.ControlRadioButton
	default:
		// A pressed button reads as a checked item.
		c.Selected = false
	}
	return c
}

// activate acts on a click on e at depth level (0 is the menu bar).
func (h *Host) activate(owner *pane, e menuEntry, level int) {
	if e.item.Bar {
		return
	}
	if len(e.item.Children) > 0 {
		at := image.Pt(e.rect.Min.X, e.rect.Max.Y)
		if level > 0 {
			at = image.Pt(e.rect.Max.X, e.rect.Min.Y)
		}
		entries, r := menuColumn(e.item.Children, at)
		h.menus = append(h.menus[:level], dropdown{owner: owner, entries: entries, rect: r})
		return
	}
	if st, ok := owner.menus[e.item.ID]; ok && !st.enabled {
		return
	}
	h.menus = nil
	h.emit(platform.Notification{Window: owner.id, Kind: platform.KindCommand, B: int64(e.item.ID)})
}

// menuClick handles a primary click at pt. It returns true when the click
// belonged to a menu.
func (h *Host) menuClick(pt image.Point) bool {
	for i := len(h.menus) - 1; i >= 0; i-- {
		d := h.menus[i]
		if !pt.In(d.rect) {
			continue
		}
		if e, ok := entryAt(d.entries, pt); ok {
			h.activate(d.owner, e, i+1)
		}
		return true
	}
	h.menus = nil
	p := h.paneAt(pt)
	if p == nil || !pt.In(p.menuRect()) {
		return false
	}
	if e, ok := entryAt(menuBar(p.menu, p.menuRect().Min), pt); ok {
		h.activate(p, e, 0)
	}
	return true
}

// refreshMenus repaints open dropdowns after a state change.
func (h *Host) refreshMenus() {
	for i := range h.menus {
		h.menus[i].img = nil
	}
}

func (h *Host) drawMenus(screen *ebiten.Image) {
	for i := range h.menus {
		d := &h.menus[i]
		if d.img == nil {
			fb := render.NewFrameBuffer(d.rect.Dx(), d.rect.Dy())
			fb.Clear(h.painter.Theme.Face)
			for _, e := range d.entries {
				local := menuEntry{item: e.item, rect: e.rect.Sub(d.rect.Min)}
				if e.item.Bar {
					mid := local.rect.Min.Y + barHeight/2
					fb.FillRect(local.rect.Min.X+2, mid, local.rect.Dx()-4, 1, h.painter.Theme.Border)
					continue
				}
				h.painter.Paint(fb, d.owner.entryControl(local))
			}
			fb.StrokeRect(0, 0, fb.W, fb.H, 1, h.painter.Theme.Border)
			d.img = ebiten.NewImage(fb.W, fb.H)
			d.img.WritePixels(fb.Pixels)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(d.rect.Min.X), float64(d.rect.Min.Y))
		screen.DrawImage(d.img, op)
	}
}
