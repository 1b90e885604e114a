// Package ui paints native controls for platforms that have none of their
// own.
package ui

import (
	"image"
	"image/color"

	"cellwin/internal/platform"
	"cellwin/internal/render"
)

// SpinnerWidth is the width of the up/down buddy of a number box.
const SpinnerWidth = 16

// Painter draws controls into a frame buffer with one theme and face.
type Painter struct {
	Theme Theme
	Face  *render.Face
}

func NewPainter() *Painter {
	return &Painter{Theme: DefaultTheme(), Face: render.FixedFace()}
}

func (p *Painter) textColor(c platform.Control) color.RGBA {
	if !c.Enabled {
		return p.Theme.DisabledText()
	}
	return p.Theme.Text
}

// label draws s vertically centred in r starting at x, clipped to r.
func (p *Painter) label(fb *render.FrameBuffer, r image.Rectangle, x int, s string, fg, bg color.RGBA, centre bool) {
	if s == "" || r.Empty() {
		return
	}
	runes := []rune(s)
	if fit := (r.Max.X - x) / p.Face.CellW; len(runes) > fit {
		if fit <= 0 {
			return
		}
		runes = runes[:fit]
	}
	w := len(runes) * p.Face.CellW
	if centre {
		x = r.Min.X + (r.Dx()-w)/2
	}
	y := r.Min.Y + (r.Dy()-p.Face.CellH)/2
	render.DrawText(fb, p.Face, x, y, string(runes), render.TextStyle{FG: fg, BG: bg, BGMix: render.MixInvisible})
}

func (p *Painter) bevel(fb *render.FrameBuffer, r image.Rectangle, face color.RGBA, pressed bool) {
	fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), face)
	hi, lo := p.Theme.Light, p.Theme.Shadow
	if pressed {
		hi, lo = lo, hi
	}
	fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), 1, hi)
	fb.FillRect(r.Min.X, r.Min.Y, 1, r.Dy(), hi)
	fb.FillRect(r.Min.X, r.Max.Y-1, r.Dx(), 1, lo)
	fb.FillRect(r.Max.X-1, r.Min.Y, 1, r.Dy(), lo)
}

// Paint draws c into fb at c.Rect.
func (p *Painter) Paint(fb *render.FrameBuffer, c platform.Control) {
	r := c.Rect.Canon()
	if r.Empty() {
		return
	}
	th := p.Theme
	fg := p.textColor(c)
	switch c.Kind {
	case platform.ControlButton:
		p.bevel(fb, r, th.Face, c.Selected)
		p.label(fb, r, r.Min.X, c.Text, fg, th.Face, true)
	case platform.ControlCheckBox:
		box := p.indicator(r)
		fb.FillRect(box.Min.X, box.Min.Y, box.Dx(), box.Dy(), th.Field)
		fb.StrokeRect(box.Min.X, box.Min.Y, box.Dx(), box.Dy(), 1, th.Border)
		if c.Selected {
			pen := render.Pen{Color: fg, Width: 2}
			render.Line(fb, box.Min.X+3, box.Min.Y+3, box.Max.X-4, box.Max.Y-4, pen)
			render.Line(fb, box.Min.X+3, box.Max.Y-4, box.Max.X-4, box.Min.Y+3, pen)
		}
		p.label(fb, r, box.Max.X+4, c.Text, fg, th.Face, false)
	case platform.ControlRadioButton:
		box := p.indicator(r)
		render.FillEllipse(fb, box.Min.X, box.Min.Y, box.Max.X-1, box.Max.Y-1, th.Field, render.MixOverwrite)
		render.Ellipse(fb, box.Min.X, box.Min.Y, box.Max.X-1, box.Max.Y-1, render.Pen{Color: th.Border})
		if c.Selected {
			in := box.Inset(3)
			render.FillEllipse(fb, in.Min.X, in.Min.Y, in.Max.X-1, in.Max.Y-1, fg, render.MixOverwrite)
		}
		p.label(fb, r, box.Max.X+4, c.Text, fg, th.Face, false)
	case platform.ControlGroup:
		top := r.Min.Y + p.Face.CellH/2
		fb.StrokeRect(r.Min.X, top, r.Dx(), r.Max.Y-top, 1, th.Border)
		if c.Text != "" {
			title := image.Rect(r.Min.X+8, r.Min.Y, r.Min.X+8+len([]rune(c.Text))*p.Face.CellW+4, r.Min.Y+p.Face.CellH)
			fb.FillRect(title.Min.X, title.Min.Y, title.Dx(), title.Dy(), th.Face)
			p.label(fb, title, title.Min.X+2, c.Text, fg, th.Face, false)
		}
	case platform.ControlBackground:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Face)
	case platform.ControlScrollBar:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Shadow)
		p.bevel(fb, thumb(r, c), th.Face, false)
	case platform.ControlEdit:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Field)
		fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, th.Border)
		p.label(fb, r, r.Min.X+3, c.Text, fg, th.Field, false)
	case platform.ControlSpinner:
		up := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+r.Dy()/2)
		down := image.Rect(r.Min.X, up.Max.Y, r.Max.X, r.Max.Y)
		p.bevel(fb, up, th.Face, false)
		p.bevel(fb, down, th.Face, false)
		p.arrow(fb, up, fg, true)
		p.arrow(fb, down, fg, false)
	case platform.ControlProgress:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Field)
		fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, th.Border)
		if w := fraction(c, r.Dx()-2); w > 0 {
			fb.FillRect(r.Min.X+1, r.Min.Y+1, w, r.Dy()-2, th.Accent)
		}
	case platform.ControlList:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Field)
		fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, th.Border)
		for i, item := range c.Items {
			row := image.Rect(r.Min.X+1, r.Min.Y+1+i*p.Face.CellH, r.Max.X-1, r.Min.Y+1+(i+1)*p.Face.CellH)
			if row.Max.Y > r.Max.Y-1 {
				break
			}
			bg := th.Field
			if i+1 == c.Value {
				bg = th.Selection
				fb.FillRect(row.Min.X, row.Min.Y, row.Dx(), row.Dy(), bg)
			}
			p.label(fb, row, row.Min.X+2, item, fg, bg, false)
		}
	case platform.ControlDropList:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Field)
		fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, th.Border)
		btn := image.Rect(r.Max.X-SpinnerWidth, r.Min.Y, r.Max.X, r.Max.Y)
		p.bevel(fb, btn, th.Face, false)
		p.arrow(fb, btn, fg, false)
		text := c.Text
		if c.Value >= 1 && c.Value <= len(c.Items) {
			text = c.Items[c.Value-1]
		}
		p.label(fb, image.Rect(r.Min.X, r.Min.Y, btn.Min.X, r.Max.Y), r.Min.X+3, text, fg, th.Field, false)
	case platform.ControlSlider:
		mid := r.Min.Y + r.Dy()/2
		fb.FillRect(r.Min.X+4, mid-1, r.Dx()-8, 3, th.Shadow)
		x := r.Min.X + 4 + fraction(c, r.Dx()-8)
		p.bevel(fb, image.Rect(x-4, r.Min.Y+2, x+4, r.Max.Y-2), th.Face, false)
	case platform.ControlTabBar:
		fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), th.Face)
		x := r.Min.X
		for i, item := range c.Items {
			w := (len([]rune(item)) + 2) * p.Face.CellW
			tab := image.Rect(x, r.Min.Y, min(x+w, r.Max.X), r.Min.Y+p.Face.CellH+6)
			p.bevel(fb, tab, th.Face, i+1 == c.Value)
			p.label(fb, tab, tab.Min.X, item, fg, th.Face, true)
			x += w
			if x >= r.Max.X {
				break
			}
		}
	}
}

// indicator is the square check box or radio button mark at the left of r.
func (p *Painter) indicator(r image.Rectangle) image.Rectangle {
	s := min(r.Dy(), 13)
	y := r.Min.Y + (r.Dy()-s)/2
	return image.Rect(r.Min.X, y, r.Min.X+s, y+s)
}

func (p *Painter) arrow(fb *render.FrameBuffer, r image.Rectangle, c color.RGBA, up bool) {
	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	h := max(min(r.Dx(), r.Dy())/4, 2)
	pts := []image.Point{{cx - h, cy + h/2}, {cx + h, cy + h/2}, {cx, cy - h/2}}
	if !up {
		pts = []image.Point{{cx - h, cy - h/2}, {cx + h, cy - h/2}, {cx, cy + h/2}}
	}
	render.FillPolygon(fb, pts, c, render.MixOverwrite)
}

// fraction scales the control's value within [Min, Max] to n.
func fraction(c platform.Control, n int) int {
	span := c.Max - c.Min
	if span <= 0 || n <= 0 {
		return 0
	}
	v := min(max(c.Value, c.Min), c.Max) - c.Min
	return v * n / span
}

// thumb is the scroll bar thumb; Value is its position and the thumb size is
// one tenth of the track.
func thumb(r image.Rectangle, c platform.Control) image.Rectangle {
	if c.Vertical {
		size := max(r.Dy()/10, 8)
		y := r.Min.Y + fraction(c, r.Dy()-size)
		return image.Rect(r.Min.X, y, r.Max.X, y+size)
	}
	size := max(r.Dx()/10, 8)
	x := r.Min.X + fraction(c, r.Dx()-size)
	return image.Rect(x, r.Min.Y, x+size, r.Max.Y)
}

// HitCommand works out the command a click at pt (window pixels) on c
// produces and the control's new value.
func HitCommand(c platform.Control, pt image.Point) (platform.Command, int, bool) {
	r := c.Rect.Canon()
	if !pt.In(r) || !c.Enabled {
		return 0, 0, false
	}
	switch c.Kind {
	case platform.ControlButton:
		return platform.CmdClick, 0, true
	case platform.ControlCheckBox, platform.ControlRadioButton:
		return platform.CmdClick, boolInt(!c.Selected), true
	case platform.ControlScrollBar:
		th := thumb(r, c)
		before := pt.Y < th.Min.Y
		after := pt.Y >= th.Max.Y
		if !c.Vertical {
			before, after = pt.X < th.Min.X, pt.X >= th.Max.X
		}
		switch {
		case before:
			return platform.CmdPageUp, c.Value, true
		case after:
			return platform.CmdPageDown, c.Value, true
		}
		return platform.CmdPosition, c.Value, true
	case platform.ControlSpinner:
		if pt.Y < r.Min.Y+r.Dy()/2 {
			return platform.CmdLineUp, c.Value, true
		}
		return platform.CmdLineDown, c.Value, true
	case platform.ControlList:
		i := (pt.Y - r.Min.Y - 1) / render.FixedFace().CellH
		if i < 0 || i >= len(c.Items) {
			return 0, 0, false
		}
		return platform.CmdSelect, i + 1, true
	case platform.ControlDropList:
		if len(c.Items) == 0 {
			return 0, 0, false
		}
		return platform.CmdSelect, c.Value%len(c.Items) + 1, true
	case platform.ControlSlider:
		span := r.Dx() - 8
		if span <= 0 {
			return 0, 0, false
		}
		v := c.Min + (min(max(pt.X-r.Min.X-4, 0), span))*(c.Max-c.Min)/span
		return platform.CmdPosition, v, true
	case platform.ControlTabBar:
		x := r.Min.X
		for i, item := range c.Items {
			w := (len([]rune(item)) + 2) * render.FixedFace().CellW
			if pt.X >= x && pt.X < x+w {
				return platform.CmdSelect, i + 1, true
			}
			x += w
		}
	}
	return 0, 0, false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
