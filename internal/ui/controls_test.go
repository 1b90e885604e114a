package ui

import (
	"image"
	"testing"

	"cellwin/internal/platform"
	"cellwin/internal/render"
)

func TestDisabledTextIsBlended(t *testing.T) {
	th := DefaultTheme()
	d := th.DisabledText()
	if d == th.Text || d == th.Face {
		t.Fatalf("expected a colour between text and face, got %v", d)
	}
}

func TestRatioClamps(t *testing.T) {
	c := Ratio(1.5, 0, 0.5)
	if c.R != 0xff || c.G != 0 || c.B != 0x80 {
		t.Fatalf("unexpected colour %v", c)
	}
}

func TestNamedColours(t *testing.T) {
	if c, ok := Named(" Red "); !ok || c.R != 0xff || c.G != 0 {
		t.Fatalf("expected red, got %v %v", c, ok)
	}
	if _, ok := Named("mauve"); ok {
		t.Fatalf("expected unknown colour")
	}
}

func TestCheckBoxMarkFollowsSelection(t *testing.T) {
	p := NewPainter()
	c := platform.Control{Kind: platform.ControlCheckBox, Rect: image.Rect(0, 0, 100, 13), Text: "x", Enabled: true}
	off := render.NewFrameBuffer(100, 13)
	p.Paint(off, c)
	c.Selected = true
	on := render.NewFrameBuffer(100, 13)
	p.Paint(on, c)
	if off.Fingerprint() == on.Fingerprint() {
		t.Fatalf("expected checked box to differ from unchecked")
	}
	if got := on.Pixel(6, 6); got != p.Theme.Text {
		t.Fatalf("expected mark in box centre, got %v", got)
	}
}

func TestProgressFillsFraction(t *testing.T) {
	p := NewPainter()
	fb := render.NewFrameBuffer(102, 10)
	p.Paint(fb, platform.Control{Kind: platform.ControlProgress, Rect: image.Rect(0, 0, 102, 10), Max: 100, Value: 50, Enabled: true})
	if got := fb.Pixel(40, 5); got != p.Theme.Accent {
		t.Fatalf("expected filled half, got %v", got)
	}
	if got := fb.Pixel(60, 5); got != p.Theme.Field {
		t.Fatalf("expected empty half, got %v", got)
	}
}

func TestHitCommand(t *testing.T) {
	btn := platform.Control{Kind: platform.ControlButton, Rect: image.Rect(10, 10, 50, 30), Enabled: true}
	if cmd, _, ok := HitCommand(btn, image.Pt(20, 20)); !ok || cmd != platform.CmdClick {
		t.Fatalf("expected click, got %v %v", cmd, ok)
	}
	if _, _, ok := HitCommand(btn, image.Pt(60, 20)); ok {
		t.Fatalf("expected miss outside the button")
	}
	btn.Enabled = false
	if _, _, ok := HitCommand(btn, image.Pt(20, 20)); ok {
		t.Fatalf("expected disabled button to ignore clicks")
	}
	sb := platform.Control{Kind: platform.ControlScrollBar, Rect: image.Rect(0, 0, 16, 200), Vertical: true, Max: 100, Enabled: true}
	if cmd, _, ok := HitCommand(sb, image.Pt(8, 150)); !ok || cmd != platform.CmdPageDown {
		t.Fatalf("expected page down below the thumb, got %v", cmd)
	}
}
