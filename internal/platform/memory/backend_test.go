package memory

import (
	"image"
	"image/color"
	"testing"

	"cellwin/internal/platform"
	"cellwin/internal/render"
)

func runBackend(t *testing.T) (*Backend, chan platform.Notification) {
	t.Helper()
	b := New()
	got := make(chan platform.Notification, 16)
	calls := make(chan func())
	done := make(chan struct{})
	go b.Run(func(n platform.Notification) { got <- n }, calls, done)
	t.Cleanup(func() { close(done) })
	return b, got
}

func TestPresentCopiesRegion(t *testing.T) {
	b := New()
	nw, err := b.CreateWindow(1, platform.WindowConfig{WidthPx: 20, HeightPx: 10})
	if err != nil {
		t.Fatal(err)
	}
	src := render.NewFrameBuffer(20, 10)
	red := color.RGBA{R: 0xff, A: 0xff}
	src.Clear(red)
	if err := nw.Present(src, image.Rect(0, 0, 5, 5)); err != nil {
		t.Fatal(err)
	}
	w := b.Window(1)
	fb := w.Snapshot()
	if fb.Pixel(2, 2) != red || fb.Pixel(7, 7) == red {
		t.Fatalf("expected only the presented region to change")
	}
	ops := w.Ops()
	if len(ops) != 1 || ops[0].Name != "present" {
		t.Fatalf("unexpected ops %+v", ops)
	}
	if len(w.Ops()) != 0 {
		t.Fatalf("expected ops log to be cleared")
	}
}

func TestResizeReportsNewSize(t *testing.T) {
	b, got := runBackend(t)
	nw, _ := b.CreateWindow(2, platform.WindowConfig{WidthPx: 20, HeightPx: 10})
	<-b.ready
	if err := nw.SetSizePx(40, 30); err != nil {
		t.Fatal(err)
	}
	n := <-got
	if n.Kind != platform.KindResize || n.A != 40 || n.B != 30 || n.Window != 2 {
		t.Fatalf("unexpected notification %+v", n)
	}
	if w, h := nw.SizePx(); w != 40 || h != 30 {
		t.Fatalf("expected 40x30, got %dx%d", w, h)
	}
}

func TestClickOnCheckBoxToggles(t *testing.T) {
	b, got := runBackend(t)
	nw, _ := b.CreateWindow(1, platform.WindowConfig{WidthPx: 200, HeightPx: 100})
	h, err := nw.CreateControl(platform.Control{Kind: platform.ControlCheckBox, Rect: image.Rect(10, 10, 100, 23), Text: "opt", Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	b.Click(1, image.Pt(12, 15))
	n := <-got
	cmd, v := platform.UnpackCommand(n.B)
	if n.Kind != platform.KindCommand || platform.Handle(n.A) != h || cmd != platform.CmdClick || v != 1 {
		t.Fatalf("unexpected notification %+v", n)
	}
	if c, _ := b.Window(1).Control(h); !c.Selected {
		t.Fatalf("expected check box to be selected")
	}
}

func TestClickOutsideControlsPostsMouse(t *testing.T) {
	b, got := runBackend(t)
	b.CreateWindow(1, platform.WindowConfig{WidthPx: 200, HeightPx: 100})
	b.Click(1, image.Pt(50, 60))
	want := []platform.Kind{platform.KindMouseMove, platform.KindMouseButton, platform.KindMouseButton}
	for i, k := range want {
		if n := <-got; n.Kind != k {
			t.Fatalf("notification %d: expected %v, got %v", i, k, n.Kind)
		}
	}
}

func TestMenuState(t *testing.T) {
	b := New()
	nw, _ := b.CreateWindow(1, platform.WindowConfig{WidthPx: 10, HeightPx: 10})
	nw.SetMenu([]platform.MenuItem{{Label: "File", Children: []platform.MenuItem{{ID: 5, Label: "Open"}}}})
	if err := nw.UpdateMenu(5, false, true); err != nil {
		t.Fatal(err)
	}
	if s, _ := b.Window(1).Menu(5); s.Enabled || !s.Selected {
		t.Fatalf("unexpected menu state %+v", s)
	}
	if err := nw.UpdateMenu(9, true, false); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}
