package window

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"cellwin/internal/render"
	"cellwin/internal/screen"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

type fakeSurface struct {
	fb       *render.FrameBuffer
	caret    image.Rectangle
	caretOn  bool
	presents int
	fills    int
}

func newSurface(w, h int) *fakeSurface {
	fb := render.NewFrameBuffer(w, h)
	fb.Clear(grey)
	return &fakeSurface{fb: fb}
}

func (s *fakeSurface) Present(src *render.FrameBuffer, r image.Rectangle) error {
	s.presents++
	s.fb.CopyFrom(src, r)
	return nil
}

func (s *fakeSurface) Fill(r image.Rectangle, c color.RGBA) error {
	s.fills++
	s.fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
	return nil
}

func (s *fakeSurface) SetCaret(r image.Rectangle, visible bool) error {
	s.caret, s.caretOn = r, visible
	return nil
}

// newContext builds a visible 200x100 window over 20x5 character buffers.
func newContext(t *testing.T, buffered bool) (*Context, *fakeSurface) {
	t.Helper()
	surf := newSurface(200, 100)
	c := New(Setup{
		ID:         1,
		MaxScreens: 4,
		BufferW:    20 * 7,
		BufferH:    5 * 13,
		WidthPx:    200,
		HeightPx:   100,
		Defaults:   screen.Defaults{FG: black, BG: white, Auto: true, CursorVisible: true},
		Buffered:   buffered,
		Visible:    true,
	}, surf)
	return c, surf
}

func TestRestoreIsIdempotent(t *testing.T) {
	c, surf := newContext(t, true)
	c.Update().WriteString("hello")
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	first := surf.fb.Fingerprint()
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	if surf.fb.Fingerprint() != first {
		t.Fatalf("expected second restore to leave the surface unchanged")
	}
	if got := surf.fb.Pixel(180, 90); got != white {
		t.Fatalf("expected area outside the buffer filled with background, got %v", got)
	}
	if got := surf.fb.Pixel(180, 10); got != white {
		t.Fatalf("expected right strip filled with background, got %v", got)
	}
}

func TestRestoreOfRegionOnly(t *testing.T) {
	c, surf := newContext(t, true)
	c.Update().WriteString("x")
	if err := c.Restore(false, image.Rect(0, 0, 10, 10)); err != nil {
		t.Fatal(err)
	}
	if got := surf.fb.Pixel(50, 50); got != grey {
		t.Fatalf("expected pixels outside the region untouched, got %v", got)
	}
}

func TestRestoreUnbufferedIsNoop(t *testing.T) {
	c, surf := newContext(t, false)
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	if surf.presents != 0 || surf.fills != 0 {
		t.Fatalf("expected no native operations, got %d presents %d fills", surf.presents, surf.fills)
	}
}

func TestReverseFillsWithForeground(t *testing.T) {
	c, surf := newContext(t, true)
	c.Display().SetAttr(screen.Reverse, true)
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	if got := surf.fb.Pixel(190, 95); got != black {
		t.Fatalf("expected reverse fill colour, got %v", got)
	}
}

func TestSelectScreen(t *testing.T) {
	c, surf := newContext(t, true)
	if err := c.SelectScreen(0, 1); !errors.Is(err, ErrBadScreen) {
		t.Fatalf("expected ErrBadScreen, got %v", err)
	}
	if err := c.SelectScreen(1, 5); !errors.Is(err, ErrBadScreen) {
		t.Fatalf("expected ErrBadScreen, got %v", err)
	}
	if err := c.Restore(true, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	before := surf.fb.Fingerprint()

	if err := c.SelectScreen(2, 1); err != nil {
		t.Fatal(err)
	}
	c.Update().WriteString("hidden")
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if surf.fb.Fingerprint() != before {
		t.Fatalf("drawing on a hidden screen must not reach the window")
	}
	if err := c.SelectScreen(2, 2); err != nil {
		t.Fatal(err)
	}
	if surf.fb.Fingerprint() == before {
		t.Fatalf("expected display switch to repaint the window")
	}
	if u, d := c.Screens(); u != 2 || d != 2 {
		t.Fatalf("expected screens 2,2, got %d,%d", u, d)
	}
}

func TestFlushPresentsDirtyRect(t *testing.T) {
	c, surf := newContext(t, true)
	c.Focused = true
	c.Update().TakeDirty()
	c.Update().Write('a')
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if surf.presents != 1 {
		t.Fatalf("expected one present, got %d", surf.presents)
	}
	if !surf.caretOn || surf.caret.Min != image.Pt(7, 0) {
		t.Fatalf("expected caret shown at column 2, got %v %v", surf.caret, surf.caretOn)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if surf.presents != 1 {
		t.Fatalf("expected clean flush to present nothing, got %d", surf.presents)
	}
}

func TestUnbufferedFollowsWindowSize(t *testing.T) {
	c, _ := newContext(t, true)
	c.Update().WriteString("kept")
	if err := c.SetBuffered(false); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Update().SizeG(); w != 200 || h != 100 {
		t.Fatalf("expected retained buffer sized to window, got %dx%d", w, h)
	}
	if err := c.SelectScreen(1, 1); !errors.Is(err, ErrUnbuffered) {
		t.Fatalf("expected ErrUnbuffered, got %v", err)
	}
	if err := c.Resize(300, 120); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Update().SizeG(); w != 300 || h != 120 {
		t.Fatalf("expected buffer to follow resize, got %dx%d", w, h)
	}
	if got := c.Update().Row(1); got != "kept" {
		t.Fatalf("expected contents kept, got %q", got)
	}
	if err := c.SetBuffered(true); err != nil {
		t.Fatal(err)
	}
	if got := c.Display().Row(1); got != "kept" {
		t.Fatalf("expected contents carried back into screen 1, got %q", got)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	c, _ := newContext(t, true)
	stopped := false
	if err := c.Timers.Register(1, 0, &Timer{Stop: func() bool { stopped = true; return true }}); err != nil {
		t.Fatal(err)
	}
	c.Close()
	if !stopped {
		t.Fatalf("expected timer stopped on close")
	}
	if err := c.Flush(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
