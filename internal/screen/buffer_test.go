package screen

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// newTerm returns an 80x25 character buffer using the 7x13 fixed face.
func newTerm(t *testing.T) *Buffer {
	t.Helper()
	b := New(80*7, 25*13, Defaults{FG: black, BG: white, Auto: true, CursorVisible: true})
	if c, r := b.Size(); c != 80 || r != 25 {
		t.Fatalf("expected 80x25, got %dx%d", c, r)
	}
	return b
}

func sameContents(t *testing.T, want, got *Buffer) {
	t.Helper()
	if diff := cmp.Diff(want.cells, got.cells); diff != "" {
		t.Fatalf("cells differ (-want +got):\n%s", diff)
	}
	if want.fb.Fingerprint() != got.fb.Fingerprint() {
		t.Fatalf("pixels differ")
	}
}

func TestScrollByExtentEqualsClear(t *testing.T) {
	for _, d := range [][2]int{{0, 25}, {0, -30}, {80, 0}, {-81, 3}} {
		b := newTerm(t)
		b.WriteString("some text\nmore text")
		b.Scroll(d[0], d[1])
		want := newTerm(t)
		want.WriteString("some text\nmore text")
		want.Clear()
		sameContents(t, want, b)
		sameCursor(t, want, b)
	}
}

func TestScrollGByExtentEqualsClear(t *testing.T) {
	w, h := newTerm(t).SizeG()
	for _, d := range [][2]int{{0, h}, {-w, 0}} {
		b := newTerm(t)
		b.WriteString("some text\nmore text")
		b.ScrollG(d[0], d[1])
		want := newTerm(t)
		want.Clear()
		sameContents(t, want, b)
		sameCursor(t, want, b)
	}
}

func sameCursor(t *testing.T, want, got *Buffer) {
	t.Helper()
	wx, wy := want.CursorPos()
	gx, gy := got.CursorPos()
	if wx != gx || wy != gy {
		t.Fatalf("expected cursor %d,%d, got %d,%d", wx, wy, gx, gy)
	}
	wx, wy = want.CursorPosG()
	gx, gy = got.CursorPosG()
	if wx != gx || wy != gy {
		t.Fatalf("expected pixel cursor %d,%d, got %d,%d", wx, wy, gx, gy)
	}
}

func TestScrollMovesContentsUp(t *testing.T) {
	b := newTerm(t)
	b.WriteString("first\nsecond")
	b.Scroll(0, 1)
	if got := b.Row(1); got != "second" {
		t.Fatalf("expected %q on row 1, got %q", "second", got)
	}
	if got := b.Row(2); got != "" {
		t.Fatalf("expected row 2 blank, got %q", got)
	}
}

func TestTwentyFiveLinesScrollOnce(t *testing.T) {
	b := newTerm(t)
	for i := 1; i <= 25; i++ {
		b.WriteString(fmt.Sprintf("line %d\n", i))
	}
	if got := b.Row(1); got != "line 2" {
		t.Fatalf("expected first line scrolled off, row 1 is %q", got)
	}
	if got := b.Row(24); got != "line 25" {
		t.Fatalf("expected last line above the cursor row, got %q", got)
	}

	ref := newTerm(t)
	for i := 1; i <= 25; i++ {
		if i > 1 {
			ref.Write('\n')
		}
		ref.WriteString(fmt.Sprintf("line %d", i))
	}
	ref.Scroll(0, 1)
	sameContents(t, ref, b)
}

func TestRightLeftRoundTrip(t *testing.T) {
	b := newTerm(t)
	if err := b.Cursor(10, 5); err != nil {
		t.Fatal(err)
	}
	b.Right()
	b.Left()
	if x, y := b.CursorPos(); x != 10 || y != 5 {
		t.Fatalf("expected 10,5, got %d,%d", x, y)
	}

	if err := b.Cursor(80, 5); err != nil {
		t.Fatal(err)
	}
	b.Right()
	b.Left()
	if x, y := b.CursorPos(); x != 1 || y != 6 {
		t.Fatalf("expected wrap to land at 1,6, got %d,%d", x, y)
	}
}

func TestNoAutoLeavesBuffer(t *testing.T) {
	b := newTerm(t)
	if err := b.SetAuto(false); err != nil {
		t.Fatal(err)
	}
	if err := b.Cursor(80, 25); err != nil {
		t.Fatal(err)
	}
	b.Right()
	b.Down()
	if b.InBounds() {
		t.Fatalf("expected cursor outside the buffer")
	}
	b.Left()
	b.Up()
	if x, y := b.CursorPos(); x != 80 || y != 25 {
		t.Fatalf("expected 80,25, got %d,%d", x, y)
	}
	if err := b.SetAuto(true); err != nil {
		t.Fatalf("expected auto allowed on grid, got %v", err)
	}
}

func TestPixelCursorInLockStep(t *testing.T) {
	b := newTerm(t)
	if err := b.Cursor(3, 4); err != nil {
		t.Fatal(err)
	}
	if x, y := b.CursorPosG(); x != 15 || y != 40 {
		t.Fatalf("expected pixel cursor 15,40, got %d,%d", x, y)
	}
	if err := b.CursorG(20, 20); !errors.Is(err, ErrAutoPixel) {
		t.Fatalf("expected ErrAutoPixel, got %v", err)
	}
	if err := b.Cursor(81, 1); !errors.Is(err, ErrAutoBounds) {
		t.Fatalf("expected ErrAutoBounds, got %v", err)
	}
	_ = b.SetAuto(false)
	if err := b.CursorG(20, 20); err != nil {
		t.Fatal(err)
	}
	if x, y := b.CursorPos(); x != 3 || y != 2 {
		t.Fatalf("expected character cursor 3,2, got %d,%d", x, y)
	}
	if err := b.SetAuto(true); !errors.Is(err, ErrOffGrid) {
		t.Fatalf("expected ErrOffGrid, got %v", err)
	}
}

func TestWideRuneTakesTwoCells(t *testing.T) {
	b := newTerm(t)
	b.Write('世')
	if x, _ := b.CursorPos(); x != 3 {
		t.Fatalf("expected cursor at column 3, got %d", x)
	}
	if !b.Cell(2, 1).Cont {
		t.Fatalf("expected continuation cell")
	}
	if got := b.Row(1); got != "世" {
		t.Fatalf("expected %q, got %q", "世", got)
	}
}

func TestTabStops(t *testing.T) {
	b := newTerm(t)
	b.Write('\t')
	if x, _ := b.CursorPos(); x != 9 {
		t.Fatalf("expected default stop at 9, got %d", x)
	}
	b.ClearTabs()
	if err := b.SetTab(30); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTab(20); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{20, 30}, b.Tabs()); diff != "" {
		t.Fatalf("unexpected tabs (-want +got):\n%s", diff)
	}
	b.Write('\t')
	b.Write('\t')
	b.Write('\t')
	if x, _ := b.CursorPos(); x != 30 {
		t.Fatalf("expected to stay on last stop, got %d", x)
	}
	if err := b.SetTab(81); !errors.Is(err, ErrBadTab) {
		t.Fatalf("expected ErrBadTab, got %v", err)
	}
}

func TestDelErasesPreviousCharacter(t *testing.T) {
	b := newTerm(t)
	b.WriteString("abc")
	b.Del()
	if got := b.Row(1); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
	if x, _ := b.CursorPos(); x != 3 {
		t.Fatalf("expected cursor at 3, got %d", x)
	}
}

func TestReverseSwapsColours(t *testing.T) {
	b := newTerm(t)
	b.SetAttr(Reverse, true)
	b.Write('x')
	c := b.Cell(1, 1)
	if c.FG != white || c.BG != black {
		t.Fatalf("expected swapped colours, got %+v", c)
	}
	if got := b.fb.Pixel(0, 0); got != black {
		t.Fatalf("expected reversed background pixel, got %v", got)
	}
}

func TestResizeKeepsOverlap(t *testing.T) {
	b := newTerm(t)
	b.WriteString("keep me")
	b.Resize(40*7, 10*13)
	if c, r := b.Size(); c != 40 || r != 10 {
		t.Fatalf("expected 40x10, got %dx%d", c, r)
	}
	if got := b.Row(1); got != "keep me" {
		t.Fatalf("expected contents kept, got %q", got)
	}
}

func TestDirtyTracksOutput(t *testing.T) {
	b := newTerm(t)
	b.TakeDirty()
	b.Cursor(2, 2)
	b.Write('x')
	r := b.TakeDirty()
	if r.Min.X != 7 || r.Min.Y != 13 || r.Dx() != 7 || r.Dy() != 13 {
		t.Fatalf("unexpected dirty rect %v", r)
	}
	if !b.TakeDirty().Empty() {
		t.Fatalf("expected dirty rect reset")
	}
}
