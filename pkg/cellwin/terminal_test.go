package cellwin

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cellwin/internal/clip"
	"cellwin/internal/config"
	"cellwin/internal/diag"
	"cellwin/internal/dialogs"
	"cellwin/internal/event"
	"cellwin/internal/platform"
	"cellwin/internal/platform/memory"
	"cellwin/internal/registry"
	"cellwin/pkg/scrdump"
)

type fakeDialogs struct {
	alerts []string
	yes    bool
	path   string
}

func (d *fakeDialogs) Alert(title, msg string)     { d.alerts = append(d.alerts, title+": "+msg) }
func (d *fakeDialogs) YesNo(title, msg string) bool { return d.yes }

func (d *fakeDialogs) Open(string, []dialogs.Filter) (string, error) {
	if d.path == "" {
		return "", dialogs.ErrCancelled
	}
	return d.path, nil
}

func (d *fakeDialogs) Save(title string, f []dialogs.Filter) (string, error) {
	return d.Open(title, f)
}

type harness struct {
	term  *Terminal
	back  *memory.Backend
	board *clip.Memory
	dlg   *fakeDialogs
}

func newHarness(t *testing.T, edit func(c *config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.AbortOnError = false
	cfg.AlertErrors = false
	if edit != nil {
		edit(&cfg)
	}
	h := &harness{back: memory.New(), board: &clip.Memory{}, dlg: &fakeDialogs{}}
	term, err := Start(h.back, cfg,
		WithReporter(diag.Discard()),
		WithClipboard(h.board),
		WithDialogs(h.dlg),
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	h.term = term
	t.Cleanup(func() {
		term.Close()
		if err := term.Wait(); err != nil {
			t.Errorf("wait: %v", err)
		}
	})
	return h
}

func (h *harness) open(t *testing.T, o WindowOptions) int {
	t.Helper()
	id, err := h.term.OpenWindow(o)
	if err != nil {
		t.Fatalf("open window: %v", err)
	}
	return id
}

// next waits for the next event on input, failing the test after a while.
func (h *harness) next(t *testing.T, input int) Event {
	t.Helper()
	type result struct {
		ev  Event
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ev, err := h.term.NextEvent(input)
		ch <- result{ev, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			t.Fatalf("next event: %v", r.err)
		}
		return r.ev
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for an event on input %d", input)
	}
	return nil
}

func TestOneShotTimerFiresOnce(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.SetTimer(win, 1, 100, false); err != nil {
		t.Fatal(err)
	}
	got := h.next(t, win)
	if diff := cmp.Diff(Event(TimerEvent{Header: event.Header{Window: win}, ID: 1}), got); diff != "" {
		t.Fatalf("unexpected event (-want +got):\n%s", diff)
	}
	// A later timer shows nothing else was queued for timer 1.
	if err := h.term.SetTimer(win, 2, 1000, false); err != nil {
		t.Fatal(err)
	}
	if ev, ok := h.next(t, win).(TimerEvent); !ok || ev.ID != 2 {
		t.Fatalf("expected timer 2, got %+v", ev)
	}
}

func TestRearmedTimerIgnoresEarlierExpiry(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.SetTimer(win, 1, 1, false); err != nil {
		t.Fatal(err)
	}
	// Let the first expiry reach the queue undelivered.
	time.Sleep(50 * time.Millisecond)
	const ticks = 3000
	start := time.Now()
	if err := h.term.SetTimer(win, 1, ticks, false); err != nil {
		t.Fatal(err)
	}
	ev, ok := h.next(t, win).(TimerEvent)
	if !ok || ev.ID != 1 {
		t.Fatalf("expected timer 1, got %+v", ev)
	}
	if d := time.Since(start); d < ticks*Tick {
		t.Fatalf("expected timer after at least %v, got %v", ticks*Tick, d)
	}
	if err := h.term.KillTimer(win, 1); diag.CodeOf(err) != diag.InvalidReference {
		t.Fatalf("expected the re-armed one-shot gone after firing, got %v", err)
	}
}

func TestRepeatingTimerStopsWhenKilled(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.SetTimer(win, 3, 10, true); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if ev, ok := h.next(t, win).(TimerEvent); !ok || ev.ID != 3 {
			t.Fatalf("expected timer 3, got %+v", ev)
		}
	}
	if err := h.term.KillTimer(win, 3); err != nil {
		t.Fatal(err)
	}
	if err := h.term.KillTimer(win, 3); diag.CodeOf(err) != diag.InvalidReference {
		t.Fatalf("expected invalid reference killing a dead timer, got %v", err)
	}
}

func TestTwentyFiveLinesScrollOnce(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	for i := 1; i <= 25; i++ {
		if err := h.term.Printf(win, "line %d\n", i); err != nil {
			t.Fatal(err)
		}
	}
	for y, want := range map[int]string{1: "line 2", 24: "line 25", 25: ""} {
		got, err := h.term.Row(win, y)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("expected row %d to be %q, got %q", y, want, got)
		}
	}
}

func TestClickDeliversAssertThenDeassert(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	h.back.Click(win, image.Pt(0, 0))
	got := []Event{h.next(t, win), h.next(t, win)}
	want := []Event{
		MouseAssertEvent{Header: event.Header{Window: win}, Mouse: 1, Button: 1},
		MouseDeassertEvent{Header: event.Header{Window: win}, Mouse: 1, Button: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestMouseMoveReportsCharacterAndPixel(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	h.back.Post(platform.Notification{Window: win, Kind: platform.KindMouseMove, A: 1, B: platform.PackPoint(15, 27)})
	ev, ok := h.next(t, win).(MouseMoveEvent)
	if !ok {
		t.Fatalf("expected a mouse move, got %+v", ev)
	}
	// 7x13 cells.
	if ev.X != 3 || ev.Y != 3 || ev.XG != 16 || ev.YG != 28 {
		t.Fatalf("expected 3,3 / 16,28, got %d,%d / %d,%d", ev.X, ev.Y, ev.XG, ev.YG)
	}
}

func TestEventsHeldForOtherInput(t *testing.T) {
	h := newHarness(t, nil)
	one := h.open(t, WindowOptions{ID: 1})
	two := h.open(t, WindowOptions{ID: 2})
	h.back.Type(two, "a")
	h.back.Type(one, "b")
	if ev, ok := h.next(t, one).(CharEvent); !ok || ev.R != 'b' {
		t.Fatalf("expected 'b' on input 1, got %+v", ev)
	}
	if ev, ok := h.next(t, two).(CharEvent); !ok || ev.R != 'a' {
		t.Fatalf("expected held 'a' on input 2, got %+v", ev)
	}
}

func TestChildSharesParentInput(t *testing.T) {
	h := newHarness(t, nil)
	parent := h.open(t, WindowOptions{})
	child := h.open(t, WindowOptions{Parent: parent, Columns: 10, Rows: 5})
	h.back.Type(child, "c")
	ev := h.next(t, parent)
	if ev.Win() != child {
		t.Fatalf("expected the child's event on the parent's input, got %+v", ev)
	}
	if err := h.term.CloseWindow(parent); err != nil {
		t.Fatal(err)
	}
	if !h.back.Window(child).Closed() {
		t.Fatalf("expected closing the parent to close the child")
	}
}

func TestHandlersChain(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	var seen []rune
	h.term.SetHandler(KindChar, func(ev Event) bool {
		seen = append(seen, ev.(CharEvent).R)
		return false
	})
	var old Handler
	old = h.term.SetHandler(KindChar, func(ev Event) bool {
		old(ev)
		return ev.(CharEvent).R == 'x'
	})
	masterSaw := 0
	h.term.SetMasterHandler(func(Event) bool { masterSaw++; return false })
	h.back.Type(win, "xy")
	if ev, ok := h.next(t, win).(CharEvent); !ok || ev.R != 'y' {
		t.Fatalf("expected 'y' to reach the client, got %+v", ev)
	}
	if string(seen) != "xy" || masterSaw != 2 {
		t.Fatalf("expected chained handler to see xy and master 2 events, got %q and %d", string(seen), masterSaw)
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.WriteString(win, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := h.term.FRect(win, 50, 50, 90, 70); err != nil {
		t.Fatal(err)
	}
	nw := h.back.Window(win)
	if err := h.term.Restore(win); err != nil {
		t.Fatal(err)
	}
	first := nw.Snapshot().Fingerprint()
	if err := h.term.Restore(win); err != nil {
		t.Fatal(err)
	}
	if nw.Snapshot().Fingerprint() != first {
		t.Fatalf("expected a second restore to leave the window unchanged")
	}
}

func TestSelectScreenShowsHiddenDrawing(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	nw := h.back.Window(win)
	blank := nw.Snapshot().Fingerprint()
	if err := h.term.SelectScreen(win, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := h.term.WriteString(win, "offscreen"); err != nil {
		t.Fatal(err)
	}
	if nw.Snapshot().Fingerprint() != blank {
		t.Fatalf("expected drawing to a hidden screen to leave the window alone")
	}
	if err := h.term.SelectScreen(win, 2, 2); err != nil {
		t.Fatal(err)
	}
	if nw.Snapshot().Fingerprint() == blank {
		t.Fatalf("expected selecting the screen to show it")
	}
}

func TestResizeIsTrackedByWindow(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Buffered = false })
	win := h.open(t, WindowOptions{Columns: 10, Rows: 4})
	if err := h.term.SetSize(win, 20, 6); err != nil {
		t.Fatal(err)
	}
	ev, ok := h.next(t, win).(ResizeEvent)
	if !ok || ev.WidthPx != 140 || ev.HeightPx != 78 {
		t.Fatalf("expected a 140x78 resize, got %+v", ev)
	}
	if x, _ := h.term.MaxX(win); x != 20 {
		t.Fatalf("expected 20 columns after resize, got %d", x)
	}
}

func TestFailedWidgetLeavesNoControls(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	nw := h.back.Window(win)
	nw.LimitControls(1)
	err := h.term.NumberBox(win, 3, 1, 1, 100, 20, 0, 9)
	if diag.CodeOf(err) != diag.NativeFailure || !errors.Is(err, memory.ErrControlLimit) {
		t.Fatalf("expected a native failure, got %v", err)
	}
	if n := len(nw.Controls()); n != 0 {
		t.Fatalf("expected the spinner destroyed again, %d controls left", n)
	}
	if _, err := h.term.WidgetValue(win, 3); err == nil {
		t.Fatalf("expected widget 3 not to be registered")
	}
	nw.LimitControls(0)
	if err := h.term.NumberBox(win, 3, 1, 1, 100, 20, 0, 9); err != nil {
		t.Fatalf("expected the id to be free after the failure, got %v", err)
	}
	if n := len(nw.Controls()); n != 2 {
		t.Fatalf("expected 2 controls, got %d", n)
	}
}

func TestButtonClickReportsWidget(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.Button(win, 7, 11, 11, 80, 30, "OK"); err != nil {
		t.Fatal(err)
	}
	err := h.term.Button(win, 7, 11, 41, 80, 60, "again")
	if diag.CodeOf(err) != diag.StateConflict || !errors.Is(err, registry.ErrDuplicateID) {
		t.Fatalf("expected duplicate widget id to conflict, got %v", err)
	}
	if n := len(h.back.Window(win).Controls()); n != 1 {
		t.Fatalf("expected 1 control after a rejected duplicate, got %d", n)
	}
	h.back.Click(win, image.Pt(20, 20))
	got := h.next(t, win)
	want := Event(WidgetEvent{Header: event.Header{Window: win}, Widget: WidgetButton, ID: 7, Cmd: CmdClick})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected event (-want +got):\n%s", diff)
	}
	if err := h.term.EnableWidget(win, 7, false); err != nil {
		t.Fatal(err)
	}
	h.back.Click(win, image.Pt(20, 20))
	if _, ok := h.next(t, win).(MouseMoveEvent); !ok {
		t.Fatalf("expected a disabled button to let the click through")
	}
}

func TestCheckBoxStateFollowsClicks(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.CheckBox(win, 1, 1, 1, 100, 20, "check"); err != nil {
		t.Fatal(err)
	}
	h.back.Click(win, image.Pt(5, 5))
	if ev, ok := h.next(t, win).(WidgetEvent); !ok || ev.Value != 1 {
		t.Fatalf("expected check box set, got %+v", ev)
	}
	if v, err := h.term.WidgetValue(win, 1); err != nil || v != 1 {
		t.Fatalf("expected value 1, got %d (%v)", v, err)
	}
	if err := h.term.SelectWidget(win, 1, false); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.term.WidgetValue(win, 1); v != 0 {
		t.Fatalf("expected value 0 after deselect, got %d", v)
	}
}

func TestNumberBoxSpinnerSteps(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.NumberBox(win, 2, 1, 1, 100, 20, 0, 1); err != nil {
		t.Fatal(err)
	}
	up := image.Pt(95, 2)
	for i, want := range []int{1, 1} {
		h.back.Click(win, up)
		ev, ok := h.next(t, win).(WidgetEvent)
		if !ok || ev.ID != 2 || ev.Cmd != CmdLineUp || ev.Value != want {
			t.Fatalf("click %d: expected line up to %d, got %+v", i, want, ev)
		}
	}
	if s, _ := h.term.WidgetText(win, 2); s != "1" {
		t.Fatalf("expected text 1, got %q", s)
	}
	if err := h.term.SetWidgetValue(win, 2, 9); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.term.WidgetValue(win, 2); v != 1 {
		t.Fatalf("expected value clamped to 1, got %d", v)
	}
	if err := h.term.KillWidget(win, 2); err != nil {
		t.Fatal(err)
	}
	if n := len(h.back.Window(win).Controls()); n != 0 {
		t.Fatalf("expected both controls destroyed, %d left", n)
	}
}

func TestMoveWidgetMovesBuddy(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.Group(win, 3, 1, 1, 100, 50, "group"); err != nil {
		t.Fatal(err)
	}
	if err := h.term.MoveWidget(win, 3, 21, 31); err != nil {
		t.Fatal(err)
	}
	nw := h.back.Window(win)
	for _, hd := range nw.Controls() {
		c, _ := nw.Control(hd)
		if c.Rect != image.Rect(20, 30, 120, 80) {
			t.Fatalf("expected %v control at 20,30-120,80, got %v", c.Kind, c.Rect)
		}
	}
}

func TestMenuOneOfGroup(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	items := []MenuItem{
		{ID: 1, Label: "View", Children: []MenuItem{
			{ID: 10, Label: "Small", OneOf: true},
			{ID: 11, Label: "Large", OneOf: true},
			{Bar: true},
			{ID: 12, Label: "Grid", OnOff: true},
		}},
	}
	if err := h.term.SetMenu(win, items); err != nil {
		t.Fatal(err)
	}
	if err := h.term.MenuSelect(win, 10, true); err != nil {
		t.Fatal(err)
	}
	if err := h.term.MenuSelect(win, 11, true); err != nil {
		t.Fatal(err)
	}
	nw := h.back.Window(win)
	if s, _ := nw.Menu(10); s.Selected {
		t.Fatalf("expected selecting 11 to clear 10")
	}
	if s, _ := nw.Menu(11); !s.Selected {
		t.Fatalf("expected 11 selected")
	}
	if err := h.term.MenuEnable(win, 12, false); err != nil {
		t.Fatal(err)
	}
	if on, _, _ := h.term.MenuState(win, 12); on {
		t.Fatalf("expected 12 disabled")
	}
	h.back.Post(platform.Notification{Window: win, Kind: platform.KindCommand, B: 11})
	if ev, ok := h.next(t, win).(MenuEvent); !ok || ev.ID != 11 {
		t.Fatalf("expected menu 11, got %+v", ev)
	}
}

func TestUnknownWindowIsInvalidReference(t *testing.T) {
	h := newHarness(t, nil)
	err := h.term.WriteString(42, "x")
	if !errors.Is(err, ErrNoWindow) || diag.CodeOf(err) != diag.InvalidReference {
		t.Fatalf("expected invalid reference to a missing window, got %v", err)
	}
}

func TestCursorGWhileAutoConflicts(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.CursorG(win, 3, 3); diag.CodeOf(err) != diag.StateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if err := h.term.Auto(win, false); err != nil {
		t.Fatal(err)
	}
	if err := h.term.CursorG(win, 3, 3); err != nil {
		t.Fatalf("expected pixel positioning with auto off, got %v", err)
	}
}

func TestDumpScreensReadable(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	if err := h.term.WriteString(win, "dump me"); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := h.term.DumpScreens(dir); err != nil {
		t.Fatal(err)
	}
	s, err := scrdump.ReadFile(filepath.Join(dir, fmt.Sprintf("win%d-screen1.scr", win)), "")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Row(1); got != "dump me" {
		t.Fatalf("expected dumped row %q, got %q", "dump me", got)
	}
}

func TestReadLineEditsAndEchoes(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	h.back.Type(win, "helx\bp\n")
	done := make(chan string, 1)
	go func() {
		s, err := h.term.ReadLine(win)
		if err != nil {
			s = "error: " + err.Error()
		}
		done <- s
	}()
	select {
	case s := <-done:
		if s != "help" {
			t.Fatalf("expected %q, got %q", "help", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out reading a line")
	}
	if row, _ := h.term.Row(win, 1); row != "help" {
		t.Fatalf("expected echo %q, got %q", "help", row)
	}
	if y, _ := h.term.CurY(win); y != 2 {
		t.Fatalf("expected cursor on row 2 after enter, got %d", y)
	}
}

func TestReadLineWrapsOnBottomRow(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{Columns: 10, Rows: 3})
	if err := h.term.Cursor(win, 1, 3); err != nil {
		t.Fatal(err)
	}
	h.back.Type(win, "abcdefghijklmn\n")
	done := make(chan string, 1)
	go func() {
		s, err := h.term.ReadLine(win)
		if err != nil {
			s = "error: " + err.Error()
		}
		done <- s
	}()
	select {
	case s := <-done:
		if s != "abcdefghijklmn" {
			t.Fatalf("expected %q, got %q", "abcdefghijklmn", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out reading a line")
	}
	var rows []string
	for y := 1; y <= 3; y++ {
		row, err := h.term.Row(win, y)
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, row)
	}
	if diff := cmp.Diff([]string{"abcdefghij", "klmn", ""}, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	if y, _ := h.term.CurY(win); y != 3 {
		t.Fatalf("expected cursor on row 3, got %d", y)
	}
}

func TestClipboard(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{Columns: 4, Rows: 2})
	if err := h.term.CopyText("copied"); err != nil {
		t.Fatal(err)
	}
	if s, err := h.term.PasteText(); err != nil || s != "copied" {
		t.Fatalf("expected pasted text %q, got %q (%v)", "copied", s, err)
	}
	if err := h.term.CopyScreen(win); err != nil {
		t.Fatal(err)
	}
	if len(h.board.Image()) == 0 {
		t.Fatalf("expected a picture on the clipboard")
	}
}

func TestDialogsRunOnWorker(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.term.Alert("title", "message"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"title: message"}, h.dlg.alerts); diff != "" {
		t.Fatalf("unexpected alerts (-want +got):\n%s", diff)
	}
	if _, err := h.term.QueryOpen("open"); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected cancelled, got %v", err)
	}
	h.dlg.path = "/tmp/file.txt"
	if p, err := h.term.QuerySave("save"); err != nil || p != "/tmp/file.txt" {
		t.Fatalf("expected chosen path, got %q (%v)", p, err)
	}
}

func TestCloseUnblocksNextEvent(t *testing.T) {
	h := newHarness(t, nil)
	win := h.open(t, WindowOptions{})
	done := make(chan error, 1)
	go func() {
		ev, err := h.term.NextEvent(win)
		if err == nil && ev.Kind() != KindTerminate {
			err = fmt.Errorf("got %v", ev.Kind())
		}
		done <- err
	}()
	h.term.Close()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, ErrClosed) {
			t.Fatalf("expected terminate or closed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("NextEvent still blocked after Close")
	}
	if !h.back.Window(win).Closed() {
		t.Fatalf("expected Close to close the native window")
	}
	if _, err := h.term.NextEvent(win); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
