// Package cellwin is a character-cell virtual terminal drawn in native
// windows. A Terminal owns the windows, their screen buffers and registries,
// and the event pipeline that turns native notifications into events.
//
// One lock guards the Terminal. Operations keep it across their calls into
// the native context, so a buffer and its native window change together; it
// is let go only while a window is created or a modal dialog is up. The
// native context never takes the lock and only posts to the queue. Client
// calls on other input streams therefore wait behind each native round
// trip, but a slow native call cannot deadlock the dispatch loop.
package cellwin

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"cellwin/internal/clip"
	"cellwin/internal/config"
	"cellwin/internal/diag"
	"cellwin/internal/dialogs"
	"cellwin/internal/event"
	"cellwin/internal/intertask"
	"cellwin/internal/msgq"
	"cellwin/internal/platform"
	"cellwin/internal/render"
	"cellwin/internal/screen"
	"cellwin/internal/ui"
	"cellwin/internal/window"
)

var (
	ErrNoWindow     = errors.New("cellwin: no such window")
	ErrWindowExists = errors.New("cellwin: window id in use")
	ErrClosed       = errors.New("cellwin: terminal closed")
	ErrTerminated   = errors.New("cellwin: terminated")
	ErrBadColor     = errors.New("cellwin: unknown colour")
)

// Handler is offered events before NextEvent returns them. It returns true
// when it has handled the event.
type Handler func(ev Event) bool

// Terminal is the state shared by the client, the native context and the
// dialog context. Every field below mu is guarded by it.
type Terminal struct {
	cfg     config.Config
	plat    platform.Platform
	queue   *msgq.Queue
	native  *intertask.Caller
	dialogs *dialogs.Worker
	board   clip.Board
	rep     *diag.Reporter
	log     *log.Logger

	group    errgroup.Group
	sigs     chan os.Signal
	stopOnce sync.Once

	mu       sync.Mutex
	closed   bool
	tr       event.Translator
	face     *render.Face
	defaults screen.Defaults
	windows  map[int]*window.Context
	opening  map[int]bool
	held     map[int][]Event
	master   Handler
	handlers [event.NumKinds]Handler
	frames   map[int]func()
	timerGen int64
}

type Option func(*Terminal)

func WithLogger(l *log.Logger) Option {
	return func(t *Terminal) { t.log = l }
}

// WithReporter replaces the fatal error reporter.
func WithReporter(r *diag.Reporter) Option {
	return func(t *Terminal) { t.rep = r }
}

func WithClipboard(b clip.Board) Option {
	return func(t *Terminal) { t.board = b }
}

// WithDialogs shows modal dialogs with p instead of the host's dialogs.
func WithDialogs(p dialogs.Presenter) Option {
	return func(t *Terminal) { t.dialogs = dialogs.NewWorker(p) }
}

func newTerminal(p platform.Platform, cfg config.Config, opts []Option) (*Terminal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Terminal{
		cfg:     cfg,
		plat:    p,
		queue:   msgq.New(cfg.QueueCapacity, cfg.ControlCapacity),
		native:  intertask.NewCaller(cfg.ControlCapacity),
		windows: map[int]*window.Context{},
		opening: map[int]bool{},
		held:    map[int][]Event{},
		frames:  map[int]func(){},
	}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = log.New(os.Stderr, "", log.LstdFlags)
	}
	if t.rep == nil {
		t.rep = diag.NewReporter(t.log)
	}
	if t.board == nil {
		t.board = &clip.System{}
	}
	if t.dialogs == nil {
		t.dialogs = dialogs.NewWorker(dialogs.Native{})
	}
	if cfg.AlertErrors && t.rep.Alert == nil {
		t.rep.Alert = func(title, msg string) { _ = t.dialogs.Alert(title, msg) }
	}
	if cfg.DumpScreens != "" {
		dir := cfg.DumpScreens
		t.rep.AddDumpHook(func() error { return t.dumpTo(dir) })
	}

	t.tr = event.Translator{
		Mouse:        cfg.Mouse,
		Joystick:     cfg.Joystick,
		JoyThreshold: int32(cfg.JoyThreshold * event.JoyRange),
	}
	t.face = render.FixedFace()
	if cfg.FontSize > 0 {
		t.face = render.NewFace(cfg.FontSize)
	}
	fg, ok := ui.Named(cfg.Foreground)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, cfg.Foreground)
	}
	bg, ok := ui.Named(cfg.Background)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, cfg.Background)
	}
	t.defaults = screen.Defaults{
		FG:            fg,
		BG:            bg,
		FGMix:         render.MixOverwrite,
		BGMix:         render.MixOverwrite,
		Auto:          true,
		CursorVisible: true,
		LineWidth:     1,
		Face:          t.face,
	}
	return t, nil
}

// post is the platform's way into the queue.
func (t *Terminal) post(n platform.Notification) {
	if t.cfg.DumpMessages {
		t.log.Printf("msg: win %d %v %#x %#x", n.Window, n.Kind, n.A, n.B)
	}
	t.queue.Enqueue(n)
}

func (t *Terminal) startWorkers() {
	t.group.Go(func() error {
		t.dialogs.Run()
		return nil
	})
	t.sigs = make(chan os.Signal, 1)
	signal.Notify(t.sigs, syscall.SIGINT, syscall.SIGTERM)
	done := t.native.Done()
	t.group.Go(func() error {
		for {
			select {
			case <-t.sigs:
				t.queue.EnqueueControl(platform.Notification{Kind: platform.KindTerminate})
			case <-done:
				return nil
			}
		}
	})
}

// Start creates a Terminal and runs the native loop on its own goroutine.
// Use it with platforms that do not need the main thread.
func Start(p platform.Platform, cfg config.Config, opts ...Option) (*Terminal, error) {
	t, err := newTerminal(p, cfg, opts)
	if err != nil {
		return nil, err
	}
	t.startWorkers()
	t.group.Go(func() error {
		return t.plat.Run(t.post, t.native.Requests(), t.native.Done())
	})
	return t, nil
}

// Main runs the native loop on the calling goroutine and client on another.
// It returns when client has returned and the Terminal is closed.
func Main(p platform.Platform, cfg config.Config, client func(t *Terminal) error, opts ...Option) error {
	t, err := newTerminal(p, cfg, opts)
	if err != nil {
		return err
	}
	t.startWorkers()
	var clientErr error
	t.group.Go(func() error {
		defer t.Close()
		clientErr = client(t)
		return nil
	})
	runErr := t.plat.Run(t.post, t.native.Requests(), t.native.Done())
	// Nothing serves native requests any more.
	t.native.Stop()
	t.Close()
	if err := t.group.Wait(); err != nil {
		return err
	}
	if clientErr != nil {
		return clientErr
	}
	return runErr
}

// Close tears the Terminal down. A NextEvent blocked in another goroutine
// returns a Terminate event, later calls return ErrClosed.
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.queue.EnqueueControl(platform.Notification{Kind: platform.KindTerminate})
	for _, id := range t.windowIDs() {
		t.closeWindow(id)
	}
	t.mu.Unlock()

	t.stopOnce.Do(func() {
		t.rep.Shutdown()
		if t.sigs != nil {
			signal.Stop(t.sigs)
		}
		t.native.Stop()
		t.dialogs.Stop()
		t.queue.Close()
	})
	return nil
}

// Wait waits for the goroutines Start launched after Close.
func (t *Terminal) Wait() error { return t.group.Wait() }

func (t *Terminal) Config() config.Config { return t.cfg }

// call runs fn on the native context. The caller holds the lock.
func (t *Terminal) call(op string, fn func() error) error {
	if err := t.native.Call(fn); err != nil {
		return diag.New(diag.NativeFailure, op, err)
	}
	return nil
}

// fail classifies err and applies the error policy. It is called with the
// lock held, which the dump hooks rely on.
func (t *Terminal) fail(op string, code diag.Code, err error) error {
	if err == nil {
		return nil
	}
	var de *diag.Error
	if !errors.As(err, &de) {
		err = diag.New(code, op, err)
	}
	if t.rep.ShuttingDown() {
		t.rep.LogShutdown(err)
		return err
	}
	if t.cfg.AbortOnError {
		t.rep.Abort(err)
	}
	return err
}

// window looks up an open window.
func (t *Terminal) window(op string, id int) (*window.Context, error) {
	if t.closed {
		return nil, t.fail(op, diag.StateConflict, ErrClosed)
	}
	c, ok := t.windows[id]
	if !ok {
		return nil, t.fail(op, diag.InvalidReference, fmt.Errorf("%w: %d", ErrNoWindow, id))
	}
	return c, nil
}

func (t *Terminal) windowIDs() []int {
	ids := make([]int, 0, len(t.windows))
	for id := range t.windows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Mice returns the number of mice the platform reports.
func (t *Terminal) Mice() (int, error) {
	var n int
	err := t.call("Mice", func() error { n = t.plat.Mice(); return nil })
	return n, err
}

func (t *Terminal) Joysticks() (int, error) {
	var n int
	err := t.call("Joysticks", func() error { n = t.plat.Joysticks(); return nil })
	return n, err
}

// CellSize implements event.Resolver.
func (t *Terminal) CellSize(win int) (int, int) {
	c, ok := t.windows[win]
	if !ok {
		return t.face.CellW, t.face.CellH
	}
	return c.CellSize()
}

func (t *Terminal) WidgetByHandle(win int, h platform.Handle) (int, event.WidgetKind, bool) {
	c, ok := t.windows[win]
	if !ok {
		return 0, 0, false
	}
	id, w, err := c.Widgets.FindByHandle(h)
	if err != nil {
		return 0, 0, false
	}
	return id, w.Kind, true
}

func (t *Terminal) TimerFired(win, id int, gen int64) bool {
	c, ok := t.windows[win]
	if !ok {
		return false
	}
	tm, err := c.Timers.Find(id)
	if err != nil || tm.Gen != gen {
		return false
	}
	if !tm.Repeat {
		_, _ = c.Timers.Remove(id)
	}
	return true
}
