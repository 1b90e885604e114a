// Package diag classifies library errors and implements the fatal error
// policy: report once, dump, exit once.
package diag

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

type Code int

const (
	ResourceExhausted Code = iota + 1
	InvalidReference
	StateConflict
	NativeFailure
)

var codeNames = map[Code]string{
	ResourceExhausted: "resource exhausted",
	InvalidReference:  "invalid reference",
	StateConflict:     "state conflict",
	NativeFailure:     "native failure",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is a classified error raised by operation Op.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code of the first classified error in err's chain, or
// zero.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Reporter renders fatal errors and terminates the process exactly once.
type Reporter struct {
	Logger *log.Logger
	// Alert shows a modal message; it is used when stderr is not a
	// terminal.
	Alert func(title, msg string)
	Exit  func(code int)
	// Console is true when errors should be printed rather than alerted.
	Console bool

	once     sync.Once
	mu       sync.Mutex
	hooks    []func() error
	shutdown atomic.Bool
}

func NewReporter(logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Reporter{
		Logger:  logger,
		Exit:    os.Exit,
		Console: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Discard returns a reporter that logs nowhere and never exits, for tests.
func Discard() *Reporter {
	return &Reporter{
		Logger:  log.New(io.Discard, "", 0),
		Exit:    func(int) {},
		Console: true,
	}
}

// AddDumpHook registers fn to run when the process aborts.
func (r *Reporter) AddDumpHook(fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Abort reports err, runs the dump hooks and exits with status 1. Only the
// first call has any effect.
func (r *Reporter) Abort(err error) {
	r.once.Do(func() {
		if r.shutdown.Load() {
			r.LogShutdown(err)
			return
		}
		r.render(err)
		r.mu.Lock()
		hooks := append([]func() error(nil), r.hooks...)
		r.mu.Unlock()
		for _, h := range hooks {
			if herr := h(); herr != nil {
				r.Logger.Printf("dump failed: %v", herr)
			}
		}
		r.Exit(1)
	})
}

func (r *Reporter) render(err error) {
	if r.Console || r.Alert == nil {
		r.Logger.Printf("cellwin: %v", err)
		return
	}
	r.Alert("cellwin error", err.Error())
}

// Shutdown marks the library as torn down. Later errors are only logged.
func (r *Reporter) Shutdown() { r.shutdown.Store(true) }

func (r *Reporter) ShuttingDown() bool { return r.shutdown.Load() }

func (r *Reporter) LogShutdown(err error) {
	r.Logger.Printf("cellwin: error during shutdown: %v", err)
}
