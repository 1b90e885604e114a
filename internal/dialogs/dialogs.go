// Package dialogs runs modal dialogs on their own execution context so a
// blocked dialog never stalls the native message loop.
package dialogs

import (
	"errors"

	"github.com/sqweek/dialog"

	"cellwin/internal/intertask"
)

var ErrCancelled = errors.New("dialogs: cancelled")

type Filter struct {
	Desc string
	Exts []string
}

// Presenter shows one modal dialog and returns when the user dismisses it.
type Presenter interface {
	Alert(title, msg string)
	YesNo(title, msg string) bool
	Open(title string, filters []Filter) (string, error)
	Save(title string, filters []Filter) (string, error)
}

// Native shows dialogs with the host's own file and message boxes.
type Native struct{}

func (Native) Alert(title, msg string) {
	dialog.Message("%s", msg).Title(title).Info()
}

func (Native) YesNo(title, msg string) bool {
	return dialog.Message("%s", msg).Title(title).YesNo()
}

func (Native) Open(title string, filters []Filter) (string, error) {
	return fileResult(fileBuilder(title, filters).Load())
}

func (Native) Save(title string, filters []Filter) (string, error) {
	return fileResult(fileBuilder(title, filters).Save())
}

func fileBuilder(title string, filters []Filter) *dialog.FileBuilder {
	b := dialog.File().Title(title)
	for _, f := range filters {
		b = b.Filter(f.Desc, f.Exts...)
	}
	return b
}

func fileResult(path string, err error) (string, error) {
	if errors.Is(err, dialog.ErrCancelled) || (err == nil && path == "") {
		return "", ErrCancelled
	}
	return path, err
}

// Worker serialises dialogs: one is shown at a time and each caller blocks
// until its own dialog is dismissed.
type Worker struct {
	p      Presenter
	caller *intertask.Caller
}

func NewWorker(p Presenter) *Worker {
	return &Worker{p: p, caller: intertask.NewCaller(0)}
}

// Run serves dialog requests until Stop is called.
func (w *Worker) Run() {
	intertask.Serve(w.caller.Requests(), w.caller.Done())
}

func (w *Worker) Stop() { w.caller.Stop() }

func (w *Worker) Alert(title, msg string) error {
	return w.caller.Call(func() error {
		w.p.Alert(title, msg)
		return nil
	})
}

func (w *Worker) YesNo(title, msg string) (bool, error) {
	var yes bool
	err := w.caller.Call(func() error {
		yes = w.p.YesNo(title, msg)
		return nil
	})
	return yes, err
}

func (w *Worker) Open(title string, filters ...Filter) (string, error) {
	var path string
	err := w.caller.Call(func() (err error) {
		path, err = w.p.Open(title, filters)
		return err
	})
	return path, err
}

func (w *Worker) Save(title string, filters ...Filter) (string, error) {
	var path string
	err := w.caller.Call(func() (err error) {
		path, err = w.p.Save(title, filters)
		return err
	})
	return path, err
}
