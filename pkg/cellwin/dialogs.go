package cellwin

import (
	"errors"

	"cellwin/internal/diag"
	"cellwin/internal/dialogs"
)

// ErrCancelled is returned by the query dialogs when the user dismisses
// them without choosing.
var ErrCancelled = dialogs.ErrCancelled

type Filter = dialogs.Filter

// failAsync applies the error policy for calls made without the lock.
func (t *Terminal) failAsync(op string, code diag.Code, err error) error {
	if err == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fail(op, code, err)
}

// Alert shows a message box and waits for it to be dismissed. Dialogs run
// on their own context and the Terminal stays responsive meanwhile.
func (t *Terminal) Alert(title, msg string) error {
	return t.failAsync("Alert", diag.NativeFailure, t.dialogs.Alert(title, msg))
}

func (t *Terminal) QueryYesNo(title, msg string) (bool, error) {
	yes, err := t.dialogs.YesNo(title, msg)
	return yes, t.failAsync("QueryYesNo", diag.NativeFailure, err)
}

// QueryOpen asks for an existing file to open.
func (t *Terminal) QueryOpen(title string, filters ...Filter) (string, error) {
	path, err := t.dialogs.Open(title, filters...)
	if errors.Is(err, dialogs.ErrCancelled) {
		return "", ErrCancelled
	}
	return path, t.failAsync("QueryOpen", diag.NativeFailure, err)
}

func (t *Terminal) QuerySave(title string, filters ...Filter) (string, error) {
	path, err := t.dialogs.Save(title, filters...)
	if errors.Is(err, dialogs.ErrCancelled) {
		return "", ErrCancelled
	}
	return path, t.failAsync("QuerySave", diag.NativeFailure, err)
}

func (t *Terminal) CopyText(s string) error {
	return t.failAsync("CopyText", diag.NativeFailure, t.board.WriteText(s))
}

func (t *Terminal) PasteText() (string, error) {
	s, err := t.board.ReadText()
	return s, t.failAsync("PasteText", diag.NativeFailure, err)
}

// CopyScreen puts the pixels of win's visible screen on the clipboard.
func (t *Terminal) CopyScreen(win int) error {
	const op = "CopyScreen"
	t.mu.Lock()
	c, err := t.window(op, win)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	img := c.Display().FrameBuffer().Clone().RGBA()
	t.mu.Unlock()
	return t.failAsync(op, diag.NativeFailure, t.board.WriteImage(img))
}
