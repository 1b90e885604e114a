package cellwin

import (
	"fmt"

	"cellwin/internal/diag"
	"cellwin/internal/event"
	"cellwin/internal/linedit"
	"cellwin/internal/screen"
)

// lineWindow returns the lowest numbered window reading from input.
func (t *Terminal) lineWindow(input int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, t.fail("ReadLine", diag.StateConflict, ErrClosed)
	}
	for _, id := range t.windowIDs() {
		if t.windows[id].Input == input {
			return id, nil
		}
	}
	return 0, t.fail("ReadLine", diag.InvalidReference, fmt.Errorf("%w: none reads input %d", ErrNoWindow, input))
}

// ReadLine reads a line of text from input, echoing it at the cursor of the
// window bound to the stream. Left, Right, Home and End move within the
// line and backspace deletes. Events the editor does not use are dropped.
// It returns ErrTerminated when a Terminate event arrives first.
func (t *Terminal) ReadLine(input int) (string, error) {
	win, err := t.lineWindow(input)
	if err != nil {
		return "", err
	}
	var (
		line   *linedit.Line
		sx, sy int
	)
	err = t.draw("ReadLine", win, func(b *screen.Buffer) error {
		line = t.windows[win].Line
		line.Reset()
		sx, sy = b.CursorPos()
		return nil
	})
	if err != nil {
		return "", err
	}
	shown := 0
	for {
		ev, err := t.NextEvent(input)
		if err != nil {
			return "", err
		}
		if ev.Win() != win && ev.Kind() != KindTerminate {
			continue
		}
		switch e := ev.(type) {
		case event.Terminate:
			return "", ErrTerminated
		case event.Char:
			line.Insert(e.R)
		case event.Key:
			switch e.Code {
			case KeyEnter:
				s := line.String()
				err := t.draw("ReadLine", win, func(b *screen.Buffer) error {
					if err := placeCaret(b, sx, sy, line.Width()); err != nil {
						return err
					}
					b.Write('\n')
					return nil
				})
				line.Reset()
				return s, err
			case KeyDelCharBack:
				line.Backspace()
			case KeyDelCharFwd:
				line.DeleteForward()
			case KeyLeft:
				line.Left()
			case KeyRight:
				line.Right()
			case KeyLeftWord:
				line.WordLeft()
			case KeyRightWord:
				line.WordRight()
			case KeyHome, KeyHomeLine:
				line.Home()
			case KeyEnd, KeyEndLine:
				line.End()
			case KeyInsertToggle:
				line.Overwrite = !line.Overwrite
			default:
				continue
			}
		default:
			continue
		}
		err = t.draw("ReadLine", win, func(b *screen.Buffer) (err error) {
			shown, sy, err = echo(b, sx, sy, line, shown)
			return err
		})
		if err != nil {
			return "", err
		}
	}
}

// echo redraws the line from its start, blanks what a shorter line leaves
// behind and puts the cursor on the caret. It returns the width drawn and
// the start row, which moves up when the text scrolled the buffer.
func echo(b *screen.Buffer, sx, sy int, l *linedit.Line, shown int) (int, int, error) {
	if err := b.Cursor(sx, sy); err != nil {
		return shown, sy, err
	}
	b.WriteString(l.String())
	w := l.Width()
	for i := w; i < shown; i++ {
		b.Write(' ')
	}
	if b.Auto() {
		_, ey := b.CursorPos()
		_, want := caretAt(b, sx, sy, max(w, shown))
		sy -= want - ey
	}
	return w, sy, placeCaret(b, sx, sy, l.Column())
}

// caretAt is the cell col cells into a line starting at sx, sy.
func caretAt(b *screen.Buffer, sx, sy, col int) (int, int) {
	cols, _ := b.Size()
	off := sx - 1 + col
	return off%cols + 1, sy + off/cols
}

func placeCaret(b *screen.Buffer, sx, sy, col int) error {
	return b.Cursor(caretAt(b, sx, sy, col))
}
