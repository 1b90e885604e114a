// Package linedit holds the input line being edited by a window's line
// reader.
package linedit

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

type Line struct {
	text      []byte
	Caret     int // byte offset
	Overwrite bool
}

func New() *Line {
	return &Line{}
}

func (l *Line) String() string { return string(l.text) }

func (l *Line) Len() int { return len(l.text) }

// Reset empties the line and returns the text it held.
func (l *Line) Reset() string {
	s := string(l.text)
	l.text = l.text[:0]
	l.Caret = 0
	return s
}

func (l *Line) SetText(s string) {
	l.text = append(l.text[:0], s...)
	l.Caret = len(l.text)
}

// Column returns the display column of the caret, counting wide runes as two
// cells.
func (l *Line) Column() int {
	l.Caret = clampToRuneBoundary(l.text, l.Caret)
	return runewidth.StringWidth(string(l.text[:l.Caret]))
}

// Width returns the display width of the whole line.
func (l *Line) Width() int {
	return runewidth.StringWidth(string(l.text))
}

// Insert puts r at the caret, replacing the rune under it in overwrite mode.
func (l *Line) Insert(r rune) {
	l.Caret = clampToRuneBoundary(l.text, l.Caret)
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	end := l.Caret
	if l.Overwrite {
		end = nextRuneBoundary(l.text, l.Caret)
	}
	l.replace(l.Caret, end, buf[:n])
	l.Caret += n
}

func (l *Line) replace(start, end int, insert []byte) {
	out := make([]byte, 0, len(l.text)-(end-start)+len(insert))
	out = append(out, l.text[:start]...)
	out = append(out, insert...)
	out = append(out, l.text[end:]...)
	l.text = out
}

func (l *Line) Left() {
	l.Caret = previousRuneBoundary(l.text, l.Caret)
}

func (l *Line) Right() {
	l.Caret = nextRuneBoundary(l.text, l.Caret)
}

func (l *Line) Home() { l.Caret = 0 }
func (l *Line) End()  { l.Caret = len(l.text) }

func (l *Line) WordLeft() {
	pos := clampToRuneBoundary(l.text, l.Caret)
	for pos > 0 {
		r, size := utf8.DecodeLastRune(l.text[:pos])
		if isWordRune(r) {
			break
		}
		pos -= max(size, 1)
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(l.text[:pos])
		if !isWordRune(r) {
			break
		}
		pos -= max(size, 1)
	}
	l.Caret = pos
}

func (l *Line) WordRight() {
	pos := clampToRuneBoundary(l.text, l.Caret)
	for pos < len(l.text) {
		r, size := utf8.DecodeRune(l.text[pos:])
		if isWordRune(r) {
			break
		}
		pos += max(size, 1)
	}
	for pos < len(l.text) {
		r, size := utf8.DecodeRune(l.text[pos:])
		if !isWordRune(r) {
			break
		}
		pos += max(size, 1)
	}
	l.Caret = pos
}

// Backspace removes the rune before the caret and reports whether anything
// was removed.
func (l *Line) Backspace() bool {
	if l.Caret <= 0 {
		return false
	}
	start := previousRuneBoundary(l.text, l.Caret)
	l.replace(start, l.Caret, nil)
	l.Caret = start
	return true
}

func (l *Line) DeleteForward() bool {
	l.Caret = clampToRuneBoundary(l.text, l.Caret)
	if l.Caret >= len(l.text) {
		return false
	}
	l.replace(l.Caret, nextRuneBoundary(l.text, l.Caret), nil)
	return true
}

func (l *Line) DeleteWordBackward() bool {
	if l.Caret <= 0 {
		return false
	}
	start := previousWordBoundary(l.text, l.Caret)
	l.replace(start, l.Caret, nil)
	l.Caret = start
	return true
}

func clampToRuneBoundary(text []byte, pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

func previousRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRune(text[:pos])
	return pos - max(size, 1)
}

func nextRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRune(text[pos:])
	return pos + max(size, 1)
}

// previousWordBoundary skips spaces left of pos, then the word before them.
func previousWordBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	for pos > 0 {
		r, size := utf8.DecodeLastRune(text[:pos])
		if !unicode.IsSpace(r) {
			break
		}
		pos -= max(size, 1)
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(text[:pos])
		if unicode.IsSpace(r) {
			break
		}
		pos -= max(size, 1)
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
