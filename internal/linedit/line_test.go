package linedit

import "testing"

func typeString(l *Line, s string) {
	for _, r := range s {
		l.Insert(r)
	}
}

func TestInsertAndDelete(t *testing.T) {
	l := New()
	typeString(l, "abcd")
	l.Caret = 2
	l.Insert('X')
	if got := l.String(); got != "abXcd" {
		t.Fatalf("unexpected insert result: %q", got)
	}
	l.DeleteForward()
	if got := l.String(); got != "abXd" {
		t.Fatalf("unexpected delete result: %q", got)
	}
	l.Backspace()
	if got := l.String(); got != "abd" {
		t.Fatalf("unexpected backspace result: %q", got)
	}
	if l.Caret != 2 {
		t.Fatalf("expected caret 2, got %d", l.Caret)
	}
}

func TestBackspaceAtStartDoesNothing(t *testing.T) {
	l := New()
	typeString(l, "ab")
	l.Home()
	if l.Backspace() {
		t.Fatalf("expected nothing removed")
	}
	if got := l.String(); got != "ab" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestOverwriteReplacesRune(t *testing.T) {
	l := New()
	typeString(l, "héllo")
	l.Home()
	l.Right()
	l.Overwrite = true
	l.Insert('e')
	if got := l.String(); got != "hello" {
		t.Fatalf("unexpected overwrite result: %q", got)
	}
}

func TestWordMovement(t *testing.T) {
	l := New()
	l.SetText("hello brave world")
	l.WordLeft()
	if l.Caret != len("hello brave ") {
		t.Fatalf("unexpected first word-left caret: %d", l.Caret)
	}
	l.WordLeft()
	if l.Caret != len("hello ") {
		t.Fatalf("unexpected second word-left caret: %d", l.Caret)
	}
	l.WordRight()
	if l.Caret != len("hello brave") {
		t.Fatalf("unexpected word-right caret: %d", l.Caret)
	}
}

func TestDeleteWordBackward(t *testing.T) {
	l := New()
	l.SetText("alpha beta  ")
	l.DeleteWordBackward()
	if got := l.String(); got != "alpha " {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestColumnCountsWideRunes(t *testing.T) {
	l := New()
	typeString(l, "a世b")
	if got := l.Column(); got != 4 {
		t.Fatalf("expected column 4, got %d", got)
	}
	if got := l.Reset(); got != "a世b" {
		t.Fatalf("unexpected reset result: %q", got)
	}
	if l.Len() != 0 || l.Caret != 0 {
		t.Fatalf("expected empty line after reset")
	}
}
