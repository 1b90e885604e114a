// Package event defines the canonical events delivered to clients and the
// translator that derives them from native notifications.
package event

import (
	"fmt"
	"image"

	"cellwin/internal/platform"
)

type Kind int

const (
	KindChar Kind = iota + 1
	KindKey
	KindMouseMove
	KindMouseAssert
	KindMouseDeassert
	KindJoyMove
	KindJoyAssert
	KindJoyDeassert
	KindTimer
	KindFrame
	KindResize
	KindRedraw
	KindFocus
	KindNoFocus
	KindMinimize
	KindMaximize
	KindNormalize
	KindMenu
	KindWidget
	KindTerminate
	KindClose
	kindCount
)

// NumKinds bounds the Kind values, for per kind handler tables.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	"", "char", "key", "mousemove", "mouseassert", "mousedeassert", "joymove",
	"joyassert", "joydeassert", "timer", "frame", "resize", "redraw", "focus",
	"nofocus", "minimize", "maximize", "normalize", "menu", "widget",
	"terminate", "close",
}

func (k Kind) String() string {
	if k <= 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is one canonical event. The concrete type is one of the structs in
// this package.
type Event interface {
	Kind() Kind
	Win() int
}

// Header carries the id of the window an event belongs to.
type Header struct {
	Window int
}

func (h Header) Win() int { return h.Window }

type Char struct {
	Header
	R rune
}

// Key is an editing or function key.
type Key struct {
	Header
	Code KeyCode
	// Fn is the function key number for KeyFunction.
	Fn int
}

// MouseMove reports a new mouse position in characters and in pixels, both
// 1-based.
type MouseMove struct {
	Header
	Mouse  int
	X, Y   int
	XG, YG int
}

type MouseAssert struct {
	Header
	Mouse  int
	Button int
}

type MouseDeassert struct {
	Header
	Mouse  int
	Button int
}

// JoyMove reports every axis of a joystick scaled to [-JoyRange, JoyRange].
type JoyMove struct {
	Header
	Joy     int
	X, Y, Z int32
}

type JoyAssert struct {
	Header
	Joy    int
	Button int
}

type JoyDeassert struct {
	Header
	Joy    int
	Button int
}

type Timer struct {
	Header
	ID int
}

type Frame struct{ Header }

type Resize struct {
	Header
	WidthPx, HeightPx int
}

// Redraw asks the client to repaint Rect (0-based pixels). It is only
// delivered for windows the library does not buffer.
type Redraw struct {
	Header
	Rect image.Rectangle
}

type Focus struct{ Header }
type NoFocus struct{ Header }
type Minimize struct{ Header }
type Maximize struct{ Header }
type Normalize struct{ Header }

type Menu struct {
	Header
	ID int
}

// Widget reports activity on a widget: the command says what happened and
// Value carries the position, index or state where the command has one.
type Widget struct {
	Header
	Widget WidgetKind
	ID     int
	Cmd    platform.Command
	Value  int
}

type Terminate struct{ Header }
type Close struct{ Header }

func (Char) Kind() Kind          { return KindChar }
func (Key) Kind() Kind           { return KindKey }
func (MouseMove) Kind() Kind     { return KindMouseMove }
func (MouseAssert) Kind() Kind   { return KindMouseAssert }
func (MouseDeassert) Kind() Kind { return KindMouseDeassert }
func (JoyMove) Kind() Kind       { return KindJoyMove }
func (JoyAssert) Kind() Kind     { return KindJoyAssert }
func (JoyDeassert) Kind() Kind   { return KindJoyDeassert }
func (Timer) Kind() Kind         { return KindTimer }
func (Frame) Kind() Kind         { return KindFrame }
func (Resize) Kind() Kind        { return KindResize }
func (Redraw) Kind() Kind        { return KindRedraw }
func (Focus) Kind() Kind         { return KindFocus }
func (NoFocus) Kind() Kind       { return KindNoFocus }
func (Minimize) Kind() Kind      { return KindMinimize }
func (Maximize) Kind() Kind      { return KindMaximize }
func (Normalize) Kind() Kind     { return KindNormalize }
func (Menu) Kind() Kind          { return KindMenu }
func (Widget) Kind() Kind        { return KindWidget }
func (Terminate) Kind() Kind     { return KindTerminate }
func (Close) Kind() Kind         { return KindClose }

type WidgetKind int

const (
	WidgetButton WidgetKind = iota + 1
	WidgetCheckBox
	WidgetRadioButton
	WidgetGroup
	WidgetBackground
	WidgetScrollBar
	WidgetNumberBox
	WidgetEditBox
	WidgetProgressBar
	WidgetListBox
	WidgetDropBox
	WidgetDropEditBox
	WidgetSlider
	WidgetTabBar
)

var widgetNames = [...]string{
	"", "button", "checkbox", "radiobutton", "group", "background",
	"scrollbar", "numberbox", "editbox", "progressbar", "listbox", "dropbox",
	"dropeditbox", "slider", "tabbar",
}

func (k WidgetKind) String() string {
	if k <= 0 || int(k) >= len(widgetNames) {
		return fmt.Sprintf("widget(%d)", int(k))
	}
	return widgetNames[k]
}
