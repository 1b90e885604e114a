// Package platform describes the narrow interface between the cellwin core and
// a native windowing toolkit: the raw notification tuple the toolkit produces
// and the window operations the core asks it to perform.
package platform

import (
	"image"
	"image/color"

	"cellwin/internal/render"
)

// Handle identifies a native window or control. Zero is never a valid handle.
type Handle uintptr

type Kind int

// Raw notification kinds. The meaning of the A and B payload words is noted
// per kind.
const (
	KindNone        Kind = iota
	KindChar             // A: rune
	KindKey              // A: virtual key, B: modifier bits
	KindMouseMove        // A: mouse number, B: packed point
	KindMouseButton      // A: mouse number<<8 | button, B: 1 pressed, 0 released
	KindJoyAxis          // A: joystick<<8 | axis, B: raw axis value
	KindJoyButton        // A: joystick<<8 | button, B: 1 pressed, 0 released
	KindTimer            // A: timer id, B: generation
	KindFrame            // no payload
	KindResize           // A: width in pixels, B: height in pixels
	KindRepaint          // A, B: packed rectangle
	KindFocus            // no payload
	KindBlur             // no payload
	KindMinimize         // no payload
	KindMaximize         // no payload
	KindRestore          // no payload
	KindCommand          // A: control handle or 0 for menus, B: menu id or packed command
	KindClose            // no payload
	KindTerminate        // no payload
)

var kindNames = [...]string{
	"none", "char", "key", "mousemove", "mousebutton", "joyaxis", "joybutton",
	"timer", "frame", "resize", "repaint", "focus", "blur", "minimize",
	"maximize", "restore", "command", "close", "terminate",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Notification is the opaque tuple a native toolkit delivers: a window
// reference (0 when the notification is not bound to a window), a kind and
// two payload words.
type Notification struct {
	Window int
	Kind   Kind
	A      int64
	B      int64
}

// Poster accepts notifications from the native side.
type Poster func(Notification)

// Modifier bits carried in the B word of KindKey.
const (
	ModShift = 1 << iota
	ModCtrl
	ModAlt
)

// Virtual keys for KindKey. Printable keys and the control codes travel as
// KindChar instead.
const (
	VKNone = iota
	VKHome
	VKEnd
	VKUp
	VKDown
	VKLeft
	VKRight
	VKPageUp
	VKPageDown
	VKInsert
	VKDelete
	VKEscape
	VKPrint
	VKBackspace
	VKEnter
	VKTab
	VKF1 = 0x40 // VKF1+n-1 is function key n
)

// Joystick axis values are reported in [JoyNativeMin, JoyNativeMax].
const (
	JoyNativeMin = 0
	JoyNativeMax = 65535
)

// Joystick axes.
const (
	AxisX = iota
	AxisY
	AxisZ
)

func PackPoint(x, y int) int64 {
	return int64(int32(x))<<32 | int64(uint32(int32(y)))
}

func UnpackPoint(v int64) (int, int) {
	return int(int32(v >> 32)), int(int32(uint32(v)))
}

func PackRect(r image.Rectangle) (int64, int64) {
	return PackPoint(r.Min.X, r.Min.Y), PackPoint(r.Max.X, r.Max.Y)
}

func UnpackRect(a, b int64) image.Rectangle {
	x0, y0 := UnpackPoint(a)
	x1, y1 := UnpackPoint(b)
	return image.Rect(x0, y0, x1, y1)
}

// Command codes reported by controls in KindCommand notifications.
type Command int

const (
	CmdClick Command = iota + 1
	CmdLineUp
	CmdLineDown
	CmdPageUp
	CmdPageDown
	CmdPosition
	CmdEnter
	CmdSelect
	CmdChange
)

func PackCommand(c Command, value int) int64 {
	return int64(c)<<32 | int64(uint32(int32(value)))
}

func UnpackCommand(v int64) (Command, int) {
	return Command(v >> 32), int(int32(uint32(v)))
}

type ControlKind int

const (
	ControlButton ControlKind = iota + 1
	ControlCheckBox
	ControlRadioButton
	ControlGroup
	ControlBackground
	ControlScrollBar
	ControlEdit
	ControlSpinner
	ControlProgress
	ControlList
	ControlDropList
	ControlSlider
	ControlTabBar
)

// Control describes a native control. Rect is in window pixel coordinates.
type Control struct {
	Kind     ControlKind
	Rect     image.Rectangle
	Text     string
	Items    []string
	Enabled  bool
	Selected bool
	Vertical bool
	Min      int
	Max      int
	Value    int
}

type MenuItem struct {
	ID       int
	Label    string
	OnOff    bool
	OneOf    bool
	Bar      bool
	Children []MenuItem
}

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
	Parent      Handle
	Visible     bool
}

// Platform is the native toolkit. Run owns the native message loop: it
// executes every function received on calls on the native context, posts
// notifications through post, and returns when done is closed.
type Platform interface {
	Name() string
	CreateWindow(id int, cfg WindowConfig) (Window, error)
	Run(post Poster, calls <-chan func(), done <-chan struct{}) error
	Mice() int
	Joysticks() int
}

// Window is a native window. Its methods are only called on the native
// context.
type Window interface {
	Handle() Handle
	SizePx() (int, int)
	SetSizePx(w, h int) error
	SetTitle(title string)
	SetVisible(on bool) error
	Raise(front bool) error
	Present(src *render.FrameBuffer, r image.Rectangle) error
	Fill(r image.Rectangle, c color.RGBA) error
	SetCaret(r image.Rectangle, visible bool) error
	CreateControl(c Control) (Handle, error)
	UpdateControl(h Handle, c Control) error
	DestroyControl(h Handle) error
	SetMenu(items []MenuItem) error
	UpdateMenu(id int, enabled, selected bool) error
	Close()
}
