package cellwin

import "cellwin/internal/event"

// Event is what NextEvent returns. Switch on its concrete type.
type Event = event.Event

type Kind = event.Kind

const (
	KindChar          = event.KindChar
	KindKey           = event.KindKey
	KindMouseMove     = event.KindMouseMove
	KindMouseAssert   = event.KindMouseAssert
	KindMouseDeassert = event.KindMouseDeassert
	KindJoyMove       = event.KindJoyMove
	KindJoyAssert     = event.KindJoyAssert
	KindJoyDeassert   = event.KindJoyDeassert
	KindTimer         = event.KindTimer
	KindFrame         = event.KindFrame
	KindResize        = event.KindResize
	KindRedraw        = event.KindRedraw
	KindFocus         = event.KindFocus
	KindNoFocus       = event.KindNoFocus
	KindMinimize      = event.KindMinimize
	KindMaximize      = event.KindMaximize
	KindNormalize     = event.KindNormalize
	KindMenu          = event.KindMenu
	KindWidget        = event.KindWidget
	KindTerminate     = event.KindTerminate
	KindClose         = event.KindClose
)

type (
	CharEvent          = event.Char
	KeyEvent           = event.Key
	MouseMoveEvent     = event.MouseMove
	MouseAssertEvent   = event.MouseAssert
	MouseDeassertEvent = event.MouseDeassert
	JoyMoveEvent       = event.JoyMove
	JoyAssertEvent     = event.JoyAssert
	JoyDeassertEvent   = event.JoyDeassert
	TimerEvent         = event.Timer
	FrameEvent         = event.Frame
	ResizeEvent        = event.Resize
	RedrawEvent        = event.Redraw
	FocusEvent         = event.Focus
	NoFocusEvent       = event.NoFocus
	MinimizeEvent      = event.Minimize
	MaximizeEvent      = event.Maximize
	NormalizeEvent     = event.Normalize
	MenuEvent          = event.Menu
	WidgetEvent        = event.Widget
	TerminateEvent     = event.Terminate
	CloseEvent         = event.Close
)

// JoyRange is the magnitude of a fully deflected joystick axis.
const JoyRange = event.JoyRange

type KeyCode = event.KeyCode

const (
	KeyUp           = event.KeyUp
	KeyDown         = event.KeyDown
	KeyLeft         = event.KeyLeft
	KeyRight        = event.KeyRight
	KeyLeftWord     = event.KeyLeftWord
	KeyRightWord    = event.KeyRightWord
	KeyHome         = event.KeyHome
	KeyHomeScreen   = event.KeyHomeScreen
	KeyHomeLine     = event.KeyHomeLine
	KeyEnd          = event.KeyEnd
	KeyEndScreen    = event.KeyEndScreen
	KeyEndLine      = event.KeyEndLine
	KeyScrollUp     = event.KeyScrollUp
	KeyScrollDown   = event.KeyScrollDown
	KeyScrollLeft   = event.KeyScrollLeft
	KeyScrollRight  = event.KeyScrollRight
	KeyPageUp       = event.KeyPageUp
	KeyPageDown     = event.KeyPageDown
	KeyPageLeft     = event.KeyPageLeft
	KeyPageRight    = event.KeyPageRight
	KeyEnter        = event.KeyEnter
	KeyTab          = event.KeyTab
	KeyBackTab      = event.KeyBackTab
	KeyInsert       = event.KeyInsert
	KeyInsertLine   = event.KeyInsertLine
	KeyInsertToggle = event.KeyInsertToggle
	KeyDelCharBack  = event.KeyDelCharBack
	KeyDelCharFwd   = event.KeyDelCharFwd
	KeyDelLine      = event.KeyDelLine
	KeyCopy         = event.KeyCopy
	KeyCopyLine     = event.KeyCopyLine
	KeyCancel       = event.KeyCancel
	KeyStop         = event.KeyStop
	KeyContinue     = event.KeyContinue
	KeyPrint        = event.KeyPrint
	KeyPrintBlock   = event.KeyPrintBlock
	KeyPrintScreen  = event.KeyPrintScreen
	KeyFunction     = event.KeyFunction
	KeyMenu         = event.KeyMenu
)
