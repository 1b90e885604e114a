package event

import (
	"math"

	"cellwin/internal/platform"
)

const (
	// JoyRange is the magnitude of a fully deflected joystick axis.
	JoyRange = math.MaxInt32

	MouseButtons  = 3
	JoyButtons    = 32
	FunctionKeys  = 24
	maxJoyAxes    = 3
	ctrlC         = 0x03
	ctrlS         = 0x13
	ctrlQ         = 0x11
	asciiEscape   = 0x1b
	asciiDelete   = 0x7f
	nativeJoyHalf = (platform.JoyNativeMax - platform.JoyNativeMin + 1) / 2
)

type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
)

type mouseState struct {
	x, y, nx, ny int
	btn, nbtn    [MouseButtons]bool
}

type joyState struct {
	axis, naxis [maxJoyAxes]int32
	btn, nbtn   [JoyButtons]bool
}

// Shadow is the per window input state the translator compares against:
// current values and the newest values reported by the native side.
type Shadow struct {
	Window int
	State  WindowState
	mice   []mouseState
	joys   []joyState
}

func NewShadow(window int) *Shadow {
	return &Shadow{Window: window}
}

func (s *Shadow) mouse(n int) *mouseState {
	if n < 1 {
		n = 1
	}
	for len(s.mice) < n {
		s.mice = append(s.mice, mouseState{})
	}
	return &s.mice[n-1]
}

func (s *Shadow) joy(n int) *joyState {
	if n < 1 {
		n = 1
	}
	for len(s.joys) < n {
		s.joys = append(s.joys, joyState{})
	}
	return &s.joys[n-1]
}

// Pending reports whether the shadow holds differences the translator has
// not yet turned into events. The dispatch loop drains them before it takes
// the next raw notification, so simultaneous changes come out as successive
// events without waiting for further native input.
func (t *Translator) Pending(s *Shadow) bool {
	for i := range s.mice {
		m := &s.mice[i]
		if m.x != m.nx || m.y != m.ny || m.btn != m.nbtn {
			return true
		}
	}
	for i := range s.joys {
		j := &s.joys[i]
		if t.joyMoved(j) || j.btn != j.nbtn {
			return true
		}
	}
	return false
}

// joyMoved reports whether some axis is at least JoyThreshold away from the
// position last reported. Smaller changes are held back until they add up.
func (t *Translator) joyMoved(j *joyState) bool {
	for a := range j.axis {
		d := int64(j.naxis[a]) - int64(j.axis[a])
		if d < 0 {
			d = -d
		}
		if d != 0 && d >= int64(t.JoyThreshold) {
			return true
		}
	}
	return false
}

// Resolver supplies the per window lookups the translator needs.
type Resolver interface {
	CellSize(win int) (w, h int)
	WidgetByHandle(win int, h platform.Handle) (id int, kind WidgetKind, ok bool)
	// TimerFired reports whether timer id is still registered under
	// generation gen, removing it when it was a one-shot.
	TimerFired(win, id int, gen int64) bool
}

// Translator turns native notifications into canonical events.
type Translator struct {
	Mouse    bool
	Joystick bool
	// JoyThreshold is the smallest axis change, in scaled units, that
	// produces a JoyMove.
	JoyThreshold int32
}

// Translate applies n to the shadow and returns the resulting event. It
// returns false when n produces no event, either because it is filtered or
// because it only changed state that is already current.
func (t *Translator) Translate(n platform.Notification, sh *Shadow, res Resolver) (Event, bool) {
	h := Header{Window: n.Window}
	switch n.Kind {
	case platform.KindChar:
		return char(h, rune(n.A))
	case platform.KindKey:
		vk := int(n.A)
		if vk >= platform.VKF1 && vk < platform.VKF1+FunctionKeys {
			return Key{Header: h, Code: KeyFunction, Fn: vk - platform.VKF1 + 1}, true
		}
		code, ok := lookupKey(vk, int(n.B))
		if !ok {
			return nil, false
		}
		return Key{Header: h, Code: code}, true
	case platform.KindMouseMove:
		if !t.Mouse {
			return nil, false
		}
		m := sh.mouse(int(n.A))
		m.nx, m.ny = platform.UnpackPoint(n.B)
		return t.Next(sh, res)
	case platform.KindMouseButton:
		btn := int(n.A & 0xff)
		if !t.Mouse || btn < 1 || btn > MouseButtons {
			return nil, false
		}
		sh.mouse(int(n.A>>8)).nbtn[btn-1] = n.B != 0
		return t.Next(sh, res)
	case platform.KindJoyAxis:
		axis := int(n.A & 0xff)
		if !t.Joystick || axis >= maxJoyAxes {
			return nil, false
		}
		sh.joy(int(n.A>>8)).naxis[axis] = scaleAxis(n.B)
		return t.Next(sh, res)
	case platform.KindJoyButton:
		btn := int(n.A & 0xff)
		if !t.Joystick || btn < 1 || btn > JoyButtons {
			return nil, false
		}
		sh.joy(int(n.A>>8)).nbtn[btn-1] = n.B != 0
		return t.Next(sh, res)
	case platform.KindTimer:
		id := int(n.A)
		if !res.TimerFired(n.Window, id, n.B) {
			return nil, false
		}
		return Timer{Header: h, ID: id}, true
	case platform.KindFrame:
		return Frame{Header: h}, true
	case platform.KindResize:
		return Resize{Header: h, WidthPx: int(n.A), HeightPx: int(n.B)}, true
	case platform.KindRepaint:
		return Redraw{Header: h, Rect: platform.UnpackRect(n.A, n.B)}, true
	case platform.KindFocus:
		return Focus{Header: h}, true
	case platform.KindBlur:
		return NoFocus{Header: h}, true
	case platform.KindMinimize:
		sh.State = StateMinimized
		return Minimize{Header: h}, true
	case platform.KindMaximize:
		sh.State = StateMaximized
		return Maximize{Header: h}, true
	case platform.KindRestore:
		if sh.State == StateNormal {
			return nil, false
		}
		sh.State = StateNormal
		return Normalize{Header: h}, true
	case platform.KindCommand:
		if n.A == 0 {
			return Menu{Header: h, ID: int(n.B)}, true
		}
		id, kind, ok := res.WidgetByHandle(n.Window, platform.Handle(n.A))
		if !ok {
			return nil, false
		}
		cmd, val := platform.UnpackCommand(n.B)
		return Widget{Header: h, Widget: kind, ID: id, Cmd: cmd, Value: val}, true
	case platform.KindClose:
		return Close{Header: h}, true
	case platform.KindTerminate:
		return Terminate{Header: h}, true
	}
	return nil, false
}

func char(h Header, r rune) (Event, bool) {
	switch r {
	case '\r', '\n':
		return Key{Header: h, Code: KeyEnter}, true
	case '\b', asciiDelete:
		return Key{Header: h, Code: KeyDelCharBack}, true
	case '\t':
		return Key{Header: h, Code: KeyTab}, true
	case ctrlC:
		return Terminate{Header: h}, true
	case ctrlS:
		return Key{Header: h, Code: KeyStop}, true
	case ctrlQ:
		return Key{Header: h, Code: KeyContinue}, true
	case asciiEscape:
		return Key{Header: h, Code: KeyCancel}, true
	}
	if r < 0x20 {
		return nil, false
	}
	return Char{Header: h, R: r}, true
}

// scaleAxis maps a native axis value onto [-JoyRange, JoyRange].
func scaleAxis(raw int64) int32 {
	raw = min(max(raw, platform.JoyNativeMin), platform.JoyNativeMax)
	v := float64(raw-platform.JoyNativeMin-nativeJoyHalf) / nativeJoyHalf * JoyRange
	v = min(max(v, -JoyRange), JoyRange)
	return int32(v)
}

// Next produces at most one event from the differences held in the shadow.
// Mice are evaluated before joysticks. For a mouse the position comes first,
// then button asserts in button order, then deasserts.
func (t *Translator) Next(sh *Shadow, res Resolver) (Event, bool) {
	h := Header{Window: sh.Window}
	for i := range sh.mice {
		m := &sh.mice[i]
		if m.x != m.nx || m.y != m.ny {
			m.x, m.y = m.nx, m.ny
			cw, ch := res.CellSize(sh.Window)
			return MouseMove{
				Header: h,
				Mouse:  i + 1,
				X:      floorDiv(m.x, cw) + 1,
				Y:      floorDiv(m.y, ch) + 1,
				XG:     m.x + 1,
				YG:     m.y + 1,
			}, true
		}
		for b := range m.btn {
			if !m.btn[b] && m.nbtn[b] {
				m.btn[b] = true
				return MouseAssert{Header: h, Mouse: i + 1, Button: b + 1}, true
			}
		}
		for b := range m.btn {
			if m.btn[b] && !m.nbtn[b] {
				m.btn[b] = false
				return MouseDeassert{Header: h, Mouse: i + 1, Button: b + 1}, true
			}
		}
	}
	for i := range sh.joys {
		j := &sh.joys[i]
		if t.joyMoved(j) {
			j.axis = j.naxis
			return JoyMove{Header: h, Joy: i + 1, X: j.axis[0], Y: j.axis[1], Z: j.axis[2]}, true
		}
		for b := range j.btn {
			if !j.btn[b] && j.nbtn[b] {
				j.btn[b] = true
				return JoyAssert{Header: h, Joy: i + 1, Button: b + 1}, true
			}
		}
		for b := range j.btn {
			if j.btn[b] && !j.nbtn[b] {
				j.btn[b] = false
				return JoyDeassert{Header: h, Joy: i + 1, Button: b + 1}, true
			}
		}
	}
	return nil, false
}

func floorDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
