package ebitenhost

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cellwin/internal/platform"
)

const (
	repeatDelay    = 30
	repeatInterval = 3
)

var virtualKeys = map[ebiten.Key]int{
	ebiten.KeyHome:        platform.VKHome,
	ebiten.KeyEnd:         platform.VKEnd,
	ebiten.KeyArrowUp:     platform.VKUp,
	ebiten.KeyArrowDown:   platform.VKDown,
	ebiten.KeyArrowLeft:   platform.VKLeft,
	ebiten.KeyArrowRight:  platform.VKRight,
	ebiten.KeyPageUp:      platform.VKPageUp,
	ebiten.KeyPageDown:    platform.VKPageDown,
	ebiten.KeyInsert:      platform.VKInsert,
	ebiten.KeyDelete:      platform.VKDelete,
	ebiten.KeyEscape:      platform.VKEscape,
	ebiten.KeyPrintScreen: platform.VKPrint,
	ebiten.KeyBackspace:   platform.VKBackspace,
	ebiten.KeyEnter:       platform.VKEnter,
	ebiten.KeyNumpadEnter: platform.VKEnter,
	ebiten.KeyTab:         platform.VKTab,
}

// letterKeys are A to Z, in order.
var letterKeys []ebiten.Key

func init() {
	for i := 1; i <= 12; i++ {
		var k ebiten.Key
		if k.UnmarshalText(fmt.Appendf(nil, "F%d", i)) == nil {
			virtualKeys[k] = platform.VKF1 + i - 1
		}
	}
	for c := 'A'; c <= 'Z'; c++ {
		var k ebiten.Key
		if k.UnmarshalText([]byte(string(c))) == nil {
			letterKeys = append(letterKeys, k)
		}
	}
}

// repeating reports whether a key held for d ticks fires this tick.
func repeating(d int) bool {
	return d == 1 || d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func modifiers() int {
	m := 0
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= platform.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= platform.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= platform.ModAlt
	}
	return m
}

// keyboard reports keys to the focused pane: named keys as virtual keys,
// control letters and typed text as characters.
func (h *Host) keyboard() {
	p := h.focus
	if p == nil || !h.focused {
		return
	}
	mods := modifiers()
	for k, vk := range virtualKeys {
		if repeating(inpututil.KeyPressDuration(k)) {
			h.emit(platform.Notification{Window: p.id, Kind: platform.KindKey, A: int64(vk), B: int64(mods)})
		}
	}
	if mods&platform.ModCtrl != 0 {
		for i, k := range letterKeys {
			if repeating(inpututil.KeyPressDuration(k)) {
				h.emit(platform.Notification{Window: p.id, Kind: platform.KindChar, A: int64(i) + 1})
			}
		}
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		h.emit(platform.Notification{Window: p.id, Kind: platform.KindChar, A: int64(r)})
	}
}

type mouseState struct {
	pos      image.Point
	buttons  [3]bool
	capture  *pane
	drag     bool
	dragFrom image.Point
}

var mouseButtons = [3]ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle}

// pointer tracks the mouse. A pane keeps the mouse while any button is
// held down in it, and dragging a title bar moves the pane.
func (h *Host) pointer() {
	pt := image.Pt(ebiten.CursorPosition())
	m := &h.mouse
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && h.menuClick(pt) {
		m.pos = pt
		return
	}
	target := m.capture
	if target == nil {
		target = h.paneAt(pt)
	}
	if m.drag {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && m.capture != nil {
			m.capture.pos = m.capture.pos.Add(pt.Sub(m.dragFrom))
			m.dragFrom = pt
		} else {
			m.drag = false
			m.capture = nil
		}
		m.pos = pt
		return
	}
	if pt != m.pos && target != nil && (m.capture != nil || pt.In(target.clientRect())) {
		local := pt.Sub(target.clientRect().Min)
		h.emit(platform.Notification{Window: target.id, Kind: platform.KindMouseMove, A: 1, B: platform.PackPoint(local.X, local.Y)})
	}
	m.pos = pt
	for i, b := range mouseButtons {
		switch {
		case inpututil.IsMouseButtonJustPressed(b):
			if target == nil {
				continue
			}
			if pt.In(target.titleRect()) && b == ebiten.MouseButtonLeft {
				h.raise(target, true)
				h.setFocus(target)
				m.capture, m.drag, m.dragFrom = target, true, pt
				return
			}
			if !pt.In(target.clientRect()) {
				continue
			}
			m.buttons[i] = true
			m.capture = target
			h.raise(target, true)
			h.setFocus(target)
			h.emit(platform.Notification{Window: target.id, Kind: platform.KindMouseButton, A: 1<<8 | int64(i+1), B: 1})
			if b == ebiten.MouseButtonLeft {
				local := pt.Sub(target.clientRect().Min)
				if hd, cmd, v, ok := target.hit(local); ok {
					h.emit(platform.Notification{Window: target.id, Kind: platform.KindCommand, A: int64(hd), B: platform.PackCommand(cmd, v)})
				}
			}
		case inpututil.IsMouseButtonJustReleased(b) && m.buttons[i]:
			m.buttons[i] = false
			if target != nil {
				h.emit(platform.Notification{Window: target.id, Kind: platform.KindMouseButton, A: 1<<8 | int64(i+1), B: 0})
			}
		}
	}
	if m.buttons == [3]bool{} {
		m.capture = nil
	}
}

type padState struct {
	id   ebiten.GamepadID
	axes [maxAxes]int64
}

const maxAxes = 3

// gamepads reports axes and buttons of each gamepad to the focused pane.
// Joysticks are numbered from 1 in the order they were first seen.
func (h *Host) gamepads() {
	p := h.focus
	if p == nil {
		return
	}
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		n := h.padNumber(id)
		pad := h.pads[n-1]
		for a := 0; a < min(maxAxes, ebiten.GamepadAxisCount(id)); a++ {
			v := int64((ebiten.GamepadAxisValue(id, ebiten.GamepadAxisType(a)) + 1) / 2 * platform.JoyNativeMax)
			if v != pad.axes[a] {
				pad.axes[a] = v
				h.emit(platform.Notification{Window: p.id, Kind: platform.KindJoyAxis, A: int64(n)<<8 | int64(a), B: v})
			}
		}
		for b := ebiten.GamepadButton(0); b < ebiten.GamepadButton(ebiten.GamepadButtonCount(id)); b++ {
			var st int64
			switch {
			case inpututil.IsGamepadButtonJustPressed(id, b):
				st = 1
			case inpututil.IsGamepadButtonJustReleased(id, b):
			default:
				continue
			}
			h.emit(platform.Notification{Window: p.id, Kind: platform.KindJoyButton, A: int64(n)<<8 | int64(b+1), B: st})
		}
	}
}

func (h *Host) padNumber(id ebiten.GamepadID) int {
	for i, pad := range h.pads {
		if pad.id == id {
			return i + 1
		}
	}
	pad := &padState{id: id}
	for a := range pad.axes {
		pad.axes[a] = platform.JoyNativeMax / 2
	}
	h.pads = append(h.pads, pad)
	return len(h.pads)
}
