package cellwin

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"cellwin/internal/diag"
	"cellwin/internal/event"
	"cellwin/internal/platform"
	"cellwin/internal/registry"
	"cellwin/internal/ui"
	"cellwin/internal/window"
)

// RangeMax is the top of the range scroll bars, sliders and progress bars
// report positions in.
const RangeMax = math.MaxInt32

type WidgetKind = event.WidgetKind

const (
	WidgetButton      = event.WidgetButton
	WidgetCheckBox    = event.WidgetCheckBox
	WidgetRadioButton = event.WidgetRadioButton
	WidgetGroup       = event.WidgetGroup
	WidgetScrollBar   = event.WidgetScrollBar
	WidgetNumberBox   = event.WidgetNumberBox
	WidgetEditBox     = event.WidgetEditBox
	WidgetProgressBar = event.WidgetProgressBar
	WidgetListBox     = event.WidgetListBox
	WidgetDropBox     = event.WidgetDropBox
	WidgetSlider      = event.WidgetSlider
	WidgetTabBar      = event.WidgetTabBar
)

type Command = platform.Command

const (
	CmdClick    = platform.CmdClick
	CmdLineUp   = platform.CmdLineUp
	CmdLineDown = platform.CmdLineDown
	CmdPageUp   = platform.CmdPageUp
	CmdPageDown = platform.CmdPageDown
	CmdPosition = platform.CmdPosition
	CmdEnter    = platform.CmdEnter
	CmdSelect   = platform.CmdSelect
	CmdChange   = platform.CmdChange
)

// box converts a 1-based inclusive pixel box to window pixels.
func box(x1, y1, x2, y2 int) image.Rectangle {
	return image.Rect(x1-1, y1-1, x2, y2).Canon()
}

// addWidget creates the native controls of a widget and registers them. The
// buddy, when there is one, is created first so it lies underneath. Controls
// already created are destroyed again when a later step fails.
func (t *Terminal) addWidget(op string, win, id int, kind event.WidgetKind, ctl platform.Control, buddy *platform.Control) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	if _, err := c.Widgets.Find(id); err == nil {
		return t.fail(op, diag.StateConflict, fmt.Errorf("widget %d: %w", id, registry.ErrDuplicateID))
	}
	ctl.Enabled = true
	w := &window.Widget{Kind: kind, Control: ctl}
	err = t.call(op, func() error {
		if buddy != nil {
			buddy.Enabled = true
			h, err := c.Native.CreateControl(*buddy)
			if err != nil {
				return err
			}
			w.Buddy, w.BuddyHandle = *buddy, h
		}
		h, err := c.Native.CreateControl(ctl)
		if err != nil {
			if w.HasBuddy() {
				return errors.Join(err, c.Native.DestroyControl(w.BuddyHandle))
			}
			return err
		}
		w.Handle = h
		return nil
	})
	if err != nil {
		return t.fail(op, diag.NativeFailure, err)
	}
	err = c.Widgets.Register(id, w.Handle, w)
	if err == nil && w.HasBuddy() {
		if err = c.Widgets.Alias(id, w.BuddyHandle); err != nil {
			_, _ = c.Widgets.Remove(id)
		}
	}
	if err != nil {
		err = errors.Join(fmt.Errorf("widget %d: %w", id, err), t.dropControls(op, c, w))
		return t.fail(op, diag.StateConflict, diag.New(diag.StateConflict, op, err))
	}
	return nil
}

// dropControls destroys the native controls of a widget that never made it
// into the registry.
func (t *Terminal) dropControls(op string, c *window.Context, w *window.Widget) error {
	return t.call(op, func() error {
		var errs []error
		if w.HasBuddy() {
			errs = append(errs, c.Native.DestroyControl(w.BuddyHandle))
		}
		errs = append(errs, c.Native.DestroyControl(w.Handle))
		return errors.Join(errs...)
	})
}

// Button places a push button in the box x1, y1, x2, y2 (1-based pixels).
func (t *Terminal) Button(win, id, x1, y1, x2, y2 int, label string) error {
	ctl := platform.Control{Kind: platform.ControlButton, Rect: box(x1, y1, x2, y2), Text: label}
	return t.addWidget("Button", win, id, event.WidgetButton, ctl, nil)
}

func (t *Terminal) CheckBox(win, id, x1, y1, x2, y2 int, label string) error {
	ctl := platform.Control{Kind: platform.ControlCheckBox, Rect: box(x1, y1, x2, y2), Text: label}
	return t.addWidget("CheckBox", win, id, event.WidgetCheckBox, ctl, nil)
}

func (t *Terminal) RadioButton(win, id, x1, y1, x2, y2 int, label string) error {
	ctl := platform.Control{Kind: platform.ControlRadioButton, Rect: box(x1, y1, x2, y2), Text: label}
	return t.addWidget("RadioButton", win, id, event.WidgetRadioButton, ctl, nil)
}

// Group draws a titled frame over a background panel.
func (t *Terminal) Group(win, id, x1, y1, x2, y2 int, title string) error {
	r := box(x1, y1, x2, y2)
	ctl := platform.Control{Kind: platform.ControlGroup, Rect: r, Text: title}
	bg := platform.Control{Kind: platform.ControlBackground, Rect: r}
	return t.addWidget("Group", win, id, event.WidgetGroup, ctl, &bg)
}

func (t *Terminal) ScrollBar(win, id, x1, y1, x2, y2 int, vertical bool) error {
	ctl := platform.Control{Kind: platform.ControlScrollBar, Rect: box(x1, y1, x2, y2), Vertical: vertical, Max: RangeMax}
	return t.addWidget("ScrollBar", win, id, event.WidgetScrollBar, ctl, nil)
}

// NumberBox is an edit field holding an integer in [lo, hi] with an up/down
// spinner at its right edge.
func (t *Terminal) NumberBox(win, id, x1, y1, x2, y2, lo, hi int) error {
	if lo > hi {
		lo, hi = hi, lo
	}
	r := box(x1, y1, x2, y2)
	edit := image.Rect(r.Min.X, r.Min.Y, max(r.Max.X-ui.SpinnerWidth, r.Min.X), r.Max.Y)
	spin := image.Rect(edit.Max.X, r.Min.Y, r.Max.X, r.Max.Y)
	ctl := platform.Control{Kind: platform.ControlEdit, Rect: edit, Min: lo, Max: hi, Value: lo, Text: strconv.Itoa(lo)}
	buddy := platform.Control{Kind: platform.ControlSpinner, Rect: spin, Min: lo, Max: hi, Value: lo}
	return t.addWidget("NumberBox", win, id, event.WidgetNumberBox, ctl, &buddy)
}

func (t *Terminal) EditBox(win, id, x1, y1, x2, y2 int) error {
	ctl := platform.Control{Kind: platform.ControlEdit, Rect: box(x1, y1, x2, y2)}
	return t.addWidget("EditBox", win, id, event.WidgetEditBox, ctl, nil)
}

func (t *Terminal) ProgressBar(win, id, x1, y1, x2, y2 int) error {
	ctl := platform.Control{Kind: platform.ControlProgress, Rect: box(x1, y1, x2, y2), Max: RangeMax}
	return t.addWidget("ProgressBar", win, id, event.WidgetProgressBar, ctl, nil)
}

// ListBox shows items; selecting one delivers its 1-based index.
func (t *Terminal) ListBox(win, id, x1, y1, x2, y2 int, items []string) error {
	ctl := platform.Control{Kind: platform.ControlList, Rect: box(x1, y1, x2, y2), Items: append([]string(nil), items...)}
	return t.addWidget("ListBox", win, id, event.WidgetListBox, ctl, nil)
}

func (t *Terminal) DropBox(win, id, x1, y1, x2, y2 int, items []string) error {
	ctl := platform.Control{Kind: platform.ControlDropList, Rect: box(x1, y1, x2, y2), Items: append([]string(nil), items...), Value: 1}
	return t.addWidget("DropBox", win, id, event.WidgetDropBox, ctl, nil)
}

func (t *Terminal) Slider(win, id, x1, y1, x2, y2 int) error {
	ctl := platform.Control{Kind: platform.ControlSlider, Rect: box(x1, y1, x2, y2), Max: RangeMax}
	return t.addWidget("Slider", win, id, event.WidgetSlider, ctl, nil)
}

func (t *Terminal) TabBar(win, id, x1, y1, x2, y2 int, tabs []string) error {
	ctl := platform.Control{Kind: platform.ControlTabBar, Rect: box(x1, y1, x2, y2), Items: append([]string(nil), tabs...), Value: 1}
	return t.addWidget("TabBar", win, id, event.WidgetTabBar, ctl, nil)
}

// KillWidget removes a widget and its native controls.
func (t *Terminal) KillWidget(win, id int) error {
	const op = "KillWidget"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	w, err := c.Widgets.Remove(id)
	if err != nil {
		return t.fail(op, diag.InvalidReference, fmt.Errorf("widget %d: %w", id, err))
	}
	err = t.call(op, func() error {
		if w.HasBuddy() {
			if err := c.Native.DestroyControl(w.BuddyHandle); err != nil {
				return err
			}
		}
		return c.Native.DestroyControl(w.Handle)
	})
	if err != nil {
		return t.fail(op, diag.NativeFailure, err)
	}
	return t.fail(op, diag.NativeFailure, c.Restore(true, image.Rectangle{}))
}

// changeWidget applies fn to widget id's controls and pushes them to the
// native side.
func (t *Terminal) changeWidget(op string, win, id int, fn func(w *window.Widget) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	w, err := c.Widgets.Find(id)
	if err != nil {
		return t.fail(op, diag.InvalidReference, fmt.Errorf("widget %d: %w", id, err))
	}
	if err := fn(w); err != nil {
		return t.fail(op, diag.StateConflict, err)
	}
	return t.fail(op, diag.NativeFailure, t.call(op, func() error {
		if w.HasBuddy() {
			if err := c.Native.UpdateControl(w.BuddyHandle, w.Buddy); err != nil {
				return err
			}
		}
		return c.Native.UpdateControl(w.Handle, w.Control)
	}))
}

func (t *Terminal) EnableWidget(win, id int, on bool) error {
	return t.changeWidget("EnableWidget", win, id, func(w *window.Widget) error {
		w.Control.Enabled = on
		w.Buddy.Enabled = on
		return nil
	})
}

// SelectWidget sets the state of a check box or radio button.
func (t *Terminal) SelectWidget(win, id int, on bool) error {
	return t.changeWidget("SelectWidget", win, id, func(w *window.Widget) error {
		switch w.Kind {
		case event.WidgetCheckBox, event.WidgetRadioButton, event.WidgetButton:
			w.Control.Selected = on
			return nil
		}
		return fmt.Errorf("%v widgets cannot be selected", w.Kind)
	})
}

// SetWidgetText sets the label of a button or the contents of an edit box.
func (t *Terminal) SetWidgetText(win, id int, s string) error {
	return t.changeWidget("SetWidgetText", win, id, func(w *window.Widget) error {
		if w.Kind == event.WidgetNumberBox {
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			w.Control.Value = min(max(v, w.Control.Min), w.Control.Max)
			w.Buddy.Value = w.Control.Value
			w.Control.Text = strconv.Itoa(w.Control.Value)
			return nil
		}
		w.Control.Text = s
		return nil
	})
}

// SetWidgetValue sets the position of a scroll bar, slider or progress bar,
// the number of a number box or the selected item of a list, drop box or
// tab bar.
func (t *Terminal) SetWidgetValue(win, id, v int) error {
	return t.changeWidget("SetWidgetValue", win, id, func(w *window.Widget) error {
		switch w.Kind {
		case event.WidgetScrollBar, event.WidgetSlider, event.WidgetProgressBar:
			w.Control.Value = min(max(v, 0), RangeMax)
		case event.WidgetNumberBox:
			w.Control.Value = min(max(v, w.Control.Min), w.Control.Max)
			w.Buddy.Value = w.Control.Value
			w.Control.Text = strconv.Itoa(w.Control.Value)
		case event.WidgetListBox, event.WidgetDropBox, event.WidgetTabBar:
			if v < 0 || v > len(w.Control.Items) {
				return fmt.Errorf("item %d of %d", v, len(w.Control.Items))
			}
			w.Control.Value = v
		default:
			return fmt.Errorf("%v has no value", w.Kind)
		}
		return nil
	})
}

// WidgetText returns the text of a widget.
func (t *Terminal) WidgetText(win, id int) (string, error) {
	const op = "WidgetText"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return "", err
	}
	w, err := c.Widgets.Find(id)
	if err != nil {
		return "", t.fail(op, diag.InvalidReference, fmt.Errorf("widget %d: %w", id, err))
	}
	return w.Control.Text, nil
}

// WidgetValue returns the value a widget holds.
func (t *Terminal) WidgetValue(win, id int) (int, error) {
	const op = "WidgetValue"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return 0, err
	}
	w, err := c.Widgets.Find(id)
	if err != nil {
		return 0, t.fail(op, diag.InvalidReference, fmt.Errorf("widget %d: %w", id, err))
	}
	if w.Kind == event.WidgetCheckBox || w.Kind == event.WidgetRadioButton {
		if w.Control.Selected {
			return 1, nil
		}
		return 0, nil
	}
	return w.Control.Value, nil
}

// MoveWidget moves a widget so its top left corner is at x, y (1-based
// pixels). The window is repainted to clear the old position.
func (t *Terminal) MoveWidget(win, id, x, y int) error {
	err := t.changeWidget("MoveWidget", win, id, func(w *window.Widget) error {
		d := image.Pt(x-1, y-1).Sub(w.Control.Rect.Min)
		w.Control.Rect = w.Control.Rect.Add(d)
		if w.HasBuddy() {
			w.Buddy.Rect = w.Buddy.Rect.Add(d)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return t.Restore(win)
}

// SizeWidget resizes a widget to w by h pixels.
func (t *Terminal) SizeWidget(win, id, w, h int) error {
	err := t.changeWidget("SizeWidget", win, id, func(wd *window.Widget) error {
		old := wd.Control.Rect
		wd.Control.Rect = image.Rectangle{Min: old.Min, Max: old.Min.Add(image.Pt(w, h))}
		if wd.Kind == event.WidgetNumberBox {
			wd.Control.Rect.Max.X -= ui.SpinnerWidth
			wd.Buddy.Rect = image.Rect(wd.Control.Rect.Max.X, old.Min.Y, old.Min.X+w, old.Min.Y+h)
		} else if wd.HasBuddy() {
			wd.Buddy.Rect = wd.Control.Rect
		}
		return nil
	})
	if err != nil {
		return err
	}
	return t.Restore(win)
}
