package cellwin

import (
	"image"
	"strconv"

	"cellwin/internal/diag"
	"cellwin/internal/event"
	"cellwin/internal/platform"
	"cellwin/internal/window"
)

// SetMasterHandler installs fn as the handler offered every event first and
// returns the previous one so handlers can be chained.
func (t *Terminal) SetMasterHandler(fn Handler) Handler {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := t.master
	t.master = fn
	return old
}

// SetHandler installs fn for events of kind k and returns the previous one.
func (t *Terminal) SetHandler(k Kind, fn Handler) Handler {
	t.mu.Lock()
	defer t.mu.Unlock()
	if k <= 0 || int(k) >= event.NumKinds {
		return nil
	}
	old := t.handlers[k]
	t.handlers[k] = fn
	return old
}

// NextEvent blocks until an event for the input stream arrives that no
// handler claims, and returns it.
func (t *Terminal) NextEvent(input int) (Event, error) {
	for {
		ev, err := t.take(input)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		master, h := t.master, t.handlers[ev.Kind()]
		t.mu.Unlock()
		if master != nil && master(ev) {
			continue
		}
		if h != nil && h(ev) {
			continue
		}
		return ev, nil
	}
}

// take returns the next event for input: one held back for it earlier, one
// synthesised from the windows' input shadows, or one translated from the
// queue.
func (t *Terminal) take(input int) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		if q := t.held[input]; len(q) > 0 {
			ev := q[0]
			t.held[input] = q[1:]
			return ev, nil
		}
		if ev, ok := t.drainShadows(); ok {
			if t.route(input, ev) {
				return ev, nil
			}
			continue
		}
		if t.closed && t.queue.Len() == 0 {
			return nil, ErrClosed
		}

		t.mu.Unlock()
		n, ok := t.queue.Dequeue()
		t.mu.Lock()
		if !ok {
			return nil, ErrClosed
		}

		c := t.windows[n.Window]
		if n.Window != 0 && c == nil {
			// The window closed after the notification was posted.
			continue
		}
		var sh *event.Shadow
		if c != nil {
			sh = c.Shadow
		} else {
			sh = event.NewShadow(0)
		}
		ev, ok := t.tr.Translate(n, sh, t)
		if !ok {
			continue
		}
		if t.cfg.DumpEvents {
			t.log.Printf("event: win %d %v %+v", ev.Win(), ev.Kind(), ev)
		}
		ev, keep, err := t.bookkeep(c, ev)
		if err != nil {
			return nil, err
		}
		if keep && t.route(input, ev) {
			return ev, nil
		}
	}
}

// drainShadows produces the next event still pending in a window's mouse or
// joystick shadow.
func (t *Terminal) drainShadows() (Event, bool) {
	for _, id := range t.windowIDs() {
		c := t.windows[id]
		if !t.tr.Pending(c.Shadow) {
			continue
		}
		if ev, ok := t.tr.Next(c.Shadow, t); ok {
			return ev, true
		}
	}
	return nil, false
}

// route reports whether ev belongs to input. Events for other input streams
// are held for them. Events not bound to a window go to whoever asks.
func (t *Terminal) route(input int, ev Event) bool {
	c, ok := t.windows[ev.Win()]
	if !ok || c.Input == input {
		return true
	}
	t.held[c.Input] = append(t.held[c.Input], ev)
	return false
}

// bookkeep applies what the event means to the window. It returns the
// event the client should see, if any.
func (t *Terminal) bookkeep(c *window.Context, ev Event) (Event, bool, error) {
	if c == nil {
		return ev, true, nil
	}
	op := "NextEvent"
	switch e := ev.(type) {
	case event.Resize:
		if err := c.Resize(e.WidthPx, e.HeightPx); err != nil {
			return nil, false, t.fail(op, diag.NativeFailure, err)
		}
	case event.Redraw:
		// Buffered windows repaint themselves.
		if c.Buffered() {
			return nil, false, t.fail(op, diag.NativeFailure, c.Restore(false, e.Rect))
		}
	case event.Focus, event.NoFocus:
		if err := c.SetFocus(e.Kind() == KindFocus); err != nil {
			return nil, false, t.fail(op, diag.NativeFailure, err)
		}
	case event.Maximize, event.Normalize:
		if err := c.Restore(true, image.Rectangle{}); err != nil {
			return nil, false, t.fail(op, diag.NativeFailure, err)
		}
	case event.Widget:
		if err := t.widgetActivity(c, &e); err != nil {
			return nil, false, err
		}
		return e, true, nil
	}
	return ev, true, nil
}

// widgetActivity keeps the stored control state in step with what the user
// did to it. Number boxes step their value on spinner clicks.
func (t *Terminal) widgetActivity(c *window.Context, e *event.Widget) error {
	w, err := c.Widgets.Find(e.ID)
	if err != nil {
		return nil
	}
	ctl := w.Control
	switch e.Widget {
	case event.WidgetCheckBox:
		ctl.Selected = e.Value != 0
	case event.WidgetListBox, event.WidgetDropBox, event.WidgetTabBar, event.WidgetSlider:
		ctl.Value = e.Value
	case event.WidgetNumberBox:
		switch e.Cmd {
		case platform.CmdLineUp:
			ctl.Value = min(ctl.Value+1, ctl.Max)
		case platform.CmdLineDown:
			ctl.Value = max(ctl.Value-1, ctl.Min)
		default:
			return nil
		}
		ctl.Text = strconv.Itoa(ctl.Value)
		e.Value = ctl.Value
	default:
		return nil
	}
	if ctl.Value == w.Control.Value && ctl.Selected == w.Control.Selected && ctl.Text == w.Control.Text {
		return nil
	}
	w.Control = ctl
	return t.fail("NextEvent", diag.NativeFailure, t.call("NextEvent", func() error {
		return c.Native.UpdateControl(w.Handle, ctl)
	}))
}
