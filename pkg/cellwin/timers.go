package cellwin

import (
	"fmt"
	"sync"
	"time"

	"cellwin/internal/diag"
	"cellwin/internal/platform"
	"cellwin/internal/window"
)

// Tick is the unit of timer periods.
const Tick = 100 * time.Microsecond

// MaxTimers bounds the timers one window may run.
const MaxTimers = 16

// every posts n each period until the returned stop function is called.
// A one-shot posts once.
func (t *Terminal) every(n platform.Notification, d time.Duration, repeat bool) func() bool {
	if !repeat {
		tm := time.AfterFunc(d, func() { t.post(n) })
		return tm.Stop
	}
	tk := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				t.post(n)
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() bool {
		stopped := false
		once.Do(func() { close(done); stopped = true })
		return stopped
	}
}

// SetTimer starts timer id on win, firing after ticks (100µs units) and
// again every ticks when repeat is set. A running timer with the same id is
// replaced, and its expiries still in the queue are dropped.
func (t *Terminal) SetTimer(win, id, ticks int, repeat bool) error {
	return t.context("SetTimer", win, diag.ResourceExhausted, func(c *window.Context) error {
		if ticks < 1 {
			return diag.New(diag.StateConflict, "SetTimer", fmt.Errorf("timer period %d ticks", ticks))
		}
		if old, err := c.Timers.Remove(id); err == nil && old.Stop != nil {
			old.Stop()
		}
		if c.Timers.Len() >= MaxTimers {
			return fmt.Errorf("window %d already runs %d timers", win, MaxTimers)
		}
		d := time.Duration(ticks) * Tick
		t.timerGen++
		tm := &window.Timer{Period: d, Repeat: repeat, Gen: t.timerGen}
		tm.Stop = t.every(platform.Notification{Window: win, Kind: platform.KindTimer, A: int64(id), B: tm.Gen}, d, repeat)
		return c.Timers.Register(id, 0, tm)
	})
}

// KillTimer stops timer id. Notifications already queued are dropped.
func (t *Terminal) KillTimer(win, id int) error {
	return t.context("KillTimer", win, diag.InvalidReference, func(c *window.Context) error {
		tm, err := c.Timers.Remove(id)
		if err != nil {
			return fmt.Errorf("timer %d: %w", id, err)
		}
		if tm.Stop != nil {
			tm.Stop()
		}
		return nil
	})
}

// FrameTimer turns the per window frame event on or off. Frames arrive at
// the configured frame rate.
func (t *Terminal) FrameTimer(win int, on bool) error {
	return t.context("FrameTimer", win, diag.StateConflict, func(c *window.Context) error {
		stop, running := t.frames[win]
		switch {
		case on && !running:
			d := time.Second / time.Duration(t.cfg.FrameRate)
			st := t.every(platform.Notification{Window: win, Kind: platform.KindFrame}, d, true)
			t.frames[win] = func() { st() }
		case !on && running:
			stop()
			delete(t.frames, win)
		}
		return nil
	})
}
