package cellwin

import (
	"fmt"

	"cellwin/internal/diag"
	"cellwin/internal/platform"
	"cellwin/internal/window"
)

// MenuItem describes one entry of a window's menu. Items with children are
// submenus; Bar items are separators. Consecutive OneOf siblings form a
// group of which one is selected at a time.
type MenuItem = platform.MenuItem

// SetMenu replaces the menu of win. Selecting an entry delivers a Menu event
// carrying its id.
func (t *Terminal) SetMenu(win int, items []MenuItem) error {
	const op = "SetMenu"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	c.Menus.Clear()
	if err := registerMenu(c, items); err != nil {
		c.Menus.Clear()
		return t.fail(op, diag.StateConflict, err)
	}
	return t.fail(op, diag.NativeFailure, t.call(op, func() error { return c.Native.SetMenu(items) }))
}

func registerMenu(c *window.Context, items []MenuItem) error {
	var group []int
	flush := func() {
		for _, id := range group {
			if e, err := c.Menus.Find(id); err == nil {
				e.Group = group
			}
		}
		group = nil
	}
	for _, it := range items {
		if len(it.Children) > 0 {
			flush()
			if err := registerMenu(c, it.Children); err != nil {
				return err
			}
			continue
		}
		if it.Bar {
			flush()
			continue
		}
		e := &window.MenuEntry{OnOff: it.OnOff, OneOf: it.OneOf, Enabled: true}
		if err := c.Menus.Register(it.ID, 0, e); err != nil {
			return fmt.Errorf("menu item %d: %w", it.ID, err)
		}
		if it.OneOf {
			group = append(group, it.ID)
		} else {
			flush()
		}
	}
	flush()
	return nil
}

// MenuEnable enables or greys out menu entry id.
func (t *Terminal) MenuEnable(win, id int, on bool) error {
	const op = "MenuEnable"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	e, err := c.Menus.Find(id)
	if err != nil {
		return t.fail(op, diag.InvalidReference, fmt.Errorf("menu item %d: %w", id, err))
	}
	e.Enabled = on
	return t.fail(op, diag.NativeFailure, t.call(op, func() error {
		return c.Native.UpdateMenu(id, e.Enabled, e.Selected)
	}))
}

// MenuSelect checks or unchecks an on/off entry, or selects a one-of entry,
// which deselects the rest of its group.
func (t *Terminal) MenuSelect(win, id int, on bool) error {
	const op = "MenuSelect"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return err
	}
	e, err := c.Menus.Find(id)
	if err != nil {
		return t.fail(op, diag.InvalidReference, fmt.Errorf("menu item %d: %w", id, err))
	}
	if !e.OnOff && !e.OneOf {
		return t.fail(op, diag.StateConflict, fmt.Errorf("menu item %d cannot be selected", id))
	}
	changed := map[int]*window.MenuEntry{id: e}
	if e.OneOf && on {
		for _, o := range e.Group {
			if o == id {
				continue
			}
			if oe, err := c.Menus.Find(o); err == nil && oe.Selected {
				oe.Selected = false
				changed[o] = oe
			}
		}
	}
	e.Selected = on
	return t.fail(op, diag.NativeFailure, t.call(op, func() error {
		for mid, me := range changed {
			if err := c.Native.UpdateMenu(mid, me.Enabled, me.Selected); err != nil {
				return err
			}
		}
		return nil
	}))
}

// MenuState returns whether entry id is enabled and selected.
func (t *Terminal) MenuState(win, id int) (enabled, selected bool, err error) {
	const op = "MenuState"
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.window(op, win)
	if err != nil {
		return false, false, err
	}
	e, err := c.Menus.Find(id)
	if err != nil {
		return false, false, t.fail(op, diag.InvalidReference, fmt.Errorf("menu item %d: %w", id, err))
	}
	return e.Enabled, e.Selected, nil
}
