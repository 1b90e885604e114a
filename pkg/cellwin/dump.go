package cellwin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cellwin/internal/diag"
	"cellwin/internal/screen"
	"cellwin/pkg/scrdump"
)

// DumpScreens writes every screen of every open window to dir as
// win<id>-screen<n>.scr snapshots readable with scrdump.ReadFile.
func (t *Terminal) DumpScreens(dir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fail("DumpScreens", diag.NativeFailure, t.dumpTo(dir))
}

// dumpTo expects the lock to be held.
func (t *Terminal) dumpTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var errs []error
	for _, id := range t.windowIDs() {
		bufs := t.windows[id].Buffers()
		nums := make([]int, 0, len(bufs))
		for n := range bufs {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		for _, n := range nums {
			s := toDump(id, n, bufs[n].Snapshot())
			path := filepath.Join(dir, fmt.Sprintf("win%d-screen%d.scr", id, n))
			if err := scrdump.WriteFile(path, s, scrdump.Options{Compress: true}); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func toDump(win, n int, snap screen.Snapshot) *scrdump.Screen {
	s := &scrdump.Screen{
		Window: win,
		Number: n,
		Cols:   snap.Cols,
		Rows:   snap.Rows,
		CurX:   snap.CurX,
		CurY:   snap.CurY,
		Cells:  make([]scrdump.Cell, len(snap.Cells)),
	}
	for i, c := range snap.Cells {
		s.Cells[i] = scrdump.Cell{R: c.R, FG: c.FG, BG: c.BG, Attr: uint16(c.Attr), Cont: c.Cont}
	}
	return s
}
