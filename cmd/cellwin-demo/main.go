package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"cellwin/internal/config"
	"cellwin/internal/platform/ebitenhost"
	"cellwin/pkg/cellwin"
)

const (
	menuQuit = iota + 1
	menuBold
	menuDump

	widgetHello = 1
	widgetBar   = 2

	timerProgress = 1
)

func main() {
	cfgPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "cellwin-demo failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cellwin.Main(ebitenhost.New(cfg.Title), cfg, run); err != nil && !errors.Is(err, cellwin.ErrTerminated) {
		fmt.Fprintf(os.Stderr, "cellwin-demo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(t *cellwin.Terminal) error {
	win, err := t.OpenWindow(cellwin.WindowOptions{Title: "cellwin demo"})
	if err != nil {
		return err
	}
	menu := []cellwin.MenuItem{
		{Label: "File", Children: []cellwin.MenuItem{
			{ID: menuDump, Label: "Dump screens"},
			{Bar: true},
			{ID: menuQuit, Label: "Quit"},
		}},
		{Label: "View", Children: []cellwin.MenuItem{
			{ID: menuBold, Label: "Bold", OnOff: true},
		}},
	}
	if err := t.SetMenu(win, menu); err != nil {
		return err
	}
	if err := intro(t, win); err != nil {
		return err
	}

	cw, err := t.CharW(win)
	if err != nil {
		return err
	}
	ch, err := t.CharH(win)
	if err != nil {
		return err
	}
	y := 6 * ch
	if err := t.Button(win, widgetHello, 1, y, 12*cw, y+ch+8, "Hello"); err != nil {
		return err
	}
	if err := t.ProgressBar(win, widgetBar, 14*cw, y, 40*cw, y+ch+8); err != nil {
		return err
	}
	if err := t.Cursor(win, 1, 9); err != nil {
		return err
	}
	if err := t.SetTimer(win, timerProgress, 2000, true); err != nil {
		return err
	}

	progress, bold := 0, false
	for {
		ev, err := t.NextEvent(win)
		if err != nil {
			return err
		}
		switch e := ev.(type) {
		case cellwin.TerminateEvent, cellwin.CloseEvent:
			return nil
		case cellwin.CharEvent:
			err = t.Write(win, e.R)
		case cellwin.KeyEvent:
			if e.Code == cellwin.KeyEnter {
				err = t.Write(win, '\n')
			}
		case cellwin.TimerEvent:
			progress = (progress + cellwin.RangeMax/50) % cellwin.RangeMax
			err = t.SetWidgetValue(win, widgetBar, progress)
		case cellwin.WidgetEvent:
			if e.ID == widgetHello {
				err = t.WriteString(win, "hello\n")
			}
		case cellwin.MenuEvent:
			switch e.ID {
			case menuQuit:
				return nil
			case menuDump:
				if derr := t.DumpScreens("."); derr != nil {
					err = t.Printf(win, "dump: %v\n", derr)
				}
			case menuBold:
				bold = !bold
				if err = t.MenuSelect(win, menuBold, bold); err == nil {
					err = t.Bold(win, bold)
				}
			}
		}
		if err != nil {
			return err
		}
	}
}

// intro prints the banner in colour and leaves the pen black.
func intro(t *cellwin.Terminal, win int) error {
	if err := t.FColor(win, "blue"); err != nil {
		return err
	}
	if err := t.WriteString(win, "cellwin demo\n\n"); err != nil {
		return err
	}
	if err := t.FColor(win, "black"); err != nil {
		return err
	}
	return t.WriteString(win, "Type to echo, click the button, Ctrl-C quits.\n\n")
}
