// Package config holds the keyed configuration block read at start-up.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Title           string  `toml:"title"`
	Columns         int     `toml:"columns"`
	Rows            int     `toml:"rows"`
	MaxScreens      int     `toml:"max_screens"`
	Buffered        bool    `toml:"buffered"`
	QueueCapacity   int     `toml:"queue_capacity"`
	ControlCapacity int     `toml:"control_capacity"`
	Mouse           bool    `toml:"mouse"`
	Joystick        bool    `toml:"joystick"`
	// JoyThreshold is the smallest reported axis change as a fraction of full
	// deflection.
	JoyThreshold float64 `toml:"joystick_threshold"`
	FrameRate    int     `toml:"frame_rate"`
	// FontSize selects a scalable face; zero keeps the fixed 7x13 face.
	FontSize   float64 `toml:"font_size"`
	Foreground string  `toml:"foreground"`
	Background string  `toml:"background"`

	AbortOnError bool   `toml:"abort_on_error"`
	AlertErrors  bool   `toml:"alert_errors"`
	DumpEvents   bool   `toml:"dump_events"`
	DumpMessages bool   `toml:"dump_messages"`
	DumpScreens  string `toml:"dump_screens"`
}

func Default() Config {
	return Config{
		Title:           "cellwin",
		Columns:         80,
		Rows:            25,
		MaxScreens:      10,
		Buffered:        true,
		QueueCapacity:   1000,
		ControlCapacity: 16,
		Mouse:           true,
		Joystick:        true,
		JoyThreshold:    0.05,
		FrameRate:       60,
		Foreground:      "black",
		Background:      "white",
		AbortOnError:    true,
		AlertErrors:     true,
	}
}

// Load reads a TOML file over the defaults. Keys the block does not know
// are an error.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return c, fmt.Errorf("config: unknown keys %s", strings.Join(keys, ", "))
	}
	return c, c.Validate()
}

// Parse decodes a TOML document held in memory over the defaults.
func Parse(data string) (Config, error) {
	c := Default()
	if _, err := toml.Decode(data, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Columns < 1 || c.Rows < 1 {
		errs = append(errs, fmt.Errorf("config: window must be at least 1x1 characters, got %dx%d", c.Columns, c.Rows))
	}
	if c.MaxScreens < 1 {
		errs = append(errs, fmt.Errorf("config: max_screens must be positive, got %d", c.MaxScreens))
	}
	if c.QueueCapacity < 1 || c.ControlCapacity < 1 {
		errs = append(errs, errors.New("config: queue capacities must be positive"))
	}
	if c.JoyThreshold < 0 || c.JoyThreshold >= 1 {
		errs = append(errs, fmt.Errorf("config: joystick_threshold must be in [0, 1), got %g", c.JoyThreshold))
	}
	if c.FrameRate < 1 {
		errs = append(errs, fmt.Errorf("config: frame_rate must be positive, got %d", c.FrameRate))
	}
	if c.FontSize < 0 {
		errs = append(errs, fmt.Errorf("config: font_size must not be negative, got %g", c.FontSize))
	}
	return errors.Join(errs...)
}
