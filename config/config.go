// Package config holds the tunables of the joystick controller.
//
// The configuration is fixed at build time: defaults.yaml is embedded into
// the binary and parsed at startup. Validation happens before the control
// loop starts, so the rest of the program can assume a well-formed config.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitdoglab/joystick/signal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	ErrRestOutsideDeadzone = errors.New("config: calibrated rest position falls outside the deadzone")
	ErrDebounce            = errors.New("config: buttons.debounce_ms must be > 0")
	ErrPeriod              = errors.New("config: loop.period_ms must be > 0")
	ErrDisplayTooSmall     = errors.New("config: display must be at least 8x8 pixels")
)

// Config is the complete set of tunables.
type Config struct {
	Filter  FilterConfig  `yaml:"filter"`
	Axes    AxesConfig    `yaml:"axes"`
	Buttons ButtonsConfig `yaml:"buttons"`
	Loop    LoopConfig    `yaml:"loop"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
}

type FilterConfig struct {
	Alpha float32 `yaml:"alpha"`
}

type AxesConfig struct {
	Deadzone uint16 `yaml:"deadzone"` // half-width around the center
	XOffset  uint16 `yaml:"x_offset"`
	YOffset  uint16 `yaml:"y_offset"`
}

type ButtonsConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

type LoopConfig struct {
	PeriodMS int `yaml:"period_ms"`
}

type DisplayConfig struct {
	Width  int16 `yaml:"width"`
	Height int16 `yaml:"height"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the reference configuration. It matches defaults.yaml.
func Default() Config {
	return Config{
		Filter:  FilterConfig{Alpha: 0.1},
		Axes:    AxesConfig{Deadzone: 50, XOffset: 0, YOffset: 52},
		Buttons: ButtonsConfig{DebounceMS: 200},
		Loop:    LoopConfig{PeriodMS: 50},
		Display: DisplayConfig{Width: 128, Height: 64},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load parses and validates the embedded configuration.
func Load() (Config, error) {
	cfg, err := Parse(defaultsYAML)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults. Unknown fields are
// rejected to catch typos. The result is not validated.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}

	// Only whitespace and comments may follow the document.
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("config: decode yaml: unexpected trailing document")
	}

	return cfg, nil
}

// Debounce returns the button debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Buttons.DebounceMS) * time.Millisecond
}

// Period returns the control loop period.
func (c *Config) Period() time.Duration {
	return time.Duration(c.Loop.PeriodMS) * time.Millisecond
}

// Validate checks that every stage of the signal pipeline can be built from
// this configuration and that the stick reads exactly centered at rest.
func (c *Config) Validate() error {
	if _, err := signal.NewFilter(c.Filter.Alpha, 0); err != nil {
		return fmt.Errorf("config: filter.alpha %v: %w", c.Filter.Alpha, err)
	}
	dz, err := signal.NewDeadzone(c.Axes.Deadzone)
	if err != nil {
		return fmt.Errorf("config: axes.deadzone %d: %w", c.Axes.Deadzone, err)
	}
	for _, axis := range []struct {
		name   string
		offset uint16
	}{
		{"axes.x_offset", c.Axes.XOffset},
		{"axes.y_offset", c.Axes.YOffset},
	} {
		cal, err := signal.NewCalibrator(axis.offset)
		if err != nil {
			return fmt.Errorf("config: %s %d: %w", axis.name, axis.offset, err)
		}
		if axis.offset != 0 && cal.RestError() >= dz.HalfWidth() {
			return fmt.Errorf("%w: %s %d leaves the rest position %d counts off center, deadzone is %d",
				ErrRestOutsideDeadzone, axis.name, axis.offset, cal.RestError(), dz.HalfWidth())
		}
	}

	if c.Buttons.DebounceMS <= 0 {
		return ErrDebounce
	}
	if c.Loop.PeriodMS <= 0 {
		return ErrPeriod
	}
	if c.Display.Width < 8 || c.Display.Height < 8 {
		return ErrDisplayTooSmall
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
