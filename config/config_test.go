package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bitdoglab/joystick/signal"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("defaults.yaml and Default() disagree:\nyaml:    %+v\nDefault: %+v", cfg, Default())
	}
	if cfg.Debounce() != 200*time.Millisecond || cfg.Period() != 50*time.Millisecond {
		t.Errorf("unexpected durations: %v %v", cfg.Debounce(), cfg.Period())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("axes:\n  deadzone: 80\nlogging:\n  level: debug\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Axes.Deadzone = 80
	want.Logging.Level = "debug"
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestParseRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
	}{
		{"unknown field", "axes:\n  deadzon: 80\n"},
		{"wrong type", "loop:\n  period_ms: fast\n"},
		{"trailing document", "loop:\n  period_ms: 20\n---\nloop:\n  period_ms: 30\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
		err    error // nil means valid
	}{
		{"defaults", func(c *Config) {}, nil},
		{"alpha zero", func(c *Config) { c.Filter.Alpha = 0 }, signal.ErrAlphaOutOfRange},
		{"alpha above one", func(c *Config) { c.Filter.Alpha = 1.5 }, signal.ErrAlphaOutOfRange},
		{"alpha one", func(c *Config) { c.Filter.Alpha = 1 }, nil},
		{"deadzone too wide", func(c *Config) { c.Axes.Deadzone = 2047 }, signal.ErrDeadzoneTooWide},
		{"offset at max", func(c *Config) { c.Axes.YOffset = 4095 }, signal.ErrOffsetOutOfRange},
		{"offset above max", func(c *Config) { c.Axes.XOffset = 5000 }, signal.ErrOffsetOutOfRange},
		// Offset 52 puts the rest position 26 counts off center.
		{"deadzone too narrow for offset", func(c *Config) { c.Axes.Deadzone = 26 }, ErrRestOutsideDeadzone},
		{"deadzone just wide enough", func(c *Config) { c.Axes.Deadzone = 27 }, nil},
		{"no offsets and no deadzone", func(c *Config) { c.Axes = AxesConfig{} }, nil},
		{"debounce", func(c *Config) { c.Buttons.DebounceMS = 0 }, ErrDebounce},
		{"period", func(c *Config) { c.Loop.PeriodMS = -1 }, ErrPeriod},
		{"display", func(c *Config) { c.Display.Height = 7 }, ErrDisplayTooSmall},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.err == nil {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected invalid log level to be rejected")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"Debug":   slog.LevelDebug,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseLevel(""); err == nil {
		t.Errorf("expected empty level to be rejected")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "axis", "y")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown axis=y") {
		t.Errorf("unexpected log output: %q", out)
	}
}
