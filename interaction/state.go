// Package interaction implements the button-driven part of the program: two
// debounced push-buttons toggling a small amount of state that the main
// loop reads every cycle.
//
// The button handlers may run in interrupt context, preempting the main
// loop at any point. Every field of State is therefore stored atomically on
// its own; the main loop only ever reads it.
package interaction

import "sync/atomic"

// BorderStyle is the style of the frame drawn around the display.
type BorderStyle uint32

const (
	BorderPlain BorderStyle = iota
	BorderDouble

	numBorderStyles
)

// Next returns the following style, wrapping around after the last one.
func (b BorderStyle) Next() BorderStyle {
	return (b + 1) % numBorderStyles
}

func (b BorderStyle) String() string {
	switch b {
	case BorderPlain:
		return "plain"
	case BorderDouble:
		return "double"
	default:
		return "unknown"
	}
}

// State is the state shared between the button handlers and the main loop.
// The zero value is not ready for use, use NewState.
type State struct {
	greenLED   atomic.Bool
	border     atomic.Uint32
	pwmEnabled atomic.Bool
}

// NewState returns the startup state: PWM outputs enabled, green LED off
// and a plain border.
func NewState() *State {
	s := &State{}
	s.pwmEnabled.Store(true)
	return s
}

// GreenLED returns whether the green LED should be lit.
func (s *State) GreenLED() bool {
	return s.greenLED.Load()
}

// Border returns the current border style.
func (s *State) Border() BorderStyle {
	return BorderStyle(s.border.Load())
}

// PWMEnabled returns whether the joystick drives the red and blue LEDs.
func (s *State) PWMEnabled() bool {
	return s.pwmEnabled.Load()
}

// Snapshot is a copy of State taken at one point in time.
type Snapshot struct {
	GreenLED   bool
	Border     BorderStyle
	PWMEnabled bool
}

// Snapshot reads all fields. Fields are read one by one, so a handler
// running at the same time may be reflected in some fields and not yet in
// others; the next snapshot will see it.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		GreenLED:   s.GreenLED(),
		Border:     s.Border(),
		PWMEnabled: s.PWMEnabled(),
	}
}

func (s *State) toggleGreenLED() {
	// Only one handler writes this field, so a load followed by a store
	// does not lose updates.
	s.greenLED.Store(!s.greenLED.Load())
}

func (s *State) advanceBorder() {
	s.border.Store(uint32(BorderStyle(s.border.Load()).Next()))
}

// togglePWM flips the enable flag and returns the new value.
func (s *State) togglePWM() bool {
	enabled := !s.pwmEnabled.Load()
	s.pwmEnabled.Store(enabled)
	return enabled
}
