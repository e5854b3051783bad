package signal

import (
	"errors"

	"github.com/bitdoglab/joystick/hal"
)

// ErrDeadzoneTooWide is returned for a deadzone that leaves no room for the
// brightness ramps on either side of the center.
var ErrDeadzoneTooWide = errors.New("signal: deadzone must be narrower than half the ADC range")

// Deadzone snaps readings close to the center to exactly the center, so
// noise and drift around the rest position don't move anything.
type Deadzone struct {
	halfWidth uint16
}

// NewDeadzone returns a deadzone of the given half-width around
// hal.ADCCenter.
func NewDeadzone(halfWidth uint16) (Deadzone, error) {
	// The upper brightness ramp divides by center-1-halfWidth.
	if halfWidth >= hal.ADCCenter-1 {
		return Deadzone{}, ErrDeadzoneTooWide
	}
	return Deadzone{halfWidth: halfWidth}, nil
}

// HalfWidth returns the configured half-width.
func (d Deadzone) HalfWidth() uint16 {
	return d.halfWidth
}

// Apply returns hal.ADCCenter when |v - center| < half-width, and v
// otherwise.
func (d Deadzone) Apply(v uint16) uint16 {
	if v > hal.ADCCenter-d.halfWidth && v < hal.ADCCenter+d.halfWidth {
		return hal.ADCCenter
	}
	return v
}
