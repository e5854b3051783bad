package signal

import "github.com/bitdoglab/joystick/hal"

// Mapper converts a calibrated axis value into an LED brightness: zero at
// rest and inside the deadzone, rising linearly towards both extremes.
//
// Below the deadzone the ramp is (center-D-v)*wrap/(center-D), reaching
// wrap at v=0. Above it the ramp is (v-(center+D))*wrap/(center-1-D). The
// upper denominator is one less than the lower one, which makes the upper
// ramp end at exactly wrap for v=ADCMax.
type Mapper struct {
	deadzone uint16
	wrap     uint32
}

// NewMapper returns a mapper for the given deadzone and output range
// [0, wrap].
func NewMapper(dz Deadzone, wrap uint32) Mapper {
	return Mapper{deadzone: dz.halfWidth, wrap: wrap}
}

// Brightness maps a calibrated, dead-zoned axis value to [0, wrap].
func (m Mapper) Brightness(v uint16) uint32 {
	low := uint32(hal.ADCCenter - m.deadzone)
	high := uint32(hal.ADCCenter + m.deadzone)
	x := uint32(v)
	switch {
	case x < low:
		return (low - x) * m.wrap / low
	case x > high:
		if x > hal.ADCMax {
			x = hal.ADCMax
		}
		return (x - high) * m.wrap / (hal.ADCCenter - 1 - uint32(m.deadzone))
	default:
		return 0
	}
}
