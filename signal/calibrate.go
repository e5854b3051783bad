package signal

import (
	"errors"

	"github.com/bitdoglab/joystick/hal"
)

// ErrOffsetOutOfRange is returned for a calibration offset that leaves no
// usable range to rescale.
var ErrOffsetOutOfRange = errors.New("signal: calibration offset must be below the ADC maximum")

// Calibrator corrects a fixed bias on one axis: an axis whose rest position
// reads Offset counts above mid-scale.
//
// The offset is subtracted (floored at 0, capped at ADCMax-Offset) and the
// result is stretched back to the full 0..ADCMax range. An offset of zero is
// the identity.
type Calibrator struct {
	offset uint16
}

// NewCalibrator returns a calibrator for the given offset.
func NewCalibrator(offset uint16) (Calibrator, error) {
	if offset >= hal.ADCMax {
		return Calibrator{}, ErrOffsetOutOfRange
	}
	return Calibrator{offset: offset}, nil
}

// Offset returns the configured offset.
func (c Calibrator) Offset() uint16 {
	return c.offset
}

// Apply calibrates a filtered reading.
func (c Calibrator) Apply(v uint16) uint16 {
	if c.offset == 0 {
		return v
	}
	usable := uint32(hal.ADCMax - c.offset)
	var shifted uint32
	if v >= c.offset {
		shifted = uint32(v - c.offset)
	}
	if shifted > usable {
		shifted = usable
	}
	return uint16(shifted * hal.ADCMax / usable)
}

// RestError returns how far the stretch moves the corrected rest position
// away from the center. The deadzone must be wider than this for the stick
// to read exactly centered when released.
func (c Calibrator) RestError() uint16 {
	return c.Apply(hal.ADCCenter+c.offset) - hal.ADCCenter
}
