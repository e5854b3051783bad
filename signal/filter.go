// Package signal conditions the raw joystick readings: smoothing,
// calibration, deadzone and conversion into LED brightness.
//
// All arithmetic is integer arithmetic that rounds down, so results are the
// same on a microcontroller without an FPU and on a desktop.
package signal

import (
	"errors"
	"math"
)

// ErrAlphaOutOfRange is returned for a smoothing factor outside (0, 1].
var ErrAlphaOutOfRange = errors.New("signal: smoothing factor must be in (0, 1]")

// Weights are stored as Q16 fixed point values.
const alphaOne = 1 << 16

// Filter is an exponential moving average over one analog channel:
//
//	filtered' = alpha*raw + (1-alpha)*filtered
//
// The result is rounded down. Since the two weights add up to one, the new
// value never leaves the range between the previous value and the new raw
// sample.
type Filter struct {
	alpha uint32 // Q16
	value uint16
}

// NewFilter returns a filter with the given smoothing factor that starts at
// the initial value.
func NewFilter(alpha float32, initial uint16) (*Filter, error) {
	a, err := alphaQ16(alpha)
	if err != nil {
		return nil, err
	}
	return &Filter{alpha: a, value: initial}, nil
}

func alphaQ16(alpha float32) (uint32, error) {
	if !(alpha > 0 && alpha <= 1) {
		return 0, ErrAlphaOutOfRange
	}
	a := uint32(math.Round(float64(alpha) * alphaOne))
	if a == 0 {
		// Rounded to nothing: the filter would never move.
		return 0, ErrAlphaOutOfRange
	}
	return a, nil
}

// Update feeds a new raw sample into the filter and returns the new
// filtered value.
func (f *Filter) Update(raw uint16) uint16 {
	sum := uint64(f.alpha)*uint64(raw) + uint64(alphaOne-f.alpha)*uint64(f.value)
	f.value = uint16(sum >> 16)
	return f.value
}

// Value returns the current filtered value.
func (f *Filter) Value() uint16 {
	return f.value
}
