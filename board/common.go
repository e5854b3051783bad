package board

import (
	"errors"
	"time"

	"github.com/bitdoglab/joystick/hal"
)

// Settings for the simulator. These can be modified at any time, but it is
// recommended to modify them before configuring any of the board peripherals.
//
// The defaults match the BitDogLab: a 128x64 display and a joystick whose Y
// axis rests a little above the center.
var Simulator = struct {
	WindowTitle string

	// Width and height of the simulated display in pixels.
	DisplayWidth  int
	DisplayHeight int

	// Every display pixel is shown as a square of this many window pixels.
	WindowScale int

	// Maximum ADC noise added to (and subtracted from) every joystick
	// reading.
	JoystickNoise int

	// How far above the center each axis reads when the stick is released.
	JoystickRestBiasX int
	JoystickRestBiasY int

	// Number of extra falling edges delivered for each button press, and the
	// time between them. Real push buttons bounce for a few milliseconds.
	ButtonBounce         int
	ButtonBounceInterval time.Duration
}{
	WindowTitle:          "BitDogLab simulator",
	DisplayWidth:         128,
	DisplayHeight:        64,
	WindowScale:          4,
	JoystickNoise:        12,
	JoystickRestBiasX:    0,
	JoystickRestBiasY:    52,
	ButtonBounce:         3,
	ButtonBounceInterval: 2 * time.Millisecond,
}

var errUnknownButton = errors.New("board: unknown button")

// adcFrom16 converts a reading from TinyGo's 16-bit ADC API to the 12-bit
// range used by the rest of the program.
func adcFrom16(v uint16) uint16 {
	return v >> 4
}

// dutyFromLevel scales a brightness level in [0, hal.MaxDutyCycle] to a PWM
// counter value in [0, top]. Higher levels are treated as fully on.
func dutyFromLevel(level, top uint32) uint32 {
	if level > hal.MaxDutyCycle {
		level = hal.MaxDutyCycle
	}
	return uint32(uint64(level) * uint64(top) / hal.MaxDutyCycle)
}

// clampADC limits a simulated reading to the ADC range.
func clampADC(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > hal.ADCMax {
		return hal.ADCMax
	}
	return uint16(v)
}

// stickFromPoint converts a position on a width x height area to stick
// deflection. The top of the area is the top of the Y axis.
func stickFromPoint(x, y, width, height int) (uint16, uint16) {
	if width <= 1 || height <= 1 {
		return hal.ADCCenter, hal.ADCCenter
	}
	sx := x * hal.ADCMax / (width - 1)
	sy := (height - 1 - y) * hal.ADCMax / (height - 1)
	return clampADC(sx), clampADC(sy)
}
