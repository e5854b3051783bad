// Package hal describes the hardware the control loop talks to, without
// depending on any particular board. Board support code (see package board)
// implements these interfaces; tests implement them with fakes.
package hal

// ADC range as seen by the rest of the program. Boards with a different
// converter resolution scale their readings into this range.
const (
	ADCMax    = 4095
	ADCCenter = 2048
)

// MaxDutyCycle is the PWM resolution used for the analog LEDs: a duty cycle
// of MaxDutyCycle is fully on.
const MaxDutyCycle = 255

// Axis identifies one joystick axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "unknown"
	}
}

// LED identifies one of the three LEDs of the RGB LED.
// The red and blue LEDs are PWM driven, the green LED is a digital output.
type LED uint8

const (
	LEDRed LED = iota
	LEDGreen
	LEDBlue
)

// Button identifies a push-button that delivers falling-edge interrupts.
type Button uint8

const (
	ButtonJoystick Button = iota
	ButtonA
)

func (b Button) String() string {
	switch b {
	case ButtonJoystick:
		return "joystick"
	case ButtonA:
		return "a"
	default:
		return "unknown"
	}
}

// AnalogSource reads the joystick.
type AnalogSource interface {
	// ReadAxis performs a one-shot sample of the given axis. The returned
	// value is always in the range 0..ADCMax.
	ReadAxis(axis Axis) uint16
}

// DigitalSink drives on/off outputs.
type DigitalSink interface {
	SetLevel(led LED, on bool)
}

// PWMSink drives the analog brightness outputs.
type PWMSink interface {
	// SetDutyCycle sets the LED brightness, from 0 (off) to MaxDutyCycle
	// (fully on). It must be safe to call from an interrupt handler.
	SetDutyCycle(led LED, level uint32)
}

// EdgeSource delivers falling-edge notifications for a button.
type EdgeSource interface {
	// SetInterrupt registers the handler for the given button. The handler
	// may be called from interrupt context, concurrently with the main loop.
	SetInterrupt(btn Button, handler func()) error
}
