package interaction

import (
	"fmt"
	"time"

	"github.com/bitdoglab/joystick/hal"
)

// Machine reacts to the button edges.
//
// The joystick button toggles the green LED and advances the border style.
// Button A toggles the PWM outputs; turning them off zeroes both LEDs right
// away from inside the handler instead of waiting for the next loop cycle.
type Machine struct {
	state    *State
	pwm      hal.PWMSink
	now      func() time.Time
	joystick *Debouncer
	buttonA  *Debouncer
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces time.Now as the source of edge timestamps. The clock
// must be monotonic.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine returns a machine that writes to state and pwm. Each button is
// debounced independently with the given quiet window.
func NewMachine(state *State, pwm hal.PWMSink, debounce time.Duration, opts ...Option) *Machine {
	m := &Machine{
		state: state,
		pwm:   pwm,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	start := m.now()
	m.joystick = NewDebouncer(debounce, start)
	m.buttonA = NewDebouncer(debounce, start)
	return m
}

// State returns the state this machine writes to.
func (m *Machine) State() *State {
	return m.state
}

// JoystickButton handles a falling edge of the joystick button.
func (m *Machine) JoystickButton() {
	if !m.joystick.Accept(m.now()) {
		return
	}
	m.state.toggleGreenLED()
	m.state.advanceBorder()
}

// ButtonA handles a falling edge of button A.
func (m *Machine) ButtonA() {
	if !m.buttonA.Accept(m.now()) {
		return
	}
	if !m.state.togglePWM() {
		m.pwm.SetDutyCycle(hal.LEDRed, 0)
		m.pwm.SetDutyCycle(hal.LEDBlue, 0)
	}
}

// Register binds the handlers to the button interrupts.
func (m *Machine) Register(src hal.EdgeSource) error {
	if err := src.SetInterrupt(hal.ButtonJoystick, m.JoystickButton); err != nil {
		return fmt.Errorf("interaction: register %s button: %w", hal.ButtonJoystick, err)
	}
	if err := src.SetInterrupt(hal.ButtonA, m.ButtonA); err != nil {
		return fmt.Errorf("interaction: register %s button: %w", hal.ButtonA, err)
	}
	return nil
}
