package main

import (
	"io"

	"github.com/bitdoglab/joystick/board"
	"github.com/bitdoglab/joystick/hal"
	"tinygo.org/x/drivers"
)

func main() {
	// Verify board name constant.
	var _ string = board.Name

	// Assert that the devices implement the interfaces the control loop
	// uses.
	var _ hal.AnalogSource = board.Joystick
	var _ hal.EdgeSource = board.Buttons
	var _ hal.DigitalSink = board.LEDs
	var _ hal.PWMSink = board.LEDs
	var _ io.Writer = board.Serial

	// Assert that the devices use the usual configuration interface.
	var _ interface {
		Configure()
	} = board.Joystick
	var _ interface {
		Configure()
	} = board.Buttons
	var _ interface {
		Configure() error
	} = board.LEDs
	var _ interface {
		Configure() (drivers.Displayer, error)
	} = board.Display
}
