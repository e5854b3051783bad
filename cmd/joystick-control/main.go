// Command joystick-control drives the RGB LED and the OLED display of a
// BitDogLab from its analog joystick.
//
// Build for the board with
//
//	tinygo flash -target=pico ./cmd/joystick-control
//
// or run it in the desktop simulator with
//
//	go run ./cmd/joystick-control
package main

import (
	"log/slog"
	"time"

	"github.com/bitdoglab/joystick/board"
	"github.com/bitdoglab/joystick/config"
	"github.com/bitdoglab/joystick/controller"
	"github.com/bitdoglab/joystick/interaction"
	"github.com/bitdoglab/joystick/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		defaults := config.Default()
		printErrForever(defaults.NewLogger(board.Serial), "load configuration", slog.Any("reason", err))
	}
	logger := cfg.NewLogger(board.Serial)
	logger.Info("starting", "board", board.Name)

	board.Joystick.Configure()
	board.Buttons.Configure()
	if err := board.LEDs.Configure(); err != nil {
		printErrForever(logger, "configure LEDs", slog.Any("reason", err))
	}
	display, err := board.Display.Configure()
	if err != nil {
		printErrForever(logger, "configure display", slog.Any("reason", err))
	}

	hw := controller.Hardware{
		Joystick: board.Joystick,
		Digital:  board.LEDs,
		PWM:      board.LEDs,
		Canvas:   render.NewDisplayCanvas(display),
	}
	state := interaction.NewState()
	ctrl, err := controller.New(cfg, hw, state, logger)
	if err != nil {
		printErrForever(logger, "configure controller", slog.Any("reason", err))
	}

	buttons := interaction.NewMachine(state, board.LEDs, cfg.Debounce())
	if err := buttons.Register(board.Buttons); err != nil {
		printErrForever(logger, "register buttons", slog.Any("reason", err))
	}

	ctrl.Run()
}

// printErrForever logs the error to serial once a second. It blocks
// forever, so the message is seen even when the serial monitor is
// attached late.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
