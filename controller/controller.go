// Package controller runs the control loop: it samples the joystick,
// conditions the readings, drives the LEDs and redraws the display, once
// per period, forever.
package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bitdoglab/joystick/config"
	"github.com/bitdoglab/joystick/hal"
	"github.com/bitdoglab/joystick/interaction"
	"github.com/bitdoglab/joystick/render"
	"github.com/bitdoglab/joystick/signal"
)

// Hardware is everything the loop reads from and writes to.
type Hardware struct {
	Joystick hal.AnalogSource
	Digital  hal.DigitalSink
	PWM      hal.PWMSink
	Canvas   render.Canvas
}

// AxisReading is one axis at each stage of the pipeline.
type AxisReading struct {
	Raw         uint16
	Filtered    uint16
	Calibrated  uint16
	Conditioned uint16 // after the deadzone
}

// Reading is the result of one cycle.
type Reading struct {
	X, Y      AxisReading
	Red, Blue uint32 // brightness, whether or not it was applied
	Cursor    render.Point
	State     interaction.Snapshot
}

// axis is the per-axis part of the pipeline.
type axis struct {
	id         hal.Axis
	filter     *signal.Filter
	calibrator signal.Calibrator
}

// Controller owns the signal pipeline. It reads the interaction state but
// never writes it.
type Controller struct {
	hw       Hardware
	state    *interaction.State
	logger   *slog.Logger
	period   time.Duration
	x, y     axis
	deadzone signal.Deadzone
	mapper   signal.Mapper
	composer *render.Composer

	last       Reading
	prev       interaction.Snapshot
	displayErr error
}

// New validates the configuration and builds the pipeline. It fails before
// anything is written to the hardware.
func New(cfg config.Config, hw Hardware, state *interaction.State, logger *slog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	deadzone, err := signal.NewDeadzone(cfg.Axes.Deadzone)
	if err != nil {
		return nil, err
	}
	x, err := newAxis(hal.AxisX, cfg.Filter.Alpha, cfg.Axes.XOffset)
	if err != nil {
		return nil, err
	}
	y, err := newAxis(hal.AxisY, cfg.Filter.Alpha, cfg.Axes.YOffset)
	if err != nil {
		return nil, err
	}
	return &Controller{
		hw:       hw,
		state:    state,
		logger:   logger,
		period:   cfg.Period(),
		x:        x,
		y:        y,
		deadzone: deadzone,
		mapper:   signal.NewMapper(deadzone, hal.MaxDutyCycle),
		composer: render.NewComposer(hw.Canvas, cfg.Display.Width, cfg.Display.Height),
		prev:     state.Snapshot(),
	}, nil
}

func newAxis(id hal.Axis, alpha float32, offset uint16) (axis, error) {
	filter, err := signal.NewFilter(alpha, hal.ADCCenter)
	if err != nil {
		return axis{}, fmt.Errorf("controller: %s axis: %w", id, err)
	}
	calibrator, err := signal.NewCalibrator(offset)
	if err != nil {
		return axis{}, fmt.Errorf("controller: %s axis: %w", id, err)
	}
	return axis{id: id, filter: filter, calibrator: calibrator}, nil
}

func (c *Controller) sample(a axis) AxisReading {
	var r AxisReading
	r.Raw = c.hw.Joystick.ReadAxis(a.id)
	r.Filtered = a.filter.Update(r.Raw)
	r.Calibrated = a.calibrator.Apply(r.Filtered)
	r.Conditioned = c.deadzone.Apply(r.Calibrated)
	return r
}

// Step runs one cycle of the loop. The only error it returns comes from the
// display; the LEDs have been updated by then.
func (c *Controller) Step() error {
	r := Reading{
		X: c.sample(c.x),
		Y: c.sample(c.y),
	}
	r.Red = c.mapper.Brightness(r.X.Conditioned)
	r.Blue = c.mapper.Brightness(r.Y.Conditioned)

	r.State = c.state.Snapshot()
	if r.State.PWMEnabled {
		c.hw.PWM.SetDutyCycle(hal.LEDRed, r.Red)
		c.hw.PWM.SetDutyCycle(hal.LEDBlue, r.Blue)
		// Button A may have turned the outputs off after the snapshot. Its
		// handler zeroes them right after clearing the flag, so if the flag
		// is still set here the handler's zeroes land after our write.
		if !c.state.PWMEnabled() {
			c.hw.PWM.SetDutyCycle(hal.LEDRed, 0)
			c.hw.PWM.SetDutyCycle(hal.LEDBlue, 0)
		}
	}
	c.hw.Digital.SetLevel(hal.LEDGreen, r.State.GreenLED)

	r.Cursor = c.composer.Position(r.X.Conditioned, r.Y.Conditioned)
	err := c.composer.Draw(render.Frame{
		X:          r.X.Conditioned,
		Y:          r.Y.Conditioned,
		Border:     r.State.Border,
		PWMEnabled: r.State.PWMEnabled,
	})

	c.last = r
	c.logTransitions(r)
	return err
}

func (c *Controller) logTransitions(r Reading) {
	prev := c.prev
	c.prev = r.State
	if r.State.GreenLED != prev.GreenLED {
		c.logger.Info("green LED toggled", "on", r.State.GreenLED)
	}
	if r.State.Border != prev.Border {
		c.logger.Info("border changed", "style", r.State.Border)
	}
	if r.State.PWMEnabled != prev.PWMEnabled {
		c.logger.Info("PWM outputs toggled", "enabled", r.State.PWMEnabled)
	}
	c.logger.Debug("cycle",
		"raw_x", r.X.Raw, "raw_y", r.Y.Raw,
		"x", r.X.Conditioned, "y", r.Y.Conditioned,
		"red", r.Red, "blue", r.Blue)
}

// Outputs returns the reading of the last completed cycle.
func (c *Controller) Outputs() Reading {
	return c.last
}

// Run steps the loop forever, sleeping one period after each cycle. Display
// errors don't stop the loop: the next cycle redraws the whole frame.
func (c *Controller) Run() {
	c.logger.Info("control loop started", "period", c.period)
	for {
		c.report(c.Step())
		time.Sleep(c.period)
	}
}

// report logs display failures once when they start and once when they
// stop, not every cycle.
func (c *Controller) report(err error) {
	switch {
	case err != nil && c.displayErr == nil:
		c.logger.Warn("display update failed", "err", err)
	case err == nil && c.displayErr != nil:
		c.logger.Info("display recovered")
	}
	c.displayErr = err
}
