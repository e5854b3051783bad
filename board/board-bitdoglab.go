//go:build pico

package board

// The BitDogLab is an RP2040 (Raspberry Pi Pico W) education board. Build
// with -target=pico.

import (
	"machine"

	"github.com/bitdoglab/joystick/hal"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

const (
	Name = "bitdoglab"
)

var (
	Joystick = &adcJoystick{}
	Buttons  = &gpioButtons{}
	LEDs     = &pwmLEDs{}
	Display  = mainDisplay{}
	Serial   = machine.Serial
)

type adcJoystick struct {
	x machine.ADC
	y machine.ADC
}

// Configure the joystick ADC channels. This must be called before calling
// ReadAxis.
func (j *adcJoystick) Configure() {
	machine.InitADC()
	j.x = machine.ADC{Pin: machine.ADC1} // GPIO27
	j.y = machine.ADC{Pin: machine.ADC0} // GPIO26
	j.x.Configure(machine.ADCConfig{})
	j.y.Configure(machine.ADCConfig{})
}

// ReadAxis returns the position of one axis in [0, hal.ADCMax].
func (j *adcJoystick) ReadAxis(axis hal.Axis) uint16 {
	if axis == hal.AxisX {
		return adcFrom16(j.x.Get())
	}
	return adcFrom16(j.y.Get())
}

type gpioButtons struct{}

var buttonPins = [...]machine.Pin{
	hal.ButtonJoystick: machine.GP22,
	hal.ButtonA:        machine.GP5,
}

func (b *gpioButtons) Configure() {
	for _, pin := range buttonPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
}

// SetInterrupt calls handler on every falling edge (press) of the button.
// The handler runs in interrupt context.
func (b *gpioButtons) SetInterrupt(btn hal.Button, handler func()) error {
	if int(btn) >= len(buttonPins) {
		return errUnknownButton
	}
	return buttonPins[btn].SetInterrupt(machine.PinFalling, func(machine.Pin) {
		handler()
	})
}

// The subset of the RP2040 PWM slice API used here.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

type pwmLEDs struct {
	slice pwmSlice
	red   uint8
	blue  uint8
	top   uint32
}

const (
	redPin   = machine.GP13
	bluePin  = machine.GP12
	greenPin = machine.GP11
)

// Configure the RGB LED: red and blue share PWM slice 6, green is a plain
// output.
func (l *pwmLEDs) Configure() error {
	greenPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	greenPin.Low()

	l.slice = machine.PWM6
	err := l.slice.Configure(machine.PWMConfig{
		Period: 1e9 / 1000, // 1kHz
	})
	if err != nil {
		return err
	}
	if l.red, err = l.slice.Channel(redPin); err != nil {
		return err
	}
	if l.blue, err = l.slice.Channel(bluePin); err != nil {
		return err
	}
	l.top = l.slice.Top()
	l.slice.Set(l.red, 0)
	l.slice.Set(l.blue, 0)
	return nil
}

// SetLevel switches an LED fully on or off.
func (l *pwmLEDs) SetLevel(led hal.LED, on bool) {
	if led == hal.LEDGreen {
		greenPin.Set(on)
		return
	}
	level := uint32(0)
	if on {
		level = hal.MaxDutyCycle
	}
	l.SetDutyCycle(led, level)
}

// SetDutyCycle sets the brightness of an LED in [0, hal.MaxDutyCycle]. It is
// safe to call from interrupt context.
func (l *pwmLEDs) SetDutyCycle(led hal.LED, level uint32) {
	switch led {
	case hal.LEDRed:
		l.slice.Set(l.red, dutyFromLevel(level, l.top))
	case hal.LEDBlue:
		l.slice.Set(l.blue, dutyFromLevel(level, l.top))
	case hal.LEDGreen:
		greenPin.Set(level != 0)
	}
}

type mainDisplay struct{}

// Configure returns the SSD1306 OLED, cleared and ready to draw on.
func (d mainDisplay) Configure() (drivers.Displayer, error) {
	err := machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP14,
		SCL:       machine.GP15,
	})
	if err != nil {
		return nil, err
	}
	display := ssd1306.NewI2C(machine.I2C1)
	display.Configure(ssd1306.Config{
		Width:    128,
		Height:   64,
		Address:  0x3C,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	display.ClearDisplay()
	return display, nil
}
