//go:build !baremetal

package board

// The simulator exists for testing locally without running on real
// hardware. This avoids potentially long edit-flash-test cycles.

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitdoglab/joystick/hal"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"
)

const (
	// The board name. This is the special name "simulator" for the
	// simulator.
	Name = "simulator"
)

// List of all devices.
//
// All boards have the following peripherals defined.
var (
	Joystick = &simulatedJoystick{}
	Buttons  = &simulatedButtons{}
	LEDs     = &simulatedLEDs{}
	Display  = mainDisplay{}
	Serial   = os.Stderr
)

// Keys understood by the window process, sent as numbers over the pipe.
type simKey uint8

const (
	noKey simKey = iota
	keyLeft
	keyRight
	keyUp
	keyDown
	keyJoystick // J
	keyA
)

type simulatedJoystick struct {
	// Stick position set from window events, before bias and noise.
	x atomic.Uint32
	y atomic.Uint32
}

func (j *simulatedJoystick) Configure() {
	startWindow()
	j.set(hal.ADCCenter, hal.ADCCenter)
}

func (j *simulatedJoystick) set(x, y uint16) {
	j.x.Store(uint32(x))
	j.y.Store(uint32(y))
}

// ReadAxis returns the position of one axis in [0, hal.ADCMax], including
// the rest bias and some random noise, like a real analog joystick.
func (j *simulatedJoystick) ReadAxis(axis hal.Axis) uint16 {
	v := int(j.x.Load()) + Simulator.JoystickRestBiasX
	if axis == hal.AxisY {
		v = int(j.y.Load()) + Simulator.JoystickRestBiasY
	}
	if n := Simulator.JoystickNoise; n > 0 {
		v += rand.Intn(2*n+1) - n
	}
	return clampADC(v)
}

type simulatedButtons struct {
	lock     sync.Mutex
	handlers [2]func()
}

func (b *simulatedButtons) Configure() {
	startWindow()
}

// SetInterrupt calls handler on every press of the button. The handler runs
// on the window event goroutine, concurrently with the rest of the program.
func (b *simulatedButtons) SetInterrupt(btn hal.Button, handler func()) error {
	if int(btn) >= len(b.handlers) {
		return errUnknownButton
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	b.handlers[btn] = handler
	return nil
}

// press delivers a falling edge, followed by the configured amount of
// contact bounce.
func (b *simulatedButtons) press(btn hal.Button) {
	b.lock.Lock()
	handler := b.handlers[btn]
	b.lock.Unlock()
	if handler == nil {
		return
	}
	handler()
	for i := 0; i < Simulator.ButtonBounce; i++ {
		time.Sleep(Simulator.ButtonBounceInterval)
		handler()
	}
}

type simulatedLEDs struct {
	lock sync.Mutex
	rgb  [3]uint8 // indexed by hal.LED
}

// Configure shows the RGB LED in the window, switched off.
func (l *simulatedLEDs) Configure() error {
	startWindow()
	l.lock.Lock()
	defer l.lock.Unlock()
	l.rgb = [3]uint8{}
	l.update()
	return nil
}

func (l *simulatedLEDs) SetLevel(led hal.LED, on bool) {
	level := uint32(0)
	if on {
		level = hal.MaxDutyCycle
	}
	l.SetDutyCycle(led, level)
}

func (l *simulatedLEDs) SetDutyCycle(led hal.LED, level uint32) {
	if int(led) >= len(l.rgb) {
		return
	}
	value := uint8(dutyFromLevel(level, 255))
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.rgb[led] == value {
		return
	}
	l.rgb[led] = value
	l.update()
}

// update sends the current color to the window. The lock must be held.
func (l *simulatedLEDs) update() {
	r, g, b := l.rgb[hal.LEDRed], l.rgb[hal.LEDGreen], l.rgb[hal.LEDBlue]
	windowSendCommand(fmt.Sprintf("rgb-led %d %d %d", r, g, b), nil)
}

type mainDisplay struct{}

// Configure returns a new display ready to draw on.
func (d mainDisplay) Configure() (drivers.Displayer, error) {
	if Simulator.DisplayWidth < 1 || Simulator.DisplayHeight < 1 || Simulator.WindowScale < 1 {
		return nil, errors.New("board: invalid simulator display size")
	}
	startWindow()
	screen := &fyneScreen{
		width:  int16(Simulator.DisplayWidth),
		height: int16(Simulator.DisplayHeight),
		buf:    pixel.NewImage[pixel.RGB888](Simulator.DisplayWidth, Simulator.DisplayHeight),
		line:   make([]byte, Simulator.DisplayWidth*3),
	}
	windowSendCommand(fmt.Sprintf("display %d %d %d", screen.width, screen.height, Simulator.WindowScale), nil)
	return screen, nil
}

// fyneScreen is a framebuffered display, like the SSD1306. Nothing is shown
// until Display is called.
type fyneScreen struct {
	width  int16
	height int16
	buf    pixel.Image[pixel.RGB888]
	line   []byte
}

func (s *fyneScreen) Size() (width, height int16) {
	return s.width, s.height
}

func (s *fyneScreen) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	s.buf.Set(int(x), int(y), pixel.RGB888{R: c.R, G: c.G, B: c.B})
}

// ClearBuffer sets every pixel in the buffer to black.
func (s *fyneScreen) ClearBuffer() {
	for y := 0; y < int(s.height); y++ {
		for x := 0; x < int(s.width); x++ {
			s.buf.Set(x, y, pixel.RGB888{})
		}
	}
}

// Display sends the buffer to the window, one line at a time.
func (s *fyneScreen) Display() error {
	for y := 0; y < int(s.height); y++ {
		for x := 0; x < int(s.width); x++ {
			c := s.buf.Get(x, y)
			s.line[x*3+0] = c.R
			s.line[x*3+1] = c.G
			s.line[x*3+2] = c.B
		}
		windowSendCommand(fmt.Sprintf("draw 0 %d %d", y, s.width), s.line)
	}
	return nil
}

var (
	fyneStart    sync.Once
	windowLock   sync.Mutex
	windowStdin  io.WriteCloser
	windowStdout io.ReadCloser
)

// Ensure the window is running in a separate process, starting it if necessary.
func startWindow() {
	windowRunning := make(chan struct{})
	fyneStart.Do(func() {
		// Start the separate process that manages the window.
		go func() {
			cmd := exec.Command(os.Args[0], runWindowCommand)
			cmd.Stderr = os.Stderr
			windowStdin, _ = cmd.StdinPipe()
			windowStdout, _ = cmd.StdoutPipe()
			err := cmd.Start()
			if err != nil {
				fmt.Fprintln(os.Stderr, "could not start window process:", err)
				os.Exit(1)
			}
			close(windowRunning)
			err = cmd.Wait()
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					os.Exit(exitErr.ExitCode())
				}
				os.Exit(1)
			}
			// The window was closed, so exit.
			os.Exit(0)
		}()
		<-windowRunning

		// Listen for events (keyboard/mouse).
		go windowListenEvents()

		windowSendCommand("title "+Simulator.WindowTitle, nil)
	})
}

// Send a command to the separate process that manages the window.
// The command is a single line (without newline). The data part is optional
// binary data that can be sent with the command. The size of this binary data
// must be part of the textual command.
func windowSendCommand(command string, data []byte) {
	windowLock.Lock()
	defer windowLock.Unlock()

	windowStdin.Write([]byte(command + "\n"))
	windowStdin.Write(data)
}

// stickInput turns held arrow keys and mouse drags into a stick position.
// It is only used from the event goroutine.
type stickInput struct {
	held     [keyDown + 1]bool
	dragging bool
}

func (s *stickInput) position() (x, y uint16) {
	x, y = hal.ADCCenter, hal.ADCCenter
	if s.held[keyLeft] {
		x = 0
	}
	if s.held[keyRight] {
		x = hal.ADCMax
	}
	if s.held[keyDown] {
		y = 0
	}
	if s.held[keyUp] {
		y = hal.ADCMax
	}
	return x, y
}

// Goroutine that listens for window events like key presses and mouse
// drags. Button handlers run here.
func windowListenEvents() {
	var stick stickInput
	r := bufio.NewReader(windowStdout)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "failed to read I/O events from child process:", err)
			}
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		switch cmd {
		case "keydown", "keyup":
			var key simKey
			fmt.Sscanf(line, "%s %d", &cmd, &key)
			pressed := cmd == "keydown"
			switch key {
			case keyJoystick:
				if pressed {
					Buttons.press(hal.ButtonJoystick)
				}
			case keyA:
				if pressed {
					Buttons.press(hal.ButtonA)
				}
			case keyLeft, keyRight, keyUp, keyDown:
				stick.held[key] = pressed
				if !stick.dragging {
					Joystick.set(stick.position())
				}
			}
		case "mousedown", "mousemove":
			// Position in display pixels.
			var x, y int
			fmt.Sscanf(line, "%s %d %d", &cmd, &x, &y)
			stick.dragging = true
			Joystick.set(stickFromPoint(x, y, Simulator.DisplayWidth, Simulator.DisplayHeight))
		case "mouseup":
			// The stick springs back.
			stick.dragging = false
			Joystick.set(stick.position())
		default:
			fmt.Fprintln(os.Stderr, "unknown command:", cmd)
		}
	}
}
