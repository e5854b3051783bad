package render

import (
	"strconv"

	"github.com/bitdoglab/joystick/hal"
	"github.com/bitdoglab/joystick/interaction"
)

// MarkerSize is the width and height of the square that follows the stick.
const MarkerSize = 8

// Status text layout.
const (
	textX      = 4
	textY      = 4
	lineHeight = 8
)

// Inset of the second frame of a double border.
const borderInset = 2

// Point is a position on the display.
type Point struct {
	X, Y int16
}

// Frame is everything shown on one display refresh.
type Frame struct {
	// Conditioned axis values, 0..hal.ADCMax.
	X, Y       uint16
	Border     interaction.BorderStyle
	PWMEnabled bool
}

// Composer turns a Frame into drawing commands for a canvas of a fixed
// size.
type Composer struct {
	canvas Canvas
	width  int16
	height int16
	buf    []byte
}

// NewComposer returns a composer for a canvas of the given size. The size
// must be at least MarkerSize in both directions.
func NewComposer(canvas Canvas, width, height int16) *Composer {
	return &Composer{
		canvas: canvas,
		width:  width,
		height: height,
		// Reused for every text line, so drawing doesn't build garbage.
		buf: make([]byte, 0, 16),
	}
}

// Position returns the top left corner of the marker for the given axis
// values. The vertical axis is inverted: pushing the stick up moves the
// marker towards the top of the screen.
func (c *Composer) Position(x, y uint16) Point {
	return Point{
		X: scale(x, c.width-MarkerSize),
		Y: scale(hal.ADCMax-min(y, hal.ADCMax), c.height-MarkerSize),
	}
}

// scale maps v in 0..ADCMax onto 0..span, rounding down.
func scale(v uint16, span int16) int16 {
	if v > hal.ADCMax {
		v = hal.ADCMax
	}
	return int16(int32(v) * int32(span) / hal.ADCMax)
}

// Draw redraws the whole display: border, marker and status text.
func (c *Composer) Draw(f Frame) error {
	c.canvas.Clear()

	c.canvas.DrawRectOutline(0, 0, c.width, c.height)
	if f.Border == interaction.BorderDouble {
		c.canvas.DrawRectOutline(borderInset, borderInset, c.width-2*borderInset, c.height-2*borderInset)
	}

	pos := c.Position(f.X, f.Y)
	c.canvas.DrawFilledRect(pos.X, pos.Y, MarkerSize, MarkerSize)

	c.buf = strconv.AppendUint(append(c.buf[:0], "X: "...), uint64(f.X), 10)
	c.canvas.DrawText(textX, textY, string(c.buf))
	c.buf = strconv.AppendUint(append(c.buf[:0], "Y: "...), uint64(f.Y), 10)
	c.canvas.DrawText(textX, textY+lineHeight, string(c.buf))
	c.buf = append(c.buf[:0], "PWM: "...)
	if f.PWMEnabled {
		c.buf = append(c.buf, "ON"...)
	} else {
		c.buf = append(c.buf, "OFF"...)
	}
	c.canvas.DrawText(textX, textY+2*lineHeight, string(c.buf))

	return c.canvas.Flush()
}
