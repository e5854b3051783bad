// Package render draws the joystick position and the interaction state on
// a small monochrome display.
package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Canvas is the set of drawing primitives the composer needs. Coordinates
// are in pixels with the origin in the top left corner.
type Canvas interface {
	Clear()
	DrawRectOutline(x, y, w, h int16)
	DrawFilledRect(x, y, w, h int16)
	// DrawText draws a single line of text with its top left corner at x, y.
	DrawText(x, y int16, s string)
	// Flush sends the frame to the display.
	Flush() error
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// Distance from the top of a text line to the font baseline.
const textBaseline = 7

// DisplayCanvas draws on a TinyGo display driver, like the SSD1306.
type DisplayCanvas struct {
	display drivers.Displayer
	font    tinyfont.Fonter
	err     error
}

// NewDisplayCanvas returns a canvas that draws white on black on the given
// display.
func NewDisplayCanvas(display drivers.Displayer) *DisplayCanvas {
	return &DisplayCanvas{
		display: display,
		font:    &proggy.TinySZ8pt7b,
	}
}

// Size returns the display size in pixels.
func (c *DisplayCanvas) Size() (width, height int16) {
	return c.display.Size()
}

func (c *DisplayCanvas) Clear() {
	// Framebuffered displays can clear their buffer in one go.
	if buffered, ok := c.display.(interface{ ClearBuffer() }); ok {
		buffered.ClearBuffer()
		return
	}
	w, h := c.display.Size()
	c.check(tinydraw.FilledRectangle(c.display, 0, 0, w, h, black))
}

func (c *DisplayCanvas) DrawRectOutline(x, y, w, h int16) {
	c.check(tinydraw.Rectangle(c.display, x, y, w, h, white))
}

func (c *DisplayCanvas) DrawFilledRect(x, y, w, h int16) {
	c.check(tinydraw.FilledRectangle(c.display, x, y, w, h, white))
}

func (c *DisplayCanvas) DrawText(x, y int16, s string) {
	tinyfont.WriteLine(c.display, c.font, x, y+textBaseline, s, white)
}

// Flush sends the frame to the display. It also reports the first drawing
// error since the previous flush, if any.
func (c *DisplayCanvas) Flush() error {
	err := c.err
	c.err = nil
	if displayErr := c.display.Display(); err == nil {
		err = displayErr
	}
	return err
}

func (c *DisplayCanvas) check(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}
