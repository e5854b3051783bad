//go:build !baremetal

package board

// The simulator for the BitDogLab. It shows the OLED display and the RGB LED
// in a window, and turns the keyboard and mouse into joystick and button
// input.
//
// The board API doesn't use a mainloop of any kind, which would not be
// necessary anyway on embedded systems. But it is necessary on OSes, so to work
// around this the simulator is actually run in a separate process by starting
// the current process again and communicating over pipes (stdin/stdout in the
// simulator process).

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

const runWindowCommand = "run-simulator-window"

func init() {
	if len(os.Args) >= 2 && os.Args[1] == runWindowCommand {
		// This is the simulator process.
		// Run the entire window in an init function, because that's the only
		// way to do this with the API that is exposed by the board package.
		windowMain()
		os.Exit(0)
	}
}

var (
	displayImageLock sync.Mutex
	displayImage     = image.NewRGBA(image.Rect(0, 0, 1, 1))

	ledLock  sync.Mutex
	ledColor color.RGBA
)

// Size of the RGB LED square, in window pixels.
const ledSize = 32

// The main function for the window process.
func windowMain() {
	display := &displayWidget{}
	display.Generator = func(w, h int) image.Image {
		displayImageLock.Lock()
		defer displayImageLock.Unlock()
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(img, img.Bounds(), displayImage, displayImage.Bounds(), draw.Src, nil)
		return img
	}

	// The RGB LED, drawn as a square on a gray background.
	ledWidget := canvas.NewRaster(func(w, h int) image.Image {
		ledLock.Lock()
		defer ledLock.Unlock()
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 192, G: 192, B: 192, A: 255}), image.Pt(0, 0), draw.Src)
		size := h * 3 / 4
		x := (w - size) / 2
		y := (h - size) / 2
		draw.Draw(img, image.Rect(x, y, x+size, y+size), image.NewUniform(ledColor), image.Pt(0, 0), draw.Src)
		return img
	})
	ledWidget.SetMinSize(fyne.NewSize(ledSize, ledSize))

	// Create a window.
	a := app.New()
	w := a.NewWindow("Simulator")
	w.SetPadded(false)
	w.SetFixedSize(true)
	w.SetContent(fyne.NewContainerWithLayout(layout.NewVBoxLayout(), display, ledWidget))

	// Listen for keyboard events, and translate them to simulator keys.
	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(event *fyne.KeyEvent) {
			if key := decodeFyneKey(event.Name); key != noKey {
				fmt.Printf("keydown %d\n", key)
			}
		})
		deskCanvas.SetOnKeyUp(func(event *fyne.KeyEvent) {
			if key := decodeFyneKey(event.Name); key != noKey {
				fmt.Printf("keyup %d\n", key)
			}
		})
	}

	// Listen for events from the parent process (which includes display data).
	go windowReceiveEvents(w, display, ledWidget)

	// Show the window.
	w.ShowAndRun()
}

// Goroutine that listens for commands from the parent process.
func windowReceiveEvents(w fyne.Window, display *displayWidget, ledWidget *canvas.Raster) {
	r := bufio.NewReader(os.Stdin)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			// The parent process is gone.
			os.Exit(0)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		switch cmd {
		case "display":
			var width, height, scale int
			fmt.Sscanf(line, "%s %d %d %d\n", &cmd, &width, &height, &scale)
			newImage := image.NewRGBA(image.Rect(0, 0, width, height))
			draw.Draw(newImage, newImage.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Pt(0, 0), draw.Src)

			displayImageLock.Lock()
			displayImage = newImage
			displayImageLock.Unlock()
			display.SetMinSize(fyne.NewSize(float32(width*scale), float32(height*scale)))
			display.Refresh()
		case "title":
			w.SetTitle(strings.TrimSpace(line[len("title"):]))
		case "draw":
			// Read the image data (which is a single line).
			var startX, startY, width int
			fmt.Sscanf(line, "%s %d %d %d\n", &cmd, &startX, &startY, &width)
			buf := make([]byte, width*3)
			io.ReadFull(r, buf)

			// Draw the image data to the image buffer.
			displayImageLock.Lock()
			for x := 0; x < width; x++ {
				displayImage.SetRGBA(startX+x, startY, color.RGBA{
					R: buf[x*3+0],
					G: buf[x*3+1],
					B: buf[x*3+2],
					A: 255,
				})
			}
			displayImageLock.Unlock()
			display.Refresh()
		case "rgb-led":
			var red, green, blue uint8
			fmt.Sscanf(line, "%s %d %d %d\n", &cmd, &red, &green, &blue)
			ledLock.Lock()
			ledColor = color.RGBA{
				R: gammaEncodeTable[red],
				G: gammaEncodeTable[green],
				B: gammaEncodeTable[blue],
				A: 255,
			}
			ledLock.Unlock()
			ledWidget.Refresh()
		default:
			fmt.Fprintln(os.Stderr, "unknown command:", cmd)
		}
	}
}

func decodeFyneKey(key fyne.KeyName) simKey {
	switch key {
	case fyne.KeyLeft:
		return keyLeft
	case fyne.KeyRight:
		return keyRight
	case fyne.KeyUp:
		return keyUp
	case fyne.KeyDown:
		return keyDown
	case fyne.KeyJ:
		return keyJoystick
	case fyne.KeyA:
		return keyA
	default:
		return noKey
	}
}

var _ desktop.Mouseable = (*displayWidget)(nil)
var _ fyne.Draggable = (*displayWidget)(nil)

// Wrapper for canvas.Raster that sends mouse events to the parent process,
// in display pixel coordinates.
type displayWidget struct {
	canvas.Raster
}

func (r *displayWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&r.Raster)
}

// displayPoint converts a position on the widget to a display pixel.
func (r *displayWidget) displayPoint(pos fyne.Position) (int, int) {
	size := r.Size()
	displayImageLock.Lock()
	bounds := displayImage.Bounds()
	displayImageLock.Unlock()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}
	x := int(pos.X * float32(bounds.Dx()) / size.Width)
	y := int(pos.Y * float32(bounds.Dy()) / size.Height)
	return x, y
}

func (r *displayWidget) MouseDown(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		x, y := r.displayPoint(event.Position)
		fmt.Printf("mousedown %d %d\n", x, y)
	}
}

func (r *displayWidget) MouseUp(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		fmt.Printf("mouseup\n")
	}
}

func (r *displayWidget) Dragged(event *fyne.DragEvent) {
	x, y := r.displayPoint(event.PointEvent.Position)
	fmt.Printf("mousemove %d %d\n", x, y)
}

func (r *displayWidget) DragEnd() {
	// handled in MouseUp
}

// Gamma brightness lookup table:
// https://victornpb.github.io/gamma-table-generator
// gamma = 0.45 steps = 256 range = 0-255
var gammaEncodeTable = [256]uint8{
	0, 21, 28, 34, 39, 43, 46, 50, 53, 56, 59, 61, 64, 66, 68, 70,
	72, 74, 76, 78, 80, 82, 84, 85, 87, 89, 90, 92, 93, 95, 96, 98,
	99, 101, 102, 103, 105, 106, 107, 109, 110, 111, 112, 114, 115, 116, 117, 118,
	119, 120, 122, 123, 124, 125, 126, 127, 128, 129, 130, 131, 132, 133, 134, 135,
	136, 137, 138, 139, 140, 141, 142, 143, 144, 144, 145, 146, 147, 148, 149, 150,
	151, 151, 152, 153, 154, 155, 156, 156, 157, 158, 159, 160, 160, 161, 162, 163,
	164, 164, 165, 166, 167, 167, 168, 169, 170, 170, 171, 172, 173, 173, 174, 175,
	175, 176, 177, 178, 178, 179, 180, 180, 181, 182, 182, 183, 184, 184, 185, 186,
	186, 187, 188, 188, 189, 190, 190, 191, 192, 192, 193, 194, 194, 195, 195, 196,
	197, 197, 198, 199, 199, 200, 200, 201, 202, 202, 203, 203, 204, 205, 205, 206,
	206, 207, 207, 208, 209, 209, 210, 210, 211, 212, 212, 213, 213, 214, 214, 215,
	215, 216, 217, 217, 218, 218, 219, 219, 220, 220, 221, 221, 222, 223, 223, 224,
	224, 225, 225, 226, 226, 227, 227, 228, 228, 229, 229, 230, 230, 231, 231, 232,
	232, 233, 233, 234, 234, 235, 235, 236, 236, 237, 237, 238, 238, 239, 239, 240,
	240, 241, 241, 242, 242, 243, 243, 244, 244, 245, 245, 246, 246, 247, 247, 248,
	248, 249, 249, 249, 250, 250, 251, 251, 252, 252, 253, 253, 254, 254, 255, 255,
}
