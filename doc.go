// Package ra8875 controls a RA8875 display controller via SPI.
//
// The RA8875 is a 16-bit color TFT controller with built-in drawing
// acceleration and a resistive touch panel interface, supporting panels up
// to 800×480 pixels. This driver implements the display.Drawer interface
// from periph.io.
//
// # Display Characteristics
//
// - 16-bit RGB565 color, with an optional 8-bit RGB332 mode
// - 480×272 and 800×480 panel geometries
// - Hardware acceleration for lines, rectangles, circles, ellipses,
// rounded rectangles and triangles
// - Block move engine (BTE) for on-screen copies
// - Two drawing layers with transparency and boolean mixing
// - 4-wire resistive touch controller with interrupt support
// - PWM backlight control
//
// # Hardware Connection
//
// Connect the RA8875 board to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V (or 5V depending on board)
//	SCK         → SPI Clock (SCLK)
//	MOSI        → SPI Data Out (MOSI)
//	MISO        → SPI Data In (MISO)
//	CS          → SPI Chip Select
//	RST         → Optional: GPIO for hardware reset
//	INT         → Optional: GPIO for touch interrupt
//
// Unlike many SPI displays the RA8875 needs no Data/Command pin: every SPI
// transfer starts with a header byte that selects a command or data cycle.
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/ra8875"
//		"periph.io/x/devices/v3/ra8875/image16bit"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiPort, _ := spireg.Open("")
//
//		// Create device
//		dev, _ := ra8875.NewSPI(spiPort, &ra8875.Opts{
//			W: 480,
//			H: 272,
//		})
//		defer dev.Halt()
//
//		// Draw with the acceleration engine
//		dev.FillRect(dev.Bounds(), image16bit.Black)
//		dev.FillCircle(image.Pt(240, 136), 50, image16bit.BrightRed)
//		dev.DrawLine(image.Pt(0, 0), image.Pt(479, 271), image16bit.White)
//
//		// Or render a Go image
//		img := image16bit.NewImage(dev.Bounds())
//		for y := 0; y < 272; y++ {
//			for x := 0; x < 480; x++ {
//				img.SetRGB565(x, y, image16bit.FromRGB(uint8(x/2), uint8(y), 128))
//			}
//		}
//		dev.Draw(dev.Bounds(), img, image.Point{})
//	}
//
// # Using Hardware Reset and Interrupt Pins (Optional)
//
// If the board's RST and INT pins are wired to GPIOs, provide them in the
// Opts struct:
//
//	rstPin := gpioreg.ByName("GPIO25")
//	intPin := gpioreg.ByName("GPIO24")
//
//	dev, _ := ra8875.NewSPI(spiPort, &ra8875.Opts{
//		W:   480,
//		H:   272,
//		RST: rstPin, // Optional reset pin
//		INT: intPin, // Optional touch interrupt pin
//	})
//
// With RST set the driver performs a hardware reset pulse during
// initialization instead of the software reset command. With INT set,
// WaitTouch sleeps on pin edges instead of polling.
//
// # Drawing
//
// All primitives are executed by the chip's drawing engine. The driver
// writes the shape parameters, starts the engine and polls until it
// finishes:
//
//	dev.DrawRect(image.Rect(10, 10, 100, 60), image16bit.Yellow)
//	dev.FillRoundRect(image.Rect(120, 10, 220, 60), 8, 8, image16bit.DarkCyan)
//	dev.DrawTriangle(image.Pt(240, 10), image.Pt(300, 60), image.Pt(240, 60), image16bit.Pink)
//
// Long waits can be interrupted through an idle callback, see SetIdleFunc.
//
// Pixel-level access goes through a windowed cursor that wraps at the
// window edges:
//
//	dev.SetWindow(image.Rect(100, 100, 200, 200))
//	dev.PutPixel(image16bit.White) // advances the cursor
//
// # Images
//
// BMP files (1, 4, 8, 16 and 24 bits per pixel), ICO files and JPEG files
// can be decoded and blitted straight to the screen:
//
//	f, _ := os.Open("logo.bmp")
//	defer f.Close()
//	dev.RenderBMP(10, 10, f)
//
// PrintScreen captures a region of the frame buffer back into a 24-bit BMP:
//
//	out, _ := os.Create("shot.bmp")
//	defer out.Close()
//	dev.PrintScreen(image.Rect(0, 0, 480, 272), out)
//
// # Touch
//
// The resistive touch controller reports raw 10-bit samples. The driver
// median-filters them and tracks a press/hold/release state machine:
//
//	dev.TouchInit(nil)
//	for {
//		p, code, _ := dev.TouchFiltered()
//		if code == ra8875.Touch || code == ra8875.Held {
//			fmt.Println("touch at", p)
//		}
//	}
//
// Raw samples are mapped to screen coordinates with a three-point
// calibration:
//
//	cal, _ := dev.Calibrate(30 * time.Second) // interactive, draws crosshairs
//	dev.SetCalibration(&cal)                  // or restore a saved matrix
//	p, code, _ := dev.Touch()
//
// # Layers
//
// At 480×272 the frame buffer holds two full layers. Draw on either one
// and mix them:
//
//	dev.SelectLayer(1)
//	dev.FillRect(dev.Bounds(), image16bit.DarkBlue)
//	dev.SetLayerMode(ra8875.TransparentMode)
//	dev.SetLayerTransparency(4, 4)
//
// At 800×480×16bpp the frame buffer only holds one layer and layer
// operations act on layer 0.
//
// # Display Resolution
//
// This driver supports the two stock panel timings:
//
//	Opts{W: 480, H: 272} // 4.3" panels
//	Opts{W: 800, H: 480} // 5" and 7" panels
//
// # Datasheet
//
// For detailed register descriptions and timing information, see:
// https://www.raio.com.tw/data_raio/Datasheet/RA88/RA8875.pdf
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// It can be used with any periph.io tool or library expecting a
// display.Drawer.
package ra8875
