package ra8875

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// Bounds returns the full screen rectangle. It implements
// display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// ColorModel returns the device color model. It implements
// display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image16bit.RGB565Model
}

// SetWindow programs the active window and homes the streaming cursor
// to its top-left corner. The window bounds every streamed write: the
// cursor wraps to the next row at the right edge and back to the top
// row at the bottom edge. r is normalized but not validated against
// the screen; windows are under caller control.
func (d *Dev) SetWindow(r image.Rectangle) error {
	r = r.Canon()
	d.window = r
	d.curX, d.curY = r.Min.X, r.Min.Y
	if err := d.writeReg16(regHSAW0, uint16(r.Min.X)); err != nil {
		return err
	}
	if err := d.writeReg16(regVSAW0, uint16(r.Min.Y)); err != nil {
		return err
	}
	if err := d.writeReg16(regHEAW0, uint16(r.Max.X-1)); err != nil {
		return err
	}
	return d.writeReg16(regVEAW0, uint16(r.Max.Y-1))
}

// WindowMax opens the active window to the full screen.
func (d *Dev) WindowMax() error {
	return d.SetWindow(d.Bounds())
}

// Window returns the active window.
func (d *Dev) Window() image.Rectangle {
	return d.window
}

// PutPixel writes one pixel at the streaming cursor and advances it
// with wraparound: the k-th pixel of a burst started at the window
// origin of a w by h window lands at (x + k%w, y + (k/w)%h).
func (d *Dev) PutPixel(c color.Color) error {
	px := image16bit.RGB565Model.Convert(c).(image16bit.RGB565)
	if err := d.pixel(d.curX, d.curY, px); err != nil {
		return err
	}
	d.curX++
	if d.curX >= d.window.Max.X {
		d.curX = d.window.Min.X
		d.curY++
		if d.curY >= d.window.Max.Y {
			d.curY = d.window.Min.Y
		}
	}
	return nil
}

// Pixel writes a single pixel at x, y. The streaming cursor is not
// affected.
func (d *Dev) Pixel(x, y int, c color.Color) error {
	px := image16bit.RGB565Model.Convert(c).(image16bit.RGB565)
	return d.pixel(x, y, px)
}

func (d *Dev) pixel(x, y int, px image16bit.RGB565) error {
	var buf [1]image16bit.RGB565
	buf[0] = px
	return d.streamPixels(buf[:], x, y)
}

// PixelAt reads back the pixel at x, y.
func (d *Dev) PixelAt(x, y int) (image16bit.RGB565, error) {
	if err := d.b.WriteReg(regMWCR0, mwcr0GraphicsMode); err != nil {
		return 0, err
	}
	if err := d.setReadCursor(x, y); err != nil {
		return 0, err
	}
	// One latency byte precedes the data on single reads.
	var buf [3]byte
	n := 2
	if d.bpp == 16 {
		n = 3
	}
	if err := d.b.ReadRAM(buf[:n]); err != nil {
		return 0, err
	}
	if d.bpp == 16 {
		// Reads come back low byte first, unlike writes.
		return image16bit.RGB565(uint16(buf[2])<<8 | uint16(buf[1])), nil
	}
	return image16bit.From332(buf[1]), nil
}

// streamPixels positions the write cursor at x, y and bursts pix
// row-major. This is the one spot where the device depth matters:
// 16bpp pixels go out high byte first, 8bpp pixels are down-converted
// to RGB332 here.
func (d *Dev) streamPixels(pix []image16bit.RGB565, x, y int) error {
	if err := d.b.WriteReg(regMWCR0, mwcr0GraphicsMode); err != nil {
		return err
	}
	if err := d.setWriteCursor(x, y); err != nil {
		return err
	}
	var wire []byte
	if d.bpp == 16 {
		wire = d.scratch(len(pix) * 2)
		for i, p := range pix {
			wire[2*i] = byte(p >> 8)
			wire[2*i+1] = byte(p)
		}
	} else {
		wire = d.scratch(len(pix))
		for i, p := range pix {
			wire[i] = p.To332()
		}
	}
	return d.b.WriteRAM(wire)
}

// readPixels fills pix with pixels starting at x, y. Streamed reads
// carry two latency bytes in 16bpp mode, one in 8bpp mode.
func (d *Dev) readPixels(pix []image16bit.RGB565, x, y int) error {
	if err := d.b.WriteReg(regMWCR0, mwcr0GraphicsMode); err != nil {
		return err
	}
	if err := d.setReadCursor(x, y); err != nil {
		return err
	}
	skip := 1
	if d.bpp == 16 {
		skip = 2
	}
	var buf []byte
	if d.bpp == 16 {
		buf = d.scratch(skip + len(pix)*2)
	} else {
		buf = d.scratch(skip + len(pix))
	}
	if err := d.b.ReadRAM(buf); err != nil {
		return err
	}
	data := buf[skip:]
	for i := range pix {
		if d.bpp == 16 {
			pix[i] = image16bit.RGB565(uint16(data[2*i+1])<<8 | uint16(data[2*i]))
		} else {
			pix[i] = image16bit.From332(data[i])
		}
	}
	return nil
}

func (d *Dev) setWriteCursor(x, y int) error {
	if err := d.writeReg16(regCURH0, uint16(x)); err != nil {
		return err
	}
	return d.writeReg16(regCURV0, uint16(y))
}

func (d *Dev) setReadCursor(x, y int) error {
	if err := d.writeReg16(regRCURH0, uint16(x)); err != nil {
		return err
	}
	return d.writeReg16(regRCURV0, uint16(y))
}

// Clear fills the whole screen on the current drawing layer with the
// background color.
func (d *Dev) Clear() error {
	return d.clear(false)
}

// ClearWindow clears only the active window on the current drawing
// layer.
func (d *Dev) ClearWindow() error {
	return d.clear(true)
}

// clear starts the memory-clear engine and waits on its self-clearing
// start bit.
func (d *Dev) clear(activeOnly bool) error {
	v := byte(mclrStart)
	if activeOnly {
		v |= mclrActiveWindow
	}
	if err := d.b.WriteReg(regMCLR, v); err != nil {
		return err
	}
	return d.waitReg(regMCLR, mclrStart)
}

// ClearAll clears the selected layers, restoring the previously active
// drawing layer on the way out even when a clear fails partway.
func (d *Dev) ClearAll(layer0, layer1 bool) error {
	if !layer0 && !layer1 {
		return nil
	}
	return d.withLayer(func() error {
		if layer0 {
			if err := d.SelectLayer(0); err != nil {
				return err
			}
			if err := d.Clear(); err != nil {
				return err
			}
		}
		if layer1 {
			if err := d.SelectLayer(1); err != nil {
				return err
			}
			if err := d.Clear(); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetForeground sets the color used by the drawing engines.
func (d *Dev) SetForeground(c color.Color) error {
	d.fg = image16bit.RGB565Model.Convert(c).(image16bit.RGB565)
	return d.writeColorTrio(regFGCR0, d.fg)
}

// SetBackground sets the color used by the clear engine and as the
// transparency key source.
func (d *Dev) SetBackground(c color.Color) error {
	d.bg = image16bit.RGB565Model.Convert(c).(image16bit.RGB565)
	return d.writeColorTrio(regBGCR0, d.bg)
}

// writeColorTrio splits a color across a red/green/blue register trio,
// 5/6/5 wide at 16bpp and 3/3/2 wide at 8bpp.
func (d *Dev) writeColorTrio(base byte, c image16bit.RGB565) error {
	var r, g, b byte
	if d.bpp == 16 {
		r = byte(c>>11) & 0x1F
		g = byte(c>>5) & 0x3F
		b = byte(c) & 0x1F
	} else {
		r = byte(c>>13) & 0x07
		g = byte(c>>8) & 0x07
		b = byte(c>>3) & 0x03
	}
	if err := d.b.WriteReg(base, r); err != nil {
		return err
	}
	if err := d.b.WriteReg(base+1, g); err != nil {
		return err
	}
	return d.b.WriteReg(base+2, b)
}

// Draw updates the rectangle r of the display from src, converting
// pixels through the device color model. It implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	prev := d.window
	if err := d.SetWindow(r); err != nil {
		return err
	}
	err := d.drawRows(r, src, sp)
	if rerr := d.SetWindow(prev); err == nil {
		err = rerr
	}
	return err
}

func (d *Dev) drawRows(r image.Rectangle, src image.Image, sp image.Point) error {
	w := r.Dx()
	row := make([]image16bit.RGB565, w)
	native, _ := src.(*image16bit.Image)
	for y := 0; y < r.Dy(); y++ {
		if native != nil {
			for x := 0; x < w; x++ {
				row[x] = native.RGB565At(sp.X+x, sp.Y+y)
			}
		} else {
			for x := 0; x < w; x++ {
				row[x] = image16bit.RGB565Model.Convert(src.At(sp.X+x, sp.Y+y)).(image16bit.RGB565)
			}
		}
		if err := d.streamPixels(row, r.Min.X, r.Min.Y+y); err != nil {
			return err
		}
	}
	return nil
}

// Blit streams pix row-major into r through the window cursor, one
// pixel at a time, and restores the previous window afterward. Draw is
// the fast path; Blit exists for callers that already hold device
// colors.
func (d *Dev) Blit(r image.Rectangle, pix []image16bit.RGB565) error {
	r = r.Canon()
	if r.Empty() || len(pix) < r.Dx()*r.Dy() {
		return ErrInvalidParam
	}
	prev := d.window
	if err := d.SetWindow(r); err != nil {
		return err
	}
	var err error
	for _, p := range pix[:r.Dx()*r.Dy()] {
		if err = d.PutPixel(p); err != nil {
			break
		}
	}
	if rerr := d.SetWindow(prev); err == nil {
		err = rerr
	}
	return err
}
