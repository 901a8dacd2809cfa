// Package image16bit provides the RGB565 pixel format used by the RA8875 display controller.
//
// The RA8875 frame buffer holds 16-bit pixels packed 5-6-5. This package provides
// the RGB565 color type, the controller's stock palette, and an image
// implementation whose memory layout matches the display write order.
package image16bit

import (
	"image"
	"image/color"
)

// RGB565 represents a color packed 5-6-5: five bits of red in the top of the
// word, six bits of green in the middle, five bits of blue at the bottom.
type RGB565 uint16

// RGB returns the 8-bit channels of the color. Each channel is widened by
// replicating its top bits into the low positions, so full-scale field values
// map back to 0xFF.
func (c RGB565) RGB() (r, g, b uint8) {
	r = uint8(c>>8) & 0xF8
	r |= r >> 5
	g = uint8(c>>3) & 0xFC
	g |= g >> 6
	b = uint8(c << 3)
	b |= b >> 5
	return r, g, b
}

// RGBA converts the RGB565 color to standard RGBA.
// It implements the color.Color interface.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	// Scale 8-bit channels (0-255) to 16-bit (0-65535).
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

// To332 reduces the color to the RGB332 byte the display stores when running
// at 8 bits per pixel. The low bits of each channel are dropped.
func (c RGB565) To332() uint8 {
	return uint8(c>>8)&0xE0 | uint8(c>>6)&0x1C | uint8(c>>3)&0x03
}

// From332 expands an RGB332 byte read back from a display running at 8 bits
// per pixel. Channel bits are replicated downward so full-scale field values
// map back to full scale.
func From332(c uint8) RGB565 {
	v := RGB565(c)
	return (v&0xE0)<<8 | (v&0xC0)<<5 | (v&0x1C)<<6 | (v&0x1C)<<3 |
		(v&0x03)<<3 | (v&0x03)<<1 | (v&0x03)>>1
}

// FromRGB packs 8-bit channels into an RGB565 color, dropping the low bits
// of each channel.
func FromRGB(r, g, b uint8) RGB565 {
	return RGB565(r&0xF8)<<8 | RGB565(g&0xFC)<<3 | RGB565(b)>>3
}

// toRGB565 converts any color.Color to RGB565.
func toRGB565(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit values, take the top byte of each channel.
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB565Model converts colors to RGB565.
var RGB565Model = color.ModelFunc(toRGB565)

// The controller's stock palette.
var (
	Black       = FromRGB(0, 0, 0)
	Blue        = FromRGB(0, 0, 187)
	Green       = FromRGB(0, 187, 0)
	Cyan        = FromRGB(0, 187, 187)
	Red         = FromRGB(187, 0, 0)
	Magenta     = FromRGB(187, 0, 187)
	Brown       = FromRGB(63, 63, 0)
	Gray        = FromRGB(187, 187, 187)
	Charcoal    = FromRGB(85, 85, 85)
	BrightBlue  = FromRGB(0, 0, 255)
	BrightGreen = FromRGB(0, 255, 0)
	BrightCyan  = FromRGB(0, 255, 255)
	BrightRed   = FromRGB(255, 0, 0)
	Orange      = FromRGB(255, 85, 85)
	Pink        = FromRGB(255, 85, 255)
	Yellow      = FromRGB(187, 187, 0)
	White       = FromRGB(255, 255, 255)
	DarkBlue    = FromRGB(0, 0, 63)
	DarkGreen   = FromRGB(0, 63, 0)
	DarkCyan    = FromRGB(0, 63, 63)
	DarkRed     = FromRGB(63, 0, 0)
	DarkMagenta = FromRGB(63, 0, 63)
	DarkBrown   = FromRGB(63, 63, 0)
	DarkGray    = FromRGB(63, 63, 63)
)

// Image is an in-memory RGB565 image whose pixel bytes are laid out the way
// the display RAM is written: two bytes per pixel, high byte first.
type Image struct {
	Pix    []byte          // Pixel data (2 bytes per pixel, high byte first)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates a new RGB565 image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}

	stride := 2 * w
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return RGB565Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the RGB565 color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	offset := p.pixOffset(x, y)
	return RGB565(p.Pix[offset])<<8 | RGB565(p.Pix[offset+1])
}

// Set sets the color of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	px := RGB565Model.Convert(c).(RGB565)
	offset := p.pixOffset(x, y)
	p.Pix[offset] = uint8(px >> 8)
	p.Pix[offset+1] = uint8(px)
}

// SetRGB565 sets the RGB565 color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset := p.pixOffset(x, y)
	p.Pix[offset] = uint8(c >> 8)
	p.Pix[offset+1] = uint8(c)
}

// pixOffset returns the byte offset of the pixel at (x, y).
func (p *Image) pixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
