// Package image16bit provides a 16-bit RGB565 color format for the RA8875 display controller.
//
// The RA8875 frame buffer stores each pixel as 16 bits packed 5-6-5:
// five bits of red, six bits of green and five bits of blue.
//
// Bit layout of a pixel:
//
//	RRRRRGGG GGGBBBBB
//	fedcba98 76543210
//
// This package provides:
//
// - RGB565: A color type holding a packed 5-6-5 pixel value
// - RGB565Model: A color model for converting standard Go colors to RGB565
// - Image: An image.Image implementation storing pixels in display byte order
//
// It also carries the controller's stock palette (Black through DarkGray)
// and conversions to and from the RGB332 byte format used when the display
// runs at 8 bits per pixel.
//
// Example usage:
//
//	// Create a 480x272 image
//	img := image16bit.NewImage(image.Rect(0, 0, 480, 272))
//
//	// Set a pixel
//	img.SetRGB565(10, 20, image16bit.BrightRed)
//
//	// Get a pixel
//	px := img.RGB565At(10, 20)
//	r, g, b := px.RGB()
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image16bit.White), image.Point{}, draw.Src)
package image16bit
