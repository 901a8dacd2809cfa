package ra8875

import (
	"encoding/binary"
	"image"
	"io"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// PrintScreen captures the region r of the framebuffer into w as an
// uncompressed 24bpp BMP. The capture follows the layer mode the same
// way the panel mixes: a single-layer mode reads that layer, the
// boolean modes combine both layers per channel, every other mode
// reads layer 0. The drawing layer selected before the call is
// restored on return.
func (d *Dev) PrintScreen(r image.Rectangle, w io.Writer) error {
	r = r.Canon()
	if r.Empty() || !r.In(d.Bounds()) {
		return ErrInvalidParam
	}
	width, height := r.Dx(), r.Dy()
	stride := (3*width + 3) &^ 3

	var hdr [54]byte
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[2:6], uint32(54+stride*height))
	binary.LittleEndian.PutUint32(hdr[10:14], 54)
	binary.LittleEndian.PutUint32(hdr[14:18], 40)
	binary.LittleEndian.PutUint32(hdr[18:22], uint32(width))
	binary.LittleEndian.PutUint32(hdr[22:26], uint32(height))
	binary.LittleEndian.PutUint16(hdr[26:28], 1)
	binary.LittleEndian.PutUint16(hdr[28:30], 24)
	binary.LittleEndian.PutUint32(hdr[34:38], uint32(stride*height))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	mode := d.layerMode
	row0 := make([]image16bit.RGB565, width)
	row1 := make([]image16bit.RGB565, width)
	line := make([]byte, stride)
	return d.withLayer(func() error {
		switch mode {
		case ShowLayer0:
			if err := d.SelectLayer(0); err != nil {
				return err
			}
		case ShowLayer1:
			if err := d.SelectLayer(1); err != nil {
				return err
			}
		}
		// Rows are stored bottom up, so read the display from the last
		// line toward the top and write the file in one pass.
		for j := height - 1; j >= 0; j-- {
			if mode >= LightenOverlay {
				if err := d.SelectLayer(0); err != nil {
					return err
				}
			}
			if err := d.readPixels(row0, r.Min.X, r.Min.Y+j); err != nil {
				return err
			}
			if mode >= LightenOverlay {
				if err := d.SelectLayer(1); err != nil {
					return err
				}
				if err := d.readPixels(row1, r.Min.X, r.Min.Y+j); err != nil {
					return err
				}
			}
			for i := 0; i < width; i++ {
				r0, g0, b0 := row0[i].RGB()
				switch mode {
				case TransparentMode, BooleanOR:
					r1, g1, b1 := row1[i].RGB()
					r0, g0, b0 = r0|r1, g0|g1, b0|b1
				case BooleanAND:
					r1, g1, b1 := row1[i].RGB()
					r0, g0, b0 = r0&r1, g0&g1, b0&b1
				}
				line[3*i] = b0
				line[3*i+1] = g0
				line[3*i+2] = r0
			}
			if _, err := w.Write(line); err != nil {
				return err
			}
		}
		return nil
	})
}
