package ra8875

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// RenderImageFile draws the image in the named file with its top-left
// corner at x, y. The format is picked by extension, case-insensitive:
// .bmp, .ico, .jpg and .jpeg are understood, anything else is
// ErrUnsupported. The image must fit the screen; nothing is clipped.
func (d *Dev) RenderImageFile(x, y int, path string) error {
	var render func(io.ReadSeeker) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		render = func(rs io.ReadSeeker) error { return d.RenderBMP(x, y, rs) }
	case ".ico":
		render = func(rs io.ReadSeeker) error { return d.RenderICO(x, y, rs) }
	case ".jpg", ".jpeg":
		render = func(rs io.ReadSeeker) error { return d.RenderJPEG(x, y, rs) }
	default:
		return ErrUnsupported
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ra8875: %w", err)
	}
	defer f.Close()
	return render(f)
}

// RenderBMP draws the BMP stream at rs with its top-left corner at
// x, y. Offsets in the stream are resolved against the position of rs
// on entry, so a BMP embedded in a larger file works as long as rs is
// positioned at its first byte.
func (d *Dev) RenderBMP(x, y int, rs io.ReadSeeker) error {
	base, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	var hdr [14]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrNotBMP
		}
		return err
	}
	if hdr[0] != 'B' || hdr[1] != 'M' {
		return ErrNotBMP
	}
	pixOffset := binary.LittleEndian.Uint32(hdr[10:14])
	return d.renderBitmap(x, y, base, int64(pixOffset), rs)
}

// RenderICO draws the first image of the ICO container at rs with its
// top-left corner at x, y. Only the first directory entry is
// consulted; its pixel data decodes by the same rules as a BMP.
func (d *Dev) RenderICO(x, y int, rs io.ReadSeeker) error {
	base, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	var hdr [6]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrNotICO
		}
		return err
	}
	reserved := binary.LittleEndian.Uint16(hdr[0:2])
	icType := binary.LittleEndian.Uint16(hdr[2:4])
	count := binary.LittleEndian.Uint16(hdr[4:6])
	if reserved != 0 || icType != 1 || count == 0 {
		return ErrNotICO
	}
	var entry [16]byte
	if _, err := io.ReadFull(rs, entry[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrNotICO
		}
		return err
	}
	// Icon directory entries carry a zero bit count; the real depth
	// comes from the bitmap header at the entry's offset.
	if bits := binary.LittleEndian.Uint16(entry[6:8]); bits != 0 {
		return ErrUnsupported
	}
	pixOffset := binary.LittleEndian.Uint32(entry[12:16])
	return d.renderBitmap(x, y, base, int64(pixOffset), rs)
}

// RenderJPEG decodes the JPEG stream at r and draws it with its
// top-left corner at x, y.
func (d *Dev) RenderJPEG(x, y int, r io.Reader) error {
	img, err := jpeg.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	b := img.Bounds()
	if x < 0 || y < 0 {
		return ErrInvalidParam
	}
	if x+b.Dx() > d.w || y+b.Dy() > d.h {
		return ErrImageTooBig
	}
	return d.Draw(image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min)
}

// renderBitmap decodes an uncompressed device-independent bitmap whose
// info header starts at the current position of rs and whose pixel
// data starts base+pixOffset bytes into the stream.
func (d *Dev) renderBitmap(x, y int, base, pixOffset int64, rs io.ReadSeeker) error {
	var info [40]byte
	if _, err := io.ReadFull(rs, info[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrUnsupported
		}
		return err
	}
	w := int(int32(binary.LittleEndian.Uint32(info[4:8])))
	h := int(int32(binary.LittleEndian.Uint32(info[8:12])))
	bpp := int(binary.LittleEndian.Uint16(info[14:16]))
	compression := binary.LittleEndian.Uint32(info[16:20])
	switch bpp {
	case 1, 4, 8, 16, 24:
	default:
		return ErrUnsupported
	}
	if compression != 0 {
		return ErrUnsupported
	}
	if w <= 0 || h <= 0 {
		return ErrUnsupported
	}
	if x < 0 || y < 0 {
		return ErrInvalidParam
	}
	if x+w > d.w || y+h > d.h {
		return ErrImageTooBig
	}

	var palette []image16bit.RGB565
	if bpp <= 8 {
		// Palette entries are stored as BGRx quads.
		quads := make([]byte, 4<<bpp)
		if _, err := io.ReadFull(rs, quads); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return ErrUnsupported
			}
			return err
		}
		palette = make([]image16bit.RGB565, 1<<bpp)
		for i := range palette {
			palette[i] = image16bit.FromRGB(quads[4*i+2], quads[4*i+1], quads[4*i])
		}
	}

	stride := (bpp*w + 7) / 8
	padded := (stride + 3) &^ 3
	line := make([]byte, stride)
	row := make([]image16bit.RGB565, w)

	prev := d.window
	if err := d.SetWindow(image.Rect(x, y, x+w, y+h)); err != nil {
		return err
	}
	var err error
	// Scanlines are stored bottom up; the screen is written top down.
	for j := h - 1; j >= 0; j-- {
		if _, err = rs.Seek(base+pixOffset+int64(j)*int64(padded), io.SeekStart); err != nil {
			break
		}
		if _, err = io.ReadFull(rs, line); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				err = ErrUnsupported
			}
			break
		}
		expandRow(row, line, bpp, palette)
		if err = d.streamPixels(row, x, y+(h-1-j)); err != nil {
			break
		}
	}
	if rerr := d.SetWindow(prev); err == nil {
		err = rerr
	}
	return err
}

// expandRow converts one stored scanline into device pixels.
func expandRow(dst []image16bit.RGB565, src []byte, bpp int, palette []image16bit.RGB565) {
	for i := range dst {
		switch bpp {
		case 1:
			// A set bit selects palette entry 0, not 1.
			idx := 1
			if src[i/8]&(0x80>>(i%8)) != 0 {
				idx = 0
			}
			dst[i] = palette[idx]
		case 4:
			// High nibble first.
			v := src[i/2]
			if i&1 == 0 {
				v >>= 4
			}
			dst[i] = palette[v&0x0F]
		case 8:
			dst[i] = palette[src[i]]
		case 16:
			dst[i] = image16bit.RGB565(binary.LittleEndian.Uint16(src[2*i:]))
		case 24:
			// BGR triplets.
			dst[i] = image16bit.FromRGB(src[3*i+2], src[3*i+1], src[3*i])
		}
	}
}
