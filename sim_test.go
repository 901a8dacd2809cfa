package ra8875

import (
	"errors"
	"fmt"
	"image"
	"testing"
)

// busSim stands in for the controller behind the Bus seam: a register
// file, one framebuffer per layer and the side effects the driver
// depends on. Engine start bits self-clear on the spot with the
// command recorded, the memory-clear engine fills from the background
// color trio, INTC2 is write-1-to-clear and the memory cursors advance
// through the active window the way the chip's do.
type busSim struct {
	w, h int
	bpp  int

	regs [256]byte
	fb   [2][]uint16

	writes    []regVal // every register write in order
	dcrOps    []byte   // DCR commands that carried a start bit
	decrOps   []byte   // DECR commands that carried the start bit
	bteOps    []byte   // BECR0 commands that carried the enable bit
	ramWrites int      // WriteRAM bursts

	// statusBusyN makes Status report the BTE busy bit for that many
	// reads; status is ORed into every read and can pin the bit.
	statusBusyN int
	status      byte

	// failReg arms a one-shot fault: the failN-th write to that
	// register returns failErr instead of executing.
	failReg byte
	failN   int
	failErr error

	// hangReg stores writes to one register verbatim, start bits
	// included, so polls against it never see completion.
	hangReg   byte
	hangArmed bool
}

func newBusSim(w, h, bpp int) *busSim {
	s := &busSim{w: w, h: h, bpp: bpp}
	s.fb[0] = make([]uint16, w*h)
	s.fb[1] = make([]uint16, w*h)
	return s
}

// newTestDev builds a Dev over a fresh simulator matching opts and
// truncates the simulator's logs so tests see only their own traffic.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *busSim) {
	t.Helper()
	if opts == nil {
		opts = &Opts{}
	}
	w, h, bpp := opts.W, opts.H, opts.BPP
	if w == 0 && h == 0 {
		w, h = 480, 272
	}
	if bpp == 0 {
		bpp = 16
	}
	s := newBusSim(w, h, bpp)
	d, err := New(s, opts)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	s.resetLog()
	return d, s
}

func (s *busSim) resetLog() {
	s.writes = nil
	s.dcrOps = nil
	s.decrOps = nil
	s.bteOps = nil
	s.ramWrites = 0
}

func (s *busSim) failWrite(reg byte, n int, err error) {
	s.failReg, s.failN, s.failErr = reg, n, err
}

func (s *busSim) hang(reg byte) {
	s.hangReg, s.hangArmed = reg, true
}

// press latches one raw touch sample and raises the touch interrupt
// flag, as the controller does when the panel is pressed.
func (s *busSim) press(p image.Point) {
	s.regs[regTPXH] = byte(p.X >> 2)
	s.regs[regTPYH] = byte(p.Y >> 2)
	s.regs[regTPXYL] = byte(p.X&0x03) | byte(p.Y&0x03)<<2
	s.regs[regINTC2] |= intTP
}

func (s *busSim) WriteReg(reg, val byte) error {
	if s.failErr != nil && reg == s.failReg {
		s.failN--
		if s.failN <= 0 {
			err := s.failErr
			s.failErr = nil
			return err
		}
	}
	s.writes = append(s.writes, regVal{reg, val})
	if s.hangArmed && reg == s.hangReg {
		s.regs[reg] = val
		return nil
	}
	switch reg {
	case regDCR:
		if val&(dcrLineSquareStart|dcrCircleStart) != 0 {
			s.dcrOps = append(s.dcrOps, val)
		}
		val &^= dcrLineSquareStart | dcrCircleStart
	case regDECR:
		if val&decrStart != 0 {
			s.decrOps = append(s.decrOps, val)
		}
		val &^= decrStart
	case regBECR0:
		if val&becrEnable != 0 {
			s.bteOps = append(s.bteOps, val)
		}
		val &^= becrEnable
	case regMCLR:
		if val&mclrStart != 0 {
			s.memClear(val&mclrActiveWindow != 0)
		}
		val &^= mclrStart
	case regINTC2:
		s.regs[reg] &^= val
		return nil
	}
	s.regs[reg] = val
	return nil
}

func (s *busSim) ReadReg(reg byte) (byte, error) {
	return s.regs[reg], nil
}

func (s *busSim) Status() (byte, error) {
	if s.statusBusyN > 0 {
		s.statusBusyN--
		return s.status | statusBTEBusy, nil
	}
	return s.status, nil
}

// WriteRAM decodes a burst the way the chip does: 16bpp pixels arrive
// high byte first, 8bpp pixels are RGB332 bytes. Each pixel lands at
// the write cursor, which then advances through the active window.
func (s *busSim) WriteRAM(pix []byte) error {
	s.ramWrites++
	layer := int(s.regs[regMWCR1] & mwcr1LayerMask)
	if s.bpp == 16 {
		if len(pix)%2 != 0 {
			return fmt.Errorf("odd 16bpp ram burst of %d bytes", len(pix))
		}
		for i := 0; i < len(pix); i += 2 {
			s.setPixel(layer, s.reg16(regCURH0), s.reg16(regCURV0), uint16(pix[i])<<8|uint16(pix[i+1]))
			s.advance(regCURH0, regCURV0)
		}
		return nil
	}
	for _, p := range pix {
		s.setPixel(layer, s.reg16(regCURH0), s.reg16(regCURV0), uint16(p))
		s.advance(regCURH0, regCURV0)
	}
	return nil
}

// ReadRAM clocks out latency bytes and then pixel data from the read
// cursor, low byte first at 16bpp. Single-pixel reads carry one
// latency byte, streamed reads two; the request length tells the two
// apart the same way the driver sizes its buffers.
func (s *busSim) ReadRAM(pix []byte) error {
	layer := int(s.regs[regMWCR1] & mwcr1LayerMask)
	if s.bpp == 16 {
		skip := 2
		if len(pix)%2 != 0 {
			skip = 1
		}
		for i := 0; i < skip; i++ {
			pix[i] = 0xA5
		}
		for i := skip; i+1 < len(pix); i += 2 {
			v := s.pixelAt(layer, s.reg16(regRCURH0), s.reg16(regRCURV0))
			pix[i] = byte(v)
			pix[i+1] = byte(v >> 8)
			s.advance(regRCURH0, regRCURV0)
		}
		return nil
	}
	pix[0] = 0xA5
	for i := 1; i < len(pix); i++ {
		pix[i] = byte(s.pixelAt(layer, s.reg16(regRCURH0), s.reg16(regRCURV0)))
		s.advance(regRCURH0, regRCURV0)
	}
	return nil
}

func (s *busSim) reg16(reg byte) int {
	return int(s.regs[reg]) | int(s.regs[reg+1])<<8
}

func (s *busSim) setReg16(reg byte, v int) {
	s.regs[reg] = byte(v)
	s.regs[reg+1] = byte(v >> 8)
}

func (s *busSim) activeWindow() image.Rectangle {
	return image.Rect(
		s.reg16(regHSAW0), s.reg16(regVSAW0),
		s.reg16(regHEAW0)+1, s.reg16(regVEAW0)+1,
	)
}

// advance moves a cursor register pair one pixel through the active
// window, wrapping at the right and bottom edges.
func (s *busSim) advance(hreg, vreg byte) {
	w := s.activeWindow()
	x, y := s.reg16(hreg)+1, s.reg16(vreg)
	if x >= w.Max.X {
		x = w.Min.X
		y++
		if y >= w.Max.Y {
			y = w.Min.Y
		}
	}
	s.setReg16(hreg, x)
	s.setReg16(vreg, y)
}

func (s *busSim) setPixel(layer, x, y int, v uint16) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.fb[layer&1][y*s.w+x] = v
}

func (s *busSim) pixelAt(layer, x, y int) uint16 {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return 0
	}
	return s.fb[layer&1][y*s.w+x]
}

// bgColor composes the background color trio into the stored pixel
// value, 5/6/5 at 16bpp and 3/3/2 at 8bpp.
func (s *busSim) bgColor() uint16 {
	r, g, b := s.regs[regBGCR0], s.regs[regBGCR0+1], s.regs[regBGCR0+2]
	if s.bpp == 16 {
		return uint16(r&0x1F)<<11 | uint16(g&0x3F)<<5 | uint16(b&0x1F)
	}
	return uint16(r&0x07)<<5 | uint16(g&0x07)<<2 | uint16(b&0x03)
}

func (s *busSim) memClear(activeOnly bool) {
	c := s.bgColor()
	r := image.Rect(0, 0, s.w, s.h)
	if activeOnly {
		r = r.Intersect(s.activeWindow())
	}
	layer := int(s.regs[regMWCR1] & mwcr1LayerMask)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.setPixel(layer, x, y, c)
		}
	}
}

// lastWrite returns the most recent value written to reg, or -1.
func (s *busSim) lastWrite(reg byte) int {
	for i := len(s.writes) - 1; i >= 0; i-- {
		if s.writes[i].reg == reg {
			return int(s.writes[i].val)
		}
	}
	return -1
}

// wroteValue reports whether reg was ever written with val.
func (s *busSim) wroteValue(reg, val byte) bool {
	for _, w := range s.writes {
		if w.reg == reg && w.val == val {
			return true
		}
	}
	return false
}

var errSim = errors.New("simulated bus fault")
