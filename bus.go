package ra8875

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// RA8875 4-wire serial cycle headers. The chip multiplexes command and
// data cycles with a leading header byte instead of the data/command
// pin most controllers use.
const (
	cycleCmdWrite   = 0x80
	cycleDataWrite  = 0x00
	cycleDataRead   = 0x40
	cycleStatusRead = 0xC0
)

// Bus moves register and memory traffic between the driver and the
// controller. Implementations own the electrical framing; the driver
// core never sees raw bus bytes.
//
// WriteRAM and ReadRAM address the framebuffer port (MRWC). The read
// path delivers every byte the chip clocks out, latency bytes included;
// the caller knows the pixel mode and strips them.
type Bus interface {
	// WriteReg sets an 8-bit register.
	WriteReg(reg, val byte) error
	// ReadReg returns the current value of an 8-bit register.
	ReadReg(reg byte) (byte, error)
	// WriteRAM selects the framebuffer port and bursts pix to it.
	WriteRAM(pix []byte) error
	// ReadRAM selects the framebuffer port and fills pix from it.
	ReadRAM(pix []byte) error
	// Status reads the status register.
	Status() (byte, error)
}

// spiBus frames Bus operations for the chip's 4-wire serial interface.
type spiBus struct {
	c     spi.Conn
	txBuf []byte
}

func newSPIBus(p spi.Port, f physic.Frequency) (*spiBus, error) {
	// Mode 0; the chip also accepts mode 3.
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ra8875: connecting: %w", err)
	}
	maxTx := 4096
	if l, ok := c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 && m < maxTx {
			maxTx = m
		}
	}
	return &spiBus{c: c, txBuf: make([]byte, maxTx)}, nil
}

func (b *spiBus) WriteReg(reg, val byte) error {
	if err := b.c.Tx([]byte{cycleCmdWrite, reg}, nil); err != nil {
		return err
	}
	return b.c.Tx([]byte{cycleDataWrite, val}, nil)
}

func (b *spiBus) ReadReg(reg byte) (byte, error) {
	if err := b.c.Tx([]byte{cycleCmdWrite, reg}, nil); err != nil {
		return 0, err
	}
	var buf [2]byte
	if err := b.c.Tx([]byte{cycleDataRead, 0x00}, buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// WriteRAM bursts pix through the framebuffer port, splitting into
// transactions the port can carry. The chip's write cursor advances
// across transactions, so the split is invisible to it.
func (b *spiBus) WriteRAM(pix []byte) error {
	if err := b.c.Tx([]byte{cycleCmdWrite, regMRWC}, nil); err != nil {
		return err
	}
	for len(pix) > 0 {
		n := len(pix)
		if n > len(b.txBuf)-1 {
			n = len(b.txBuf) - 1
		}
		b.txBuf[0] = cycleDataWrite
		copy(b.txBuf[1:], pix[:n])
		if err := b.c.Tx(b.txBuf[:n+1], nil); err != nil {
			return err
		}
		pix = pix[n:]
	}
	return nil
}

// ReadRAM fills pix from the framebuffer port in a single full-duplex
// transaction. Callers fetch at most a row at a time, which fits any
// usable port.
func (b *spiBus) ReadRAM(pix []byte) error {
	if err := b.c.Tx([]byte{cycleCmdWrite, regMRWC}, nil); err != nil {
		return err
	}
	w := make([]byte, len(pix)+1)
	r := make([]byte, len(pix)+1)
	w[0] = cycleDataRead
	if err := b.c.Tx(w, r); err != nil {
		return err
	}
	copy(pix, r[1:])
	return nil
}

func (b *spiBus) Status() (byte, error) {
	var buf [2]byte
	if err := b.c.Tx([]byte{cycleStatusRead, 0x00}, buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}
