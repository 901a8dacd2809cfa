package ra8875

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// Errors returned by the driver. Operations validate their parameters
// before touching the bus, so any of these other than ErrAborted means
// no hardware state was changed.
var (
	ErrInvalidParam = errors.New("ra8875: invalid parameter")
	ErrNotBMP       = errors.New("ra8875: not a bmp image")
	ErrNotICO       = errors.New("ra8875: not an ico container")
	ErrUnsupported  = errors.New("ra8875: unsupported image format")
	ErrImageTooBig  = errors.New("ra8875: image does not fit the screen")
	ErrAborted      = errors.New("ra8875: wait aborted")
	ErrCalTimeout   = errors.New("ra8875: touch calibration timed out")
)

// IdleReason tells the idle callback which wait the driver is blocked
// on.
type IdleReason uint8

const (
	IdleUnknown      IdleReason = iota
	IdleStatusWait              // polling the status register for engine completion
	IdleCommandWait             // polling a command register's self-clearing bit
	IdleTouchWait               // blocking until a touch arrives
	IdleTouchCalWait            // waiting for a calibration touch point
)

// IdleFunc is invoked on every iteration of a blocking wait. Returning
// a non-nil error aborts the wait and the error propagates to the
// caller of the blocked operation. It is the only way to cancel a wait.
type IdleFunc func(IdleReason) error

// Busy waits poll every pollStep and give up after pollBudget.
const (
	pollStep   = 10 * time.Microsecond
	pollBudget = 20 * time.Millisecond
)

// Opts holds the configuration for the device.
type Opts struct {
	// W and H select the panel geometry. The chip is programmed with
	// one of two timing sets, 480x272 or 800x480. Zero values default
	// to 480x272.
	W int
	H int
	// BPP is the framebuffer color depth, 8 or 16. Zero defaults to 16.
	BPP int
	// Freq is the SPI clock. Zero defaults to 5MHz. The chip reads
	// slower than it writes; a single conservative clock keeps both
	// directions inside the datasheet limits.
	Freq physic.Frequency
	// RST is an optional reset pin. When set, construction hard-resets
	// the chip instead of issuing the software reset command.
	RST gpio.PinOut
	// INT is an optional interrupt pin. When set, WaitTouch sleeps on
	// pin edges between polls instead of a timed wait.
	INT gpio.PinIn
}

// Dev is a handle to an RA8875 display controller.
//
// Dev is not safe for concurrent use: the chip's serial protocol is
// stateful (a selected register, a write cursor), so callers must
// serialize access. The one internal exception is the touch idle
// ticker, which shares exactly two atomic words with the caller's
// context.
type Dev struct {
	b    Bus
	w, h int
	bpp  int
	rst  gpio.PinOut
	irq  gpio.PinIn

	idle IdleFunc

	// Canvas state.
	window     image.Rectangle
	curX, curY int
	fg, bg     image16bit.RGB565
	buf        []byte

	layer     int
	layerMode LayerMode
	pwmOn     bool

	// Touch state. touchState and touchSeen are shared with the idle
	// ticker goroutine; everything else belongs to the caller's
	// context.
	touchState    atomic.Uint32
	touchSeen     atomic.Int64 // nanoseconds at the last raw sample
	touchStop     chan struct{}
	touchIdle     time.Duration
	touchXBuf     [touchSamples]int
	touchYBuf     [touchSamples]int
	touchN        int
	touchSampleAt time.Time // caller-context copy of the last sample time
	touchLast     image.Point
	cal           TouchCalibration
	calInstalled  bool
}

// NewSPI returns a Dev that talks to the display over 4-wire SPI.
//
// The RA8875 multiplexes command and data cycles with a header byte, so
// only the SPI port is required; reset and interrupt pins are optional
// through opts. opts can be nil to use defaults (480x272, 16bpp, 5MHz).
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	freq := 5 * physic.MegaHertz
	if opts != nil && opts.Freq != 0 {
		freq = opts.Freq
	}
	if freq <= 0 {
		return nil, errors.New("ra8875: spi frequency must be positive")
	}
	b, err := newSPIBus(p, freq)
	if err != nil {
		return nil, err
	}
	return New(b, opts)
}

// New returns a Dev driving the display through b. It is the seam for
// alternative transports and for tests, which inject a simulated bus.
func New(b Bus, opts *Opts) (*Dev, error) {
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
	if !(w == 480 && h == 272) && !(w == 800 && h == 480) {
		return nil, errors.New("ra8875: unsupported geometry, want 480x272 or 800x480")
	}
	if bpp != 8 && bpp != 16 {
		return nil, errors.New("ra8875: color depth must be 8 or 16")
	}
	d := &Dev{
		b:   b,
		w:   w,
		h:   h,
		bpp: bpp,
		rst: opts.RST,
		irq: opts.INT,
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// SetIdleFunc installs fn as the idle callback. Every blocking wait in
// the driver invokes it once per poll iteration with the reason for the
// wait; see IdleFunc for the abort contract. A nil fn removes the
// callback.
func (d *Dev) SetIdleFunc(fn IdleFunc) {
	d.idle = fn
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("ra8875.Dev{%dx%d}", d.w, d.h)
}

// Halt blanks and powers off the display and stops the touch ticker if
// one is running. The device can be brought back with Power(true).
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	d.touchHalt()
	if err := d.BacklightLevel(0); err != nil {
		return err
	}
	return d.Power(false)
}

// Power switches the panel on or off. The chip keeps accepting
// register traffic while off.
func (d *Dev) Power(on bool) error {
	v := byte(0x00)
	if on {
		v = pwrrDisplayOn
	}
	return d.b.WriteReg(regPWRR, v)
}

// Reset issues a software reset and leaves the panel off.
func (d *Dev) Reset() error {
	if err := d.b.WriteReg(regPWRR, pwrrSoftReset); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	if err := d.b.WriteReg(regPWRR, 0x00); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

// BacklightLevel drives the PWM1 backlight output, 0 (off) through 255
// (full). The PWM block is enabled on first use and disabled again at
// level 0.
func (d *Dev) BacklightLevel(l uint8) error {
	if l == 0 {
		if err := d.b.WriteReg(regP1CR, 0x00); err != nil {
			return err
		}
		d.pwmOn = false
	} else if !d.pwmOn {
		if err := d.b.WriteReg(regP1CR, p1crEnable); err != nil {
			return err
		}
		// Second write opens the PWM clock at SYS_CLK/2.
		if err := d.b.WriteReg(regP1CR, p1crEnable|0x01); err != nil {
			return err
		}
		d.pwmOn = true
	}
	return d.b.WriteReg(regP1DCR, l)
}

// Backlight sets the backlight from a ratio, 0.0 (off) through 1.0
// (full).
func (d *Dev) Backlight(ratio float64) error {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return d.BacklightLevel(uint8(ratio*255 + 0.5))
}

func (d *Dev) reset() error {
	if d.rst == nil {
		return d.Reset()
	}
	// Hard reset. The pulse must span at least 1024 system clocks.
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("ra8875: pulling RST low: %w", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("ra8875: pulling RST high: %w", err)
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

type regVal struct {
	reg, val byte
}

// init programs the PLL, the panel timing and the initial drawing
// state: full-screen window, blue on black, both layers cleared, panel
// and backlight on.
func (d *Dev) init() error {
	if err := d.reset(); err != nil {
		return err
	}

	// PLL. Each write needs a settle delay before the next register.
	pll := byte(0x0B)
	if d.w == 800 {
		pll = 0x0C
	}
	if err := d.b.WriteReg(regPLLC1, pll); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	if err := d.b.WriteReg(regPLLC2, 0x02); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)

	sysr := byte(sysr8bpp)
	if d.bpp == 16 {
		sysr = sysr16bpp
	}
	if err := d.b.WriteReg(regSYSR, sysr); err != nil {
		return err
	}

	// Pixel clock and panel timing, per geometry. The values follow
	// the panel vendor's reference configuration.
	var pcsr byte
	var timing []regVal
	if d.w == 800 {
		pcsr = 0x81 // PCLK = 4x system clock, falling edge
		timing = []regVal{
			{regHDWR, byte(d.w/8 - 1)},
			{regHNDFTR, 0x00},
			{regHNDR, 0x03},
			{regHSTR, 0x03},
			{regHPWR, 0x0B},
			{regVDHR0, byte(d.h - 1)},
			{regVDHR0 + 1, byte((d.h - 1) >> 8)},
			{regVNDR0, 0x20},
			{regVNDR0 + 1, 0x00},
			{regVSTR0, 0x16},
			{regVSTR0 + 1, 0x00},
			{regVPWR, 0x01},
		}
	} else {
		pcsr = 0x82 // PCLK = 8x system clock, falling edge
		timing = []regVal{
			{regHDWR, byte(d.w/8 - 1)},
			{regHNDFTR, 0x02},
			{regHNDR, 0x03},
			{regHSTR, 0x01},
			{regHPWR, 0x03},
			{regVDHR0, byte(d.h - 1)},
			{regVDHR0 + 1, byte((d.h - 1) >> 8)},
			{regVNDR0, 0x0F},
			{regVNDR0 + 1, 0x00},
			{regVSTR0, 0x0E},
			{regVSTR0 + 1, 0x06},
			{regVPWR, 0x01},
		}
	}
	if err := d.b.WriteReg(regPCSR, pcsr); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	for _, rv := range timing {
		if err := d.b.WriteReg(rv.reg, rv.val); err != nil {
			return err
		}
	}

	// Two drawing layers unless the framebuffer cannot hold them.
	dpcr := byte(dpcrTwoLayer)
	if !d.twoLayers() {
		dpcr = 0x00
	}
	if err := d.b.WriteReg(regDPCR, dpcr); err != nil {
		return err
	}

	if err := d.SetWindow(d.Bounds()); err != nil {
		return err
	}
	if err := d.SetForeground(image16bit.Blue); err != nil {
		return err
	}
	if err := d.SetBackground(image16bit.Black); err != nil {
		return err
	}
	if err := d.ClearAll(true, true); err != nil {
		return err
	}
	if err := d.Power(true); err != nil {
		return err
	}
	return d.BacklightLevel(0xFF)
}

// twoLayers reports whether the framebuffer can hold two layers at the
// configured size and depth.
func (d *Dev) twoLayers() bool {
	return !(d.w >= 800 && d.h >= 480 && d.bpp > 8)
}

// writeReg16 writes a 16-bit value across a consecutive register pair,
// low byte first.
func (d *Dev) writeReg16(reg byte, v uint16) error {
	if err := d.b.WriteReg(reg, byte(v)); err != nil {
		return err
	}
	return d.b.WriteReg(reg+1, byte(v>>8))
}

// waitStatus polls the status register until the bits in mask clear.
// The idle callback runs once per iteration and may abort the wait;
// exhausting the poll budget returns ErrAborted.
func (d *Dev) waitStatus(mask byte) error {
	for i := int(pollBudget / pollStep); i > 0; i-- {
		s, err := d.b.Status()
		if err != nil {
			return err
		}
		if s&mask == 0 {
			return nil
		}
		time.Sleep(pollStep)
		if d.idle != nil {
			if err := d.idle(IdleStatusWait); err != nil {
				return err
			}
		}
	}
	return ErrAborted
}

// waitReg polls a command register until the bits in mask clear, under
// the same callback and budget contract as waitStatus.
func (d *Dev) waitReg(reg, mask byte) error {
	for i := int(pollBudget / pollStep); i > 0; i-- {
		v, err := d.b.ReadReg(reg)
		if err != nil {
			return err
		}
		if v&mask == 0 {
			return nil
		}
		time.Sleep(pollStep)
		if d.idle != nil {
			if err := d.idle(IdleCommandWait); err != nil {
				return err
			}
		}
	}
	return ErrAborted
}

// scratch returns a reusable buffer of n bytes.
func (d *Dev) scratch(n int) []byte {
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	return d.buf[:n]
}
