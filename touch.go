package ra8875

import (
	"image"
	"sort"
	"time"
)

// touchSamples is the depth of the two averaging buffers. A reading is
// produced once per full window.
const touchSamples = 16

// TouchCode reports where a touch interaction stands.
type TouchCode uint8

const (
	// NoTouch means no interaction is in progress.
	NoTouch TouchCode = iota
	// Touch is reported once when an interaction produces its first
	// filtered reading.
	Touch
	// Held is reported while the interaction continues.
	Held
	// Release is reported exactly once after the panel goes quiet.
	Release
	// NoCal means a touch is present but no calibration matrix is
	// installed, so no display coordinates can be produced.
	NoCal
)

func (t TouchCode) String() string {
	switch t {
	case NoTouch:
		return "no touch"
	case Touch:
		return "touch"
	case Held:
		return "held"
	case Release:
		return "release"
	case NoCal:
		return "uncalibrated"
	}
	return "unknown"
}

// TouchConfig adjusts the resistive touch controller. The zero value
// selects the chip defaults.
type TouchConfig struct {
	// SampleClocks is the ADC sample time in system clocks, a power of
	// two between 512 and 65536. Zero selects 8192.
	SampleClocks int
	// ADCDivider divides the system clock for the touch ADC, a power
	// of two between 1 and 128. Zero selects 8.
	ADCDivider int
	// Manual switches the controller from automatic to manual capture
	// mode.
	Manual bool
	// DisableDebounce turns the hardware debounce circuit off.
	DisableDebounce bool
	// IdleTimeout is how long after the last sample an interaction is
	// retired: Held demotes to Release, anything else to NoTouch. Zero
	// selects 100ms.
	IdleTimeout time.Duration
	// TickInterval is the period of the retirement check. Zero selects
	// 1ms.
	TickInterval time.Duration
}

// pow2Selector maps a power-of-two count onto its 3-bit register
// selector, where selector 0 stands for base.
func pow2Selector(v, base, def int) (byte, bool) {
	if v == 0 {
		v = def
	}
	for s := 0; s < 8; s++ {
		if base<<s == v {
			return byte(s), true
		}
	}
	return 0, false
}

// TouchInit enables the resistive touch controller, unmasks its
// interrupt flag and starts the idle ticker that retires interactions
// after a quiet period. A nil cfg selects the defaults. Calling
// TouchInit again reprograms the controller and restarts the ticker.
func (d *Dev) TouchInit(cfg *TouchConfig) error {
	if cfg == nil {
		cfg = &TouchConfig{}
	}
	sampleSel, ok := pow2Selector(cfg.SampleClocks, 512, 8192)
	if !ok {
		return ErrInvalidParam
	}
	divSel, ok := pow2Selector(cfg.ADCDivider, 1, 8)
	if !ok {
		return ErrInvalidParam
	}
	tpcr0 := byte(tpcr0Enable) | sampleSel<<4 | divSel
	var tpcr1 byte
	if cfg.Manual {
		tpcr1 |= tpcr1ModeManual
	}
	if !cfg.DisableDebounce {
		tpcr1 |= tpcr1DebounceOn
	}
	if err := d.b.WriteReg(regTPCR0, tpcr0); err != nil {
		return err
	}
	if err := d.b.WriteReg(regTPCR1, tpcr1); err != nil {
		return err
	}
	v, err := d.b.ReadReg(regINTC1)
	if err != nil {
		return err
	}
	if err := d.b.WriteReg(regINTC1, v|intTP); err != nil {
		return err
	}
	// Clear any flag left over from before enable.
	if err := d.b.WriteReg(regINTC2, intTP); err != nil {
		return err
	}

	d.touchHalt()
	d.touchN = 0
	d.touchState.Store(uint32(NoCal))
	d.touchSeen.Store(time.Now().UnixNano())
	d.touchIdle = cfg.IdleTimeout
	if d.touchIdle == 0 {
		d.touchIdle = 100 * time.Millisecond
	}
	tick := cfg.TickInterval
	if tick == 0 {
		tick = time.Millisecond
	}
	d.touchStop = make(chan struct{})
	go d.touchTicker(d.touchStop, tick)
	return nil
}

// touchHalt stops the idle ticker if one is running.
func (d *Dev) touchHalt() {
	if d.touchStop != nil {
		close(d.touchStop)
		d.touchStop = nil
	}
}

// touchTicker drives the idle retirement check. It is the only
// goroutine in the driver; everything it shares with the caller's
// context is confined to the two atomic words inside touchTick.
func (d *Dev) touchTicker(stop chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			d.touchTick(time.Now())
		}
	}
}

// touchTick retires the interaction once the panel has been quiet for
// the idle timeout: Held becomes Release, any other state becomes
// NoTouch. Rearming the clock afterward makes Release stand for one
// further timeout before it too retires.
func (d *Dev) touchTick(now time.Time) {
	if now.UnixNano()-d.touchSeen.Load() <= int64(d.touchIdle) {
		return
	}
	if TouchCode(d.touchState.Load()) == Held {
		d.touchState.Store(uint32(Release))
	} else {
		d.touchState.Store(uint32(NoTouch))
	}
	d.touchSeen.Store(now.UnixNano())
}

// touchPending reports whether the controller holds an unread sample.
func (d *Dev) touchPending() (bool, error) {
	v, err := d.b.ReadReg(regINTC2)
	if err != nil {
		return false, err
	}
	return v&intTP != 0, nil
}

// readTouchSample reads one 10-bit sample pair, clears the interrupt
// flag and rearms the idle clock. The low two bits of both axes share
// one register.
func (d *Dev) readTouchSample() (image.Point, error) {
	now := time.Now()
	d.touchSeen.Store(now.UnixNano())
	d.touchSampleAt = now
	yh, err := d.b.ReadReg(regTPYH)
	if err != nil {
		return image.Point{}, err
	}
	yl, err := d.b.ReadReg(regTPXYL)
	if err != nil {
		return image.Point{}, err
	}
	xh, err := d.b.ReadReg(regTPXH)
	if err != nil {
		return image.Point{}, err
	}
	xl, err := d.b.ReadReg(regTPXYL)
	if err != nil {
		return image.Point{}, err
	}
	if err := d.b.WriteReg(regINTC2, intTP); err != nil {
		return image.Point{}, err
	}
	return image.Point{
		X: int(xh)<<2 | int(xl&0x03),
		Y: int(yh)<<2 | int(yl&0x0C)>>2,
	}, nil
}

// TouchRaw polls the controller once. A pending sample is returned as
// a raw ADC point tagged Touch; otherwise NoTouch.
func (d *Dev) TouchRaw() (image.Point, TouchCode, error) {
	pending, err := d.touchPending()
	if err != nil {
		return image.Point{}, NoTouch, err
	}
	if !pending {
		d.touchState.Store(uint32(NoTouch))
		return image.Point{}, NoTouch, nil
	}
	p, err := d.readTouchSample()
	if err != nil {
		return image.Point{}, NoTouch, err
	}
	d.touchState.Store(uint32(Touch))
	return p, Touch, nil
}

// TouchFiltered polls the controller through the noise filter. Raw
// samples accumulate in a sixteen-entry window; a full window is
// sorted, the outer quartiles are discarded and the middle half is
// averaged. The first completed window of an interaction reports
// Touch, later readings report Held carrying the latest average, and
// after the idle timeout the interaction reports Release exactly once
// before returning to NoTouch.
func (d *Dev) TouchFiltered() (image.Point, TouchCode, error) {
	pending, err := d.touchPending()
	if err != nil {
		return image.Point{}, NoTouch, err
	}
	state := TouchCode(d.touchState.Load())
	if !pending {
		switch state {
		case Touch, Held:
			d.touchState.Store(uint32(Held))
			return d.touchLast, Held, nil
		case Release:
			d.touchState.Store(uint32(NoTouch))
			d.touchN = 0
			return d.touchLast, Release, nil
		}
		return image.Point{}, state, nil
	}

	// A fresh interaction must not average in samples a previous one
	// left behind: a partial window is discarded once its newest
	// sample has gone stale. The window keeps filling across polls
	// that arrive faster than the idle timeout.
	if state != Touch && state != Held && time.Since(d.touchSampleAt) > d.touchIdle {
		d.touchN = 0
	}
	p, err := d.readTouchSample()
	if err != nil {
		return image.Point{}, NoTouch, err
	}
	d.touchXBuf[d.touchN] = p.X
	d.touchYBuf[d.touchN] = p.Y
	d.touchN++
	if d.touchN < touchSamples {
		// Window still filling; bridge with the last average so the
		// caller never sees a gap mid-interaction.
		if state == Touch || state == Held {
			d.touchState.Store(uint32(Held))
			return d.touchLast, Held, nil
		}
		return image.Point{}, state, nil
	}
	d.touchN = 0
	d.touchLast = image.Point{
		X: trimmedMean(d.touchXBuf),
		Y: trimmedMean(d.touchYBuf),
	}
	next := Touch
	if state == Touch || state == Held {
		next = Held
	}
	d.touchState.Store(uint32(next))
	return d.touchLast, next, nil
}

// trimmedMean sorts a full window, discards the outer quartile on each
// side and averages the middle half.
func trimmedMean(samples [touchSamples]int) int {
	sort.Ints(samples[:])
	sum := 0
	for _, v := range samples[touchSamples/4 : touchSamples-touchSamples/4] {
		sum += v
	}
	return sum / (touchSamples / 2)
}

// Touch polls for one calibrated touch point. Readings that carry a
// point are transformed through the installed calibration matrix; if
// none is installed they collapse to NoCal.
func (d *Dev) Touch() (image.Point, TouchCode, error) {
	p, code, err := d.TouchFiltered()
	if err != nil {
		return image.Point{}, code, err
	}
	switch code {
	case Touch, Held, Release:
		if !d.calInstalled {
			return image.Point{}, NoCal, nil
		}
		return d.cal.Apply(p), code, nil
	}
	return image.Point{}, code, nil
}

// WaitTouch blocks until the panel reports anything other than NoTouch
// and returns that reading. The idle callback, invoked once per poll
// with IdleTouchWait, is the only way to abandon the wait; there is no
// built-in timeout. With an interrupt pin configured the wait parks on
// pin edges between polls instead of sleeping.
func (d *Dev) WaitTouch() (image.Point, TouchCode, error) {
	for {
		p, code, err := d.Touch()
		if err != nil || code != NoTouch {
			return p, code, err
		}
		if d.idle != nil {
			if err := d.idle(IdleTouchWait); err != nil {
				return image.Point{}, NoTouch, err
			}
		}
		if d.irq != nil {
			d.irq.WaitForEdge(10 * time.Millisecond)
		} else {
			time.Sleep(time.Millisecond)
		}
	}
}
