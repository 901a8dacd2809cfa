package ra8875

import (
	"image"
	"image/color"
	"time"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// TouchCalibration corrects raw touch samples for the translation,
// scaling and rotation of the resistive overlay relative to the panel.
// The six coefficients form a 2x3 affine transform over the common
// Divider, kept in integers so the correction can run per sample
// without floating point.
//
// The integer intermediates are 32 bits wide, which is safe up to the
// controller's 10-bit sample range; substantially wider digitizer
// values can overflow the products.
type TouchCalibration struct {
	An, Bn, Cn int32
	Dn, En, Fn int32
	Divider    int32
}

// ComputeCalibration solves the affine correction that maps the three
// raw touch samples onto the three display points they were taken at.
// Three points determine the six coefficients exactly, so the solve is
// closed form. Collinear or repeated sample points make the system
// singular and return ErrInvalidParam.
//
// The function is pure: it touches no device state, so a failed
// calibration can never disturb an installed matrix.
func ComputeCalibration(display, raw [3]image.Point) (TouchCalibration, error) {
	var sx, sy, dx, dy [3]int32
	for i := 0; i < 3; i++ {
		sx[i] = int32(raw[i].X)
		sy[i] = int32(raw[i].Y)
		dx[i] = int32(display[i].X)
		dy[i] = int32(display[i].Y)
	}
	var m TouchCalibration
	m.Divider = (sx[0]-sx[2])*(sy[1]-sy[2]) - (sx[1]-sx[2])*(sy[0]-sy[2])
	if m.Divider == 0 {
		return TouchCalibration{}, ErrInvalidParam
	}
	m.An = (dx[0]-dx[2])*(sy[1]-sy[2]) - (dx[1]-dx[2])*(sy[0]-sy[2])
	m.Bn = (sx[0]-sx[2])*(dx[1]-dx[2]) - (dx[0]-dx[2])*(sx[1]-sx[2])
	m.Cn = (sx[2]*dx[1]-sx[1]*dx[2])*sy[0] +
		(sx[0]*dx[2]-sx[2]*dx[0])*sy[1] +
		(sx[1]*dx[0]-sx[0]*dx[1])*sy[2]
	m.Dn = (dy[0]-dy[2])*(sy[1]-sy[2]) - (dy[1]-dy[2])*(sy[0]-sy[2])
	m.En = (sx[0]-sx[2])*(dy[1]-dy[2]) - (dy[0]-dy[2])*(sx[1]-sx[2])
	m.Fn = (sx[2]*dy[1]-sx[1]*dy[2])*sy[0] +
		(sx[0]*dy[2]-sx[2]*dy[0])*sy[1] +
		(sx[1]*dy[0]-sx[0]*dy[1])*sy[2]
	return m, nil
}

// Apply transforms one raw sample into display space. All terms are
// summed before the single divide so integer truncation happens only
// once per axis. A zero matrix passes the point through unchanged.
func (m TouchCalibration) Apply(raw image.Point) image.Point {
	if m.Divider == 0 {
		return raw
	}
	x := int32(raw.X)
	y := int32(raw.Y)
	return image.Point{
		X: int((m.An*x + m.Bn*y + m.Cn) / m.Divider),
		Y: int((m.Dn*x + m.En*y + m.Fn) / m.Divider),
	}
}

// SetCalibration installs a computed or persisted correction matrix
// and resets the touch lifecycle. A nil matrix or one with a zero
// divider is rejected.
func (d *Dev) SetCalibration(m *TouchCalibration) error {
	if m == nil || m.Divider == 0 {
		return ErrInvalidParam
	}
	d.cal = *m
	d.calInstalled = true
	d.touchState.Store(uint32(NoTouch))
	return nil
}

// CalibrationMatrix returns the installed correction matrix, if any,
// so callers can persist it and skip calibration on the next boot.
func (d *Dev) CalibrationMatrix() (TouchCalibration, bool) {
	return d.cal, d.calInstalled
}

// Calibrate runs the interactive three-point calibration: a crosshair
// is drawn near three corners of the screen in turn, the filtered
// touch sample for each is collected, and the resulting correction is
// installed and returned. The timeout spans the whole flow; expiry
// returns ErrCalTimeout with nothing installed. The idle callback is
// invoked with IdleTouchCalWait once per poll and may abort the flow.
func (d *Dev) Calibrate(timeout time.Duration) (TouchCalibration, error) {
	deadline := time.Now().Add(timeout)
	display := [3]image.Point{
		{X: 50, Y: 50},
		{X: d.w - 50, Y: d.h / 2},
		{X: d.w / 2, Y: d.h - 50},
	}
	var raw [3]image.Point

	// Start from a quiet panel.
	if err := d.calWait(deadline, false, nil); err != nil {
		return TouchCalibration{}, err
	}
	if err := d.Clear(); err != nil {
		return TouchCalibration{}, err
	}
	for i := range display {
		if err := d.drawCrosshair(display[i], image16bit.White); err != nil {
			return TouchCalibration{}, err
		}
		if err := d.calWait(deadline, true, &raw[i]); err != nil {
			return TouchCalibration{}, err
		}
		if err := d.drawCrosshair(display[i], image16bit.Black); err != nil {
			return TouchCalibration{}, err
		}
		// The finger must lift before the next point, or one long
		// press would satisfy all three.
		if err := d.calWait(deadline, false, nil); err != nil {
			return TouchCalibration{}, err
		}
	}
	m, err := ComputeCalibration(display, raw)
	if err != nil {
		return TouchCalibration{}, err
	}
	if err := d.SetCalibration(&m); err != nil {
		return TouchCalibration{}, err
	}
	return m, nil
}

// calWait polls the filtered touch state at 20ms until it reports a
// touch (wantTouch) or quiet (!wantTouch), the deadline passes, or the
// idle callback aborts.
func (d *Dev) calWait(deadline time.Time, wantTouch bool, out *image.Point) error {
	for {
		p, code, err := d.TouchFiltered()
		if err != nil {
			return err
		}
		if (code != NoTouch) == wantTouch {
			if out != nil {
				*out = p
			}
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrCalTimeout
		}
		time.Sleep(20 * time.Millisecond)
		if d.idle != nil {
			if err := d.idle(IdleTouchCalWait); err != nil {
				return err
			}
		}
	}
}

func (d *Dev) drawCrosshair(p image.Point, c color.Color) error {
	if err := d.DrawLine(image.Pt(p.X-10, p.Y), image.Pt(p.X+10, p.Y), c); err != nil {
		return err
	}
	return d.DrawLine(image.Pt(p.X, p.Y-10), image.Pt(p.X, p.Y+10), c)
}
