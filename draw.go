package ra8875

import (
	"image"
	"image/color"
)

// The drawing engines share one protocol: program the shape's geometry
// registers, write the command, write the command again with the start
// bit, then poll that bit until the engine clears it. Degenerate and
// invalid inputs are resolved before the first register write.

// setDrawColor updates the foreground for a drawing call. A nil color
// keeps the current foreground.
func (d *Dev) setDrawColor(c color.Color) error {
	if c == nil {
		return nil
	}
	return d.SetForeground(c)
}

func (d *Dev) onScreen(p image.Point) bool {
	return p.X >= 0 && p.X < d.w && p.Y >= 0 && p.Y < d.h
}

// setCorners programs the shared start/end point registers used by the
// line, rectangle, rounded rectangle and triangle engines.
func (d *Dev) setCorners(a, b image.Point) error {
	if err := d.writeReg16(regDLHSR0, uint16(a.X)); err != nil {
		return err
	}
	if err := d.writeReg16(regDLVSR0, uint16(a.Y)); err != nil {
		return err
	}
	if err := d.writeReg16(regDLHER0, uint16(b.X)); err != nil {
		return err
	}
	return d.writeReg16(regDLVER0, uint16(b.Y))
}

// startDraw kicks a drawing engine and waits for its start bit to
// self-clear.
func (d *Dev) startDraw(reg, cmd, start byte) error {
	if err := d.b.WriteReg(reg, cmd); err != nil {
		return err
	}
	if err := d.b.WriteReg(reg, start|cmd); err != nil {
		return err
	}
	return d.waitReg(reg, start)
}

// DrawLine draws a line from a to b in color c. A nil c draws with the
// current foreground. Coincident endpoints degrade to a single pixel.
// Endpoints are not range checked; the engine clips off-screen spans.
func (d *Dev) DrawLine(a, b image.Point, c color.Color) error {
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	if a == b {
		return d.pixel(a.X, a.Y, d.fg)
	}
	if err := d.setCorners(a, b); err != nil {
		return err
	}
	return d.startDraw(regDCR, dcrDrawLine, dcrLineSquareStart)
}

// DrawRect outlines r in color c.
func (d *Dev) DrawRect(r image.Rectangle, c color.Color) error {
	return d.rect(r, c, false)
}

// FillRect fills r in color c.
func (d *Dev) FillRect(r image.Rectangle, c color.Color) error {
	return d.rect(r, c, true)
}

func (d *Dev) rect(r image.Rectangle, c color.Color, fill bool) error {
	r = r.Canon()
	if r.Empty() || !r.In(d.Bounds()) {
		return ErrInvalidParam
	}
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	// The engine corners are inclusive.
	a := r.Min
	b := r.Max.Sub(image.Pt(1, 1))
	if a == b {
		return d.pixel(a.X, a.Y, d.fg)
	}
	if a.X == b.X || a.Y == b.Y {
		return d.DrawLine(a, b, nil)
	}
	if err := d.setCorners(a, b); err != nil {
		return err
	}
	cmd := byte(dcrDrawSquare)
	if fill {
		cmd |= dcrFill
	}
	return d.startDraw(regDCR, cmd, dcrLineSquareStart)
}

// DrawRoundRect outlines r with corners rounded by the horizontal and
// vertical radii rx, ry.
func (d *Dev) DrawRoundRect(r image.Rectangle, rx, ry int, c color.Color) error {
	return d.roundRect(r, rx, ry, c, false)
}

// FillRoundRect fills r with corners rounded by rx, ry.
func (d *Dev) FillRoundRect(r image.Rectangle, rx, ry int, c color.Color) error {
	return d.roundRect(r, rx, ry, c, true)
}

func (d *Dev) roundRect(r image.Rectangle, rx, ry int, c color.Color, fill bool) error {
	r = r.Canon()
	if r.Empty() || !r.In(d.Bounds()) {
		return ErrInvalidParam
	}
	a := r.Min
	b := r.Max.Sub(image.Pt(1, 1))
	// A radius larger than half the side cannot be traced.
	if rx < 0 || ry < 0 || rx > (b.X-a.X)/2 || ry > (b.Y-a.Y)/2 {
		return ErrInvalidParam
	}
	if rx == 0 && ry == 0 {
		return d.rect(r, c, fill)
	}
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	if a == b {
		return d.pixel(a.X, a.Y, d.fg)
	}
	if a.X == b.X || a.Y == b.Y {
		return d.DrawLine(a, b, nil)
	}
	if err := d.setCorners(a, b); err != nil {
		return err
	}
	if err := d.writeReg16(regELLA0, uint16(rx)); err != nil {
		return err
	}
	if err := d.writeReg16(regELLB0, uint16(ry)); err != nil {
		return err
	}
	// The ellipse center registers leak into the corner trace on some
	// chip revisions unless zeroed.
	if err := d.writeReg16(regDEHR0, 0); err != nil {
		return err
	}
	if err := d.writeReg16(regDEVR0, 0); err != nil {
		return err
	}
	cmd := byte(decrDrawRoundRect)
	if fill {
		cmd |= decrFill
	}
	return d.startDraw(regDECR, cmd, decrStart)
}

// DrawTriangle outlines the triangle p1 p2 p3 in color c.
func (d *Dev) DrawTriangle(p1, p2, p3 image.Point, c color.Color) error {
	return d.triangle(p1, p2, p3, c, false)
}

// FillTriangle fills the triangle p1 p2 p3 in color c.
func (d *Dev) FillTriangle(p1, p2, p3 image.Point, c color.Color) error {
	return d.triangle(p1, p2, p3, c, true)
}

func (d *Dev) triangle(p1, p2, p3 image.Point, c color.Color, fill bool) error {
	if !d.onScreen(p1) || !d.onScreen(p2) || !d.onScreen(p3) {
		return ErrInvalidParam
	}
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	if p1 == p2 && p1 == p3 {
		return d.pixel(p1.X, p1.Y, d.fg)
	}
	if err := d.setCorners(p1, p2); err != nil {
		return err
	}
	if err := d.writeReg16(regDTPH0, uint16(p3.X)); err != nil {
		return err
	}
	if err := d.writeReg16(regDTPV0, uint16(p3.Y)); err != nil {
		return err
	}
	cmd := byte(dcrDrawTriangle)
	if fill {
		cmd |= dcrFill
	}
	return d.startDraw(regDCR, cmd, dcrLineSquareStart)
}

// DrawCircle outlines a circle of radius r around center in color c.
func (d *Dev) DrawCircle(center image.Point, r int, c color.Color) error {
	return d.circle(center, r, c, false)
}

// FillCircle fills a circle of radius r around center in color c.
func (d *Dev) FillCircle(center image.Point, r int, c color.Color) error {
	return d.circle(center, r, c, true)
}

func (d *Dev) circle(center image.Point, r int, c color.Color, fill bool) error {
	if r <= 0 || center.X-r < 0 || center.X+r > d.w ||
		center.Y-r < 0 || center.Y+r > d.h {
		return ErrInvalidParam
	}
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	if r == 1 {
		return d.pixel(center.X, center.Y, d.fg)
	}
	if err := d.writeReg16(regDCHR0, uint16(center.X)); err != nil {
		return err
	}
	if err := d.writeReg16(regDCVR0, uint16(center.Y)); err != nil {
		return err
	}
	if err := d.b.WriteReg(regDCRR, byte(r)); err != nil {
		return err
	}
	cmd := byte(dcrDrawCircle)
	if fill {
		cmd |= dcrFill
	}
	return d.startDraw(regDCR, cmd, dcrCircleStart)
}

// DrawEllipse outlines an ellipse with radii rx, ry around center.
func (d *Dev) DrawEllipse(center image.Point, rx, ry int, c color.Color) error {
	return d.ellipse(center, rx, ry, c, false)
}

// FillEllipse fills an ellipse with radii rx, ry around center.
func (d *Dev) FillEllipse(center image.Point, rx, ry int, c color.Color) error {
	return d.ellipse(center, rx, ry, c, true)
}

func (d *Dev) ellipse(center image.Point, rx, ry int, c color.Color, fill bool) error {
	if rx <= 0 || ry <= 0 || center.X-rx < 0 || center.X+rx > d.w ||
		center.Y-ry < 0 || center.Y+ry > d.h {
		return ErrInvalidParam
	}
	if err := d.setDrawColor(c); err != nil {
		return err
	}
	if rx == 1 && ry == 1 {
		return d.pixel(center.X, center.Y, d.fg)
	}
	if err := d.writeReg16(regDEHR0, uint16(center.X)); err != nil {
		return err
	}
	if err := d.writeReg16(regDEVR0, uint16(center.Y)); err != nil {
		return err
	}
	if err := d.writeReg16(regELLA0, uint16(rx)); err != nil {
		return err
	}
	if err := d.writeReg16(regELLB0, uint16(ry)); err != nil {
		return err
	}
	cmd := byte(decrDrawEllipse)
	if fill {
		cmd |= decrFill
	}
	return d.startDraw(regDECR, cmd, decrStart)
}

// BlockMove describes one block-transfer engine run. Op and ROP carry
// the raw operation and raster-operation codes from the datasheet.
type BlockMove struct {
	SrcLayer, DstLayer   int
	SrcLinear, DstLinear bool
	Src, Dst             image.Point
	Width, Height        int
	Op, ROP              uint8
}

// BlockMove runs the block transfer engine and waits for it to finish.
//
// Unlike the drawing primitives, out-of-range coordinates are not
// rejected: x is clamped to 10 bits and y to 9 bits, matching the
// engine's register width.
func (d *Dev) BlockMove(bm BlockMove) error {
	sx := bm.Src.X & 0x3FF
	sy := bm.Src.Y & 0x1FF
	dx := bm.Dst.X & 0x3FF
	dy := bm.Dst.Y & 0x1FF
	if err := d.writeReg16(regHSBE0, uint16(sx)); err != nil {
		return err
	}
	if err := d.writeReg16(regVSBE0, uint16(bm.SrcLayer&1)<<15|uint16(sy)); err != nil {
		return err
	}
	if err := d.writeReg16(regHDBE0, uint16(dx)); err != nil {
		return err
	}
	if err := d.writeReg16(regVDBE0, uint16(bm.DstLayer&1)<<15|uint16(dy)); err != nil {
		return err
	}
	if err := d.writeReg16(regBEWR0, uint16(bm.Width)); err != nil {
		return err
	}
	if err := d.writeReg16(regBEHR0, uint16(bm.Height)); err != nil {
		return err
	}
	if err := d.b.WriteReg(regBECR1, (bm.ROP&0x0F)<<4|(bm.Op&0x0F)); err != nil {
		return err
	}
	cmd := byte(becrEnable)
	if bm.SrcLinear {
		cmd |= becrSrcLinear
	}
	if bm.DstLinear {
		cmd |= becrDstLinear
	}
	if err := d.b.WriteReg(regBECR0, cmd); err != nil {
		return err
	}
	return d.waitStatus(statusBTEBusy)
}
