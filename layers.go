package ra8875

import (
	"image/color"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

// LayerMode selects how the two display layers are mixed on the way to
// the panel.
type LayerMode uint8

const (
	// ShowLayer0 scans out layer 0 only.
	ShowLayer0 LayerMode = iota
	// ShowLayer1 scans out layer 1 only.
	ShowLayer1
	// LightenOverlay mixes the layers through the lighten function.
	LightenOverlay
	// TransparentMode overlays layer 1 on layer 0 with per-layer
	// transparency scaling.
	TransparentMode
	// BooleanOR combines the layers bitwise.
	BooleanOR
	// BooleanAND combines the layers bitwise.
	BooleanAND
	// FloatingWindow scans out the floating window region.
	FloatingWindow
)

// SelectLayer routes subsequent memory writes and drawing commands to
// the given layer. Any value other than 1, or any value at all when
// the panel geometry left a single layer, selects layer 0.
func (d *Dev) SelectLayer(layer int) error {
	if layer != 1 || !d.twoLayers() {
		layer = 0
	}
	v, err := d.b.ReadReg(regMWCR1)
	if err != nil {
		return err
	}
	v &^= mwcr1LayerMask
	v |= byte(layer)
	if err := d.b.WriteReg(regMWCR1, v); err != nil {
		return err
	}
	d.layer = layer
	return nil
}

// Layer returns the layer currently receiving writes.
func (d *Dev) Layer() int {
	return d.layer
}

// withLayer runs fn and restores the drawing layer that was selected
// on entry, even when fn fails.
func (d *Dev) withLayer(fn func() error) error {
	prev := d.layer
	err := fn()
	if rerr := d.SelectLayer(prev); err == nil {
		err = rerr
	}
	return err
}

// SetLayerMode programs the scan-out mix function.
func (d *Dev) SetLayerMode(m LayerMode) error {
	if m > FloatingWindow {
		return ErrInvalidParam
	}
	v, err := d.b.ReadReg(regLTPR0)
	if err != nil {
		return err
	}
	v &^= ltpr0ModeMask
	v |= byte(m)
	if err := d.b.WriteReg(regLTPR0, v); err != nil {
		return err
	}
	d.layerMode = m
	return nil
}

// LayerMode returns the scan-out mix function in effect.
func (d *Dev) LayerMode() LayerMode {
	return d.layerMode
}

// SetLayerTransparency sets the per-layer scaling used by
// TransparentMode. Levels run 0 (opaque) to 8 (invisible); larger
// values clamp to 8.
func (d *Dev) SetLayerTransparency(l0, l1 uint8) error {
	if l0 > 8 {
		l0 = 8
	}
	if l1 > 8 {
		l1 = 8
	}
	return d.b.WriteReg(regLTPR1, l1<<4|l0)
}

// SetTransparentColor sets the color treated as fully transparent when
// boolean mixing with transparency is in effect.
func (d *Dev) SetTransparentColor(c color.Color) error {
	px := image16bit.RGB565Model.Convert(c).(image16bit.RGB565)
	return d.writeColorTrio(regBGTR0, px)
}
