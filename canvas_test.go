package ra8875

import (
	"image"
	"image/color"
	"testing"

	"periph.io/x/devices/v3/ra8875/image16bit"
)

func TestSetWindow(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SetWindow(image.Rect(10, 20, 110, 70)); err != nil {
		t.Fatalf("SetWindow() = %v", err)
	}
	pairs := []struct {
		name string
		reg  byte
		want int
	}{
		{"HSAW", regHSAW0, 10},
		{"VSAW", regVSAW0, 20},
		{"HEAW", regHEAW0, 109},
		{"VEAW", regVEAW0, 69},
	}
	for _, tt := range pairs {
		if got := s.reg16(tt.reg); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
	if got, want := d.Window(), image.Rect(10, 20, 110, 70); got != want {
		t.Errorf("Window() = %v, want %v", got, want)
	}
}

func TestSetWindowCanonicalizes(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SetWindow(image.Rect(110, 70, 10, 20)); err != nil {
		t.Fatalf("SetWindow() = %v", err)
	}
	if got, want := d.Window(), image.Rect(10, 20, 110, 70); got != want {
		t.Errorf("Window() = %v, want %v", got, want)
	}
	if got := s.reg16(regHSAW0); got != 10 {
		t.Errorf("HSAW = %d, want 10", got)
	}
	if got := s.reg16(regHEAW0); got != 109 {
		t.Errorf("HEAW = %d, want 109", got)
	}
}

// TestPutPixelWraparound checks the streaming cursor contract: the k-th
// pixel of a burst into a w by h window lands at
// (x + k%w, y + (k/w)%h), so a burst longer than the window wraps back
// to the origin.
func TestPutPixelWraparound(t *testing.T) {
	d, s := newTestDev(t, nil)
	win := image.Rect(5, 7, 9, 10) // 4x3, 12 pixels
	if err := d.SetWindow(win); err != nil {
		t.Fatalf("SetWindow() = %v", err)
	}
	const n = 13
	for k := 0; k < n; k++ {
		if err := d.PutPixel(image16bit.RGB565(0x1000 + k)); err != nil {
			t.Fatalf("PutPixel(%d) = %v", k, err)
		}
	}
	for k := 0; k < n; k++ {
		x := 5 + k%4
		y := 7 + (k/4)%3
		want := uint16(0x1000 + k)
		if k == 0 {
			// The 13th pixel wrapped all the way around and
			// overwrote the first.
			want = 0x1000 + 12
		}
		if got := s.pixelAt(0, x, y); got != want {
			t.Errorf("pixel (%d,%d) = 0x%04X, want 0x%04X", x, y, got, want)
		}
	}
}

func TestPixelRoundTrip(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.Pixel(3, 4, image16bit.Red); err != nil {
		t.Fatalf("Pixel() = %v", err)
	}
	if got := s.pixelAt(0, 3, 4); got != 0xB800 {
		t.Fatalf("stored pixel = 0x%04X, want 0xB800", got)
	}
	got, err := d.PixelAt(3, 4)
	if err != nil {
		t.Fatalf("PixelAt() = %v", err)
	}
	if got != image16bit.Red {
		t.Errorf("PixelAt() = 0x%04X, want 0x%04X", uint16(got), uint16(image16bit.Red))
	}
}

func TestPixelRoundTrip8bpp(t *testing.T) {
	d, s := newTestDev(t, &Opts{BPP: 8})
	if err := d.Pixel(3, 4, image16bit.Red); err != nil {
		t.Fatalf("Pixel() = %v", err)
	}
	// The 8bpp framebuffer stores the RGB332 reduction.
	if got := s.pixelAt(0, 3, 4); got != 0x00A0 {
		t.Fatalf("stored pixel = 0x%02X, want 0xA0", got)
	}
	got, err := d.PixelAt(3, 4)
	if err != nil {
		t.Fatalf("PixelAt() = %v", err)
	}
	// Reading back replicates the surviving channel bits.
	if want := image16bit.RGB565(0xB000); got != want {
		t.Errorf("PixelAt() = 0x%04X, want 0x%04X", uint16(got), uint16(want))
	}
}

func TestDrawNativeImage(t *testing.T) {
	d, s := newTestDev(t, nil)
	img := image16bit.NewImage(image.Rect(0, 0, 2, 2))
	img.SetRGB565(0, 0, image16bit.BrightRed)
	img.SetRGB565(1, 0, image16bit.BrightGreen)
	img.SetRGB565(0, 1, image16bit.BrightBlue)
	img.SetRGB565(1, 1, image16bit.White)
	if err := d.Draw(image.Rect(100, 50, 102, 52), img, image.Point{}); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	pixels := []struct {
		x, y int
		want uint16
	}{
		{100, 50, 0xF800},
		{101, 50, 0x07E0},
		{100, 51, 0x001F},
		{101, 51, 0xFFFF},
	}
	for _, tt := range pixels {
		if got := s.pixelAt(0, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = 0x%04X, want 0x%04X", tt.x, tt.y, got, tt.want)
		}
	}
	// One burst per row.
	if s.ramWrites != 2 {
		t.Errorf("ram bursts = %d, want 2", s.ramWrites)
	}
	if got := d.Window(); got != d.Bounds() {
		t.Errorf("Window() = %v, want %v restored", got, d.Bounds())
	}
	if got := s.reg16(regHEAW0); got != 479 {
		t.Errorf("HEAW = %d, want 479 restored", got)
	}
}

func TestDrawConvertsStandardImage(t *testing.T) {
	d, s := newTestDev(t, nil)
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{G: 255, A: 255})
	if err := d.Draw(image.Rect(0, 0, 2, 1), src, image.Point{}); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if got := s.pixelAt(0, 0, 0); got != 0xF800 {
		t.Errorf("pixel (0,0) = 0x%04X, want 0xF800", got)
	}
	if got := s.pixelAt(0, 1, 0); got != 0x07E0 {
		t.Errorf("pixel (1,0) = 0x%04X, want 0x07E0", got)
	}
}

func TestDrawClipsToScreen(t *testing.T) {
	d, s := newTestDev(t, nil)
	src := image.NewRGBA(image.Rect(0, 0, 6, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	if err := d.Draw(image.Rect(478, 270, 484, 275), src, image.Point{}); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	for _, p := range []image.Point{{478, 270}, {479, 270}, {478, 271}, {479, 271}} {
		if got := s.pixelAt(0, p.X, p.Y); got != 0x07E0 {
			t.Errorf("pixel %v = 0x%04X, want 0x07E0", p, got)
		}
	}
	if got := s.pixelAt(0, 477, 270); got != 0 {
		t.Errorf("pixel (477,270) = 0x%04X, want untouched", got)
	}
	if s.ramWrites != 2 {
		t.Errorf("ram bursts = %d, want 2 clipped rows", s.ramWrites)
	}
}

func TestDrawEmptyIntersection(t *testing.T) {
	d, s := newTestDev(t, nil)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := d.Draw(image.Rect(500, 300, 502, 302), src, image.Point{}); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if len(s.writes) != 0 {
		t.Errorf("register writes = %d, want none for an off-screen rect", len(s.writes))
	}
}

func TestBlit(t *testing.T) {
	d, s := newTestDev(t, nil)
	pix := []image16bit.RGB565{0x1111, 0x2222, 0x3333, 0x4444}
	if err := d.Blit(image.Rect(3, 4, 5, 6), pix); err != nil {
		t.Fatalf("Blit() = %v", err)
	}
	pixels := []struct {
		x, y int
		want uint16
	}{
		{3, 4, 0x1111},
		{4, 4, 0x2222},
		{3, 5, 0x3333},
		{4, 5, 0x4444},
	}
	for _, tt := range pixels {
		if got := s.pixelAt(0, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = 0x%04X, want 0x%04X", tt.x, tt.y, got, tt.want)
		}
	}
	if got := d.Window(); got != d.Bounds() {
		t.Errorf("Window() = %v, want %v restored", got, d.Bounds())
	}
}

func TestBlitShortBuffer(t *testing.T) {
	d, s := newTestDev(t, nil)
	pix := []image16bit.RGB565{0x1111, 0x2222, 0x3333}
	if err := d.Blit(image.Rect(3, 4, 5, 6), pix); err != ErrInvalidParam {
		t.Fatalf("Blit() = %v, want ErrInvalidParam", err)
	}
	if len(s.writes) != 0 {
		t.Errorf("register writes = %d, want none after rejection", len(s.writes))
	}
}

func TestClear(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SetBackground(image16bit.Red); err != nil {
		t.Fatalf("SetBackground() = %v", err)
	}
	if err := d.Clear(); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {479, 0}, {0, 271}, {479, 271}, {240, 136}} {
		if got := s.pixelAt(0, p.X, p.Y); got != 0xB800 {
			t.Errorf("pixel %v = 0x%04X, want 0xB800", p, got)
		}
	}
}

func TestClearWindow(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SetBackground(image16bit.Red); err != nil {
		t.Fatalf("SetBackground() = %v", err)
	}
	if err := d.SetWindow(image.Rect(10, 10, 20, 20)); err != nil {
		t.Fatalf("SetWindow() = %v", err)
	}
	if err := d.ClearWindow(); err != nil {
		t.Fatalf("ClearWindow() = %v", err)
	}
	if !s.wroteValue(regMCLR, mclrStart|mclrActiveWindow) {
		t.Error("memory clear did not carry the active-window bit")
	}
	for _, p := range []image.Point{{10, 10}, {19, 19}} {
		if got := s.pixelAt(0, p.X, p.Y); got != 0xB800 {
			t.Errorf("pixel %v = 0x%04X, want 0xB800", p, got)
		}
	}
	for _, p := range []image.Point{{9, 10}, {20, 19}, {0, 0}, {479, 271}} {
		if got := s.pixelAt(0, p.X, p.Y); got != 0 {
			t.Errorf("pixel %v = 0x%04X, want untouched", p, got)
		}
	}
}

// TestClearAllRestoresLayerOnError drives ClearAll into a bus fault
// halfway through and checks the selected drawing layer comes back.
func TestClearAllRestoresLayerOnError(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SelectLayer(1); err != nil {
		t.Fatalf("SelectLayer(1) = %v", err)
	}
	s.failWrite(regMCLR, 2, errSim)
	if err := d.ClearAll(true, true); err != errSim {
		t.Fatalf("ClearAll() = %v, want the bus fault", err)
	}
	if got := d.Layer(); got != 1 {
		t.Errorf("Layer() = %d, want 1 restored", got)
	}
	if got := s.regs[regMWCR1] & mwcr1LayerMask; got != 1 {
		t.Errorf("MWCR1 layer bit = %d, want 1 restored", got)
	}
}

func TestSetForeground(t *testing.T) {
	d, s := newTestDev(t, nil)
	if err := d.SetForeground(image16bit.White); err != nil {
		t.Fatalf("SetForeground() = %v", err)
	}
	trio := []struct {
		name string
		reg  byte
		want byte
	}{
		{"red", regFGCR0, 0x1F},
		{"green", regFGCR0 + 1, 0x3F},
		{"blue", regFGCR0 + 2, 0x1F},
	}
	for _, tt := range trio {
		if got := s.regs[tt.reg]; got != tt.want {
			t.Errorf("FGCR %s = 0x%02X, want 0x%02X", tt.name, got, tt.want)
		}
	}
}

func TestSetBackground8bpp(t *testing.T) {
	d, s := newTestDev(t, &Opts{BPP: 8})
	if err := d.SetBackground(image16bit.White); err != nil {
		t.Fatalf("SetBackground() = %v", err)
	}
	// 3/3/2 wide trio at 8bpp.
	trio := []struct {
		name string
		reg  byte
		want byte
	}{
		{"red", regBGCR0, 0x07},
		{"green", regBGCR0 + 1, 0x07},
		{"blue", regBGCR0 + 2, 0x03},
	}
	for _, tt := range trio {
		if got := s.regs[tt.reg]; got != tt.want {
			t.Errorf("BGCR %s = 0x%02X, want 0x%02X", tt.name, got, tt.want)
		}
	}
}
