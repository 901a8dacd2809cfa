package ra8875

// Register map of the RA8875, from the RAiO RA8875 datasheet. Only the
// registers this driver programs are listed. Registers that hold 16-bit
// quantities occupy two consecutive addresses, low byte first; the
// constants name the low byte.
const (
	regPWRR   = 0x01 // Power and Display Control
	regMRWC   = 0x02 // Memory Read/Write Command
	regPCSR   = 0x04 // Pixel Clock Setting
	regSYSR   = 0x10 // System Configuration
	regHDWR   = 0x14 // LCD Horizontal Display Width
	regHNDFTR = 0x15 // Horizontal Non-Display Period Fine Tuning
	regHNDR   = 0x16 // LCD Horizontal Non-Display Period
	regHSTR   = 0x17 // HSYNC Start Position
	regHPWR   = 0x18 // HSYNC Pulse Width
	regVDHR0  = 0x19 // LCD Vertical Display Height
	regVNDR0  = 0x1B // LCD Vertical Non-Display Period
	regVSTR0  = 0x1D // VSYNC Start Position
	regVPWR   = 0x1F // VSYNC Pulse Width
	regDPCR   = 0x20 // Display Configuration
	regHSAW0  = 0x30 // Horizontal Start of Active Window
	regVSAW0  = 0x32 // Vertical Start of Active Window
	regHEAW0  = 0x34 // Horizontal End of Active Window
	regVEAW0  = 0x36 // Vertical End of Active Window
	regMWCR0  = 0x40 // Memory Write Control 0
	regMWCR1  = 0x41 // Memory Write Control 1
	regCURH0  = 0x46 // Memory Write Cursor Horizontal Position
	regCURV0  = 0x48 // Memory Write Cursor Vertical Position
	regRCURH0 = 0x4A // Memory Read Cursor Horizontal Position
	regRCURV0 = 0x4C // Memory Read Cursor Vertical Position
	regBECR0  = 0x50 // BTE Function Control 0
	regBECR1  = 0x51 // BTE Function Control 1
	regLTPR0  = 0x52 // Layer Transparency 0
	regLTPR1  = 0x53 // Layer Transparency 1
	regHSBE0  = 0x54 // BTE Horizontal Source Point
	regVSBE0  = 0x56 // BTE Vertical Source Point
	regHDBE0  = 0x58 // BTE Horizontal Destination Point
	regVDBE0  = 0x5A // BTE Vertical Destination Point
	regBEWR0  = 0x5C // BTE Width
	regBEHR0  = 0x5E // BTE Height
	regBGCR0  = 0x60 // Background Color Red (green, blue follow)
	regFGCR0  = 0x63 // Foreground Color Red (green, blue follow)
	regBGTR0  = 0x67 // Transparent Background Color Red (green, blue follow)
	regTPCR0  = 0x70 // Touch Panel Control 0
	regTPCR1  = 0x71 // Touch Panel Control 1
	regTPXH   = 0x72 // Touch Panel X High Byte
	regTPYH   = 0x73 // Touch Panel Y High Byte
	regTPXYL  = 0x74 // Touch Panel X/Y Low Bits
	regPLLC1  = 0x88 // PLL Control 1
	regPLLC2  = 0x89 // PLL Control 2
	regP1CR   = 0x8A // PWM1 Control
	regP1DCR  = 0x8B // PWM1 Duty Cycle
	regMCLR   = 0x8E // Memory Clear Control
	regDCR    = 0x90 // Draw Line/Circle/Square Control
	regDLHSR0 = 0x91 // Draw Line/Square Horizontal Start
	regDLVSR0 = 0x93 // Draw Line/Square Vertical Start
	regDLHER0 = 0x95 // Draw Line/Square Horizontal End
	regDLVER0 = 0x97 // Draw Line/Square Vertical End
	regDCHR0  = 0x99 // Draw Circle Center Horizontal
	regDCVR0  = 0x9B // Draw Circle Center Vertical
	regDCRR   = 0x9D // Draw Circle Radius
	regDECR   = 0xA0 // Draw Ellipse/Curve/Rounded-Rectangle Control
	regELLA0  = 0xA1 // Ellipse Long Axis / Corner Horizontal Radius
	regELLB0  = 0xA3 // Ellipse Short Axis / Corner Vertical Radius
	regDEHR0  = 0xA5 // Ellipse Center Horizontal
	regDEVR0  = 0xA7 // Ellipse Center Vertical
	regDTPH0  = 0xA9 // Draw Triangle Point 2 Horizontal
	regDTPV0  = 0xAB // Draw Triangle Point 2 Vertical
	regINTC1  = 0xF0 // Interrupt Control 1
	regINTC2  = 0xF1 // Interrupt Control 2
)

// Register bits.
const (
	pwrrDisplayOn = 0x80 // PWRR: LCD on
	pwrrSoftReset = 0x01 // PWRR: software reset

	sysr16bpp = 0x0C // SYSR: 16bpp (65K colors)
	sysr8bpp  = 0x00 // SYSR: 8bpp (256 colors)

	dpcrTwoLayer = 0x80 // DPCR: two-layer mode

	mwcr0GraphicsMode = 0x00 // MWCR0: graphics write mode

	mwcr1LayerMask = 0x01 // MWCR1: drawing layer select

	ltpr0ModeMask = 0x07 // LTPR0: display mode bits

	mclrStart        = 0x80 // MCLR: start, self-clearing while busy
	mclrActiveWindow = 0x40 // MCLR: clear the active window only

	dcrLineSquareStart = 0x80 // DCR: start bit and busy flag
	dcrCircleStart     = 0x40 // DCR: the circle engine starts and flags on 0x40
	dcrFill            = 0x20 // DCR: fill the shape
	dcrDrawSquare      = 0x10 // DCR: square select
	dcrDrawTriangle    = 0x01 // DCR: triangle select
	dcrDrawLine        = 0x00 // DCR: line select
	dcrDrawCircle      = 0x00 // DCR: circle select, started through 0x40

	decrStart         = 0x80 // DECR: start bit and busy flag
	decrFill          = 0x40 // DECR: fill the shape
	decrDrawRoundRect = 0x20 // DECR: rounded rectangle select
	decrDrawEllipse   = 0x00 // DECR: ellipse select

	becrEnable    = 0x80 // BECR0: start the block transfer engine
	becrSrcLinear = 0x40 // BECR0: source is linear data
	becrDstLinear = 0x20 // BECR0: destination is linear data

	p1crEnable = 0x80 // P1CR: PWM1 enable

	tpcr0Enable     = 0x80 // TPCR0: touch panel enable
	tpcr1ModeManual = 0x40 // TPCR1: manual mode (auto when clear)
	tpcr1DebounceOn = 0x04 // TPCR1: enable the debounce circuit

	intTP = 0x04 // INTC1/INTC2: touch panel interrupt

	statusBTEBusy = 0x40 // status register: block transfer engine busy
)
