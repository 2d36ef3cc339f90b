// Package ppu implements the pixel-FIFO-style picture processing unit: the
// four-mode scanline state machine, VRAM/OAM storage, and the background,
// window, and sprite renderers. Grounded on the teacher's internal/ppu
// package (ppu.go's mode FSM, fetcher.go's tile fetcher/FIFO, scanline.go's
// BG/window scanline helpers), generalized to spec.md §4.5's exact timing
// and STAT edge-trigger rules and extended with the sprite compositor the
// teacher never wired in.
package ppu

import "goboycore/internal/interrupt"

// Mode is one of the four PPU states (spec.md §3).
type Mode byte

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	PixelTransfer
)

const (
	dotsOAM      = 80
	dotsTransfer = 252 // cumulative: OAMScan ends at 80, transfer ends at 252
	dotsPerLine  = 456
	visibleLines = 144
	totalLines   = 154
	screenWidth  = 160
	screenHeight = 144
)

// The four fixed DMG shades (spec.md §4.5), expressed as opaque ARGB, plus
// the blank-white shown while LCDC bit 7 is cleared.
const (
	shade0    uint32 = 0xFFE0F8D0
	shade1    uint32 = 0xFF88C070
	shade2    uint32 = 0xFF346856
	shade3    uint32 = 0xFF081820
	colorWhite uint32 = 0xFFFFFFFF
)

var dmgShades = [4]uint32{shade0, shade1, shade2, shade3}

// Requester raises an interrupt kind against the shared IF register.
type Requester func(interrupt.Kind)

// PPU owns VRAM, OAM, the LCD registers, and the 160x144 ARGB framebuffer.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte
	fb   [screenWidth * screenHeight]uint32

	lcdc byte
	stat byte // bits 6:3 are interrupt-source selects; bits 2:0 are maintained internally
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	mode     Mode
	cycleAcc int

	windowLineCounter int  // internal window-row cursor, advances only on scanlines the window actually draws
	statLine          bool // previous level of the OR'd STAT interrupt signal, for edge detection

	req Requester
}

// New returns a PPU with LCDC/STAT/LY/mode at their post-boot defaults
// (spec.md §3 doesn't mandate PPU boot values explicitly; these mirror the
// teacher's ppu.New and are immediately overwritten by a real boot
// sequence's own register writes).
func New(req Requester) *PPU {
	return &PPU{mode: OAMScan, stat: byte(OAMScan), req: req}
}

// Framebuffer returns the 160x144 ARGB pixel buffer from the most recently
// rendered frame. The caller must not retain a reference across frames
// without copying: the PPU mutates it in place.
func (p *PPU) Framebuffer() *[screenWidth * screenHeight]uint32 { return &p.fb }

// LY reports the current scanline (0..153).
func (p *PPU) LY() byte { return p.ly }

// ModeNow reports the current PPU mode.
func (p *PPU) ModeNow() Mode { return p.mode }

// CPURead returns VRAM, OAM, or a PPU IO register value.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and the PPU IO registers. Writing LY
// is ignored (spec.md §4.2); writing STAT only updates the interrupt-source
// select bits, never the read-only mode/coincidence bits; clearing LCDC
// bit 7 resets LY/cycleAcc/mode.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if prev&0x80 != 0 && value&0x80 == 0 {
			p.ly = 0
			p.cycleAcc = 0
			p.windowLineCounter = 0
			p.setMode(HBlank)
			for i := range p.fb {
				p.fb[i] = colorWhite
			}
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
		p.updateStatLine()
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		// read-only from the CPU's perspective
	case addr == 0xFF45:
		p.lyc = value
		p.updateCoincidence()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// VRAMByte reads VRAM directly for the tile fetcher and sprite renderer,
// bypassing the CPURead path's OAM and register cases.
func (p *PPU) VRAMByte(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return p.vram[addr-0x8000]
	}
	return 0xFF
}

// Tick advances the PPU by cycles T-cycles, running the mode FSM, firing
// the scanline renderer on the PixelTransfer->HBlank transition, and
// edge-triggering STAT/VBlank interrupts.
func (p *PPU) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	if p.lcdc&0x80 == 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	p.cycleAcc++

	if p.ly < visibleLines {
		switch {
		case p.cycleAcc < dotsOAM:
			p.setMode(OAMScan)
		case p.cycleAcc < dotsTransfer:
			p.setMode(PixelTransfer)
		default:
			if p.mode != HBlank {
				p.drawScanline()
			}
			p.setMode(HBlank)
		}
	} else {
		p.setMode(VBlank)
	}

	if p.cycleAcc >= dotsPerLine {
		p.cycleAcc -= dotsPerLine
		p.ly++
		if p.ly == visibleLines {
			if p.req != nil {
				p.req(interrupt.VBlank)
			}
		} else if p.ly >= totalLines {
			p.ly = 0
			p.windowLineCounter = 0
		}
		p.updateCoincidence()
		if p.ly < visibleLines {
			p.setMode(OAMScan)
		} else {
			p.setMode(VBlank)
		}
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.stat = (p.stat &^ 0x03) | byte(m)
	p.updateStatLine()
}

func (p *PPU) updateCoincidence() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
	p.updateStatLine()
}

// updateStatLine computes the OR of the four STAT interrupt sources and
// fires interrupt.LCDSTAT only on a 0->1 transition (spec.md §4.5, §8).
func (p *PPU) updateStatLine() {
	sig := (p.stat&(1<<6) != 0 && p.stat&(1<<2) != 0) ||
		(p.stat&(1<<5) != 0 && p.mode == OAMScan) ||
		(p.stat&(1<<4) != 0 && p.mode == VBlank) ||
		(p.stat&(1<<3) != 0 && p.mode == HBlank)
	if sig && !p.statLine && p.req != nil {
		p.req(interrupt.LCDSTAT)
	}
	p.statLine = sig
}

// BGP, OBP0, OBP1, LCDC, SCY, SCX, WY, WX expose palette/scroll registers
// for the scanline renderer.
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
