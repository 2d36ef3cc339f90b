package ppu

import (
	"testing"

	"goboycore/internal/interrupt"
)

// writeTile writes an 8x8 tile (2bpp) of a single color index into VRAM at
// tileData8000 addressing, tile number n.
func writeTile(p *PPU, n int, colorIndex byte) {
	base := uint16(0x8000 + n*16)
	var lo, hi byte
	if colorIndex&1 != 0 {
		lo = 0xFF
	}
	if colorIndex&2 != 0 {
		hi = 0xFF
	}
	for row := 0; row < 8; row++ {
		p.CPUWrite(base+uint16(row)*2, lo)
		p.CPUWrite(base+uint16(row)*2+1, hi)
	}
}

func TestBackgroundRenderReadsTileColorIndex(t *testing.T) {
	p := New(func(interrupt.Kind) {})
	p.CPUWrite(0xFF40, 0x91) // LCD on, BG on, tile data 8000, map 9800
	p.CPUWrite(0xFF47, 0xE4) // identity BGP: 3,2,1,0

	writeTile(p, 0, 3)
	// tile map 0x9800 defaults to tile 0 everywhere (VRAM zero-initialized)

	bgIdx := make([]byte, screenWidth)
	p.renderBackground(0, bgIdx)
	for x := 0; x < screenWidth; x++ {
		if bgIdx[x] != 3 {
			t.Fatalf("bg color index at x=%d got %d want 3", x, bgIdx[x])
		}
	}
}

func TestWindowOverlaysBackground(t *testing.T) {
	p := New(func(interrupt.Kind) {})
	p.CPUWrite(0xFF40, 0xB1) // LCD+BG+window on, map areas at 9800
	p.CPUWrite(0xFF47, 0xE4)
	p.CPUWrite(0xFF4A, 0)  // WY = 0, window visible from line 0
	p.CPUWrite(0xFF4B, 7)  // WX = 7 -> screen column 0

	writeTile(p, 0, 1) // background tile (used for both maps, color 1)

	p.drawScanline()
	if p.fb[0] != dmgShades[1] {
		t.Fatalf("window pixel got %08X want shade[1]", p.fb[0])
	}
}

func TestSpriteOpaquePixelOverridesBackground(t *testing.T) {
	p := New(func(interrupt.Kind) {})
	p.CPUWrite(0xFF40, 0x93) // LCD+BG+OBJ on, tile data 8000
	p.CPUWrite(0xFF47, 0xE4)
	p.CPUWrite(0xFF48, 0xE4) // OBP0 identity

	writeTile(p, 0, 0) // background: all color 0
	writeTile(p, 1, 2) // sprite tile: all color 2

	// sprite at screen (0,0): OAM Y=16, X=8
	p.CPUWrite(0xFE00, 16)
	p.CPUWrite(0xFE01, 8)
	p.CPUWrite(0xFE02, 1)
	p.CPUWrite(0xFE03, 0x00)

	p.drawScanline()
	if p.fb[0] != dmgShades[2] {
		t.Fatalf("sprite pixel got %08X want shade[2]", p.fb[0])
	}
}

func TestSpriteTransparentColorZeroShowsBackground(t *testing.T) {
	p := New(func(interrupt.Kind) {})
	p.CPUWrite(0xFF40, 0x93)
	p.CPUWrite(0xFF47, 0xE4)
	p.CPUWrite(0xFF48, 0xE4)

	writeTile(p, 0, 1) // background color 1 everywhere
	writeTile(p, 1, 0) // sprite tile: all transparent (color 0)

	p.CPUWrite(0xFE00, 16)
	p.CPUWrite(0xFE01, 8)
	p.CPUWrite(0xFE02, 1)
	p.CPUWrite(0xFE03, 0x00)

	p.drawScanline()
	if p.fb[0] != dmgShades[1] {
		t.Fatalf("expected background to show through transparent sprite pixel, got %08X", p.fb[0])
	}
}

func TestSpriteBGPriorityBitHidesBehindNonZeroBG(t *testing.T) {
	p := New(func(interrupt.Kind) {})
	p.CPUWrite(0xFF40, 0x93)
	p.CPUWrite(0xFF47, 0xE4)
	p.CPUWrite(0xFF48, 0xE4)

	writeTile(p, 0, 1) // background color 1 (non-zero)
	writeTile(p, 1, 2) // sprite color 2, but flagged behind BG

	p.CPUWrite(0xFE00, 16)
	p.CPUWrite(0xFE01, 8)
	p.CPUWrite(0xFE02, 1)
	p.CPUWrite(0xFE03, 0x80) // BG-priority bit set

	p.drawScanline()
	if p.fb[0] != dmgShades[1] {
		t.Fatalf("expected BG-priority sprite to stay hidden, got %08X", p.fb[0])
	}
}
