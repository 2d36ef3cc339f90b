package ppu

// drawScanline renders one row of the framebuffer (the current p.ly) by
// compositing background, window, and sprite layers, grounded on the
// teacher's internal/ppu/scanline.go BG/window helpers and extended with
// the sprite compositor spec.md §4.5 describes but the teacher never wired
// into drawScanline.
func (p *PPU) drawScanline() {
	y := int(p.ly)
	if y >= screenHeight {
		return
	}

	bgIdx := make([]byte, screenWidth)
	if p.lcdc&0x01 != 0 {
		p.renderBackground(y, bgIdx)
	}

	windowDrew := false
	if p.lcdc&0x20 != 0 && p.lcdc&0x01 != 0 && int(p.wy) <= y && p.wx <= 166 {
		p.renderWindow(y, bgIdx)
		windowDrew = true
	}

	row := y * screenWidth
	for x := 0; x < screenWidth; x++ {
		p.fb[row+x] = applyPalette(bgIdx[x], p.bgp)
	}

	if p.lcdc&0x02 != 0 {
		p.renderSprites(y, bgIdx)
	}

	if windowDrew {
		p.windowLineCounter++
	}
}

// renderBackground fills dst with 2-bit BG color indices for screen row y,
// honoring SCX/SCY wraparound across the 256x256 tile map.
func (p *PPU) renderBackground(y int, dst []byte) {
	mapBase := uint16(0x9800)
	if p.lcdc&0x08 != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := p.lcdc&0x10 != 0

	mapY := (uint16(y) + uint16(p.scy)) & 0xFF
	tileRow := mapY / 8
	fineY := byte(mapY % 8)
	startTileX := uint16(p.scx) / 8
	fineXDiscard := int(p.scx) % 8

	row := renderTileRow(p, mapBase, tileData8000, tileRow, startTileX, fineY, fineXDiscard, screenWidth)
	copy(dst, row)
}

// renderWindow overlays the window layer starting at screen column WX-7,
// using its own internal line counter rather than LY (spec.md §4.5).
func (p *PPU) renderWindow(y int, dst []byte) {
	startX := int(p.wx) - 7
	if startX >= screenWidth {
		return
	}
	mapBase := uint16(0x9800)
	if p.lcdc&0x40 != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := p.lcdc&0x10 != 0

	wy := uint16(p.windowLineCounter)
	tileRow := wy / 8
	fineY := byte(wy % 8)

	count := screenWidth - max(startX, 0)
	row := renderTileRow(p, mapBase, tileData8000, tileRow, 0, fineY, 0, count)

	for i, ci := range row {
		x := startX + i
		if x < 0 || x >= screenWidth {
			continue
		}
		dst[x] = ci
	}
}

type oamEntry struct {
	y, x, tile, flags byte
	index             int
}

// renderSprites composites up to the 10 highest-priority sprites touching
// row y onto dst's already-rendered BG/window pixels (spec.md §4.5 point 2):
// 8x8 or 8x16 via LCDC bit 2, X/Y flip, OBP0/OBP1 select, a BG-priority-below
// bit, transparent color 0, and OAM-index tiebreak on equal X.
func (p *PPU) renderSprites(y int, bgIdx []byte) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var visible []oamEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		base := i * 4
		sy := int(p.oam[base]) - 16
		if y < sy || y >= sy+height {
			continue
		}
		visible = append(visible, oamEntry{
			y:     p.oam[base],
			x:     p.oam[base+1],
			tile:  p.oam[base+2],
			flags: p.oam[base+3],
			index: i,
		})
	}

	// Sort so that within a row, lower screen-X (then lower OAM index) wins
	// when sprites overlap the same dot (spec.md §4.5).
	for a := 1; a < len(visible); a++ {
		for b := a; b > 0; b-- {
			left, right := visible[b-1], visible[b]
			if left.x < right.x || (left.x == right.x && left.index < right.index) {
				break
			}
			visible[b-1], visible[b] = visible[b], visible[b-1]
		}
	}

	drawn := make([]bool, screenWidth)
	for _, s := range visible {
		sx := int(s.x) - 8
		sy := int(s.y) - 16
		line := y - sy
		if s.flags&0x40 != 0 {
			line = height - 1 - line
		}
		tile := s.tile
		if height == 16 {
			tile &^= 1
			if line >= 8 {
				tile |= 1
				line -= 8
			}
		}

		tileBase := 0x8000 + uint16(tile)*16 + uint16(line)*2
		lo := p.VRAMByte(tileBase)
		hi := p.VRAMByte(tileBase + 1)

		pal := p.obp0
		if s.flags&0x10 != 0 {
			pal = p.obp1
		}
		bgPriority := s.flags&0x80 != 0

		for px := 0; px < 8; px++ {
			x := sx + px
			if x < 0 || x >= screenWidth || drawn[x] {
				continue
			}
			bit := px
			if s.flags&0x20 == 0 {
				bit = 7 - px
			}
			ci := ((hi>>byte(bit))&1)<<1 | ((lo >> byte(bit)) & 1)
			if ci == 0 {
				continue
			}
			if bgPriority && bgIdx[x] != 0 {
				continue
			}
			p.fb[y*screenWidth+x] = applyPalette(ci, pal)
			drawn[x] = true
		}
	}
}

func applyPalette(colorIndex, palette byte) uint32 {
	shade := (palette >> (colorIndex * 2)) & 0x03
	return dmgShades[shade]
}
