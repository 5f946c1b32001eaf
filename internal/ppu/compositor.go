package ppu

// vramAdapter lets the isolated fetcher (fetcher.go) read tile data/maps
// directly out of VRAM without going through CPURead's full address
// dispatch.
type vramAdapter struct{ p *PPU }

func (v vramAdapter) Read(addr uint16) byte { return v.p.vram[addr-0x8000] }

// renderBGLine fills lineRaw and frame for line y with the background layer,
// per spec.md §4.4's BG formula, reusing the teacher's FIFO-based fetcher
// for the actual tile-row production.
func (p *PPU) renderBGLine(y int) {
	if p.lcdc&0x01 == 0 { // BG/window disabled entirely (LCDC bit0)
		for x := 0; x < Width; x++ {
			p.lineRaw[x] = 0
			p.frame[y][x] = applyPalette(p.bgp, 0)
		}
		return
	}

	mapBase := uint16(0x9800)
	if p.lcdc&0x08 != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := p.lcdc&0x10 != 0

	row := RenderBGScanlineUsingFetcher(vramAdapter{p}, mapBase, tileData8000, p.scx, p.scy, byte(y))
	for x := 0; x < Width; x++ {
		p.lineRaw[x] = row[x]
		p.frame[y][x] = applyPalette(p.bgp, row[x])
	}
}

// compositeWindowAndSprites paints the window and sprite layers for line y,
// en bloc at the mode-2 boundary, per spec.md §4.4.
func (p *PPU) compositeWindowAndSprites(y int) {
	p.paintWindow(y)
	p.paintSprites(y)
}

func (p *PPU) paintWindow(y int) {
	if p.lcdc&0x20 == 0 { // window disabled
		return
	}
	if p.wx > 166 || p.wy > 143 || byte(y) < p.wy {
		return
	}

	mapBase := uint16(0x9800)
	if p.lcdc&0x40 != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := p.lcdc&0x10 != 0

	wxStart := int(p.wx) - 7
	mem := vramAdapter{p}
	mapY := (uint16(p.windowLine) >> 3) & 31
	fineY := byte(p.windowLine) & 7

	painted := false
	for x := wxStart; x < Width; x++ {
		if x < 0 {
			continue
		}
		// spec.md §4.4: the horizontal counter used during pixel fetch is
		// x - WX + 6, not the "naive" x - (WX-7); reproduced here bug-for-bug
		// per spec.md §9's documented quirk.
		wlx := x - int(p.wx) + 6
		if wlx < 0 {
			continue
		}
		tileCol := uint16(wlx>>3) & 31
		fineX := byte(wlx & 7)

		tileIndexAddr := mapBase + mapY*32 + tileCol
		tileNum := mem.Read(tileIndexAddr)
		var base uint16
		if tileData8000 {
			base = 0x8000 + uint16(tileNum)*16 + uint16(fineY)*2
		} else {
			base = 0x9000 + uint16(int8(tileNum))*16 + uint16(fineY)*2
		}
		lo := mem.Read(base)
		hi := mem.Read(base + 1)
		bit := 7 - fineX
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)

		p.lineRaw[x] = ci
		p.frame[y][x] = applyPalette(p.bgp, ci)
		painted = true
	}
	if painted {
		p.windowPaintedLastLine = true
	}
}

type spriteEntry struct {
	y, x, tile, attr byte
}

func (p *PPU) paintSprites(y int) {
	if p.lcdc&0x02 == 0 { // sprites disabled
		return
	}
	tall := p.lcdc&0x04 != 0
	spriteHeight := 8
	if tall {
		spriteHeight = 16
	}

	painted := 0
	for i := 0; i < 40 && painted < 10; i++ {
		base := i * 4
		s := spriteEntry{p.oam[base], p.oam[base+1], p.oam[base+2], p.oam[base+3]}
		if s.x == 0 || s.y == 0 {
			continue
		}
		top := int(s.y) - 16
		if y < top || y >= top+spriteHeight {
			continue
		}
		painted++

		line := y - top
		if s.attr&0x40 != 0 { // Y-flip
			line = spriteHeight - 1 - line
		}
		tile := s.tile
		if tall {
			tile &^= 0x01
		}
		addr := uint16(0x8000) + uint16(tile)*16 + uint16(line)*2
		lo := p.vram[addr-0x8000]
		hi := p.vram[addr+1-0x8000]

		palette := p.obp0
		if s.attr&0x10 != 0 {
			palette = p.obp1
		}
		behindBG := s.attr&0x80 != 0
		xFlip := s.attr&0x20 != 0

		for px := 0; px < 8; px++ {
			screenX := int(s.x) - 8 + px
			if screenX < 0 || screenX >= Width {
				continue
			}
			bit := byte(px)
			if !xFlip {
				bit = 7 - byte(px)
			}
			ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
			if ci == 0 {
				continue // transparent
			}
			if behindBG && p.lineRaw[screenX] != 0 {
				continue
			}
			p.frame[y][screenX] = applyPalette(palette, ci)
		}
	}
}
