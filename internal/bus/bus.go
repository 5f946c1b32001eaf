// Package bus implements the shared 16-bit address space of spec.md §3/§4.1:
// it dispatches reads and writes to the cartridge, VRAM/OAM (via the PPU),
// work RAM, HRAM, and the memory-mapped I/O registers, and owns the two
// interrupt bytes IF/IE that CPU, Timer, PPU, and Input communicate through.
package bus

import (
	"io"

	"github.com/dmgcore/gbcore/internal/cart"
	"github.com/dmgcore/gbcore/internal/input"
	"github.com/dmgcore/gbcore/internal/ppu"
	"github.com/dmgcore/gbcore/internal/timer"
)

// Bus owns no reference back to the CPU or Machine; Machine.Tick passes it
// in to each component explicitly (spec.md §9's no-back-pointer design
// note).
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu   *ppu.PPU
	timer *timer.Timer
	input *input.Input

	ie    byte // 0xFFFF
	ifReg byte // 0xFF0F, low 5 bits meaningful

	// Serial loopback (spec.md §9): SB/SC at FF01/FF02. Not link emulation —
	// a single sink consumers can attach to observe test-ROM output, the way
	// the teacher's own blargg test harness does.
	sb byte
	sc byte
	sw io.Writer

	// OAM DMA (spec.md §9): FF46 triggers a 160-byte copy into OAM, one
	// byte per machine cycle.
	dma       byte
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int

	bootROM     []byte
	bootEnabled bool
}

// New wires a Bus around the given cartridge, constructing its own PPU,
// Timer, and Input sub-components with IF-raising callbacks closed over the
// Bus's own ifReg field.
func New(c cart.Cartridge) *Bus {
	b := &Bus{cart: c}
	b.ppu = ppu.New(func(bit int) { b.ifReg |= 1 << bit })
	b.timer = timer.New(func() { b.ifReg |= 1 << 2 })
	b.input = input.New(func() { b.ifReg |= 1 << 4 })
	return b
}

func (b *Bus) PPU() *ppu.PPU     { return b.ppu }
func (b *Bus) Timer() *timer.Timer { return b.timer }
func (b *Bus) Input() *input.Input { return b.input }
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// IF/IE/SetIF satisfy cpu.MemBus.
func (b *Bus) IF() byte     { return 0xE0 | (b.ifReg & 0x1F) }
func (b *Bus) IE() byte     { return b.ie }
func (b *Bus) SetIF(v byte) { b.ifReg = v & 0x1F }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.input.Read(addr)
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF04, addr == 0xFF05, addr == 0xFF06, addr == 0xFF07:
		return b.timer.Read(addr)
	case addr == 0xFF0F:
		return b.IF()
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45, addr == 0xFF47, addr == 0xFF48,
		addr == 0xFF49, addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr, value)
		}
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unused, writes ignored
	case addr == 0xFF00:
		b.input.Write(addr, value)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ifReg |= 1 << 3
			b.sc &^= 0x80
		}
	case addr == 0xFF04, addr == 0xFF05, addr == 0xFF06, addr == 0xFF07:
		b.timer.Write(addr, value)
	case addr == 0xFF0F:
		b.SetIF(value)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45, addr == 0xFF47, addr == 0xFF48,
		addr == 0xFF49, addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF46:
		b.dma = value
		b.dmaActive = true
		b.dmaSrc = uint16(value) << 8
		b.dmaIndex = 0
	case addr == 0xFF50:
		if value != 0x00 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	}
}

// SetSerialWriter attaches a sink that receives bytes written through the
// serial port (spec.md §9).
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// SetBootROM loads an optional boot ROM overlay (spec.md §9); the default
// lifecycle in spec.md §3 never executes one.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// TickPeripherals steps OAM DMA by one byte, then Input, Timer, and PPU, in
// that order — spec.md §4.7's per-tick ordering, minus the CPU step which
// Machine.Tick runs first.
func (b *Bus) TickPeripherals() {
	if b.dmaActive {
		if b.dmaIndex < 0xA0 {
			v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
			b.ppu.CPUWrite(0xFE00+uint16(b.dmaIndex), v)
			b.dmaIndex++
		}
		if b.dmaIndex >= 0xA0 {
			b.dmaActive = false
		}
	}
	b.input.Tick()
	b.timer.Tick()
	b.ppu.Tick()
}
