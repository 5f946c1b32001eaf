// Package machine composes Bus, CPU, PPU, Timer, and Input into the
// emulation core's external surface (spec.md §6's Host API), ticking them
// in the exact order spec.md §4.7 mandates: CPU, then Input, then Timer,
// then PPU.
package machine

import (
	"io"

	"github.com/pkg/errors"

	"github.com/dmgcore/gbcore/internal/bus"
	"github.com/dmgcore/gbcore/internal/cart"
	"github.com/dmgcore/gbcore/internal/cpu"
)

// Machine is the top-level emulation core, replacing the teacher's
// presentation-oriented emu.Machine stub with the wiring spec.md §4.7
// requires.
type Machine struct {
	bus *bus.Bus
	cpu *cpu.CPU

	header *cart.Header
}

// New returns a Machine with no cartridge inserted; call InsertROM and
// PowerOn before ticking.
func New() *Machine {
	return &Machine{cpu: cpu.New()}
}

// InsertROM parses the ROM header, selects the matching MBC, and wires a
// fresh Bus around it; the new Bus brings fresh PPU/Timer/Input state. It
// does not reset CPU state — call PowerOn afterwards, per spec.md §6.
func (m *Machine) InsertROM(rom []byte) error {
	c, h, err := cart.New(rom)
	if err != nil {
		return errors.Wrap(err, "machine: insert ROM")
	}
	m.bus = bus.New(c)
	m.header = h
	return nil
}

// LoadRAM restores cartridge RAM from an externally supplied byte vector;
// it must be called before PowerOn, per spec.md §6.
func (m *Machine) LoadRAM(data []byte) {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
	}
}

// RAM exports cartridge RAM for external persistence.
func (m *Machine) RAM() []byte {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		return bb.SaveRAM()
	}
	return nil
}

// PowerOn initializes CPU state as spec.md §3 describes. IE is seeded to
// 0xFF and IF to 0x00 via the Bus's zero value plus this explicit reset,
// matching the lifecycle table exactly.
func (m *Machine) PowerOn() {
	m.cpu.PowerOn()
	m.bus.SetIF(0x00)
	m.bus.Write(0xFFFF, 0xFF)
}

// SetButton updates one button's pressed state.
func (m *Machine) SetButton(button byte, pressed bool) {
	m.bus.Input().SetButton(button, pressed)
}

// Tick advances the whole machine by one machine cycle: CPU, Input, Timer,
// PPU, in that order (spec.md §4.7).
func (m *Machine) Tick() {
	m.cpu.Tick(m.bus)
	m.bus.TickPeripherals()
}

// Screen returns the current 160×144 framebuffer of 2-bit shades.
func (m *Machine) Screen() []byte {
	return m.bus.PPU().Screen()
}

// IsFrameReady reports whether the PPU is exactly at the start of a new
// frame (ly==0 && lx==0).
func (m *Machine) IsFrameReady() bool {
	return m.bus.PPU().IsFrameReady()
}

// Header exposes the parsed cartridge header for inspection tooling.
func (m *Machine) Header() *cart.Header {
	return m.header
}

// CPU exposes the CPU register file for trace tooling (cmd/gbcore's trace
// subcommand). Nothing in the core itself reads this back.
func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

// ReadBus exposes a single bus read for trace tooling, e.g. fetching the
// opcode at the current PC before it executes.
func (m *Machine) ReadBus(addr uint16) byte {
	return m.bus.Read(addr)
}

// IF/IE expose the interrupt flag/enable bytes for trace tooling.
func (m *Machine) IF() byte { return m.bus.IF() }
func (m *Machine) IE() byte { return m.bus.IE() }

// SetBootROM optionally overlays a boot ROM at 0x0000-0x00FF (spec.md §9).
func (m *Machine) SetBootROM(data []byte) {
	m.bus.SetBootROM(data)
}

// SetSerialWriter attaches a sink for serial-port output (spec.md §9).
func (m *Machine) SetSerialWriter(w io.Writer) {
	m.bus.SetSerialWriter(w)
}
