package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBus is a flat 64KiB RAM implementing MemBus, enough to drive the
// interpreter without a real cart/ppu/timer stack.
type fakeBus struct {
	mem     [0x10000]byte
	ie, if_ byte
}

func (f *fakeBus) Read(addr uint16) byte     { return f.mem[addr] }
func (f *fakeBus) Write(addr uint16, v byte) { f.mem[addr] = v }
func (f *fakeBus) IE() byte                  { return f.ie }
func (f *fakeBus) IF() byte                  { return f.if_ }
func (f *fakeBus) SetIF(v byte)              { f.if_ = v }

func newFakeBus() *fakeBus { return &fakeBus{} }

func tickN(c *CPU, b MemBus, n int) {
	for i := 0; i < n; i++ {
		c.Tick(b)
	}
}

func TestNOPSled_AdvancesPCOneCycleEach(t *testing.T) {
	b := newFakeBus()
	c := New()
	for i := uint16(0); i < 4; i++ {
		b.mem[0x0100+i] = 0x00
	}
	tickN(c, b, 4)
	require.Equal(t, uint16(0x0104), c.PC)
	require.Equal(t, 0, c.BusyCycles())
}

func TestBusyCycles_DecrementsThenDispatchesNext(t *testing.T) {
	b := newFakeBus()
	c := New()
	// LD BC,d16 (3 M-cycles), then NOP.
	b.mem[0x0100] = 0x01
	b.mem[0x0101] = 0x34
	b.mem[0x0102] = 0x12
	b.mem[0x0103] = 0x00

	c.Tick(b) // dispatch: executes fully, busyCycles set to 2
	require.Equal(t, uint16(0x1234), c.getBC())
	require.Equal(t, 2, c.BusyCycles())

	c.Tick(b)
	require.Equal(t, 1, c.BusyCycles())
	c.Tick(b)
	require.Equal(t, 0, c.BusyCycles())

	c.Tick(b) // now dispatches the NOP
	require.Equal(t, uint16(0x0104), c.PC)
}

func TestADD_SetsOverflowAndHalfCarry(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.A = 0xFF
	c.B = 0x01
	b.mem[0x0100] = 0x80 // ADD A,B
	c.Tick(b)
	require.Equal(t, byte(0x00), c.A)
	require.True(t, c.flagSet(flagZ))
	require.True(t, c.flagSet(flagH))
	require.True(t, c.flagSet(flagC))
	require.False(t, c.flagSet(flagN))
}

func TestDAA_AfterBCDAdd(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.A = 0x45
	c.B = 0x38
	b.mem[0x0100] = 0x80 // ADD A,B -> 0x7D
	b.mem[0x0101] = 0x27 // DAA -> 0x83 (BCD for 45+38=83)
	tickN(c, b, 2)
	require.Equal(t, byte(0x83), c.A)
	require.False(t, c.flagSet(flagC))
}

func TestInterruptDispatch_PushesPCAndJumps(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.IME = true
	b.ie = 0x01
	b.if_ = 0x01
	b.mem[0x0100] = 0x00 // NOP, never reached this tick

	c.Tick(b)

	require.Equal(t, uint16(0x0040), c.PC)
	require.False(t, c.IME)
	require.Equal(t, byte(0x00), b.if_, "VBLANK bit cleared on dispatch")
	require.Equal(t, uint16(0x0100), c.pop16(b), "old PC was pushed")
}

func TestInterruptDispatch_LowestBitWins(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.IME = true
	b.ie = 0x1F
	b.if_ = 0x06 // LCDC(1) and TIMER(2) both pending
	c.Tick(b)
	require.Equal(t, uint16(0x0048), c.PC, "LCDC (bit1) wins over TIMER (bit2)")
	require.Equal(t, byte(0x04), b.if_, "only the dispatched bit is cleared")
}

func TestHalt_StaysHaltedOnPendingWhenIMEOff(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.IME = false
	c.Halted = true
	b.ie = 0x01
	b.if_ = 0x01
	b.mem[c.PC] = 0x00

	c.Tick(b)
	require.True(t, c.Halted, "a pending interrupt alone must not clear HALTED while IME is false")
	require.Equal(t, byte(0x01), b.if_, "interrupt is not serviced, IF untouched")
}

func TestFlagsLowNibbleAlwaysZero(t *testing.T) {
	c := New()
	c.setZNHC(true, true, true, true)
	require.Equal(t, byte(0), c.F&0x0F)
}

func TestPopAF_MasksLowNibble(t *testing.T) {
	b := newFakeBus()
	c := New()
	c.SP = 0xFFFE
	c.push16(b, 0x1234)
	c.PC = 0x0100
	b.mem[0x0100] = 0xF1 // POP AF
	c.Tick(b)
	require.Equal(t, byte(0x30), c.F, "low nibble of popped F masked to 0")
}
