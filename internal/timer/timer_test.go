package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTIMA_IncrementsOnFallingEdge(t *testing.T) {
	fired := false
	tm := New(func() { fired = true })
	tm.Write(RegTAC, 0x05) // enabled, prescaler bit3 (262144 Hz)

	for i := 0; i < 16; i++ { // bit 3 first falls on the 16th tick
		tm.Tick()
	}
	require.Equal(t, byte(1), tm.tima)
	require.False(t, fired)
}

func TestTIMA_OverflowReloadsFromTMAAndSetsIF(t *testing.T) {
	fired := false
	tm := New(func() { fired = true })
	tm.Write(RegTMA, 0x10)
	tm.Write(RegTAC, 0x05)
	tm.tima = 0xFF

	for i := 0; i < 16; i++ { // trigger the falling edge that overflows TIMA
		tm.Tick()
	}
	require.Equal(t, byte(0x00), tm.tima)

	for i := 0; i < 4; i++ { // reloadDelay counts down over the next 4 ticks
		tm.Tick()
	}
	require.Equal(t, byte(0x10), tm.tima)
	require.True(t, fired)
}

func TestDIV_CPUWriteResetsToZero(t *testing.T) {
	tm := New(nil)
	for i := 0; i < 100; i++ {
		tm.Tick()
	}
	require.NotEqual(t, byte(0), tm.Read(RegDIV))
	tm.Write(RegDIV, 0xFF)
	require.Equal(t, byte(0), tm.Read(RegDIV))
}

func TestTAC_DisabledNeverIncrements(t *testing.T) {
	tm := New(nil)
	tm.Write(RegTAC, 0x00) // disabled
	for i := 0; i < 10000; i++ {
		tm.Tick()
	}
	require.Equal(t, byte(0), tm.tima)
}
