package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMBC2_ROMBanking(t *testing.T) {
	rom := make([]byte, 256*1024)
	for bank := 0; bank < 16; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC2(rom)
	require.Equal(t, byte(0x01), m.Read(0x4000), "defaults to bank 1")

	m.Write(0x2100, 0x05) // bit8 set selects ROM bank
	require.Equal(t, byte(0x05), m.Read(0x4000))

	m.Write(0x2100, 0x00)
	require.Equal(t, byte(0x01), m.Read(0x4000), "0 remaps to 1")
}

func TestMBC2_BuiltinRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC2(rom)

	require.Equal(t, byte(0xFF), m.Read(0xA000), "disabled RAM reads 0xFF")

	m.Write(0x0000, 0x0A) // bit8 clear enables RAM
	m.Write(0xA000, 0xF7)
	require.Equal(t, byte(0xF7), m.Read(0xA000), "upper nibble fixed to 1s, low nibble masked")

	m.Write(0xA000, 0x03)
	require.Equal(t, byte(0xF3), m.Read(0xA000))

	// Built-in RAM is 512 nibbles and mirrors across the A000-BFFF window.
	require.Equal(t, m.Read(0xA000), m.Read(0xA200))
}
