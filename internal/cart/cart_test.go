package cart

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func buildROMFor(cartType, romSizeCode, ramSizeCode byte, size int) []byte {
	rom := make([]byte, size)
	copy(rom[0x0134:0x0144], []byte("TESTROM"))
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	var hsum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		hsum = hsum - rom[addr] - 1
	}
	rom[0x014D] = hsum
	binary.BigEndian.PutUint16(rom[0x014E:0x0150], 0)
	return rom
}

func TestNew_VariantSelection(t *testing.T) {
	cases := []struct {
		name     string
		cartType byte
		want     any
	}{
		{"romonly", 0x00, &ROMOnly{}},
		{"romram", 0x08, &ROMOnly{}},
		{"mbc1", 0x01, &MBC1{}},
		{"mbc2", 0x05, &MBC2{}},
		{"mbc3", 0x0F, &MBC3{}},
		{"mbc5", 0x19, &MBC5{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rom := buildROMFor(tc.cartType, 0x00, 0x00, 32*1024)
			c, h, err := New(rom)
			require.NoError(t, err)
			require.NotNil(t, h)
			require.IsType(t, tc.want, c)
		})
	}
}

func TestNew_UnsupportedCartType(t *testing.T) {
	rom := buildROMFor(0x20, 0x00, 0x00, 32*1024)
	_, _, err := New(rom)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRomNotSupported))
}

func TestNew_InvalidRomTooSmall(t *testing.T) {
	_, _, err := New(make([]byte, 0x10))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidRom))
}
