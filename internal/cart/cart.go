package cart

import (
	"github.com/pkg/errors"
)

// ErrRomNotSupported is returned when the cartridge header names an MBC
// this core does not implement.
var ErrRomNotSupported = errors.New("cart: ROM not supported")

// ErrInvalidRom is returned when header fields reference ROM sizes past
// the end of the supplied byte vector.
var ErrInvalidRom = errors.New("cart: invalid ROM")

// Cartridge defines the minimal interface the Bus needs for ROM/RAM banking.
// Implementations can be ROM-only or MBC variants. Addresses are CPU addresses.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000–0x7FFF) and external RAM writes (0xA000–0xBFFF).
	Write(addr uint16, value byte)
}

// BatteryBacked is an optional interface for cartridges with external RAM,
// exporting/restoring exactly the bytes spec.md's ram() and load_ram() host
// calls operate on.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New parses a ROM header and constructs the matching cartridge variant.
// Cartridge type codes follow spec.md §6: 0x00 -> RomOnly, 0x01-0x03 -> MBC1,
// 0x05-0x06 -> MBC2, 0x08-0x09 -> ROM+RAM (treated as RomOnly), 0x19-0x1E ->
// MBC5. MBC3 (0x0F-0x13) is a supplemental variant beyond spec.md's required
// four (see SPEC_FULL.md §9). Any other code is ErrRomNotSupported.
func New(rom []byte) (Cartridge, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidRom, err.Error())
	}
	if h.ROMSizeBytes > 0 && len(rom) < h.ROMSizeBytes {
		return nil, h, errors.Wrapf(ErrInvalidRom, "header declares %d ROM bytes, got %d", h.ROMSizeBytes, len(rom))
	}

	switch h.CartType {
	case 0x00, 0x08, 0x09:
		return NewROMOnly(rom), h, nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.RAMSizeBytes), h, nil
	case 0x05, 0x06:
		return NewMBC2(rom), h, nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(rom, h.RAMSizeBytes), h, nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return NewMBC5(rom, h.RAMSizeBytes), h, nil
	default:
		return nil, h, errors.Wrapf(ErrRomNotSupported, "cart type %#02x", h.CartType)
	}
}
