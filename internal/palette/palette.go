// Package palette converts the core's 2-bit DMG shade indices into RGBA8888
// bytes, shared by internal/present (the live viewer) and cmd/gbcore's
// run subcommand (PNG/CRC32 output) so the two don't drift apart.
package palette

// DMG is the classic four-tone green-gray palette, indexed by shade.
var DMG = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// ToRGBA expands a slice of 2-bit shade indices into RGBA8888 bytes.
func ToRGBA(shades []byte) []byte {
	out := make([]byte, len(shades)*4)
	for i, s := range shades {
		c := DMG[s&0x03]
		copy(out[i*4:i*4+4], c[:])
	}
	return out
}
