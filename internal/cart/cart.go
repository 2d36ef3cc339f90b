// Package cart implements cartridge ROM/RAM storage and the MBC1 banking
// controller, grounded on the teacher's internal/cart package. MBC2/3/5 are
// an explicit Non-goal (spec.md §1): unsupported cart types fall back to a
// ROM-only view per spec.md §7's UnsupportedMbc policy.
package cart

import "fmt"

// Cartridge is the minimal interface the bus needs for ROM/RAM banking.
type Cartridge interface {
	// Read returns a byte from ROM (0x0000-0x7FFF) or external RAM
	// (0xA000-0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000-0x7FFF) and external RAM
	// writes (0xA000-0xBFFF).
	Write(addr uint16, value byte)
}

// ErrUnsupportedMBC is returned by Load when the cartridge type is not
// RomOnly or MBC1. The caller may still choose to continue: the returned
// Cartridge is a ROM-only view that reads the image's first 32 KiB unbanked
// and returns 0xFF for external RAM. ROM reads are not degraded to 0xFF.
type ErrUnsupportedMBC struct{ CartType byte }

func (e *ErrUnsupportedMBC) Error() string {
	return fmt.Sprintf("cart: unsupported cartridge type %#02x", e.CartType)
}

// Load parses rom's header and returns a Cartridge implementation for it,
// along with the parsed Header. If the cart type isn't RomOnly or MBC1 a
// ROM-only fallback is returned alongside ErrUnsupportedMBC so the caller
// can decide whether that degraded mode is acceptable.
func Load(rom []byte) (Cartridge, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom), nil, err
	}
	switch h.CartTypeKind {
	case TypeROMOnly:
		return NewROMOnly(rom), h, nil
	case TypeMBC1:
		return NewMBC1(rom, h.RAMSizeBytes), h, nil
	default:
		return NewROMOnly(rom), h, &ErrUnsupportedMBC{CartType: h.CartType}
	}
}
