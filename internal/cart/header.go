package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

// CartType classifies the byte at 0x147 into the families this core
// supports or explicitly does not (spec.md §4.1, §7).
type CartType int

const (
	TypeROMOnly CartType = iota
	TypeMBC1
	TypeMBC2
	TypeMBC3
	TypeUnknown
)

func classifyCartType(b byte) CartType {
	switch {
	case b == 0x00:
		return TypeROMOnly
	case b >= 0x01 && b <= 0x03:
		return TypeMBC1
	case b == 0x05 || b == 0x06:
		return TypeMBC2
	case b >= 0x0F && b <= 0x13:
		return TypeMBC3
	default:
		return TypeUnknown
	}
}

func (t CartType) String() string {
	switch t {
	case TypeROMOnly:
		return "ROM ONLY"
	case TypeMBC1:
		return "MBC1"
	case TypeMBC2:
		return "MBC2"
	case TypeMBC3:
		return "MBC3"
	default:
		return "Unknown"
	}
}

// Header holds the parsed cartridge header at 0x100-0x14F.
type Header struct {
	Title          string
	CartType       byte
	CartTypeKind   CartType
	ROMSizeCode    byte
	RAMSizeCode    byte
	HeaderChecksum byte
	GlobalChecksum uint16

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
}

// ErrROMTooSmall is returned by ParseHeader when the image is too short to
// contain a header (spec.md §4.1: "reject if file < 0x150 bytes").
type ErrROMTooSmall struct{ Len int }

func (e *ErrROMTooSmall) Error() string {
	return fmt.Sprintf("cart: ROM too small (%d bytes) to contain a header", e.Len)
}

// ParseHeader reads the fixed-offset header fields out of rom.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, &ErrROMTooSmall{Len: len(rom)}
	}

	rawTitle := rom[0x0134:0x0144]
	title := strings.TrimRight(string(rawTitle), "\x00")

	h := &Header{
		Title:          title,
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}
	h.CartTypeKind = classifyCartType(h.CartType)
	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	return h, nil
}

// HeaderChecksumOK verifies the header checksum invariant from spec.md §8:
// sum(a=0x134..=0x14C)(-rom[a]-1) mod 256 == rom[0x14D].
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

func decodeROMSize(code byte) (size, banks int) {
	switch code {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08:
		banks = 2 << code
		size = banks * 0x4000
		return size, banks
	case 0x52:
		return 1152 * 1024, 72
	case 0x53:
		return 1280 * 1024, 80
	case 0x54:
		return 1536 * 1024, 96
	default:
		return 0, 0
	}
}

// decodeRAMSize follows the table in spec.md §4.1 literally:
// {0,0,2K,8K,32K,128K,64K,...} for codes 0x00..0x06.
func decodeRAMSize(code byte) int {
	switch code {
	case 0x00, 0x01:
		return 0
	case 0x02:
		return 2 * 1024
	case 0x03:
		return 8 * 1024
	case 0x04:
		return 32 * 1024
	case 0x05:
		return 128 * 1024
	case 0x06:
		return 64 * 1024
	default:
		return 0
	}
}
