package cart

// ROMOnly is a cartridge with no banking and no external RAM.
type ROMOnly struct {
	rom []byte
}

// NewROMOnly wraps rom bytes with no banking.
func NewROMOnly(rom []byte) *ROMOnly { return &ROMOnly{rom: rom} }

func (c *ROMOnly) Read(addr uint16) byte {
	if addr < 0x8000 && int(addr) < len(c.rom) {
		return c.rom[addr]
	}
	return 0xFF
}

// Write is a no-op: ROM-only carts have no control registers or RAM.
func (c *ROMOnly) Write(addr uint16, value byte) {}
