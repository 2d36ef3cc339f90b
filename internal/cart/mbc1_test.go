package cart

import "testing"

func TestMBC1ROMBanking(t *testing.T) {
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 (default) read got %02X want 01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	// spec.md §8 invariant: writing 0x00 remaps to bank 1, never bank 0.
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

func TestMBC1RAMBankingMode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := NewMBC1(rom, 32*1024)

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // mode 1: RAM banking
	m.Write(0x4000, 0x02) // RAM bank 2

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	rom := make([]byte, 32*1024)
	m := NewMBC1(rom, 8*1024)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %02X want FF", got)
	}
	m.Write(0xA000, 0x42) // ignored while disabled
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM write should be ignored, got %02X", got)
	}
}

func TestMBC1Mode0LowBankFixedAtZero(t *testing.T) {
	rom := make([]byte, 1024*1024)
	rom[0] = 0xAA
	rom[0x20*0x4000] = 0xBB // bank 0x20 (selected via ram_bank=1 high bits)
	m := NewMBC1(rom, 0)
	m.Write(0x4000, 0x01) // ram_bank/high bits = 1
	// Mode 0: low region ignores the high bits entirely.
	if got := m.Read(0x0000); got != 0xAA {
		t.Fatalf("mode0 low bank got %02X want AA", got)
	}
}
