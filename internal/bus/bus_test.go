package bus

import (
	"testing"

	"goboycore/internal/cart"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	c, _, err := cart.Load(rom)
	if err != nil {
		t.Fatalf("cart.Load: %v", err)
	}
	return New(c)
}

func TestWRAMEchoMirror(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC005, 0x42)
	if got := b.Read(0xE005); got != 0x42 {
		t.Fatalf("echo read got %02X want 42", got)
	}
	b.Write(0xE010, 0x99)
	if got := b.Read(0xC010); got != 0x99 {
		t.Fatalf("echo write-through got %02X want 99", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0xFEA5); got != 0xFF {
		t.Fatalf("unusable region read got %02X want FF", got)
	}
}

func TestHRAMRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF90, 0x7A)
	if got := b.Read(0xFF90); got != 0x7A {
		t.Fatalf("HRAM round trip got %02X want 7A", got)
	}
}

func TestIERegister(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Fatalf("IE round trip got %02X want 1F", got)
	}
}

func TestOAMDMATransfersAfter160Cycles(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC000, 0xAB) // source data living in WRAM (mirrors the usual 0xC0 source page)
	b.Write(0xFF46, 0xC0) // start DMA from 0xC000
	if !b.dma.Active() {
		t.Fatalf("expected DMA active immediately after trigger")
	}
	b.Tick(160)
	if b.dma.Active() {
		t.Fatalf("expected DMA to finish after 160 cycles")
	}
	if got := b.Read(0xFE00); got != 0xAB {
		t.Fatalf("OAM[0] after DMA got %02X want AB", got)
	}
}

func TestOAMBlockedDuringDMA(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF46, 0xC0)
	if got := b.Read(0xFE00); got != 0xFF {
		t.Fatalf("OAM read during DMA got %02X want FF", got)
	}
}

func TestSerialWriterReceivesByte(t *testing.T) {
	b := newTestBus(t)
	var got []byte
	b.SetSerialWriter(writerFunc(func(p []byte) (int, error) {
		got = append(got, p...)
		return len(p), nil
	}))
	b.Write(0xFF01, 'X')
	b.Write(0xFF02, 0x81)
	if len(got) != 1 || got[0] != 'X' {
		t.Fatalf("serial writer got %v want [X]", got)
	}
	if b.Read(0xFF0F)&0x08 == 0 {
		t.Fatalf("expected serial interrupt flag set")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
