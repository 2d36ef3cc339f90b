package machine

import (
	"bytes"
	"testing"

	"goboycore/internal/joypad"
)

func blankROM() []byte {
	rom := make([]byte, 0x8000)
	// An infinite JR -2 loop keeps RunFrame from running off the end of ROM.
	rom[0x0100] = 0x18
	rom[0x0101] = 0xFE
	return rom
}

func TestNewDefaultsToPostBootState(t *testing.T) {
	m, err := New(Config{}, blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.cpu.PC != 0x0100 {
		t.Fatalf("PC got %#04x want 0x0100 post-boot", m.cpu.PC)
	}
}

func TestRunFrameConsumesAtLeastOneFrameOfCycles(t *testing.T) {
	m, err := New(Config{}, blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cycles := m.RunFrame()
	if cycles < cyclesPerFrame {
		t.Fatalf("RunFrame consumed %d cycles, want >= %d", cycles, cyclesPerFrame)
	}
}

func TestSetButtonsReachesJoypadRegister(t *testing.T) {
	m, err := New(Config{}, blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Bus().Write(0xFF00, 0x20) // select D-pad
	m.SetButtons(joypad.Right)
	if got := m.Bus().Read(0xFF00) & 0x01; got != 0 {
		t.Fatalf("Right bit got %d want 0 (pressed)", got)
	}
}

func TestSerialWriterReceivesBytesThroughMachine(t *testing.T) {
	m, err := New(Config{}, blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	m.SetSerialWriter(&buf)
	m.Bus().Write(0xFF01, 'Q')
	m.Bus().Write(0xFF02, 0x81)
	if buf.String() != "Q" {
		t.Fatalf("serial output got %q want %q", buf.String(), "Q")
	}
}
