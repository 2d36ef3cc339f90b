package joypad

import (
	"testing"

	"goboycore/internal/interrupt"
)

func TestReadDefaultsToAllReleased(t *testing.T) {
	j := New()
	if got := j.Read(); got&0x0F != 0x0F {
		t.Fatalf("default lower nibble got %#02x want all-1 (released)", got&0x0F)
	}
}

func TestDPadSelectReflectsPressedButtons(t *testing.T) {
	j := New()
	j.Write(0x20, func(interrupt.Kind) {}) // select D-pad (P14=0, P15=1)
	j.SetState(Right|Down, func(interrupt.Kind) {})
	got := j.Read() & 0x0F
	if got&0x01 != 0 {
		t.Fatalf("Right bit should read 0 (pressed), got nibble %#02x", got)
	}
	if got&0x08 != 0 {
		t.Fatalf("Down bit should read 0 (pressed), got nibble %#02x", got)
	}
	if got&0x02 == 0 || got&0x04 == 0 {
		t.Fatalf("Left/Up should read 1 (released), got nibble %#02x", got)
	}
}

func TestButtonGroupSelect(t *testing.T) {
	j := New()
	j.Write(0x10, func(interrupt.Kind) {}) // select buttons (P14=1, P15=0)
	j.SetState(A|Start, func(interrupt.Kind) {})
	got := j.Read() & 0x0F
	if got&0x01 != 0 {
		t.Fatalf("A bit should read 0 (pressed), got nibble %#02x", got)
	}
	if got&0x08 != 0 {
		t.Fatalf("Start bit should read 0 (pressed), got nibble %#02x", got)
	}
}

func TestPressEdgeFiresJoypadInterrupt(t *testing.T) {
	j := New()
	j.Write(0x20, func(interrupt.Kind) {}) // select D-pad
	var fired int
	j.SetState(Right, func(k interrupt.Kind) {
		if k == interrupt.Joypad {
			fired++
		}
	})
	if fired != 1 {
		t.Fatalf("expected exactly one Joypad IRQ on press edge, got %d", fired)
	}
}

func TestHoldingButtonDoesNotRefire(t *testing.T) {
	j := New()
	j.Write(0x20, func(interrupt.Kind) {})
	j.SetState(Right, func(interrupt.Kind) {})
	var fired int
	j.SetState(Right, func(k interrupt.Kind) { fired++ })
	if fired != 0 {
		t.Fatalf("holding a button must not refire the interrupt, got %d fires", fired)
	}
}
