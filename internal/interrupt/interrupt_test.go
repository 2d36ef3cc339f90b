package interrupt

import "testing"

func TestVectorsAreSpacedBy8(t *testing.T) {
	for _, k := range All {
		want := uint16(0x0040) + uint16(k.Bit())*8
		if k.Vector() != want {
			t.Fatalf("%v vector got %#04x want %#04x", k, k.Vector(), want)
		}
	}
}

func TestHighestRespectsPriorityOrder(t *testing.T) {
	pending := Timer.Mask() | Joypad.Mask() | LCDSTAT.Mask()
	k, ok := Highest(pending)
	if !ok || k != LCDSTAT {
		t.Fatalf("Highest got %v want LCDSTAT", k)
	}
}

func TestHighestNoneSetReturnsFalse(t *testing.T) {
	if _, ok := Highest(0); ok {
		t.Fatalf("expected ok=false for empty pending mask")
	}
}
