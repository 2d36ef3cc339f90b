// Package joypad implements the P1 (0xFF00) button matrix register,
// grounded on the teacher's internal/bus/bus.go joypad fields and
// updateJoypadIRQ, split into its own package.
package joypad

import "goboycore/internal/interrupt"

// Button bitmasks for SetState. A set bit means the button is held.
const (
	Right = 1 << 0
	Left  = 1 << 1
	Up    = 1 << 2
	Down  = 1 << 3
	A     = 1 << 4
	B     = 1 << 5
	Select = 1 << 6
	Start  = 1 << 7
)

// Joypad tracks which of the 8 buttons are held and the host-selected
// group(s), and raises Joypad IRQs on a released->pressed transition while
// that button's group is selected.
type Joypad struct {
	selectBits byte // bits 5:4 as last written to P1
	pressed    byte // button bitmask, Right..Start constants, 1=held
	lowerLatch byte // last computed active-low lower nibble, for edge detection
}

// New returns a Joypad with no buttons selected or held.
func New() *Joypad { return &Joypad{selectBits: 0x30, lowerLatch: 0x0F} }

// Read returns the CPU-visible P1 register value.
func (j *Joypad) Read() byte {
	return 0xC0 | (j.selectBits & 0x30) | j.lowerNibble()
}

// Write updates the write-select bits (4 and 5); the lower nibble is
// read-only from the CPU's perspective.
func (j *Joypad) Write(v byte, req func(interrupt.Kind)) {
	j.selectBits = v & 0x30
	j.updateIRQ(req)
}

// SetState replaces the full set of held buttons (Right..Start bitmask, 1=held)
// and raises a Joypad IRQ for any newly-pressed, currently-selected button.
func (j *Joypad) SetState(mask byte, req func(interrupt.Kind)) {
	j.pressed = mask
	j.updateIRQ(req)
}

func (j *Joypad) lowerNibble() byte {
	n := byte(0x0F)
	if j.selectBits&0x10 == 0 { // P14 low selects D-pad
		if j.pressed&Right != 0 {
			n &^= 0x01
		}
		if j.pressed&Left != 0 {
			n &^= 0x02
		}
		if j.pressed&Up != 0 {
			n &^= 0x04
		}
		if j.pressed&Down != 0 {
			n &^= 0x08
		}
	}
	if j.selectBits&0x20 == 0 { // P15 low selects buttons
		if j.pressed&A != 0 {
			n &^= 0x01
		}
		if j.pressed&B != 0 {
			n &^= 0x02
		}
		if j.pressed&Select != 0 {
			n &^= 0x04
		}
		if j.pressed&Start != 0 {
			n &^= 0x08
		}
	}
	return n
}

func (j *Joypad) updateIRQ(req func(interrupt.Kind)) {
	newLower := j.lowerNibble()
	if falling := j.lowerLatch &^ newLower; falling != 0 && req != nil {
		req(interrupt.Joypad)
	}
	j.lowerLatch = newLower
}
