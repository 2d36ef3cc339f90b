// Package machine assembles cartridge, bus, and CPU into a runnable unit
// and drives the cycle-accurate frame loop, grounded on the teacher's
// internal/emu.Machine (which was itself only a "Milestone 0" stub -- this
// package supplies the real CPU/Bus wiring and frame-stepping logic the
// stub's callers in cmd/gbemu and internal/ui already assumed existed).
package machine

import (
	"log"

	"goboycore/internal/bus"
	"goboycore/internal/cart"
	"goboycore/internal/cpu"
)

// cyclesPerFrame is the fixed T-cycle budget of one 59.7Hz DMG frame
// (154 scanlines * 456 dots), spec.md §6.
const cyclesPerFrame = 154 * 456

// Machine owns the cartridge, bus, and CPU for a single loaded ROM.
type Machine struct {
	cfg Config

	bus *bus.Bus
	cpu *cpu.CPU

	cartType byte
	romPath  string
}

// New parses rom's header, constructs its cartridge (falling back to a
// ROM-only view and logging a warning on an unsupported MBC per spec.md
// §7), and wires a fresh Bus and CPU around it.
func New(cfg Config, rom []byte) (*Machine, error) {
	c, h, err := cart.Load(rom)
	if err != nil {
		if _, ok := err.(*cart.ErrUnsupportedMBC); ok {
			log.Printf("machine: %v; continuing in degraded ROM-only mode", err)
		} else {
			return nil, err
		}
	}
	b := bus.New(c)
	cc := cpu.New(b)
	cc.ResetPostBoot()

	m := &Machine{cfg: cfg, bus: b, cpu: cc}
	if h != nil {
		m.cartType = h.CartType
	}
	return m, nil
}

// SetBootROM maps data over 0x0000-0x00FF and resets PC to 0x0000 so
// execution starts from the boot sequence instead of the post-boot state.
func (m *Machine) SetBootROM(data []byte) {
	m.bus.SetBootROM(data)
	m.cpu.SetPC(0x0000)
}

// SetButtons updates which buttons are currently held (spec.md §6); mask
// bits follow the joypad package's Right..Start constants.
func (m *Machine) SetButtons(mask byte) { m.bus.SetButtons(mask) }

// SetSerialWriter directs completed serial-port bytes to w (used by the
// headless harness to watch for a blargg-style pass/fail banner).
func (m *Machine) SetSerialWriter(w interface{ Write([]byte) (int, error) }) {
	m.bus.SetSerialWriter(w)
}

// Framebuffer returns the PPU's current 160x144 ARGB pixel buffer.
func (m *Machine) Framebuffer() *[160 * 144]uint32 { return m.bus.PPU().Framebuffer() }

// RunFrame executes CPU instructions until at least one full frame's worth
// of T-cycles has elapsed, and returns the number of cycles actually run
// (always >= cyclesPerFrame, since instructions don't split mid-cycle).
func (m *Machine) RunFrame() int {
	total := 0
	for total < cyclesPerFrame {
		if m.cfg.Trace {
			log.Printf("machine: pc=%#04x", m.cpu.PC)
		}
		total += m.cpu.Step()
	}
	return total
}

// CPU exposes the CPU for tools and tests that need direct register access.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Bus exposes the bus for tools and tests.
func (m *Machine) Bus() *bus.Bus { return m.bus }
