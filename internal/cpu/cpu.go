// Package cpu implements the Sharp SM83 instruction set: the primary
// opcode table, the CB-prefixed extension table, interrupt dispatch, and
// HALT/STOP/EI-delay semantics. Grounded on the teacher's internal/cpu
// package, restructured to depend on a Bus interface rather than a
// concrete *bus.Bus (spec.md Design Notes §9) and extended with the STOP
// opcode and unknown-opcode logging the teacher's switch never implemented.
package cpu

import (
	"log"

	"goboycore/internal/interrupt"
)

// Bus is the address space a CPU executes against. bus.Bus satisfies it;
// tests may supply a fake to exercise the CPU in isolation.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	Tick(cycles int)
	IE() byte
	IF() byte
	SetIF(v byte)
}

// CPU implements the Sharp SM83 core: 8-bit registers A/F/B/C/D/E/H/L, the
// 16-bit SP/PC pair, IME/HALT state, and the delayed-EI quirk.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME       bool
	halted    bool
	stopped   bool
	eiPending bool

	bus Bus

	loggedUnknown map[byte]bool
}

// New creates a CPU wired to bus, with SP/PC at the values the teacher's
// scaffold boots with; call ResetPostBoot for the typical DMG post-boot
// register state instead when no boot ROM is attached.
func New(b Bus) *CPU {
	return &CPU{bus: b, SP: 0xFFFE, PC: 0x0000, loggedUnknown: make(map[byte]bool)}
}

// SetPC lets a boot stub or test set the program counter directly.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying bus for tests and tools.
func (c *CPU) Bus() Bus { return c.bus }

// ResetPostBoot sets registers to the standard DMG post-boot state, for use
// when running without a boot ROM (spec.md §6).
func (c *CPU) ResetPostBoot() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.halted = false
	c.stopped = false
	c.eiPending = false
}

const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func (c *CPU) sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b&0x0F)+ci
	cy = int16(a) < int16(b)+int16(ci)
	return
}

func (c *CPU) and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	return res, res == 0, false, true, false
}

func (c *CPU) xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	return res, res == 0, false, false, false
}

func (c *CPU) or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	return res, res == 0, false, false, false
}

func (c *CPU) cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = c.sub8(a, b)
	return
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | (hi << 8)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | (hi << 8)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v&0x00FF))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// serviceInterrupt dispatches the highest-priority pending, enabled
// interrupt (spec.md §4.6's fixed VBlank>LCDSTAT>Timer>Serial>Joypad
// order), costing 20 cycles, or returns 0 if nothing is pending.
func (c *CPU) serviceInterrupt() int {
	pending := c.bus.IE() & c.bus.IF() & 0x1F
	kind, ok := interrupt.Highest(pending)
	if !ok {
		return 0
	}
	c.bus.SetIF(c.bus.IF() &^ kind.Mask())
	c.halted = false
	c.IME = false
	c.push16(c.PC)
	c.PC = kind.Vector()
	return 20
}

// Step executes exactly one instruction (or one HALT-sleep tick, or one
// interrupt dispatch) and returns the T-cycles it consumed, ticking the bus
// by that amount before returning. EI's enable is delayed by a full
// instruction: an EI executed during this call only arms c.eiPending, which
// this same call leaves untouched; the *following* Step call is the one that
// applies it, once that following instruction has finished executing.
func (c *CPU) Step() (cycles int) {
	applyEI := c.eiPending
	c.eiPending = false

	defer func() {
		if cycles > 0 {
			c.bus.Tick(cycles)
		}
		if applyEI {
			c.IME = true
		}
	}()

	if c.halted {
		if c.IME {
			if cyc := c.serviceInterrupt(); cyc != 0 {
				return cyc
			}
			return 4
		} else {
			if (c.bus.IF() & c.bus.IE() & 0x1F) != 0 {
				c.halted = false
			} else {
				return 4
			}
		}
	}

	if c.IME {
		if cyc := c.serviceInterrupt(); cyc != 0 {
			return cyc
		}
	}

	op := c.fetch8()
	return c.execute(op)
}

func regGet(c *CPU, idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	default:
		return c.A
	}
}

func regSet(c *CPU, idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	default:
		c.A = v
	}
}

func (c *CPU) execute(op byte) int {
	switch op {
	case 0x00: // NOP
		return 4
	case 0x10: // STOP
		c.fetch8() // the mandatory (and ignored) 0x00 operand byte
		c.stopped = true
		return 4

	case 0x06:
		c.B = c.fetch8()
		return 8
	case 0x0E:
		c.C = c.fetch8()
		return 8
	case 0x16:
		c.D = c.fetch8()
		return 8
	case 0x1E:
		c.E = c.fetch8()
		return 8
	case 0x26:
		c.H = c.fetch8()
		return 8
	case 0x2E:
		c.L = c.fetch8()
		return 8
	case 0x3E:
		c.A = c.fetch8()
		return 8

	case 0x76: // HALT
		c.halted = true
		return 4

	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7F:
		d := (op >> 3) & 7
		s := op & 7
		regSet(c, d, regGet(c, s))
		if d == 6 || s == 6 {
			return 8
		}
		return 4

	case 0x01:
		c.setBC(c.fetch16())
		return 12
	case 0x11:
		c.setDE(c.fetch16())
		return 12
	case 0x21:
		c.setHL(c.fetch16())
		return 12
	case 0x31:
		c.SP = c.fetch16()
		return 12
	case 0x08:
		addr := c.fetch16()
		c.write16(addr, c.SP)
		return 20

	case 0x36:
		c.write8(c.getHL(), c.fetch8())
		return 12

	case 0x02:
		c.write8(c.getBC(), c.A)
		return 8
	case 0x12:
		c.write8(c.getDE(), c.A)
		return 8
	case 0x0A:
		c.A = c.read8(c.getBC())
		return 8
	case 0x1A:
		c.A = c.read8(c.getDE())
		return 8

	case 0x22:
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 8
	case 0x2A:
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 8
	case 0x32:
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 8
	case 0x3A:
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 8

	case 0xE0:
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 12
	case 0xF0:
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 12
	case 0xE2:
		c.write8(0xFF00+uint16(c.C), c.A)
		return 8
	case 0xF2:
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 8

	case 0x07: // RLCA
		cval := (c.A >> 7) & 1
		c.A = (c.A << 1) | cval
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x0F: // RRCA
		cval := c.A & 1
		c.A = (c.A >> 1) | (cval << 7)
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x17: // RLA
		cval := (c.A >> 7) & 1
		var carry byte
		if c.F&flagC != 0 {
			carry = 1
		}
		c.A = (c.A << 1) | carry
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x1F: // RRA
		cval := c.A & 1
		var carry byte
		if c.F&flagC != 0 {
			carry = 1
		}
		c.A = (c.A >> 1) | (carry << 7)
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x27: // DAA
		a := c.A
		cf := c.F&flagC != 0
		if c.F&flagN == 0 {
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if c.F&flagH != 0 || (a&0x0F) > 9 {
				a += 0x06
			}
		} else {
			if cf {
				a -= 0x60
			}
			if c.F&flagH != 0 {
				a -= 0x06
			}
		}
		c.A = a
		c.setZNHC(c.A == 0, c.F&flagN != 0, false, cf)
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		c.F = (c.F & (flagZ | flagC)) | flagN | flagH
		return 4
	case 0x37: // SCF
		c.F = (c.F & flagZ) | flagC
		return 4
	case 0x3F: // CCF
		cy := c.F&flagC == 0
		c.F = c.F & flagZ
		if cy {
			c.F |= flagC
		}
		return 4

	case 0x04:
		old := c.B
		c.B++
		c.setZNHC(c.B == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x0C:
		old := c.C
		c.C++
		c.setZNHC(c.C == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x14:
		old := c.D
		c.D++
		c.setZNHC(c.D == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x1C:
		old := c.E
		c.E++
		c.setZNHC(c.E == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x24:
		old := c.H
		c.H++
		c.setZNHC(c.H == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x2C:
		old := c.L
		c.L++
		c.setZNHC(c.L == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x3C:
		old := c.A
		c.A++
		c.setZNHC(c.A == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x34:
		addr := c.getHL()
		old := c.read8(addr)
		v := old + 1
		c.write8(addr, v)
		c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 12

	case 0x05:
		old := c.B
		c.B--
		c.setZNHC(c.B == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x0D:
		old := c.C
		c.C--
		c.setZNHC(c.C == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x15:
		old := c.D
		c.D--
		c.setZNHC(c.D == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x1D:
		old := c.E
		c.E--
		c.setZNHC(c.E == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x25:
		old := c.H
		c.H--
		c.setZNHC(c.H == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x2D:
		old := c.L
		c.L--
		c.setZNHC(c.L == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x3D:
		old := c.A
		c.A--
		c.setZNHC(c.A == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x35:
		addr := c.getHL()
		old := c.read8(addr)
		v := old - 1
		c.write8(addr, v)
		c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 12

	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87:
		r, z, n, h, cy := c.add8(c.A, aluSrc(c, op))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F:
		r, z, n, h, cy := c.adc8(c.A, aluSrc(c, op), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		r, z, n, h, cy := c.sub8(c.A, aluSrc(c, op))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F:
		r, z, n, h, cy := c.sbc8(c.A, aluSrc(c, op), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7:
		r, z, n, h, cy := c.and8(c.A, aluSrc(c, op))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF:
		r, z, n, h, cy := c.xor8(c.A, aluSrc(c, op))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		r, z, n, h, cy := c.or8(c.A, aluSrc(c, op))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCost(op)
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		z, n, h, cy := c.cp8(c.A, aluSrc(c, op))
		c.setZNHC(z, n, h, cy)
		return aluCost(op)

	case 0xC6:
		r, z, n, h, cy := c.add8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xCE:
		r, z, n, h, cy := c.adc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xD6:
		r, z, n, h, cy := c.sub8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xDE:
		r, z, n, h, cy := c.sbc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xE6:
		r, z, n, h, cy := c.and8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xEE:
		r, z, n, h, cy := c.xor8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xF6:
		r, z, n, h, cy := c.or8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xFE:
		z, n, h, cy := c.cp8(c.A, c.fetch8())
		c.setZNHC(z, n, h, cy)
		return 8

	case 0xEA:
		addr := c.fetch16()
		c.write8(addr, c.A)
		return 16
	case 0xFA:
		addr := c.fetch16()
		c.A = c.read8(addr)
		return 16

	case 0xC3:
		c.PC = c.fetch16()
		return 16
	case 0xE9:
		c.PC = c.getHL()
		return 4
	case 0x18:
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12

	case 0x20:
		off := int8(c.fetch8())
		if c.F&flagZ == 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x28:
		off := int8(c.fetch8())
		if c.F&flagZ != 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x30:
		off := int8(c.fetch8())
		if c.F&flagC == 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x38:
		off := int8(c.fetch8())
		if c.F&flagC != 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8

	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	case 0xC9:
		c.PC = c.pop16()
		return 16
	case 0xD9:
		c.PC = c.pop16()
		c.IME = true
		return 16

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(op - 0xC7)
		return 16

	case 0xC4:
		addr := c.fetch16()
		if c.F&flagZ == 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xCC:
		addr := c.fetch16()
		if c.F&flagZ != 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xD4:
		addr := c.fetch16()
		if c.F&flagC == 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xDC:
		addr := c.fetch16()
		if c.F&flagC != 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12

	case 0xC0:
		if c.F&flagZ == 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xC8:
		if c.F&flagZ != 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xD0:
		if c.F&flagC == 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xD8:
		if c.F&flagC != 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8

	case 0xC2:
		addr := c.fetch16()
		if c.F&flagZ == 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xCA:
		addr := c.fetch16()
		if c.F&flagZ != 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xD2:
		addr := c.fetch16()
		if c.F&flagC == 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xDA:
		addr := c.fetch16()
		if c.F&flagC != 0 {
			c.PC = addr
			return 16
		}
		return 12

	case 0x03:
		c.setBC(c.getBC() + 1)
		return 8
	case 0x13:
		c.setDE(c.getDE() + 1)
		return 8
	case 0x23:
		c.setHL(c.getHL() + 1)
		return 8
	case 0x33:
		c.SP++
		return 8
	case 0x0B:
		c.setBC(c.getBC() - 1)
		return 8
	case 0x1B:
		c.setDE(c.getDE() - 1)
		return 8
	case 0x2B:
		c.setHL(c.getHL() - 1)
		return 8
	case 0x3B:
		c.SP--
		return 8

	case 0x09, 0x19, 0x29, 0x39:
		hl := c.getHL()
		var rhs uint16
		switch op {
		case 0x09:
			rhs = c.getBC()
		case 0x19:
			rhs = c.getDE()
		case 0x29:
			rhs = hl
		case 0x39:
			rhs = c.SP
		}
		r := uint32(hl) + uint32(rhs)
		h := (hl&0x0FFF)+(rhs&0x0FFF) > 0x0FFF
		c.setHL(uint16(r))
		c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
		return 8

	case 0xF8: // LD HL,SP+r8
		off := int8(c.fetch8())
		res := uint16(int32(int16(c.SP)) + int32(off))
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(res)
		c.setZNHC(false, false, h, cy)
		return 12
	case 0xF9:
		c.SP = c.getHL()
		return 8
	case 0xE8: // ADD SP,r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.SP = uint16(int32(int16(c.SP)) + int32(off))
		c.setZNHC(false, false, h, cy)
		return 16

	case 0xF3:
		c.IME = false
		c.eiPending = false
		return 4
	case 0xFB:
		c.eiPending = true
		return 4

	case 0xCB:
		return c.executeCB()

	case 0xF5:
		c.push16(c.getAF())
		return 16
	case 0xC5:
		c.push16(c.getBC())
		return 16
	case 0xD5:
		c.push16(c.getDE())
		return 16
	case 0xE5:
		c.push16(c.getHL())
		return 16
	case 0xF1:
		c.setAF(c.pop16())
		return 12
	case 0xC1:
		c.setBC(c.pop16())
		return 12
	case 0xD1:
		c.setDE(c.pop16())
		return 12
	case 0xE1:
		c.setHL(c.pop16())
		return 12

	default:
		if !c.loggedUnknown[op] {
			log.Printf("cpu: unknown opcode %#02x at pc=%#04x, treating as NOP", op, c.PC-1)
			c.loggedUnknown[op] = true
		}
		return 4
	}
}

// aluSrc maps the low 3 bits of an 0x80-0xBF opcode to its operand.
func aluSrc(c *CPU, op byte) byte { return regGet(c, op&7) }

func aluCost(op byte) int {
	if op&7 == 6 {
		return 8
	}
	return 4
}
