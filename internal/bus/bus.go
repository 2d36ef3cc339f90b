// Package bus implements the CPU-visible 16-bit address decoder: the single
// point where cartridge, VRAM/OAM, work RAM, high RAM, and every IO register
// are wired together and ticked in lockstep. Grounded on the teacher's
// internal/bus/bus.go, restructured so each peripheral (timer, joypad, DMA,
// interrupts) is its own package instead of fields embedded directly on Bus
// (spec.md's System Overview component table; Design Notes §9's preference
// for small, independently testable units behind a Bus interface).
package bus

import (
	"io"

	"goboycore/internal/cart"
	"goboycore/internal/dma"
	"goboycore/internal/interrupt"
	"goboycore/internal/joypad"
	"goboycore/internal/ppu"
	"goboycore/internal/timer"
)

// Bus satisfies the cpu package's Bus interface: a flat byte-addressable
// 16-bit space plus a cycle-accurate Tick.
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte
	hram [0x7F]byte

	ppu    *ppu.PPU
	timer  *timer.Timer
	joypad *joypad.Joypad
	dma    *dma.Engine

	ie    byte
	ifReg byte

	sb byte
	sc byte
	sw io.Writer

	bootROM     []byte
	bootEnabled bool
}

// New wires a Bus around a loaded cartridge. The PPU and timer request
// interrupts directly against the shared IF register; the joypad does the
// same on a button-press edge.
func New(c cart.Cartridge) *Bus {
	b := &Bus{cart: c}
	b.ppu = ppu.New(b.request)
	b.timer = timer.New()
	b.joypad = joypad.New()
	b.dma = dma.New()
	return b
}

func (b *Bus) request(k interrupt.Kind) {
	b.ifReg |= k.Mask()
}

// PPU exposes the PPU for presenter framebuffer access.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Cart exposes the cartridge for header/battery inspection.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetButtons updates which buttons are currently held (spec.md §6); mask
// bits follow joypad.Right..joypad.Start.
func (b *Bus) SetButtons(mask byte) { b.joypad.SetState(mask, b.request) }

// SetSerialWriter directs completed serial transfer bytes to w, used by the
// headless harness to detect blargg-style test ROM pass/fail banners.
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// SetBootROM maps data (must be >= 256 bytes) over 0x0000-0x00FF until the
// program disables it via a non-zero write to 0xFF50.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// IE and IF expose the interrupt-enable/request registers to the CPU's
// dispatch logic directly, avoiding an address round-trip per instruction.
func (b *Bus) IE() byte     { return b.ie }
func (b *Bus) IF() byte     { return b.ifReg }
func (b *Bus) SetIF(v byte) { b.ifReg = v & 0x1F }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dma.Active() {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF04:
		return b.timer.DIV()
	case addr == 0xFF05:
		return b.timer.TIMA()
	case addr == 0xFF06:
		return b.timer.TMA()
	case addr == 0xFF07:
		return 0xF8 | b.timer.TAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma.Register()
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dma.Active() {
			return
		}
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable region, writes ignored
	case addr == 0xFF00:
		b.joypad.Write(value, b.request)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ifReg |= interrupt.Serial.Mask()
			b.sc &^= 0x80
		}
	case addr == 0xFF04:
		b.timer.WriteDIV(b.request)
	case addr == 0xFF05:
		b.timer.WriteTIMA(value)
	case addr == 0xFF06:
		b.timer.WriteTMA(value)
	case addr == 0xFF07:
		b.timer.WriteTAC(value, b.request)
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF46:
		b.dma.Start(value)
	case addr == 0xFF50:
		if value != 0 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	}
}

// Tick advances every peripheral by cycles T-cycles: the timer (which may
// raise a Timer interrupt), the PPU (STAT/VBlank), and one byte of any
// in-flight OAM DMA transfer per cycle (spec.md §4.3).
func (b *Bus) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		b.timer.Tick(1, b.request)
		b.ppu.Tick(1)
		if b.dma.Active() {
			b.dma.Step(b.dmaRead, b.dmaWrite)
		}
	}
}

// dmaRead/dmaWrite bypass the DMA-active OAM lockout that Read/Write enforce
// for the CPU, since the DMA engine itself must be able to populate OAM.
func (b *Bus) dmaRead(addr uint16) byte {
	if addr >= 0xFE00 && addr <= 0xFE9F {
		return b.ppu.CPURead(addr)
	}
	return b.Read(addr)
}

func (b *Bus) dmaWrite(index int, value byte) {
	b.ppu.CPUWrite(0xFE00+uint16(index), value)
}
