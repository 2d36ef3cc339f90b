// Package dma implements the OAM DMA engine: a write to 0xFF46 copies 160
// bytes from (value<<8) into OAM. Grounded on the teacher's
// internal/bus/bus.go dmaActive/dmaSrc/dmaIndex fields, split into its own
// package and scheduled one byte per T-cycle (spec.md §4.3's "faithful
// implementer" variant).
package dma

// Engine schedules an OAM transfer across 160 T-cycles rather than
// performing it atomically within the triggering write.
type Engine struct {
	reg    byte // last value written to 0xFF46
	active bool
	src    uint16
	index  int
}

// New returns an idle DMA engine.
func New() *Engine { return &Engine{} }

// Register returns the last byte written to 0xFF46.
func (e *Engine) Register() byte { return e.reg }

// Active reports whether a transfer is in progress; the bus blocks CPU
// reads and writes of OAM while true, and leaves every other region
// accessible.
func (e *Engine) Active() bool { return e.active }

// Start begins a new transfer from src = value<<8. Re-triggering while a
// transfer is active restarts it from the new source, matching real
// hardware's last-write-wins behavior.
func (e *Engine) Start(value byte) {
	e.reg = value
	e.active = true
	e.src = uint16(value) << 8
	e.index = 0
}

// Step advances the transfer by one T-cycle. read(addr) fetches the next
// source byte and write(oamOffset, v) deposits it into OAM[oamOffset].
// Step is a no-op when no transfer is active.
func (e *Engine) Step(read func(addr uint16) byte, write func(oamOffset int, v byte)) {
	if !e.active {
		return
	}
	write(e.index, read(e.src+uint16(e.index)))
	e.index++
	if e.index >= 0xA0 {
		e.active = false
	}
}
