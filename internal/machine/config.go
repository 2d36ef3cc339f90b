package machine

// Config holds settings that affect emulation behavior but not correctness,
// grounded on the teacher's internal/emu.Config (Trace/LimitFPS fields);
// UseFetcherBG is dropped since this core has only one BG rendering path.
type Config struct {
	// Trace logs each fetched opcode via the standard log package when true.
	Trace bool
}
