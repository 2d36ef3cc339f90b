package main

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"goboycore/internal/machine"
)

// newHeadlessCmd is grounded on cmd/gbemu/main.go's -headless flags: run N
// frames with no window, optionally dump a PNG or assert a framebuffer
// checksum, useful for CI and for running blargg-style test ROMs.
func newHeadlessCmd() *cobra.Command {
	var (
		romPath string
		bootROM string
		frames  int
		pngOut  string
		expect  string
		trace   bool
		until   string
	)

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "run a ROM without a window for N frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}
			m, err := machine.New(machine.Config{Trace: trace}, rom)
			if err != nil {
				return fmt.Errorf("load cart: %w", err)
			}
			if bootROM != "" {
				boot, err := os.ReadFile(bootROM)
				if err != nil {
					return fmt.Errorf("read boot rom: %w", err)
				}
				m.SetBootROM(boot)
			}
			return runHeadless(m, frames, pngOut, expect, until)
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "path to ROM (.gb)")
	cmd.Flags().StringVar(&bootROM, "bootrom", "", "optional DMG boot ROM")
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to run")
	cmd.Flags().StringVar(&pngOut, "outpng", "", "write last framebuffer to PNG at path")
	cmd.Flags().StringVar(&expect, "expect", "", "assert framebuffer CRC32 (hex)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log each fetched instruction's PC")
	cmd.Flags().StringVar(&until, "until", "", "stop early once this substring appears in serial output (case-insensitive), e.g. blargg's \"Passed\"")
	cmd.MarkFlagRequired("rom")

	return cmd
}

func runHeadless(m *machine.Machine, frames int, pngPath, expectCRC, until string) error {
	if frames <= 0 {
		frames = 1
	}

	var serial bytes.Buffer
	if until != "" {
		m.SetSerialWriter(&serial)
	}

	start := time.Now()
	ran := 0
	for i := 0; i < frames; i++ {
		m.RunFrame()
		ran++
		if until != "" && strings.Contains(strings.ToLower(serial.String()), strings.ToLower(until)) {
			log.Printf("headless: matched %q in serial output after %d frames", until, ran)
			break
		}
	}
	dur := time.Since(start)
	frames = ran

	fb := m.Framebuffer()
	pix := argbToRGBA(fb[:])
	crc := crc32.ChecksumIEEE(pix)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(pix, 160, 144, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

// argbToRGBA flattens the PPU's packed 0xAARRGGBB pixels into a PNG-ready
// byte-per-channel RGBA buffer.
func argbToRGBA(argb []uint32) []byte {
	out := make([]byte, len(argb)*4)
	for i, p := range argb {
		out[i*4+0] = byte(p >> 16)
		out[i*4+1] = byte(p >> 8)
		out[i*4+2] = byte(p)
		out[i*4+3] = byte(p >> 24)
	}
	return out
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
