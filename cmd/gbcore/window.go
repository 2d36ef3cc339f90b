package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"goboycore/internal/joypad"
	"goboycore/internal/machine"
)

// newRunCmd opens a windowed ebiten presenter, grounded on the teacher's
// internal/ui.App/NewApp/Run, trimmed to the framebuffer blit and keyboard
// polling loop: no menu overlay, save states, or audio (all explicit
// Non-goals here).
func newRunCmd() *cobra.Command {
	var (
		romPath string
		bootROM string
		scale   int
		title   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a ROM in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}
			m, err := machine.New(machine.Config{}, rom)
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

			ebiten.SetWindowTitle(title)
			ebiten.SetWindowSize(160*scale, 144*scale)
			return ebiten.RunGame(newWindow(m))
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "path to ROM (.gb)")
	cmd.Flags().StringVar(&bootROM, "bootrom", "", "optional DMG boot ROM")
	cmd.Flags().IntVar(&scale, "scale", 3, "window scale")
	cmd.Flags().StringVar(&title, "title", "gbcore", "window title")
	cmd.MarkFlagRequired("rom")

	return cmd
}

// window implements ebiten.Game, running one emulated frame per Update and
// blitting the PPU's ARGB framebuffer into an ebiten.Image each Draw.
type window struct {
	m   *machine.Machine
	tex *ebiten.Image
}

func newWindow(m *machine.Machine) *window {
	return &window{m: m, tex: ebiten.NewImage(160, 144)}
}

// levelKeys are level-triggered: the bit follows the key's held state every
// frame (spec.md §6: "the other buttons are level").
var levelKeys = []struct {
	key    ebiten.Key
	button byte
}{
	{ebiten.KeyArrowRight, joypad.Right},
	{ebiten.KeyArrowLeft, joypad.Left},
	{ebiten.KeyArrowUp, joypad.Up},
	{ebiten.KeyArrowDown, joypad.Down},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyX, joypad.B},
}

// edgeKeys are rising-edge: the bit is set for exactly the one frame the key
// transitions from released to pressed (spec.md §6: "Start/Select are
// rising-edge (press-then-release-detected) by convention").
var edgeKeys = []struct {
	key    ebiten.Key
	button byte
}{
	{ebiten.KeyBackspace, joypad.Select},
	{ebiten.KeyEnter, joypad.Start},
}

func (w *window) Update() error {
	var mask byte
	for _, k := range levelKeys {
		if ebiten.IsKeyPressed(k.key) {
			mask |= k.button
		}
	}
	for _, k := range edgeKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			mask |= k.button
		}
	}
	w.m.SetButtons(mask)
	w.m.RunFrame()
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	fb := w.m.Framebuffer()
	pix := make([]byte, 160*144*4)
	for i, p := range fb {
		pix[i*4+0] = byte(p >> 16)
		pix[i*4+1] = byte(p >> 8)
		pix[i*4+2] = byte(p)
		pix[i*4+3] = byte(p >> 24)
	}
	w.tex.WritePixels(pix)
	screen.DrawImage(w.tex, &ebiten.DrawImageOptions{})
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%.1f FPS", ebiten.ActualFPS()))
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 160, 144
}
