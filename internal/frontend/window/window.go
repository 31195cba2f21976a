//go:build !headless

// Package window implements a frontend that renders into a desktop window using ebiten.
package window

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/chip8vm/internal/frontend"
	"github.com/retroenv/chip8vm/internal/frontend/keymap"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

// Available reports whether this build contains the window frontend.
const Available = true

const (
	statusHeight   = 18
	statusBaseline = 13
	statusPadding  = 4
)

var (
	pixelOnColor  = color.RGBA{R: 0xE0, G: 0xF0, B: 0xE0, A: 0xFF}
	pixelOffColor = color.RGBA{R: 0x10, G: 0x18, B: 0x10, A: 0xFF}
	statusColor   = color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}
)

// Game implements ebiten.Game, every tick runs one frame of the runner.
type Game struct {
	ctx    context.Context
	logger *log.Logger
	runner *runner.Runner
	scale  int
	keys   map[ebiten.Key]rune
	err    error

	screen *ebiten.Image
	pixels []byte
}

// Run opens the window and runs the program until the window is closed, Esc is
// pressed or the context is cancelled.
func Run(ctx context.Context, logger *log.Logger, r *runner.Runner, title string, scale int) error {
	keys, err := hostKeys()
	if err != nil {
		return err
	}

	g := &Game{
		ctx:    ctx,
		logger: logger,
		runner: r,
		scale:  scale,
		keys:   keys,
		pixels: make([]byte, vm.DisplayWidth*vm.DisplayHeight*4),
	}

	ebiten.SetWindowSize(vm.DisplayWidth*scale, vm.DisplayHeight*scale+statusHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(runner.FrameRate)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.runner.Pause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if err := g.runner.Reset(); err != nil {
			g.err = err
			return ebiten.Termination
		}
	}

	for key, ch := range g.keys {
		pad, _ := keymap.Lookup(ch)
		if inpututil.IsKeyJustPressed(key) {
			g.runner.Press(pad)
		}
		if inpututil.IsKeyJustReleased(key) {
			g.runner.Release(pad)
		}
	}

	if err := g.runner.Frame(); err != nil {
		g.err = err
		return ebiten.Termination
	}
	return nil
}

// hostKeys maps the host keys to the keyboard characters of the keypad layout.
func hostKeys() (map[ebiten.Key]rune, error) {
	keys := make(map[ebiten.Key]rune)
	for _, ch := range keymap.Runes() {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(string(ch))); err != nil {
			return nil, fmt.Errorf("mapping key '%c': %w", ch, err)
		}
		keys[key] = ch
	}
	return keys, nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(vm.DisplayWidth, vm.DisplayHeight)
	}

	machine := g.runner.Machine()
	for y := range vm.DisplayHeight {
		for x := range vm.DisplayWidth {
			c := pixelOffColor
			if machine.Pixel(x, y) {
				c = pixelOnColor
			}
			offset := (y*vm.DisplayWidth + x) * 4
			g.pixels[offset] = c.R
			g.pixels[offset+1] = c.G
			g.pixels[offset+2] = c.B
			g.pixels[offset+3] = c.A
		}
	}
	g.screen.WritePixels(g.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, opts)

	text.Draw(screen, frontend.Status(g.runner), basicfont.Face7x13,
		statusPadding, vm.DisplayHeight*g.scale+statusBaseline, statusColor)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return vm.DisplayWidth * g.scale, vm.DisplayHeight*g.scale + statusHeight
}
