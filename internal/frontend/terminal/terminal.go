// Package terminal implements a frontend that renders into a text terminal using
// termbox. Two pixel rows are drawn per character cell using half block characters.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/chip8vm/internal/frontend"
	"github.com/retroenv/chip8vm/internal/frontend/keymap"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

const (
	halfBlock    = '▀'
	holdFrames   = 8
	statusRow    = vm.DisplayHeight/2 + 1
	helpRow      = statusRow + 1
	helpText     = "Esc quit  Space pause  Backspace reset  keys 1234 QWER ASDF ZXCV"
	pixelOnAttr  = termbox.ColorWhite
	pixelOffAttr = termbox.ColorBlack
)

// Run runs the program in the terminal until the user quits or the context is cancelled.
func Run(ctx context.Context, logger *log.Logger, r *runner.Runner) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	events := make(chan termbox.Event)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(events, done)
	defer termbox.Interrupt()

	ticker := time.NewTicker(time.Second / runner.FrameRate)
	defer ticker.Stop()

	t := &terminal{
		logger: logger,
		runner: r,
		keys:   newKeyTracker(holdFrames),
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			quit, err := t.handleEvent(ev)
			if err != nil || quit {
				return err
			}

		case <-ticker.C:
			if err := t.frame(); err != nil {
				return err
			}
		}
	}
}

func pollEvents(events chan<- termbox.Event, done <-chan struct{}) {
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

type terminal struct {
	logger *log.Logger
	runner *runner.Runner
	keys   *keyTracker
}

// handleEvent processes a terminal event and returns whether the user quit.
func (t *terminal) handleEvent(ev termbox.Event) (bool, error) {
	switch ev.Type {
	case termbox.EventError:
		return true, fmt.Errorf("reading terminal event: %w", ev.Err)
	case termbox.EventResize:
		return false, termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	case termbox.EventKey:
	default:
		return false, nil
	}

	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return true, nil
	case termbox.KeySpace:
		t.runner.Pause()
		return false, nil
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		t.keys.reset()
		return false, t.runner.Reset()
	}

	if key, ok := keymap.Lookup(ev.Ch); ok && t.keys.press(key) {
		t.runner.Press(key)
	}
	return false, nil
}

func (t *terminal) frame() error {
	for _, key := range t.keys.expire() {
		t.runner.Release(key)
	}
	if err := t.runner.Frame(); err != nil {
		return err
	}
	return t.draw()
}

func (t *terminal) draw() error {
	machine := t.runner.Machine()
	for y := 0; y < vm.DisplayHeight; y += 2 {
		for x := range vm.DisplayWidth {
			termbox.SetCell(x, y/2, halfBlock, pixelColor(machine.Pixel(x, y)), pixelColor(machine.Pixel(x, y+1)))
		}
	}

	drawText(0, statusRow, fmt.Sprintf("%-*s", vm.DisplayWidth, frontend.Status(t.runner)))
	drawText(0, helpRow, helpText)
	return termbox.Flush()
}

func pixelColor(on bool) termbox.Attribute {
	if on {
		return pixelOnAttr
	}
	return pixelOffAttr
}

func drawText(x, y int, s string) {
	for _, ch := range s {
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
		x++
	}
}
