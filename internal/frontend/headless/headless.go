// Package headless implements a frontend without any host window or terminal. Frames
// are run as fast as possible until the program halts, a frame limit is reached or the
// context is cancelled, then the screen is written as text.
package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

const (
	pixelOn  = '#'
	pixelOff = '.'
)

// Run runs frames until the run is done or the frame limit is reached, a limit of 0
// runs until the program halts. The final screen is written to the writer.
func Run(ctx context.Context, logger *log.Logger, r *runner.Runner, frames int, writer io.Writer) error {
	for !r.Done() && (frames == 0 || r.Frames() < frames) {
		if err := ctx.Err(); err != nil {
			logger.Info("Run cancelled", log.Int("frames", r.Frames()))
			break
		}
		if err := r.Frame(); err != nil {
			return fmt.Errorf("running frame %d: %w", r.Frames(), err)
		}
	}

	logger.Debug("Run finished",
		log.Int("frames", r.Frames()),
		log.Hex("pc", r.Machine().State().PC))

	if writer == nil {
		return nil
	}
	if err := WriteScreen(writer, r.Machine()); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return ctx.Err()
}

// WriteScreen writes the framebuffer of the machine as text, one line per pixel row.
func WriteScreen(writer io.Writer, machine *vm.VM) error {
	buf := bufio.NewWriter(writer)
	line := make([]byte, 0, vm.DisplayWidth+1)

	for y := range vm.DisplayHeight {
		line = line[:0]
		for x := range vm.DisplayWidth {
			if machine.Pixel(x, y) {
				line = append(line, pixelOn)
			} else {
				line = append(line, pixelOff)
			}
		}
		line = append(line, '\n')
		if _, err := buf.Write(line); err != nil {
			return fmt.Errorf("writing screen line: %w", err)
		}
	}
	return buf.Flush()
}
