//go:build headless

// Package window implements a frontend that renders into a desktop window using ebiten.
package window

import (
	"context"
	"errors"

	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Available reports whether this build contains the window frontend.
const Available = false

// Run returns an error as headless builds do not contain the window frontend.
func Run(_ context.Context, _ *log.Logger, _ *runner.Runner, _ string, _ int) error {
	return errors.New("window frontend is not supported by headless builds")
}
