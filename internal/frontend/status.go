// Package frontend contains helpers shared by the frontends.
package frontend

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
)

// Status returns a single line describing the run state of the runner.
func Status(r *runner.Runner) string {
	machine := r.Machine()
	state := machine.State()

	switch {
	case machine.Halted():
		var fault *vm.Fault
		if errors.As(machine.Fault(), &fault) && !errors.Is(fault, vm.ErrTerminated) {
			return fmt.Sprintf("FAULT %v", fault)
		}
		return fmt.Sprintf("HALTED at $%03X", state.PC)
	case r.Done():
		return "STOPPED"
	case r.Paused():
		return fmt.Sprintf("PAUSED at $%03X", state.PC)
	case machine.AwaitingKey():
		return fmt.Sprintf("WAITING FOR KEY  frame %d", r.Frames())
	default:
		return fmt.Sprintf("RUNNING  frame %d  PC $%03X", r.Frames(), state.PC)
	}
}
