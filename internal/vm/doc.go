// Package vm implements the CHIP-8 interpreter engine.
//
// # Machine Model
//
// A VM owns the complete machine state of one loaded program:
//   - 4KB of memory, font glyphs at FontStart, the program image at ProgramStart
//   - 16 general purpose 8-bit registers V0-VF, VF doubles as carry, borrow and collision flag
//   - the 16-bit index register I and the program counter
//   - a call stack of StackSize return addresses
//   - delay and sound timers, decremented by TickTimers
//   - a 64x32 monochrome framebuffer of FramebufferSize bytes, 8 pixels per byte
//   - a 16 key keypad
//
// # Execution
//
// The host drives the machine by calling Step for every instruction and TickTimers at 60 Hz,
// independently of the instruction rate. Runtime faults never cross the Step boundary, they move
// the machine into the terminal halted state which is observable by Halted and Fault.
//
// The FX0A instruction does not suspend the caller: it latches the machine into an awaiting key
// state in which Step is a no-op until KeyPressed resolves it.
//
// # Usage Example
//
//	machine, err := vm.New(image)
//	if err != nil {
//		return fmt.Errorf("creating machine: %w", err)
//	}
//	for !machine.Halted() {
//		for range stepsPerFrame {
//			machine.Step()
//		}
//		machine.TickTimers()
//		render(machine.Framebuffer())
//	}
//
// A VM is not safe for concurrent use, the host serializes all calls.
package vm
