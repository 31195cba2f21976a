package vm

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when a program image does not fit into the program space.
var ErrCapacity = errors.New("program image exceeds available memory")

// Runtime fault causes, recorded in a Fault when the machine halts.
var (
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrMemoryAccess   = errors.New("memory access out of bounds")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("return with empty call stack")
	ErrTerminated     = errors.New("execution terminated")
)

// Fault describes the condition that halted the machine.
type Fault struct {
	PC     uint16 // address of the faulting instruction
	Opcode uint16 // raw instruction word, 0 if it could not be fetched
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at $%03X (opcode $%04X): %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
