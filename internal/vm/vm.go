package vm

import (
	"fmt"
	"math/rand/v2"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, font glyphs at FontStart
//	0x200-0xFFF: Program image followed by zeroed scratch space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// ProgramStart is the memory address where the program image is loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// FontStart is the memory address of the first built-in font glyph.
	FontStart = 0x050

	// FontGlyphSize is the number of bytes of one font glyph.
	FontGlyphSize = 5
)

// Machine dimensions.
const (
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	DisplayWidth  = 64
	DisplayHeight = 32

	// FramebufferSize is the size of the framebuffer in bytes, one bit per pixel,
	// 8 bytes per row, bit 7 is the leftmost pixel of a byte.
	FramebufferSize = DisplayWidth * DisplayHeight / 8

	bytesPerRow = DisplayWidth / 8
	flag        = 0xF
	opcodeSize  = 2
)

var fontSet = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Config contains compatibility toggles of the interpreter.
type Config struct {
	// IndexOverflowFlag sets VF to 1 when FX1E moves I past the end of memory, 0 otherwise.
	// When disabled VF is left untouched.
	IndexOverflowFlag bool

	// ShiftUsesVY makes 8XY6 and 8XYE shift VY and store the result in VX.
	// When disabled VX is shifted in place and Y is ignored.
	ShiftUsesVY bool

	// LoadStoreIncrementsI leaves I pointing behind the last register transferred by FX55 and FX65.
	LoadStoreIncrementsI bool

	// StrictAlignment raises a memory fault for jump, call and return targets at odd addresses.
	// Some programs place code at odd addresses, it is disabled by default.
	StrictAlignment bool

	// HaltOnSelfJump halts the machine when a 1NNN jump targets its own address.
	HaltOnSelfJump bool

	// Random returns a uniformly distributed byte for CXNN, nil selects the default source.
	Random func() uint8
}

// DefaultConfig returns the default interpreter configuration.
func DefaultConfig() Config {
	return Config{
		IndexOverflowFlag: true,
	}
}

// VM is a CHIP-8 interpreter instance owning the full machine state of one program.
type VM struct {
	cfg Config

	memory      [MemorySize]byte
	v           [RegisterCount]byte
	i           uint16
	pc          uint16
	stack       [StackSize]uint16
	sp          int
	delayTimer  uint8
	soundTimer  uint8
	framebuffer [FramebufferSize]byte
	keys        [KeyCount]bool

	halted      bool
	fault       *Fault
	awaitingKey bool
	keyRegister uint8
}

// New returns a new machine with the given program image loaded, using the default configuration.
func New(image []byte) (*VM, error) {
	return NewWithConfig(image, DefaultConfig())
}

// NewWithConfig returns a new machine with the given program image loaded.
// The image is copied to ProgramStart, an image larger than MaxProgramSize is rejected.
func NewWithConfig(image []byte, cfg Config) (*VM, error) {
	if len(image) > MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrCapacity, len(image), MaxProgramSize)
	}
	if cfg.Random == nil {
		cfg.Random = randomByte
	}

	m := &VM{
		cfg: cfg,
		pc:  ProgramStart,
	}
	copy(m.memory[FontStart:], fontSet[:])
	copy(m.memory[ProgramStart:], image)
	return m, nil
}

func randomByte() uint8 {
	return uint8(rand.UintN(256))
}

// Halted returns whether the machine reached its terminal state.
func (m *VM) Halted() bool {
	return m.halted
}

// Fault returns the fault that halted the machine, nil if it is still running.
// The returned error is a *Fault.
func (m *VM) Fault() error {
	if m.fault == nil {
		return nil
	}
	return m.fault
}

// Halt terminates the execution on behalf of the host.
func (m *VM) Halt() {
	if m.halted {
		return
	}
	m.haltWith(m.pc, 0, ErrTerminated)
}

func (m *VM) haltWith(pc, opcode uint16, err error) {
	m.halted = true
	m.fault = &Fault{
		PC:     pc,
		Opcode: opcode,
		Err:    err,
	}
}

// SoundActive returns whether the sound timer is running and a tone should be played.
func (m *VM) SoundActive() bool {
	return m.soundTimer > 0
}

// State is a snapshot of the processor registers.
type State struct {
	V          [RegisterCount]byte
	I          uint16
	PC         uint16
	SP         int
	Stack      [StackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
}

// State returns a snapshot of the processor registers.
func (m *VM) State() State {
	return State{
		V:          m.v,
		I:          m.i,
		PC:         m.pc,
		SP:         m.sp,
		Stack:      m.stack,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
	}
}

// NextOpcode returns the instruction word at the program counter without executing it.
func (m *VM) NextOpcode() (uint16, bool) {
	return m.fetch(m.pc)
}

// ReadMemory returns the byte at the given address.
func (m *VM) ReadMemory(address uint16) (byte, error) {
	if int(address) >= MemorySize {
		return 0, fmt.Errorf("%w: $%04X", ErrMemoryAccess, address)
	}
	return m.memory[address], nil
}

func (m *VM) fetch(address uint16) (uint16, bool) {
	if int(address)+1 >= MemorySize {
		return 0, false
	}
	return uint16(m.memory[address])<<8 | uint16(m.memory[address+1]), true
}
