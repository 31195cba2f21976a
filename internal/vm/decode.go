package vm

import "fmt"

// Op identifies a decoded instruction.
type Op uint8

// Instruction operations, named after their classic mnemonic and operand form.
const (
	OpInvalid Op = iota
	OpSys        // 0NNN
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1NNN
	OpCall       // 2NNN
	OpSeByte     // 3XNN
	OpSneByte    // 4XNN
	OpSeReg      // 5XY0
	OpLdByte     // 6XNN
	OpAddByte    // 7XNN
	OpLdReg      // 8XY0
	OpOr         // 8XY1
	OpAnd        // 8XY2
	OpXor        // 8XY3
	OpAddReg     // 8XY4
	OpSub        // 8XY5
	OpShr        // 8XY6
	OpSubn       // 8XY7
	OpShl        // 8XYE
	OpSneReg     // 9XY0
	OpLdI        // ANNN
	OpJpV0       // BNNN
	OpRnd        // CXNN
	OpDrw        // DXYN
	OpSkp        // EX9E
	OpSknp       // EXA1
	OpLdVxDT     // FX07
	OpLdVxK      // FX0A
	OpLdDTVx     // FX15
	OpLdSTVx     // FX18
	OpAddI       // FX1E
	OpLdF        // FX29
	OpLdB        // FX33
	OpStore      // FX55
	OpLoad       // FX65

	opCount
)

var opNames = [opCount]string{
	OpInvalid: "invalid",
	OpSys:     "SYS addr",
	OpCls:     "CLS",
	OpRet:     "RET",
	OpJp:      "JP addr",
	OpCall:    "CALL addr",
	OpSeByte:  "SE Vx, byte",
	OpSneByte: "SNE Vx, byte",
	OpSeReg:   "SE Vx, Vy",
	OpLdByte:  "LD Vx, byte",
	OpAddByte: "ADD Vx, byte",
	OpLdReg:   "LD Vx, Vy",
	OpOr:      "OR Vx, Vy",
	OpAnd:     "AND Vx, Vy",
	OpXor:     "XOR Vx, Vy",
	OpAddReg:  "ADD Vx, Vy",
	OpSub:     "SUB Vx, Vy",
	OpShr:     "SHR Vx",
	OpSubn:    "SUBN Vx, Vy",
	OpShl:     "SHL Vx",
	OpSneReg:  "SNE Vx, Vy",
	OpLdI:     "LD I, addr",
	OpJpV0:    "JP V0, addr",
	OpRnd:     "RND Vx, byte",
	OpDrw:     "DRW Vx, Vy, nibble",
	OpSkp:     "SKP Vx",
	OpSknp:    "SKNP Vx",
	OpLdVxDT:  "LD Vx, DT",
	OpLdVxK:   "LD Vx, K",
	OpLdDTVx:  "LD DT, Vx",
	OpLdSTVx:  "LD ST, Vx",
	OpAddI:    "ADD I, Vx",
	OpLdF:     "LD F, Vx",
	OpLdB:     "LD B, Vx",
	OpStore:   "LD [I], Vx",
	OpLoad:    "LD Vx, [I]",
}

func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded instruction word with its operand fields extracted.
type Instruction struct {
	Op     Op
	Opcode uint16

	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // lowest nibble
	NN  uint8  // lowest byte
	NNN uint16 // lowest 12 bits, address
}

// Decode decodes an instruction word. Words matching no instruction pattern return
// an error wrapping ErrInvalidOpcode.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0xF,
		Y:      uint8(opcode>>4) & 0xF,
		N:      uint8(opcode) & 0xF,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	family := opcode >> 12
	ins.Op = familyDecoders[family](ins)
	if ins.Op == OpInvalid {
		return ins, fmt.Errorf("%w: $%04X", ErrInvalidOpcode, opcode)
	}
	return ins, nil
}

// familyDecoders selects the operation by the highest nibble and, where the family
// shares a nibble, by the sub-opcode bits.
var familyDecoders = [16]func(ins Instruction) Op{
	0x0: decodeSystem,
	0x1: fixed(OpJp),
	0x2: fixed(OpCall),
	0x3: fixed(OpSeByte),
	0x4: fixed(OpSneByte),
	0x5: withZeroNibble(OpSeReg),
	0x6: fixed(OpLdByte),
	0x7: fixed(OpAddByte),
	0x8: decodeALU,
	0x9: withZeroNibble(OpSneReg),
	0xA: fixed(OpLdI),
	0xB: fixed(OpJpV0),
	0xC: fixed(OpRnd),
	0xD: fixed(OpDrw),
	0xE: decodeKey,
	0xF: decodeMisc,
}

func fixed(op Op) func(Instruction) Op {
	return func(Instruction) Op {
		return op
	}
}

func withZeroNibble(op Op) func(Instruction) Op {
	return func(ins Instruction) Op {
		if ins.N != 0 {
			return OpInvalid
		}
		return op
	}
}

func decodeSystem(ins Instruction) Op {
	switch ins.Opcode {
	case 0x00E0:
		return OpCls
	case 0x00EE:
		return OpRet
	default:
		return OpSys
	}
}

var aluOps = [16]Op{
	0x0: OpLdReg,
	0x1: OpOr,
	0x2: OpAnd,
	0x3: OpXor,
	0x4: OpAddReg,
	0x5: OpSub,
	0x6: OpShr,
	0x7: OpSubn,
	0xE: OpShl,
}

func decodeALU(ins Instruction) Op {
	return aluOps[ins.N]
}

func decodeKey(ins Instruction) Op {
	switch ins.NN {
	case 0x9E:
		return OpSkp
	case 0xA1:
		return OpSknp
	default:
		return OpInvalid
	}
}

var miscOps = map[uint8]Op{
	0x07: OpLdVxDT,
	0x0A: OpLdVxK,
	0x15: OpLdDTVx,
	0x18: OpLdSTVx,
	0x1E: OpAddI,
	0x29: OpLdF,
	0x33: OpLdB,
	0x55: OpStore,
	0x65: OpLoad,
}

func decodeMisc(ins Instruction) Op {
	return miscOps[ins.NN]
}
