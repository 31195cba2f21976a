package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Format returns the assembly text of a single instruction word, a word that does not
// decode to an instruction is rendered as a data directive.
func Format(opcode uint16) string {
	ins, err := vm.Decode(opcode)
	if err != nil {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	return formatInstruction(ins, nil)
}

// mnemonic looks up the instruction name in the CHIP-8 opcode table.
func mnemonic(ins vm.Instruction) string {
	for _, op := range chip8.Opcodes[int(ins.Opcode>>12)] {
		if op.Instruction != nil && op.Info.Mask&ins.Opcode == op.Info.Value {
			return op.Instruction.Name
		}
	}
	// SYS is not part of the table
	name, _, _ := strings.Cut(ins.Op.String(), " ")
	return strings.ToLower(name)
}

// formatInstruction renders an instruction, the address operand is replaced by the
// label returned by the resolver if one exists.
func formatInstruction(ins vm.Instruction, resolve func(address uint16) string) string {
	name := mnemonic(ins)
	if params := formatParams(ins, resolve); params != "" {
		return name + " " + params
	}
	return name
}

func formatAddress(address uint16, resolve func(address uint16) string) string {
	if resolve != nil {
		if label := resolve(address); label != "" {
			return label
		}
	}
	return fmt.Sprintf("$%03X", address)
}

func formatParams(ins vm.Instruction, resolve func(address uint16) string) string {
	switch ins.Op {
	case vm.OpCls, vm.OpRet:
		return ""

	case vm.OpSys, vm.OpJp, vm.OpCall:
		return formatAddress(ins.NNN, resolve)
	case vm.OpJpV0:
		return "V0, " + formatAddress(ins.NNN, resolve)
	case vm.OpLdI:
		return "I, " + formatAddress(ins.NNN, resolve)

	case vm.OpSeByte, vm.OpSneByte, vm.OpLdByte, vm.OpAddByte, vm.OpRnd:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case vm.OpSeReg, vm.OpSneReg, vm.OpLdReg, vm.OpOr, vm.OpAnd, vm.OpXor,
		vm.OpAddReg, vm.OpSub, vm.OpSubn:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case vm.OpShr, vm.OpShl, vm.OpSkp, vm.OpSknp:
		return fmt.Sprintf("V%X", ins.X)
	case vm.OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	case vm.OpLdVxDT:
		return fmt.Sprintf("V%X, DT", ins.X)
	case vm.OpLdVxK:
		return fmt.Sprintf("V%X, K", ins.X)
	case vm.OpLdDTVx:
		return fmt.Sprintf("DT, V%X", ins.X)
	case vm.OpLdSTVx:
		return fmt.Sprintf("ST, V%X", ins.X)
	case vm.OpAddI:
		return fmt.Sprintf("I, V%X", ins.X)
	case vm.OpLdF:
		return fmt.Sprintf("F, V%X", ins.X)
	case vm.OpLdB:
		return fmt.Sprintf("B, V%X", ins.X)
	case vm.OpStore:
		return fmt.Sprintf("[I], V%X", ins.X)
	case vm.OpLoad:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
