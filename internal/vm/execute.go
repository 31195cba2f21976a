package vm

// Step executes exactly one instruction. It is a no-op while the machine is halted or
// awaiting a key press. Any fault halts the machine and leaves the state of the faulting
// instruction untouched. An instruction that completes but leaves the program counter
// without room for the next fetch halts the machine with a memory fault at that address.
func (m *VM) Step() {
	if m.halted || m.awaitingKey {
		return
	}

	pc := m.pc
	opcode, ok := m.fetch(pc)
	if !ok {
		m.haltWith(pc, 0, ErrMemoryAccess)
		return
	}

	ins, err := Decode(opcode)
	if err != nil {
		m.haltWith(pc, opcode, ErrInvalidOpcode)
		return
	}

	m.pc += opcodeSize
	if err := handlers[ins.Op](m, ins); err != nil {
		m.pc = pc
		m.haltWith(pc, opcode, err)
		return
	}

	if _, ok := m.fetch(m.pc); !ok {
		m.haltWith(m.pc, 0, ErrMemoryAccess)
	}
}

type handler func(m *VM, ins Instruction) error

// handlers contains the semantics of every operation, indexed by Op. The program counter
// already points to the following instruction when a handler is called.
var handlers = [opCount]handler{
	OpSys:     func(*VM, Instruction) error { return nil },
	OpCls:     (*VM).cls,
	OpRet:     (*VM).ret,
	OpJp:      (*VM).jp,
	OpCall:    (*VM).call,
	OpSeByte:  func(m *VM, ins Instruction) error { return m.skipIf(m.v[ins.X] == ins.NN) },
	OpSneByte: func(m *VM, ins Instruction) error { return m.skipIf(m.v[ins.X] != ins.NN) },
	OpSeReg:   func(m *VM, ins Instruction) error { return m.skipIf(m.v[ins.X] == m.v[ins.Y]) },
	OpSneReg:  func(m *VM, ins Instruction) error { return m.skipIf(m.v[ins.X] != m.v[ins.Y]) },
	OpLdByte:  func(m *VM, ins Instruction) error { m.v[ins.X] = ins.NN; return nil },
	OpAddByte: func(m *VM, ins Instruction) error { m.v[ins.X] += ins.NN; return nil },
	OpLdReg:   func(m *VM, ins Instruction) error { m.v[ins.X] = m.v[ins.Y]; return nil },
	OpOr:      func(m *VM, ins Instruction) error { m.v[ins.X] |= m.v[ins.Y]; return nil },
	OpAnd:     func(m *VM, ins Instruction) error { m.v[ins.X] &= m.v[ins.Y]; return nil },
	OpXor:     func(m *VM, ins Instruction) error { m.v[ins.X] ^= m.v[ins.Y]; return nil },
	OpAddReg:  (*VM).addReg,
	OpSub:     (*VM).sub,
	OpSubn:    (*VM).subn,
	OpShr:     (*VM).shr,
	OpShl:     (*VM).shl,
	OpLdI:     func(m *VM, ins Instruction) error { m.i = ins.NNN; return nil },
	OpJpV0:    func(m *VM, ins Instruction) error { return m.jump(ins.NNN + uint16(m.v[0])) },
	OpRnd:     func(m *VM, ins Instruction) error { m.v[ins.X] = m.cfg.Random() & ins.NN; return nil },
	OpDrw:     (*VM).drw,
	OpSkp:     func(m *VM, ins Instruction) error { return m.skipIf(m.keys[m.v[ins.X]&0xF]) },
	OpSknp:    func(m *VM, ins Instruction) error { return m.skipIf(!m.keys[m.v[ins.X]&0xF]) },
	OpLdVxDT:  func(m *VM, ins Instruction) error { m.v[ins.X] = m.delayTimer; return nil },
	OpLdVxK:   (*VM).waitKey,
	OpLdDTVx:  func(m *VM, ins Instruction) error { m.delayTimer = m.v[ins.X]; return nil },
	OpLdSTVx:  func(m *VM, ins Instruction) error { m.soundTimer = m.v[ins.X]; return nil },
	OpAddI:    (*VM).addI,
	OpLdF:     func(m *VM, ins Instruction) error { m.i = FontStart + uint16(m.v[ins.X]&0xF)*FontGlyphSize; return nil },
	OpLdB:     (*VM).bcd,
	OpStore:   (*VM).store,
	OpLoad:    (*VM).load,
}

func (m *VM) skipIf(condition bool) error {
	if condition {
		m.pc += opcodeSize
	}
	return nil
}

// jump validates and sets a new program counter. Targets have to leave room for a full
// instruction.
func (m *VM) jump(target uint16) error {
	if int(target)+1 >= MemorySize {
		return ErrMemoryAccess
	}
	if m.cfg.StrictAlignment && target%opcodeSize != 0 {
		return ErrMemoryAccess
	}
	m.pc = target
	return nil
}

func (m *VM) jp(ins Instruction) error {
	if m.cfg.HaltOnSelfJump && ins.NNN == m.pc-opcodeSize {
		return ErrTerminated
	}
	return m.jump(ins.NNN)
}

func (m *VM) call(ins Instruction) error {
	if m.sp == StackSize {
		return ErrStackOverflow
	}
	returnAddress := m.pc
	if err := m.jump(ins.NNN); err != nil {
		return err
	}
	m.stack[m.sp] = returnAddress
	m.sp++
	return nil
}

func (m *VM) ret(Instruction) error {
	if m.sp == 0 {
		return ErrStackUnderflow
	}
	if err := m.jump(m.stack[m.sp-1]); err != nil {
		return err
	}
	m.sp--
	return nil
}

// The ALU operations write VF last, a flag result wins over a result stored to VF.

func (m *VM) addReg(ins Instruction) error {
	sum := uint16(m.v[ins.X]) + uint16(m.v[ins.Y])
	m.v[ins.X] = uint8(sum)
	m.v[flag] = uint8(sum >> 8)
	return nil
}

// sub stores VX - VY, VF is 1 when no borrow occurred.
func (m *VM) sub(ins Instruction) error {
	vx, vy := m.v[ins.X], m.v[ins.Y]
	m.v[ins.X] = vx - vy
	m.v[flag] = boolToFlag(vx >= vy)
	return nil
}

// subn stores VY - VX, VF is 1 when no borrow occurred.
func (m *VM) subn(ins Instruction) error {
	vx, vy := m.v[ins.X], m.v[ins.Y]
	m.v[ins.X] = vy - vx
	m.v[flag] = boolToFlag(vy >= vx)
	return nil
}

func (m *VM) shiftSource(ins Instruction) uint8 {
	if m.cfg.ShiftUsesVY {
		return m.v[ins.Y]
	}
	return m.v[ins.X]
}

func (m *VM) shr(ins Instruction) error {
	value := m.shiftSource(ins)
	m.v[ins.X] = value >> 1
	m.v[flag] = value & 0x01
	return nil
}

func (m *VM) shl(ins Instruction) error {
	value := m.shiftSource(ins)
	m.v[ins.X] = value << 1
	m.v[flag] = value >> 7
	return nil
}

func (m *VM) waitKey(ins Instruction) error {
	m.awaitingKey = true
	m.keyRegister = ins.X
	return nil
}

func (m *VM) addI(ins Instruction) error {
	sum := uint32(m.i) + uint32(m.v[ins.X])
	m.i = uint16(sum)
	if m.cfg.IndexOverflowFlag {
		m.v[flag] = boolToFlag(sum >= MemorySize)
	}
	return nil
}

func (m *VM) bcd(ins Instruction) error {
	if err := m.checkWritable(m.i, 3); err != nil {
		return err
	}
	value := m.v[ins.X]
	m.memory[m.i] = value / 100
	m.memory[m.i+1] = value / 10 % 10
	m.memory[m.i+2] = value % 10
	return nil
}

func (m *VM) store(ins Instruction) error {
	count := int(ins.X) + 1
	if err := m.checkWritable(m.i, count); err != nil {
		return err
	}
	copy(m.memory[m.i:], m.v[:count])
	if m.cfg.LoadStoreIncrementsI {
		m.i += uint16(count)
	}
	return nil
}

func (m *VM) load(ins Instruction) error {
	count := int(ins.X) + 1
	if err := m.checkReadable(m.i, count); err != nil {
		return err
	}
	copy(m.v[:count], m.memory[m.i:])
	if m.cfg.LoadStoreIncrementsI {
		m.i += uint16(count)
	}
	return nil
}

func (m *VM) checkReadable(address uint16, length int) error {
	if int(address)+length > MemorySize {
		return ErrMemoryAccess
	}
	return nil
}

// checkWritable also protects the interpreter area holding the font glyphs.
func (m *VM) checkWritable(address uint16, length int) error {
	if address < ProgramStart {
		return ErrMemoryAccess
	}
	return m.checkReadable(address, length)
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
