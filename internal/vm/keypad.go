package vm

// KeyPressed marks the key as pressed. A pending FX0A wait is resolved by storing the key
// into its target register, the following Step continues with the next instruction.
// Keys outside of 0x0-0xF are ignored.
func (m *VM) KeyPressed(key uint8) {
	if int(key) >= KeyCount {
		return
	}
	m.keys[key] = true

	if m.awaitingKey {
		m.v[m.keyRegister] = key
		m.awaitingKey = false
	}
}

// KeyReleased marks the key as released. Keys outside of 0x0-0xF are ignored.
func (m *VM) KeyReleased(key uint8) {
	if int(key) >= KeyCount {
		return
	}
	m.keys[key] = false
}

// KeyDown returns whether the key is currently pressed.
func (m *VM) KeyDown(key uint8) bool {
	if int(key) >= KeyCount {
		return false
	}
	return m.keys[key]
}

// AwaitingKey returns whether execution is blocked on a FX0A key wait.
func (m *VM) AwaitingKey() bool {
	return m.awaitingKey
}
