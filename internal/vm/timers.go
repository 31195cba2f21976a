package vm

// TickTimers decrements the delay and sound timers by one, stopping at zero.
// The host calls it at 60 Hz independent of the instruction rate.
func (m *VM) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}
