package vm

// Framebuffer returns a copy of the framebuffer. Rows are stored top to bottom with
// 8 bytes per row, bit 7 of a byte is the leftmost of its 8 pixels.
func (m *VM) Framebuffer() [FramebufferSize]byte {
	return m.framebuffer
}

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates wrap around the display dimensions.
func (m *VM) Pixel(x, y int) bool {
	index, mask := pixelPosition(x, y)
	return m.framebuffer[index]&mask != 0
}

func (m *VM) cls(Instruction) error {
	m.framebuffer = [FramebufferSize]byte{}
	return nil
}

// drw XORs an N byte tall sprite read from I onto the framebuffer at (VX, VY).
// Pixels outside the display wrap around, VF reports whether a lit pixel was cleared.
func (m *VM) drw(ins Instruction) error {
	height := int(ins.N)
	if err := m.checkReadable(m.i, height); err != nil {
		return err
	}

	originX := int(m.v[ins.X])
	originY := int(m.v[ins.Y])
	var collision bool

	for row := range height {
		sprite := m.memory[int(m.i)+row]
		for bit := range 8 {
			if sprite&(0x80>>bit) == 0 {
				continue
			}
			index, mask := pixelPosition(originX+bit, originY+row)
			if m.framebuffer[index]&mask != 0 {
				collision = true
			}
			m.framebuffer[index] ^= mask
		}
	}

	m.v[flag] = boolToFlag(collision)
	return nil
}

func pixelPosition(x, y int) (int, byte) {
	x = wrap(x, DisplayWidth)
	y = wrap(y, DisplayHeight)
	return y*bytesPerRow + x/8, 0x80 >> (x % 8)
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
