package vm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestClearScreen(t *testing.T) {
	m := newTestVM(t, 0x00E0)
	for i := range m.framebuffer {
		m.framebuffer[i] = 0xFF
	}

	m.Step()
	assert.Equal(t, [FramebufferSize]byte{}, m.Framebuffer())
	assert.Equal(t, uint16(0x202), m.pc)
}

func TestDrawSprite(t *testing.T) {
	// draw the font glyph "0" at (2, 1)
	m := newTestVM(t, 0xF029, 0xD125)
	m.v[0] = 0
	m.v[1] = 2
	m.v[2] = 1

	steps(m, 2)
	assert.Equal(t, uint8(0), m.v[flag])

	var want [FramebufferSize]byte
	glyph := fontSet[:FontGlyphSize]
	for row, b := range glyph {
		want[(1+row)*bytesPerRow] = b >> 2
	}
	if diff := cmp.Diff(want, m.Framebuffer()); diff != "" {
		t.Errorf("framebuffer: (-want, +got)\n%s", diff)
	}

	assert.True(t, m.Pixel(2, 1))
	assert.True(t, m.Pixel(5, 1))
	assert.False(t, m.Pixel(6, 1))
	assert.True(t, m.Pixel(2, 2))
	assert.False(t, m.Pixel(3, 2))
}

func TestDrawTwiceRestoresFramebuffer(t *testing.T) {
	m := newTestVM(t, 0xA300, 0xD015, 0xD015)
	copy(m.memory[0x300:], []byte{0xFF, 0x81, 0xA5, 0x81, 0xFF})
	m.v[0] = 10
	m.v[1] = 7
	m.framebuffer[0] = 0x55 // unrelated content survives both draws
	original := m.Framebuffer()

	steps(m, 2)
	assert.Equal(t, uint8(0), m.v[flag])
	assert.True(t, m.Framebuffer() != original)

	m.Step()
	assert.Equal(t, uint8(1), m.v[flag])
	assert.Equal(t, original, m.Framebuffer())
}

func TestDrawWrapsAround(t *testing.T) {
	m := newTestVM(t, 0xA300, 0xD012)
	copy(m.memory[0x300:], []byte{0xFF, 0xFF})
	m.v[0] = 60
	m.v[1] = 31

	steps(m, 2)
	// row 31: x 60-63 and 0-3
	assert.Equal(t, byte(0x0F), m.framebuffer[31*bytesPerRow+7])
	assert.Equal(t, byte(0xF0), m.framebuffer[31*bytesPerRow])
	// second sprite row wraps to row 0
	assert.Equal(t, byte(0x0F), m.framebuffer[7])
	assert.Equal(t, byte(0xF0), m.framebuffer[0])
}

func TestDrawCoordinatesWrapModuloDisplay(t *testing.T) {
	m := newTestVM(t, 0xA300, 0xD011)
	m.memory[0x300] = 0x80
	m.v[0] = 64 + 3
	m.v[1] = 32 + 2

	steps(m, 2)
	assert.True(t, m.Pixel(3, 2))
}

func TestDrawCollisionOnlyForClearedPixels(t *testing.T) {
	m := newTestVM(t, 0xA300, 0xD011, 0xA301, 0xD011)
	m.memory[0x300] = 0xF0
	m.memory[0x301] = 0x0F

	steps(m, 2)
	assert.Equal(t, uint8(0), m.v[flag])

	steps(m, 2)
	assert.Equal(t, uint8(0), m.v[flag])
	assert.Equal(t, byte(0xFF), m.framebuffer[0])
}

func TestDrawZeroHeight(t *testing.T) {
	m := newTestVM(t, 0xD010)
	m.v[flag] = 1
	m.Step()
	assert.Equal(t, uint8(0), m.v[flag])
	assert.Equal(t, [FramebufferSize]byte{}, m.Framebuffer())
}

func TestPixelWraps(t *testing.T) {
	m := newTestVM(t)
	m.framebuffer[0] = 0x80
	assert.True(t, m.Pixel(0, 0))
	assert.True(t, m.Pixel(DisplayWidth, DisplayHeight))
	assert.True(t, m.Pixel(-DisplayWidth, 0))
	assert.False(t, m.Pixel(-1, 0))
}
