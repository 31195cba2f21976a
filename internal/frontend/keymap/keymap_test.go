package keymap

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		ch   rune
		key  uint8
		isOK bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'q', 0x4, true},
		{'W', 0x5, true},
		{'r', 0xD, true},
		{'a', 0x7, true},
		{'f', 0xE, true},
		{'z', 0xA, true},
		{'y', 0xA, true},
		{'x', 0x0, true},
		{'c', 0xB, true},
		{'V', 0xF, true},
		{'5', 0, false},
		{'g', 0, false},
		{' ', 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.ch), func(t *testing.T) {
			key, ok := Lookup(tt.ch)
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestRunesCoverKeypad(t *testing.T) {
	var covered [vm.KeyCount]bool
	for _, ch := range Runes() {
		key, ok := Lookup(ch)
		assert.True(t, ok)
		covered[key] = true
	}
	for key, ok := range covered {
		assert.True(t, ok, "key %X not mapped", key)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		key  uint8
		isOK bool
	}{
		{"0", 0x0, true},
		{"9", 0x9, true},
		{"a", 0xA, true},
		{"F", 0xF, true},
		{"key:q", 0x4, true},
		{"key:X", 0x0, true},
		{"g", 0, false},
		{"10", 0, false},
		{"key:g", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := Parse(tt.name)
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}
