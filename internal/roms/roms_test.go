package roms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestNames(t *testing.T) {
	want := []string{"breakout", "kaleidoscope", "snake", "space_invaders"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("names: (-want, +got)\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.True(t, len(data) <= vm.MaxProgramSize)

			m, err := vm.New(data)
			assert.NoError(t, err)

			// the first frames of every bundled program execute without a fault
			for range 60 * 15 {
				m.Step()
			}
			assert.NoError(t, m.Fault())
		})
	}
}

func TestLoadCaseInsensitive(t *testing.T) {
	data, err := Load("Breakout")
	assert.NoError(t, err)
	assert.Equal(t, 199, len(data))
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("pong")
	assert.True(t, errors.Is(err, ErrUnknown))
	assert.ErrorContains(t, err, "breakout")
	assert.False(t, Exists("pong"))
}
