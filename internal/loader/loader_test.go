package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load program file", func(t *testing.T) {
		image := []byte{0x12, 0x34, 0x56, 0x78}
		tmpFile := createTempFile(t, image)

		data, err := New().Load(detector.Source{Name: tmpFile})
		assert.NoError(t, err)
		if diff := cmp.Diff(image, data); diff != "" {
			t.Errorf("image: (-want, +got)\n%s", diff)
		}
	})

	t.Run("load built-in program", func(t *testing.T) {
		data, err := New().Load(detector.Source{Name: "kaleidoscope", BuiltIn: true})
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(detector.Source{Name: filepath.Join(t.TempDir(), "missing.ch8")})
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("program too large", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, vm.MaxProgramSize+1))

		_, err := New().Load(detector.Source{Name: tmpFile})
		assert.True(t, errors.Is(err, vm.ErrCapacity))
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(name, data, 0o600))
	return name
}
