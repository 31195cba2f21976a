package runner

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type testBeeper struct {
	active    bool
	changes   []bool
	advanced  int
	closeCall int
}

func (b *testBeeper) SetActive(active bool) {
	if active != b.active {
		b.changes = append(b.changes, active)
	}
	b.active = active
}

func (b *testBeeper) Advance()     { b.advanced++ }
func (b *testBeeper) Close() error { b.closeCall++; return nil }

func factory(words ...uint16) Factory {
	return func() (*vm.VM, error) {
		image := make([]byte, 0, len(words)*2)
		for _, w := range words {
			image = append(image, byte(w>>8), byte(w))
		}
		return vm.New(image)
	}
}

func newTestRunner(t *testing.T, speed int, words ...uint16) (*Runner, *testBeeper) {
	t.Helper()
	beeper := &testBeeper{}
	r, err := New(log.NewTestLogger(t), factory(words...), beeper, Config{Speed: speed})
	assert.NoError(t, err)
	return r, beeper
}

func TestNew(t *testing.T) {
	_, err := New(log.NewTestLogger(t), factory(), nil, Config{Speed: 0})
	assert.ErrorContains(t, err, "invalid speed")

	errFactory := errors.New("no program")
	_, err = New(log.NewTestLogger(t), func() (*vm.VM, error) { return nil, errFactory }, nil, Config{Speed: 1})
	assert.True(t, errors.Is(err, errFactory))

	r, err := New(log.NewTestLogger(t), factory(0x1200), nil, Config{Speed: 1})
	assert.NoError(t, err)
	assert.NoError(t, r.Frame())
}

func TestFrameSpeed(t *testing.T) {
	// 0x200: ADD V0, 1
	// 0x202: JP 0x200
	r, _ := newTestRunner(t, 10, 0x7001, 0x1200)

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(5), r.Machine().State().V[0])
	assert.Equal(t, 1, r.Frames())

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(10), r.Machine().State().V[0])
	assert.Equal(t, 2, r.Frames())
}

func TestFrameTicksTimersOnce(t *testing.T) {
	// LD V0, 5; LD DT, V0; JP self
	r, _ := newTestRunner(t, 10, 0x6005, 0xF015, 0x1204)

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(4), r.Machine().State().DelayTimer)
	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(3), r.Machine().State().DelayTimer)
	assert.False(t, r.Done())
}

func TestFrameSound(t *testing.T) {
	// LD V0, 2; LD ST, V0; JP self
	r, beeper := newTestRunner(t, 10, 0x6002, 0xF018, 0x1204)

	assert.NoError(t, r.Frame())
	assert.True(t, beeper.active)
	assert.NoError(t, r.Frame())
	assert.False(t, beeper.active)
	assert.Equal(t, 2, beeper.advanced)
	assert.Len(t, beeper.changes, 2)
}

func TestPause(t *testing.T) {
	r, _ := newTestRunner(t, 10, 0x6005, 0xF015, 0x1204)
	assert.NoError(t, r.Frame())
	before := r.Machine().State()

	assert.True(t, r.Pause())
	assert.True(t, r.Paused())
	assert.NoError(t, r.Frame())
	assert.Equal(t, before, r.Machine().State())

	assert.False(t, r.Pause())
	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(3), r.Machine().State().DelayTimer)
}

func TestKeyEvents(t *testing.T) {
	// LD V0, K; JP self
	r, _ := newTestRunner(t, 10, 0xF00A, 0x1202)

	assert.NoError(t, r.Frame())
	assert.True(t, r.Machine().AwaitingKey())

	r.Press(5)
	assert.NoError(t, r.Frame())
	assert.False(t, r.Machine().AwaitingKey())
	assert.Equal(t, uint8(5), r.Machine().State().V[0])
	assert.True(t, r.Machine().KeyDown(5))

	r.Release(5)
	assert.NoError(t, r.Frame())
	assert.False(t, r.Machine().KeyDown(5))
}

func TestShortKeyTap(t *testing.T) {
	r, _ := newTestRunner(t, 10,
		0x6105, // LD V1, $05
		0xE19E, // SKP V1
		0x1202, // JP $202
		0x6201, // LD V2, $01
		0x1208, // JP $208
	)
	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(0), r.Machine().State().V[2])

	// press and release within one frame
	r.Press(5)
	r.Release(5)
	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(1), r.Machine().State().V[2])
	assert.True(t, r.Machine().KeyDown(5))

	assert.NoError(t, r.Frame())
	assert.False(t, r.Machine().KeyDown(5))
}

func TestDeferredKeyEventOrder(t *testing.T) {
	r, _ := newTestRunner(t, 1, 0x1200)

	r.Press(3)
	r.Release(3)
	r.Press(3)
	r.Press(7)
	r.Release(7)
	r.Release(0x1F) // outside of the keypad
	assert.NoError(t, r.Frame())
	assert.True(t, r.Machine().KeyDown(3))
	assert.True(t, r.Machine().KeyDown(7))

	// release and press of key 3 follow in order
	assert.NoError(t, r.Frame())
	assert.True(t, r.Machine().KeyDown(3))
	assert.False(t, r.Machine().KeyDown(7))

	r.Release(3)
	assert.NoError(t, r.Frame())
	assert.False(t, r.Machine().KeyDown(3))
}

func TestFaultEndsRun(t *testing.T) {
	// faults are logged at error level, which fails tests using the test logger
	var output bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &output
	cfg.TimeFormat = "-"

	r, err := New(log.NewWithConfig(cfg), factory(0x6001, 0xF0FF), nil, Config{Speed: 10})
	assert.NoError(t, err)

	assert.NoError(t, r.Frame())
	assert.True(t, r.Done())
	assert.True(t, errors.Is(r.Machine().Fault(), vm.ErrInvalidOpcode))

	// further frames are ignored
	assert.NoError(t, r.Frame())
	assert.NoError(t, r.Frame())
	assert.Equal(t, 1, r.Frames())
	assert.Equal(t, 1, strings.Count(output.String(), "Program halted by fault"))
	assert.Contains(t, output.String(), "invalid opcode")

	assert.NoError(t, r.Reset())
	assert.False(t, r.Done())
	assert.False(t, r.Machine().Halted())
	assert.Equal(t, 0, r.Frames())
}

func TestHook(t *testing.T) {
	// LD V0, K; JP self
	r, _ := newTestRunner(t, 10, 0xF00A, 0x1202)

	var frames []int
	r.SetHook(func(r *Runner, frame int) error {
		frames = append(frames, frame)
		switch frame {
		case 1:
			r.Press(0xA)
		case 3:
			r.Quit()
		}
		return nil
	})

	for range 10 {
		assert.NoError(t, r.Frame())
	}
	assert.True(t, r.Done())
	assert.Equal(t, 4, len(frames))
	assert.Equal(t, 3, r.Frames())
	assert.Equal(t, uint8(0xA), r.Machine().State().V[0])
	assert.False(t, r.Machine().Halted())
}

func TestHookError(t *testing.T) {
	r, _ := newTestRunner(t, 1, 0x1200)
	errHook := errors.New("script failed")
	r.SetHook(func(*Runner, int) error { return errHook })

	err := r.Frame()
	assert.True(t, errors.Is(err, errHook))
	assert.True(t, r.Done())
}

func TestTrace(t *testing.T) {
	beeper := &testBeeper{}
	r, err := New(log.NewTestLogger(t), factory(0x7001, 0x1200), beeper, Config{Speed: 4, Trace: true})
	assert.NoError(t, err)
	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(2), r.Machine().State().V[0])
}
