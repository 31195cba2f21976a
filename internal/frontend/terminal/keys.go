package terminal

import "github.com/retroenv/chip8vm/internal/vm"

// keyTracker synthesizes key releases, terminals only report key presses. A key is
// held for a number of frames after its last press, key repeat of the terminal
// extends the hold.
type keyTracker struct {
	hold      int
	remaining [vm.KeyCount]int
}

func newKeyTracker(hold int) *keyTracker {
	return &keyTracker{hold: hold}
}

// press marks the key as held and returns whether it was released before.
func (k *keyTracker) press(key uint8) bool {
	released := k.remaining[key] == 0
	k.remaining[key] = k.hold
	return released
}

// expire advances the hold counters by one frame and returns the keys to release.
func (k *keyTracker) expire() []uint8 {
	var released []uint8
	for key, remaining := range k.remaining {
		if remaining == 0 {
			continue
		}
		k.remaining[key]--
		if k.remaining[key] == 0 {
			released = append(released, uint8(key))
		}
	}
	return released
}

// reset releases all keys without reporting them.
func (k *keyTracker) reset() {
	k.remaining = [vm.KeyCount]int{}
}
