//go:build !headless

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OutputSupported reports whether this build can play sound on the host.
const OutputSupported = true

const float32Size = 4

// OtoBeeper plays the tone on the host audio device.
type OtoBeeper struct {
	ctx    *oto.Context
	player *oto.Player
	active atomic.Bool

	mutex sync.Mutex // guards player

	wave squareWave // only accessed by the player goroutine
}

// NewOutput returns a beeper that plays on the host audio device.
func NewOutput() (Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	b := &OtoBeeper{
		ctx: ctx,
	}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// Read fills the player buffer with the tone or silence.
func (b *OtoBeeper) Read(p []byte) (int, error) {
	active := b.active.Load()
	n := len(p) / float32Size * float32Size
	for i := 0; i < n; i += float32Size {
		var sample float32
		if active {
			sample = b.wave.next()
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))
	}
	return n, nil
}

// SetActive implements Beeper.
func (b *OtoBeeper) SetActive(active bool) {
	b.active.Store(active)
}

// Close stops the playback.
func (b *OtoBeeper) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	if err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
