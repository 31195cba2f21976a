// Package audio produces the tone that is played while the sound timer of the
// interpreter is running.
package audio

import (
	"errors"
)

// Output format of all beepers.
const (
	SampleRate    = 44100
	ToneFrequency = 440
	FrameRate     = 60

	// SamplesPerFrame is the number of samples that cover one 60 Hz frame.
	SamplesPerFrame = SampleRate / FrameRate

	amplitude = 0.25
)

// Beeper plays a fixed tone while it is active.
type Beeper interface {
	SetActive(active bool)
	Close() error
}

// Advancer is implemented by beepers that render their output in lockstep with the
// emulated frames instead of in real time.
type Advancer interface {
	Advance()
}

// Nop is a beeper without output.
type Nop struct{}

// SetActive implements Beeper.
func (Nop) SetActive(bool) {}

// Close implements Beeper.
func (Nop) Close() error { return nil }

// Multi forwards all calls to every contained beeper.
type Multi []Beeper

// SetActive implements Beeper.
func (m Multi) SetActive(active bool) {
	for _, b := range m {
		b.SetActive(active)
	}
}

// Advance forwards the frame advance to all beepers that render in lockstep.
func (m Multi) Advance() {
	for _, b := range m {
		if a, ok := b.(Advancer); ok {
			a.Advance()
		}
	}
}

// Close closes all beepers and returns the joined errors.
func (m Multi) Close() error {
	var errs []error
	for _, b := range m {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// squareWave generates a square wave of ToneFrequency.
type squareWave struct {
	position int
}

const wavePeriod = SampleRate / ToneFrequency

// next returns the next sample in the range of -amplitude to amplitude.
func (w *squareWave) next() float32 {
	sample := float32(amplitude)
	if w.position >= wavePeriod/2 {
		sample = -amplitude
	}
	w.position = (w.position + 1) % wavePeriod
	return sample
}
