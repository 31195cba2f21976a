package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth     = 16
	wavPCMFormat    = 1
	wavMaxAmplitude = 1<<(wavBitDepth-1) - 1
)

// WavRecorder records the tone to a WAV file. Samples are buffered in memory, one frame
// per Advance call, and written to the file when the recorder is closed.
type WavRecorder struct {
	filename string
	active   bool
	wave     squareWave
	samples  []int
}

// NewWavRecorder returns a recorder that writes to the given file on Close.
func NewWavRecorder(filename string) *WavRecorder {
	return &WavRecorder{
		filename: filename,
	}
}

// SetActive implements Beeper.
func (r *WavRecorder) SetActive(active bool) {
	r.active = active
}

// Advance renders the samples of one frame.
func (r *WavRecorder) Advance() {
	for range SamplesPerFrame {
		if !r.active {
			r.samples = append(r.samples, 0)
			continue
		}
		r.samples = append(r.samples, int(r.wave.next()*wavMaxAmplitude))
	}
}

// Frames returns the number of recorded frames.
func (r *WavRecorder) Frames() int {
	return len(r.samples) / SamplesPerFrame
}

// Close writes the recorded samples as mono 16 bit PCM WAV file.
func (r *WavRecorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, wavBitDepth, 1, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}
	return nil
}
