//go:build headless

package audio

import "errors"

// OutputSupported reports whether this build can play sound on the host.
const OutputSupported = false

// NewOutput returns an error as headless builds do not contain an audio backend.
func NewOutput() (Beeper, error) {
	return nil, errors.New("sound output is not supported by headless builds")
}
