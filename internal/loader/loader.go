// Package loader handles program image loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/roms"
	"github.com/retroenv/chip8vm/internal/vm"
)

// Loader handles loading program images from disk or the built-in programs.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load returns the program image of the given source. Images that do not fit into the
// interpreter memory are rejected.
func (l *Loader) Load(source detector.Source) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if source.BuiltIn {
		data, err = roms.Load(source.Name)
	} else {
		data, err = os.ReadFile(source.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading program %s: %w", source, err)
	}

	if len(data) > vm.MaxProgramSize {
		return nil, fmt.Errorf("loading program %s: %w: %d bytes, maximum is %d",
			source, vm.ErrCapacity, len(data), vm.MaxProgramSize)
	}
	return data, nil
}
