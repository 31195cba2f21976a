// Package detector handles program source detection.
package detector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/roms"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoProgram is returned when the options do not name a program.
var ErrNoProgram = errors.New("no program file or built-in program given")

// extensions that CHIP-8 programs are commonly distributed with.
var extensions = []string{".ch8", ".c8", ".rom"}

// Source describes where the program image is read from.
type Source struct {
	Name    string // file path or built-in program name
	BuiltIn bool
}

func (s Source) String() string {
	if s.BuiltIn {
		return "built-in:" + s.Name
	}
	return s.Name
}

// Detector handles program source detection from options.
type Detector struct {
	logger *log.Logger
}

// New creates a new source detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the program source from options. An explicitly requested built-in
// program has to exist, an input name that is not an existing file is looked up in the
// built-in programs.
func (d *Detector) Detect(opts options.Program) (Source, error) {
	if opts.ROM != "" {
		if !roms.Exists(opts.ROM) {
			return Source{}, fmt.Errorf("%w '%s', available: %s",
				roms.ErrUnknown, opts.ROM, strings.Join(roms.Names(), ", "))
		}
		return Source{Name: strings.ToLower(opts.ROM), BuiltIn: true}, nil
	}

	if opts.Input == "" {
		return Source{}, ErrNoProgram
	}

	if _, err := os.Stat(opts.Input); err != nil && roms.Exists(opts.Input) {
		source := Source{Name: strings.ToLower(opts.Input), BuiltIn: true}
		d.logger.Debug("Auto-detected built-in program",
			log.Stringer("source", source))
		return source, nil
	}

	d.checkExtension(opts.Input)
	return Source{Name: opts.Input}, nil
}

// checkExtension warns about files that do not look like a CHIP-8 program.
func (d *Detector) checkExtension(filename string) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, expected := range extensions {
		if ext == expected {
			return
		}
	}

	d.logger.Warn("Unexpected file extension for a CHIP-8 program, loading it anyway",
		log.String("file", filename),
		log.String("extension", ext))
}
