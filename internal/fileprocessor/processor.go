// Package fileprocessor handles the processing modes of a program file.
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/pipeline"
	"github.com/retroenv/chip8vm/internal/roms"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete processing workflow of the selected mode: listing the
// built-in programs, disassembling or running a program.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	return process(ctx, logger, opts, writer)
}

// process runs the selected mode and closes the writer.
func process(ctx context.Context, logger *log.Logger, opts options.Program, writer io.WriteCloser) (err error) {
	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing output file: %w", closeErr))
		}
	}()

	switch {
	case opts.List:
		return ListPrograms(writer)

	case opts.Disasm:
		if err := pipeline.New(logger).Disassemble(opts, writer); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}
		return nil

	default:
		if err := pipeline.New(logger).Run(ctx, opts, writer); err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		return nil
	}
}

// ListPrograms writes the names of all built-in programs, one per line.
func ListPrograms(writer io.Writer) error {
	for _, name := range roms.Names() {
		if _, err := fmt.Fprintln(writer, name); err != nil {
			return fmt.Errorf("writing program list: %w", err)
		}
	}
	return nil
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, name string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}

	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
