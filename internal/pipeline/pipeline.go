// Package pipeline orchestrates the workflow stages from program detection to execution.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/audio"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/frontend/headless"
	"github.com/retroenv/chip8vm/internal/frontend/terminal"
	"github.com/retroenv/chip8vm/internal/frontend/window"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/script"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

const windowTitle = "chip8vm"

// Pipeline orchestrates the complete workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader

	// environment is used for the frontend auto selection, tests replace it.
	environment func() config.Environment
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		environment: func() config.Environment {
			return config.DetectEnvironment(window.Available)
		},
	}
}

// Load detects the program source and returns the program image.
func (p *Pipeline) Load(opts options.Program) (detector.Source, []byte, error) {
	source, err := p.detector.Detect(opts)
	if err != nil {
		return detector.Source{}, nil, fmt.Errorf("detecting program: %w", err)
	}

	image, err := p.loader.Load(source)
	if err != nil {
		return detector.Source{}, nil, err
	}

	p.logger.Debug("Program loaded",
		log.Stringer("source", source),
		log.Int("size", len(image)))
	return source, image, nil
}

// Disassemble writes a listing of the program to the writer.
func (p *Pipeline) Disassemble(opts options.Program, writer io.Writer) error {
	_, image, err := p.Load(opts)
	if err != nil {
		return err
	}

	dis := disasm.New(image, config.CreateDisasmOptions(opts))
	if err := dis.Write(writer); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// Run executes the program with the selected frontend until it halts, the user quits
// or the context is cancelled. The headless frontend writes the final screen to the writer.
func (p *Pipeline) Run(ctx context.Context, opts options.Program, writer io.Writer) (err error) {
	source, image, err := p.Load(opts)
	if err != nil {
		return err
	}

	frontend, err := config.SelectFrontend(opts, p.environment())
	if err != nil {
		return fmt.Errorf("selecting frontend: %w", err)
	}
	p.printInfo(opts, source, image, frontend)

	beeper := p.createBeeper(opts, frontend)
	defer func() {
		if closeErr := beeper.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing audio output: %w", closeErr))
		}
	}()

	machineConfig := config.CreateMachineConfig(opts)
	factory := func() (*vm.VM, error) {
		return vm.NewWithConfig(image, machineConfig)
	}

	r, err := runner.New(p.logger, factory, beeper, runner.Config{
		Speed: opts.Speed,
		Trace: opts.Trace,
	})
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	if opts.Script != "" {
		s, err := script.Load(p.logger, opts.Script)
		if err != nil {
			return fmt.Errorf("loading script %s: %w", opts.Script, err)
		}
		defer s.Close()
		r.SetHook(s.Hook)
	}

	switch frontend {
	case options.FrontendHeadless:
		return headless.Run(ctx, p.logger, r, opts.Frames, writer)
	case options.FrontendTerminal:
		return terminal.Run(ctx, p.logger, r)
	case options.FrontendWindow:
		return window.Run(ctx, p.logger, r, windowTitle+" - "+source.Name, opts.Scale)
	default:
		return fmt.Errorf("unsupported frontend: %s", frontend)
	}
}

// createBeeper combines the audio outputs requested by the options. A missing audio
// device is not fatal, the program runs without sound.
func (p *Pipeline) createBeeper(opts options.Program, frontend string) audio.Beeper {
	var beepers audio.Multi

	switch {
	case opts.Mute || frontend == options.FrontendHeadless:
	case !audio.OutputSupported:
		p.logger.Debug("Audio output not supported by this build, running without sound")
	default:
		output, err := audio.NewOutput()
		if err != nil {
			p.logger.Warn("Audio output not available, running without sound", log.Err(err))
		} else {
			beepers = append(beepers, output)
		}
	}

	if opts.Record != "" {
		beepers = append(beepers, audio.NewWavRecorder(opts.Record))
	}

	if len(beepers) == 0 {
		return audio.Nop{}
	}
	return beepers
}

// printInfo prints information about the program being run.
func (p *Pipeline) printInfo(opts options.Program, source detector.Source, image []byte, frontend string) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 program",
		log.Stringer("source", source),
		log.Int("size", len(image)),
		log.String("frontend", frontend),
		log.Int("speed", opts.Speed),
	)
}
