// Package runner implements the host pacing policy. It owns one interpreter instance at
// a time, executes a fixed number of instructions per 60 Hz frame, ticks the timers once
// per frame and forwards key events and sound state between the host and the machine.
package runner

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/audio"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second, timers are decremented once per frame.
const FrameRate = 60

// Factory creates a new machine instance with the program loaded.
type Factory func() (*vm.VM, error)

// Hook is called at the start of every frame before queued key events are applied.
type Hook func(r *Runner, frame int) error

// Config contains the pacing options.
type Config struct {
	Speed int  // instructions per frame
	Trace bool // log every executed instruction
}

type keyEvent struct {
	key     uint8
	pressed bool
}

// Runner drives a machine frame by frame. It is not safe for concurrent use, frontends
// call it from their frame loop.
type Runner struct {
	logger  *log.Logger
	factory Factory
	beeper  audio.Beeper
	cfg     Config
	hook    Hook

	machine *vm.VM
	frame   int
	paused  bool
	done    bool
	events  []keyEvent
}

// New returns a new runner with a fresh machine created by the factory.
func New(logger *log.Logger, factory Factory, beeper audio.Beeper, cfg Config) (*Runner, error) {
	if cfg.Speed <= 0 {
		return nil, fmt.Errorf("invalid speed %d", cfg.Speed)
	}
	if beeper == nil {
		beeper = audio.Nop{}
	}

	r := &Runner{
		logger:  logger,
		factory: factory,
		beeper:  beeper,
		cfg:     cfg,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// SetHook sets the per frame hook, nil removes it.
func (r *Runner) SetHook(hook Hook) {
	r.hook = hook
}

func (r *Runner) load() error {
	machine, err := r.factory()
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}
	r.machine = machine
	r.frame = 0
	r.paused = false
	r.done = false
	r.events = r.events[:0]
	r.beeper.SetActive(false)
	return nil
}

// Reset replaces the machine by a new instance of the same program.
func (r *Runner) Reset() error {
	if err := r.load(); err != nil {
		return err
	}
	r.logger.Info("Program reset")
	return nil
}

// Pause toggles the pause state and returns the new state. A paused machine does not
// execute instructions and its timers stand still.
func (r *Runner) Pause() bool {
	r.paused = !r.paused
	r.beeper.SetActive(false)
	if r.paused {
		r.logger.Debug("Paused", log.Int("frame", r.frame))
	} else {
		r.logger.Debug("Resumed", log.Int("frame", r.frame))
	}
	return r.paused
}

// Press queues a key press for the next frame.
func (r *Runner) Press(key uint8) {
	r.events = append(r.events, keyEvent{key: key, pressed: true})
}

// Release queues a key release for the next frame. A release that follows a press queued
// for the same frame takes effect one frame later.
func (r *Runner) Release(key uint8) {
	r.events = append(r.events, keyEvent{key: key, pressed: false})
}

// Quit ends the run without halting the machine.
func (r *Runner) Quit() {
	r.done = true
	r.beeper.SetActive(false)
}

// Machine returns the current machine instance.
func (r *Runner) Machine() *vm.VM {
	return r.machine
}

// Frames returns the number of frames run since the machine was created.
func (r *Runner) Frames() int {
	return r.frame
}

// Paused returns whether the runner is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

// Done returns whether the run ended, either by a halted machine or by Quit.
func (r *Runner) Done() bool {
	return r.done
}

// Frame runs a single 60 Hz frame.
func (r *Runner) Frame() error {
	if r.done {
		return nil
	}

	if r.hook != nil {
		if err := r.hook(r, r.frame); err != nil {
			r.Quit()
			return fmt.Errorf("running frame hook: %w", err)
		}
		if r.done {
			return nil
		}
	}

	r.applyEvents()

	if !r.paused {
		r.execute()
		r.machine.TickTimers()
	}

	r.beeper.SetActive(!r.paused && r.machine.SoundActive())
	if advancer, ok := r.beeper.(audio.Advancer); ok {
		advancer.Advance()
	}
	r.frame++

	if r.machine.Halted() {
		r.finish()
	}
	return nil
}

// applyEvents forwards the queued key events to the machine. The release of a key that
// was pressed in the same frame is kept queued for the next frame, together with all
// following events of that key, so that a short tap is visible to EX9E and EXA1.
func (r *Runner) applyEvents() {
	var (
		pressed  [vm.KeyCount]bool
		deferred [vm.KeyCount]bool
		next     []keyEvent
	)

	for _, event := range r.events {
		key := int(event.key)
		if key >= vm.KeyCount {
			continue
		}

		switch {
		case deferred[key] || (!event.pressed && pressed[key]):
			deferred[key] = true
			next = append(next, event)
		case event.pressed:
			r.machine.KeyPressed(event.key)
			pressed[key] = true
		default:
			r.machine.KeyReleased(event.key)
		}
	}

	r.events = append(r.events[:0], next...)
}

func (r *Runner) execute() {
	for range r.cfg.Speed {
		if r.machine.Halted() || r.machine.AwaitingKey() {
			return
		}
		if r.cfg.Trace {
			r.trace()
		}
		r.machine.Step()
	}
}

func (r *Runner) trace() {
	state := r.machine.State()
	opcode, ok := r.machine.NextOpcode()
	if !ok {
		return
	}
	r.logger.Debug("Step",
		log.Hex("pc", state.PC),
		log.Hex("opcode", opcode),
		log.String("instruction", disasm.Format(opcode)),
		log.Hex("i", state.I))
}

// finish ends the run and logs the reason of the halt once.
func (r *Runner) finish() {
	r.done = true
	r.beeper.SetActive(false)

	err := r.machine.Fault()
	var fault *vm.Fault
	if !errors.As(err, &fault) {
		return
	}

	if errors.Is(fault, vm.ErrTerminated) {
		r.logger.Info("Program terminated",
			log.Hex("pc", fault.PC),
			log.Int("frames", r.frame))
		return
	}

	r.logger.Error("Program halted by fault",
		log.Err(fault.Err),
		log.Hex("pc", fault.PC),
		log.Hex("opcode", fault.Opcode),
		log.Int("frames", r.frame))
}
