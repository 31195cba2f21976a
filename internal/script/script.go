// Package script runs Lua scripts that drive a program frame by frame, for example to
// feed key presses to a headless run.
//
// A script defines a global function frame(n) that is called at the start of every frame.
// The following functions are available to it:
//
//	press(key)       queue a key press, key is a number 0-15, a hex digit or "key:<ch>"
//	release(key)     queue a key release
//	halted()         whether the machine halted
//	register(x)      value of register VX
//	pixel(x, y)      whether the display pixel is set
//	peek(address)    byte at the memory address
//	log(message)     write an info log message
//	quit()           end the run
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/frontend/keymap"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
	lua "github.com/yuin/gopher-lua"
)

const frameFunction = "frame"

var errNoFrameFunction = errors.New("script does not define a frame function")

// Script is a loaded Lua script. It is not safe for concurrent use.
type Script struct {
	logger *log.Logger
	state  *lua.LState
	frame  lua.LValue

	runner *runner.Runner // set while the frame function runs
}

// Load reads and executes the script file.
func Load(logger *log.Logger, filename string) (*Script, error) {
	return load(logger, func(state *lua.LState) error {
		return state.DoFile(filename)
	})
}

// LoadString executes the script source.
func LoadString(logger *log.Logger, source string) (*Script, error) {
	return load(logger, func(state *lua.LState) error {
		return state.DoString(source)
	})
}

func load(logger *log.Logger, run func(state *lua.LState) error) (*Script, error) {
	s := &Script{
		logger: logger,
		state:  lua.NewState(),
	}
	s.register()

	if err := run(s.state); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("loading script: %w", err)
	}

	s.frame = s.state.GetGlobal(frameFunction)
	if s.frame.Type() != lua.LTFunction {
		s.state.Close()
		return nil, errNoFrameFunction
	}
	return s, nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.state.Close()
}

// Hook calls the frame function of the script, it is used as runner hook.
func (s *Script) Hook(r *runner.Runner, frame int) error {
	s.runner = r
	defer func() { s.runner = nil }()

	err := s.state.CallByParam(lua.P{
		Fn:      s.frame,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame))
	if err != nil {
		return fmt.Errorf("calling frame %d: %w", frame, err)
	}
	return nil
}

func (s *Script) register() {
	functions := map[string]lua.LGFunction{
		"press":    s.press,
		"release":  s.release,
		"halted":   s.halted,
		"register": s.registerValue,
		"pixel":    s.pixel,
		"peek":     s.peek,
		"log":      s.log,
		"quit":     s.quit,
	}
	for name, fn := range functions {
		s.state.SetGlobal(name, s.state.NewFunction(fn))
	}
}

// activeRunner returns the runner of the current frame, functions called outside of a
// frame raise a Lua error.
func (s *Script) activeRunner(state *lua.LState) *runner.Runner {
	if s.runner == nil {
		state.RaiseError("function can only be called from the frame function")
	}
	return s.runner
}

func (s *Script) press(state *lua.LState) int {
	r := s.activeRunner(state)
	r.Press(checkKey(state, 1))
	return 0
}

func (s *Script) release(state *lua.LState) int {
	r := s.activeRunner(state)
	r.Release(checkKey(state, 1))
	return 0
}

func (s *Script) halted(state *lua.LState) int {
	r := s.activeRunner(state)
	state.Push(lua.LBool(r.Machine().Halted()))
	return 1
}

func (s *Script) registerValue(state *lua.LState) int {
	r := s.activeRunner(state)
	x := state.CheckInt(1)
	if x < 0 || x >= vm.RegisterCount {
		state.ArgError(1, fmt.Sprintf("register index %d out of range", x))
	}
	state.Push(lua.LNumber(r.Machine().State().V[x]))
	return 1
}

func (s *Script) pixel(state *lua.LState) int {
	r := s.activeRunner(state)
	x := state.CheckInt(1)
	y := state.CheckInt(2)
	state.Push(lua.LBool(r.Machine().Pixel(x, y)))
	return 1
}

func (s *Script) peek(state *lua.LState) int {
	r := s.activeRunner(state)
	address := state.CheckInt(1)
	if address < 0 || address >= vm.MemorySize {
		state.ArgError(1, fmt.Sprintf("address $%X out of range", address))
	}
	value, err := r.Machine().ReadMemory(uint16(address))
	if err != nil {
		state.RaiseError("%s", err.Error())
	}
	state.Push(lua.LNumber(value))
	return 1
}

func (s *Script) log(state *lua.LState) int {
	message := state.CheckString(1)
	s.logger.Info("Script", log.String("message", message))
	return 0
}

func (s *Script) quit(state *lua.LState) int {
	r := s.activeRunner(state)
	r.Quit()
	return 0
}

// checkKey returns the keypad key of the argument, it accepts key numbers and the
// names supported by keymap.Parse.
func checkKey(state *lua.LState, n int) uint8 {
	switch value := state.CheckAny(n).(type) {
	case lua.LNumber:
		key := int(value)
		if key < 0 || key >= vm.KeyCount {
			state.ArgError(n, fmt.Sprintf("key %d out of range", key))
		}
		return uint8(key)

	case lua.LString:
		key, ok := keymap.Parse(strings.TrimSpace(string(value)))
		if !ok {
			state.ArgError(n, fmt.Sprintf("unsupported key name '%s'", string(value)))
		}
		return key

	default:
		state.TypeError(n, lua.LTNumber)
		return 0
	}
}
