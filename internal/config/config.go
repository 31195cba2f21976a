// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineConfig creates the interpreter configuration from the quirk options.
// Self jumps halt the machine unless disabled, as programs use them to signal their end.
func CreateMachineConfig(opts options.Program) vm.Config {
	cfg := vm.DefaultConfig()
	cfg.IndexOverflowFlag = !opts.NoIndexOverflowFlag
	cfg.ShiftUsesVY = opts.ShiftUsesVY
	cfg.LoadStoreIncrementsI = opts.LoadStoreIncrementsI
	cfg.StrictAlignment = opts.StrictAlignment
	cfg.HaltOnSelfJump = !opts.NoHaltOnSelfJump
	return cfg
}

// CreateDisasmOptions creates the listing options from the output flags.
func CreateDisasmOptions(opts options.Program) disasm.Options {
	disasmOptions := disasm.NewOptions()
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets
	return disasmOptions
}

// Environment describes the host capabilities that the frontend selection depends on.
type Environment struct {
	WindowSupport bool // binary was built with the window frontend
	Display       bool // a graphical display is available
	Terminal      bool // standard input and output are connected to a terminal
}

// DetectEnvironment inspects the current process environment.
func DetectEnvironment(windowSupport bool) Environment {
	display := true
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		display = os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}

	return Environment{
		WindowSupport: windowSupport,
		Display:       display,
		Terminal:      term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// SelectFrontend resolves the frontend to use. A script or a frame limit selects the
// headless frontend when no explicit frontend was requested.
func SelectFrontend(opts options.Program, env Environment) (string, error) {
	switch opts.Frontend {
	case options.FrontendWindow:
		if !env.WindowSupport {
			return "", fmt.Errorf("window frontend is not supported by this build")
		}
		return options.FrontendWindow, nil

	case options.FrontendTerminal, options.FrontendHeadless:
		return opts.Frontend, nil

	case options.FrontendAuto, "":
		switch {
		case opts.Script != "" || opts.Frames > 0:
			return options.FrontendHeadless, nil
		case env.WindowSupport && env.Display:
			return options.FrontendWindow, nil
		case env.Terminal:
			return options.FrontendTerminal, nil
		default:
			return options.FrontendHeadless, nil
		}

	default:
		return "", fmt.Errorf("unsupported frontend: %s", opts.Frontend)
	}
}
