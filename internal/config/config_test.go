package config

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestCreateMachineConfig(t *testing.T) {
	cfg := CreateMachineConfig(options.Program{})
	assert.True(t, cfg.IndexOverflowFlag)
	assert.True(t, cfg.HaltOnSelfJump)
	assert.False(t, cfg.ShiftUsesVY)
	assert.False(t, cfg.LoadStoreIncrementsI)
	assert.False(t, cfg.StrictAlignment)

	cfg = CreateMachineConfig(options.Program{
		Quirks: options.Quirks{
			ShiftUsesVY:          true,
			LoadStoreIncrementsI: true,
			NoIndexOverflowFlag:  true,
			StrictAlignment:      true,
			NoHaltOnSelfJump:     true,
		},
	})
	assert.False(t, cfg.IndexOverflowFlag)
	assert.False(t, cfg.HaltOnSelfJump)
	assert.True(t, cfg.ShiftUsesVY)
	assert.True(t, cfg.LoadStoreIncrementsI)
	assert.True(t, cfg.StrictAlignment)

	// the configuration is accepted by the interpreter
	_, err := vm.NewWithConfig(nil, cfg)
	assert.NoError(t, err)
}

func TestCreateDisasmOptions(t *testing.T) {
	opts := CreateDisasmOptions(options.Program{})
	assert.True(t, opts.HexComments)
	assert.True(t, opts.OffsetComments)

	opts = CreateDisasmOptions(options.Program{
		OutputFlags: options.OutputFlags{NoHexComments: true, NoOffsets: true},
	})
	assert.False(t, opts.HexComments)
	assert.False(t, opts.OffsetComments)
}

func TestSelectFrontend(t *testing.T) {
	desktop := Environment{WindowSupport: true, Display: true, Terminal: true}
	console := Environment{WindowSupport: true, Terminal: true}
	pipe := Environment{}

	tests := []struct {
		name     string
		opts     options.Program
		env      Environment
		want     string
		hasError bool
	}{
		{"auto with display", options.Program{}, desktop, options.FrontendWindow, false},
		{"auto without display", options.Program{}, console, options.FrontendTerminal, false},
		{"auto without terminal", options.Program{}, pipe, options.FrontendHeadless, false},
		{"auto with script", options.Program{Parameters: options.Parameters{Script: "test.lua"}}, desktop, options.FrontendHeadless, false},
		{"auto with frame limit", options.Program{Flags: options.Flags{Frames: 10}}, desktop, options.FrontendHeadless, false},
		{"explicit terminal", options.Program{Flags: options.Flags{Frontend: options.FrontendTerminal}}, pipe, options.FrontendTerminal, false},
		{"explicit window", options.Program{Flags: options.Flags{Frontend: options.FrontendWindow}}, console, options.FrontendWindow, false},
		{"window not built", options.Program{Flags: options.Flags{Frontend: options.FrontendWindow}}, pipe, "", true},
		{"unknown", options.Program{Flags: options.Flags{Frontend: "sdl"}}, desktop, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectFrontend(tt.opts, tt.env)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
