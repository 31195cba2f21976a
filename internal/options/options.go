// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendAuto     = "auto"
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Frontends lists all selectable frontend names.
var Frontends = []string{FrontendAuto, FrontendWindow, FrontendTerminal, FrontendHeadless}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input CHIP-8 program file"`
	ROM    string `flag:"rom" usage:"name of a built-in program to run"`
	Output string `flag:"o" usage:"output file for listings and screen dumps (default: stdout)"`
	Record string `flag:"record" usage:"record the sound output to a .wav file"`
	Script string `flag:"script" usage:"Lua script that drives the keypad"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"frontend" usage:"frontend: auto, window, terminal, headless" default:"auto"`
	Speed    int    `flag:"speed" usage:"instructions executed per frame" default:"15"`
	Frames   int    `flag:"frames" usage:"stop after the given number of frames, 0 runs until halted"`
	Scale    int    `flag:"scale" usage:"window pixel scale" default:"10"`
	Mute     bool   `flag:"mute" usage:"disable sound output"`
	Disasm   bool   `flag:"disasm" usage:"print a disassembly listing instead of running the program"`
	List     bool   `flag:"list" usage:"list the built-in programs"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains listing formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit instruction bytes in listing comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit addresses in listing comments"`
}

// Quirks contains interpreter compatibility options.
type Quirks struct {
	ShiftUsesVY          bool `flag:"quirk-shift" usage:"8XY6 and 8XYE shift VY into VX"`
	LoadStoreIncrementsI bool `flag:"quirk-loadstore" usage:"FX55 and FX65 increment I"`
	NoIndexOverflowFlag  bool `flag:"quirk-noindexflag" usage:"FX1E leaves VF untouched"`
	StrictAlignment      bool `flag:"strict" usage:"fault on jumps to odd addresses"`
	NoHaltOnSelfJump     bool `flag:"nohalt" usage:"keep running when the program jumps to itself"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	OutputFlags
	Quirks
}
