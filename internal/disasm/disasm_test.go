package disasm

import (
	"bytes"
	"testing"

	"github.com/retroenv/chip8vm/internal/roms"
	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

var testProgram = []byte{
	0x00, 0xE0, // cls
	0x22, 0x06, // call $206
	0x12, 0x04, // jp $204
	0xA2, 0x0A, // ld I, $20A
	0x00, 0xEE, // ret
	0xF0, 0x90, // font glyph 0
	0xFF,
}

var expectedDefault = `; CHIP-8 program disassembly, 13 bytes

.org $200

Start:
  cls                          ; $0200 00 E0
  call _func_0206              ; $0202 22 06

_label_0204:
  jp _label_0204               ; $0204 12 04

_func_0206:
  ld I, _data_020a             ; $0206 A2 0A
  ret                          ; $0208 00 EE

_data_020a:
  .word $F090                  ; $020A F0 90
  .byte $FF                    ; $020C FF
`

var expectedNoComments = `; CHIP-8 program disassembly, 4 bytes

.org $200

Start:
  jp Start
  .word $5121
`

func TestWrite(t *testing.T) {
	tests := []struct {
		Name     string
		Input    []byte
		Options  func(options *Options)
		Expected string
	}{
		{
			Name:     "default",
			Input:    testProgram,
			Expected: expectedDefault,
		},
		{
			Name: "no offset no hex",
			Options: func(options *Options) {
				options.OffsetComments = false
				options.HexComments = false
			},
			Input:    []byte{0x12, 0x00, 0x51, 0x21},
			Expected: expectedNoComments,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			options := NewOptions()
			if test.Options != nil {
				test.Options(&options)
			}

			var buffer bytes.Buffer
			dis := New(test.Input, options)
			assert.NoError(t, dis.Write(&buffer))
			assert.Equal(t, test.Expected, buffer.String())
		})
	}
}

func TestLinesOddTarget(t *testing.T) {
	// jumps into the middle of a word do not get a label
	dis := New([]byte{0x12, 0x03, 0x00, 0x61, 0x22, 0x00}, NewOptions())
	lines := dis.Lines()

	assert.Len(t, lines, 3)
	assert.Equal(t, "jp $203", lines[0].Code)
	assert.Equal(t, "", lines[1].Label)
}

func TestLinesBuiltInPrograms(t *testing.T) {
	for _, name := range roms.Names() {
		t.Run(name, func(t *testing.T) {
			data, err := roms.Load(name)
			assert.NoError(t, err)

			lines := New(data, NewOptions()).Lines()
			assert.Len(t, lines, (len(data)+1)/2)
			assert.Equal(t, startLabel, lines[0].Label)
			for i, line := range lines {
				assert.Equal(t, uint16(vm.ProgramStart+2*i), line.Address)
				assert.NotEmpty(t, line.Code)
			}
		})
	}
}
