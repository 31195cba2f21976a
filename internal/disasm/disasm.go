// Package disasm implements a linear sweep disassembler for CHIP-8 program images.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8vm/internal/vm"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"

	commentColumn = 30
)

// Options defines options to control the listing output.
type Options struct {
	HexComments    bool // output the instruction bytes as hex values in comments
	OffsetComments bool // output the memory address of every line in comments
}

// NewOptions returns the default listing options.
func NewOptions() Options {
	return Options{
		HexComments:    true,
		OffsetComments: true,
	}
}

// Line is a single disassembled line of a program image.
type Line struct {
	Address uint16
	Label   string
	Code    string
	Data    []byte
}

// Disasm disassembles a program image that is loaded at vm.ProgramStart.
type Disasm struct {
	image   []byte
	options Options

	jumpTargets set.Set[uint16]
	callTargets set.Set[uint16]
	dataTargets set.Set[uint16]
}

// New returns a new disassembler for the given program image.
func New(image []byte, options Options) *Disasm {
	return &Disasm{
		image:       image,
		options:     options,
		jumpTargets: set.New[uint16](),
		callTargets: set.New[uint16](),
		dataTargets: set.New[uint16](),
	}
}

// Lines returns the disassembled lines of the program image. Every 2 byte word is
// decoded as an instruction, labels are generated for all referenced addresses that
// are located at a word boundary inside the image.
func (d *Disasm) Lines() []Line {
	d.collectTargets()

	lines := make([]Line, 0, len(d.image)/2+1)
	for offset := 0; offset < len(d.image); offset += 2 {
		address := uint16(vm.ProgramStart + offset)
		line := Line{
			Address: address,
			Label:   d.label(address),
		}

		if offset+1 == len(d.image) {
			line.Data = d.image[offset:]
			line.Code = fmt.Sprintf(".byte $%02X", d.image[offset])
			lines = append(lines, line)
			break
		}

		line.Data = d.image[offset : offset+2]
		opcode := uint16(line.Data[0])<<8 | uint16(line.Data[1])
		ins, err := vm.Decode(opcode)
		if err != nil {
			line.Code = fmt.Sprintf(".word $%04X", opcode)
		} else {
			line.Code = formatInstruction(ins, d.label)
		}
		lines = append(lines, line)
	}
	return lines
}

// collectTargets marks all addresses referenced by jumps, calls and index loads.
func (d *Disasm) collectTargets() {
	for offset := 0; offset+1 < len(d.image); offset += 2 {
		opcode := uint16(d.image[offset])<<8 | uint16(d.image[offset+1])
		ins, err := vm.Decode(opcode)
		if err != nil {
			continue
		}

		switch ins.Op {
		case vm.OpJp, vm.OpJpV0:
			d.jumpTargets.Add(ins.NNN)
		case vm.OpCall:
			d.callTargets.Add(ins.NNN)
		case vm.OpLdI:
			d.dataTargets.Add(ins.NNN)
		}
	}
}

// label returns the label name of an address or an empty string if the address has
// no label or is not the start of a listing line.
func (d *Disasm) label(address uint16) string {
	offset := int(address) - vm.ProgramStart
	if offset < 0 || offset >= len(d.image) || offset%2 != 0 {
		return ""
	}

	switch {
	case address == vm.ProgramStart:
		return startLabel
	case d.callTargets.Contains(address):
		return fmt.Sprintf(funcNaming, address)
	case d.jumpTargets.Contains(address):
		return fmt.Sprintf(labelNaming, address)
	case d.dataTargets.Contains(address):
		return fmt.Sprintf(dataNaming, address)
	default:
		return ""
	}
}

// Write writes the listing of the program image to the writer.
func (d *Disasm) Write(writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "; CHIP-8 program disassembly, %d bytes\n\n.org $%03X\n\n",
		len(d.image), vm.ProgramStart); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range d.Lines() {
		if line.Label != "" {
			if i > 0 {
				if _, err := fmt.Fprintln(writer); err != nil {
					return fmt.Errorf("writing line: %w", err)
				}
			}
			if _, err := fmt.Fprintf(writer, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label %s: %w", line.Label, err)
			}
		}

		if err := d.writeLine(writer, line); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disasm) writeLine(writer io.Writer, line Line) error {
	var comments []string
	if d.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", line.Address))
	}
	if d.options.HexComments {
		comments = append(comments, hexCodeComment(line.Data))
	}

	code := "  " + line.Code
	if len(comments) == 0 {
		if _, err := fmt.Fprintf(writer, "%s\n", code); err != nil {
			return fmt.Errorf("writing code: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(writer, "%-*s ; %s\n", commentColumn, code, strings.Join(comments, " ")); err != nil {
		return fmt.Errorf("writing code with comment: %w", err)
	}
	return nil
}

func hexCodeComment(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}
