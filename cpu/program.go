package cpu

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"
)

// Link is a reference to a label, patched into a word of an Opcode.
type Link struct {
	Label  string // Label to link against.
	Offset int    // Byte offset of the patched word in Opcode.Data.
}

// Opcode is the encoding of a single assembler line.
type Opcode struct {
	LineNo int      // Source line number.
	Addr   uint32   // Address of the first byte.
	Words  []string // Words of the source line.
	Data   []byte   // Encoded bytes.
	Links  []Link   // Label references to resolve.
}

// Code returns the instruction word at byte index n of the opcode.
func (op *Opcode) Code(n int) (code Code, imm uint32) {
	code = Code(binary.LittleEndian.Uint32(op.Data[n:]))
	if code.HasImm() && n+8 <= len(op.Data) {
		imm = binary.LittleEndian.Uint32(op.Data[n+4:])
	}
	return
}

// Program is an assembled program image.
type Program struct {
	Origin  uint32            // Address of the first byte.
	Opcodes []Opcode          // Encoded lines, in address order.
	Labels  map[string]uint32 // Resolved label addresses.
}

// Size returns the size in bytes of the program image.
func (prog *Program) Size() uint32 {
	if len(prog.Opcodes) == 0 {
		return 0
	}

	last := prog.Opcodes[len(prog.Opcodes)-1]
	return last.Addr + uint32(len(last.Data)) - prog.Origin
}

// Binary returns the program image, to be loaded at Origin.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, prog.Size())
	for _, op := range prog.Opcodes {
		bins = append(bins, op.Data...)
	}

	return
}

// Symbol returns the address of a label.
func (prog *Program) Symbol(label string) (addr uint32, ok bool) {
	addr, ok = prog.Labels[label]
	return
}

// Debug is the opcode covering an address.
type Debug struct {
	*Opcode
	Index int // Byte index of the address within the opcode.
}

// Debug finds the opcode that covers an address.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+uint32(len(op.Data)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Listing iterates over the listing lines of the program, by line number.
func (prog *Program) Listing() iter.Seq2[int, string] {
	return func(yield func(lineno int, text string) bool) {
		for _, op := range prog.Opcodes {
			var hex []string
			for n := 0; n < len(op.Data) && n < 8; n += 4 {
				end := min(n+4, len(op.Data))
				hex = append(hex, fmt.Sprintf("%x", op.Data[n:end]))
			}
			if len(op.Data) > 8 {
				hex = append(hex, "...")
			}
			text := fmt.Sprintf("%08x: %-20s %v", op.Addr, strings.Join(hex, " "), strings.Join(op.Words, " "))
			if !yield(op.LineNo, text) {
				return
			}
		}
	}
}
