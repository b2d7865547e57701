// Package disasm renders a decoded instruction in the canonical textual
// form the visualizer and debugger display. It follows the
// disassembler-as-pure-function-of-decoded-record idiom, driven by the
// reference ARM emulator debugger's own need for a `disassemble` command.
package disasm

import (
	"fmt"
	"strings"

	"x366/decode"
	"x366/isa"
)

// ByteReader is the narrow read interface disasm needs from memory.
type ByteReader interface {
	ReadByte(addr int) (byte, error)
}

// Disassemble reads up to 4 bytes at addr via r, decodes them, and renders
// the canonical textual form. It returns the rendered text and the
// instruction's wire size (2 or 4) so callers can advance to the next
// instruction.
func Disassemble(r ByteReader, addr uint16) (string, int, error) {
	buf := make([]byte, 0, 4)
	for i := 0; i < 4; i++ {
		b, err := r.ReadByte(int(addr) + i)
		if err != nil {
			if i < 2 {
				return "", 0, err
			}
			break
		}
		buf = append(buf, b)
	}
	inst, err := decode.Decode(buf, addr)
	if err != nil {
		return "", 0, err
	}
	return Render(inst), inst.Size, nil
}

// Render renders an already-decoded instruction record as canonical text:
// uppercase mnemonic, comma-separated operands, memory operands bracketed,
// addresses as 4-digit uppercase hex without a prefix, immediates as
// uppercase hex without a prefix, and offsets displayed signed.
func Render(inst decode.Instruction) string {
	mnemonic := inst.Opcode.Mnemonic()
	if mnemonic == "" {
		mnemonic = fmt.Sprintf("DB 0x%02X", byte(inst.Opcode))
	}

	var operands []string
	switch inst.Shape {
	case isa.ShapeNullary:
		// none

	case isa.ShapeReg:
		operands = append(operands, regText(inst.Reg))

	case isa.ShapeSyscall:
		operands = append(operands, inst.Syscall.String())

	case isa.ShapeRegReg:
		operands = append(operands, regText(inst.Reg), regText(inst.Src))

	case isa.ShapeRegImm16:
		operands = append(operands, regText(inst.Reg), hex16(inst.Imm16))

	case isa.ShapeRegAddr16:
		operands = append(operands, regText(inst.Reg), bracket(hex16(inst.Addr16)))

	case isa.ShapeStoreAddr16:
		operands = append(operands, bracket(hex16(inst.Addr16)), regText(inst.Src))

	case isa.ShapeRegBaseOffset8:
		operands = append(operands, regText(inst.Reg), bracket(baseOffsetText(inst.Base, inst.Offset8)))

	case isa.ShapeStoreBaseOffset8:
		operands = append(operands, bracket(baseOffsetText(inst.Base, inst.Offset8)), regText(inst.Src))

	case isa.ShapeRegBaseIndex:
		operands = append(operands, regText(inst.Reg), bracket(inst.Base.String()+"+"+inst.Index.String()))

	case isa.ShapeBaseImm16:
		operands = append(operands, bracket(inst.Base.String()), hex16(inst.Imm16))

	case isa.ShapeAddr16ByteImm:
		operands = append(operands, bracket(hex16(inst.Addr16)), hex8(inst.Imm8))

	case isa.ShapeJump:
		operands = append(operands, hex16(inst.Addr16))
	}

	if len(operands) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(operands, ",")
}

func regText(o decode.Operand) string {
	if o.IsByte {
		return isa.ByteRegName(o.Reg)
	}
	return o.Reg.String()
}

func bracket(s string) string { return "[" + s + "]" }

func hex16(v uint16) string { return fmt.Sprintf("%04X", v) }
func hex8(v byte) string    { return fmt.Sprintf("%02X", v) }

func baseOffsetText(base isa.Reg, offset int8) string {
	if offset == 0 {
		return base.String()
	}
	if offset < 0 {
		return fmt.Sprintf("%s-%02X", base.String(), -int(offset))
	}
	return fmt.Sprintf("%s+%02X", base.String(), offset)
}
