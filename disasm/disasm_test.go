package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x366/decode"
	"x366/isa"
)

func TestRender_Nullary(t *testing.T) {
	inst, err := decode.Decode([]byte{byte(isa.OpHLT), 0}, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "HLT", Render(inst))
}

func TestRender_RegImm16(t *testing.T) {
	b := []byte{byte(isa.OpMovRI), decode.EncodeRegByte(decode.Operand{Reg: isa.AX}), 0x00, 0x05}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "MOV AX,0005", Render(inst))
}

func TestRender_RegAddr16_LoadStyleHighLow(t *testing.T) {
	b := []byte{byte(isa.OpLoad), decode.EncodeRegByte(decode.Operand{Reg: isa.BX}), 0x12, 0x34}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "LOAD BX,[1234]", Render(inst))
}

func TestRender_StoreAddr16_StoreStyleLowHigh(t *testing.T) {
	b := []byte{byte(isa.OpStore), decode.EncodeRegByte(decode.Operand{Reg: isa.CX}), 0x34, 0x12}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "STORE [1234],CX", Render(inst))
}

func TestRender_RegBaseOffset8_Negative(t *testing.T) {
	b := []byte{byte(isa.OpLoadR), decode.EncodeRegByte(decode.Operand{Reg: isa.AX}), byte(isa.BX) & 0x07, byte(int8(-4))}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "LOADR AX,[BX-04]", Render(inst))
}

func TestRender_RegBaseOffset8_Zero(t *testing.T) {
	b := []byte{byte(isa.OpLoadR), decode.EncodeRegByte(decode.Operand{Reg: isa.AX}), byte(isa.BX) & 0x07, 0}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "LOADR AX,[BX]", Render(inst))
}

func TestRender_RegBaseIndex(t *testing.T) {
	b := []byte{byte(isa.OpLoadIndexed), decode.EncodeRegByte(decode.Operand{Reg: isa.AX}), byte(isa.BX) & 0x07, byte(isa.CX) & 0x07}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "LOAD AX,[BX+CX]", Render(inst))
}

func TestRender_Jump(t *testing.T) {
	b := []byte{byte(isa.OpJmp), 0, 0x34, 0x12}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "JMP 1234", Render(inst))
}

func TestRender_Syscall(t *testing.T) {
	b := []byte{byte(isa.OpSyscall), byte(isa.SyscallPrintString)}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "SYSCALL PRINT_STRING", Render(inst))
}

func TestRender_ByteRegisterAlias(t *testing.T) {
	b := []byte{byte(isa.OpMovRR),
		decode.EncodeRegByte(decode.Operand{Reg: isa.AX, IsByte: true}),
		decode.EncodeRegByte(decode.Operand{Reg: isa.BX, IsByte: true}), 0}
	inst, err := decode.Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "MOV AL,BL", Render(inst))
}

// memReader is a tiny ByteReader backed by a flat slice, standing in for
// memory.Memory in isolation.
type memReader []byte

func (m memReader) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= len(m) {
		return 0, assert.AnError
	}
	return m[addr], nil
}

func TestDisassemble_AdvancesByInstructionSize(t *testing.T) {
	mem := memReader{byte(isa.OpHLT), 0, byte(isa.OpMovRI), decode.EncodeRegByte(decode.Operand{Reg: isa.AX}), 0, 1}

	text, size, err := Disassemble(mem, 0)
	require.NoError(t, err)
	assert.Equal(t, "HLT", text)
	assert.Equal(t, 2, size)

	text, size, err = Disassemble(mem, 2)
	require.NoError(t, err)
	assert.Equal(t, "MOV AX,0001", text)
	assert.Equal(t, 4, size)
}
