package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x366/isa"
)

func TestDecode_Nullary(t *testing.T) {
	inst, err := Decode([]byte{byte(isa.OpHLT), 0}, 0x20)
	require.NoError(t, err)
	assert.Equal(t, isa.OpHLT, inst.Opcode)
	assert.Equal(t, 2, inst.Size)
}

func TestDecode_RegReg(t *testing.T) {
	b := []byte{byte(isa.OpMovRR), encodeRegByte(Operand{Reg: isa.BX}), encodeRegByte(Operand{Reg: isa.CX}), 0}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, isa.BX, inst.Reg.Reg)
	assert.Equal(t, isa.CX, inst.Src.Reg)
}

func TestDecode_RegByteAlias(t *testing.T) {
	b := []byte{byte(isa.OpMovRR), encodeRegByte(Operand{Reg: isa.AX, IsByte: true}), encodeRegByte(Operand{Reg: isa.BX, IsByte: true}), 0}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.True(t, inst.Reg.IsByte)
	assert.True(t, inst.Src.IsByte)
}

func TestDecode_RegImm16_AlwaysHighLow(t *testing.T) {
	b := []byte{byte(isa.OpMovRI), encodeRegByte(Operand{Reg: isa.AX}), 0x12, 0x34}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), inst.Imm16)
}

func TestDecode_LoadStyleAddr_HighLow(t *testing.T) {
	b := []byte{byte(isa.OpLoad), encodeRegByte(Operand{Reg: isa.AX}), 0x12, 0x34}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), inst.Addr16)
}

func TestDecode_StoreStyleAddr_LowHigh(t *testing.T) {
	b := []byte{byte(isa.OpStore), encodeRegByte(Operand{Reg: isa.AX}), 0x34, 0x12}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), inst.Addr16)
}

func TestDecode_JumpStyleAddr_LowHigh(t *testing.T) {
	b := []byte{byte(isa.OpJmp), 0, 0x34, 0x12}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), inst.Addr16)
}

func TestDecode_RegBaseOffset8_SignedOffset(t *testing.T) {
	b := []byte{byte(isa.OpLoadR), encodeRegByte(Operand{Reg: isa.AX}), byte(isa.BX), 0xFF}
	inst, err := Decode(b, 0x20)
	require.NoError(t, err)
	assert.Equal(t, isa.BX, inst.Base)
	assert.Equal(t, int8(-1), inst.Offset8)
}

func TestDecode_UnknownOpcode(t *testing.T) {
	_, err := Decode([]byte{0xFE, 0}, 0x20)
	require.Error(t, err)
	var unk *UnknownOpcodeError
	assert.ErrorAs(t, err, &unk)
}

func TestDecode_TruncatedFourByteForm(t *testing.T) {
	_, err := Decode([]byte{byte(isa.OpMovRR), 0}, 0x20)
	require.Error(t, err)
}

func TestAddrToBytes_RoundTrips(t *testing.T) {
	b2, b3 := AddrToBytes(isa.OpLoad, 0x1234)
	assert.Equal(t, uint16(0x1234), addrFromBytes(isa.OpLoad, b2, b3))

	b2, b3 = AddrToBytes(isa.OpStore, 0x1234)
	assert.Equal(t, uint16(0x1234), addrFromBytes(isa.OpStore, b2, b3))
}
