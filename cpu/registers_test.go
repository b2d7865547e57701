package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"x366/isa"
)

func TestNew_Reset(t *testing.T) {
	r := New(1024)
	assert.Equal(t, uint16(1024), r.Get(isa.SP))
	assert.Equal(t, uint16(0), r.Get(isa.FP))
	assert.Equal(t, uint16(isa.DefaultCodeStart), r.PC)
	assert.Equal(t, uint16(isa.DefaultCodeStart), r.BK)
	assert.Equal(t, uint16(isa.DefaultCodeStart), r.CB)
}

func TestSetGet(t *testing.T) {
	r := New(1024)
	r.Set(isa.AX, 0x1234)
	assert.Equal(t, uint16(0x1234), r.Get(isa.AX))
}

func TestSetByte_PreservesHighByte(t *testing.T) {
	r := New(1024)
	r.Set(isa.AX, 0xBEEF)
	r.SetByte(isa.AX, 0x11)
	assert.Equal(t, uint16(0xBE11), r.Get(isa.AX))
	assert.Equal(t, byte(0x11), r.GetByte(isa.AX))
}

func TestUpdateFlags_Word(t *testing.T) {
	r := New(1024)
	r.UpdateFlags(0, 16)
	assert.True(t, r.Flags.ZF)
	assert.False(t, r.Flags.SF)

	r.UpdateFlags(0x8000, 16)
	assert.False(t, r.Flags.ZF)
	assert.True(t, r.Flags.SF)
}

func TestUpdateFlags_Byte(t *testing.T) {
	r := New(1024)
	r.UpdateFlags(0x0180, 8)
	assert.True(t, r.Flags.ZF, "only the low byte should matter at width 8")

	r.UpdateFlags(0x80, 8)
	assert.True(t, r.Flags.SF)
}

func TestInvalidRegister_IsNoOp(t *testing.T) {
	r := New(1024)
	assert.Equal(t, uint16(0), r.Get(isa.Reg(99)))
	r.Set(isa.Reg(99), 0x42)
}
