package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteByte(t *testing.T) {
	m := New(1024)
	require.NoError(t, m.WriteByte(0x20, 0xAB))
	v, err := m.ReadByte(0x20)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), v)
}

func TestReadWriteByte_OutOfBounds(t *testing.T) {
	m := New(1024)
	_, err := m.ReadByte(1024)
	require.Error(t, err)
	var oob *OutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}

func TestReadWriteWord_BigEndian(t *testing.T) {
	m := New(1024)
	require.NoError(t, m.WriteWord(0x20, 0x1234))
	hi, err := m.ReadByte(0x20)
	require.NoError(t, err)
	lo, err := m.ReadByte(0x21)
	require.NoError(t, err)
	assert.Equal(t, byte(0x12), hi)
	assert.Equal(t, byte(0x34), lo)

	v, err := m.ReadWord(0x20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}

func TestClear_ZeroesMainMemory(t *testing.T) {
	m := New(1024)
	require.NoError(t, m.WriteByte(0x20, 0xFF))
	m.Clear()
	v, err := m.ReadByte(0x20)
	require.NoError(t, err)
	assert.Equal(t, byte(0), v)
}

func TestLoadBytes(t *testing.T) {
	m := New(1024)
	require.NoError(t, m.LoadBytes(0x20, []byte{1, 2, 3}))
	v, err := m.ReadByte(0x22)
	require.NoError(t, err)
	assert.Equal(t, byte(3), v)
}

func TestLoadBytes_OutOfBounds(t *testing.T) {
	m := New(1024)
	err := m.LoadBytes(1020, []byte{1, 2, 3, 4, 5})
	require.Error(t, err)
}

func TestResize_PreservesLowAndStackRegions(t *testing.T) {
	m := New(1024)
	require.NoError(t, m.WriteByte(0x20, 0x42))
	sp := 1024 - 4
	require.NoError(t, m.WriteWord(sp, 0xCAFE))

	newSP, err := m.Resize(2048, 0x100, sp)
	require.NoError(t, err)
	assert.Equal(t, 2048-4, newSP)

	low, err := m.ReadByte(0x20)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), low)

	stackVal, err := m.ReadWord(newSP)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xCAFE), stackVal)
	assert.Equal(t, 2048, m.Size())
}

func TestResize_RejectsBreakPointerBeyondNewSize(t *testing.T) {
	m := New(2048)
	_, err := m.Resize(1024, 1500, 2000)
	require.Error(t, err)
}

func TestResize_ShrinkClampsStackAgainstBreak(t *testing.T) {
	m := New(2048)
	// entire region below bk is "stack" in this pathological case
	newSP, err := m.Resize(256, 200, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, newSP, 200)
}
