package syscall

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x366/cpu"
	"x366/display"
	"x366/isa"
	"x366/memory"
	"x366/vfs"
)

func newTestRig() (*memory.Memory, *cpu.Registers, *strings.Builder, *Host) {
	mem := memory.New(1024)
	regs := cpu.New(1024)
	var out strings.Builder
	host := &Host{Output: func(s string) { out.WriteString(s) }}
	return mem, regs, &out, host
}

func TestDispatch_Exit(t *testing.T) {
	mem, regs, _, host := newTestRig()
	res, err := Dispatch(isa.SyscallExit, mem, regs, host)
	require.NoError(t, err)
	assert.True(t, res.Halt)
}

func TestDispatch_PrintChar(t *testing.T) {
	mem, regs, out, host := newTestRig()
	regs.SetByte(isa.AX, 'Q')
	_, err := Dispatch(isa.SyscallPrintChar, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, "Q", out.String())
}

func TestDispatch_PrintString(t *testing.T) {
	mem, regs, out, host := newTestRig()
	require.NoError(t, mem.LoadBytes(0x100, []byte("hi\x00")))
	regs.Set(isa.AX, 0x100)
	_, err := Dispatch(isa.SyscallPrintString, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.String())
}

func TestDispatch_PrintInt_Negative(t *testing.T) {
	mem, regs, out, host := newTestRig()
	regs.Set(isa.AX, uint16(int16(-5)))
	_, err := Dispatch(isa.SyscallPrintInt, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, "-5", out.String())
}

func TestDispatch_Atoi_LeadingSpaceAndSign(t *testing.T) {
	mem, regs, _, host := newTestRig()
	require.NoError(t, mem.LoadBytes(0x100, []byte("  -42x")))
	regs.Set(isa.AX, 0x100)
	_, err := Dispatch(isa.SyscallAtoi, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, uint16(int16(-42)), regs.Get(isa.AX))
	assert.Equal(t, uint16(0x100+5), regs.Get(isa.BX))
}

func TestDispatch_Sbrk(t *testing.T) {
	mem, regs, _, host := newTestRig()
	regs.BK = 0x200
	regs.Set(isa.AX, 0x10)
	_, err := Dispatch(isa.SyscallSbrk, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x200), regs.Get(isa.AX))
	assert.Equal(t, uint16(0x210), regs.BK)
}

func TestDispatch_ReadFile_NoFSConfigured(t *testing.T) {
	mem, regs, _, host := newTestRig()
	require.NoError(t, mem.LoadBytes(0x100, []byte("a.txt\x00")))
	regs.Set(isa.AX, 0x100)
	regs.Set(isa.BX, 0x200)
	regs.Set(isa.CX, 10)
	_, err := Dispatch(isa.SyscallReadFile, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFF), regs.Get(isa.AX))
}

func TestDispatch_ReadFile_WithFS(t *testing.T) {
	mem, regs, _, host := newTestRig()
	fs := vfs.NewMemory()
	fs.Put("a.txt", []byte("data"))
	host.FS = fs
	require.NoError(t, mem.LoadBytes(0x100, []byte("a.txt\x00")))
	regs.Set(isa.AX, 0x100)
	regs.Set(isa.BX, 0x200)
	regs.Set(isa.CX, 10)
	_, err := Dispatch(isa.SyscallReadFile, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), regs.Get(isa.AX))
}

func TestDispatch_UnknownSyscall(t *testing.T) {
	mem, regs, _, host := newTestRig()
	_, err := Dispatch(isa.Syscall(250), mem, regs, host)
	require.Error(t, err)
	var unk *UnknownSyscallError
	assert.ErrorAs(t, err, &unk)
}

func TestDispatch_FBInfo_NoDisplay(t *testing.T) {
	mem, regs, _, host := newTestRig()
	_, err := Dispatch(isa.SyscallFBInfo, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, uint16(isa.DisplayWidth), regs.Get(isa.AX))
	assert.Equal(t, uint16(isa.DisplayHeight), regs.Get(isa.BX))
}

func TestDispatch_Graphics_NoDisplayIsNoop(t *testing.T) {
	mem, regs, _, host := newTestRig()
	_, err := Dispatch(isa.SyscallDrawPixel, mem, regs, host)
	require.NoError(t, err)
}

func TestDispatch_Graphics_WithDisplay(t *testing.T) {
	mem, regs, _, host := newTestRig()
	d := display.NewHeadless()
	host.Display = d
	regs.Set(isa.AX, 1)
	_, err := Dispatch(isa.SyscallSetColor, mem, regs, host)
	require.NoError(t, err)
	regs.Set(isa.AX, 5)
	regs.Set(isa.BX, 5)
	_, err = Dispatch(isa.SyscallDrawPixel, mem, regs, host)
	require.NoError(t, err)
	assert.Equal(t, 1, d.DrawCalls)
}
