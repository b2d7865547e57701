package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x366/cpu"
	"x366/exec"
	"x366/memory"
	"x366/syscall"
)

func TestFilterSet_EmptyMeansNoFilter(t *testing.T) {
	assert.Nil(t, filterSet(""))
}

func TestFilterSet_UppercasesAndTrims(t *testing.T) {
	set := filterSet("ax, bx ,CX")
	assert.True(t, set["AX"])
	assert.True(t, set["BX"])
	assert.True(t, set["CX"])
	assert.False(t, set["DX"])
}

func TestLookupReg_RejectsByteAlias(t *testing.T) {
	_, ok := lookupReg("AL")
	assert.False(t, ok)
}

func TestLookupReg_ResolvesWordRegister(t *testing.T) {
	reg, ok := lookupReg("BX")
	require.True(t, ok)
	assert.Equal(t, "BX", reg.String())
}

func TestTraceLine_IncludesPCAndFilteredRegisters(t *testing.T) {
	mem := memory.New(1024)
	regs := cpu.New(1024)
	host := &syscall.Host{}
	engine := exec.New(mem, regs, host, false, false, 0)

	line := traceLine(engine, map[string]bool{"AX": true}, true)
	assert.Contains(t, line, "PC=")
	assert.Contains(t, line, "AX=")
	assert.NotContains(t, line, "BX=")
}

func TestDiskStore_ReadsUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greeting.txt"), []byte("hi"), 0o600))

	store := diskStore{root: dir}
	data, ok := store.Read("greeting.txt")
	require.True(t, ok)
	assert.Equal(t, "hi", string(data))

	_, ok = store.Read("missing.txt")
	assert.False(t, ok)
}
