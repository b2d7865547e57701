package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_AssemblesFileToFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prog.asm")
	outPath := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(inPath, []byte("MOV AX, 1\nHLT\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{inPath, outPath})
	require.NoError(t, rootCmd.Execute())

	bin, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Greater(t, len(bin), 0x20)
	assert.Contains(t, out.String(), "prog.asm -> ")
}

func TestRootCmd_MissingInputFileIsError(t *testing.T) {
	dir := t.TempDir()
	rootCmd.SetArgs([]string{filepath.Join(dir, "nope.asm"), filepath.Join(dir, "out.bin")})
	rootCmd.SetOut(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
