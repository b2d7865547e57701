// Package binfmt reads and writes the X366 binary container: the fixed
// header, the contiguous code/data segment, and the optional TLV sections
// area. It is the single place that knows the container's
// byte layout, consumed by both the assembler (writer) and the loader
// (reader), grounded on the reference ARM emulator's encoder/encoder.go header-writing
// conventions generalized from ARM's ELF-like loader to this flat format.
package binfmt

import "fmt"

// BadSignatureError is returned when the first 8 bytes are not "Go Cats!".
type BadSignatureError struct {
	Got [8]byte
}

func (e *BadSignatureError) Error() string {
	return fmt.Sprintf("bad container signature: %q", e.Got[:])
}

// TruncatedHeaderError is returned when the input is shorter than the fixed
// header size.
type TruncatedHeaderError struct {
	Len int
}

func (e *TruncatedHeaderError) Error() string {
	return fmt.Sprintf("truncated header: only %d bytes", e.Len)
}

// UnsupportedMemorySizeError is returned when the declared memory size is
// not one of the five allowed sizes.
type UnsupportedMemorySizeError struct {
	Size int
}

func (e *UnsupportedMemorySizeError) Error() string {
	return fmt.Sprintf("unsupported memory size %d", e.Size)
}

// SectionOverrunError is returned when a section's declared length runs
// past the end of the sections area.
type SectionOverrunError struct {
	Type   byte
	Length uint32
}

func (e *SectionOverrunError) Error() string {
	return fmt.Sprintf("section type 0x%02X length %d overruns buffer", e.Type, e.Length)
}
