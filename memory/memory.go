// Package memory implements the X366 byte-addressable memory subsystem:
// a linear byte array with a big-endian word overlay, a reserved zero
// region, and an optional memory-mapped framebuffer window.
package memory

import (
	"fmt"

	"x366/display"
	"x366/isa"
)

// OutOfBoundsError reports an access outside [0, size) and outside the
// framebuffer window.
type OutOfBoundsError struct {
	Addr int
	Size int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: address 0x%04X (size 0x%04X)", e.Addr, e.Size)
}

// Memory is the X366 linear address space.
type Memory struct {
	bytes []byte
	disp  display.Display // optional; nil if no display attached
}

// New creates a Memory of the given size, zeroed. size must be one of
// isa.ValidMemorySizes; callers that need to validate user input should
// check isa.IsValidMemorySize first.
func New(size int) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// AttachDisplay wires a display handle so writes into the framebuffer
// window route to it. Passing nil detaches.
func (m *Memory) AttachDisplay(d display.Display) {
	m.disp = d
}

// Size returns the backing array length.
func (m *Memory) Size() int {
	return len(m.bytes)
}

func (m *Memory) inFramebufferWindow(addr int) bool {
	return m.disp != nil && addr >= isa.FramebufferStart && addr < isa.FramebufferEnd
}

// ReadByte returns the byte at addr, or routes to the framebuffer if addr
// lies in the framebuffer window and a display is attached.
func (m *Memory) ReadByte(addr int) (byte, error) {
	if m.inFramebufferWindow(addr) {
		return m.disp.ReadPixelByte(addr - isa.FramebufferStart), nil
	}
	if addr < 0 || addr >= len(m.bytes) {
		return 0, &OutOfBoundsError{Addr: addr, Size: len(m.bytes)}
	}
	return m.bytes[addr], nil
}

// WriteByte writes v at addr; in-framebuffer writes additionally mark the
// display as needing refresh.
func (m *Memory) WriteByte(addr int, v byte) error {
	if m.inFramebufferWindow(addr) {
		m.disp.WritePixelByte(addr-isa.FramebufferStart, v)
		return nil
	}
	if addr < 0 || addr >= len(m.bytes) {
		return &OutOfBoundsError{Addr: addr, Size: len(m.bytes)}
	}
	m.bytes[addr] = v
	return nil
}

// ReadWord reads a big-endian 16-bit word at addr (high byte at addr,
// low byte at addr+1).
func (m *Memory) ReadWord(addr int) (uint16, error) {
	hi, err := m.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	lo, err := m.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// WriteWord writes a big-endian 16-bit word at addr.
func (m *Memory) WriteWord(addr int, v uint16) error {
	if err := m.WriteByte(addr, byte(v>>8)); err != nil {
		return err
	}
	return m.WriteByte(addr+1, byte(v))
}

// Clear zeroes every byte in the main array (the framebuffer, if attached,
// is untouched — it is a separate array per REDESIGN FLAGS "Framebuffer
// memory mapping").
func (m *Memory) Clear() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

// Resize changes the backing size, preserving bytes in [0, bk) and the
// stack region [sp, oldSize) by relocating the latter to
// [newSize-(oldSize-sp), newSize). Returns the new SP value. Fails if
// bk > newSize.
func (m *Memory) Resize(newSize int, bk int, sp int) (newSP int, err error) {
	if bk > newSize {
		return 0, fmt.Errorf("cannot resize memory to %d: break pointer 0x%04X would fall outside it", newSize, bk)
	}
	oldSize := len(m.bytes)
	stackLen := oldSize - sp
	if stackLen < 0 {
		stackLen = 0
	}

	next := make([]byte, newSize)

	copyLen := bk
	if copyLen > newSize {
		copyLen = newSize
	}
	copy(next[:copyLen], m.bytes[:copyLen])

	if stackLen > 0 {
		newSPStart := newSize - stackLen
		if newSPStart < bk {
			newSPStart = bk
			stackLen = newSize - newSPStart
		}
		if stackLen > 0 {
			copy(next[newSPStart:newSPStart+stackLen], m.bytes[sp:sp+stackLen])
		}
		newSP = newSPStart
	} else {
		newSP = newSize
	}

	m.bytes = next
	return newSP, nil
}

// LoadBytes copies data into memory starting at addr, bypassing the
// framebuffer redirect (used by the loader, which writes raw code/data
// segments that never overlap the framebuffer window in well-formed
// binaries).
func (m *Memory) LoadBytes(addr int, data []byte) error {
	if addr < 0 || addr+len(data) > len(m.bytes) {
		return &OutOfBoundsError{Addr: addr + len(data), Size: len(m.bytes)}
	}
	copy(m.bytes[addr:addr+len(data)], data)
	return nil
}

// Bytes returns the raw backing slice; callers must not retain it across a
// Resize.
func (m *Memory) Bytes() []byte {
	return m.bytes
}
