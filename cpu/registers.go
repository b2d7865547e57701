// Package cpu implements the X366 register file: eight general-purpose
// registers (with byte-aliased low halves for six of them), four hidden
// registers, and four arithmetic flags.
package cpu

import "x366/isa"

// Flags holds the four one-bit arithmetic flags.
type Flags struct {
	ZF bool // zero
	SF bool // sign (bit 15 of result)
	CF bool // unsigned carry/borrow
	OF bool // signed overflow
}

// Registers is the X366 register file.
type Registers struct {
	gp [8]uint16 // AX,BX,CX,DX,EX,FX,SP,FP indexed by isa.Reg

	PC uint16 // program counter
	BK uint16 // heap boundary
	CB uint16 // code boundary
	IR byte   // most recently prefetched instruction byte pair, high byte
	DR byte   // ...low byte (observable mirror only; no semantic effect)

	Flags Flags
}

// New returns a freshly reset register file for the given memory size.
func New(memorySize int) *Registers {
	r := &Registers{}
	r.Reset(memorySize)
	return r
}

// Get returns the current value of a word register.
func (r *Registers) Get(reg isa.Reg) uint16 {
	if !reg.Valid() {
		return 0
	}
	return r.gp[reg]
}

// Set writes v (masked to 16 bits — always a no-op mask since v is already
// uint16, kept for symmetry with SetByte) into a word register.
func (r *Registers) Set(reg isa.Reg, v uint16) {
	if !reg.Valid() {
		return
	}
	r.gp[reg] = v
}

// GetByte reads the low byte of a byte-aliased register, zero-extended
// into the return type by virtue of being a plain byte.
func (r *Registers) GetByte(reg isa.Reg) byte {
	return byte(r.Get(reg))
}

// SetByte writes the low byte of a byte-aliased register, leaving the high
// byte intact.
func (r *Registers) SetByte(reg isa.Reg, v byte) {
	if !reg.Valid() {
		return
	}
	r.gp[reg] = (r.gp[reg] & 0xFF00) | uint16(v)
}

// UpdateFlags sets ZF from (result & mask) == 0 and SF from the sign bit of
// width w (8 or 16); it never touches CF or OF — callers that care about
// those set them explicitly.
func (r *Registers) UpdateFlags(result uint16, width int) {
	var mask uint16
	var signBit uint16
	if width == 8 {
		mask = 0xFF
		signBit = 0x80
	} else {
		mask = 0xFFFF
		signBit = 0x8000
	}
	masked := result & mask
	r.Flags.ZF = masked == 0
	r.Flags.SF = masked&signBit != 0
}

// Reset zeroes all general registers and flags, and sets SP, PC, BK, CB,
// FP to their documented reset values.
func (r *Registers) Reset(memorySize int) {
	r.gp = [8]uint16{}
	r.Flags = Flags{}
	r.gp[isa.SP] = uint16(memorySize)
	r.gp[isa.FP] = 0
	r.PC = isa.DefaultCodeStart
	r.BK = isa.DefaultCodeStart
	r.CB = isa.DefaultCodeStart
	r.IR, r.DR = 0, 0
}

// SetPrefetch mirrors the most recently fetched instruction word pair into
// IR/DR for observers; it has no effect on execution semantics.
func (r *Registers) SetPrefetch(hi, lo byte) {
	r.IR, r.DR = hi, lo
}
