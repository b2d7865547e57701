package exec

import "x366/isa"

// relativeAddress computes base + sign_extend_8(offset), wrapped to 16
// bits. Offset 0 makes this the register-indirect mode; a nonzero offset
// makes it register-relative.
func (e *Engine) relativeAddress(base isa.Reg, offset int8) uint16 {
	return uint16(int32(e.Regs.Get(base)) + int32(offset))
}

// indexedAddress computes base + index, wrapped to 16 bits (the
// RegBaseIndex family).
func (e *Engine) indexedAddress(base, index isa.Reg) uint16 {
	return e.Regs.Get(base) + e.Regs.Get(index)
}
