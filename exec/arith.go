package exec

import "x366/cpu"

// widthMask returns the value mask and sign bit for an 8- or 16-bit
// operation.
func widthMask(width int) (mask, signBit uint16) {
	if width == 8 {
		return 0xFF, 0x80
	}
	return 0xFFFF, 0x8000
}

// addFlags computes a+b at the given width, returning the masked result and
// the carry/overflow flags. Carry is unsigned carry-out; overflow is signed
// two's-complement overflow (both operands same sign, result different
// sign) — the proper computation the reference implementation's spec left
// as an open question.
func addFlags(a, b uint16, width int) (result uint16, carry, overflow bool) {
	mask, signBit := widthMask(width)
	full := uint32(a&mask) + uint32(b&mask)
	result = uint16(full) & mask
	carry = full > uint32(mask)
	aSign := a&signBit != 0
	bSign := b&signBit != 0
	rSign := result&signBit != 0
	overflow = aSign == bSign && rSign != aSign
	return result, carry, overflow
}

// subFlags computes a-b at the given width, returning the masked result and
// the borrow/overflow flags. Borrow is the unsigned "b > a" condition;
// overflow is signed two's-complement overflow (operands of differing sign,
// result sign differs from a's).
func subFlags(a, b uint16, width int) (result uint16, borrow, overflow bool) {
	mask, signBit := widthMask(width)
	am, bm := a&mask, b&mask
	borrow = bm > am
	result = (am - bm) & mask
	aSign := a&signBit != 0
	bSign := b&signBit != 0
	rSign := result&signBit != 0
	overflow = aSign != bSign && rSign != aSign
	return result, borrow, overflow
}

// zsFlags computes ZF/SF for result at the given width without touching any
// register state, mirroring cpu.Registers.UpdateFlags's logic.
func zsFlags(result uint16, width int) (zf, sf bool) {
	mask, signBit := widthMask(width)
	masked := result & mask
	return masked == 0, masked&signBit != 0
}

// applyFlags journals the prior Flags snapshot and sets ZF/SF/CF/OF from
// result/carry/overflow.
func (e *Engine) applyFlags(result uint16, width int, carry, overflow bool) {
	zf, sf := zsFlags(result, width)
	e.setFlags(cpu.Flags{ZF: zf, SF: sf, CF: carry, OF: overflow})
}

// applyZSOnly journals the prior Flags snapshot and sets only ZF/SF,
// preserving CF/OF (used by INC/DEC.4).
func (e *Engine) applyZSOnly(result uint16, width int) {
	zf, sf := zsFlags(result, width)
	prev := e.Regs.Flags
	e.setFlags(cpu.Flags{ZF: zf, SF: sf, CF: prev.CF, OF: prev.OF})
}
