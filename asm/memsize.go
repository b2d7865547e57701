package asm

import (
	"x366/isa"
	"x366/token"
)

// parseMemorySize parses the operand of a ".MEMORY size" directive: size
// is one of 1K, 2K, 4K, 8K, 16K, written as a number immediately followed
// by the letter K, or (as a convenience) the raw byte count itself (e.g.
// "1024").
func parseMemorySize(toks []token.Token, line int) (int, error) {
	if len(toks) == 0 {
		return 0, newErr(InvalidMemorySize, line, ".MEMORY requires a size operand")
	}
	numTok := toks[0]
	if numTok.Type != token.Number {
		return 0, newErr(InvalidMemorySize, line, "expected a numeric memory size, got %q", numTok.Literal)
	}
	v, err := parseNumericLiteral(numTok.Literal)
	if err != nil {
		return 0, newErr(InvalidMemorySize, line, "%s", err)
	}
	size := int(v)

	if len(toks) >= 2 {
		kTok := toks[1]
		adjacent := kTok.Pos.Line == numTok.Pos.Line && kTok.Pos.Column == numTok.Pos.Column+len(numTok.Literal)
		if kTok.Type == token.Identifier && adjacent && equalFoldASCII(kTok.Literal, "K") {
			size *= 1024
		} else if len(toks) > 1 {
			return 0, newErr(InvalidMemorySize, line, "unexpected trailing tokens after memory size")
		}
	}

	if !isa.IsValidMemorySize(size) {
		return 0, newErr(InvalidMemorySize, line, "memory size must be one of 1K,2K,4K,8K,16K, got %d", size)
	}
	return size, nil
}
