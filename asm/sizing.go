package asm

import "x366/token"

// fixedInstructionSizes gives the wire size for every mnemonic whose size
// does not depend on its operands. INC and DEC are handled separately
// because their size depends on whether the operand is a register (2
// bytes) or memory (4 bytes).
var fixedInstructionSizes = map[string]int{
	"NOP": 2, "HLT": 2, "RET": 2,
	"PUSH": 2, "POP": 2, "MUL": 2, "DIV": 2, "NOT": 2, "SYSCALL": 2,

	"MOV": 4, "LOAD": 4, "LOADB": 4, "STORE": 4, "STOREB": 4,
	"LOADR": 4, "LOADBR": 4, "STORER": 4, "STOREBR": 4,
	"LEA": 4, "STOREI": 4,
	"ADD": 4, "SUB": 4, "CMP": 4, "AND": 4, "OR": 4, "XOR": 4,
	"SHL": 4, "SHR": 4,
	"JMP": 4, "JE": 4, "JNE": 4, "JL": 4, "JG": 4, "JLE": 4, "JGE": 4, "LOOP": 4, "CALL": 4,
}

// instructionSize returns the wire size (2 or 4) of a code-bearing item,
// consulting only its mnemonic and the textual presence of a bracketed
// operand.
func instructionSize(mnemonic string, toks []token.Token, line int) (int, error) {
	if mnemonic == "INC" || mnemonic == "DEC" {
		for _, t := range toks {
			if t.Type == token.LBracket {
				return 4, nil
			}
		}
		return 2, nil
	}
	if size, ok := fixedInstructionSizes[mnemonic]; ok {
		return size, nil
	}
	return 0, newErr(UnknownMnemonic, line, "unknown mnemonic %q", mnemonic)
}
