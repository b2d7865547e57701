package asm

import (
	"x366/decode"
	"x366/isa"
)

// resolveAddr resolves an operand that denotes a 16-bit address: either a
// raw immediate or a label reference looked up in the (fully populated, by
// the time pass 2 runs) symbol table.
func resolveAddr(op operand, syms *symbolTable) (uint16, error) {
	switch op.Kind {
	case opndImmediate, opndMemDirect:
		if op.Label != "" {
			sym, ok := syms.lookup(op.Label)
			if !ok {
				return 0, newErr(UndefinedLabel, op.Line, "undefined label %q", op.Label)
			}
			return sym.Addr, nil
		}
		return uint16(op.Imm), nil
	case opndLabel:
		sym, ok := syms.lookup(op.Label)
		if !ok {
			return 0, newErr(UndefinedLabel, op.Line, "undefined label %q", op.Label)
		}
		return sym.Addr, nil
	default:
		return 0, newErr(InvalidOperand, op.Line, "expected an address or label")
	}
}

func regOperand(op operand) decode.Operand {
	return decode.Operand{Reg: op.Reg, IsByte: op.IsByte}
}

func imm16Bytes(v uint16) (hi, lo byte) {
	return byte(v >> 8), byte(v)
}

// encodeInstruction selects an opcode variant by the shape of ops and
// renders the instruction's wire bytes. syms must already contain every
// label in the program (pass 1 has completed).
func encodeInstruction(mnemonic string, ops []operand, syms *symbolTable, line int) ([]byte, error) {
	switch mnemonic {
	case "NOP":
		return requireArity(ops, 0, line, mnemonic, func() ([]byte, error) {
			return []byte{byte(isa.OpNOP), 0}, nil
		})
	case "HLT":
		return requireArity(ops, 0, line, mnemonic, func() ([]byte, error) {
			return []byte{byte(isa.OpHLT), 0}, nil
		})
	case "RET":
		return requireArity(ops, 0, line, mnemonic, func() ([]byte, error) {
			return []byte{byte(isa.OpRet), 0}, nil
		})

	case "PUSH":
		return encodeRegOnly(isa.OpPushReg, ops, line, mnemonic)
	case "POP":
		return encodeRegOnly(isa.OpPopReg, ops, line, mnemonic)
	case "MUL":
		return encodeRegOnly(isa.OpMul, ops, line, mnemonic)
	case "DIV":
		return encodeRegOnly(isa.OpDiv, ops, line, mnemonic)
	case "NOT":
		return encodeRegOnly(isa.OpNot, ops, line, mnemonic)

	case "SYSCALL":
		return encodeSyscall(ops, line)

	case "INC":
		return encodeIncDec(isa.OpIncReg, isa.OpIncMem, isa.OpIncMemR, ops, syms, line, mnemonic)
	case "DEC":
		return encodeIncDec(isa.OpDecReg, isa.OpDecMem, isa.OpDecMemR, ops, syms, line, mnemonic)

	case "MOV":
		return encodeMov(ops, syms, line)

	case "LOAD":
		return encodeLoadStore(loadOpset, ops, syms, line, mnemonic)
	case "LOADB":
		return encodeLoadStore(loadBOpset, ops, syms, line, mnemonic)
	case "STORE":
		return encodeLoadStore(storeOpset, ops, syms, line, mnemonic)
	case "STOREB":
		return encodeLoadStore(storeBOpset, ops, syms, line, mnemonic)

	case "LOADR":
		return encodeRelative(isa.OpLoadR, ops, line, mnemonic, true)
	case "LOADBR":
		return encodeRelative(isa.OpLoadBR, ops, line, mnemonic, true)
	case "STORER":
		return encodeRelative(isa.OpStoreR, ops, line, mnemonic, false)
	case "STOREBR":
		return encodeRelative(isa.OpStoreBR, ops, line, mnemonic, false)

	case "LEA":
		return encodeLea(ops, line)

	case "STOREI":
		return encodeStoreI(ops, syms, line)

	case "ADD":
		return encodeArith(addOpset, ops, syms, line, mnemonic)
	case "SUB":
		return encodeArith(subOpset, ops, syms, line, mnemonic)
	case "CMP":
		return encodeArith(cmpOpset, ops, syms, line, mnemonic)
	case "AND":
		return encodeLogical(isa.OpAndRR, isa.OpAndRI, ops, syms, line, mnemonic)
	case "OR":
		return encodeLogical(isa.OpOrRR, isa.OpOrRI, ops, syms, line, mnemonic)
	case "XOR":
		return encodeLogical(isa.OpXorRR, isa.OpXorRI, ops, syms, line, mnemonic)

	case "SHL":
		return encodeShift(isa.OpShl, ops, line, mnemonic)
	case "SHR":
		return encodeShift(isa.OpShr, ops, line, mnemonic)

	case "JMP":
		return encodeJump(isa.OpJmp, ops, syms, line, mnemonic)
	case "JE":
		return encodeJump(isa.OpJe, ops, syms, line, mnemonic)
	case "JNE":
		return encodeJump(isa.OpJne, ops, syms, line, mnemonic)
	case "JL":
		return encodeJump(isa.OpJl, ops, syms, line, mnemonic)
	case "JG":
		return encodeJump(isa.OpJg, ops, syms, line, mnemonic)
	case "JLE":
		return encodeJump(isa.OpJle, ops, syms, line, mnemonic)
	case "JGE":
		return encodeJump(isa.OpJge, ops, syms, line, mnemonic)
	case "LOOP":
		return encodeJump(isa.OpLoop, ops, syms, line, mnemonic)
	case "CALL":
		return encodeJump(isa.OpCall, ops, syms, line, mnemonic)

	default:
		return nil, newErr(UnknownMnemonic, line, "unknown mnemonic %q", mnemonic)
	}
}

func requireArity(ops []operand, n int, line int, mnemonic string, f func() ([]byte, error)) ([]byte, error) {
	if len(ops) != n {
		return nil, newErr(InvalidOperand, line, "%s takes %d operand(s), got %d", mnemonic, n, len(ops))
	}
	return f()
}

func encodeRegOnly(op isa.Op, ops []operand, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 1 || ops[0].Kind != opndRegister {
		return nil, newErr(InvalidOperand, line, "%s requires a single register operand", mnemonic)
	}
	return []byte{byte(op), decode.EncodeRegByte(regOperand(ops[0]))}, nil
}

func encodeSyscall(ops []operand, line int) ([]byte, error) {
	if len(ops) != 1 {
		return nil, newErr(InvalidOperand, line, "SYSCALL requires exactly one operand")
	}
	o := ops[0]
	var code int64
	switch o.Kind {
	case opndImmediate:
		code = o.Imm
	case opndLabel:
		sc, ok := isa.LookupSyscall(o.Label)
		if !ok {
			return nil, newErr(InvalidOperand, line, "unrecognized syscall name %q", o.Label)
		}
		code = int64(sc)
	default:
		return nil, newErr(InvalidOperand, line, "SYSCALL requires an integer or syscall name")
	}
	if code < 0 || code > 255 {
		return nil, newErr(OutOfRangeImmediate, line, "syscall code %d out of range 0..255", code)
	}
	return []byte{byte(isa.OpSyscall), byte(code)}, nil
}

func encodeIncDec(regOp, memOp, memROp isa.Op, ops []operand, syms *symbolTable, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, newErr(InvalidOperand, line, "%s requires exactly one operand", mnemonic)
	}
	o := ops[0]
	switch o.Kind {
	case opndRegister:
		return []byte{byte(regOp), decode.EncodeRegByte(regOperand(o))}, nil
	case opndMemDirect:
		addr, err := resolveAddr(o, syms)
		if err != nil {
			return nil, err
		}
		b2, b3 := decode.AddrToBytes(memOp, addr)
		return []byte{byte(memOp), 0, b2, b3}, nil
	case opndMemRelative:
		off, err := checkOffset8(o.Offset, line)
		if err != nil {
			return nil, err
		}
		return []byte{byte(memROp), 0, byte(o.Base) & 0x07, byte(off)}, nil
	default:
		return nil, newErr(InvalidOperand, line, "%s requires a register or memory operand", mnemonic)
	}
}

func encodeMov(ops []operand, syms *symbolTable, line int) ([]byte, error) {
	if len(ops) != 2 || ops[0].Kind != opndRegister {
		return nil, newErr(InvalidOperand, line, "MOV requires a register destination")
	}
	dst := ops[0]
	src := ops[1]
	switch src.Kind {
	case opndRegister:
		return []byte{byte(isa.OpMovRR), decode.EncodeRegByte(regOperand(dst)), decode.EncodeRegByte(regOperand(src)), 0}, nil
	case opndImmediate, opndLabel:
		v, err := resolveAddr(src, syms)
		if err != nil {
			return nil, err
		}
		hi, lo := imm16Bytes(v)
		return []byte{byte(isa.OpMovRI), decode.EncodeRegByte(regOperand(dst)), hi, lo}, nil
	case opndMemIndexed:
		// MOV reg, [base+index] is accepted as an alias of LOAD's indexed
		// form; the disassembler renders it back under LOAD's canonical
		// mnemonic.
		return []byte{byte(isa.OpLoadIndexed), decode.EncodeRegByte(regOperand(dst)), byte(src.Base) & 0x07, byte(src.Index) & 0x07}, nil
	default:
		return nil, newErr(InvalidOperand, line, "MOV does not accept a memory operand; use LOAD/STORE")
	}
}

// loadStoreOpset names the opcode chosen for the direct-address and
// indexed addressing-mode shapes of a LOAD-family or STORE-family
// mnemonic; Indexed is 0 when the mnemonic has no indexed form (LOADB,
// STOREB).
type loadStoreOpset struct {
	Direct  isa.Op
	Indexed isa.Op
}

var (
	loadOpset   = loadStoreOpset{Direct: isa.OpLoad, Indexed: isa.OpLoadIndexed}
	loadBOpset  = loadStoreOpset{Direct: isa.OpLoadB}
	storeOpset  = loadStoreOpset{Direct: isa.OpStore, Indexed: isa.OpStoreIndexed}
	storeBOpset = loadStoreOpset{Direct: isa.OpStoreB}
)

// encodeLoadStore handles LOAD/LOADB (reg, mem) and STORE/STOREB
// (mem, reg) forms for the direct-address and indexed addressing modes;
// register-relative addressing is handled separately by encodeRelative
// under the distinct LOADR/LOADBR/STORER/STOREBR mnemonics.
func encodeLoadStore(set loadStoreOpset, ops []operand, syms *symbolTable, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 2 {
		return nil, newErr(InvalidOperand, line, "%s requires two operands", mnemonic)
	}
	isLoad := ops[0].Kind == opndRegister
	var reg, mem operand
	if isLoad {
		reg, mem = ops[0], ops[1]
	} else {
		mem, reg = ops[0], ops[1]
	}
	if reg.Kind != opndRegister || !isMemoryOperand(mem) {
		return nil, newErr(InvalidOperand, line, "%s requires one register and one memory operand", mnemonic)
	}

	switch mem.Kind {
	case opndMemDirect:
		addr, err := resolveAddr(mem, syms)
		if err != nil {
			return nil, err
		}
		b2, b3 := decode.AddrToBytes(set.Direct, addr)
		return []byte{byte(set.Direct), decode.EncodeRegByte(regOperand(reg)), b2, b3}, nil
	case opndMemIndexed:
		if set.Indexed == 0 {
			return nil, newErr(InvalidOperand, line, "%s does not support indexed addressing", mnemonic)
		}
		return []byte{byte(set.Indexed), decode.EncodeRegByte(regOperand(reg)), byte(mem.Base) & 0x07, byte(mem.Index) & 0x07}, nil
	case opndMemRelative:
		return nil, newErr(InvalidOperand, line, "%s does not accept register-relative addressing; use %sR", mnemonic, mnemonic)
	default:
		return nil, newErr(InvalidOperand, line, "unsupported memory operand for %s", mnemonic)
	}
}

// encodeRelative handles the register-relative LOADR/LOADBR/STORER/STOREBR
// mnemonics: regFirst is true for the LOAD-family's "reg, [base+offset]"
// operand order and false for the STORE-family's "[base+offset], src".
func encodeRelative(op isa.Op, ops []operand, line int, mnemonic string, regFirst bool) ([]byte, error) {
	if len(ops) != 2 {
		return nil, newErr(InvalidOperand, line, "%s requires two operands", mnemonic)
	}
	var reg, mem operand
	if regFirst {
		reg, mem = ops[0], ops[1]
	} else {
		mem, reg = ops[0], ops[1]
	}
	if reg.Kind != opndRegister || mem.Kind != opndMemRelative {
		return nil, newErr(InvalidOperand, line, "%s requires a register and a register-relative/indirect memory operand", mnemonic)
	}
	off, err := checkOffset8(mem.Offset, line)
	if err != nil {
		return nil, err
	}
	return []byte{byte(op), decode.EncodeRegByte(regOperand(reg)), byte(mem.Base) & 0x07, byte(off)}, nil
}

func isMemoryOperand(o operand) bool {
	return o.Kind == opndMemDirect || o.Kind == opndMemRelative || o.Kind == opndMemIndexed
}

func encodeLea(ops []operand, line int) ([]byte, error) {
	if len(ops) != 2 || ops[0].Kind != opndRegister || ops[1].Kind != opndMemRelative {
		return nil, newErr(InvalidOperand, line, "LEA requires a register and a register-relative or register-indirect memory operand")
	}
	off, err := checkOffset8(ops[1].Offset, line)
	if err != nil {
		return nil, err
	}
	return []byte{byte(isa.OpLea), decode.EncodeRegByte(regOperand(ops[0])), byte(ops[1].Base) & 0x07, byte(off)}, nil
}

// encodeStoreI disambiguates "STOREI [base], imm16" from
// "STOREI [addr16], imm8" purely by the shape of the memory operand.
func encodeStoreI(ops []operand, syms *symbolTable, line int) ([]byte, error) {
	if len(ops) != 2 || !isMemoryOperand(ops[0]) {
		return nil, newErr(InvalidOperand, line, "STOREI requires a memory destination and an immediate")
	}
	mem, imm := ops[0], ops[1]
	if imm.Kind != opndImmediate && imm.Kind != opndLabel {
		return nil, newErr(InvalidOperand, line, "STOREI requires an immediate source")
	}

	switch mem.Kind {
	case opndMemRelative:
		if mem.Offset != 0 {
			return nil, newErr(InvalidOperand, line, "STOREI [base] does not accept an offset")
		}
		v, err := resolveAddr(imm, syms)
		if err != nil {
			return nil, err
		}
		hi, lo := imm16Bytes(v)
		return []byte{byte(isa.OpStoreI), byte(mem.Base) & 0x07, hi, lo}, nil
	case opndMemDirect:
		addr, err := resolveAddr(mem, syms)
		if err != nil {
			return nil, err
		}
		v, err := resolveAddr(imm, syms)
		if err != nil {
			return nil, err
		}
		if v > 255 {
			return nil, newErr(OutOfRangeImmediate, line,
				"STOREI [addr], imm only supports an 8-bit immediate (got %d); use MOV reg,imm then STORE [addr],reg instead", v)
		}
		b2, b3 := decode.AddrToBytes(isa.OpStoreIDirect, addr)
		return []byte{byte(isa.OpStoreIDirect), b2, b3, byte(v)}, nil
	default:
		return nil, newErr(InvalidOperand, line, "STOREI requires [base] or [addr16]")
	}
}

// arithOpset names the RR/RI/Mem/MemR opcode for an ADD/SUB/CMP-family
// mnemonic. AND/OR/XOR have no memory-operand encoding and are encoded by
// encodeLogical instead.
type arithOpset struct {
	RR, RI, Mem, MemR isa.Op
}

var (
	addOpset = arithOpset{RR: isa.OpAddRR, RI: isa.OpAddRI, Mem: isa.OpAddMem, MemR: isa.OpAddMemR}
	subOpset = arithOpset{RR: isa.OpSubRR, RI: isa.OpSubRI, Mem: isa.OpSubMem, MemR: isa.OpSubMemR}
	cmpOpset = arithOpset{RR: isa.OpCmpRR, RI: isa.OpCmpRI, Mem: isa.OpCmpMem, MemR: isa.OpCmpMemR}
)

func encodeArith(set arithOpset, ops []operand, syms *symbolTable, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 2 || ops[0].Kind != opndRegister {
		return nil, newErr(InvalidOperand, line, "%s requires a register destination", mnemonic)
	}
	dst, src := ops[0], ops[1]
	switch src.Kind {
	case opndRegister:
		return []byte{byte(set.RR), decode.EncodeRegByte(regOperand(dst)), decode.EncodeRegByte(regOperand(src)), 0}, nil
	case opndImmediate, opndLabel:
		v, err := resolveAddr(src, syms)
		if err != nil {
			return nil, err
		}
		hi, lo := imm16Bytes(v)
		return []byte{byte(set.RI), decode.EncodeRegByte(regOperand(dst)), hi, lo}, nil
	case opndMemDirect:
		addr, err := resolveAddr(src, syms)
		if err != nil {
			return nil, err
		}
		b2, b3 := decode.AddrToBytes(set.Mem, addr)
		return []byte{byte(set.Mem), decode.EncodeRegByte(regOperand(dst)), b2, b3}, nil
	case opndMemRelative:
		off, err := checkOffset8(src.Offset, line)
		if err != nil {
			return nil, err
		}
		return []byte{byte(set.MemR), decode.EncodeRegByte(regOperand(dst)), byte(src.Base) & 0x07, byte(off)}, nil
	default:
		return nil, newErr(InvalidOperand, line, "unsupported operand for %s", mnemonic)
	}
}

func encodeLogical(rr, ri isa.Op, ops []operand, syms *symbolTable, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 2 || ops[0].Kind != opndRegister {
		return nil, newErr(InvalidOperand, line, "%s requires a register destination", mnemonic)
	}
	dst, src := ops[0], ops[1]
	switch src.Kind {
	case opndRegister:
		return []byte{byte(rr), decode.EncodeRegByte(regOperand(dst)), decode.EncodeRegByte(regOperand(src)), 0}, nil
	case opndImmediate, opndLabel:
		v, err := resolveAddr(src, syms)
		if err != nil {
			return nil, err
		}
		hi, lo := imm16Bytes(v)
		return []byte{byte(ri), decode.EncodeRegByte(regOperand(dst)), hi, lo}, nil
	default:
		return nil, newErr(InvalidOperand, line, "%s does not accept a memory operand", mnemonic)
	}
}

func encodeShift(op isa.Op, ops []operand, line int, mnemonic string) ([]byte, error) {
	if len(ops) < 1 || len(ops) > 2 || ops[0].Kind != opndRegister {
		return nil, newErr(InvalidOperand, line, "%s requires a register destination", mnemonic)
	}
	n := int64(1)
	if len(ops) == 2 {
		if ops[1].Kind != opndImmediate {
			return nil, newErr(InvalidOperand, line, "%s shift count must be an immediate", mnemonic)
		}
		n = ops[1].Imm
	}
	hi, lo := imm16Bytes(uint16(n))
	return []byte{byte(op), decode.EncodeRegByte(regOperand(ops[0])), hi, lo}, nil
}

func encodeJump(op isa.Op, ops []operand, syms *symbolTable, line int, mnemonic string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, newErr(InvalidOperand, line, "%s requires exactly one target operand", mnemonic)
	}
	addr, err := resolveAddr(ops[0], syms)
	if err != nil {
		return nil, err
	}
	b2, b3 := decode.AddrToBytes(op, addr)
	return []byte{byte(op), 0, b2, b3}, nil
}

func checkOffset8(off int32, line int) (int8, error) {
	if off < -128 || off > 127 {
		return 0, newErr(OutOfRangeImmediate, line, "offset %d out of range -128..127", off)
	}
	return int8(off), nil
}
