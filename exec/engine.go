// Package exec implements the X366 fetch-decode-execute engine: the
// register/flag semantics of every opcode, effective-address computation
// for the indirect/relative/indexed addressing modes, and the bounded
// step-back undo journal.
package exec

import (
	"x366/cpu"
	"x366/isa"
	"x366/memory"
	"x366/syscall"
)

// Engine ties a Memory, a Registers, and a syscall Host together and
// drives them one instruction at a time.
type Engine struct {
	Mem  *memory.Memory
	Regs *cpu.Registers
	Host *syscall.Host

	// Strict promotes stack underflow from a non-fatal register outcome to
	// a fatal ExecutionError.
	Strict bool

	// EnableUndo gates whether Step records a journal entry; Run with undo
	// disabled is cheaper for long-running programs that never step back.
	EnableUndo bool

	halted  bool
	journal *journal
}

// New creates an Engine over mem/regs/host with an undo journal capped at
// undoDepth.
func New(mem *memory.Memory, regs *cpu.Registers, host *syscall.Host, strict bool, enableUndo bool, undoDepth int) *Engine {
	if undoDepth > isa.MaxUndoDepth {
		undoDepth = isa.MaxUndoDepth
	}
	return &Engine{
		Mem:        mem,
		Regs:       regs,
		Host:       host,
		Strict:     strict,
		EnableUndo: enableUndo,
		journal:    newJournal(undoDepth),
	}
}

// Halted reports whether HLT or a fatal execution error has stopped the
// engine.
func (e *Engine) Halted() bool {
	return e.halted
}

func (e *Engine) record(m Mutation) {
	if e.EnableUndo {
		e.journal.record(m)
	}
}

// setReg writes a word register, journaling its prior value.
func (e *Engine) setReg(reg isa.Reg, v uint16) {
	e.record(Mutation{kind: mutRegWrite, reg: byte(reg), regPrev: e.Regs.Get(reg)})
	e.Regs.Set(reg, v)
}

// setRegByte writes a byte-aliased register's low byte, journaling the
// whole prior word (restoring it on undo repairs exactly the low byte that
// changed, since the high byte was untouched).
func (e *Engine) setRegByte(reg isa.Reg, v byte) {
	e.record(Mutation{kind: mutRegWrite, reg: byte(reg), regPrev: e.Regs.Get(reg)})
	e.Regs.SetByte(reg, v)
}

func (e *Engine) setFlags(f cpu.Flags) {
	e.record(Mutation{kind: mutFlagsWrite, flagsPrev: e.Regs.Flags})
	e.Regs.Flags = f
}

func (e *Engine) setPC(v uint16) {
	e.record(Mutation{kind: mutPCWrite, pcPrev: e.Regs.PC})
	e.Regs.PC = v
}

func (e *Engine) setBK(v uint16) {
	e.record(Mutation{kind: mutBKWrite, bkPrev: e.Regs.BK})
	e.Regs.BK = v
}

// writeByte writes through Mem, journaling the previous byte value.
func (e *Engine) writeByte(addr int, v byte) error {
	prev, err := e.Mem.ReadByte(addr)
	if err != nil {
		return err
	}
	e.record(Mutation{kind: mutMemByteWrite, addr: addr, bytePrev: prev})
	return e.Mem.WriteByte(addr, v)
}

// writeWord writes a big-endian word as two journaled byte writes, so the
// undo journal needs only one mutation kind for all memory writes.
func (e *Engine) writeWord(addr int, v uint16) error {
	if err := e.writeByte(addr, byte(v>>8)); err != nil {
		return err
	}
	return e.writeByte(addr+1, byte(v))
}

// CanStepBack reports whether at least one step remains in the undo
// journal.
func (e *Engine) CanStepBack() bool {
	return e.journal.canStepBack()
}

// StepBack undoes the most recently executed instruction by replaying its
// journaled mutations in reverse. It never re-derives PC from the
// instruction stream: PC's own prior value is itself journaled like any
// other register.
func (e *Engine) StepBack() bool {
	muts := e.journal.popLast()
	if muts == nil {
		return false
	}
	for _, m := range muts {
		switch m.kind {
		case mutRegWrite:
			e.Regs.Set(isa.Reg(m.reg), m.regPrev)
		case mutMemByteWrite:
			_ = e.Mem.WriteByte(m.addr, m.bytePrev)
		case mutFlagsWrite:
			e.Regs.Flags = m.flagsPrev
		case mutPCWrite:
			e.Regs.PC = m.pcPrev
		case mutBKWrite:
			e.Regs.BK = m.bkPrev
		}
	}
	e.halted = false
	return true
}
