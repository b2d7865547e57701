// Package syscall dispatches the X366 SYSCALL instruction to its handler.
// Like the reference ARM emulator's vm/syscall.go, this package separates VM-integrity
// failures (a malformed address, which halts the engine) from expected
// operation failures (a missing file, which reports an error code through
// a register and continues) and from unknown syscall codes (which log and
// continue rather than halting).
package syscall

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"x366/cpu"
	"x366/display"
	"x366/isa"
	"x366/memory"
	"x366/vfs"
)

// UnknownSyscallError marks a syscall code with no handler. This is
// non-fatal: the engine logs it (via Host.Output or a logger) and
// continues.
type UnknownSyscallError struct {
	Code isa.Syscall
}

func (e *UnknownSyscallError) Error() string {
	return fmt.Sprintf("unknown syscall code %d", e.Code)
}

// Host bundles the syscall layer's external collaborators: an output
// sink, an optional input provider, a synchronous filesystem, an optional
// display, and a sleep function.
type Host struct {
	Output func(string)
	// Input returns one line of input and whether a provider is attached.
	Input func() (string, bool)
	FS     vfs.SyncBlobStore
	Display display.Display
	// Sleep defaults to time.Sleep if nil; hosts may substitute a
	// deferred-continuation scheduler.
	Sleep func(time.Duration)
}

func (h *Host) output(s string) {
	if h.Output != nil {
		h.Output(s)
	}
}

func (h *Host) sleep(d time.Duration) {
	if h.Sleep != nil {
		h.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Result reports what the syscall asked the engine to do afterward.
type Result struct {
	Halt bool
}

// Dispatch executes the syscall identified by code. Returning a non-nil
// error that is not *UnknownSyscallError signals a fatal VM-integrity
// failure (the caller should halt); an *UnknownSyscallError signals the
// non-fatal "log and continue" path.
func Dispatch(code isa.Syscall, mem *memory.Memory, regs *cpu.Registers, host *Host) (Result, error) {
	switch code {
	case isa.SyscallExit:
		return Result{Halt: true}, nil

	case isa.SyscallPrintChar:
		host.output(string(rune(regs.GetByte(isa.AX))))
		return Result{}, nil

	case isa.SyscallPrintString:
		s, err := readCString(mem, int(regs.Get(isa.AX)), isa.MaxPrintStringLen)
		if err != nil {
			return Result{}, err
		}
		host.output(s)
		return Result{}, nil

	case isa.SyscallPrintInt:
		host.output(strconv.Itoa(int(int16(regs.Get(isa.AX)))))
		return Result{}, nil

	case isa.SyscallReadChar:
		if host.Input == nil {
			regs.Set(isa.AX, 0)
			return Result{}, nil
		}
		line, ok := host.Input()
		if !ok || len(line) == 0 {
			regs.Set(isa.AX, 0)
			return Result{}, nil
		}
		regs.Set(isa.AX, uint16(line[0]))
		return Result{}, nil

	case isa.SyscallReadInt:
		if host.Input == nil {
			regs.Set(isa.AX, 0)
			return Result{}, nil
		}
		line, ok := host.Input()
		if !ok {
			regs.Set(isa.AX, 0)
			return Result{}, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			regs.Set(isa.AX, 0)
			return Result{}, nil
		}
		regs.Set(isa.AX, uint16(int16(n)))
		return Result{}, nil

	case isa.SyscallReadString:
		buf := int(regs.Get(isa.AX))
		maxLen := int(regs.Get(isa.BX))
		var line string
		if host.Input != nil {
			line, _ = host.Input()
		}
		if len(line) > maxLen {
			line = line[:maxLen]
		}
		if err := mem.LoadBytes(buf, []byte(line)); err != nil {
			return Result{}, err
		}
		if err := mem.WriteByte(buf+len(line), 0); err != nil {
			return Result{}, err
		}
		regs.Set(isa.AX, uint16(len(line)))
		return Result{}, nil

	case isa.SyscallAtoi:
		addr := int(regs.Get(isa.AX))
		val, next, err := atoi(mem, addr)
		if err != nil {
			return Result{}, err
		}
		regs.Set(isa.AX, uint16(val))
		regs.Set(isa.BX, uint16(next))
		return Result{}, nil

	case isa.SyscallSbrk:
		delta := int16(regs.Get(isa.AX))
		old := regs.BK
		regs.BK = uint16(int(regs.BK) + int(delta))
		regs.Set(isa.AX, old)
		return Result{}, nil

	case isa.SyscallSetColor, isa.SyscallDrawPixel, isa.SyscallDrawLine, isa.SyscallDrawRect,
		isa.SyscallDrawCirc, isa.SyscallClearDisp, isa.SyscallRefresh, isa.SyscallFBInfo:
		return dispatchGraphics(code, regs, host)

	case isa.SyscallSleep:
		host.sleep(time.Duration(regs.Get(isa.AX)) * time.Millisecond)
		return Result{}, nil

	case isa.SyscallReadFile:
		return readFile(mem, regs, host)

	case isa.SyscallMalloc:
		regs.Set(isa.AX, 0xFFFF)
		return Result{}, nil

	case isa.SyscallFree:
		return Result{}, nil

	default:
		return Result{}, &UnknownSyscallError{Code: code}
	}
}

func readCString(mem *memory.Memory, addr int, cap int) (string, error) {
	var sb strings.Builder
	for i := 0; i < cap; i++ {
		b, err := mem.ReadByte(addr + i)
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// atoi implements SYSCALL ATOI's parse rules: skip leading whitespace,
// accept one leading sign, stop at the first non-digit.
func atoi(mem *memory.Memory, addr int) (value int16, next int, err error) {
	pos := addr
	for {
		b, rerr := mem.ReadByte(pos)
		if rerr != nil {
			return 0, 0, rerr
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			pos++
			continue
		}
		break
	}

	sign := int32(1)
	b, rerr := mem.ReadByte(pos)
	if rerr != nil {
		return 0, 0, rerr
	}
	if b == '+' || b == '-' {
		if b == '-' {
			sign = -1
		}
		pos++
	}

	var n int32
	for {
		b, rerr := mem.ReadByte(pos)
		if rerr != nil {
			return 0, 0, rerr
		}
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + int32(b-'0')
		pos++
	}

	return int16(sign * n), pos, nil
}

func readFile(mem *memory.Memory, regs *cpu.Registers, host *Host) (Result, error) {
	nameAddr := int(regs.Get(isa.AX))
	buf := int(regs.Get(isa.BX))
	maxLen := int(regs.Get(isa.CX))

	name, err := readCString(mem, nameAddr, isa.MaxPrintStringLen)
	if err != nil {
		return Result{}, err
	}

	if host.FS == nil {
		regs.Set(isa.AX, 0xFFFF)
		return Result{}, nil
	}
	data, ok := host.FS.Read(name)
	if !ok {
		regs.Set(isa.AX, 0xFFFF)
		return Result{}, nil
	}
	if len(data) > maxLen {
		data = data[:maxLen]
	}
	if err := mem.LoadBytes(buf, data); err != nil {
		return Result{}, err
	}
	regs.Set(isa.AX, uint16(len(data)))
	return Result{}, nil
}
