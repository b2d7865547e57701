package syscall

import (
	"x366/cpu"
	"x366/display"
	"x366/isa"
)

// dispatchGraphics implements the graphics syscall set (codes 10-17). The
// display itself is an external collaborator; when none is
// attached these are silent no-ops, matching the syscall layer's general
// "non-fatal, keep going" stance toward a missing host capability.
//
// Register contract:
//
//	SET_COLOR    AX=color(0-3)
//	DRAW_PIXEL   AX=x BX=y
//	DRAW_LINE    AX=x0 BX=y0 CX=x1 DX=y1
//	DRAW_RECT    AX=x BX=y CX=w DX=h EX=filled(0/1)
//	DRAW_CIRCLE  AX=cx BX=cy CX=r DX=filled(0/1)
//	CLEAR_DISPLAY (no args)
//	REFRESH       (no args)
//	FB_INFO      -> AX=width BX=height
func dispatchGraphics(code isa.Syscall, regs *cpu.Registers, host *Host) (Result, error) {
	if code == isa.SyscallFBInfo {
		regs.Set(isa.AX, isa.DisplayWidth)
		regs.Set(isa.BX, isa.DisplayHeight)
		return Result{}, nil
	}

	if host.Display == nil {
		return Result{}, nil
	}

	d := host.Display
	switch code {
	case isa.SyscallSetColor:
		d.SetColor(display.Color(regs.GetByte(isa.AX) & 0x03))
	case isa.SyscallDrawPixel:
		d.DrawPixel(int(int16(regs.Get(isa.AX))), int(int16(regs.Get(isa.BX))))
	case isa.SyscallDrawLine:
		d.DrawLine(int(int16(regs.Get(isa.AX))), int(int16(regs.Get(isa.BX))),
			int(int16(regs.Get(isa.CX))), int(int16(regs.Get(isa.DX))))
	case isa.SyscallDrawRect:
		d.DrawRect(int(int16(regs.Get(isa.AX))), int(int16(regs.Get(isa.BX))),
			int(int16(regs.Get(isa.CX))), int(int16(regs.Get(isa.DX))), regs.Get(isa.EX) != 0)
	case isa.SyscallDrawCirc:
		d.DrawCircle(int(int16(regs.Get(isa.AX))), int(int16(regs.Get(isa.BX))),
			int(int16(regs.Get(isa.CX))), regs.Get(isa.DX) != 0)
	case isa.SyscallClearDisp:
		d.Clear()
	case isa.SyscallRefresh:
		d.Refresh()
	}
	return Result{}, nil
}
