// Package debugger is the reference host-side client that steps an
// exec.Engine interactively: a state dump renderer plus a bubbletea-driven
// step/step-back REPL, the same role the reference ARM emulator's debugger package plays
// for the ARM VM. Grounded on the reference ARM emulator's debugger/tui.go event-loop shape and
// debugger/history.go's undo bookkeeping, adapted onto
// charmbracelet/bubbletea and exec.Engine's own undo journal.
package debugger

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"x366/binfmt"
	"x366/disasm"
	"x366/exec"
	"x366/isa"
)

// Debugger wraps an exec.Engine with symbol/line lookups so its state dump
// can show source context instead of bare addresses.
type Debugger struct {
	Engine *exec.Engine
	Debug  *binfmt.DebugInfo // nil if the loaded binary carried no debug section

	// History mirrors the command strings entered at the REPL prompt, the
	// same "typed-command recall" role the reference ARM emulator's history.go serves;
	// step/step-back themselves are driven by Engine's own undo journal.
	History []string
}

// New creates a Debugger over an already-loaded Engine.
func New(engine *exec.Engine, debug *binfmt.DebugInfo) *Debugger {
	return &Debugger{Engine: engine, Debug: debug}
}

// RecordCommand appends cmd to the REPL's typed-command history.
func (d *Debugger) RecordCommand(cmd string) {
	d.History = append(d.History, cmd)
}

func (d *Debugger) symbolAt(addr uint16) string {
	if d.Debug == nil {
		return ""
	}
	for _, s := range d.Debug.Symbols {
		if s.Addr == addr {
			return s.Name
		}
	}
	return ""
}

func (d *Debugger) sourceLineAt(pc uint16) int {
	if d.Debug == nil {
		return 0
	}
	for _, l := range d.Debug.Lines {
		if l.PC == pc {
			return int(l.Line)
		}
	}
	return 0
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	flagOn     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	flagOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	haltStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// RegistersView renders the general, hidden, and flag registers as a
// lipgloss-styled block.
func (d *Debugger) RegistersView() string {
	regs := d.Engine.Regs
	var rows []string
	gp := []isa.Reg{isa.AX, isa.BX, isa.CX, isa.DX, isa.EX, isa.FX, isa.SP, isa.FP}
	var line strings.Builder
	for i, r := range gp {
		fmt.Fprintf(&line, "%s=%s ", labelStyle.Render(r.String()), valStyle.Render(hex16(regs.Get(r))))
		if i == 3 {
			rows = append(rows, line.String())
			line.Reset()
		}
	}
	rows = append(rows, line.String())
	rows = append(rows, fmt.Sprintf("%s=%s %s=%s %s=%s",
		labelStyle.Render("PC"), valStyle.Render(hex16(regs.PC)),
		labelStyle.Render("BK"), valStyle.Render(hex16(regs.BK)),
		labelStyle.Render("CB"), valStyle.Render(hex16(regs.CB))))
	rows = append(rows, d.flagsLine())
	return strings.Join(rows, "\n")
}

func (d *Debugger) flagsLine() string {
	f := d.Engine.Regs.Flags
	render := func(name string, on bool) string {
		if on {
			return flagOn.Render(name)
		}
		return flagOff.Render(name)
	}
	return strings.Join([]string{
		render("ZF", f.ZF), render("SF", f.SF), render("CF", f.CF), render("OF", f.OF),
	}, " ")
}

// CurrentInstructionView disassembles the instruction at PC, annotated
// with its source line and any label at that address, when debug info is
// available.
func (d *Debugger) CurrentInstructionView() string {
	pc := d.Engine.Regs.PC
	if d.Engine.Halted() {
		return haltStyle.Render("HALTED")
	}
	text, _, err := disasm.Disassemble(readerFunc(d.Engine.Mem.ReadByte), pc)
	if err != nil {
		return fmt.Sprintf("%s: <decode error: %v>", hex16(pc), err)
	}
	suffix := ""
	if name := d.symbolAt(pc); name != "" {
		suffix += fmt.Sprintf("  ; %s", name)
	}
	if line := d.sourceLineAt(pc); line != 0 {
		suffix += fmt.Sprintf("  (line %d)", line)
	}
	return fmt.Sprintf("%s: %s%s", hex16(pc), text, suffix)
}

// Dump renders a full one-shot state snapshot; the TUI's View is built
// from it.
func (d *Debugger) Dump() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		d.CurrentInstructionView(),
		"",
		d.RegistersView(),
	)
}

type readerFunc func(addr int) (byte, error)

func (f readerFunc) ReadByte(addr int) (byte, error) { return f(addr) }

func hex16(v uint16) string { return fmt.Sprintf("%04X", v) }
