// Package loader turns an assembled binary container into runtime memory
// and a register file. It is adapted from the reference ARM emulator's
// vm/loader.go and elf-ish segment-copy conventions, generalized from a
// fixed-format ELF loader to this container's simpler flat layout.
package loader

import (
	"x366/binfmt"
	"x366/cpu"
	"x366/isa"
	"x366/memory"
)

// Report summarizes where the loader placed things, for the debugger and
// host tooling.
type Report struct {
	CodeBase        uint16
	CodeEnd         uint16
	DataEnd         uint16
	BreakPointer    uint16
	CommandLineAddr uint16
	DebugInfo       *binfmt.DebugInfo // nil if the binary carried no debug section
}

// Options configures a Load call.
type Options struct {
	Binary      []byte
	CommandLine string // optional; empty means no command-line argument
}

// Load implements the seven-step load algorithm: validate the
// signature, allocate memory of the declared size, copy the code/data
// segment, parse TLV sections, optionally place a command-line string, and
// reset+override the register file.
func Load(opts Options) (*memory.Memory, *cpu.Registers, Report, error) {
	header, err := binfmt.ParseHeader(opts.Binary)
	if err != nil {
		return nil, nil, Report{}, err
	}

	mem := memory.New(int(header.MemorySize))

	dataEnd := len(opts.Binary)
	if header.SectionsOffset != 0 {
		dataEnd = int(header.SectionsOffset)
	}
	if dataEnd > isa.HeaderSize {
		if err := mem.LoadBytes(isa.HeaderSize, opts.Binary[isa.HeaderSize:dataEnd]); err != nil {
			return nil, nil, Report{}, err
		}
	}

	var debugInfo *binfmt.DebugInfo
	if header.SectionsOffset != 0 && int(header.SectionsOffset) < len(opts.Binary) {
		sections, err := binfmt.DecodeSections(opts.Binary[header.SectionsOffset:])
		if err != nil {
			return nil, nil, Report{}, err
		}
		for _, s := range sections {
			if s.Type == binfmt.DebugSectionType {
				info, err := binfmt.DecodeDebugInfo(s.Payload)
				if err != nil {
					return nil, nil, Report{}, err
				}
				debugInfo = &info
			}
		}
	}

	var cmdLineAddr uint16
	if opts.CommandLine != "" {
		cmdLineAddr = uint16(dataEnd)
		if err := mem.LoadBytes(dataEnd, append([]byte(opts.CommandLine), 0)); err != nil {
			return nil, nil, Report{}, err
		}
	}

	regs := cpu.New(int(header.MemorySize))
	regs.BK = header.BreakPointer
	regs.CB = header.CodeBoundary
	regs.Set(isa.AX, cmdLineAddr)

	report := Report{
		CodeBase:        isa.HeaderSize,
		CodeEnd:         header.CodeBoundary,
		DataEnd:         uint16(dataEnd),
		BreakPointer:    header.BreakPointer,
		CommandLineAddr: cmdLineAddr,
		DebugInfo:       debugInfo,
	}
	return mem, regs, report, nil
}
