// Package asm implements the X366 two-pass assembler:
// label-table construction and code/data address assignment in pass 1,
// then instruction encoding and data evaluation against the completed
// label table in pass 2. It is adapted from the reference ARM emulator's
// parser/parser.go (the overall two-pass shape) and encoder/*.go (the
// per-mnemonic encode functions, restructured around X366's flat opcode
// table and the addressing-mode-driven opcode-variant selection the
// instruction encoding rules prescribe).
package asm

import (
	"x366/binfmt"
	"x366/isa"
	"x366/token"
)

// codeEntry is one pass-1-sized, not-yet-encoded instruction.
type codeEntry struct {
	Mnemonic string
	Toks     []token.Token
	Line     int
	Addr     uint16
	Size     int
}

// dataEntry is one fully-sized, not-yet-evaluated data directive.
type dataEntry struct {
	Mnemonic string
	Elems    []dataElem
	Line     int
	Addr     uint16
	Size     int
}

// Result is everything pass 2 produces: the encoded program plus enough
// metadata to build a binary container and, optionally, a
// debug section.
type Result struct {
	Code         []byte // code segment only
	Data         []byte // data segment only
	MemorySize   int
	CodeBoundary uint16 // end of code segment
	BreakPointer uint16 // end of data segment (recommended initial break)
	Debug        binfmt.DebugInfo
}

// Assemble runs the full two-pass pipeline over source and returns a
// Result ready for binfmt.Build. filename tags error positions.
func Assemble(source, filename string) (Result, error) {
	toks, err := token.Tokenize(source, filename)
	if err != nil {
		return Result{}, err
	}
	items, trailingLabels, err := scanItems(toks)
	if err != nil {
		return Result{}, err
	}

	syms := newSymbolTable()
	memSize := 1024
	memSizeSet := false

	var codeEntries []codeEntry
	var dataRaws []item
	codeAddr := uint16(isa.DefaultCodeStart)
	var pendingCarry []string

	for _, it := range items {
		switch it.Kind {
		case itemMemorySize:
			if !memSizeSet {
				size, err := parseMemorySize(it.Toks, it.Line)
				if err != nil {
					return Result{}, err
				}
				memSize = size
				memSizeSet = true
			}
			pendingCarry = append(pendingCarry, it.Labels...)

		case itemInstruction:
			size, err := instructionSize(it.Mnemonic, it.Toks, it.Line)
			if err != nil {
				return Result{}, err
			}
			labels := append(pendingCarry, it.Labels...)
			pendingCarry = nil
			for _, lbl := range labels {
				if err := syms.define(lbl, codeAddr, symbolKindLabel, it.Line); err != nil {
					return Result{}, err
				}
			}
			codeEntries = append(codeEntries, codeEntry{Mnemonic: it.Mnemonic, Toks: it.Toks, Line: it.Line, Addr: codeAddr, Size: size})
			codeAddr += uint16(size)

		case itemData:
			labels := append(pendingCarry, it.Labels...)
			pendingCarry = nil
			merged := it
			merged.Labels = labels
			dataRaws = append(dataRaws, merged)
		}
	}

	codeEnd := codeAddr
	dataAddr := codeEnd
	unitWidth := func(mnemonic string) int {
		if mnemonic == "DW" {
			return 2
		}
		return 1
	}

	var dataEntries []dataEntry
	for _, raw := range dataRaws {
		elems, err := parseDataDirective(raw.Mnemonic, raw.Toks, raw.Line)
		if err != nil {
			return Result{}, err
		}
		width := unitWidth(raw.Mnemonic)
		size := 0
		for _, e := range elems {
			size += e.Size(width)
		}
		for _, lbl := range raw.Labels {
			if err := syms.define(lbl, dataAddr, symbolKindData, raw.Line); err != nil {
				return Result{}, err
			}
		}
		dataEntries = append(dataEntries, dataEntry{Mnemonic: raw.Mnemonic, Elems: elems, Line: raw.Line, Addr: dataAddr, Size: size})
		dataAddr += uint16(size)
	}

	dataEnd := dataAddr
	finalLabels := append(pendingCarry, trailingLabels...)
	for _, lbl := range finalLabels {
		if err := syms.define(lbl, dataEnd, symbolKindLabel, 0); err != nil {
			return Result{}, err
		}
	}

	if int(dataEnd) > memSize {
		return Result{}, newErr(InvalidMemorySize, 0, "program (code+data = %d bytes) does not fit in %d-byte memory", dataEnd, memSize)
	}

	// Pass 2: encode instructions and evaluate data, now that every label
	// is resolvable.
	var code []byte
	var lines []binfmt.LineEntry
	for _, ce := range codeEntries {
		ops, err := newOpParser(ce.Toks, ce.Line).parseOperands()
		if err != nil {
			return Result{}, err
		}
		bytes, err := encodeInstruction(ce.Mnemonic, ops, syms, ce.Line)
		if err != nil {
			return Result{}, err
		}
		if len(bytes) != ce.Size {
			return Result{}, newErr(InvalidOperand, ce.Line, "internal size mismatch for %s: pass1=%d pass2=%d", ce.Mnemonic, ce.Size, len(bytes))
		}
		code = append(code, bytes...)
		lines = append(lines, binfmt.LineEntry{PC: ce.Addr, Line: uint16(ce.Line)})
	}

	var data []byte
	for _, de := range dataEntries {
		width := unitWidth(de.Mnemonic)
		for _, e := range de.Elems {
			switch e.Kind {
			case dataString:
				data = append(data, e.Bytes...)
			case dataImm, dataLabel:
				v := e.Value
				if e.Kind == dataLabel {
					sym, ok := syms.lookup(e.Label)
					if !ok {
						return Result{}, newErr(UndefinedLabel, e.Line, "undefined label %q", e.Label)
					}
					v = int64(sym.Addr)
				}
				for i := 0; i < e.Count; i++ {
					if width == 1 {
						data = append(data, byte(v))
					} else {
						data = append(data, byte(uint16(v)>>8), byte(uint16(v)))
					}
				}
			}
		}
	}

	var symbolEntries []binfmt.SymbolEntry
	for _, s := range syms.sortedSymbols() {
		symbolEntries = append(symbolEntries, binfmt.SymbolEntry{Addr: s.Addr, Kind: byte(s.Kind), Name: s.Name})
	}

	return Result{
		Code:         code,
		Data:         data,
		MemorySize:   memSize,
		CodeBoundary: codeEnd,
		BreakPointer: dataEnd,
		Debug: binfmt.DebugInfo{
			Lines:   lines,
			Symbols: symbolEntries,
		},
	}, nil
}

// Build renders a Result into a complete "Go Cats!" binary container,
// including its debug section.
func (r Result) Build() []byte {
	codeAndData := make([]byte, 0, len(r.Code)+len(r.Data))
	codeAndData = append(codeAndData, r.Code...)
	codeAndData = append(codeAndData, r.Data...)

	return binfmt.Build(binfmt.BuildOptions{
		CodeAndData:  codeAndData,
		MemorySize:   uint16(r.MemorySize),
		BreakPointer: r.BreakPointer,
		CodeBoundary: r.CodeBoundary,
		Sections: []binfmt.Section{
			{Type: binfmt.DebugSectionType, Payload: r.Debug.Encode()},
		},
	})
}

// AssembleToBinary is the convenience entry point used by cmd/x366asm: it
// runs Assemble and renders the result straight to container bytes.
func AssembleToBinary(source, filename string) ([]byte, error) {
	res, err := Assemble(source, filename)
	if err != nil {
		return nil, err
	}
	return res.Build(), nil
}
