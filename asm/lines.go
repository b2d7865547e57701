package asm

import (
	"strings"

	"x366/token"
)

// itemKind distinguishes the three kinds of code-bearing lines pass 1
// walks: an instruction, a data directive, or the one-shot
// memory-size directive.
type itemKind int

const (
	itemInstruction itemKind = iota
	itemData
	itemMemorySize
)

// item is one logical assembly line after label-stacking has been resolved:
// zero or more labels attached to it, plus its mnemonic/directive name and
// the raw operand tokens to be parsed by the caller. Exactly one of
// (Instruction encoding, Data directive evaluation, memory-size parsing)
// consumes Toks depending on Kind.
type item struct {
	Kind     itemKind
	Labels   []string
	Mnemonic string // uppercased
	Toks     []token.Token
	Line     int
}

// scanItems splits a token stream (as produced by token.Tokenize) into
// logical lines, resolving "stacked" labels: consecutive
// `IDENT ':'` labels with no instruction between them all attach to the
// next code-bearing item. Labels with nothing left in the source to attach
// to are returned in trailingLabels.
func scanItems(toks []token.Token) (items []item, trailingLabels []string, err error) {
	var pending []string

	lines := splitLines(toks)
	for _, line := range lines {
		pos := 0
		for pos < len(line) {
			if line[pos].Type == token.Identifier && pos+1 < len(line) && line[pos+1].Type == token.Colon {
				pending = append(pending, line[pos].Literal)
				pos += 2
				continue
			}
			break
		}
		if pos >= len(line) {
			continue // label(s) only, or blank line
		}
		head := line[pos]
		if head.Type != token.Identifier {
			return nil, nil, newErr(InvalidOperand, head.Pos.Line, "expected mnemonic or directive, got %q", head.Literal)
		}
		mnemonic := strings.ToUpper(head.Literal)
		rest := line[pos+1:]

		kind := itemInstruction
		if mnemonic == "DB" || mnemonic == "DW" {
			kind = itemData
		} else if mnemonic == ".MEMORY" {
			kind = itemMemorySize
		}

		items = append(items, item{
			Kind:     kind,
			Labels:   pending,
			Mnemonic: mnemonic,
			Toks:     rest,
			Line:     head.Pos.Line,
		})
		pending = nil
	}

	return items, pending, nil
}

// splitLines groups a flat token stream into per-source-line slices,
// dropping Newline and EOF markers.
func splitLines(toks []token.Token) [][]token.Token {
	var lines [][]token.Token
	var cur []token.Token
	for _, t := range toks {
		switch t.Type {
		case token.Newline:
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
		case token.EOF:
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
		default:
			cur = append(cur, t)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
