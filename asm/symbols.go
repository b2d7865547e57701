package asm

// symbolKind tags what a label was used for in the debug section.
type symbolKind byte

const (
	symbolKindLabel symbolKind = 0
	symbolKindData  symbolKind = 1
)

// symbol is one entry of the label table built during pass 1.
type symbol struct {
	Name string
	Addr uint16
	Kind symbolKind
}

// symbolTable maps label identifiers to addresses, built in full during
// pass 1 before pass 2 resolves any reference — unlike the reference ARM emulator's
// parser/symbols.go, which supports forward-reference relocations for a
// single-pass assembler, this design's two full passes mean a reference is
// always resolved against a complete table, so no relocation bookkeeping is
// needed.
type symbolTable struct {
	order []string
	byName map[string]*symbol
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byName: make(map[string]*symbol)}
}

// define records a new label. It returns a *Error (DuplicateLabel) if name
// was already defined — "stacked" labels are distinct names
// that happen to resolve to the same address, not redefinitions of one
// name, so a same-name redefinition is always an error.
func (st *symbolTable) define(name string, addr uint16, kind symbolKind, line int) error {
	if _, exists := st.byName[name]; exists {
		return newErr(DuplicateLabel, line, "label %q already defined", name)
	}
	st.byName[name] = &symbol{Name: name, Addr: addr, Kind: kind}
	st.order = append(st.order, name)
	return nil
}

func (st *symbolTable) lookup(name string) (*symbol, bool) {
	s, ok := st.byName[name]
	return s, ok
}

// sortedSymbols returns every defined symbol in definition order, for
// deterministic debug-section emission.
func (st *symbolTable) sortedSymbols() []*symbol {
	out := make([]*symbol, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, st.byName[name])
	}
	return out
}
