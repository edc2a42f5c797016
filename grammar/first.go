package grammar

import (
	"strings"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

// firstSet memoizes FIRST of symbols and of symbol sequences for one generation run. The entries are
// TerminalSets, so a set cached while a recursive non-terminal was still being computed keeps growing as the
// computation of that non-terminal goes on.
type firstSet struct {
	gram      *Grammar
	symbols   map[symbol.Symbol]*TerminalSet
	sequences map[string]*TerminalSet
}

func newFirstSet(gram *Grammar) *firstSet {
	return &firstSet{
		gram:      gram,
		symbols:   map[symbol.Symbol]*TerminalSet{},
		sequences: map[string]*TerminalSet{},
	}
}

func genFirstSet(gram *Grammar) *firstSet {
	fst := newFirstSet(gram)
	fst.ofSymbol(gram.Start())
	for _, sym := range gram.NonTerminals() {
		fst.ofSymbol(sym)
	}
	return fst
}

func (fst *firstSet) ofSymbol(sym symbol.Symbol) *TerminalSet {
	if e, ok := fst.symbols[sym]; ok {
		return e
	}

	// Caching the empty entry first marks sym as visited and breaks left recursion.
	entry := NewTerminalSet()
	fst.symbols[sym] = entry

	if sym.IsTerminal() {
		entry.AddDistinct(sym)
		return entry
	}

	for _, prod := range fst.gram.ProductionsOf(sym) {
		if prod.IsEpsilon() {
			entry.AddDistinct(symbol.SymbolNil)
			continue
		}
		exhausted := true
		for _, s := range prod.RHS {
			if s.IsTerminal() {
				entry.AddDistinct(s)
				exhausted = false
				break
			}
			if s != sym {
				entry.UnionWith(fst.ofSymbol(s), symbol.SymbolNil)
			}
			if !fst.gram.Nullable(s) {
				exhausted = false
				break
			}
		}
		if exhausted {
			entry.AddDistinct(symbol.SymbolNil)
		}
	}
	return entry
}

func (fst *firstSet) ofSequence(syms []symbol.Symbol) *TerminalSet {
	key := fst.sequenceKey(syms)
	if e, ok := fst.sequences[key]; ok {
		return e
	}

	entry := NewTerminalSet()
	fst.sequences[key] = entry
	for _, s := range syms {
		if s.IsTerminal() {
			entry.AddDistinct(s)
			return entry
		}
		entry.UnionWith(fst.ofSymbol(s), symbol.SymbolNil)
		if !fst.gram.Nullable(s) {
			return entry
		}
	}
	entry.AddDistinct(symbol.SymbolNil)
	return entry
}

func (fst *firstSet) sequenceKey(syms []symbol.Symbol) string {
	var b strings.Builder
	for i, s := range syms {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(fst.gram.Name(s))
	}
	return b.String()
}
