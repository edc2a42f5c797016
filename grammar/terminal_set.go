package grammar

import (
	"strings"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

type upperLink struct {
	set      *TerminalSet
	excepted []symbol.Symbol
}

// TerminalSet is an ordered set of terminals in which symbol.SymbolNil stands for ε. A set that unioned another
// one stays subscribed to it: whatever the lower set gains later flows into the upper set too, transitively.
type TerminalSet struct {
	syms   []symbol.Symbol
	index  map[symbol.Symbol]struct{}
	uppers []*upperLink
}

func NewTerminalSet() *TerminalSet {
	return &TerminalSet{
		index: map[symbol.Symbol]struct{}{},
	}
}

// AddDistinct adds sym unless it is already a member and reports whether the set changed.
func (s *TerminalSet) AddDistinct(sym symbol.Symbol) bool {
	return s.receive([]symbol.Symbol{sym}, nil)
}

// UnionWith imports the members of lower except the excepted ones and subscribes s to lower's future changes.
// A set cannot depend on itself, and registering the same dependency twice is a no-op.
func (s *TerminalSet) UnionWith(lower *TerminalSet, excepted ...symbol.Symbol) bool {
	if lower == nil || lower == s {
		return false
	}
	for _, l := range lower.uppers {
		if l.set == s {
			return false
		}
	}
	lower.uppers = append(lower.uppers, &upperLink{
		set:      s,
		excepted: excepted,
	})
	return s.receive(lower.syms, excepted)
}

func (s *TerminalSet) receive(syms []symbol.Symbol, excepted []symbol.Symbol) bool {
	var added []symbol.Symbol
	for _, sym := range syms {
		if isExcepted(sym, excepted) || s.Contains(sym) {
			continue
		}
		s.syms = append(s.syms, sym)
		s.index[sym] = struct{}{}
		added = append(added, sym)
	}
	if len(added) == 0 {
		return false
	}
	for _, l := range s.uppers {
		l.set.receive(added, l.excepted)
	}
	return true
}

func isExcepted(sym symbol.Symbol, excepted []symbol.Symbol) bool {
	for _, e := range excepted {
		if e == sym {
			return true
		}
	}
	return false
}

func (s *TerminalSet) Contains(sym symbol.Symbol) bool {
	_, ok := s.index[sym]
	return ok
}

// ContainsByName looks a terminal up by name. An empty name or `ε` asks for ε.
func (s *TerminalSet) ContainsByName(symTab *symbol.SymbolTableReader, name string) bool {
	if name == "" || name == symbol.NameEpsilon {
		return s.Contains(symbol.SymbolNil)
	}
	sym, ok := symTab.ToSymbol(name)
	if !ok {
		return false
	}
	return s.Contains(sym)
}

// Intersects reports whether s and t share a member.
func (s *TerminalSet) Intersects(t *TerminalSet) bool {
	a, b := s, t
	if len(a.syms) > len(b.syms) {
		a, b = b, a
	}
	for _, sym := range a.syms {
		if b.Contains(sym) {
			return true
		}
	}
	return false
}

// Symbols returns the members in insertion order.
func (s *TerminalSet) Symbols() []symbol.Symbol {
	return append([]symbol.Symbol{}, s.syms...)
}

func (s *TerminalSet) Len() int {
	return len(s.syms)
}

func (s *TerminalSet) format(symTab *symbol.SymbolTableReader) string {
	var b strings.Builder
	b.WriteString("{")
	for i, sym := range s.syms {
		if i > 0 {
			b.WriteString(", ")
		}
		text, _ := symTab.ToText(sym)
		b.WriteString(text)
	}
	b.WriteString("}")
	return b.String()
}
