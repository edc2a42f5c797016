package grammar

import (
	"strings"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

// Spec is the textual form of a grammar: three flat lists in declaration order. Productions look like
// `Head -> a B c` or `Head -> ε`. A line may also carry alternatives separated by `|` unless `|` is one of the
// terminals. Start names the start symbol; when it is empty, the first non-terminal is the start symbol.
type Spec struct {
	Terminals    []string
	NonTerminals []string
	Productions  []string
	Start        string
}

// StartName returns the effective start symbol name.
func (s *Spec) StartName() string {
	if s.Start != "" {
		return s.Start
	}
	if len(s.NonTerminals) == 0 {
		return ""
	}
	return s.NonTerminals[0]
}

// Grammar is the augmented grammar built from a Spec. It owns the symbol and production universe of one
// generation run and does not change once NewGrammar returns.
type Grammar struct {
	spec     *Spec
	symTab   *symbol.SymbolTable
	prods    *productionSet
	start    symbol.Symbol
	augStart symbol.Symbol
	eof      symbol.Symbol
	augProd  *Production
	nullable map[symbol.Symbol]bool
}

func NewGrammar(spec *Spec) (*Grammar, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	r := symTab.Reader()

	for _, t := range spec.Terminals {
		if _, ok := r.ToSymbol(t); ok {
			return nil, &GrammarError{Cause: semErrDuplicateTerminal, Expression: t}
		}
		if _, err := w.RegisterTerminalSymbol(t); err != nil {
			return nil, &GrammarError{Cause: err, Expression: t}
		}
	}
	for _, n := range spec.NonTerminals {
		if sym, ok := r.ToSymbol(n); ok {
			cause := semErrDuplicateNonTerminal
			if sym.IsTerminal() {
				cause = semErrDuplicateName
			}
			return nil, &GrammarError{Cause: cause, Expression: n}
		}
		if _, err := w.RegisterNonTerminalSymbol(n); err != nil {
			return nil, &GrammarError{Cause: err, Expression: n}
		}
	}

	startName := spec.StartName()
	start, ok := r.ToSymbol(startName)
	if !ok || !start.IsNonTerminal() {
		return nil, &GrammarError{Cause: semErrInvalidStartSym, Expression: startName}
	}

	prods := newProductionSet()
	altSep := "|"
	if _, ok := r.ToSymbol(altSep); ok {
		altSep = ""
	}
	for _, line := range spec.Productions {
		ps, err := parseProductionLine(line, altSep, r)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			prods.append(p)
		}
	}
	if len(prods.prods) == 0 {
		return nil, &GrammarError{Cause: semErrNoProduction}
	}

	eof, err := w.RegisterEOFSymbol()
	if err != nil {
		return nil, &GrammarError{Cause: err, Expression: symbol.NameEOF}
	}
	augStart, err := w.RegisterAugmentedStartSymbol(startName)
	if err != nil {
		return nil, &GrammarError{Cause: err, Expression: symbol.AugmentedName(startName)}
	}
	augProd, err := newProduction(augStart, []symbol.Symbol{start}, r)
	if err != nil {
		return nil, &GrammarError{Cause: err, Expression: symbol.AugmentedName(startName)}
	}
	prods.append(augProd)

	g := &Grammar{
		spec:     spec,
		symTab:   symTab,
		prods:    prods,
		start:    start,
		augStart: augStart,
		eof:      eof,
		augProd:  augProd,
	}
	g.nullable = genNullableSet(prods)

	return g, nil
}

// parseProductionLine parses `Head -> body [| body ...]`. An empty altSep disables alternatives.
func parseProductionLine(line string, altSep string, symTab *symbol.SymbolTableReader) ([]*Production, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[1] != arrow {
		return nil, &GrammarError{Cause: semErrMalformedProduction, Expression: line}
	}
	lhs, ok := symTab.ToSymbol(fields[0])
	if !ok {
		return nil, &GrammarError{Cause: semErrUndefinedSym, Expression: line}
	}
	if !lhs.IsNonTerminal() || lhs.IsAugmentedStart() {
		return nil, &GrammarError{Cause: semErrHeadIsNotNonTerminal, Expression: line}
	}

	var bodies [][]string
	{
		body := []string{}
		for _, f := range fields[2:] {
			if altSep != "" && f == altSep {
				bodies = append(bodies, body)
				body = []string{}
				continue
			}
			body = append(body, f)
		}
		bodies = append(bodies, body)
	}

	var prods []*Production
	for _, body := range bodies {
		if len(body) == 0 {
			// `A ->` without ε is ambiguous with a truncated line.
			return nil, &GrammarError{Cause: semErrMalformedProduction, Expression: line}
		}
		var rhs []symbol.Symbol
		if !(len(body) == 1 && body[0] == symbol.NameEpsilon) {
			rhs = make([]symbol.Symbol, 0, len(body))
			for _, text := range body {
				if text == symbol.NameEpsilon {
					return nil, &GrammarError{Cause: semErrMisplacedEpsilon, Expression: line}
				}
				sym, ok := symTab.ToSymbol(text)
				if !ok || sym.IsEOF() || sym.IsAugmentedStart() {
					return nil, &GrammarError{Cause: semErrUndefinedSym, Expression: line}
				}
				rhs = append(rhs, sym)
			}
		}
		prod, err := newProduction(lhs, rhs, symTab)
		if err != nil {
			return nil, &GrammarError{Cause: err, Expression: line}
		}
		prods = append(prods, prod)
	}
	return prods, nil
}

// genNullableSet computes the non-terminals deriving ε by iterating to a fixpoint.
func genNullableSet(prods *productionSet) map[symbol.Symbol]bool {
	nullable := map[symbol.Symbol]bool{}
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			if nullable[prod.LHS] {
				continue
			}
			all := true
			for _, sym := range prod.RHS {
				if !nullable[sym] {
					all = false
					break
				}
			}
			if all {
				nullable[prod.LHS] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
	return nullable
}

func (g *Grammar) Spec() *Spec {
	return g.spec
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symTab.Reader()
}

func (g *Grammar) Start() symbol.Symbol {
	return g.start
}

func (g *Grammar) AugmentedStart() symbol.Symbol {
	return g.augStart
}

func (g *Grammar) EOF() symbol.Symbol {
	return g.eof
}

// AugmentedProduction returns `S' -> S`. It is always the last production.
func (g *Grammar) AugmentedProduction() *Production {
	return g.augProd
}

// Terminals returns the terminals in declaration order followed by the end marker.
func (g *Grammar) Terminals() []symbol.Symbol {
	return g.symTab.Reader().TerminalSymbols()
}

// NonTerminals returns the non-terminals in declaration order followed by S'.
func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.symTab.Reader().NonTerminalSymbols()
}

// Symbols returns every grammar symbol, terminals first. The order is stable across runs.
func (g *Grammar) Symbols() []symbol.Symbol {
	return append(g.Terminals(), g.NonTerminals()...)
}

func (g *Grammar) Name(sym symbol.Symbol) string {
	text, _ := g.symTab.Reader().ToText(sym)
	return text
}

func (g *Grammar) Lookup(name string) (symbol.Symbol, bool) {
	return g.symTab.Reader().ToSymbol(name)
}

func (g *Grammar) Productions() []*Production {
	return g.prods.getAllProductions()
}

func (g *Grammar) Production(num int) (*Production, bool) {
	return g.prods.findByNum(num)
}

func (g *Grammar) ProductionByExpression(expr string) (*Production, bool) {
	return g.prods.findByExpression(expr)
}

func (g *Grammar) ProductionsOf(lhs symbol.Symbol) []*Production {
	prods, _ := g.prods.findByLHS(lhs)
	return prods
}

// Nullable reports whether sym derives ε.
func (g *Grammar) Nullable(sym symbol.Symbol) bool {
	return g.nullable[sym]
}

// CanDeriveEpsilon reports whether the body of prod is empty or consists of nullable non-terminals only.
func (g *Grammar) CanDeriveEpsilon(prod *Production) bool {
	for _, sym := range prod.RHS {
		if !g.nullable[sym] {
			return false
		}
	}
	return true
}
