package grammar

import (
	"fmt"
	"strings"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

const arrow = "->"

// Production is a rewrite rule `LHS → RHS`. Num is the position of the production in the grammar and is the
// number that reduce actions carry.
type Production struct {
	Num int
	LHS symbol.Symbol
	RHS []symbol.Symbol

	lhsText  string
	rhsTexts []string
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol, symTab *symbol.SymbolTableReader) (*Production, error) {
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	lhsText, _ := symTab.ToText(lhs)
	rhsTexts := make([]string, len(rhs))
	for i, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
		rhsTexts[i], _ = symTab.ToText(sym)
	}

	return &Production{
		LHS:      lhs,
		RHS:      rhs,
		lhsText:  lhsText,
		rhsTexts: rhsTexts,
	}, nil
}

func (p *Production) IsEpsilon() bool {
	return len(p.RHS) == 0
}

func (p *Production) Len() int {
	return len(p.RHS)
}

func (p *Production) HeadName() string {
	return p.lhsText
}

func (p *Production) BodyNames() []string {
	return append([]string{}, p.rhsTexts...)
}

// Expression returns the canonical form of the production: `Head -> a b`, or `Head -> ε` for an ε-production.
func (p *Production) Expression() string {
	if p.IsEpsilon() {
		return fmt.Sprintf("%v %v %v", p.lhsText, arrow, symbol.NameEpsilon)
	}
	return fmt.Sprintf("%v %v %v", p.lhsText, arrow, strings.Join(p.rhsTexts, " "))
}

func (p *Production) String() string {
	return p.Expression()
}

type productionSet struct {
	prods     []*Production
	lhs2Prods map[symbol.Symbol][]*Production
	expr2Prod map[string]*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*Production{},
		expr2Prod: map[string]*Production{},
	}
}

// append numbers the production and indexes it. A production whose expression was already seen is still
// appended; the expression index keeps pointing at the first one.
func (ps *productionSet) append(prod *Production) {
	prod.Num = len(ps.prods)
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.LHS] = append(ps.lhs2Prods[prod.LHS], prod)
	expr := prod.Expression()
	if _, ok := ps.expr2Prod[expr]; !ok {
		ps.expr2Prod[expr] = prod
	}
}

func (ps *productionSet) findByNum(num int) (*Production, bool) {
	if num < 0 || num >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByExpression(expr string) (*Production, bool) {
	prod, ok := ps.expr2Prod[expr]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}
