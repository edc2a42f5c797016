package grammar

import (
	"testing"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

// Grammar specs shared by the tests of this package.
var (
	// S → S + id | id
	testSpecLeftRecursion = &Spec{
		Terminals:    []string{"id", "+"},
		NonTerminals: []string{"S"},
		Productions: []string{
			"S -> S + id",
			"S -> id",
		},
	}

	// The classic grammar that is LALR(1) but not SLR(1).
	testSpecAssignment = &Spec{
		Terminals:    []string{"=", "*", "id"},
		NonTerminals: []string{"S", "L", "R"},
		Productions: []string{
			"S -> L = R",
			"S -> R",
			"L -> * R",
			"L -> id",
			"R -> L",
		},
	}

	testSpecArithmetic = &Spec{
		Terminals:    []string{"+", "*", "(", ")", "id"},
		NonTerminals: []string{"E", "T", "F"},
		Productions: []string{
			"E -> E + T",
			"E -> T",
			"T -> T * F",
			"T -> F",
			"F -> ( E )",
			"F -> id",
		},
	}
)

func newTestGrammar(t *testing.T, spec *Spec) *Grammar {
	t.Helper()

	gram, err := NewGrammar(spec)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, gram *Grammar) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := gram.Lookup(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testItemGenerator func(prodExpr string, dot int, lookAhead string) *Item

func newTestItemGenerator(t *testing.T, gram *Grammar, pool *ItemPool) testItemGenerator {
	genSym := newTestSymbolGenerator(t, gram)
	return func(prodExpr string, dot int, lookAhead string) *Item {
		t.Helper()

		prod, ok := gram.ProductionByExpression(prodExpr)
		if !ok {
			t.Fatalf("production was not found: %v", prodExpr)
		}
		item, err := pool.Get(prod, dot, genSym(lookAhead))
		if err != nil {
			t.Fatalf("failed to create an item: %v", err)
		}
		return item
	}
}

func symbolTexts(gram *Grammar, syms []symbol.Symbol) []string {
	texts := make([]string, 0, len(syms))
	for _, sym := range syms {
		texts = append(texts, gram.Name(sym))
	}
	return texts
}
