package grammar

import (
	"errors"
	"testing"

	verr "github.com/gizbox-lang/gizparse/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrammar(t *testing.T) {
	assert := assert.New(t)

	gram := newTestGrammar(t, testSpecLeftRecursion)

	assert.Equal([]string{"id", "+", "$"}, symbolTexts(gram, gram.Terminals()))
	assert.Equal([]string{"S", "S'"}, symbolTexts(gram, gram.NonTerminals()))
	assert.Equal("S", gram.Name(gram.Start()))
	assert.Equal("S'", gram.Name(gram.AugmentedStart()))
	assert.True(gram.EOF().IsEOF())

	var exprs []string
	for i, prod := range gram.Productions() {
		assert.Equal(i, prod.Num)
		exprs = append(exprs, prod.Expression())
	}
	assert.Equal([]string{"S -> S + id", "S -> id", "S' -> S"}, exprs)
	assert.Same(gram.AugmentedProduction(), gram.Productions()[2])

	prod, ok := gram.ProductionByExpression("S -> id")
	require.True(t, ok)
	assert.Equal(1, prod.Num)
	assert.Len(gram.ProductionsOf(gram.Start()), 2)
}

func TestNewGrammar_epsilonAndAlternatives(t *testing.T) {
	assert := assert.New(t)

	gram := newTestGrammar(t, &Spec{
		Terminals:    []string{"a", "b", "c"},
		NonTerminals: []string{"S", "A", "B"},
		Productions: []string{
			"S -> A B c",
			"A -> a | ε",
			"B -> b",
			"B -> ε",
		},
	})

	var exprs []string
	for _, prod := range gram.Productions() {
		exprs = append(exprs, prod.Expression())
	}
	assert.Equal([]string{"S -> A B c", "A -> a", "A -> ε", "B -> b", "B -> ε", "S' -> S"}, exprs)

	genSym := newTestSymbolGenerator(t, gram)
	assert.True(gram.Nullable(genSym("A")))
	assert.True(gram.Nullable(genSym("B")))
	assert.False(gram.Nullable(genSym("S")))
	assert.False(gram.Nullable(genSym("a")))

	epsProd, ok := gram.ProductionByExpression("A -> ε")
	require.True(t, ok)
	assert.True(epsProd.IsEpsilon())
	assert.True(gram.CanDeriveEpsilon(epsProd))
	sProd, _ := gram.ProductionByExpression("S -> A B c")
	assert.False(gram.CanDeriveEpsilon(sProd))
}

func TestNewGrammar_barIsATerminal(t *testing.T) {
	gram := newTestGrammar(t, &Spec{
		Terminals:    []string{"|", "x"},
		NonTerminals: []string{"S"},
		Productions: []string{
			"S -> x | x",
		},
	})
	prods := gram.ProductionsOf(gram.Start())
	require.Len(t, prods, 1)
	assert.Equal(t, "S -> x | x", prods[0].Expression())
}

func TestNewGrammar_customStart(t *testing.T) {
	gram := newTestGrammar(t, &Spec{
		Terminals:    []string{"x"},
		NonTerminals: []string{"item", "program"},
		Productions: []string{
			"program -> item program",
			"program -> item",
			"item -> x",
		},
		Start: "program",
	})
	assert.Equal(t, "program", gram.Name(gram.Start()))
	assert.Equal(t, "program' -> program", gram.AugmentedProduction().Expression())
}

func TestNewGrammar_errors(t *testing.T) {
	tests := []struct {
		caption string
		spec    *Spec
		cause   *SemanticError
	}{
		{
			caption: "a production needs an arrow",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S a"},
			},
			cause: semErrMalformedProduction,
		},
		{
			caption: "a production needs a body",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S ->"},
			},
			cause: semErrMalformedProduction,
		},
		{
			caption: "a body cannot refer to an undefined symbol",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S -> a b"},
			},
			cause: semErrUndefinedSym,
		},
		{
			caption: "a head must be a non-terminal",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"a -> S"},
			},
			cause: semErrHeadIsNotNonTerminal,
		},
		{
			caption: "ε cannot be mixed with other symbols",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S -> a ε"},
			},
			cause: semErrMisplacedEpsilon,
		},
		{
			caption: "a grammar needs a production",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
			},
			cause: semErrNoProduction,
		},
		{
			caption: "a name cannot be both a terminal and a non-terminal",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S", "a"},
				Productions:  []string{"S -> a"},
			},
			cause: semErrDuplicateName,
		},
		{
			caption: "a terminal cannot be declared twice",
			spec: &Spec{
				Terminals:    []string{"a", "a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S -> a"},
			},
			cause: semErrDuplicateTerminal,
		},
		{
			caption: "the start symbol must be a declared non-terminal",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S -> a"},
				Start:        "T",
			},
			cause: semErrInvalidStartSym,
		},
		{
			caption: "the end marker is not a user symbol",
			spec: &Spec{
				Terminals:    []string{"a"},
				NonTerminals: []string{"S"},
				Productions:  []string{"S -> a $"},
			},
			cause: semErrUndefinedSym,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := NewGrammar(tt.spec)
			require.Error(t, err)

			var gErr *GrammarError
			require.True(t, errors.As(err, &gErr), "unexpected error type: %T", err)
			assert.Equal(t, tt.cause, gErr.Cause)

			kind, ok := verr.KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, verr.KindGrammar, kind)
		})
	}
}
