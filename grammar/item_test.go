package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_Expression(t *testing.T) {
	gram := newTestGrammar(t, &Spec{
		Terminals:    []string{"id", "+", "a"},
		NonTerminals: []string{"S", "A"},
		Productions: []string{
			"S -> S + id",
			"S -> A",
			"A -> a",
			"A -> ε",
		},
	})
	pool := NewItemPool(gram)
	genItem := newTestItemGenerator(t, gram, pool)

	tests := []struct {
		item *Item
		expr string
	}{
		{
			item: genItem("S -> S + id", 0, "$"),
			expr: "S -> · S + id, $",
		},
		{
			item: genItem("S -> S + id", 1, "+"),
			expr: "S -> S · + id, +",
		},
		{
			item: genItem("S -> S + id", 3, "$"),
			expr: "S -> S + id ·, $",
		},
		{
			item: genItem("A -> ε", 0, "+"),
			expr: "A -> ·, +",
		},
		{
			item: genItem("S' -> S", 1, "$"),
			expr: "S' -> S ·, $",
		},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.expr, tt.item.Expression())

			parsed, err := pool.ParseItemExpression(tt.expr)
			require.NoError(t, err)
			assert.Same(t, tt.item, parsed)
		})
	}
}

func TestItemPool_interning(t *testing.T) {
	assert := assert.New(t)

	gram := newTestGrammar(t, testSpecLeftRecursion)
	pool := NewItemPool(gram)
	genItem := newTestItemGenerator(t, gram, pool)

	a := genItem("S -> id", 0, "$")
	b := genItem("S -> id", 0, "$")
	c := genItem("S -> id", 0, "+")
	assert.Same(a, b)
	assert.NotSame(a, c)
	assert.Equal(2, pool.Len())

	prod, _ := gram.ProductionByExpression("S -> id")
	_, err := pool.Get(prod, 2, gram.EOF())
	assert.Error(err)
	_, err = pool.Get(prod, 0, gram.Start())
	assert.Error(err)
}

func TestItemPool_ParseItemExpression_errors(t *testing.T) {
	gram := newTestGrammar(t, testSpecLeftRecursion)
	pool := NewItemPool(gram)

	tests := []string{
		"S -> id",
		"S -> id, $",
		"S -> · id ·, $",
		"S -> · x, $",
		"S -> · id, S",
		"S => · id, $",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := pool.ParseItemExpression(expr)
			assert.Error(t, err)
		})
	}
}

func TestItemSet(t *testing.T) {
	assert := assert.New(t)

	gram := newTestGrammar(t, testSpecLeftRecursion)
	pool := NewItemPool(gram)
	genItem := newTestItemGenerator(t, gram, pool)

	s := NewItemSet()
	assert.True(s.Add(genItem("S -> id", 1, "$")))
	assert.True(s.Add(genItem("S -> id", 1, "+")))
	assert.False(s.Add(genItem("S -> id", 1, "$")))
	assert.Equal(2, s.Len())

	u := NewItemSet()
	u.Add(genItem("S -> id", 1, "+"))
	u.Add(genItem("S -> id", 1, "$"))
	assert.True(s.Equals(u), "equality must not depend on the insertion order")
	assert.Equal(s.key(), u.key())

	v := NewItemSet()
	v.Add(genItem("S -> id", 1, "$"))
	assert.False(s.Equals(v))
	assert.Equal(s.coreKey(), v.coreKey(), "cores ignore look-ahead symbols")

	assert.Equal("S -> id ·, $\nS -> id ·, +", s.Expression())
}
