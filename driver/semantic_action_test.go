package driver

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attrValue = "value"

func genEvalActionSet(t *testing.T, gram *grammar.Grammar) *SemanticActionSet {
	t.Helper()

	value := func(e *Element) int {
		if e.Token != nil {
			n, err := strconv.Atoi(e.Token.Attribute)
			require.NoError(t, err)
			return n
		}
		return e.Attributes[attrValue].(int)
	}
	passThrough := func(i int) SemanticAction {
		return func(p *Parser, prod *grammar.Production) error {
			p.NewElement().Attributes[attrValue] = value(p.Child(i))
			return nil
		}
	}

	set := NewSemanticActionSet(gram)
	require.NoError(t, set.Register("E -> E + T", func(p *Parser, prod *grammar.Production) error {
		p.NewElement().Attributes[attrValue] = value(p.Child(0)) + value(p.Child(2))
		return nil
	}))
	require.NoError(t, set.Register("T -> T * F", func(p *Parser, prod *grammar.Production) error {
		p.NewElement().Attributes[attrValue] = value(p.Child(0)) * value(p.Child(2))
		return nil
	}))
	require.NoError(t, set.Register("E -> T", passThrough(0)))
	require.NoError(t, set.Register("T -> F", passThrough(0)))
	require.NoError(t, set.Register("F -> ( E )", passThrough(1)))
	require.NoError(t, set.Register("F -> num", passThrough(0)))
	return set
}

func TestSemanticActionSet_evaluate(t *testing.T) {
	data := genTestParserData(t, testSpecArithmetic)

	tests := []struct {
		src   string
		value int
	}{
		{src: "num:7", value: 7},
		{src: "num:1 + num:2 * num:3", value: 7},
		{src: "num:2 * ( num:3 + num:4 )", value: 14},
		{src: "( ( num:5 ) ) * num:2 + num:1", value: 11},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := NewParser(data, WithSemanticActions(genEvalActionSet(t, data.Grammar)))
			require.NoError(t, err)

			root, err := p.Parse(genTestTokens(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.value, root.Attributes[attrValue])
		})
	}
}

func TestSemanticActionSet_runsBeforePopping(t *testing.T) {
	data := genTestParserData(t, testSpecLeftRecursion)
	set := NewSemanticActionSet(data.Grammar)

	var log []string
	require.NoError(t, set.Register("S -> S + id", func(p *Parser, prod *grammar.Production) error {
		assert.Same(t, prod, p.Production())
		assert.Equal(t, "+", p.Child(1).Token.Name)
		assert.Nil(t, p.Child(3))
		assert.Nil(t, p.Child(-1))

		stack := p.Stack()
		require.Len(t, stack, 4, "the body is still on the stack")
		assert.Same(t, stack[3], p.Child(2))
		log = append(log, "first")
		return nil
	}))
	require.NoError(t, set.Register("S -> S + id", func(p *Parser, prod *grammar.Production) error {
		log = append(log, "second")
		return nil
	}))
	assert.Equal(t, 2, set.Len(data.Grammar.Productions()[0]))

	p, err := NewParser(data, WithSemanticActions(set))
	require.NoError(t, err)
	_, err = p.Parse(genTestTokens("id + id"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, log)
	assert.Nil(t, p.Production(), "no production is in progress after a parse")
	assert.Nil(t, p.NewElement())
}

func TestSemanticActionSet_error(t *testing.T) {
	data := genTestParserData(t, testSpecLeftRecursion)
	set := NewSemanticActionSet(data.Grammar)

	errAction := errors.New("action failed")
	called := false
	require.NoError(t, set.Register("S -> id", func(p *Parser, prod *grammar.Production) error {
		return errAction
	}))
	require.NoError(t, set.Register("S -> id", func(p *Parser, prod *grammar.Production) error {
		called = true
		return nil
	}))

	p, err := NewParser(data, WithSemanticActions(set))
	require.NoError(t, err)
	_, err = p.Parse(genTestTokens("id"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errAction))
	assert.Contains(t, err.Error(), "S -> id")
	assert.False(t, called, "an error stops the remaining actions")
}

func TestSemanticActionSet_Register_unknownProduction(t *testing.T) {
	data := genTestParserData(t, testSpecLeftRecursion)
	set := NewSemanticActionSet(data.Grammar)

	err := set.Register("S -> id id", func(p *Parser, prod *grammar.Production) error {
		return nil
	})
	assert.Error(t, err)
}

func TestTreeBuilder(t *testing.T) {
	data := genTestParserData(t, testSpecArithmetic)
	set := NewSemanticActionSet(data.Grammar)
	NewTreeBuilder().Register(set)

	p, err := NewParser(data, WithSemanticActions(set))
	require.NoError(t, err)
	root, err := p.Parse(genTestTokens("num:1 + num:2"))
	require.NoError(t, err)

	tree := root.Node()
	require.NotNil(t, tree)
	assert.Equal(t, "E", tree.KindName)
	assert.Equal(t, 1, tree.Line)
	assert.Equal(t, 1, tree.Col)

	var b strings.Builder
	PrintTree(&b, tree)
	expected := strings.Join([]string{
		"E",
		"├─ E",
		"│  └─ T",
		"│     └─ F",
		`│        └─ num "1"`,
		"├─ +",
		"└─ T",
		"   └─ F",
		`      └─ num "2"`,
	}, "\n") + "\n"
	assert.Equal(t, expected, b.String())
}

func TestTreeBuilder_emptyProduction(t *testing.T) {
	data := genTestParserData(t, testSpecOptional)
	set := NewSemanticActionSet(data.Grammar)
	NewTreeBuilder().Register(set)

	p, err := NewParser(data, WithSemanticActions(set))
	require.NoError(t, err)
	root, err := p.Parse(genTestTokens("b"))
	require.NoError(t, err)

	tree := root.Node()
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "A", tree.Children[0].KindName)
	assert.Empty(t, tree.Children[0].Children)
	assert.Equal(t, "b", tree.Children[1].KindName)
	assert.Equal(t, 1, tree.Col)
}
