package driver

import (
	"strings"
	"testing"

	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/stretchr/testify/require"
)

var (
	// S → S + id | id
	testSpecLeftRecursion = &grammar.Spec{
		Terminals:    []string{"id", "+"},
		NonTerminals: []string{"S"},
		Productions: []string{
			"S -> S + id",
			"S -> id",
		},
	}

	testSpecArithmetic = &grammar.Spec{
		Terminals:    []string{"+", "*", "(", ")", "num"},
		NonTerminals: []string{"E", "T", "F"},
		Productions: []string{
			"E -> E + T",
			"E -> T",
			"T -> T * F",
			"T -> F",
			"F -> ( E )",
			"F -> num",
		},
	}

	testSpecOptional = &grammar.Spec{
		Terminals:    []string{"a", "b"},
		NonTerminals: []string{"S", "A"},
		Productions: []string{
			"S -> A b",
			"A -> a",
			"A -> ε",
		},
	}
)

func genTestParserData(t *testing.T, spec *grammar.Spec) *grammar.ParserData {
	t.Helper()

	data, err := grammar.Generate(spec)
	require.NoError(t, err)
	return data
}

// genTestTokens turns a space-separated list of terminal names into tokens, one line per token. A name written
// as `num:42` gets the literal attribute 42.
func genTestTokens(src string) []*Token {
	var toks []*Token
	for i, f := range strings.Fields(src) {
		tok := &Token{
			Name:    f,
			Pattern: PatternTypeKeyword,
			Line:    1,
			Start:   i + 1,
			Length:  1,
		}
		if name, attr, ok := strings.Cut(f, ":"); ok {
			tok.Name = name
			tok.Attribute = attr
			tok.Pattern = PatternTypeLiteral
			tok.Length = len(attr)
		}
		toks = append(toks, tok)
	}
	return toks
}

// traceLog records parser steps as `shift/<token>`, `reduce/<production>`, and `accept`.
type traceLog struct {
	log []string
}

func (l *traceLog) record(ev *TraceEvent) {
	switch ev.Action.Type {
	case grammar.ActionTypeShift:
		l.log = append(l.log, "shift/"+ev.Token.Name)
	case grammar.ActionTypeReduce:
		l.log = append(l.log, "reduce/"+ev.Production.Expression())
	case grammar.ActionTypeAccept:
		l.log = append(l.log, "accept")
	}
}
