package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gizparse.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gizparse.grammar")
}

// ParserData is the output of a generation run: the grammar, the LALR(1) states and the parse table built from
// them. It is read-only once built and may be shared by any number of parsers.
type ParserData struct {
	Grammar *Grammar
	States  []*State
	Table   *ParseTable
	Items   *ItemPool
}

// Generate builds the LALR(1) parse table of a grammar spec.
func Generate(spec *Spec) (*ParserData, error) {
	gram, err := NewGrammar(spec)
	if err != nil {
		return nil, err
	}
	return NewGenerator(gram).Generate()
}

// Generator owns the FIRST caches and the item pool of one generation run.
type Generator struct {
	gram  *Grammar
	first *firstSet
	pool  *ItemPool
}

func NewGenerator(gram *Grammar) *Generator {
	return &Generator{
		gram: gram,
		pool: NewItemPool(gram),
	}
}

func (gen *Generator) Generate() (*ParserData, error) {
	symTab := gen.gram.SymbolTable()
	tracer().Infof("grammar: %v terminals, %v non-terminals, %v productions",
		len(symTab.TerminalTexts()), len(symTab.NonTerminalTexts()), len(gen.gram.Productions()))

	gen.first = genFirstSet(gen.gram)
	for _, nt := range gen.gram.NonTerminals() {
		tracer().Debugf("FIRST(%v) = %v", gen.gram.Name(nt), gen.first.ofSymbol(nt).format(symTab))
	}

	lr1 := newLR1Collection(gen.gram, gen.pool, gen.first)
	err := lr1.build()
	if err != nil {
		return nil, err
	}
	tracer().Infof("canonical LR(1) collection: %v states, %v edges, %v items", len(lr1.states), len(lr1.edgeOrder), gen.pool.Len())

	automaton, err := genLALR1Automaton(lr1)
	if err != nil {
		return nil, err
	}
	tracer().Infof("LALR(1) automaton: %v states", len(automaton.states))
	for _, state := range automaton.states {
		if len(automaton.groups[state.Index]) > 1 {
			tracer().Debugf("%v merged into state %v", state.Name, state.Index)
		}
	}

	b := &lrTableBuilder{
		gram:      gen.gram,
		automaton: automaton,
	}
	ptab, err := b.build()
	if err != nil {
		return nil, err
	}

	return &ParserData{
		Grammar: gen.gram,
		States:  automaton.states,
		Table:   ptab,
		Items:   gen.pool,
	}, nil
}
