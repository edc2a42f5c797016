package grammar

import (
	"errors"
	"fmt"
)

type lrTableBuilder struct {
	gram      *Grammar
	automaton *lalr1Automaton
}

func (b *lrTableBuilder) build() (*ParseTable, error) {
	symTab := b.gram.SymbolTable()
	ptab := NewParseTable(len(b.automaton.states), symTab.TerminalTexts(), symTab.NonTerminalTexts())

	// Terminal edges stay in the GOTO table; shift actions are derived from them.
	for _, e := range b.automaton.edges {
		err := ptab.SetGoTo(e.from, b.gram.Name(e.sym), e.to)
		if err != nil {
			return nil, err
		}
	}

	augStart := b.gram.AugmentedStart()
	eof := b.gram.EOF()
	for _, state := range b.automaton.states {
		for _, item := range state.Set.items {
			switch {
			case item.dottedSymbol.IsTerminal():
				term := b.gram.Name(item.dottedSymbol)
				next, ok := ptab.GoTo(state.Index, term)
				if !ok {
					return nil, fmt.Errorf("GOTO(%v, %v) is missing for a shift of %v", state.Index, term, item.Expression())
				}
				err := b.writeAction(ptab, state.Index, term, NewShiftAction(next))
				if err != nil {
					return nil, err
				}
			case item.Reducible() && item.prod.LHS != augStart:
				err := b.writeAction(ptab, state.Index, item.lookAheadText, NewReduceAction(item.prod.Num))
				if err != nil {
					return nil, err
				}
			case item.Reducible() && item.lookAhead == eof:
				err := b.writeAction(ptab, state.Index, item.lookAheadText, NewAcceptAction())
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return ptab, nil
}

// writeAction writes an ACTION cell and attaches the productions of competing reduce actions to a conflict.
func (b *lrTableBuilder) writeAction(ptab *ParseTable, state int, term string, act Action) error {
	err := ptab.SetAction(state, term, act)
	if err == nil {
		return nil
	}
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		return err
	}
	for _, a := range []Action{cErr.Existing, cErr.Incoming} {
		if a.Type != ActionTypeReduce {
			continue
		}
		if prod, ok := b.gram.Production(a.Num); ok {
			cErr.Productions = append(cErr.Productions, prod)
		}
	}
	tracer().Errorf("%v", cErr)
	return cErr
}
