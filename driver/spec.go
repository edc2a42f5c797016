package driver

import (
	"fmt"

	"github.com/gizbox-lang/gizparse/grammar"
)

// tableImpl is the view of generated parser data the driver runs on.
type tableImpl struct {
	data *grammar.ParserData
}

func newTable(data *grammar.ParserData) (*tableImpl, error) {
	if data == nil || data.Grammar == nil || data.Table == nil {
		return nil, fmt.Errorf("parser data are incomplete")
	}
	if len(data.States) == 0 || len(data.States) != data.Table.StateCount {
		return nil, fmt.Errorf("state count mismatch: %v states, %v table rows", len(data.States), data.Table.StateCount)
	}
	return &tableImpl{
		data: data,
	}, nil
}

func (t *tableImpl) InitialState() *grammar.State {
	return t.data.States[0]
}

func (t *tableImpl) State(num int) *grammar.State {
	return t.data.States[num]
}

func (t *tableImpl) Action(state int, terminal string) grammar.Action {
	return t.data.Table.Action(state, terminal)
}

func (t *tableImpl) GoTo(state int, lhs string) (int, bool) {
	return t.data.Table.GoTo(state, lhs)
}

func (t *tableImpl) Production(num int) (*grammar.Production, bool) {
	return t.data.Grammar.Production(num)
}

func (t *tableImpl) ExpectedTerminals(state int) []string {
	return t.data.Table.ExpectedTerminals(state)
}

func (t *tableImpl) Grammar() *grammar.Grammar {
	return t.data.Grammar
}
