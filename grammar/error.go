package grammar

import (
	"fmt"

	verr "github.com/gizbox-lang/gizparse/error"
)

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction         = newSemanticError("a grammar needs at least one production")
	semErrMalformedProduction  = newSemanticError("malformed production")
	semErrMisplacedEpsilon     = newSemanticError("ε must be the only symbol of a body")
	semErrUndefinedSym         = newSemanticError("undefined symbol")
	semErrHeadIsNotNonTerminal = newSemanticError("the head of a production must be a non-terminal")
	semErrDuplicateTerminal    = newSemanticError("duplicate terminal")
	semErrDuplicateNonTerminal = newSemanticError("duplicate non-terminal")
	semErrDuplicateName        = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrInvalidStartSym      = newSemanticError("the start symbol must be a non-terminal")
	semErrProdNotFound         = newSemanticError("production not found")
	semErrMalformedItem        = newSemanticError("malformed item")
)

// GrammarError reports a grammar that cannot be turned into a parse table. Expression is the offending
// production or item expression, or a symbol name.
type GrammarError struct {
	Cause      error
	Expression string
}

func (e *GrammarError) Error() string {
	if e.Expression == "" {
		return fmt.Sprintf("grammar error: %v", e.Cause)
	}
	return fmt.Sprintf("grammar error: %v: %v", e.Cause, e.Expression)
}

func (e *GrammarError) Unwrap() error {
	return e.Cause
}

func (e *GrammarError) Kind() verr.Kind {
	return verr.KindGrammar
}

type ConflictType string

const (
	ConflictTypeShiftReduce  = ConflictType("shift/reduce")
	ConflictTypeReduceReduce = ConflictType("reduce/reduce")
	ConflictTypeAction       = ConflictType("action/action")
	ConflictTypeGoTo         = ConflictType("goto/goto")
)

// ConflictError reports a table cell that two different actions compete for. The grammar is not LALR(1).
type ConflictError struct {
	Type     ConflictType
	State    int
	Symbol   string
	Existing Action
	Incoming Action

	// Productions holds the productions referenced by the competing reduce actions, if any.
	Productions []*Production
}

func newConflictError(state int, sym string, existing, incoming Action, prods []*Production) *ConflictError {
	typ := ConflictTypeAction
	switch {
	case existing.Type == ActionTypeGoTo:
		typ = ConflictTypeGoTo
	case existing.Type == ActionTypeReduce && incoming.Type == ActionTypeReduce:
		typ = ConflictTypeReduceReduce
	case existing.Type == ActionTypeShift && incoming.Type == ActionTypeReduce:
		typ = ConflictTypeShiftReduce
	case existing.Type == ActionTypeReduce && incoming.Type == ActionTypeShift:
		typ = ConflictTypeShiftReduce
	}
	return &ConflictError{
		Type:        typ,
		State:       state,
		Symbol:      sym,
		Existing:    existing,
		Incoming:    incoming,
		Productions: prods,
	}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("grammar is not LALR(1): %v conflict in state %v on %q: %v vs %v", e.Type, e.State, e.Symbol, e.Existing.describe(), e.Incoming.describe())
	if len(e.Productions) > 0 {
		msg += "; productions:"
		for i, prod := range e.Productions {
			if i > 0 {
				msg += ","
			}
			msg += fmt.Sprintf(" %v (%v)", prod.Num, prod.Expression())
		}
	}
	return msg
}

func (e *ConflictError) Kind() verr.Kind {
	return verr.KindConflict
}
