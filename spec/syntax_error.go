package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// grammar section errors
	synErrUnknownKey     = newSyntaxError("unknown key")
	synErrNoTerminal     = newSyntaxError("a grammar must have at least one terminal")
	synErrNoNonTerminal  = newSyntaxError("a grammar must have at least one non-terminal")
	synErrNoProduction   = newSyntaxError("a grammar must have at least one production")
	synErrEmptySymbol    = newSyntaxError("a symbol name must not be empty")
	synErrDuplicateName  = newSyntaxError("a symbol name must be declared only once")
	synErrUndefinedStart = newSyntaxError("the start symbol must be a declared non-terminal")

	// lexical section errors
	synErrNoLexicalEntry   = newSyntaxError("a grammar file needs at least one lexical entry to build a lexer")
	synErrNoKindName       = newSyntaxError("a lexical entry needs a kind")
	synErrNoPattern        = newSyntaxError("a lexical entry needs a pattern")
	synErrDuplicateKind    = newSyntaxError("a kind must be defined only once")
	synErrUnknownTerminal  = newSyntaxError("a lexical entry must produce a declared terminal")
	synErrInvalidCategory  = newSyntaxError("invalid pattern category")
	synErrSkipWithTerminal = newSyntaxError("a skipped entry cannot produce a terminal")
)
