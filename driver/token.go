package driver

import (
	"fmt"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

// PatternType is the lexical category a scanner assigns to a token.
type PatternType string

const (
	PatternTypeKeyword    = PatternType("keyword")
	PatternTypeOperator   = PatternType("operator")
	PatternTypeIdentifier = PatternType("identifier")
	PatternTypeLiteral    = PatternType("literal")
)

func (t PatternType) String() string {
	return string(t)
}

// ParsePatternType maps a category name to a PatternType. An empty name means keyword.
func ParsePatternType(name string) (PatternType, error) {
	switch PatternType(name) {
	case "", PatternTypeKeyword:
		return PatternTypeKeyword, nil
	case PatternTypeOperator, PatternTypeIdentifier, PatternTypeLiteral:
		return PatternType(name), nil
	}
	return "", fmt.Errorf("unknown pattern type: %v", name)
}

// Token is a scanned token. Name is the terminal the token stands for. Attribute carries the lexeme of
// identifiers and literals. Line and Start are 1-based; Length counts characters.
type Token struct {
	Name      string
	Pattern   PatternType
	Attribute string
	Line      int
	Start     int
	Length    int
}

// NewEOFToken returns the end marker token.
func NewEOFToken(line int) *Token {
	return &Token{
		Name:    symbol.NameEOF,
		Pattern: PatternTypeKeyword,
		Line:    line,
	}
}

func (t *Token) IsEOF() bool {
	return t.Name == symbol.NameEOF
}

func (t *Token) String() string {
	if t.Attribute != "" {
		return fmt.Sprintf("%v(%q)", t.Name, t.Attribute)
	}
	return t.Name
}
