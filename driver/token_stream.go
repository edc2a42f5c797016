package driver

import (
	"fmt"
	"io"
	"unicode/utf8"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// LexSpec is a compiled lexical specification plus the mapping from its token kinds to terminals. The slices
// are indexed by kind ID.
type LexSpec struct {
	Spec           *mlspec.CompiledLexSpec
	KindToTerminal []string
	KindToPattern  []PatternType
	Skip           []bool
}

// TokenStream scans source text into tokens. The last token it returns is the end marker.
type TokenStream struct {
	ls  *LexSpec
	lex *mldriver.Lexer
	eof bool
}

func NewTokenStream(ls *LexSpec, src io.Reader) (*TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(ls.Spec), src)
	if err != nil {
		return nil, err
	}

	return &TokenStream{
		ls:  ls,
		lex: lex,
	}, nil
}

// Next returns the next token. Tokens of skipped kinds never come out.
func (s *TokenStream) Next() (*Token, error) {
	if s.eof {
		return nil, io.EOF
	}

	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			s.eof = true
			return NewEOFToken(tok.Row + 1), nil
		}
		text := string(tok.Lexeme)
		if tok.Invalid {
			return nil, &ParseError{
				Cause: errInvalidToken,
				Token: &Token{
					Attribute: text,
					Line:      tok.Row + 1,
					Start:     tok.Col + 1,
					Length:    utf8.RuneCountInString(text),
				},
			}
		}

		kind := int(tok.KindID)
		if kind >= len(s.ls.KindToTerminal) {
			return nil, fmt.Errorf("unknown token kind: %v", kind)
		}
		if kind < len(s.ls.Skip) && s.ls.Skip[kind] {
			continue
		}

		pat := PatternTypeKeyword
		if kind < len(s.ls.KindToPattern) {
			pat = s.ls.KindToPattern[kind]
		}
		t := &Token{
			Name:    s.ls.KindToTerminal[kind],
			Pattern: pat,
			Line:    tok.Row + 1,
			Start:   tok.Col + 1,
			Length:  utf8.RuneCountInString(text),
		}
		if pat == PatternTypeIdentifier || pat == PatternTypeLiteral {
			t.Attribute = text
		}
		return t, nil
	}
}

// ReadAll scans the whole source. The result ends with the end marker.
func (s *TokenStream) ReadAll() ([]*Token, error) {
	var toks []*Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.IsEOF() {
			return toks, nil
		}
	}
}
