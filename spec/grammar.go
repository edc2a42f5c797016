package spec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gizbox-lang/gizparse/driver"
	verr "github.com/gizbox-lang/gizparse/error"
	"github.com/gizbox-lang/gizparse/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/norm"
)

func tracer() tracing.Trace {
	return tracing.Select("gizparse.spec")
}

// GrammarFile is the content of a grammar file.
//
//	start = "S"
//	terminals = ["id", "+"]
//	nonterminals = ["S"]
//	productions = [
//	    "S -> S + id",
//	    "S -> id",
//	]
//
//	[[lexical]]
//	kind = "id"
//	pattern = "[a-z]+"
//	category = "identifier"
type GrammarFile struct {
	Start        string          `toml:"start"`
	Terminals    []string        `toml:"terminals"`
	NonTerminals []string        `toml:"nonterminals"`
	Productions  []string        `toml:"productions"`
	Lexical      []*LexicalEntry `toml:"lexical"`
}

// LexicalEntry defines one token kind of the scanner. Terminal defaults to Kind. A Literal pattern matches its
// text verbatim. Skip drops the tokens of the kind, so such an entry produces no terminal.
type LexicalEntry struct {
	Kind     string `toml:"kind"`
	Pattern  string `toml:"pattern"`
	Terminal string `toml:"terminal"`
	Category string `toml:"category"`
	Literal  bool   `toml:"literal"`
	Skip     bool   `toml:"skip"`
}

// Load reads and validates a grammar file.
func Load(path string) (*GrammarFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gf, err := parse(f, path)
	if err != nil {
		var specErr *verr.SpecError
		if errors.As(err, &specErr) {
			specErr.FilePath = path
		}
		return nil, err
	}
	return gf, nil
}

// Parse reads and validates a grammar file from src. name only labels errors.
func Parse(src io.Reader, name string) (*GrammarFile, error) {
	return parse(src, name)
}

func parse(src io.Reader, name string) (*GrammarFile, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	gf := &GrammarFile{}
	md, err := toml.Decode(string(norm.NFC.Bytes(b)), gf)
	if err != nil {
		specErr := &verr.SpecError{
			Cause:      err,
			SourceName: name,
		}
		var pErr toml.ParseError
		if errors.As(err, &pErr) {
			specErr.Cause = errors.New(pErr.Message)
			specErr.Row = pErr.Position.Line
		}
		return nil, specErr
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &verr.SpecError{
			Cause:      fmt.Errorf("%w: %v", synErrUnknownKey, strings.Join(keys, ", ")),
			SourceName: name,
		}
	}

	gf.trim()
	if err := gf.validate(); err != nil {
		return nil, &verr.SpecError{
			Cause:      err,
			SourceName: name,
		}
	}

	tracer().Debugf("%v: %v terminals, %v non-terminals, %v productions, %v lexical entries",
		name, len(gf.Terminals), len(gf.NonTerminals), len(gf.Productions), len(gf.Lexical))

	return gf, nil
}

func (gf *GrammarFile) trim() {
	gf.Start = strings.TrimSpace(gf.Start)
	for i, t := range gf.Terminals {
		gf.Terminals[i] = strings.TrimSpace(t)
	}
	for i, n := range gf.NonTerminals {
		gf.NonTerminals[i] = strings.TrimSpace(n)
	}
	prods := gf.Productions[:0]
	for _, p := range gf.Productions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		prods = append(prods, p)
	}
	gf.Productions = prods
	for _, e := range gf.Lexical {
		e.Kind = strings.TrimSpace(e.Kind)
		e.Terminal = strings.TrimSpace(e.Terminal)
		e.Category = strings.TrimSpace(e.Category)
	}
}

func (gf *GrammarFile) validate() error {
	if len(gf.Terminals) == 0 {
		return synErrNoTerminal
	}
	if len(gf.NonTerminals) == 0 {
		return synErrNoNonTerminal
	}
	if len(gf.Productions) == 0 {
		return synErrNoProduction
	}

	names := map[string]struct{}{}
	terms := map[string]struct{}{}
	for _, t := range gf.Terminals {
		if t == "" {
			return synErrEmptySymbol
		}
		if _, ok := names[t]; ok {
			return fmt.Errorf("%w: %v", synErrDuplicateName, t)
		}
		names[t] = struct{}{}
		terms[t] = struct{}{}
	}
	nonTerms := map[string]struct{}{}
	for _, n := range gf.NonTerminals {
		if n == "" {
			return synErrEmptySymbol
		}
		if _, ok := names[n]; ok {
			return fmt.Errorf("%w: %v", synErrDuplicateName, n)
		}
		names[n] = struct{}{}
		nonTerms[n] = struct{}{}
	}
	if gf.Start != "" {
		if _, ok := nonTerms[gf.Start]; !ok {
			return fmt.Errorf("%w: %v", synErrUndefinedStart, gf.Start)
		}
	}

	kinds := map[string]struct{}{}
	for _, e := range gf.Lexical {
		if e.Kind == "" {
			return synErrNoKindName
		}
		if e.Pattern == "" {
			return fmt.Errorf("%w: %v", synErrNoPattern, e.Kind)
		}
		if _, ok := kinds[e.Kind]; ok {
			return fmt.Errorf("%w: %v", synErrDuplicateKind, e.Kind)
		}
		kinds[e.Kind] = struct{}{}
		if _, err := driver.ParsePatternType(e.Category); err != nil {
			return fmt.Errorf("%w: %v: %v", synErrInvalidCategory, e.Kind, e.Category)
		}
		if e.Skip {
			if e.Terminal != "" {
				return fmt.Errorf("%w: %v", synErrSkipWithTerminal, e.Kind)
			}
			continue
		}
		if _, ok := terms[e.terminal()]; !ok {
			return fmt.Errorf("%w: %v", synErrUnknownTerminal, e.terminal())
		}
	}

	return nil
}

func (e *LexicalEntry) terminal() string {
	if e.Terminal != "" {
		return e.Terminal
	}
	return e.Kind
}

// Spec returns the grammar input of the generator.
func (gf *GrammarFile) Spec() *grammar.Spec {
	return &grammar.Spec{
		Terminals:    append([]string(nil), gf.Terminals...),
		NonTerminals: append([]string(nil), gf.NonTerminals...),
		Productions:  append([]string(nil), gf.Productions...),
		Start:        gf.Start,
	}
}

// CompileLexer compiles the lexical entries into a scanner specification. Entries listed first win when two
// patterns match the same longest text.
func (gf *GrammarFile) CompileLexer() (*driver.LexSpec, error) {
	if len(gf.Lexical) == 0 {
		return nil, synErrNoLexicalEntry
	}

	lspec := &mlspec.LexSpec{}
	byKind := map[string]*LexicalEntry{}
	for _, e := range gf.Lexical {
		pattern := e.Pattern
		if e.Literal {
			pattern = mlspec.EscapePattern(pattern)
		}
		lspec.Entries = append(lspec.Entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(e.Kind),
			Pattern: mlspec.LexPattern(pattern),
		})
		byKind[e.Kind] = e
	}

	clspec, err, cErrs := mlcompiler.Compile(lspec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}

	ls := &driver.LexSpec{
		Spec:           clspec,
		KindToTerminal: make([]string, len(clspec.KindNames)),
		KindToPattern:  make([]driver.PatternType, len(clspec.KindNames)),
		Skip:           make([]bool, len(clspec.KindNames)),
	}
	for id, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		e, ok := byKind[k.String()]
		if !ok {
			return nil, fmt.Errorf("the lexer has a kind the grammar file does not define: %v", k)
		}
		// validate has already accepted the category.
		pat, _ := driver.ParsePatternType(e.Category)
		ls.KindToPattern[id] = pat
		ls.Skip[id] = e.Skip
		if !e.Skip {
			ls.KindToTerminal[id] = e.terminal()
		}
	}

	tracer().Infof("compiled a lexer with %v kinds", len(clspec.KindNames)-1)

	return ls, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
