package symbol

import (
	"fmt"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is a grammar symbol interned by a SymbolTable. Two symbols issued by the same table are the same
// symbol if and only if they are equal integers.
type Symbol uint16

func (s Symbol) String() string {
	kind, reserved, num := s.describe()
	var prefix string
	switch {
	case s.IsNil():
		return "ε"
	case reserved && kind == symbolKindNonTerminal:
		prefix = "a"
	case reserved && kind == symbolKindTerminal:
		prefix = "e"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	default:
		prefix = "t"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	// A reserved terminal is the end marker, a reserved non-terminal is the augmented start symbol.
	maskSubKindPart = uint16(0x4000) // 0100 0000 0000 0000
	maskReserved    = uint16(0x4000) // 0100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	// SymbolNil stands for ε in bodies and look-ahead sets.
	SymbolNil = Symbol(0)

	symbolNumMin = SymbolNum(1)
	symbolNumMax = SymbolNum(0xffff) >> 2 // 0011 1111 1111 1111
)

const (
	NameEOF     = "$"
	NameEpsilon = "ε"

	augmentedSuffix = "'"
)

// AugmentedName returns the name of the augmented start symbol for a start symbol.
func AugmentedName(start string) string {
	return start + augmentedSuffix
}

func newSymbol(kind symbolKind, reserved bool, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	var subKindMask uint16
	if reserved {
		subKindMask = maskReserved
	}
	return Symbol(kindMask | subKindMask | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, _, num := s.describe()
	return num
}

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

// IsAugmentedStart reports whether s is the S' symbol.
func (s Symbol) IsAugmentedStart() bool {
	if s.IsNil() {
		return false
	}
	kind, reserved, _ := s.describe()
	return reserved && kind == symbolKindNonTerminal
}

// IsEOF reports whether s is the end marker.
func (s Symbol) IsEOF() bool {
	if s.IsNil() {
		return false
	}
	kind, reserved, _ := s.describe()
	return reserved && kind == symbolKindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (symbolKind, bool, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	reserved := uint16(s)&maskSubKindPart > 0
	num := SymbolNum(uint16(s) & maskNumberPart)
	return kind, reserved, num
}

// SymbolTable interns the symbols of one grammar. Symbols are numbered in registration order, so iterating
// TerminalSymbols or NonTerminalSymbols always yields the declaration order.
type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
	eof          Symbol
	augStart     Symbol
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{
			SymbolNil: NameEpsilon,
		},
		termTexts: []string{
			"", // Nil
		},
		nonTermTexts: []string{
			"", // Nil
		},
		nonTermNum: symbolNumMin,
		termNum:    symbolNumMin,
		eof:        SymbolNil,
		augStart:   SymbolNil,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	return w.register(symbolKindTerminal, false, text)
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	return w.register(symbolKindNonTerminal, false, text)
}

// RegisterEOFSymbol registers the end marker. Call it after all user-defined terminals so that the end marker
// follows them.
func (w *SymbolTableWriter) RegisterEOFSymbol() (Symbol, error) {
	if !w.eof.IsNil() {
		return w.eof, nil
	}
	sym, err := w.register(symbolKindTerminal, true, NameEOF)
	if err != nil {
		return SymbolNil, err
	}
	w.eof = sym
	return sym, nil
}

// RegisterAugmentedStartSymbol registers S' for the start symbol. Call it after all user-defined non-terminals.
func (w *SymbolTableWriter) RegisterAugmentedStartSymbol(start string) (Symbol, error) {
	if !w.augStart.IsNil() {
		return w.augStart, nil
	}
	sym, err := w.register(symbolKindNonTerminal, true, AugmentedName(start))
	if err != nil {
		return SymbolNil, err
	}
	w.augStart = sym
	return sym, nil
}

func (w *SymbolTableWriter) register(kind symbolKind, reserved bool, text string) (Symbol, error) {
	if text == "" {
		return SymbolNil, fmt.Errorf("a symbol name must be non-empty")
	}
	if !reserved && (text == NameEOF || text == NameEpsilon) {
		return SymbolNil, fmt.Errorf("%v is a reserved name", text)
	}
	if sym, ok := w.text2Sym[text]; ok {
		k, r, _ := sym.describe()
		if k != kind || r != reserved {
			return SymbolNil, fmt.Errorf("%v is already registered as a %v", text, k)
		}
		return sym, nil
	}

	num := w.termNum
	if kind == symbolKindNonTerminal {
		num = w.nonTermNum
	}
	sym, err := newSymbol(kind, reserved, num)
	if err != nil {
		return SymbolNil, err
	}
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	if kind == symbolKindTerminal {
		w.termNum++
		w.termTexts = append(w.termTexts, text)
	} else {
		w.nonTermNum++
		w.nonTermTexts = append(w.nonTermTexts, text)
	}
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if text == NameEpsilon {
		return SymbolNil, true
	}
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// TerminalSymbols returns the terminals in registration order. The end marker is included once registered.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.termTexts)-1)
	for _, text := range r.termTexts[1:] {
		syms = append(syms, r.text2Sym[text])
	}
	return syms
}

func (r *SymbolTableReader) TerminalTexts() []string {
	return append([]string{}, r.termTexts[1:]...)
}

// NonTerminalSymbols returns the non-terminals in registration order. S' is included once registered.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.nonTermTexts)-1)
	for _, text := range r.nonTermTexts[1:] {
		syms = append(syms, r.text2Sym[text])
	}
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() []string {
	return append([]string{}, r.nonTermTexts[1:]...)
}

func (r *SymbolTableReader) EOF() Symbol {
	return r.eof
}

func (r *SymbolTableReader) AugmentedStart() Symbol {
	return r.augStart
}
