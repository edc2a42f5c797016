// Package cache stores generated parser data as a line-oriented text file and loads it back without running
// the generator again.
package cache

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gizparse.cache'.
func tracer() tracing.Trace {
	return tracing.Select("gizparse.cache")
}

const (
	markRawTerminals    = "***Raw Terminals***"
	markRawNonTerminals = "***Raw Nonterminals***"
	markRawProductions  = "***Raw Productions***"
	markSignature       = "***Signature***"
	markData            = "***Data***"
	markTerminals       = "***Terminals***"
	markNonTerminals    = "***Nonterminals***"
	markProductions     = "***Productions***"
	markStates          = "***States***"
	markState           = "***State***"
	markSet             = "***Set***"
	markEndSet          = "***EndSet***"
	markEndState        = "***EndState***"
	markTable           = "***Table***"
	markActionTable     = "ACTION_TABLE"
	markGoToTable       = "GOTO_TABLE"
	markEndTable        = "ENDTABLE"

	cellSep = ","

	signatureVersion = 1
)

// signatureInput is the part of a grammar spec a cache file depends on.
type signatureInput struct {
	Terminals    []string
	NonTerminals []string
	Productions  []string
	Start        string
}

// Signature returns a digest of the grammar input. Two specs that generate the same parser data have the same
// signature; the start symbol is taken in its effective form.
func Signature(spec *grammar.Spec) (string, error) {
	return structhash.Hash(signatureInput{
		Terminals:    spec.Terminals,
		NonTerminals: spec.NonTerminals,
		Productions:  spec.Productions,
		Start:        spec.StartName(),
	}, signatureVersion)
}

// Write serializes data. A table without any accept action is never written.
func Write(w io.Writer, data *grammar.ParserData) error {
	if !data.Table.HasAccept() {
		return &IntegrityError{Cause: errNoAccept}
	}

	spec := data.Grammar.Spec()
	sig, err := Signature(spec)
	if err != nil {
		return err
	}

	var b strings.Builder
	writeSection(&b, markRawTerminals, spec.Terminals)
	writeSection(&b, markRawNonTerminals, spec.NonTerminals)
	writeSection(&b, markRawProductions, spec.Productions)
	writeSection(&b, markSignature, []string{sig})
	b.WriteString("\n\n\n")

	symTab := data.Grammar.SymbolTable()
	b.WriteString(markData + "\n")
	writeSection(&b, markTerminals, symTab.TerminalTexts())
	writeSection(&b, markNonTerminals, symTab.NonTerminalTexts())
	prods := make([]string, 0, len(data.Grammar.Productions()))
	for _, prod := range data.Grammar.Productions() {
		prods = append(prods, prod.Expression())
	}
	writeSection(&b, markProductions, prods)

	b.WriteString(markStates + "\n")
	for _, state := range data.States {
		fmt.Fprintf(&b, "%v\n%v\n%v\n", markState, state.Index, state.Name)
		b.WriteString(markSet + "\n")
		for _, item := range state.Set.Items() {
			b.WriteString(item.Expression() + "\n")
		}
		fmt.Fprintf(&b, "%v\n%v\n", markEndSet, markEndState)
	}

	b.WriteString(markTable + "\n")
	writeTable(&b, data.Table)

	_, err = io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, mark string, lines []string) {
	b.WriteString(mark + "\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
}

func writeTable(b *strings.Builder, ptab *grammar.ParseTable) {
	b.WriteString(markActionTable + "\n")
	for s := 0; s < ptab.StateCount; s++ {
		if !ptab.HasActionRow(s) {
			continue
		}
		cells := make([]string, 0, len(ptab.Terminals))
		for _, term := range ptab.Terminals {
			cells = append(cells, ptab.Action(s, term).Code())
		}
		fmt.Fprintf(b, "%v\n%v\n", s, strings.Join(cells, cellSep))
	}

	b.WriteString(markGoToTable + "\n")
	for s := 0; s < ptab.StateCount; s++ {
		if !ptab.HasGoToRow(s) {
			continue
		}
		cells := make([]string, 0, len(ptab.Terminals)+len(ptab.NonTerminals))
		for _, sym := range append(append([]string{}, ptab.Terminals...), ptab.NonTerminals...) {
			cell := ""
			if next, ok := ptab.GoTo(s, sym); ok {
				cell = strconv.Itoa(next)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintf(b, "%v\n%v\n", s, strings.Join(cells, cellSep))
	}

	b.WriteString(markEndTable + "\n")
}

// rawBlock is the verbatim grammar input stored at the head of a cache file.
type rawBlock struct {
	spec      *grammar.Spec
	signature string
}

func readRawBlock(lr *lineReader) (*rawBlock, error) {
	err := lr.expect(markRawTerminals)
	if err != nil {
		return nil, err
	}
	terms, err := lr.until(markRawNonTerminals)
	if err != nil {
		return nil, err
	}
	nonTerms, err := lr.until(markRawProductions)
	if err != nil {
		return nil, err
	}
	prods, err := lr.until(markSignature)
	if err != nil {
		return nil, err
	}
	sig, err := lr.next()
	if err != nil {
		return nil, err
	}
	return &rawBlock{
		spec: &grammar.Spec{
			Terminals:    terms,
			NonTerminals: nonTerms,
			Productions:  prods,
		},
		signature: sig,
	}, nil
}

// Matches reports whether the cache data in r was generated from spec. The verbatim grammar input and the
// signature must both agree. Data that do not even carry a readable header never match.
func Matches(r io.Reader, spec *grammar.Spec) (bool, error) {
	lr, err := newLineReader(r)
	if err != nil {
		return false, err
	}
	raw, err := readRawBlock(lr)
	if err != nil {
		tracer().Debugf("cache header is unreadable: %v", err)
		return false, nil
	}
	if !equalLines(raw.spec.Terminals, spec.Terminals) ||
		!equalLines(raw.spec.NonTerminals, spec.NonTerminals) ||
		!equalLines(raw.spec.Productions, spec.Productions) {
		return false, nil
	}
	sig, err := Signature(spec)
	if err != nil {
		return false, err
	}
	return raw.signature == sig, nil
}

// Read deserializes parser data written by Write. The grammar is rebuilt from the verbatim input and checked
// against the resolved sections; items are rebuilt from their expressions.
func Read(r io.Reader) (*grammar.ParserData, error) {
	lr, err := newLineReader(r)
	if err != nil {
		return nil, err
	}
	raw, err := readRawBlock(lr)
	if err != nil {
		return nil, err
	}
	blank, err := lr.until(markData)
	if err != nil {
		return nil, err
	}
	for _, l := range blank {
		if l != "" {
			return nil, &IntegrityError{Cause: errMissingMarker, Line: lr.lineNum(), Detail: markData}
		}
	}

	err = lr.expect(markTerminals)
	if err != nil {
		return nil, err
	}
	terms, err := lr.until(markNonTerminals)
	if err != nil {
		return nil, err
	}
	nonTerms, err := lr.until(markProductions)
	if err != nil {
		return nil, err
	}
	prods, err := lr.until(markStates)
	if err != nil {
		return nil, err
	}
	if len(prods) == 0 {
		return nil, &IntegrityError{Cause: errDataMismatch, Line: lr.lineNum(), Detail: "no productions"}
	}
	// The augmented production `S' -> S` comes last and names the start symbol.
	augFields := strings.Fields(prods[len(prods)-1])
	if len(augFields) != 3 {
		return nil, &IntegrityError{Cause: errDataMismatch, Line: lr.lineNum(), Detail: prods[len(prods)-1]}
	}
	raw.spec.Start = augFields[2]

	sig, err := Signature(raw.spec)
	if err != nil {
		return nil, err
	}
	if sig != raw.signature {
		return nil, &IntegrityError{Cause: errSignatureMismatch, Detail: fmt.Sprintf("want: %v, got: %v", sig, raw.signature)}
	}

	gram, err := grammar.NewGrammar(raw.spec)
	if err != nil {
		return nil, err
	}
	symTab := gram.SymbolTable()
	if !equalLines(terms, symTab.TerminalTexts()) {
		return nil, &IntegrityError{Cause: errDataMismatch, Detail: markTerminals}
	}
	if !equalLines(nonTerms, symTab.NonTerminalTexts()) {
		return nil, &IntegrityError{Cause: errDataMismatch, Detail: markNonTerminals}
	}
	if len(prods) != len(gram.Productions()) {
		return nil, &IntegrityError{Cause: errDataMismatch, Detail: markProductions}
	}
	for i, prod := range gram.Productions() {
		if prods[i] != prod.Expression() {
			return nil, &IntegrityError{Cause: errDataMismatch, Detail: fmt.Sprintf("%v: %v", markProductions, prods[i])}
		}
	}

	pool := grammar.NewItemPool(gram)
	states, err := readStates(lr, pool)
	if err != nil {
		return nil, err
	}

	ptab := grammar.NewParseTable(len(states), symTab.TerminalTexts(), symTab.NonTerminalTexts())
	err = readTable(lr, ptab, len(gram.Productions()))
	if err != nil {
		return nil, err
	}

	tracer().Debugf("cache: %v states, %v items", len(states), pool.Len())

	return &grammar.ParserData{
		Grammar: gram,
		States:  states,
		Table:   ptab,
		Items:   pool,
	}, nil
}

func readStates(lr *lineReader, pool *grammar.ItemPool) ([]*grammar.State, error) {
	var states []*grammar.State
	for {
		l, err := lr.next()
		if err != nil {
			return nil, err
		}
		if l == markTable {
			break
		}
		if l != markState {
			return nil, &IntegrityError{Cause: errMissingMarker, Line: lr.lineNum(), Detail: markState}
		}

		idxText, err := lr.next()
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(idxText)
		if err != nil || idx != len(states) {
			return nil, &IntegrityError{Cause: errInvalidStateIndex, Line: lr.lineNum(), Detail: idxText}
		}
		name, err := lr.next()
		if err != nil {
			return nil, err
		}

		err = lr.expect(markSet)
		if err != nil {
			return nil, err
		}
		exprs, err := lr.until(markEndSet)
		if err != nil {
			return nil, err
		}
		set := grammar.NewItemSet()
		for _, expr := range exprs {
			item, err := pool.ParseItemExpression(expr)
			if err != nil {
				return nil, fmt.Errorf("state %v: %w", idx, err)
			}
			set.Add(item)
		}
		err = lr.expect(markEndState)
		if err != nil {
			return nil, err
		}

		states = append(states, &grammar.State{
			Index: idx,
			Name:  name,
			Set:   set,
		})
	}
	return states, nil
}

// readTable fills ptab from the table section. Every shift must go to an existing state along the GOTO cell of
// its terminal, and every reduce must name one of the prodCount productions.
func readTable(lr *lineReader, ptab *grammar.ParseTable, prodCount int) error {
	err := lr.expect(markActionTable)
	if err != nil {
		return err
	}
	for {
		l, err := lr.next()
		if err != nil {
			return err
		}
		if l == markGoToTable {
			break
		}
		state, cells, err := readRow(lr, l, ptab.StateCount, len(ptab.Terminals))
		if err != nil {
			return err
		}
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			act, err := grammar.ParseActionCode(cell)
			if err != nil {
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: err.Error()}
			}
			switch {
			case act.Type == grammar.ActionTypeShift && act.Num >= ptab.StateCount:
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: fmt.Sprintf("%v: no such state", cell)}
			case act.Type == grammar.ActionTypeReduce && act.Num >= prodCount:
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: fmt.Sprintf("%v: no such production", cell)}
			}
			err = ptab.SetAction(state, ptab.Terminals[i], act)
			if err != nil {
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: err.Error()}
			}
		}
	}

	syms := append(append([]string{}, ptab.Terminals...), ptab.NonTerminals...)
	for {
		l, err := lr.next()
		if err != nil {
			return err
		}
		if l == markEndTable {
			break
		}
		state, cells, err := readRow(lr, l, ptab.StateCount, len(syms))
		if err != nil {
			return err
		}
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			next, err := strconv.Atoi(cell)
			if err != nil || next < 0 || next >= ptab.StateCount {
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: cell}
			}
			err = ptab.SetGoTo(state, syms[i], next)
			if err != nil {
				return &IntegrityError{Cause: errInvalidCell, Line: lr.lineNum(), Detail: err.Error()}
			}
		}
	}

	for state := 0; state < ptab.StateCount; state++ {
		for _, term := range ptab.Terminals {
			act := ptab.Action(state, term)
			if act.Type != grammar.ActionTypeShift {
				continue
			}
			next, ok := ptab.GoTo(state, term)
			if !ok || next != act.Num {
				return &IntegrityError{
					Cause:  errShiftMismatch,
					Detail: fmt.Sprintf("state %v, %v: %v", state, term, act.Code()),
				}
			}
		}
	}

	if !ptab.HasAccept() {
		return &IntegrityError{Cause: errNoAccept}
	}
	return nil
}

// readRow reads the row that follows the state index line idxText and splits it into width cells.
func readRow(lr *lineReader, idxText string, stateCount int, width int) (int, []string, error) {
	state, err := strconv.Atoi(idxText)
	if err != nil || state < 0 || state >= stateCount {
		return 0, nil, &IntegrityError{Cause: errInvalidStateIndex, Line: lr.lineNum(), Detail: idxText}
	}
	row, err := lr.next()
	if err != nil {
		return 0, nil, err
	}
	cells := strings.Split(row, cellSep)
	if len(cells) != width {
		return 0, nil, &IntegrityError{
			Cause:  errRowLength,
			Line:   lr.lineNum(),
			Detail: fmt.Sprintf("want: %v cells, got: %v cells", width, len(cells)),
		}
	}
	return state, cells, nil
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lineReader hands out the lines of cache data one at a time and remembers the current line number.
type lineReader struct {
	lines []string
	pos   int
}

func newLineReader(r io.Reader) (*lineReader, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &lineReader{
		lines: lines,
	}, nil
}

func (r *lineReader) next() (string, error) {
	if r.pos >= len(r.lines) {
		return "", &IntegrityError{Cause: errUnexpectedEOF, Line: r.pos}
	}
	l := r.lines[r.pos]
	r.pos++
	return l, nil
}

// lineNum returns the number of the line returned last.
func (r *lineReader) lineNum() int {
	return r.pos
}

func (r *lineReader) expect(mark string) error {
	l, err := r.next()
	if err != nil {
		return &IntegrityError{Cause: errMissingMarker, Line: r.pos, Detail: mark}
	}
	if l != mark {
		return &IntegrityError{Cause: errMissingMarker, Line: r.pos, Detail: fmt.Sprintf("want: %v, got: %v", mark, l)}
	}
	return nil
}

// until returns the lines preceding mark and consumes mark.
func (r *lineReader) until(mark string) ([]string, error) {
	var lines []string
	for {
		if r.pos >= len(r.lines) {
			return nil, &IntegrityError{Cause: errMissingMarker, Line: r.pos, Detail: mark}
		}
		l := r.lines[r.pos]
		r.pos++
		if l == mark {
			return lines, nil
		}
		lines = append(lines, l)
	}
}
