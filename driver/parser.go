package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	verr "github.com/gizbox-lang/gizparse/error"
	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gizparse.driver'.
func tracer() tracing.Trace {
	return tracing.Select("gizparse.driver")
}

var (
	errNoAction           = errors.New("unexpected token")
	errUnconsumedInput    = errors.New("input remains after the end marker")
	errMissingEndMarker   = errors.New("input ended without the end marker")
	errInvalidToken       = errors.New("invalid token")
	errMissingGoTo        = errors.New("no GOTO entry for a reduction")
	errReductionUnderflow = errors.New("the stack is shorter than the production body")
)

// ParseError reports the first syntax error. State is the state the parser was in and Token the lookahead
// token, when there is one.
type ParseError struct {
	Cause             error
	Token             *Token
	State             *grammar.State
	ExpectedTerminals []string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Token != nil {
		fmt.Fprintf(&b, ": line %v", e.Token.Line)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	if e.Token != nil {
		fmt.Fprintf(&b, ": %v", e.Token)
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	if e.State != nil {
		fmt.Fprintf(&b, "\ncurrent state: %v\n%v", e.State.Index, e.State.Set.Expression())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ParseError) Kind() verr.Kind {
	return verr.KindParse
}

// Element is a parse stack entry. A shifted element carries its token; a reduced element carries whatever the
// semantic actions stored in Attributes. Start and End are the first and the last token the element covers;
// both are nil for an element reduced from an empty body.
type Element struct {
	State      *grammar.State
	Token      *Token
	Start      *Token
	End        *Token
	Attributes map[string]interface{}
}

func newElement(state *grammar.State) *Element {
	return &Element{
		State:      state,
		Attributes: map[string]interface{}{},
	}
}

// TraceEvent describes one step of the parser. Production is set on a reduction only.
type TraceEvent struct {
	Action     grammar.Action
	State      int
	Token      *Token
	Production *grammar.Production
}

type ParserOption func(p *Parser) error

// WithSemanticActions makes the parser run the actions of set on every reduction.
func WithSemanticActions(set *SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		if set == nil {
			return fmt.Errorf("semantic action set must be non-nil")
		}
		p.actions = set
		return nil
	}
}

// WithTrace makes the parser report every shift, reduction, and accept to f.
func WithTrace(f func(ev *TraceEvent)) ParserOption {
	return func(p *Parser) error {
		p.trace = f
		return nil
	}
}

// DisableEndMarker stops the parser from appending `$` to an input that lacks it.
func DisableEndMarker() ParserOption {
	return func(p *Parser) error {
		p.appendEOF = false
		return nil
	}
}

// Parser is an LR shift-reduce parser driven by generated parser data. The data may be shared; a Parser is not
// safe for concurrent use.
type Parser struct {
	tab       *tableImpl
	actions   *SemanticActionSet
	trace     func(ev *TraceEvent)
	appendEOF bool

	stack *arraylist.List
	queue []*Token

	// The reduction in progress.
	reducing   *grammar.Production
	handleBase int
	newElem    *Element
}

func NewParser(data *grammar.ParserData, opts ...ParserOption) (*Parser, error) {
	tab, err := newTable(data)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		tab:       tab,
		appendEOF: true,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the automaton over tokens and returns the element on top of the stack when the input is accepted.
// The first error stops the parser.
func (p *Parser) Parse(tokens []*Token) (*Element, error) {
	p.queue = make([]*Token, 0, len(tokens)+1)
	p.queue = append(p.queue, tokens...)
	if p.appendEOF && (len(tokens) == 0 || !tokens[len(tokens)-1].IsEOF()) {
		line := 0
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		p.queue = append(p.queue, NewEOFToken(line))
	}

	p.stack = arraylist.New()
	p.push(newElement(p.tab.InitialState()))

	for {
		if len(p.queue) == 0 {
			top := p.top()
			return nil, &ParseError{
				Cause:             errMissingEndMarker,
				State:             top.State,
				ExpectedTerminals: p.tab.ExpectedTerminals(top.State.Index),
			}
		}

		tok := p.queue[0]
		top := p.top()
		act := p.tab.Action(top.State.Index, tok.Name)
		switch act.Type {
		case grammar.ActionTypeShift:
			p.shift(act, tok)
		case grammar.ActionTypeReduce:
			err := p.reduce(act, tok)
			if err != nil {
				return nil, err
			}
		case grammar.ActionTypeAccept:
			p.queue = p.queue[1:]
			if !tok.IsEOF() || len(p.queue) > 0 {
				var next *Token
				if len(p.queue) > 0 {
					next = p.queue[0]
				}
				return nil, &ParseError{
					Cause: errUnconsumedInput,
					Token: next,
					State: top.State,
				}
			}
			tracer().Debugf("accept")
			p.emit(&TraceEvent{
				Action: act,
				State:  top.State.Index,
				Token:  tok,
			})
			return top, nil
		default:
			return nil, &ParseError{
				Cause:             errNoAction,
				Token:             tok,
				State:             top.State,
				ExpectedTerminals: p.tab.ExpectedTerminals(top.State.Index),
			}
		}
	}
}

func (p *Parser) shift(act grammar.Action, tok *Token) {
	from := p.top().State.Index
	p.queue = p.queue[1:]

	elem := newElement(p.tab.State(act.Num))
	elem.Token = tok
	elem.Start = tok
	elem.End = tok
	p.push(elem)

	tracer().Debugf("shift %v; state %v -> %v", tok, from, act.Num)
	p.emit(&TraceEvent{
		Action: act,
		State:  from,
		Token:  tok,
	})
}

func (p *Parser) reduce(act grammar.Action, tok *Token) error {
	prod, ok := p.tab.Production(act.Num)
	if !ok {
		return fmt.Errorf("production %v was not found", act.Num)
	}
	from := p.top().State.Index

	// When a body is empty, `n` is 0 and the new element goes on top of the current one.
	n := prod.Len()
	base := p.stack.Size() - n
	if base < 1 {
		return &ParseError{Cause: errReductionUnderflow, Token: tok, State: p.top().State}
	}
	below := p.at(base - 1)
	next, ok := p.tab.GoTo(below.State.Index, prod.HeadName())
	if !ok {
		return &ParseError{Cause: errMissingGoTo, Token: tok, State: below.State}
	}

	p.reducing = prod
	p.handleBase = base
	p.newElem = newElement(p.tab.State(next))
	defer func() {
		p.reducing = nil
		p.newElem = nil
	}()

	if p.actions != nil {
		err := p.actions.run(p, prod)
		if err != nil {
			return err
		}
	}
	elem := p.newElem
	p.recordStartEnd(elem, base, n)

	for i := 0; i < n; i++ {
		p.stack.Remove(p.stack.Size() - 1)
	}
	p.push(elem)

	tracer().Debugf("reduce %v; state %v -> %v", prod.Expression(), from, next)
	p.emit(&TraceEvent{
		Action:     act,
		State:      from,
		Token:      tok,
		Production: prod,
	})
	return nil
}

// recordStartEnd sets the first and the last token covered by the n elements from base.
func (p *Parser) recordStartEnd(elem *Element, base, n int) {
	for i := base; i < base+n; i++ {
		if e := p.at(i); e.Start != nil {
			elem.Start = e.Start
			break
		}
	}
	for i := base + n - 1; i >= base; i-- {
		if e := p.at(i); e.End != nil {
			elem.End = e.End
			break
		}
	}
}

func (p *Parser) emit(ev *TraceEvent) {
	if p.trace == nil {
		return
	}
	p.trace(ev)
}

func (p *Parser) top() *Element {
	return p.at(p.stack.Size() - 1)
}

func (p *Parser) at(index int) *Element {
	v, ok := p.stack.Get(index)
	if !ok {
		return nil
	}
	return v.(*Element)
}

func (p *Parser) push(elem *Element) {
	p.stack.Add(elem)
}

// Production returns the production being reduced. It is nil outside semantic actions.
func (p *Parser) Production() *grammar.Production {
	return p.reducing
}

// Child returns the i-th element of the body being reduced, counted from 0. It is valid in semantic actions only.
func (p *Parser) Child(i int) *Element {
	if p.reducing == nil || i < 0 || i >= p.reducing.Len() {
		return nil
	}
	return p.at(p.handleBase + i)
}

// NewElement returns the element that replaces the body being reduced. It is valid in semantic actions only.
func (p *Parser) NewElement() *Element {
	return p.newElem
}

// Stack returns the elements on the parse stack from bottom to top.
func (p *Parser) Stack() []*Element {
	if p.stack == nil {
		return nil
	}
	elems := make([]*Element, 0, p.stack.Size())
	for _, v := range p.stack.Values() {
		elems = append(elems, v.(*Element))
	}
	return elems
}

// Grammar returns the grammar the parser runs on.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.tab.Grammar()
}
