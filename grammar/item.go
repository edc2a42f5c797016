package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

const dotMark = "·"

type itemID int

// Item is an LR(1) item `[A → α・β, a]`. Items are interned by an ItemPool, so two items of the same pool are
// equal if and only if they are the same pointer.
type Item struct {
	id   itemID
	prod *Production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol.Symbol

	lookAhead     symbol.Symbol
	lookAheadText string
}

func (i *Item) Production() *Production {
	return i.prod
}

func (i *Item) Dot() int {
	return i.dot
}

func (i *Item) LookAhead() symbol.Symbol {
	return i.lookAhead
}

// DottedSymbol returns the symbol right after the dot, or symbol.SymbolNil when the item is reducible.
func (i *Item) DottedSymbol() symbol.Symbol {
	return i.dottedSymbol
}

func (i *Item) Reducible() bool {
	return i.dot == len(i.prod.RHS)
}

// Expression renders the item as `Head -> a · b, la`. The form is parsed back by ItemPool.ParseItemExpression.
func (i *Item) Expression() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %v", i.prod.lhsText, arrow)
	for n, text := range i.prod.rhsTexts {
		if n == i.dot {
			fmt.Fprintf(&b, " %v", dotMark)
		}
		fmt.Fprintf(&b, " %v", text)
	}
	if i.Reducible() {
		fmt.Fprintf(&b, " %v", dotMark)
	}
	fmt.Fprintf(&b, ", %v", i.lookAheadText)
	return b.String()
}

func (i *Item) String() string {
	return i.Expression()
}

type itemKey struct {
	prod      int
	dot       int
	lookAhead symbol.Symbol
}

// ItemPool interns the items of one grammar.
type ItemPool struct {
	gram  *Grammar
	items []*Item
	ids   map[itemKey]itemID
}

func NewItemPool(gram *Grammar) *ItemPool {
	return &ItemPool{
		gram: gram,
		ids:  map[itemKey]itemID{},
	}
}

func (p *ItemPool) Get(prod *Production, dot int, lookAhead symbol.Symbol) (*Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > len(prod.RHS) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(prod.RHS))
	}
	if !lookAhead.IsTerminal() {
		return nil, fmt.Errorf("a look-ahead symbol must be a terminal; got: %v", lookAhead)
	}
	return p.get(prod, dot, lookAhead), nil
}

func (p *ItemPool) get(prod *Production, dot int, lookAhead symbol.Symbol) *Item {
	key := itemKey{
		prod:      prod.Num,
		dot:       dot,
		lookAhead: lookAhead,
	}
	if id, ok := p.ids[key]; ok {
		return p.items[id]
	}

	dottedSymbol := symbol.SymbolNil
	if dot < len(prod.RHS) {
		dottedSymbol = prod.RHS[dot]
	}
	item := &Item{
		id:            itemID(len(p.items)),
		prod:          prod,
		dot:           dot,
		dottedSymbol:  dottedSymbol,
		lookAhead:     lookAhead,
		lookAheadText: p.gram.Name(lookAhead),
	}
	p.items = append(p.items, item)
	p.ids[key] = item.id
	return item
}

func (p *ItemPool) Len() int {
	return len(p.items)
}

// ParseItemExpression is the inverse of Item.Expression. An item `A -> ·` refers to the production `A -> ε`.
func (p *ItemPool) ParseItemExpression(expr string) (*Item, error) {
	sep := strings.LastIndex(expr, " ")
	if sep < 0 || !strings.HasSuffix(expr[:sep], ",") {
		return nil, &GrammarError{Cause: semErrMalformedItem, Expression: expr}
	}
	laText := expr[sep+1:]
	fields := strings.Fields(strings.TrimSuffix(expr[:sep], ","))
	if len(fields) < 3 || fields[1] != arrow {
		return nil, &GrammarError{Cause: semErrMalformedItem, Expression: expr}
	}

	dot := -1
	body := make([]string, 0, len(fields)-2)
	for _, f := range fields[2:] {
		if f == dotMark {
			if dot >= 0 {
				return nil, &GrammarError{Cause: semErrMalformedItem, Expression: expr}
			}
			dot = len(body)
			continue
		}
		body = append(body, f)
	}
	if dot < 0 {
		return nil, &GrammarError{Cause: semErrMalformedItem, Expression: expr}
	}

	prodExpr := fmt.Sprintf("%v %v %v", fields[0], arrow, strings.Join(body, " "))
	if len(body) == 0 {
		prodExpr = fmt.Sprintf("%v %v %v", fields[0], arrow, symbol.NameEpsilon)
	}
	prod, ok := p.gram.ProductionByExpression(prodExpr)
	if !ok {
		return nil, &GrammarError{Cause: semErrProdNotFound, Expression: expr}
	}
	la, ok := p.gram.Lookup(laText)
	if !ok || !la.IsTerminal() {
		return nil, &GrammarError{Cause: semErrUndefinedSym, Expression: expr}
	}
	return p.get(prod, dot, la), nil
}

// ItemSet is an insertion-ordered set of items with constant-time membership tests.
type ItemSet struct {
	items []*Item
	index map[itemID]struct{}
}

func NewItemSet() *ItemSet {
	return &ItemSet{
		index: map[itemID]struct{}{},
	}
}

// Add appends item unless it is already a member and reports whether the set changed.
func (s *ItemSet) Add(item *Item) bool {
	if s.Contains(item) {
		return false
	}
	s.items = append(s.items, item)
	s.index[item.id] = struct{}{}
	return true
}

func (s *ItemSet) Contains(item *Item) bool {
	_, ok := s.index[item.id]
	return ok
}

func (s *ItemSet) Items() []*Item {
	return append([]*Item{}, s.items...)
}

func (s *ItemSet) Len() int {
	return len(s.items)
}

func (s *ItemSet) clone() *ItemSet {
	c := &ItemSet{
		items: make([]*Item, len(s.items)),
		index: make(map[itemID]struct{}, len(s.items)),
	}
	copy(c.items, s.items)
	for id := range s.index {
		c.index[id] = struct{}{}
	}
	return c
}

// Equals reports whether s and t contain the same items, in any order.
func (s *ItemSet) Equals(t *ItemSet) bool {
	if len(s.items) != len(t.items) {
		return false
	}
	for _, item := range s.items {
		if !t.Contains(item) {
			return false
		}
	}
	return true
}

// key identifies the set regardless of insertion order. Sets of the same pool with the same key are equal.
func (s *ItemSet) key() string {
	ids := make([]int, len(s.items))
	for i, item := range s.items {
		ids[i] = int(item.id)
	}
	sort.Ints(ids)
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

type coreItem struct {
	prod int
	dot  int
}

func coreItemComparator(a, b interface{}) int {
	x := a.(coreItem)
	y := b.(coreItem)
	switch {
	case x.prod != y.prod:
		return x.prod - y.prod
	default:
		return x.dot - y.dot
	}
}

// core returns the distinct (production, dot) pairs of the set, look-ahead symbols ignored.
func (s *ItemSet) core() *treeset.Set {
	c := treeset.NewWith(coreItemComparator)
	for _, item := range s.items {
		c.Add(coreItem{
			prod: item.prod.Num,
			dot:  item.dot,
		})
	}
	return c
}

// coreKey identifies the core of the set. Two sets have set-equal cores if and only if their core keys match.
func (s *ItemSet) coreKey() string {
	var b strings.Builder
	for i, v := range s.core().Values() {
		if i > 0 {
			b.WriteString(",")
		}
		c := v.(coreItem)
		fmt.Fprintf(&b, "%v.%v", c.prod, c.dot)
	}
	return b.String()
}

// Expression lists the items one per line.
func (s *ItemSet) Expression() string {
	var b strings.Builder
	for i, item := range s.items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(item.Expression())
	}
	return b.String()
}

// State is a node of the LALR(1) automaton.
type State struct {
	Index int
	Name  string
	Set   *ItemSet
}
