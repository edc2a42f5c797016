package grammar

import "github.com/gizbox-lang/gizparse/grammar/symbol"

type lrEdge struct {
	from int
	sym  symbol.Symbol
}

// lr1Collection is the canonical collection of LR(1) item sets.
type lr1Collection struct {
	gram    *Grammar
	pool    *ItemPool
	first   *firstSet
	symbols []symbol.Symbol

	states    []*ItemSet
	key2State map[string]int

	// edges caches GOTO(states[from], sym) = states[to]; edgeOrder keeps the discovery order.
	edges     map[lrEdge]int
	edgeOrder []lrEdge
}

func newLR1Collection(gram *Grammar, pool *ItemPool, first *firstSet) *lr1Collection {
	return &lr1Collection{
		gram:      gram,
		pool:      pool,
		first:     first,
		symbols:   gram.Symbols(),
		key2State: map[string]int{},
		edges:     map[lrEdge]int{},
	}
}

// closure expands set with `[B → ・γ, b]` for every `[A → α・Bβ, a]` in it, every `B → γ`, and every b in
// FIRST(βa) but ε. Items appended during the scan are scanned as well, so the result is the fixpoint.
func (c *lr1Collection) closure(set *ItemSet) *ItemSet {
	result := set.clone()
	for k := 0; k < len(result.items); k++ {
		item := result.items[k]
		b := item.dottedSymbol
		if !b.IsNonTerminal() {
			continue
		}

		rest := item.prod.RHS[item.dot+1:]
		seq := make([]symbol.Symbol, 0, len(rest)+1)
		seq = append(seq, rest...)
		seq = append(seq, item.lookAhead)
		las := c.first.ofSequence(seq).Symbols()

		for _, prod := range c.gram.ProductionsOf(b) {
			for _, la := range las {
				if la.IsNil() {
					continue
				}
				result.Add(c.pool.get(prod, 0, la))
			}
		}
	}
	return result
}

// goTo returns CLOSURE({[A → αX・β, a] | [A → α・Xβ, a] ∈ set}). The result is empty when no item of set
// expects x.
func (c *lr1Collection) goTo(set *ItemSet, x symbol.Symbol) *ItemSet {
	kernel := NewItemSet()
	for _, item := range set.items {
		if item.dottedSymbol != x || item.dottedSymbol.IsNil() {
			continue
		}
		kernel.Add(c.pool.get(item.prod, item.dot+1, item.lookAhead))
	}
	if kernel.Len() == 0 {
		return kernel
	}
	return c.closure(kernel)
}

// build computes the canonical collection starting from CLOSURE({[S' → ・S, $]}). States are visited in index
// order and symbols in declaration order (terminals first), so the state numbering is reproducible.
// A GOTO target that is set-equal to an existing state is resolved to that state; otherwise it becomes a new
// state that the loop visits later. Every edge is cached when it is found.
func (c *lr1Collection) build() error {
	initialItem, err := c.pool.Get(c.gram.AugmentedProduction(), 0, c.gram.EOF())
	if err != nil {
		return err
	}
	initial := NewItemSet()
	initial.Add(initialItem)
	c.addState(c.closure(initial))

	for i := 0; i < len(c.states); i++ {
		expected := c.expectedSymbols(c.states[i])
		for _, x := range c.symbols {
			if _, ok := expected[x]; !ok {
				continue
			}
			next := c.goTo(c.states[i], x)
			if next.Len() == 0 {
				continue
			}
			j, ok := c.findState(next)
			if !ok {
				j = c.addState(next)
			}
			if err := c.cacheEdge(i, x, j); err != nil {
				return err
			}
		}
		if (i+1)%500 == 0 {
			tracer().Debugf("canonical collection: %v states visited, %v found", i+1, len(c.states))
		}
	}
	return nil
}

func (c *lr1Collection) expectedSymbols(set *ItemSet) map[symbol.Symbol]struct{} {
	syms := map[symbol.Symbol]struct{}{}
	for _, item := range set.items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		syms[item.dottedSymbol] = struct{}{}
	}
	return syms
}

func (c *lr1Collection) addState(set *ItemSet) int {
	idx := len(c.states)
	c.states = append(c.states, set)
	c.key2State[set.key()] = idx
	return idx
}

func (c *lr1Collection) cacheEdge(from int, sym symbol.Symbol, to int) error {
	e := lrEdge{
		from: from,
		sym:  sym,
	}
	if cur, ok := c.edges[e]; ok {
		if cur != to {
			return newConflictError(from, c.gram.Name(sym), Action{Type: ActionTypeGoTo, Num: cur}, Action{Type: ActionTypeGoTo, Num: to}, nil)
		}
		return nil
	}
	c.edges[e] = to
	c.edgeOrder = append(c.edgeOrder, e)
	return nil
}

// findState searches the collection for a state set-equal to set.
func (c *lr1Collection) findState(set *ItemSet) (int, bool) {
	idx, ok := c.key2State[set.key()]
	if !ok {
		return 0, false
	}
	return idx, c.states[idx].Equals(set)
}
