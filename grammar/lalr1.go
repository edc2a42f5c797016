package grammar

import (
	"strconv"
	"strings"

	"github.com/gizbox-lang/gizparse/grammar/symbol"
)

type lalr1Edge struct {
	from int
	sym  symbol.Symbol
	to   int
}

// lalr1Automaton is the canonical collection with core-equal states merged.
type lalr1Automaton struct {
	states []*State

	// groups[n] lists the canonical states merged into states[n]; groupOf is its inverse.
	groups  [][]int
	groupOf []int

	edges []*lalr1Edge
}

// genLALR1Automaton partitions the canonical states by core. Groups are ordered by their lowest member and
// every canonical state belongs to exactly one group.
func genLALR1Automaton(lr1 *lr1Collection) (*lalr1Automaton, error) {
	groupOf := make([]int, len(lr1.states))
	var groups [][]int
	{
		core2Group := map[string]int{}
		for i, set := range lr1.states {
			key := set.coreKey()
			n, ok := core2Group[key]
			if !ok {
				n = len(groups)
				core2Group[key] = n
				groups = append(groups, nil)
			}
			groups[n] = append(groups[n], i)
			groupOf[i] = n
		}
	}

	states := make([]*State, len(groups))
	for n, members := range groups {
		set := NewItemSet()
		for _, m := range members {
			for _, item := range lr1.states[m].items {
				set.Add(item)
			}
		}
		states[n] = &State{
			Index: n,
			Name:  genStateName(members),
			Set:   set,
		}
	}

	var edges []*lalr1Edge
	{
		seen := map[lrEdge]int{}
		for _, e := range lr1.edgeOrder {
			from := groupOf[e.from]
			to := groupOf[lr1.edges[e]]
			me := lrEdge{
				from: from,
				sym:  e.sym,
			}
			if cur, ok := seen[me]; ok {
				if cur != to {
					tracer().Errorf("merged GOTO(%v, %v) has two targets: %v and %v", states[from].Name, lr1.gram.Name(e.sym), states[cur].Name, states[to].Name)
					return nil, newConflictError(from, lr1.gram.Name(e.sym), Action{Type: ActionTypeGoTo, Num: cur}, Action{Type: ActionTypeGoTo, Num: to}, nil)
				}
				continue
			}
			seen[me] = to
			edges = append(edges, &lalr1Edge{
				from: from,
				sym:  e.sym,
				to:   to,
			})
		}
	}

	return &lalr1Automaton{
		states:  states,
		groups:  groups,
		groupOf: groupOf,
		edges:   edges,
	}, nil
}

func genStateName(members []int) string {
	var b strings.Builder
	b.WriteString("I")
	for _, m := range members {
		b.WriteString("_")
		b.WriteString(strconv.Itoa(m))
	}
	return b.String()
}
