package grammar

import (
	"errors"
	"testing"

	verr "github.com/gizbox-lang/gizparse/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLALR1Automaton(t *testing.T) {
	// This grammar belongs to LALR(1) class, not SLR(1). Its canonical collection has 14 states and 4 pairs
	// of them share a core.
	lr1 := genTestLR1Collection(t, testSpecAssignment)
	require.Len(t, lr1.states, 14)

	automaton, err := genLALR1Automaton(lr1)
	require.NoError(t, err)
	require.Len(t, automaton.states, 10)

	t.Run("members of a group share a core", func(t *testing.T) {
		for n, members := range automaton.groups {
			key := lr1.states[members[0]].coreKey()
			for _, m := range members[1:] {
				assert.Equal(t, key, lr1.states[m].coreKey(), "group %v", n)
			}
		}
	})

	t.Run("different groups have different cores", func(t *testing.T) {
		seen := map[string]int{}
		for n, members := range automaton.groups {
			key := lr1.states[members[0]].coreKey()
			if prev, ok := seen[key]; ok {
				t.Fatalf("groups %v and %v have the same core", prev, n)
			}
			seen[key] = n
		}
	})

	t.Run("every canonical state belongs to exactly one group", func(t *testing.T) {
		count := map[int]int{}
		for n, members := range automaton.groups {
			for _, m := range members {
				count[m]++
				assert.Equal(t, n, automaton.groupOf[m])
			}
		}
		for i := range lr1.states {
			assert.Equal(t, 1, count[i], "canonical state %v", i)
		}
	})

	t.Run("groups are ordered by their lowest member", func(t *testing.T) {
		for n := 1; n < len(automaton.groups); n++ {
			assert.Less(t, automaton.groups[n-1][0], automaton.groups[n][0])
		}
	})

	t.Run("a merged state is the union of its members", func(t *testing.T) {
		merged := 0
		for n, members := range automaton.groups {
			state := automaton.states[n]
			assert.Equal(t, n, state.Index)
			assert.Equal(t, genStateName(members), state.Name)
			total := NewItemSet()
			for _, m := range members {
				for _, item := range lr1.states[m].Items() {
					total.Add(item)
					assert.True(t, state.Set.Contains(item))
				}
			}
			assert.Equal(t, total.Len(), state.Set.Len())
			if len(members) > 1 {
				merged++
			}
		}
		assert.Equal(t, 4, merged)
	})

	t.Run("edges are remapped into the merged states", func(t *testing.T) {
		for _, e := range automaton.edges {
			found := false
			for _, m := range automaton.groups[e.from] {
				to, ok := lr1.edges[lrEdge{from: m, sym: e.sym}]
				if !ok {
					continue
				}
				found = true
				assert.Equal(t, e.to, automaton.groupOf[to])
			}
			assert.True(t, found)
		}
	})
}

func TestGenLALR1Automaton_singletonNames(t *testing.T) {
	lr1 := genTestLR1Collection(t, testSpecLeftRecursion)
	automaton, err := genLALR1Automaton(lr1)
	require.NoError(t, err)

	var names []string
	for _, state := range automaton.states {
		names = append(names, state.Name)
	}
	assert.Equal(t, []string{"I_0", "I_1", "I_2", "I_3", "I_4"}, names)
}

func TestGenLALR1Automaton_mergedEdgeWithTwoTargets(t *testing.T) {
	lr1 := genTestLR1Collection(t, testSpecArithmetic)

	// Redirect one edge of a merged group so that the group has two targets on the same symbol.
	var redirected bool
	for i, e1 := range lr1.edgeOrder {
		for _, e2 := range lr1.edgeOrder[i+1:] {
			if e1.sym != e2.sym || e1.from == e2.from {
				continue
			}
			if lr1.states[e1.from].coreKey() != lr1.states[e2.from].coreKey() {
				continue
			}
			lr1.edges[e2] = 0
			redirected = true
			break
		}
		if redirected {
			break
		}
	}
	require.True(t, redirected)

	_, err := genLALR1Automaton(lr1)
	var cErr *ConflictError
	require.True(t, errors.As(err, &cErr), "unexpected error: %v", err)
	assert.Equal(t, ConflictTypeGoTo, cErr.Type)

	kind, ok := verr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, verr.KindConflict, kind)
}
