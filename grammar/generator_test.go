package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_deterministic(t *testing.T) {
	for _, spec := range []*Spec{testSpecLeftRecursion, testSpecAssignment, testSpecArithmetic} {
		first, err := Generate(spec)
		require.NoError(t, err)
		second, err := Generate(spec)
		require.NoError(t, err)

		assert.True(t, first.Table.Equals(second.Table))
		require.Len(t, second.States, len(first.States))
		for i, state := range first.States {
			assert.Equal(t, state.Name, second.States[i].Name)
			assert.Equal(t, state.Set.Expression(), second.States[i].Set.Expression())
		}
	}
}

func TestGenerate_assignment(t *testing.T) {
	data, err := Generate(testSpecAssignment)
	require.NoError(t, err)

	assert.Equal(t, 10, data.Table.StateCount)
	assert.Len(t, data.States, 10)
	assert.True(t, data.Table.HasAccept())

	// Every shift targets the state its terminal edge leads to.
	for s := 0; s < data.Table.StateCount; s++ {
		for _, term := range data.Table.Terminals {
			act := data.Table.Action(s, term)
			if act.Type != ActionTypeShift {
				continue
			}
			next, ok := data.Table.GoTo(s, term)
			require.True(t, ok)
			assert.Equal(t, next, act.Num)
		}
	}
}

func TestGenerate_invalidGrammar(t *testing.T) {
	_, err := Generate(&Spec{
		Terminals:    []string{"a"},
		NonTerminals: []string{"S"},
		Productions:  []string{"S -> b"},
	})
	assert.Error(t, err)
}

func TestGenerator_reachesEveryState(t *testing.T) {
	data, err := Generate(testSpecArithmetic)
	require.NoError(t, err)

	reached := map[int]bool{0: true}
	queue := []int{0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range append(append([]string{}, data.Table.Terminals...), data.Table.NonTerminals...) {
			next, ok := data.Table.GoTo(s, sym)
			if !ok || reached[next] {
				continue
			}
			reached[next] = true
			queue = append(queue, next)
		}
	}
	assert.Len(t, reached, data.Table.StateCount)
}
