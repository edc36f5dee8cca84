package cartesian_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/task"
)

func fullState(domainSizes []int) cartesian.State {
	return cartesian.NewState(cartesian.NewSet(domainSizes))
}

func TestIsApplicable(t *testing.T) {
	s := fullState([]int{2, 2})
	op := task.Operator{Preconditions: []task.Fact{{Var: 0, Value: 1}}}
	require.True(t, s.IsApplicable(op))

	s.Set.SetSingleValue(0, 0)
	require.False(t, s.IsApplicable(op))
}

func TestProgressSetsEffectAndPrecondition(t *testing.T) {
	s := fullState([]int{2, 2})
	op := task.Operator{
		Preconditions: []task.Fact{{Var: 0, Value: 0}},
		Effects:       []task.Fact{{Var: 1, Value: 1}},
	}
	out := s.Progress(op)
	require.True(t, out.Includes(task.Fact{Var: 0, Value: 0}))
	require.True(t, out.Includes(task.Fact{Var: 1, Value: 1}))
	require.False(t, out.Includes(task.Fact{Var: 1, Value: 0}))
}

func TestRegressWidensEffectVars(t *testing.T) {
	s := fullState([]int{2, 2})
	s.Set.SetSingleValue(1, 1)
	op := task.Operator{
		Preconditions: []task.Fact{{Var: 0, Value: 0}},
		Effects:       []task.Fact{{Var: 1, Value: 1}},
	}
	out := s.Regress(op)
	require.True(t, out.Includes(task.Fact{Var: 0, Value: 0}))
	require.True(t, out.Set.AllValuesSet(1))
}

func TestIsBackwardApplicable(t *testing.T) {
	s := fullState([]int{2, 2})
	s.Set.SetSingleValue(1, 1)
	op := task.Operator{
		Preconditions: []task.Fact{{Var: 0, Value: 0}},
		Effects:       []task.Fact{{Var: 1, Value: 1}},
	}
	require.True(t, s.IsBackwardApplicable(op))

	s2 := fullState([]int{2, 2})
	s2.Set.SetSingleValue(1, 0)
	require.False(t, s2.IsBackwardApplicable(op))
}

func TestUndeviateReplacesDisjointVars(t *testing.T) {
	a := fullState([]int{4})
	a.Set.SetSingleValue(0, 0)
	b := fullState([]int{4})
	b.Set.SetSingleValue(0, 2)

	out := a.Undeviate(b)
	require.Equal(t, []int{2}, out.Set.Values(0))
}
