package disambig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/task"
)

// chainMutex makes variable 0's value 0 mutex with every value of
// variable 1, so value 0 has no compatible partner and must be removed.
type chainMutex struct{}

func (chainMutex) AreFactsMutex(f1, f2 task.Fact) bool {
	isZero := func(f task.Fact) bool { return f.Var == 0 && f.Value == 0 }
	isVar1 := func(f task.Fact) bool { return f.Var == 1 }
	return (isZero(f1) && isVar1(f2)) || (isZero(f2) && isVar1(f1))
}

func TestDisambiguateNoMutexesNoChange(t *testing.T) {
	s := cartesian.NewSet([]int{2, 2})
	changed := disambig.Disambiguate(s, task.NoMutexes{})
	require.False(t, changed)
	require.False(t, s.IsEmpty())
}

func TestDisambiguateRemovesIncompatibleValue(t *testing.T) {
	s := cartesian.NewSet([]int{2, 2})
	changed := disambig.Disambiguate(s, chainMutex{})
	require.True(t, changed)
	require.False(t, s.Test(0, 0))
	require.True(t, s.Test(0, 1))
	require.True(t, s.Test(1, 0))
	require.True(t, s.Test(1, 1))
}

func TestDisambiguateEmptiesSpuriousState(t *testing.T) {
	s := cartesian.NewEmptySet([]int{2, 2})
	s.Add(0, 0)
	s.Add(1, 0)
	s.Add(1, 1)
	changed := disambig.Disambiguate(s, chainMutex{})
	require.True(t, changed)
	require.True(t, s.IsEmpty())
}
