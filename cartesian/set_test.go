package cartesian_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/cartesian"
)

func TestNewSetIsFull(t *testing.T) {
	s := cartesian.NewSet([]int{3, 70})
	require.True(t, s.AllValuesSet(0))
	require.True(t, s.AllValuesSet(1))
	require.Equal(t, 3, s.Count(0))
	require.Equal(t, 70, s.Count(1))
}

func TestNewEmptySetIsEmpty(t *testing.T) {
	s := cartesian.NewEmptySet([]int{4, 4})
	require.True(t, s.IsEmpty())
	require.Equal(t, 0, s.Count(0))
}

func TestAddRemoveSingleValue(t *testing.T) {
	s := cartesian.NewEmptySet([]int{5})
	s.Add(0, 2)
	require.True(t, s.Test(0, 2))
	require.False(t, s.Test(0, 3))
	s.Remove(0, 2)
	require.False(t, s.Test(0, 2))
}

func TestSetSingleValue(t *testing.T) {
	s := cartesian.NewSet([]int{5})
	s.SetSingleValue(0, 3)
	require.Equal(t, 1, s.Count(0))
	require.True(t, s.Test(0, 3))
}

func TestValuesAcrossWordBoundary(t *testing.T) {
	s := cartesian.NewEmptySet([]int{130})
	s.Add(0, 0)
	s.Add(0, 63)
	s.Add(0, 64)
	s.Add(0, 129)
	require.Equal(t, []int{0, 63, 64, 129}, s.Values(0))
}

func TestIntersectsAndIsSupersetOf(t *testing.T) {
	a := cartesian.NewEmptySet([]int{4})
	a.Add(0, 0)
	a.Add(0, 1)
	b := cartesian.NewEmptySet([]int{4})
	b.Add(0, 1)
	b.Add(0, 2)

	require.True(t, a.Intersects(b))
	require.False(t, a.IsSupersetOf(b))

	c := cartesian.NewEmptySet([]int{4})
	c.Add(0, 1)
	require.True(t, a.IsSupersetOf(c))
}

func TestIntersection(t *testing.T) {
	a := cartesian.NewEmptySet([]int{4})
	a.Add(0, 0)
	a.Add(0, 1)
	b := cartesian.NewEmptySet([]int{4})
	b.Add(0, 1)
	b.Add(0, 2)

	out := a.Intersection(b)
	require.Equal(t, []int{1}, out.Values(0))
	// a and b are untouched.
	require.Equal(t, []int{0, 1}, a.Values(0))
}

func TestCloneIsIndependent(t *testing.T) {
	a := cartesian.NewEmptySet([]int{4})
	a.Add(0, 0)
	b := a.Clone()
	b.Add(0, 1)
	require.Equal(t, []int{0}, a.Values(0))
	require.Equal(t, []int{0, 1}, b.Values(0))
}
