package splitselector_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/splitselector"
)

func domainInfo(domainSizes, counts []int) splitselector.StateInfo {
	return splitselector.StateInfo{
		DomainSize: func(v int) int { return domainSizes[v] },
		Count:      func(v int) int { return counts[v] },
	}
}

func TestPickMaxCoverPrefersHighestCount(t *testing.T) {
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.MaxCover, splitselector.RandomSplit, nil)
	splits := []splitselector.Split{
		{Var: 0, Values: []int{1}, Count: 2},
		{Var: 0, Values: []int{2}, Count: 5},
	}
	picked := sel.Pick(splits, domainInfo([]int{3}, []int{3}))
	require.Equal(t, 5, picked.Count)
}

func TestPickLowestCostOperatorPrefersCheapest(t *testing.T) {
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.LowestCostOperator, splitselector.RandomSplit, nil)
	splits := []splitselector.Split{
		{Var: 0, Values: []int{1}, OpCost: 5},
		{Var: 0, Values: []int{2}, OpCost: 1},
	}
	picked := sel.Pick(splits, domainInfo([]int{3}, []int{3}))
	require.Equal(t, 1, picked.OpCost)
}

// TestLowestCostOperatorSentinelStillSelects confirms that even when
// every candidate split shares the degenerate cost-1 rating, Pick still
// returns a split rather than refusing to choose.
func TestLowestCostOperatorSentinelStillSelects(t *testing.T) {
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.LowestCostOperator, splitselector.RandomSplit, nil)
	splits := []splitselector.Split{
		{Var: 0, Values: []int{1}, OpCost: 1},
		{Var: 0, Values: []int{2}, OpCost: 1},
	}
	picked := sel.Pick(splits, domainInfo([]int{3}, []int{3}))
	require.NotNil(t, picked)
}

func TestPickGoalDistanceIncreasedUsesSimulator(t *testing.T) {
	splitB := splitselector.Split{Var: 0, Values: []int{2}}
	sim := func(s splitselector.Split, criterion splitselector.PickSplit) bool {
		require.Equal(t, splitselector.GoalDistanceIncreased, criterion)
		return len(s.Values) > 0 && s.Values[0] == 2
	}
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.GoalDistanceIncreased, splitselector.RandomSplit, sim)
	splits := []splitselector.Split{
		{Var: 0, Values: []int{1}},
		splitB,
	}
	picked := sel.Pick(splits, domainInfo([]int{3}, []int{3}))
	require.Equal(t, splitB, *picked)
}

func TestNeedsSimulatorReflectsPrimaryAndTiebreak(t *testing.T) {
	require.False(t, splitselector.New(nil, splitselector.RandomSplit, splitselector.RandomSplit, nil).NeedsSimulator())
	require.True(t, splitselector.New(nil, splitselector.GoalDistanceIncreased, splitselector.RandomSplit, nil).NeedsSimulator())
	require.True(t, splitselector.New(nil, splitselector.RandomSplit, splitselector.OptimalPlanCostIncreased, nil).NeedsSimulator())
}

func TestSetSimulatorRebindsAfterConstruction(t *testing.T) {
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.OptimalPlanCostIncreased, splitselector.RandomSplit, nil)
	require.True(t, sel.NeedsSimulator())

	splitB := splitselector.Split{Var: 0, Values: []int{2}}
	sel.SetSimulator(func(s splitselector.Split, criterion splitselector.PickSplit) bool {
		require.Equal(t, splitselector.OptimalPlanCostIncreased, criterion)
		return s.Values[0] == 2
	})
	splits := []splitselector.Split{{Var: 0, Values: []int{1}}, splitB}
	picked := sel.Pick(splits, domainInfo([]int{3}, []int{3}))
	require.Equal(t, splitB, *picked)
}

func TestPickReturnsNilOnEmpty(t *testing.T) {
	sel := splitselector.New(rand.New(rand.NewSource(1)), splitselector.RandomSplit, splitselector.RandomSplit, nil)
	require.Nil(t, sel.Pick(nil, domainInfo([]int{3}, []int{3})))
}
