package shortestpaths_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/shortestpaths"
)

func TestRecomputeLinearChain(t *testing.T) {
	// 0 --op0--> 1 --op1--> 2, both cost 1, goal={2}, init=0.
	in := [][]shortestpaths.Transition{
		{},
		{{OpID: 0, TargetID: 0}},
		{{OpID: 1, TargetID: 1}},
	}
	out := [][]shortestpaths.Transition{
		{{OpID: 0, TargetID: 1}},
		{{OpID: 1, TargetID: 2}},
		{},
	}
	sp := shortestpaths.New([]int{1, 1})
	goals := map[int]bool{2: true}
	sp.Recompute(in, out, goals, 0)

	require.Equal(t, 2, sp.GoalDistance32(0))
	require.Equal(t, 1, sp.GoalDistance32(1))
	require.Equal(t, 0, sp.GoalDistance32(2))

	require.Equal(t, 0, sp.InitDistance32(0))
	require.Equal(t, 1, sp.InitDistance32(1))
	require.Equal(t, 2, sp.InitDistance32(2))

	solution := sp.ExtractSolution(0, goals)
	require.Equal(t, []shortestpaths.Transition{{OpID: 0, TargetID: 1}, {OpID: 1, TargetID: 2}}, solution)

	require.True(t, sp.IsOptimalTransition(0, 0, 1))
	require.True(t, sp.IsOptimalTransition(1, 1, 2))
	require.True(t, sp.IsBackwardOptimalTransition(1, 0, 0))
}

func TestRecomputeUnreachableGoalIsInf(t *testing.T) {
	in := [][]shortestpaths.Transition{{}, {}}
	out := [][]shortestpaths.Transition{{}, {}}
	sp := shortestpaths.New([]int{1})
	sp.Recompute(in, out, map[int]bool{1: true}, 0)

	require.Equal(t, -1, sp.GoalDistance32(0))
	require.Nil(t, sp.ExtractSolution(0, map[int]bool{1: true}))
}

func TestUpdateIncrementallyIsolatesUnreachableSplitChild(t *testing.T) {
	// Before split: 0 --op0--> 1 (goal), init=0.
	in := [][]shortestpaths.Transition{
		{},
		{{OpID: 0, TargetID: 0}},
	}
	out := [][]shortestpaths.Transition{
		{{OpID: 0, TargetID: 1}},
		{},
	}
	sp := shortestpaths.New([]int{1})
	goals := map[int]bool{1: true}
	sp.Recompute(in, out, goals, 0)
	require.Equal(t, 1, sp.GoalDistance32(0))
	require.Equal(t, 0, sp.InitDistance32(0))

	// State 0 splits into v1=0 (keeps the op0->1 edge) and v2=2 (isolated).
	newIn := [][]shortestpaths.Transition{
		{},
		{{OpID: 0, TargetID: 0}},
		{},
	}
	newOut := [][]shortestpaths.Transition{
		{{OpID: 0, TargetID: 1}},
		{},
		{},
	}
	sp.UpdateIncrementally(newIn, newOut, 0, 0, 2, goals, 0)

	require.Equal(t, 1, sp.GoalDistance32(0))
	require.Equal(t, -1, sp.GoalDistance32(2))
	require.Equal(t, 0, sp.InitDistance32(0))
	require.Equal(t, -1, sp.InitDistance32(2))
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	in := [][]shortestpaths.Transition{
		{},
		{{OpID: 0, TargetID: 0}},
	}
	out := [][]shortestpaths.Transition{
		{{OpID: 0, TargetID: 1}},
		{},
	}
	sp := shortestpaths.New([]int{1})
	goals := map[int]bool{1: true}
	sp.Recompute(in, out, goals, 0)

	clone := sp.Clone()
	require.Equal(t, sp.GoalDistance32(0), clone.GoalDistance32(0))

	// Split state 0 on the clone only; the original must be unaffected.
	newIn := [][]shortestpaths.Transition{{}, {{OpID: 0, TargetID: 0}}, {}}
	newOut := [][]shortestpaths.Transition{{{OpID: 0, TargetID: 1}}, {}, {}}
	clone.UpdateIncrementally(newIn, newOut, 0, 0, 2, goals, 0)

	require.Equal(t, -1, clone.GoalDistance32(2))
	require.Equal(t, 1, sp.GoalDistance32(0), "original must still report the pre-split distance")
	require.Panics(t, func() { sp.GoalDistance32(2) }, "original's distance tree must not have grown to the clone's size")
}

func TestZeroCostOperatorsUsePackedStepTieBreak(t *testing.T) {
	sp := shortestpaths.New([]int{0, 1})

	in := [][]shortestpaths.Transition{
		{},
		{{OpID: 0, TargetID: 0}},
	}
	out := [][]shortestpaths.Transition{
		{{OpID: 0, TargetID: 1}},
		{},
	}
	sp.Recompute(in, out, map[int]bool{1: true}, 0)

	// Real cost of traversing the single zero-cost operator is 0, even
	// though internally the step count advanced by one.
	require.Equal(t, 0, sp.GoalDistance32(0))
	require.True(t, sp.IsOptimalTransition(0, 0, 1))
}
