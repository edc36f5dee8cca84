package flawsearch_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/abstraction"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/flawsearch"
	"github.com/gocegar/planner/shortestpaths"
	"github.com/gocegar/planner/task"
)

// buildBrokenTask returns a task whose concrete initial state cannot
// actually satisfy op0's precondition, even though the trivial (and
// once-refined) abstraction over-approximates it as reachable — the
// classic applicability flaw.
func buildBrokenTask(t *testing.T) (*task.StaticTask, []disambig.Operator) {
	domainSizes := []int{2, 2}
	tk := &task.StaticTask{
		DomainSizes: domainSizes,
		Init:        []int{1, 0}, // var0=1, but op0 requires var0=0
		GoalFacts:   []task.Fact{{Var: 1, Value: 1}},
	}
	op := task.Operator{ID: 0, Cost: 1, Preconditions: []task.Fact{{Var: 0, Value: 0}}, Effects: []task.Fact{{Var: 1, Value: 1}}}
	ops := []disambig.Operator{disambig.NewOperator(op, domainSizes, task.NoMutexes{})}
	return tk, ops
}

func buildRefinedAbstraction(t *testing.T, tk *task.StaticTask, ops []disambig.Operator) (*abstraction.Abstraction, *shortestpaths.ShortestPaths) {
	a := abstraction.New(tk, ops, false)
	a.Refine(a.InitialState(), 1, []int{1})

	sp := shortestpaths.New([]int{1})
	sp.Recompute(a.TransitionSystem().GetIncomingTransitions(), a.TransitionSystem().GetOutgoingTransitions(), a.Goals(), a.InitialState().ID())
	return a, sp
}

func TestSearchConcreteFindsApplicabilityFlaw(t *testing.T) {
	tk, ops := buildBrokenTask(t)
	a, sp := buildRefinedAbstraction(t, tk, ops)
	initID := a.InitialState().ID()

	fs := flawsearch.New(tk, a, sp, rand.New(rand.NewSource(1)), flawsearch.First, 10, 100)
	flawed := fs.SearchConcrete(initID)

	require.False(t, flawed.Empty())
	ids := flawed.AbstractStateIDs()
	require.Equal(t, []int{initID}, ids)
	flaws := flawed.Flaws(initID)
	require.Len(t, flaws, 1)
	require.False(t, flaws[0].Deviation)
	require.Equal(t, 0, flaws[0].OpID)
}

func TestSearchSequenceForwardFindsApplicabilityFlaw(t *testing.T) {
	tk, ops := buildBrokenTask(t)
	a, sp := buildRefinedAbstraction(t, tk, ops)
	initID := a.InitialState().ID()

	solution := sp.ExtractSolution(initID, a.Goals())
	require.Len(t, solution, 1)

	fs := flawsearch.New(tk, a, sp, rand.New(rand.NewSource(1)), flawsearch.First, 10, 100)
	flaws := fs.SearchSequenceForward(solution, initID)

	require.Len(t, flaws, 1)
	require.False(t, flaws[0].Deviation)
	require.Equal(t, initID, flaws[0].AbstractStateID)
}

func TestSearchConcreteNoFlawWhenTaskIsSolvable(t *testing.T) {
	domainSizes := []int{2, 2}
	tk := &task.StaticTask{DomainSizes: domainSizes, Init: []int{0, 0}, GoalFacts: []task.Fact{{Var: 1, Value: 1}}}
	op := task.Operator{ID: 0, Cost: 1, Preconditions: []task.Fact{{Var: 0, Value: 0}}, Effects: []task.Fact{{Var: 1, Value: 1}}}
	ops := []disambig.Operator{disambig.NewOperator(op, domainSizes, task.NoMutexes{})}
	a, sp := buildRefinedAbstraction(t, tk, ops)
	initID := a.InitialState().ID()

	fs := flawsearch.New(tk, a, sp, rand.New(rand.NewSource(1)), flawsearch.First, 10, 100)
	flawed := fs.SearchConcrete(initID)

	require.True(t, flawed.Empty())
}
