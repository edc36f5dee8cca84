package heuristic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/abstraction"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/heuristic"
	"github.com/gocegar/planner/shortestpaths"
	"github.com/gocegar/planner/task"
)

// buildSplitAbstraction builds the trivial one-state abstraction over a
// single cost-3 operator that flips var 0 from 0 to 1, then splits the
// initial state on var 0 — the same shape cegar's pre-refinement pass
// produces for a single-goal-fact task.
func buildSplitAbstraction(t *testing.T) (*abstraction.Abstraction, *shortestpaths.ShortestPaths) {
	domainSizes := []int{2}
	tk := &task.StaticTask{
		DomainSizes: domainSizes,
		Init:        []int{0},
		GoalFacts:   []task.Fact{{Var: 0, Value: 1}},
		Ops: []task.Operator{
			{ID: 0, Name: "flip", Cost: 3, Effects: []task.Fact{{Var: 0, Value: 1}}},
		},
	}
	ops := []disambig.Operator{disambig.NewOperator(tk.Ops[0], domainSizes, task.NoMutexes{})}
	a := abstraction.New(tk, ops, false)
	a.Refine(a.InitialState(), 0, []int{1})

	sp := shortestpaths.New([]int{3})
	sp.Recompute(a.TransitionSystem().GetIncomingTransitions(), a.TransitionSystem().GetOutgoingTransitions(), a.Goals(), a.InitialState().ID())
	return a, sp
}

func TestNewComputesGoalDistancesAndSaturatedCosts(t *testing.T) {
	a, sp := buildSplitAbstraction(t)
	fn := heuristic.New(a, sp)

	require.Equal(t, 2, len(fn.GoalDistances))
	require.Equal(t, 1, len(fn.SaturatedCosts))
	// The only operator carries its full cost from the non-goal state to
	// the goal state: saturating it for this abstraction needs exactly 3.
	require.Equal(t, 3, fn.SaturatedCosts[0])
}

func TestFunctionValueReportsGoalDistanceForEachConcreteState(t *testing.T) {
	a, sp := buildSplitAbstraction(t)
	fn := heuristic.New(a, sp)

	require.Equal(t, 0, fn.Value([]int{1}), "already at the goal value")
	require.Equal(t, 3, fn.Value([]int{0}), "one operator application away")
}

func TestWriteDOTEmitsInitEdgeAndGoalShape(t *testing.T) {
	a, _ := buildSplitAbstraction(t)

	var buf strings.Builder
	err := heuristic.WriteDOT(&buf, a)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "digraph transition_system {")
	require.Contains(t, out, "doublecircle")
	require.Contains(t, out, "init ->")
	require.Contains(t, out, "\"flip\"")
}
