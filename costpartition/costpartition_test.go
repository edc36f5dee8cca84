package costpartition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/costpartition"
	"github.com/gocegar/planner/task"
)

// twoIndependentGoalsTask has two variables, each reached by its own
// unconditional cost-1 operator that doesn't touch the other variable:
// an additive ensemble over the two goal facts should need exactly one
// unit of cost per fact, with no double-counting or interference.
func twoIndependentGoalsTask() *task.StaticTask {
	return &task.StaticTask{
		DomainSizes: []int{2, 2},
		Init:        []int{0, 0},
		GoalFacts:   []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}},
		Ops: []task.Operator{
			{ID: 0, Name: "achieve-var0", Cost: 1, Effects: []task.Fact{{Var: 0, Value: 1}}},
			{ID: 1, Name: "achieve-var1", Cost: 1, Effects: []task.Fact{{Var: 1, Value: 1}}},
		},
	}
}

func TestGoalDecompositionProducesOneSubtaskPerGoalFact(t *testing.T) {
	tk := twoIndependentGoalsTask()
	subtasks := costpartition.GoalDecomposition(tk)

	require.Len(t, subtasks, 2)
	require.Equal(t, []task.Fact{{Var: 0, Value: 1}}, subtasks[0].Goal())
	require.Equal(t, []task.Fact{{Var: 1, Value: 1}}, subtasks[1].Goal())
	// Everything but the goal is inherited unchanged from the parent task.
	require.Equal(t, tk.Operators(), subtasks[0].Operators())
	require.Equal(t, tk.InitialState(), subtasks[1].InitialState())
}

func TestBuildSumsIndependentAbstractionsAdditively(t *testing.T) {
	tk := twoIndependentGoalsTask()
	subtasks := costpartition.GoalDecomposition(tk)

	ens, err := costpartition.Build(context.Background(), subtasks)
	require.NoError(t, err)
	require.Equal(t, 2, ens.NumAbstractions())

	require.Equal(t, 2, ens.Value([]int{0, 0}), "neither goal fact reached yet: one unit of cost each")
	require.Equal(t, 1, ens.Value([]int{1, 0}), "only var0's goal fact reached")
	require.Equal(t, 1, ens.Value([]int{0, 1}), "only var1's goal fact reached")
	require.Equal(t, 0, ens.Value([]int{1, 1}), "both goal facts already reached")
}

func TestBuildWithNoSubtasksReturnsEmptyEnsemble(t *testing.T) {
	ens, err := costpartition.Build(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, ens.NumAbstractions())
}
