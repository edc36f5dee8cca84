package disambig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/task"
)

type singlePairMutex struct{ a, b task.Fact }

func (m singlePairMutex) AreFactsMutex(f1, f2 task.Fact) bool {
	return (f1 == m.a && f2 == m.b) || (f1 == m.b && f2 == m.a)
}

func TestNewOperatorBasic(t *testing.T) {
	op := task.Operator{
		ID:            3,
		Name:          "pick-up",
		Preconditions: []task.Fact{{Var: 0, Value: 1}},
		Effects:       []task.Fact{{Var: 1, Value: 0}},
		Cost:          2,
	}
	d := disambig.NewOperator(op, []int{2, 2}, task.NoMutexes{})

	require.False(t, d.IsRedundant())
	require.True(t, d.Precondition.Test(0, 1))
	require.False(t, d.Precondition.Test(0, 0))
	val, ok := d.GetEffect(1)
	require.True(t, ok)
	require.Equal(t, 0, val)
	_, ok = d.GetEffect(0)
	require.False(t, ok)
	require.Equal(t, 3, d.ID())
	require.Equal(t, "pick-up", d.Name())
	require.Equal(t, 2, d.Cost())
}

func TestNewOperatorEmptyEffectIsRedundant(t *testing.T) {
	op := task.Operator{Preconditions: []task.Fact{{Var: 0, Value: 0}}}
	d := disambig.NewOperator(op, []int{2}, task.NoMutexes{})
	require.True(t, d.IsRedundant())
}

func TestNewOperatorSpuriousPreconditionIsRedundant(t *testing.T) {
	op := task.Operator{
		Preconditions: []task.Fact{{Var: 0, Value: 0}, {Var: 1, Value: 0}},
		Effects:       []task.Fact{{Var: 2, Value: 1}},
	}
	d := disambig.NewOperator(op, []int{2, 2, 2}, singlePairMutex{
		a: task.Fact{Var: 0, Value: 0}, b: task.Fact{Var: 1, Value: 0},
	})
	require.True(t, d.IsRedundant())
}
