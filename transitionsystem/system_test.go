package transitionsystem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/task"
	"github.com/gocegar/planner/transitionsystem"
)

// fakeState is a minimal transitionsystem.AbstractState for tests.
type fakeState struct {
	id int
	cs cartesian.State
}

func (f fakeState) ID() int                            { return f.id }
func (f fakeState) CartesianState() cartesian.State     { return f.cs }

func newOp(id int, preVar, preVal, effVar, effVal int, domainSizes []int) disambig.Operator {
	op := task.Operator{
		ID:            id,
		Preconditions: []task.Fact{{Var: preVar, Value: preVal}},
		Effects:       []task.Fact{{Var: effVar, Value: effVal}},
	}
	return disambig.NewOperator(op, domainSizes, task.NoMutexes{})
}

func TestAddLoopsInTrivialAbstraction(t *testing.T) {
	domainSizes := []int{2, 2}
	op := newOp(0, 0, 0, 1, 1, domainSizes)
	ts := transitionsystem.New([]disambig.Operator{op})

	init := cartesian.NewState(cartesian.NewSet(domainSizes))
	ts.AddLoopsInTrivialAbstraction(init, false)

	require.Equal(t, 1, ts.NumLoops())
	require.Equal(t, [][]int{{0}}, ts.GetLoops())
}

func TestRewireSplitsLoopIntoCrossEdges(t *testing.T) {
	domainSizes := []int{2, 2}
	// op: pre var0=0, effect var1=1.
	op := newOp(0, 0, 0, 1, 1, domainSizes)
	ts := transitionsystem.New([]disambig.Operator{op})

	init := cartesian.NewState(cartesian.NewSet(domainSizes))
	ts.AddLoopsInTrivialAbstraction(init, false)

	// Split state 0 on var1: v1 keeps var1={0}, v2 gets var1={1}.
	v1Set := init.Set.Clone()
	v1Set.Remove(1, 1)
	v2Set := init.Set.Clone()
	v2Set.SetSingleValue(1, 1)

	v1 := fakeState{id: 0, cs: cartesian.NewState(v1Set)}
	v2 := fakeState{id: 1, cs: cartesian.NewState(v2Set)}
	states := []transitionsystem.AbstractState{v1, v2}

	oldIn, oldOut := ts.Rewire(states, 0, v1, v2, []int{1}, false)
	require.Empty(t, oldIn)
	require.Empty(t, oldOut)

	// v1 (var1={0}) can no longer loop under op, since op always sets
	// var1=1: it now crosses to v2 instead. v2 (var1={1}) keeps looping,
	// since op's effect lands back in var1=1.
	require.Equal(t, 1, ts.NumLoops())
	require.Equal(t, 1, ts.NumNonLoops())
	require.Equal(t, []transitionsystem.Transition{{OpID: 0, TargetID: 1}}, ts.GetOutgoingTransitions()[0])
	require.Equal(t, [][]int{nil, {0}}, ts.GetLoops())
}

// TestForceNewTransitionsDoesNotAliasSource guards against a scratch
// System seeded via ForceNewTransitions writing through to the real
// System it borrowed its tables from: Rewire always nils out and
// rebuilds the split state's row in-place, so ForceNewTransitions must
// hand the scratch System its own copy of every row, not the source's
// backing arrays.
func TestForceNewTransitionsDoesNotAliasSource(t *testing.T) {
	domainSizes := []int{2, 2}
	op := newOp(0, 0, 0, 1, 1, domainSizes)
	real := transitionsystem.New([]disambig.Operator{op})

	init := cartesian.NewState(cartesian.NewSet(domainSizes))
	real.AddLoopsInTrivialAbstraction(init, false)

	realIncoming := real.GetIncomingTransitions()
	realOutgoing := real.GetOutgoingTransitions()
	realLoops := real.GetLoops()

	scratch := transitionsystem.New([]disambig.Operator{op})
	scratch.ForceNewTransitions(realIncoming, realOutgoing, realLoops)

	v1Set := init.Set.Clone()
	v1Set.Remove(1, 1)
	v2Set := init.Set.Clone()
	v2Set.SetSingleValue(1, 1)
	v1 := fakeState{id: 0, cs: cartesian.NewState(v1Set)}
	v2 := fakeState{id: 1, cs: cartesian.NewState(v2Set)}
	states := []transitionsystem.AbstractState{v1, v2}

	scratch.Rewire(states, 0, v1, v2, []int{1}, true)

	require.Equal(t, 1, real.NumLoops(), "splitting the scratch System must not touch the real one's loop count")
	require.Equal(t, [][]int{{0}}, real.GetLoops(), "real System's loop table must be untouched after scratch.Rewire")
}
