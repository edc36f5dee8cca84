package transitionsystem

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/disambig"
)

// AbstractState is the minimal view System needs of an abstract state: a
// stable ID and the Cartesian set it stands for. abstraction.State
// satisfies this.
type AbstractState interface {
	ID() int
	CartesianState() cartesian.State
}

// System owns the incoming/outgoing transitions and self-loops for every
// abstract state, indexed by state ID.
type System struct {
	operators []disambig.Operator

	incoming [][]Transition
	outgoing [][]Transition
	loops    [][]int // operator IDs

	numNonLoops int
	numLoops    int
}

// New returns an empty System over ops. Call AddLoopsInTrivialAbstraction
// once the trivial, single-state abstraction exists.
func New(ops []disambig.Operator) *System {
	return &System{operators: ops}
}

func (ts *System) enlargeByOne() {
	ts.incoming = append(ts.incoming, nil)
	ts.outgoing = append(ts.outgoing, nil)
	ts.loops = append(ts.loops, nil)
}

// AddLoopsInTrivialAbstraction adds a self-loop at state 0 for every
// non-redundant operator; when disambiguated, only operators applicable
// in and reaching init are looped.
func (ts *System) AddLoopsInTrivialAbstraction(init cartesian.State, disambiguated bool) {
	ts.enlargeByOne()
	const initID = 0
	for _, op := range ts.operators {
		if op.IsRedundant() {
			continue
		}
		if disambiguated {
			if !isApplicable(init, op) || !reaches(init, init, op, allVars(init)) {
				continue
			}
		}
		ts.addLoop(initID, op.ID())
	}
}

func (ts *System) addTransition(srcID, opID, targetID int) {
	ts.outgoing[srcID] = append(ts.outgoing[srcID], Transition{OpID: opID, TargetID: targetID})
	ts.incoming[targetID] = append(ts.incoming[targetID], Transition{OpID: opID, TargetID: srcID})
	ts.numNonLoops++
}

func (ts *System) addLoop(stateID, opID int) {
	ts.loops[stateID] = append(ts.loops[stateID], opID)
	ts.numLoops++
}

// ForceNewTransitions replaces the whole transition table, used to seed a
// scratch System for simulated refinements. Each row is deep-copied so
// that Rewire's in-place mutation of the scratch table (it nils out and
// rebuilds ts.incoming[vID]/ts.outgoing[vID]/ts.loops[vID] on every
// split) can never write through to the System incoming/outgoing/loops
// were borrowed from.
func (ts *System) ForceNewTransitions(incoming, outgoing [][]Transition, loops [][]int) {
	ts.incoming = copyTransitionRows(incoming)
	ts.outgoing = copyTransitionRows(outgoing)
	ts.loops = copyOpIDRows(loops)
}

func copyTransitionRows(rows [][]Transition) [][]Transition {
	out := make([][]Transition, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		out[i] = append([]Transition(nil), row...)
	}
	return out
}

func copyOpIDRows(rows [][]int) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Rewire updates the transition table after state vID has been split into
// v1 and v2 (one of them keeps vID's old ID, the other has the freshly
// allocated next ID). modifiedVars
// is the set of variables whose subset differs between the parent and
// either child — the only axis along which reachability can have
// changed, so transitions are only re-checked there.
//
// simulated callers can omit loop re-derivation (it will not be read
// again), but cross edges between v1 and v2 are always produced since
// they feed the caller's distance update.
func (ts *System) Rewire(states []AbstractState, vID int, v1, v2 AbstractState, modifiedVars []int, simulated bool) (oldIncoming, oldOutgoing []Transition) {
	oldIncoming = ts.incoming[vID]
	oldOutgoing = ts.outgoing[vID]
	oldLoops := ts.loops[vID]
	ts.incoming[vID] = nil
	ts.outgoing[vID] = nil
	ts.loops[vID] = nil
	ts.enlargeByOne()

	ts.rewireIncoming(oldIncoming, states, vID, v1, v2, modifiedVars)
	ts.rewireOutgoing(oldOutgoing, states, vID, v1, v2, modifiedVars)
	ts.rewireLoops(oldLoops, v1, v2, modifiedVars, simulated)

	return oldIncoming, oldOutgoing
}

func (ts *System) rewireIncoming(oldIncoming []Transition, states []AbstractState, vID int, v1, v2 AbstractState, modifiedVars []int) {
	v1ID, v2ID := v1.ID(), v2.ID()

	updated := make(map[int]bool, len(oldIncoming))
	for _, t := range oldIncoming {
		uID := t.TargetID
		if !updated[uID] {
			updated[uID] = true
			ts.outgoing[uID] = removeTransitionsWithTarget(ts.outgoing[uID], vID)
		}
	}
	ts.numNonLoops -= len(oldIncoming)

	for _, t := range oldIncoming {
		opID, uID := t.OpID, t.TargetID
		u := states[uID].CartesianState()
		op := ts.operators[opID]
		if reaches(u, v1.CartesianState(), op, modifiedVars) {
			ts.addTransition(uID, opID, v1ID)
		}
		if reaches(u, v2.CartesianState(), op, modifiedVars) {
			ts.addTransition(uID, opID, v2ID)
		}
	}
}

func (ts *System) rewireOutgoing(oldOutgoing []Transition, states []AbstractState, vID int, v1, v2 AbstractState, modifiedVars []int) {
	v1ID, v2ID := v1.ID(), v2.ID()

	updated := make(map[int]bool, len(oldOutgoing))
	for _, t := range oldOutgoing {
		wID := t.TargetID
		if !updated[wID] {
			updated[wID] = true
			ts.incoming[wID] = removeTransitionsWithTarget(ts.incoming[wID], vID)
		}
	}
	ts.numNonLoops -= len(oldOutgoing)

	for _, t := range oldOutgoing {
		opID, wID := t.OpID, t.TargetID
		w := states[wID].CartesianState()
		op := ts.operators[opID]
		v1s, v2s := v1.CartesianState(), v2.CartesianState()
		if isApplicableVars(v1s, op, modifiedVars) && reaches(v1s, w, op, modifiedVars) {
			ts.addTransition(v1ID, opID, wID)
		}
		if isApplicableVars(v2s, op, modifiedVars) && reaches(v2s, w, op, modifiedVars) {
			ts.addTransition(v2ID, opID, wID)
		}
	}
}

func (ts *System) rewireLoops(oldLoops []int, v1, v2 AbstractState, modifiedVars []int, simulated bool) {
	v1ID, v2ID := v1.ID(), v2.ID()
	v1s, v2s := v1.CartesianState(), v2.CartesianState()

	for _, opID := range oldLoops {
		op := ts.operators[opID]
		applicableV1 := isApplicableVars(v1s, op, modifiedVars)
		applicableV2 := isApplicableVars(v2s, op, modifiedVars)
		reachV1FromV1 := reaches(v1s, v1s, op, modifiedVars)
		reachV2FromV1 := reaches(v1s, v2s, op, modifiedVars)
		reachV1FromV2 := reaches(v2s, v1s, op, modifiedVars)
		reachV2FromV2 := reaches(v2s, v2s, op, modifiedVars)

		if !simulated {
			if reachV1FromV1 && applicableV1 {
				ts.addLoop(v1ID, opID)
			}
			if reachV2FromV2 && applicableV2 {
				ts.addLoop(v2ID, opID)
			}
		}
		if reachV2FromV1 && applicableV1 {
			ts.addTransition(v1ID, opID, v2ID)
		}
		if reachV1FromV2 && applicableV2 {
			ts.addTransition(v2ID, opID, v1ID)
		}
	}
	ts.numLoops -= len(oldLoops)
}

// isApplicable reports whether op's disambiguated precondition intersects
// state in every variable.
func isApplicable(state cartesian.State, op disambig.Operator) bool {
	return state.Set.Intersects(op.Precondition)
}

// isApplicableVars is isApplicable restricted to vars, used when the rest
// of the variables are already known (from an earlier, wider check) to be
// consistent.
func isApplicableVars(state cartesian.State, op disambig.Operator, vars []int) bool {
	for _, v := range vars {
		if !state.Set.IntersectsVar(op.Precondition, v) {
			return false
		}
	}
	return true
}

// reaches reports whether applying op in from can land in to, restricted
// to vars: for each variable op assigns, the assigned value must be
// reachable in to and from must overlap op's precondition there; for each
// variable op leaves untouched (a prevail variable), from and to must
// still agree through op's precondition.
func reaches(from, to cartesian.State, op disambig.Operator, vars []int) bool {
	for _, v := range vars {
		if !from.Set.IntersectsVar(op.Precondition, v) {
			return false
		}
		if val, ok := op.GetEffect(v); ok {
			if !to.Set.Test(v, val) {
				return false
			}
		} else if !from.Set.IntersectsVar(to.Set, v) {
			return false
		}
	}
	return true
}

func allVars(state cartesian.State) []int {
	vars := make([]int, state.Set.NVars())
	for i := range vars {
		vars[i] = i
	}
	return vars
}

// GetIncomingTransitions returns the transition table into every state.
func (ts *System) GetIncomingTransitions() [][]Transition { return ts.incoming }

// GetOutgoingTransitions returns the transition table out of every state.
func (ts *System) GetOutgoingTransitions() [][]Transition { return ts.outgoing }

// GetLoops returns the self-loop operator IDs for every state.
func (ts *System) GetLoops() [][]int { return ts.loops }

// GetPreconditions returns the disambiguated precondition of operator opID.
func (ts *System) GetPreconditions(opID int) cartesian.Set { return ts.operators[opID].Precondition }

// NumStates returns the number of states the transition table spans.
func (ts *System) NumStates() int { return len(ts.outgoing) }

// NumOperators returns the number of operators known to the system.
func (ts *System) NumOperators() int { return len(ts.operators) }

// NumNonLoops returns the current count of non-self-loop transitions.
func (ts *System) NumNonLoops() int { return ts.numNonLoops }

// NumLoops returns the current count of self-loop transitions.
func (ts *System) NumLoops() int { return ts.numLoops }

// Operators returns the operators this system was built over.
func (ts *System) Operators() []disambig.Operator { return ts.operators }
