package abstraction

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/refinement"
	"github.com/gocegar/planner/task"
	"github.com/gocegar/planner/transitionsystem"
)

// NoAbstractState is the placeholder left-state-id used for hierarchy
// splits that exist purely to route disambiguation-dropped values to a
// dead end — no real abstract state corresponds to that branch.
const NoAbstractState = -1

// SimulatedRefinement is the result of scoring a candidate split without
// mutating the real abstraction: a scratch transition system, the goal
// set after the (simulated) split, and the transitions the real v_id
// state had before the split — everything a caller needs to run
// ShortestPaths.UpdateIncrementally on a Clone of its ShortestPaths
// against it.
type SimulatedRefinement struct {
	TransitionSystem *transitionsystem.System
	Goals            map[int]bool
	V1ID             int
	V2ID             int
	Disambiguated    bool
	OldIncoming      []transitionsystem.Transition
	OldOutgoing      []transitionsystem.Transition
}

// Abstraction owns the set of abstract states for one Cartesian
// abstraction: their Cartesian sets, the refinement hierarchy mapping
// concrete states down to them, and the transition system between them.
type Abstraction struct {
	t            task.Task
	concreteInit []int
	goalFacts    []task.Fact
	mutexes      task.MutexOracle
	disambiguate bool

	ts        *transitionsystem.System
	hierarchy *refinement.Hierarchy

	states []State
	initID int
	goals  map[int]bool

	nDisambiguations int
	nRemovedStates   int
}

// New creates the trivial, single-state abstraction over t: disambiguates
// the initial state (if disambiguate is set) and adds its self-loops.
func New(t task.Task, ops []disambig.Operator, disambiguate bool) *Abstraction {
	domainSizes := task.DomainSizes(t)
	a := &Abstraction{
		t:            t,
		concreteInit: t.InitialState(),
		goalFacts:    t.Goal(),
		mutexes:      t.Mutexes(),
		disambiguate: disambiguate,
		ts:           transitionsystem.New(ops),
		hierarchy:    refinement.New(t),
		goals:        map[int]bool{0: true},
	}
	init := NewState(0, 0, cartesian.NewSet(domainSizes))
	disambiguated := a.disambiguateState(&init)
	a.states = []State{init}
	a.ts.AddLoopsInTrivialAbstraction(init.CartesianState(), disambiguated)
	return a
}

func (a *Abstraction) disambiguateState(s *State) bool {
	if !a.disambiguate {
		return false
	}
	changed := disambig.Disambiguate(s.set, a.mutexes)
	if changed {
		a.nDisambiguations++
	}
	return changed
}

// NumStates returns the number of abstract states.
func (a *Abstraction) NumStates() int { return len(a.states) }

// InitialState returns the abstract state containing the concrete
// initial state.
func (a *Abstraction) InitialState() State { return a.states[a.initID] }

// State returns the abstract state with the given ID.
func (a *Abstraction) State(id int) State { return a.states[id] }

// Goals returns the current set of goal state IDs.
func (a *Abstraction) Goals() map[int]bool { return a.goals }

// TransitionSystem returns the abstraction's transition table.
func (a *Abstraction) TransitionSystem() *transitionsystem.System { return a.ts }

// Hierarchy returns the abstraction's refinement hierarchy.
func (a *Abstraction) Hierarchy() *refinement.Hierarchy { return a.hierarchy }

// GetAbstractStateID returns the ID of the abstract state concreteState
// belongs to.
func (a *Abstraction) GetAbstractStateID(concreteState []int) int {
	return a.hierarchy.GetAbstractStateID(concreteState)
}

func (a *Abstraction) includesGoal(s State) bool {
	for _, f := range a.goalFacts {
		if !s.set.Test(f.Var, f.Value) {
			return false
		}
	}
	return true
}

// MarkAllGoalStatesAsGoals rescans every state against the goal facts.
// Used after a burst of splits that isolate relaxed-unreachable values
// may have silently dropped or created goal states.
func (a *Abstraction) MarkAllGoalStatesAsGoals() {
	a.goals = make(map[int]bool)
	for _, s := range a.states {
		if a.includesGoal(s) {
			a.goals[s.id] = true
		}
	}
}

func (a *Abstraction) asAbstractStates() []transitionsystem.AbstractState {
	out := make([]transitionsystem.AbstractState, len(a.states))
	for i, s := range a.states {
		out[i] = s
	}
	return out
}

type splitResult struct {
	v1ID, v2ID     int
	v2Values       []int
	v1Set, v2Set   cartesian.Set
}

// split partitions state's subset of v into the values in wanted and
// everything else, then decides which side keeps state's ID: the larger
// side (fewer helper nodes needed in the hierarchy), and — overriding
// that — whichever side still contains the concrete initial state's
// value, since init must always be state 0.
func (a *Abstraction) split(state State, v int, wanted []int) splitResult {
	vID := state.ID()
	v1ID, v2ID := vID, a.NumStates()

	v1Set, v2Set := state.SplitDomain(v, wanted)
	v2Values := append([]int(nil), wanted...)

	if len(v2Values) > 1 {
		v1Values := v1Set.Values(v)
		if len(v2Values) > len(v1Values) {
			v1ID, v2ID = v2ID, v1ID
			v1Set, v2Set = v2Set, v1Set
			v2Values = v1Values
		}
	}

	initVal := a.concreteInit[v]
	if (v1ID == a.initID && v2Set.Test(v, initVal)) || (v2ID == a.initID && v1Set.Test(v, initVal)) {
		v1ID, v2ID = v2ID, v1ID
	}

	return splitResult{v1ID: v1ID, v2ID: v2ID, v2Values: v2Values, v1Set: v1Set, v2Set: v2Set}
}

// resplitForDisambiguation inserts extra hierarchy splits wherever
// disambiguation shrank a variable's subset below what the plain
// partition produced, routing the dropped values to NoAbstractState so
// every concrete value still resolves to some leaf.
func (a *Abstraction) resplitForDisambiguation(v1, v2 *State, parent cartesian.Set, splitVar int, wantedSize int, wantedInV1 bool) []int {
	var modifiedVars []int
	nVars := parent.NVars()
	for analysedVar := 0; analysedVar < nVars; analysedVar++ {
		if parent.IsEqualInVar(v1.set, analysedVar) && parent.IsEqualInVar(v2.set, analysedVar) {
			continue
		}
		modifiedVars = append(modifiedVars, analysedVar)

		if analysedVar != splitVar {
			parentSize := parent.Count(analysedVar)
			a.resplitIfShrunk(v1, analysedVar, parentSize)
			a.resplitIfShrunk(v2, analysedVar, parentSize)
			continue
		}

		if wantedInV1 {
			a.resplitIfShrunk(v1, analysedVar, wantedSize)
			a.resplitIfShrunk(v2, analysedVar, parent.Count(analysedVar)-wantedSize)
		} else {
			a.resplitIfShrunk(v2, analysedVar, wantedSize)
			a.resplitIfShrunk(v1, analysedVar, parent.Count(analysedVar)-wantedSize)
		}
	}
	return modifiedVars
}

func (a *Abstraction) resplitIfShrunk(s *State, v int, expectedCount int) {
	if s.set.Count(v) == expectedCount {
		return
	}
	_, rightID := a.hierarchy.Split(s.nodeID, v, s.set.Values(v), NoAbstractState, s.id)
	s.setNodeID(rightID)
}

// Refine splits state on variable v, routing wanted values to one child
// and everything else to the other. Returns the two children's IDs, and
// the old incoming/outgoing transitions the caller's ShortestPaths needs
// to patch its distances incrementally.
func (a *Abstraction) Refine(state State, v int, wanted []int) (v1ID, v2ID int, disambiguated bool, oldIncoming, oldOutgoing []transitionsystem.Transition) {
	vID := state.ID()
	sp := a.split(state, v, wanted)

	leftNodeID, rightNodeID := a.hierarchy.Split(state.NodeID(), v, sp.v2Values, sp.v1ID, sp.v2ID)
	v1 := NewState(sp.v1ID, leftNodeID, sp.v1Set)
	v2 := NewState(sp.v2ID, rightNodeID, sp.v2Set)

	wantedInV1 := v1.Includes(v, wanted[0])

	disambiguated = false
	if a.disambiguate {
		d1 := a.disambiguateState(&v1)
		d2 := a.disambiguateState(&v2)
		disambiguated = d1 || d2
	}

	var modifiedVars []int
	if disambiguated {
		if v1.set.IsEmpty() {
			a.nRemovedStates++
		}
		if v2.set.IsEmpty() {
			a.nRemovedStates++
		}
		modifiedVars = a.resplitForDisambiguation(&v1, &v2, state.Set(), v, len(wanted), wantedInV1)
	} else {
		modifiedVars = []int{v}
	}

	if a.goals[vID] {
		delete(a.goals, vID)
		if a.includesGoal(v1) {
			a.goals[v1.ID()] = true
		}
		if a.includesGoal(v2) {
			a.goals[v2.ID()] = true
		}
	}

	oldIncoming, oldOutgoing = a.ts.Rewire(a.asAbstractStates(), vID, v1, v2, modifiedVars, false)

	a.states = append(a.states, State{})
	a.states[sp.v1ID] = v1
	a.states[sp.v2ID] = v2

	return sp.v1ID, sp.v2ID, disambiguated, oldIncoming, oldOutgoing
}

// SimulateRefinement scores a candidate split without mutating the real
// abstraction: it builds the two candidate children and rewires a
// scratch transition system seeded from the real one, leaving states,
// hierarchy, and the real transition system untouched.
func (a *Abstraction) SimulateRefinement(state State, v int, wanted []int) SimulatedRefinement {
	vID := state.ID()
	sp := a.split(state, v, wanted)

	v1 := NewState(sp.v1ID, refinement.NodeID(sp.v1ID), sp.v1Set)
	v2 := NewState(sp.v2ID, refinement.NodeID(sp.v2ID), sp.v2Set)

	scratch := transitionsystem.New(a.ts.Operators())
	scratch.ForceNewTransitions(a.ts.GetIncomingTransitions(), a.ts.GetOutgoingTransitions(), a.ts.GetLoops())

	disambiguated := false
	if a.disambiguate {
		d1 := disambig.Disambiguate(v1.set, a.mutexes)
		d2 := disambig.Disambiguate(v2.set, a.mutexes)
		disambiguated = d1 || d2
	}

	var modifiedVars []int
	if disambiguated {
		nVars := state.Set().NVars()
		for analysedVar := 0; analysedVar < nVars; analysedVar++ {
			if !state.Set().IsEqualInVar(v1.set, analysedVar) || !state.Set().IsEqualInVar(v2.set, analysedVar) {
				modifiedVars = append(modifiedVars, analysedVar)
			}
		}
	} else {
		modifiedVars = []int{v}
	}

	goals := make(map[int]bool, len(a.goals))
	for id := range a.goals {
		goals[id] = true
	}
	if goals[vID] {
		delete(goals, vID)
		if a.includesGoal(v1) {
			goals[sp.v1ID] = true
		}
		if a.includesGoal(v2) {
			goals[sp.v2ID] = true
		}
	}

	oldIncoming := append([]transitionsystem.Transition(nil), a.ts.GetIncomingTransitions()[vID]...)
	oldOutgoing := append([]transitionsystem.Transition(nil), a.ts.GetOutgoingTransitions()[vID]...)

	scratch.Rewire(a.asAbstractStates(), vID, v1, v2, modifiedVars, true)

	return SimulatedRefinement{
		TransitionSystem: scratch,
		Goals:            goals,
		V1ID:             sp.v1ID,
		V2ID:             sp.v2ID,
		Disambiguated:    disambiguated,
		OldIncoming:      oldIncoming,
		OldOutgoing:      oldOutgoing,
	}
}
