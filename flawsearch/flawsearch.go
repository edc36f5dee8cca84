package flawsearch

import (
	"math/rand"

	"github.com/gocegar/planner/abstraction"
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/shortestpaths"
	"github.com/gocegar/planner/task"
	"github.com/gocegar/planner/transitionsystem"
)

// OptimalTransitions groups an abstract state's outgoing transitions by
// operator, keeping only the ones on some optimal path to a goal.
type OptimalTransitions map[int][]int

// PickFlawedAbstractState selects which flawed abstract state (among
// possibly several discovered during one concrete search) to refine.
type PickFlawedAbstractState int

const (
	// First stops the search at the first flaw encountered.
	First PickFlawedAbstractState = iota
	// Random picks uniformly among every flawed abstract state found.
	Random
	// MinH keeps only the flaws at the lowest goal distance seen so far.
	MinH
	// MaxH keeps only the flaws at the highest goal distance seen so far.
	MaxH
	// BatchMinH behaves like MinH but the caller is expected to keep
	// reusing the same FlawSearch (not clearing flaws) across several
	// searches before acting on the accumulated result.
	BatchMinH
)

// FlawSearch locates flaws in an abstract solution, either by a bounded
// concrete-state expansion (SearchConcrete) or by walking the abstract
// trace itself with a tightening flaw-search state (SearchSequenceForward/
// SearchSequenceBackward).
type FlawSearch struct {
	task        task.Task
	domainSizes []int
	abs         *abstraction.Abstraction
	sp          *shortestpaths.ShortestPaths
	rng         *rand.Rand

	pick                        PickFlawedAbstractState
	maxConcretePerAbstractState int
	maxStateExpansions          int

	flawed *FlawedStates
	bestH  shortestpaths.Cost
}

// New builds a FlawSearch over abs/sp. maxConcretePerAbstractState caps
// how many concrete flaws are kept per abstract state; maxStateExpansions
// caps the total number of concrete states expanded in one
// SearchConcrete call.
func New(t task.Task, abs *abstraction.Abstraction, sp *shortestpaths.ShortestPaths, rng *rand.Rand, pick PickFlawedAbstractState, maxConcretePerAbstractState, maxStateExpansions int) *FlawSearch {
	fs := &FlawSearch{
		task:                        t,
		domainSizes:                 task.DomainSizes(t),
		abs:                         abs,
		sp:                          sp,
		rng:                         rng,
		pick:                        pick,
		maxConcretePerAbstractState: maxConcretePerAbstractState,
		maxStateExpansions:          maxStateExpansions,
		flawed:                      NewFlawedStates(),
	}
	fs.resetBest()
	return fs
}

func (fs *FlawSearch) resetBest() {
	switch fs.pick {
	case MinH, BatchMinH:
		fs.bestH = shortestpaths.INF
	default:
		fs.bestH = 0
	}
}

// Flawed returns the flaws accumulated by the most recent search (or,
// under BatchMinH, every search since the caller last called Reset).
func (fs *FlawSearch) Flawed() *FlawedStates { return fs.flawed }

// Reset clears accumulated flaws, used by the driver once a batch of
// flawed states has been refined.
func (fs *FlawSearch) Reset() {
	fs.flawed.Clear()
	fs.resetBest()
}

func (fs *FlawSearch) addFlaw(absID int, flaw Flaw) (keepSearching bool) {
	if fs.flawed.NumConcreteStates(absID) >= fs.maxConcretePerAbstractState {
		return true
	}
	h := fs.sp.GoalDistance(absID)
	switch fs.pick {
	case MinH, BatchMinH:
		if h < fs.bestH {
			fs.flawed.Clear()
			fs.bestH = h
		}
		if h <= fs.bestH {
			fs.flawed.Add(absID, flaw)
		}
	case MaxH:
		if h > fs.bestH {
			fs.flawed.Clear()
			fs.bestH = h
		}
		if h >= fs.bestH {
			fs.flawed.Add(absID, flaw)
		}
	default:
		fs.flawed.Add(absID, flaw)
	}
	return fs.pick != First
}

// PickFlawed returns one abstract state ID to refine next, along with its
// flaws, chosen according to pick. For First/MinH/MaxH/BatchMinH this is
// simply the (only, or best) group recorded; Random samples uniformly
// among the groups found.
func (fs *FlawSearch) PickFlawed() (int, []Flaw, bool) {
	ids := fs.flawed.AbstractStateIDs()
	if len(ids) == 0 {
		return 0, nil, false
	}
	id := ids[0]
	if fs.pick == Random {
		id = ids[fs.rng.Intn(len(ids))]
	}
	return id, fs.flawed.Flaws(id), true
}

func (fs *FlawSearch) optimalTransitions(absID int) OptimalTransitions {
	out := OptimalTransitions{}
	for _, t := range fs.abs.TransitionSystem().GetOutgoingTransitions()[absID] {
		if fs.sp.IsOptimalTransition(absID, t.OpID, t.TargetID) {
			out[t.OpID] = append(out[t.OpID], t.TargetID)
		}
	}
	return out
}

// concreteSet builds the singleton Cartesian set corresponding to one
// fully assigned concrete state.
func concreteSet(domainSizes []int, state []int) cartesian.Set {
	s := cartesian.NewEmptySet(domainSizes)
	for v, value := range state {
		s.Add(v, value)
	}
	return s
}

func isApplicableConcrete(op task.Operator, state []int) bool {
	for _, pre := range op.Preconditions {
		if state[pre.Var] != pre.Value {
			return false
		}
	}
	return true
}

func applyOperator(state []int, op task.Operator) []int {
	succ := append([]int(nil), state...)
	for _, eff := range op.Effects {
		succ[eff.Var] = eff.Value
	}
	return succ
}

func includesConcrete(set cartesian.Set, state []int) bool {
	for v, value := range state {
		if !set.Test(v, value) {
			return false
		}
	}
	return true
}

type concreteFrame struct {
	state []int
	absID int
}

// SearchConcrete performs a bounded expansion of the concrete state space
// starting at the concrete initial state, following only transitions the
// abstraction's f-optimal graph recognizes, recording a flaw wherever an
// operator is inapplicable or its application deviates from the abstract
// successor the trace expects. Returns the accumulated flaws.
func (fs *FlawSearch) SearchConcrete(initAbstractID int) *FlawedStates {
	if fs.pick != BatchMinH {
		fs.flawed.Clear()
		fs.resetBest()
	}

	stack := []concreteFrame{{state: append([]int(nil), fs.task.InitialState()...), absID: initAbstractID}}
	expansions := 0
	for len(stack) > 0 && expansions < fs.maxStateExpansions {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expansions++

		for opID, targets := range fs.optimalTransitions(top.absID) {
			op := fs.abs.TransitionSystem().Operators()[opID].Op
			if !isApplicableConcrete(op, top.state) {
				if !fs.addFlaw(top.absID, Flaw{AbstractStateID: top.absID, State: concreteSet(fs.domainSizes, top.state), OpID: opID, TargetID: targets[0]}) {
					return fs.flawed
				}
				continue
			}
			succState := applyOperator(top.state, op)
			matched := false
			for _, targetID := range targets {
				if includesConcrete(fs.abs.State(targetID).Set(), succState) {
					matched = true
					stack = append(stack, concreteFrame{state: succState, absID: targetID})
				}
			}
			if !matched {
				if !fs.addFlaw(top.absID, Flaw{AbstractStateID: top.absID, State: concreteSet(fs.domainSizes, succState), OpID: opID, TargetID: targets[0], Deviation: true}) {
					return fs.flawed
				}
			}
		}
	}
	return fs.flawed
}

// solutionStateIDs returns the abstract state IDs visited by solution,
// starting at initID: ids[0] == initID, ids[k+1] == solution[k].TargetID.
func solutionStateIDs(solution []transitionsystem.Transition, initID int) []int {
	ids := make([]int, len(solution)+1)
	ids[0] = initID
	for i, t := range solution {
		ids[i+1] = t.TargetID
	}
	return ids
}

func (fs *FlawSearch) goalRegion() cartesian.Set {
	set := cartesian.NewSet(fs.domainSizes)
	for _, f := range fs.task.Goal() {
		set.SetSingleValue(f.Var, f.Value)
	}
	return set
}

// SearchSequenceForward walks solution from the concrete initial state,
// progressing a tightening flaw-search state through each operator and
// comparing it against the abstract state the trace expects next. On a
// deviation it records a flaw and undeviates so the walk can keep
// looking for more flaws along the rest of the trace.
func (fs *FlawSearch) SearchSequenceForward(solution []transitionsystem.Transition, initID int) []Flaw {
	ids := solutionStateIDs(solution, initID)
	var flaws []Flaw
	current := cartesian.NewState(concreteSet(fs.domainSizes, fs.task.InitialState()))
	for i, t := range solution {
		op := fs.abs.TransitionSystem().Operators()[t.OpID].Op
		srcID, targetID := ids[i], ids[i+1]
		if !current.IsApplicable(op) {
			flaws = append(flaws, Flaw{AbstractStateID: srcID, State: current.Set, OpID: t.OpID, TargetID: targetID})
			current = cartesian.NewState(fs.abs.State(targetID).Set())
			continue
		}
		next := current.Progress(op)
		targetSet := fs.abs.State(targetID).Set()
		if !targetSet.IsSupersetOf(next.Set) {
			flaws = append(flaws, Flaw{AbstractStateID: srcID, State: next.Set, OpID: t.OpID, TargetID: targetID, Deviation: true})
			next = next.Undeviate(cartesian.NewState(targetSet))
		}
		current = next
	}
	return flaws
}

// SearchSequenceBackward walks solution in reverse from the goal region,
// regressing a tightening flaw-search state through each operator and
// comparing it against the abstract state the trace expects as the
// transition's source.
func (fs *FlawSearch) SearchSequenceBackward(solution []transitionsystem.Transition, initID int) []Flaw {
	ids := solutionStateIDs(solution, initID)
	var flaws []Flaw
	current := cartesian.NewState(fs.goalRegion())
	for i := len(solution) - 1; i >= 0; i-- {
		t := solution[i]
		op := fs.abs.TransitionSystem().Operators()[t.OpID].Op
		srcID, targetID := ids[i], ids[i+1]
		if !current.IsBackwardApplicable(op) {
			flaws = append(flaws, Flaw{AbstractStateID: targetID, State: current.Set, OpID: t.OpID, TargetID: srcID})
			current = cartesian.NewState(fs.abs.State(srcID).Set())
			continue
		}
		prev := current.Regress(op)
		sourceSet := fs.abs.State(srcID).Set()
		if !sourceSet.IsSupersetOf(prev.Set) {
			flaws = append(flaws, Flaw{AbstractStateID: targetID, State: prev.Set, OpID: t.OpID, TargetID: srcID, Deviation: true})
			prev = prev.Undeviate(cartesian.NewState(sourceSet))
		}
		current = prev
	}
	return flaws
}
