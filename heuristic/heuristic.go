// Package heuristic packages a finished Cartesian abstraction into the
// output surface the core promises: evaluating a concrete state, a
// per-operator saturated-cost vector for cost partitioning, and a DOT
// graph of the abstraction's transition system.
//
// Grounded on the original cartesian_abstractions/
// cartesian_heuristic_function.cc and utils.cc's create_dot_graph.
package heuristic

import (
	"math"

	"github.com/gocegar/planner/abstraction"
	"github.com/gocegar/planner/refinement"
	"github.com/gocegar/planner/shortestpaths"
)

// Unreachable is the heuristic value reported for a concrete state whose
// abstract state has no path to any abstract goal state.
const Unreachable = math.MaxInt32

// Function is a finished CartesianHeuristicFunction: the refinement
// hierarchy that maps a concrete state down to an abstract state ID,
// the abstract goal distance for every abstract state, and the
// per-operator saturated costs the abstraction needs to preserve those
// distances.
type Function struct {
	Hierarchy      *refinement.Hierarchy
	GoalDistances  []int
	SaturatedCosts []int
}

// New builds a Function from a finished abstraction and its shortest
// paths.
func New(abs *abstraction.Abstraction, sp *shortestpaths.ShortestPaths) *Function {
	n := abs.NumStates()
	goalDistances := make([]int, n)
	for id := 0; id < n; id++ {
		goalDistances[id] = sp.GoalDistance32(id)
	}

	ops := abs.TransitionSystem().Operators()
	saturated := make([]int, len(ops))
	for id := 0; id < n; id++ {
		h := goalDistances[id]
		if h < 0 {
			continue
		}
		for _, t := range abs.TransitionSystem().GetOutgoingTransitions()[id] {
			ht := goalDistances[t.TargetID]
			if ht < 0 {
				continue
			}
			need := h - ht
			if need > saturated[t.OpID] {
				saturated[t.OpID] = need
			}
		}
	}

	return &Function{Hierarchy: abs.Hierarchy(), GoalDistances: goalDistances, SaturatedCosts: saturated}
}

// Value evaluates the heuristic for a fully assigned concrete state.
func (f *Function) Value(state []int) int {
	id := f.Hierarchy.GetAbstractStateID(state)
	if f.GoalDistances[id] < 0 {
		return Unreachable
	}
	return f.GoalDistances[id]
}
