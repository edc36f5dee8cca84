// Package disambig tightens Cartesian sets via mutex-based arc consistency
// (AC-3) without losing any concrete state they represent, and builds the
// once-per-operator DisambiguatedOperator used by the abstraction core.
//
// Grounded on the original planner's task_utils/ac3_disambiguation.cc and
// task_utils/disambiguated_operator.cc.
package disambig

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/task"
)

// Disambiguate applies AC-3 arc consistency to state: for every pair of
// distinct variables (v, w), a value x remaining in v's subset survives
// only if some value y remains in w's subset such that (v=x, w=y) is not a
// mutex pair. Values that have no compatible partner in some other
// variable are removed. The process repeats to a fixpoint (removing a
// value can make other values inconsistent in turn).
//
// Disambiguate never removes a concrete state state represents — only
// values that could not participate in any state state actually contains.
// Returns true iff any value was removed from any variable.
func Disambiguate(state cartesian.Set, mutexes task.MutexOracle) bool {
	changed := false
	nVars := state.NVars()
	if nVars < 2 {
		return false
	}

	worklist := make([][2]int, 0, nVars*nVars)
	for v := 0; v < nVars; v++ {
		for w := 0; w < nVars; w++ {
			if v != w {
				worklist = append(worklist, [2]int{v, w})
			}
		}
	}

	inQueue := make(map[[2]int]bool, len(worklist))
	for _, arc := range worklist {
		inQueue[arc] = true
	}

	for len(worklist) > 0 {
		arc := worklist[0]
		worklist = worklist[1:]
		v, w := arc[0], arc[1]
		inQueue[arc] = false

		if reduced := arcReduce(state, v, w, mutexes); reduced {
			changed = true
			if state.Count(v) == 0 {
				// Emptied: no further reduction can help; caller sees a
				// spurious state via IsEmpty().
				return true
			}
			for u := 0; u < nVars; u++ {
				if u == v || u == w {
					continue
				}
				key := [2]int{u, v}
				if !inQueue[key] {
					worklist = append(worklist, key)
					inQueue[key] = true
				}
			}
		}
	}
	return changed
}

// arcReduce removes every value x from variable v's subset for which no
// value y in variable w's subset is compatible (not mutex) with x. Returns
// true iff at least one value was removed.
func arcReduce(state cartesian.Set, v, w int, mutexes task.MutexOracle) bool {
	changed := false
	wValues := state.Values(w)
	for _, x := range state.Values(v) {
		compatible := false
		fx := task.Fact{Var: v, Value: x}
		for _, y := range wValues {
			if !mutexes.AreFactsMutex(fx, task.Fact{Var: w, Value: y}) {
				compatible = true
				break
			}
		}
		if !compatible {
			state.Remove(v, x)
			changed = true
		}
	}
	return changed
}
