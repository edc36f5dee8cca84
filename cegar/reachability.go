package cegar

import "github.com/gocegar/planner/task"

// relaxedReachable computes, for each variable, the set of values that
// can ever become true starting from the task's initial state under the
// delete-relaxation (preconditions must hold, effects are only ever
// added, never removed). Used by the single-goal pre-refinement pass to
// approximate "possibly true before the goal is first achieved": a value
// the relaxation can never reach cannot appear on any real plan either,
// so it is safe to split off the abstract initial state immediately.
//
// This is the standard ignore-deletes relaxed reachability fixpoint used
// throughout classical planning, substituted here for the original's
// regression-based get_relaxed_possible_before: both answer "can this
// value matter on some path to the goal", but the forward fixpoint is
// the simpler of the two sound over-approximations and needs no
// backward operator index.
func relaxedReachable(t task.Task) []map[int]bool {
	n := t.NumVariables()
	reached := make([]map[int]bool, n)
	for v := 0; v < n; v++ {
		reached[v] = map[int]bool{}
	}
	init := t.InitialState()
	for v, value := range init {
		reached[v][value] = true
	}

	ops := t.Operators()
	for changed := true; changed; {
		changed = false
		for _, op := range ops {
			applicable := true
			for _, pre := range op.Preconditions {
				if !reached[pre.Var][pre.Value] {
					applicable = false
					break
				}
			}
			if !applicable {
				continue
			}
			for _, eff := range op.Effects {
				if !reached[eff.Var][eff.Value] {
					reached[eff.Var][eff.Value] = true
					changed = true
				}
			}
		}
	}
	return reached
}
