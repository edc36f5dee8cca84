package flawsearch

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/splitselector"
	"github.com/gocegar/planner/task"
)

// BuildSplits constructs candidate splits for an abstract state from a
// batch of flaws that were all found there, given the operator whose
// optimal transition produced them. For each precondition variable/value
// pair, every value the flawed states hold other than the precondition
// value becomes a candidate split separating it from the rest; for
// deviations, variables the operator neither constrains nor touches are
// also examined, splitting off whatever the flawed states hold outside
// the intersection with the target state's subset.
//
// Grounded on the original flaw_search.cc's get_deviation_splits and
// FlawSearch::create_split.
func BuildSplits(domainSizes []int, op task.Operator, flaws []Flaw, target cartesian.Set, opCost int) []splitselector.Split {
	var splits []splitselector.Split

	pinned := make(map[int]bool, len(op.Preconditions))
	for _, pre := range op.Preconditions {
		pinned[pre.Var] = true
		counts := make(map[int]int)
		for _, f := range flaws {
			for _, x := range f.State.Values(pre.Var) {
				if x != pre.Value {
					counts[x]++
				}
			}
		}
		for x, count := range counts {
			splits = append(splits, splitselector.Split{Var: pre.Var, Values: []int{x}, Count: count, OpCost: opCost})
		}
	}

	hasEffect := make(map[int]bool, len(op.Effects))
	for _, eff := range op.Effects {
		hasEffect[eff.Var] = true
	}

	for _, f := range flaws {
		if !f.Deviation {
			continue
		}
		for v := 0; v < len(domainSizes); v++ {
			if pinned[v] || hasEffect[v] {
				continue
			}
			wanted := f.State.Intersection(target)
			counts := make(map[int]int)
			for _, x := range f.State.Values(v) {
				if !wanted.Test(v, x) {
					counts[x]++
				}
			}
			for x, count := range counts {
				splits = append(splits, splitselector.Split{Var: v, Values: []int{x}, Count: count, OpCost: opCost})
			}
		}
	}

	return splits
}
