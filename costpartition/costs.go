package costpartition

import "github.com/gocegar/planner/task"

// costTask overrides its parent's operator costs, keeping every other
// field (variables, preconditions, effects, goal, mutexes) untouched.
// Grounded on the original's tasks/modified_operator_costs_task.h.
type costTask struct {
	task.Task
	costs []int
}

func withCosts(t task.Task, costs []int) *costTask {
	return &costTask{Task: t, costs: costs}
}

func (c *costTask) Operators() []task.Operator {
	base := c.Task.Operators()
	ops := make([]task.Operator, len(base))
	for i, op := range base {
		ops[i] = op
		ops[i].Cost = c.costs[i]
	}
	return ops
}

// reduceCosts subtracts each operator's saturated cost from its
// remaining budget, floored at zero. Grounded on the original's
// cost_saturation/utils.cc reduce_costs: remaining costs never go
// negative there either, since saturated costs are always bounded by
// the remaining budget they were computed against.
func reduceCosts(remaining, saturated []int) []int {
	out := make([]int, len(remaining))
	for i := range remaining {
		v := remaining[i] - saturated[i]
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out
}
