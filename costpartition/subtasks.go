// Package costpartition is a minimal additive-ensemble consumer for the
// abstraction core: it splits a task into subtasks, builds one
// abstraction per subtask under a shrinking cost budget, and sums their
// heuristic values.
//
// Grounded on the original cartesian_abstractions/subtask_generators.cc
// (GoalDecomposition) and cost_saturation/uniform_cost_partitioning_heuristic.cc
// (the saturate-then-reduce-then-sum loop).
package costpartition

import "github.com/gocegar/planner/task"

// goalSubtask is a task.Task that shares everything with its parent
// except the goal, which is narrowed to a single fact. Mirrors the
// original's tasks/modified_goals_task.h.
type goalSubtask struct {
	task.Task
	goal task.Fact
}

func (s *goalSubtask) Goal() []task.Fact { return []task.Fact{s.goal} }

// GoalDecomposition splits t into one subtask per goal fact, each asking
// "how far to this one fact alone". Facts are kept in t.Goal()'s order;
// the original additionally supports random/hadd orderings of the goal
// facts, which callers needing that can implement themselves by
// reordering t.Goal() before calling GoalDecomposition.
func GoalDecomposition(t task.Task) []task.Task {
	goals := t.Goal()
	subtasks := make([]task.Task, len(goals))
	for i, g := range goals {
		subtasks[i] = &goalSubtask{Task: t, goal: g}
	}
	return subtasks
}
