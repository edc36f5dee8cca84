package costpartition

import (
	"context"
	"errors"

	"github.com/gocegar/planner/cegar"
	"github.com/gocegar/planner/heuristic"
	"github.com/gocegar/planner/task"
)

// member is one abstraction's contribution to the ensemble: the
// heuristic it produced and the subtask it was built over, needed to
// translate a parent-task state into the subtask's own state space
// before a lookup.
type member struct {
	subtask task.Task
	fn      *heuristic.Function
}

// Ensemble is an additive cost-partitioned heuristic: the sum, over
// every member abstraction, of that abstraction's heuristic value for a
// given concrete state. Each member was built against a share of the
// operator costs left over after every earlier member saturated its
// own, so the sum never overestimates the true cost to the goal.
//
// Grounded on the original's cost_saturation::CostPartitioningHeuristic,
// simplified to the single fixed order this package builds subtasks in
// (the original additionally explores and keeps the best of several
// random orders; see DESIGN.md).
type Ensemble struct {
	members []member
}

// Build runs one CEGAR refinement per subtask in order, each against
// whatever operator cost budget the earlier subtasks' saturated costs
// left behind, and collects the resulting heuristics into an Ensemble.
//
// A subtask's CEGAR run stopping with ErrConcreteSolutionFound,
// ErrResourceExhausted, or ErrAbstractUnsolvable is expected — all three
// leave behind a usable (possibly unsolvable, hence all-Unreachable)
// abstraction. Any other error (context cancellation, an
// InvariantViolation) aborts the whole build.
func Build(ctx context.Context, subtasks []task.Task, opts ...cegar.Option) (*Ensemble, error) {
	ens := &Ensemble{members: make([]member, 0, len(subtasks))}
	if len(subtasks) == 0 {
		return ens, nil
	}

	costs := make([]int, len(subtasks[0].Operators()))
	for i, op := range subtasks[0].Operators() {
		costs[i] = op.Cost
	}

	for _, st := range subtasks {
		scaled := withCosts(st, costs)
		c := cegar.New(scaled, opts...)
		res, err := c.Run(ctx)
		if err != nil &&
			!errors.Is(err, cegar.ErrConcreteSolutionFound) &&
			!errors.Is(err, cegar.ErrResourceExhausted) &&
			!errors.Is(err, cegar.ErrAbstractUnsolvable) {
			return nil, err
		}

		fn := heuristic.New(res.Abstraction, res.ShortestPaths)
		ens.members = append(ens.members, member{subtask: st, fn: fn})
		costs = reduceCosts(costs, fn.SaturatedCosts)
	}
	return ens, nil
}

// NumAbstractions returns the number of abstractions the ensemble sums
// over.
func (e *Ensemble) NumAbstractions() int { return len(e.members) }

// Value evaluates the additive heuristic for a fully assigned concrete
// state in the original (non-subtask) variable space. Any member
// reporting the state unreachable makes the whole sum unreachable.
func (e *Ensemble) Value(state []int) int {
	sum := 0
	for _, m := range e.members {
		s := state
		if m.subtask.NeedsAncestorConversion(state) {
			s = m.subtask.ConvertAncestorState(state)
		}
		v := m.fn.Value(s)
		if v == heuristic.Unreachable {
			return heuristic.Unreachable
		}
		sum += v
	}
	return sum
}
