package cegar

import (
	"context"
	"fmt"
	"time"

	"github.com/gocegar/planner/abstraction"
	"github.com/gocegar/planner/disambig"
	"github.com/gocegar/planner/flawsearch"
	"github.com/gocegar/planner/heuristic"
	"github.com/gocegar/planner/shortestpaths"
	"github.com/gocegar/planner/splitselector"
	"github.com/gocegar/planner/task"
	"github.com/gocegar/planner/transitionsystem"
)

// Result is everything a CEGAR run produces: the built abstraction and
// its shortest-path distances, together with the reason the loop
// stopped (one of ErrAbstractUnsolvable / ErrConcreteSolutionFound /
// ErrResourceExhausted, or ctx.Err() if the caller cancelled ctx).
type Result struct {
	Abstraction *abstraction.Abstraction
	ShortestPaths *shortestpaths.ShortestPaths
	Stats       Statistics
	StopReason  error
}

// CEGAR owns one refinement run: the abstraction being built, its
// shortest-path distances, the flaw search over them, and the resource
// budget gate.
type CEGAR struct {
	task task.Task
	cfg  *Config

	abs   *abstraction.Abstraction
	sp    *shortestpaths.ShortestPaths
	flaws *flawsearch.FlawSearch

	padding []byte

	stats     Statistics
	startTime time.Time
}

// New builds the trivial abstraction over t and prepares (but does not
// run) the refinement loop.
func New(t task.Task, opts ...Option) *CEGAR {
	cfg := newConfig(opts...)

	domainSizes := task.DomainSizes(t)
	ops := make([]disambig.Operator, len(t.Operators()))
	for i, op := range t.Operators() {
		ops[i] = disambig.NewOperator(op, domainSizes, t.Mutexes())
	}

	abs := abstraction.New(t, ops, cfg.Disambiguate)
	costs := make([]int, len(ops))
	for i, op := range ops {
		costs[i] = op.Op.Cost
	}
	sp := shortestpaths.New(costs)

	c := &CEGAR{task: t, cfg: cfg, abs: abs, sp: sp}
	c.flaws = flawsearch.New(t, abs, sp, cfg.Rng, cfg.PickFlawedAbstractState,
		cfg.MaxConcreteStatesPerAbstractState, cfg.MaxStateExpansions)
	if cfg.MemoryPaddingMB > 0 {
		c.padding = make([]byte, cfg.MemoryPaddingMB<<20)
	}
	return c
}

func (c *CEGAR) log(format string, args ...interface{}) {
	fmt.Fprintf(c.cfg.Log, format+"\n", args...)
}

// mayKeepRefining is the resource-budget gate: stops the loop when
// states, non-loop transitions, elapsed time, or the memory-padding
// reservation crosses its configured limit. inCurrentDirection checks
// against half the budget instead, used by ModeSequenceBidirectional to
// decide when to switch direction at most once.
func (c *CEGAR) mayKeepRefining(inCurrentDirection bool) bool {
	divider := 1
	if inCurrentDirection {
		divider = 2
	}
	if c.abs.NumStates() >= c.cfg.MaxStates/divider {
		return false
	}
	if c.abs.TransitionSystem().NumNonLoops() >= c.cfg.MaxTransitions/divider {
		return false
	}
	if c.cfg.MaxTime > 0 && time.Since(c.startTime) >= c.cfg.MaxTime/time.Duration(divider) {
		return false
	}
	if c.cfg.MemoryPaddingMB > 0 && c.padding == nil {
		return false
	}
	return true
}

// MayKeepRefining reports whether the budget gate still permits further
// refinement, at full budget.
func (c *CEGAR) MayKeepRefining() bool { return c.mayKeepRefining(false) }

// separateFactsUnreachableBeforeGoal implements the single-goal
// pre-refinement pass: split the abstract initial state so that values
// the relaxed reachability analysis rules out before the goal end up
// isolated from the rest, then (optionally) split off the goal fact
// itself so the initial state is never also a goal state.
func (c *CEGAR) separateFactsUnreachableBeforeGoal(refineGoals bool) {
	goal := c.task.Goal()[0]
	reachable := relaxedReachable(c.task)
	domainSizes := task.DomainSizes(c.task)

	for v := 0; v < len(domainSizes); v++ {
		if !c.mayKeepRefining(false) {
			break
		}
		initState := c.abs.InitialState()
		var unreachable []int
		for value := 0; value < domainSizes[v]; value++ {
			if !reachable[v][value] && initState.Set().Test(v, value) {
				unreachable = append(unreachable, value)
			}
		}
		if len(unreachable) > 0 && initState.Set().Count(v) > len(unreachable) {
			c.refine(initState, v, unreachable, false)
		}
	}

	c.abs.MarkAllGoalStatesAsGoals()

	// If the goal value itself was relaxed-unreachable, the loop above
	// already isolated it into its own state (or the task is genuinely
	// unsolvable and the main loop's ExtractSolution will report that);
	// either way the initial state no longer holds the goal value, so
	// splitting it again here would fabricate a value the state never
	// had. The split is also skipped when the goal value is the only one
	// left for goal.Var.
	initState := c.abs.InitialState()
	if refineGoals && c.mayKeepRefining(false) &&
		initState.Set().Test(goal.Var, goal.Value) && initState.Set().Count(goal.Var) > 1 {
		c.refine(initState, goal.Var, []int{goal.Value}, false)
	}
}

// separateGoalFacts implements the multi-goal pre-refinement pass:
// iteratively split the single trivial state on each goal fact in turn,
// following whichever child still holds every remaining goal fact.
func (c *CEGAR) separateGoalFacts() {
	current := c.abs.InitialState()
	for _, f := range c.task.Goal() {
		if !c.mayKeepRefining(false) {
			break
		}
		if current.Set().Count(f.Var) <= 1 {
			continue
		}
		v1ID, v2ID, _, _, _ := c.refine(current, f.Var, []int{f.Value}, false)
		if c.abs.State(v1ID).Set().Test(f.Var, f.Value) {
			current = c.abs.State(v1ID)
		} else {
			current = c.abs.State(v2ID)
		}
	}
}

// refineInitState implements the optional backward pre-refinement pass:
// split the abstract initial state variable by variable until it
// contains only the concrete initial state's values, since backward
// flaw-search strategies need init to have no optimal transitions of
// its own to patch around.
func (c *CEGAR) refineInitState() {
	concreteInit := c.task.InitialState()
	domainSizes := task.DomainSizes(c.task)
	for v, value := range concreteInit {
		if !c.mayKeepRefining(false) {
			break
		}
		initState := c.abs.InitialState()
		var other []int
		for x := 0; x < domainSizes[v]; x++ {
			if x != value && initState.Set().Test(v, x) {
				other = append(other, x)
			}
		}
		if len(other) > 0 && initState.Set().Count(v) > len(other) {
			c.refine(initState, v, other, false)
		}
	}
}

// refine applies one split to the abstraction and patches the shortest
// paths incrementally, keeping the two operations as the single atomic
// step the driver's ordering guarantee requires.
func (c *CEGAR) refine(state abstraction.State, v int, wanted []int, backward bool) (v1ID, v2ID int, disambiguated bool, oldIn, oldOut []transitionsystem.Transition) {
	v1ID, v2ID, disambiguated, oldIn, oldOut = c.abs.Refine(state, v, wanted)
	c.sp.UpdateIncrementally(
		c.abs.TransitionSystem().GetIncomingTransitions(),
		c.abs.TransitionSystem().GetOutgoingTransitions(),
		state.ID(), v1ID, v2ID, c.abs.Goals(), c.abs.InitialState().ID())
	c.stats.recordRefinement(backward, 0)
	return
}

// Run executes the refinement loop until the budget is exhausted, the
// abstract task proves unsolvable, or the flaw search finds no flaw
// along the current optimal abstract solution.
func (c *CEGAR) Run(ctx context.Context) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*InvariantViolation); ok {
				err = iv
				return
			}
			panic(r)
		}
	}()

	c.startTime = time.Now()

	// The goal fact is always split off the trivial initial state: without
	// it the one starting state is simultaneously init and goal for every
	// mode, so no flaw search — concrete or sequence — ever gets a
	// non-empty optimal solution to examine.
	if len(c.task.Goal()) == 1 {
		c.separateFactsUnreachableBeforeGoal(true)
	} else {
		c.separateGoalFacts()
	}
	if c.cfg.RefineInit {
		c.refineInitState()
	}

	c.sp.Recompute(
		c.abs.TransitionSystem().GetIncomingTransitions(),
		c.abs.TransitionSystem().GetOutgoingTransitions(),
		c.abs.Goals(), c.abs.InitialState().ID())

	halfBudgetReached := false
	switchedToBackward := false
	domainSizes := task.DomainSizes(c.task)

	for c.mayKeepRefining(false) {
		select {
		case <-ctx.Done():
			return c.result(ctx.Err()), ctx.Err()
		default:
		}

		initID := c.abs.InitialState().ID()
		if c.sp.GoalDistance32(initID) < 0 {
			return c.result(ErrAbstractUnsolvable), ErrAbstractUnsolvable
		}
		solution := c.sp.ExtractSolution(initID, c.abs.Goals())

		if !halfBudgetReached && !c.mayKeepRefining(true) {
			halfBudgetReached = true
		}

		absID, flaws, ok := c.findFlaw(solution, halfBudgetReached, &switchedToBackward)
		if !ok {
			return c.result(ErrConcreteSolutionFound), ErrConcreteSolutionFound
		}

		op := c.abs.TransitionSystem().Operators()[flaws[0].OpID].Op
		target := c.abs.State(flaws[0].TargetID).Set()
		splits := flawsearch.BuildSplits(domainSizes, op, flaws, target, op.Cost)
		info := c.stateInfo(absID, domainSizes)
		if c.cfg.Split.NeedsSimulator() {
			c.cfg.Split.SetSimulator(c.simulateSplit(absID))
		}
		split := c.cfg.Split.Pick(splits, info)
		invariant(split != nil, "flaw search produced a flaw with no candidate split")

		c.refine(c.abs.State(absID), split.Var, split.Values, switchedToBackward)
		c.writeDot()
	}

	return c.result(ErrResourceExhausted), ErrResourceExhausted
}

// findFlaw runs the configured flaw-finding mode against solution and
// returns one abstract state ID with its flaws (the other being the
// caller's refine target), or ok=false if no flaw was found.
func (c *CEGAR) findFlaw(solution []transitionsystem.Transition, halfBudgetReached bool, switchedToBackward *bool) (int, []flawsearch.Flaw, bool) {
	initID := c.abs.InitialState().ID()
	mode := c.cfg.Mode
	if mode == ModeSequenceBidirectional {
		if halfBudgetReached {
			*switchedToBackward = true
		}
		if *switchedToBackward {
			mode = ModeSequenceBackward
		} else {
			mode = ModeSequenceForward
		}
	}

	switch mode {
	case ModeSequenceForward:
		flaws := c.flaws.SearchSequenceForward(solution, initID)
		if len(flaws) == 0 {
			return 0, nil, false
		}
		return flaws[0].AbstractStateID, flaws[:1], true
	case ModeSequenceBackward:
		flaws := c.flaws.SearchSequenceBackward(solution, initID)
		if len(flaws) == 0 {
			return 0, nil, false
		}
		return flaws[0].AbstractStateID, flaws[:1], true
	default:
		c.flaws.Reset()
		flawed := c.flaws.SearchConcrete(initID)
		if flawed.Empty() {
			return 0, nil, false
		}
		absID, flaws, _ := c.flaws.PickFlawed()
		return absID, flaws, true
	}
}

func (c *CEGAR) stateInfo(absID int, domainSizes []int) splitselector.StateInfo {
	set := c.abs.State(absID).Set()
	return splitselector.StateInfo{
		DomainSize:   func(v int) int { return domainSizes[v] },
		Count:        func(v int) int { return set.Count(v) },
		GoalDistance: c.sp.GoalDistance32(absID),
	}
}

// simulateSplit returns a Simulator bound to the abstract state currently
// being split (absID). It is rebound on every loop iteration since the
// state under consideration changes each time, but never mutates c.abs
// or c.sp: SimulateRefinement scores the candidate against a scratch
// transition system and simulateSplit runs UpdateIncrementally against a
// clone of c.sp, so the real abstraction and distance trees are exactly
// as they were once the candidate has been rated.
func (c *CEGAR) simulateSplit(absID int) splitselector.Simulator {
	return func(s splitselector.Split, criterion splitselector.PickSplit) bool {
		state := c.abs.State(absID)
		sim := c.abs.SimulateRefinement(state, s.Var, s.Values)

		scratch := c.sp.Clone()
		scratch.UpdateIncrementally(
			sim.TransitionSystem.GetIncomingTransitions(),
			sim.TransitionSystem.GetOutgoingTransitions(),
			absID, sim.V1ID, sim.V2ID, sim.Goals, c.abs.InitialState().ID())

		if criterion == splitselector.OptimalPlanCostIncreased {
			before := c.sp.GoalDistance32(c.abs.InitialState().ID())
			after := scratch.GoalDistance32(c.abs.InitialState().ID())
			return distanceIncreased(before, after)
		}

		before := c.sp.GoalDistance32(absID)
		after := minDistance(scratch.GoalDistance32(sim.V1ID), scratch.GoalDistance32(sim.V2ID))
		return distanceIncreased(before, after)
	}
}

// minDistance picks the closer-to-goal of two GoalDistance32 readings,
// treating -1 ("unreached") as larger than any finite distance.
func minDistance(a, b int) int {
	if a < 0 {
		return b
	}
	if b < 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// distanceIncreased compares two GoalDistance32 readings, treating -1
// ("unreached") as larger than any finite distance.
func distanceIncreased(before, after int) bool {
	if after < 0 {
		return before >= 0
	}
	if before < 0 {
		return false
	}
	return after > before
}

func (c *CEGAR) writeDot() {
	if c.cfg.DotGraphVerbosity == DotSilent || c.cfg.DotWriter == nil {
		return
	}
	if err := heuristic.WriteDOT(c.cfg.DotWriter, c.abs); err != nil {
		c.log("dot graph emission failed: %v", err)
	}
}

func (c *CEGAR) result(stop error) *Result {
	c.stats.NumStates = c.abs.NumStates()
	c.stats.NumNonLoops = c.abs.TransitionSystem().NumNonLoops()
	c.stats.NumLoops = c.abs.TransitionSystem().NumLoops()
	c.stats.NumGoalStates = len(c.abs.Goals())
	return &Result{Abstraction: c.abs, ShortestPaths: c.sp, Stats: c.stats, StopReason: stop}
}
