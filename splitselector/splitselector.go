package splitselector

import "math/rand"

// PickSplit enumerates the rating strategies used to choose among
// candidate splits on the same abstract state. Strategies that in the
// original depend on a precomputed external analysis (additive
// heuristic, causal graph, landmarks, LP potentials) are not
// implemented here — callers needing those supply an equivalent
// variable-order ranking through a higher layer instead.
type PickSplit int

const (
	// RandomSplit rates every candidate uniformly at random.
	RandomSplit PickSplit = iota
	// MinUnwanted prefers splits moving the fewest values to the "unwanted" side.
	MinUnwanted
	// MaxUnwanted prefers splits moving the most values to the "unwanted" side.
	MaxUnwanted
	// MinRefined prefers splits leaving more of the variable's domain unrefined.
	MinRefined
	// MaxRefined prefers splits leaving less of the variable's domain unrefined.
	MaxRefined
	// MaxCover prefers the split motivated by the most flawed states.
	MaxCover
	// HighestCostOperator prefers splits motivated by the costliest operator.
	HighestCostOperator
	// LowestCostOperator prefers splits motivated by the cheapest operator.
	//
	// Rated as -OpCost, same as HighestCostOperator negated: a cost-1
	// operator and an operator of genuinely unknown cost (also encoded
	// as the lowest representable rating elsewhere in the original) are
	// not distinguished by this formula. Preserved as found.
	LowestCostOperator
	// GoalDistanceIncreased prefers splits whose simulated refinement
	// increases the goal distance of the state being split.
	GoalDistanceIncreased
	// OptimalPlanCostIncreased prefers splits whose simulated refinement
	// increases the cost of the optimal abstract plan.
	OptimalPlanCostIncreased
	// BalanceRefinedClosestGoal combines MaxRefined with a preference for
	// states closer to the goal.
	BalanceRefinedClosestGoal
)

// StateInfo supplies the per-variable context a rating strategy needs
// about the abstract state being split, without this package depending
// on the abstraction package.
type StateInfo struct {
	DomainSize   func(v int) int
	Count        func(v int) int
	GoalDistance int
}

// Simulator scores a hypothetical split by simulating the refinement and
// reports whether the distance criterion (GoalDistanceIncreased or
// OptimalPlanCostIncreased — passed in as criterion so one Simulator can
// serve both) went up. Backed by Abstraction.SimulateRefinement +
// ShortestPaths.UpdateIncrementally against a scratch transition system
// and a cloned ShortestPaths, so the real abstraction is never mutated.
type Simulator func(split Split, criterion PickSplit) bool

// SplitSelector rates candidate splits with a primary strategy, then
// breaks ties among the best-rated survivors with a second strategy.
type SplitSelector struct {
	rng      *rand.Rand
	primary  PickSplit
	tiebreak PickSplit
	simulate Simulator
}

// New builds a SplitSelector. simulate may be nil unless primary or
// tiebreak is GoalDistanceIncreased/OptimalPlanCostIncreased — see
// SetSimulator for binding one after construction, once the abstraction
// and shortest-paths objects a real Simulator needs to close over exist.
func New(rng *rand.Rand, primary, tiebreak PickSplit, simulate Simulator) *SplitSelector {
	return &SplitSelector{rng: rng, primary: primary, tiebreak: tiebreak, simulate: simulate}
}

// NeedsSimulator reports whether primary or tiebreak requires a
// Simulator to rate candidates. A driver should bind one with
// SetSimulator before the first Pick call when this is true.
func (sel *SplitSelector) NeedsSimulator() bool {
	return needsSimulator(sel.primary) || needsSimulator(sel.tiebreak)
}

func needsSimulator(pick PickSplit) bool {
	return pick == GoalDistanceIncreased || pick == OptimalPlanCostIncreased
}

// SetSimulator (re)binds the Simulator used by GoalDistanceIncreased and
// OptimalPlanCostIncreased. Late-bound rather than required at New time
// so a driver can construct its abstraction and shortest-paths state
// first and close the Simulator over those, and rebind it per refinement
// step as the abstract state being split changes.
func (sel *SplitSelector) SetSimulator(sim Simulator) { sel.simulate = sim }

func refinedRatio(s Split, info StateInfo) float64 {
	total := info.Count(s.Var)
	if total == 0 {
		return 0
	}
	remaining := total - len(s.Values)
	return float64(remaining) / float64(info.DomainSize(s.Var))
}

func (sel *SplitSelector) rate(pick PickSplit, s Split, info StateInfo) float64 {
	switch pick {
	case RandomSplit:
		return sel.rng.Float64()
	case MinUnwanted:
		return -float64(len(s.Values))
	case MaxUnwanted:
		return float64(len(s.Values))
	case MinRefined:
		return refinedRatio(s, info)
	case MaxRefined:
		return -refinedRatio(s, info)
	case MaxCover:
		return float64(s.Count)
	case HighestCostOperator:
		return float64(s.OpCost)
	case LowestCostOperator:
		return -float64(s.OpCost)
	case GoalDistanceIncreased, OptimalPlanCostIncreased:
		if sel.simulate != nil && sel.simulate(s, pick) {
			return 1
		}
		return 0
	case BalanceRefinedClosestGoal:
		return -refinedRatio(s, info) - float64(info.GoalDistance)
	default:
		return 0
	}
}

// Pick rates every candidate split by the primary strategy, keeps the
// best-rated survivors, and breaks ties with the tiebreak strategy.
// Returns nil if splits is empty.
func (sel *SplitSelector) Pick(splits []Split, info StateInfo) *Split {
	if len(splits) == 0 {
		return nil
	}
	best := sel.bestRated(splits, sel.primary, info)
	if len(best) == 1 {
		return &best[0]
	}
	tied := sel.bestRated(best, sel.tiebreak, info)
	return &tied[0]
}

func (sel *SplitSelector) bestRated(splits []Split, pick PickSplit, info StateInfo) []Split {
	bestRating := sel.rate(pick, splits[0], info)
	best := []Split{splits[0]}
	for _, s := range splits[1:] {
		r := sel.rate(pick, s, info)
		if r > bestRating {
			bestRating = r
			best = []Split{s}
		} else if r == bestRating {
			best = append(best, s)
		}
	}
	return best
}
