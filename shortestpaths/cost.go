package shortestpaths

import "math"

// Cost packs a distance and a lexicographic tie-breaker into one 64-bit
// word: the high 32 bits hold the real cost, the low 32 bits hold a step
// count. Comparing two Costs as plain uint64 then compares cost first and
// step count second, which is exactly what the dual-Dijkstra recompute
// needs when some operators have cost 0 (a pure cost-ordered Dijkstra
// can't tell 0-cost loops apart and may not terminate in the expected
// number of relaxations). This packing is used only when the task has
// zero-cost operators; otherwise a Cost holds the plain cost sum.
//
// Grounded on the original search/cegar/shortest_paths.cc's Cost type.
type Cost uint64

const (
	// INF marks an unreached state.
	INF Cost = math.MaxUint64
	// Dirty marks a state whose distance is known stale and must be
	// recomputed before it can be trusted.
	Dirty Cost = math.MaxUint64 - 1
)

func packCost(cost, steps uint32) Cost {
	return Cost(uint64(cost)<<32 | uint64(steps))
}

// to32BitCost extracts the real cost component, discarding the step
// tie-breaker. Used whenever a caller wants a plain operator-cost sum
// rather than the packed ordering key.
func (c Cost) to32BitCost() uint32 {
	return uint32(uint64(c) >> 32)
}
