// Package shortestpaths maintains two distance trees over an
// abstraction's transition system — goal distances (backward from every
// goal state, following incoming transitions) and init distances
// (forward from the initial state, following outgoing transitions) — and
// keeps both current as the transition system is refined, without a full
// recompute on every split.
//
// Grounded on the original search/cegar/shortest_paths.{h,cc}.
package shortestpaths

import (
	"github.com/gocegar/planner/transitionsystem"
)

// Transition mirrors transitionsystem.Transition: the operator used and
// the state reached (or, read from a shortest-path tree, the state the
// edge came from).
type Transition = transitionsystem.Transition

const undefined = -1

// noTransition is the zero Transition used where the original's
// Transition() default constructor marks "no predecessor" (init/goal
// states at the root of a tree).
var noTransition = Transition{OpID: undefined, TargetID: undefined}

// ShortestPaths owns the packed operator costs and the two distance
// trees. Zero value is not usable; build with New.
type ShortestPaths struct {
	operatorCosts        []Cost
	hasZeroCostOperators bool

	goalDistances []Cost
	initDistances []Cost

	shortestPath        []Transition // goal tree: state -> edge toward a goal
	reverseShortestPath []Transition // init tree: state -> edge toward init

	dirtyStates    []int
	dirtyCandidate []bool

	openQueue      bucketQueue
	candidateQueue bucketQueue
}

// New builds a ShortestPaths over operator costs. costs must be indexed
// by operator ID exactly as the transition system's operator IDs are.
func New(costs []int) *ShortestPaths {
	hasZeroCost := false
	for _, c := range costs {
		if c == 0 {
			hasZeroCost = true
			break
		}
	}
	sp := &ShortestPaths{hasZeroCostOperators: hasZeroCost}
	sp.operatorCosts = make([]Cost, len(costs))
	for i, c := range costs {
		sp.operatorCosts[i] = sp.convertTo64BitCost(c)
	}
	return sp
}

func (sp *ShortestPaths) convertTo64BitCost(cost int) Cost {
	if !sp.hasZeroCostOperators {
		return Cost(cost)
	}
	if cost == 0 {
		return packCost(0, 1)
	}
	return packCost(uint32(cost), 0)
}

func (sp *ShortestPaths) convertTo32BitCost(cost Cost) int {
	if cost == INF {
		return -1
	}
	if sp.hasZeroCostOperators {
		return int(cost.to32BitCost())
	}
	return int(cost)
}

func addCosts(a, b Cost) Cost {
	if a == INF || b == INF {
		return INF
	}
	return a + b
}

// Clone returns a deep copy of sp, safe to feed to UpdateIncrementally
// for a what-if projection (e.g. split-rating simulation) without
// disturbing the original's distance trees or queues.
func (sp *ShortestPaths) Clone() *ShortestPaths {
	out := &ShortestPaths{hasZeroCostOperators: sp.hasZeroCostOperators}
	out.operatorCosts = append([]Cost(nil), sp.operatorCosts...)
	out.goalDistances = append([]Cost(nil), sp.goalDistances...)
	out.initDistances = append([]Cost(nil), sp.initDistances...)
	out.shortestPath = append([]Transition(nil), sp.shortestPath...)
	out.reverseShortestPath = append([]Transition(nil), sp.reverseShortestPath...)
	return out
}

// Recompute throws away both distance trees and rebuilds them from
// scratch via two independent Dijkstra searches: one backward from every
// goal over in, one forward from initID over out.
func (sp *ShortestPaths) Recompute(in, out [][]Transition, goals map[int]bool, initID int) {
	n := len(in)
	sp.shortestPath = make([]Transition, n)
	sp.reverseShortestPath = make([]Transition, n)
	sp.goalDistances = make([]Cost, n)
	sp.initDistances = make([]Cost, n)
	for i := range sp.goalDistances {
		sp.goalDistances[i] = INF
		sp.initDistances[i] = INF
	}

	sp.openQueue.clear()
	sp.recomputeForward(in, goals)
	sp.openQueue.clear()
	sp.recomputeBackward(out, initID)
}

func (sp *ShortestPaths) recomputeForward(in [][]Transition, goals map[int]bool) {
	for goal := range goals {
		sp.goalDistances[goal] = 0
		sp.shortestPath[goal] = noTransition
		sp.openQueue.push(0, goal)
	}
	for !sp.openQueue.empty() {
		oldDist, stateID := sp.openQueue.pop()
		dist := sp.goalDistances[stateID]
		if dist < oldDist {
			continue
		}
		for _, t := range in[stateID] {
			opCost := sp.operatorCosts[t.OpID]
			succDist := addCosts(dist, opCost)
			if succDist < sp.goalDistances[t.TargetID] {
				sp.goalDistances[t.TargetID] = succDist
				sp.shortestPath[t.TargetID] = Transition{OpID: t.OpID, TargetID: stateID}
				sp.openQueue.push(succDist, t.TargetID)
			}
		}
	}
}

func (sp *ShortestPaths) recomputeBackward(out [][]Transition, initID int) {
	sp.initDistances[initID] = 0
	sp.reverseShortestPath[initID] = noTransition
	sp.openQueue.push(0, initID)

	for !sp.openQueue.empty() {
		oldDist, stateID := sp.openQueue.pop()
		dist := sp.initDistances[stateID]
		if dist < oldDist {
			continue
		}
		for _, t := range out[stateID] {
			opCost := sp.operatorCosts[t.OpID]
			succDist := addCosts(dist, opCost)
			if succDist < sp.initDistances[t.TargetID] {
				sp.initDistances[t.TargetID] = succDist
				sp.reverseShortestPath[t.TargetID] = Transition{OpID: t.OpID, TargetID: stateID}
				sp.openQueue.push(succDist, t.TargetID)
			}
		}
	}
}

func (sp *ShortestPaths) markDirty(state int, backward bool) {
	if backward {
		sp.initDistances[state] = Dirty
		sp.reverseShortestPath[state] = noTransition
	} else {
		sp.goalDistances[state] = Dirty
		sp.shortestPath[state] = noTransition
	}
	sp.dirtyStates = append(sp.dirtyStates, state)
}

// UpdateIncrementally patches both distance trees after state v has been
// split into v1 and v2, given the transition table already rewired for
// v1/v2 (in/out as owned by the caller's transitionsystem.System).
func (sp *ShortestPaths) UpdateIncrementally(in, out [][]Transition, v, v1, v2 int, goals map[int]bool, initID int) {
	n := len(in)
	sp.growTo(n)

	sp.dirtyCandidate = make([]bool, n)
	sp.dirtyStates = sp.dirtyStates[:0]
	sp.updateIncrementallyInDirection(in, out, v, v1, v2, goals, initID, false)

	sp.dirtyCandidate = make([]bool, n)
	sp.dirtyStates = sp.dirtyStates[:0]
	sp.updateIncrementallyInDirection(in, out, v, v1, v2, goals, initID, true)
}

func (sp *ShortestPaths) growTo(n int) {
	for len(sp.shortestPath) < n {
		sp.shortestPath = append(sp.shortestPath, noTransition)
		sp.reverseShortestPath = append(sp.reverseShortestPath, noTransition)
		sp.goalDistances = append(sp.goalDistances, 0)
		sp.initDistances = append(sp.initDistances, 0)
	}
}

// updateIncrementallyInDirection implements the shared orphan-detection-
// then-Dijkstra update for one of the two distance trees. backward
// selects the init-distance/reverse-shortest-path/out-as-virtual-in view;
// !backward selects the goal-distance/shortest-path/in-as-virtual-in view.
func (sp *ShortestPaths) updateIncrementallyInDirection(in, out [][]Transition, v, v1, v2 int, goals map[int]bool, initID int, backward bool) {
	distances := sp.goalDistances
	tree := sp.shortestPath
	virtualIn, virtualOut := in, out
	if backward {
		distances = sp.initDistances
		tree = sp.reverseShortestPath
		virtualIn, virtualOut = out, in
	}

	// Copy distance from the split state to both children. This will be
	// corrected below wherever it's wrong.
	distances[v1] = distances[v]
	distances[v2] = distances[v]

	// Any shortest-path-tree edge that used to point at v, from a state
	// whose operator cost matches, now points at whichever child it
	// still reaches.
	for _, state := range [2]int{v1, v2} {
		for _, incoming := range virtualIn[state] {
			u := incoming.TargetID
			op := incoming.OpID
			edge := tree[u]
			if edge.TargetID == v && sp.operatorCosts[op] == sp.operatorCosts[edge.OpID] {
				tree[u] = Transition{OpID: op, TargetID: state}
			}
		}
	}

	candidateQueue := &sp.candidateQueue
	candidateQueue.clear()
	dirtyCandidate := sp.dirtyCandidate
	dirtyCandidate[v1] = true
	dirtyCandidate[v2] = true
	candidateQueue.push(distances[v1], v1)
	candidateQueue.push(distances[v2], v2)

	for !candidateQueue.empty() {
		_, state := candidateQueue.pop()

		if backward {
			if state == initID {
				dirtyCandidate[state] = false
				continue
			}
		} else if goals[state] {
			dirtyCandidate[state] = false
			continue
		}

		reconnected := false
		for _, t := range virtualOut[state] {
			succ := t.TargetID
			if distances[succ] != Dirty && addCosts(distances[succ], sp.operatorCosts[t.OpID]) == distances[state] {
				tree[state] = Transition{OpID: t.OpID, TargetID: succ}
				reconnected = true
				break
			}
		}
		if !reconnected {
			sp.markDirty(state, backward)
			for _, t := range virtualIn[state] {
				prev := t.TargetID
				if !dirtyCandidate[prev] && distances[prev] != Dirty && tree[prev].TargetID == state {
					dirtyCandidate[prev] = true
					candidateQueue.push(distances[prev], prev)
				}
			}
		}
		dirtyCandidate[state] = false
	}

	// Dijkstra over dirty states only: seed every dirty state with its
	// best non-dirty successor, then relax dirty-to-dirty edges.
	sp.openQueue.clear()
	for _, state := range sp.dirtyStates {
		minDist := INF
		for _, t := range virtualOut[state] {
			succ := t.TargetID
			if distances[succ] != Dirty {
				newDist := addCosts(sp.operatorCosts[t.OpID], distances[succ])
				if newDist < minDist {
					minDist = newDist
					tree[state] = Transition{OpID: t.OpID, TargetID: succ}
				}
			}
		}
		distances[state] = minDist
		if minDist != INF {
			sp.openQueue.push(minDist, state)
		}
	}
	for !sp.openQueue.empty() {
		g, state := sp.openQueue.pop()
		if g > distances[state] {
			continue
		}
		for _, t := range virtualIn[state] {
			succ := t.TargetID
			succG := addCosts(sp.operatorCosts[t.OpID], g)
			if distances[succ] == Dirty || succG < distances[succ] {
				distances[succ] = succG
				tree[succ] = Transition{OpID: t.OpID, TargetID: state}
				sp.openQueue.push(succG, succ)
			}
		}
	}

}

// ExtractSolution walks the goal shortest-path tree from initID to the
// first goal state it reaches, returning the operator sequence as a list
// of (state -> next state) transitions. Returns nil if initID cannot
// reach any goal.
func (sp *ShortestPaths) ExtractSolution(initID int, goals map[int]bool) []Transition {
	if sp.goalDistances[initID] == INF {
		return nil
	}
	var solution []Transition
	current := initID
	for !goals[current] {
		t := sp.shortestPath[current]
		solution = append(solution, t)
		current = t.TargetID
	}
	return solution
}

// GoalDistance returns the packed 64-bit distance from stateID to the
// goal tree's root set.
func (sp *ShortestPaths) GoalDistance(stateID int) Cost { return sp.goalDistances[stateID] }

// InitDistance returns the packed 64-bit distance from the initial state
// to stateID.
func (sp *ShortestPaths) InitDistance(stateID int) Cost { return sp.initDistances[stateID] }

// GoalDistance32 returns the real (unpacked) goal distance, or -1 if
// unreached.
func (sp *ShortestPaths) GoalDistance32(stateID int) int {
	return sp.convertTo32BitCost(sp.goalDistances[stateID])
}

// InitDistance32 returns the real (unpacked) init distance, or -1 if
// unreached.
func (sp *ShortestPaths) InitDistance32(stateID int) int {
	return sp.convertTo32BitCost(sp.initDistances[stateID])
}

// IsOptimalTransition reports whether the edge startID --opID--> targetID
// lies on some optimal path to a goal.
func (sp *ShortestPaths) IsOptimalTransition(startID, opID, targetID int) bool {
	return sp.goalDistances[startID]-sp.operatorCosts[opID] == sp.goalDistances[targetID]
}

// IsBackwardOptimalTransition reports whether the edge targetID --opID-->
// startID (read backward from startID) lies on some optimal path from the
// initial state.
func (sp *ShortestPaths) IsBackwardOptimalTransition(startID, opID, targetID int) bool {
	return sp.initDistances[startID]-sp.operatorCosts[opID] == sp.initDistances[targetID]
}
