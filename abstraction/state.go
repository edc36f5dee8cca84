// Package abstraction owns the set of abstract states for one Cartesian
// abstraction, drives splits through the refinement hierarchy and
// transition system, and exposes the lookup operations the CEGAR loop and
// flaw search need.
//
// Grounded on the original planner's
// cartesian_abstractions/abstraction.{h,cc} and abstract_state.{h,cc}.
package abstraction

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/refinement"
)

// State is one abstract state: a stable ID, the node it occupies in the
// refinement hierarchy, and the Cartesian set it stands for.
type State struct {
	id     int
	nodeID refinement.NodeID
	set    cartesian.Set
}

// NewState wraps set as abstract state id at hierarchy node nodeID.
func NewState(id int, nodeID refinement.NodeID, set cartesian.Set) State {
	return State{id: id, nodeID: nodeID, set: set}
}

// ID returns this state's stable ID (also its index into Abstraction's
// state slice).
func (s State) ID() int { return s.id }

// NodeID returns this state's current node in the refinement hierarchy.
func (s State) NodeID() refinement.NodeID { return s.nodeID }

func (s *State) setNodeID(id refinement.NodeID) { s.nodeID = id }

// Set returns the Cartesian set this state stands for.
func (s State) Set() cartesian.Set { return s.set }

// CartesianState adapts s to transitionsystem.AbstractState.
func (s State) CartesianState() cartesian.State { return cartesian.NewState(s.set) }

// Count returns the number of concrete values variable v can take in s.
func (s State) Count(v int) int { return s.set.Count(v) }

// Includes reports whether value is a member of variable v's subset in s.
func (s State) Includes(v, value int) bool { return s.set.Test(v, value) }

// SplitDomain partitions s's subset of variable v into two new Cartesian
// sets: one retaining every value except wanted, the other holding only
// wanted. Mirrors CartesianState::split_domain.
func (s State) SplitDomain(v int, wanted []int) (rest, picked cartesian.Set) {
	rest = s.set.Clone()
	picked = s.set.Clone()
	picked.RemoveAll(v)
	for _, value := range wanted {
		rest.Remove(v, value)
		picked.Add(v, value)
	}
	return rest, picked
}
