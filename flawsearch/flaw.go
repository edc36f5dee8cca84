// Package flawsearch finds flaws in an abstract solution: abstract
// states along the trace from which the trace cannot be realized in the
// concrete task, either because an operator's precondition fails to hold
// or because applying it lands outside the abstract successor the trace
// expects.
//
// Grounded on the original cartesian_abstractions/flaw_search.{h,cc},
// flaw_search_legacy_backward.cc (backward/regression walk) and
// flaw_search_sequence.cc (undeviate-and-continue sequence mode).
package flawsearch

import (
	"github.com/gocegar/planner/cartesian"
)

// Flaw is one point along a trace where the abstraction diverges from
// the concrete task: either State could not satisfy OpID's precondition
// (Deviation false), or applying OpID produced a successor, recorded in
// State, that lies outside the abstract state TargetID (Deviation true).
type Flaw struct {
	AbstractStateID int
	State           cartesian.Set
	OpID            int
	TargetID        int
	Deviation       bool
}

// FlawedStates accumulates flaws discovered during a concrete-state
// search, grouped by the abstract state they were found in so a
// per-abstract-state cap can be enforced and min-h/max-h strategies can
// discard everything but the current best.
type FlawedStates struct {
	byAbstractState map[int][]Flaw
	order           []int
}

// NewFlawedStates returns an empty collection.
func NewFlawedStates() *FlawedStates {
	return &FlawedStates{byAbstractState: make(map[int][]Flaw)}
}

// NumConcreteStates returns how many flaws have been recorded so far for
// absID.
func (fs *FlawedStates) NumConcreteStates(absID int) int { return len(fs.byAbstractState[absID]) }

// Add records flaw under absID.
func (fs *FlawedStates) Add(absID int, flaw Flaw) {
	if _, ok := fs.byAbstractState[absID]; !ok {
		fs.order = append(fs.order, absID)
	}
	fs.byAbstractState[absID] = append(fs.byAbstractState[absID], flaw)
}

// Clear empties the collection.
func (fs *FlawedStates) Clear() {
	fs.byAbstractState = make(map[int][]Flaw)
	fs.order = nil
}

// Empty reports whether no flaws have been recorded.
func (fs *FlawedStates) Empty() bool { return len(fs.order) == 0 }

// AbstractStateIDs returns the abstract states with recorded flaws, in
// first-seen order.
func (fs *FlawedStates) AbstractStateIDs() []int { return fs.order }

// Flaws returns the flaws recorded under absID.
func (fs *FlawedStates) Flaws(absID int) []Flaw { return fs.byAbstractState[absID] }
