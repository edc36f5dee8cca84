// Package splitselector picks, among the candidate Splits a flaw search
// produces, the one to apply next.
//
// Grounded on the original cartesian_abstractions/split_selector.{h,cc}.
package splitselector

// Split proposes refining an abstract state on Var: Values moves to one
// child, the complement of the state's current subset of Var moves to
// the other. Count is how many flawed states this split would resolve;
// OpCost is the cost of the operator whose precondition or effect
// motivated it, used by the cost-based rating strategies.
type Split struct {
	Var    int
	Values []int
	Count  int
	OpCost int
}
