// Package task defines the factored-planning-task surface the abstraction
// core consumes: variables with finite domains, operators with
// preconditions/effects/cost, an initial state, a goal condition, and a
// mutex oracle. Task loading, grounding, and mutex computation themselves
// are out of scope for this module (spec.md §1) — Task is the seam.
package task

import "errors"

// Sentinel errors returned while building or querying a Task.
var (
	// ErrVariableOutOfRange indicates a variable index outside [0, NumVariables()).
	ErrVariableOutOfRange = errors.New("task: variable index out of range")

	// ErrValueOutOfRange indicates a fact value outside a variable's domain.
	ErrValueOutOfRange = errors.New("task: value out of range for variable domain")

	// ErrNoInitialValue indicates a variable is missing from the initial state.
	ErrNoInitialValue = errors.New("task: missing initial value for variable")
)

// Fact is a (variable, value) pair.
type Fact struct {
	Var   int
	Value int
}

// Precondition is a Fact required for an Operator to apply. It carries
// nothing beyond the Fact itself; Operator.Preconditions holds plain Facts.
type Precondition struct {
	Fact
}

// Operator is an ordered sequence of preconditions and effects with a
// non-negative cost.
type Operator struct {
	ID            int
	Name          string
	Preconditions []Fact
	Effects       []Fact
	Cost          int
}

// MutexOracle answers whether two facts can never hold simultaneously in
// any reachable concrete state.
type MutexOracle interface {
	AreFactsMutex(f1, f2 Fact) bool
}

// Task is the minimal surface the abstraction core requires from a
// factored planning task.
type Task interface {
	NumVariables() int
	VariableDomainSize(v int) int
	Operators() []Operator
	InitialState() []int // one value per variable
	Goal() []Fact
	Mutexes() MutexOracle

	// NeedsAncestorConversion and ConvertAncestorState support derived
	// subtasks (landmark or goal decomposition): a state in the original
	// task may need remapping into this subtask's variable/value space
	// before a refinement-hierarchy lookup. Tasks that are not derived
	// subtasks return false/identity.
	NeedsAncestorConversion(state []int) bool
	ConvertAncestorState(state []int) []int
}

// DomainSizes returns VariableDomainSize(v) for every variable, in order —
// the shape CartesianSet/Set constructors expect.
func DomainSizes(t Task) []int {
	sizes := make([]int, t.NumVariables())
	for v := range sizes {
		sizes[v] = t.VariableDomainSize(v)
	}
	return sizes
}
