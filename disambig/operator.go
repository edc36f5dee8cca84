package disambig

import (
	"github.com/gocegar/planner/cartesian"
	"github.com/gocegar/planner/task"
)

// Operator wraps a task.Operator with a precondition tightened once via
// AC-3 arc consistency, and a dense effect lookup keyed by variable.
//
// Grounded on the original planner's task_utils/disambiguated_operator.{h,cc}.
type Operator struct {
	Op           task.Operator
	Precondition cartesian.Set
	effectInVar  map[int]int
	spurious     bool
}

// NewOperator builds a disambiguated Operator from op. domainSizes is the
// task's per-variable domain sizes, used to build the precondition's full
// starting set before narrowing it to op's actual preconditions and
// running AC-3 against mutexes.
func NewOperator(op task.Operator, domainSizes []int, mutexes task.MutexOracle) Operator {
	pre := cartesian.NewSet(domainSizes)
	for _, f := range op.Preconditions {
		pre.SetSingleValue(f.Var, f.Value)
	}

	spurious := pre.IsEmpty()
	if !spurious {
		if changed := Disambiguate(pre, mutexes); changed {
			spurious = pre.IsEmpty()
		}
	}

	effectInVar := make(map[int]int, len(op.Effects))
	for _, f := range op.Effects {
		effectInVar[f.Var] = f.Value
	}

	return Operator{
		Op:           op,
		Precondition: pre,
		effectInVar:  effectInVar,
		spurious:     spurious,
	}
}

// IsRedundant reports whether op can never fire (a spurious precondition,
// eliminated entirely by AC-3) or never changes anything (an empty
// effect) — either way it contributes nothing to the abstraction.
func (o Operator) IsRedundant() bool {
	return o.spurious || len(o.effectInVar) == 0
}

// GetEffect returns the value op's effect assigns to variable v, and
// whether op has an effect on v at all.
func (o Operator) GetEffect(v int) (int, bool) {
	val, ok := o.effectInVar[v]
	return val, ok
}

// ID returns the wrapped operator's ID.
func (o Operator) ID() int { return o.Op.ID }

// Name returns the wrapped operator's name.
func (o Operator) Name() string { return o.Op.Name }

// Cost returns the wrapped operator's cost.
func (o Operator) Cost() int { return o.Op.Cost }
