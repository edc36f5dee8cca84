package cartesian

import "github.com/gocegar/planner/task"

// State wraps a Set and exposes the semantic operations flaw search and
// abstraction refinement need against concrete operators: applicability,
// regression, progression, and undeviation.
//
// State is a thin wrapper, not a copy-on-write type: callers that need an
// independent State must call Clone explicitly, matching Set's semantics.
type State struct {
	Set Set
}

// NewState wraps set in a State.
func NewState(set Set) State { return State{Set: set} }

// Clone returns a State with an independently-owned Set.
func (s State) Clone() State { return State{Set: s.Set.Clone()} }

// Includes reports whether fact is a member of this state's set.
func (s State) Includes(f task.Fact) bool {
	return s.Set.Test(f.Var, f.Value)
}

// IncludesFacts reports whether every fact in facts is a member of this
// state's set.
func (s State) IncludesFacts(facts []task.Fact) bool {
	for _, f := range facts {
		if !s.Includes(f) {
			return false
		}
	}
	return true
}

// IncludesState reports whether s is a superset of other, i.e. every
// concrete state other represents is also represented by s.
func (s State) IncludesState(other State) bool {
	return s.Set.IsSupersetOf(other.Set)
}

// Intersects reports whether s and other share at least one concrete
// state in every variable.
func (s State) Intersects(other State) bool {
	return s.Set.Intersects(other.Set)
}

// DomainSubsetsIntersect reports whether s and other overlap in variable v.
func (s State) DomainSubsetsIntersect(other State, v int) bool {
	return s.Set.IntersectsVar(other.Set, v)
}

// IsApplicable reports whether op's preconditions are all included in s —
// forward applicability (spec.md §3.3).
func (s State) IsApplicable(op task.Operator) bool {
	for _, pre := range op.Preconditions {
		if !s.Includes(pre) {
			return false
		}
	}
	return true
}

// IsBackwardApplicable reports whether op could have just been applied to
// reach some state in s: every effect fact is included in s, and every
// prevail precondition (a precondition variable the operator does not
// touch) is also included in s.
func (s State) IsBackwardApplicable(op task.Operator) bool {
	return len(s.varsNotBackwardApplicable(op)) == 0
}

// varsNotBackwardApplicable lists the variables that block backward
// applicability of op in s (effect facts not included, or prevail
// preconditions not included).
func (s State) varsNotBackwardApplicable(op task.Operator) []int {
	effectVars := make(map[int]bool, len(op.Effects))
	var notApplicable []int
	for _, eff := range op.Effects {
		effectVars[eff.Var] = true
		if !s.Includes(eff) {
			notApplicable = append(notApplicable, eff.Var)
		}
	}
	for _, pre := range op.Preconditions {
		if effectVars[pre.Var] {
			continue
		}
		if !s.Includes(pre) {
			notApplicable = append(notApplicable, pre.Var)
		}
	}
	return notApplicable
}

// Progress returns the abstract successor of s under op: every
// precondition variable is forced to its precondition's singleton value
// (so the result is defined even when op is not applicable in s — this
// bookkeeping is used by flaw-search, spec.md §3.3), then every effect
// variable is forced to its effect's singleton value.
func (s State) Progress(op task.Operator) State {
	out := s.Clone()
	for _, pre := range op.Preconditions {
		out.Set.SetSingleValue(pre.Var, pre.Value)
	}
	for _, eff := range op.Effects {
		out.Set.SetSingleValue(eff.Var, eff.Value)
	}
	return out
}

// Regress returns the abstract predecessor of s under op: every effect
// variable is widened to its full domain, then every precondition
// variable is forced to its precondition's singleton value.
func (s State) Regress(op task.Operator) State {
	out := s.Clone()
	for _, eff := range op.Effects {
		out.Set.AddAll(eff.Var)
	}
	for _, pre := range op.Preconditions {
		out.Set.SetSingleValue(pre.Var, pre.Value)
	}
	return out
}

// Undeviate replaces, for every variable where s and mapped disagree
// entirely (their subsets are disjoint), s's subset with mapped's subset.
// Used by sequence-mode flaw search to keep scanning a trace past a
// deviation.
func (s State) Undeviate(mapped State) State {
	out := s.Clone()
	for v := 0; v < out.Set.NVars(); v++ {
		if !out.Set.IntersectsVar(mapped.Set, v) {
			out.Set.RemoveAll(v)
			for _, val := range mapped.Set.Values(v) {
				out.Set.Add(v, val)
			}
		}
	}
	return out
}
