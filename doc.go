// Package planner implements a Cartesian abstraction heuristic core for
// classical AI planning, built around counterexample-guided abstraction
// refinement (CEGAR).
//
// A task's variables and operators (package task) are first lifted to a
// disambiguated, mutex-aware operator set (package disambig). The core
// refinement loop (package cegar) starts from the trivial one-state
// abstraction and repeatedly searches for a flaw — a concrete-state
// deviation or an optimal abstract plan that doesn't apply concretely
// (package flawsearch) — picks a variable to split on (package
// splitselector), and refines the abstraction (package abstraction,
// package refinement, package transitionsystem) until a resource budget
// is exhausted or the abstraction is provably unsolvable. Shortest
// distances to the goal are maintained incrementally after every split
// (package shortestpaths) and exposed as an admissible heuristic
// function (package heuristic), with an optional additive ensemble over
// goal-decomposed subtasks (package costpartition).
//
// cmd/cegarctl is a small CLI that drives this core against a YAML task
// description and reports statistics or a DOT rendering of the final
// abstraction.
package planner
