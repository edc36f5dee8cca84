package heuristic

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocegar/planner/abstraction"
)

// WriteDOT emits a DOT graph of abs's transition system: the init state
// has an incoming edge from a synthetic source node, goal states are
// drawn as double circles, and every edge between the same pair of
// states is merged into one, labeled with its sorted operator names.
//
// Grounded on the original utils.cc's create_dot_graph.
func WriteDOT(w io.Writer, abs *abstraction.Abstraction) error {
	ts := abs.TransitionSystem()
	ops := ts.Operators()
	goals := abs.Goals()

	fmt.Fprintln(w, "digraph transition_system {")
	fmt.Fprintf(w, "  node [shape=circle];\n")
	fmt.Fprintf(w, "  init [shape=point];\n")
	fmt.Fprintf(w, "  init -> %d;\n", abs.InitialState().ID())

	for id := 0; id < abs.NumStates(); id++ {
		shape := "circle"
		if goals[id] {
			shape = "doublecircle"
		}
		fmt.Fprintf(w, "  %d [shape=%s];\n", id, shape)
	}

	type edgeKey struct{ src, target int }
	labels := map[edgeKey][]string{}
	var order []edgeKey
	for src := 0; src < ts.NumStates(); src++ {
		for _, t := range ts.GetOutgoingTransitions()[src] {
			k := edgeKey{src, t.TargetID}
			if _, seen := labels[k]; !seen {
				order = append(order, k)
			}
			labels[k] = append(labels[k], ops[t.OpID].Op.Name)
		}
	}

	for _, k := range order {
		names := labels[k]
		sort.Strings(names)
		fmt.Fprintf(w, "  %d -> %d [label=%q];\n", k.src, k.target, joinLabels(names))
	}

	fmt.Fprintln(w, "}")
	return nil
}

func joinLabels(names []string) string {
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
