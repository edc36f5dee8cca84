// Command cegarctl builds Cartesian abstraction heuristics over a
// YAML-described planning task and reports what the refinement loop
// produced: a colorized summary, its statistics, or its transition
// system as a DOT graph.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
