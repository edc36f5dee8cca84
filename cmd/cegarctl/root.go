package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfg is the process-wide viper instance backing every subcommand's
// flags, following the stateless-per-invocation FromYaml pattern from
// the tabular-learning package: one viper.New() here rather than the
// package-level singleton viper.GetViper() convenience API.
var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "cegarctl",
	Short: "Build and inspect Cartesian abstraction heuristics",
	Long: `cegarctl builds a counterexample-guided abstraction refinement (CEGAR)
heuristic over a YAML-described planning task and reports on the result.`,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "optional YAML file of refinement defaults (max-states, max-transitions, mode, ...)")
	flags.Int("max-states", 10000, "stop refining once the abstraction reaches this many states")
	flags.Int("max-transitions", 1_000_000, "stop refining once the abstraction reaches this many non-loop transitions")
	flags.String("mode", "concrete", "flaw-search mode: concrete, forward, backward, or bidirectional")
	flags.Bool("disambiguate", false, "run AC-3 arc consistency over operator preconditions before refining")
	flags.Bool("refine-init", false, "split the abstract initial state down to the concrete initial state before the main loop")

	for _, name := range []string{"max-states", "max-transitions", "mode", "disambiguate", "refine-init"} {
		if err := cfg.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cobra.OnInitialize(loadConfigFile)
}

func loadConfigFile() {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path == "" {
		return
	}
	cfg.SetConfigFile(path)
	cfg.SetConfigType("yaml")
	if err := cfg.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "cegarctl: reading config %s: %v\n", path, err)
		os.Exit(1)
	}
}
