package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gocegar/planner/cegar"
	"github.com/gocegar/planner/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats <task.yaml>",
	Short: "Run the refinement loop and print its statistics as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// statsReport is the on-disk shape runStats emits: a direct serialization
// of cegar.Statistics plus the stop reason, following the same plain
// struct-to-YAML approach as task.LoadYAML's own document type.
type statsReport struct {
	StopReason string `yaml:"stop_reason"`
	cegar.Statistics `yaml:",inline"`
}

func runStats(cmd *cobra.Command, args []string) error {
	tk, err := task.LoadYAML(args[0])
	if err != nil {
		return err
	}

	opts, err := cegarOptions()
	if err != nil {
		return err
	}

	c := cegar.New(tk, opts...)
	res, runErr := c.Run(context.Background())
	if runErr != nil &&
		!errors.Is(runErr, cegar.ErrConcreteSolutionFound) &&
		!errors.Is(runErr, cegar.ErrResourceExhausted) &&
		!errors.Is(runErr, cegar.ErrAbstractUnsolvable) {
		return runErr
	}

	report := statsReport{StopReason: runErr.Error(), Statistics: res.Stats}
	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
