package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gocegar/planner/cegar"
	"github.com/gocegar/planner/heuristic"
	"github.com/gocegar/planner/task"
)

var dotOutPath string

var dotCmd = &cobra.Command{
	Use:   "dot <task.yaml>",
	Short: "Run the refinement loop and write the final abstraction as a DOT graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runDot,
}

func init() {
	dotCmd.Flags().StringVarP(&dotOutPath, "out", "o", "", "write the graph here instead of stdout")
	rootCmd.AddCommand(dotCmd)
}

func runDot(cmd *cobra.Command, args []string) error {
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

	w := cmd.OutOrStdout()
	if dotOutPath != "" {
		f, err := os.Create(dotOutPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return heuristic.WriteDOT(w, res.Abstraction)
}
