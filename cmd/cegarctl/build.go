package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gocegar/planner/cegar"
	"github.com/gocegar/planner/task"
)

var buildCmd = &cobra.Command{
	Use:   "build <task.yaml>",
	Short: "Run the refinement loop over a task and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	tk, err := task.LoadYAML(args[0])
	if err != nil {
		return err
	}

	opts, err := cegarOptions()
	if err != nil {
		return err
	}

	runID := uuid.New().String()[:8]
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("%s %s\n", cyan("run"), runID)

	start := time.Now()
	c := cegar.New(tk, opts...)
	res, err := c.Run(context.Background())
	elapsed := time.Since(start)

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	switch {
	case errors.Is(err, cegar.ErrConcreteSolutionFound):
		fmt.Printf("%s found a concrete solution\n", green("✓"))
	case errors.Is(err, cegar.ErrResourceExhausted):
		fmt.Printf("%s stopped: resource budget exhausted\n", yellow("⚠"))
	case errors.Is(err, cegar.ErrAbstractUnsolvable):
		fmt.Printf("%s task is unsolvable\n", red("✗"))
	default:
		return err
	}

	fmt.Printf("  states:      %d\n", res.Stats.NumStates)
	fmt.Printf("  transitions: %d (%d loops)\n", res.Stats.NumNonLoops, res.Stats.NumLoops)
	fmt.Printf("  goal states: %d\n", res.Stats.NumGoalStates)
	fmt.Printf("  refinements: %d (%d forward, %d backward)\n",
		res.Stats.Refinements, res.Stats.ForwardRefinements, res.Stats.BackwardRefinements)
	fmt.Printf("  elapsed:     %v\n", elapsed.Round(time.Millisecond))
	return nil
}
