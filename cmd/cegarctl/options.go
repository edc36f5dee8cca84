package main

import (
	"fmt"

	"github.com/gocegar/planner/cegar"
)

// parseMode maps the --mode flag's string value onto a cegar.Mode.
func parseMode(name string) (cegar.Mode, error) {
	switch name {
	case "concrete":
		return cegar.ModeConcrete, nil
	case "forward":
		return cegar.ModeSequenceForward, nil
	case "backward":
		return cegar.ModeSequenceBackward, nil
	case "bidirectional":
		return cegar.ModeSequenceBidirectional, nil
	default:
		return 0, fmt.Errorf("cegarctl: unknown mode %q (want concrete, forward, backward, or bidirectional)", name)
	}
}

// cegarOptions builds the cegar.Option list the current invocation's
// flags/config describe.
func cegarOptions() ([]cegar.Option, error) {
	mode, err := parseMode(cfg.GetString("mode"))
	if err != nil {
		return nil, err
	}
	return []cegar.Option{
		cegar.WithMaxStates(cfg.GetInt("max-states")),
		cegar.WithMaxTransitions(cfg.GetInt("max-transitions")),
		cegar.WithMode(mode),
		cegar.WithDisambiguate(cfg.GetBool("disambiguate")),
		cegar.WithRefineInit(cfg.GetBool("refine-init")),
	}, nil
}
