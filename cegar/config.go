package cegar

import (
	"io"
	"math/rand"
	"time"

	"github.com/gocegar/planner/flawsearch"
	"github.com/gocegar/planner/splitselector"
)

// DotVerbosity controls whether/how the driver emits a DOT graph of the
// abstraction after every refinement.
type DotVerbosity int

const (
	DotSilent DotVerbosity = iota
	DotWriteToWriter
)

// Mode selects how the driver looks for flaws in the current optimal
// abstract solution.
type Mode int

const (
	// ModeConcrete expands concrete states along the abstraction's
	// f-optimal transition graph (flawsearch.SearchConcrete).
	ModeConcrete Mode = iota
	// ModeSequenceForward walks the fixed abstract solution forward from
	// the concrete initial state (flawsearch.SearchSequenceForward).
	ModeSequenceForward
	// ModeSequenceBackward walks the fixed abstract solution backward
	// from the goal region (flawsearch.SearchSequenceBackward).
	ModeSequenceBackward
	// ModeSequenceBidirectional runs the forward walk until half the
	// refinement budget is spent, then switches to the backward walk —
	// at most one direction switch per run.
	ModeSequenceBidirectional
)

// Config holds the CEGAR driver's tunables, built with functional
// options.
type Config struct {
	MaxStates      int
	MaxTransitions int
	MaxTime        time.Duration

	// MemoryPaddingMB reserves this many megabytes up front; the budget
	// gate stops refining once that reservation is gone. The driver never
	// releases the reservation itself and does not catch a failed
	// allocation, so in practice this check does not stop a run.
	// 0 disables the reservation and the check.
	MemoryPaddingMB int

	Mode Mode

	PickFlawedAbstractState           flawsearch.PickFlawedAbstractState
	MaxConcreteStatesPerAbstractState int
	MaxStateExpansions                int

	Split *splitselector.SplitSelector

	Disambiguate bool
	RefineInit   bool

	Rng *rand.Rand
	Log io.Writer

	DotGraphVerbosity DotVerbosity
	DotWriter         io.Writer
}

// Option mutates a Config before a CEGAR run.
type Option func(cfg *Config)

func newConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxStates:                         10000,
		MaxTransitions:                    1_000_000,
		MaxTime:                           time.Duration(0), // 0 = unlimited
		MemoryPaddingMB:                   0,
		Mode:                              ModeConcrete,
		PickFlawedAbstractState:           flawsearch.First,
		MaxConcreteStatesPerAbstractState: 1,
		MaxStateExpansions:                1000,
		Disambiguate:                      false,
		RefineInit:                        false,
		Rng:                               rand.New(rand.NewSource(1)),
		Log:                               io.Discard,
		DotGraphVerbosity:                 DotSilent,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Split == nil {
		cfg.Split = splitselector.New(cfg.Rng, splitselector.RandomSplit, splitselector.RandomSplit, nil)
	}
	return cfg
}

func WithMaxStates(n int) Option { return func(cfg *Config) { cfg.MaxStates = n } }

func WithMaxTransitions(n int) Option { return func(cfg *Config) { cfg.MaxTransitions = n } }

func WithMaxTime(d time.Duration) Option { return func(cfg *Config) { cfg.MaxTime = d } }

func WithMemoryPaddingMB(mb int) Option { return func(cfg *Config) { cfg.MemoryPaddingMB = mb } }

func WithMode(m Mode) Option { return func(cfg *Config) { cfg.Mode = m } }

func WithPickFlawedAbstractState(p flawsearch.PickFlawedAbstractState) Option {
	return func(cfg *Config) { cfg.PickFlawedAbstractState = p }
}

func WithFlawSearchLimits(maxConcretePerAbstractState, maxStateExpansions int) Option {
	return func(cfg *Config) {
		cfg.MaxConcreteStatesPerAbstractState = maxConcretePerAbstractState
		cfg.MaxStateExpansions = maxStateExpansions
	}
}

func WithSplitSelector(sel *splitselector.SplitSelector) Option {
	return func(cfg *Config) { cfg.Split = sel }
}

func WithDisambiguate(on bool) Option { return func(cfg *Config) { cfg.Disambiguate = on } }

func WithRefineInit(on bool) Option { return func(cfg *Config) { cfg.RefineInit = on } }

func WithRand(rng *rand.Rand) Option {
	return func(cfg *Config) {
		if rng != nil {
			cfg.Rng = rng
		}
	}
}

func WithLog(w io.Writer) Option {
	return func(cfg *Config) {
		if w != nil {
			cfg.Log = w
		}
	}
}

func WithDotGraph(verbosity DotVerbosity, w io.Writer) Option {
	return func(cfg *Config) {
		cfg.DotGraphVerbosity = verbosity
		cfg.DotWriter = w
	}
}
