package task

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFact mirrors Fact for YAML (de)serialization: Fact carries no yaml
// tags, so yamlFact adds lowercase ones for a compact file format.
type yamlFact struct {
	Var   int `yaml:"var"`
	Value int `yaml:"value"`
}

func (f yamlFact) toFact() Fact { return Fact{Var: f.Var, Value: f.Value} }

type yamlOperator struct {
	Name          string     `yaml:"name"`
	Preconditions []yamlFact `yaml:"preconditions"`
	Effects       []yamlFact `yaml:"effects"`
	Cost          int        `yaml:"cost"`
}

type yamlMutexPair struct {
	A yamlFact `yaml:"a"`
	B yamlFact `yaml:"b"`
}

// yamlTask is the on-disk shape LoadYAML parses. It is a direct,
// human-editable serialization of the same facts a SAS task file carries:
// variable domain sizes, operators, initial state, goal facts, and an
// optional explicit mutex table.
type yamlTask struct {
	DomainSizes []int           `yaml:"domain_sizes"`
	Operators   []yamlOperator  `yaml:"operators"`
	Init        []int           `yaml:"init"`
	Goal        []yamlFact      `yaml:"goal"`
	Mutexes     []yamlMutexPair `yaml:"mutexes"`
}

// LoadYAML reads a YAML task description from path and returns the
// equivalent StaticTask. This substitutes for the original planner's SAS
// task format — loading/grounding proper is out of scope for this module
// (spec.md §1), but cmd/cegarctl needs a real, runnable entry point, so we
// give the Task interface one concrete, file-backed implementation.
func LoadYAML(path string) (*StaticTask, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("task: read %s: %w", path, err)
	}
	var doc yamlTask
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("task: parse %s: %w", path, err)
	}
	return doc.toStaticTask()
}

func (doc yamlTask) toStaticTask() (*StaticTask, error) {
	if len(doc.Init) != len(doc.DomainSizes) {
		return nil, fmt.Errorf("task: %w: init has %d values, want %d",
			ErrNoInitialValue, len(doc.Init), len(doc.DomainSizes))
	}
	for v, val := range doc.Init {
		if val < 0 || val >= doc.DomainSizes[v] {
			return nil, fmt.Errorf("task: %w: var %d value %d", ErrValueOutOfRange, v, val)
		}
	}

	ops := make([]Operator, len(doc.Operators))
	for i, yop := range doc.Operators {
		pre := make([]Fact, len(yop.Preconditions))
		for j, f := range yop.Preconditions {
			pre[j] = f.toFact()
		}
		eff := make([]Fact, len(yop.Effects))
		for j, f := range yop.Effects {
			eff[j] = f.toFact()
		}
		ops[i] = Operator{ID: i, Name: yop.Name, Preconditions: pre, Effects: eff, Cost: yop.Cost}
	}

	goal := make([]Fact, len(doc.Goal))
	for i, f := range doc.Goal {
		goal[i] = f.toFact()
	}

	var mutexOracle MutexOracle = NoMutexes{}
	if len(doc.Mutexes) > 0 {
		pairs := make([][2]Fact, len(doc.Mutexes))
		for i, mp := range doc.Mutexes {
			pairs[i] = [2]Fact{mp.A.toFact(), mp.B.toFact()}
		}
		mutexOracle = NewPairMutexes(pairs)
	}

	return &StaticTask{
		DomainSizes: append([]int(nil), doc.DomainSizes...),
		Ops:         ops,
		Init:        append([]int(nil), doc.Init...),
		GoalFacts:   goal,
		Mutexes_:    mutexOracle,
	}, nil
}
