package task

// NoMutexes is a MutexOracle that reports no two facts are ever mutex.
// Useful for tasks without a precomputed mutex table.
type NoMutexes struct{}

// AreFactsMutex always returns false.
func (NoMutexes) AreFactsMutex(Fact, Fact) bool { return false }

// PairMutexes is a MutexOracle backed by an explicit set of mutex fact
// pairs, mirroring the fact-to-fact mutex table spec.md §6.1 describes.
type PairMutexes struct {
	pairs map[Fact]map[Fact]bool
}

// NewPairMutexes builds a PairMutexes from an explicit list of mutex pairs.
// Each pair is registered symmetrically.
func NewPairMutexes(pairs [][2]Fact) *PairMutexes {
	m := &PairMutexes{pairs: make(map[Fact]map[Fact]bool)}
	for _, p := range pairs {
		m.add(p[0], p[1])
		m.add(p[1], p[0])
	}
	return m
}

func (m *PairMutexes) add(a, b Fact) {
	set, ok := m.pairs[a]
	if !ok {
		set = make(map[Fact]bool)
		m.pairs[a] = set
	}
	set[b] = true
}

// AreFactsMutex reports whether f1 and f2 were registered as mutex.
func (m *PairMutexes) AreFactsMutex(f1, f2 Fact) bool {
	return m.pairs[f1][f2]
}

// StaticTask is a plain in-memory Task implementation: everything is
// supplied up front, nothing is computed lazily. It is the concrete Task
// used by this module's own tests and by cmd/cegarctl when loading a
// YAML task file (see LoadYAML).
type StaticTask struct {
	DomainSizes []int
	Ops         []Operator
	Init        []int
	GoalFacts   []Fact
	Mutexes_    MutexOracle
}

// NumVariables returns the number of variables in the task.
func (t *StaticTask) NumVariables() int { return len(t.DomainSizes) }

// VariableDomainSize returns the domain size of variable v.
func (t *StaticTask) VariableDomainSize(v int) int { return t.DomainSizes[v] }

// Operators returns the task's operators.
func (t *StaticTask) Operators() []Operator { return t.Ops }

// InitialState returns the task's initial state, one value per variable.
func (t *StaticTask) InitialState() []int { return t.Init }

// Goal returns the task's goal facts.
func (t *StaticTask) Goal() []Fact { return t.GoalFacts }

// Mutexes returns the task's mutex oracle, defaulting to NoMutexes.
func (t *StaticTask) Mutexes() MutexOracle {
	if t.Mutexes_ == nil {
		return NoMutexes{}
	}
	return t.Mutexes_
}

// NeedsAncestorConversion always returns false: StaticTask is never a
// derived subtask.
func (t *StaticTask) NeedsAncestorConversion([]int) bool { return false }

// ConvertAncestorState returns state unchanged.
func (t *StaticTask) ConvertAncestorState(state []int) []int { return state }
