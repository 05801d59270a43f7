package solver

import (
	"slices"
)

// Action is an abstract betting decision. Its value indexes strategy vectors.
type Action uint8

const (
	Fold Action = iota
	Call
	Raise
)

// NumActions is the size of the full action set.
const NumActions = 3

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// normalizeEpsilon keeps normalisation defined when every entry is zero.
const normalizeEpsilon = 1e-7

// RaiseCaps bounds the pre-flop and post-flop raise counters.
type RaiseCaps struct {
	Preflop  int
	Postflop int
}

// Capped reports whether either raise counter in b has reached its cap. Such
// buckets only offer Fold and Call.
func (c RaiseCaps) Capped(b Bucket) bool {
	pre, post := b.RaiseCounts()
	return pre >= c.Preflop || post >= c.Postflop
}

// ActionCount returns the length of the strategy vector for b.
func (c RaiseCaps) ActionCount(b Bucket) int {
	if c.Capped(b) {
		return NumActions - 1
	}
	return NumActions
}

// DefaultStrategy is the distribution used for unseen buckets and when no
// action shows positive regret: uniform over the bucket's action set.
func DefaultStrategy(b Bucket, caps RaiseCaps) []float64 {
	n := caps.ActionCount(b)
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

// Normalize clamps negative entries to zero and scales v in place to sum to
// one. A small epsilon in the denominator keeps an all-zero vector finite.
func Normalize(v []float64) {
	var sum float64
	for i, x := range v {
		if x < 0 {
			v[i] = 0
			continue
		}
		sum += x
	}
	for i := range v {
		v[i] /= sum + normalizeEpsilon
	}
}

// Row is the stored state of one bucket.
type Row struct {
	// Probs is the current strategy over the bucket's action set.
	Probs []float64
	// EV accumulates reach-weighted action values since the last update.
	EV []float64
	// Reach accumulates the reach weight behind each EV entry.
	Reach []float64
	// Values holds the per-action average EV observed by the last update.
	Values []float64
}

func newRow(probs []float64) *Row {
	n := len(probs)
	return &Row{
		Probs:  probs,
		EV:     make([]float64, n),
		Reach:  make([]float64, n),
		Values: make([]float64, n),
	}
}

// StrategyTable maps buckets to rows for one player. It is not safe for
// concurrent use.
type StrategyTable struct {
	caps    RaiseCaps
	rows    map[Bucket]*Row
	visited map[Bucket]struct{}
}

// NewStrategyTable returns an empty table for the given raise caps.
func NewStrategyTable(caps RaiseCaps) *StrategyTable {
	return &StrategyTable{
		caps:    caps,
		rows:    make(map[Bucket]*Row),
		visited: make(map[Bucket]struct{}),
	}
}

// Caps returns the raise caps the table was created with.
func (t *StrategyTable) Caps() RaiseCaps { return t.caps }

// Len returns the number of materialised rows.
func (t *StrategyTable) Len() int { return len(t.rows) }

// Get returns the row for b, creating it with the default strategy if absent.
func (t *StrategyTable) Get(b Bucket) *Row {
	if r, ok := t.rows[b]; ok {
		return r
	}
	r := newRow(DefaultStrategy(b, t.caps))
	t.rows[b] = r
	return r
}

// Lookup returns the row for b without creating one.
func (t *StrategyTable) Lookup(b Bucket) (*Row, bool) {
	r, ok := t.rows[b]
	return r, ok
}

// Strategy returns the stored distribution for b, or the default when b has
// no row. The result must not be modified.
func (t *StrategyTable) Strategy(b Bucket) []float64 {
	if r, ok := t.rows[b]; ok {
		return r.Probs
	}
	return DefaultStrategy(b, t.caps)
}

// Set replaces the strategy for b with a normalised copy of probs.
func (t *StrategyTable) Set(b Bucket, probs []float64) *Row {
	p := slices.Clone(probs)
	Normalize(p)
	r := t.Get(b)
	if len(r.Probs) != len(p) {
		r = newRow(p)
		t.rows[b] = r
		return r
	}
	r.Probs = p
	return r
}

// Accumulate records a reach-weighted value for action a at bucket b and marks
// b as visited.
func (t *StrategyTable) Accumulate(b Bucket, a Action, value, reach float64) {
	r := t.Get(b)
	r.EV[a] += value * reach
	r.Reach[a] += reach
	t.visited[b] = struct{}{}
}

// Visited returns the buckets accumulated into since the last update, in a
// deterministic order.
func (t *StrategyTable) Visited() []Bucket {
	out := make([]Bucket, 0, len(t.visited))
	for b := range t.visited {
		out = append(out, b)
	}
	slices.SortFunc(out, compareBuckets)
	return out
}

// Buckets returns every bucket with a row, in a deterministic order.
func (t *StrategyTable) Buckets() []Bucket {
	out := make([]Bucket, 0, len(t.rows))
	for b := range t.rows {
		out = append(out, b)
	}
	slices.SortFunc(out, compareBuckets)
	return out
}
