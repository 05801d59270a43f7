package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokergto/poker"
)

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func TestNormalize(t *testing.T) {
	v := []float64{2, -1, 6}
	Normalize(v)
	assert.Zero(t, v[1])
	assert.InDelta(t, 0.25, v[0], 1e-6)
	assert.InDelta(t, 0.75, v[2], 1e-6)

	zero := []float64{0, 0, 0}
	Normalize(zero)
	assert.Equal(t, []float64{0, 0, 0}, zero)
}

func TestDefaultStrategyRespectsCaps(t *testing.T) {
	caps := RaiseCaps{Preflop: 2, Postflop: 1}

	open := PreflopBucket{High: poker.Ace, Low: poker.Ace, PreRaises: 1}
	assert.Len(t, DefaultStrategy(open, caps), 3)

	capped := PreflopBucket{High: poker.Ace, Low: poker.Ace, PreRaises: 2}
	assert.Equal(t, []float64{0.5, 0.5}, DefaultStrategy(capped, caps))

	post := PostflopBucket{PreRaises: 0, PostRaises: 1}
	assert.Len(t, DefaultStrategy(post, caps), 2)
}

func TestUpdateStrategyMovesTowardBestAction(t *testing.T) {
	caps := RaiseCaps{Preflop: 2, Postflop: 2}
	table := NewStrategyTable(caps)
	b := PreflopBucket{High: poker.King, Low: poker.Queen}

	table.Accumulate(b, Fold, -1, 1)
	table.Accumulate(b, Call, 2, 1)
	table.Accumulate(b, Call, 4, 1)
	table.Accumulate(b, Raise, 5, 0.5)

	require.Equal(t, 1, UpdateStrategy(table))
	row, ok := table.Lookup(b)
	require.True(t, ok)

	assert.Equal(t, []float64{-1, 3, 5}, row.Values)
	// Average under the uniform strategy is 7/3, so regrets are 0, 2/3, 8/3.
	assert.InDelta(t, 0, row.Probs[Fold], 1e-6)
	assert.InDelta(t, 0.2, row.Probs[Call], 1e-6)
	assert.InDelta(t, 0.8, row.Probs[Raise], 1e-6)
	assert.InDelta(t, 1, sum(row.Probs), 1e-6)

	assert.Equal(t, []float64{0, 0, 0}, row.EV)
	assert.Equal(t, []float64{0, 0, 0}, row.Reach)
	assert.Empty(t, table.Visited())
}

func TestUpdateStrategyFallsBackWithoutPositiveRegret(t *testing.T) {
	caps := RaiseCaps{Preflop: 2, Postflop: 2}
	table := NewStrategyTable(caps)
	b := PreflopBucket{High: poker.King, Low: poker.Queen}
	table.Set(b, []float64{0, 1, 0})

	table.Accumulate(b, Call, 3, 1)
	table.Accumulate(b, Raise, 3, 1)
	UpdateStrategy(table)

	row, _ := table.Lookup(b)
	for _, p := range row.Probs {
		assert.InDelta(t, 1.0/3.0, p, 1e-6)
	}
}

func TestUpdateStrategyIgnoresUnvisitedRows(t *testing.T) {
	caps := RaiseCaps{Preflop: 2, Postflop: 2}
	table := NewStrategyTable(caps)
	seeded := PreflopBucket{High: poker.Nine, Low: poker.Two}
	table.Set(seeded, []float64{0.6, 0.3, 0.1})

	assert.Zero(t, UpdateStrategy(table))
	assert.InDelta(t, 0.6, table.Strategy(seeded)[Fold], 1e-6)
}

func TestStrategyTableLookupDoesNotMaterialise(t *testing.T) {
	table := NewStrategyTable(RaiseCaps{Preflop: 1, Postflop: 1})
	b := PostflopBucket{Outranked: 3}

	_, ok := table.Lookup(b)
	assert.False(t, ok)
	assert.Len(t, table.Strategy(b), 3)
	assert.Zero(t, table.Len())

	table.Get(b)
	assert.Equal(t, 1, table.Len())
}

func TestStrategyTableOrdering(t *testing.T) {
	table := NewStrategyTable(RaiseCaps{Preflop: 1, Postflop: 1})
	eq := EquityBucket{Tiers: [poker.NumHandClasses]uint8{1, 1, 1, 1}}
	pre := PreflopBucket{High: poker.Ace, Low: poker.Two}
	post := PostflopBucket{Outranked: 1}
	for _, b := range []Bucket{eq, post, pre} {
		table.Get(b)
	}
	assert.Equal(t, []Bucket{pre, post, eq}, table.Buckets())
}
