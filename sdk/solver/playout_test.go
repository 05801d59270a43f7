package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pokergto/internal/randutil"
)

type fixedSampler float64

func (f fixedSampler) Float64() float64 { return float64(f) }

func TestPlayoutLeavesTablesAndGameUntouched(t *testing.T) {
	g := newTestGame(t, 3, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))
	before := g.mark()

	rng := randutil.New(9)
	for range 20 {
		results := s.Playout(rng)
		var sum float64
		for _, r := range results {
			sum += r
			assert.GreaterOrEqual(t, r, float64(-testStakes.StartingStack))
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}

	assert.Equal(t, before, g.mark())
	for i := range g.seats {
		assert.Zero(t, g.seats[i].Strategy.Len(), "seat %d", i)
	}
}

func TestPlayoutIsDeterministic(t *testing.T) {
	g := newTestGame(t, 3, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))

	a := s.Playout(randutil.New(5))
	b := s.Playout(randutil.New(5))
	assert.Equal(t, a, b)
}

func TestPlayoutFold(t *testing.T) {
	g := newTestGame(t, 2, nil)
	g.seats[0].Strategy.Set(PreflopHoleBucket(g.seats[0].Hole, 0), []float64{1, 0, 0})
	s := newTestSolver(t, g, rankedAbstraction(1, 1))

	assert.Equal(t, []float64{-1, 1}, s.Playout(fixedSampler(0.5)))
}

func TestSampleAction(t *testing.T) {
	all := [NumActions]bool{true, true, true}
	probs := [NumActions]float64{0.2, 0.3, 0.5}

	assert.Equal(t, Fold, sampleAction(fixedSampler(0.1), all, probs))
	assert.Equal(t, Call, sampleAction(fixedSampler(0.2), all, probs))
	assert.Equal(t, Raise, sampleAction(fixedSampler(0.6), all, probs))
	assert.Equal(t, Raise, sampleAction(fixedSampler(0.9999999999), all, probs))

	noFold := [NumActions]bool{false, true, true}
	assert.Equal(t, Call, sampleAction(fixedSampler(0.1), noFold, [NumActions]float64{0, 0.5, 0.5}))
}
