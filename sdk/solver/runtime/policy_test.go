package runtime

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokergto/poker"
	"github.com/lox/pokergto/sdk/solver"
)

func rankedAbstraction() solver.AbstractionConfig {
	abs := solver.DefaultAbstraction()
	abs.Mode = solver.ModeRanked
	abs.PreflopRaiseCap = 1
	abs.PostflopRaiseCap = 1
	return abs
}

func TestPolicyActionWeights(t *testing.T) {
	abs := rankedAbstraction()
	tables := []*solver.StrategyTable{solver.NewStrategyTable(abs.Caps()), solver.NewStrategyTable(abs.Caps())}
	trained := solver.PreflopBucket{High: poker.Ace, Low: poker.King, Suited: true}
	tables[0].Set(trained, []float64{0, 0.25, 0.75})

	policy, err := New(abs, tables)
	require.NoError(t, err)

	weights, err := policy.ActionWeights(0, trained)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, weights[solver.Raise], 1e-6)

	weights[solver.Raise] = 0
	again, err := policy.ActionWeights(0, trained)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, again[solver.Raise], 1e-6, "returned weights must be a copy")

	missing, err := policy.ActionWeights(1, trained)
	require.NoError(t, err)
	for _, w := range missing {
		assert.InDelta(t, 1.0/3.0, w, 1e-9)
	}

	_, err = policy.ActionWeights(5, trained)
	assert.Error(t, err)

	var nilPolicy *Policy
	_, err = nilPolicy.ActionWeights(0, trained)
	assert.Error(t, err)
}

func TestNewRejectsSinglePlayer(t *testing.T) {
	abs := rankedAbstraction()
	_, err := New(abs, []*solver.StrategyTable{solver.NewStrategyTable(abs.Caps())})
	assert.Error(t, err)
}

func TestEvaluateIsZeroSum(t *testing.T) {
	abs := rankedAbstraction()
	tables := []*solver.StrategyTable{
		solver.NewStrategyTable(abs.Caps()),
		solver.NewStrategyTable(abs.Caps()),
		solver.NewStrategyTable(abs.Caps()),
	}
	policy, err := New(abs, tables)
	require.NoError(t, err)

	stakes := solver.Stakes{StartingStack: 50, SmallBlind: 1, BigBlind: 2}
	report, err := policy.Evaluate(context.Background(), stakes, 40, 3)
	require.NoError(t, err)
	require.Equal(t, 40, report.Hands)

	var sum float64
	for player := range tables {
		sum += report.Profit[player]
		assert.LessOrEqual(t, math.Abs(report.PerHand(player)), float64(stakes.StartingStack))
	}
	assert.InDelta(t, 0, sum, 1e-6, "chips are neither created nor destroyed")

	again, err := policy.Evaluate(context.Background(), stakes, 40, 3)
	require.NoError(t, err)
	assert.Equal(t, report, again, "same seed must replay the same hands")
}

func TestEvaluateHonoursCancellation(t *testing.T) {
	abs := rankedAbstraction()
	policy, err := New(abs, []*solver.StrategyTable{solver.NewStrategyTable(abs.Caps()), solver.NewStrategyTable(abs.Caps())})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = policy.Evaluate(ctx, solver.Stakes{StartingStack: 20, SmallBlind: 1, BigBlind: 2}, 10, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
