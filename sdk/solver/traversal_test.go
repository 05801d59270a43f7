package solver

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokergto/poker"
)

func newTestSolver(t *testing.T, g *Game, abs AbstractionConfig) *Solver {
	t.Helper()
	mapper, err := NewBucketMapper(abs, nil)
	require.NoError(t, err)
	return NewSolver(g, mapper, abs)
}

func TestSolveRestoresGame(t *testing.T) {
	g := newTestGame(t, 3, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))

	before := g.mark()
	cursor := g.deck.Cursor()
	s.Solve(0)

	assert.Equal(t, before, g.mark())
	assert.Equal(t, cursor, g.deck.Cursor())
	assert.Empty(t, g.Board())

	stats := s.Stats()
	assert.Positive(t, stats.TerminalNodes)
	assert.Greater(t, stats.NodesVisited, stats.TerminalNodes)
	assert.Positive(t, stats.MaxDepth)
}

func TestSolveRestoresGameMidHand(t *testing.T) {
	g := newTestGame(t, 3, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))
	g.apply(2, Call, 0.5)
	g.apply(0, Call, 0.5)
	g.apply(1, Call, 0.5)
	g.dealStreet()

	before := g.mark()
	board := slices.Clone(g.Board())
	s.protagonist = 0
	s.solve(node{actor: 0, aggressor: 0, fresh: true, reach: 1})

	assert.Equal(t, before, g.mark())
	assert.Equal(t, board, g.Board())
	assert.Equal(t, StreetFlop, g.Street())
}

func TestSolveIsZeroSumAcrossSeats(t *testing.T) {
	for _, players := range []int{2, 3} {
		g := newTestGame(t, players, nil)
		s := newTestSolver(t, g, rankedAbstraction(1, 1))

		var sum float64
		for seat := 0; seat < players; seat++ {
			sum += s.Solve(seat)
		}
		assert.InDelta(t, 0, sum, 1e-9, "%d players", players)
	}
}

func TestSolveAccumulatesOnlyProtagonist(t *testing.T) {
	g := newTestGame(t, 3, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))
	s.Solve(1)

	assert.NotEmpty(t, g.seats[1].Strategy.Visited())
	assert.Empty(t, g.seats[0].Strategy.Visited())
	assert.Empty(t, g.seats[2].Strategy.Visited())
}

func TestSolveRootValuesMatchResult(t *testing.T) {
	// Heads-up, the small blind's unraised pre-flop bucket only occurs at the
	// root, where reach is one.
	g := newTestGame(t, 2, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))
	ev := s.Solve(0)

	table := g.seats[0].Strategy
	row, ok := table.Lookup(PreflopHoleBucket(g.seats[0].Hole, 0))
	require.True(t, ok)

	var want float64
	for a := range row.Probs {
		require.Equal(t, 1.0, row.Reach[a])
		want += row.Probs[a] * row.EV[a]
	}
	assert.InDelta(t, want, ev, 1e-9)
}

func TestSolveFoldedBlind(t *testing.T) {
	g := newTestGame(t, 2, nil)
	abs := rankedAbstraction(1, 1)
	g.seats[0].Strategy.Set(PreflopHoleBucket(g.seats[0].Hole, 0), []float64{1, 0, 0})

	s := newTestSolver(t, g, abs)
	assert.InDelta(t, 1, s.Solve(1), 1e-9, "big blind collects the small blind")
	assert.InDelta(t, -1, s.Solve(0), 1e-9)
}

func TestShowdown(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  [2]float64
	}{
		{"aces beat kings", "As Ks Ah Kh 2c 7d 9h Jc 4s", [2]float64{2, -2}},
		{"board plays", "2c 4c 3d 5d As Ks Qs Js Ts", [2]float64{0, 0}},
		{"flush beats aces", "As 9h Ad 8h 2h 7h Jc 4h 3s", [2]float64{-2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2, poker.MustParseCards(tt.cards))
			g.apply(0, Call, 0.5)
			for range 3 {
				g.dealStreet()
			}
			s := newTestSolver(t, g, rankedAbstraction(1, 1))
			for seat, want := range tt.want {
				s.protagonist = seat
				assert.InDelta(t, want, s.showdown(), 1e-9, "seat %d", seat)
			}
		})
	}
}

func TestPolicyRenormalisesOverLegalActions(t *testing.T) {
	g := newTestGame(t, 2, nil)
	s := newTestSolver(t, g, rankedAbstraction(1, 1))

	// The big blind owes nothing, so fold is illegal.
	legal, probs := s.policy(1, []float64{0.5, 0.25, 0.25})
	assert.Equal(t, [NumActions]bool{false, true, true}, legal)
	assert.InDelta(t, 0.5, probs[Call], 1e-12)
	assert.InDelta(t, 0.5, probs[Raise], 1e-12)

	legal, probs = s.policy(1, []float64{1, 0, 0})
	assert.True(t, legal[Call])
	assert.InDelta(t, 0.5, probs[Call], 1e-12, "no legal mass falls back to uniform")

	// Capped buckets carry two entries and never raise.
	legal, _ = s.policy(0, []float64{0.5, 0.5})
	assert.False(t, legal[Raise])
}
