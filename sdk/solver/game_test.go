package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokergto/internal/randutil"
	"github.com/lox/pokergto/poker"
)

var testStakes = Stakes{StartingStack: 20, SmallBlind: 1, BigBlind: 2}

func rankedAbstraction(pre, post int) AbstractionConfig {
	abs := DefaultAbstraction()
	abs.Mode = ModeRanked
	abs.PreflopRaiseCap = pre
	abs.PostflopRaiseCap = post
	return abs
}

func newTables(n int, caps RaiseCaps) []*StrategyTable {
	tables := make([]*StrategyTable, n)
	for i := range tables {
		tables[i] = NewStrategyTable(caps)
	}
	return tables
}

// newTestGame deals an n-seat hand from a deck stacked with the given cards,
// or from a seeded shuffle when none are given.
func newTestGame(t *testing.T, n int, stacked []poker.Card) *Game {
	t.Helper()
	deck := poker.NewDeck(randutil.New(42))
	if stacked != nil {
		deck = poker.NewStackedDeck(stacked...)
	}
	g, err := NewGame(deck, testStakes, newTables(n, RaiseCaps{Preflop: 1, Postflop: 1}))
	require.NoError(t, err)
	return g
}

func TestNewGamePostsBlinds(t *testing.T) {
	g := newTestGame(t, 3, nil)

	assert.Equal(t, 3, g.Pot())
	assert.Equal(t, 2, g.CurrentBet())
	assert.Equal(t, 19, g.Seat(0).Stack)
	assert.Equal(t, 18, g.Seat(1).Stack)
	assert.Equal(t, 20, g.Seat(2).Stack)
	assert.Equal(t, 2, g.Owed(2))
	assert.Equal(t, 1, g.Owed(0))
	assert.Zero(t, g.Owed(1))
	assert.Equal(t, StreetPreflop, g.Street())
	assert.Equal(t, 52-6, g.deck.Remaining())
}

func TestNewGameRejectsSeatCounts(t *testing.T) {
	caps := RaiseCaps{Preflop: 1, Postflop: 1}
	_, err := NewGame(poker.NewOrderedDeck(), testStakes, newTables(1, caps))
	assert.Error(t, err)
	_, err = NewGame(poker.NewOrderedDeck(), testStakes, newTables(MaxPlayers+1, caps))
	assert.Error(t, err)
}

func TestLegalActions(t *testing.T) {
	caps := RaiseCaps{Preflop: 1, Postflop: 1}
	g := newTestGame(t, 3, nil)

	assert.Equal(t, [NumActions]bool{true, true, true}, g.legal(2, caps))
	assert.Equal(t, [NumActions]bool{false, true, true}, g.legal(1, caps), "big blind cannot fold for free")

	g.apply(2, Raise, 0.5)
	assert.Equal(t, 1, g.preRaises)
	assert.Equal(t, [NumActions]bool{true, true, false}, g.legal(0, caps), "pre-flop cap reached")

	g.dealStreet()
	assert.Equal(t, StreetFlop, g.Street())
	assert.Zero(t, g.CurrentBet())
	assert.Equal(t, [NumActions]bool{false, true, true}, g.legal(0, caps))

	g.seats[1].Folded = true
	g.seats[2].Folded = true
	assert.False(t, g.legal(0, caps)[Raise], "nobody left to respond")
}

func TestRaiseSize(t *testing.T) {
	g := newTestGame(t, 3, nil)

	// Owes 2 into a pot of 3: half of (3+2) rounds down to 2, the big blind.
	assert.Equal(t, 4, g.raiseSize(2, 0.5))
	assert.Equal(t, 2+5, g.raiseSize(2, 1))
	assert.Equal(t, 20, g.raiseSize(2, 10), "clamped to the stack")
}

func TestMarkRestore(t *testing.T) {
	g := newTestGame(t, 3, nil)
	before := g.mark()
	board := g.Board()

	g.apply(2, Raise, 0.5)
	g.apply(0, Fold, 0.5)
	g.apply(1, Call, 0.5)
	g.dealStreet()
	g.dealStreet()
	require.Len(t, g.Board(), 4)

	before.restore()
	assert.Equal(t, before, g.mark())
	assert.Equal(t, board, g.Board())
	assert.Equal(t, [5]poker.Card{}, g.board, "dealt slots are cleared")
}

func TestStreetProgression(t *testing.T) {
	g := newTestGame(t, 2, nil)
	streets := []Street{StreetFlop, StreetTurn, StreetRiver}
	for i, want := range streets {
		g.dealStreet()
		assert.Equal(t, want, g.Street())
		assert.Len(t, g.Board(), 3+i)
	}
}
