package solver

import (
	"fmt"

	"github.com/lox/pokergto/poker"
)

// Street enumerates the betting round within a Texas Hold'em hand.
type Street uint8

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	default:
		return "unknown"
	}
}

// Seat is one player's state within a hand.
type Seat struct {
	Hole      [2]poker.Card
	Stack     int
	Bet       int // committed on the current street
	Committed int // committed over the whole hand
	Folded    bool
	Strategy  *StrategyTable
}

// Game is the mutable state of one hand. The solver mutates it in place while
// walking the betting tree and undoes every change with mark/restore.
type Game struct {
	deck       *poker.Deck
	seats      []Seat
	board      [5]poker.Card
	boardLen   int
	pot        int
	currentBet int
	preRaises  int
	postRaises int
	stakes     Stakes
}

// NewGame deals a hand: each seat receives the starting stack and two hole
// cards, and seats 0 and 1 post the small and big blind. One strategy table
// is required per seat.
func NewGame(deck *poker.Deck, stakes Stakes, tables []*StrategyTable) (*Game, error) {
	n := len(tables)
	if n < 2 || n > MaxPlayers {
		return nil, fmt.Errorf("seat count %d outside 2..%d", n, MaxPlayers)
	}
	if deck.Remaining() < 2*n+5 {
		return nil, fmt.Errorf("deck has %d cards, need %d", deck.Remaining(), 2*n+5)
	}

	g := &Game{deck: deck, seats: make([]Seat, n), stakes: stakes}
	for i := range g.seats {
		g.seats[i].Stack = stakes.StartingStack
		g.seats[i].Strategy = tables[i]
	}
	for round := 0; round < 2; round++ {
		for i := range g.seats {
			g.seats[i].Hole[round] = deck.Draw()
		}
	}
	g.post(0, stakes.SmallBlind)
	g.post(1, stakes.BigBlind)
	return g, nil
}

// Seats returns the number of seats.
func (g *Game) Seats() int { return len(g.seats) }

// Seat returns a copy of seat i.
func (g *Game) Seat(i int) Seat { return g.seats[i] }

// Board returns the community cards dealt so far.
func (g *Game) Board() []poker.Card { return g.board[:g.boardLen] }

// Pot returns the chips committed by all seats.
func (g *Game) Pot() int { return g.pot }

// CurrentBet returns the bet every seat must match on this street.
func (g *Game) CurrentBet() int { return g.currentBet }

// RaiseCounts returns the pre-flop and post-flop raise counters.
func (g *Game) RaiseCounts() (pre, post int) { return g.preRaises, g.postRaises }

// Street returns the current betting round.
func (g *Game) Street() Street {
	switch g.boardLen {
	case 0:
		return StreetPreflop
	case 3:
		return StreetFlop
	case 4:
		return StreetTurn
	default:
		return StreetRiver
	}
}

// Owed returns the chips seat i must add to call.
func (g *Game) Owed(i int) int {
	return g.currentBet - g.seats[i].Bet
}

// Unfolded counts seats still contesting the pot.
func (g *Game) Unfolded() int {
	n := 0
	for i := range g.seats {
		if !g.seats[i].Folded {
			n++
		}
	}
	return n
}

// Position counts unfolded seats that sit after seat i.
func (g *Game) Position(i int) int {
	n := 0
	for j := i + 1; j < len(g.seats); j++ {
		if !g.seats[j].Folded {
			n++
		}
	}
	return n
}

// canAct reports whether seat i still makes decisions.
func (g *Game) canAct(i int) bool {
	return !g.seats[i].Folded && g.seats[i].Stack > 0
}

func (g *Game) next(i int) int {
	return (i + 1) % len(g.seats)
}

func (g *Game) firstUnfolded() int {
	for i := range g.seats {
		if !g.seats[i].Folded {
			return i
		}
	}
	return 0
}

// preflopOpener is the first seat to act before the flop.
func (g *Game) preflopOpener() int {
	return 2 % len(g.seats)
}

// legal reports which actions seat i may take. Fold needs chips owed; raise
// needs the street's counter below its cap, chips beyond the call and an
// opponent who can still respond.
func (g *Game) legal(i int, caps RaiseCaps) [NumActions]bool {
	var ok [NumActions]bool
	owed := g.Owed(i)
	ok[Fold] = owed > 0
	ok[Call] = true

	count, limit := g.preRaises, caps.Preflop
	if g.boardLen > 0 {
		count, limit = g.postRaises, caps.Postflop
	}
	if count < limit && g.seats[i].Stack > owed {
		for j := range g.seats {
			if j != i && g.canAct(j) {
				ok[Raise] = true
				break
			}
		}
	}
	return ok
}

// raiseSize returns the chips seat i puts in when raising: the call plus
// fraction of the pot after calling, at least a big blind, capped at the stack.
func (g *Game) raiseSize(i int, fraction float64) int {
	owed := g.Owed(i)
	extra := int(fraction * float64(g.pot+owed))
	if extra < g.stakes.BigBlind {
		extra = g.stakes.BigBlind
	}
	return min(owed+extra, g.seats[i].Stack)
}

func (g *Game) post(i, chips int) {
	s := &g.seats[i]
	chips = min(chips, s.Stack)
	s.Stack -= chips
	s.Bet += chips
	s.Committed += chips
	g.pot += chips
	if s.Bet > g.currentBet {
		g.currentBet = s.Bet
	}
}

func (g *Game) apply(i int, a Action, fraction float64) {
	switch a {
	case Fold:
		g.seats[i].Folded = true
	case Call:
		g.post(i, g.Owed(i))
	case Raise:
		g.post(i, g.raiseSize(i, fraction))
		if g.boardLen == 0 {
			g.preRaises++
		} else {
			g.postRaises++
		}
	default:
		panic(fmt.Sprintf("solver: unknown action %d", a))
	}
}

// dealStreet deals the next street's community cards and starts a new
// betting round.
func (g *Game) dealStreet() {
	n := 1
	if g.boardLen == 0 {
		n = 3
	}
	for k := 0; k < n; k++ {
		g.board[g.boardLen] = g.deck.Draw()
		g.boardLen++
	}
	for i := range g.seats {
		g.seats[i].Bet = 0
	}
	g.currentBet = 0
}

type seatState struct {
	stack, bet, committed int
	folded                bool
}

// undo captures every mutable field of a Game. restore puts them back,
// returns dealt community cards to the deck and clears their board slots.
type undo struct {
	g          *Game
	pot        int
	currentBet int
	preRaises  int
	postRaises int
	boardLen   int
	cursor     int
	seats      [MaxPlayers]seatState
}

func (g *Game) mark() undo {
	u := undo{
		g:          g,
		pot:        g.pot,
		currentBet: g.currentBet,
		preRaises:  g.preRaises,
		postRaises: g.postRaises,
		boardLen:   g.boardLen,
		cursor:     g.deck.Cursor(),
	}
	for i, s := range g.seats {
		u.seats[i] = seatState{stack: s.Stack, bet: s.Bet, committed: s.Committed, folded: s.Folded}
	}
	return u
}

func (u undo) restore() {
	g := u.g
	g.pot = u.pot
	g.currentBet = u.currentBet
	g.preRaises = u.preRaises
	g.postRaises = u.postRaises
	for i := u.boardLen; i < g.boardLen; i++ {
		g.board[i] = poker.Card{}
	}
	g.boardLen = u.boardLen
	g.deck.Rewind(u.cursor)
	for i := range g.seats {
		s := &g.seats[i]
		s.Stack, s.Bet, s.Committed, s.Folded = u.seats[i].stack, u.seats[i].bet, u.seats[i].committed, u.seats[i].folded
	}
}

// handValue scores seat i's best hand with the current board.
func (g *Game) handValue(i int) poker.HandValue {
	var cards [7]poker.Card
	cards[0], cards[1] = g.seats[i].Hole[0], g.seats[i].Hole[1]
	n := 2 + copy(cards[2:], g.Board())
	return poker.Evaluate(cards[:n]...)
}
