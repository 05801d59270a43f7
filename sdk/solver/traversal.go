package solver

import (
	"github.com/lox/pokergto/poker"
)

// TraversalStats captures instrumentation for tree walks.
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
}

func (s *TraversalStats) add(o TraversalStats) {
	s.NodesVisited += o.NodesVisited
	s.TerminalNodes += o.TerminalNodes
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
}

// Solver enumerates the betting tree of one dealt hand.
type Solver struct {
	game        *Game
	mapper      *BucketMapper
	caps        RaiseCaps
	fraction    float64
	protagonist int
	stats       TraversalStats

	// The run-out is fixed for the hand, so river hand values are too.
	values      [MaxPlayers]poker.HandValue
	valuesKnown bool
}

// node is the traversal position: who acts, who closes the round, whether
// the round has just opened and the probability that opponents play to here.
type node struct {
	actor     int
	aggressor int
	fresh     bool
	reach     float64
	depth     int
}

// NewSolver prepares a solver for a dealt game. The mapper should have been
// Reset for this hand.
func NewSolver(game *Game, mapper *BucketMapper, abs AbstractionConfig) *Solver {
	return &Solver{
		game:     game,
		mapper:   mapper,
		caps:     abs.Caps(),
		fraction: abs.RaiseFraction,
	}
}

// Stats returns counters accumulated across every walk by this solver.
func (s *Solver) Stats() TraversalStats { return s.stats }

// Solve walks the complete betting tree from the start of the hand and
// returns the expected chip result for the protagonist seat. EV is
// accumulated into the protagonist's strategy table at each of its decisions.
// The game is left exactly as it was found.
func (s *Solver) Solve(protagonist int) float64 {
	s.protagonist = protagonist
	opener := s.game.preflopOpener()
	return s.solve(node{actor: opener, aggressor: opener, fresh: true, reach: 1})
}

func (s *Solver) solve(n node) float64 {
	g := s.game
	s.stats.NodesVisited++
	s.stats.MaxDepth = max(s.stats.MaxDepth, n.depth)

	if g.Unfolded() == 1 {
		s.stats.TerminalNodes++
		return s.uncontested()
	}

	if !n.fresh && n.actor == n.aggressor {
		if g.boardLen == len(g.board) {
			s.stats.TerminalNodes++
			return s.showdown()
		}
		return s.nextStreet(n)
	}

	if !g.canAct(n.actor) {
		return s.solve(node{actor: g.next(n.actor), aggressor: n.aggressor, reach: n.reach, depth: n.depth + 1})
	}

	bucket := s.mapper.Bucket(g, n.actor)
	table := g.seats[n.actor].Strategy
	legal, probs := s.policy(n.actor, table.Get(bucket).Probs)
	mine := n.actor == s.protagonist

	var total float64
	for a := Action(0); a < NumActions; a++ {
		if !legal[a] {
			continue
		}
		p := probs[a]
		reach := n.reach
		if !mine {
			if p == 0 {
				continue
			}
			reach *= p
		}

		v := s.branch(n, a, reach)
		if mine {
			table.Accumulate(bucket, a, v, n.reach)
		}
		total += p * v
	}
	return total
}

// branch applies one action and recurses. The deferred restore undoes the
// action and anything dealt below it on every return path.
func (s *Solver) branch(n node, a Action, reach float64) float64 {
	defer s.game.mark().restore()

	child := node{actor: s.game.next(n.actor), aggressor: n.aggressor, reach: reach, depth: n.depth + 1}
	s.game.apply(n.actor, a, s.fraction)
	if a == Raise {
		child.aggressor = n.actor
	}
	return s.solve(child)
}

func (s *Solver) nextStreet(n node) float64 {
	defer s.game.mark().restore()

	s.game.dealStreet()
	first := s.game.firstUnfolded()
	return s.solve(node{actor: first, aggressor: first, fresh: true, reach: n.reach, depth: n.depth + 1})
}

// policy restricts the strategy to the legal actions and renormalises it.
// When the legal actions carry no probability they are played uniformly.
func (s *Solver) policy(seat int, strategy []float64) ([NumActions]bool, [NumActions]float64) {
	legal := s.game.legal(seat, s.caps)
	if len(strategy) <= int(Raise) {
		legal[Raise] = false
	}

	var probs [NumActions]float64
	var mass float64
	count := 0
	for a := range legal {
		if !legal[a] {
			continue
		}
		count++
		probs[a] = strategy[a]
		mass += strategy[a]
	}
	for a := range legal {
		if !legal[a] {
			continue
		}
		if mass > 0 {
			probs[a] /= mass
		} else {
			probs[a] = 1 / float64(count)
		}
	}
	return legal, probs
}

// uncontested pays the whole pot to the last unfolded seat.
func (s *Solver) uncontested() float64 {
	seat := s.game.seats[s.protagonist]
	ev := float64(seat.Stack - s.game.stakes.StartingStack)
	if !seat.Folded {
		ev += float64(s.game.pot)
	}
	return ev
}

// showdown resolves the river for the protagonist. Any opponent holding a
// strictly better hand ends the comparison early as a loss; otherwise the pot
// is split between the protagonist and every opponent it ties.
func (s *Solver) showdown() float64 {
	g := s.game
	seat := g.seats[s.protagonist]
	ev := float64(seat.Stack - g.stakes.StartingStack)
	if seat.Folded {
		return ev
	}

	s.scoreRiver()
	mine := s.values[s.protagonist]
	winners := 1
	for i := range g.seats {
		if i == s.protagonist || g.seats[i].Folded {
			continue
		}
		switch v := s.values[i]; {
		case v > mine:
			return ev
		case v == mine:
			winners++
		}
	}
	return ev + float64(g.pot)/float64(winners)
}

func (s *Solver) scoreRiver() {
	if s.valuesKnown {
		return
	}
	for i := range s.game.seats {
		s.values[i] = s.game.handValue(i)
	}
	s.valuesKnown = true
}
