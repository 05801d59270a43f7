package solver

// ActionSampler draws a uniform float in [0,1). *rand.Rand satisfies it.
type ActionSampler interface {
	Float64() float64
}

// Playout plays the hand once, sampling a single action at every decision
// from the acting seat's stored strategy. Rows are read without being
// created, so strategy tables are left untouched. It returns each seat's chip
// result and leaves the game as it was found.
func (s *Solver) Playout(rng ActionSampler) []float64 {
	defer s.game.mark().restore()

	g := s.game
	n := node{actor: g.preflopOpener(), fresh: true}
	n.aggressor = n.actor
	for {
		s.stats.NodesVisited++
		if g.Unfolded() == 1 {
			s.stats.TerminalNodes++
			return s.settle(false)
		}
		if !n.fresh && n.actor == n.aggressor {
			if g.boardLen == len(g.board) {
				s.stats.TerminalNodes++
				return s.settle(true)
			}
			g.dealStreet()
			first := g.firstUnfolded()
			n = node{actor: first, aggressor: first, fresh: true}
			continue
		}
		if !g.canAct(n.actor) {
			n = node{actor: g.next(n.actor), aggressor: n.aggressor}
			continue
		}

		bucket := s.mapper.Bucket(g, n.actor)
		legal, probs := s.policy(n.actor, g.seats[n.actor].Strategy.Strategy(bucket))
		a := sampleAction(rng, legal, probs)
		g.apply(n.actor, a, s.fraction)

		next := node{actor: g.next(n.actor), aggressor: n.aggressor}
		if a == Raise {
			next.aggressor = n.actor
		}
		n = next
	}
}

func sampleAction(rng ActionSampler, legal [NumActions]bool, probs [NumActions]float64) Action {
	x := rng.Float64()
	last := Call
	for a := Action(0); a < NumActions; a++ {
		if !legal[a] {
			continue
		}
		last = a
		if x < probs[a] {
			return a
		}
		x -= probs[a]
	}
	return last
}

// settle returns every seat's result once the hand is over. At showdown the
// pot is split evenly between all seats holding the best hand.
func (s *Solver) settle(showdown bool) []float64 {
	g := s.game
	out := make([]float64, len(g.seats))
	var winners []int
	if showdown {
		s.scoreRiver()
		var best int64 = -1
		for i := range g.seats {
			if g.seats[i].Folded {
				continue
			}
			switch v := int64(s.values[i]); {
			case v > best:
				best = v
				winners = append(winners[:0], i)
			case v == best:
				winners = append(winners, i)
			}
		}
	} else {
		winners = []int{g.firstUnfolded()}
	}

	share := float64(g.pot) / float64(len(winners))
	for i := range g.seats {
		out[i] = float64(g.seats[i].Stack - g.stakes.StartingStack)
	}
	for _, w := range winners {
		out[w] += share
	}
	return out
}
