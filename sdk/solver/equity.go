package solver

import (
	"github.com/lox/pokergto/poker"
)

// NumEquityTiers is the number of equal-width equity quantisation tiers.
const NumEquityTiers = 5

// Sampler is the random source used for Monte-Carlo sampling. *rand.Rand from
// math/rand/v2 satisfies it.
type Sampler interface {
	IntN(n int) int
}

// EquityTier quantises an equity fraction in [0,1] into one of NumEquityTiers
// equal-width tiers.
func EquityTier(equity float64) uint8 {
	t := int(equity * NumEquityTiers)
	switch {
	case t < 0:
		return 0
	case t >= NumEquityTiers:
		return NumEquityTiers - 1
	default:
		return uint8(t)
	}
}

// equityEstimator estimates equity against the fixed starting-hand pools.
type equityEstimator struct {
	rng       Sampler
	pools     [poker.NumHandClasses][][2]poker.Card
	opponents int
	boards    int
	scratch   []poker.Card
	hand      []poker.Card
}

func newEquityEstimator(rng Sampler, opponents, boards int) *equityEstimator {
	return &equityEstimator{
		rng:       rng,
		pools:     poker.StartingHandPools(),
		opponents: opponents,
		boards:    boards,
		scratch:   make([]poker.Card, 0, poker.DeckSize),
		hand:      make([]poker.Card, 0, 7),
	}
}

func (e *equityEstimator) tiers(hole [2]poker.Card, board []poker.Card) [poker.NumHandClasses]uint8 {
	var out [poker.NumHandClasses]uint8
	for class, pool := range e.pools {
		out[class] = EquityTier(e.estimate(hole, board, pool))
	}
	return out
}

// estimate samples opponent holdings from pool and scores random board
// completions as win=1, tie=0.5, loss=0. Holdings that collide with visible
// cards are skipped; with no valid samples the result is 0.5.
func (e *equityEstimator) estimate(hole [2]poker.Card, board []poker.Card, pool [][2]poker.Card) float64 {
	visible := poker.NewCardSet(board...).Add(hole[0]).Add(hole[1])
	missing := 5 - len(board)

	var score float64
	trials := 0
	for i := 0; i < e.opponents; i++ {
		opp := pool[e.rng.IntN(len(pool))]
		if visible.Contains(opp[0]) || visible.Contains(opp[1]) {
			continue
		}

		used := visible.Add(opp[0]).Add(opp[1])
		e.scratch = e.scratch[:0]
		for idx := 0; idx < poker.DeckSize; idx++ {
			if c := poker.CardFromIndex(idx); !used.Contains(c) {
				e.scratch = append(e.scratch, c)
			}
		}

		for b := 0; b < e.boards; b++ {
			// Partial Fisher-Yates: the completion ends up at the tail.
			n := len(e.scratch)
			for k := 0; k < missing; k++ {
				j := e.rng.IntN(n - k)
				e.scratch[j], e.scratch[n-1-k] = e.scratch[n-1-k], e.scratch[j]
			}
			runout := e.scratch[n-missing:]

			mine := e.value(hole, board, runout)
			theirs := e.value(opp, board, runout)
			switch {
			case mine > theirs:
				score++
			case mine == theirs:
				score += 0.5
			}
			trials++
		}
	}

	if trials == 0 {
		return 0.5
	}
	return score / float64(trials)
}

func (e *equityEstimator) value(hole [2]poker.Card, board, runout []poker.Card) poker.HandValue {
	e.hand = append(e.hand[:0], hole[0], hole[1])
	e.hand = append(e.hand, board...)
	e.hand = append(e.hand, runout...)
	return poker.Evaluate(e.hand...)
}
