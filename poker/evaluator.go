package poker

import (
	"math/bits"
)

// HandValue scores a poker hand. Higher values are strictly stronger and equal
// values tie. The category occupies the bits above categoryShift and the five
// tiebreak ranks occupy one nibble each below it, most significant first.
type HandValue uint32

// HandCategory enumerates the categories of poker hands ordered from weakest to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const categoryShift = 20

// Category returns the category band of the value.
func (v HandValue) Category() HandCategory {
	return HandCategory(v >> categoryShift)
}

func (v HandValue) String() string {
	return v.Category().String()
}

func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// rank masks use bit r for rank r (2..14); bit 1 mirrors the ace for the wheel.
const aceLowBit = 1

// Evaluate scores the best five-card hand contained in cards. It is meant for
// five to seven cards; shorter inputs score with missing kickers as zero.
func Evaluate(cards ...Card) HandValue {
	var suitMasks [NumSuits]uint16
	var counts [Ace + 1]uint8
	var rankMask uint16
	for _, c := range cards {
		suitMasks[c.Suit] |= 1 << c.Rank
		rankMask |= 1 << c.Rank
		counts[c.Rank]++
	}

	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) < 5 {
			continue
		}
		// At most one suit can hold five of seven cards.
		if high := StraightHigh(sm); high > 0 {
			return compose(StraightFlush, high)
		}
		return compose(Flush, topRanks(sm, 5)...)
	}

	var quads, trips, pairs uint16
	for r := Two; r <= Ace; r++ {
		switch counts[r] {
		case 4:
			quads |= 1 << r
		case 3:
			trips |= 1 << r
		case 2:
			pairs |= 1 << r
		}
	}

	if quads != 0 {
		q := highest(quads)
		return compose(FourOfAKind, q, highest(rankMask&^(1<<q)))
	}

	if trips != 0 {
		t := highest(trips)
		// A second set of trips plays as the pair of a full house.
		if rest := (trips &^ (1 << t)) | pairs; rest != 0 {
			return compose(FullHouse, t, highest(rest))
		}
	}

	if high := StraightHigh(rankMask); high > 0 {
		return compose(Straight, high)
	}

	if trips != 0 {
		t := highest(trips)
		return compose(ThreeOfAKind, append([]Rank{t}, topRanks(rankMask&^(1<<t), 2)...)...)
	}

	if pairs != 0 {
		hi := highest(pairs)
		if lower := pairs &^ (1 << hi); lower != 0 {
			lo := highest(lower)
			return compose(TwoPair, hi, lo, highest(rankMask&^(1<<hi|1<<lo)))
		}
		return compose(Pair, append([]Rank{hi}, topRanks(rankMask&^(1<<hi), 3)...)...)
	}

	return compose(HighCard, topRanks(rankMask, 5)...)
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func Compare(a, b HandValue) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func compose(cat HandCategory, ranks ...Rank) HandValue {
	v := HandValue(cat) << categoryShift
	shift := categoryShift
	for _, r := range ranks {
		shift -= 4
		v |= HandValue(r) << shift
	}
	return v
}

// StraightHigh returns the top rank of the highest five-rank run in a rank
// mask (bit r set for rank r), or zero when there is none. The wheel reports Five.
func StraightHigh(mask uint16) Rank {
	if mask&(1<<Ace) != 0 {
		mask |= 1 << aceLowBit
	}
	run := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if run == 0 {
		return 0
	}
	return Rank(bits.Len16(run)-1) + 4
}

// RankMask returns the set of ranks present in cards as a bitmask.
func RankMask(cards ...Card) uint16 {
	var m uint16
	for _, c := range cards {
		m |= 1 << c.Rank
	}
	return m
}

func highest(mask uint16) Rank {
	if mask == 0 {
		return 0
	}
	return Rank(bits.Len16(mask) - 1)
}

// topRanks returns the n highest ranks in mask, padding with zero.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for len(out) < n {
		r := highest(mask)
		out = append(out, r)
		mask &^= 1 << r
	}
	return out
}
