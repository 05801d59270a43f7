package poker

// HandClass is a coarse strength class for a two-card starting hand.
type HandClass uint8

const (
	ClassMonster HandClass = iota
	ClassStrong
	ClassMedium
	ClassWeak
)

// NumHandClasses is the number of starting-hand classes.
const NumHandClasses = 4

func (c HandClass) String() string {
	switch c {
	case ClassMonster:
		return "monster"
	case ClassStrong:
		return "strong"
	case ClassMedium:
		return "medium"
	case ClassWeak:
		return "weak"
	default:
		return "unknown"
	}
}

// ClassifyStartingHand buckets hole cards by fixed rank and suitedness rules.
// Monster: JJ+, AQ, AK. Strong: two cards ten or higher, 77+, suited aces,
// suited connectors from 65s up. Medium: any other pair, connector or suited
// hand. Weak: everything else.
func ClassifyStartingHand(a, b Card) HandClass {
	lo, hi := a.Rank, b.Rank
	if lo > hi {
		lo, hi = hi, lo
	}
	suited := a.Suit == b.Suit
	pair := lo == hi
	gap := hi - lo

	switch {
	case pair && lo >= Jack:
		return ClassMonster
	case lo >= Queen && hi == Ace:
		return ClassMonster
	case lo >= Ten:
		return ClassStrong
	case pair && lo >= Seven:
		return ClassStrong
	case hi == Ace && suited:
		return ClassStrong
	case suited && gap == 1 && lo >= Five:
		return ClassStrong
	case gap <= 1 || suited:
		return ClassMedium
	default:
		return ClassWeak
	}
}

// StartingHands enumerates all 1326 distinct two-card holdings.
func StartingHands() [][2]Card {
	out := make([][2]Card, 0, 1326)
	for i := 0; i < DeckSize; i++ {
		for j := i + 1; j < DeckSize; j++ {
			out = append(out, [2]Card{CardFromIndex(i), CardFromIndex(j)})
		}
	}
	return out
}

// StartingHandPools partitions every starting hand by HandClass.
func StartingHandPools() [NumHandClasses][][2]Card {
	var pools [NumHandClasses][][2]Card
	for _, h := range StartingHands() {
		c := ClassifyStartingHand(h[0], h[1])
		pools[c] = append(pools[c], h)
	}
	return pools
}
