package solver

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/lox/pokergto/poker"
	"github.com/lox/pokergto/sdk/classification"
)

// Bucket is a coarse information state used as a strategy table key. The
// concrete types are comparable value structs, so a Bucket can key a map.
type Bucket interface {
	// Fields returns the integer coordinates in their persisted order.
	Fields() []int
	// RaiseCounts returns the pre-flop and post-flop raise counts observed.
	RaiseCounts() (pre, post int)
}

// PreflopBucket identifies a starting hand exactly.
type PreflopBucket struct {
	High      poker.Rank
	Low       poker.Rank
	Suited    bool
	PreRaises uint8
}

func (b PreflopBucket) Fields() []int {
	return []int{int(b.High), int(b.Low), boolInt(b.Suited), int(b.PreRaises)}
}

func (b PreflopBucket) RaiseCounts() (int, int) { return int(b.PreRaises), 0 }

// PostflopBucket measures hand strength against every two-card holding along
// with draw potential.
type PostflopBucket struct {
	// Outranked counts two-card rank combinations that currently beat the hand.
	Outranked    uint8
	FlushCards   uint8
	StraightOuts uint8
	FlushDraw    bool
	PreRaises    uint8
	PostRaises   uint8
}

func (b PostflopBucket) Fields() []int {
	return []int{
		int(b.Outranked), int(b.FlushCards), int(b.StraightOuts), boolInt(b.FlushDraw),
		int(b.PreRaises), int(b.PostRaises),
	}
}

func (b PostflopBucket) RaiseCounts() (int, int) { return int(b.PreRaises), int(b.PostRaises) }

// EquityBucket summarises equity tiers against each starting-hand pool.
type EquityBucket struct {
	Tiers      [poker.NumHandClasses]uint8
	Position   uint8
	PostRaises uint8
	PreRaises  uint8
	Multiway   bool
}

func (b EquityBucket) Fields() []int {
	out := make([]int, 0, poker.NumHandClasses+4)
	for _, t := range b.Tiers {
		out = append(out, int(t))
	}
	return append(out, int(b.Position), int(b.PostRaises), int(b.PreRaises), boolInt(b.Multiway))
}

func (b EquityBucket) RaiseCounts() (int, int) { return int(b.PreRaises), int(b.PostRaises) }

const (
	preflopFieldCount  = 4
	postflopFieldCount = 6
	equityFieldCount   = poker.NumHandClasses + 4
)

// ParseBucket reconstructs a bucket from its persisted coordinates. The
// variant is identified by the number of fields.
func ParseBucket(fields []int) (Bucket, error) {
	for _, f := range fields {
		if f < 0 || f > 255 {
			return nil, fmt.Errorf("bucket field %d out of range", f)
		}
	}
	switch len(fields) {
	case preflopFieldCount:
		b := PreflopBucket{
			High:      poker.Rank(fields[0]),
			Low:       poker.Rank(fields[1]),
			PreRaises: uint8(fields[3]),
		}
		if b.High < poker.Two || b.High > poker.Ace || b.Low < poker.Two || b.Low > b.High {
			return nil, errors.New("invalid pre-flop ranks")
		}
		suited, err := intBool(fields[2])
		if err != nil {
			return nil, err
		}
		if suited && b.High == b.Low {
			return nil, errors.New("suited pair")
		}
		b.Suited = suited
		return b, nil
	case postflopFieldCount:
		draw, err := intBool(fields[3])
		if err != nil {
			return nil, err
		}
		return PostflopBucket{
			Outranked:    uint8(fields[0]),
			FlushCards:   uint8(fields[1]),
			StraightOuts: uint8(fields[2]),
			FlushDraw:    draw,
			PreRaises:    uint8(fields[4]),
			PostRaises:   uint8(fields[5]),
		}, nil
	case equityFieldCount:
		var b EquityBucket
		for i := range b.Tiers {
			if fields[i] >= NumEquityTiers {
				return nil, fmt.Errorf("equity tier %d out of range", fields[i])
			}
			b.Tiers[i] = uint8(fields[i])
		}
		rest := fields[poker.NumHandClasses:]
		multi, err := intBool(rest[3])
		if err != nil {
			return nil, err
		}
		b.Position = uint8(rest[0])
		b.PostRaises = uint8(rest[1])
		b.PreRaises = uint8(rest[2])
		b.Multiway = multi
		return b, nil
	default:
		return nil, fmt.Errorf("unexpected bucket field count %d", len(fields))
	}
}

// compareBuckets orders buckets by variant and then by coordinates.
func compareBuckets(a, b Bucket) int {
	fa, fb := a.Fields(), b.Fields()
	if c := cmp.Compare(len(fa), len(fb)); c != 0 {
		return c
	}
	return slices.Compare(fa, fb)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intBool(v int) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("flag value %d is not 0 or 1", v)
	}
}

// BucketMapper turns a seat's view of a Game into a Bucket. Features that
// depend only on the seat's cards and the board are cached until Reset, which
// must be called whenever a new hand is dealt.
type BucketMapper struct {
	cfg    AbstractionConfig
	equity *equityEstimator
	cache  map[featureKey]features
}

type featureKey struct {
	seat     int
	boardLen int
}

type features struct {
	tiers     [poker.NumHandClasses]uint8
	outranked int
	draws     classification.DrawInfo
}

// NewBucketMapper constructs a mapper for the abstraction. The sampler is
// required by ModeEquity and ignored otherwise.
func NewBucketMapper(cfg AbstractionConfig, sampler Sampler) (*BucketMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &BucketMapper{cfg: cfg, cache: make(map[featureKey]features)}
	if cfg.Mode == ModeEquity {
		if sampler == nil {
			return nil, errors.New("equity abstraction requires a random source")
		}
		m.equity = newEquityEstimator(sampler, cfg.OpponentSamples, cfg.BoardSamples)
	}
	return m, nil
}

// Reset drops cached per-hand features.
func (m *BucketMapper) Reset() {
	clear(m.cache)
}

// Bucket returns the information state of seat in g.
func (m *BucketMapper) Bucket(g *Game, seat int) Bucket {
	pre, post := uint8(g.preRaises), uint8(g.postRaises)
	hole := g.seats[seat].Hole

	if m.cfg.Mode == ModeEquity {
		f := m.features(g, seat)
		unfolded := g.Unfolded()
		return EquityBucket{
			Tiers:      f.tiers,
			Position:   uint8(g.Position(seat)),
			PostRaises: post,
			PreRaises:  pre,
			Multiway:   unfolded > 2,
		}
	}

	if g.Street() == StreetPreflop {
		return PreflopHoleBucket(hole, pre)
	}
	f := m.features(g, seat)
	return PostflopBucket{
		Outranked:    uint8(f.outranked),
		FlushCards:   uint8(f.draws.FlushCards),
		StraightOuts: uint8(f.draws.StraightRanks),
		FlushDraw:    f.draws.FlushDraw,
		PreRaises:    pre,
		PostRaises:   post,
	}
}

// PreflopHoleBucket builds the exact pre-flop bucket for a starting hand.
func PreflopHoleBucket(hole [2]poker.Card, preRaises uint8) PreflopBucket {
	hi, lo := hole[0].Rank, hole[1].Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	return PreflopBucket{
		High:      hi,
		Low:       lo,
		Suited:    hole[0].Suit == hole[1].Suit,
		PreRaises: preRaises,
	}
}

func (m *BucketMapper) features(g *Game, seat int) features {
	board := g.Board()
	key := featureKey{seat: seat, boardLen: len(board)}
	if f, ok := m.cache[key]; ok {
		return f
	}

	hole := g.seats[seat].Hole
	var f features
	if m.cfg.Mode == ModeEquity {
		f.tiers = m.equity.tiers(hole, board)
	} else {
		f.outranked = OutrankCount(hole, board)
		f.draws = classification.DetectDraws(hole, board)
	}
	m.cache[key] = f
	return f
}

// OutrankCount counts the two-card rank combinations (13 pairs plus 78
// unpaired) whose best hand on board strictly beats hole. Each combination is
// realised with unseen cards, preferring the suits least represented on the
// board; combinations that cannot be realised are skipped.
func OutrankCount(hole [2]poker.Card, board []poker.Card) int {
	seen := poker.NewCardSet(board...).Add(hole[0]).Add(hole[1])
	order := suitsByBoardFrequency(board)

	cards := make([]poker.Card, 0, 7)
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, board...)
	mine := poker.Evaluate(cards...)

	count := 0
	for r1 := poker.Two; r1 <= poker.Ace; r1++ {
		for r2 := r1; r2 <= poker.Ace; r2++ {
			c1, ok := pickCard(r1, order, seen, -1)
			if !ok {
				continue
			}
			c2, ok := pickCard(r2, order, seen.Add(c1), int(c1.Suit))
			if !ok {
				continue
			}
			cards = append(cards[:0], c1, c2)
			cards = append(cards, board...)
			if poker.Evaluate(cards...) > mine {
				count++
			}
		}
	}
	return count
}

// pickCard returns an unseen card of rank r, trying suits in order and
// preferring any suit other than avoid.
func pickCard(r poker.Rank, order [poker.NumSuits]poker.Suit, seen poker.CardSet, avoid int) (poker.Card, bool) {
	for pass := 0; pass < 2; pass++ {
		for _, s := range order {
			if pass == 0 && int(s) == avoid {
				continue
			}
			if c := poker.NewCard(r, s); !seen.Contains(c) {
				return c, true
			}
		}
		if avoid < 0 {
			break
		}
	}
	return poker.Card{}, false
}

func suitsByBoardFrequency(board []poker.Card) [poker.NumSuits]poker.Suit {
	var counts [poker.NumSuits]int
	for _, c := range board {
		counts[c.Suit]++
	}
	order := [poker.NumSuits]poker.Suit{poker.Clubs, poker.Diamonds, poker.Hearts, poker.Spades}
	slices.SortStableFunc(order[:], func(a, b poker.Suit) int {
		return cmp.Compare(counts[a], counts[b])
	})
	return order
}
