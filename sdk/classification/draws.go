// Package classification describes how much a holding can still improve.
package classification

import (
	"github.com/lox/pokergto/poker"
)

// DrawInfo reports draw potential for a holding on a board.
type DrawInfo struct {
	// FlushCards is the most cards held in one suit, counting only suits the
	// player holds at least one hole card of.
	FlushCards int
	// FlushDraw is set when FlushCards is exactly four with a card to come.
	FlushDraw bool
	// StraightRanks counts the distinct ranks that would complete a new,
	// higher straight using at least one hole card.
	StraightRanks int
}

// DetectDraws analyses hole cards against a board of zero to five cards. Draw
// fields are only populated while at least one board card is still to come.
func DetectDraws(hole [2]poker.Card, board []poker.Card) DrawInfo {
	var info DrawInfo

	var suitCounts [poker.NumSuits]int
	for _, c := range board {
		suitCounts[c.Suit]++
	}
	for _, h := range hole {
		suitCounts[h.Suit]++
	}
	for _, h := range hole {
		info.FlushCards = max(info.FlushCards, suitCounts[h.Suit])
	}

	if len(board) >= 5 {
		return info
	}
	info.FlushDraw = info.FlushCards == 4

	all := poker.RankMask(board...) | poker.RankMask(hole[0], hole[1])
	boardOnly := poker.RankMask(board...)
	current := poker.StraightHigh(all)
	for r := poker.Two; r <= poker.Ace; r++ {
		bit := uint16(1) << r
		if all&bit != 0 {
			continue
		}
		made := poker.StraightHigh(all | bit)
		if made <= current || made <= poker.StraightHigh(boardOnly|bit) {
			continue
		}
		info.StraightRanks++
	}
	return info
}
