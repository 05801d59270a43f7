package classification

import (
	"testing"

	"github.com/lox/pokergto/poker"
)

func hole(t *testing.T, s string) [2]poker.Card {
	t.Helper()
	cards := poker.MustParseCards(s)
	if len(cards) != 2 {
		t.Fatalf("hole %q must be two cards", s)
	}
	return [2]poker.Card{cards[0], cards[1]}
}

func TestDetectDraws(t *testing.T) {
	tests := []struct {
		name          string
		hole          string
		board         string
		flushCards    int
		flushDraw     bool
		straightRanks int
	}{
		{"flush draw", "AhKh", "7h2h9c", 4, true, 0},
		{"open ender", "9c8d", "7h6s2c", 2, false, 2},
		{"gutshot", "9c8d", "6h5s2c", 2, false, 1},
		{"combo draw", "9h8h", "7h6h2c", 4, true, 2},
		{"board flush without hole suit", "AcKd", "7h2h9h4h", 1, false, 0},
		{"river has no draws", "AhKh", "7h2h9c3d4s", 4, false, 0},
		{"made straight counts only improvements", "9c8d", "7h6s5c", 2, false, 1},
		{"board straight draw needs a hole card", "AcAd", "9h8s7c6d", 2, false, 0},
		{"wheel draw", "As2d", "3h4c9s", 2, false, 1},
		{"preflop suited hole cards", "AsKs", "", 2, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var board []poker.Card
			if tt.board != "" {
				board = poker.MustParseCards(tt.board)
			}
			got := DetectDraws(hole(t, tt.hole), board)
			if got.FlushCards != tt.flushCards {
				t.Errorf("FlushCards = %d, want %d", got.FlushCards, tt.flushCards)
			}
			if got.FlushDraw != tt.flushDraw {
				t.Errorf("FlushDraw = %v, want %v", got.FlushDraw, tt.flushDraw)
			}
			if got.StraightRanks != tt.straightRanks {
				t.Errorf("StraightRanks = %d, want %d", got.StraightRanks, tt.straightRanks)
			}
		})
	}
}
