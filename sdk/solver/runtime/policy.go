// Package runtime plays trained strategies against each other.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lox/pokergto/internal/randutil"
	"github.com/lox/pokergto/poker"
	"github.com/lox/pokergto/sdk/solver"
)

// Policy holds one read-only strategy table per player.
type Policy struct {
	abs    solver.AbstractionConfig
	tables []*solver.StrategyTable
}

// New wraps already-loaded tables. At least two players are required.
func New(abs solver.AbstractionConfig, tables []*solver.StrategyTable) (*Policy, error) {
	if err := abs.Validate(); err != nil {
		return nil, err
	}
	if len(tables) < 2 || len(tables) > solver.MaxPlayers {
		return nil, fmt.Errorf("policy needs 2..%d players, got %d", solver.MaxPlayers, len(tables))
	}
	return &Policy{abs: abs, tables: tables}, nil
}

// Load reads each player's strategy file from store. Missing files yield the
// default strategy for that player.
func Load(store *solver.Store, abs solver.AbstractionConfig, players int) (*Policy, error) {
	return New(abs, store.LoadAll(players, abs.Caps()))
}

// Players returns the number of players in the policy.
func (p *Policy) Players() int { return len(p.tables) }

// ActionWeights returns the stored distribution of a player for a bucket,
// falling back to the default strategy when the bucket was never trained.
func (p *Policy) ActionWeights(player int, b solver.Bucket) ([]float64, error) {
	if p == nil {
		return nil, errors.New("nil policy")
	}
	if player < 0 || player >= len(p.tables) {
		return nil, fmt.Errorf("player %d out of range", player)
	}
	return slices.Clone(p.tables[player].Strategy(b)), nil
}

// Report summarises an evaluation run.
type Report struct {
	Hands  int
	Profit []float64
}

// PerHand returns a player's mean profit per hand in chips.
func (r Report) PerHand(player int) float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.Profit[player] / float64(r.Hands)
}

// Evaluate plays hands with every player sampling actions from its table.
// Seats rotate each hand so every player sees every position equally often.
func (p *Policy) Evaluate(ctx context.Context, stakes solver.Stakes, hands int, seed int64) (Report, error) {
	n := len(p.tables)
	report := Report{Profit: make([]float64, n)}

	mapper, err := solver.NewBucketMapper(p.abs, randutil.Derive(seed, randutil.StreamEquity))
	if err != nil {
		return report, err
	}
	deckRNG := randutil.Derive(seed, randutil.StreamDeck)
	actionRNG := randutil.Derive(seed, randutil.StreamPlayout)

	seated := make([]*solver.StrategyTable, n)
	for h := 0; h < hands; h++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for player, table := range p.tables {
			seated[(player+h)%n] = table
		}

		game, err := solver.NewGame(poker.NewDeck(deckRNG), stakes, seated)
		if err != nil {
			return report, err
		}
		mapper.Reset()
		results := solver.NewSolver(game, mapper, p.abs).Playout(actionRNG)
		for player := range p.tables {
			report.Profit[player] += results[(player+h)%n]
		}
		report.Hands++
	}
	return report, nil
}
