package main

import (
	"time"

	"github.com/lox/pokergto/sdk/solver"
	"github.com/lox/pokergto/sdk/solver/runtime"
)

// EvalCmd plays the trained strategies against each other with sampled
// actions and reports each player's result.
type EvalCmd struct {
	Dir   string `help:"Directory holding strategy files (defaults to the configured output)"`
	Hands int    `help:"Number of hands to play" default:"10000"`
	Seed  int64  `help:"Random seed; 0 uses time seed" default:"0"`
}

func (c *EvalCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if c.Dir != "" {
		cfg.Output.Dir = c.Dir
	}

	abs, err := cfg.AbstractionConfig()
	if err != nil {
		return err
	}
	train, err := cfg.TrainingConfig()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := solver.NewStore(cfg.Output.Dir, false, logger)
	policy, err := runtime.Load(store, abs, train.Players)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	report, err := policy.Evaluate(ctx, train.Stakes(), c.Hands, seed)
	if err != nil {
		return err
	}

	logger.Info("Evaluation complete", "hands", report.Hands, "seed", seed, "duration", time.Since(start).Round(time.Millisecond))
	for player := range report.Profit {
		perHand := report.PerHand(player)
		logger.Info("Player result",
			"player", player,
			"net_chips", report.Profit[player],
			"per_hand", perHand,
			"bb_per_100", perHand/float64(train.BigBlind)*100)
	}
	return nil
}
