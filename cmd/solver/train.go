package main

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokergto/internal/config"
	"github.com/lox/pokergto/sdk/solver"
)

// TrainCmd runs self-play training. Flags override the configuration file.
type TrainCmd struct {
	Out     string `help:"Directory for strategy files and checkpoints"`
	Mode    string `help:"Abstraction mode (ranked or equity)"`
	Players int    `help:"Number of players"`
	Batches int    `help:"Number of strategy updates"`
	Hands   int    `help:"Hands solved per batch"`
	Seed    *int64 `help:"Deterministic RNG seed"`
	Resume  bool   `help:"Continue from the checkpoint in the output directory"`
	WriteEV bool   `name:"write-ev" help:"Persist per-action EVs alongside probabilities"`
}

// apply copies explicitly set flags over the file configuration.
func (c *TrainCmd) apply(cfg *config.Config) {
	if c.Out != "" {
		cfg.Output.Dir = c.Out
	}
	if c.Mode != "" {
		cfg.Abstraction.Mode = c.Mode
	}
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Batches > 0 {
		cfg.Training.Batches = c.Batches
	}
	if c.Hands > 0 {
		cfg.Training.HandsPerBatch = c.Hands
	}
	if c.Seed != nil {
		cfg.Training.Seed = *c.Seed
	}
	if c.Resume {
		cfg.Training.Resume = true
	}
	if c.WriteEV {
		cfg.Output.WriteEV = true
	}
}

func (c *TrainCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	c.apply(cfg)

	abs, err := cfg.AbstractionConfig()
	if err != nil {
		return err
	}
	train, err := cfg.TrainingConfig()
	if err != nil {
		return err
	}

	store := solver.NewStore(cfg.Output.Dir, cfg.Output.WriteEV, logger)
	opts := []solver.Option{
		solver.WithLogger(logger),
		solver.WithStore(store),
	}
	if cfg.Training.Resume {
		resumeOpts, done, err := resume(logger, store, cfg.Output.Dir, abs, train)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		opts = append(opts, resumeOpts...)
	}

	trainer, err := solver.NewTrainer(abs, train, opts...)
	if err != nil {
		return err
	}

	logger.Info("Starting training",
		"mode", abs.Mode,
		"players", train.Players,
		"batches", train.Batches,
		"hands_per_batch", train.HandsPerBatch,
		"seed", train.Seed,
		"out", cfg.Output.Dir)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	err = trainer.Run(ctx, func(p solver.Progress) {
		logger.Info("Batch complete",
			"batch", p.Batch,
			"protagonist", p.Protagonist,
			"ev", p.MeanEV,
			"updated", p.Updated,
			"buckets", p.TableSize,
			"nodes", p.Stats.NodesVisited,
			"elapsed", p.BatchTime)
	})
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		logger.Warn("Training interrupted, saving strategies", "batch", trainer.Batch())
		return trainer.SaveCheckpoint()
	}
	if err != nil {
		return err
	}

	stats := trainer.Stats()
	logger.Info("Training complete",
		"batches", trainer.Batch(),
		"nodes", stats.NodesVisited,
		"max_depth", stats.MaxDepth,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// resume loads the previous run's strategies when its checkpoint matches the
// current configuration. done reports that no batches remain.
func resume(logger *log.Logger, store *solver.Store, dir string, abs solver.AbstractionConfig, train solver.TrainingConfig) ([]solver.Option, bool, error) {
	cp, err := solver.LoadCheckpoint(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("No checkpoint found, starting fresh", "dir", dir)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if cp.Players != train.Players || cp.Mode != abs.Mode.String() {
		return nil, false, errors.New("checkpoint was written with a different player count or mode")
	}
	if cp.Batch >= train.Batches {
		logger.Info("Checkpoint already covers every batch", "batch", cp.Batch, "batches", train.Batches)
		return nil, true, nil
	}

	logger.Info("Resuming from checkpoint", "batch", cp.Batch, "dir", dir)
	return []solver.Option{
		solver.WithStrategies(store.LoadAll(train.Players, abs.Caps())),
		solver.WithStartBatch(cp.Batch),
	}, false, nil
}
