// Package config loads the solver's HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokergto/sdk/solver"
)

// Config represents the complete solver configuration
type Config struct {
	Output      *OutputSettings      `hcl:"output,block"`
	Game        *GameSettings        `hcl:"game,block"`
	Abstraction *AbstractionSettings `hcl:"abstraction,block"`
	Training    *TrainingSettings    `hcl:"training,block"`
}

// OutputSettings controls where strategies are written and how much is logged
type OutputSettings struct {
	Dir      string `hcl:"dir,optional"`
	WriteEV  bool   `hcl:"write_ev,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings defines the table every hand is played at
type GameSettings struct {
	Players       int `hcl:"players,optional"`
	StartingStack int `hcl:"starting_stack,optional"`
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
}

// AbstractionSettings mirrors solver.AbstractionConfig
type AbstractionSettings struct {
	Mode             string  `hcl:"mode,optional"`
	PreflopRaiseCap  int     `hcl:"preflop_raise_cap,optional"`
	PostflopRaiseCap int     `hcl:"postflop_raise_cap,optional"`
	RaiseFraction    float64 `hcl:"raise_fraction,optional"`
	OpponentSamples  int     `hcl:"opponent_samples,optional"`
	BoardSamples     int     `hcl:"board_samples,optional"`
}

// TrainingSettings controls the self-play loop
type TrainingSettings struct {
	HandsPerBatch      int    `hcl:"hands_per_batch,optional"`
	Batches            int    `hcl:"batches,optional"`
	Seed               int64  `hcl:"seed,optional"`
	CheckpointEvery    *int   `hcl:"checkpoint_every,optional"`
	CheckpointInterval string `hcl:"checkpoint_interval,optional"`
	ProgressEvery      int    `hcl:"progress_every,optional"`
	Resume             bool   `hcl:"resume,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	abs := solver.DefaultAbstraction()
	train := solver.DefaultTrainingConfig()
	return &Config{
		Output: &OutputSettings{
			Dir:      "strategies",
			LogLevel: "info",
		},
		Game: &GameSettings{
			Players:       train.Players,
			StartingStack: train.StartingStack,
			SmallBlind:    train.SmallBlind,
			BigBlind:      train.BigBlind,
		},
		Abstraction: &AbstractionSettings{
			Mode:             abs.Mode.String(),
			PreflopRaiseCap:  abs.PreflopRaiseCap,
			PostflopRaiseCap: abs.PostflopRaiseCap,
			RaiseFraction:    abs.RaiseFraction,
			OpponentSamples:  abs.OpponentSamples,
			BoardSamples:     abs.BoardSamples,
		},
		Training: &TrainingSettings{
			HandsPerBatch:   train.HandsPerBatch,
			Batches:         train.Batches,
			Seed:            train.Seed,
			CheckpointEvery: &train.CheckpointEvery,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills omitted blocks and zero-valued attributes
func (c *Config) applyDefaults() {
	def := Default()

	if c.Output == nil {
		c.Output = def.Output
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Output.LogLevel == "" {
		c.Output.LogLevel = def.Output.LogLevel
	}

	if c.Game == nil {
		c.Game = def.Game
	}
	setInt(&c.Game.Players, def.Game.Players)
	setInt(&c.Game.StartingStack, def.Game.StartingStack)
	setInt(&c.Game.SmallBlind, def.Game.SmallBlind)
	setInt(&c.Game.BigBlind, def.Game.BigBlind)

	if c.Abstraction == nil {
		c.Abstraction = def.Abstraction
	}
	if c.Abstraction.Mode == "" {
		c.Abstraction.Mode = def.Abstraction.Mode
	}
	setInt(&c.Abstraction.PreflopRaiseCap, def.Abstraction.PreflopRaiseCap)
	setInt(&c.Abstraction.PostflopRaiseCap, def.Abstraction.PostflopRaiseCap)
	if c.Abstraction.RaiseFraction == 0 {
		c.Abstraction.RaiseFraction = def.Abstraction.RaiseFraction
	}
	setInt(&c.Abstraction.OpponentSamples, def.Abstraction.OpponentSamples)
	setInt(&c.Abstraction.BoardSamples, def.Abstraction.BoardSamples)

	if c.Training == nil {
		c.Training = def.Training
	}
	setInt(&c.Training.HandsPerBatch, def.Training.HandsPerBatch)
	setInt(&c.Training.Batches, def.Training.Batches)
	if c.Training.Seed == 0 {
		c.Training.Seed = def.Training.Seed
	}
	// An explicit zero disables periodic checkpoints, so only nil is defaulted.
	if c.Training.CheckpointEvery == nil {
		c.Training.CheckpointEvery = def.Training.CheckpointEvery
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// AbstractionConfig converts the abstraction block
func (c *Config) AbstractionConfig() (solver.AbstractionConfig, error) {
	mode, err := solver.ParseMode(c.Abstraction.Mode)
	if err != nil {
		return solver.AbstractionConfig{}, err
	}
	abs := solver.AbstractionConfig{
		Mode:             mode,
		PreflopRaiseCap:  c.Abstraction.PreflopRaiseCap,
		PostflopRaiseCap: c.Abstraction.PostflopRaiseCap,
		RaiseFraction:    c.Abstraction.RaiseFraction,
		OpponentSamples:  c.Abstraction.OpponentSamples,
		BoardSamples:     c.Abstraction.BoardSamples,
	}
	if err := abs.Validate(); err != nil {
		return abs, fmt.Errorf("abstraction: %w", err)
	}
	return abs, nil
}

// TrainingConfig converts the game and training blocks
func (c *Config) TrainingConfig() (solver.TrainingConfig, error) {
	var every int
	if c.Training.CheckpointEvery != nil {
		every = *c.Training.CheckpointEvery
	}
	var interval time.Duration
	if s := c.Training.CheckpointInterval; s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return solver.TrainingConfig{}, fmt.Errorf("checkpoint_interval: %w", err)
		}
		interval = d
	}
	cfg := solver.TrainingConfig{
		Players:            c.Game.Players,
		StartingStack:      c.Game.StartingStack,
		SmallBlind:         c.Game.SmallBlind,
		BigBlind:           c.Game.BigBlind,
		HandsPerBatch:      c.Training.HandsPerBatch,
		Batches:            c.Training.Batches,
		Seed:               c.Training.Seed,
		CheckpointEvery:    every,
		CheckpointInterval: interval,
		ProgressEvery:      c.Training.ProgressEvery,
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("training: %w", err)
	}
	return cfg, nil
}
