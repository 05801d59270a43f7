package solver

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects which information-state abstraction the solver trains against.
type Mode uint8

const (
	// ModeRanked uses exact pre-flop buckets and outrank counts after the flop.
	ModeRanked Mode = iota
	// ModeEquity uses Monte-Carlo equity tiers against fixed opponent pools on every street.
	ModeEquity
)

func (m Mode) String() string {
	switch m {
	case ModeRanked:
		return "ranked"
	case ModeEquity:
		return "equity"
	default:
		return "unknown"
	}
}

// ParseMode converts a textual mode into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "ranked":
		return ModeRanked, nil
	case "equity":
		return ModeEquity, nil
	default:
		return 0, fmt.Errorf("unknown abstraction mode %q", s)
	}
}

// MaxPlayers bounds the seat count so per-node snapshots stay fixed-size.
const MaxPlayers = 6

// AbstractionConfig captures how information states are bucketed and which
// actions exist at each decision. Strategy files are only meaningful under the
// abstraction they were trained with.
type AbstractionConfig struct {
	Mode Mode

	// PreflopRaiseCap and PostflopRaiseCap bound raises before and after the
	// flop. The post-flop counter is shared by the flop, turn and river.
	PreflopRaiseCap  int
	PostflopRaiseCap int

	// RaiseFraction sizes the single raise action as a fraction of the pot
	// after calling.
	RaiseFraction float64

	// OpponentSamples is the number of opponent holdings drawn from each
	// starting-hand pool when estimating equity.
	OpponentSamples int

	// BoardSamples is the number of random board completions per sampled
	// opponent holding.
	BoardSamples int
}

// Caps returns the raise caps of the abstraction.
func (c AbstractionConfig) Caps() RaiseCaps {
	return RaiseCaps{Preflop: c.PreflopRaiseCap, Postflop: c.PostflopRaiseCap}
}

// Validate ensures the abstraction is well-formed before training begins.
func (c AbstractionConfig) Validate() error {
	if c.Mode > ModeEquity {
		return errors.New("invalid abstraction mode")
	}
	if c.PreflopRaiseCap <= 0 || c.PostflopRaiseCap <= 0 {
		return errors.New("raise caps must be > 0")
	}
	if c.PreflopRaiseCap > 15 || c.PostflopRaiseCap > 15 {
		return errors.New("raise caps must be <= 15")
	}
	if c.RaiseFraction <= 0 {
		return errors.New("raise fraction must be > 0")
	}
	if c.Mode == ModeEquity {
		if c.OpponentSamples <= 0 {
			return errors.New("opponent samples must be > 0")
		}
		if c.BoardSamples <= 0 {
			return errors.New("board samples must be > 0")
		}
	}
	return nil
}

// Stakes describes the chips each hand starts with.
type Stakes struct {
	StartingStack int
	SmallBlind    int
	BigBlind      int
}

// TrainingConfig aggregates parameters that control self-play training.
type TrainingConfig struct {
	Players       int
	StartingStack int
	SmallBlind    int
	BigBlind      int

	// HandsPerBatch hands are solved for the protagonist before each
	// strategy update.
	HandsPerBatch int
	Batches       int
	Seed          int64

	// CheckpointEvery persists strategies every N batches; zero disables.
	CheckpointEvery int
	// CheckpointInterval persists strategies once this much wall time has
	// passed since the previous checkpoint; zero disables.
	CheckpointInterval time.Duration
	// ProgressEvery reports progress every N batches; zero reports every batch.
	ProgressEvery int
}

// Stakes returns the chip parameters of the configuration.
func (c TrainingConfig) Stakes() Stakes {
	return Stakes{StartingStack: c.StartingStack, SmallBlind: c.SmallBlind, BigBlind: c.BigBlind}
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Players < 2 {
		return errors.New("players must be >= 2")
	}
	if c.Players > MaxPlayers {
		return fmt.Errorf("players must be <= %d", MaxPlayers)
	}
	if c.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("big blind must be greater than small blind")
	}
	if c.StartingStack < c.BigBlind {
		return errors.New("starting stack must cover the big blind")
	}
	if c.HandsPerBatch <= 0 {
		return errors.New("hands per batch must be > 0")
	}
	if c.Batches <= 0 {
		return errors.New("batches must be > 0")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint every cannot be negative")
	}
	if c.CheckpointInterval < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	return nil
}

// DefaultAbstraction returns the equity abstraction with a half-pot raise.
func DefaultAbstraction() AbstractionConfig {
	return AbstractionConfig{
		Mode:             ModeEquity,
		PreflopRaiseCap:  2,
		PostflopRaiseCap: 2,
		RaiseFraction:    0.5,
		OpponentSamples:  26,
		BoardSamples:     10,
	}
}

// DefaultTrainingConfig returns a small configuration for local experimentation.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Players:         3,
		StartingStack:   100,
		SmallBlind:      1,
		BigBlind:        2,
		HandsPerBatch:   50,
		Batches:         100,
		Seed:            1,
		CheckpointEvery: 5,
	}
}
