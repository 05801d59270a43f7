package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeRanked, ModeEquity} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("bucketed")
	assert.Error(t, err)
}

func TestAbstractionValidate(t *testing.T) {
	require.NoError(t, DefaultAbstraction().Validate())

	tests := []struct {
		name   string
		mutate func(*AbstractionConfig)
	}{
		{"unknown mode", func(c *AbstractionConfig) { c.Mode = 7 }},
		{"zero pre-flop cap", func(c *AbstractionConfig) { c.PreflopRaiseCap = 0 }},
		{"post-flop cap too large", func(c *AbstractionConfig) { c.PostflopRaiseCap = 16 }},
		{"zero raise fraction", func(c *AbstractionConfig) { c.RaiseFraction = 0 }},
		{"no opponent samples", func(c *AbstractionConfig) { c.OpponentSamples = 0 }},
		{"no board samples", func(c *AbstractionConfig) { c.BoardSamples = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAbstraction()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	ranked := DefaultAbstraction()
	ranked.Mode = ModeRanked
	ranked.OpponentSamples = 0
	assert.NoError(t, ranked.Validate(), "sample counts only matter for equity")
}

func TestTrainingValidate(t *testing.T) {
	require.NoError(t, DefaultTrainingConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
	}{
		{"one player", func(c *TrainingConfig) { c.Players = 1 }},
		{"too many players", func(c *TrainingConfig) { c.Players = MaxPlayers + 1 }},
		{"zero small blind", func(c *TrainingConfig) { c.SmallBlind = 0 }},
		{"inverted blinds", func(c *TrainingConfig) { c.BigBlind = c.SmallBlind }},
		{"short stack", func(c *TrainingConfig) { c.StartingStack = 1 }},
		{"no hands", func(c *TrainingConfig) { c.HandsPerBatch = 0 }},
		{"no batches", func(c *TrainingConfig) { c.Batches = 0 }},
		{"negative checkpoint", func(c *TrainingConfig) { c.CheckpointEvery = -1 }},
		{"negative interval", func(c *TrainingConfig) { c.CheckpointInterval = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTrainingConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
