package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokergto/internal/randutil"
	"github.com/lox/pokergto/poker"
)

// Progress is reported after each strategy update.
type Progress struct {
	Batch       int
	Protagonist int
	// MeanEV is the protagonist's average solved EV over the batch, in chips.
	MeanEV    float64
	Updated   int
	TableSize int
	// Stats covers this batch's hands only.
	Stats     TraversalStats
	BatchTime time.Duration
}

// Trainer runs self-play: it solves batches of hands for one protagonist,
// applies regret matching to that player's table and rotates the role.
// Players keep their identity across hands while their seats rotate.
type Trainer struct {
	abs    AbstractionConfig
	cfg    TrainingConfig
	tables []*StrategyTable
	mapper *BucketMapper

	deckRNG *rand.Rand
	newDeck func() *poker.Deck

	clock  quartz.Clock
	logger *log.Logger
	store  *Store

	batch          int
	hand           int
	stats          TraversalStats
	batchStats     TraversalStats
	lastCheckpoint time.Time
	savedBatch     int
}

// Option customises a Trainer.
type Option func(*Trainer)

// WithClock injects the clock used for batch timing and timed checkpoints.
func WithClock(c quartz.Clock) Option {
	return func(t *Trainer) { t.clock = c }
}

// WithLogger sets the trainer's logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Trainer) { t.logger = l.WithPrefix("trainer") }
}

// WithDeckSource replaces shuffled decks with decks produced by fn, one per
// hand.
func WithDeckSource(fn func() *poker.Deck) Option {
	return func(t *Trainer) { t.newDeck = fn }
}

// WithStrategies seeds the players' tables, for example from files written
// by an earlier run. One table per player is required.
func WithStrategies(tables []*StrategyTable) Option {
	return func(t *Trainer) { t.tables = tables }
}

// WithStore enables checkpoints and the final save through s.
func WithStore(s *Store) Option {
	return func(t *Trainer) { t.store = s }
}

// WithStartBatch resumes batch numbering at batch. Protagonist rotation, seat
// rotation and the dealing streams continue from that batch rather than
// replaying batch zero.
func WithStartBatch(batch int) Option {
	return func(t *Trainer) { t.batch = batch }
}

// NewTrainer constructs a trainer given abstraction and training configs.
func NewTrainer(abs AbstractionConfig, cfg TrainingConfig, opts ...Option) (*Trainer, error) {
	if err := abs.Validate(); err != nil {
		return nil, fmt.Errorf("abstraction: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}

	t := &Trainer{
		abs:    abs,
		cfg:    cfg,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.tables == nil {
		t.tables = make([]*StrategyTable, cfg.Players)
		for i := range t.tables {
			t.tables[i] = NewStrategyTable(abs.Caps())
		}
	}
	if len(t.tables) != cfg.Players {
		return nil, fmt.Errorf("got %d strategy tables for %d players", len(t.tables), cfg.Players)
	}
	if t.batch < 0 || t.batch > cfg.Batches {
		return nil, errors.New("start batch outside configured batches")
	}
	t.hand = t.batch * cfg.HandsPerBatch
	t.deckRNG = randutil.DeriveAt(cfg.Seed, randutil.StreamDeck, uint64(t.batch))
	if t.newDeck == nil {
		t.newDeck = func() *poker.Deck { return poker.NewDeck(t.deckRNG) }
	}

	mapper, err := NewBucketMapper(abs, randutil.DeriveAt(cfg.Seed, randutil.StreamEquity, uint64(t.batch)))
	if err != nil {
		return nil, err
	}
	t.mapper = mapper
	t.lastCheckpoint = t.clock.Now()
	t.savedBatch = -1
	return t, nil
}

// Strategies returns the players' tables. They are owned by the trainer and
// must not be used concurrently with Run.
func (t *Trainer) Strategies() []*StrategyTable { return t.tables }

// Batch returns the number of completed batches.
func (t *Trainer) Batch() int { return t.batch }

// Stats returns traversal counters accumulated over all hands.
func (t *Trainer) Stats() TraversalStats { return t.stats }

// Run trains until the configured number of batches has completed, then
// saves the final strategies when a store is configured. Cancellation is
// checked between hands; a hand's tree walk always runs to completion.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	every := t.cfg.ProgressEvery
	if every == 0 {
		every = 1
	}

	for t.batch < t.cfg.Batches {
		p, err := t.RunBatch(ctx)
		if err != nil {
			return err
		}
		if progress != nil && (t.batch%every == 0 || t.batch == t.cfg.Batches) {
			progress(p)
		}
		if t.checkpointDue() {
			t.checkpoint()
		}
	}

	if t.store != nil && t.savedBatch != t.batch {
		t.checkpoint()
	}
	return nil
}

// RunBatch solves one batch of hands for the current protagonist and applies
// the regret-matching update to its table.
func (t *Trainer) RunBatch(ctx context.Context) (Progress, error) {
	start := t.clock.Now()
	protagonist := t.batch % t.cfg.Players
	t.batchStats = TraversalStats{}

	var total float64
	for h := 0; h < t.cfg.HandsPerBatch; h++ {
		if err := ctx.Err(); err != nil {
			return Progress{}, err
		}
		ev, err := t.PlayHand(protagonist)
		if err != nil {
			return Progress{}, err
		}
		total += ev
	}

	table := t.tables[protagonist]
	updated := UpdateStrategy(table)
	t.batch++

	p := Progress{
		Batch:       t.batch,
		Protagonist: protagonist,
		MeanEV:      total / float64(t.cfg.HandsPerBatch),
		Updated:     updated,
		TableSize:   table.Len(),
		Stats:       t.batchStats,
		BatchTime:   t.clock.Since(start),
	}
	t.logger.Debug("Batch complete", "batch", p.Batch, "protagonist", protagonist, "ev", p.MeanEV, "updated", updated)
	return p, nil
}

// PlayHand deals one hand and solves its full betting tree for the given
// player, accumulating EV into that player's table without updating its
// strategy. Seats rotate by one every hand. It returns the player's EV.
func (t *Trainer) PlayHand(protagonist int) (float64, error) {
	n := t.cfg.Players
	if protagonist < 0 || protagonist >= n {
		return 0, fmt.Errorf("protagonist %d out of range", protagonist)
	}

	// Player p sits at seat (p + hand) mod n.
	seated := make([]*StrategyTable, n)
	for p, table := range t.tables {
		seated[(p+t.hand)%n] = table
	}
	seat := (protagonist + t.hand) % n
	t.hand++

	game, err := NewGame(t.newDeck(), t.cfg.Stakes(), seated)
	if err != nil {
		return 0, err
	}
	t.mapper.Reset()
	s := NewSolver(game, t.mapper, t.abs)
	ev := s.Solve(seat)
	t.stats.add(s.Stats())
	t.batchStats.add(s.Stats())
	return ev, nil
}
