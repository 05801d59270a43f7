package solver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokergto/internal/fileutil"
)

// fieldSeparator splits bucket coordinates, probabilities and EVs on a line.
const fieldSeparator = "|"

// WriteStrategy writes one line per bucket:
//
//	<bucket fields> | <probabilities> [| <per-action EV>]
//
// Values are space separated. Probabilities are normalised before writing.
func WriteStrategy(w io.Writer, t *StrategyTable, withEV bool) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, b := range t.Buckets() {
		row := t.rows[b]
		line = line[:0]
		for _, f := range b.Fields() {
			line = strconv.AppendInt(line, int64(f), 10)
			line = append(line, ' ')
		}
		line = append(line, fieldSeparator...)

		probs := slices.Clone(row.Probs)
		Normalize(probs)
		line = appendFloats(line, probs)
		if withEV {
			line = append(line, ' ')
			line = append(line, fieldSeparator...)
			line = appendFloats(line, row.Values)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendFloats(dst []byte, vals []float64) []byte {
	for _, v := range vals {
		dst = append(dst, ' ')
		dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	}
	return dst
}

// ReadStrategy parses lines written by WriteStrategy into a new table.
// Malformed lines are skipped and counted rather than failing the load; a
// missing EV section is accepted. The error reports only read failures.
func ReadStrategy(r io.Reader, caps RaiseCaps) (*StrategyTable, int, error) {
	t := NewStrategyTable(caps)
	skipped := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := parseLine(t, line); err != nil {
			skipped++
		}
	}
	return t, skipped, sc.Err()
}

func parseLine(t *StrategyTable, line string) error {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("want 2 or 3 sections, got %d", len(parts))
	}

	var fields []int
	for _, tok := range strings.Fields(parts[0]) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return err
		}
		fields = append(fields, v)
	}
	b, err := ParseBucket(fields)
	if err != nil {
		return err
	}

	n := t.caps.ActionCount(b)
	probs, err := parseFloats(parts[1], n)
	if err != nil {
		return fmt.Errorf("probabilities: %w", err)
	}
	var sum float64
	for _, p := range probs {
		if p < 0 {
			return errors.New("negative probability")
		}
		sum += p
	}
	if sum <= 0 {
		return errors.New("probabilities sum to zero")
	}

	var values []float64
	if len(parts) == 3 {
		if values, err = parseFloats(parts[2], n); err != nil {
			return fmt.Errorf("ev: %w", err)
		}
	}

	row := t.Set(b, probs)
	if values != nil {
		copy(row.Values, values)
	}
	return nil
}

func parseFloats(s string, want int) ([]float64, error) {
	toks := strings.Fields(s)
	if len(toks) != want {
		return nil, fmt.Errorf("want %d values, got %d", want, len(toks))
	}
	out := make([]float64, want)
	for i, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value %q", tok)
		}
		out[i] = v
	}
	return out, nil
}

// Store reads and writes strategy files in a directory. Failures are logged
// and never abort training: a failed load yields an empty table and a failed
// save leaves the previous file in place.
type Store struct {
	dir    string
	withEV bool
	logger *log.Logger
}

// NewStore returns a store rooted at dir. When withEV is set, files also carry
// each bucket's per-action EV from the last update.
func NewStore(dir string, withEV bool, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{dir: dir, withEV: withEV, logger: logger.WithPrefix("store")}
}

// Path returns the strategy file of a player.
func (s *Store) Path(player int) string {
	return filepath.Join(s.dir, fmt.Sprintf("player%d.txt", player))
}

// Load reads a strategy file. An unreadable file is logged and produces an
// empty table.
func (s *Store) Load(path string, caps RaiseCaps) *StrategyTable {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("Failed to open strategy file", "path", path, "error", err)
		return NewStrategyTable(caps)
	}
	defer f.Close()

	t, skipped, err := ReadStrategy(f, caps)
	if err != nil {
		s.logger.Warn("Failed to read strategy file", "path", path, "error", err)
	}
	if skipped > 0 {
		s.logger.Warn("Skipped malformed strategy lines", "path", path, "skipped", skipped)
	}
	s.logger.Debug("Loaded strategy", "path", path, "buckets", t.Len())
	return t
}

// LoadAll loads one table per player, reading the files concurrently.
func (s *Store) LoadAll(players int, caps RaiseCaps) []*StrategyTable {
	tables := make([]*StrategyTable, players)
	var g errgroup.Group
	for i := range tables {
		g.Go(func() error {
			tables[i] = s.Load(s.Path(i), caps)
			return nil
		})
	}
	_ = g.Wait()
	return tables
}

// Save writes a table atomically. Failures are logged and returned.
func (s *Store) Save(path string, t *StrategyTable) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return WriteStrategy(w, t, s.withEV)
	})
	if err != nil {
		s.logger.Error("Failed to save strategy", "path", path, "error", err)
		return fmt.Errorf("save strategy %s: %w", path, err)
	}
	s.logger.Debug("Saved strategy", "path", path, "buckets", t.Len())
	return nil
}

// SaveAll writes every player's table concurrently, returning the first error.
// The tables must not be mutated until SaveAll returns.
func (s *Store) SaveAll(tables []*StrategyTable) error {
	var g errgroup.Group
	for i, t := range tables {
		g.Go(func() error {
			return s.Save(s.Path(i), t)
		})
	}
	return g.Wait()
}
