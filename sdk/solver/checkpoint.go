package solver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/pokergto/internal/fileutil"
)

const checkpointFileVersion = 1

// checkpointFile sits next to the strategy files and records how far
// training has progressed.
const checkpointFile = "checkpoint.json"

// Checkpoint describes a saved training run.
type Checkpoint struct {
	Version int    `json:"version"`
	Batch   int    `json:"batch"`
	Players int    `json:"players"`
	Mode    string `json:"mode"`
	Seed    int64  `json:"seed"`
}

func (t *Trainer) checkpointDue() bool {
	if t.store == nil {
		return false
	}
	if every := t.cfg.CheckpointEvery; every > 0 && t.batch%every == 0 {
		return true
	}
	if iv := t.cfg.CheckpointInterval; iv > 0 && t.clock.Since(t.lastCheckpoint) >= iv {
		return true
	}
	return false
}

// checkpoint persists every table and the batch counter. Failures are logged
// by the store and do not stop training.
func (t *Trainer) checkpoint() {
	t.lastCheckpoint = t.clock.Now()
	if err := t.SaveCheckpoint(); err != nil {
		t.logger.Warn("Checkpoint incomplete", "batch", t.batch, "error", err)
		return
	}
	t.savedBatch = t.batch
	t.logger.Info("Checkpoint saved", "batch", t.batch, "dir", t.store.dir)
}

// SaveCheckpoint writes every player's strategy file and the checkpoint
// manifest through the trainer's store.
func (t *Trainer) SaveCheckpoint() error {
	if t.store == nil {
		return fmt.Errorf("no store configured")
	}
	if err := t.store.SaveAll(t.tables); err != nil {
		return err
	}
	cp := Checkpoint{
		Version: checkpointFileVersion,
		Batch:   t.batch,
		Players: t.cfg.Players,
		Mode:    t.abs.Mode.String(),
		Seed:    t.cfg.Seed,
	}
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(filepath.Join(t.store.dir, checkpointFile), append(data, '\n'), 0o644)
}

// LoadCheckpoint reads the manifest written by SaveCheckpoint from dir.
func LoadCheckpoint(dir string) (Checkpoint, error) {
	var cp Checkpoint
	data, err := os.ReadFile(filepath.Join(dir, checkpointFile))
	if err != nil {
		return cp, err
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, fmt.Errorf("decode checkpoint: %w", err)
	}
	if cp.Version != checkpointFileVersion {
		return cp, fmt.Errorf("unsupported checkpoint version %d", cp.Version)
	}
	return cp, nil
}
