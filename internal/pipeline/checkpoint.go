package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
)

// CheckpointFile persists discovery progress as JSON. Saves go through a
// temp file and rename so a crash mid-write leaves the previous checkpoint
// intact.
type CheckpointFile struct {
	path string
}

// NewCheckpointFile creates a checkpoint at the given path.
func NewCheckpointFile(path string) *CheckpointFile {
	return &CheckpointFile{path: path}
}

// Path returns the checkpoint's file path.
func (c *CheckpointFile) Path() string { return c.path }

// Load reads the checkpoint. A missing file is a fresh start, not an error.
func (c *CheckpointFile) Load() (model.Checkpoint, error) {
	var cp model.Checkpoint
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cp, nil
		}
		return cp, eris.Wrapf(err, "checkpoint: read %s", c.path)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, eris.Wrapf(err, "checkpoint: parse %s", c.path)
	}
	return cp, nil
}

// Save writes the completed set (sorted ascending) and the full result set
// atomically.
func (c *CheckpointFile) Save(completed map[int64]struct{}, results []model.ContactRecord) error {
	cp := model.Checkpoint{
		Completed: make([]int64, 0, len(completed)),
		Results:   results,
	}
	for ein := range completed {
		cp.Completed = append(cp.Completed, ein)
	}
	sort.Slice(cp.Completed, func(i, j int) bool { return cp.Completed[i] < cp.Completed[j] })

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal")
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".checkpoint-*")
	if err != nil {
		return eris.Wrapf(err, "checkpoint: create temp for %s", c.path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: write temp")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: sync temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: close temp")
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "checkpoint: rename into %s", c.path)
	}
	return nil
}
