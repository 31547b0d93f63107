package storage

import (
	"fmt"

	"github.com/guttosm/pricesnap/internal/domain/models"
)

// SnapshotWriter persists a finished snapshot, replacing any previous one.
type SnapshotWriter interface {
	SaveSnapshot(snap models.Snapshot) error
}

// SnapshotReader returns the most recently persisted snapshot.
// It returns (nil, nil) when nothing has been written yet.
type SnapshotReader interface {
	LatestSnapshot() (*models.Snapshot, error)
}

// PersistenceError reports a failure to store the snapshot. It is the one
// failure class that fails a whole run.
type PersistenceError struct {
	Op   string // "mkdir", "write", "rename", "db", ...
	Path string // file path or table name
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
