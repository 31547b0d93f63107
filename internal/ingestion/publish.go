package ingestion

import (
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/pricesnap/internal/domain/models"
	"github.com/guttosm/pricesnap/internal/storage"
)

// Publish hands snap to every sink. Sinks are written in parallel and the
// first failure is returned once all of them have finished.
func Publish(snap models.Snapshot, sinks ...storage.SnapshotWriter) error {
	var g errgroup.Group
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		sink := sink
		g.Go(func() error {
			return sink.SaveSnapshot(snap)
		})
	}
	return g.Wait()
}
