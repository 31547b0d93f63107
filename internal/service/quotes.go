package service

import (
	"context"
	"errors"

	"github.com/guttosm/pricesnap/internal/domain/models"
	"github.com/guttosm/pricesnap/internal/storage"
)

// ErrNotFound is returned when there is no snapshot, or the ticker is not in it.
var ErrNotFound = errors.New("not found")

// QuotesService exposes the latest snapshot to the HTTP layer.
type QuotesService interface {
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
	GetQuote(ctx context.Context, ticker string) (*models.Snapshot, models.Quote, error)
}

type quotesService struct {
	reader storage.SnapshotReader
}

func NewQuotesService(reader storage.SnapshotReader) QuotesService {
	return &quotesService{reader: reader}
}

func (s *quotesService) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.reader.LatestSnapshot()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNotFound
	}
	return snap, nil
}

// GetQuote returns the snapshot together with the quote for ticker, so
// callers can report provenance alongside the price.
func (s *quotesService) GetQuote(ctx context.Context, ticker string) (*models.Snapshot, models.Quote, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, models.Quote{}, err
	}
	q, ok := snap.Quotes.Get(ticker)
	if !ok {
		return snap, models.Quote{}, ErrNotFound
	}
	return snap, q, nil
}
