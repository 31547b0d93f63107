package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/pricesnap/internal/domain/models"
)

type stubReader struct {
	snap *models.Snapshot
	err  error
}

func (s *stubReader) LatestSnapshot() (*models.Snapshot, error) { return s.snap, s.err }

func sample() *models.Snapshot {
	snap := &models.Snapshot{AsOf: "2025-09-12T21:00:00.000Z", Source: "stooq"}
	snap.Quotes.Set("AGI", models.Quote{Price: 12.34})
	return snap
}

func TestQuotesService_GetSnapshot(t *testing.T) {
	cases := []struct {
		name    string
		reader  *stubReader
		wantErr error
	}{
		{name: "success", reader: &stubReader{snap: sample()}},
		{name: "no snapshot yet", reader: &stubReader{}, wantErr: ErrNotFound},
		{name: "reader error", reader: &stubReader{err: errors.New("boom")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewQuotesService(tc.reader)
			out, err := svc.GetSnapshot(context.Background())
			switch {
			case tc.reader.err != nil:
				if err == nil || out != nil {
					t.Fatalf("expected reader error, got out=%+v err=%v", out, err)
				}
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) || out != nil {
					t.Fatalf("want %v, got out=%+v err=%v", tc.wantErr, out, err)
				}
			default:
				if err != nil || out == nil || out.Quotes.Len() != 1 {
					t.Fatalf("unexpected: out=%+v err=%v", out, err)
				}
			}
		})
	}
}

func TestQuotesService_GetQuote(t *testing.T) {
	svc := NewQuotesService(&stubReader{snap: sample()})

	snap, q, err := svc.GetQuote(context.Background(), "AGI")
	if err != nil || q.Price != 12.34 || snap.Source != "stooq" {
		t.Fatalf("AGI: snap=%+v q=%+v err=%v", snap, q, err)
	}

	if _, _, err := svc.GetQuote(context.Background(), "FSM"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FSM: want ErrNotFound, got %v", err)
	}

	empty := NewQuotesService(&stubReader{})
	if _, _, err := empty.GetQuote(context.Background(), "AGI"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no snapshot: want ErrNotFound, got %v", err)
	}
}
