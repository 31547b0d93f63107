package storage

import (
	"database/sql"
	"errors"

	"github.com/guttosm/pricesnap/internal/domain/models"
	pq "github.com/lib/pq"
)

// QuotesRepository mirrors the latest snapshot into Postgres.
type QuotesRepository interface {
	SnapshotWriter
	SnapshotReader
}

type quotesRepository struct {
	db *sql.DB
}

func NewQuotesRepository(db *sql.DB) QuotesRepository {
	return &quotesRepository{db: db}
}

// SaveSnapshot replaces the stored snapshot in a single transaction.
// Only the latest snapshot is kept: latest_quotes is emptied and reloaded,
// snapshot_meta holds a single row.
func (r *quotesRepository) SaveSnapshot(snap models.Snapshot) error {
	if err := r.replace(snap); err != nil {
		return &PersistenceError{Op: "db", Path: "latest_quotes", Err: err}
	}
	return nil
}

func (r *quotesRepository) replace(snap models.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM latest_quotes`); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO snapshot_meta (id, as_of, source)
		VALUES (1, $1, $2)
		ON CONFLICT (id)
		DO UPDATE SET as_of = EXCLUDED.as_of,
					  source = EXCLUDED.source,
					  updated_at = NOW()
	`, snap.AsOf, snap.Source); err != nil {
		_ = tx.Rollback()
		return err
	}

	if snap.Quotes.Len() == 0 {
		return tx.Commit()
	}

	stmt, err := tx.Prepare(pq.CopyIn("latest_quotes", "ticker", "position", "price"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for i, ticker := range snap.Quotes.Tickers() {
		q, _ := snap.Quotes.Get(ticker)
		if _, err := stmt.Exec(ticker, i, q.Price); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LatestSnapshot loads the stored snapshot with quotes in their original order.
// It returns (nil, nil) when no snapshot was ever saved.
func (r *quotesRepository) LatestSnapshot() (*models.Snapshot, error) {
	var snap models.Snapshot
	err := r.db.QueryRow(`SELECT as_of, source FROM snapshot_meta WHERE id = 1`).Scan(&snap.AsOf, &snap.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(`SELECT ticker, price FROM latest_quotes ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ticker string
		var price float64
		if err := rows.Scan(&ticker, &price); err != nil {
			return nil, err
		}
		snap.Quotes.Set(ticker, models.Quote{Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &snap, nil
}
