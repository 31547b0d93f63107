//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/pricesnap/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "pricesnap",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=pricesnap sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "pricesnap")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestQuotesRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewQuotesRepository(db)

	t.Run("empty database", func(t *testing.T) {
		snap, err := repo.LatestSnapshot()
		if err != nil || snap != nil {
			t.Fatalf("want nil,nil got %+v %v", snap, err)
		}
	})

	first := models.Snapshot{AsOf: "2025-09-11T21:00:00.000Z", Source: "stooq"}
	first.Quotes.Set("NFGC", models.Quote{Price: 3.21})
	first.Quotes.Set("AGI", models.Quote{Price: 12.34})
	first.Quotes.Set("FSM", models.Quote{Price: 5.6})

	t.Run("save and read back in order", func(t *testing.T) {
		if err := repo.SaveSnapshot(first); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.LatestSnapshot()
		if err != nil || got == nil {
			t.Fatalf("read: %+v %v", got, err)
		}
		if got.AsOf != first.AsOf || got.Source != first.Source {
			t.Fatalf("meta mismatch: %+v", got)
		}
		want := []string{"NFGC", "AGI", "FSM"}
		tickers := got.Quotes.Tickers()
		if len(tickers) != len(want) {
			t.Fatalf("tickers=%v want %v", tickers, want)
		}
		for i := range want {
			if tickers[i] != want[i] {
				t.Fatalf("tickers=%v want %v", tickers, want)
			}
		}
	})

	t.Run("second save replaces wholesale", func(t *testing.T) {
		second := models.Snapshot{AsOf: "2025-09-12T21:00:00.000Z", Source: "stooq"}
		second.Quotes.Set("GAU", models.Quote{Price: 1.5})
		if err := repo.SaveSnapshot(second); err != nil {
			t.Fatalf("save: %v", err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM latest_quotes").Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 1 {
			t.Fatalf("expected 1 row after replace, got %d", cnt)
		}
		got, err := repo.LatestSnapshot()
		if err != nil || got == nil || got.AsOf != second.AsOf {
			t.Fatalf("unexpected snapshot %+v err=%v", got, err)
		}
		if _, ok := got.Quotes.Get("AGI"); ok {
			t.Fatalf("AGI should not survive a replace")
		}
	})
}
