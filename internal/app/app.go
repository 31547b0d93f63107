package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pricesnap/config"
	"github.com/guttosm/pricesnap/internal/api"
	"github.com/guttosm/pricesnap/internal/service"
	"github.com/guttosm/pricesnap/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Picks the snapshot reader: the Postgres mirror when POSTGRES_ENABLED,
//     otherwise the JSON file at QUOTES_OUTPUT.
//   - Creates the service and HTTP handler layers.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes against the chosen store.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	reader, ping, cleanup, err := openReader(cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewQuotesService(reader)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(ping)
	healthHandler.Register(router)

	return router, cleanup, nil
}

func openReader(cfg config.Config) (storage.SnapshotReader, func() error, func(), error) {
	if !cfg.Postgres.Enabled {
		store := storage.NewFileStore(cfg.Quotes.OutputPath)
		return store, store.Ping, func() {}, nil
	}

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	return storage.NewQuotesRepository(db), db.Ping, func() { _ = db.Close() }, nil
}

// InitializeSinks returns the destinations a snapshot run publishes to.
//
// Behavior:
//   - Always includes the JSON file at outputPath.
//   - Adds the Postgres mirror when POSTGRES_ENABLED.
//
// Returns:
//   - []storage.SnapshotWriter: sinks in publish order.
//   - func(): releases the DB connection, if one was opened.
//   - error: when the Postgres connection cannot be established.
func InitializeSinks(cfg config.Config, outputPath string) ([]storage.SnapshotWriter, func(), error) {
	sinks := []storage.SnapshotWriter{storage.NewFileStore(outputPath)}
	if !cfg.Postgres.Enabled {
		return sinks, func() {}, nil
	}

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	sinks = append(sinks, storage.NewQuotesRepository(db))
	return sinks, func() { _ = db.Close() }, nil
}
