package main

//
//  @title           pricesnap API
//  @version         1.0
//  @description     Latest closing prices snapshot for a configured ticker list.
//  @termsOfService  https://github.com/guttosm/pricesnap
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/pricesnap
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        quotes
//  @tag.description Endpoints for reading the latest snapshot
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/guttosm/pricesnap/docs" // swagger docs
	"github.com/guttosm/pricesnap/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT/SIGTERM arrives or ctx is cancelled,
// then drains the HTTP server and releases resources.
//
// Parameters:
//   - ctx (context.Context): The command context; cancelling it also stops the server.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.L().Info().Str("signal", sig.String()).Msg("shutting down server")
	case <-ctx.Done():
		logger.L().Info().Err(ctx.Err()).Msg("shutting down server")
	}

	// The parent may already be cancelled; the drain gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the pricesnap application. See newRootCmd for
// the available commands.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.L().Error().Err(err).Msg("pricesnap failed")
		os.Exit(1)
	}
}
