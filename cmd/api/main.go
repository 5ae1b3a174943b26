package main

import (
	"context"
	"fmt"
	"time"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
	"github.com/PratikDhanave/venue-analytics-service/internal/config"
	"github.com/PratikDhanave/venue-analytics-service/internal/httpserver"
	"github.com/PratikDhanave/venue-analytics-service/internal/logging"
	"github.com/PratikDhanave/venue-analytics-service/internal/store"
)

// main boots the service: config → logging → record store → schema → HTTP server.
func main() {
	// Load runtime config: defaults, optional config.yaml, then environment.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	backend, err := openStore(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open record store")
	}
	defer backend.Close()

	svc := analytics.NewService(backend, analytics.Options{
		CellSize:        cfg.Analytics.HeatmapCellSize,
		JourneyLength:   cfg.Analytics.JourneyLength,
		DefaultEntrance: cfg.Analytics.DefaultEntrance,
		PrivilegedRole:  cfg.Analytics.PrivilegedRole,
	})

	// Build HTTP router (public health + authenticated analytics APIs).
	router := httpserver.NewRouter(cfg, backend, svc)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logging.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("server started")
	if err := router.Run(addr); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

// openStore connects to the configured backend. Postgres schemas are
// bootstrapped on start.
func openStore(db config.DatabaseConfig) (store.Backend, error) {
	if db.Driver == "memory" {
		logging.Warn().Msg("using in-memory record store, data is not persisted")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(db.URL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
