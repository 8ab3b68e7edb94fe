package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"irrigation_controller/internal/config"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/observability"
	"irrigation_controller/internal/repository"
	"irrigation_controller/internal/repository/db"
	"irrigation_controller/internal/service"
	"irrigation_controller/internal/store"
)

// app is the wired object graph shared by serve and the backup commands.
type app struct {
	db       *sql.DB
	gate     *store.Gate
	registry *prometheus.Registry
	metrics  *observability.Metrics
	services *service.Service
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	conn, err := openDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	repos := repository.NewRepository(conn)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	irrigation, err := store.NewIrrigationStore(ctx, repos.Slots, log.Named("store"), store.WithObserver(metrics))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("load irrigation state: %w", err)
	}
	site, err := store.NewSiteSettingsStore(ctx, repos.Slots, log.Named("site"), store.WithObserver(metrics))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("load site settings: %w", err)
	}

	gate := store.NewGate(cfg.LowPressureTolerant)
	services := service.NewService(service.Deps{
		Store:          irrigation,
		SiteStore:      site,
		Gate:           gate,
		BackupInterval: cfg.BackupInterval,
		Log:            log.Named("service"),
	})
	return &app{db: conn, gate: gate, registry: registry, metrics: metrics, services: services}, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.DBPath)
	return db.InitDB(cfg.DBPath)
}

func (a *app) close(log *logger.Logger) {
	if err := a.db.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
