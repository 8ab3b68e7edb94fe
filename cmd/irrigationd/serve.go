package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"irrigation_controller/internal/config"
	"irrigation_controller/internal/handlers"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/server"
	"irrigation_controller/internal/store"
	"irrigation_controller/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Port string `short:"p" help:"Listen port or host:port; overrides the configured port"`
}

func (c *ServeCmd) Run(g *Global) error {
	cfg, log := g.Config, g.Log
	if c.Port != "" {
		cfg.Port = c.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(log)

	watchConfig(g.Source, a.gate, log)

	if cfg.MQTT.Enabled() {
		go runTelemetry(ctx, cfg.MQTT, a, log.Named("telemetry"))
	}

	apiHandler := handlers.NewHandler(a.services, log.Named("http"),
		handlers.WithMetrics(a.metrics.Handler()),
		handlers.WithRequestObserver(a.metrics),
		handlers.WithWSInterval(cfg.WSInterval),
	)

	srv := server.New(server.Config{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	errCh := runHTTPServer(srv, cfg.Port, apiHandler, log)

	return waitForShutdown(cancel, srv, errCh, log)
}

// watchConfig applies the reloadable settings: log level and low-pressure-tolerant zones.
func watchConfig(src *config.Source, gate *store.Gate, log *logger.Logger) {
	if src.File() == "" {
		return
	}
	src.Watch(func(cfg *config.Config, e fsnotify.Event) {
		gate.SetTolerant(cfg.LowPressureTolerant)
		log.SetLevel(cfg.LogLevel)
		log.Infow("config_reloaded", "file", e.Name, "log_level", cfg.LogLevel, "tolerant_zones", gate.Tolerant())
	}, func(err error) {
		log.Warnw("config_reload_rejected", "err", err)
	})
}

func runTelemetry(ctx context.Context, cfg config.MQTTConfig, a *app, log *logger.Logger) {
	client, err := telemetry.Connect(ctx, telemetry.BrokerConfig{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Username: cfg.Username,
		Password: cfg.Password,
	}, log)
	if err != nil {
		log.Errorw("pressure feed disabled", "err", err)
		return
	}
	feed := telemetry.NewFeed(client, cfg.Topic, cfg.QoS, a.services.Monitoring, log)
	if err := feed.Run(ctx); err != nil {
		log.Errorw("pressure feed stopped", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", port)
		errCh <- srv.Run(port, handler.InitRoutes())
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure, then shuts down gracefully.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	case err := <-errCh:
		cancel()
		if err != nil {
			return err
		}
		return errors.New("http server stopped unexpectedly")
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
