// Package server assembles the application's dependencies and runs the HTTP
// service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sitescout/internal/api"
	"sitescout/internal/config"
	"sitescout/internal/discovery"
	collyfetcher "sitescout/internal/fetcher/colly"
	"sitescout/internal/gitea"
	"sitescout/internal/logging"
	"sitescout/internal/site"
	"sitescout/internal/site/sinks"
)

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	walker    *discovery.Walker
	auxSinks  []site.Sink
	apiServer *api.Server
}

// Build creates the application's dependencies: logger, metrics registry,
// remote tree client, discovery walker, record sinks and the API server.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.NewWithFile(cfg.Logging.Development, logging.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.FileMaxSizeMB,
		MaxBackups: cfg.Logging.FileMaxBackups,
		MaxAgeDays: cfg.Logging.FileMaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)

	logger.Info("building application dependencies",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("repo", cfg.Repo.Owner+"/"+cfg.Repo.Name),
		zap.String("ref", cfg.Repo.Ref),
	)

	app := &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	walkMetrics, err := discovery.NewMetrics(app.registry)
	if err != nil {
		return nil, fmt.Errorf("discovery metrics init failed: %w", err)
	}

	if cfg.Repo.InsecureSkipVerify {
		logger.Warn("certificate verification disabled for the remote repository host")
	}
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:          cfg.HTTP.UserAgent,
		Timeout:            cfg.FetchTimeout(),
		InsecureSkipVerify: cfg.Repo.InsecureSkipVerify,
	})
	client := gitea.NewClient(fetcher, gitea.Options{
		Repo: gitea.Repo{
			BaseURL: cfg.Repo.BaseURL,
			Owner:   cfg.Repo.Owner,
			Name:    cfg.Repo.Name,
		},
		Ref:   cfg.Repo.Ref,
		Token: cfg.Repo.Token,
	}, logger.Named("gitea"))

	app.walker = discovery.NewWalker(client, discovery.Config{
		MaxConcurrency:    cfg.Discovery.MaxConcurrency,
		RequestsPerSecond: cfg.Discovery.RequestsPerSecond,
		RateBurst:         cfg.Discovery.RateBurst,
	}, walkMetrics, logger)

	if err := app.setupSinks(ctx); err != nil {
		return nil, err
	}

	app.apiServer, err = api.NewServer(
		app.walker,
		cfg.Repo.Ref,
		app.registry,
		logger.Named("api"),
		app.auxSinks...,
	)
	if err != nil {
		return nil, fmt.Errorf("api server init failed: %w", err)
	}

	return app, nil
}

// setupSinks prepares the sinks every run fans records out to, beyond the
// per-consumer stream: a structured log of each discovery, and Pub/Sub
// forwarding when a topic is configured.
func (a *App) setupSinks(ctx context.Context) error {
	a.auxSinks = []site.Sink{sinks.NewLogSink(a.logger.Named("sites"))}

	if !a.cfg.PubSubEnabled() {
		return nil
	}
	pubsubSink, err := sinks.NewPubSubSink(ctx, a.cfg.PubSub.ProjectID, a.cfg.PubSub.TopicName, a.logger.Named("pubsub"))
	if err != nil {
		return fmt.Errorf("pubsub sink init failed: %w", err)
	}
	a.logger.Info("pub/sub record forwarding initialized",
		zap.String("project", a.cfg.PubSub.ProjectID),
		zap.String("topic", a.cfg.PubSub.TopicName),
	)
	a.auxSinks = append(a.auxSinks, pubsubSink)
	return nil
}

// Walker exposes the discovery walker for one-shot consumers such as the CLI.
func (a *App) Walker() *discovery.Walker {
	return a.walker
}

// AuxSinks returns the sinks every run should publish to in addition to its
// own consumer.
func (a *App) AuxSinks() []site.Sink {
	return a.auxSinks
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Run starts the HTTP server and blocks until the context is canceled or a
// termination signal arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application started")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	return a.Close(shutdownCtx)
}

// Close releases the record sinks and flushes the logger.
func (a *App) Close(ctx context.Context) error {
	for _, sink := range a.auxSinks {
		if err := sink.Close(ctx); err != nil {
			a.logger.Warn("sink close failed", zap.Error(err))
		}
	}
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
	return nil
}
