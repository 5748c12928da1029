package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/config"
	logpkg "github.com/kailas-cloud/medidex/internal/logger"
	"github.com/kailas-cloud/medidex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/medidex/internal/repository/catalog"
	chiTransport "github.com/kailas-cloud/medidex/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/medidex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/medidex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/medidex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/medidex/internal/usecase/search"
	"github.com/kailas-cloud/medidex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting medidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_driver", cfg.Catalog.Driver),
		zap.String("pagination", cfg.Search.Pagination),
	)

	metrics.RegisterSearchMetrics()

	ctx := context.Background()
	catalog, closeCatalog, err := catalogrepo.Open(ctx, catalogrepo.Options{
		Driver:           cfg.Catalog.Driver,
		Addrs:            cfg.Catalog.Addrs,
		Password:         cfg.Catalog.Password,
		KeyPrefix:        cfg.Catalog.KeyPrefix,
		SQLitePath:       cfg.Catalog.SQLitePath,
		ReadinessTimeout: time.Duration(cfg.Catalog.ReadinessTimeout) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open catalog", zap.Error(err))
	}
	defer closeCatalog()

	if cfg.Catalog.SeedCSV != "" {
		report, err := ingestuc.New(catalog, logger).ImportFile(ctx, cfg.Catalog.SeedCSV)
		if err != nil {
			logger.Fatal("Failed to seed catalog", zap.String("path", cfg.Catalog.SeedCSV), zap.Error(err))
		}
		logger.Info("Catalog seeded",
			zap.String("path", cfg.Catalog.SeedCSV),
			zap.Int("imported", report.Imported),
			zap.Int("skipped", report.Skipped()),
		)
	}

	policy, err := searchuc.ParsePaginationPolicy(cfg.Search.Pagination)
	if err != nil {
		logger.Fatal("Invalid pagination policy", zap.Error(err))
	}

	// Create use case services
	searchSvc := searchuc.New(catalog).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize).
		WithPolicy(policy)
	catalogSvc := cataloguc.New(catalog)
	healthSvc := healthuc.New(catalog)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, logger).
		WithTimeout(time.Duration(cfg.Search.TimeoutMS) * time.Millisecond)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
