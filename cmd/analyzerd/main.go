package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/export"
	"github.com/pactlens/pactlens/internal/extract"
	llmopenai "github.com/pactlens/pactlens/internal/llm/openai"
	"github.com/pactlens/pactlens/internal/repository"
	"github.com/pactlens/pactlens/internal/server"
	"github.com/pactlens/pactlens/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Error("object store connect failed", "error", err)
		os.Exit(1)
	}

	// The completion client is constructed once and validated here; a
	// missing API key fails startup, not the first request.
	completer, err := llmopenai.NewClient(llmopenai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("completion client init failed", "error", err)
		os.Exit(1)
	}

	pipeline := analysis.New(logger, completer, analysis.Config{
		StageTimeout: cfg.Analysis.StageTimeout,
	})
	extractor := extract.NewExtractor(extract.Config{Pdftotext: cfg.Extract.Pdftotext}, logger)
	exporter := export.NewService(logger)

	svc := server.NewService(
		logger,
		server.Config{MaxUploadBytes: cfg.Server.MaxUploadBytes},
		extractor,
		pipeline,
		store,
		repository.NewContractRepository(pool),
		repository.NewAnalysisRepository(pool),
		exporter,
		func(ctx context.Context) error {
			return repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, logger)
		},
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.NewRouter(svc),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
	logger.Info("stopped")
}
