package server

import (
	"context"
	"log/slog"

	"github.com/pactlens/pactlens/constants"
	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/export"
	"github.com/pactlens/pactlens/internal/extract"
	"github.com/pactlens/pactlens/internal/repository"
)

// Analyzer is the slice of the pipeline the server depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.ContractAnalysis, error)
}

// TextExtractor converts uploaded bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, format constants.FileFormat) (extract.Result, error)
}

// DocumentStore keeps the raw uploaded documents.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Config holds server behavior knobs.
type Config struct {
	MaxUploadBytes int64
}

// Service wires the HTTP handlers to the pipeline and its collaborators.
type Service struct {
	logger    *slog.Logger
	cfg       Config
	extractor TextExtractor
	pipeline  Analyzer
	store     DocumentStore
	contracts repository.ContractRepository
	analyses  repository.AnalysisRepository
	exporter  *export.Service
	dbPing    func(ctx context.Context) error
}

// NewService builds the handler service. dbPing may be nil when no database
// health probe is wanted (e.g. in tests).
func NewService(
	logger *slog.Logger,
	cfg Config,
	extractor TextExtractor,
	pipeline Analyzer,
	store DocumentStore,
	contracts repository.ContractRepository,
	analyses repository.AnalysisRepository,
	exporter *export.Service,
	dbPing func(ctx context.Context) error,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	return &Service{
		logger:    logger,
		cfg:       cfg,
		extractor: extractor,
		pipeline:  pipeline,
		store:     store,
		contracts: contracts,
		analyses:  analyses,
		exporter:  exporter,
		dbPing:    dbPing,
	}
}
