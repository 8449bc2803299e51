package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/common"
)

// AnalysisRecord attaches an assembled analysis document to a contract. The
// analysis value itself is immutable; saving again for the same contract
// inserts a new row rather than mutating history.
type AnalysisRecord struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Document   analysis.ContractAnalysis
	Model      string
	AnalyzedAt time.Time
}

// AnalysisRepository persists assembled analyses.
type AnalysisRepository interface {
	Save(ctx context.Context, rec *AnalysisRecord) error
	GetLatestByContractID(ctx context.Context, contractID uuid.UUID) (*AnalysisRecord, error)
}

type analysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository builds the Postgres-backed analysis repository.
func NewAnalysisRepository(pool *pgxpool.Pool) AnalysisRepository {
	return &analysisRepo{pool: pool}
}

func (r *analysisRepo) Save(ctx context.Context, rec *AnalysisRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return common.WrapError(err, "marshal analysis document")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO analyses (id, contract_id, document, model, analyzed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.ContractID, doc, rec.Model, rec.AnalyzedAt,
	)
	if err != nil {
		return common.WrapError(err, "insert analysis")
	}
	return nil
}

func (r *analysisRepo) GetLatestByContractID(ctx context.Context, contractID uuid.UUID) (*AnalysisRecord, error) {
	var (
		rec AnalysisRecord
		doc []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, contract_id, document, model, analyzed_at
		FROM analyses WHERE contract_id = $1
		ORDER BY analyzed_at DESC LIMIT 1`, contractID,
	).Scan(&rec.ID, &rec.ContractID, &doc, &rec.Model, &rec.AnalyzedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "select analysis")
	}
	if err := json.Unmarshal(doc, &rec.Document); err != nil {
		return nil, common.WrapError(err, "unmarshal analysis document")
	}
	return &rec, nil
}
