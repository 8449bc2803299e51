package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pactlens/pactlens/constants"
	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/tier"
)

// ContractRecord is one uploaded contract document.
type ContractRecord struct {
	ID         uuid.UUID
	Filename   string
	Format     constants.FileFormat
	Tier       tier.Name
	StorageKey string
	TextChars  int
	CreatedAt  time.Time
}

// ContractRepository persists uploaded contract documents.
type ContractRepository interface {
	Create(ctx context.Context, rec *ContractRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContractRecord, error)
}

type contractRepo struct {
	pool *pgxpool.Pool
}

// NewContractRepository builds the Postgres-backed contract repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepo{pool: pool}
}

func (r *contractRepo) Create(ctx context.Context, rec *ContractRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contracts (id, filename, format, tier, storage_key, text_chars, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Filename, string(rec.Format), string(rec.Tier), rec.StorageKey, rec.TextChars, rec.CreatedAt,
	)
	if err != nil {
		return common.WrapError(err, "insert contract")
	}
	return nil
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*ContractRecord, error) {
	var (
		rec    ContractRecord
		format string
		tname  string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, filename, format, tier, storage_key, text_chars, created_at
		FROM contracts WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Filename, &format, &tname, &rec.StorageKey, &rec.TextChars, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "select contract")
	}
	rec.Format = constants.FileFormat(format)
	rec.Tier = tier.Name(tname)
	return &rec, nil
}
