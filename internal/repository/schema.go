package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddl = `
CREATE TABLE IF NOT EXISTS contracts (
	id           UUID PRIMARY KEY,
	filename     TEXT NOT NULL,
	format       TEXT NOT NULL,
	tier         TEXT NOT NULL,
	storage_key  TEXT NOT NULL,
	text_chars   INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analyses (
	id          UUID PRIMARY KEY,
	contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
	document    JSONB NOT NULL,
	model       TEXT NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_contract_id ON analyses(contract_id);
`

// EnsureSchema creates the tables on startup when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, ddl)
	return err
}
