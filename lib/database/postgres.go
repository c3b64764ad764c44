package database

import (
	"context"

	"cotizador-platform/lib/config"

	"github.com/jackc/pgx/v4/pgxpool"
)

const quotationsSchema = `
CREATE TABLE IF NOT EXISTS quotations (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	period TEXT NOT NULL,
	configuration TEXT NOT NULL,
	origin_code TEXT NOT NULL,
	destination_code TEXT NOT NULL,
	cargo_type TEXT,
	unit_type TEXT,
	logistics_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	quotes_data JSONB NOT NULL,
	user_id TEXT,
	company_name TEXT,
	notes TEXT,
	status TEXT NOT NULL DEFAULT 'active',
	total_cost DOUBLE PRECISION,
	selected_quote_index INTEGER
);
CREATE INDEX IF NOT EXISTS idx_quotations_user_status ON quotations (user_id, status);
`

func InitPostgres() (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(context.Background(), config.GetDBConnectionString())
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(context.Background(), quotationsSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
