package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const coinRecordsSchema = `
CREATE TABLE IF NOT EXISTS coin_records (
    seq                 BIGSERIAL PRIMARY KEY,
    id                  UUID NOT NULL UNIQUE,
    created_at          TIMESTAMPTZ NOT NULL,
    image_uri           TEXT NOT NULL,
    country             VARCHAR(80) NOT NULL,
    denomination        VARCHAR(80) NOT NULL,
    year                VARCHAR(20) NOT NULL,
    estimated_value_min DOUBLE PRECISION NOT NULL CHECK (estimated_value_min >= 0),
    estimated_value_max DOUBLE PRECISION NOT NULL CHECK (estimated_value_max >= estimated_value_min),
    currency            CHAR(3) NOT NULL,
    confidence          TEXT NOT NULL CHECK (confidence IN ('low', 'medium', 'high'))
)`

// EnsureSchema creates the tables the service writes to when they are
// missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, coinRecordsSchema); err != nil {
		return fmt.Errorf("create coin_records: %w", err)
	}
	return nil
}
