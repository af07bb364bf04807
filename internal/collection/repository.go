package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scan-coin/scan_coin/internal/coin"
)

// Repository persists the collection, newest record first.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, record Record) error
}

// PostgresRepository stores records in the coin_records table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a record. Ordering comes from the insertion sequence, not
// from created_at, so two saves within the same millisecond keep their order.
func (r *PostgresRepository) Append(ctx context.Context, record Record) error {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return fmt.Errorf("%w: id: %v", ErrInvalidRecord, err)
	}
	createdAt, err := time.Parse(CreatedAtLayout, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: createdAt: %v", ErrInvalidRecord, err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO coin_records
        (id, created_at, image_uri, country, denomination, year, estimated_value_min, estimated_value_max, currency, confidence)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, createdAt.UTC(), record.ImageURI, record.Country, record.Denomination, record.Year,
		record.EstimatedValueMin, record.EstimatedValueMax, record.Currency, string(record.Confidence))
	return err
}

// List returns every record, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.Query(ctx, `SELECT id, created_at, image_uri, country, denomination, year,
        estimated_value_min, estimated_value_max, currency, confidence
        FROM coin_records ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get fetches a single record by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Record, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return Record{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, created_at, image_uri, country, denomination, year,
        estimated_value_min, estimated_value_max, currency, confidence
        FROM coin_records WHERE id = $1`, recordID)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec        Record
		id         uuid.UUID
		createdAt  time.Time
		confidence string
	)
	if err := row.Scan(&id, &createdAt, &rec.ImageURI, &rec.Country, &rec.Denomination, &rec.Year,
		&rec.EstimatedValueMin, &rec.EstimatedValueMax, &rec.Currency, &confidence); err != nil {
		return Record{}, err
	}
	rec.ID = id.String()
	rec.CreatedAt = formatCreatedAt(createdAt)
	rec.Confidence = coin.Confidence(confidence)
	return rec, nil
}
