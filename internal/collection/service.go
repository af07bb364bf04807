package collection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/metrics"
)

// finder is implemented by repositories that can look a record up without
// listing the whole collection.
type finder interface {
	Get(ctx context.Context, id string) (Record, error)
}

// Service saves and reads the coin collection.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a collection service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Save normalizes the result, stamps it with a fresh id and creation time,
// and prepends it to the collection.
func (s *Service) Save(ctx context.Context, input SaveInput) (Record, error) {
	imageURI := strings.TrimSpace(input.ImageURI)
	if imageURI == "" {
		return Record{}, fmt.Errorf("%w: imageUri is required", ErrInvalidRecord)
	}

	record := Record{
		ID:        uuid.NewString(),
		Result:    coin.Normalize(input.Result),
		CreatedAt: formatCreatedAt(s.now()),
		ImageURI:  imageURI,
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return Record{}, fmt.Errorf("append record: %w", err)
	}
	metrics.CollectionSavesTotal.Inc()
	return record, nil
}

// List returns all saved records, newest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Get returns the record with id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if f, ok := s.repo.(finder); ok {
		return f.Get(ctx, id)
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}
