package collection

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRepository constructs an in-memory repository for tests and
// development without a database.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) List(_ context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *memoryRepository) Append(_ context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]Record{record}, r.records...)
	return nil
}
