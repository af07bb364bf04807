package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// DefaultFileName is the collection file name under the XDG data directory.
const DefaultFileName = "scancoin/collection.json"

// DefaultFilePath returns the per-user collection file, creating its parent
// directory when needed.
func DefaultFilePath() (string, error) {
	return xdg.DataFile(DefaultFileName)
}

// FileRepository stores the whole collection as one JSON array. Writes go to
// a temporary file that is renamed over the previous one.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository opens the collection at path. The file is created on the
// first Append.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file.
func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) List(_ context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) Append(_ context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	records = append([]Record{record}, records...)
	return r.store(records)
}

func (r *FileRepository) load() ([]Record, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	if len(raw) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", r.path, err)
	}
	return records, nil
}

func (r *FileRepository) store(records []Record) error {
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".collection-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close collection: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}
