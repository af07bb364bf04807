package collection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scan-coin/scan_coin/internal/coin"
)

func TestFileRepositoryPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collection.json")
	ctx := context.Background()

	repo := NewFileRepository(path)
	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list missing file: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection")
	}

	svc := NewService(repo)
	first, err := svc.Save(ctx, SaveInput{Result: coin.Result{Country: "Canada"}, ImageURI: "a.jpg"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.Save(ctx, SaveInput{Result: coin.Result{Country: "Eurozone"}, ImageURI: "b.jpg"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened := NewService(NewFileRepository(path))
	records, err = reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0] != second || records[1] != first {
		t.Fatalf("unexpected records %+v", records)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the collection file, found %d entries", len(entries))
	}
}

func TestFileRepositoryRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileRepository(path).List(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
