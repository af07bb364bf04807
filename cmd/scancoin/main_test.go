package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scan-coin/scan_coin/internal/collection"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIdentifySaveListShow(t *testing.T) {
	t.Setenv("COIN_PROVIDER", "mock")
	t.Setenv("MOCK_DELAY", "0s")
	dir := t.TempDir()
	store := filepath.Join(dir, "collection.json")
	obverse := writeImage(t, dir, "front.png")

	out, err := run(t, "identify", "--obverse", obverse, "--save", "--collection", store)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if !strings.Contains(out, "Confidence:") || !strings.Contains(out, "Saved as ") {
		t.Fatalf("unexpected identify output %q", out)
	}

	records, err := collection.NewFileRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("list file: %v", err)
	}
	if len(records) != 1 || !strings.HasPrefix(records[0].ImageURI, "file://") {
		t.Fatalf("unexpected records %+v", records)
	}

	out, err = run(t, "list", "--collection", store)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, records[0].ID) {
		t.Fatalf("list output lacks id: %q", out)
	}

	out, err = run(t, "show", records[0].ID, "--collection", store)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, records[0].Country) || !strings.Contains(out, records[0].ImageURI) {
		t.Fatalf("unexpected show output %q", out)
	}

	if _, err := run(t, "show", "missing", "--collection", store); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestIdentifyRejectsNonImages(t *testing.T) {
	t.Setenv("MOCK_DELAY", "0s")
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := run(t, "identify", "--obverse", path)
	if err == nil || !strings.Contains(err.Error(), "not an image") {
		t.Fatalf("expected non-image error, got %v", err)
	}
}

func TestIdentifyRemote(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"country":"Japan","denomination":"100 Yen","year":1990,"estimatedValueMin":1,"estimatedValueMax":3,"currency":"jpy","confidence":"high"}`))
	}))
	defer srv.Close()

	t.Setenv("COIN_PROVIDER", "remote")
	t.Setenv("API_BASE_URL", srv.URL)
	dir := t.TempDir()
	obverse := writeImage(t, dir, "front.png")
	reverse := writeImage(t, dir, "back.png")

	out, err := run(t, "identify", "--obverse", obverse, "--reverse", reverse, "--json")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if result["country"] != "Japan" || result["currency"] != "JPY" || result["year"] != "1990" {
		t.Fatalf("unexpected result %v", result)
	}
	side, _ := received["obverse"].(map[string]any)
	if side["mimeType"] != "image/png" || received["reverse"] == nil {
		t.Fatalf("unexpected request %v", received)
	}
}

func TestIdentifyRemoteRequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	dir := t.TempDir()
	obverse := writeImage(t, dir, "front.png")
	_, err := run(t, "identify", "--obverse", obverse, "--provider", "remote")
	if err == nil || !strings.Contains(err.Error(), "API_BASE_URL") {
		t.Fatalf("expected missing base url error, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "scancoin version ") {
		t.Fatalf("unexpected output %q", out)
	}
}
