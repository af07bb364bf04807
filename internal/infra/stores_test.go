package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/scan-coin/scan_coin/internal/logging"
)

func TestOpenWithoutStores(t *testing.T) {
	s, err := Open(context.Background(), "", "", logging.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.DB != nil || s.Cache != nil {
		t.Fatalf("expected no stores")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := Open(context.Background(), "", "redis://"+mr.Addr()+"/0", logging.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if s.Cache == nil {
		t.Fatalf("expected redis client")
	}
}

func TestOpenRejectsBadURLs(t *testing.T) {
	if _, err := Open(context.Background(), "", "not-a-url", logging.Discard()); err == nil {
		t.Fatalf("expected redis url error")
	}
	if _, err := Open(context.Background(), "postgres://%zz", "", logging.Discard()); err == nil {
		t.Fatalf("expected postgres config error")
	}
}
