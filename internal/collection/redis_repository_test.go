package collection

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/scan-coin/scan_coin/internal/coin"
)

func TestRedisRepositoryNewestFirst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewService(NewRedisRepository(client, ""))
	ctx := context.Background()

	first, err := svc.Save(ctx, SaveInput{Result: coin.Result{Country: "Canada", EstimatedValueMin: 1, EstimatedValueMax: 4}, ImageURI: "a.jpg"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.Save(ctx, SaveInput{Result: coin.Result{Country: "Eurozone"}, ImageURI: "b.jpg"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0] != second || records[1] != first {
		t.Fatalf("unexpected records %+v", records)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil || got != first {
		t.Fatalf("get: %v %+v", err, got)
	}

	if n, _ := client.LLen(ctx, DefaultRedisKey).Result(); n != 2 {
		t.Fatalf("expected 2 list entries, got %d", n)
	}
}

func TestRedisRepositoryEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	records, err := NewRedisRepository(client, "custom").List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d", len(records))
	}
}
