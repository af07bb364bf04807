package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/scan-coin/scan_coin/internal/coin"
)

const (
	resultPrefix    = "identify:v1:"
	DefaultTTL      = 24 * time.Hour
	operationBudget = 2 * time.Second
)

// Results stores identification results in Redis keyed by a digest of the
// submitted images. Lookups and writes fail open: a Redis error is logged and
// treated as a miss.
type Results struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResults returns a Redis-backed result cache.
func NewResults(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Results {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Results{client: client, ttl: ttl, logger: logger}
}

// Get returns the stored result for identical images.
func (r *Results) Get(ctx context.Context, in coin.Input) (coin.Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()

	raw, err := r.client.Get(ctx, Key(in)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("result cache lookup failed", slog.Any("error", err))
		}
		return coin.Result{}, false
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		r.logger.Warn("result cache entry unreadable", slog.Any("error", err))
		return coin.Result{}, false
	}
	return coin.Normalize(decoded), true
}

// Put stores result for the images in in.
func (r *Results) Put(ctx context.Context, in coin.Input, result coin.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("result cache encode failed", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()
	if err := r.client.Set(ctx, Key(in), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("result cache write failed", slog.Any("error", err))
	}
}

// Key derives the cache key for the image data in in. Only the base64
// payloads and MIME types contribute, so the same photo submitted from two
// different URIs shares one entry.
func Key(in coin.Input) string {
	h, _ := blake2b.New256(nil)
	writeSide(h, in.Obverse)
	if in.HasReverse() {
		h.Write([]byte{0})
		writeSide(h, *in.Reverse)
	}
	return resultPrefix + hex.EncodeToString(h.Sum(nil))
}

func writeSide(w io.Writer, s coin.SideImage) {
	io.WriteString(w, s.MimeTypeOrDefault())
	io.WriteString(w, "\n")
	io.WriteString(w, strings.TrimSpace(s.ImageBase64))
}
