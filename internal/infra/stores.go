package infra

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const connectBudget = 10 * time.Second

// Stores holds the optional backing services. A nil field means the service
// is not configured and callers fall back to in-process state.
type Stores struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Open connects to every store whose URL is set and prepares the schema.
func Open(ctx context.Context, databaseURL, redisURL string, logger *slog.Logger) (*Stores, error) {
	ctx, cancel := context.WithTimeout(ctx, connectBudget)
	defer cancel()

	s := &Stores{}
	if databaseURL != "" {
		db, err := NewPostgresPool(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		s.DB = db
	} else {
		logger.Warn("DATABASE_URL not set, collection is kept in memory")
	}

	if redisURL != "" {
		cache, err := NewRedisClient(ctx, redisURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set, idempotency, rate limiting and result cache are disabled")
	}
	return s, nil
}

// Close releases every open connection.
func (s *Stores) Close() error {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Cache != nil {
		return s.Cache.Close()
	}
	return nil
}

// NewPostgresPool configures and returns a PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewRedisClient configures a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
