package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding the serialized collection.
const DefaultRedisKey = "coin_collection:v1"

// RedisRepository keeps the collection in a single Redis list. LPUSH keeps
// the newest record at index 0.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// NewRedisRepository builds a repository on key. An empty key selects
// DefaultRedisKey.
func NewRedisRepository(client *redis.Client, key string) *RedisRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepository{client: client, key: key}
}

func (r *RedisRepository) Append(ctx context.Context, record Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.client.LPush(ctx, r.key, payload).Err()
}

func (r *RedisRepository) List(ctx context.Context) ([]Record, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
