package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with the record expiry mapped onto
// the key TTL, so Redis evicts expired sessions on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

type redisRecord struct {
	Data      map[string]interface{} `json:"data"`
	ExpiresAt time.Time              `json:"expires_at"`
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rr redisRecord
	if err := json.Unmarshal([]byte(raw), &rr); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	if time.Now().After(rr.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &Record{ID: id, Data: rr.Data, ExpiresAt: rr.ExpiresAt}, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, rec.ID)
	}
	raw, err := json.Marshal(redisRecord{Data: rec.Data, ExpiresAt: rec.ExpiresAt})
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+rec.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already expire Redis sessions.
func (s *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
