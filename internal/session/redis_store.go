package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memberbase/member-registry/internal/observability"
)

// RedisStore keeps sessions in redis with the TTL enforced by key expiry,
// so multiple instances share one session space.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(token string) string { return r.prefix + ":" + token }

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(s.Token), payload, ttl).Err(); err != nil {
		observability.RecordSessionEvent(ctx, "redis", "save_error")
		return err
	}
	observability.RecordSessionEvent(ctx, "redis", "save")
	return nil
}

func (r *RedisStore) Find(ctx context.Context, token string) (*Session, error) {
	payload, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		observability.RecordSessionEvent(ctx, "redis", "find_error")
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	if s.expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		observability.RecordSessionEvent(ctx, "redis", "delete_error")
		return err
	}
	observability.RecordSessionEvent(ctx, "redis", "delete")
	return nil
}
