package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mymatch/dashboard/internal/logic"
)

const (
	keyPrefix        = "mymatch:session:"
	maxUpdateRetries = 5
)

// RedisStore shares sessions between instances. Updates use WATCH/MULTI so
// concurrent writers of one session retry instead of overwriting each other.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, s *logic.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	sessionsCreated.WithLabelValues("redis").Inc()
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*logic.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, logic.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	var s logic.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*logic.Session) error) (*logic.Session, error) {
	key := sessionKey(id)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *logic.Session
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return logic.ErrSessionNotFound
			}
			if err != nil {
				return err
			}

			var s logic.Session
			if err := json.Unmarshal(data, &s); err != nil {
				return err
			}
			if err := fn(&s); err != nil {
				return err
			}
			out, err := json.Marshal(&s)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, r.ttl)
				return nil
			})
			if err == nil {
				updated = &s
			}
			return err
		}, key)

		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			updateConflicts.Inc()
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("updating session %s: too many concurrent writers", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
