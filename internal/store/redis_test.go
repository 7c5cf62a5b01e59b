package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mymatch/dashboard/internal/logic"
)

// newTestRedis connects to TEST_REDIS_URL or skips
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRedisStore(newTestRedis(t), time.Minute)
	id := uuid.NewString()
	t.Cleanup(func() { _ = r.Delete(ctx, id) })

	if err := r.Create(ctx, &logic.Session{ID: id, Screen: logic.ScreenHome}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s, err := r.Update(ctx, id, func(s *logic.Session) error {
		s.Screen = logic.ScreenReport
		return nil
	})
	if err != nil || s.Screen != logic.ScreenReport {
		t.Fatalf("Update() = %+v, %v", s, err)
	}
	got, err := r.Get(ctx, id)
	if err != nil || got.Screen != logic.ScreenReport {
		t.Errorf("Get() = %+v, %v", got, err)
	}
	if _, err := r.Get(ctx, uuid.NewString()); !errors.Is(err, logic.ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestRedisStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	r := NewRedisStore(newTestRedis(t), time.Minute)
	id := uuid.NewString()
	t.Cleanup(func() { _ = r.Delete(ctx, id) })
	_ = r.Create(ctx, &logic.Session{ID: id})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Update(ctx, id, func(s *logic.Session) error {
				s.Seq++
				return nil
			})
		}()
	}
	wg.Wait()

	s, _ := r.Get(ctx, id)
	if s.Seq != 4 {
		t.Errorf("Seq = %d, want 4", s.Seq)
	}
}
