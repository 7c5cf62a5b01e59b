package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mymatch/dashboard/internal/logic"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Hour)

	if err := m.Create(ctx, &logic.Session{ID: "s1", Screen: logic.ScreenHome}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	s, err := m.Update(ctx, "s1", func(s *logic.Session) error {
		s.Screen = logic.ScreenModelPicker
		return nil
	})
	if err != nil || s.Screen != logic.ScreenModelPicker {
		t.Fatalf("Update() = %+v, %v", s, err)
	}

	// a failing update leaves the stored copy alone
	boom := errors.New("boom")
	if _, err := m.Update(ctx, "s1", func(s *logic.Session) error {
		s.Screen = logic.ScreenReport
		return boom
	}); !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want boom", err)
	}

	got, err := m.Get(ctx, "s1")
	if err != nil || got.Screen != logic.ScreenModelPicker {
		t.Errorf("Get() = %+v, %v", got, err)
	}

	// callers get private copies
	got.Screen = logic.ScreenReport
	again, _ := m.Get(ctx, "s1")
	if again.Screen != logic.ScreenModelPicker {
		t.Error("mutating a returned session leaked into the store")
	}

	_ = m.Delete(ctx, "s1")
	if _, err := m.Get(ctx, "s1"); !errors.Is(err, logic.ErrSessionNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
	if _, err := m.Update(ctx, "missing", func(*logic.Session) error { return nil }); !errors.Is(err, logic.ErrSessionNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute)
	m.now = func() time.Time { return now }

	_ = m.Create(ctx, &logic.Session{ID: "old"})
	now = now.Add(30 * time.Second)
	_ = m.Create(ctx, &logic.Session{ID: "new"})

	now = now.Add(45 * time.Second)
	if _, err := m.Get(ctx, "new"); err != nil {
		t.Errorf("new session expired early: %v", err)
	}
	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "new"); !errors.Is(err, logic.ErrSessionNotFound) {
		t.Errorf("expired Get() error = %v", err)
	}
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Hour)
	_ = m.Create(ctx, &logic.Session{ID: "s"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Update(ctx, "s", func(s *logic.Session) error {
				s.Seq++
				return nil
			})
		}()
	}
	wg.Wait()

	s, _ := m.Get(ctx, "s")
	if s.Seq != 50 {
		t.Errorf("Seq = %d, want 50", s.Seq)
	}
}
