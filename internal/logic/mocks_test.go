package logic

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// MockScoringAPI
type MockScoringAPI struct {
	mu sync.Mutex

	FetchModelsFunc   func(ctx context.Context) (*models.Catalog, error)
	FetchHistoryFunc  func(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error)
	PredictPlayerFunc func(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error)

	HistoryCalls []scoring.HistoryQuery
	Predictions  []models.PredictionPayload
}

func (m *MockScoringAPI) FetchModels(ctx context.Context) (*models.Catalog, error) {
	if m.FetchModelsFunc != nil {
		return m.FetchModelsFunc(ctx)
	}
	return testCatalog(), nil
}

func (m *MockScoringAPI) FetchHistory(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error) {
	m.mu.Lock()
	m.HistoryCalls = append(m.HistoryCalls, q)
	m.mu.Unlock()
	if m.FetchHistoryFunc != nil {
		return m.FetchHistoryFunc(ctx, q)
	}
	return []models.HistoryRecord{}, nil
}

func (m *MockScoringAPI) PredictPlayer(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error) {
	m.mu.Lock()
	m.Predictions = append(m.Predictions, payload)
	m.mu.Unlock()
	if m.PredictPlayerFunc != nil {
		return m.PredictPlayerFunc(ctx, payload)
	}
	return &models.PredictionResult{Score: 7}, nil
}

func (m *MockScoringAPI) historyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.HistoryCalls)
}

// MockSessionStore keeps JSON snapshots so callers never share memory with it
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string][]byte)}
}

func (m *MockSessionStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MockSessionStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := fn(&s); err != nil {
		return nil, err
	}
	out, err := json.Marshal(&s)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = out
	return &s, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MockQueue records jobs; Accept false makes it refuse them
type MockQueue struct {
	mu     sync.Mutex
	Accept bool
	Jobs   []models.ReconcileJob
}

func (m *MockQueue) Enqueue(job models.ReconcileJob) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Accept {
		return false
	}
	m.Jobs = append(m.Jobs, job)
	return true
}

func (m *MockQueue) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Jobs)
}

// MockNotifier
type MockNotifier struct {
	mu     sync.Mutex
	Events []models.SessionEvent
}

func (m *MockNotifier) Publish(sessionID string, event models.SessionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Models: []models.ModelDescriptor{
			{Key: "modelA", DisplayName: "Model A", Fields: []string{"goals", "pos"}},
		},
		CategoricalFields: models.NewCategoricalFieldSet("pos"),
	}
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func newTestDashboard(api *MockScoringAPI) (*Dashboard, *MockSessionStore, *MockNotifier) {
	store := NewMockSessionStore()
	notifier := &MockNotifier{}
	d := New(Config{
		Scoring:           api,
		Store:             store,
		Notifier:          notifier,
		SettleMaxAttempts: 3,
		Now:               func() time.Time { return fixedNow },
		Sleep:             noSleep,
	})
	return d, store, notifier
}

// formSession creates a session already on modelA's form
func formSession(t testing.TB, d *Dashboard) *Session {
	t.Helper()
	ctx := context.Background()
	s, err := d.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := d.Continue(ctx, s.ID); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	s, err = d.PickModel(ctx, s.ID, "modelA")
	if err != nil {
		t.Fatalf("PickModel() error = %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }
