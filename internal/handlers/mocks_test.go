package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// MockScoringService
type MockScoringService struct {
	mu sync.Mutex

	FetchModelsFunc   func(ctx context.Context) (*models.Catalog, error)
	FetchHistoryFunc  func(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error)
	PredictPlayerFunc func(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error)

	ModelCalls  int
	Predictions []models.PredictionPayload
}

func (m *MockScoringService) FetchModels(ctx context.Context) (*models.Catalog, error) {
	m.mu.Lock()
	m.ModelCalls++
	m.mu.Unlock()
	if m.FetchModelsFunc != nil {
		return m.FetchModelsFunc(ctx)
	}
	return testCatalog(), nil
}

func (m *MockScoringService) FetchHistory(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error) {
	if m.FetchHistoryFunc != nil {
		return m.FetchHistoryFunc(ctx, q)
	}
	return []models.HistoryRecord{}, nil
}

func (m *MockScoringService) PredictPlayer(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error) {
	m.mu.Lock()
	m.Predictions = append(m.Predictions, payload)
	m.mu.Unlock()
	if m.PredictPlayerFunc != nil {
		return m.PredictPlayerFunc(ctx, payload)
	}
	return &models.PredictionResult{Score: 7}, nil
}

func (m *MockScoringService) predictCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Predictions)
}

// MockEventStream
type MockEventStream struct {
	ServeFunc func(w http.ResponseWriter, r *http.Request, sessionID string) error
	Sessions  []string
}

func (m *MockEventStream) Serve(w http.ResponseWriter, r *http.Request, sessionID string) error {
	m.Sessions = append(m.Sessions, sessionID)
	if m.ServeFunc != nil {
		return m.ServeFunc(w, r, sessionID)
	}
	return nil
}

// MockPinger
type MockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockQueue struct {
	Depth int
}

func (m *MockQueue) QueueDepth() int { return m.Depth }

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Models: []models.ModelDescriptor{
			{Key: "modelA", DisplayName: "Model A", Fields: []string{"goals", "assists", "pos"}},
			{Key: "modelB", DisplayName: "Model B", Fields: []string{"tackles", "result"}},
		},
		CategoricalFields: models.NewCategoricalFieldSet("pos", "result"),
	}
}
