package logic

import (
	"context"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// ScoringAPI is the subset of the scoring client the dashboard drives
type ScoringAPI interface {
	FetchModels(ctx context.Context) (*models.Catalog, error)
	FetchHistory(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error)
	PredictPlayer(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error)
}

// SessionStore persists transient session state. Update serializes writers of
// the same session; fn runs against a private copy and the copy is saved only
// when fn returns nil.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// ReconcileQueue runs post-prediction history reconciliation off the request path
type ReconcileQueue interface {
	Enqueue(job models.ReconcileJob) bool
	QueueDepth() int
}

// Notifier pushes session change events to connected browsers
type Notifier interface {
	Publish(sessionID string, event models.SessionEvent)
}
