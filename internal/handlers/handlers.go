package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// DashboardService is the screen machine the HTML routes drive
type DashboardService interface {
	NewSession(ctx context.Context) (*logic.Session, error)
	Session(ctx context.Context, id string) (*logic.Session, error)
	Start(ctx context.Context, id string) (*logic.Session, error)
	Continue(ctx context.Context, id string) (*logic.Session, error)
	PickModel(ctx context.Context, id, key string) (*logic.Session, error)
	ChangeModel(ctx context.Context, id string) (*logic.Session, error)
	EditForm(ctx context.Context, id string, in logic.FormInput) (*logic.Session, error)
	Submit(ctx context.Context, id string, in logic.FormInput) (*logic.Session, error)
	TogglePlayerSeries(ctx context.Context, id, key string) (*logic.Session, error)
	ShowReport(ctx context.Context, id string) (*logic.Session, error)
	SearchReport(ctx context.Context, id, name string) (*logic.Session, error)
	ToggleReportSeries(ctx context.Context, id, key string) (*logic.Session, error)
	BackFromReport(ctx context.Context, id string) (*logic.Session, error)
}

// ScoringService is what the JSON API passes through to
type ScoringService interface {
	FetchModels(ctx context.Context) (*models.Catalog, error)
	FetchHistory(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error)
	PredictPlayer(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error)
}

// EventStream serves the websocket of one session
type EventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string) error
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// DepthReporter exposes the reconcile queue backlog
type DepthReporter interface {
	QueueDepth() int
}

type Config struct {
	Dashboard DashboardService
	Scoring   ScoringService
	Events    EventStream
	Store     Pinger
	Queue     DepthReporter
	// PredictLimiter throttles prediction routes per client IP; nil disables it
	PredictLimiter *limiter.Limiter
	// SecureCookies marks the session cookie Secure
	SecureCookies bool
	Logger        *zap.Logger
}

type Handler struct {
	dashboard DashboardService
	scoring   ScoringService
	events    EventStream
	store     Pinger
	queue     DepthReporter
	limiter   *limiter.Limiter
	secure    bool
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		dashboard: cfg.Dashboard,
		scoring:   cfg.Scoring,
		events:    cfg.Events,
		store:     cfg.Store,
		queue:     cfg.Queue,
		limiter:   cfg.PredictLimiter,
		secure:    cfg.SecureCookies,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}
