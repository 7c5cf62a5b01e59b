package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
	// RequestTimeout bounds every route except the websocket
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Router builds the full route tree
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", h.SwaggerDoc)

	// the websocket lives as long as the browser tab, so no request timeout
	r.With(h.SessionMiddleware).Get("/ws", h.Events)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/models", h.GetModels)
			r.Get("/history", h.GetHistory)
			r.With(h.PredictRateLimit).Post("/predict", h.Predict)
			r.With(h.SessionMiddleware).Get("/session", h.GetSession)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.SessionMiddleware)

			r.Get("/", h.Index)
			r.Post("/continue", h.Continue)
			r.Post("/reload", h.Reload)
			r.Post("/models/{key}", h.PickModel)
			r.With(h.PredictRateLimit).Post("/form", h.SubmitForm)
			r.Post("/form/step", h.StepForm)
			r.Post("/form/change-model", h.ChangeModel)
			r.Post("/form/toggle/{key}", h.TogglePlayerSeries)

			r.Get("/report", h.Report)
			r.Post("/report/toggle/{key}", h.ToggleReportSeries)
			r.Post("/report/back", h.BackFromReport)
			r.Get("/report/pdf", h.ReportPDF)

			r.Get("/charts/{scope}/{key}.svg", h.Chart)
		})
	})

	return r
}

// SwaggerDoc serves the registered OpenAPI document
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, "API documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
