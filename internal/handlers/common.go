package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/logic"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionCookie names the cookie carrying the dashboard session id
const SessionCookie = "mymatch_session"

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]bool{
		"sessions": h.store == nil || h.store.Ping(ctx) == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	depth := 0
	if h.queue != nil {
		depth = h.queue.QueueDepth()
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": depth,
	})
}

// SessionMiddleware resolves the session cookie, creating a fresh session
// (and running the startup loads) when the cookie is missing or expired.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			_, err := h.dashboard.Session(ctx, c.Value)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionIDKey, c.Value)))
				return
			case !errors.Is(err, logic.ErrSessionNotFound):
				h.logger.Errorw("Failed to load session", "error", err, "session", c.Value)
				http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		s, err := h.dashboard.NewSession(ctx)
		if err != nil {
			h.logger.Errorw("Failed to create session", "error", err)
			http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionIDKey, s.ID)))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// PredictRateLimit throttles the prediction routes per client address
func (h *Handler) PredictRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		lctx, err := h.limiter.Get(r.Context(), "predict:"+clientIP(r))
		if err != nil {
			h.logger.Errorw("Rate limiter error", "error", err)
			http.Error(w, "Rate limiter error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		if lctx.Reached {
			rateLimited.Inc()
			h.errorResponse(w, http.StatusTooManyRequests, "Too many predictions, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port RemoteAddr carries when no proxy header was seen
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RequestLogger logs every request with zap once it completes
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	sugar := logger.Sugar()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				sugar.Infow("Request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
