package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// GetModels passes the scoring service's model catalog through
// @Summary List predictive models
// @Tags Scoring
// @Produce json
// @Success 200 {object} models.Catalog
// @Failure 502 {object} map[string]string "connection error"
// @Router /api/v1/models [get]
func (h *Handler) GetModels(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.scoring.FetchModels(r.Context())
	if err != nil {
		h.apiError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, catalog)
}

// GetHistory passes the prediction history through. player_name filtering is
// re-applied locally with an exact match.
// @Summary List past predictions
// @Tags Scoring
// @Produce json
// @Param model_key query string false "Model key"
// @Param player_name query string false "Exact player name"
// @Param limit query int false "Maximum records"
// @Success 200 {object} models.HistoryPage
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "connection error"
// @Router /api/v1/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	q := scoring.HistoryQuery{
		ModelKey:   r.URL.Query().Get("model_key"),
		PlayerName: r.URL.Query().Get("player_name"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	records, err := h.scoring.FetchHistory(r.Context(), q)
	if err != nil {
		h.apiError(w, err)
		return
	}
	if q.PlayerName != "" {
		records = logic.FilterByPlayer(records, q.PlayerName)
	}
	h.jsonResponse(w, http.StatusOK, models.HistoryPage{Data: records})
}

// Predict scores a payload
// @Summary Predict a player's score
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body models.PredictionPayload true "Player, model and stats"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Rejected by the scoring service"
// @Failure 429 {object} map[string]string "Too Many Requests"
// @Failure 502 {object} map[string]string "Bad Gateway"
// @Router /api/v1/predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var payload models.PredictionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := payload.Stats[logic.PlayerNameField]; ok {
		h.errorResponse(w, http.StatusBadRequest, "stats must not contain player_name")
		return
	}
	if payload.Stats == nil {
		payload.Stats = map[string]any{}
	}

	result, err := h.scoring.PredictPlayer(r.Context(), payload)
	if err != nil {
		h.apiError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// GetSession returns the caller's session snapshot
// @Summary Current dashboard session
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Session(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.apiError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, s)
}

// apiError maps a scoring or session failure to a JSON response
func (h *Handler) apiError(w http.ResponseWriter, err error) {
	var (
		validationErr *logic.ValidationError
		predictionErr *scoring.PredictionError
		connErr       *scoring.ConnectionError
	)

	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &predictionErr):
		h.jsonResponse(w, predictionErr.StatusCode, map[string]string{"detail": predictionErr.Detail})
	case errors.As(err, &connErr):
		h.logger.Warnw("Scoring service unreachable", "op", connErr.Op, "cause", connErr.Cause())
		h.errorResponse(w, http.StatusBadGateway, connErr.Error())
	case errors.Is(err, logic.ErrSessionNotFound):
		h.errorResponse(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Errorw("Request to scoring service failed", "error", err)
		h.errorResponse(w, http.StatusBadGateway, err.Error())
	}
}
