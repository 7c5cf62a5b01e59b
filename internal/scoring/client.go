// Package scoring is the HTTP client for the external scoring service.
//
// FetchModels and FetchHistory normalize every failure into a ConnectionError
// with a generic message. PredictPlayer keeps diagnostics: HTTP failures become a
// PredictionError carrying the server's detail, and transport failures are
// returned exactly as the http.Client produced them.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/models"
)

// maxBodySize caps how much of a response body is read (4MB)
const maxBodySize = 4 << 20

const (
	endpointModels  = "models"
	endpointHistory = "history"
	endpointPredict = "predict"
)

// Config configures a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the scoring service. It holds no state besides its transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New creates a scoring client
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger.Sugar(),
	}
}

// BaseURL returns the service root the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HistoryQuery narrows a history read. Zero values are omitted from the query.
type HistoryQuery struct {
	ModelKey   string
	PlayerName string
	Limit      int
}

func (q HistoryQuery) encode() string {
	v := url.Values{}
	if q.ModelKey != "" {
		v.Set("model_key", q.ModelKey)
	}
	if q.PlayerName != "" {
		v.Set("player_name", q.PlayerName)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v.Encode()
}

// FetchModels loads the model catalog and the categorical field set
func (c *Client) FetchModels(ctx context.Context) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := c.getJSON(ctx, endpointModels, "/models", &catalog); err != nil {
		return nil, err
	}
	if catalog.CategoricalFields == nil {
		catalog.CategoricalFields = models.CategoricalFieldSet{}
	}
	return &catalog, nil
}

// FetchHistory loads past predictions, optionally filtered by the service
func (c *Client) FetchHistory(ctx context.Context, q HistoryQuery) ([]models.HistoryRecord, error) {
	path := "/history"
	if qs := q.encode(); qs != "" {
		path += "?" + qs
	}

	var page models.HistoryPage
	if err := c.getJSON(ctx, endpointHistory, path, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []models.HistoryRecord{}
	}
	for _, r := range page.Data {
		if r.RawCreatedAt != "" {
			c.logger.Warnw("Unrecognized history timestamp", "created_at", r.RawCreatedAt, "player", r.PlayerName)
		}
	}
	return page.Data, nil
}

// PredictPlayer submits a payload and returns the computed score
func (c *Client) PredictPlayer(ctx context.Context, payload models.PredictionPayload) (*models.PredictionResult, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpointPredict).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpointPredict, outcomeTransport).Inc()
		c.logger.Errorw("Predict request failed", "error", err, "player", payload.PlayerName, "model", payload.ModelKey)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		requestsTotal.WithLabelValues(endpointPredict, outcomeTransport).Inc()
		c.logger.Errorw("Predict response read failed", "error", err)
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		perr := parsePredictionError(resp.StatusCode, raw)
		requestsTotal.WithLabelValues(endpointPredict, outcomeHTTPError).Inc()
		c.logger.Warnw("Predict rejected", "status", resp.StatusCode, "detail", perr.Detail, "model", payload.ModelKey)
		return nil, perr
	}

	var result models.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		requestsTotal.WithLabelValues(endpointPredict, outcomeDecode).Inc()
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}

	requestsTotal.WithLabelValues(endpointPredict, outcomeOK).Inc()
	c.logger.Infow("Prediction received", "player", payload.PlayerName, "model", payload.ModelKey, "score", result.Score, "duration", time.Since(start))
	return &result, nil
}

// getJSON performs a GET and decodes the body, normalizing every failure
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, outcomeTransport).Inc()
		return connectionError(endpoint, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, outcomeTransport).Inc()
		c.logger.Errorw("Scoring request failed", "endpoint", endpoint, "error", err)
		return connectionError(endpoint, fmt.Errorf("making request: %w", err))
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		requestsTotal.WithLabelValues(endpoint, outcomeHTTPError).Inc()
		c.logger.Errorw("Scoring service returned an error", "endpoint", endpoint, "status", resp.StatusCode)
		return connectionError(endpoint, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		requestsTotal.WithLabelValues(endpoint, outcomeDecode).Inc()
		c.logger.Errorw("Scoring response could not be decoded", "endpoint", endpoint, "error", err)
		return connectionError(endpoint, fmt.Errorf("decoding response: %w", err))
	}

	requestsTotal.WithLabelValues(endpoint, outcomeOK).Inc()
	c.logger.Debugw("Scoring request completed", "endpoint", endpoint, "duration", time.Since(start))
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// parsePredictionError extracts the detail of a rejected prediction. FastAPI
// validation failures send detail as a list of {msg} objects.
func parsePredictionError(status int, body []byte) *PredictionError {
	var payload models.PredictionErrorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return &PredictionError{StatusCode: status, Detail: statusMessage(status)}
	}

	detail := detailText(payload.Detail)
	if detail == "" {
		detail = genericPredictionMessage
	}
	return &PredictionError{StatusCode: status, Detail: detail}
}

func detailText(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			switch it := item.(type) {
			case string:
				msgs = append(msgs, it)
			case map[string]any:
				if msg, ok := it["msg"].(string); ok && msg != "" {
					msgs = append(msgs, msg)
				}
			}
		}
		return strings.Join(msgs, "; ")
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
