package models

// PredictionPayload is the body of POST /predict. Stats never carries player_name.
type PredictionPayload struct {
	PlayerName string         `json:"player_name" validate:"required"`
	ModelKey   string         `json:"model_key" validate:"required"`
	Stats      map[string]any `json:"stats"`
}

// PredictionResult is the scoring service's answer to a payload. Record is only
// present when the service echoes the history row it created.
type PredictionResult struct {
	Score  float64        `json:"score"`
	Record *HistoryRecord `json:"record,omitempty"`
}

// PredictionErrorBody is what the service returns alongside a non-2xx predict status.
type PredictionErrorBody struct {
	Detail any `json:"detail"`
}
