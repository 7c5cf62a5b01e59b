package models

import (
	"encoding/json"
	"time"
)

// HistoryRecord is one past prediction as stored by the scoring service.
type HistoryRecord struct {
	PlayerName string         `json:"player_name"`
	ModelKey   string         `json:"model_key"`
	Stats      map[string]any `json:"stats"`
	Score      float64        `json:"score"`
	CreatedAt  time.Time      `json:"created_at"`

	// RawCreatedAt holds a created_at value that could not be parsed
	RawCreatedAt string `json:"-"`
}

// HistoryPage is the /history response envelope.
type HistoryPage struct {
	Data []HistoryRecord `json:"data"`
}

// UnmarshalJSON tolerates string-encoded scores and the timestamp layouts the
// service has emitted over time.
func (r *HistoryRecord) UnmarshalJSON(data []byte) error {
	var wire struct {
		PlayerName string         `json:"player_name"`
		ModelKey   string         `json:"model_key"`
		Stats      map[string]any `json:"stats"`
		Score      FlexFloat      `json:"score"`
		CreatedAt  FlexTime       `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.PlayerName = wire.PlayerName
	r.ModelKey = wire.ModelKey
	r.Stats = wire.Stats
	r.Score = float64(wire.Score)
	r.CreatedAt = wire.CreatedAt.Time
	r.RawCreatedAt = wire.CreatedAt.Raw
	return nil
}

// Stat returns a stats value, or nil when absent.
func (r HistoryRecord) Stat(key string) any {
	if r.Stats == nil {
		return nil
	}
	return r.Stats[key]
}
