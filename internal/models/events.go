package models

import "time"

// ReconcileJob asks the worker pool to bring a session's histories up to date
// after a successful prediction.
type ReconcileJob struct {
	SessionID   string
	Seq         uint64
	PlayerName  string
	ModelKey    string
	Score       float64
	SubmittedAt time.Time
	// Baseline holds the created_at values already known for the player before
	// the prediction was sent.
	Baseline []time.Time
	Record   *HistoryRecord
}

// Session event types pushed over the websocket hub.
const (
	EventHistoryReconciled = "history_reconciled"
	EventCatalogLoaded     = "catalog_loaded"
)

// SessionEvent tells a connected browser that its session changed.
type SessionEvent struct {
	Type      string    `json:"type"`
	Seq       uint64    `json:"seq,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
