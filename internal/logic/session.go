package logic

import (
	"time"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/report"
)

// Screen is one state of the dashboard's screen machine
type Screen string

const (
	ScreenHome           Screen = "home"
	ScreenModelPicker    Screen = "model_picker"
	ScreenPredictionForm Screen = "prediction_form"
	ScreenReport         Screen = "report"
)

// CurrentPrediction pairs a score with the stats that produced it. Both always
// come from the same round trip.
type CurrentPrediction struct {
	Seq         uint64         `json:"seq"`
	PlayerName  string         `json:"player_name"`
	ModelKey    string         `json:"model_key"`
	Score       float64        `json:"score"`
	Stats       map[string]any `json:"stats"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Record renders the prediction as a history entry
func (c *CurrentPrediction) Record() models.HistoryRecord {
	return models.HistoryRecord{
		PlayerName: c.PlayerName,
		ModelKey:   c.ModelKey,
		Stats:      c.Stats,
		Score:      c.Score,
		CreatedAt:  c.SubmittedAt,
	}
}

// ReportState backs the report screen
type ReportState struct {
	PlayerName  string                 `json:"player_name"`
	Searched    bool                   `json:"searched"`
	History     []models.HistoryRecord `json:"history"`
	NumericKeys []string               `json:"numeric_keys"`
	Visible     map[string]bool        `json:"visible"`
	Error       string                 `json:"error,omitempty"`
}

// VisibleKeys returns the score key followed by every toggled-on stat key
func (r ReportState) VisibleKeys() []string {
	keys := []string{report.ScoreKey}
	for _, k := range r.NumericKeys {
		if r.Visible[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Session is the per-browser dashboard state. It is transient and lives in the
// session store until its TTL runs out.
type Session struct {
	ID     string `json:"id"`
	Screen Screen `json:"screen"`

	CatalogLoading bool            `json:"catalog_loading"`
	CatalogError   string          `json:"catalog_error,omitempty"`
	Catalog        *models.Catalog `json:"catalog,omitempty"`

	PickerError   string `json:"picker_error,omitempty"`
	SelectedModel string `json:"selected_model,omitempty"`
	Form          *Form  `json:"form,omitempty"`
	FormError     string `json:"form_error,omitempty"`

	Current        *CurrentPrediction     `json:"current,omitempty"`
	PlayerHistory  []models.HistoryRecord `json:"player_history"`
	RecordVisible  bool                   `json:"record_visible"`
	HistoryPending bool                   `json:"history_pending"`
	PlayerHidden   map[string]bool        `json:"player_hidden,omitempty"`

	GlobalHistory []models.HistoryRecord `json:"global_history"`

	// Issued is the latest submission number handed out. Seq is the latest one
	// whose prediction was accepted; reconcile jobs are checked against it.
	Issued uint64 `json:"issued"`
	Seq    uint64 `json:"seq"`

	Report ReportState `json:"report"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerHistoryView is what the player history table and chart show: the
// reconciled history, with the current result appended while its record is not
// visible in it yet.
func (s *Session) PlayerHistoryView() []models.HistoryRecord {
	view := make([]models.HistoryRecord, 0, len(s.PlayerHistory)+1)
	view = append(view, s.PlayerHistory...)
	if s.Current != nil && !s.RecordVisible {
		view = append(view, s.Current.Record())
	}
	return view
}

// PlayerSeriesKeys returns the stat series shown on the player chart
func (s *Session) PlayerSeriesKeys() []string {
	var keys []string
	for _, k := range report.NumericKeys(s.PlayerHistoryView()) {
		if !s.PlayerHidden[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// clearPrediction drops everything tied to the current model's results
func (s *Session) clearPrediction() {
	s.Current = nil
	s.PlayerHistory = nil
	s.RecordVisible = false
	s.HistoryPending = false
	s.PlayerHidden = nil
	s.FormError = ""
}
