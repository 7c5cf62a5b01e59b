package report

import (
	"fmt"
	"sort"

	"github.com/mymatch/dashboard/internal/models"
)

// TimestampLayout is how history timestamps are shown in tables.
const TimestampLayout = "2006-01-02 15:04"

// NoPosition fills the position column of records without one.
const NoPosition = "N/A"

// NoValue fills a per-match category cell of a record without the stat.
const NoValue = "-"

// Row is one formatted history table line.
type Row struct {
	Player    string
	Model     string
	Position  string
	Score     string
	Timestamp string
}

// TableRows formats records for the history table. positions labels the pos
// stat; values it does not declare are shown raw.
func TableRows(records []models.HistoryRecord, positions []models.FieldOption) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Player:   r.PlayerName,
			Model:    r.ModelKey,
			Position: NoPosition,
			Score:    fmt.Sprintf("%.2f", r.Score),
		}
		if pos, ok := r.Stat("pos").(string); ok && pos != "" {
			row.Position = optionLabel(positions, pos)
		}
		if !r.CreatedAt.IsZero() {
			row.Timestamp = r.CreatedAt.Format(TimestampLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

func optionLabel(options []models.FieldOption, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// sortedStatKeys gives stats maps a stable iteration order.
func sortedStatKeys(stats map[string]any) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
