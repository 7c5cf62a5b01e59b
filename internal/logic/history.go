package logic

import (
	"math"
	"time"

	"github.com/mymatch/dashboard/internal/models"
)

const scoreEpsilon = 1e-9

// FilterByPlayer keeps the records whose player_name equals name exactly
func FilterByPlayer(records []models.HistoryRecord, name string) []models.HistoryRecord {
	out := make([]models.HistoryRecord, 0)
	for _, r := range records {
		if r.PlayerName == name {
			out = append(out, r)
		}
	}
	return out
}

// Reverse returns a reversed copy of records
func Reverse(records []models.HistoryRecord) []models.HistoryRecord {
	out := make([]models.HistoryRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// baselineFor collects the created_at values already known for a player
func baselineFor(records []models.HistoryRecord, player string) []time.Time {
	var out []time.Time
	for _, r := range records {
		if r.PlayerName == player && !r.CreatedAt.IsZero() {
			out = append(out, r.CreatedAt)
		}
	}
	return out
}

// submissionVisible reports whether the record created by job is among records.
// The service assigns no correlation id, so a record matches on player, model
// and score and must not have existed before the submission.
func submissionVisible(records []models.HistoryRecord, job models.ReconcileJob) bool {
	known := make(map[int64]bool, len(job.Baseline))
	for _, t := range job.Baseline {
		known[t.UnixNano()] = true
	}

	for _, r := range records {
		if r.PlayerName != job.PlayerName {
			continue
		}
		if r.ModelKey != "" && r.ModelKey != job.ModelKey {
			continue
		}
		if math.Abs(r.Score-job.Score) > scoreEpsilon {
			continue
		}
		if job.Record != nil && !job.Record.CreatedAt.IsZero() {
			if r.CreatedAt.Equal(job.Record.CreatedAt) {
				return true
			}
			continue
		}
		if !known[r.CreatedAt.UnixNano()] {
			return true
		}
	}
	return false
}
