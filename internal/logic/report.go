package logic

import (
	"context"
	"sort"
	"strings"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/report"
	"github.com/mymatch/dashboard/internal/scoring"
)

// SearchReport loads the latest history of one player for the report screen.
// Records arrive newest first and are shown oldest first. A blank name does
// nothing.
func (d *Dashboard) SearchReport(ctx context.Context, id, name string) (*Session, error) {
	if strings.TrimSpace(name) == "" {
		return d.store.Get(ctx, id)
	}

	records, fetchErr := d.scoring.FetchHistory(ctx, scoring.HistoryQuery{
		Limit:      d.reportLimit,
		PlayerName: name,
	})
	if fetchErr != nil {
		d.logger.Warnw("Report history unavailable", "session", id, "player", name, "error", fetchErr)
	}

	return d.update(ctx, id, func(s *Session) error {
		s.Screen = ScreenReport
		st := ReportState{PlayerName: name, Searched: true, Visible: map[string]bool{report.ScoreKey: true}}

		if fetchErr != nil {
			st.Error = MsgReportUnavailable
			st.History = []models.HistoryRecord{}
		} else {
			st.History = FilterByPlayer(Reverse(records), name)
			st.NumericKeys = report.NumericKeys(st.History)
			for _, k := range st.NumericKeys {
				st.Visible[k] = false
			}
		}

		s.Report = st
		return nil
	})
}

// ToggleReportSeries flips a detected stat series. The score series is
// always shown.
func (d *Dashboard) ToggleReportSeries(ctx context.Context, id, key string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		if key == report.ScoreKey {
			return nil
		}
		for _, k := range s.Report.NumericKeys {
			if k == key {
				s.Report.Visible[key] = !s.Report.Visible[key]
				return nil
			}
		}
		return ErrUnknownField
	})
}

// OptionsFor returns the labelled choices of a categorical field: the
// service's declaration when there is one, the fallback table otherwise.
func OptionsFor(catalog *models.Catalog, field string) []models.FieldOption {
	if catalog != nil {
		if spec, ok := catalog.FieldKinds[field]; ok && spec.Kind == models.FieldKindEnumerated {
			return spec.Options
		}
	}
	return FallbackOptions[field]
}

// CategoricalChartFields lists the fields charted as category counts
func CategoricalChartFields(catalog *models.Catalog) []string {
	if catalog != nil && len(catalog.CategoricalFields) > 0 {
		return catalog.CategoricalFields.Names()
	}
	names := make([]string, 0, len(FallbackOptions))
	for k := range FallbackOptions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
