package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/report"
)

// seriesChartKey names the line chart; any other key is a categorical field
const seriesChartKey = "series"

const (
	scopePlayer = "player"
	scopeReport = "report"
)

// chartData returns the records and visible stat keys a chart scope draws
func chartData(s *logic.Session, scope string) ([]models.HistoryRecord, []string, bool) {
	switch scope {
	case scopePlayer:
		if s.Current == nil {
			return nil, nil, false
		}
		return s.PlayerHistoryView(), s.PlayerSeriesKeys(), true
	case scopeReport:
		if !s.Report.Searched {
			return nil, nil, false
		}
		return s.Report.History, s.Report.VisibleKeys(), true
	}
	return nil, nil, false
}

func isChartField(catalog *models.Catalog, field string) bool {
	for _, f := range logic.CategoricalChartFields(catalog) {
		if f == field {
			return true
		}
	}
	return false
}

// Chart serves one chart of the player panel or the report as SVG
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	key := chi.URLParam(r, "key")

	s, err := h.dashboard.Session(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.done(w, r, nil, err)
		return
	}

	records, keys, ok := chartData(s, scope)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var svg string
	switch {
	case key == seriesChartKey:
		svg = report.LineChartSVG("Score history", report.BuildSeries(records, keys))
	case isChartField(s.Catalog, key):
		counts := report.CategoryCounts(records, key, logic.OptionsFor(s.Catalog, key))
		svg = report.BarChartSVG(report.Label(key), counts, report.SeriesColor(1))
	default:
		series, ok := statSeries(records, keys, key)
		if !ok {
			http.NotFound(w, r)
			return
		}
		svg = report.LineChartSVG(report.Label(key), series)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(svg))
}

// statSeries is the line of one visible stat drawn on its own. The score only
// appears on the combined chart.
func statSeries(records []models.HistoryRecord, keys []string, key string) ([]report.Series, bool) {
	if key == report.ScoreKey {
		return nil, false
	}
	for _, k := range keys {
		if k == key {
			return report.BuildSeries(records, []string{key})[1:], true
		}
	}
	return nil, false
}

// reportSections lists the charts currently visible on the report screen:
// the combined chart, one chart per visible stat, then the categorical fields.
func reportSections(s *logic.Session) []report.Section {
	st := s.Report
	keys := st.VisibleKeys()
	sections := []report.Section{{
		Label:  "Score and stats",
		Series: report.BuildSeries(st.History, keys),
	}}
	for _, k := range keys {
		if series, ok := statSeries(st.History, keys, k); ok {
			sections = append(sections, report.Section{Label: report.Label(k), Series: series})
		}
	}
	for i, field := range logic.CategoricalChartFields(s.Catalog) {
		counts := report.CategoryCounts(st.History, field, logic.OptionsFor(s.Catalog, field))
		if len(counts) == 0 {
			continue
		}
		sections = append(sections, report.Section{
			Label:  report.Label(field),
			Counts: counts,
			Color:  report.SeriesColor(i + 1),
		})
	}
	return sections
}

// ReportPDF exports the visible report charts, one section per chart
func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Session(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.done(w, r, nil, err)
		return
	}
	if !s.Report.Searched || len(s.Report.History) == 0 {
		http.Error(w, "No report to export", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	title := "Player report: " + s.Report.PlayerName
	if err := report.WritePDF(&buf, title, reportSections(s)); err != nil {
		renderErrors.WithLabelValues("pdf").Inc()
		h.logger.Errorw("Failed to export report", "error", err, "session", s.ID, "player", s.Report.PlayerName)
		http.Error(w, "Failed to export report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFileName(s.Report.PlayerName)))
	buf.WriteTo(w)
}

func pdfFileName(player string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, player)
	if safe == "" {
		safe = "player"
	}
	return "report-" + safe + ".pdf"
}
