package handlers

import (
	"fmt"
	"net/url"

	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/report"
)

// seriesToggle is one checkbox of a chart's series list
type seriesToggle struct {
	Key   string
	Label string
	On    bool
}

type fieldView struct {
	logic.FieldSpec
	Value string
}

type chartRef struct {
	Label string
	URL   string
}

// categoryView is a bar chart plus its per-match table
type categoryView struct {
	Label string
	URL   string
	Cells []report.CategoryCell
}

type playerView struct {
	PlayerName string
	ModelName  string
	Score      string
	Pending    bool
	Rows       []report.Row
	Toggles    []seriesToggle
	Chart      string
}

type reportView struct {
	PlayerName string
	Searched   bool
	Error      string
	Rows       []report.Row
	Toggles    []seriesToggle
	Chart      string
	Stats      []chartRef
	Categories []categoryView
	PDF        string
}

// pageView is everything the layout template reads
type pageView struct {
	Screen string

	CatalogLoading bool
	CatalogError   string
	PickerError    string
	Models         []models.ModelDescriptor

	ModelName  string
	PlayerName string
	Fields     []fieldView
	FormError  string

	Player *playerView
	Global []report.Row
	Report *reportView
}

func newPageView(s *logic.Session) pageView {
	v := pageView{
		Screen:         string(s.Screen),
		CatalogLoading: s.CatalogLoading,
		CatalogError:   s.CatalogError,
		PickerError:    s.PickerError,
		FormError:      s.FormError,
	}
	if s.Catalog != nil {
		v.Models = s.Catalog.Models
	}
	positions := logic.OptionsFor(s.Catalog, "pos")

	switch s.Screen {
	case logic.ScreenPredictionForm:
		if s.Form != nil {
			v.PlayerName = s.Form.PlayerName
			if desc, ok := s.Catalog.Lookup(s.Form.ModelKey); ok {
				v.ModelName = desc.Name()
			}
			for _, f := range s.Form.Fields {
				v.Fields = append(v.Fields, fieldView{FieldSpec: f, Value: s.Form.Text(f.Name)})
			}
		}
		if s.Current != nil {
			v.Player = newPlayerView(s, positions)
		}
	case logic.ScreenReport:
		v.Report = newReportView(s, positions)
	}

	v.Global = report.TableRows(s.GlobalHistory, positions)
	return v
}

func newPlayerView(s *logic.Session, positions []models.FieldOption) *playerView {
	records := s.PlayerHistoryView()
	pv := &playerView{
		PlayerName: s.Current.PlayerName,
		ModelName:  s.Current.ModelKey,
		Score:      fmt.Sprintf("%.2f", s.Current.Score),
		Pending:    s.HistoryPending,
		Rows:       report.TableRows(records, positions),
		Chart:      "/charts/player/series.svg",
	}
	if desc, ok := s.Catalog.Lookup(s.Current.ModelKey); ok {
		pv.ModelName = desc.Name()
	}
	for _, k := range report.NumericKeys(records) {
		pv.Toggles = append(pv.Toggles, seriesToggle{
			Key:   k,
			Label: report.Label(k),
			On:    !s.PlayerHidden[k],
		})
	}
	return pv
}

func newReportView(s *logic.Session, positions []models.FieldOption) *reportView {
	st := s.Report
	rv := &reportView{
		PlayerName: st.PlayerName,
		Searched:   st.Searched,
		Error:      st.Error,
	}
	if !st.Searched || len(st.History) == 0 {
		return rv
	}

	rv.Rows = report.TableRows(st.History, positions)
	rv.Chart = "/charts/report/series.svg"
	rv.PDF = "/report/pdf"
	for _, k := range st.NumericKeys {
		rv.Toggles = append(rv.Toggles, seriesToggle{
			Key:   k,
			Label: report.Label(k),
			On:    st.Visible[k],
		})
	}
	for _, k := range st.VisibleKeys() {
		if k == report.ScoreKey {
			continue
		}
		rv.Stats = append(rv.Stats, chartRef{
			Label: report.Label(k),
			URL:   "/charts/report/" + url.PathEscape(k) + ".svg",
		})
	}
	for _, field := range logic.CategoricalChartFields(s.Catalog) {
		options := logic.OptionsFor(s.Catalog, field)
		if len(report.CategoryCounts(st.History, field, options)) == 0 {
			continue
		}
		rv.Categories = append(rv.Categories, categoryView{
			Label: report.Label(field),
			URL:   "/charts/report/" + url.PathEscape(field) + ".svg",
			Cells: report.CategoryColumn(st.History, field, options),
		})
	}
	return rv
}
