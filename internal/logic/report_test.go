package logic

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

func TestSearchReport(t *testing.T) {
	var gotQuery scoring.HistoryQuery
	api := &MockScoringAPI{
		FetchHistoryFunc: func(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error) {
			gotQuery = q
			if q.PlayerName == "" {
				return nil, nil
			}
			// newest first, with a case variant the service may also return
			return []models.HistoryRecord{
				{PlayerName: "Ana", Score: 8, CreatedAt: fixedNow, Stats: map[string]any{"goals": 2.0, "pos": "MF"}},
				{PlayerName: "ANA", Score: 3, CreatedAt: fixedNow.Add(-time.Minute)},
				{PlayerName: "Ana", Score: 6, CreatedAt: fixedNow.Add(-time.Hour), Stats: map[string]any{"assists": 1.0}},
			}, nil
		},
	}
	d, _, _ := newTestDashboard(api)
	ctx := context.Background()
	s, _ := d.NewSession(ctx)

	s, err := d.SearchReport(ctx, s.ID, "Ana")
	if err != nil {
		t.Fatalf("SearchReport() error = %v", err)
	}
	if gotQuery.PlayerName != "Ana" || gotQuery.Limit != 50 {
		t.Errorf("query = %+v", gotQuery)
	}

	r := s.Report
	if s.Screen != ScreenReport || !r.Searched || r.Error != "" {
		t.Fatalf("report = %+v", r)
	}
	if len(r.History) != 2 || r.History[0].Score != 6 || r.History[1].Score != 8 {
		t.Errorf("history should be Ana only, oldest first: %+v", r.History)
	}
	if !reflect.DeepEqual(r.NumericKeys, []string{"assists", "goals"}) {
		t.Errorf("NumericKeys = %v", r.NumericKeys)
	}
	wantVisible := map[string]bool{"score": true, "assists": false, "goals": false}
	if !reflect.DeepEqual(r.Visible, wantVisible) {
		t.Errorf("Visible = %v", r.Visible)
	}

	s, _ = d.ToggleReportSeries(ctx, s.ID, "goals")
	if !s.Report.Visible["goals"] {
		t.Error("goals should be visible after toggle")
	}
	if got := s.Report.VisibleKeys(); !reflect.DeepEqual(got, []string{"score", "goals"}) {
		t.Errorf("VisibleKeys() = %v", got)
	}
	s, _ = d.ToggleReportSeries(ctx, s.ID, "score")
	if !s.Report.Visible["score"] {
		t.Error("score cannot be hidden")
	}
	if _, err := d.ToggleReportSeries(ctx, s.ID, "minutesPlayed"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("toggle of an undetected key error = %v", err)
	}
}

func TestSearchReport_BlankAndFailure(t *testing.T) {
	api := &MockScoringAPI{}
	d, _, _ := newTestDashboard(api)
	ctx := context.Background()
	s, _ := d.NewSession(ctx)
	calls := api.historyCalls()

	s, err := d.SearchReport(ctx, s.ID, "   ")
	if err != nil || s.Report.Searched || api.historyCalls() != calls {
		t.Errorf("blank search should be a no-op: %+v, %v", s.Report, err)
	}

	api.FetchHistoryFunc = func(ctx context.Context, q scoring.HistoryQuery) ([]models.HistoryRecord, error) {
		return nil, &scoring.ConnectionError{Op: "history"}
	}
	s, err = d.SearchReport(ctx, s.ID, "Ana")
	if err != nil {
		t.Fatalf("SearchReport() error = %v", err)
	}
	if s.Report.Error != MsgReportUnavailable || len(s.Report.History) != 0 {
		t.Errorf("report = %+v", s.Report)
	}
}

func TestOptionsFor(t *testing.T) {
	catalog := &models.Catalog{FieldKinds: map[string]models.FieldKindSpec{
		"pos": {Kind: models.FieldKindEnumerated, Options: []models.FieldOption{{Value: "GK", Label: "Goalkeeper"}}},
	}}
	if got := OptionsFor(catalog, "pos"); len(got) != 1 || got[0].Value != "GK" {
		t.Errorf("declared options should win, got %v", got)
	}
	if got := OptionsFor(nil, "result"); len(got) != 3 {
		t.Errorf("fallback result options = %v", got)
	}
	if got := OptionsFor(nil, "weather"); got != nil {
		t.Errorf("unknown field options = %v", got)
	}
	if got := CategoricalChartFields(nil); !reflect.DeepEqual(got, []string{"pos", "result"}) {
		t.Errorf("CategoricalChartFields(nil) = %v", got)
	}
}
