package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/mymatch/dashboard/internal/models"
)

func rec(player string, score float64, stats map[string]any) models.HistoryRecord {
	return models.HistoryRecord{PlayerName: player, ModelKey: "modelA", Score: score, Stats: stats}
}

func TestNumericKeys(t *testing.T) {
	records := []models.HistoryRecord{
		rec("Ana", 6, map[string]any{"player_name": "Ana", "goals": 2.0, "pos": "MF", "match": 3.0, "score": 6.0}),
		rec("Ana", 7, map[string]any{"assists": 1.0, "goals": 0.0, "is_home_team": true}),
		rec("Ana", 5, nil),
	}

	got := NumericKeys(records)
	want := []string{"goals", "assists"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NumericKeys() = %v, want %v", got, want)
	}
}

func TestBuildSeries(t *testing.T) {
	records := []models.HistoryRecord{
		rec("Ana", 6.5, map[string]any{"goals": 2.0}),
		rec("Ana", 7.25, map[string]any{}),
	}

	series := BuildSeries(records, []string{"goals"})
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	if series[0].Key != ScoreKey || series[0].Points[1].Y != 7.25 || series[0].Points[1].X != 2 {
		t.Errorf("score series = %+v", series[0])
	}
	if series[1].Label != "Goals" {
		t.Errorf("label = %q, want Goals", series[1].Label)
	}
	if !series[1].Points[1].Missing {
		t.Error("second goals point should be missing")
	}
	if series[1].Max() != 2 {
		t.Errorf("Max() = %v, want 2", series[1].Max())
	}
}

func TestCategoryCounts(t *testing.T) {
	options := []models.FieldOption{{Value: "DF", Label: "Defender"}, {Value: "MF", Label: "Midfielder"}, {Value: "FW", Label: "Forward"}}
	records := []models.HistoryRecord{
		rec("Ana", 1, map[string]any{"pos": "GK"}),
		rec("Ana", 1, map[string]any{"pos": "FW"}),
		rec("Ana", 1, map[string]any{"pos": "DF"}),
		rec("Ana", 1, map[string]any{"pos": "FW"}),
		rec("Ana", 1, map[string]any{"pos": ""}),
		rec("Ana", 1, map[string]any{}),
	}

	got := CategoryCounts(records, "pos", options)
	want := []CategoryCount{
		{Value: "DF", Label: "Defender", Count: 1},
		{Value: "FW", Label: "Forward", Count: 2},
		{Value: "GK", Label: "GK", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryCounts() = %+v, want %+v", got, want)
	}
}

func TestTableRows(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 7, 59, 0, time.UTC)
	records := []models.HistoryRecord{
		{PlayerName: "Ana", ModelKey: "modelA", Score: 7.456, CreatedAt: created, Stats: map[string]any{"pos": "MF"}},
		{PlayerName: "Ana", ModelKey: "modelA", Score: 3, Stats: map[string]any{"pos": "GK"}},
		{PlayerName: "Ana", ModelKey: "modelB", Score: 5, Stats: map[string]any{"tackles": 2.0}},
	}

	rows := TableRows(records, []models.FieldOption{{Value: "MF", Label: "Midfielder"}})
	if rows[0].Score != "7.46" || rows[0].Timestamp != "2024-05-01 10:07" || rows[0].Position != "Midfielder" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Score != "3.00" || rows[1].Timestamp != "" || rows[1].Position != "GK" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].Position != NoPosition {
		t.Errorf("row 2 position = %q, want %q", rows[2].Position, NoPosition)
	}
}

func TestCategoryColumn(t *testing.T) {
	records := []models.HistoryRecord{
		{Stats: map[string]any{"result": "victory"}},
		{Stats: map[string]any{"goals": 1.0}},
		{Stats: map[string]any{"result": "walkover"}},
	}
	options := []models.FieldOption{{Value: "victory", Label: "Victory"}}

	got := CategoryColumn(records, "result", options)
	want := []CategoryCell{
		{Match: "Match 1", Value: "Victory"},
		{Match: "Match 2", Value: NoValue},
		{Match: "Match 3", Value: "walkover"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryColumn() = %+v, want %+v", got, want)
	}
}

func TestLabel(t *testing.T) {
	if Label("goals") != "Goals" {
		t.Errorf("Label(goals) = %q", Label("goals"))
	}
	if Label("xg_chain") != "xg_chain" {
		t.Errorf("unknown keys should pass through, got %q", Label("xg_chain"))
	}
}
