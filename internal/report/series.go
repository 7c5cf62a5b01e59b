package report

import (
	"encoding/json"

	"github.com/mymatch/dashboard/internal/models"
)

// ScoreKey is the series every chart starts with.
const ScoreKey = "score"

// reservedKeys are never offered as plottable series.
var reservedKeys = map[string]bool{
	"player_name":  true,
	ScoreKey:       true,
	"match":        true,
	"match_number": true,
}

// Point is one x/y pair. Missing marks a record that lacks the stat.
type Point struct {
	X       int
	Y       float64
	Missing bool
}

type Series struct {
	Key    string
	Label  string
	Points []Point
}

// Max returns the largest y value, 0 for an empty series.
func (s Series) Max() float64 {
	var m float64
	for _, p := range s.Points {
		if !p.Missing && p.Y > m {
			m = p.Y
		}
	}
	return m
}

// NumericKeys returns every stats key holding a number in any record, in the
// order first seen.
func NumericKeys(records []models.HistoryRecord) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		for _, k := range sortedStatKeys(r.Stats) {
			if seen[k] || reservedKeys[k] {
				continue
			}
			if _, ok := Numeric(r.Stats[k]); ok {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// BuildSeries lays the records out along x = 1..n in list order. The score
// series always comes first, followed by one series per key.
func BuildSeries(records []models.HistoryRecord, keys []string) []Series {
	out := make([]Series, 0, len(keys)+1)

	score := Series{Key: ScoreKey, Label: Label(ScoreKey), Points: make([]Point, len(records))}
	for i, r := range records {
		score.Points[i] = Point{X: i + 1, Y: r.Score}
	}
	out = append(out, score)

	for _, k := range keys {
		if k == ScoreKey {
			continue
		}
		s := Series{Key: k, Label: Label(k), Points: make([]Point, len(records))}
		for i, r := range records {
			v, ok := Numeric(r.Stat(k))
			s.Points[i] = Point{X: i + 1, Y: v, Missing: !ok}
		}
		out = append(out, s)
	}
	return out
}

// Numeric reports whether v is a JSON number and returns it as float64.
// Booleans and numeric strings do not count.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
