package report

import (
	"fmt"

	"github.com/mymatch/dashboard/internal/models"
)

// CategoryCount is one bar of a categorical chart.
type CategoryCount struct {
	Value string
	Label string
	Count int
}

// CategoryCounts tallies the values of a categorical stat. Declared options
// come first in declared order; values outside them follow in the order first
// seen and keep their raw value as label. Unselected ("") values are skipped.
func CategoryCounts(records []models.HistoryRecord, field string, options []models.FieldOption) []CategoryCount {
	counts := make(map[string]int)
	var unknown []string
	declared := make(map[string]bool, len(options))
	for _, o := range options {
		declared[o.Value] = true
	}

	for _, r := range records {
		v, ok := r.Stat(field).(string)
		if !ok || v == "" {
			continue
		}
		if counts[v] == 0 && !declared[v] {
			unknown = append(unknown, v)
		}
		counts[v]++
	}

	var out []CategoryCount
	for _, o := range options {
		if n := counts[o.Value]; n > 0 {
			out = append(out, CategoryCount{Value: o.Value, Label: o.Label, Count: n})
		}
	}
	for _, v := range unknown {
		out = append(out, CategoryCount{Value: v, Label: v, Count: counts[v]})
	}
	return out
}

// CategoryCell is one line of the per-match table under a categorical chart.
type CategoryCell struct {
	Match string
	Value string
}

// CategoryColumn lists the value of field for every record in order. Values
// outside options are shown raw; a missing value shows NoValue.
func CategoryColumn(records []models.HistoryRecord, field string, options []models.FieldOption) []CategoryCell {
	cells := make([]CategoryCell, len(records))
	for i, r := range records {
		cells[i] = CategoryCell{Match: fmt.Sprintf("Match %d", i+1), Value: NoValue}
		if v, ok := r.Stat(field).(string); ok && v != "" {
			cells[i].Value = optionLabel(options, v)
		}
	}
	return cells
}
