package eda

import (
	"sort"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// MissingEntry is the missing-value profile of one column.
type MissingEntry struct {
	Column     string       `json:"column" yaml:"column"`
	Count      int          `json:"missing_count" yaml:"missing_count"`
	Percentage float64      `json:"missing_percentage" yaml:"missing_percentage"`
	Kind       dataset.Kind `json:"kind" yaml:"kind"`
}

// MissingReport lists every column, highest missing percentage first.
type MissingReport []MissingEntry

// AnalyzeMissing counts missing cells per column. Percentages are 0 for an
// empty table. Ties keep column order.
func AnalyzeMissing(t *dataset.Table) MissingReport {
	rows := t.Len()
	out := make(MissingReport, 0, t.NumCols())
	for _, c := range t.Columns() {
		e := MissingEntry{Column: c.Name, Count: c.MissingCount(), Kind: c.Kind}
		if rows > 0 {
			e.Percentage = float64(e.Count) / float64(rows) * 100
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out
}

// WithMissing returns only the columns that have at least one missing cell.
func (r MissingReport) WithMissing() MissingReport {
	var out MissingReport
	for _, e := range r {
		if e.Count > 0 {
			out = append(out, e)
		}
	}
	return out
}
