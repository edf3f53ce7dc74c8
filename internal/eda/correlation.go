package eda

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// CorrelationMatrix is a square Pearson matrix over numeric columns.
// Values[i][j] pairs Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// At returns the coefficient for two column names, or Undefined if either
// is not in the matrix.
func (m CorrelationMatrix) At(a, b string) float64 {
	i, j := -1, -1
	for k, name := range m.Columns {
		if name == a && i < 0 {
			i = k
		}
		if name == b && j < 0 {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return Undefined
	}
	return m.Values[i][j]
}

// CorrelationResult is the output of AnalyzeCorrelations. Heatmap is nil
// when the table has no numeric columns.
type CorrelationResult struct {
	Matrix  CorrelationMatrix `json:"matrix" yaml:"matrix"`
	Heatmap *PlotArtifact     `json:"heatmap,omitempty" yaml:"heatmap,omitempty"`
}

// AnalyzeCorrelations computes pairwise Pearson correlation between numeric
// columns over rows where both values are present. Pairs with fewer than two
// such rows, or with a constant side, are Undefined. The diagonal is 1 for a
// column with positive variance and Undefined otherwise.
func AnalyzeCorrelations(t *dataset.Table) (*CorrelationResult, error) {
	idx := t.Indexes(dataset.Kind.IsNumeric)
	cols := make([]dataset.Column, len(idx))
	names := make([]string, len(idx))
	for k, ci := range idx {
		cols[k] = t.Column(ci)
		names[k] = cols[k].Name
	}
	vals := make([][]float64, len(cols))
	for i := range vals {
		vals[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			if i == j && !IsUndefined(r) {
				r = 1
			}
			vals[i][j], vals[j][i] = r, r
		}
	}
	return &CorrelationResult{
		Matrix:  CorrelationMatrix{Columns: names, Values: vals},
		Heatmap: heatmapArtifact(names, vals),
	}, nil
}

func pearson(a, b dataset.Column) float64 {
	n := a.Len()
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		x = append(x, a.Numbers[i])
		y = append(y, b.Numbers[i])
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return Undefined
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return Undefined
	}
	return math.Max(-1, math.Min(1, r))
}
