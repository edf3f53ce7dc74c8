package eda

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// DefaultOutlierThreshold is the conventional Tukey fence multiplier.
const DefaultOutlierThreshold = 1.5

// OutlierPoint is one flagged value and its row position.
type OutlierPoint struct {
	Row   int     `json:"row" yaml:"row"`
	Value float64 `json:"value" yaml:"value"`
}

// OutlierSet holds the fences and flagged points of one numeric column.
type OutlierSet struct {
	Column string         `json:"column" yaml:"column"`
	Q1     float64        `json:"q1" yaml:"q1"`
	Q3     float64        `json:"q3" yaml:"q3"`
	IQR    float64        `json:"iqr" yaml:"iqr"`
	Lower  float64        `json:"lower" yaml:"lower"`
	Upper  float64        `json:"upper" yaml:"upper"`
	Points []OutlierPoint `json:"points" yaml:"points"`
}

// DetectOutliers flags values strictly outside [Q1-k*IQR, Q3+k*IQR] in every
// numeric column. When IQR is zero every value different from Q1 is flagged.
// Missing values are skipped. threshold must be a non-negative number.
func DetectOutliers(t *dataset.Table, threshold float64) ([]OutlierSet, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, fmt.Errorf("%w: outlier threshold must be >= 0, got %v", dataset.ErrInvalidInput, threshold)
	}
	idx := t.Indexes(dataset.Kind.IsNumeric)
	out := make([]OutlierSet, 0, len(idx))
	for _, ci := range idx {
		out = append(out, columnOutliers(t.Column(ci), threshold))
	}
	return out, nil
}

func columnOutliers(c dataset.Column, k float64) OutlierSet {
	vals, rows := c.Present()
	sorted := sortedCopy(vals)
	set := OutlierSet{Column: c.Name, Q1: quantile(sorted, 0.25), Q3: quantile(sorted, 0.75)}
	set.IQR = set.Q3 - set.Q1
	set.Lower = set.Q1 - k*set.IQR
	set.Upper = set.Q3 + k*set.IQR
	for i, v := range vals {
		flagged := v < set.Lower || v > set.Upper
		if set.IQR == 0 {
			flagged = v != set.Q1
		}
		if flagged {
			set.Points = append(set.Points, OutlierPoint{Row: rows[i], Value: v})
		}
	}
	return set
}

// Rows returns the row positions of the flagged points.
func (s OutlierSet) Rows() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Row
	}
	return out
}
