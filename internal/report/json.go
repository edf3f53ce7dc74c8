package report

import (
	"math"

	"github.com/KaramelBytes/edakit/internal/eda"
	"github.com/KaramelBytes/edakit/internal/utils"
)

// encoding/json rejects NaN, so statistics go through views whose
// undefined values become null.

type jsonStats struct {
	Column   string   `json:"column"`
	Kind     string   `json:"kind"`
	Count    int      `json:"count"`
	Mean     *float64 `json:"mean"`
	Std      *float64 `json:"std"`
	Min      *float64 `json:"min"`
	Q25      *float64 `json:"p25"`
	Median   *float64 `json:"p50"`
	Q75      *float64 `json:"p75"`
	Max      *float64 `json:"max"`
	Skew     *float64 `json:"skewness"`
	Kurtosis *float64 `json:"kurtosis"`
}

type jsonNumeric struct {
	Stats []jsonStats             `json:"stats"`
	Plots []eda.DistributionPlots `json:"plots"`
}

type jsonOutliers struct {
	Column string             `json:"column"`
	Q1     *float64           `json:"q1"`
	Q3     *float64           `json:"q3"`
	IQR    *float64           `json:"iqr"`
	Lower  *float64           `json:"lower"`
	Upper  *float64           `json:"upper"`
	Points []eda.OutlierPoint `json:"points"`
}

type jsonCorrelation struct {
	Columns []string          `json:"columns"`
	Values  [][]*float64      `json:"values"`
	Heatmap *eda.PlotArtifact `json:"heatmap,omitempty"`
}

type jsonReport struct {
	Name        string                 `json:"name"`
	Rows        int                    `json:"rows"`
	Columns     int                    `json:"columns"`
	MemoryBytes int64                  `json:"memory_bytes"`
	Renames     []eda.Rename           `json:"renames,omitempty"`
	Missing     eda.MissingReport      `json:"missing"`
	Numeric     jsonNumeric            `json:"numeric"`
	Categorical *eda.CategoricalResult `json:"categorical"`
	Correlation jsonCorrelation        `json:"correlation"`
	Outliers    []jsonOutliers         `json:"outliers"`
	Summary     string                 `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// JSON renders the report as indented JSON; undefined statistics are null.
func (r *Report) JSON() ([]byte, error) {
	out := jsonReport{
		Name:        r.Name,
		Rows:        r.Rows,
		Columns:     r.Columns,
		MemoryBytes: r.MemoryBytes,
		Renames:     r.Renames,
		Missing:     r.Missing,
		Categorical: r.Categorical,
		Summary:     r.Summary,
		Warnings:    r.Warnings,
		Outliers:    []jsonOutliers{},
	}
	if r.Numeric != nil {
		out.Numeric.Plots = r.Numeric.Plots
		for _, s := range r.Numeric.Stats {
			out.Numeric.Stats = append(out.Numeric.Stats, jsonStats{
				Column: s.Column, Kind: s.Kind.String(), Count: s.Count,
				Mean: nullable(s.Mean), Std: nullable(s.Std),
				Min: nullable(s.Min), Q25: nullable(s.Q25), Median: nullable(s.Median),
				Q75: nullable(s.Q75), Max: nullable(s.Max),
				Skew: nullable(s.Skew), Kurtosis: nullable(s.Kurtosis),
			})
		}
	}
	if r.Correlation != nil {
		m := r.Correlation.Matrix
		out.Correlation.Columns = m.Columns
		out.Correlation.Heatmap = r.Correlation.Heatmap
		for _, row := range m.Values {
			vals := make([]*float64, len(row))
			for j, v := range row {
				vals[j] = nullable(v)
			}
			out.Correlation.Values = append(out.Correlation.Values, vals)
		}
	}
	for _, o := range r.Outliers {
		out.Outliers = append(out.Outliers, jsonOutliers{
			Column: o.Column, Q1: nullable(o.Q1), Q3: nullable(o.Q3), IQR: nullable(o.IQR),
			Lower: nullable(o.Lower), Upper: nullable(o.Upper), Points: o.Points,
		})
	}
	return utils.PrettyJSON(out)
}
