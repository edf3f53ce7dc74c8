package eda

import (
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// ColumnStats holds descriptive statistics for one numeric column. Values
// that do not exist for the data are Undefined.
type ColumnStats struct {
	Column   string       `json:"column" yaml:"column"`
	Kind     dataset.Kind `json:"kind" yaml:"kind"`
	Count    int          `json:"count" yaml:"count"`
	Mean     float64      `json:"mean" yaml:"mean"`
	Std      float64      `json:"std" yaml:"std"`
	Min      float64      `json:"min" yaml:"min"`
	Q25      float64      `json:"p25" yaml:"p25"`
	Median   float64      `json:"p50" yaml:"p50"`
	Q75      float64      `json:"p75" yaml:"p75"`
	Max      float64      `json:"max" yaml:"max"`
	Skew     float64      `json:"skewness" yaml:"skewness"`
	Kurtosis float64      `json:"kurtosis" yaml:"kurtosis"`
}

// DistributionPlots pairs the histogram and box plot of a column.
type DistributionPlots struct {
	Column    string        `json:"column" yaml:"column"`
	Histogram *PlotArtifact `json:"histogram" yaml:"histogram"`
	BoxPlot   *PlotArtifact `json:"boxplot" yaml:"boxplot"`
}

// NumericResult is the output of AnalyzeNumeric, in column order.
type NumericResult struct {
	Stats []ColumnStats       `json:"stats" yaml:"stats"`
	Plots []DistributionPlots `json:"plots" yaml:"plots"`
}

// AnalyzeNumeric describes every integer and float column. Columns are
// processed concurrently; results keep column order.
func AnalyzeNumeric(t *dataset.Table) (*NumericResult, error) {
	idx := t.Indexes(dataset.Kind.IsNumeric)
	res := &NumericResult{
		Stats: make([]ColumnStats, len(idx)),
		Plots: make([]DistributionPlots, len(idx)),
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for slot, ci := range idx {
		slot := slot
		col := t.Column(ci)
		g.Go(func() error {
			vals, _ := col.Present()
			res.Stats[slot] = Describe(col.Name, col.Kind, vals)
			box, err := boxArtifact(col.Name, vals)
			if err != nil {
				return err
			}
			res.Plots[slot] = DistributionPlots{
				Column:    col.Name,
				Histogram: histogramArtifact(col.Name, vals),
				BoxPlot:   box,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Describe computes ColumnStats over non-missing values. Std needs two
// values, skewness three and kurtosis four; a constant sample has neither
// skewness nor kurtosis.
func Describe(name string, kind dataset.Kind, vals []float64) ColumnStats {
	cs := ColumnStats{
		Column: name, Kind: kind, Count: len(vals),
		Mean: Undefined, Std: Undefined, Min: Undefined, Max: Undefined,
		Q25: Undefined, Median: Undefined, Q75: Undefined,
		Skew: Undefined, Kurtosis: Undefined,
	}
	n := len(vals)
	if n == 0 {
		return cs
	}
	cs.Mean = stat.Mean(vals, nil)
	cs.Min, _ = stats.Min(vals)
	cs.Max, _ = stats.Max(vals)
	sorted := sortedCopy(vals)
	cs.Q25 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q75 = quantile(sorted, 0.75)
	if n < 2 {
		return cs
	}
	cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	if cs.Std == 0 || IsUndefined(cs.Std) {
		return cs
	}
	if n >= 3 {
		cs.Skew = stat.Skew(vals, nil)
	}
	if n >= 4 {
		cs.Kurtosis = stat.ExKurtosis(vals, nil)
	}
	return cs
}
