// Package report runs every analysis over a table and renders the results.
package report

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/eda"
)

// Options controls which analyses run and how they are parameterized.
type Options struct {
	// Normalize renames columns before analysis.
	Normalize bool
	// ColumnPrefix is passed to the normalizer.
	ColumnPrefix string
	// MaxCategories bounds bar plots; the value counts stay complete.
	MaxCategories int
	// OutlierThreshold is the IQR multiplier.
	OutlierThreshold float64
	// TopValues limits how many categories the Markdown lists per column.
	TopValues int
	// TopPairs limits how many correlation pairs the Markdown lists.
	TopPairs int
}

// DefaultOptions returns reasonable defaults for a report.
func DefaultOptions() Options {
	return Options{
		Normalize:        true,
		ColumnPrefix:     eda.DefaultPrefix,
		MaxCategories:    eda.DefaultMaxCategories,
		OutlierThreshold: eda.DefaultOutlierThreshold,
		TopValues:        5,
		TopPairs:         10,
	}
}

// Report bundles every analysis of one table.
type Report struct {
	Name        string                 `json:"name" yaml:"name"`
	Rows        int                    `json:"rows" yaml:"rows"`
	Columns     int                    `json:"columns" yaml:"columns"`
	MemoryBytes int64                  `json:"memory_bytes" yaml:"memory_bytes"`
	Renames     []eda.Rename           `json:"renames,omitempty" yaml:"renames,omitempty"`
	Missing     eda.MissingReport      `json:"missing" yaml:"missing"`
	Numeric     *eda.NumericResult     `json:"numeric" yaml:"numeric"`
	Categorical *eda.CategoricalResult `json:"categorical" yaml:"categorical"`
	Correlation *eda.CorrelationResult `json:"correlation" yaml:"correlation"`
	Outliers    []eda.OutlierSet       `json:"outliers" yaml:"outliers"`
	Summary     string                 `json:"summary" yaml:"summary"`
	Warnings    []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	threshold float64
	topValues int
	topPairs  int
}

// Build runs normalization (optional) and the six analyses over t.
func Build(name string, t *dataset.Table, opt Options) (*Report, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", dataset.ErrInvalidInput)
	}
	r := &Report{Name: name, threshold: opt.OutlierThreshold, topValues: opt.TopValues, topPairs: opt.TopPairs}
	if opt.Normalize {
		t, r.Renames = eda.NormalizeColumns(t, eda.NormalizeOptions{Prefix: opt.ColumnPrefix})
	}
	r.Rows, r.Columns, r.MemoryBytes = t.Len(), t.NumCols(), t.MemoryUsage()
	if t.Len() == 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: statistics are undefined", dataset.ErrEmptyDataset))
	}

	var err error
	r.Missing = eda.AnalyzeMissing(t)
	if r.Numeric, err = eda.AnalyzeNumeric(t); err != nil {
		return nil, fmt.Errorf("numeric analysis: %w", err)
	}
	if r.Categorical, err = eda.AnalyzeCategorical(t, opt.MaxCategories); err != nil {
		return nil, fmt.Errorf("categorical analysis: %w", err)
	}
	if r.Correlation, err = eda.AnalyzeCorrelations(t); err != nil {
		return nil, fmt.Errorf("correlation analysis: %w", err)
	}
	if r.Outliers, err = eda.DetectOutliers(t, opt.OutlierThreshold); err != nil {
		return nil, fmt.Errorf("outlier detection: %w", err)
	}
	r.Summary = eda.GenerateSummary(t)

	limit := opt.MaxCategories
	if limit <= 0 {
		limit = eda.DefaultMaxCategories
	}
	for _, vc := range r.Categorical.Columns {
		if vc.Distinct() > limit {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %d distinct values, bar plot collapsed to top %d + %s", vc.Column, vc.Distinct(), limit, eda.OthersLabel))
		}
	}
	return r, nil
}

// Plots lists every artifact in report order: distributions, bars, heatmap.
func (r *Report) Plots() []*eda.PlotArtifact {
	var out []*eda.PlotArtifact
	if r.Numeric != nil {
		for _, p := range r.Numeric.Plots {
			out = append(out, p.Histogram, p.BoxPlot)
		}
	}
	if r.Categorical != nil {
		out = append(out, r.Categorical.Plots...)
	}
	if r.Correlation != nil && r.Correlation.Heatmap != nil {
		out = append(out, r.Correlation.Heatmap)
	}
	return out
}

// YAML renders the report; undefined statistics appear as .nan.
func (r *Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// Render dispatches on an output format name: markdown (md), json or yaml (yml).
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return []byte(r.Markdown()), nil
	case "json":
		return r.JSON()
	case "yaml", "yml":
		return r.YAML()
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use markdown, json or yaml)", dataset.ErrInvalidInput, format)
	}
}

// Extension returns the file extension for a format name.
func Extension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return ".json"
	case "yaml", "yml":
		return ".yaml"
	default:
		return ".md"
	}
}
