package eda

import (
	"runtime"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

const (
	// DefaultMaxCategories is used when maxCategories is not positive.
	DefaultMaxCategories = 20
	// MissingLabel stands in for missing cells in value counts.
	MissingLabel = "<missing>"
	// OthersLabel names the bucket that collapses the tail of a bar plot.
	OthersLabel = "Others"
)

// CategoryCount is one distinct value and its number of occurrences.
type CategoryCount struct {
	Value   string `json:"value" yaml:"value"`
	Count   int    `json:"count" yaml:"count"`
	Missing bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// ValueCounts is the complete value distribution of one column, highest
// count first and ties in order of first appearance.
type ValueCounts struct {
	Column string          `json:"column" yaml:"column"`
	Kind   dataset.Kind    `json:"kind" yaml:"kind"`
	Counts []CategoryCount `json:"counts" yaml:"counts"`
}

// Distinct returns the number of distinct values, the missing sentinel
// included.
func (v ValueCounts) Distinct() int { return len(v.Counts) }

// CategoricalResult is the output of AnalyzeCategorical, in column order.
type CategoricalResult struct {
	Columns []ValueCounts   `json:"columns" yaml:"columns"`
	Plots   []*PlotArtifact `json:"plots" yaml:"plots"`
}

// AnalyzeCategorical counts values of every text, category and boolean
// column and builds one bar plot per column over CollapseCounts.
func AnalyzeCategorical(t *dataset.Table, maxCategories int) (*CategoricalResult, error) {
	if maxCategories <= 0 {
		maxCategories = DefaultMaxCategories
	}
	idx := t.Indexes(dataset.Kind.IsCategorical)
	res := &CategoricalResult{
		Columns: make([]ValueCounts, len(idx)),
		Plots:   make([]*PlotArtifact, len(idx)),
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for slot, ci := range idx {
		slot := slot
		col := t.Column(ci)
		g.Go(func() error {
			vc := CountValues(col)
			bar, err := barArtifact(col.Name, CollapseCounts(vc.Counts, maxCategories))
			if err != nil {
				return err
			}
			res.Columns[slot] = vc
			res.Plots[slot] = bar
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// CountValues tallies the values of one column.
func CountValues(c dataset.Column) ValueCounts {
	pos := map[string]int{}
	var counts []CategoryCount
	for i := 0; i < c.Len(); i++ {
		key, missing := c.Value(i), c.IsMissing(i)
		if missing {
			// keyed apart from any real "<missing>" value
			key = "\x00" + MissingLabel
		}
		p, ok := pos[key]
		if !ok {
			p = len(counts)
			pos[key] = p
			label := key
			if missing {
				label = MissingLabel
			}
			counts = append(counts, CategoryCount{Value: label, Missing: missing})
		}
		counts[p].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return ValueCounts{Column: c.Name, Kind: c.Kind, Counts: counts}
}

// CollapseCounts keeps the first limit entries of a descending count list
// and sums the rest into a trailing Others bucket. The input is not modified.
func CollapseCounts(counts []CategoryCount, limit int) []CategoryCount {
	if limit <= 0 {
		limit = DefaultMaxCategories
	}
	if len(counts) <= limit {
		out := make([]CategoryCount, len(counts))
		copy(out, counts)
		return out
	}
	out := make([]CategoryCount, limit, limit+1)
	copy(out, counts[:limit])
	tail := make(stats.Float64Data, 0, len(counts)-limit)
	for _, c := range counts[limit:] {
		tail = append(tail, float64(c.Count))
	}
	sum, _ := stats.Sum(tail)
	return append(out, CategoryCount{Value: OthersLabel, Count: int(sum)})
}
