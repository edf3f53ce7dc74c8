package eda

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

func TestGenerateSummary(t *testing.T) {
	cols := []dataset.Column{
		dataset.Integers("id", 1, 2),
		dataset.Categories("group", "a", "b"),
	}
	for i := 0; i < 7; i++ {
		cols = append(cols, dataset.Floats(fmt.Sprintf("m%d", i), 0.5, 1.5))
	}
	tbl := dataset.MustNew(cols...)

	want := `=== DATASET SUMMARY ===
Number of rows: 2
Number of columns: 9

=== COLUMN TYPES ===
float: 7 columns
integer: 1 columns
category: 1 columns

Memory Usage: 0.00 MB

=== COLUMNS BY TYPE ===

float:
m0, m1, m2, m3, m4
... and 2 more

integer:
id

category:
group`
	got := GenerateSummary(tbl)
	assert.Equal(t, want, got)
	assert.Equal(t, got, GenerateSummary(tbl))
}

func TestGenerateSummaryEmpty(t *testing.T) {
	got := GenerateSummary(dataset.MustNew())
	assert.Contains(t, got, "Number of rows: 0")
	assert.Contains(t, got, "Number of columns: 0")
	assert.Contains(t, got, "Memory Usage: 0.00 MB")
}

func TestHistogramBins(t *testing.T) {
	bins, width := histogramBins([]float64{3, 3, 3}, 3, 3)
	assert.Equal(t, 1.0, width)
	assert.Len(t, bins, 1)
	assert.Equal(t, 3.0, bins[0].Weight)

	bins, width = histogramBins([]float64{0, 1, 2, 3, 4, 5, 6, 8}, 0, 8)
	assert.Len(t, bins, 4)
	assert.Equal(t, 2.0, width)
	var total float64
	for _, b := range bins {
		total += b.Weight
	}
	assert.Equal(t, 8.0, total)
	assert.Equal(t, 2.0, bins[3].Weight)
}
