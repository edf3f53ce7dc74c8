package eda

import (
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotKind names the visualization held by a PlotArtifact.
type PlotKind string

const (
	PlotHistogram PlotKind = "histogram"
	PlotBox       PlotKind = "boxplot"
	PlotBar       PlotKind = "bar"
	PlotHeatmap   PlotKind = "heatmap"
)

// PlotArtifact is an inert plot handed to the caller. Nothing here draws or
// saves it; use Plot.Save or Plot.Draw to render.
type PlotArtifact struct {
	ID     uuid.UUID  `json:"id" yaml:"id"`
	Kind   PlotKind   `json:"kind" yaml:"kind"`
	Column string     `json:"column,omitempty" yaml:"column,omitempty"`
	Title  string     `json:"title" yaml:"title"`
	Plot   *plot.Plot `json:"-" yaml:"-"`
}

func newArtifact(kind PlotKind, column, title string) *PlotArtifact {
	p := plot.New()
	p.Title.Text = title
	return &PlotArtifact{ID: uuid.New(), Kind: kind, Column: column, Title: title, Plot: p}
}

func finiteValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// histogramBins splits [lo, hi] into Sturges' number of equal-width bins.
// A constant sample gets a single unit-wide bin centered on the value.
func histogramBins(vals []float64, lo, hi float64) ([]plotter.HistogramBin, float64) {
	if lo == hi {
		return []plotter.HistogramBin{{Min: lo - 0.5, Max: hi + 0.5, Weight: float64(len(vals))}}, 1
	}
	k := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	width := (hi - lo) / float64(k)
	bins := make([]plotter.HistogramBin, k)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	for _, v := range vals {
		idx := int((v - lo) / width)
		if idx >= k {
			idx = k - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Weight++
	}
	return bins, width
}

func histogramArtifact(column string, vals []float64) *PlotArtifact {
	a := newArtifact(PlotHistogram, column, "Distribution of "+column)
	a.Plot.X.Label.Text = column
	a.Plot.Y.Label.Text = "Count"
	finite := finiteValues(vals)
	if len(finite) == 0 {
		return a
	}
	lo, hi := finite[0], finite[0]
	for _, v := range finite[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	bins, width := histogramBins(finite, lo, hi)
	a.Plot.Add(&plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: color.Gray{Y: 160},
		LineStyle: plotter.DefaultLineStyle,
	})
	return a
}

func boxArtifact(column string, vals []float64) (*PlotArtifact, error) {
	a := newArtifact(PlotBox, column, "Box Plot of "+column)
	a.Plot.Y.Label.Text = column
	finite := finiteValues(vals)
	if len(finite) == 0 {
		return a, nil
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(finite))
	if err != nil {
		return nil, fmt.Errorf("box plot %q: %w", column, err)
	}
	a.Plot.Add(b)
	a.Plot.NominalX(column)
	return a, nil
}

func barArtifact(column string, counts []CategoryCount) (*PlotArtifact, error) {
	a := newArtifact(PlotBar, column, "Distribution of "+column)
	if len(counts) == 0 {
		return a, nil
	}
	vals := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		labels[i] = c.Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("bar plot %q: %w", column, err)
	}
	bars.Color = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	a.Plot.Add(bars)
	a.Plot.NominalX(labels...)
	a.Plot.X.Tick.Label.Rotation = math.Pi / 4
	a.Plot.X.Tick.Label.XAlign = draw.XRight
	return a, nil
}

// corrGrid exposes a square correlation matrix as a plotter.GridXYZ. The
// fixed Min/Max keep the palette centered on zero.
type corrGrid struct{ vals [][]float64 }

func (g corrGrid) Dims() (c, r int)   { return len(g.vals), len(g.vals) }
func (g corrGrid) Z(c, r int) float64 { return g.vals[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Min() float64       { return -1 }
func (g corrGrid) Max() float64       { return 1 }

func heatmapArtifact(columns []string, vals [][]float64) *PlotArtifact {
	if len(columns) == 0 {
		return nil
	}
	a := newArtifact(PlotHeatmap, "", "Correlation Matrix")
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{vals: vals}, cm.Palette(255))
	hm.NaN = color.Gray{Y: 220}
	a.Plot.Add(hm)
	a.Plot.NominalX(columns...)
	a.Plot.NominalY(columns...)
	return a
}
