package eda

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

func TestAnalyzeMissing(t *testing.T) {
	nan := math.NaN()
	tbl := dataset.MustNew(
		dataset.Floats("a", 1, nan, 3, 4),
		dataset.Texts("b", "x", "", "", "y").WithMissing(1, 2),
		dataset.Integers("c", 1, 2, 3, 4),
		dataset.Booleans("d", true, false, true, true).WithMissing(0),
	)
	rep := AnalyzeMissing(tbl)
	require.Len(t, rep, 4)
	assert.Equal(t, []string{"b", "a", "d", "c"}, []string{rep[0].Column, rep[1].Column, rep[2].Column, rep[3].Column})
	assert.InDelta(t, 50.0, rep[0].Percentage, 1e-12)
	assert.InDelta(t, 25.0, rep[1].Percentage, 1e-12)
	assert.Equal(t, 1, rep[1].Count)
	assert.Equal(t, dataset.Text, rep[0].Kind)
	assert.Equal(t, 0.0, rep[3].Percentage)
	assert.Len(t, rep.WithMissing(), 3)
}

func TestAnalyzeMissingEmptyTable(t *testing.T) {
	rep := AnalyzeMissing(dataset.MustNew(dataset.Floats("a"), dataset.Texts("b")))
	require.Len(t, rep, 2)
	for _, e := range rep {
		assert.Zero(t, e.Percentage)
	}
}

func TestDescribe(t *testing.T) {
	cs := Describe("v", dataset.Integer, []float64{1, 2, 3, 4, 5})
	assert.Equal(t, 5, cs.Count)
	assert.InDelta(t, 3.0, cs.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), cs.Std, 1e-12)
	assert.Equal(t, 1.0, cs.Min)
	assert.Equal(t, 2.0, cs.Q25)
	assert.Equal(t, 3.0, cs.Median)
	assert.Equal(t, 4.0, cs.Q75)
	assert.Equal(t, 5.0, cs.Max)
	assert.InDelta(t, 0.0, cs.Skew, 1e-12)
	assert.InDelta(t, -1.2, cs.Kurtosis, 1e-12)

	skewed := Describe("s", dataset.Float, []float64{1, 2, 3, 10})
	assert.InDelta(t, 1.76363, skewed.Skew, 1e-4)
	assert.InDelta(t, 3.228, skewed.Kurtosis, 1e-4)
}

func TestDescribeUndefined(t *testing.T) {
	empty := Describe("e", dataset.Float, nil)
	assert.Zero(t, empty.Count)
	assert.True(t, IsUndefined(empty.Mean))
	assert.True(t, IsUndefined(empty.Min))
	assert.True(t, IsUndefined(empty.Median))

	one := Describe("o", dataset.Float, []float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.Equal(t, 7.0, one.Q75)
	assert.True(t, IsUndefined(one.Std))

	flat := Describe("f", dataset.Float, []float64{2, 2, 2, 2, 2})
	assert.Equal(t, 0.0, flat.Std)
	assert.True(t, IsUndefined(flat.Skew))
	assert.True(t, IsUndefined(flat.Kurtosis))

	three := Describe("t", dataset.Float, []float64{1, 2, 4})
	assert.False(t, IsUndefined(three.Skew))
	assert.True(t, IsUndefined(three.Kurtosis))
}

func TestAnalyzeNumeric(t *testing.T) {
	nan := math.NaN()
	cols := []dataset.Column{dataset.Texts("label", "a", "b", "c", "d")}
	for i := 0; i < 12; i++ {
		cols = append(cols, dataset.Floats(fmt.Sprintf("f%02d", i), float64(i), float64(i)+1, nan, float64(i)*3))
	}
	cols = append(cols, dataset.Integers("n", 3, 3, 3, 3))
	res, err := AnalyzeNumeric(dataset.MustNew(cols...))
	require.NoError(t, err)
	require.Len(t, res.Stats, 13)
	require.Len(t, res.Plots, 13)
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("f%02d", i)
		assert.Equal(t, name, res.Stats[i].Column)
		assert.Equal(t, 3, res.Stats[i].Count)
		assert.Equal(t, name, res.Plots[i].Column)
		assert.Equal(t, PlotHistogram, res.Plots[i].Histogram.Kind)
		assert.Equal(t, PlotBox, res.Plots[i].BoxPlot.Kind)
		assert.NotNil(t, res.Plots[i].Histogram.Plot)
	}
	last := res.Stats[12]
	assert.Equal(t, dataset.Integer, last.Kind)
	assert.True(t, IsUndefined(last.Skew))
	assert.NotEqual(t, res.Plots[0].Histogram.ID, res.Plots[1].Histogram.ID)
}

func TestDetectOutliersExample(t *testing.T) {
	tbl := dataset.MustNew(dataset.Floats("v", 1, 2, 3, 4, 5, 100), dataset.Texts("s", "a", "b", "c", "d", "e", "f"))
	sets, err := DetectOutliers(tbl, 1.5)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	s := sets[0]
	assert.Equal(t, 2.25, s.Q1)
	assert.Equal(t, 4.75, s.Q3)
	assert.Equal(t, 2.5, s.IQR)
	assert.Equal(t, []OutlierPoint{{Row: 5, Value: 100}}, s.Points)

	sets, err = DetectOutliers(tbl, 50)
	require.NoError(t, err)
	assert.Empty(t, sets[0].Points)
}

func TestDetectOutliersMonotonic(t *testing.T) {
	nan := math.NaN()
	tbl := dataset.MustNew(dataset.Floats("v", -40, 1, 2, nan, 2.5, 3, 3.5, 4, 9, 15, 60, nan))
	prev := math.MaxInt
	for _, k := range []float64{0, 0.5, 1, 1.5, 2, 3, 5, 10, 25} {
		sets, err := DetectOutliers(tbl, k)
		require.NoError(t, err)
		n := len(sets[0].Points)
		assert.LessOrEqual(t, n, prev, "threshold %v", k)
		for _, p := range sets[0].Points {
			assert.NotEqual(t, 3, p.Row)
			assert.NotEqual(t, 11, p.Row)
		}
		prev = n
	}
}

func TestDetectOutliersZeroIQR(t *testing.T) {
	tbl := dataset.MustNew(dataset.Integers("v", 5, 5, 5, 5, 5, 6, 5, 4))
	sets, err := DetectOutliers(tbl, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sets[0].IQR)
	assert.Equal(t, []int{5, 7}, sets[0].Rows())
}

func TestDetectOutliersBadThreshold(t *testing.T) {
	tbl := dataset.MustNew(dataset.Floats("v", 1, 2))
	_, err := DetectOutliers(tbl, -1)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	_, err = DetectOutliers(tbl, math.NaN())
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestAnalyzeCategoricalCollapse(t *testing.T) {
	var vals []string
	for i := 0; i < 25; i++ {
		for n := 0; n < 25-i; n++ {
			vals = append(vals, fmt.Sprintf("c%02d", i))
		}
	}
	res, err := AnalyzeCategorical(dataset.MustNew(dataset.Categories("cat", vals...)), 20)
	require.NoError(t, err)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, 25, res.Columns[0].Distinct())

	collapsed := CollapseCounts(res.Columns[0].Counts, 20)
	require.Len(t, collapsed, 21)
	assert.Equal(t, "c00", collapsed[0].Value)
	assert.Equal(t, "c19", collapsed[19].Value)
	assert.Equal(t, CategoryCount{Value: OthersLabel, Count: 5 + 4 + 3 + 2 + 1}, collapsed[20])
	require.Len(t, res.Plots, 1)
	assert.Equal(t, PlotBar, res.Plots[0].Kind)
}

func TestCountValues(t *testing.T) {
	c := dataset.Texts("t", "b", "a", "", "b", "a", "c", "<missing>").WithMissing(2)
	vc := CountValues(c)
	assert.Equal(t, []CategoryCount{
		{Value: "b", Count: 2},
		{Value: "a", Count: 2},
		{Value: MissingLabel, Count: 1, Missing: true},
		{Value: "c", Count: 1},
		{Value: "<missing>", Count: 1},
	}, vc.Counts)

	bools := CountValues(dataset.Booleans("flag", true, false, true))
	assert.Equal(t, []CategoryCount{{Value: "true", Count: 2}, {Value: "false", Count: 1}}, bools.Counts)
}

func TestAnalyzeCategoricalSelection(t *testing.T) {
	tbl := dataset.MustNew(
		dataset.Floats("x", 1, 2, 3),
		dataset.Texts("t", "a", "b", "a"),
		dataset.Booleans("b", true, true, false),
		dataset.Categories("c", "u", "v", "w"),
	)
	res, err := AnalyzeCategorical(tbl, 0)
	require.NoError(t, err)
	require.Len(t, res.Columns, 3)
	assert.Equal(t, "t", res.Columns[0].Column)
	assert.Equal(t, "b", res.Columns[1].Column)
	assert.Equal(t, "c", res.Columns[2].Column)
	assert.Len(t, CollapseCounts(res.Columns[2].Counts, 0), 3)
}

func TestAnalyzeCorrelations(t *testing.T) {
	nan := math.NaN()
	tbl := dataset.MustNew(
		dataset.Floats("x", 1, 2, 3, 4, 5),
		dataset.Floats("y", nan, 4, 6, 8, 10),
		dataset.Floats("z", 5, 4, 3, 2, 1),
		dataset.Integers("k", 7, 7, 7, 7, 7),
		dataset.Floats("w", 2, 1, 4, 3, 7),
		dataset.Texts("s", "a", "b", "c", "d", "e"),
	)
	res, err := AnalyzeCorrelations(tbl)
	require.NoError(t, err)
	m := res.Matrix
	assert.Equal(t, []string{"x", "y", "z", "k", "w"}, m.Columns)
	assert.InDelta(t, 1.0, m.At("x", "y"), 1e-12)
	assert.InDelta(t, -1.0, m.At("x", "z"), 1e-12)
	assert.True(t, IsUndefined(m.At("x", "k")))
	assert.True(t, IsUndefined(m.At("k", "k")))
	assert.True(t, IsUndefined(m.At("x", "missing")))
	for i := range m.Columns {
		for j := range m.Columns {
			v, u := m.Values[i][j], m.Values[j][i]
			if IsUndefined(v) {
				assert.True(t, IsUndefined(u))
				continue
			}
			assert.Equal(t, v, u)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		if m.Columns[i] != "k" {
			assert.Equal(t, 1.0, m.Values[i][i])
		}
	}
	require.NotNil(t, res.Heatmap)
	assert.Equal(t, PlotHeatmap, res.Heatmap.Kind)
}

func TestAnalyzeCorrelationsNoNumeric(t *testing.T) {
	res, err := AnalyzeCorrelations(dataset.MustNew(dataset.Texts("s", "a")))
	require.NoError(t, err)
	assert.Empty(t, res.Matrix.Columns)
	assert.Nil(t, res.Heatmap)
}

func TestAnalysesDoNotMutateInput(t *testing.T) {
	vals := []float64{3, 1, 2, 100}
	tbl := dataset.MustNew(dataset.Floats("v", vals...))
	_, err := AnalyzeNumeric(tbl)
	require.NoError(t, err)
	_, err = DetectOutliers(tbl, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 100}, tbl.Column(0).Numbers)
}
