package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDataFrameMapsSeriesTypes(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "count"),
		series.New([]float64{0.5, 1.5, 2.5}, series.Float, "ratio"),
		series.New([]bool{true, false, true}, series.Bool, "flag"),
		series.New([]string{"a", "NaN", "c"}, series.String, "label"),
	)
	tbl, err := FromDataFrame(df)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	byName := map[string]Column{}
	for _, c := range tbl.Columns() {
		byName[c.Name] = c
	}
	assert.Equal(t, Integer, byName["count"].Kind)
	assert.Equal(t, []float64{1, 2, 3}, byName["count"].Numbers)
	assert.Equal(t, Float, byName["ratio"].Kind)
	assert.Equal(t, Boolean, byName["flag"].Kind)
	assert.Equal(t, Text, byName["label"].Kind)
	assert.True(t, byName["label"].IsMissing(1))
}

func TestLoadJSONRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	body := `[{"city":"Oslo","temp":3.5},{"city":"Lima","temp":19.0},{"city":"Oslo","temp":4.0}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	opt := DefaultLoadOptions()
	opt.Categories = []string{"city"}
	tbl, err := LoadFile(path, opt)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.ElementsMatch(t, []string{"city", "temp"}, tbl.Names())
	for _, c := range tbl.Columns() {
		switch c.Name {
		case "city":
			assert.Equal(t, Category, c.Kind)
		case "temp":
			assert.Equal(t, Float, c.Kind)
		}
	}
}
