package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harvestRows = []string{
	"Plot ID;Alpha (%);Moisture;Variety;Organic;Note",
	"1;12,5%;74;Cascade;true;first",
	"2;11,8%;71;Cascade;false;",
	"3;NA;68;Centennial;TRUE;third",
	"4;10,2%;1.070;Citra;false;fourth",
}

func TestReadCSVInfersKinds(t *testing.T) {
	opt := DefaultLoadOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	opt.Categories = []string{"variety"}

	tbl, err := ReadCSV(strings.NewReader(strings.Join(harvestRows, "\n")), ';', opt)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())
	require.Equal(t, []string{"Plot ID", "Alpha (%)", "Moisture", "Variety", "Organic", "Note"}, tbl.Names())

	kinds := make([]Kind, tbl.NumCols())
	for i, c := range tbl.Columns() {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []Kind{Integer, Float, Integer, Category, Boolean, Text}, kinds)

	alpha := tbl.Column(1)
	assert.InDelta(t, 12.5, alpha.Numbers[0], 1e-9)
	assert.True(t, alpha.IsMissing(2))
	assert.True(t, math.IsNaN(alpha.Numbers[2]))

	assert.Equal(t, []float64{74, 71, 68, 1070}, tbl.Column(2).Numbers)
	assert.Equal(t, []bool{true, false, true, false}, tbl.Column(4).Bools)

	note := tbl.Column(5)
	assert.True(t, note.IsMissing(1))
	assert.Equal(t, 1, note.MissingCount())
}

func TestReadCSVPadsShortRowsAndHonorsMaxRows(t *testing.T) {
	in := "a,b\n1,x\n2\n3,z\n"
	opt := DefaultLoadOptions()
	opt.MaxRows = 2
	tbl, err := ReadCSV(strings.NewReader(in), ',', opt)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Column(1).IsMissing(1))
}

func TestReadCSVEmptyInput(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), ',', DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumCols())
	assert.Equal(t, 0, tbl.Len())
}

func TestReadCSVAllMissingColumnIsFloat(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1,\n2,NA\n"), ',', DefaultLoadOptions())
	require.NoError(t, err)
	b := tbl.Column(1)
	assert.Equal(t, Float, b.Kind)
	assert.Equal(t, 2, b.MissingCount())
}

func TestLoadFileDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "hops.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("\ufeffname\tqty\nx\t1\ny\t2\n"), 0o644))

	tbl, err := LoadFile(tsv, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, tbl.Names())
	assert.Equal(t, Integer, tbl.Column(1).Kind)

	other := filepath.Join(dir, "notes.parquet")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	_, err = LoadFile(other, DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), DefaultLoadOptions())
	assert.Error(t, err)
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		dec  rune
		thou rune
		want float64
		ok   bool
	}{
		{"1.234,5", 0, 0, 1234.5, true},
		{"1,234.5", 0, 0, 1234.5, true},
		{"0,75", 0, 0, 0.75, true},
		{"42%", 0, 0, 42, true},
		{"1 000", '.', ' ', 1000, true},
		{"abc", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, c := range cases {
		opt := LoadOptions{DecimalSeparator: c.dec, ThousandsSeparator: c.thou}
		got, _, ok := parseNumeric(c.in, opt)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := MustNew(
		Integers("id", 1, 2, 3),
		Floats("score", 0.5, math.NaN(), 2),
		Texts("name", "a,b", "c", "d"),
		Booleans("ok", true, false, true).WithMissing(1),
	)
	var b strings.Builder
	require.NoError(t, WriteCSV(&b, tbl))
	assert.Equal(t, "id,score,name,ok\n1,0.5,\"a,b\",true\n2,,c,\n3,2,d,true\n", b.String())

	back, err := ReadCSV(strings.NewReader(b.String()), ',', LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), back.Names())
	assert.Equal(t, 1, back.Column(1).MissingCount())
}

func TestReadCSVInfinityIsNotNumeric(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("x,y\n1,inf\n2,-Infinity\n3,4\n"), ',', LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, Integer, tbl.Column(0).Kind)
	assert.Equal(t, Text, tbl.Column(1).Kind)
	for _, s := range []string{"inf", "+Inf", "-infinity"} {
		_, _, ok := parseNumeric(s, LoadOptions{})
		assert.False(t, ok, s)
	}
}
