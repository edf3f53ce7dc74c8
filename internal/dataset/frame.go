package dataset

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".json")
}

// Load reads a JSON array of records. Column order and element types are
// the ones gota reports for the records.
func (jsonLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	defer f.Close()
	df := dataframe.ReadJSON(f)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: read json: %v", ErrInvalidInput, df.Err)
	}
	if opt.MaxRows > 0 && df.Nrow() > opt.MaxRows {
		idx := make([]int, opt.MaxRows)
		for i := range idx {
			idx[i] = i
		}
		df = df.Subset(idx)
	}
	t, err := FromDataFrame(df)
	if err != nil {
		return nil, err
	}
	if len(opt.Categories) == 0 {
		return t, nil
	}
	return asCategories(t, opt.Categories)
}

// FromDataFrame converts a gota DataFrame. gota's int and float series map
// to Integer and Float, bool to Boolean and string to Text; NA elements are
// missing.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: dataframe: %v", ErrInvalidInput, df.Err)
	}
	names := df.Names()
	types := df.Types()
	cols := make([]Column, len(names))
	for j, name := range names {
		s := df.Col(name)
		n := s.Len()
		var missing []bool
		markNA := func(i int) {
			if missing == nil {
				missing = make([]bool, n)
			}
			missing[i] = true
		}
		switch types[j] {
		case series.Int, series.Float:
			kind := Float
			if types[j] == series.Int {
				kind = Integer
			}
			nums := make([]float64, n)
			for i := 0; i < n; i++ {
				e := s.Elem(i)
				if e.IsNA() {
					nums[i] = math.NaN()
					markNA(i)
					continue
				}
				nums[i] = e.Float()
			}
			cols[j] = Column{Name: name, Kind: kind, Numbers: nums, Missing: missing}
		case series.Bool:
			bools := make([]bool, n)
			for i := 0; i < n; i++ {
				e := s.Elem(i)
				if e.IsNA() {
					markNA(i)
					continue
				}
				b, err := e.Bool()
				if err != nil {
					return nil, fmt.Errorf("%w: column %q row %d: %v", ErrInvalidInput, name, i, err)
				}
				bools[i] = b
			}
			cols[j] = Column{Name: name, Kind: Boolean, Bools: bools, Missing: missing}
		default:
			strs := make([]string, n)
			for i := 0; i < n; i++ {
				e := s.Elem(i)
				if e.IsNA() {
					markNA(i)
					continue
				}
				strs[i] = e.String()
			}
			cols[j] = Column{Name: name, Kind: Text, Strings: strs, Missing: missing}
		}
	}
	return New(cols...)
}

func asCategories(t *Table, names []string) (*Table, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	cols := t.Columns()
	for i, c := range cols {
		if want[c.Name] && c.Kind == Text {
			c.Kind = Category
			cols[i] = c
		}
	}
	return New(cols...)
}
