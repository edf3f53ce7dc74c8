package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput marks malformed tables and arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyDataset marks a table with zero rows. Analyses do not return it;
	// callers use it to annotate reports.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Kind is the declared element kind of a column.
type Kind int

const (
	Integer Kind = iota
	Float
	Text
	Category
	Boolean
)

var kindNames = [...]string{"integer", "float", "text", "category", "boolean"}

// Kinds lists every kind in declaration order.
func Kinds() []Kind { return []Kind{Integer, Float, Text, Category, Boolean} }

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind maps a kind name (case-insensitive) back to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown column kind %q", ErrInvalidInput, s)
}

// IsNumeric reports whether values live in Column.Numbers.
func (k Kind) IsNumeric() bool {
	switch k {
	case Integer, Float:
		return true
	}
	return false
}

// IsCategorical reports whether the kind is profiled by value counts.
func (k Kind) IsCategorical() bool {
	switch k {
	case Text, Category, Boolean:
		return true
	}
	return false
}

// MarshalText renders the kind name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Column is a named, typed column. Exactly one value slice is populated,
// selected by Kind. A NaN in Numbers is missing, as is any row flagged in
// Missing.
type Column struct {
	Name    string
	Kind    Kind
	Numbers []float64
	Strings []string
	Bools   []bool
	Missing []bool
}

// Floats builds a float column; NaN values are missing.
func Floats(name string, vals ...float64) Column {
	return Column{Name: name, Kind: Float, Numbers: vals}
}

// Integers builds an integer column.
func Integers(name string, vals ...int64) Column {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		nums[i] = float64(v)
	}
	return Column{Name: name, Kind: Integer, Numbers: nums}
}

// Texts builds a free-text column.
func Texts(name string, vals ...string) Column {
	return Column{Name: name, Kind: Text, Strings: vals}
}

// Categories builds a category column.
func Categories(name string, vals ...string) Column {
	return Column{Name: name, Kind: Category, Strings: vals}
}

// Booleans builds a boolean column.
func Booleans(name string, vals ...bool) Column {
	return Column{Name: name, Kind: Boolean, Bools: vals}
}

// WithMissing returns a copy of c with the given rows flagged as missing.
// Out-of-range rows are ignored.
func (c Column) WithMissing(rows ...int) Column {
	n := c.Len()
	mask := make([]bool, n)
	copy(mask, c.Missing)
	for _, r := range rows {
		if r >= 0 && r < n {
			mask[r] = true
		}
	}
	c.Missing = mask
	return c
}

// Len returns the number of rows held by the column's value slice.
func (c Column) Len() int {
	switch {
	case c.Kind.IsNumeric():
		return len(c.Numbers)
	case c.Kind == Boolean:
		return len(c.Bools)
	default:
		return len(c.Strings)
	}
}

// IsMissing reports whether row i has no value.
func (c Column) IsMissing(i int) bool {
	if i < len(c.Missing) && c.Missing[i] {
		return true
	}
	if c.Kind.IsNumeric() {
		return math.IsNaN(c.Numbers[i])
	}
	return false
}

// MissingCount counts rows without a value.
func (c Column) MissingCount() int {
	var n int
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values in row order together
// with their row positions. It returns nil for non-numeric columns.
func (c Column) Present() (vals []float64, rows []int) {
	if !c.Kind.IsNumeric() {
		return nil, nil
	}
	vals = make([]float64, 0, len(c.Numbers))
	rows = make([]int, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if c.IsMissing(i) {
			continue
		}
		vals = append(vals, v)
		rows = append(rows, i)
	}
	return vals, rows
}

// Value renders row i as text. Missing cells render as "".
func (c Column) Value(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch {
	case c.Kind == Integer:
		return strconv.FormatFloat(c.Numbers[i], 'f', 0, 64)
	case c.Kind == Float:
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	case c.Kind == Boolean:
		return strconv.FormatBool(c.Bools[i])
	default:
		return c.Strings[i]
	}
}

func (c Column) validate() error {
	switch {
	case c.Kind.IsNumeric():
		if c.Strings != nil || c.Bools != nil {
			return fmt.Errorf("%w: %s column %q carries non-numeric values", ErrInvalidInput, c.Kind, c.Name)
		}
	case c.Kind == Boolean:
		if c.Numbers != nil || c.Strings != nil {
			return fmt.Errorf("%w: boolean column %q carries non-boolean values", ErrInvalidInput, c.Name)
		}
	case c.Kind == Text || c.Kind == Category:
		if c.Numbers != nil || c.Bools != nil {
			return fmt.Errorf("%w: %s column %q carries non-string values", ErrInvalidInput, c.Kind, c.Name)
		}
	default:
		return fmt.Errorf("%w: column %q has unknown kind %d", ErrInvalidInput, c.Name, int(c.Kind))
	}
	if c.Missing != nil && len(c.Missing) != c.Len() {
		return fmt.Errorf("%w: column %q missing mask has %d rows, values have %d", ErrInvalidInput, c.Name, len(c.Missing), c.Len())
	}
	return nil
}

// Table is an ordered, row-aligned set of columns. A Table is never
// modified after New returns it.
type Table struct {
	cols []Column
	rows int
}

// New validates the columns and builds a Table. All columns must have the
// same length.
func New(cols ...Column) (*Table, error) {
	t := &Table{cols: make([]Column, len(cols))}
	copy(t.cols, cols)
	for i, c := range t.cols {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if i == 0 {
			t.rows = c.Len()
			continue
		}
		if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrInvalidInput, c.Name, c.Len(), t.rows)
		}
	}
	return t, nil
}

// MustNew is New that panics on error; intended for tests and literals.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the row count.
func (t *Table) Len() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Column returns the i-th column. The value slices must be treated as
// read-only.
func (t *Table) Column(i int) Column { return t.cols[i] }

// Columns returns the columns in order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Indexes returns the positions of columns whose kind satisfies keep.
func (t *Table) Indexes(keep func(Kind) bool) []int {
	var out []int
	for i, c := range t.cols {
		if keep(c.Kind) {
			out = append(out, i)
		}
	}
	return out
}

// Rename returns a new table with the given column names. Value slices are
// shared with t.
func (t *Table) Rename(names []string) (*Table, error) {
	if len(names) != len(t.cols) {
		return nil, fmt.Errorf("%w: got %d names for %d columns", ErrInvalidInput, len(names), len(t.cols))
	}
	return t.MapNames(func(i int, _ string) string { return names[i] }), nil
}

// MapNames returns a new table whose i-th column is named f(i, name).
// Value slices are shared with t.
func (t *Table) MapNames(f func(i int, name string) string) *Table {
	out := &Table{cols: make([]Column, len(t.cols)), rows: t.rows}
	for i, c := range t.cols {
		c.Name = f(i, c.Name)
		out.cols[i] = c
	}
	return out
}

// MemoryUsage approximates the table footprint in bytes: 8 per numeric
// cell, 1 per boolean or mask cell, len+16 per string cell and per column
// name.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, c := range t.cols {
		total += int64(len(c.Name)) + 16
		total += int64(len(c.Numbers)) * 8
		total += int64(len(c.Bools))
		total += int64(len(c.Missing))
		for _, s := range c.Strings {
			total += int64(len(s)) + 16
		}
	}
	return total
}
