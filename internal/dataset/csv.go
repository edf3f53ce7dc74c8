package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".csv", ".tsv", ".txt")
}

func (csvLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadCSV(f, delim, opt)
}

// ReadCSV reads a header row followed by records and infers column kinds.
func ReadCSV(r io.Reader, delim rune, opt LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if delim != 0 {
		cr.Comma = delim
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	var rows [][]string
	for len(rows) < maxRows {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return FromRecords(header, rows, opt)
}

// FromRecords builds a Table from a header and string records. Short
// records are padded with missing cells; extra fields are dropped. Each
// column's kind is the narrowest of boolean, integer, float that fits every
// present value, else text (or category when named in opt.Categories).
func FromRecords(header []string, rows [][]string, opt LoadOptions) (*Table, error) {
	forced := make(map[string]bool, len(opt.Categories))
	for _, name := range opt.Categories {
		forced[strings.ToLower(strings.TrimSpace(name))] = true
	}
	cols := make([]Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = strings.TrimSpace(rec[j])
			}
		}
		cols[j] = inferColumn(name, raw, forced[strings.ToLower(strings.TrimSpace(name))], opt)
	}
	return New(cols...)
}

// WriteCSV writes t as a header row followed by one record per row. Missing
// cells are written empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.Len(); i++ {
		for j := range rec {
			rec[j] = t.Column(j).Value(i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// missingTokens are cell values read as "no value".
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true, "none": true, "#n/a": true,
}

func isMissingToken(s string) bool { return missingTokens[strings.ToLower(s)] }

func inferColumn(name string, raw []string, category bool, opt LoadOptions) Column {
	var missing []bool
	mark := func(i int) {
		if missing == nil {
			missing = make([]bool, len(raw))
		}
		missing[i] = true
	}
	for i, v := range raw {
		if isMissingToken(v) {
			mark(i)
		}
	}
	isMiss := func(i int) bool { return missing != nil && missing[i] }

	if category {
		return Column{Name: name, Kind: Category, Strings: presentStrings(raw, isMiss), Missing: missing}
	}

	allBool, allNum, allInt := true, true, true
	present := 0
	nums := make([]float64, len(raw))
	for i, v := range raw {
		if isMiss(i) {
			nums[i] = math.NaN()
			continue
		}
		present++
		if allBool {
			lv := strings.ToLower(v)
			allBool = lv == "true" || lv == "false"
		}
		if allNum {
			x, norm, ok := parseNumeric(v, opt)
			if !ok {
				allNum = false
				allInt = false
				continue
			}
			nums[i] = x
			if allInt && !isIntegral(x, norm) {
				allInt = false
			}
		}
	}

	switch {
	case present == 0:
		// Nothing to infer from; a column of missing values reads as float.
		return Column{Name: name, Kind: Float, Numbers: nums, Missing: missing}
	case allBool:
		bools := make([]bool, len(raw))
		for i, v := range raw {
			bools[i] = !isMiss(i) && strings.EqualFold(v, "true")
		}
		return Column{Name: name, Kind: Boolean, Bools: bools, Missing: missing}
	case allNum && allInt:
		return Column{Name: name, Kind: Integer, Numbers: nums, Missing: missing}
	case allNum:
		return Column{Name: name, Kind: Float, Numbers: nums, Missing: missing}
	default:
		return Column{Name: name, Kind: Text, Strings: presentStrings(raw, isMiss), Missing: missing}
	}
}

func presentStrings(raw []string, isMiss func(int) bool) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		if !isMiss(i) {
			out[i] = v
		}
	}
	return out
}

func isIntegral(x float64, norm string) bool {
	if strings.ContainsAny(norm, ".eE") {
		return false
	}
	return x == math.Trunc(x) && math.Abs(x) < 1<<53
}

func sniffDelimiter(path string) rune {
	if hasSuffixFold(path, ".tsv") {
		return '\t'
	}
	// Default to comma; the extension is the only hint taken to avoid reading twice.
	return ','
}

// parseNumeric parses s honoring the decimal/thousands options and returns
// the value together with the normalized literal that was parsed.
func parseNumeric(s string, opt LoadOptions) (float64, string, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", false
	}
	return f, raw, true
}
