package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".xlsx", ".xlsm")
}

// Load reads the selected sheet. If SheetName is empty the 1-based
// SheetIndex picks the sheet (default first). The first row is the header.
func (xlsxLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return New()
	}
	body := rows[1:]
	if opt.MaxRows > 0 && len(body) > opt.MaxRows {
		body = body[:opt.MaxRows]
	}
	return FromRecords(rows[0], body, opt)
}

func pickSheet(sheets []string, name string, index int, book string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook %q has no sheets", ErrInvalidInput, book)
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			ErrInvalidInput, name, book, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("%w: sheet index %d out of range (workbook '%s' has %d sheets)", ErrInvalidInput, index, book, len(sheets))
	}
	return sheets[index-1], nil
}
