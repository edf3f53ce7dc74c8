package dataset

import (
	"fmt"
	"os"
	"strings"
)

// LoadOptions controls how a file becomes a Table.
type LoadOptions struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Categories names columns to load with the category kind instead of text.
	Categories []string
	// XLSX sheet selection: by name, else by 1-based index (default 1).
	SheetName  string
	SheetIndex int
}

// DefaultLoadOptions returns reasonable defaults for loading.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000, SheetIndex: 1}
}

// Loader turns a file on disk into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader based on filename and loads the table.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: no loader for %s", ErrUnsupported, path)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

// ErrUnsupported indicates a file format without a loader.
var ErrUnsupported = fmt.Errorf("%w: unsupported dataset format", ErrInvalidInput)

func hasSuffixFold(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}
