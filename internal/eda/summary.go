package eda

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

const summarySample = 5

// GenerateSummary renders a plain-text overview of the table: shape, column
// count per kind, approximate memory in MB (MemoryUsage / 1024^2) and up to
// five column names per kind. Kinds are listed by column count, ties in
// kind declaration order, so the text is stable for a given table.
func GenerateSummary(t *dataset.Table) string {
	byKind := map[dataset.Kind][]string{}
	for _, c := range t.Columns() {
		byKind[c.Kind] = append(byKind[c.Kind], c.Name)
	}
	var kinds []dataset.Kind
	for _, k := range dataset.Kinds() {
		if len(byKind[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.SliceStable(kinds, func(i, j int) bool { return len(byKind[kinds[i]]) > len(byKind[kinds[j]]) })

	lines := []string{
		"=== DATASET SUMMARY ===",
		fmt.Sprintf("Number of rows: %d", t.Len()),
		fmt.Sprintf("Number of columns: %d", t.NumCols()),
		"",
		"=== COLUMN TYPES ===",
	}
	for _, k := range kinds {
		lines = append(lines, fmt.Sprintf("%s: %d columns", k, len(byKind[k])))
	}
	mb := float64(t.MemoryUsage()) / (1024 * 1024)
	lines = append(lines, "", fmt.Sprintf("Memory Usage: %.2f MB", mb), "", "=== COLUMNS BY TYPE ===")
	for _, k := range kinds {
		names := byKind[k]
		shown := names
		if len(shown) > summarySample {
			shown = shown[:summarySample]
		}
		lines = append(lines, "", k.String()+":", strings.Join(shown, ", "))
		if rest := len(names) - len(shown); rest > 0 {
			lines = append(lines, fmt.Sprintf("... and %d more", rest))
		}
	}
	return strings.Join(lines, "\n")
}
