package eda

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// DefaultPrefix is prepended to names that do not start with a letter.
const DefaultPrefix = "col"

// Rename records one column whose name changed.
type Rename struct {
	Index int    `json:"index" yaml:"index"`
	Old   string `json:"old" yaml:"old"`
	New   string `json:"new" yaml:"new"`
}

// NormalizeOptions controls NormalizeColumns.
type NormalizeOptions struct {
	// Prefix for names that do not start with a letter. Empty means "col".
	Prefix string
	// OnRename, if set, receives each rename in column order.
	OnRename func(Rename)
}

// NormalizeName applies the per-name rules: lowercase and trim, every rune
// outside [a-z0-9] becomes '_', runs of '_' collapse, leading and trailing
// '_' are stripped, and a name not starting with a letter gets "prefix_".
// An empty result is returned as "" and resolved by NormalizeColumns.
func NormalizeName(name, prefix string) string {
	base := squash(name)
	if base == "" {
		return ""
	}
	if !isLetter(base[0]) {
		base = cleanPrefix(prefix) + "_" + base
	}
	return base
}

func squash(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(strings.ToLower(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// cleanPrefix runs the prefix through the same cleanup and falls back to
// DefaultPrefix when the result is unusable.
func cleanPrefix(prefix string) string {
	p := squash(prefix)
	if p == "" || !isLetter(p[0]) {
		return DefaultPrefix
	}
	return p
}

func isLetter(c byte) bool { return c < unicode.MaxASCII && unicode.IsLetter(rune(c)) }

// NormalizeColumns returns a table with identifier-safe, pairwise distinct
// column names and the list of names that changed. Duplicates are resolved
// in column order: the first occurrence keeps the name, later ones get
// _1, _2, ... and any candidate already taken is skipped. A name that
// cleans to nothing becomes "prefix_<position>" (1-based).
func NormalizeColumns(t *dataset.Table, opt NormalizeOptions) (*dataset.Table, []Rename) {
	old := t.Names()
	names := make([]string, len(old))
	used := make(map[string]bool, len(old))
	next := make(map[string]int, len(old))
	for i, name := range old {
		base := NormalizeName(name, opt.Prefix)
		if base == "" {
			base = cleanPrefix(opt.Prefix) + "_" + strconv.Itoa(i+1)
		}
		if !used[base] {
			names[i] = base
			used[base] = true
			continue
		}
		n := max(next[base], 1)
		cand := base + "_" + strconv.Itoa(n)
		for used[cand] {
			n++
			cand = base + "_" + strconv.Itoa(n)
		}
		next[base] = n + 1
		names[i] = cand
		used[cand] = true
	}

	var renames []Rename
	for i := range old {
		if old[i] == names[i] {
			continue
		}
		r := Rename{Index: i, Old: old[i], New: names[i]}
		renames = append(renames, r)
		if opt.OnRename != nil {
			opt.OnRename(r)
		}
	}
	return t.MapNames(func(i int, _ string) string { return names[i] }), renames
}

// FormatRenames renders the change log, one "old -> new" line per rename.
func FormatRenames(renames []Rename) string {
	var b strings.Builder
	b.WriteString("Column name changes:\n")
	for _, r := range renames {
		b.WriteString(fmt.Sprintf("%-30s -> %s\n", r.Old, r.New))
	}
	return b.String()
}
