package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/eda"
	"github.com/KaramelBytes/edakit/internal/utils"
)

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Columns))
	b.WriteString(fmt.Sprintf("Memory: %s\n", utils.FormatBytes(r.MemoryBytes)))

	if len(r.Renames) > 0 {
		b.WriteString("\n[COLUMN NAMES]\n")
		for _, rn := range r.Renames {
			b.WriteString(fmt.Sprintf("- %s -> %s\n", safeVal(rn.Old), rn.New))
		}
	}

	if miss := r.Missing.WithMissing(); len(miss) > 0 {
		b.WriteString("\n[MISSING VALUES]\n")
		for _, e := range miss {
			b.WriteString(fmt.Sprintf("- %s (%s): %d missing (%.1f%%)\n", e.Column, e.Kind, e.Count, e.Percentage))
		}
	}

	if r.Numeric != nil && len(r.Numeric.Stats) > 0 {
		b.WriteString("\n[NUMERIC COLUMNS]\n")
		for _, s := range r.Numeric.Stats {
			b.WriteString(fmt.Sprintf("- %s: %s (count %d) — mean %s, std %s, min %s, p25 %s, p50 %s, p75 %s, max %s; skew %s, kurtosis %s\n",
				s.Column, s.Kind, s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Median), num(s.Q75), num(s.Max), num(s.Skew), num(s.Kurtosis)))
		}
	}

	if len(r.Outliers) > 0 {
		b.WriteString(fmt.Sprintf("\n[OUTLIERS] (IQR × %.2g)\n", r.threshold))
		for _, o := range r.Outliers {
			b.WriteString(fmt.Sprintf("- %s: %d outside [%s, %s]", o.Column, len(o.Points), num(o.Lower), num(o.Upper)))
			if len(o.Points) > 0 {
				b.WriteString(" — rows ")
				lim := min(len(o.Points), 8)
				for i := 0; i < lim; i++ {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%d(%s)", o.Points[i].Row, num(o.Points[i].Value)))
				}
				if len(o.Points) > lim {
					b.WriteString(fmt.Sprintf(", … %d more", len(o.Points)-lim))
				}
			}
			b.WriteString("\n")
		}
	}

	if r.Categorical != nil && len(r.Categorical.Columns) > 0 {
		b.WriteString("\n[CATEGORICAL COLUMNS]\n")
		top := r.topValues
		if top <= 0 {
			top = 5
		}
		for _, vc := range r.Categorical.Columns {
			b.WriteString(fmt.Sprintf("- %s: %s", vc.Column, vc.Kind))
			if len(vc.Counts) > 0 {
				b.WriteString(" — top: ")
				lim := min(len(vc.Counts), top)
				for i := 0; i < lim; i++ {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(vc.Counts[i].Value), vc.Counts[i].Count))
				}
				if vc.Distinct() > lim {
					b.WriteString(fmt.Sprintf("; unique=%d", vc.Distinct()))
				}
			}
			b.WriteString("\n")
		}
	}

	if pairs := r.topCorrelations(); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.a, p.b, p.r))
		}
	}

	if plots := r.Plots(); len(plots) > 0 {
		b.WriteString("\n[PLOTS]\n")
		for _, p := range plots {
			b.WriteString(fmt.Sprintf("- %s: %s (%s)\n", p.Kind, p.Title, p.ID))
		}
	}

	if r.Summary != "" {
		b.WriteString("\n[SUMMARY]\n```\n")
		b.WriteString(r.Summary)
		b.WriteString("\n```\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

type corrPair struct {
	a, b string
	r    float64
}

// topCorrelations lists defined off-diagonal pairs by |r|, ties by name.
func (r *Report) topCorrelations() []corrPair {
	if r.Correlation == nil || len(r.Correlation.Matrix.Columns) < 2 {
		return nil
	}
	m := r.Correlation.Matrix
	var pairs []corrPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if eda.IsUndefined(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, corrPair{a: m.Columns[i], b: m.Columns[j], r: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].r), math.Abs(pairs[j].r)
		if ai == aj {
			return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
		}
		return ai > aj
	})
	top := r.topPairs
	if top <= 0 {
		top = 10
	}
	if len(pairs) > top {
		pairs = pairs[:top]
	}
	return pairs
}

func num(v float64) string {
	if eda.IsUndefined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
