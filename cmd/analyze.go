package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/report"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

// analysisFlags are the load and report flags shared by analyze and
// analyze-batch. Unset flags fall back to the config.
type analysisFlags struct {
	delimiter     string
	decimal       string
	thousands     string
	maxRows       int
	sheetName     string
	sheetIndex    int
	categories    []string
	outlierThr    float64
	maxCategories int
	prefix        string
	noNormalize   bool
	format        string
}

func (f *analysisFlags) bind(c *cobra.Command) {
	c.Flags().StringVarP(&f.format, "format", "f", "markdown", "output format: markdown | json | yaml")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().StringSliceVar(&f.categories, "categories", nil, "columns to treat as categorical (repeatable, comma-separated)")
	c.Flags().Float64Var(&f.outlierThr, "outlier-threshold", 1.5, "IQR multiplier for outlier fences")
	c.Flags().IntVar(&f.maxCategories, "max-categories", 20, "categories shown per bar plot before collapsing into Others")
	c.Flags().StringVar(&f.prefix, "prefix", "col", "prefix for column names that normalize to nothing")
	c.Flags().BoolVar(&f.noNormalize, "no-normalize", false, "keep column names as loaded")
}

func (f *analysisFlags) loadOptions(c *cobra.Command, g *cfgpkg.Global) (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	opt.MaxRows = g.MaxRows
	if c.Flags().Changed("max-rows") {
		opt.MaxRows = f.maxRows
	}
	if f.delimiter != "" {
		switch f.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|", "pipe":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
		}
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	opt.Categories = f.categories
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	return opt, nil
}

func (f *analysisFlags) reportOptions(c *cobra.Command, g *cfgpkg.Global) (report.Options, error) {
	opt := report.DefaultOptions()
	opt.Normalize = !f.noNormalize
	if g.ColumnPrefix != "" {
		opt.ColumnPrefix = g.ColumnPrefix
	}
	if c.Flags().Changed("prefix") {
		opt.ColumnPrefix = f.prefix
	}
	if g.MaxCategories > 0 {
		opt.MaxCategories = g.MaxCategories
	}
	if c.Flags().Changed("max-categories") {
		opt.MaxCategories = f.maxCategories
	}
	if g.OutlierThreshold > 0 {
		opt.OutlierThreshold = g.OutlierThreshold
	}
	if c.Flags().Changed("outlier-threshold") {
		if f.outlierThr < 0 {
			return opt, fmt.Errorf("invalid --outlier-threshold: %v (must be >= 0)", f.outlierThr)
		}
		opt.OutlierThreshold = f.outlierThr
	}
	switch strings.ToLower(f.format) {
	case "markdown", "md", "json", "yaml", "yml":
	default:
		return opt, fmt.Errorf("unsupported --format: %s (use markdown, json or yaml)", f.format)
	}
	return opt, nil
}

// analyzeFile loads path and renders its report in the requested format.
func analyzeFile(path string, lopt dataset.LoadOptions, ropt report.Options, format string) ([]byte, *report.Report, error) {
	t, err := dataset.LoadFile(path, lopt)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	rep, err := report.Build(filepath.Base(path), t, ropt)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	out, err := rep.Render(format)
	if err != nil {
		return nil, nil, err
	}
	return out, rep, nil
}

var (
	anaFlags      analysisFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a CSV/TSV/XLSX/JSON dataset and print a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		lopt, err := anaFlags.loadOptions(cmd, c)
		if err != nil {
			return err
		}
		ropt, err := anaFlags.reportOptions(cmd, c)
		if err != nil {
			return err
		}
		out, rep, err := analyzeFile(args[0], lopt, ropt, anaFlags.format)
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", w)
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.bind(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
