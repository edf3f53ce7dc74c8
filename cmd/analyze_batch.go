package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/report"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abFlags  analysisFlags
	abOutDir string
	abJobs   int
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple datasets concurrently, printing or writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		lopt, err := abFlags.loadOptions(cmd, c)
		if err != nil {
			return err
		}
		ropt, err := abFlags.reportOptions(cmd, c)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		results := make([][]byte, total)
		warnings := make([][]string, total)
		var g errgroup.Group
		jobs := abJobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				b, rep, err := analyzeFile(path, lopt, ropt, abFlags.format)
				if err != nil {
					return err
				}
				results[i], warnings[i] = b, rep.Warnings
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		seen := map[string]int{}
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processed %s\n", i+1, total, filepath.Base(path))
				for _, w := range warnings[i] {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %s\n", filepath.Base(path), w)
				}
			}
			if abOutDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, strings.TrimRight(string(results[i]), "\n"))
				}
				continue
			}
			base := filepath.Base(path)
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			name := utils.UniqueName(stem+".summary"+report.Extension(abFlags.format), seen)
			dest := filepath.Join(abOutDir, name)
			if err := utils.SafeWriteFile(dest, results[i]); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote analysis to %s\n", dest)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.bind(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write <name>.summary.<ext> reports (collisions get __2, __3, ...)")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "files analyzed concurrently (0 = GOMAXPROCS)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
