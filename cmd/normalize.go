package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/eda"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	normFlags  analysisFlags
	normOutput string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize column names and print the rename log",
	Long: `Lowercases column names, replaces runs of non-alphanumeric characters with
a single underscore, prefixes names that start with a digit and makes every
name unique. With --output the renamed dataset is written as CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		lopt, err := normFlags.loadOptions(cmd, c)
		if err != nil {
			return err
		}
		ropt, err := normFlags.reportOptions(cmd, c)
		if err != nil {
			return err
		}
		t, err := dataset.LoadFile(args[0], lopt)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		renamed, renames := eda.NormalizeColumns(t, eda.NormalizeOptions{Prefix: ropt.ColumnPrefix})

		out := cmd.OutOrStdout()
		if len(renames) == 0 {
			fmt.Fprintln(out, "✓ Column names already normalized")
		} else {
			fmt.Fprint(out, eda.FormatRenames(renames))
		}
		if normOutput == "" {
			return nil
		}
		var buf bytes.Buffer
		if err := dataset.WriteCSV(&buf, renamed); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(normOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote normalized dataset to %s\n", normOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normFlags.bind(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&normOutput, "output", "o", "", "optional CSV path for the renamed dataset")
}
