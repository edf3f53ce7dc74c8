package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/eda"
	"github.com/spf13/cobra"
)

var sumFlags analysisFlags

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print the plain-text dataset summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		lopt, err := sumFlags.loadOptions(cmd, c)
		if err != nil {
			return err
		}
		ropt, err := sumFlags.reportOptions(cmd, c)
		if err != nil {
			return err
		}
		t, err := dataset.LoadFile(args[0], lopt)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		if ropt.Normalize {
			t, _ = eda.NormalizeColumns(t, eda.NormalizeOptions{Prefix: ropt.ColumnPrefix})
		}
		fmt.Fprintln(cmd.OutOrStdout(), eda.GenerateSummary(t))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumFlags.bind(summaryCmd)
}
