package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/ingest"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [source] [destination]",
	Short: "Copy a local dataset into the data directory (defaults to local.source and local.destination)",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		src, dst := c.Local.Source, c.Local.Destination
		if len(args) > 0 {
			src = args[0]
		}
		if len(args) > 1 {
			dst = args[1]
		}
		n, err := ingest.CopyLocal(src, dst)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Copied %s to %s\n", utils.FormatBytes(n), dst)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
