package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/edakit/internal/ingest"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch [file-id]",
	Short: "Download a shared drive file (defaults to drive.file_id)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		fileID := c.Drive.FileID
		if len(args) == 1 {
			fileID = args[0]
		}
		output := c.Drive.OutputPath
		if fetchOutput != "" {
			output = fetchOutput
		}
		n, err := newDownloader(c).Download(cmd.Context(), fileID, output)
		if err != nil {
			var rl *ingest.RateLimitError
			if errors.As(err, &rl) && rl.RetryAfter > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Rate limited; retry after %s\n", rl.RetryAfter)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Downloaded %s to %s\n", utils.FormatBytes(n), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "destination path (default drive.output_path)")
}
