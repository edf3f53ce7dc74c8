package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/edakit/internal/ingest"
	"github.com/KaramelBytes/edakit/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runParams []string
	runList   bool
)

var runPipelineCmd = &cobra.Command{
	Use:   "run [pipeline]",
	Short: "Run a named import pipeline (default: __default__)",
	Long: `Runs a registered pipeline with parameters taken from the config
(drive.file_id, drive.output_path, local.source, local.destination).
--param key=value overrides a single parameter.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		reg := pipeline.Default(newDownloader(c), ingest.CopyLocal, slog.Default())
		if runList {
			for _, n := range reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		}
		params := pipeline.Params{
			pipeline.ParamDriveFileID:      c.Drive.FileID,
			pipeline.ParamDriveOutputPath:  c.Drive.OutputPath,
			pipeline.ParamLocalSource:      c.Local.Source,
			pipeline.ParamLocalDestination: c.Local.Destination,
		}
		for _, kv := range runParams {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return fmt.Errorf("invalid --param %q (want key=value)", kv)
			}
			params[strings.TrimSpace(k)] = v
		}
		name := pipeline.DefaultName
		if len(args) == 1 {
			name = args[0]
		}
		if err := reg.Run(cmd.Context(), name, params); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pipeline %s completed\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runPipelineCmd)
	runPipelineCmd.Flags().StringArrayVar(&runParams, "param", nil, "override a pipeline parameter as key=value (repeatable)")
	runPipelineCmd.Flags().BoolVar(&runList, "list", false, "list registered pipelines and exit")
}
