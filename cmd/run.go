package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/killallgit/entropy/pkg/config"
	"github.com/killallgit/entropy/pkg/headless"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Upload a dataset and run one prompt without the TUI",
	Example: `  entropy run --file orders.csv --prompt "clean the order dates"
  entropy run -f orders.csv -p "summarise" --lineage mermaid`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.MirrorErrorsToStderr(true)

		file, _ := cmd.Flags().GetString("file")
		prompt, _ := cmd.Flags().GetString("prompt")
		format, _ := cmd.Flags().GetString("lineage")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		cfg := config.Get()
		return headless.Run(ctx, newClient(cfg), headless.Options{
			File:              file,
			Prompt:            prompt,
			TemplateID:        cfg.Agent.TemplateID,
			TemplateVariables: templateVariables(cmd),
			Lineage:           headless.LineageFormat(format),
			ShowReasoning:     cfg.UI.ShowReasoning,
			Out:               cmd.OutOrStdout(),
		})
	},
}

func init() {
	formats := make([]string, 0, len(headless.LineageFormats))
	for _, f := range headless.LineageFormats {
		formats = append(formats, string(f))
	}

	runCmd.Flags().StringP("file", "f", "", "dataset to upload (.csv, .parquet, .json)")
	runCmd.Flags().StringP("prompt", "p", "", "instruction for the agent")
	runCmd.Flags().String("lineage", string(headless.LineageText), fmt.Sprintf("lineage output format (%s)", strings.Join(formats, "|")))
	runCmd.MarkFlagRequired("file")
	runCmd.MarkFlagRequired("prompt")
}
