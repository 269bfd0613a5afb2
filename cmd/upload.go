package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/killallgit/entropy/pkg/config"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a dataset and print where it was stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.MirrorErrorsToStderr(true)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		result, err := newClient(config.Get()).Upload(ctx, args[0])
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.URI)
		return nil
	},
}

func init() {
	uploadCmd.Flags().Bool("json", false, "print the full upload response")
}
