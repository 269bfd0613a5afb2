package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/entropy/pkg/config"
	"github.com/killallgit/entropy/pkg/mockserver"
	"github.com/spf13/cobra"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a scripted backend for local development",
	Long: `Serves the upload and agent endpoints under /api/v1 with a canned
analysis run, so the client can be exercised without the real agent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		delay := config.Get().Mock.Delay
		if cmd.Flags().Changed("delay") {
			delay, _ = cmd.Flags().GetDuration("delay")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "mock backend listening on http://%s%s\n", displayAddr(addr), mockserver.BasePath)
		return mockserver.New(mockserver.WithDelay(delay)).ListenAndServe(ctx, addr)
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	mockServerCmd.Flags().String("addr", ":8000", "listen address")
	mockServerCmd.Flags().Duration("delay", 0, "pause between streamed events (default from mock.delay)")
}
