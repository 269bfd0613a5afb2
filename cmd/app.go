package cmd

import (
	"context"

	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/config"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/tui"
	"github.com/spf13/cobra"
)

// newClient builds the backend client from the loaded configuration
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL,
		api.WithUploadTimeout(cfg.API.UploadTimeout),
		api.WithConnectTimeout(cfg.API.ConnectTimeout),
		api.WithAcceptedExtensions(cfg.Upload.AcceptedExtensions),
	)
}

// templateVariables reads --var pairs
func templateVariables(cmd *cobra.Command) map[string]any {
	pairs, err := cmd.Flags().GetStringToString("var")
	if err != nil || len(pairs) == 0 {
		return nil
	}
	vars := make(map[string]any, len(pairs))
	for k, v := range pairs {
		vars[k] = v
	}
	return vars
}

func runTUI(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Get()

	log := logger.WithComponent("app")
	log.Info("Application starting", "api", cfg.API.BaseURL)

	return tui.StartApp(ctx, tui.AppOptions{
		Client:            newClient(cfg),
		TemplateID:        cfg.Agent.TemplateID,
		TemplateVariables: templateVariables(cmd),
		ShowReasoning:     cfg.UI.ShowReasoning,
		Markdown:          cfg.UI.RenderMarkdown,
		Color:             cfg.UI.Color,
	})
}
