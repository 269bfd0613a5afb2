package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/entropy/pkg/config"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "entropy",
	Short: "Terminal client for the Entropy Refinery analysis agent",
	Long: `Upload a dataset, ask the analysis agent about it and watch its
reasoning, tool calls and data lineage as they stream in.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .entropy/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("api-url", "", "backend base URL (default http://localhost:8000/api/v1)")
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	rootCmd.PersistentFlags().StringP("template", "t", "", "prompt template id sent with every run")
	viper.BindPFlag("agent.template_id", rootCmd.PersistentFlags().Lookup("template"))

	rootCmd.PersistentFlags().StringToString("var", nil, "template variable as key=value (repeatable)")

	rootCmd.PersistentFlags().Bool("show-reasoning", false, "expand the agent's reasoning blocks")
	viper.BindPFlag("ui.show_reasoning", rootCmd.PersistentFlags().Lookup("show-reasoning"))

	rootCmd.AddCommand(runCmd, uploadCmd, mockServerCmd, configCmd)
}

func initConfig() error {
	if _, err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("Using config file: %s", viper.ConfigFileUsed())
	return nil
}
