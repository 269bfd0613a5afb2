package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Agent   AgentConfig   `mapstructure:"agent"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Mock    MockConfig    `mapstructure:"mock"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UploadTimeout     time.Duration `mapstructure:"-"`
	UploadTimeoutStr  string        `mapstructure:"upload_timeout"`
	ConnectTimeout    time.Duration `mapstructure:"-"`
	ConnectTimeoutStr string        `mapstructure:"connect_timeout"`
}

// UploadConfig holds local validation rules for dataset files
type UploadConfig struct {
	AcceptedExtensions []string `mapstructure:"accepted_extensions"`
}

// AgentConfig holds options forwarded with every run request
type AgentConfig struct {
	TemplateID string `mapstructure:"template_id"`
}

// UIConfig holds presentation toggles
type UIConfig struct {
	ShowReasoning  bool `mapstructure:"show_reasoning"`
	RenderMarkdown bool `mapstructure:"render_markdown"`
	Color          bool `mapstructure:"color"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// MockConfig holds settings of the scripted backend
type MockConfig struct {
	Delay    time.Duration `mapstructure:"-"`
	DelayStr string        `mapstructure:"delay"`
}

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// IsLoaded reports whether Load has completed successfully
func IsLoaded() bool {
	return cfg != nil
}

// Load loads configuration from file, .env and environment
func Load(cfgFile string) (*Config, error) {
	// A missing .env is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.entropy")
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "entropy"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("ENTROPY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Post-process durations (viper doesn't handle time.Duration directly)
	if err := processDurations(loaded); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	loaded.Upload.AcceptedExtensions = normalizeExtensions(loaded.Upload.AcceptedExtensions)
	loaded.API.BaseURL = strings.TrimRight(loaded.API.BaseURL, "/")

	cfg = loaded
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8000/api/v1")
	viper.SetDefault("api.upload_timeout", "60s")
	viper.SetDefault("api.connect_timeout", "10s")

	viper.SetDefault("upload.accepted_extensions", []string{".csv", ".parquet", ".json"})

	viper.SetDefault("agent.template_id", "")

	viper.SetDefault("ui.show_reasoning", false)
	viper.SetDefault("ui.render_markdown", true)
	viper.SetDefault("ui.color", true)

	viper.SetDefault("logging.log_file", "./.entropy/system.log")
	viper.SetDefault("logging.preserve", true)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("mock.delay", "250ms")
}

func processDurations(c *Config) error {
	var err error
	if c.API.UploadTimeout, err = parseDuration("api.upload_timeout", c.API.UploadTimeoutStr); err != nil {
		return err
	}
	if c.API.ConnectTimeout, err = parseDuration("api.connect_timeout", c.API.ConnectTimeoutStr); err != nil {
		return err
	}
	if c.Mock.Delay, err = parseDuration("mock.delay", c.Mock.DelayStr); err != nil {
		return err
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
