package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// WriteDefaultConfig writes the current configuration values to path,
// preserving settings already present and adding missing defaults.
func WriteDefaultConfig(path string) error {
	if path == "" {
		return fmt.Errorf("config file path not set")
	}

	// Lock creates the directory
	return WithLock(path, DefaultLockConfig(), func() error {
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
		return nil
	})
}
