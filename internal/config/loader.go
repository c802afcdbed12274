package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override file values,
// e.g. RIPPLED_LEDGER_BACKEND for ledger.backend.
const EnvPrefix = "RIPPLED"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file, when configPath is not empty
// 3. Environment variables (RIPPLED_ prefix)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load configuration file
	if configPath != "" {
		if err := loadConfigFile(v, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = configPath

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadConfigFile reads the TOML configuration file
func loadConfigFile(v *viper.Viper, configPath string) error {
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return nil
}

// LoadConfigFromDir loads DefaultFileName from configDir
func LoadConfigFromDir(configDir string) (*Config, error) {
	return LoadConfig(PathFromDir(configDir))
}

// ReloadConfig reloads configuration from the same path
func ReloadConfig(existingConfig *Config) (*Config, error) {
	return LoadConfig(existingConfig.GetConfigPath())
}
