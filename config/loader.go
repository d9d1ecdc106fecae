package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".importsmoke"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for importsmoke settings.
const envPrefix = "IMPORTSMOKE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Load reads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in repoRoot and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath, repoRoot string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		if repoRoot != "" {
			v.AddConfigPath(repoRoot)
		}

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("output.imports", DefaultImportsPath)
	v.SetDefault("output.test", DefaultTestPath)
	v.SetDefault("discovery.ignore", []string{})
	v.SetDefault("discovery.source_prefix", DefaultSourcePrefix)
	v.SetDefault("parser", DefaultParser)
}
