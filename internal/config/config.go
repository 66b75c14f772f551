package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/unflat/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Decompile holds decompilation configuration
	Decompile DecompileConfig `mapstructure:"decompile" yaml:"decompile"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Input holds input discovery configuration
	Input InputConfig `mapstructure:"input" yaml:"input"`
}

// DecompileConfig holds configuration for the structuring pass
type DecompileConfig struct {
	// MaxWorkers bounds per-method parallelism; 0 or 1 keeps methods sequential
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`

	// Classes restricts decompilation to the named classes and their ancestry
	Classes []string `mapstructure:"classes" yaml:"classes"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format is one of text, json, yaml, dot
	Format string `mapstructure:"format" yaml:"format"`

	// SortBy orders emitted classes: dependency or name
	SortBy string `mapstructure:"sort_by" yaml:"sort_by"`
}

// InputConfig holds input discovery configuration
type InputConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Decompile: DecompileConfig{
			MaxWorkers: constants.DefaultMaxWorkers,
		},
		Output: OutputConfig{
			Format: constants.DefaultOutputFormat,
			SortBy: "dependency",
		},
		Input: InputConfig{
			IncludePatterns: []string{constants.DefaultIncludePattern},
			ExcludePatterns: []string{},
			Recursive:       true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath == "" {
		return config, nil
	}

	// TOML config files go through the dedicated loader so section
	// handling stays in one place
	if filepath.Ext(configPath) == ".toml" {
		return LoadTomlConfig(configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// findDefaultConfig looks for default configuration files in the
// working directory
func findDefaultConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range constants.ConfigFileNames {
		candidate := filepath.Join(cwd, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Decompile.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must not be negative, got %d", c.Decompile.MaxWorkers)
	}
	if c.Decompile.MaxWorkers > constants.MaxWorkerLimit {
		return fmt.Errorf("max_workers must not exceed %d, got %d", constants.MaxWorkerLimit, c.Decompile.MaxWorkers)
	}
	switch c.Output.Format {
	case "text", "json", "yaml", "dot":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	switch c.Output.SortBy {
	case "", "dependency", "name":
	default:
		return fmt.Errorf("unsupported sort criteria: %s", c.Output.SortBy)
	}
	return nil
}

// SaveConfig writes the configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("decompile", config.Decompile)
	v.Set("output", config.Output)
	v.Set("input", config.Input)

	return v.WriteConfig()
}
