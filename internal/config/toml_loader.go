package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TomlConfig represents the structure of .unflat.toml
type TomlConfig struct {
	Decompile TomlDecompileConfig `toml:"decompile"`
	Output    TomlOutputConfig    `toml:"output"`
	Input     TomlInputConfig     `toml:"input"`
}

// TomlDecompileConfig is the [decompile] section
type TomlDecompileConfig struct {
	MaxWorkers *int     `toml:"max_workers"` // pointer to detect unset
	Classes    []string `toml:"classes"`
}

// TomlOutputConfig is the [output] section
type TomlOutputConfig struct {
	Format string `toml:"format"`
	SortBy string `toml:"sort_by"`
}

// TomlInputConfig is the [input] section
type TomlInputConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"` // pointer to detect unset
}

// LoadTomlConfig reads a TOML configuration file and merges it over the
// defaults. Unset sections keep their default values.
func LoadTomlConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tomlConfig TomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}

	config := DefaultConfig()
	tomlConfig.applyTo(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// applyTo copies every explicitly set TOML value onto config
func (t *TomlConfig) applyTo(config *Config) {
	if t.Decompile.MaxWorkers != nil {
		config.Decompile.MaxWorkers = *t.Decompile.MaxWorkers
	}
	if len(t.Decompile.Classes) > 0 {
		config.Decompile.Classes = t.Decompile.Classes
	}
	if t.Output.Format != "" {
		config.Output.Format = t.Output.Format
	}
	if t.Output.SortBy != "" {
		config.Output.SortBy = t.Output.SortBy
	}
	if len(t.Input.IncludePatterns) > 0 {
		config.Input.IncludePatterns = t.Input.IncludePatterns
	}
	if len(t.Input.ExcludePatterns) > 0 {
		config.Input.ExcludePatterns = t.Input.ExcludePatterns
	}
	if t.Input.Recursive != nil {
		config.Input.Recursive = *t.Input.Recursive
	}
}

// DefaultTomlContent is the annotated template the init command writes
const DefaultTomlContent = `# unflat configuration

[decompile]
# Bound on methods decompiled concurrently within one class.
# max_workers = 1
# Restrict decompilation to these classes (plus their ancestry).
# classes = ["com.example.Main"]

[output]
# One of: text, json, yaml, dot
format = "text"
# One of: dependency, name
sort_by = "dependency"

[input]
include_patterns = ["**/*.uir.yaml"]
exclude_patterns = []
recursive = true
`
