package service

import (
	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/config"
)

// ConfigurationLoaderImpl implements configuration loading and merging
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.DecompileRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return c.convertToRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, honoring any
// config file discovered in the working directory.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.DecompileRequest {
	if req, err := c.LoadConfig(""); err == nil {
		return req
	}
	return c.convertToRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file values. Only
// flags the user explicitly set override the file.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.DecompileRequest, override *domain.DecompileRequest) *domain.DecompileRequest {
	merged := *base

	wasExplicitlySet := func(flagName string) bool {
		if override.ExplicitFlags == nil {
			return false
		}
		return override.ExplicitFlags[flagName]
	}

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if wasExplicitlySet("format") {
		merged.OutputFormat = override.OutputFormat
	}
	if wasExplicitlySet("sort") {
		merged.SortBy = override.SortBy
	}
	if wasExplicitlySet("workers") {
		merged.MaxWorkers = override.MaxWorkers
	}
	if wasExplicitlySet("class") {
		merged.Classes = override.Classes
	}
	if wasExplicitlySet("include") {
		merged.IncludePatterns = override.IncludePatterns
	}
	if wasExplicitlySet("exclude") {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if wasExplicitlySet("recursive") {
		merged.Recursive = override.Recursive
	}

	return &merged
}

// convertToRequest maps the file configuration onto a domain request
func (c *ConfigurationLoaderImpl) convertToRequest(cfg *config.Config) *domain.DecompileRequest {
	return &domain.DecompileRequest{
		Classes:         cfg.Decompile.Classes,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		SortBy:          domain.SortCriteria(cfg.Output.SortBy),
		MaxWorkers:      cfg.Decompile.MaxWorkers,
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
	}
}
