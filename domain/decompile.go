package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// SortCriteria represents the criteria for sorting decompiled classes
type SortCriteria string

const (
	// SortByDependency keeps dependency order: supertypes and
	// interfaces strictly before the classes that mention them
	SortByDependency SortCriteria = "dependency"
	// SortByName orders classes alphabetically; only safe for display
	SortByName SortCriteria = "name"
)

// DecompileRequest represents a request for decompilation
type DecompileRequest struct {
	// Input files or directories holding class documents
	Paths []string

	// Classes restricts decompilation to the named classes and their
	// ancestry; empty means every class found in the inputs
	Classes []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	SortBy       SortCriteria

	// MaxWorkers bounds per-method parallelism; 0 keeps methods sequential
	MaxWorkers int

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// ExplicitFlags tracks CLI flags the user actually set, so config
	// merging can tell defaults from intent
	ExplicitFlags map[string]bool
}

// DecompileSummary represents aggregate statistics for one run
type DecompileSummary struct {
	FilesRead         int
	ClassesDecompiled int
	MethodsDecompiled int
	NativeMethods     int
	Duration          time.Duration
}

// DecompileResponse represents the outcome of a decompilation run.
// Classes holds the formatter-ready class nodes in emit order.
type DecompileResponse struct {
	Classes     []interface{}
	Summary     DecompileSummary
	GeneratedAt time.Time
}

// DecompileUseCase is the application boundary for decompilation
type DecompileUseCase interface {
	Execute(ctx context.Context, req DecompileRequest) (*DecompileResponse, error)
}

// ProgressManager reports batch progress to the user
type ProgressManager interface {
	Initialize(maxValue int)
	Start()
	Update(processed, total int)
	Complete(success bool)
}

// ExecutableTask is one unit of work for the parallel executor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// Valid reports whether the output format is supported
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatDOT:
		return true
	}
	return false
}
