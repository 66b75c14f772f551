package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/unflat/app"
	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/decompiler"
	"github.com/ludo-technologies/unflat/service"
)

// DecompileCommand represents the decompile command
type DecompileCommand struct {
	// Command line flags
	outputFormat string
	sortBy       string
	maxWorkers   int
	classes      []string
	configFile   string
	include      []string
	exclude      []string
	recursive    bool
	verbose      bool
}

// NewDecompileCommand creates a new decompile command
func NewDecompileCommand() *DecompileCommand {
	return &DecompileCommand{
		outputFormat: "text",
		sortBy:       "dependency",
		maxWorkers:   1,
		recursive:    true,
	}
}

// CreateCobraCommand creates the cobra command for decompilation
func (c *DecompileCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompile [paths...]",
		Short: "Reconstruct structured control flow from class documents",
		Long: `Reconstruct structured control flow for every class found in the
given class documents (` + "`.uir.yaml`" + ` files or directories holding them).

Each method's basic-block graph becomes a nesting of labeled blocks and
while loops; every branch turns into a labeled break, continue or plain
fallthrough. Supertypes and interfaces are always decompiled before the
classes that mention them.

Examples:
  unflat decompile program.uir.yaml
  unflat decompile src/
  unflat decompile --format json --class com.example.Main src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runDecompile,
	}

	cmd.Flags().StringVarP(&c.outputFormat, "format", "f", "text", "Output format (text, json, yaml, dot)")
	cmd.Flags().StringVar(&c.sortBy, "sort", "dependency", "Sort emitted classes by (dependency, name)")
	cmd.Flags().IntVar(&c.maxWorkers, "workers", 1, "Methods decompiled concurrently per class")
	cmd.Flags().StringSliceVar(&c.classes, "class", nil, "Decompile only these classes (plus their ancestry)")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringSliceVar(&c.include, "include", nil, "Include glob patterns")
	cmd.Flags().StringSliceVar(&c.exclude, "exclude", nil, "Exclude glob patterns")
	cmd.Flags().BoolVar(&c.recursive, "recursive", true, "Recurse into directories")

	return cmd
}

// runDecompile executes the decompilation
func (c *DecompileCommand) runDecompile(cmd *cobra.Command, args []string) error {
	if cmd.Parent() != nil {
		c.verbose, _ = cmd.Parent().Flags().GetBool("verbose")
	}

	request := c.buildRequest(cmd, args)
	useCase := c.buildUseCase()

	response, err := useCase.Execute(cmd.Context(), request)
	if err != nil {
		return err
	}

	if c.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "decompiled %d classes (%d methods, %d native) from %d files in %v\n",
			response.Summary.ClassesDecompiled,
			response.Summary.MethodsDecompiled,
			response.Summary.NativeMethods,
			response.Summary.FilesRead,
			response.Summary.Duration)
	}
	return nil
}

// buildRequest builds the domain request from CLI flags
func (c *DecompileCommand) buildRequest(cmd *cobra.Command, args []string) domain.DecompileRequest {
	explicit := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		explicit[f.Name] = true
	})

	return domain.DecompileRequest{
		Paths:           args,
		Classes:         c.classes,
		OutputFormat:    domain.OutputFormat(c.outputFormat),
		OutputWriter:    cmd.OutOrStdout(),
		SortBy:          domain.SortCriteria(c.sortBy),
		MaxWorkers:      c.maxWorkers,
		ConfigPath:      c.configFile,
		Recursive:       c.recursive,
		IncludePatterns: c.include,
		ExcludePatterns: c.exclude,
		ExplicitFlags:   explicit,
	}
}

// buildUseCase wires the use case with its service dependencies
func (c *DecompileCommand) buildUseCase() *app.DecompileUseCase {
	var progress domain.ProgressManager
	if service.IsInteractiveEnvironment() {
		progress = service.NewProgressManager()
	}

	registry := decompiler.NewGeneratorRegistry()
	if c.verbose {
		log.New(os.Stderr, "", log.LstdFlags).Println("unflat: using empty generator registry")
	}

	return app.NewDecompileUseCase(
		service.NewFileReader(),
		service.NewOutputFormatter(),
		service.NewConfigurationLoader(),
		service.NewParallelExecutor(),
		progress,
		registry,
	)
}
