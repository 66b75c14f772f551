package app

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/decompiler"
	"github.com/ludo-technologies/unflat/internal/ir"
	"github.com/ludo-technologies/unflat/service"
)

// FileReader collects class documents from the file system
type FileReader interface {
	CollectClassDocuments(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
}

// OutputFormatter renders decompiled class nodes
type OutputFormatter interface {
	Write(classes []*decompiler.ClassNode, format domain.OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads and merges configuration
type ConfigurationLoader interface {
	LoadConfig(path string) (*domain.DecompileRequest, error)
	LoadDefaultConfig() *domain.DecompileRequest
	MergeConfig(base, override *domain.DecompileRequest) *domain.DecompileRequest
}

// DecompileUseCase orchestrates the decompilation workflow
type DecompileUseCase struct {
	fileReader   FileReader
	formatter    OutputFormatter
	configLoader ConfigurationLoader
	executor     domain.ParallelExecutor
	progress     domain.ProgressManager
	generators   *decompiler.GeneratorRegistry
}

// NewDecompileUseCase creates a new decompile use case
func NewDecompileUseCase(
	fileReader FileReader,
	formatter OutputFormatter,
	configLoader ConfigurationLoader,
	executor domain.ParallelExecutor,
	progress domain.ProgressManager,
	generators *decompiler.GeneratorRegistry,
) *DecompileUseCase {
	return &DecompileUseCase{
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		executor:     executor,
		progress:     progress,
		generators:   generators,
	}
}

// Execute performs the complete decompilation workflow
func (uc *DecompileUseCase) Execute(ctx context.Context, req domain.DecompileRequest) (*domain.DecompileResponse, error) {
	started := time.Now()

	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	files, err := uc.fileReader.CollectClassDocuments(
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no class documents found in the specified paths", nil)
	}

	source, err := uc.parseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	classNames := finalReq.Classes
	if len(classNames) == 0 {
		classNames = allClassNames(source)
	}

	if uc.progress != nil {
		uc.progress.Initialize(len(classNames))
		uc.progress.Start()
	}

	d := decompiler.NewDecompiler(source, uc.generators)
	d.SetMaxWorkers(finalReq.MaxWorkers)
	classes, err := d.DecompileClasses(ctx, classNames)
	if uc.progress != nil {
		if err == nil {
			uc.progress.Update(len(classes), len(classes))
		}
		uc.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}

	if finalReq.SortBy == domain.SortByName {
		sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	}

	if finalReq.OutputWriter != nil {
		if err := uc.formatter.Write(classes, finalReq.OutputFormat, finalReq.OutputWriter); err != nil {
			return nil, err
		}
	}

	response := &domain.DecompileResponse{
		GeneratedAt: time.Now(),
		Summary: domain.DecompileSummary{
			FilesRead:         len(files),
			ClassesDecompiled: len(classes),
			Duration:          time.Since(started),
		},
	}
	for _, cls := range classes {
		response.Classes = append(response.Classes, cls)
		for _, method := range cls.Methods {
			response.Summary.MethodsDecompiled++
			if method.Native {
				response.Summary.NativeMethods++
			}
		}
	}
	return response, nil
}

// parseFiles loads every class document, reading independent files in
// parallel, and merges them into one class source.
func (uc *DecompileUseCase) parseFiles(ctx context.Context, files []string) (ir.MapClassSource, error) {
	source := make(ir.MapClassSource)
	var mu sync.Mutex

	tasks := make([]domain.ExecutableTask, 0, len(files))
	for _, file := range files {
		file := file // per-iteration copy for pre-Go 1.22 loop semantics
		tasks = append(tasks, service.NewSimpleTask(file, func(ctx context.Context) (interface{}, error) {
			doc, err := ir.LoadFile(file)
			if err != nil {
				return nil, domain.NewParseError(file, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if err := source.Merge(doc.Source()); err != nil {
				return nil, domain.NewInvalidInputError(file, err)
			}
			return nil, nil
		}))
	}
	if err := uc.executor.Execute(ctx, tasks); err != nil {
		return nil, err
	}
	return source, nil
}

// loadAndMergeConfig resolves the final request from config file and flags
func (uc *DecompileUseCase) loadAndMergeConfig(req domain.DecompileRequest) (*domain.DecompileRequest, error) {
	var base *domain.DecompileRequest
	if req.ConfigPath != "" {
		loaded, err := uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return nil, err
		}
		base = loaded
	} else {
		base = uc.configLoader.LoadDefaultConfig()
	}
	return uc.configLoader.MergeConfig(base, &req), nil
}

// validateRequest rejects obviously unusable requests early
func (uc *DecompileUseCase) validateRequest(req domain.DecompileRequest) error {
	if len(req.Paths) == 0 {
		return domain.NewInvalidInputError("no input paths specified", nil)
	}
	if req.OutputFormat != "" && !req.OutputFormat.Valid() {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return nil
}

// allClassNames returns every class in the source in stable order
func allClassNames(source ir.MapClassSource) []string {
	names := make([]string, 0, len(source))
	for name := range source {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
