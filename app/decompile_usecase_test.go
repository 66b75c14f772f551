package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/decompiler"
	"github.com/ludo-technologies/unflat/service"
)

const counterDocument = `
classes:
  - name: Counter
    methods:
      - name: count
        program:
          blocks:
            - id: 0
              instructions:
                - {op: assign, text: "i = 0"}
            - id: 1
              instructions:
                - {op: branch, cond: "i < n", then: 2, else: 3}
            - id: 2
              instructions:
                - {op: assign, text: "i = i + 1"}
                - {op: jump, target: 1}
            - id: 3
              instructions:
                - {op: return, value: "i"}
`

const baseDocument = `
classes:
  - name: Base
    methods:
      - name: id
        program:
          blocks:
            - id: 0
              instructions:
                - {op: return, value: "this"}
  - name: Derived
    parent: Base
    methods: []
`

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newUseCase() *DecompileUseCase {
	return NewDecompileUseCase(
		service.NewFileReader(),
		service.NewOutputFormatter(),
		service.NewConfigurationLoader(),
		service.NewParallelExecutor(),
		nil,
		nil,
	)
}

func TestDecompileUseCaseExecute(t *testing.T) {
	t.Run("EndToEnd", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "counter.uir.yaml", counterDocument)

		var out bytes.Buffer
		req := domain.DecompileRequest{
			Paths:        []string{dir},
			OutputFormat: domain.OutputFormatText,
			OutputWriter: &out,
			Recursive:    true,
		}

		resp, err := newUseCase().Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Summary.FilesRead)
		assert.Equal(t, 1, resp.Summary.ClassesDecompiled)
		assert.Equal(t, 1, resp.Summary.MethodsDecompiled)
		assert.Equal(t, 0, resp.Summary.NativeMethods)

		text := out.String()
		assert.Contains(t, text, "class Counter {")
		assert.Contains(t, text, "while (true) {")
		assert.Contains(t, text, "return i")
	})

	t.Run("DependencyOrderAcrossFiles", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "types.uir.yaml", baseDocument)

		req := domain.DecompileRequest{
			Paths:         []string{dir},
			Classes:       []string{"Derived"},
			SortBy:        domain.SortByDependency,
			Recursive:     true,
			ExplicitFlags: map[string]bool{"class": true, "recursive": true},
		}

		resp, err := newUseCase().Execute(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, resp.Classes, 2)
		first := resp.Classes[0].(*decompiler.ClassNode)
		second := resp.Classes[1].(*decompiler.ClassNode)
		assert.Equal(t, "Base", first.Name)
		assert.Equal(t, "Derived", second.Name)
	})

	t.Run("NoPaths", func(t *testing.T) {
		_, err := newUseCase().Execute(context.Background(), domain.DecompileRequest{})
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	})

	t.Run("BadFormat", func(t *testing.T) {
		req := domain.DecompileRequest{
			Paths:        []string{"somewhere"},
			OutputFormat: domain.OutputFormat("csv"),
		}
		_, err := newUseCase().Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeUnsupportedFormat, domain.ErrorCode(err))
	})

	t.Run("NoDocumentsFound", func(t *testing.T) {
		req := domain.DecompileRequest{
			Paths:     []string{t.TempDir()},
			Recursive: true,
			ExplicitFlags: map[string]bool{
				"recursive": true,
			},
		}
		_, err := newUseCase().Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	})

	t.Run("MalformedDocument", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "bad.uir.yaml", "classes:\n  - parent: X\n")

		req := domain.DecompileRequest{
			Paths:         []string{dir},
			Recursive:     true,
			ExplicitFlags: map[string]bool{"recursive": true},
		}
		_, err := newUseCase().Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.uir.yaml")
	})

	t.Run("DuplicateClassAcrossFiles", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "one.uir.yaml", counterDocument)
		writeDocument(t, dir, "two.uir.yaml", counterDocument)

		req := domain.DecompileRequest{
			Paths:         []string{dir},
			Recursive:     true,
			ExplicitFlags: map[string]bool{"recursive": true},
		}
		_, err := newUseCase().Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate class definition")
	})

	t.Run("UnknownClassRequested", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "counter.uir.yaml", counterDocument)

		req := domain.DecompileRequest{
			Paths:         []string{dir},
			Classes:       []string{"Ghost"},
			Recursive:     true,
			ExplicitFlags: map[string]bool{"recursive": true, "class": true},
		}
		_, err := newUseCase().Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeClassNotFound, domain.ErrorCode(err))
	})

	t.Run("SortByName", func(t *testing.T) {
		dir := t.TempDir()
		writeDocument(t, dir, "types.uir.yaml", baseDocument)

		req := domain.DecompileRequest{
			Paths:         []string{dir},
			SortBy:        domain.SortByName,
			Recursive:     true,
			ExplicitFlags: map[string]bool{"recursive": true, "sort": true},
		}
		resp, err := newUseCase().Execute(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, resp.Classes, 2)
	})
}
