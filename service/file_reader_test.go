package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/unflat/domain"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("classes: []\n"), 0o644))
	}
	return dir
}

func TestIsClassDocument(t *testing.T) {
	reader := NewFileReader()

	assert.True(t, reader.IsClassDocument("app.uir.yaml"))
	assert.True(t, reader.IsClassDocument("APP.UIR.YAML"))
	assert.False(t, reader.IsClassDocument("app.yaml"))
	assert.False(t, reader.IsClassDocument("app.uir.yml"))
	assert.False(t, reader.IsClassDocument("app.go"))
}

func TestCollectClassDocuments(t *testing.T) {
	reader := NewFileReader()

	t.Run("SingleFile", func(t *testing.T) {
		dir := writeFiles(t, "app.uir.yaml")
		files, err := reader.CollectClassDocuments(
			[]string{filepath.Join(dir, "app.uir.yaml")}, false, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("DirectoryNonRecursive", func(t *testing.T) {
		dir := writeFiles(t, "a.uir.yaml", "sub/b.uir.yaml", "notes.txt")
		files, err := reader.CollectClassDocuments([]string{dir}, false, nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "a.uir.yaml", filepath.Base(files[0]))
	})

	t.Run("DirectoryRecursive", func(t *testing.T) {
		dir := writeFiles(t, "a.uir.yaml", "sub/b.uir.yaml", "sub/deep/c.uir.yaml")
		files, err := reader.CollectClassDocuments([]string{dir}, true, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("SkipsHiddenDirectories", func(t *testing.T) {
		dir := writeFiles(t, "a.uir.yaml", ".cache/b.uir.yaml")
		files, err := reader.CollectClassDocuments([]string{dir}, true, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("ExcludePattern", func(t *testing.T) {
		dir := writeFiles(t, "a.uir.yaml", "testdata/b.uir.yaml")
		files, err := reader.CollectClassDocuments(
			[]string{dir}, true, nil, []string{"**/testdata/**"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "a.uir.yaml", filepath.Base(files[0]))
	})

	t.Run("IncludePattern", func(t *testing.T) {
		dir := writeFiles(t, "keep.uir.yaml", "drop.uir.yaml")
		files, err := reader.CollectClassDocuments(
			[]string{dir}, true, []string{"keep.uir.yaml"}, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "keep.uir.yaml", filepath.Base(files[0]))
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := reader.CollectClassDocuments([]string{"/no/such/path"}, false, nil, nil)
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
	})
}

func TestReadFile(t *testing.T) {
	reader := NewFileReader()

	t.Run("Exists", func(t *testing.T) {
		dir := writeFiles(t, "a.uir.yaml")
		content, err := reader.ReadFile(filepath.Join(dir, "a.uir.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "classes: []\n", string(content))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := reader.ReadFile("/no/such/file.uir.yaml")
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
	})
}
