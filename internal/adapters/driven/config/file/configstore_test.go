package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigSetAndGet(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Set("verbose", true))
	require.NoError(t, store.Set("fit.max_iterations", int64(200)))
	require.NoError(t, store.Set("import.default_url", "https://example.com"))

	assert.True(t, store.GetBool("verbose"))
	assert.Equal(t, 200.0, store.GetFloat("fit.max_iterations"))
	assert.Equal(t, "https://example.com", store.GetString("import.default_url"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigTypeMismatchesReturnZeroValues(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Set("key", "string value"))

	assert.False(t, store.GetBool("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigPersistsAcrossReopens(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("verbose", true))
	require.NoError(t, first.Set("rate.requests_per_second", 2.5))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.True(t, second.GetBool("verbose"))
	assert.Equal(t, 2.5, second.GetFloat("rate.requests_per_second"))
}

func TestConfigDelete(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Delete("key"))

	_, ok := store.Get("key")
	assert.False(t, ok)

	assert.NoError(t, store.Delete("key"))
}

func TestConfigFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fit]\nmax_iterations = 50\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 50.0, store.GetFloat("fit.max_iterations"))
}

func TestConfigFilePermissions(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
