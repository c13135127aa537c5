package preset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "presets.json"))
	lib, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultFolder}, lib.FolderNames())
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "nested", "presets.json"))

	lib := NewLibrary()
	require.NoError(t, lib.Save("Practice", "slow", sampleStates(), time.Unix(100, 0)))
	require.NoError(t, store.Save(lib))

	loaded, err := store.Load()
	require.NoError(t, err)
	states, err := loaded.Load("Practice", "slow")
	require.NoError(t, err)
	assert.Equal(t, sampleStates(), states)

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreMigratesOnLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(flatDocument), 0o644))

	store := NewFileStore(path)
	lib, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(lib))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"folders"`)
	assert.NotContains(t, string(data), `"presets": {`)
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemaVersion": 9}`), 0o644))

	_, err := NewFileStore(path).Load()
	require.ErrorIs(t, err, ErrUnsupportedSchema)
}
