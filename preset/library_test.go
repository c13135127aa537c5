package preset

import (
	"testing"
	"time"

	"github.com/robmorgan/tempo/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStates() []rhythm.State {
	fast := rhythm.DefaultState()
	fast.TempoBPM = 180
	fast.PatternID = rhythm.PatternSextuplet
	return []rhythm.State{rhythm.DefaultState(), fast}
}

func TestLibrarySaveAndLoad(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, lib.Save("Warmups", "swing", sampleStates(), now))

	assert.Equal(t, []string{DefaultFolder, "Warmups"}, lib.FolderNames())

	got, err := lib.Load("Warmups", "swing")
	require.NoError(t, err)
	assert.Equal(t, sampleStates(), got)

	// overwriting keeps a single entry
	require.NoError(t, lib.Save("Warmups", "swing", sampleStates()[:1], now))
	names, err := lib.PresetNames("Warmups")
	require.NoError(t, err)
	assert.Equal(t, []string{"swing"}, names)

	got, err = lib.Load("Warmups", "swing")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLibraryErrors(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	require.ErrorIs(t, lib.Save(DefaultFolder, "  ", nil, time.Now()), ErrInvalidName)
	require.ErrorIs(t, lib.AddFolder(""), ErrInvalidName)

	_, err := lib.Load(DefaultFolder, "missing")
	require.ErrorIs(t, err, ErrPresetNotFound)

	_, err = lib.Load("nope", "missing")
	require.ErrorIs(t, err, ErrFolderNotFound)

	require.ErrorIs(t, lib.Delete(DefaultFolder, "missing"), ErrPresetNotFound)
	require.ErrorIs(t, lib.DeleteFolder("nope"), ErrFolderNotFound)
}

func TestLibraryDelete(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	require.NoError(t, lib.Save(DefaultFolder, "a", sampleStates(), time.Now()))
	require.NoError(t, lib.Save(DefaultFolder, "b", sampleStates(), time.Now()))
	require.NoError(t, lib.Delete(DefaultFolder, "a"))

	names, err := lib.PresetNames(DefaultFolder)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	require.NoError(t, lib.DeleteFolder(DefaultFolder))
	assert.Empty(t, lib.FolderNames())
}

func TestLoadedStatesAreCopies(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	require.NoError(t, lib.Save(DefaultFolder, "a", sampleStates(), time.Now()))

	got, err := lib.Load(DefaultFolder, "a")
	require.NoError(t, err)
	got[0].TempoBPM = 5

	again, err := lib.Load(DefaultFolder, "a")
	require.NoError(t, err)
	assert.Equal(t, rhythm.DefaultTempo, again[0].TempoBPM)
}
