package fixture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixtureInMultipleGroups(t *testing.T) {
	t.Parallel()

	fix, err := NewFixture("par", 1, 138, testPar)
	require.NoError(t, err)

	// add the fixture to two fixture groups
	fg1 := NewGroup()
	fg2 := NewGroup()
	fg1.AddFixture("fix1", fix)
	fg2.AddFixture("left_par", fix)

	// set a value
	fix1, err := fg1.GetFixture("fix1")
	require.NoError(t, err)
	fix1.SetIntensity(0.65)

	// check its correct in the other fixture group
	par, err := fg2.GetFixture("left_par")
	require.NoError(t, err)
	require.Equal(t, 0.65, par.GetIntensity())

	_, err = fg2.GetFixture("missing")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	fix1, _ := NewFixture("fix1", 1, 1, testPar)
	fix2, _ := NewFixture("fix2", 1, 10, testPar)
	fix3, _ := NewFixture("fix3", 1, 20, testPar)

	// add the fixtures to three separate groups
	fg1 := NewGroup()
	fg2 := NewGroup()
	fg3 := NewGroup()
	fg1.AddFixture("fix1", fix1)
	fg2.AddFixture("fix2", fix2)
	fg3.AddFixture("fix2", fix3) // name collision (will replace)

	fix3.SetIntensity(0.8)

	// merge them over the first group
	fg := fg1.Merge(fg2, fg3)

	// check everything is correct
	require.True(t, fg.HasFixture("fix1"))
	require.True(t, fg.HasFixture("fix2"))
	require.Equal(t, 2, fg.Count())
	require.Equal(t, []string{"fix1", "fix2"}, fg.Names())

	fix, err := fg.GetFixture("fix2")
	require.NoError(t, err)
	require.Equal(t, 20, fix.Address)
	require.Equal(t, 0.8, fix.GetIntensity())
	require.True(t, fix.NeedsUpdate())

	// the source groups are untouched
	require.Equal(t, 1, fg1.Count())
}
