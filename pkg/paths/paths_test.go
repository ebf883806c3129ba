// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: real filesystem (temp dirs), environment
// PURPOSE: Verify Mods folder resolution order

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/paths"
)

func TestModsRootFlagWins(t *testing.T) {
	t.Setenv(paths.EnvModsRoot, "/should/not/be/used")

	got, err := paths.ModsRoot("/explicit/mods")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/mods", got)
}

func TestModsRootFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvModsRoot, dir)

	got, err := paths.ModsRoot("")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestModsRootEnvMustBeDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	t.Setenv(paths.EnvModsRoot, file)

	_, err := paths.ModsRoot("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestModsRootDefaultDiscovery(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.EnvModsRoot, "")

	_, err := paths.ModsRoot("")
	require.Error(t, err, "missing default folder must not be invented")

	mods := filepath.Join(home, "Documents", "Electronic Arts", "The Sims 4", "Mods")
	require.NoError(t, os.MkdirAll(mods, 0755))

	got, err := paths.ModsRoot("")
	require.NoError(t, err)
	assert.Equal(t, mods, got)
}
