// pkg/marker/marker_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero in-memory filesystem
// PURPOSE: Verify marker persistence, atomic write and recovery scan

package marker_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sims4tools/modinstall/pkg/filesystem"
	"github.com/sims4tools/modinstall/pkg/marker"
)

var installStamp = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestLoadAbsentMarker(t *testing.T) {
	fs := filesystem.NewMemory()
	store := marker.NewStore(fs)
	require.NoError(t, fs.MkdirAll("/mods/empty", 0755))

	m, err := store.Load("/mods/empty")
	require.NoError(t, err)
	assert.Nil(t, m, "absent marker must load as nil without error")
}

func TestWriteLoadRoundtrip(t *testing.T) {
	fs := filesystem.NewMemory()
	store := marker.NewStore(fs)
	dir := "/mods/cool_mod"
	require.NoError(t, fs.MkdirAll(dir, 0755))

	in := &marker.Marker{
		Name:        "cool_mod",
		Files:       []string{"script.ts4script", "content.package"},
		Version:     "1.2",
		URL:         "https://example.com/cool_mod",
		Protected:   true,
		InstalledAt: installStamp,
		UpdatedAt:   installStamp,
	}
	require.NoError(t, store.Write(dir, in))

	out, err := store.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Files, out.Files)
	assert.Equal(t, in.Version, out.Version)
	assert.Equal(t, in.URL, out.URL)
	assert.True(t, out.Protected)
	assert.True(t, out.InstalledAt.Equal(installStamp))

	// The temporary file must not linger after the rename.
	_, err = fs.Stat(filepath.Join(dir, marker.Filename+".tmp"))
	assert.Error(t, err)
}

func TestWriteOverwritesExisting(t *testing.T) {
	fs := filesystem.NewMemory()
	store := marker.NewStore(fs)
	dir := "/mods/cool_mod"
	require.NoError(t, fs.MkdirAll(dir, 0755))

	require.NoError(t, store.Write(dir, &marker.Marker{Name: "cool_mod", Files: []string{"old.package"}}))
	require.NoError(t, store.Write(dir, &marker.Marker{Name: "cool_mod", Files: []string{"new.package"}}))

	out, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.package"}, out.Files)
}

func TestAllFiles(t *testing.T) {
	m := &marker.Marker{
		Files: []string{"a.package", "b.package"},
		Addons: []marker.Addon{
			{Name: "patch", Files: []string{"b.package", "c.package"}},
		},
	}
	assert.Equal(t, []string{"a.package", "b.package", "c.package"}, m.AllFiles())
}

func TestScanRecovery(t *testing.T) {
	fs := filesystem.NewMemory()
	store := marker.NewStore(fs)

	// Two marked mods, one unmarked folder, one loose file at the root.
	require.NoError(t, fs.MkdirAll("/mods/alpha", 0755))
	require.NoError(t, store.Write("/mods/alpha", &marker.Marker{Name: "alpha", Files: []string{"a.package"}}))
	require.NoError(t, fs.MkdirAll("/mods/beta", 0755))
	require.NoError(t, store.Write("/mods/beta", &marker.Marker{
		Name:  "beta",
		Files: []string{"b.package"},
		Addons: []marker.Addon{
			{Files: []string{"b_addon.package"}, InstalledAt: installStamp},
		},
	}))
	require.NoError(t, fs.MkdirAll("/mods/unmanaged", 0755))
	require.NoError(t, fs.WriteFile("/mods/stray.package", []byte("x"), 0644))

	installed, err := store.Scan("/mods")
	require.NoError(t, err)
	require.Len(t, installed, 2)

	byName := map[string][]string{}
	for _, inst := range installed {
		byName[inst.Marker.Name] = inst.Marker.AllFiles()
	}
	assert.Equal(t, []string{"a.package"}, byName["alpha"])
	assert.Equal(t, []string{"b.package", "b_addon.package"}, byName["beta"])
}

func TestScanSkipsUnreadableMarker(t *testing.T) {
	fs := filesystem.NewMemory()
	store := marker.NewStore(fs)

	require.NoError(t, fs.MkdirAll("/mods/good", 0755))
	require.NoError(t, store.Write("/mods/good", &marker.Marker{Name: "good"}))
	require.NoError(t, fs.MkdirAll("/mods/bad", 0755))
	require.NoError(t, fs.WriteFile("/mods/bad/"+marker.Filename, []byte("not [valid toml"), 0644))

	installed, err := store.Scan("/mods")
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "good", installed[0].Marker.Name)
}
