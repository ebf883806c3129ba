// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero in-memory filesystem, temp dirs
// PURPOSE: Verify both FS implementations honor the types.FS contract

package filesystem_test

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sims4tools/modinstall/pkg/filesystem"
	"github.com/sims4tools/modinstall/pkg/types"
)

func implementations(t *testing.T) map[string]struct {
	fs   types.FS
	root string
} {
	t.Helper()
	return map[string]struct {
		fs   types.FS
		root string
	}{
		"os":    {fs: filesystem.NewOS(), root: t.TempDir()},
		"afero": {fs: filesystem.NewMemory(), root: "/work"},
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(impl.root, "mods", "cool")
			require.NoError(t, impl.fs.MkdirAll(dir, 0755))

			path := filepath.Join(dir, "a.package")
			require.NoError(t, impl.fs.WriteFile(path, []byte("payload"), 0644))

			data, err := impl.fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), data)

			infos, err := impl.fs.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, "a.package", infos[0].Name())
		})
	}
}

func TestCreateStream(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(impl.root, "streamed.bin")
			w, err := impl.fs.Create(path)
			require.NoError(t, err)
			_, err = io.WriteString(w, "streamed content")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			data, err := impl.fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "streamed content", string(data))
		})
	}
}

func TestRenameAndRemove(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			oldPath := filepath.Join(impl.root, "marker.tmp")
			newPath := filepath.Join(impl.root, "marker.toml")
			require.NoError(t, impl.fs.WriteFile(oldPath, []byte("x"), 0644))
			require.NoError(t, impl.fs.Rename(oldPath, newPath))

			_, err := impl.fs.Stat(oldPath)
			assert.Error(t, err)
			_, err = impl.fs.Stat(newPath)
			assert.NoError(t, err)

			require.NoError(t, impl.fs.Remove(newPath))
			_, err = impl.fs.Stat(newPath)
			assert.Error(t, err)
		})
	}
}

func TestChtimes(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(impl.root, "dated.package")
			require.NoError(t, impl.fs.WriteFile(path, []byte("x"), 0644))

			stamp := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
			require.NoError(t, impl.fs.Chtimes(path, stamp, stamp))

			info, err := impl.fs.Stat(path)
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(stamp), "mtime = %v, want %v", info.ModTime(), stamp)
		})
	}
}
