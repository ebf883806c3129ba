package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/types"
)

// dirAdapter lists a directory tree as if it were an opened archive.
// It backs three cases: a directory given directly as the source, the
// ephemeral extraction dir of an external-tool format, and the ephemeral
// dir a tar.gz is materialized into.
type dirAdapter struct {
	root      string
	entries   []types.Entry
	ephemeral bool
}

func newDirAdapter(root string, ephemeral bool) (Adapter, error) {
	a := &dirAdapter{root: root, ephemeral: ephemeral}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		entry := types.Entry{
			Path:    filepath.ToSlash(rel),
			IsDir:   d.IsDir(),
			ModTime: info.ModTime(),
		}
		if !d.IsDir() {
			entry.Size = info.Size()
		}
		a.entries = append(a.entries, entry)
		return nil
	})
	if err != nil {
		if ephemeral {
			_ = os.RemoveAll(root)
		}
		return nil, errors.Wrap(err, errors.ErrArchiveCorrupt, "cannot list extracted tree").
			WithDetail("root", root)
	}

	return a, nil
}

func (a *dirAdapter) Entries() []types.Entry {
	return a.entries
}

func (a *dirAdapter) Open(e types.Entry) (io.ReadCloser, error) {
	if e.IsDir {
		return nil, errors.Newf(errors.ErrInternal, "cannot open directory entry %q", e.Path)
	}
	f, err := os.Open(filepath.Join(a.root, filepath.FromSlash(e.Path)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveCorrupt, "cannot open entry %q", e.Path)
	}
	return f, nil
}

func (a *dirAdapter) Close() error {
	if !a.ephemeral {
		return nil
	}
	logger := logging.GetLogger("archive")
	if err := os.RemoveAll(a.root); err != nil {
		logger.Warn().Err(err).Str("root", a.root).Msg("Failed to remove ephemeral extraction dir")
		return err
	}
	return nil
}

// looseAdapter treats one content file as a one-entry archive whose single
// entry sits at the archive root, which makes the shape trivially FLAT.
type looseAdapter struct {
	path  string
	entry types.Entry
}

func newLooseAdapter(sourcePath string, info os.FileInfo) (Adapter, error) {
	return &looseAdapter{
		path: sourcePath,
		entry: types.Entry{
			Path:    filepath.Base(sourcePath),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		},
	}, nil
}

func (a *looseAdapter) Entries() []types.Entry {
	return []types.Entry{a.entry}
}

func (a *looseAdapter) Open(e types.Entry) (io.ReadCloser, error) {
	if e.Path != a.entry.Path {
		return nil, errors.Newf(errors.ErrInternal, "entry %q not in archive listing", e.Path)
	}
	f, err := os.Open(a.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveCorrupt, "cannot open entry %q", e.Path)
	}
	return f, nil
}

func (a *looseAdapter) Close() error {
	return nil
}
