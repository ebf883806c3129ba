package archive

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/types"
)

// zipAdapter lists a zip container natively via archive/zip.
type zipAdapter struct {
	rc      *zip.ReadCloser
	entries []types.Entry
	files   map[string]*zip.File
}

func newZipAdapter(sourcePath string) (Adapter, error) {
	rc, err := zip.OpenReader(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrArchiveCorrupt, "cannot read zip container").
			WithDetail("source", sourcePath)
	}

	a := &zipAdapter{
		rc:      rc,
		entries: make([]types.Entry, 0, len(rc.File)),
		files:   make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		name := normalizeEntryPath(f.Name)
		if name == "" {
			continue
		}
		isDir := strings.HasSuffix(name, "/") || f.FileInfo().IsDir()
		entry := types.Entry{
			Path:    strings.TrimSuffix(name, "/"),
			IsDir:   isDir,
			Size:    int64(f.UncompressedSize64),
			ModTime: f.Modified,
		}
		a.entries = append(a.entries, entry)
		if !isDir {
			a.files[entry.Path] = f
		}
	}
	return a, nil
}

func (a *zipAdapter) Entries() []types.Entry {
	return a.entries
}

func (a *zipAdapter) Open(e types.Entry) (io.ReadCloser, error) {
	f, ok := a.files[e.Path]
	if !ok {
		return nil, errors.Newf(errors.ErrInternal, "entry %q not in archive listing", e.Path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveCorrupt, "cannot open entry %q", e.Path)
	}
	return rc, nil
}

func (a *zipAdapter) Close() error {
	return a.rc.Close()
}
