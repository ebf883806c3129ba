package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
)

// newTarGzAdapter materializes a .tar.gz into an ephemeral directory and
// lists it through the directory adapter. Tar streams cannot be re-opened
// per entry without rescanning, so one extraction pass keeps entry reads
// cheap for the executor.
func newTarGzAdapter(sourcePath string) (Adapter, error) {
	tmpDir, err := os.MkdirTemp("", "modinstall-tgz-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create extraction dir")
	}

	if err := extractTarGz(sourcePath, tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	return newDirAdapter(tmpDir, true)
}

// extractTarGz writes the tar stream into dstDir, preserving modification
// timestamps. Entries whose names escape dstDir fail the whole extraction:
// only the ephemeral directory has been touched at that point.
func extractTarGz(sourcePath, dstDir string) error {
	logger := logging.GetLogger("archive")

	f, err := os.Open(sourcePath)
	if err != nil {
		return errors.Wrap(err, errors.ErrArchiveCorrupt, "cannot read tar.gz container").
			WithDetail("source", sourcePath)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, errors.ErrArchiveCorrupt, "cannot read gzip stream").
			WithDetail("source", sourcePath)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrArchiveCorrupt, "cannot read tar stream").
				WithDetail("source", sourcePath)
		}

		name := normalizeEntryPath(hdr.Name)
		if name == "" {
			continue
		}
		rel, unsafeErr := safeRelPath(name)
		if unsafeErr != nil {
			return errors.New(errors.ErrUnsafePath, "tar entry escapes extraction dir").
				WithDetail("source", sourcePath).
				WithDetail("entry", hdr.Name)
		}

		target := filepath.Join(dstDir, filepath.FromSlash(rel))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot create extraction dir")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot create extraction dir")
			}
			out, err := os.Create(target)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot create extracted file")
			}
			_, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return errors.Wrapf(copyErr, errors.ErrArchiveCorrupt, "cannot extract entry %q", hdr.Name)
			}
			if closeErr != nil {
				return errors.Wrapf(closeErr, errors.ErrInternal, "cannot close extracted file %q", hdr.Name)
			}
			if err := os.Chtimes(target, hdr.ModTime, hdr.ModTime); err != nil {
				logger.Warn().Err(err).Str("entry", hdr.Name).Msg("Failed to preserve timestamp")
			}
		default:
			// Symlinks, devices and other special entries never carry mod
			// content; they are dropped from the listing.
			logger.Debug().Str("entry", hdr.Name).Msg("Skipping special tar entry")
		}
	}
}

// safeRelPath cleans a slash path and rejects traversal or absolute forms.
func safeRelPath(name string) (string, error) {
	parts := strings.Split(name, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", errors.New(errors.ErrUnsafePath, "parent traversal")
		default:
			clean = append(clean, part)
		}
	}
	if len(clean) == 0 {
		return "", errors.New(errors.ErrUnsafePath, "empty path")
	}
	return strings.Join(clean, "/"), nil
}
