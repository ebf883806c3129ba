// Package archive normalizes source containers into a uniform entry listing.
//
// Every supported format is exposed through the same capability interface:
// list entries, open one entry's content stream. Formats without native
// in-process support (.7z, .rar) are extracted to an ephemeral directory by
// an external 7-Zip binary and then listed exactly as if they were an opened
// archive, which keeps the rest of the pipeline format-agnostic.
package archive

import (
	"io"
	"os"
	"strings"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Adapter is the capability interface over one opened source.
// Entries are reported in the container's native, stable order.
type Adapter interface {
	// Entries returns the archive listing. Immutable once opened.
	Entries() []types.Entry
	// Open returns the content stream for one non-directory entry.
	Open(e types.Entry) (io.ReadCloser, error)
	// Close releases the source and removes any ephemeral extraction
	// directory the adapter owns.
	Close() error
}

// looseExts are content files installable without any container.
var looseExts = map[string]struct{}{
	".package":   {},
	".ts4script": {},
}

// Open dispatches a source path to the adapter for its container format.
// A loose content file is treated as a one-entry archive whose single entry
// sits at the archive root.
func Open(sourcePath string) (Adapter, error) {
	logger := logging.GetLogger("archive")

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "source not accessible").
			WithDetail("source", sourcePath)
	}

	if info.IsDir() {
		logger.Debug().Str("source", sourcePath).Msg("Opening directory source")
		return newDirAdapter(sourcePath, false)
	}

	lower := strings.ToLower(sourcePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		logger.Debug().Str("source", sourcePath).Msg("Opening zip source")
		return newZipAdapter(sourcePath)

	case strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz"):
		logger.Debug().Str("source", sourcePath).Msg("Opening tar.gz source")
		return newTarGzAdapter(sourcePath)

	case strings.HasSuffix(lower, ".7z") || strings.HasSuffix(lower, ".rar"):
		logger.Debug().Str("source", sourcePath).Msg("Opening external-tool source")
		return newExternalAdapter(sourcePath)

	case hasLooseExt(lower):
		logger.Debug().Str("source", sourcePath).Msg("Opening loose content file")
		return newLooseAdapter(sourcePath, info)

	default:
		return nil, errors.New(errors.ErrUnsupportedFormat, "unrecognized container format").
			WithDetail("source", sourcePath)
	}
}

func hasLooseExt(lowerPath string) bool {
	for ext := range looseExts {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}
	return false
}

// normalizeEntryPath converts archive member names to forward-slash form.
// It performs no safety validation: hostile names (absolute, parent
// traversal) are preserved so the planner can reject them as unsafe.
func normalizeEntryPath(name string) string {
	return strings.ReplaceAll(name, `\`, `/`)
}
