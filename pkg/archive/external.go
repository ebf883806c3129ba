package archive

import (
	"os"
	"os/exec"
	"strings"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
)

// sevenZipCandidates are probed in order; the first binary on PATH wins.
var sevenZipCandidates = []string{"7z", "7za", "7zz"}

// newExternalAdapter extracts a .7z or .rar with the external 7-Zip tool
// into an ephemeral directory and lists that directory. The subprocess call
// is blocking with no timeout beyond what the environment imposes.
func newExternalAdapter(sourcePath string) (Adapter, error) {
	tool, err := findSevenZip()
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "modinstall-7z-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create extraction dir")
	}

	if err := extractSevenZip(tool, sourcePath, tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	return newDirAdapter(tmpDir, true)
}

// findSevenZip probes for a usable 7-Zip binary. Its absence degrades the
// external-tool formats to ExternalToolUnavailable rather than crashing.
func findSevenZip() (string, error) {
	for _, candidate := range sevenZipCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrExternalToolUnavailable, "no 7-Zip binary found on PATH").
		WithDetail("probed", sevenZipCandidates)
}

// extractSevenZip runs `7z x -y -o<dst> <src>`. A non-zero exit with the
// tool present means the container itself is unreadable.
func extractSevenZip(tool, sourcePath, dstDir string) error {
	logger := logging.GetLogger("archive")

	args := []string{"x", "-y", "-o" + dstDir, sourcePath}
	logger.Debug().Str("tool", tool).Strs("args", args).Msg("Invoking external extraction")

	cmd := exec.Command(tool, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err, errors.ErrArchiveCorrupt, "external extraction failed").
			WithDetail("source", sourcePath).
			WithDetail("tool", tool).
			WithDetail("output", strings.TrimSpace(string(output)))
	}

	return nil
}
