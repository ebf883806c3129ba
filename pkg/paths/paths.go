// Package paths locates the destination Mods folder.
//
// Resolution order: explicit flag, MODINSTALL_MODS_ROOT, then the game's
// conventional Documents location. The folder must already exist; this tool
// never guesses a location into existence.
package paths

import (
	"os"
	"path/filepath"

	"github.com/sims4tools/modinstall/pkg/errors"
)

// EnvModsRoot overrides Mods folder discovery.
const EnvModsRoot = "MODINSTALL_MODS_ROOT"

// defaultRelPath is the game's Mods location relative to the user's home
// directory, identical on Windows and macOS.
var defaultRelPath = filepath.Join("Documents", "Electronic Arts", "The Sims 4", "Mods")

// ModsRoot resolves the destination Mods folder. flagValue wins when
// non-empty; it is trusted as-is so callers can target any directory.
func ModsRoot(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if env := os.Getenv(EnvModsRoot); env != "" {
		if err := mustBeDir(env); err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput,
				"%s does not point to a directory", EnvModsRoot).
				WithDetail("path", env)
		}
		return env, nil
	}

	if def, ok := DefaultModsRoot(); ok {
		return def, nil
	}

	return "", errors.New(errors.ErrInvalidInput,
		"no Mods folder found; pass --mods-root or set "+EnvModsRoot)
}

// DefaultModsRoot returns the conventional Mods folder under the user's home
// directory and whether it exists.
func DefaultModsRoot() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	candidate := filepath.Join(home, defaultRelPath)
	if mustBeDir(candidate) != nil {
		return "", false
	}
	return candidate, true
}

func mustBeDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "%s is not a directory", path)
	}
	return nil
}
