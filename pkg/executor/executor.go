// Package executor materializes a finalized install plan.
//
// Execution is at-least-once, not atomic: an I/O failure mid-copy aborts the
// remaining entries and leaves already-copied files in place, because partial
// progress is less harmful here than destructive rollback. The marker is only
// written after every plan entry copied cleanly.
package executor

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/marker"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Source provides content streams for plan entries. archive.Adapter
// satisfies it.
type Source interface {
	Open(e types.Entry) (io.ReadCloser, error)
}

// Mode selects how a re-install over an existing marker behaves. There is no
// implicit default: a prior marker plus ModeUnset is a decision the caller
// still has to make.
type Mode int

const (
	// ModeUnset means the caller made no choice.
	ModeUnset Mode = iota
	// ModeReplace removes previously-marked files absent from the new plan.
	ModeReplace
	// ModeMerge writes the new plan's files and keeps everything else.
	ModeMerge
)

// String returns the mode's CLI spelling.
func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeMerge:
		return "merge"
	default:
		return "unset"
	}
}

// ParseMode converts a CLI spelling to a Mode. The empty string is ModeUnset.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "":
		return ModeUnset, nil
	case "replace":
		return ModeReplace, nil
	case "merge":
		return ModeMerge, nil
	default:
		return ModeUnset, errors.Newf(errors.ErrInvalidInput, "unknown install mode %q", s)
	}
}

// Options are the caller-controllable execution knobs.
type Options struct {
	Mode Mode
	// ForceProtected is the explicit acknowledgment required to touch a mod
	// whose marker carries the protected flag.
	ForceProtected bool
	// Version and URL are optional provenance recorded in the marker.
	Version string
	URL     string
	// AsAddon appends a nested install record to an existing marker instead
	// of replacing or merging the root record.
	AsAddon   bool
	AddonName string
}

// Result reports a completed execution.
type Result struct {
	DestDir   string
	Installed []string
	Marker    *marker.Marker
}

// Executor performs plan side effects against one filesystem. It holds no
// shared mutable state; callers must serialize executions that target the
// same destination subfolder.
type Executor struct {
	fs      types.FS
	markers *marker.Store
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates an executor over the given filesystem.
func New(fs types.FS) *Executor {
	return &Executor{
		fs:      fs,
		markers: marker.NewStore(fs),
		logger:  logging.GetLogger("executor"),
		now:     time.Now,
	}
}

// Execute materializes the plan under destRoot and writes or updates the
// mod's marker. The protected-mod and decision-required gates fire before
// any destination side effect.
func (e *Executor) Execute(src Source, plan *types.InstallPlan, destRoot string, opts Options) (*Result, error) {
	destDir := filepath.Join(destRoot, plan.DestName)

	existing, err := e.markers.Load(destDir)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Protected && !opts.ForceProtected {
			return nil, errors.Newf(errors.ErrProtectedModGuard,
				"mod %q is protected; re-run with the explicit override to modify it", existing.Name).
				WithDetail("destDir", destDir)
		}
		if !opts.AsAddon && opts.Mode == ModeUnset {
			return nil, errors.Newf(errors.ErrDecisionRequired,
				"mod %q is already installed; choose replace or merge", existing.Name).
				WithDetail("destDir", destDir)
		}
	}

	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create destination subfolder").
			WithDetail("destDir", destDir)
	}

	if opts.Mode == ModeReplace && existing != nil && !opts.AsAddon {
		e.removeStale(destDir, existing.AllFiles(), plan.Paths())
	}

	installed := make([]string, 0, len(plan.Entries))
	for i, pe := range plan.Entries {
		if err := e.copyEntry(src, destDir, pe); err != nil {
			remaining := make([]string, 0, len(plan.Entries)-i)
			for _, rest := range plan.Entries[i:] {
				remaining = append(remaining, rest.RelPath)
			}
			return nil, errors.Wrap(err, errors.ErrPartialInstall, "install aborted mid-copy").
				WithDetail("destDir", destDir).
				WithDetail("installed", installed).
				WithDetail("remaining", remaining)
		}
		installed = append(installed, pe.RelPath)
	}

	m, err := e.updateMarker(destDir, existing, installed, plan, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("destDir", destDir).
		Str("mode", opts.Mode.String()).
		Int("files", len(installed)).
		Msg("Install executed")

	return &Result{DestDir: destDir, Installed: installed, Marker: m}, nil
}

// copyEntry streams one plan entry into place, preserving its source
// timestamp best-effort.
func (e *Executor) copyEntry(src Source, destDir string, pe types.PlanEntry) error {
	target := filepath.Join(destDir, filepath.FromSlash(pe.RelPath))

	if dir := filepath.Dir(target); dir != "." {
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	rc, err := src.Open(pe.Source)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	w, err := e.fs.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, rc); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if !pe.Source.ModTime.IsZero() {
		if err := e.fs.Chtimes(target, pe.Source.ModTime, pe.Source.ModTime); err != nil {
			e.logger.Warn().Err(err).Str("path", target).Msg("Failed to preserve timestamp")
		}
	}

	e.logger.Debug().Str("path", target).Str("class", pe.Class.String()).Msg("File installed")
	return nil
}

// removeStale deletes previously-marked files absent from the new plan and
// prunes directories left empty. Failures are logged, never fatal: a stale
// file we cannot remove does not invalidate the new install.
func (e *Executor) removeStale(destDir string, oldFiles, newFiles []string) {
	keep := make(map[string]bool, len(newFiles))
	for _, f := range newFiles {
		keep[f] = true
	}

	dirs := map[string]bool{}
	for _, f := range oldFiles {
		if keep[f] {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(f))
		if err := e.fs.Remove(target); err != nil && !os.IsNotExist(err) {
			e.logger.Warn().Err(err).Str("path", target).Msg("Failed to remove stale file")
			continue
		}
		e.logger.Debug().Str("path", target).Msg("Stale file removed")
		for dir := filepath.Dir(target); len(dir) > len(destDir); dir = filepath.Dir(dir) {
			dirs[dir] = true
		}
	}

	// Deepest first so empty chains collapse; Remove refuses non-empty dirs.
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, d := range sorted {
		_ = e.fs.Remove(d)
	}
}

// updateMarker writes the post-install record. A replace rewrites the root
// file list and drops add-on records along with their files; a merge unions
// the file lists; an add-on appends a nested record.
func (e *Executor) updateMarker(destDir string, existing *marker.Marker, installed []string, plan *types.InstallPlan, opts Options) (*marker.Marker, error) {
	now := e.now()

	var m *marker.Marker
	switch {
	case existing == nil:
		if opts.AsAddon {
			e.logger.Warn().Str("destDir", destDir).Msg("Add-on requested with no prior install; recording a fresh marker")
		}
		m = &marker.Marker{
			Name:        plan.DestName,
			Files:       installed,
			Version:     opts.Version,
			URL:         opts.URL,
			InstalledAt: now,
			UpdatedAt:   now,
		}

	case opts.AsAddon:
		m = existing
		m.Addons = append(m.Addons, marker.Addon{
			Name:        opts.AddonName,
			Files:       installed,
			Version:     opts.Version,
			URL:         opts.URL,
			InstalledAt: now,
		})
		m.UpdatedAt = now

	case opts.Mode == ModeReplace:
		m = existing
		m.Files = installed
		m.Addons = nil
		m.UpdatedAt = now
		if opts.Version != "" {
			m.Version = opts.Version
		}
		if opts.URL != "" {
			m.URL = opts.URL
		}

	default: // merge
		m = existing
		m.Files = mergePaths(existing.Files, installed)
		m.UpdatedAt = now
		if opts.Version != "" {
			m.Version = opts.Version
		}
		if opts.URL != "" {
			m.URL = opts.URL
		}
	}

	if err := e.markers.Write(destDir, m); err != nil {
		return nil, err
	}
	return m, nil
}

// mergePaths unions two relative-path lists preserving first-seen order.
func mergePaths(old, add []string) []string {
	seen := make(map[string]bool, len(old))
	out := make([]string, 0, len(old)+len(add))
	for _, f := range old {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, f := range add {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
