// Package installer wires the full pipeline: open the source container,
// resolve the mod root, build the plan, execute it.
//
// Plan and Install share the first three stages so a caller can preview the
// exact plan that a subsequent Install would execute.
package installer

import (
	"github.com/rs/zerolog"

	"github.com/sims4tools/modinstall/pkg/archive"
	"github.com/sims4tools/modinstall/pkg/executor"
	"github.com/sims4tools/modinstall/pkg/filesystem"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/planner"
	"github.com/sims4tools/modinstall/pkg/resolve"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Options bundle the knobs of both pipeline halves.
type Options struct {
	Planner planner.Options
	Exec    executor.Options
}

// DefaultOptions returns the documented defaults for a first install.
func DefaultOptions() Options {
	return Options{Planner: planner.DefaultOptions()}
}

// Installer runs the pipeline against one destination filesystem. Source
// containers are always read from the real OS filesystem, because external
// extraction tools cannot see anything else.
type Installer struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates an installer writing through the given filesystem.
func New(fs types.FS) *Installer {
	return &Installer{fs: fs, logger: logging.GetLogger("installer")}
}

// Default creates an installer over the OS filesystem.
func Default() *Installer {
	return New(filesystem.NewOS())
}

// Plan opens the source, resolves its shape and returns the install plan
// without touching the destination.
func (i *Installer) Plan(sourcePath string, opts planner.Options) (*types.InstallPlan, error) {
	adapter, err := archive.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = adapter.Close() }()

	plan, err := i.buildPlan(adapter, sourcePath, opts)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Install runs the full pipeline and materializes the plan under destRoot.
func (i *Installer) Install(sourcePath, destRoot string, opts Options) (*executor.Result, error) {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	adapter, err := archive.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = adapter.Close() }()

	plan, err := i.buildPlan(adapter, sourcePath, opts.Planner)
	if err != nil {
		return nil, err
	}

	result, err := executor.New(i.fs).Execute(adapter, plan, destRoot, opts.Exec)
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Str("source", sourcePath).
		Str("destDir", result.DestDir).
		Int("files", len(result.Installed)).
		Msg("Install complete")
	return result, nil
}

func (i *Installer) buildPlan(adapter archive.Adapter, sourcePath string, opts planner.Options) (*types.InstallPlan, error) {
	entries := adapter.Entries()

	resolution, err := resolve.Resolve(entries, resolve.BaseName(sourcePath))
	if err != nil {
		return nil, err
	}

	i.logger.Debug().
		Str("source", sourcePath).
		Str("shape", string(resolution.Shape)).
		Str("modRoot", resolution.ModRoot).
		Str("why", resolution.Justification).
		Msg("Source resolved")

	return planner.Build(entries, resolution, opts)
}
