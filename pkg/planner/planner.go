// Package planner turns a resolved root plus classification into a concrete
// destination mapping.
//
// The plan is data only: nothing here touches the destination filesystem, so
// callers can surface the plan for review and editing (rename the subfolder,
// override the chosen root, toggle extras) before anything is executed.
package planner

import (
	"fmt"
	"strings"

	"github.com/sims4tools/modinstall/pkg/classify"
	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/resolve"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Options are the caller-controllable planning knobs.
type Options struct {
	// UseModRootLogic applies the resolved mod root. Turning it off is an
	// explicit opt-out mapping every non-noise entry path-for-path under
	// the destination subfolder, not a fallback on error.
	UseModRootLogic bool
	// IncludeExtras also maps documentation/image entries.
	IncludeExtras bool
	// RootOverride, when non-nil, replaces the resolver's choice: "" forces
	// the archive root, anything else must name an existing top-level
	// directory.
	RootOverride *string
	// DestName, when non-empty, replaces the resolved destination subfolder
	// name. It is sanitized like any other folder name.
	DestName string
}

// DefaultOptions returns the documented defaults: mod-root logic on,
// extras off.
func DefaultOptions() Options {
	return Options{UseModRootLogic: true}
}

// Build produces the install plan for the given entry listing and
// resolution. It fails with EmptyPlan when nothing survives filtering and
// with UnsafePath when any surviving entry would escape the destination.
func Build(entries []types.Entry, res types.Resolution, opts Options) (*types.InstallPlan, error) {
	logger := logging.GetLogger("planner")

	shape := res.Shape
	root := res.ModRoot
	destName := res.DestName
	justification := res.Justification

	if opts.RootOverride != nil {
		override := strings.Trim(strings.ReplaceAll(*opts.RootOverride, `\`, `/`), "/")
		if override == "" {
			root = ""
			destName = res.SourceBase
			justification = "root forced by caller: archive root"
		} else {
			if !hasTopLevelDir(entries, override) {
				return nil, errors.Newf(errors.ErrDecisionRequired,
					"override root %q is not a top-level directory of the archive", override).
					WithDetail("override", override).
					WithDetail("candidates", topLevelDirs(entries))
			}
			root = override
			destName = res.SourceBase
			justification = fmt.Sprintf("root forced by caller: %q", override)
		}
	}

	if opts.DestName != "" {
		destName = resolve.SanitizeName(opts.DestName)
	}

	plan := &types.InstallPlan{
		DestName:      destName,
		IncludeExtras: opts.IncludeExtras,
		Shape:         shape,
		ModRoot:       root,
		Justification: justification,
	}

	prefix := ""
	if opts.UseModRootLogic && root != "" {
		prefix = root + "/"
	}

	for _, e := range entries {
		if e.IsDir {
			continue
		}

		class := classify.Classify(e.Path)
		if class == types.ClassNoise {
			logger.Debug().Str("entry", e.Path).Msg("Skipping noise entry")
			continue
		}
		if class == types.ClassExtra && !opts.IncludeExtras {
			logger.Debug().Str("entry", e.Path).Msg("Skipping extra entry (extras disabled)")
			continue
		}

		rel := normalizeSlashes(e.Path)
		if prefix != "" {
			if !strings.HasPrefix(rel, prefix) {
				logger.Debug().Str("entry", e.Path).Str("root", root).Msg("Skipping entry outside mod root")
				continue
			}
			rel = rel[len(prefix):]
		}

		clean, err := normalizeDestPath(rel)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrUnsafePath, "entry escapes destination").
				WithDetail("entry", e.Path).
				WithDetail("shape", string(shape)).
				WithDetail("modRoot", root)
		}
		if clean == "" {
			logger.Debug().Str("entry", e.Path).Msg("Skipping entry with empty destination path")
			continue
		}

		plan.Entries = append(plan.Entries, types.PlanEntry{
			Source:  e,
			RelPath: clean,
			Class:   class,
		})
	}

	if len(plan.Entries) == 0 {
		return nil, errors.New(errors.ErrEmptyPlan, "no entry survives plan filtering").
			WithDetail("shape", string(shape)).
			WithDetail("modRoot", root).
			WithDetail("includeExtras", opts.IncludeExtras)
	}

	logger.Debug().
		Str("destName", plan.DestName).
		Str("shape", string(shape)).
		Str("modRoot", root).
		Int("entries", len(plan.Entries)).
		Msg("Install plan built")

	return plan, nil
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, `/`)
}

// normalizeDestPath cleans one destination-relative path. Parent traversal
// and absolute forms are hard failures; a path that normalizes to nothing
// returns "" so the caller can skip it.
func normalizeDestPath(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, `\`, `/`)
	if strings.HasPrefix(rel, "/") || hasDrivePrefix(rel) {
		return "", errors.New(errors.ErrUnsafePath, "absolute destination path")
	}

	parts := strings.Split(rel, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "", ".":
			continue
		case "..":
			return "", errors.New(errors.ErrUnsafePath, "parent traversal in destination path")
		default:
			clean = append(clean, part)
		}
	}
	return strings.Join(clean, "/"), nil
}

// hasDrivePrefix reports whether the path starts with a Windows drive root
// like C:/ or C:\.
func hasDrivePrefix(p string) bool {
	if len(p) < 3 {
		return false
	}
	c := p[0]
	isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isAlpha && p[1] == ':' && (p[2] == '/' || p[2] == '\\')
}

func topLevelDirs(entries []types.Entry) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range entries {
		top := e.Top()
		if top == "" || seen[top] {
			continue
		}
		if classify.Classify(e.Path) == types.ClassNoise {
			continue
		}
		seen[top] = true
		out = append(out, top)
	}
	return out
}

func hasTopLevelDir(entries []types.Entry, name string) bool {
	for _, top := range topLevelDirs(entries) {
		if top == name {
			return true
		}
	}
	return false
}
