package types

import (
	"path"
	"strings"
	"time"
)

// Classification labels a single archive entry. It is derived purely from
// the entry's name, never its content.
type Classification int

const (
	// ClassEssential marks recognized mod-content files (.package, .ts4script).
	ClassEssential Classification = iota
	// ClassExtra marks documentation, images and other non-essential files.
	ClassExtra
	// ClassNoise marks platform artifacts that are always discarded.
	ClassNoise
)

// String returns the human-readable name of the classification.
func (c Classification) String() string {
	switch c {
	case ClassEssential:
		return "essential"
	case ClassExtra:
		return "extra"
	case ClassNoise:
		return "noise"
	default:
		return "unknown"
	}
}

// Shape is the structural classification of an archive's essential-entry layout.
type Shape string

const (
	// ShapeFlat means at least one essential entry sits at the archive root.
	ShapeFlat Shape = "FLAT"
	// ShapeSingleDir means all essential entries share one top-level directory.
	ShapeSingleDir Shape = "SINGLE_DIR"
	// ShapeMixed means essential entries span two or more top-level directories.
	ShapeMixed Shape = "MIXED"
)

// Entry is one archive member as reported by an archive adapter.
// Paths are forward-slash separated and relative to the archive root.
// Entries are immutable once listed.
type Entry struct {
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Parts returns the slash-separated path components of the entry,
// with empty and "." components removed.
func (e Entry) Parts() []string {
	p := strings.Trim(e.Path, "/")
	if p == "" {
		return nil
	}
	raw := strings.Split(p, "/")
	parts := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg == "" || seg == "." {
			continue
		}
		parts = append(parts, seg)
	}
	return parts
}

// Top returns the entry's top-level path segment, or "" when the entry
// sits directly at the archive root.
func (e Entry) Top() string {
	parts := e.Parts()
	if len(parts) <= 1 && !e.IsDir {
		return ""
	}
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// Ext returns the lower-cased file extension including the dot,
// or "" for directories.
func (e Entry) Ext() string {
	if e.IsDir {
		return ""
	}
	return strings.ToLower(path.Ext(e.Path))
}

// Base returns the final path component of the entry.
func (e Entry) Base() string {
	parts := e.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Resolution is the outcome of root resolution for one archive.
type Resolution struct {
	Shape   Shape
	ModRoot string // top-level segment stripped before install, "" for archive root
	// DestName is the chosen destination subfolder name under the mods root.
	DestName string
	// SourceBase is the sanitized archive base name, kept so that callers
	// overriding the root can still derive the wrapping folder name.
	SourceBase string
	// Justification records shape, chosen root, counts considered and the
	// tie-break reason when one was invoked. Audit/debug only.
	Justification string
}

// PlanEntry maps one archive entry to its destination-relative path
// below the mod's destination subfolder.
type PlanEntry struct {
	Source  Entry
	RelPath string
	Class   Classification
}

// InstallPlan is the concrete destination mapping produced by the planner.
// It may be surfaced to a caller for review and editing before execution.
type InstallPlan struct {
	DestName      string
	Entries       []PlanEntry
	IncludeExtras bool
	Shape         Shape
	ModRoot       string
	Justification string
}

// Paths returns the destination-relative paths of all plan entries, in order.
func (p *InstallPlan) Paths() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.RelPath
	}
	return out
}
