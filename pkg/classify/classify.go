// Package classify labels archive entries as essential, extra or noise.
//
// Classification is a pure function of the entry name: essential entries are
// the two content-bearing extensions the game recognizes, a small fixed
// deny-list of platform artifacts is always noise, and everything else is
// extra. Content is never inspected.
package classify

import (
	"path"
	"strings"

	"github.com/sims4tools/modinstall/pkg/types"
)

// essentialExts are the extensions of core mod content.
var essentialExts = map[string]struct{}{
	".package":   {},
	".ts4script": {},
}

// noiseDirs are top-level directories whose whole subtree is discarded.
var noiseDirs = map[string]struct{}{
	"__macosx": {},
}

// noiseFiles are junk file names discarded regardless of location.
var noiseFiles = map[string]struct{}{
	"thumbs.db":   {},
	".ds_store":   {},
	"desktop.ini": {},
}

// Classify labels a single entry path. It is total: every path gets exactly
// one label. Directory entries are classified by the same rules so that a
// noise directory entry itself is labeled noise.
func Classify(entryPath string) types.Classification {
	normalized := strings.ReplaceAll(entryPath, `\`, `/`)
	normalized = strings.Trim(normalized, "/")
	if normalized == "" {
		return types.ClassNoise
	}

	parts := strings.Split(normalized, "/")
	if _, ok := noiseDirs[strings.ToLower(parts[0])]; ok {
		return types.ClassNoise
	}

	base := strings.ToLower(parts[len(parts)-1])
	if _, ok := noiseFiles[base]; ok {
		return types.ClassNoise
	}

	if IsEssential(normalized) {
		return types.ClassEssential
	}
	return types.ClassExtra
}

// IsEssential reports whether the path names core mod content
// (case-insensitive extension match).
func IsEssential(entryPath string) bool {
	ext := strings.ToLower(path.Ext(entryPath))
	_, ok := essentialExts[ext]
	return ok
}

// EssentialExtensions returns the recognized content-bearing extensions,
// for display in user-facing messages.
func EssentialExtensions() []string {
	return []string{".package", ".ts4script"}
}
