// pkg/resolve/resolve_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify shape detection, mod-root choice and tie-break rules

package resolve_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/resolve"
	"github.com/sims4tools/modinstall/pkg/types"
)

func files(paths ...string) []types.Entry {
	entries := make([]types.Entry, 0, len(paths))
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			entries = append(entries, types.Entry{Path: p, IsDir: true})
			continue
		}
		entries = append(entries, types.Entry{Path: p})
	}
	return entries
}

func TestResolveFlat(t *testing.T) {
	res, err := resolve.Resolve(files(
		"script.ts4script",
		"content.package",
		"readme.txt",
	), "Cool Mod v1.2")
	require.NoError(t, err)

	assert.Equal(t, types.ShapeFlat, res.Shape)
	assert.Equal(t, "", res.ModRoot)
	assert.Equal(t, "Cool Mod v1.2", res.DestName)
	assert.Contains(t, res.Justification, "archive root")
}

func TestResolveFlatWinsOverDirs(t *testing.T) {
	// One essential file at root makes the archive FLAT even when
	// directories with essential content exist.
	res, err := resolve.Resolve(files(
		"loose.package",
		"sub/other.package",
	), "mixed")
	require.NoError(t, err)
	assert.Equal(t, types.ShapeFlat, res.Shape)
	assert.Equal(t, "", res.ModRoot)
}

func TestResolveSingleDir(t *testing.T) {
	res, err := resolve.Resolve(files(
		"cool_mod/",
		"cool_mod/script.ts4script",
		"cool_mod/content.package",
		"cool_mod/docs/readme.txt",
	), "cool_mod")
	require.NoError(t, err)

	assert.Equal(t, types.ShapeSingleDir, res.Shape)
	assert.Equal(t, "cool_mod", res.ModRoot)
	// No added nesting: the directory itself is the destination name.
	assert.Equal(t, "cool_mod", res.DestName)
}

func TestResolveSingleDirIgnoresExtraElsewhere(t *testing.T) {
	// Extras and noise never influence shape detection.
	res, err := resolve.Resolve(files(
		"cool_mod/content.package",
		"preview.png",
		"__MACOSX/._content.package",
	), "archive")
	require.NoError(t, err)
	assert.Equal(t, types.ShapeSingleDir, res.Shape)
	assert.Equal(t, "cool_mod", res.ModRoot)
}

func TestResolveMixedByCount(t *testing.T) {
	res, err := resolve.Resolve(files(
		"big/one.package",
		"big/two.package",
		"big/three.package",
		"small/only.package",
	), "bundle")
	require.NoError(t, err)

	assert.Equal(t, types.ShapeMixed, res.Shape)
	assert.Equal(t, "big", res.ModRoot)
	assert.Equal(t, "bundle", res.DestName)
	assert.Contains(t, res.Justification, `"big"`)
	assert.NotContains(t, res.Justification, "tie-break")
}

func TestResolveMixedTieBreakMedianDepth(t *testing.T) {
	// A and B both carry 3 essential entries; A nests up to depth 3,
	// B keeps everything at depth 1. B must win and the justification
	// must name the tie-break.
	res, err := resolve.Resolve(files(
		"A/x.package",
		"A/deep/y.package",
		"A/deep/deeper/z.package",
		"B/one.package",
		"B/two.package",
		"B/three.package",
	), "bundle")
	require.NoError(t, err)

	assert.Equal(t, types.ShapeMixed, res.Shape)
	assert.Equal(t, "B", res.ModRoot)
	assert.Contains(t, res.Justification, "tie-break: shallowest median depth")
}

func TestResolveMixedTieBreakLexicographic(t *testing.T) {
	// Equal counts, equal median depth: deterministic lexicographic order.
	res, err := resolve.Resolve(files(
		"zeta/a.package",
		"alpha/b.package",
	), "bundle")
	require.NoError(t, err)

	assert.Equal(t, "alpha", res.ModRoot)
	assert.Contains(t, res.Justification, "tie-break: lexicographic")
}

func TestResolveMixedDestNameAvoidsSiblings(t *testing.T) {
	// The wrapping folder must not collide with a discarded sibling root.
	res, err := resolve.Resolve(files(
		"bundle/a.package",
		"bundle/b.package",
		"other/c.package",
	), "other")
	require.NoError(t, err)

	assert.Equal(t, "bundle", res.ModRoot)
	assert.Equal(t, "other (mod)", res.DestName)
}

func TestResolveNothingToInstall(t *testing.T) {
	_, err := resolve.Resolve(files(
		"readme.txt",
		"preview.png",
		"__MACOSX/._x.package",
	), "docs_only")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNothingToInstall))
}

func TestCandidates(t *testing.T) {
	cands := resolve.Candidates(files(
		"B/one.package",
		"B/deep/two.package",
		"A/x.package",
		"A/readme.txt",
	))
	require.Len(t, cands, 2)
	assert.Equal(t, "A", cands[0].Name)
	assert.Equal(t, 1, cands[0].Essential)
	assert.Equal(t, "B", cands[1].Name)
	assert.Equal(t, 2, cands[1].Essential)
	assert.Equal(t, 1.5, cands[1].MedianDepth)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Cool Mod", "Cool Mod"},
		{"illegal_chars", `Cool/Mod:v2*`, "CoolModv2"},
		{"collapse_whitespace", "Cool \t  Mod", "Cool Mod"},
		{"unicode_stripped", "Crème Brûlée", "Crme Brle"},
		{"keeps_dots_inside", "mod.v1.2", "mod.v1.2"},
		{"empty_falls_back", "///", "Mod"},
		{"only_symbols", "***", "Mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve.SanitizeName(tt.in))
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/cool_mod.zip", "cool_mod"},
		{"archive.tar.gz", "archive"},
		{"archive.TAR.GZ", "archive"},
		{"bundle.7z", "bundle"},
		{"loose.package", "loose"},
		{"noext", "noext"},
		{`C:\downloads\win.rar`, "win"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolve.BaseName(tt.in), "BaseName(%q)", tt.in)
	}
}
