// Package resolve computes an archive's structural shape and its mod root.
//
// The resolver is pure: it inspects the entry listing only and never touches
// the destination filesystem. Its output is deterministic for identical
// input, including the MIXED tie-break chain (most essential files, then
// shallowest median depth, then lexicographic candidate name).
package resolve

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/sims4tools/modinstall/pkg/classify"
	"github.com/sims4tools/modinstall/pkg/errors"
	"github.com/sims4tools/modinstall/pkg/logging"
	"github.com/sims4tools/modinstall/pkg/types"
)

// Candidate describes one top-level directory considered during MIXED
// resolution. Exposed so review UIs can offer the discarded roots.
type Candidate struct {
	Name        string
	Essential   int
	MedianDepth float64
}

// Resolve inspects the classified entry set and computes the archive shape,
// the chosen mod root prefix and the destination subfolder name.
// sourceBase is the archive's base name with the container extension removed.
func Resolve(entries []types.Entry, sourceBase string) (types.Resolution, error) {
	logger := logging.GetLogger("resolve")

	essential := essentialEntries(entries)
	if len(essential) == 0 {
		return types.Resolution{}, errors.New(errors.ErrNothingToInstall,
			"archive contains no essential files").
			WithDetail("recognizedExtensions", classify.EssentialExtensions())
	}

	sanitizedBase := SanitizeName(sourceBase)
	res := types.Resolution{SourceBase: sanitizedBase}

	tops := map[string]bool{}
	flat := false
	for _, e := range essential {
		top := e.Top()
		if top == "" {
			flat = true
			continue
		}
		tops[top] = true
	}

	switch {
	case flat:
		res.Shape = types.ShapeFlat
		res.ModRoot = ""
		res.DestName = sanitizedBase
		res.Justification = "essential files at archive root"

	case len(tops) == 1:
		var root string
		for t := range tops {
			root = t
		}
		res.Shape = types.ShapeSingleDir
		res.ModRoot = root
		// The single directory becomes the destination subfolder directly:
		// wrapping it again would add a redundant nesting level.
		res.DestName = root
		res.Justification = fmt.Sprintf("single top-level directory %q holds all essential files", root)

	default:
		candidates := Candidates(entries)
		chosen, why := pickMixedRoot(candidates)
		res.Shape = types.ShapeMixed
		res.ModRoot = chosen.Name
		res.DestName = mixedDestName(sanitizedBase, chosen.Name, candidates)
		res.Justification = fmt.Sprintf(
			"picked %q out of %d top-level candidates (essential files: %d, median depth: %.1f)%s",
			chosen.Name, len(candidates), chosen.Essential, chosen.MedianDepth, why)
	}

	logger.Debug().
		Str("shape", string(res.Shape)).
		Str("modRoot", res.ModRoot).
		Str("destName", res.DestName).
		Str("justification", res.Justification).
		Msg("Archive root resolved")

	return res, nil
}

// Candidates computes per-top-level-directory essential stats, sorted by
// candidate name. Flat essential entries are not candidates.
func Candidates(entries []types.Entry) []Candidate {
	depths := map[string][]int{}
	for _, e := range essentialEntries(entries) {
		top := e.Top()
		if top == "" {
			continue
		}
		depths[top] = append(depths[top], len(e.Parts())-1)
	}

	out := make([]Candidate, 0, len(depths))
	for name, ds := range depths {
		out = append(out, Candidate{
			Name:        name,
			Essential:   len(ds),
			MedianDepth: median(ds),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// pickMixedRoot selects the winning candidate and describes the tie-break
// used, if any. Candidates must be sorted by name so the final fallback is
// stable lexicographic order.
func pickMixedRoot(candidates []Candidate) (Candidate, string) {
	best := candidates[0]
	countTied := false
	depthTied := false
	for _, c := range candidates[1:] {
		if c.Essential != best.Essential {
			if c.Essential > best.Essential {
				best = c
				countTied = false
				depthTied = false
			}
			continue
		}
		countTied = true
		if c.MedianDepth < best.MedianDepth {
			best = c
			depthTied = false
			continue
		}
		if c.MedianDepth == best.MedianDepth {
			// best stays: candidates are sorted, so the earlier name wins.
			depthTied = true
		}
	}

	switch {
	case depthTied:
		return best, "; tie-break: lexicographic candidate order"
	case countTied:
		return best, "; tie-break: shallowest median depth"
	default:
		return best, ""
	}
}

// mixedDestName returns the wrapping folder name for a MIXED archive,
// suffixed until it no longer collides with any discarded sibling root.
func mixedDestName(base, chosenRoot string, candidates []Candidate) string {
	siblings := map[string]bool{}
	for _, c := range candidates {
		if c.Name != chosenRoot {
			siblings[strings.ToLower(c.Name)] = true
		}
	}

	name := base
	for i := 0; siblings[strings.ToLower(name)]; i++ {
		if i == 0 {
			name = base + " (mod)"
		} else {
			name = fmt.Sprintf("%s (mod %d)", base, i+1)
		}
	}
	return name
}

func essentialEntries(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if classify.Classify(e.Path) == types.ClassEssential {
			out = append(out, e)
		}
	}
	return out
}

// median returns the median of depths; even-sized lists average the two
// middle values, matching the reference behavior for depth statistics.
func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

var (
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9 _.-]+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// SanitizeName normalizes a destination subfolder name: characters illegal
// in file names are dropped, whitespace runs collapse to one space, and an
// empty result falls back to "Mod".
func SanitizeName(name string) string {
	out := unsafeNameChars.ReplaceAllString(name, "")
	out = whitespaceRuns.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	out = strings.Trim(out, ".")
	if out == "" {
		return "Mod"
	}
	return out
}

// BaseName returns the source file's base name with its container extension
// stripped, handling the compound .tar.gz suffix.
func BaseName(sourcePath string) string {
	base := path.Base(strings.ReplaceAll(sourcePath, `\`, `/`))
	lower := strings.ToLower(base)
	if strings.HasSuffix(lower, ".tar.gz") {
		return base[:len(base)-len(".tar.gz")]
	}
	if ext := path.Ext(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}
