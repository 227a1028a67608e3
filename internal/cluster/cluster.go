// Package cluster groups normalized store names into store-group identities.
//
// The grouping strategy is deliberately pluggable: the substring strategy
// reproduces the historical greedy behavior the rest of the pipeline was
// built against, while the levenshtein strategy is a stricter drop-in
// replacement.
package cluster

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/blocekhq/blocek/internal/model"
)

// Clusterer maps each normalized store name to the representative name of
// its group. Input order is significant and must be the first-occurrence
// order of the underlying dataset.
type Clusterer interface {
	Cluster(names []string) map[string]string
}

// Substring is the greedy first-match-wins clusterer: a name joins the
// first existing representative (in insertion order) that it contains or is
// contained by, case-insensitively. The result depends on encounter order;
// a later, more precise match is never reconsidered. This matches the
// historical behavior and downstream data, so it stays the default.
type Substring struct{}

// Cluster implements Clusterer.
func (Substring) Cluster(names []string) map[string]string {
	groups := make(map[string]string, len(names))
	var reps []string

	for _, name := range names {
		if _, seen := groups[name]; seen {
			continue
		}
		matched := ""
		for _, rep := range reps {
			if similar(name, rep) {
				matched = rep
				break
			}
		}
		if matched == "" {
			reps = append(reps, name)
			matched = name
		}
		groups[name] = matched
	}

	return groups
}

func similar(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Levenshtein groups names whose case-insensitive edit distance to an
// existing representative is at most MaxDistance. Stricter than Substring:
// "Lidl" and "Lidl Slovakia" stay separate unless MaxDistance allows the
// suffix, and short unrelated names cannot capture longer ones.
type Levenshtein struct {
	MaxDistance int
}

// Cluster implements Clusterer.
func (c Levenshtein) Cluster(names []string) map[string]string {
	groups := make(map[string]string, len(names))
	var reps []string

	for _, name := range names {
		if _, seen := groups[name]; seen {
			continue
		}
		matched := ""
		best := c.MaxDistance + 1
		for _, rep := range reps {
			d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(rep))
			if d < best {
				best = d
				matched = rep
			}
		}
		if matched == "" {
			reps = append(reps, name)
			matched = name
		}
		groups[name] = matched
	}

	return groups
}

// UniqueNormalized extracts normalized store names in first-occurrence
// order, the iteration order every Clusterer depends on.
func UniqueNormalized(lines []model.AnnotatedLine) []string {
	seen := make(map[string]bool, len(lines))
	var names []string
	for i := range lines {
		n := lines[i].NormalizedStore
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

// Annotate fills in the StoreGroup of each line from the group mapping.
// Names missing from the mapping fall back to themselves.
func Annotate(lines []model.AnnotatedLine, groups map[string]string) []model.AnnotatedLine {
	out := make([]model.AnnotatedLine, len(lines))
	for i, l := range lines {
		if rep, ok := groups[l.NormalizedStore]; ok {
			l.StoreGroup = rep
		} else {
			l.StoreGroup = l.NormalizedStore
		}
		out[i] = l
	}
	return out
}
