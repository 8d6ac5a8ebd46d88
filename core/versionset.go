package core

import (
	"sort"
	"strings"
)

// VersionSet is a finite union of disjoint, non-adjacent VersionRanges,
// maintained in canonical form: sorted by lower bound, no two ranges
// overlap, and no two ranges are adjacent (see adjacentOrOverlapping).
// Every constructor below funnels through normalize, so canonical form is
// the module boundary's invariant — there is no separate "raw" constructor
// exposed outside this file.
type VersionSet struct {
	ranges []VersionRange
}

// Empty returns the version set containing no versions.
func Empty() VersionSet {
	return VersionSet{}
}

// All returns the version set containing every version.
func All() VersionSet {
	return VersionSet{ranges: []VersionRange{Unbounded()}}
}

// NewVersionSet builds a canonical VersionSet from zero or more ranges,
// normalizing (dropping empties, sorting, and merging overlapping or
// adjacent ranges).
func NewVersionSet(ranges ...VersionRange) VersionSet {
	return normalize(ranges)
}

// Single returns the version set containing exactly v.
func Single(v Version) VersionSet {
	return NewVersionSet(Exactly(v))
}

func normalize(ranges []VersionRange) VersionSet {
	filtered := make([]VersionRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.IsEmpty() {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return VersionSet{}
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i].low, filtered[j].low
		if !a.present && !b.present {
			return false
		}
		if !a.present {
			return true
		}
		if !b.present {
			return false
		}
		c := a.version.Compare(b.version)
		if c != 0 {
			return c < 0
		}
		// inclusive lower bound sorts before exclusive at the same point
		return a.inclusive && !b.inclusive
	})

	merged := []VersionRange{filtered[0]}
	for _, r := range filtered[1:] {
		last := merged[len(merged)-1]
		if adjacentOrOverlapping(last, r) {
			merged[len(merged)-1] = union2(last, r)
		} else {
			merged = append(merged, r)
		}
	}
	return VersionSet{ranges: merged}
}

// IsEmpty reports whether the set contains no versions.
func (s VersionSet) IsEmpty() bool {
	return len(s.ranges) == 0
}

// IsAll reports whether the set contains every version.
func (s VersionSet) IsAll() bool {
	return len(s.ranges) == 1 && !s.ranges[0].low.present && !s.ranges[0].high.present
}

// Contains reports whether v is a member of the set.
func (s VersionSet) Contains(v Version) bool {
	// Ranges are sorted and disjoint, so a linear scan suffices; sets
	// arising from real constraint grammars are small.
	for _, r := range s.ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// Union returns the canonical union of s and other.
func (s VersionSet) Union(other VersionSet) VersionSet {
	combined := make([]VersionRange, 0, len(s.ranges)+len(other.ranges))
	combined = append(combined, s.ranges...)
	combined = append(combined, other.ranges...)
	return normalize(combined)
}

// Intersect returns the canonical intersection of s and other.
func (s VersionSet) Intersect(other VersionSet) VersionSet {
	var out []VersionRange
	for _, a := range s.ranges {
		for _, b := range other.ranges {
			if r, ok := a.Intersect(b); ok {
				out = append(out, r)
			}
		}
	}
	return normalize(out)
}

// Complement returns the exact complement of s: every version not in s.
//
// This is the one operation the entire resolver's correctness rests on:
// it must be exact and always canonical, including
// across the unbounded endpoints. The algorithm walks the sorted, disjoint
// ranges of s and emits the gap before the first range (if the first range
// doesn't already start at -inf), the gap between each pair of consecutive
// ranges (with inclusivity flipped on both sides of the gap), and the gap
// after the last range (if it doesn't already reach +inf).
func (s VersionSet) Complement() VersionSet {
	if len(s.ranges) == 0 {
		return All()
	}

	var out []VersionRange

	first := s.ranges[0]
	if first.low.present {
		out = append(out, VersionRange{
			high: bound{present: true, version: first.low.version, inclusive: !first.low.inclusive},
		})
	}

	for i := 0; i+1 < len(s.ranges); i++ {
		cur := s.ranges[i]
		next := s.ranges[i+1]
		// cur.high and next.low are both present here: if either were
		// absent, normalize would have merged these two ranges already.
		out = append(out, VersionRange{
			low:  bound{present: true, version: cur.high.version, inclusive: !cur.high.inclusive},
			high: bound{present: true, version: next.low.version, inclusive: !next.low.inclusive},
		})
	}

	last := s.ranges[len(s.ranges)-1]
	if last.high.present {
		out = append(out, VersionRange{
			low: bound{present: true, version: last.high.version, inclusive: !last.high.inclusive},
		})
	}

	return normalize(out)
}

// Equal reports whether s and other contain exactly the same versions.
// Because both are canonical, this reduces to comparing the ranges bound by
// bound, with bound versions compared by precedence rather than identity.
func (s VersionSet) Equal(other VersionSet) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	sameBound := func(x, y bound) bool {
		if x.present != y.present {
			return false
		}
		return !x.present || (x.inclusive == y.inclusive && x.version.Equal(y.version))
	}
	for i := range s.ranges {
		a, b := s.ranges[i], other.ranges[i]
		if !sameBound(a.low, b.low) || !sameBound(a.high, b.high) {
			return false
		}
	}
	return true
}

func (s VersionSet) String() string {
	if s.IsEmpty() {
		return "∅"
	}
	if s.IsAll() {
		return "*"
	}
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ∪ ")
}
