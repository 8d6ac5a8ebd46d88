package core

import "fmt"

// bound is one endpoint of a VersionRange. An absent lower bound means
// -infinity; an absent upper bound means +infinity. Inclusive is only
// meaningful when the bound is present.
type bound struct {
	present   bool
	version   Version
	inclusive bool
}

func unboundedLow() bound  { return bound{} }
func unboundedHigh() bound { return bound{} }

func boundedLow(v Version, inclusive bool) bound {
	return bound{present: true, version: v, inclusive: inclusive}
}

func boundedHigh(v Version, inclusive bool) bound {
	return bound{present: true, version: v, inclusive: inclusive}
}

// VersionRange is a half-open (or closed, or fully unbounded) interval over
// versions: [low, high), (low, high], etc., depending on the inclusivity of
// each side. An absent side means unbounded in that direction.
type VersionRange struct {
	low  bound
	high bound
}

// Unbounded returns the range spanning every version.
func Unbounded() VersionRange {
	return VersionRange{}
}

// NewRange builds a range from explicit bounds. Use AtLeast/Above/AtMost/
// Below/Exactly/Unbounded for the common cases; this is the general form.
func NewRange(lowV Version, lowInclusive bool, hasLow bool, highV Version, highInclusive bool, hasHigh bool) VersionRange {
	r := VersionRange{}
	if hasLow {
		r.low = boundedLow(lowV, lowInclusive)
	}
	if hasHigh {
		r.high = boundedHigh(highV, highInclusive)
	}
	return r
}

// AtLeast returns [v, +inf).
func AtLeast(v Version) VersionRange {
	return VersionRange{low: boundedLow(v, true)}
}

// Above returns (v, +inf).
func Above(v Version) VersionRange {
	return VersionRange{low: boundedLow(v, false)}
}

// AtMost returns (-inf, v].
func AtMost(v Version) VersionRange {
	return VersionRange{high: boundedHigh(v, true)}
}

// Below returns (-inf, v).
func Below(v Version) VersionRange {
	return VersionRange{high: boundedHigh(v, false)}
}

// Exactly returns the single-point range [v, v].
func Exactly(v Version) VersionRange {
	return VersionRange{low: boundedLow(v, true), high: boundedHigh(v, true)}
}

// Between returns a range between lo and hi with the given inclusivity on
// each side.
func Between(lo Version, loIncl bool, hi Version, hiIncl bool) VersionRange {
	return VersionRange{low: boundedLow(lo, loIncl), high: boundedHigh(hi, hiIncl)}
}

// IsEmpty reports whether the range contains no version: lower bound
// strictly greater than upper, or equal bounds where either side excludes
// the shared point.
func (r VersionRange) IsEmpty() bool {
	if !r.low.present || !r.high.present {
		return false
	}
	c := r.low.version.Compare(r.high.version)
	if c > 0 {
		return true
	}
	if c == 0 {
		return !(r.low.inclusive && r.high.inclusive)
	}
	return false
}

// Contains reports whether v lies within the range.
func (r VersionRange) Contains(v Version) bool {
	if r.low.present {
		c := v.Compare(r.low.version)
		if c < 0 || (c == 0 && !r.low.inclusive) {
			return false
		}
	}
	if r.high.present {
		c := v.Compare(r.high.version)
		if c > 0 || (c == 0 && !r.high.inclusive) {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of r and other, and whether the
// result is non-empty. An empty result is always reported as (zero, false)
// so callers never have to separately check IsEmpty.
func (r VersionRange) Intersect(other VersionRange) (VersionRange, bool) {
	out := VersionRange{
		low:  maxLow(r.low, other.low),
		high: minHigh(r.high, other.high),
	}
	if out.IsEmpty() {
		return VersionRange{}, false
	}
	return out, true
}

// adjacentOrOverlapping reports whether a and b overlap, or touch at a
// shared boundary where at least one side is inclusive (so their union is
// itself a single contiguous range, not two disjoint ones).
func adjacentOrOverlapping(a, b VersionRange) bool {
	// a is assumed to sort at or before b by lower bound.
	if !a.high.present || !b.low.present {
		return true
	}
	c := a.high.version.Compare(b.low.version)
	if c > 0 {
		return true
	}
	if c == 0 {
		return a.high.inclusive || b.low.inclusive
	}
	return false
}

// union2 merges two overlapping-or-adjacent ranges (as determined by the
// caller) into one. Behavior is undefined if the ranges are disjoint with a
// gap between them.
func union2(a, b VersionRange) VersionRange {
	return VersionRange{
		low:  minLow(a.low, b.low),
		high: maxHigh(a.high, b.high),
	}
}

func maxLow(a, b bound) bound {
	if !a.present {
		return b
	}
	if !b.present {
		return a
	}
	c := a.version.Compare(b.version)
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		// equal version: the exclusive side wins (narrower)
		if !a.inclusive || !b.inclusive {
			return bound{present: true, version: a.version, inclusive: false}
		}
		return a
	}
}

func minLow(a, b bound) bound {
	if !a.present || !b.present {
		return bound{}
	}
	c := a.version.Compare(b.version)
	switch {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		if a.inclusive || b.inclusive {
			return bound{present: true, version: a.version, inclusive: true}
		}
		return a
	}
}

func minHigh(a, b bound) bound {
	if !a.present {
		return b
	}
	if !b.present {
		return a
	}
	c := a.version.Compare(b.version)
	switch {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		if !a.inclusive || !b.inclusive {
			return bound{present: true, version: a.version, inclusive: false}
		}
		return a
	}
}

func maxHigh(a, b bound) bound {
	if !a.present || !b.present {
		return bound{}
	}
	c := a.version.Compare(b.version)
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		if a.inclusive || b.inclusive {
			return bound{present: true, version: a.version, inclusive: true}
		}
		return a
	}
}

func (r VersionRange) String() string {
	if !r.low.present && !r.high.present {
		return "*"
	}
	lo := "-inf"
	loBrk := "("
	if r.low.present {
		lo = r.low.version.String()
		if r.low.inclusive {
			loBrk = "["
		}
	}
	hi := "+inf"
	hiBrk := ")"
	if r.high.present {
		hi = r.high.version.String()
		if r.high.inclusive {
			hiBrk = "]"
		}
	}
	return fmt.Sprintf("%s%s, %s%s", loBrk, lo, hi, hiBrk)
}
