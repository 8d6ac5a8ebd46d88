package core

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver"
)

// Version is an immutable (major, minor, patch) tuple with an optional
// pre-release tag and an optional build tag. Build tags are preserved for
// string form but never participate in ordering or equality.
//
// Version wraps github.com/Masterminds/semver for parsing and comparison;
// the version-set algebra built on top of it (VersionRange, VersionSet) is
// this package's own, since no library in use here exposes an exact,
// canonical complement operation over ranges of versions.
type Version struct {
	sv  *semver.Version
	raw string
}

// versionRx accepts exactly MAJOR.MINOR.PATCH[-PRE][+BUILD]. The underlying
// semver parser is more permissive (it coerces "1.0" to "1.0.0"), so the
// grammar is enforced here before handing off.
var versionRx = regexp.MustCompile(`^\d+\.\d+\.\d+(-[A-Za-z0-9.\-]+)?(\+[A-Za-z0-9.\-]+)?$`)

// ParseVersion parses a MAJOR.MINOR.PATCH[-PRE][+BUILD] string. PRE and BUILD
// each match [A-Za-z0-9.\-]+. Any other input is a parse failure.
func ParseVersion(s string) (Version, error) {
	if !versionRx.MatchString(s) {
		return Version{}, &InvalidInputError{Context: "version", Value: s, Err: fmt.Errorf("must be MAJOR.MINOR.PATCH with optional -PRE and +BUILD")}
	}
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, &InvalidInputError{Context: "version", Value: s, Err: err}
	}
	return Version{sv: sv, raw: s}, nil
}

// MustParseVersion is ParseVersion, panicking on error. Intended for tests
// and literal construction of fixtures, never for untrusted input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version using its original textual form (build tag
// included), not a normalized re-encoding.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	if v.sv == nil {
		return "<zero-version>"
	}
	return v.sv.String()
}

// IsZero reports whether v is the zero Version (no underlying semver.Version).
func (v Version) IsZero() bool {
	return v.sv == nil
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Equality ignores build metadata; ordering follows semver precedence
// (numeric triple, then pre-release lexicographic-by-identifier, with a
// version lacking a pre-release tag always greater than one sharing its
// triple that has one).
func (v Version) Compare(other Version) int {
	return v.sv.Compare(other.sv)
}

// Equal reports structural equality (build tag ignored).
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Less reports whether v sorts strictly before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Major returns the major component.
func (v Version) Major() int64 { return v.sv.Major() }

// Minor returns the minor component.
func (v Version) Minor() int64 { return v.sv.Minor() }

// Patch returns the patch component.
func (v Version) Patch() int64 { return v.sv.Patch() }

// Prerelease returns the dotted pre-release identifier, or "" if none.
func (v Version) Prerelease() string {
	if v.sv == nil {
		return ""
	}
	return v.sv.Prerelease()
}
