package core

import "strings"

// IncompatibilityKind tags the provenance of an Incompatibility.
type IncompatibilityKind int

const (
	// KindRoot seeds resolution with the root package's own version.
	KindRoot IncompatibilityKind = iota
	// KindNoVersions records that a package's version catalog is empty.
	KindNoVersions
	// KindDependency is derived from a single package/version's declared
	// dependency: ¬(package@version) ∨ dependency.
	KindDependency
	// KindConflict is a synthesized clause with a pre-formatted cause (e.g.
	// a single-version exclusion added while applying a negative term).
	KindConflict
	// KindDerived is learned by conflict analysis.
	KindDerived
)

func (k IncompatibilityKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindNoVersions:
		return "no-versions"
	case KindDependency:
		return "dependency"
	case KindConflict:
		return "conflict"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// cause is the tagged variant behind an Incompatibility's diagnostic
// text: rather than a free-form string decided at construction time, the
// data needed to explain the clause is carried structurally, and rendering
// it is a pure function of that structure (see Incompatibility.Cause).
type cause struct {
	// text is used for KindRoot/KindNoVersions/KindConflict/pre-formatted
	// causes where there's no richer structure worth keeping separately.
	text string
	// dependency holds (package, version, dependency index) for KindDependency.
	dependency *dependencyCause
	// derived holds the pair of antecedent incompatibilities for KindDerived.
	derived *derivedCause
}

type dependencyCause struct {
	Package Package
	Version Version
	DepName string
}

type derivedCause struct {
	Left, Right *Incompatibility
}

// Incompatibility is an immutable disjunction of terms: the assertion that
// at least one term in Terms holds, so it is violated only when every term
// is. No two terms in an Incompatibility reference the same package.
type Incompatibility struct {
	Terms []Term
	Kind  IncompatibilityKind
	cause cause
}

// NewRootIncompatibility seeds resolution. Its single term is positive —
// root@version must hold — so that, read as a disjunction that can never
// be false, the lone term is exactly what's forced: the resolver assigns
// root directly during initialization, and this clause exists so that
// assignment has a justifying incompatibility for conflict analysis and
// diagnostics to point to, the same way every other assignment does.
func NewRootIncompatibility(root Package, version Version) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{PositiveTerm(root, Single(version))},
		Kind:  KindRoot,
		cause: cause{text: "root dependency"},
	}
}

// NewNoVersionsIncompatibility records the catalog fact that no available
// version of pkg lies in set: ¬(pkg ∈ set) holds for the rest of the
// resolution, since assignments only ever come from the catalog.
func NewNoVersionsIncompatibility(pkg Package, set VersionSet) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{NegativeTerm(pkg, set)},
		Kind:  KindNoVersions,
		cause: cause{text: "no version of " + pkg.Name + " satisfies " + set.String()},
	}
}

// NewDependencyIncompatibility encodes ¬(pkg@ver) ∨ dep for one declared
// dependency of pkg@ver.
func NewDependencyIncompatibility(pkg Package, ver Version, dep Term) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{
			NegativeTerm(pkg, Single(ver)),
			dep,
		},
		Kind: KindDependency,
		cause: cause{dependency: &dependencyCause{
			Package: pkg, Version: ver, DepName: dep.Package.Name,
		}},
	}
}

// NewConflictIncompatibility synthesizes a zero-or-more-term incompatibility
// with a pre-formatted diagnostic, e.g. for the single-version exclusions
// the resolver adds when applying a negative term. A self-dependency
// violation does not go through here; the resolver reports it as a
// SelfDependencyError.
func NewConflictIncompatibility(terms []Term, text string) *Incompatibility {
	return &Incompatibility{
		Terms: terms,
		Kind:  KindConflict,
		cause: cause{text: text},
	}
}

// NewDerivedIncompatibility is produced by conflict analysis: terms are
// the negations of the contributing assignments, and the cause records the
// two antecedent incompatibilities that were combined to reach it.
func NewDerivedIncompatibility(terms []Term, left, right *Incompatibility) *Incompatibility {
	return &Incompatibility{
		Terms: dedupeTerms(terms),
		Kind:  KindDerived,
		cause: cause{derived: &derivedCause{Left: left, Right: right}},
	}
}

func dedupeTerms(terms []Term) []Term {
	seen := make(map[string]bool, len(terms))
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if seen[t.Package.Name] {
			continue
		}
		seen[t.Package.Name] = true
		out = append(out, t)
	}
	return out
}

// IsFailure reports whether the incompatibility has no terms at all,
// meaning the bare assertion is unconditionally false: resolution cannot
// proceed.
func (i *Incompatibility) IsFailure() bool {
	return len(i.Terms) == 0
}

// Cause renders a human-readable, pure-function-of-structure explanation
// of why this incompatibility holds.
func (i *Incompatibility) Cause() string {
	switch i.Kind {
	case KindDependency:
		d := i.cause.dependency
		return d.Package.Name + "@" + d.Version.String() + " depends on " + d.DepName
	case KindDerived:
		d := i.cause.derived
		if d == nil {
			return "derived conflict"
		}
		return "derived from (" + d.Left.Cause() + ") and (" + d.Right.Cause() + ")"
	default:
		if i.cause.text != "" {
			return i.cause.text
		}
		return i.Kind.String()
	}
}

func (i *Incompatibility) String() string {
	if len(i.Terms) == 0 {
		return "<conflict: " + i.Cause() + ">"
	}
	parts := make([]string, len(i.Terms))
	for k, t := range i.Terms {
		parts[k] = t.String()
	}
	return strings.Join(parts, " ∨ ")
}
