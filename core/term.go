package core

// Term is the atom of reasoning in the solver: a package paired with a
// version set and a polarity. A positive term asserts "some version from
// this set is chosen for Package"; a negative term asserts "no version
// from this set may be chosen".
type Term struct {
	Package  Package
	Set      VersionSet
	Positive bool
}

// PositiveTerm builds a positive term.
func PositiveTerm(pkg Package, set VersionSet) Term {
	return Term{Package: pkg, Set: set, Positive: true}
}

// NegativeTerm builds a negative term.
func NegativeTerm(pkg Package, set VersionSet) Term {
	return Term{Package: pkg, Set: set, Positive: false}
}

// IsContradiction reports the canonical-form contradictions: a positive
// term over an empty set, or a negative term over the universal set. Either can never be satisfied by any assignment.
func (t Term) IsContradiction() bool {
	if t.Positive {
		return t.Set.IsEmpty()
	}
	return t.Set.IsAll()
}

// Negate returns the term with the same package and set but opposite
// polarity. Negate is an involution: t.Negate().Negate() == t.
func (t Term) Negate() Term {
	return Term{Package: t.Package, Set: t.Set, Positive: !t.Positive}
}

// effectiveSet returns the set of versions that, if assigned, satisfy the
// term: Set itself for a positive term, its complement for a negative one.
// Every other term operation (Satisfies, Intersect, relation) is defined in
// terms of this, so there is exactly one place polarity is interpreted.
func (t Term) effectiveSet() VersionSet {
	if t.Positive {
		return t.Set
	}
	return t.Set.Complement()
}

// Intersect returns the term representing "both t and other must hold
// simultaneously" for the same package. This is derived purely from set
// algebra on the two terms' effective sets: there is no
// separate case analysis over polarity combinations beyond translating to
// effective sets first. Panics if t and other name different packages.
func (t Term) Intersect(other Term) Term {
	if t.Package != other.Package {
		panic("core: Intersect requires matching packages")
	}
	return PositiveTerm(t.Package, t.effectiveSet().Intersect(other.effectiveSet()))
}

// Satisfies reports whether t is satisfied by an assignment of ver to
// t.Package's version. An unassigned package never satisfies (or violates)
// a term; callers distinguish "unassigned" at the PartialSolution level.
func (t Term) Satisfies(ver Version) bool {
	return t.effectiveSet().Contains(ver)
}

// relatesTo reports whether every version satisfying t also satisfies
// other — i.e. t implies other: t.effectiveSet() ∩ ¬other.effectiveSet()
// is empty. Deriving this from set containment keeps it symmetric across
// polarity combinations.
func (t Term) relatesTo(other Term) bool {
	if t.Package != other.Package {
		return false
	}
	return t.effectiveSet().Intersect(other.effectiveSet().Complement()).IsEmpty()
}

func (t Term) String() string {
	if t.Positive {
		return t.Package.Name + " " + t.Set.String()
	}
	return "not " + t.Package.Name + " " + t.Set.String()
}
