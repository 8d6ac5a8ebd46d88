package core

// Store is the indexed set of incompatibilities: a flat, append-only list
// plus a per-package index (package → incompatibilities mentioning it) for
// lookups that only need to touch the incompatibilities a given package's
// assignment could affect. Incompatibilities are never removed once added.
//
// There is no watched-literals structure: unit-clause searches rescan. A
// scoped FindUnitClauses touches only the incompatibilities mentioning the
// scoped packages; the resolver's propagation passes no scope, so each of
// its scans costs O(number of incompatibilities in the store).
// Clause counts in dependency graphs stay small enough that the constant
// factor of maintaining watchers across backtracks isn't worth it.
type Store struct {
	all     []*Incompatibility
	byPkg   map[Package][]*Incompatibility
	mention []Package // insertion order of first mention, for decision tie-breaks
	seen    map[Package]bool
}

// NewStore returns an empty incompatibility store.
func NewStore() *Store {
	return &Store{byPkg: make(map[Package][]*Incompatibility), seen: make(map[Package]bool)}
}

// Add appends incomp to the store, indexing it by every package its terms
// mention and recording first-mention order for each.
func (s *Store) Add(incomp *Incompatibility) {
	s.all = append(s.all, incomp)
	for _, t := range incomp.Terms {
		s.byPkg[t.Package] = append(s.byPkg[t.Package], incomp)
		if !s.seen[t.Package] {
			s.seen[t.Package] = true
			s.mention = append(s.mention, t.Package)
		}
	}
}

// All returns every incompatibility added so far, in insertion order.
func (s *Store) All() []*Incompatibility {
	return s.all
}

// For returns the incompatibilities mentioning pkg, in insertion order.
func (s *Store) For(pkg Package) []*Incompatibility {
	return s.byPkg[pkg]
}

// MentionOrder returns every package ever mentioned by an added
// incompatibility, in the order it was first mentioned.
func (s *Store) MentionOrder() []Package {
	return s.mention
}

// IsSatisfiedBy reports whether every term of incomp is satisfied by sol.
func IsSatisfiedBy(incomp *Incompatibility, sol *PartialSolution) bool {
	for _, t := range incomp.Terms {
		if !sol.Satisfies(t) {
			return false
		}
	}
	return true
}

// IsViolatedBy reports whether every term of incomp is violated by sol:
// each term's package is assigned, to a version outside the term's
// effective set. A violated incompatibility is a conflict — the disjunction
// it asserts has become false — and must go to conflict analysis.
func IsViolatedBy(incomp *Incompatibility, sol *PartialSolution) bool {
	if len(incomp.Terms) == 0 {
		return false
	}
	for _, t := range incomp.Terms {
		if !sol.Violates(t) {
			return false
		}
	}
	return true
}

// IsAlmostSatisfiedBy reports whether incomp is almost-satisfied: exactly
// one term is neither satisfied nor violated (its package is unassigned)
// and every other term is violated. It returns that lone open term. If no such single open term exists — because none are open, or
// more than one is — it returns (Term{}, false).
func IsAlmostSatisfiedBy(incomp *Incompatibility, sol *PartialSolution) (Term, bool) {
	var open Term
	openCount := 0
	for _, t := range incomp.Terms {
		switch {
		case sol.Satisfies(t):
			// any satisfied term means the disjunction already holds,
			// so the incompatibility is not informative and can't be unit.
			return Term{}, false
		case sol.Violates(t):
			continue
		default:
			open = t
			openCount++
		}
	}
	if openCount == 1 {
		return open, true
	}
	return Term{}, false
}

// UnitClause returns the term that must be added as a derivation to avoid
// a contradiction with incomp. Since an Incompatibility's terms, read as a
// disjunction, must always hold and every term but one is
// already violated, the remaining open term itself is what's forced true —
// not its negation.
func UnitClause(incomp *Incompatibility, sol *PartialSolution) (Term, bool) {
	return IsAlmostSatisfiedBy(incomp, sol)
}

// FindUnitClauses scans every incompatibility mentioning a package in scope
// and yields every currently open unit term, paired with the incompatibility
// that produced it. scope limits the scan to incompatibilities touching
// these packages (typically: the package just assigned, plus anything the
// caller knows may have changed); pass nil to scan the whole store.
func (s *Store) FindUnitClauses(sol *PartialSolution, scope []Package) []UnitResult {
	var results []UnitResult
	candidates := s.all
	if scope != nil {
		seen := make(map[*Incompatibility]bool)
		var filtered []*Incompatibility
		for _, pkg := range scope {
			for _, inc := range s.byPkg[pkg] {
				if !seen[inc] {
					seen[inc] = true
					filtered = append(filtered, inc)
				}
			}
		}
		candidates = filtered
	}
	for _, inc := range candidates {
		if inc.IsFailure() {
			continue
		}
		if term, ok := UnitClause(inc, sol); ok {
			results = append(results, UnitResult{Term: term, Cause: inc})
		}
	}
	return results
}

// UnitResult pairs a forced term with the incompatibility that forces it.
type UnitResult struct {
	Term  Term
	Cause *Incompatibility
}
