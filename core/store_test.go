package core

import "testing"

func TestStoreIndexAndMentionOrder(t *testing.T) {
	s := NewStore()
	foo, bar, baz := NewPackage("foo"), NewPackage("bar"), NewPackage("baz")

	a := NewDependencyIncompatibility(foo, vv("1.0.0"), PositiveTerm(bar, All()))
	b := NewDependencyIncompatibility(bar, vv("1.0.0"), PositiveTerm(baz, All()))
	s.Add(a)
	s.Add(b)

	if len(s.All()) != 2 {
		t.Fatalf("All() = %d incompatibilities, want 2", len(s.All()))
	}
	if got := s.For(bar); len(got) != 2 {
		t.Errorf("For(bar) = %d, want 2 (mentioned by both)", len(got))
	}
	if got := s.For(baz); len(got) != 1 || got[0] != b {
		t.Errorf("For(baz) wrong: %v", got)
	}

	order := s.MentionOrder()
	want := []Package{foo, bar, baz}
	if len(order) != len(want) {
		t.Fatalf("MentionOrder() = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("MentionOrder()[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestIncompatibilityStates(t *testing.T) {
	foo, bar := NewPackage("foo"), NewPackage("bar")
	inc := NewDependencyIncompatibility(foo, vv("1.0.0"),
		PositiveTerm(bar, NewVersionSet(between("1.0.0", "2.0.0"))))

	sol := NewPartialSolution()

	// Nothing assigned: both terms open, not unit.
	if _, ok := IsAlmostSatisfiedBy(inc, sol); ok {
		t.Errorf("two open terms should not be unit")
	}
	if IsSatisfiedBy(inc, sol) || IsViolatedBy(inc, sol) {
		t.Errorf("open incompatibility should be neither satisfied nor violated")
	}

	// foo assigned at the depending version: ¬foo@1.0.0 violated, bar open → unit.
	sol.Assign(foo, vv("1.0.0"), 0)
	term, ok := IsAlmostSatisfiedBy(inc, sol)
	if !ok {
		t.Fatalf("should be unit with foo assigned")
	}
	if term.Package != bar || !term.Positive {
		t.Errorf("unit term = %s, want positive bar term", term)
	}

	// bar assigned in range: the bar term holds, but ¬foo@1.0.0 is still
	// violated, so not every term is satisfied.
	sol.Assign(bar, vv("1.5.0"), 0)
	if IsSatisfiedBy(inc, sol) {
		t.Errorf("should not be satisfied while ¬foo@1.0.0 is violated")
	}
	if _, ok := IsAlmostSatisfiedBy(inc, sol); ok {
		t.Errorf("clause with a satisfied term is not unit")
	}

	// bar assigned out of range: every term violated → conflict.
	sol2 := NewPartialSolution()
	sol2.Assign(foo, vv("1.0.0"), 0)
	sol2.Assign(bar, vv("2.0.0"), 0)
	if !IsViolatedBy(inc, sol2) {
		t.Errorf("should be violated with bar out of range")
	}

	// foo assigned elsewhere: ¬foo@1.0.0 satisfied, clause inert.
	sol3 := NewPartialSolution()
	sol3.Assign(foo, vv("2.0.0"), 0)
	if _, ok := IsAlmostSatisfiedBy(inc, sol3); ok {
		t.Errorf("clause with a satisfied term is not unit")
	}
	if IsViolatedBy(inc, sol3) {
		t.Errorf("clause with a satisfied term is not violated")
	}
}

func TestFindUnitClauses(t *testing.T) {
	s := NewStore()
	foo, bar, baz := NewPackage("foo"), NewPackage("bar"), NewPackage("baz")

	s.Add(NewDependencyIncompatibility(foo, vv("1.0.0"), PositiveTerm(bar, All())))
	s.Add(NewDependencyIncompatibility(foo, vv("1.0.0"), PositiveTerm(baz, All())))

	sol := NewPartialSolution()
	sol.Assign(foo, vv("1.0.0"), 0)

	units := s.FindUnitClauses(sol, nil)
	if len(units) != 2 {
		t.Fatalf("FindUnitClauses = %d results, want 2", len(units))
	}
	if units[0].Term.Package != bar || units[1].Term.Package != baz {
		t.Errorf("unit terms out of insertion order: %s, %s", units[0].Term, units[1].Term)
	}

	scoped := s.FindUnitClauses(sol, []Package{baz})
	if len(scoped) != 1 || scoped[0].Term.Package != baz {
		t.Errorf("scoped scan wrong: %v", scoped)
	}
}

func TestZeroTermIncompatibilityIsFailure(t *testing.T) {
	inc := NewConflictIncompatibility(nil, "impossible")
	if !inc.IsFailure() {
		t.Errorf("zero-term incompatibility should be a failure")
	}
	if IsViolatedBy(inc, NewPartialSolution()) {
		t.Errorf("failure clause is reported through IsFailure, not IsViolatedBy")
	}
}
