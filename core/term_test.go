package core

import "testing"

func TestTermNegateInvolution(t *testing.T) {
	pkg := NewPackage("foo")
	terms := []Term{
		PositiveTerm(pkg, Single(vv("1.0.0"))),
		NegativeTerm(pkg, NewVersionSet(between("1.0.0", "2.0.0"))),
		PositiveTerm(pkg, All()),
		NegativeTerm(pkg, Empty()),
	}
	for _, tm := range terms {
		back := tm.Negate().Negate()
		if back.Package != tm.Package || back.Positive != tm.Positive || !back.Set.Equal(tm.Set) {
			t.Errorf("negate∘negate changed %s into %s", tm, back)
		}
	}
}

func TestTermIntersectIdempotent(t *testing.T) {
	pkg := NewPackage("foo")
	tm := PositiveTerm(pkg, NewVersionSet(between("1.0.0", "2.0.0")))
	got := tm.Intersect(tm)
	if !got.effectiveSet().Equal(tm.effectiveSet()) {
		t.Errorf("t ∩ t = %s, want %s", got, tm)
	}
}

func TestTermIntersectMixedPolarity(t *testing.T) {
	pkg := NewPackage("foo")
	pos := PositiveTerm(pkg, NewVersionSet(between("1.0.0", "3.0.0")))
	neg := NegativeTerm(pkg, NewVersionSet(between("2.0.0", "3.0.0")))

	got := pos.Intersect(neg)
	if !got.Satisfies(vv("1.5.0")) {
		t.Errorf("%s should allow 1.5.0", got)
	}
	if got.Satisfies(vv("2.5.0")) {
		t.Errorf("%s should exclude 2.5.0", got)
	}

	// Two negatives: ¬A ∩ ¬B = ¬(A ∪ B).
	negA := NegativeTerm(pkg, Single(vv("1.0.0")))
	negB := NegativeTerm(pkg, Single(vv("2.0.0")))
	both := negA.Intersect(negB)
	if both.Satisfies(vv("1.0.0")) || both.Satisfies(vv("2.0.0")) {
		t.Errorf("%s should exclude both excluded points", both)
	}
	if !both.Satisfies(vv("1.5.0")) {
		t.Errorf("%s should allow 1.5.0", both)
	}
}

func TestTermSatisfies(t *testing.T) {
	pkg := NewPackage("foo")
	pos := PositiveTerm(pkg, NewVersionSet(between("1.0.0", "2.0.0")))
	if !pos.Satisfies(vv("1.5.0")) || pos.Satisfies(vv("2.0.0")) {
		t.Errorf("positive term %s membership wrong", pos)
	}
	neg := pos.Negate()
	if neg.Satisfies(vv("1.5.0")) || !neg.Satisfies(vv("2.0.0")) {
		t.Errorf("negative term %s membership wrong", neg)
	}
}

func TestTermContradiction(t *testing.T) {
	pkg := NewPackage("foo")
	if !PositiveTerm(pkg, Empty()).IsContradiction() {
		t.Errorf("positive-over-empty should be a contradiction")
	}
	if !NegativeTerm(pkg, All()).IsContradiction() {
		t.Errorf("negative-over-universal should be a contradiction")
	}
	if PositiveTerm(pkg, All()).IsContradiction() || NegativeTerm(pkg, Empty()).IsContradiction() {
		t.Errorf("universal-positive and empty-negative are satisfiable")
	}
}

func TestTermRelation(t *testing.T) {
	pkg := NewPackage("foo")
	narrow := PositiveTerm(pkg, NewVersionSet(between("1.0.0", "1.5.0")))
	wide := PositiveTerm(pkg, NewVersionSet(between("1.0.0", "2.0.0")))
	if !narrow.relatesTo(wide) {
		t.Errorf("%s should imply %s", narrow, wide)
	}
	if wide.relatesTo(narrow) {
		t.Errorf("%s should not imply %s", wide, narrow)
	}

	// Implication stays symmetric in derivation across polarity: a narrow
	// positive term implies the negation of a disjoint set.
	disjoint := NegativeTerm(pkg, NewVersionSet(AtLeast(vv("3.0.0"))))
	if !narrow.relatesTo(disjoint) {
		t.Errorf("%s should imply %s", narrow, disjoint)
	}
}
