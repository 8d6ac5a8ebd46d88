package core

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// ResolveParameters holds the inputs to one resolution run. Oracle and the
// root identity are the only required fields; Trace/TraceLogger opt into
// trace.go's indented progress log.
type ResolveParameters struct {
	// RootName and RootVersion identify the package resolution starts from.
	// The root is assigned directly at level 0; it is never chosen from the
	// oracle's catalog the way every other package is.
	RootName    string
	RootVersion Version

	// Oracle is the sole required collaborator.
	Oracle Oracle

	// Trace and TraceLogger enable trace.go's decision/propagation/backtrack
	// log.
	Trace       bool
	TraceLogger *log.Logger

	// DisableLookahead turns off the forward-conflict check made before each
	// version choice. Lookahead rejects a candidate when taking it would
	// leave some other already-constrained package with zero compatible
	// catalog versions; everything it rejects is independently rediscovered
	// by ordinary propagation and conflict analysis, just after more
	// backtracking. It is on by default because realistic graphs take far
	// fewer conflict rounds with it.
	DisableLookahead bool
}

func (p ResolveParameters) validate() error {
	if p.Oracle == nil {
		return BadOptionsError("resolve: Oracle is required")
	}
	if p.RootName == "" {
		return BadOptionsError("resolve: RootName is required")
	}
	if p.Trace && p.TraceLogger == nil {
		return BadOptionsError("resolve: Trace requires a TraceLogger")
	}
	return nil
}

// Result is the outcome of a resolution. When Err is nil, Solution assigns
// every package reachable from the root through dependency expansion. When
// Err is non-nil, Solution is nil and Err carries a human-readable
// derivation; no partial solution is exposed.
type Result struct {
	Solution map[string]Version
	Err      error
}

// Resolver orchestrates unit propagation, decision, and backtracking over
// one Store and PartialSolution. A Resolver is owned exclusively by a single
// resolution; nothing about it is shared or reused across calls to Resolve.
type Resolver struct {
	params   ResolveParameters
	oracle   Oracle
	store    *Store
	sol      *PartialSolution
	analyzer *Analyzer
	root     Package

	attempts int
	expanded map[string]bool
	// appliedNeg marks negative unit terms already expanded into
	// single-version exclusions. Incompatibilities are never removed from
	// the store, so the mark survives backtracking.
	appliedNeg map[*Incompatibility]bool
	// excluded dedupes single-version exclusion clauses by pkg@ver, so
	// applying an exclusion clause never spawns a copy of itself.
	excluded map[string]bool
	// vacuous marks packages with an empty catalog that nothing currently
	// requires: mentioned only by the dependencies of an abandoned version.
	// They stay unassigned; if a live requirement on one ever surfaces,
	// propagation raises the conflict through the ordinary path.
	vacuous map[Package]bool
}

// NewResolver validates params and returns a Resolver ready to run.
func NewResolver(params ResolveParameters) (*Resolver, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	store := NewStore()
	return &Resolver{
		params:     params,
		oracle:     params.Oracle,
		store:      store,
		sol:        NewPartialSolution(),
		analyzer:   NewAnalyzer(store),
		root:       RootPackage(params.RootName),
		expanded:   make(map[string]bool),
		appliedNeg: make(map[*Incompatibility]bool),
		excluded:   make(map[string]bool),
		vacuous:    make(map[Package]bool),
	}, nil
}

// Resolve runs a single resolution to completion: seed the root, then loop
// propagate/decide until the solution is complete or a failure is reached
// that no backtrack can repair.
func Resolve(params ResolveParameters) Result {
	r, err := NewResolver(params)
	if err != nil {
		return Result{Err: err}
	}
	return r.run()
}

func (r *Resolver) run() Result {
	r.store.Add(NewRootIncompatibility(r.root, r.params.RootVersion))
	r.sol.Assign(r.root, r.params.RootVersion, 0)
	r.traceDecision(r.root, r.params.RootVersion)
	if err := r.expandDependencies(r.root, r.params.RootVersion); err != nil {
		return r.fail(err)
	}

	for {
		if err := r.propagate(); err != nil {
			return r.fail(err)
		}
		if r.complete() {
			r.traceFinish(true)
			return Result{Solution: r.collapse()}
		}
		if err := r.decide(); err != nil {
			return r.fail(err)
		}
	}
}

func (r *Resolver) fail(err error) Result {
	r.traceFailure(err)
	r.traceFinish(false)
	return Result{Err: err}
}

// propagate repeats unit propagation to a fixpoint: fail on any zero-term
// incompatibility, hand any fully violated incompatibility to conflict
// analysis, and otherwise apply one open unit term at a time, rescanning
// after each, since applying a term (an assignment, an exclusion, or a
// conflict-driven backtrack) changes which incompatibilities are open.
func (r *Resolver) propagate() error {
	for {
		conflicted := false
		for _, inc := range r.store.All() {
			if inc.IsFailure() {
				return &UnsatisfiableError{Derivation: r.derivationString(inc)}
			}
			if IsViolatedBy(inc, r.sol) {
				if err := r.resolveConflict(inc); err != nil {
					return err
				}
				conflicted = true
				break
			}
		}
		if conflicted {
			continue
		}

		acted := false
		for _, u := range r.store.FindUnitClauses(r.sol, nil) {
			if !u.Term.Positive && r.appliedNeg[u.Cause] {
				continue
			}
			r.tracePropagate(u.Term, u.Cause)
			if u.Term.Positive {
				if err := r.applyPositive(u.Term.Package, u.Cause); err != nil {
					return err
				}
			} else {
				r.appliedNeg[u.Cause] = true
				if err := r.excludeVersions(u.Term.Package, u.Term.Set); err != nil {
					return err
				}
			}
			acted = true
			break
		}
		if !acted {
			return nil
		}
	}
}

// applyPositive satisfies a forced positive term for pkg by picking a
// concrete version: cataloged, compatible with every currently open
// constraint on pkg, and — unless lookahead is disabled — not immediately
// stranding some other constrained package. Every concrete version choice
// opens a fresh decision level, so that conflict analysis can later back up
// to just before it and the learned clause can steer the retry; a choice
// made at the level of the clauses that forced it could never be revisited.
// If no candidate survives, a no-versions incompatibility is recorded and
// analyzed exactly like any other conflict.
func (r *Resolver) applyPositive(pkg Package, via *Incompatibility) error {
	constraint := r.combinedConstraint(pkg)
	catalog, err := r.oracle.Versions(pkg)
	if err != nil {
		return &OracleError{Package: pkg, Err: err}
	}
	candidates := matching(catalog, constraint)
	sortVersionsDesc(candidates)

	if len(candidates) == 0 {
		r.traceConflict(via)
		noVers := NewNoVersionsIncompatibility(pkg, constraint.effectiveSet())
		r.store.Add(noVers)
		return r.resolveConflict(noVers)
	}

	// Lookahead may reject every candidate; its rejections are
	// context-dependent, so nothing gets recorded about them. Take the
	// newest candidate anyway and let propagation surface the conflict.
	chosen := candidates[0]
	if !r.params.DisableLookahead {
		for _, v := range candidates {
			if !r.createsForwardConflict(pkg, v) {
				chosen = v
				break
			}
		}
	}

	r.sol.IncrementLevel()
	r.traceDecision(pkg, chosen)
	r.sol.Assign(pkg, chosen, r.sol.Level())
	return r.expandDependencies(pkg, chosen)
}

// excludeVersions applies a forced negative term by adding a single-version
// incompatibility for each excluded cataloged version. The excluded map
// keeps this idempotent: an exclusion clause, itself a negative unit, must
// not respawn a copy of itself on the next scan.
func (r *Resolver) excludeVersions(pkg Package, excluded VersionSet) error {
	catalog, err := r.oracle.Versions(pkg)
	if err != nil {
		return &OracleError{Package: pkg, Err: err}
	}
	for _, v := range catalog {
		if !excluded.Contains(v) {
			continue
		}
		key := pkg.Name + "@" + v.String()
		if r.excluded[key] {
			continue
		}
		r.excluded[key] = true
		r.store.Add(NewConflictIncompatibility(
			[]Term{NegativeTerm(pkg, Single(v))},
			fmt.Sprintf("%s excludes %s", pkg.Name, v),
		))
	}
	return nil
}

// resolveConflict invokes the analyzer on cause, then either fails
// (backtrack level < 0) or adds the learned clause and backtracks.
func (r *Resolver) resolveConflict(cause *Incompatibility) error {
	r.traceConflict(cause)
	learned, level := r.analyzer.Analyze(cause, r.sol)
	if level < 0 {
		return &UnsatisfiableError{Derivation: r.derivationString(cause)}
	}
	if learned != nil {
		r.store.Add(learned)
	}
	r.traceBacktrack(level)
	r.sol.BacktrackTo(level)
	r.attempts++
	return nil
}

// complete reports whether resolution is done: the root is assigned and no
// package mentioned by any incompatibility remains unassigned, apart from
// packages marked vacuous.
func (r *Resolver) complete() bool {
	if !r.sol.Assigned(r.root) {
		return false
	}
	for _, pkg := range r.store.MentionOrder() {
		if r.vacuous[pkg] {
			continue
		}
		if !r.sol.Assigned(pkg) {
			return false
		}
	}
	return true
}

// decide picks the next unassigned package (first-mention tie-break),
// narrows its catalog to versions consistent with every currently open
// constraint, and either assigns the greatest surviving candidate or — if
// none survive — records a no-versions incompatibility and hands it
// straight to conflict analysis.
func (r *Resolver) decide() error {
	pkg, ok := r.nextUnassigned()
	if !ok {
		return nil
	}

	constraint := r.combinedConstraint(pkg)
	catalog, err := r.oracle.Versions(pkg)
	if err != nil {
		return &OracleError{Package: pkg, Err: err}
	}
	candidates := matching(catalog, constraint)
	sortVersionsDesc(candidates)

	if len(candidates) == 0 {
		noVers := NewNoVersionsIncompatibility(pkg, constraint.effectiveSet())
		r.store.Add(noVers)
		if !r.positivelyConstrained(pkg) {
			// No open clause requires this package to exist; it lingers in
			// the mention set from an abandoned expansion. Forcing a
			// conflict here would walk back assignments that are not
			// actually wrong, so it simply stays unassigned.
			r.vacuous[pkg] = true
			return nil
		}
		return r.resolveConflict(noVers)
	}

	chosen := candidates[0]
	if !r.params.DisableLookahead {
		for _, v := range candidates {
			if !r.createsForwardConflict(pkg, v) {
				chosen = v
				break
			}
		}
	}

	r.sol.IncrementLevel()
	r.traceDecision(pkg, chosen)
	r.sol.Assign(pkg, chosen, r.sol.Level())
	return r.expandDependencies(pkg, chosen)
}

// nextUnassigned returns the first package, in first-mention order, that
// has no current assignment.
func (r *Resolver) nextUnassigned() (Package, bool) {
	for _, pkg := range r.store.MentionOrder() {
		if r.vacuous[pkg] {
			continue
		}
		if !r.sol.Assigned(pkg) {
			return pkg, true
		}
	}
	return Package{}, false
}

// positivelyConstrained reports whether any currently open unit term for
// pkg is positive, i.e. some live clause actually demands a version of it.
// Exclusions and no-versions facts are negative and don't count: they
// restrict which version pkg may take, without requiring it to exist.
func (r *Resolver) positivelyConstrained(pkg Package) bool {
	for _, inc := range r.store.For(pkg) {
		t, ok := IsAlmostSatisfiedBy(inc, r.sol)
		if ok && t.Package == pkg && t.Positive {
			return true
		}
	}
	return false
}

// combinedConstraint intersects every currently open (unit) term recorded
// for pkg across the whole store, i.e. every constraint derived so far that
// pkg has neither satisfied nor violated yet. An unconstrained package's
// combined constraint is the universal positive term.
func (r *Resolver) combinedConstraint(pkg Package) Term {
	constraint := PositiveTerm(pkg, All())
	any := false
	for _, inc := range r.store.For(pkg) {
		t, ok := IsAlmostSatisfiedBy(inc, r.sol)
		if !ok || t.Package != pkg {
			continue
		}
		if !any {
			constraint = t
			any = true
			continue
		}
		constraint = constraint.Intersect(t)
	}
	return constraint
}

// matching returns the subset of catalog satisfying constraint.
func matching(catalog []Version, constraint Term) []Version {
	out := make([]Version, 0, len(catalog))
	for _, v := range catalog {
		if constraint.Satisfies(v) {
			out = append(out, v)
		}
	}
	return out
}

func sortVersionsDesc(vs []Version) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Compare(vs[j]) > 0 })
}

// createsForwardConflict is the lookahead check: it asks, for every other
// package already mentioned and still unassigned, whether taking candidate
// for pkg would leave that package with zero cataloged versions satisfying
// its currently open constraints intersected with whatever candidate's own
// dependencies would additionally require of it. It never mutates resolver
// state; anything it rejects must also be independently falsifiable by
// ordinary propagation and analysis once candidate is actually chosen.
func (r *Resolver) createsForwardConflict(pkg Package, candidate Version) bool {
	deps, err := r.oracle.Dependencies(pkg, candidate)
	if err != nil {
		return false
	}
	hypothetical := make(map[string]Term, len(deps))
	for _, d := range deps {
		if d.Package.Name == pkg.Name {
			continue
		}
		hypothetical[d.Package.Name] = PositiveTerm(d.Package, d.Range)
	}

	for _, other := range r.store.MentionOrder() {
		if other.Name == pkg.Name || r.sol.Assigned(other) {
			continue
		}
		constraint := r.combinedConstraint(other)
		if extra, ok := hypothetical[other.Name]; ok {
			constraint = constraint.Intersect(extra)
		}
		catalog, err := r.oracle.Versions(other)
		if err != nil {
			continue
		}
		if len(matching(catalog, constraint)) == 0 {
			return true
		}
	}
	return false
}

// expandDependencies adds one dependency incompatibility per declared
// dependency of pkg@ver, skipping re-expansion of an already-expanded
// (pkg, ver) pair so a dependency cycle only ever contributes finite
// incompatibilities. A self-dependency whose range excludes ver fails
// immediately; it is not subject to backtracking or conflict analysis.
func (r *Resolver) expandDependencies(pkg Package, ver Version) error {
	key := pkg.Name + "@" + ver.String()
	if r.expanded[key] {
		return nil
	}
	r.expanded[key] = true

	deps, err := r.oracle.Dependencies(pkg, ver)
	if err != nil {
		return &OracleError{Package: pkg, Err: err}
	}
	for _, d := range deps {
		if d.Package.Name == pkg.Name {
			if !d.Range.Contains(ver) {
				return &SelfDependencyError{Package: pkg, Version: ver, Range: d.Range}
			}
			continue
		}
		target := d.Package
		if target.Name == r.root.Name {
			// A dependency back onto the root constrains the root's own
			// assignment rather than introducing a second package identity
			// with the same name.
			target = r.root
		}
		depTerm := PositiveTerm(target, d.Range)
		r.store.Add(NewDependencyIncompatibility(pkg, ver, depTerm))
	}
	return nil
}

// collapse builds the final package → version assignment map from the
// current solution, covering the root plus every mentioned package that is
// currently assigned; vacuous packages stay out.
func (r *Resolver) collapse() map[string]Version {
	out := make(map[string]Version)
	if a, ok := r.sol.Get(r.root); ok {
		out[a.Package.Name] = a.Version
	}
	for _, pkg := range r.store.MentionOrder() {
		if a, ok := r.sol.Get(pkg); ok {
			out[pkg.Name] = a.Version
		}
	}
	return out
}

// derivationString renders the failure text surfaced to callers: the
// immediate cause, the last few conflict entries, and the last few learned
// clauses.
func (r *Resolver) derivationString(cause *Incompatibility) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "unable to resolve dependencies: %s", cause.Cause())

	hist := r.analyzer.History()
	if n := len(hist); n > 0 {
		start := n - 3
		if start < 0 {
			start = 0
		}
		buf.WriteString("\nrecent conflicts:")
		for _, c := range hist[start:] {
			fmt.Fprintf(&buf, "\n  - level %d: %s", c.Level, c.Diagnostic)
		}
	}

	learned := r.analyzer.Learned()
	if n := len(learned); n > 0 {
		start := n - 3
		if start < 0 {
			start = 0
		}
		buf.WriteString("\nlearned clauses:")
		for _, l := range learned[start:] {
			fmt.Fprintf(&buf, "\n  - %s", l.String())
		}
	}

	return buf.String()
}
