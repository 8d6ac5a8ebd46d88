package core

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// One exported type per failure kind, each satisfying error and (where
// it carries enough context to be useful mid-trace) traceString.

// traceError is implemented by failures that can render a shorter form
// suitable for inclusion in the trace log.
type traceError interface {
	traceString() string
}

// InvalidInputError reports a parse failure in a version, constraint, or
// scenario structure, detected before resolution starts.
type InvalidInputError struct {
	Context string // what was being parsed, e.g. "version", "constraint"
	Value   string
	Err     error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Context, e.Value, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// NoVersionsError reports that a package's catalog, or the subset of it
// consistent with current constraints, is empty at decision time.
type NoVersionsError struct {
	Package Package
	Fails   []VersionFailure
}

// VersionFailure records why one candidate version of a package was
// rejected, for inclusion in a NoVersionsError's derivation.
type VersionFailure struct {
	Version Version
	Reason  error
}

func (e *NoVersionsError) Error() string {
	if len(e.Fails) == 0 {
		return fmt.Sprintf("no versions found for package %q", e.Package.Name)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no version of %s satisfies the current constraints:", e.Package.Name)
	for _, f := range e.Fails {
		fmt.Fprintf(&buf, "\n\t%s: %s", f.Version, f.Reason)
	}
	return buf.String()
}

func (e *NoVersionsError) traceString() string {
	if len(e.Fails) == 0 {
		return "no versions found"
	}
	return e.Error()
}

// UnsatisfiableError reports that conflict analysis determined the
// constraints are contradictory: the backtrack target fell below level 0.
type UnsatisfiableError struct {
	// Derivation is the human-readable chain of reasoning that led here:
	// the immediate cause plus a handful of trailing conflicts and learned
	// clauses.
	Derivation string
}

func (e *UnsatisfiableError) Error() string {
	return e.Derivation
}

// SelfDependencyError reports that a package/version declares a dependency
// on itself whose range excludes that very version.
type SelfDependencyError struct {
	Package Package
	Version Version
	Range   VersionSet
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf(
		"%s@%s depends on itself with a constraint (%s) that excludes %s",
		e.Package.Name, e.Version, e.Range, e.Version,
	)
}

func (e *SelfDependencyError) traceString() string {
	return fmt.Sprintf("%s@%s: self-dependency excludes own version", e.Package.Name, e.Version)
}

// OracleError wraps an error raised by an Oracle, propagated
// unchanged.
type OracleError struct {
	Package Package
	Err     error
}

func (e *OracleError) Error() string {
	return errors.Wrapf(e.Err, "oracle failure for %s", e.Package.Name).Error()
}

func (e *OracleError) Unwrap() error { return e.Err }

// BadOptionsError reports invalid Resolver configuration, detected before
// any solving begins.
type BadOptionsError string

func (e BadOptionsError) Error() string { return string(e) }
