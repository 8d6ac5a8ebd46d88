package core

import (
	"log"
	"strings"
)

// trace renders solver progress through an optional *log.Logger: a simple
// indented "| | ✓/✗ ..." stream gated on a boolean flag, rather than a
// structured logging facade. Indentation tracks the current decision
// level.
const (
	traceOK   = "✓"
	traceFail = "✗"
)

func (r *Resolver) tracePrefix() string {
	return strings.Repeat("| ", r.sol.Level()+1)
}

func (r *Resolver) traceLog(format string, args ...interface{}) {
	if !r.params.Trace || r.params.TraceLogger == nil {
		return
	}
	r.params.TraceLogger.Printf(r.tracePrefix()+format, args...)
}

func (r *Resolver) traceDecision(pkg Package, ver Version) {
	r.traceLog("%s selecting %s@%s", traceOK, pkg.Name, ver)
}

func (r *Resolver) tracePropagate(t Term, via *Incompatibility) {
	r.traceLog("→ derived %s (from %s)", t, via.Cause())
}

func (r *Resolver) traceConflict(cause *Incompatibility) {
	r.traceLog("%s conflict: %s", traceFail, cause.Cause())
}

func (r *Resolver) traceBacktrack(level int) {
	r.traceLog("%s backtrack to level %d", traceFail, level)
}

// traceFailure renders an error's short trace form, when it has one.
func (r *Resolver) traceFailure(err error) {
	if te, ok := err.(traceError); ok {
		r.traceLog("%s %s", traceFail, te.traceString())
	}
}

func (r *Resolver) traceFinish(ok bool) {
	if !r.params.Trace || r.params.TraceLogger == nil {
		return
	}
	if ok {
		r.params.TraceLogger.Printf("%s resolution complete after %d attempt(s)", traceOK, r.attempts)
	} else {
		r.params.TraceLogger.Printf("%s resolution failed after %d attempt(s)", traceFail, r.attempts)
	}
}

// NewDiscardLogger is a convenience for callers who want TraceLogger set but
// not actually printed anywhere (e.g. tests asserting only on err/solution).
func NewDiscardLogger() *log.Logger {
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
