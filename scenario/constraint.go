// Package scenario loads resolution scenarios: a JSON catalog of packages,
// versions, and dependency constraints, plus an optional TOML manifest
// naming the root project. It turns both into the in-memory oracle the
// resolver consumes.
package scenario

import (
	"fmt"
	"strings"

	"github.com/depsolve/pubgrub/core"
)

// ParseConstraint parses one constraint expression into a version set.
//
// Grammar:
//
//	*            any version (also the empty string)
//	X.Y.Z        exactly that version
//	>=v >v <=v <v   half-bounded comparisons, alone or comma-separated
//	~X.Y.Z       [X.Y.Z, X.(Y+1).0)
//	^X.Y.Z       [X.Y.Z, (X+1).0.0)
//
// Comma-separated clauses intersect; ">=1.0.0, <2.0.0" is the half-open
// range [1.0.0, 2.0.0). An intersection with no members parses successfully
// to the empty set — rejecting it is the resolver's job, not the parser's.
func ParseConstraint(s string) (core.VersionSet, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return core.All(), nil
	}

	out := core.All()
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return core.VersionSet{}, constraintErr(s, "empty clause in comma list")
		}
		set, err := parseClause(clause)
		if err != nil {
			return core.VersionSet{}, err
		}
		out = out.Intersect(set)
	}
	return out, nil
}

func parseClause(clause string) (core.VersionSet, error) {
	switch {
	case strings.HasPrefix(clause, "~"):
		v, err := parseOperand(clause, clause[1:])
		if err != nil {
			return core.VersionSet{}, err
		}
		upper, err := core.ParseVersion(fmt.Sprintf("%d.%d.0", v.Major(), v.Minor()+1))
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.Between(v, true, upper, false)), nil

	case strings.HasPrefix(clause, "^"):
		v, err := parseOperand(clause, clause[1:])
		if err != nil {
			return core.VersionSet{}, err
		}
		upper, err := core.ParseVersion(fmt.Sprintf("%d.0.0", v.Major()+1))
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.Between(v, true, upper, false)), nil

	case strings.HasPrefix(clause, ">="):
		v, err := parseOperand(clause, clause[2:])
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.AtLeast(v)), nil

	case strings.HasPrefix(clause, "<="):
		v, err := parseOperand(clause, clause[2:])
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.AtMost(v)), nil

	case strings.HasPrefix(clause, ">"):
		v, err := parseOperand(clause, clause[1:])
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.Above(v)), nil

	case strings.HasPrefix(clause, "<"):
		v, err := parseOperand(clause, clause[1:])
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.NewVersionSet(core.Below(v)), nil

	default:
		v, err := parseOperand(clause, clause)
		if err != nil {
			return core.VersionSet{}, err
		}
		return core.Single(v), nil
	}
}

func parseOperand(clause, operand string) (core.Version, error) {
	v, err := core.ParseVersion(strings.TrimSpace(operand))
	if err != nil {
		return core.Version{}, constraintErr(clause, err.Error())
	}
	return v, nil
}

func constraintErr(value, msg string) error {
	return &core.InvalidInputError{Context: "constraint", Value: value, Err: fmt.Errorf("%s", msg)}
}
