// Package check runs declarative data-quality expectations against a
// table and reports a pass/fail verdict with per-rule failures.
package check

import (
	"errors"
	"fmt"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// ErrExpectationsFailed is returned by callers that treat a failed suite
// as fatal for the run.
var ErrExpectationsFailed = errors.New("expectations failed")

// RuleKind enumerates the supported expectation categories.
type RuleKind int

const (
	ColumnExists RuleKind = iota
	NotNull
	Unique
	LengthEquals
)

// String returns a human-readable rule name.
func (k RuleKind) String() string {
	switch k {
	case ColumnExists:
		return "column-exists"
	case NotNull:
		return "not-null"
	case Unique:
		return "unique"
	case LengthEquals:
		return "length-equals"
	}
	return "unknown"
}

// Rule is one expectation on one column. Length is only meaningful for
// LengthEquals.
type Rule struct {
	Column string
	Kind   RuleKind
	Length int
}

// Suite is a named, fixed set of rules for one table.
type Suite struct {
	Name  string
	Rules []Rule
}

// Failure records one violated rule.
type Failure struct {
	Rule   Rule
	Detail string
}

// Result is the verdict of running a suite.
type Result struct {
	Suite    string
	Failures []Failure
}

// Success reports whether every rule passed.
func (r Result) Success() bool {
	return len(r.Failures) == 0
}

// Run evaluates every rule against the table. Any failure makes the
// overall verdict false; rules are all evaluated so the result lists
// every violation, not just the first.
func (s Suite) Run(t *table.Table) Result {
	result := Result{Suite: s.Name}
	for _, rule := range s.Rules {
		if detail := evaluate(rule, t); detail != "" {
			result.Failures = append(result.Failures, Failure{Rule: rule, Detail: detail})
		}
	}
	return result
}

// evaluate returns an empty string when the rule holds, a description of
// the violation otherwise.
func evaluate(rule Rule, t *table.Table) string {
	ci, exists := t.ColumnIndex(rule.Column)
	if !exists {
		return fmt.Sprintf("column %s does not exist", rule.Column)
	}
	switch rule.Kind {
	case ColumnExists:
		return ""
	case NotNull:
		for i := 0; i < t.NumRows(); i++ {
			if t.Row(i)[ci] == nil {
				return fmt.Sprintf("column %s has a null value at row %d", rule.Column, i)
			}
		}
	case Unique:
		seen := make(map[string]int, t.NumRows())
		for i := 0; i < t.NumRows(); i++ {
			key := table.CellKey(t.Row(i)[ci])
			if first, dup := seen[key]; dup {
				return fmt.Sprintf("column %s value %v duplicated at rows %d and %d",
					rule.Column, t.Row(i)[ci], first, i)
			}
			seen[key] = i
		}
	case LengthEquals:
		for i := 0; i < t.NumRows(); i++ {
			v := t.Row(i)[ci]
			s, ok := v.(string)
			if !ok {
				return fmt.Sprintf("column %s value %v at row %d is not text", rule.Column, v, i)
			}
			if len(s) != rule.Length {
				return fmt.Sprintf("column %s value %q at row %d is not %d characters",
					rule.Column, s, i, rule.Length)
			}
		}
	}
	return ""
}
