// Package schema checks projected API values against their external contract
// and renders failures as a readable, deterministic report.
//
// A Validator is used while building a value: each field is read through a
// typed accessor that records a violation when the input does not satisfy
// the constraint. Fields must be visited in the order they are declared by
// the API definition so that reports are stable.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	dErrors "bpd/pkg/domain-errors"
)

// TimestampLayout is the canonical ISO-8601 form used for every date field.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Violation is one failed constraint at a field path.
type Violation struct {
	Path       string
	Constraint string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Constraint
}

// ValidationError carries every violation found while validating a value.
type ValidationError struct {
	Title      string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return e.Title + "\n" + e.Report()
}

// Report returns one line per violation in visit order.
func (e *ValidationError) Report() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes a CodeValidation domain error so callers can classify the
// failure with dErrors.HasCode.
func (e *ValidationError) Unwrap() error {
	return dErrors.New(dErrors.CodeValidation, e.Title)
}

// Validator accumulates violations under a path prefix.
type Validator struct {
	prefix     string
	violations *[]Violation
}

// New returns an empty root validator.
func New() *Validator {
	return &Validator{violations: &[]Violation{}}
}

// At returns a child validator rooted at a nested field; violations are
// shared with the parent.
func (v *Validator) At(field string) *Validator {
	return &Validator{prefix: v.path(field), violations: v.violations}
}

// Index returns a child validator for a list element.
func (v *Validator) Index(i int) *Validator {
	return v.At(strconv.Itoa(i))
}

func (v *Validator) path(field string) string {
	if v.prefix == "" {
		return field
	}
	return v.prefix + "." + field
}

// Fail records a violation for field.
func (v *Validator) Fail(field, constraint string) {
	*v.violations = append(*v.violations, Violation{Path: v.path(field), Constraint: constraint})
}

// Valid reports whether no violation has been recorded.
func (v *Validator) Valid() bool {
	return len(*v.violations) == 0
}

// Err returns a *ValidationError when violations exist, nil otherwise.
func (v *Validator) Err(title string) error {
	if v.Valid() {
		return nil
	}
	out := make([]Violation, len(*v.violations))
	copy(out, *v.violations)
	return &ValidationError{Title: title, Violations: out}
}

// -----------------------------------------------------------------------------
// Field accessors
// -----------------------------------------------------------------------------

// RequiredString returns *s, recording a violation when nil or empty.
func (v *Validator) RequiredString(field string, s *string) string {
	if s == nil {
		v.Fail(field, "is required")
		return ""
	}
	if *s == "" {
		v.Fail(field, "must be a non-empty string")
	}
	return *s
}

// Pattern checks s against re and names the expected type in the report.
func (v *Validator) Pattern(field, s string, re *regexp.Regexp, typeName string) string {
	if !re.MatchString(s) {
		v.Fail(field, fmt.Sprintf("is not a valid [%s]", typeName))
	}
	return s
}

// RequiredBool returns *b, recording a violation when nil.
func (v *Validator) RequiredBool(field string, b *bool) bool {
	if b == nil {
		v.Fail(field, "is required")
		return false
	}
	return *b
}

// RequiredInt returns *n, recording a violation when nil.
func (v *Validator) RequiredInt(field string, n *int64) int64 {
	if n == nil {
		v.Fail(field, "is required")
		return 0
	}
	return *n
}

// RequiredNonNegativeInt additionally requires *n >= 0.
func (v *Validator) RequiredNonNegativeInt(field string, n *int64) int64 {
	val := v.RequiredInt(field, n)
	if n != nil && val < 0 {
		v.Fail(field, "must be a non-negative integer")
	}
	return val
}

// RequiredNumber returns *f, recording a violation when nil.
func (v *Validator) RequiredNumber(field string, f *float64) float64 {
	if f == nil {
		v.Fail(field, "is required")
		return 0
	}
	return *f
}

// RequiredNonNegativeNumber additionally requires *f >= 0.
func (v *Validator) RequiredNonNegativeNumber(field string, f *float64) float64 {
	val := v.RequiredNumber(field, f)
	if f != nil && val < 0 {
		v.Fail(field, "must be a non-negative number")
	}
	return val
}

// RequiredTimestamp formats *t, recording a violation when nil or zero.
func (v *Validator) RequiredTimestamp(field string, t *time.Time) string {
	if t == nil || t.IsZero() {
		v.Fail(field, "is required")
		return ""
	}
	return FormatTimestamp(*t)
}

// OptionalTimestamp formats *t when present.
func OptionalTimestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}
