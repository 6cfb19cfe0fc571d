package domain

import (
	"regexp"
	"strings"

	dErrors "bpd/pkg/domain-errors"
	pstrings "bpd/pkg/platform/strings"
)

// FiscalCode is the citizen's primary personal identifier.
// Invariant: 16 uppercase alphanumerics matching the national format,
// including the omocodia substitutions for digit positions.
//
// Usage: construct via ParseFiscalCode at trust boundaries; direct casting
// bypasses validation and is reserved for values that were already verified
// (e.g. the claim of a signature-checked support token).
type FiscalCode string

const fiscalCodeLength = 16

// FiscalCodePattern is the format every FiscalCode satisfies.
var FiscalCodePattern = regexp.MustCompile(
	`^[A-Z]{6}[0-9LMNPQRSTUV]{2}[ABCDEHLMPRST][0-9LMNPQRSTUV]{2}[A-Z][0-9LMNPQRSTUV]{3}[A-Z]$`,
)

// ParseFiscalCode constructs a FiscalCode from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or malformed.
func ParseFiscalCode(s string) (FiscalCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "fiscal code cannot be empty")
	}
	if !IsFiscalCode(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid fiscal code format")
	}
	return FiscalCode(s), nil
}

// IsFiscalCode reports whether s has the fiscal code format.
func IsFiscalCode(s string) bool {
	return len(s) == fiscalCodeLength && FiscalCodePattern.MatchString(s)
}

func (f FiscalCode) String() string { return string(f) }

// Redacted returns a log-safe form that keeps only the first three characters.
func (f FiscalCode) Redacted() string {
	return pstrings.Mask(string(f), 3)
}
