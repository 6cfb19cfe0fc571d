package domain

import (
	"regexp"
	"strings"

	dErrors "bpd/pkg/domain-errors"
)

// CitizenIDKind discriminates the two CitizenID variants.
type CitizenIDKind int

const (
	// CitizenIDDirect carries a plain fiscal code.
	CitizenIDDirect CitizenIDKind = iota + 1
	// CitizenIDDelegated carries a signed support token whose payload embeds
	// the fiscal code.
	CitizenIDDelegated
)

func (k CitizenIDKind) String() string {
	switch k {
	case CitizenIDDirect:
		return "FiscalCode"
	case CitizenIDDelegated:
		return "SupportToken"
	default:
		return "unknown"
	}
}

// SupportToken is a compact JWS asserting that the bearer may act on behalf
// of a citizen. Its claims are untrusted until the signature is verified.
type SupportToken string

// compact JWS: header.payload.signature, base64url without padding.
var supportTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

// CitizenID is the tagged union of a direct fiscal code or a delegated
// support token. The zero value is invalid.
type CitizenID struct {
	kind       CitizenIDKind
	fiscalCode FiscalCode
	token      SupportToken
}

// DirectCitizenID wraps a fiscal code.
func DirectCitizenID(fc FiscalCode) CitizenID {
	return CitizenID{kind: CitizenIDDirect, fiscalCode: fc}
}

// DelegatedCitizenID wraps a support token.
func DelegatedCitizenID(token SupportToken) CitizenID {
	return CitizenID{kind: CitizenIDDelegated, token: token}
}

// ParseCitizenID classifies a raw x-citizen-id header value.
//
// Usage: call from handlers when reading the header. A value matching the
// fiscal code format is Direct; a value shaped like a compact JWS is
// Delegated. No signature check happens here.
//
// Errors: returns CodeValidation when the value is neither.
func ParseCitizenID(raw string) (CitizenID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CitizenID{}, dErrors.New(dErrors.CodeValidation, "missing citizen id")
	}
	if IsFiscalCode(raw) {
		return DirectCitizenID(FiscalCode(raw)), nil
	}
	if supportTokenPattern.MatchString(raw) {
		return DelegatedCitizenID(SupportToken(raw)), nil
	}
	return CitizenID{}, dErrors.New(dErrors.CodeValidation, "invalid citizen id")
}

// Kind returns the variant.
func (c CitizenID) Kind() CitizenIDKind { return c.kind }

// FiscalCode returns the fiscal code of a Direct id.
func (c CitizenID) FiscalCode() (FiscalCode, bool) {
	return c.fiscalCode, c.kind == CitizenIDDirect
}

// SupportToken returns the token of a Delegated id.
func (c CitizenID) SupportToken() (SupportToken, bool) {
	return c.token, c.kind == CitizenIDDelegated
}

// IsZero reports whether the id was never initialised.
func (c CitizenID) IsZero() bool { return c.kind == 0 }
