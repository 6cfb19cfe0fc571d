// Package identity decides whether a caller may access a citizen's data,
// given the x-citizen-id value it presented.
package identity

import (
	"context"
	"log/slog"

	"bpd/internal/supporttoken"
	"bpd/pkg/domain"
	dErrors "bpd/pkg/domain-errors"
	pstrings "bpd/pkg/platform/strings"
	"bpd/pkg/requestcontext"
)

// TokenVerifier verifies support token signatures and claims.
type TokenVerifier interface {
	Verify(token domain.SupportToken) (*supporttoken.Verified, error)
}

// Blacklist reports revoked support tokens by fingerprint.
type Blacklist interface {
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
}

// errForbidden is the only error a failed delegation check produces, whatever
// the underlying reason.
var errForbidden = dErrors.New(dErrors.CodeForbidden, "forbidden")

// Resolver turns a CitizenID into the fiscal code the request may act on.
type Resolver struct {
	verifier  TokenVerifier
	blacklist Blacklist
	logger    *slog.Logger
}

// NewResolver builds a Resolver. blacklist may be nil to disable revocation
// checks.
func NewResolver(verifier TokenVerifier, blacklist Blacklist, logger *slog.Logger) *Resolver {
	return &Resolver{verifier: verifier, blacklist: blacklist, logger: logger}
}

// Resolve returns the fiscal code a request may act on.
//
// A Direct id is returned unchanged.
//
// Errors: CodeForbidden for any delegation failure (malformed, bad
// signature, wrong issuer/audience, expired, revoked); CodeInternal when the
// blacklist cannot be consulted.
func (r *Resolver) Resolve(ctx context.Context, id domain.CitizenID) (domain.FiscalCode, error) {
	if fc, ok := id.FiscalCode(); ok {
		// TODO: restrict direct fiscal codes to the admin group once operators
		// are migrated to support tokens.
		r.logger.DebugContext(ctx, "direct citizen identifier",
			"request_id", requestcontext.RequestID(ctx),
			"fiscal_code", fc.Redacted(),
		)
		return fc, nil
	}
	token, ok := id.SupportToken()
	if !ok {
		return "", errForbidden
	}
	verified, err := r.VerifyDelegated(ctx, token)
	if err != nil {
		return "", err
	}
	return verified.FiscalCode, nil
}

// VerifyDelegated verifies a support token and checks the blacklist,
// returning the trusted claims.
func (r *Resolver) VerifyDelegated(ctx context.Context, token domain.SupportToken) (*supporttoken.Verified, error) {
	requestID := requestcontext.RequestID(ctx)

	verified, err := r.verifier.Verify(token)
	if err != nil {
		r.logger.WarnContext(ctx, "support token rejected",
			"request_id", requestID,
			"token_fingerprint", shortFingerprint(supporttoken.Fingerprint(token)),
			"reason", err.Error(),
		)
		return nil, errForbidden
	}

	if r.blacklist != nil {
		revoked, err := r.blacklist.IsRevoked(ctx, verified.Fingerprint)
		if err != nil {
			r.logger.ErrorContext(ctx, "support token blacklist check failed",
				"request_id", requestID,
				"error", err,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Support token check error")
		}
		if revoked {
			r.logger.WarnContext(ctx, "support token revoked",
				"request_id", requestID,
				"token_fingerprint", shortFingerprint(verified.Fingerprint),
			)
			return nil, errForbidden
		}
	}
	return verified, nil
}

func shortFingerprint(fp string) string {
	return pstrings.Truncate(fp, 12)
}
