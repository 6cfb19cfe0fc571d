package service

import (
	"context"
	"time"

	"bpd/internal/bpd/api"
	"bpd/internal/bpd/outcome"
	"bpd/pkg/domain"
	dErrors "bpd/pkg/domain-errors"
	audit "bpd/pkg/platform/audit"
	"bpd/pkg/requestcontext"
	"bpd/pkg/schema"
)

// BlacklistSupportToken revokes the support token carried by id.
//
// Order: admin group check, token verification, audit, revocation. The
// blacklist entry lives as long as the token would have been valid, or the
// configured fallback TTL when the token has no expiry.
func (s *Service) BlacklistSupportToken(ctx context.Context, id domain.CitizenID) outcome.Outcome {
	return s.run(ctx, audit.OperationBlacklistSupportToken, func(ctx context.Context) (any, error) {
		if s.revoker == nil || s.members == nil {
			return nil, dErrors.New(dErrors.CodeInternal, "Support token revocation not configured")
		}
		token, ok := id.SupportToken()
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "x-citizen-id must be a support token")
		}
		if err := s.requireAdmin(ctx); err != nil {
			return nil, err
		}

		verified, err := s.resolver.VerifyDelegated(ctx, token)
		if err != nil {
			return nil, err
		}
		if err := s.recordAudit(ctx, audit.OperationBlacklistSupportToken, verified.FiscalCode); err != nil {
			return nil, err
		}

		now := requestcontext.Now(ctx)
		ttl := s.revocationTTL
		if verified.ExpiresAt != nil {
			ttl = verified.ExpiresAt.Sub(now)
			if ttl < time.Second {
				ttl = time.Second
			}
		}
		err = s.stage(ctx, "bpd.revoke", func(ctx context.Context) error {
			if err := s.revoker.Revoke(ctx, verified.Fingerprint, ttl); err != nil {
				s.logger.ErrorContext(ctx, "support token revocation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				return dErrors.Wrap(err, dErrors.CodeInternal, "Support token blacklist error")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		expiresAt := schema.FormatTimestamp(now.Add(ttl))
		s.logger.InfoContext(ctx, "support token revoked",
			"request_id", requestcontext.RequestID(ctx),
			"expires_at", expiresAt,
		)
		return &api.SupportTokenRevocation{Revoked: true, ExpiresAt: &expiresAt}, nil
	})
}

func (s *Service) requireAdmin(ctx context.Context) error {
	return s.stage(ctx, "bpd.membership", func(ctx context.Context) error {
		actor, ok := requestcontext.ActorFrom(ctx)
		if !ok {
			return dErrors.New(dErrors.CodeUnauthorized, "authenticated actor required")
		}
		isAdmin, err := s.members.IsAdmin(ctx, actor.Subject)
		if err != nil {
			s.logger.ErrorContext(ctx, "admin group check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeInternal, "Group membership check error")
		}
		if !isAdmin {
			s.logger.WarnContext(ctx, "support token revocation denied: actor not in admin group",
				"request_id", requestcontext.RequestID(ctx),
			)
			return dErrors.New(dErrors.CodeForbidden, "forbidden")
		}
		return nil
	})
}
